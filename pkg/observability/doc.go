/*
Package observability provides the Prometheus instrumentation for appshell.

It counts plugin registration outcomes during bootstrap and command
invocations served by the host, using a dedicated prometheus.Registry per
application so tests and multiple hosts never collide on the global registry.
*/
package observability
