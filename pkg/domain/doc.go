/*
Package domain contains the core types shared by the appshell bootstrap, the
host runtime and the capability plugins.

It is kept free of I/O and transport concerns so that plugins and adapters can
depend on it without pulling in the host.

# Key Entities

  - Command: A named operation a plugin exposes to the frontend.
  - Event: A message emitted by a plugin and streamed to subscribers.
  - PluginHandle: The record of a plugin accepted into a Bootstrap Context.
*/
package domain
