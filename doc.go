/*
Package appshell is a cross-platform application shell: it composes a fixed,
ordered set of capability plugins selected by the build's platform and
profile, then hands the composed application to a host run loop.

# Composition

The default plugin table is, in order:

  - barcode-scanner, registered on mobile targets only (-tags ios or android)
  - os, always registered
  - log, registered on debug builds only (-tags debug), at level Info

Startup is fail-fast. The first plugin whose registration fails aborts the
bootstrap: later plugins are never attempted and the run loop is never
entered. A run loop that ends abnormally is fatal as well.

# Usage

Binaries call Main, which exits the process on failure:

	package main

	import "github.com/aretw0/appshell"

	func main() {
		appshell.Main()
	}

Embedders use Run to keep control over the outcome and to swap the host,
the classification or the plugin table:

	err := appshell.Run(ctx,
		appshell.WithConfig(cfg),
		appshell.WithHost(myHost),
	)
	var regErr *bootstrap.RegistrationError
	if errors.As(err, &regErr) {
		// plugin regErr.Plugin failed at position regErr.Position
	}
*/
package appshell
