/*
Package bootstrap composes an application from a declared, ordered table of
capability plugins and hands it to a host runtime.

Each table entry pairs a plugin with an inclusion predicate evaluated against
the build-time platform classification. Compose walks the table once, in
order: excluded plugins are skipped without side effects, included plugins are
registered against a fresh Context, and the first registration failure stops
the walk. The host run loop is only entered when every included plugin
registered successfully.

# Usage

	entries := []bootstrap.Entry{
		{Plugin: barcode.New(), Include: bootstrap.IfMobile},
		{Plugin: osinfo.New(), Include: bootstrap.Always},
		{Plugin: logger.New(logger.WithLevel(slog.LevelInfo)), Include: bootstrap.IfDebug},
	}

	err := bootstrap.Compose(ctx, platform.Detect(), entries, host.New())
	if err != nil {
		log.Fatal(err)
	}
*/
package bootstrap
