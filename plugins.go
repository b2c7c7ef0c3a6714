package appshell

import (
	"github.com/aretw0/appshell/internal/config"
	"github.com/aretw0/appshell/internal/logging"
	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/aretw0/appshell/pkg/plugins/barcode"
	"github.com/aretw0/appshell/pkg/plugins/logger"
	"github.com/aretw0/appshell/pkg/plugins/osinfo"
)

// DefaultPlugins returns the application's plugin table in declaration order.
func DefaultPlugins(cfg config.Config) []bootstrap.Entry {
	formats := make([]barcode.Format, 0, len(cfg.Plugins.Barcode.Formats))
	for _, f := range cfg.Plugins.Barcode.Formats {
		formats = append(formats, barcode.Format(f))
	}

	targets := make([]logger.Target, 0, len(cfg.Plugins.Log.Targets))
	for _, t := range cfg.Plugins.Log.Targets {
		targets = append(targets, logger.Target(t))
	}

	return []bootstrap.Entry{
		{
			Plugin:    barcode.New(barcode.WithFormats(formats...)),
			Include:   bootstrap.IfMobile,
			Condition: "mobile targets",
		},
		{
			Plugin:    osinfo.New(),
			Include:   bootstrap.Always,
			Condition: "always",
		},
		{
			Plugin: logger.New(
				logger.WithLevel(logging.ParseLevel(cfg.Plugins.Log.Level)),
				logger.WithTargets(targets...),
				logger.WithDir(cfg.Plugins.Log.Dir),
				logger.WithRotation(cfg.Plugins.Log.MaxSizeMB, cfg.Plugins.Log.MaxBackups),
			),
			Include:   bootstrap.IfDebug,
			Condition: "debug builds",
		},
	}
}
