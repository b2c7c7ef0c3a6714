package appshell

import (
	"context"
	"log/slog"
	"os"

	"github.com/aretw0/appshell/internal/config"
	"github.com/aretw0/appshell/internal/logging"
	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/aretw0/appshell/pkg/host"
	"github.com/aretw0/appshell/pkg/observability"
	"github.com/aretw0/appshell/pkg/platform"
)

type options struct {
	cfg            *config.Config
	classification *platform.Classification
	entries        []bootstrap.Entry
	host           bootstrap.Host
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// Option configures Run.
type Option func(*options)

// WithConfig replaces the configuration loaded from appshell.yaml.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = &cfg
	}
}

// WithClassification replaces the build-time classification.
func WithClassification(cls platform.Classification) Option {
	return func(o *options) {
		o.classification = &cls
	}
}

// WithEntries replaces the default plugin table.
func WithEntries(entries ...bootstrap.Entry) Option {
	return func(o *options) {
		o.entries = entries
	}
}

// WithHost replaces the host built from the configuration.
func WithHost(h bootstrap.Host) Option {
	return func(o *options) {
		o.host = h
	}
}

// WithLogger configures the shell's diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics configures the Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// NewHost builds the host runtime described by cfg.
func NewHost(cfg config.Config, logger *slog.Logger) (*host.Host, error) {
	timeout, err := cfg.ShutdownTimeout()
	if err != nil {
		return nil, err
	}
	return host.New(
		host.WithAddr(cfg.Host.Addr),
		host.WithTransport(host.Transport(cfg.Host.Transport)),
		host.WithShutdownTimeout(timeout),
		host.WithVersion(Version),
		host.WithLogger(logger),
	), nil
}

// Run bootstraps the application and blocks in the host run loop.
// It returns a *bootstrap.RegistrationError when a plugin fails to register
// and a *bootstrap.RunError when the run loop ends abnormally.
func Run(ctx context.Context, opts ...Option) error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.cfg == nil {
		cfg, err := config.Load(config.DefaultFile)
		if err != nil {
			return err
		}
		o.cfg = &cfg
	}
	cfg := *o.cfg

	if o.logger == nil {
		o.logger = logging.NewWithFormat(os.Stderr, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	}
	if o.classification == nil {
		cls := platform.Detect()
		o.classification = &cls
	}
	if o.entries == nil {
		o.entries = DefaultPlugins(cfg)
	}
	if o.host == nil {
		h, err := NewHost(cfg, o.logger)
		if err != nil {
			return err
		}
		o.host = h
	}
	if o.metrics == nil {
		o.metrics = observability.NewMetrics()
	}

	o.logger.Info("bootstrapping",
		"identifier", cfg.Identifier,
		"platform", o.classification.String(),
		"version", Version,
	)

	return bootstrap.Compose(ctx, *o.classification, o.entries, o.host,
		bootstrap.WithIdentifier(cfg.Identifier),
		bootstrap.WithLogger(o.logger),
		bootstrap.WithMetrics(o.metrics),
	)
}

// Main runs the application with its defaults and exits the process with a
// non-zero status, after reporting the failure, when startup or the run loop
// fails.
func Main() {
	if err := Run(context.Background()); err != nil {
		logging.New(slog.LevelError).Error("error while running application", "err", err)
		os.Exit(1)
	}
}
