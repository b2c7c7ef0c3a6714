package bootstrap

import (
	"context"
	"errors"

	"github.com/aretw0/appshell/pkg/observability"
	"github.com/aretw0/appshell/pkg/platform"
)

// Host is the runtime that drives a composed application.
// Run blocks until the application terminates. A nil error is a normal
// termination; anything else is an abnormal one.
type Host interface {
	Run(ctx context.Context, c *Context) error
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(ctx context.Context, c *Context) error

// Run calls f.
func (f HostFunc) Run(ctx context.Context, c *Context) error {
	return f(ctx, c)
}

// Apply registers every entry that applies to cls, in declared order, and
// stops at the first failure. On failure the context moves to StateFailed
// and the returned error is a *RegistrationError.
func (c *Context) Apply(cls platform.Classification, entries []Entry) error {
	c.setClassification(cls)
	c.logger.Debug("bootstrap: composing plugins", "classification", cls.String(), "entries", len(entries))

	for i, entry := range entries {
		name := entry.Plugin.Name()
		if !entry.applies(cls) {
			c.logger.Debug("bootstrap: plugin skipped", "plugin", name, "entry", i)
			c.metrics.Registration(name, observability.OutcomeSkipped)
			continue
		}

		if err := c.register(entry.Plugin, i); err != nil {
			c.metrics.Registration(name, observability.OutcomeFailure)
			regErr := &RegistrationError{Plugin: name, Position: i, Err: err}
			c.fail(regErr)
			c.logger.Error("bootstrap: plugin registration failed", "plugin", name, "entry", i, "err", err)
			return regErr
		}
		c.metrics.Registration(name, observability.OutcomeSuccess)
		c.logger.Debug("bootstrap: plugin registered", "plugin", name, "entry", i)
	}
	return nil
}

// Launch hands a fully composed context to the host and blocks until the run
// loop returns. An abnormal termination is returned as a *RunError.
func Launch(ctx context.Context, c *Context, host Host) error {
	if host == nil {
		return &RunError{Err: errors.New("no host runtime configured")}
	}
	if err := c.Err(); err != nil {
		return err
	}

	c.logger.Info("bootstrap: starting run loop", "plugins", len(c.Plugins()))
	if err := host.Run(ctx, c); err != nil {
		return &RunError{Err: err}
	}
	c.logger.Info("bootstrap: run loop finished")
	return nil
}

// Compose builds a fresh Context, applies entries for cls and launches host.
// It is a fail-fast fold: the host is never reached unless every applicable
// plugin registered.
func Compose(ctx context.Context, cls platform.Classification, entries []Entry, host Host, opts ...Option) error {
	c := NewContext(opts...)
	if err := c.Apply(cls, entries); err != nil {
		return err
	}
	return Launch(ctx, c, host)
}
