package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/appshell/pkg/domain"
	"github.com/aretw0/appshell/pkg/events"
	"github.com/aretw0/appshell/pkg/observability"
	"github.com/aretw0/appshell/pkg/platform"
	"github.com/aretw0/appshell/pkg/registry"
)

// State is the lifecycle phase of a Context.
type State int

const (
	StateAccepting State = iota
	StateRunning
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAccepting:
		return "accepting"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ShutdownHook runs when the host run loop ends.
type ShutdownHook func(ctx context.Context) error

// Context is the in-progress application under construction.
//
// It is owned by a single bootstrap call: plugins mutate it only from inside
// their Register method, and it leaves the accepting state exactly once,
// either to running (handed to the host) or to failed.
type Context struct {
	mu sync.Mutex

	identifier     string
	classification platform.Classification
	state          State
	failure        error

	handles  []domain.PluginHandle
	current  *domain.PluginHandle
	commands *registry.Registry
	managed  map[string]any
	hooks    []ShutdownHook

	bus     *events.Bus
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Context.
type Option func(*Context)

// WithIdentifier sets the application identifier (e.g. "com.example.app").
func WithIdentifier(id string) Option {
	return func(c *Context) {
		c.identifier = id
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithMetrics configures the Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Context) {
		c.metrics = m
	}
}

// NewContext creates an empty Context in the accepting state.
func NewContext(opts ...Option) *Context {
	c := &Context{
		identifier: "appshell",
		state:      StateAccepting,
		commands:   registry.NewRegistry(),
		managed:    make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.metrics == nil {
		c.metrics = observability.NewMetrics()
	}
	c.bus = events.NewBus(c.logger)
	return c
}

// Identifier returns the application identifier.
func (c *Context) Identifier() string { return c.identifier }

// Classification returns the classification the context was composed for.
func (c *Context) Classification() platform.Classification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.classification
}

// Logger returns the context logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Metrics returns the application collectors.
func (c *Context) Metrics() *observability.Metrics { return c.metrics }

// Commands returns the command registry plugins attached to.
func (c *Context) Commands() *registry.Registry { return c.commands }

// Events returns the bus plugin events are emitted on.
func (c *Context) Events() *events.Bus { return c.bus }

// Emit publishes an event to the frontend subscribers.
func (c *Context) Emit(ctx context.Context, name string, payload any) {
	c.bus.Emit(ctx, domain.NewEvent(name, payload))
}

// State returns the current lifecycle phase.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure that moved the context to StateFailed, if any.
func (c *Context) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Plugins returns the accepted plugins in registration order.
func (c *Context) Plugins() []domain.PluginHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.PluginHandle, len(c.handles))
	copy(out, c.handles)
	return out
}

// Register attempts to attach p to the context.
// It fails if the context is no longer accepting, if a plugin with the same
// name was already attempted, or if p.Register fails. The handle position is
// the registration order; Apply records the declared entry index instead.
func (c *Context) Register(p Plugin) error {
	return c.register(p, -1)
}

func (c *Context) register(p Plugin, position int) error {
	name := p.Name()

	c.mu.Lock()
	if c.state != StateAccepting {
		c.mu.Unlock()
		return domain.ErrContextClosed
	}
	if c.current != nil {
		c.mu.Unlock()
		return fmt.Errorf("plugin %q registered from inside %q", name, c.current.Name)
	}
	for _, h := range c.handles {
		if h.Name == name {
			c.mu.Unlock()
			return fmt.Errorf("%w: %s", domain.ErrDuplicatePlugin, name)
		}
	}
	if position < 0 {
		position = len(c.handles)
	}
	c.current = &domain.PluginHandle{Name: name, Position: position}
	c.mu.Unlock()

	err := p.Register(c)

	c.mu.Lock()
	defer c.mu.Unlock()
	handle := *c.current
	c.current = nil
	if err != nil {
		return err
	}
	c.handles = append(c.handles, handle)
	return nil
}

// AddCommand exposes a command of the plugin currently registering, under
// the name registry.CommandName(plugin, command).
func (c *Context) AddCommand(command string, fn domain.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return fmt.Errorf("command %q added outside of plugin registration", command)
	}
	name := registry.CommandName(c.current.Name, command)
	if err := c.commands.Register(name, fn); err != nil {
		return err
	}
	c.current.Commands = append(c.current.Commands, name)
	return nil
}

// Manage stores process-wide state under key. Storing a key twice is a
// conflicting registration.
func (c *Context) Manage(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.managed[key]; exists {
		return fmt.Errorf("managed state %q already registered", key)
	}
	c.managed[key] = value
	return nil
}

// Managed returns the state stored under key.
func (c *Context) Managed(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.managed[key]
	return v, ok
}

// OnShutdown registers a hook run by Shutdown, in reverse registration order.
func (c *Context) OnShutdown(hook ShutdownHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Begin hands the context to a run loop. It succeeds exactly once.
func (c *Context) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAccepting {
		return fmt.Errorf("%w: context is %s", domain.ErrContextClosed, c.state)
	}
	c.state = StateRunning
	return nil
}

// Shutdown runs the shutdown hooks and closes the event bus.
func (c *Context) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	hooks := c.hooks
	c.hooks = nil
	c.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.bus.Close()
	return errors.Join(errs...)
}

func (c *Context) setClassification(cls platform.Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.classification = cls
}

func (c *Context) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAccepting {
		c.state = StateFailed
		c.failure = err
	}
}

// Invoke executes a registered command and records its outcome.
func (c *Context) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	start := time.Now()
	result, err := c.commands.Execute(ctx, name, args)
	took := time.Since(start)
	c.metrics.Command(name, took, err)
	if err != nil {
		c.logger.Debug("command failed", "command", name, "took", took, "err", err)
		return nil, err
	}
	c.logger.Debug("command served", "command", name, "took", took)
	return result, nil
}
