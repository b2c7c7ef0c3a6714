package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/appshell/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Registry manages the commands exposed by registered plugins.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]domain.Command
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]domain.Command),
	}
}

// CommandName builds the fully qualified name of a plugin command,
// e.g. "plugin:os|platform".
func CommandName(plugin, command string) string {
	return "plugin:" + plugin + "|" + command
}

// SplitCommandName is the inverse of CommandName.
func SplitCommandName(name string) (plugin, command string, ok bool) {
	rest, found := strings.CutPrefix(name, "plugin:")
	if !found {
		return "", "", false
	}
	plugin, command, ok = strings.Cut(rest, "|")
	if !ok || plugin == "" || command == "" {
		return "", "", false
	}
	return plugin, command, true
}

// Register adds a command to the registry.
// Registering the same name twice is a conflict and returns ErrDuplicateCommand.
func (r *Registry) Register(name string, fn domain.Command) error {
	if name == "" || fn == nil {
		return fmt.Errorf("invalid command registration %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCommand, name)
	}
	r.commands[name] = fn
	return nil
}

// Has reports whether a command is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commands[name]
	return ok
}

// Execute looks up a command by name and executes it.
// Returns ErrCommandNotFound if the command is not registered.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	fn, ok := r.commands[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCommandNotFound, name)
	}
	if args == nil {
		args = map[string]any{}
	}
	return fn(ctx, args)
}

// List returns the registered command names in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decode maps loosely typed command arguments onto a struct using its
// `mapstructure` tags. JSON numbers and strings are converted where needed.
func Decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
