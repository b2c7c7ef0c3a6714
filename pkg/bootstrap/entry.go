package bootstrap

import "github.com/aretw0/appshell/pkg/platform"

// Plugin is an optional unit of functionality attachable to a Context.
type Plugin interface {
	// Name identifies the plugin. It must be unique within a Context.
	Name() string
	// Register attaches the plugin's commands, state and hooks to the context.
	// A returned error aborts the whole bootstrap.
	Register(c *Context) error
}

// Predicate decides whether an entry applies to a classification.
type Predicate func(platform.Classification) bool

// Always includes the plugin on every target.
func Always(platform.Classification) bool { return true }

// IfMobile includes the plugin on mobile targets only.
func IfMobile(c platform.Classification) bool { return c.IsMobileTarget() }

// IfDebug includes the plugin in debug builds only.
func IfDebug(c platform.Classification) bool { return c.IsDebugProfile() }

// Entry pairs a plugin with its inclusion predicate.
// A nil Include behaves like Always. Condition is the human readable form of
// Include, shown by tooling that prints the table.
type Entry struct {
	Plugin    Plugin
	Include   Predicate
	Condition string
}

// Describe returns the entry's condition label.
func (e Entry) Describe() string {
	switch {
	case e.Condition != "":
		return e.Condition
	case e.Include == nil:
		return "always"
	default:
		return "custom"
	}
}

func (e Entry) applies(c platform.Classification) bool {
	if e.Include == nil {
		return true
	}
	return e.Include(c)
}

// Plan returns, in declared order, the entries that would be attempted for a
// classification. It has no side effects.
func Plan(c platform.Classification, entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.applies(c) {
			out = append(out, e)
		}
	}
	return out
}
