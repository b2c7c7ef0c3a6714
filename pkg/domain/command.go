package domain

import "context"

// Command is the signature every plugin command implements.
// It receives a context and the decoded JSON arguments, and returns a
// JSON-serializable result or an error.
type Command func(ctx context.Context, args map[string]any) (any, error)

// PluginHandle records a plugin accepted into a Bootstrap Context. Position is
// the index of the plugin's entry in the declared table.
type PluginHandle struct {
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Commands []string `json:"commands"`
}
