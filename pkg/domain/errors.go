package domain

import "errors"

// ErrDuplicatePlugin is returned when a plugin name is registered twice in the same context.
var ErrDuplicatePlugin = errors.New("plugin already registered")

// ErrDuplicateCommand is returned when two plugins expose the same command name.
var ErrDuplicateCommand = errors.New("command already registered")

// ErrCommandNotFound is returned when an invoked command has no handler.
var ErrCommandNotFound = errors.New("command not found")

// ErrContextClosed is returned when a Bootstrap Context is mutated after it stopped accepting registrations.
var ErrContextClosed = errors.New("bootstrap context no longer accepts registrations")

// ErrPluginUnavailable is returned by a plugin that cannot attach on the current platform.
var ErrPluginUnavailable = errors.New("plugin unavailable on this platform")

// ErrPermissionDenied is returned when a capability requires a permission the user refused.
var ErrPermissionDenied = errors.New("permission denied")

// ErrScanCancelled is returned by an in-flight scan that was cancelled.
var ErrScanCancelled = errors.New("scan cancelled")
