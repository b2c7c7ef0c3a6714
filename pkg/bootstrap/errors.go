package bootstrap

import "fmt"

// RegistrationError reports the plugin whose registration aborted bootstrap.
type RegistrationError struct {
	Plugin   string
	Position int // index in the declared table
	Err      error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("bootstrap: registering plugin %q (entry %d) failed: %v", e.Plugin, e.Position, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// RunError reports an abnormal termination of the host run loop.
type RunError struct {
	Err error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("bootstrap: run loop terminated abnormally: %v", e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
