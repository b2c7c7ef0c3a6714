package domain

import (
	"context"
	"time"
)

// Event is a message emitted by a plugin towards the frontend.
type Event struct {
	Name      string    `json:"event"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps an event with the current time.
func NewEvent(name string, payload any) Event {
	return Event{Name: name, Payload: payload, Timestamp: time.Now()}
}

// Emitter publishes events. Implementations must not block the caller.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ctx context.Context, event Event)

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, event Event) {
	f(ctx, event)
}
