// Package events fans plugin events out to live subscribers (the SSE stream
// of the HTTP bridge, tests, ...). Delivery is best effort: a subscriber whose
// buffer is full misses the event instead of blocking the emitter.
package events

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/appshell/pkg/domain"
)

// DefaultBufferSize is the per-subscriber channel capacity.
const DefaultBufferSize = 32

// Bus handles active event subscriptions.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[chan domain.Event]string // channel -> event name filter ("" = all)
	logger      *slog.Logger
}

// NewBus creates an empty bus. A nil logger discards diagnostics.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bus{
		subscribers: make(map[chan domain.Event]string),
		logger:      logger,
	}
}

// Subscribe registers a subscriber for events named filter, or for every
// event when filter is empty. The returned cancel func closes the channel.
func (b *Bus) Subscribe(filter string) (<-chan domain.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.Event, DefaultBufferSize)
	b.subscribers[ch] = filter

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
	}
}

// Emit implements domain.Emitter.
func (b *Bus) Emit(_ context.Context, event domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch, filter := range b.subscribers {
		if filter != "" && filter != event.Name {
			continue
		}
		select {
		case ch <- event:
		default:
			b.logger.Warn("events: subscriber buffer full, dropping event", "event", event.Name)
		}
	}
}

// Len returns the number of active subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close drops every subscriber.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		delete(b.subscribers, ch)
		close(ch)
	}
}
