package logger

import (
	"context"
	"log/slog"

	"github.com/aretw0/appshell/pkg/domain"
)

// EventName is the event log records are forwarded on.
const EventName = "log://log"

// Record is the payload of a forwarded log event.
type Record struct {
	Level     int               `json:"level"`
	Message   string            `json:"message"`
	KeyValues map[string]string `json:"keyValues,omitempty"`
}

// webviewHandler forwards records to the frontend through an emitter.
type webviewHandler struct {
	emitter domain.Emitter
	level   slog.Leveler
	attrs   []slog.Attr
	group   string
}

func (h *webviewHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *webviewHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := Record{
		Level:   frontendLevel(r.Level),
		Message: r.Message,
	}
	add := func(a slog.Attr) bool {
		if rec.KeyValues == nil {
			rec.KeyValues = make(map[string]string)
		}
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		rec.KeyValues[key] = a.Value.String()
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(add)

	h.emitter.Emit(ctx, domain.NewEvent(EventName, rec))
	return nil
}

func (h *webviewHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *webviewHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		name = clone.group + "." + name
	}
	clone.group = name
	return &clone
}
