// Package http is the IPC bridge between a frontend and the running
// application: commands are invoked with POST /ipc/{plugin}/{command} and
// plugin events stream out of GET /events.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/aretw0/appshell/pkg/domain"
	"github.com/aretw0/appshell/pkg/registry"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds an IPC request body. Scanned frames are the largest payloads.
const maxBodyBytes = 16 << 20

// Server exposes a running bootstrap.Context over HTTP.
type Server struct {
	app    *bootstrap.Context
	logger *slog.Logger
}

// NewHandler creates the HTTP handler for app.
func NewHandler(app *bootstrap.Context) http.Handler {
	s := &Server{app: app, logger: app.Logger()}

	r := chi.NewRouter()
	r.Post("/ipc/{plugin}/{command}", s.Invoke)
	r.Get("/plugins", s.GetPlugins)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/healthz", s.GetHealth)
	r.Handle("/metrics", app.Metrics().Handler())

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Response is the body of every IPC reply.
type Response struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Invoke handles POST /ipc/{plugin}/{command}.
func (s *Server) Invoke(w http.ResponseWriter, r *http.Request) {
	name := registry.CommandName(chi.URLParam(r, "plugin"), chi.URLParam(r, "command"))
	if !s.app.Commands().Has(name) {
		s.writeJSON(w, http.StatusNotFound, Response{Error: fmt.Sprintf("%v: %s", domain.ErrCommandNotFound, name)})
		return
	}

	args := map[string]any{}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, Response{Error: "reading request body failed"})
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			s.logger.Warn("ipc: invalid request body", "command", name, "err", err)
			s.writeJSON(w, http.StatusBadRequest, Response{Error: "request body must be a JSON object"})
			return
		}
	}

	result, err := s.app.Invoke(r.Context(), name, args)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrCommandNotFound) {
			status = http.StatusNotFound
		}
		s.writeJSON(w, status, Response{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, Response{Result: result})
}

// GetPlugins handles GET /plugins.
func (s *Server) GetPlugins(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.app.Plugins())
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"state":    s.app.State().String(),
		"platform": s.app.Classification().String(),
	})
}

// SubscribeEvents handles GET /events (SSE). The optional "event" query
// parameter restricts the stream to one event name.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("events: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	filter := r.URL.Query().Get("event")
	ch, cancel := s.app.Events().Subscribe(filter)
	defer cancel()

	s.logger.Debug("events: subscriber connected", "filter", filter)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("events: subscriber disconnected", "filter", filter)
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Warn("events: dropping unencodable event", "event", ev.Name, "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
