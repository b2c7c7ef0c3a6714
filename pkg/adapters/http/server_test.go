package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/appshell/internal/testutils"
	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/aretw0/appshell/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoPlugin struct{}

func (echoPlugin) Name() string { return "echo" }

func (echoPlugin) Register(c *bootstrap.Context) error {
	if err := c.AddCommand("say", func(ctx context.Context, args map[string]any) (any, error) {
		return args["text"], nil
	}); err != nil {
		return err
	}
	return c.AddCommand("fail", func(ctx context.Context, args map[string]any) (any, error) {
		return nil, errors.New("boom")
	})
}

func newApp(t *testing.T) *bootstrap.Context {
	t.Helper()
	return testutils.RunningContext(t, echoPlugin{})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestInvoke(t *testing.T) {
	handler := NewHandler(newApp(t))

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantResult any
		wantErr    string
	}{
		{"success", "/ipc/echo/say", `{"text":"hi"}`, http.StatusOK, "hi", ""},
		{"empty body", "/ipc/echo/say", ``, http.StatusOK, nil, ""},
		{"unknown command", "/ipc/echo/shout", `{}`, http.StatusNotFound, nil, "command not found"},
		{"unknown plugin", "/ipc/nope/say", `{}`, http.StatusNotFound, nil, "command not found"},
		{"bad body", "/ipc/echo/say", `[1,2]`, http.StatusBadRequest, nil, "JSON object"},
		{"command error", "/ipc/echo/fail", `{}`, http.StatusInternalServerError, nil, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.Equal(t, tt.wantResult, resp.Result)
			if tt.wantErr != "" {
				assert.Contains(t, resp.Error, tt.wantErr)
			} else {
				assert.Empty(t, resp.Error)
			}
		})
	}
}

func TestGetPlugins(t *testing.T) {
	handler := NewHandler(newApp(t))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plugins", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var handles []domain.PluginHandle
	require.NoError(t, json.NewDecoder(w.Body).Decode(&handles))
	require.Len(t, handles, 1)
	assert.Equal(t, "echo", handles[0].Name)
	assert.ElementsMatch(t, []string{"plugin:echo|say", "plugin:echo|fail"}, handles[0].Commands)
}

func TestGetHealth(t *testing.T) {
	handler := NewHandler(newApp(t))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "running", body["state"])
}

func TestMetricsExposeCommandCounts(t *testing.T) {
	handler := NewHandler(newApp(t))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ipc/echo/say", nil))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `appshell_commands_total{command="plugin:echo|say",outcome="success"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	handler := NewHandler(newApp(t))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ipc/echo/say", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents_StreamsFilteredEvents(t *testing.T) {
	app := newApp(t)
	handler := NewHandler(app)

	req := httptest.NewRequest(http.MethodGet, "/events?event=log://log", nil)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool { return app.Events().Len() == 1 }, time.Second, 5*time.Millisecond)
	app.Emit(context.Background(), "other", "ignored")
	app.Emit(context.Background(), "log://log", map[string]any{"message": "hello"})
	app.Events().Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not end after the bus closed")
	}

	body := w.Body.String()
	assert.Contains(t, body, "event: ping\ndata: connected")
	assert.Contains(t, body, "event: log://log")
	assert.Contains(t, body, `"message":"hello"`)
	assert.NotContains(t, body, "ignored")
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
}
