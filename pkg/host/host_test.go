package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/aretw0/appshell/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingPlugin struct{}

func (pingPlugin) Name() string { return "ping" }

func (pingPlugin) Register(c *bootstrap.Context) error {
	return c.AddCommand("ping", func(ctx context.Context, args map[string]any) (any, error) {
		return "pong", nil
	})
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	ready := make(chan string, 1)
	h := New(WithAddr("127.0.0.1:0"), WithReady(func(addr string) { ready <- addr }))

	c := bootstrap.NewContext()
	require.NoError(t, c.Register(pingPlugin{}))
	hookRan := false
	c.OnShutdown(func(ctx context.Context) error {
		hookRan = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, c) }()

	var addr string
	select {
	case addr = <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("host never became ready")
	}

	resp, err := http.Post("http://"+addr+"/ipc/ping/ping", "application/json", nil)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "pong", body["result"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("host did not stop")
	}
	assert.True(t, hookRan)
	assert.Equal(t, bootstrap.StateRunning, c.State())
}

func TestRun_StopsPromptlyWithEventSubscriber(t *testing.T) {
	ready := make(chan string, 1)
	h := New(
		WithAddr("127.0.0.1:0"),
		WithShutdownTimeout(5*time.Second),
		WithReady(func(addr string) { ready <- addr }),
	)
	c := bootstrap.NewContext()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, c) }()

	var addr string
	select {
	case addr = <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("host never became ready")
	}

	resp, err := http.Get("http://" + addr + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	start := time.Now()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
	case <-time.After(4 * time.Second):
		t.Fatal("host waited for the event stream to time out")
	}
}

func TestRun_TransportFailureIsReturned(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	h := New(WithAddr(taken.Addr().String()))
	err = bootstrap.Compose(context.Background(), platform.Classification{}, nil, h)

	var runErr *bootstrap.RunError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, err.Error(), "listening on")
}

func TestRun_RefusesClosedContext(t *testing.T) {
	c := bootstrap.NewContext()
	require.NoError(t, c.Begin())
	err := New().Run(context.Background(), c)
	assert.Error(t, err)
}

func TestRun_UnknownTransport(t *testing.T) {
	err := New(WithTransport("carrier-pigeon")).Run(context.Background(), bootstrap.NewContext())
	assert.ErrorContains(t, err, "unknown transport")
}

func TestRun_MCPStopsWithContext(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	h := New(WithTransport(TransportMCP), WithStdio(in, io.Discard))
	c := bootstrap.NewContext()
	require.NoError(t, c.Register(pingPlugin{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, c) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("mcp host did not stop")
	}
}

func TestRun_ShutdownHookErrorsDoNotFailTheLoop(t *testing.T) {
	h := New(WithAddr("127.0.0.1:0"))
	c := bootstrap.NewContext()
	c.OnShutdown(func(ctx context.Context) error { return errors.New("flush failed") })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, h.Run(ctx, c))
}
