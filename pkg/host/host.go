// Package host is the run loop a composed application is handed to. It
// serves the application's commands over the configured transport until the
// process is interrupted, the parent context ends, or the transport fails.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/appshell/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/appshell/pkg/adapters/mcp"
	"github.com/aretw0/appshell/pkg/bootstrap"
)

// Transport selects how the frontend reaches the application.
type Transport string

const (
	TransportHTTP Transport = "http"
	TransportMCP  Transport = "mcp"
)

// Host implements bootstrap.Host.
type Host struct {
	addr            string
	transport       Transport
	shutdownTimeout time.Duration
	version         string
	signals         []os.Signal
	logger          *slog.Logger
	stdin           io.Reader
	stdout          io.Writer
	ready           func(addr string)
}

// Option configures the Host.
type Option func(*Host)

// WithAddr sets the HTTP listen address.
func WithAddr(addr string) Option {
	return func(h *Host) {
		h.addr = addr
	}
}

// WithTransport selects the transport.
func WithTransport(t Transport) Option {
	return func(h *Host) {
		h.transport = t
	}
}

// WithShutdownTimeout bounds the graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.shutdownTimeout = d
	}
}

// WithVersion sets the version advertised by the MCP transport.
func WithVersion(v string) Option {
	return func(h *Host) {
		h.version = v
	}
}

// WithSignals replaces the signals that end the run loop.
func WithSignals(sigs ...os.Signal) Option {
	return func(h *Host) {
		h.signals = sigs
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithStdio overrides the streams of the MCP transport.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(h *Host) {
		h.stdin = in
		h.stdout = out
	}
}

// WithReady registers a callback invoked with the bound address once the
// HTTP transport accepts connections.
func WithReady(fn func(addr string)) Option {
	return func(h *Host) {
		h.ready = fn
	}
}

// New creates a Host. Defaults: HTTP on 127.0.0.1:1430, 5s shutdown timeout,
// stopped by SIGINT or SIGTERM.
func New(opts ...Option) *Host {
	h := &Host{
		addr:            "127.0.0.1:1430",
		transport:       TransportHTTP,
		shutdownTimeout: 5 * time.Second,
		version:         "dev",
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
		stdin:           os.Stdin,
		stdout:          os.Stdout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return h
}

// Run implements bootstrap.Host. It returns nil when the loop ends because of
// a signal or the parent context, and the transport error otherwise.
func (h *Host) Run(ctx context.Context, c *bootstrap.Context) error {
	if err := c.Begin(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, h.signals...)
	defer stop()

	var err error
	switch h.transport {
	case TransportHTTP:
		err = h.serveHTTP(ctx, c)
	case TransportMCP:
		err = h.serveMCP(ctx, c)
	default:
		err = fmt.Errorf("unknown transport %q", h.transport)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	if serr := c.Shutdown(shutdownCtx); serr != nil {
		h.logger.Warn("shutdown hooks failed", "err", serr)
	}
	return err
}

func (h *Host) serveHTTP(ctx context.Context, c *bootstrap.Context) error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", h.addr, err)
	}

	srv := &http.Server{
		Handler:           httpAdapter.NewHandler(c),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Shutdown waits for active handlers; event streams only end when the bus closes.
	srv.RegisterOnShutdown(c.Events().Close)

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Serve(ln)
	}()

	addr := ln.Addr().String()
	h.logger.Info("host listening", "transport", h.transport, "address", addr, "identifier", c.Identifier())
	if h.ready != nil {
		h.ready(addr)
	}

	select {
	case err := <-serverErrors:
		return fmt.Errorf("http transport: %w", err)

	case <-ctx.Done():
		h.logger.Info("host stopping", "cause", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			h.logger.Warn("graceful shutdown did not complete", "timeout", h.shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				h.logger.Error("closing server failed", "err", err)
			}
		}
		return nil
	}
}

func (h *Host) serveMCP(ctx context.Context, c *bootstrap.Context) error {
	h.logger.Info("host listening", "transport", h.transport, "identifier", c.Identifier())
	err := mcpAdapter.NewServer(c, h.version).Listen(ctx, h.stdin, h.stdout)
	if ctx.Err() != nil || err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("mcp transport: %w", err)
}

var _ bootstrap.Host = (*Host)(nil)
