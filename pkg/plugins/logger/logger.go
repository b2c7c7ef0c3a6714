// Package logger is the debug logging capability. On registration it installs
// the process-wide slog default, fanning records out to the configured
// targets, and exposes a "log" command the frontend forwards its own records
// through.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/appshell/pkg/bootstrap"
	"github.com/aretw0/appshell/pkg/registry"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Name is the plugin name commands are namespaced under.
const Name = "log"

// managedKey guards against two logging plugins in one application.
const managedKey = "log.sink"

// Target is a log destination.
type Target string

const (
	TargetStdout  Target = "stdout"
	TargetStderr  Target = "stderr"
	TargetLogDir  Target = "logdir"
	TargetWebview Target = "webview"
)

// Plugin is the logging capability. Use New to build one.
type Plugin struct {
	level      slog.Level
	targets    []Target
	dir        string
	maxSizeMB  int
	maxBackups int
	stdout     io.Writer
	stderr     io.Writer
}

// Option configures the plugin (builder style).
type Option func(*Plugin)

// WithLevel sets the minimum level recorded by every target.
func WithLevel(level slog.Level) Option {
	return func(p *Plugin) {
		p.level = level
	}
}

// WithTargets replaces the default targets.
func WithTargets(targets ...Target) Option {
	return func(p *Plugin) {
		p.targets = targets
	}
}

// WithDir sets the directory of the logdir target.
func WithDir(dir string) Option {
	return func(p *Plugin) {
		p.dir = dir
	}
}

// WithRotation configures the logdir file rotation.
func WithRotation(maxSizeMB, maxBackups int) Option {
	return func(p *Plugin) {
		p.maxSizeMB = maxSizeMB
		p.maxBackups = maxBackups
	}
}

// WithWriters overrides the stdout and stderr targets' writers.
func WithWriters(stdout, stderr io.Writer) Option {
	return func(p *Plugin) {
		p.stdout = stdout
		p.stderr = stderr
	}
}

// New creates the logging plugin. Defaults: info level, stdout + logdir + webview.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		level:      slog.LevelInfo,
		targets:    []Target{TargetStdout, TargetLogDir, TargetWebview},
		maxSizeMB:  40,
		maxBackups: 3,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements bootstrap.Plugin.
func (p *Plugin) Name() string { return Name }

// Register implements bootstrap.Plugin.
func (p *Plugin) Register(c *bootstrap.Context) error {
	if err := c.Manage(managedKey, p); err != nil {
		return err
	}

	handlers := make(fanout, 0, len(p.targets))
	var closers []io.Closer
	opts := &slog.HandlerOptions{Level: p.level}

	for _, target := range p.targets {
		switch target {
		case TargetStdout:
			handlers = append(handlers, slog.NewTextHandler(p.stdout, opts))
		case TargetStderr:
			handlers = append(handlers, slog.NewTextHandler(p.stderr, opts))
		case TargetLogDir:
			file, err := p.logFile(c.Identifier())
			if err != nil {
				return err
			}
			closers = append(closers, file)
			handlers = append(handlers, slog.NewJSONHandler(file, opts))
		case TargetWebview:
			handlers = append(handlers, &webviewHandler{emitter: c.Events(), level: p.level})
		default:
			return fmt.Errorf("unknown log target %q", target)
		}
	}

	logger := slog.New(handlers)
	if err := c.AddCommand("log", p.logCommand(logger)); err != nil {
		return err
	}

	previous := slog.Default()
	slog.SetDefault(logger)
	c.OnShutdown(func(ctx context.Context) error {
		slog.SetDefault(previous)
		for _, cl := range closers {
			if err := cl.Close(); err != nil {
				return err
			}
		}
		return nil
	})

	c.Logger().Debug("log plugin installed", "level", p.level.String(), "targets", p.targets)
	return nil
}

func (p *Plugin) logFile(identifier string) (*lumberjack.Logger, error) {
	dir := p.dir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving log directory: %w", err)
		}
		dir = filepath.Join(base, identifier, "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, identifier+".log"),
		MaxSize:    p.maxSizeMB,
		MaxBackups: p.maxBackups,
	}, nil
}

// logArgs is the payload of the "log" command.
type logArgs struct {
	Level     string            `mapstructure:"level"`
	Message   string            `mapstructure:"message"`
	Location  string            `mapstructure:"location"`
	File      string            `mapstructure:"file"`
	Line      int               `mapstructure:"line"`
	KeyValues map[string]string `mapstructure:"keyValues"`
}

func (p *Plugin) logCommand(logger *slog.Logger) func(ctx context.Context, args map[string]any) (any, error) {
	return func(ctx context.Context, args map[string]any) (any, error) {
		var in logArgs
		if err := registry.Decode(args, &in); err != nil {
			return nil, err
		}
		level, err := parseLevel(in.Level)
		if err != nil {
			return nil, err
		}
		message, err := sanitize(in.Message)
		if err != nil {
			return nil, err
		}
		location, err := sanitize(in.Location)
		if err != nil {
			return nil, fmt.Errorf("location: %w", err)
		}
		file, err := sanitize(in.File)
		if err != nil {
			return nil, fmt.Errorf("file: %w", err)
		}

		attrs := make([]slog.Attr, 0, len(in.KeyValues)+3)
		if location != "" {
			attrs = append(attrs, slog.String("location", location))
		}
		if file != "" {
			attrs = append(attrs, slog.String("file", file))
		}
		if in.Line > 0 {
			attrs = append(attrs, slog.Int("line", in.Line))
		}
		for k, v := range in.KeyValues {
			key, err := sanitize(k)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			clean, err := sanitize(v)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			attrs = append(attrs, slog.String(key, clean))
		}
		logger.LogAttrs(ctx, level, message, attrs...)
		return nil, nil
	}
}

var _ bootstrap.Plugin = (*Plugin)(nil)
