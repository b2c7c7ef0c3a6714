package logger

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// The frontend numbers levels 1 (trace) to 5 (error).
const (
	levelTrace = 1
	levelDebug = 2
	levelInfo  = 3
	levelWarn  = 4
	levelError = 5
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

func frontendLevel(l slog.Level) int {
	switch {
	case l >= slog.LevelError:
		return levelError
	case l >= slog.LevelWarn:
		return levelWarn
	case l >= slog.LevelInfo:
		return levelInfo
	case l >= slog.LevelDebug:
		return levelDebug
	default:
		return levelTrace
	}
}

// parseLevel accepts either the numeric frontend level or a level name.
func parseLevel(s string) (slog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		switch n {
		case levelTrace:
			return LevelTrace, nil
		case levelDebug:
			return slog.LevelDebug, nil
		case levelInfo:
			return slog.LevelInfo, nil
		case levelWarn:
			return slog.LevelWarn, nil
		case levelError:
			return slog.LevelError, nil
		}
		return 0, fmt.Errorf("unknown log level %d", n)
	}
	switch s {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
