package logger

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxMessageSize bounds a frontend log message (16KB).
	DefaultMaxMessageSize = 16 << 10
	// EnvMaxMessageSize overrides DefaultMaxMessageSize.
	EnvMaxMessageSize = "APPSHELL_MAX_LOG_MESSAGE_SIZE"
)

var (
	ErrMessageTooLarge = errors.New("log message exceeds maximum allowed size")
	ErrInvalidUTF8     = errors.New("log message contains invalid UTF-8 sequences")
)

// sanitize validates a frontend supplied string before it reaches a log sink:
// oversized or invalid UTF-8 input is rejected and control characters other
// than newline, tab and carriage return are stripped.
func sanitize(input string) (string, error) {
	limit := maxMessageSize()
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrMessageTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func maxMessageSize() int {
	if val := os.Getenv(EnvMaxMessageSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxMessageSize
}
