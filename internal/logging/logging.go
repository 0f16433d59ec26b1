// Package logging builds the structured logger used by the commands and
// adapts it to the Printf-style Logger interfaces the internal packages accept.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New creates a slog.Logger writing to w.
// level is one of debug, info, warn, error; format is "text" or "json".
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

// PrintfLogger adapts a slog.Logger to the Printf-style Logger interfaces.
// Every message is emitted at a fixed level with an optional component attribute.
type PrintfLogger struct {
	logger *slog.Logger
	level  slog.Level
}

// NewPrintfLogger creates a PrintfLogger. component is added as an attribute when non-empty.
func NewPrintfLogger(logger *slog.Logger, level slog.Level, component string) *PrintfLogger {
	if component != "" {
		logger = logger.With("component", component)
	}
	return &PrintfLogger{logger: logger, level: level}
}

func (l *PrintfLogger) Printf(format string, v ...interface{}) {
	l.logger.Log(context.Background(), l.level, fmt.Sprintf(format, v...))
}
