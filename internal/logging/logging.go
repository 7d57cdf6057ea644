// Package logging configures the structured logger shared by the CLI commands.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

const RedactedValue = "[REDACTED]"

// Setup returns a text logger writing to w. Debug records are only emitted
// when verbose is set. The logger is also installed as the slog default.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && attr.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if attr.Key == slog.LevelKey {
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			}
			return attr
		},
	})

	logger := slog.New(handler).With(slog.String("component", "kusa-learn"))
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// MaskToken keeps the last four characters of a credential for correlation.
func MaskToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return RedactedValue
	}
	return RedactedValue + token[len(token)-4:]
}
