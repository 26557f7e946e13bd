// Package logger configures the process-wide slog default: colored text via
// tint for terminals, or plain JSON for machine consumption.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lmittmann/tint"
)

var (
	once   sync.Once
	logger *slog.Logger
)

type Options struct {
	Level      slog.Leveler // slog.LevelInfo, slog.LevelDebug, etc.
	Format     string       // "text" (default) or "json"
	Writer     io.Writer    // default: os.Stderr
	TimeFormat string       // text format only, default: 15:04:05
}

// Init installs the default logger. Subsequent calls are no-ops.
func Init(opts *Options) {
	once.Do(func() {
		writer := opts.Writer
		if writer == nil {
			writer = os.Stderr
		}

		var handler slog.Handler
		if strings.EqualFold(opts.Format, "json") {
			handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
				Level: opts.Level,
			})
		} else {
			handler = tint.NewHandler(writer, &tint.Options{
				Level:      opts.Level,
				TimeFormat: opts.TimeFormat,
			})
		}

		logger = slog.New(handler)
		slog.SetDefault(logger)
	})
}

func L() *slog.Logger {
	return logger
}

// ParseLevel maps a config level string to a slog level. Unknown strings
// fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
