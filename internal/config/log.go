package config

import (
	"io"
	"log/slog"
	"time"
)

// Log configures the process-wide logger.
type Log struct {
	Level  string `name:"log-level" enum:"debug,info,warn,error" default:"info" env:"RUBYFILTER_LOG_LEVEL" help:"Log level: ${enum}."`
	Format string `name:"log-format" enum:"text,json" default:"text" env:"RUBYFILTER_LOG_FORMAT" help:"Log format: ${enum}."`
}

// Logger builds a logger writing to w.
func (l Log) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch l.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if l.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
