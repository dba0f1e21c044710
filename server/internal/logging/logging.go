// Package logging installs the process-wide slog JSON logger.
package logging

import (
	"io"
	"log/slog"
	"time"
)

// Config controls logger construction.
type Config struct {
	// Level is the initial minimum level.
	Level slog.Level

	// Debug forces LevelDebug and adds source locations. A forced level is
	// not lowered by later SetLevel calls.
	Debug bool
}

// Logger pairs a *slog.Logger with the LevelVar that gates it.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
	debug bool
}

// New builds a JSON logger writing to w. Timestamps are UTC RFC3339Nano.
func New(w io.Writer, cfg Config) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(cfg.Level)
	if cfg.Debug {
		lv.Set(slog.LevelDebug)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lv,
		AddSource: cfg.Debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
	return &Logger{Logger: slog.New(h), level: lv, debug: cfg.Debug}
}

// Setup builds a logger with New and installs it with slog.SetDefault.
func Setup(w io.Writer, cfg Config) *Logger {
	l := New(w, cfg)
	slog.SetDefault(l.Logger)
	return l
}

// SetLevel changes the minimum level at runtime. It is a no-op when the
// logger was built in debug mode.
func (l *Logger) SetLevel(level slog.Level) {
	if l.debug {
		return
	}
	if l.level.Level() != level {
		l.Info("log level changed", "from", l.level.Level().String(), "to", level.String())
	}
	l.level.Set(level)
}

// Level reports the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}
