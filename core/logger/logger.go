package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu  sync.RWMutex
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Init replaces the default logger with one at the given level
// ("debug", "info", "warn", "error").
func Init(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	mu.Lock()
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	mu.Unlock()
}

func Debug(msg string, args ...any) {
	current().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	current().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	current().Error(msg, normalize(args)...)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// normalize tolerates call sites that pass a bare error (or any odd trailing
// value) instead of a key-value pair.
func normalize(args []any) []any {
	if len(args)%2 == 0 {
		return args
	}
	out := make([]any, 0, len(args)+1)
	out = append(out, args[:len(args)-1]...)
	out = append(out, "error", args[len(args)-1])
	return out
}
