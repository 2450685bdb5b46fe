// Package log is a small leveled key/value logger writing to stderr.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	mu       sync.RWMutex
	levelVar = new(slog.LevelVar)
	logger   = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w)
}

func SetLevel(l Level) {
	switch l {
	case LevelDebug:
		levelVar.Set(slog.LevelDebug)
	case LevelError:
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
}

// ParseLevel maps a config value to a Level; unknown values mean INFO.
func ParseLevel(value string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(value))) {
	case LevelDebug:
		return LevelDebug
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

func Debug(msg string, kv ...any) {
	current().Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	current().Info(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	current().Error(msg, append([]any{"err", err}, kv...)...)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
