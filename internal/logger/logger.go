// Package logger writes structured logs to a file. The terminal belongs
// to the TUI, so nothing may log to stdout or stderr after startup.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu      sync.Mutex
	log     *slog.Logger
	file    *os.File
	level   = new(slog.LevelVar)
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init opens (or creates) the log file and installs the package logger.
// Safe to call more than once; the previous file is closed.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if file != nil {
		file.Close()
	}
	file = f
	log = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

// SetDebug toggles debug-level logging.
func SetDebug(on bool) {
	if on {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
		log = nil
	}
}

func get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		return discard
	}
	return log
}

func Debug(msg string, args ...any) { get().Debug(msg, args...) }
func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }
