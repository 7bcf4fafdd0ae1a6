// Package main - logger.go
//
// Process-wide logging to Debug.log.
//
// The file is truncated on every start so it only ever holds the current
// session. Records are written by a slog.TextHandler whose level follows the
// log_level configuration value and changes on hot reload.
//
// Internal packages receive Logger() through their constructors and log
// key/value attributes. Shell code uses the printf-style helpers:
//   - LogDebug: pixel counts, coordinates, timing
//   - LogInfo: startup, mode changes, kills
//   - LogWarn: cookie failures, capture hiccups
//   - LogError: file access errors, fatal session end
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logMu    sync.Mutex
	logFile  *os.File
	logLevel = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// InitLogger opens path (truncating it) and routes all logging there.
func InitLogger(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logMu.Lock()
	logFile = file
	logger = slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: logLevel}))
	logMu.Unlock()

	LogInfo("Logger initialized (log file cleared)")
	return nil
}

// SetLogLevel changes the minimum level of subsequent records.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// Logger returns the shared structured logger.
func Logger() *slog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return logger
}

// CloseLogger flushes and closes the log file.
func CloseLogger() {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile == nil {
		return
	}
	logger.Info("Logger closing")
	logFile.Close()
	logFile = nil
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func logf(level slog.Level, format string, v ...any) {
	l := Logger()
	if !l.Enabled(context.Background(), level) {
		return
	}
	l.Log(context.Background(), level, fmt.Sprintf(format, v...))
}

// LogDebug logs at debug level.
func LogDebug(format string, v ...any) { logf(slog.LevelDebug, format, v...) }

// LogInfo logs at info level.
func LogInfo(format string, v ...any) { logf(slog.LevelInfo, format, v...) }

// LogWarn logs at warn level.
func LogWarn(format string, v ...any) { logf(slog.LevelWarn, format, v...) }

// LogError logs at error level.
func LogError(format string, v ...any) { logf(slog.LevelError, format, v...) }
