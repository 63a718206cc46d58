package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Logger is the logging interface used throughout dotlock. It separates
// internal (debug) logging, which normally goes only to the log file,
// from user-facing messages, which go to stdout/stderr.
type Logger interface {
	// Info logs an informational message for debugging purposes.
	Info(format string, args ...interface{})

	// Warning logs a potential issue that is not a failure.
	Warning(format string, args ...interface{})

	// Error logs an operational failure. Errors are always shown to the
	// user as well as logged.
	Error(format string, args ...interface{})

	// InfoToUser logs an informational message intended for users,
	// shown regardless of quiet settings.
	InfoToUser(format string, args ...interface{})

	// Success reports successful completion of an operation to the user.
	Success(format string, args ...interface{})

	// Close flushes and closes any open log file handles.
	Close() error
}

// DefaultLogger provides structured logging capability and implements the Logger interface.
type DefaultLogger struct {
	mu      sync.Mutex
	logger  *slog.Logger
	enabled bool
	quiet   bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
}

// New creates a new Logger instance. When enabled is true, debug logs
// are appended to logFile; quiet suppresses non-essential user output.
func New(enabled bool, logFile string, quiet bool) Logger {
	return NewWithOutput(enabled, logFile, quiet, os.Stdout, os.Stderr)
}

// NewWithOutput creates a DefaultLogger with custom output writers.
func NewWithOutput(enabled bool, logFile string, quiet bool, stdout, stderr io.Writer) *DefaultLogger {
	var logger *slog.Logger

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var file *os.File

	if enabled {
		logDir := filepath.Dir(logFile)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				_, _ = fmt.Fprintf(stderr, "warning: failed to create log directory: %v\n", err)
			}
		}

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			file = f
			logger = slog.New(slog.NewTextHandler(f, opts))
			logger.Info("dotlock debug logging started")
		} else {
			// Fall back to stderr if the log file can't be opened
			logger = slog.New(slog.NewTextHandler(stderr, opts))
			_, _ = fmt.Fprintf(stderr, "warning: failed to open log file: %v, using stderr instead\n", err)
		}
	} else {
		logger = slog.New(slog.NewTextHandler(stderr, opts))
	}

	return &DefaultLogger{
		logger:  logger,
		enabled: enabled,
		quiet:   quiet,
		stdout:  stdout,
		stderr:  stderr,
		file:    file,
	}
}

// Info logs an informational message (file only).
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}

	l.logger.Info(fmt.Sprintf(format, args...))
}

// Warning logs a warning message (file only).
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}

	l.logger.Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message to the file and to stderr.
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.logger.Error(msg)
	}

	_, _ = fmt.Fprintf(l.stderr, "dotlock: %s\n", msg)
}

// InfoToUser logs an informational message to both file and stdout,
// unless quiet mode suppresses it.
func (l *DefaultLogger) InfoToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.logger.Info(msg)
	}

	if !l.quiet {
		_, _ = fmt.Fprintln(l.stdout, msg)
	}
}

// Success logs a success message to both file and stdout, unless quiet
// mode suppresses it.
func (l *DefaultLogger) Success(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)

	if l.enabled {
		l.logger.Info(msg)
	}

	if !l.quiet {
		_, _ = fmt.Fprintln(l.stdout, msg)
	}
}

// Close ensures any buffered data is written and closes open log file handles.
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			return err
		}
		return l.file.Close()
	}
	return nil
}
