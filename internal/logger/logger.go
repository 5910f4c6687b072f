// Package logger provides process-wide logging for the content automation
// service. Debug, info and warning messages are only written in verbose
// mode; errors are always written. Output is a terse console format by
// default and JSON lines with timestamps when SetJSON(true) is used for
// server deployments.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	writeMu sync.Mutex
	verbose bool
	jsonOut bool
	output  io.Writer = os.Stderr
	log               = build(os.Stderr, false)
)

// build creates the zerolog logger for the current output settings.
func build(w io.Writer, asJSON bool) zerolog.Logger {
	if asJSON {
		return zerolog.New(w).With().Timestamp().Str("service", "content-automation").Logger()
	}
	cw := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: func(i any) string {
			return strings.ToUpper(fmt.Sprintf("[%s]", i))
		},
	}
	return zerolog.New(cw)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = build(output, jsonOut)
}

// SetJSON switches between console and JSON output.
func SetJSON(v bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOut = v
	log = build(output, jsonOut)
}

// Event returns a structured event at level, or nil when the level is
// suppressed. A nil event discards everything chained onto it.
func Event(level zerolog.Level) *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose && level < zerolog.ErrorLevel {
		return nil
	}
	return log.WithLevel(level)
}

func emit(level zerolog.Level, format string, args ...any) {
	mu.RLock()
	l, v := log, verbose
	mu.RUnlock()
	if !v && level < zerolog.ErrorLevel {
		return
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	l.WithLevel(level).Msgf(format, args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(zerolog.DebugLevel, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit(zerolog.InfoLevel, format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	emit(zerolog.WarnLevel, format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	emit(zerolog.ErrorLevel, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	w, v, j := output, verbose, jsonOut
	mu.RUnlock()
	if !v || j {
		return
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	fmt.Fprintf(w, "\n=== %s ===\n", name)
}
