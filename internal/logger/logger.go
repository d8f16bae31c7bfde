// Package logger provides verbose logging for chatsift.
// Messages are only written when verbose mode is enabled via the --verbose
// flag, so the ingestion and search pipeline stays quiet by default.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

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

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}

// Debug prints a debug message.
func Debug(format string, args ...any) {
	logf("DEBUG", format, args...)
}

// Info prints an informational message.
func Info(format string, args ...any) {
	logf("INFO", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	logf("WARN", format, args...)
}

// Section prints a section header.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Timed logs how long an operation took. Call the returned func when done:
//
//	defer logger.Timed("ingest")()
func Timed(label string) func() {
	start := time.Now()
	return func() {
		logf("DEBUG", "%s took %s", label, time.Since(start).Round(time.Microsecond))
	}
}
