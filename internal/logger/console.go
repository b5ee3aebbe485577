// Package logger provides the logging side-channel for indexgen.
//
// A logger is created once per invocation and passed explicitly to every
// entry point that reports progress or failures. Two toggles control output:
// "log" gates info, warn and error messages, "debug" gates debug messages.
// Implementations are safe for use from the watcher goroutines.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger is the logging interface consumed by the generation pipeline.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// ConsoleLogger logs to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is enabled only when the writer is a terminal.
type ConsoleLogger struct {
	writer       io.Writer
	mutex        sync.Mutex
	logEnabled   bool
	debugEnabled bool
	colorOutput  bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
func NewConsoleLogger(writer io.Writer, logEnabled, debugEnabled bool) *ConsoleLogger {
	return &ConsoleLogger{
		writer:       writer,
		logEnabled:   logEnabled,
		debugEnabled: debugEnabled,
		colorOutput:  isTerminal(writer),
	}
}

// NewNoOpLogger creates a logger that discards every message.
func NewNoOpLogger() *ConsoleLogger {
	return NewConsoleLogger(nil, false, false)
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns false when NO_COLOR is set (fatih/color honours it).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetEnabled replaces both toggles.
func (cl *ConsoleLogger) SetEnabled(logEnabled, debugEnabled bool) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.logEnabled = logEnabled
	cl.debugEnabled = debugEnabled
}

// LogEnabled reports whether info, warn and error messages are written.
func (cl *ConsoleLogger) LogEnabled() bool {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	return cl.logEnabled
}

// DebugEnabled reports whether debug messages are written.
func (cl *ConsoleLogger) DebugEnabled() bool {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	return cl.debugEnabled
}

// LogDebug logs a debug-level message.
// Format: "[HH:MM:SS] [DEBUG] <message>"
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
// Format: "[HH:MM:SS] [WARN] <message>"
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
// Format: "[HH:MM:SS] [ERROR] <message>"
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel writes the message if the toggle for its level is on.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	if !cl.shouldLog(level) {
		return
	}

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// shouldLog must be called with the mutex held.
func (cl *ConsoleLogger) shouldLog(level string) bool {
	if strings.EqualFold(level, "DEBUG") {
		return cl.debugEnabled
	}
	return cl.logEnabled
}

// formatWithColor formats a log message with ANSI color codes.
func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string

	switch strings.ToUpper(level) {
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}
