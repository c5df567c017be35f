package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Log level constants for filtering
const (
	levelDebug int = iota
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger reports progress to a writer. Color output is used only when
// the writer is os.Stdout or os.Stderr and color has not been disabled.
type ConsoleLogger struct {
	writer      io.Writer
	level       int
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger writing to w. A nil writer discards
// all messages. Unknown levels fall back to "info".
func NewConsoleLogger(w io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		level:       parseLogLevel(logLevel),
		colorOutput: isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// color.NoColor honours NO_COLOR and non-TTY output
		return !color.NoColor
	}
	return false
}

func parseLogLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *ConsoleLogger) Debugf(format string, args ...any) {
	l.logf(levelDebug, format, args...)
}

func (l *ConsoleLogger) Infof(format string, args ...any) {
	l.logf(levelInfo, format, args...)
}

func (l *ConsoleLogger) Warnf(format string, args ...any) {
	l.logf(levelWarn, format, args...)
}

// Successf logs at info level, rendered green on a terminal.
func (l *ConsoleLogger) Successf(format string, args ...any) {
	if l == nil {
		return
	}
	if l.colorOutput {
		l.write(levelInfo, color.New(color.FgGreen).Sprintf(format, args...))
		return
	}
	l.logf(levelInfo, format, args...)
}

func (l *ConsoleLogger) logf(level int, format string, args ...any) {
	if l == nil {
		return
	}
	message := fmt.Sprintf(format, args...)
	if l.colorOutput {
		switch level {
		case levelDebug:
			message = color.New(color.FgHiBlack).Sprint(message)
		case levelWarn:
			message = color.New(color.FgYellow).Sprint(message)
		case levelError:
			message = color.New(color.FgRed, color.Bold).Sprint(message)
		}
	}
	l.write(level, message)
}

func (l *ConsoleLogger) write(level int, message string) {
	if l.writer == nil || level < l.level {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	fmt.Fprintln(l.writer, message)
}
