// Package logger provides the prefixed, colored leveled logger used by every component.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

const colorReset = "\033[0m"

var ErrEmptyPrefix = errors.New("logger prefix must not be empty")

// Logger writes lines of the form "[PREFIX] [LEVEL] message".
type Logger struct {
	prefix string
	color  string
	out    *log.Logger
}

// New creates a Logger writing to w. The prefix is painted with the given ANSI color;
// an empty color disables coloring.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	return &Logger{
		prefix: prefix,
		color:  color,
		out:    log.New(w, "", log.LstdFlags),
	}, nil
}

// Info logs an informational message.
func (l *Logger) Info(message string) {
	l.print("INFO", message)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(message string) {
	l.print("WARNING", message)
}

// Error logs a failure.
func (l *Logger) Error(message string) {
	l.print("ERROR", message)
}

func (l *Logger) print(level, message string) {
	if l.color == "" {
		l.out.Printf("[%s] [%s] %s", l.prefix, level, message)
		return
	}
	l.out.Printf("%s[%s]%s [%s] %s", l.color, l.prefix, colorReset, level, message)
}

// Writer adapts the logger to an io.Writer, logging each write at info level.
func (l *Logger) Writer() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		l.Info(strings.TrimRight(string(p), "\n"))
		return len(p), nil
	})
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) {
	return f(p)
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	l, _ := New("DISCARD", "", io.Discard)
	return l
}

// String describes the logger.
func (l *Logger) String() string {
	return fmt.Sprintf("logger(%s)", l.prefix)
}
