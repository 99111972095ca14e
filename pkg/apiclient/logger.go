package apiclient

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Logger is the logging interface used across the clients. Field maps
// must never contain credential values.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NoopLogger discards everything. It is the default when no logger is
// configured.
type NoopLogger struct{}

// Debug implements Logger.
func (NoopLogger) Debug(_ string, _ map[string]interface{}) {}

// Info implements Logger.
func (NoopLogger) Info(_ string, _ map[string]interface{}) {}

// Warn implements Logger.
func (NoopLogger) Warn(_ string, _ map[string]interface{}) {}

// Error implements Logger.
func (NoopLogger) Error(_ string, _ map[string]interface{}) {}

// WriterLogger writes one line per entry to a writer, with fields
// rendered as sorted key=value pairs. Safe for concurrent use.
type WriterLogger struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewWriterLogger creates a logger writing to the given writer.
func NewWriterLogger(writer io.Writer) *WriterLogger {
	return &WriterLogger{writer: writer}
}

// Debug implements Logger.
func (l *WriterLogger) Debug(msg string, fields map[string]interface{}) {
	l.write("DEBUG", msg, fields)
}

// Info implements Logger.
func (l *WriterLogger) Info(msg string, fields map[string]interface{}) {
	l.write("INFO", msg, fields)
}

// Warn implements Logger.
func (l *WriterLogger) Warn(msg string, fields map[string]interface{}) {
	l.write("WARN", msg, fields)
}

// Error implements Logger.
func (l *WriterLogger) Error(msg string, fields map[string]interface{}) {
	l.write("ERROR", msg, fields)
}

func (l *WriterLogger) write(level, msg string, fields map[string]interface{}) {
	var builder strings.Builder

	builder.WriteString(level)
	builder.WriteString(" ")
	builder.WriteString(msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		for _, key := range keys {
			fmt.Fprintf(&builder, " %s=%v", key, fields[key])
		}
	}

	builder.WriteString("\n")

	l.mutex.Lock()
	defer l.mutex.Unlock()

	_, _ = io.WriteString(l.writer, builder.String())
}
