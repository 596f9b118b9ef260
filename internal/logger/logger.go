// Package logger wraps zerolog with a small key/value API.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the process-wide logger.
var Log = New(os.Stderr, "info", "console")

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	z zerolog.Logger
}

// New builds a logger writing to w. Level is one of debug, info, warn, error
// (case-insensitive, default info). Format "json" emits JSON lines, anything
// else uses the console writer.
func New(w io.Writer, level, format string) *Logger {
	var z zerolog.Logger
	if strings.EqualFold(format, "json") {
		z = zerolog.New(w)
	} else {
		z = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}
	z = z.Level(parseLevel(level)).With().Timestamp().Logger()
	return &Logger{z: z}
}

// Setup replaces the global logger.
func Setup(level, format string) {
	Log = New(os.Stderr, level, format)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...interface{}) *Logger {
	ctx := l.z.With()
	for i := 0; i+1 < len(args); i += 2 {
		ctx = ctx.Interface(keyOf(args[i]), args[i+1])
	}
	return &Logger{z: ctx.Logger()}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...interface{}) {
	emit(l.z.Debug(), msg, args)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...interface{}) {
	emit(l.z.Info(), msg, args)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...interface{}) {
	emit(l.z.Warn(), msg, args)
}

// Error logs at error level. A trailing error value can be passed as "err", err.
func (l *Logger) Error(msg string, args ...interface{}) {
	emit(l.z.Error(), msg, args)
}

func emit(e *zerolog.Event, msg string, args []interface{}) {
	for i := 0; i+1 < len(args); i += 2 {
		if err, ok := args[i+1].(error); ok {
			e = e.AnErr(keyOf(args[i]), err)
			continue
		}
		e = e.Interface(keyOf(args[i]), args[i+1])
	}
	e.Msg(msg)
}

func keyOf(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}
