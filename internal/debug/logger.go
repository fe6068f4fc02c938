// Package debug provides the process-wide structured logger built on zerolog.
package debug

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// logger is the global logger instance
	logger zerolog.Logger
	// mu protects logger
	mu sync.RWMutex
)

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger()
}

// Init initializes the global logger.
// An empty level keeps warnings and errors only. A nil writer logs to os.Stderr
// through a console writer.
func Init(level string, w io.Writer) error {
	lvl := zerolog.WarnLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return err
		}
		lvl = parsed
	}

	if w == nil {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return nil
}

// Enabled reports whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return logger.GetLevel() <= zerolog.DebugLevel
}

// Debug starts a debug level event.
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

// Info starts an info level event.
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Warn starts a warn level event.
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Error starts an error level event.
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}

// With returns a child logger tagged with a component name.
func With(component string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", component).Logger()
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
