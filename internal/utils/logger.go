package utils

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var loggerState struct {
	sync.RWMutex
	logger zerolog.Logger
}

func init() {
	loggerState.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// InitLogger configures the global logger. With an empty file name, logs
// go to stderr; otherwise they are written to the file with lumberjack
// rotation.
func InitLogger(file string, maxSizeMB, maxBackups, maxAgeDays int, compress bool, level string) {
	var logger zerolog.Logger
	if file == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   compress,
		}).With().Timestamp().Logger()
	}

	loggerState.Lock()
	loggerState.logger = logger
	loggerState.Unlock()

	SetLogLevel(level)
}

// SetLogLevel adjusts the global log level. Unknown levels fall back to
// info.
func SetLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// Logger returns the configured logger for callers that want structured
// access instead of the leveled helpers.
func Logger() zerolog.Logger {
	loggerState.RLock()
	defer loggerState.RUnlock()
	return loggerState.logger
}

// Debug logs a debug message with alternating key/value pairs.
func Debug(msg string, keyvals ...any) { l := Logger(); logWith(l.Debug(), msg, keyvals) }

// Info logs an info message with alternating key/value pairs.
func Info(msg string, keyvals ...any) { l := Logger(); logWith(l.Info(), msg, keyvals) }

// Warn logs a warning with alternating key/value pairs.
func Warn(msg string, keyvals ...any) { l := Logger(); logWith(l.Warn(), msg, keyvals) }

// Error logs an error with alternating key/value pairs.
func Error(msg string, keyvals ...any) { l := Logger(); logWith(l.Error(), msg, keyvals) }

func logWith(e *zerolog.Event, msg string, keyvals []any) {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		e = e.Interface(key, keyvals[i+1])
	}
	e.Msg(msg)
}
