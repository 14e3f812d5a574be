package logger

import (
	"io"
	"os"
	"syscall"
	"time"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelNames = map[string]LogLevel{
	"debug":   DebugLevel,
	"info":    InfoLevel,
	"warning": WarnLevel,
	"error":   ErrorLevel,
}

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the global logger with the given level name
func Init(level string, isService bool) error {
	lvl, ok := levelNames[level]
	if !ok {
		return errors.New().WithData(errors.ErrInvalidLogLevel, level)
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	log = zerolog.New(output).With().Timestamp().Logger()
	SetLogLevel(lvl)

	return nil
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return withCode(log.Error(), err)
}

// Fatal logs a fatal message and exits the program
func Fatal() *LogEvent {
	return &LogEvent{log.Fatal()}
}

// FatalWithCode logs a fatal message with a specific error code and exits the program
func FatalWithCode(err errors.Error) *LogEvent {
	return withCode(log.Fatal(), err)
}

func withCode(e *zerolog.Event, err errors.Error) *LogEvent {
	return &LogEvent{e.
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

type zlogger struct {
	z *zerolog.Logger
}

// Default returns a Logger backed by the global logger configured with Init
func Default() Logger {
	return &zlogger{z: &log}
}

// New returns a Logger writing JSON lines to w
func New(w io.Writer) Logger {
	z := zerolog.New(w).With().Timestamp().Logger()
	return &zlogger{z: &z}
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	z := zerolog.Nop()
	return &zlogger{z: &z}
}

func (l *zlogger) Debug() *LogEvent { return &LogEvent{l.z.Debug()} }
func (l *zlogger) Info() *LogEvent  { return &LogEvent{l.z.Info()} }
func (l *zlogger) Warn() *LogEvent  { return &LogEvent{l.z.Warn()} }
func (l *zlogger) Error() *LogEvent { return &LogEvent{l.z.Error()} }

func (l *zlogger) ErrorWithCode(err errors.Error) *LogEvent {
	return withCode(l.z.Error(), err)
}
