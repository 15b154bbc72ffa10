package pkg

import (
	"fmt"
	"io"
	"log"
	"os"
)

type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelErrOnly
	LogLevelDebug
)

const log_flags = log.Lshortfile | log.LstdFlags

// Logger is a levelled diagnostic sink. A nil *Logger discards everything.
type Logger struct {
	level LogLevel

	info_logger  *log.Logger
	error_logger *log.Logger
	fatal_logger *log.Logger
	warn_logger  *log.Logger
	debug_logger *log.Logger
}

func NewLogger(w io.Writer, level LogLevel) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		level:        level,
		info_logger:  log.New(w, "INFO: ", log_flags),
		error_logger: log.New(w, "ERROR: ", log_flags),
		fatal_logger: log.New(w, "FATAL: ", log_flags),
		warn_logger:  log.New(w, "WARN: ", log_flags),
		debug_logger: log.New(w, "DEBUG: ", log_flags),
	}
}

// NopLogger never writes anything.
func NopLogger() *Logger { return NewLogger(io.Discard, LogLevelNone) }

var std = NewLogger(os.Stderr, LogLevelErrOnly)

// DefaultLogger is the process-wide logger used when no sink is configured.
func DefaultLogger() *Logger { return std }

func SetLogLevel(level LogLevel) {
	std.DebugLog("log level set to", level)
	std.SetLevel(level)
}

func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.level = level
}

func (l *Logger) Level() LogLevel {
	if l == nil {
		return LogLevelNone
	}
	return l.level
}

// emit writes at depth frames above the exported logging call, so
// Lshortfile reports the caller.
func (l *Logger) emit(out *log.Logger, min LogLevel, depth int, v ...any) {
	if l.level < min {
		return
	}
	out.Output(depth, fmt.Sprintln(v...))
}

func (l *Logger) ErrorLog(v ...any) {
	if l != nil {
		l.emit(l.error_logger, LogLevelErrOnly, 3, v...)
	}
}

func (l *Logger) WarnLog(v ...any) {
	if l != nil {
		l.emit(l.warn_logger, LogLevelDebug, 3, v...)
	}
}

func (l *Logger) InfoLog(v ...any) {
	if l != nil {
		l.emit(l.info_logger, LogLevelDebug, 3, v...)
	}
}

func (l *Logger) DebugLog(v ...any) {
	if l != nil {
		l.emit(l.debug_logger, LogLevelDebug, 3, v...)
	}
}

// FatalLog always writes, regardless of level, and exits the process.
func (l *Logger) FatalLog(v ...any) {
	if l == nil {
		l = std
	}
	l.fatal_logger.Output(2, fmt.Sprintln(v...))
	os.Exit(1)
}

func ErrorLog(v ...any) { std.emit(std.error_logger, LogLevelErrOnly, 3, v...) }
func WarnLog(v ...any)  { std.emit(std.warn_logger, LogLevelDebug, 3, v...) }
func InfoLog(v ...any)  { std.emit(std.info_logger, LogLevelDebug, 3, v...) }
func DebugLog(v ...any) { std.emit(std.debug_logger, LogLevelDebug, 3, v...) }

func FatalLog(v ...any) {
	std.fatal_logger.Output(2, fmt.Sprintln(v...))
	os.Exit(1)
}
