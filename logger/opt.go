package logger

import (
	"io"
	"log"
)

// A LoggerOptFn is a functional option configuring a HostLogger when constructing a new one.
type LoggerOptFn func(*HostLogger)

// WithEnv sets the environment HostLogger is operating in.
func WithEnv(env string) LoggerOptFn {
	return func(l *HostLogger) {
		l.env = env
	}
}

// WithLevel sets the log level HostLogger uses.
// LogLevelUnk leaves the default in place.
func WithLevel(level LogLevel) LoggerOptFn {
	return func(l *HostLogger) {
		if level == LogLevelUnk {
			return
		}

		l.ll = level
	}
}

// WithLogger sets the log.Logger HostLogger uses.
func WithLogger(log *log.Logger) LoggerOptFn {
	return func(l *HostLogger) {
		l.l = log
	}
}

// WithOutput writes logs to w without timestamps.
func WithOutput(w io.Writer) LoggerOptFn {
	return WithLogger(log.New(w, "", 0))
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) LoggerOptFn {
	return func(l *HostLogger) {
		l.skip = skip
	}
}
