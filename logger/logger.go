package logger

import (
	"log"
	"os"
	"path"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const knownFrames = 2

var hostPathRegex = regexp.MustCompile("trailhead.*$")

// The Logger interface defines the levels a logging can occur at.
//
// Error is the alerting level: implementations may forward
// Error and Fatal logs to an external service.
type Logger interface {
	Debug(msg string, ctx *LogContext)
	Error(msg string, ctx *LogContext)
	Fatal(msg string, ctx *LogContext)
	Info(msg string, ctx *LogContext)
	Warn(msg string, ctx *LogContext)

	LogLevel() LogLevel
}

// The SkipLogger interface defines a Logger that scrolls back
// the number of frames provided in order to ascertain the call site.
type SkipLogger interface {
	AddSkip(i int) SkipLogger
	Skip() int
	Logger
}

type LogLevel int

const (
	LogLevelUnk LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// NewLogLevel parses val, ignoring case, into a LogLevel.
// "ALERT" is an alias for LogLevelError.
func NewLogLevel(val string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(val)) {
	case "DEBUG":
		return LogLevelDebug
	case "INFO":
		return LogLevelInfo
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR", "ALERT":
		return LogLevelError
	case "FATAL":
		return LogLevelFatal
	default:
		return LogLevelUnk
	}
}

func (ll LogLevel) String() string {
	switch ll {
	case LogLevelDebug:
		return "[DEBUG]"
	case LogLevelInfo:
		return "[INFO]"
	case LogLevelWarn:
		return "[WARN]"
	case LogLevelError:
		return "[ERROR]"
	case LogLevelFatal:
		return "[FATAL]"
	default:
		return "[UNK]"
	}
}

// HostLogger implements Logger using log.
type HostLogger struct {
	skip int
	env  string
	l    *log.Logger
	ll   LogLevel
}

// New constructs a *HostLogger.
//
// Logs are printed to os.Stdout by default, using the std lib log pkg.
// The default environment is DEVELOPMENT.
// The default log level is INFO.
func New(opts ...LoggerOptFn) *HostLogger {
	l := &HostLogger{
		env: "DEVELOPMENT",
		l:   log.New(os.Stdout, "", log.LstdFlags),
		ll:  LogLevelInfo,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.ll == LogLevelUnk {
		l.ll = LogLevelInfo
	}

	return l
}

// AddSkip replaces the current number of frames to scroll back
// when logging a message.
//
// Use Skip to get the current skip amount
// when needing to add to it with AddSkip.
func (l *HostLogger) AddSkip(i int) SkipLogger {
	newl := *l
	newl.skip = i
	return &newl
}

// Debug writes a debug log.
func (l *HostLogger) Debug(msg string, ctx *LogContext) {
	if l.ll > LogLevelDebug {
		return
	}

	l.log(color.WhiteString, LogLevelDebug, msg, ctx)
}

// Error writes an error log.
func (l *HostLogger) Error(msg string, ctx *LogContext) {
	if l.ll > LogLevelError {
		return
	}

	l.log(color.RedString, LogLevelError, msg, ctx)
}

// Fatal writes a fatal log.
// Fatal does not exit the process.
func (l *HostLogger) Fatal(msg string, ctx *LogContext) {
	if l.ll > LogLevelFatal {
		return
	}

	l.log(color.MagentaString, LogLevelFatal, msg, ctx)
}

// Info writes an info log.
func (l *HostLogger) Info(msg string, ctx *LogContext) {
	if l.ll > LogLevelInfo {
		return
	}

	l.log(color.BlueString, LogLevelInfo, msg, ctx)
}

// Warn writes a warning log.
func (l *HostLogger) Warn(msg string, ctx *LogContext) {
	if l.ll > LogLevelWarn {
		return
	}

	l.log(color.YellowString, LogLevelWarn, msg, ctx)
}

// LogLevel returns the LogLevel set for the HostLogger.
func (l *HostLogger) LogLevel() LogLevel { return l.ll }

// Skip returns the current amount of frames to scroll back
// when logging a message.
func (l *HostLogger) Skip() int { return l.skip }

// log executes printing the log message,
// including any context if available.
func (l *HostLogger) log(colorizer func(string, ...any) string, level LogLevel, msg string, ctx *LogContext) {
	caller := l.caller()
	if ctx != nil && ctx.Caller != "" {
		caller = ctx.Caller
	}

	msg = colorizer("%s %s '%s'", level, caller, msg)
	if ctx == nil {
		l.l.Println(msg)
		return
	}

	l.l.Println(msg, "log_context:", ctx)
}

// caller formats the file and line number of the code calling a HostLogger method.
func (l *HostLogger) caller() string {
	// NOTE(dlk): skip the number of frames the HostLogger has
	// and however many the HostLogger is configured with
	_, file, line, ok := runtime.Caller(knownFrames + 1 + l.skip)
	if !ok {
		return "???:0"
	}

	return shortFile(file) + ":" + strconv.Itoa(line)
}

// shortFile trims file to the module-relative path,
// or the file and its directory, e.g.:
// /home/dlk/my-project/internal/internal.go => internal/internal.go
func shortFile(file string) string {
	if match := hostPathRegex.FindString(file); match != "" {
		return match
	}

	dir, base := path.Split(file)
	return path.Base(dir) + "/" + base
}
