/*
Package logger provides logging functionality to a trailhead host by defining the required behavior in [Logger]
and providing an implementation of it with [HostLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
[HostLogger] accepts a [LogLevel],
and if initialized with [LogLevelWarn],
only [*HostLogger.Warn], [*HostLogger.Error], and [*HostLogger.Fatal] produce messages.

Log messages emitted by [HostLogger] are composed of a few parts:
	- timestamp
	- log level
	- call site
	- message
	- log context

Here's an example:
	2022/04/28 15:55:21 [WARN] http/resp/error.go:43 'NotFound (404)' log_context: {"request":{"method":"GET","url":"/user/1"},"status":404}

The log context is a JSON-encoded [LogContext].
It carries data inessential to the message proper,
like the request being handled, its status, and how long handling it took.

# SentryLogger

[SentryLogger] wraps a [HostLogger] and forwards logs carrying an error,
at [LogLevelWarn] and above, to Sentry.
*/
package logger
