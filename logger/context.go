package logger

import (
	"encoding"
	"encoding/json"
	"net/http"
	"time"

	"github.com/xy-planning-network/trailhead"
)

var (
	_ encoding.TextMarshaler = LogContext{}
)

// A LogContext provides additional information and configuration
// for a [Logger] method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller overrides the caller file and line number with the provided value.
	//
	// Caller is not logged in the text of a LogContext.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Elapsed is how long handling Request took, if it is done.
	Elapsed time.Duration

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request

	// Status is the HTTP status code written in response to Request.
	Status int
}

// MarshalText converts LogContext into a JSON representation,
// eliminating zero-value fields or fields not requiring logging.
//
// The "Authorization" and "Cookie" headers of Request are masked.
//
// Values in LogContext.Data that cannot be represented in JSON will cause an error to be thrown.
//
// MarshalText implements [encoding.TextMarshaler].
func (lc LogContext) MarshalText() ([]byte, error) {
	m := make(map[string]any)
	if lc.Data != nil {
		m["data"] = lc.Data
	}

	if lc.Error != nil {
		m["error"] = lc.Error.Error()
	}

	if lc.Elapsed > 0 {
		m["elapsed"] = lc.Elapsed.String()
	}

	if lc.Status != 0 {
		m["status"] = lc.Status
	}

	if lc.Request != nil {
		r := make(map[string]any)
		r["method"] = lc.Request.Method
		r["url"] = lc.Request.URL.String()

		header := lc.Request.Header.Clone()
		for _, key := range []string{"Authorization", "Cookie"} {
			if header.Get(key) != "" {
				header.Set(key, trailhead.LogMaskVal)
			}
		}
		if len(header) > 0 {
			r["header"] = header
		}

		if id, ok := lc.Request.Context().Value(trailhead.RequestIDKey).(string); ok && id != "" {
			r["id"] = id
		}

		if route, ok := lc.Request.Context().Value(trailhead.RouteKey).(string); ok && route != "" {
			r["route"] = route
		}

		m["request"] = r
	}

	return json.Marshal(m)
}

// String stringifies LogContext as a JSON representation of it.
func (lc LogContext) String() string {
	b, err := lc.MarshalText()
	if err != nil {
		return ""
	}

	return string(b)
}
