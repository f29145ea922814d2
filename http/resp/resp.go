package resp

import (
	"net/http"

	"github.com/xy-planning-network/trailhead/logger"
)

const (
	ContentTypeBinary = "application/octet-stream"
	ContentTypeEvents = "text/event-stream"
	ContentTypeJSON   = "application/json"
	ContentTypeText   = "text/plain"
)

// newLogContext helps structure a logger.LogContext from the provided parts.
func newLogContext(r *http.Request, err error, status int) *logger.LogContext {
	if r == nil && err == nil && status == 0 {
		return nil
	}

	return &logger.LogContext{Error: err, Request: r, Status: status}
}
