package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/logger"
)

// A LogRequestRecord is what LogRequest records about a request once it is handled.
type LogRequestRecord struct {
	BodySize       int           `json:"bodySize"`
	Elapsed        time.Duration `json:"elapsed"`
	Host           string        `json:"host"`
	ID             string        `json:"id,omitempty"`
	IPAddr         string        `json:"ipAddr,omitempty"`
	Method         string        `json:"method"`
	Path           string        `json:"path"`
	Protocol       string        `json:"protocol"`
	Referrer       string        `json:"referrer,omitempty"`
	ReqContentType string        `json:"reqContentType,omitempty"`
	Scheme         string        `json:"scheme,omitempty"`
	Status         int           `json:"status"`
	URI            string        `json:"uri"`
	UserAgent      string        `json:"userAgent,omitempty"`
}

// LogRequest logs the method, path, status and time elapsed of every request
// after the next handler writes the response,
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following query param keys:
// - password
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := resp.NewWriter(w)
			h.ServeHTTP(rw, r)

			rec := NewLogRequestRecord(r, rw.Status(), rw.BytesWritten())
			rec.Elapsed = time.Since(start)

			ls.Info(
				fmt.Sprintf("%s %s %d %s", rec.Method, rec.URI, rec.Status, rec.Elapsed),
				&logger.LogContext{
					Data:    map[string]any{"request": rec},
					Elapsed: rec.Elapsed,
					Status:  rec.Status,
				},
			)
		})
	}
}

// NewLogRequestRecord collects the parts of r worth logging.
func NewLogRequestRecord(r *http.Request, status, size int) LogRequestRecord {
	uri := r.URL.Path
	q := r.URL.Query()
	trailhead.Mask(q, "password")
	if query := q.Encode(); query != "" {
		uri += "?" + query
	}

	rec := LogRequestRecord{
		BodySize:       size,
		Host:           r.Host,
		Method:         r.Method,
		Path:           r.URL.Path,
		Protocol:       r.Proto,
		Referrer:       r.Referer(),
		ReqContentType: r.Header.Get("Content-Type"),
		Scheme:         r.URL.Scheme,
		Status:         status,
		URI:            uri,
		UserAgent:      r.UserAgent(),
	}

	if id, ok := r.Context().Value(trailhead.RequestIDKey).(string); ok {
		rec.ID = id
	}

	if ip, ok := r.Context().Value(trailhead.IpAddrKey).(string); ok {
		rec.IPAddr = ip
	}

	return rec
}
