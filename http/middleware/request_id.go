package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/trailhead"
)

// RequestIDHeader carries the ID RequestID assigns a request.
const RequestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under trailhead.RequestIDKey
// and sets it on the response as RequestIDHeader.
//
// An incoming RequestIDHeader holding a valid uuid is reused.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), trailhead.RequestIDKey, id)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
