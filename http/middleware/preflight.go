package middleware

import (
	"net/http"
	"strings"
)

// Preflight responds to CORS preflight requests permissively.
//
// Preflight allows the origin of the request, or any origin if none is set,
// and mirrors any headers requested in "Access-Control-Request-Headers".
func Preflight() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		} else {
			h.Add("Vary", "Origin")
		}

		methods := []string{
			http.MethodDelete,
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
			http.MethodPatch,
			http.MethodPost,
			http.MethodPut,
		}

		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Max-Age", "86400")
		if requested := r.Header.Values("Access-Control-Request-Headers"); len(requested) > 0 {
			h.Set("Access-Control-Allow-Headers", strings.Join(requested, ", "))
		}

		h.Set("Accept", "*/*")
		h.Set("Accept-Encoding", "gzip, deflate, br")
		h.Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
	})
}
