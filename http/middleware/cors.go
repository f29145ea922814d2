package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS sets "Access-Control-Allow" style headers on responses to requests from origins.
//
// CORS leaves OPTIONS requests to the next handler,
// so preflight requests still reach the preflight responder.
//
// If origins is empty, NoopAdapter returns and this middleware does nothing.
func CORS(origins []string) Adapter {
	if len(origins) == 0 {
		return NoopAdapter
	}

	return handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Authorization",
			"Content-Type",
			"X-Requested-With",
		}),
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{
			http.MethodDelete,
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
			http.MethodPatch,
			http.MethodPost,
			http.MethodPut,
		}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
		handlers.IgnoreOptions(),
	)
}
