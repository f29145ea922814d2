package middleware

import (
	"net/http"
	"net/url"

	"github.com/xy-planning-network/trailhead"
)

// ForceHTTPS redirects HTTP requests to HTTPS if the environment is not "development" or "testing".
//
// The "X-Forwarded-Proto" is used to check whether HTTP was requested due to a trailhead application
// running behind a proxy.
func ForceHTTPS(env trailhead.Environment) Adapter {
	if env.IsDevelopment() || env.IsTesting() {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Forwarded-Proto") == "https" || r.TLS != nil {
				handler.ServeHTTP(w, r)
				return
			}

			u := new(url.URL)
			*u = *r.URL
			u.Scheme = "https"
			u.Host = r.Host

			http.Redirect(w, r, u.String(), http.StatusPermanentRedirect)
		})
	}
}
