package middleware

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/trailhead"
)

// ReportPanic wraps the next handler in sentryhttp.Handler
// in order to report panics and attach a hub to each request.
// The panic is raised again for the handler recovering it.
//
// In development, NoopAdapter returns and this middleware does nothing.
func ReportPanic(env trailhead.Environment) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})

	return func(handler http.Handler) http.Handler {
		return sh.Handle(handler)
	}
}
