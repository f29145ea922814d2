/*
The middleware package defines what a middleware is in trailhead and a set of basic middlewares.

The available middlewares are:
- Authenticate
- CORS
- ForceHTTPS
- InjectIPAddress
- Instrument
- LogRequest
- RateLimit
- ReportPanic
- RequestID

Preflight is the default responder to CORS preflight requests.

The ranger package assembles these into a chain for an application.
Assembling one by hand looks like:

	vs := middleware.NewVisitors(0, 0)
	adpts := []middleware.Adapter{
		middleware.LogRequest(log),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.RateLimit(vs, responder),
		middleware.ForceHTTPS(env),
	}

*/
package middleware
