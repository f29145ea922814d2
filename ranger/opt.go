package ranger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/auth"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// MetricsPath is the path WithMetrics serves collected metrics over.
const MetricsPath = "/metrics"

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithEnv is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithMetrics is an example of the second.
// The metrics route is registered only when the closure it returns is called,
// after every RangerOption configured the logger.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithAuthenticator sets the auth.Authenticator gating authed routes.
func WithAuthenticator(a auth.Authenticator) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.authenticator = a
		return nil, nil
	}
}

// WithCORS allows cross-origin requests from origins.
// No origins disables CORS handling.
func WithCORS(origins ...string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.corsOrigins = origins
		return nil, nil
	}
}

// WithEnv sets the environment the host runs in.
//
// If env is not a valid trailhead.Environment,
// WithEnv reads one from the ENVIRONMENT environment variable instead.
// If both fail, the default Environment is set to Development.
func WithEnv(env trailhead.Environment) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if err := env.Valid(); err != nil {
			env = trailhead.EnvVarOrEnv(environmentEnvVar, trailhead.Development)
		}

		rng.env = env
		return nil, nil
	}
}

// WithErrorHook sets the resp.ErrorHook taking over writing error responses.
func WithErrorHook(hook resp.ErrorHook) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.errHook = hook
		return nil, nil
	}
}

// WithForceHTTPS redirects plain HTTP requests to HTTPS outside of Development and Testing.
func WithForceHTTPS() RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.forceHTTPS = true
		return nil, nil
	}
}

// WithLogger sets the logger.Logger every component of the host logs through.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if l == nil {
			return nil, fmt.Errorf("%w: nil logger", trailhead.ErrBadConfig)
		}

		rng.l = l
		return nil, nil
	}
}

// WithMaxBodyBytes caps the size of request bodies read.
// A non-positive n uses req.DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if n <= 0 {
			n = req.DefaultMaxBodyBytes
		}

		rng.maxBodyBytes = n
		return nil, nil
	}
}

// WithMetrics records every routed request with reg
// and serves what reg gathers over GET MetricsPath.
func WithMetrics(reg *prometheus.Registry) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if reg == nil {
			return nil, fmt.Errorf("%w: nil registry", trailhead.ErrBadConfig)
		}

		m, err := middleware.NewMetrics(reg)
		if err != nil {
			return nil, err
		}

		rng.metrics = m
		return func() error {
			metrics := promhttp.HandlerFor(reg, promhttp.HandlerOpts{ErrorLog: promLogger{rng.l}})
			rng.l.Debug("serving metrics over "+MetricsPath, nil)

			return rng.builder.Handle(router.Route{
				Path:   MetricsPath,
				Method: http.MethodGet,
				Handler: func(r *req.Request) (resp.Result, error) {
					metrics.ServeHTTP(r.Response(), r.Raw())
					return resp.Empty(), nil
				},
			})
		}, nil
	}
}

// WithPreflight replaces the default responder for OPTIONS requests.
func WithPreflight(h http.Handler) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.preflight = h
		return nil, nil
	}
}

// WithPreRouting appends middlewares run on every request before it is routed.
func WithPreRouting(mws ...middleware.Adapter) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.preRouting = append(rng.preRouting, mws...)
		return nil, nil
	}
}

// WithRateLimit limits each client IP to limit requests per second,
// allowing bursts of up to burst requests.
func WithRateLimit(limit rate.Limit, burst int) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.visitors = middleware.NewVisitors(limit, burst)
		return nil, nil
	}
}

// WithSerializer sets the trailhead.Serializer decoding bodies and encoding values.
func WithSerializer(s trailhead.Serializer) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if s == nil {
			return nil, fmt.Errorf("%w: nil serializer", trailhead.ErrBadConfig)
		}

		rng.serializer = s
		return nil, nil
	}
}

// WithServer serves the host over srv.
func WithServer(srv *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if srv == nil {
			return nil, fmt.Errorf("%w: nil server", trailhead.ErrBadConfig)
		}

		rng.transport = NewServerTransport(srv)
		return nil, nil
	}
}

// WithTransport serves the host over t.
func WithTransport(t Transport) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if t == nil {
			return nil, fmt.Errorf("%w: nil transport", trailhead.ErrBadConfig)
		}

		rng.transport = t
		return nil, nil
	}
}

// WithTracing traces every request with spans from tp.
// A nil tp uses the global trace.TracerProvider.
func WithTracing(tp trace.TracerProvider) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if tp == nil {
			tp = otel.GetTracerProvider()
		}

		rng.tracer = tp
		return nil, nil
	}
}

// withShutdownTimeout bounds how long Shutdown waits on the Transport.
func withShutdownTimeout(d time.Duration) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.shutdownTimeout = d
		return nil, nil
	}
}

// promLogger reports errors serving metrics through a logger.Logger.
type promLogger struct {
	l logger.Logger
}

func (p promLogger) Println(v ...any) { p.l.Error(fmt.Sprint(v...), nil) }
