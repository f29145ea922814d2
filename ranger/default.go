package ranger

import (
	"net/http"
	"os"
	"time"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/logger"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	sentryDsnEnvVar = "SENTRY_DSN"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second
	shutdownTimeoutEnvVar     = "SHUTDOWN_TIMEOUT"
	DefaultShutdownTimeout    = 5 * time.Second

	// Request defaults
	maxBodyBytesEnvVar = "MAX_BODY_BYTES"
	corsOriginsEnvVar  = "CORS_ORIGINS"
)

// defaultOpts are applied by New before any RangerOption passed in.
func defaultOpts() []RangerOption {
	return []RangerOption{
		WithEnv(""),
		WithMaxBodyBytes(trailhead.EnvVarOrInt64(maxBodyBytesEnvVar, req.DefaultMaxBodyBytes)),
		WithCORS(trailhead.EnvVarOrStrings(corsOriginsEnvVar, nil)...),
		withShutdownTimeout(trailhead.EnvVarOrDuration(shutdownTimeoutEnvVar, DefaultShutdownTimeout)),
		withDefaultLogger(),
		withDefaultTransport(),
	}
}

// withDefaultLogger constructs a followup setting up the logger
// when no other RangerOption did.
func withDefaultLogger() RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			if rng.l == nil {
				rng.l = defaultLogger(rng.env)
			}

			return nil
		}, nil
	}
}

// withDefaultTransport constructs a followup setting up the Transport
// when no other RangerOption did.
func withDefaultTransport() RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			if rng.transport == nil {
				rng.transport = NewServerTransport(defaultServer())
				rng.l.Debug("using default server", nil)
			}

			return nil
		}, nil
	}
}

// defaultLogger constructs a [logger.Logger] configured for the given environment.
// When SENTRY_DSN is set, error logs are forwarded to Sentry.
func defaultLogger(env trailhead.Environment) logger.Logger {
	hl := logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(logger.NewLogLevel(os.Getenv(logLevelEnvVar))),
	)

	var l logger.Logger = hl
	if dsn := os.Getenv(sentryDsnEnvVar); dsn != "" {
		l = logger.NewSentryLogger(hl, dsn)
		l.Debug("using SentryLogger", nil)
	}

	return l
}

// defaultServer constructs a default [*http.Server].
func defaultServer() *http.Server {
	port := trailhead.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	host := trailhead.EnvVarOrString(hostEnvVar, DefaultHost)
	if host == "0.0.0.0" || host == "*" {
		host = ""
	}

	return &http.Server{
		Addr:         host + port,
		IdleTimeout:  trailhead.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  trailhead.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: trailhead.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
}
