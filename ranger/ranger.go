package ranger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	// TODO(dlk): configurable env files
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/auth"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// A Ranger manages and exposes all components of a trailhead host to one another.
type Ranger struct {
	builder *router.Builder

	authenticator   auth.Authenticator
	corsOrigins     []string
	env             trailhead.Environment
	errHook         resp.ErrorHook
	forceHTTPS      bool
	l               logger.Logger
	maxBodyBytes    int64
	metrics         *middleware.Metrics
	preflight       http.Handler
	preRouting      []middleware.Adapter
	serializer      trailhead.Serializer
	shutdownTimeout time.Duration
	tracer          trace.TracerProvider
	transport       Transport
	visitors        *middleware.Visitors

	mu       sync.Mutex
	closed   bool
	handler  http.Handler
	state    State
	stopOnce sync.Once
	unnotify context.CancelFunc
}

// New constructs a Ranger from the provided options.
// Default options are applied first followed by the options passed into New.
// Options supplied to New overwrite default configurations.
func New(opts ...RangerOption) (*Ranger, error) {
	r := &Ranger{builder: router.NewBuilder(), serializer: trailhead.JSONSerializer{}}
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): calling an option configures the *Ranger under construction.
	// Some options require data from other options.
	// These options, therefore, must delay configuring the *Ranger
	// until either (1) user supplied RangerOptions or (2) default RangerOptions
	// configure the *Ranger first.
	// They return an OptFollowup to be called after the initial set of options are run.
	for _, opt := range append(defaultOpts(), opts...) {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", trailhead.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", trailhead.ErrBadConfig, err)
		}
	}

	r.l.Debug(fmt.Sprintf("using env %s", r.env), nil)

	return r, nil
}

func (r *Ranger) EmitEnv() trailhead.Environment { return r.env }
func (r *Ranger) EmitLogger() logger.Logger      { return r.l }

// Handle registers routes; cf. [router.Builder.Handle].
// Once the host builds its handler, Handle returns router.ErrSealed.
func (r *Ranger) Handle(routes ...router.Route) error { return r.builder.Handle(routes...) }

// AuthedRoutes registers routes behind the configured auth.Authenticator.
func (r *Ranger) AuthedRoutes(routes ...router.Route) error { return r.builder.AuthedRoutes(routes...) }

// UnauthedRoutes registers routes open to every request.
func (r *Ranger) UnauthedRoutes(routes ...router.Route) error {
	return r.builder.UnauthedRoutes(routes...)
}

// Static serves the files in fs under prefix.
func (r *Ranger) Static(prefix string, fs http.FileSystem) error { return r.builder.Static(prefix, fs) }

// State reports where r is in its lifecycle.
func (r *Ranger) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Handler seals the routes registered so far and builds the http.Handler serving them.
// Subsequent calls return the same http.Handler.
func (r *Ranger) Handler() (http.Handler, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.buildHandler()
}

func (r *Ranger) buildHandler() (http.Handler, error) {
	if r.handler != nil {
		return r.handler, nil
	}

	responder := resp.NewResponder(
		resp.WithLogger(r.l),
		resp.WithSerializer(r.serializer),
		resp.WithInternalMessages(r.env.ExposesInternals()),
		resp.WithErrorHook(r.errHook),
	)

	pre := []middleware.Adapter{middleware.CORS(r.corsOrigins)}
	if r.visitors != nil {
		pre = append(pre, middleware.RateLimit(r.visitors, responder))
	}

	if r.forceHTTPS {
		pre = append(pre, middleware.ForceHTTPS(r.env))
	}

	opts := []router.Option{
		router.WithAdapter(req.NewAdapter(r.serializer, r.maxBodyBytes)),
		router.WithAuthenticator(r.authenticator),
		router.WithEnv(r.env),
		router.WithEveryRequest(middleware.Instrument(r.metrics)),
		router.WithLogger(r.l),
		router.WithPreRouting(append(pre, r.preRouting...)...),
		router.WithResponder(responder),
	}
	if r.preflight != nil {
		opts = append(opts, router.WithPreflight(r.preflight))
	}

	table := r.builder.Seal()
	rt, err := router.New(table, opts...)
	if err != nil {
		return nil, err
	}

	r.l.Debug(fmt.Sprintf("routing %d routes", table.Len()), nil)

	var h http.Handler = rt
	if r.tracer != nil {
		h = otelhttp.NewHandler(rt, "trailhead", otelhttp.WithTracerProvider(r.tracer))
	}

	r.handler = h
	return h, nil
}

// Guide begins serving the host over its Transport and blocks until it stops.
//
// These stop Guide:
//
//   - ctx is done
//   - the Transport stops on its own, e.g., failing to listen
//   - (*Ranger).Shutdown
//   - os.Interrupt
//   - syscall.SIGHUP
//   - syscall.SIGQUIT
//   - syscall.SIGTERM
//
// Guide tears the host down before returning.
// An error starting or running the Transport is logged and returned.
// A *Ranger can only be guided once.
func (r *Ranger) Guide(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}

	if r.state != Stopped {
		r.mu.Unlock()
		return ErrGuiding
	}

	r.state = Starting
	h, err := r.buildHandler()
	if err != nil {
		r.state = Stopped
		r.mu.Unlock()
		return err
	}

	r.transport.SetHandler(h)
	ctx, r.unnotify = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)
	r.state = Running
	r.mu.Unlock()

	msg := "running web server"
	if s, ok := r.transport.(fmt.Stringer); ok {
		msg += " at " + s.String()
	}
	r.l.Info(msg, nil)

	done := make(chan error, 1)
	go func() { done <- r.serve() }()

	select {
	case <-ctx.Done():
		r.l.Info(fmt.Sprint("received shutdown signal: ", context.Cause(ctx)), nil)
		err := r.Shutdown()

		select {
		case <-done:
		case <-time.After(r.shutdownTimeout):
			r.l.Warn("web server did not stop in time", nil)
		}

		return err

	case err := <-done:
		if err != nil {
			r.l.Error(err.Error(), nil)
		}

		if serr := r.Shutdown(); err == nil {
			err = serr
		}

		return err
	}
}

// serve runs the Transport, recovering a panic into an error.
func (r *Ranger) serve() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: web server panicked: %v", trailhead.ErrUnexpected, p)
		}
	}()

	err = r.transport.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return fmt.Errorf("could not listen: %w", err)
}

// Shutdown shutdowns the web server and stops listening for signals.
//
// Only the first call does anything; subsequent calls return nil.
func (r *Ranger) Shutdown() error {
	var err error
	r.stopOnce.Do(func() { err = r.shutdown() })

	return err
}

func (r *Ranger) shutdown() error {
	r.mu.Lock()
	r.closed = true
	running := r.state != Stopped
	if running {
		r.state = Stopping
	}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if r.unnotify != nil {
			r.unnotify()
		}
		r.state = Stopped
		r.mu.Unlock()
	}()

	if !running {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.shutdownTimeout)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.transport.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}
