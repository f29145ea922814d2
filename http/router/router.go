package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/auth"
	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/logger"
)

// A Router routes requests to the handlers bound from a *Table.
//
// Every request first passes through, in order:
// RequestID, InjectIPAddress, LogRequest, ReportPanic and the pre-routing hooks.
// Requests matching a Route then pass through the every-request stack,
// the authenticator when the Route is authed, and the Route's own middlewares.
type Router struct {
	authenticator auth.Authenticator
	adapter       *req.Adapter
	env           trailhead.Environment
	everyReqStack []middleware.Adapter
	logger        logger.Logger
	preRouting    []middleware.Adapter
	preflight     http.Handler
	responder     *resp.Responder

	handler http.Handler
	r       *mux.Router
}

// An Option configures a *Router.
type Option func(*Router)

// WithAdapter sets the *req.Adapter normalizing requests.
func WithAdapter(a *req.Adapter) Option {
	return func(r *Router) {
		r.adapter = a
	}
}

// WithAuthenticator sets the auth.Authenticator gating authed routes.
// Without one, authed routes are implicitly permitted.
func WithAuthenticator(a auth.Authenticator) Option {
	return func(r *Router) {
		r.authenticator = a
	}
}

// WithEnv sets the environment the Router runs in.
func WithEnv(env trailhead.Environment) Option {
	return func(r *Router) {
		r.env = env
	}
}

// WithEveryRequest appends the middlewares to the stack every Route applies.
func WithEveryRequest(mws ...middleware.Adapter) Option {
	return func(r *Router) {
		r.everyReqStack = append(r.everyReqStack, mws...)
	}
}

// WithLogger sets the logger.Logger LogRequest logs each request through.
func WithLogger(l logger.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithPreflight sets the handler responding to OPTIONS requests no Route handles.
func WithPreflight(h http.Handler) Option {
	return func(r *Router) {
		r.preflight = h
	}
}

// WithPreRouting appends the middlewares run on every request before it is routed.
func WithPreRouting(mws ...middleware.Adapter) Option {
	return func(r *Router) {
		r.preRouting = append(r.preRouting, mws...)
	}
}

// WithResponder sets the *resp.Responder rendering results and errors.
func WithResponder(d *resp.Responder) Option {
	return func(r *Router) {
		r.responder = d
	}
}

// New binds the routes of t onto a *Router.
//
// Routes are bound in the order registered, followed by the preflight responder,
// static routes and a catch-all.
// The catch-all writes BadRequest with a 400 for requests no Route matches,
// whether by path or by method.
func New(t *Table, opts ...Option) (*Router, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: no route table", trailhead.ErrBadConfig)
	}

	rt := &Router{env: trailhead.Development, r: mux.NewRouter()}
	for _, opt := range opts {
		opt(rt)
	}

	if rt.logger == nil {
		rt.logger = logger.New()
	}

	if rt.responder == nil {
		rt.responder = resp.NewResponder(resp.WithLogger(rt.logger))
	}

	if rt.preflight == nil {
		rt.preflight = middleware.Preflight()
	}

	dispatcher := NewDispatcher(rt.adapter, rt.responder)
	gate := middleware.Authenticate(rt.authenticator, rt.responder)

	for _, route := range t.Routes() {
		mws := append([]middleware.Adapter{}, rt.everyReqStack...)
		if route.Authed {
			mws = append(mws, gate)
		}
		mws = append(mws, route.Middlewares...)

		h := withRoute(route.Path, middleware.Chain(dispatcher.Handler(route), mws...))
		if err := rt.r.Handle(route.Path, h).Methods(route.Method).GetError(); err != nil {
			return nil, fmt.Errorf("%w: cannot bind %s: %s", trailhead.ErrBadConfig, route.key(), err)
		}
	}

	rt.r.Methods(http.MethodOptions).PathPrefix("/").Handler(rt.preflight)

	cacheControl := cacheControlMiddleware()
	for _, s := range t.Statics() {
		rt.r.Methods(http.MethodGet, http.MethodHead).PathPrefix(s.Prefix).Handler(
			middleware.Chain(http.StripPrefix(s.Prefix, http.FileServer(s.FS)), cacheControl),
		)
	}

	catchAll := rt.catchAll()
	rt.r.PathPrefix("/").Handler(catchAll)
	rt.r.NotFoundHandler = catchAll
	rt.r.MethodNotAllowedHandler = catchAll

	stack := []middleware.Adapter{
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(rt.logger),
		middleware.ReportPanic(rt.env),
	}
	rt.handler = middleware.Chain(rt.r, append(stack, rt.preRouting...)...)

	return rt, nil
}

// ServeHTTP responds to an HTTP request.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.handler.ServeHTTP(w, r)
}

func (rt *Router) catchAll() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt.responder.Err(w, r, trailhead.NewDomainError(trailhead.BadRequest, http.StatusBadRequest, ""))
	})
}

// withRoute stashes the pattern of the matched route under trailhead.RouteKey.
func withRoute(pattern string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), trailhead.RouteKey, pattern)))
	})
}

// cacheControlMiddleware helps by adding a "Cache-Control" header to the response.
func cacheControlMiddleware() middleware.Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "max-age=2592000") // 30 days
			handler.ServeHTTP(w, r)
		})
	}
}
