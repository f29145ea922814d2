package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/xy-planning-network/trailhead"
)

var (
	ErrDuplicateRoute = errors.New("duplicate route")
	ErrSealed         = errors.New("route table sealed")
)

// A Builder accumulates routes until sealed into a *Table.
//
// A Builder is safe for concurrent use.
type Builder struct {
	mu      sync.Mutex
	routes  []Route
	statics []StaticRoute
	seen    map[string]struct{}
	table   *Table
}

func NewBuilder() *Builder { return &Builder{seen: make(map[string]struct{})} }

// Handle registers routes in order.
//
// Each Route must have a Method, a Handler and a Path beginning with "/";
// otherwise Handle returns trailhead.ErrBadConfig.
// A Route sharing its Method and Path with one already registered returns ErrDuplicateRoute.
// After Seal, Handle returns ErrSealed.
//
// Should any Route fail, none are registered.
func (b *Builder) Handle(routes ...Route) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.table != nil {
		return ErrSealed
	}

	batch := make(map[string]struct{}, len(routes))
	valid := make([]Route, 0, len(routes))
	for _, route := range routes {
		route.Method = strings.ToUpper(strings.TrimSpace(route.Method))
		if err := validate(route); err != nil {
			return err
		}

		k := route.key()
		_, registered := b.seen[k]
		_, inBatch := batch[k]
		if registered || inBatch {
			return fmt.Errorf("%w: %s", ErrDuplicateRoute, k)
		}

		batch[k] = struct{}{}
		valid = append(valid, route)
	}

	for _, route := range valid {
		b.seen[route.key()] = struct{}{}
		b.routes = append(b.routes, route)
	}

	return nil
}

// AuthedRoutes registers routes as those requiring authentication.
func (b *Builder) AuthedRoutes(routes ...Route) error {
	return b.Handle(withAuthed(routes, true)...)
}

// UnauthedRoutes registers routes as those reachable without authentication.
func (b *Builder) UnauthedRoutes(routes ...Route) error {
	return b.Handle(withAuthed(routes, false)...)
}

// Static registers fs to serve files for GET and HEAD requests below prefix.
// Requests for files not in fs receive a 404.
func (b *Builder) Static(prefix string, fs http.FileSystem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.table != nil {
		return ErrSealed
	}

	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("%w: static prefix %q must begin with /", trailhead.ErrBadConfig, prefix)
	}

	if fs == nil {
		return fmt.Errorf("%w: static prefix %q has no file system", trailhead.ErrBadConfig, prefix)
	}

	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	b.statics = append(b.statics, StaticRoute{Prefix: prefix, FS: fs})
	return nil
}

// Seal produces the *Table of every route registered.
// Calling Seal again returns the same *Table.
func (b *Builder) Seal() *Table {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.table == nil {
		b.table = &Table{
			routes:  append([]Route(nil), b.routes...),
			statics: append([]StaticRoute(nil), b.statics...),
		}
	}

	return b.table
}

// Sealed asserts whether Seal has been called.
func (b *Builder) Sealed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.table != nil
}

func validate(route Route) error {
	switch {
	case route.Path == "":
		return fmt.Errorf("%w: route has no path", trailhead.ErrBadConfig)
	case !strings.HasPrefix(route.Path, "/"):
		return fmt.Errorf("%w: route path %q must begin with /", trailhead.ErrBadConfig, route.Path)
	case route.Method == "":
		return fmt.Errorf("%w: route %q has no method", trailhead.ErrBadConfig, route.Path)
	case route.Handler == nil:
		return fmt.Errorf("%w: route %s has no handler", trailhead.ErrBadConfig, route.key())
	default:
		return nil
	}
}

func withAuthed(routes []Route, authed bool) []Route {
	out := make([]Route, len(routes))
	for i, route := range routes {
		route.Authed = authed
		out[i] = route
	}

	return out
}

// A Table is the immutable set of routes a *Router binds.
type Table struct {
	routes  []Route
	statics []StaticRoute
}

// Routes returns every route in the order registered.
func (t *Table) Routes() []Route { return append([]Route(nil), t.routes...) }

// Authed returns the routes requiring authentication in the order registered.
func (t *Table) Authed() []Route { return t.filter(true) }

// Unauthed returns the routes reachable without authentication in the order registered.
func (t *Table) Unauthed() []Route { return t.filter(false) }

// Statics returns the static routes in the order registered.
func (t *Table) Statics() []StaticRoute { return append([]StaticRoute(nil), t.statics...) }

// Len is the number of routes, not counting static routes.
func (t *Table) Len() int { return len(t.routes) }

func (t *Table) filter(authed bool) []Route {
	var out []Route
	for _, route := range t.routes {
		if route.Authed == authed {
			out = append(out, route)
		}
	}

	return out
}
