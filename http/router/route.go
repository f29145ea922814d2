package router

import (
	"net/http"
	"reflect"

	"github.com/xy-planning-network/trailhead/http/middleware"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
)

// A Handler handles a request normalized into a *req.Request,
// returning either a resp.Result to render or an error to map.
//
// Return a *trailhead.DomainError to choose the ResultCode and status of a failure;
// cf. resp.MapError for how other errors map.
type Handler func(r *req.Request) (resp.Result, error)

// A Route maps a path and HTTP method to a [Handler].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
//
// Path may hold placeholders, as in "/user/{id}".
type Route struct {
	Path        string
	Method      string
	Handler     Handler
	Middlewares []middleware.Adapter

	// Body is the type request bodies are coerced into. See [Body].
	Body reflect.Type

	// Authed routes run behind the configured authenticator.
	Authed bool
}

// Body returns the reflect.Type to set as a Route's Body.
func Body[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// A StaticRoute serves the files in FS below the path Prefix.
type StaticRoute struct {
	Prefix string
	FS     http.FileSystem
}

func (r Route) key() string { return r.Method + " " + r.Path }
