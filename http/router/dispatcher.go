package router

import (
	"fmt"
	"net/http"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
)

// A Dispatcher turns a Route into an http.Handler.
//
// Each request moves through adapting the request, running the Handler
// and rendering its result; a failure at any step ends in Responder.Err.
type Dispatcher struct {
	adapter   *req.Adapter
	responder *resp.Responder
}

// NewDispatcher constructs a *Dispatcher.
// Nil arguments are replaced with defaults.
func NewDispatcher(a *req.Adapter, d *resp.Responder) *Dispatcher {
	if d == nil {
		d = resp.NewResponder()
	}

	if a == nil {
		a = req.NewAdapter(d.Serializer(), 0)
	}

	return &Dispatcher{adapter: a, responder: d}
}

// Handler builds the http.Handler for route.
//
// The BodyDecoder for route is chosen here, once.
func (doer *Dispatcher) Handler(route Route) http.Handler {
	dec := req.NewBodyDecoder(route.Body)
	handle := route.Handler

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := resp.NewWriter(w)
		defer func() {
			if p := recover(); p != nil {
				doer.responder.Err(rw, r, fmt.Errorf("%w: handler for %s panicked: %v", trailhead.ErrUnexpected, route.key(), p))
			}
		}()

		nr, err := doer.adapter.Adapt(rw, r, dec)
		if err != nil {
			doer.responder.Err(rw, r, err)
			return
		}

		res, err := handle(nr)
		if err != nil {
			doer.responder.Err(rw, r, err)
			return
		}

		doer.responder.Render(rw, r, res)
	})
}
