package resp

import (
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/logger"
)

// A ResponderOptFn mutates the provided *Responder in some way.
// A ResponderOptFn is used when constructing a new Responder.
type ResponderOptFn func(*Responder)

// WithErrorHook sets the ErrorHook Err calls before mapping an error itself.
func WithErrorHook(hook ErrorHook) func(*Responder) {
	return func(d *Responder) {
		d.hook = hook
	}
}

// WithInternalMessages sets whether an InternalError carries the message of the error causing it.
//
// Only enable this outside of production.
func WithInternalMessages(expose bool) func(*Responder) {
	return func(d *Responder) {
		d.exposeInternal = expose
	}
}

// WithLogger sets the provided implementation of Logger in order to log all statements through it.
//
// If no Logger is provided through this option, a *logger.HostLogger will be configured.
func WithLogger(log logger.Logger) func(*Responder) {
	return func(d *Responder) {
		d.logger = log
	}
}

// WithSerializer sets the provided implementation of trailhead.Serializer
// to encode values and error bodies with.
//
// If no Serializer is provided through this option, trailhead.JSONSerializer is used.
func WithSerializer(s trailhead.Serializer) func(*Responder) {
	return func(d *Responder) {
		d.serializer = s
	}
}
