package resp

import "net/http"

// A Kind is the variant of a Result.
type Kind int

const (
	KindEmpty Kind = iota
	KindValue
	KindValueWithStatus
)

// A Result is what a handler returns for the Responder to render.
//
// The zero value is Empty.
type Result struct {
	kind    Kind
	payload any
	status  int
}

// Empty renders no body, leaving the status code as is.
func Empty() Result { return Result{} }

// Value renders v according to its type.
func Value(v any) Result { return Result{kind: KindValue, payload: v} }

// WithStatus renders v according to its type with the status code set to code.
func WithStatus(v any, code int) Result {
	return Result{kind: KindValueWithStatus, payload: v, status: code}
}

// NoContent renders no body with http.StatusNoContent.
func NoContent() Result { return WithStatus(nil, http.StatusNoContent) }

func (r Result) Kind() Kind { return r.kind }

func (r Result) Payload() any { return r.payload }

// Status returns the status code r sets, if it sets one.
func (r Result) Status() (int, bool) {
	return r.status, r.kind == KindValueWithStatus
}
