package auth

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/trailhead"
)

// An Authentication is the outcome of establishing who made a request.
type Authentication int

const (
	AuthenticationFailed Authentication = iota
	AuthenticationSucceeded
)

func (a Authentication) String() string {
	if a == AuthenticationSucceeded {
		return "succeeded"
	}

	return "failed"
}

// An Authorization is the outcome of deciding whether an authenticated request may proceed.
type Authorization int

const (
	// DeniedImplicit is the zero value: nothing permitted the request.
	DeniedImplicit Authorization = iota
	Permitted
	DeniedExplicit
	NotFound
	Conflict
)

func (a Authorization) String() string {
	switch a {
	case Permitted:
		return "permitted"
	case DeniedExplicit:
		return "denied-explicit"
	case NotFound:
		return "not-found"
	case Conflict:
		return "conflict"
	default:
		return "denied-implicit"
	}
}

// A Result is what an Authenticator decides about a request.
type Result struct {
	Authentication Authentication
	Authorization  Authorization

	// Subject identifies who made the request, if known.
	Subject string

	// Claims holds whatever the Authenticator extracted from the request's credentials.
	Claims map[string]any
}

// Permitted asserts whether authentication succeeded and authorization permits the request.
func (r Result) Permitted() bool {
	return r.Authentication == AuthenticationSucceeded && r.Authorization == Permitted
}

// An Authenticator classifies requests bound to authenticated routes.
//
// An Authenticator returning a nil *Result and nil error is a fault,
// not a denial.
type Authenticator interface {
	Authenticate(r *http.Request) (*Result, error)
}

// AuthenticatorFunc adapts a function into an Authenticator.
type AuthenticatorFunc func(r *http.Request) (*Result, error)

func (fn AuthenticatorFunc) Authenticate(r *http.Request) (*Result, error) { return fn(r) }

// A Verdict is the state an auth gate reaches for a single request.
type Verdict int

const (
	Unchecked Verdict = iota
	Allowed
	Denied
	Faulted
)

func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	case Faulted:
		return "faulted"
	default:
		return "unchecked"
	}
}

// Classify moves a request out of Unchecked given what an Authenticator returned.
func Classify(res *Result, err error) Verdict {
	switch {
	case err != nil, res == nil:
		return Faulted
	case res.Permitted():
		return Allowed
	default:
		return Denied
	}
}

// NewContext stashes res in ctx.
func NewContext(ctx context.Context, res *Result) context.Context {
	return context.WithValue(ctx, trailhead.AuthResultKey, res)
}

// FromContext retrieves the *Result stashed in ctx.
// If no Authenticator ran, FromContext returns nil.
func FromContext(ctx context.Context) *Result {
	res, _ := ctx.Value(trailhead.AuthResultKey).(*Result)
	return res
}
