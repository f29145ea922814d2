package middleware

import (
	"fmt"
	"net/http"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/auth"
	"github.com/xy-planning-network/trailhead/http/resp"
)

// Authenticate gates the next handler behind a.
//
// Authenticate moves each request out of auth.Unchecked:
//   - auth.Allowed passes the request on with the *auth.Result stashed in its context.
//   - auth.Denied writes NotAuthorized with a 401.
//   - auth.Faulted writes InternalError with a 500.
//
// An error returned, or a panic raised, by a is auth.Faulted with its message attached.
// In no case other than auth.Allowed does the next handler run.
//
// If a is nil, NoopAdapter returns and every request is implicitly permitted.
func Authenticate(a auth.Authenticator, d *resp.Responder) Adapter {
	if a == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := authenticate(a, r)
			switch auth.Classify(res, err) {
			case auth.Allowed:
				handler.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), res)))

			case auth.Denied:
				d.Err(w, r, trailhead.NewDomainError(trailhead.NotAuthorized, http.StatusUnauthorized, ""))

			default:
				msg := "authenticator returned no result"
				if err != nil {
					msg = err.Error()
				}

				d.Err(w, r, trailhead.NewDomainError(trailhead.InternalError, http.StatusInternalServerError, msg).Wrap(err))
			}
		})
	}
}

// authenticate calls a, recovering a panic into an error.
func authenticate(a auth.Authenticator, r *http.Request) (res *auth.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = fmt.Errorf("%w: authenticator panicked: %v", trailhead.ErrUnexpected, p)
		}
	}()

	return a.Authenticate(r)
}
