package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/resp"
	"golang.org/x/time/rate"
)

const (
	DefaultRateLimit rate.Limit = 5
	DefaultBurst                = 20
	visitorTTL                  = 60 * time.Minute
)

// A Visitor tracks a rate limiter and last seen time.
type Visitor struct {
	LastSeen time.Time
	Limiter  *rate.Limiter
}

// A Visitors maps a Visitor to an IP address.
type Visitors struct {
	burst int
	limit rate.Limit
	val   map[string]Visitor
	sync.Mutex
}

// NewVisitors constructs a *Visitors limiting each visitor to limit requests every second
// with bursts of up to burst.
// Non-positive values use DefaultRateLimit and DefaultBurst.
func NewVisitors(limit rate.Limit, burst int) *Visitors {
	if limit <= 0 {
		limit = DefaultRateLimit
	}

	if burst <= 0 {
		burst = DefaultBurst
	}

	return &Visitors{burst: burst, limit: limit, val: make(map[string]Visitor)}
}

// Fetch retrieves the Visitor for the given ip creating a new Visitor if not seen.
func (vs *Visitors) Fetch(ip string) Visitor {
	vs.Lock()
	defer vs.Unlock()

	v, ok := vs.val[ip]
	if !ok {
		v = Visitor{Limiter: rate.NewLimiter(vs.limit, vs.burst)}
	}

	v.LastSeen = time.Now().UTC()
	vs.val[ip] = v
	return v
}

// Len is the number of visitors tracked.
func (vs *Visitors) Len() int {
	vs.Lock()
	defer vs.Unlock()

	return len(vs.val)
}

// cleanup deletes a Visitor from Visitors if they have not been seen in over an hour.
func (vs *Visitors) cleanup() {
	vs.Lock()
	defer vs.Unlock()
	for ip, v := range vs.val {
		if time.Since(v.LastSeen) > visitorTTL {
			delete(vs.val, ip)
		}
	}
}

// RateLimit encloses the Visitors map and serves the http.Handler,
// writing RateLimited with a 429 to visitors over their limit.
//
// NOTE: implementation found here:
// https://www.alexedwards.net/blog/how-to-rate-limit-http-requests
//
// If visitors is nil, NoopAdapter returns and this middleware does nothing.
func RateLimit(visitors *Visitors, d *resp.Responder) Adapter {
	if visitors == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !visitors.Fetch(ClientIP(r)).Limiter.Allow() {
				d.Err(w, r, trailhead.NewDomainError(trailhead.RateLimited, http.StatusTooManyRequests, ""))
				return
			}

			visitors.cleanup()
			h.ServeHTTP(w, r)
		})
	}
}
