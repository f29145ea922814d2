package trailhead

type Key string

const (
	// AuthResultKey stashes the outcome of authenticating an HTTP request.
	AuthResultKey Key = "AuthResultKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled by trailhead.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// RouteKey stashes the path pattern of the route matching an HTTP request.
	RouteKey Key = "RouteKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "trailhead context key: " + string(k)
}
