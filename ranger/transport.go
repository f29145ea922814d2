package ranger

import (
	"context"
	"net/http"
)

// A Transport serves the handler a *Ranger builds.
//
// ListenAndServe blocks until the Transport stops;
// after Shutdown is called, it returns http.ErrServerClosed or nil.
type Transport interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	SetHandler(h http.Handler)
}

var _ Transport = (*ServerTransport)(nil)

// ServerTransport adapts an *http.Server into a Transport.
type ServerTransport struct {
	*http.Server
}

// NewServerTransport wraps srv.
func NewServerTransport(srv *http.Server) *ServerTransport {
	return &ServerTransport{Server: srv}
}

func (t *ServerTransport) SetHandler(h http.Handler) { t.Handler = h }

func (t *ServerTransport) String() string { return t.Addr }
