package ranger

import "errors"

var (
	ErrClosed  = errors.New("ranger closed")
	ErrGuiding = errors.New("already guiding")
)
