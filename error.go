package trailhead

import "errors"

var (
	ErrBadConfig       = errors.New("bad config")
	ErrDeserialization = errors.New("cannot deserialize")
	ErrMissingData     = errors.New("missing data")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrNotExist        = errors.New("not exist")
	ErrNotValid        = errors.New("invalid")
	ErrUnexpected      = errors.New("unexpected")
)
