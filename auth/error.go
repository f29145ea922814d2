package auth

import "errors"

var (
	ErrNoResult   = errors.New("authenticator returned no result")
	ErrNotValid   = errors.New("not valid")
	ErrUnexpected = errors.New("unexpected")
)
