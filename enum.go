package trailhead

import (
	"fmt"
	"net/http"
)

// Enumerable is the interface implemented by types that can only be represented by enumerable, constant values.
type Enumerable interface {
	String() string
	Valid() error
}

var _ Enumerable = ResultCode("")

// A ResultCode names the outcome of handling a request
// and is rendered as the "Error" field of an error body.
type ResultCode string

const (
	BadRequest           ResultCode = "BadRequest"
	Conflict             ResultCode = "Conflict"
	DeserializationError ResultCode = "DeserializationError"
	Forbidden            ResultCode = "Forbidden"
	InternalError        ResultCode = "InternalError"
	NotAuthorized        ResultCode = "NotAuthorized"
	NotFound             ResultCode = "NotFound"
	NotImplemented       ResultCode = "NotImplemented"
	RateLimited          ResultCode = "RateLimited"
	Unavailable          ResultCode = "Unavailable"
)

func (c ResultCode) String() string { return string(c) }

// Valid asserts c is one of the known ResultCodes.
func (c ResultCode) Valid() error {
	if _, ok := codeStatuses[c]; !ok {
		return fmt.Errorf("%w: ResultCode %q", ErrNotValid, string(c))
	}

	return nil
}

// Status is the HTTP status code paired with c when no other is chosen.
// Unknown ResultCodes pair with http.StatusInternalServerError.
func (c ResultCode) Status() int {
	code, ok := codeStatuses[c]
	if !ok {
		return http.StatusInternalServerError
	}

	return code
}

var codeStatuses = map[ResultCode]int{
	BadRequest:           http.StatusBadRequest,
	Conflict:             http.StatusConflict,
	DeserializationError: http.StatusBadRequest,
	Forbidden:            http.StatusForbidden,
	InternalError:        http.StatusInternalServerError,
	NotAuthorized:        http.StatusUnauthorized,
	NotFound:             http.StatusNotFound,
	NotImplemented:       http.StatusNotImplemented,
	RateLimited:          http.StatusTooManyRequests,
	Unavailable:          http.StatusServiceUnavailable,
}
