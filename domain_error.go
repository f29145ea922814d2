package trailhead

import "fmt"

// A DomainError is the failure a handler returns to choose
// the ResultCode and HTTP status of the response.
//
// Any other error a handler returns is an InternalError.
type DomainError struct {
	Code    ResultCode
	Status  int
	Message string
	Data    any

	// Err is the underlying cause, if any. Err is never rendered.
	Err error
}

// NewDomainError constructs a *DomainError.
// A zero status is replaced with the default status for code.
func NewDomainError(code ResultCode, status int, msg string) *DomainError {
	if status == 0 {
		status = code.Status()
	}

	return &DomainError{Code: code, Status: status, Message: msg}
}

// WithData attaches auxiliary data rendered in the "Data" field.
func (e *DomainError) WithData(data any) *DomainError {
	e.Data = data
	return e
}

// Wrap sets err as the underlying cause.
func (e *DomainError) Wrap(err error) *DomainError {
	e.Err = err
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s (%d)", e.Code, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *DomainError) Unwrap() error { return e.Err }
