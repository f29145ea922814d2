package resp

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/trailhead"
)

var (
	ErrDone        = errors.New("request ctx done")
	ErrStreaming   = errors.New("already streaming")
	ErrNotFlushing = errors.New("response writer cannot flush")
)

// An ApiError is the uniform error body written in response to a failed request:
//
//	{"Error": "<ResultCode>", "Message": "<optional>", "Data": <optional>}
type ApiError struct {
	Code    trailhead.ResultCode `json:"Error"`
	Message string               `json:"Message,omitempty"`
	Data    any                  `json:"Data,omitempty"`
	Status  int                  `json:"-"`
}

func (e ApiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (%d)", e.Code, e.Status)
	}

	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// A DataCarrier is an error exposing auxiliary data to render in ApiError.Data.
type DataCarrier interface {
	error
	ApiData() any
}

// MapError classifies err into an ApiError:
//
//	*trailhead.DomainError           => its code and status
//	trailhead.ErrDeserialization     => DeserializationError, 400
//	trailhead.ErrNotValid            => DeserializationError, 400
//	trailhead.ErrNotAuthorized       => NotAuthorized, 401
//	anything else                    => InternalError, 500
func MapError(err error) ApiError {
	var de *trailhead.DomainError
	if errors.As(err, &de) {
		status := de.Status
		if status == 0 {
			status = de.Code.Status()
		}

		return ApiError{Code: de.Code, Message: de.Message, Data: de.Data, Status: status}
	}

	switch {
	case errors.Is(err, trailhead.ErrDeserialization), errors.Is(err, trailhead.ErrNotValid):
		ae := ApiError{
			Code:    trailhead.DeserializationError,
			Message: err.Error(),
			Status:  http.StatusBadRequest,
		}

		var dc DataCarrier
		if errors.As(err, &dc) {
			ae.Data = dc.ApiData()
		}

		return ae

	case errors.Is(err, trailhead.ErrNotAuthorized):
		return ApiError{Code: trailhead.NotAuthorized, Status: http.StatusUnauthorized}

	default:
		return ApiError{Code: trailhead.InternalError, Status: http.StatusInternalServerError}
	}
}
