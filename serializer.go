package trailhead

import (
	"encoding/json"
	"errors"
	"fmt"
)

// A Serializer encodes values to and decodes values from a wire format.
//
// Implementations must be safe for concurrent use.
type Serializer interface {
	ContentType() string
	Decode(data []byte, ptr any) error
	Encode(v any) ([]byte, error)
}

// JSONSerializer implements Serializer with encoding/json.
type JSONSerializer struct{}

func (JSONSerializer) ContentType() string { return "application/json" }

// Decode unmarshals data into ptr.
// Malformed data and data not matching the shape of ptr both return ErrDeserialization.
// A non-pointer ptr returns ErrBadConfig.
func (JSONSerializer) Decode(data []byte, ptr any) error {
	var ourFault *json.InvalidUnmarshalError
	err := json.Unmarshal(data, ptr)
	if errors.As(err, &ourFault) {
		return fmt.Errorf("%w: Decode called with non-pointer: %s", ErrBadConfig, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", ErrDeserialization, err)
	}

	return nil
}

// Encode marshals v.
func (JSONSerializer) Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot encode %T: %s", ErrUnexpected, v, err)
	}

	return b, nil
}
