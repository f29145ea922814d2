package req

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
	"github.com/xy-planning-network/trailhead"
)

// queryParamDecoder binds url.Values onto a pointer to a struct.
type queryParamDecoder struct {
	dec *schema.Decoder
}

func newQueryParamDecoder() queryParamDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return queryParamDecoder{dec}
}

func (d queryParamDecoder) decode(structPtr any, params url.Values) error {
	if err := d.dec.Decode(structPtr, params); err != nil {
		return translateDecoderError(err)
	}

	return nil
}

// translateDecoderError converts an error returned by *schema.Decoder into standardized errors.
// Some *schema.Decoder errors are issues with calling code;
// some errors are unexpected issues;
// still some are issues with mismatches between a request's query params and the expected shape.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	// NOTE(dlk): outside the errors handled below,
	// schema wraps everything up in a MultiError.
	if !errors.As(err, &pkgErrs) {
		if strings.Contains(err.Error(), "interface must be a pointer to struct") {
			return fmt.Errorf("%w: %s", trailhead.ErrBadConfig, err)
		}

		return fmt.Errorf("%w: %s", trailhead.ErrDeserialization, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			ve := ValidationError{
				Field: err.Key,
				// NOTE(dlk): For non-slice values, ce.Index is -1.
				Got:  fmt.Sprintf("bad value at index %d", max(0, err.Index)),
				Rule: "must be " + err.Type.String(),
			}

			validErrs = append(validErrs, ve)

		case schema.EmptyFieldError:
			return fmt.Errorf(`%w: use validate tags to set "required" fields, not schema`, trailhead.ErrBadConfig)

		case schema.UnknownKeyError:
			ve := ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			}

			validErrs = append(validErrs, ve)

		default:
			// NOTE(dlk): a field of a type without a schema.Converter registered
			// does not fail until a url.Values sets a value for it.
			if strings.Contains(err.Error(), "schema: converter not found for") {
				return fmt.Errorf("%w: cannot convert values into unsupported type", trailhead.ErrBadConfig)
			}

			return fmt.Errorf("%w: %s", trailhead.ErrUnexpected, err)
		}
	}

	return validErrs
}
