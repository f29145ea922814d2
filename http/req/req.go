package req

import (
	"fmt"
	"net/url"

	"github.com/xy-planning-network/trailhead"
)

// A Parser decodes and validates payloads carried by an HTTP request.
type Parser struct {
	queryParamDecoder queryParamDecoder
	serializer        trailhead.Serializer
	validator
}

// NewParser constructs a *Parser decoding bodies with s.
// A nil s uses trailhead.JSONSerializer.
func NewParser(s trailhead.Serializer) *Parser {
	if s == nil {
		s = trailhead.JSONSerializer{}
	}

	return &Parser{
		queryParamDecoder: newQueryParamDecoder(),
		serializer:        s,
		validator:         defaultValidator,
	}
}

// ParseBody decodes b into structPtr with the Parser's trailhead.Serializer, then validates it.
// Data failing validation rules returns ValidationErrors, which unwrap to trailhead.ErrNotValid.
func (p *Parser) ParseBody(b []byte, structPtr any) error {
	if len(b) == 0 {
		return fmt.Errorf("trailhead/http/req: %w: empty request body", trailhead.ErrDeserialization)
	}

	if err := p.serializer.Decode(b, structPtr); err != nil {
		return fmt.Errorf("trailhead/http/req: failed decoding request body: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("trailhead/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseQueryParams decodes into a pointer to a struct the query param data in params.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if err := p.queryParamDecoder.decode(structPtr, params); err != nil {
		return fmt.Errorf("trailhead/http/req: failed decoding request query params: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("trailhead/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}
