package req

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/xy-planning-network/trailhead"
)

// coerceFn converts a raw request body into a value of typ.
type coerceFn func(raw []byte, typ reflect.Type, s trailhead.Serializer) (any, error)

// A policy pairs a type predicate with the coercion applied to bodies of matching types.
type policy struct {
	name    string
	matches func(reflect.Type) bool
	coerce  coerceFn
}

// policies are checked in order; the last one matches any type.
var policies = []policy{
	{"text", isKind(reflect.String), coerceText},
	{"bool", isKind(reflect.Bool), coerceScalar},
	{"int", isKind(reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64), coerceScalar},
	{"uint", isKind(reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64), coerceScalar},
	{"float", isKind(reflect.Float32, reflect.Float64), coerceScalar},
	{"any", isUntyped, coerceUntyped},
	{"structured", func(reflect.Type) bool { return true }, coerceStructured},
}

// A BodyDecoder coerces raw request bodies into the type declared for a route.
//
// Build a BodyDecoder once per route with NewBodyDecoder.
// The zero value leaves every body undecoded.
type BodyDecoder struct {
	typ    reflect.Type
	policy string
	coerce coerceFn
}

// NewBodyDecoder selects how to coerce bodies into typ.
// A nil typ returns a BodyDecoder leaving bodies undecoded.
func NewBodyDecoder(typ reflect.Type) BodyDecoder {
	if typ == nil {
		return BodyDecoder{}
	}

	for _, p := range policies {
		if p.matches(typ) {
			return BodyDecoder{typ: typ, policy: p.name, coerce: p.coerce}
		}
	}

	// NOTE(dlk): unreachable, the last policy matches every type.
	return BodyDecoder{}
}

// Policy names the coercion d applies.
func (d BodyDecoder) Policy() string { return d.policy }

// Type is the declared body type.
func (d BodyDecoder) Type() reflect.Type { return d.typ }

// Decode coerces raw into the declared type.
// An empty raw body or a BodyDecoder without a declared type decodes to nil.
//
// Failures wrap trailhead.ErrDeserialization, or trailhead.ErrNotValid
// when a decoded struct fails its validation rules.
func (d BodyDecoder) Decode(raw []byte, s trailhead.Serializer) (any, error) {
	if d.coerce == nil || len(raw) == 0 {
		return nil, nil
	}

	if s == nil {
		s = trailhead.JSONSerializer{}
	}

	return d.coerce(raw, d.typ, s)
}

func isKind(kinds ...reflect.Kind) func(reflect.Type) bool {
	return func(t reflect.Type) bool {
		for _, k := range kinds {
			if t.Kind() == k {
				return true
			}
		}

		return false
	}
}

func isUntyped(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func coerceText(raw []byte, typ reflect.Type, _ trailhead.Serializer) (any, error) {
	return reflect.ValueOf(string(raw)).Convert(typ).Interface(), nil
}

func coerceScalar(raw []byte, typ reflect.Type, _ trailhead.Serializer) (any, error) {
	text := strings.TrimSpace(string(raw))
	v := reflect.New(typ).Elem()

	var err error
	switch typ.Kind() {
	case reflect.Bool:
		var b bool
		b, err = strconv.ParseBool(text)
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		i, err = strconv.ParseInt(text, 10, typ.Bits())
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var u uint64
		u, err = strconv.ParseUint(text, 10, typ.Bits())
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		var f float64
		f, err = strconv.ParseFloat(text, typ.Bits())
		v.SetFloat(f)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: body is not %s: %s", trailhead.ErrDeserialization, typ, err)
	}

	return v.Interface(), nil
}

// coerceUntyped decodes structured data, falling back to the raw text.
func coerceUntyped(raw []byte, _ reflect.Type, s trailhead.Serializer) (any, error) {
	var v any
	if err := s.Decode(raw, &v); err != nil {
		return string(raw), nil
	}

	return v, nil
}

func coerceStructured(raw []byte, typ reflect.Type, s trailhead.Serializer) (any, error) {
	ptr := reflect.New(typ)
	if err := s.Decode(raw, ptr.Interface()); err != nil {
		return nil, err
	}

	target := ptr
	for target.Kind() == reflect.Pointer && !target.IsNil() {
		if target.Elem().Kind() == reflect.Struct {
			if err := defaultValidator.validate(target.Interface()); err != nil {
				return nil, fmt.Errorf("%s failed validation: %w", typ, err)
			}

			break
		}

		target = target.Elem()
	}

	return ptr.Elem().Interface(), nil
}
