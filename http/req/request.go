package req

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/auth"
	"github.com/xy-planning-network/trailhead/http/resp"
)

// DefaultMaxBodyBytes caps the size of request bodies an Adapter reads.
const DefaultMaxBodyBytes int64 = 10 << 20

// A Request is the normalized form of an *http.Request a handler receives.
//
// A Request is built fresh for each inbound request and must not be shared across them.
type Request struct {
	// Body is the raw body coerced into the type declared for the route,
	// or nil when the body is empty or the route declares no type.
	Body any

	Params  Params
	Query   Params
	Headers Params

	// Auth is the outcome of authenticating the request,
	// nil when the route is unauthenticated or no authenticator is configured.
	Auth *auth.Result

	// Meta carries free-form values between handler code; nil until Set.
	Meta map[string]any

	raw    *http.Request
	rawBdy []byte
	w      *resp.Writer
	parser *Parser
}

// Context returns the context of the underlying *http.Request.
func (r *Request) Context() context.Context { return r.raw.Context() }

// Raw returns the underlying *http.Request. Its Body is already consumed.
func (r *Request) Raw() *http.Request { return r.raw }

// RawBody returns the body as read, before any coercion.
func (r *Request) RawBody() string { return string(r.rawBdy) }

// Response returns the *resp.Writer the response is written to.
//
// Handlers may set headers or the pending status on it.
func (r *Request) Response() *resp.Writer { return r.w }

// ServerSentEvents takes over the response as an event stream.
func (r *Request) ServerSentEvents() (*resp.EventStream, error) { return resp.NewEventStream(r.w) }

// Chunked takes over the response to write it in flushed chunks.
func (r *Request) Chunked() (*resp.ChunkStream, error) { return resp.NewChunkStream(r.w) }

// BindQuery decodes the query params into structPtr and validates it.
func (r *Request) BindQuery(structPtr any) error {
	return r.parser.ParseQueryParams(r.raw.URL.Query(), structPtr)
}

// BindBody decodes the raw body into structPtr and validates it,
// whatever type the route declares.
func (r *Request) BindBody(structPtr any) error {
	return r.parser.ParseBody(r.rawBdy, structPtr)
}

// Get returns the Meta value set for key.
func (r *Request) Get(key string) (any, bool) {
	v, ok := r.Meta[key]
	return v, ok
}

// Set sets the Meta value for key.
func (r *Request) Set(key string, val any) {
	if r.Meta == nil {
		r.Meta = make(map[string]any)
	}

	r.Meta[key] = val
}

// BodyAs asserts the coerced body of r is a T.
func BodyAs[T any](r *Request) (T, bool) {
	v, ok := r.Body.(T)
	return v, ok
}

// An Adapter builds a *Request from an *http.Request.
type Adapter struct {
	maxBytes   int64
	parser     *Parser
	serializer trailhead.Serializer
}

// NewAdapter constructs an *Adapter decoding bodies with s
// and reading no more than maxBytes of each.
// A nil s uses trailhead.JSONSerializer; a non-positive maxBytes uses DefaultMaxBodyBytes.
func NewAdapter(s trailhead.Serializer, maxBytes int64) *Adapter {
	if s == nil {
		s = trailhead.JSONSerializer{}
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	return &Adapter{maxBytes: maxBytes, parser: NewParser(s), serializer: s}
}

// Adapt reads the body of r, coercing it with dec, and gathers params, query params and headers.
//
// A body that cannot be read returns a trailhead.BadRequest *trailhead.DomainError.
// A body that cannot be coerced returns an error wrapping trailhead.ErrDeserialization
// or trailhead.ErrNotValid.
func (a *Adapter) Adapt(w http.ResponseWriter, r *http.Request, dec BodyDecoder) (*Request, error) {
	rw := resp.NewWriter(w)
	nr := &Request{
		Params:  pathParams(r),
		Query:   queryParams(r.URL),
		Headers: headers(r.Header),
		raw:     r,
		w:       rw,
		parser:  a.parser,
	}

	nr.Auth = auth.FromContext(r.Context())

	if r.Body != nil && r.Body != http.NoBody {
		// The server's own writer learns of an oversized body and closes the connection.
		b, err := io.ReadAll(http.MaxBytesReader(rw.Unwrap(), r.Body, a.maxBytes))
		r.Body.Close()
		if err != nil {
			msg := "cannot read request body"
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				msg = fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit)
			}

			return nil, trailhead.NewDomainError(trailhead.BadRequest, http.StatusBadRequest, msg).Wrap(err)
		}

		nr.rawBdy = b
		r.Body = io.NopCloser(bytes.NewReader(b))
	}

	body, err := dec.Decode(nr.rawBdy, a.serializer)
	if err != nil {
		return nil, err
	}
	nr.Body = body

	return nr, nil
}

// pathParams orders path params by their placeholders in the matched route.
func pathParams(r *http.Request) Params {
	vars := mux.Vars(r)
	if len(vars) == 0 {
		return nil
	}

	var names []string
	if route := mux.CurrentRoute(r); route != nil {
		names, _ = route.GetVarNames()
	}

	if len(names) == 0 {
		for k := range vars {
			names = append(names, k)
		}
		sort.Strings(names)
	}

	params := make(Params, 0, len(names))
	for _, name := range names {
		if v, ok := vars[name]; ok {
			params = append(params, Param{Key: name, Value: v})
		}
	}

	return params
}

// queryParams keeps query params in the order of the raw query.
// Pairs failing to unescape are skipped.
func queryParams(u *url.URL) Params {
	if u == nil || u.RawQuery == "" {
		return nil
	}

	var params Params
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}

		key, val, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}

		val, err = url.QueryUnescape(val)
		if err != nil {
			continue
		}

		params = append(params, Param{Key: key, Value: val})
	}

	return params
}

// headers sorts headers by key, joining multiple values with ", ".
func headers(h http.Header) Params {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make(Params, 0, len(keys))
	for _, k := range keys {
		params = append(params, Param{Key: k, Value: strings.Join(h[k], ", ")})
	}

	return params
}
