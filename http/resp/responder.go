package resp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"sync"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/logger"
)

const responderFrames = 1

// An ErrorHook takes over writing the response for a failed request.
//
// Returning a non-nil error, or panicking, degrades the response
// to a generic InternalError.
type ErrorHook func(w http.ResponseWriter, r *http.Request, err error) error

// Responder renders handler results and errors as HTTP responses.
//
// Most oftentimes, setting up a single instance of a Responder suffices for an application.
// A Responder is safe for concurrent use.
type Responder struct {
	logger     logger.Logger
	serializer trailhead.Serializer
	hook       ErrorHook

	// Pool of *bytes.Buffer to copy binary payloads through
	pool *sync.Pool

	// Attach the error causing an InternalError to its message
	exposeInternal bool
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		pool: &sync.Pool{New: func() any { return bytes.NewBuffer(make([]byte, 0, 32*1024)) }},
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.New()
	}

	if l, ok := d.logger.(logger.SkipLogger); ok {
		d.logger = l.AddSkip(responderFrames)
	}

	if d.serializer == nil {
		d.serializer = trailhead.JSONSerializer{}
	}

	return d
}

// Logger exposes the logger.Logger the Responder logs through.
func (doer *Responder) Logger() logger.Logger { return doer.logger }

// Serializer exposes the trailhead.Serializer the Responder encodes values with.
func (doer *Responder) Serializer() trailhead.Serializer { return doer.serializer }

// Render writes res to w.
//
// When a handler already took over writing the response by streaming, Render does nothing.
// Otherwise the payload of res determines the response:
//
//	nil              => empty body, status untouched; so too a nil pointer, map, slice or the like
//	string           => text/plain, as is
//	bool or numeric  => text/plain, formatted with strconv
//	[]byte           => application/octet-stream
//	io.Reader        => application/octet-stream, copied until r's context is done
//	anything else    => application/json, encoded by the Serializer
//
// A content type already set on w takes precedence over those above.
//
// Any failure rendering res is passed to Err.
func (doer *Responder) Render(w http.ResponseWriter, r *http.Request, res Result) {
	rw := NewWriter(w)
	if rw.Streaming() {
		return
	}

	if code, ok := res.Status(); ok {
		rw.SetStatus(code)
	}

	if err := doer.render(r.Context(), rw, res.Payload()); err != nil {
		doer.Err(rw, r, err)
	}
}

func (doer *Responder) render(ctx context.Context, w *Writer, v any) error {
	if isNil(v) {
		v = nil
	}

	switch t := v.(type) {
	case nil:
		w.WriteHeader(w.Status())
		return nil

	case string:
		return doer.writeText(w, t)

	case []byte:
		setContentType(w, ContentTypeBinary)
		return doer.copy(ctx, w, bytes.NewReader(t))

	case io.Reader:
		setContentType(w, ContentTypeBinary)
		if c, ok := t.(io.Closer); ok {
			defer c.Close()
		}

		return doer.copy(ctx, w, t)
	}

	if s, ok := formatScalar(v); ok {
		return doer.writeText(w, s)
	}

	b, err := doer.serializer.Encode(v)
	if err != nil {
		return err
	}

	setContentType(w, doer.serializer.ContentType())
	w.WriteHeader(w.Status())
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("%w: cannot write body: %s", trailhead.ErrUnexpected, err)
	}

	return nil
}

func (doer *Responder) writeText(w *Writer, s string) error {
	setContentType(w, ContentTypeText)
	w.WriteHeader(w.Status())
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("%w: cannot write body: %s", trailhead.ErrUnexpected, err)
	}

	return nil
}

// copy copies src into w through a pooled buffer, checking ctx between reads.
func (doer *Responder) copy(ctx context.Context, w *Writer, src io.Reader) error {
	buf := doer.pool.Get().(*bytes.Buffer)
	defer doer.pool.Put(buf)

	b := buf.Bytes()[:buf.Cap()]
	w.WriteHeader(w.Status())
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %s", ErrDone, err)
		}

		n, err := src.Read(b)
		if n > 0 {
			if _, werr := w.Write(b[:n]); werr != nil {
				return fmt.Errorf("%w: cannot write body: %s", trailhead.ErrUnexpected, werr)
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("%w: cannot read body: %s", trailhead.ErrUnexpected, err)
		}
	}
}

// Err writes err to w as an ApiError.
//
// Err logs every error at the warn level,
// and those mapping to an InternalError at the error level as well.
// If the response is streaming or its header is already written, Err only logs.
//
// If an ErrorHook is configured, it then writes the response in place of Err.
// Should the hook fail, Err logs that failure and writes a generic InternalError.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = fmt.Errorf("%w: Err called with nil error", trailhead.ErrUnexpected)
	}

	ae := MapError(err)
	doer.logger.Warn(ae.Error(), newLogContext(r, nil, ae.Status))
	if ae.Code == trailhead.InternalError {
		doer.logger.Error(err.Error(), newLogContext(r, err, ae.Status))
		if doer.exposeInternal && ae.Message == "" {
			ae.Message = err.Error()
		}
	}

	rw := NewWriter(w)
	if doer.hook != nil && !rw.Streaming() && !rw.Written() {
		nested := doer.callHook(rw, r, err)
		if nested == nil {
			return
		}

		doer.logger.Error(
			"error hook failed",
			&logger.LogContext{Error: fmt.Errorf("%w: while handling: %s", nested, err), Request: r},
		)

		if !rw.Written() {
			doer.writeErr(rw, ApiError{Code: trailhead.InternalError, Status: http.StatusInternalServerError})
		}

		return
	}

	if rw.Streaming() || rw.Written() {
		return
	}

	doer.writeErr(rw, ae)
}

// callHook runs the configured ErrorHook, recovering a panic into an error.
func (doer *Responder) callHook(w *Writer, r *http.Request, err error) (nested error) {
	defer func() {
		if p := recover(); p != nil {
			nested = fmt.Errorf("%w: error hook panicked: %v", trailhead.ErrUnexpected, p)
		}
	}()

	return doer.hook(w, r, err)
}

func (doer *Responder) writeErr(w *Writer, ae ApiError) {
	b, err := doer.serializer.Encode(ae)
	if err != nil {
		doer.logger.Error("cannot encode error body", &logger.LogContext{Error: err, Data: map[string]any{"code": ae.Code}})
		ae = ApiError{Code: trailhead.InternalError, Status: http.StatusInternalServerError}
		b = []byte(`{"Error":"` + trailhead.InternalError.String() + `"}`)
	}

	w.Header().Set("Content-Type", doer.serializer.ContentType())
	w.Header().Del("Content-Length")
	w.WriteHeader(ae.Status)
	w.Write(b)
}

func setContentType(w *Writer, ct string) {
	if w.ContentType() == "" {
		w.Header().Set("Content-Type", ct)
	}
}

// isNil reports whether v is nil or a nil value of a kind that can be.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// formatScalar formats v if its kind is a string, a bool or a number.
func formatScalar(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true
	default:
		return "", false
	}
}
