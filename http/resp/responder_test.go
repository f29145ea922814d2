package resp_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/logger"
	"pgregory.net/rapid"
)

func init() { color.NoColor = true }

type echo struct {
	Id       string
	Email    string
	Password string
}

type badSerializer struct{ trailhead.JSONSerializer }

func (badSerializer) Encode(v any) ([]byte, error) {
	if _, ok := v.(resp.ApiError); ok {
		return trailhead.JSONSerializer{}.Encode(v)
	}

	return nil, trailhead.ErrUnexpected
}

type closer struct {
	io.Reader
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return nil
}

func newTestResponder(opts ...resp.ResponderOptFn) (*resp.Responder, *bytes.Buffer) {
	b := new(bytes.Buffer)
	l := logger.New(logger.WithOutput(b), logger.WithLevel(logger.LogLevelDebug))
	return resp.NewResponder(append([]resp.ResponderOptFn{resp.WithLogger(l)}, opts...)...), b
}

func TestResponderRender(t *testing.T) {
	for _, tc := range []struct {
		name   string
		res    resp.Result
		status int
		ct     string
		body   string
	}{
		{"empty", resp.Empty(), http.StatusOK, "", ""},
		{"nil-value", resp.Value(nil), http.StatusOK, "", ""},
		{"text", resp.Value("Hello world"), http.StatusOK, resp.ContentTypeText, "Hello world"},
		{"named-text", resp.Value(trailhead.NotFound), http.StatusOK, resp.ContentTypeText, "NotFound"},
		{"bool", resp.Value(true), http.StatusOK, resp.ContentTypeText, "true"},
		{"int", resp.Value(-42), http.StatusOK, resp.ContentTypeText, "-42"},
		{"uint", resp.Value(uint8(7)), http.StatusOK, resp.ContentTypeText, "7"},
		{"float", resp.Value(1.5), http.StatusOK, resp.ContentTypeText, "1.5"},
		{"bytes", resp.Value([]byte{0x1, 0x2}), http.StatusOK, resp.ContentTypeBinary, "\x01\x02"},
		{"reader", resp.Value(strings.NewReader("stream")), http.StatusOK, resp.ContentTypeBinary, "stream"},
		{
			"struct",
			resp.Value(echo{Id: "50", Email: "foo@bar.com", Password: "password"}),
			http.StatusOK,
			resp.ContentTypeJSON,
			`{"Id":"50","Email":"foo@bar.com","Password":"password"}`,
		},
		{"map", resp.Value(map[string]int{"a": 1}), http.StatusOK, resp.ContentTypeJSON, `{"a":1}`},
		{"status-nil", resp.WithStatus(nil, http.StatusAccepted), http.StatusAccepted, "", ""},
		{"status-text", resp.WithStatus("made", http.StatusCreated), http.StatusCreated, resp.ContentTypeText, "made"},
		{"status-int", resp.WithStatus(3, http.StatusCreated), http.StatusCreated, resp.ContentTypeText, "3"},
		{"status-struct", resp.WithStatus([]int{1, 2}, http.StatusCreated), http.StatusCreated, resp.ContentTypeJSON, "[1,2]"},
		{"no-content", resp.NoContent(), http.StatusNoContent, "", ""},
		{"nil-pointer", resp.Value((*echo)(nil)), http.StatusOK, "", ""},
		{"nil-map", resp.Value(map[string]int(nil)), http.StatusOK, "", ""},
		{"nil-slice", resp.Value([]int(nil)), http.StatusOK, "", ""},
		{"nil-bytes", resp.Value([]byte(nil)), http.StatusOK, "", ""},
		{"status-nil-pointer", resp.WithStatus((*echo)(nil), http.StatusCreated), http.StatusCreated, "", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			d, _ := newTestResponder()
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			// Act
			d.Render(w, r, tc.res)

			// Assert
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, tc.ct, w.Header().Get("Content-Type"))
			require.Equal(t, tc.body, w.Body.String())
		})
	}
}

func TestResponderRenderKeepsContentType(t *testing.T) {
	// Arrange
	d, _ := newTestResponder()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w.Header().Set("Content-Type", "text/csv")

	// Act
	d.Render(w, r, resp.Value("a,b"))

	// Assert
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Equal(t, "a,b", w.Body.String())
}

func TestResponderRenderClosesReader(t *testing.T) {
	// Arrange
	d, _ := newTestResponder()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	c := &closer{Reader: strings.NewReader("file")}

	// Act
	d.Render(w, r, resp.Value(c))

	// Assert
	require.True(t, c.closed)
	require.Equal(t, "file", w.Body.String())
}

func TestResponderRenderCanceled(t *testing.T) {
	// Arrange
	d, b := newTestResponder()
	w := httptest.NewRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	// Act
	d.Render(w, r, resp.Value(strings.NewReader("never")))

	// Assert
	require.Empty(t, w.Body.String())
	require.Contains(t, b.String(), "[WARN]")
	require.Contains(t, b.String(), resp.ErrDone.Error())
}

func TestResponderRenderEncodeFailure(t *testing.T) {
	// Arrange
	d, b := newTestResponder(resp.WithSerializer(badSerializer{}))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	// Act
	d.Render(w, r, resp.Value(echo{}))

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, resp.ContentTypeJSON, w.Header().Get("Content-Type"))
	require.JSONEq(t, `{"Error":"InternalError"}`, w.Body.String())
	require.Contains(t, b.String(), "[ERROR]")
}

func TestResponderRenderStreaming(t *testing.T) {
	// Arrange
	d, _ := newTestResponder()
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := resp.NewWriter(rec)
	s, err := resp.NewChunkStream(w)
	require.Nil(t, err)
	_, err = s.Write([]byte("chunk"))
	require.Nil(t, err)

	// Act
	d.Render(w, r, resp.Value("ignored"))

	// Assert
	require.Equal(t, "chunk", rec.Body.String())
}

func TestResponderRenderDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Arrange
		d, _ := newTestResponder()
		v := echo{
			Id:       rapid.String().Draw(t, "id"),
			Email:    rapid.String().Draw(t, "email"),
			Password: rapid.String().Draw(t, "password"),
		}
		expected, err := trailhead.JSONSerializer{}.Encode(v)
		require.Nil(t, err)

		// Act
		w := httptest.NewRecorder()
		d.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), resp.Value(v))

		// Assert
		require.Equal(t, resp.ContentTypeJSON, w.Header().Get("Content-Type"))
		require.Equal(t, expected, w.Body.Bytes())

		// Arrange
		s := rapid.String().Draw(t, "text")

		// Act
		w = httptest.NewRecorder()
		d.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), resp.Value(s))

		// Assert
		require.Equal(t, resp.ContentTypeText, w.Header().Get("Content-Type"))
		require.Equal(t, s, w.Body.String())
	})
}

func TestResponderErr(t *testing.T) {
	for _, tc := range []struct {
		name   string
		err    error
		opts   []resp.ResponderOptFn
		status int
		body   string
		alert  bool
	}{
		{
			"domain",
			trailhead.NewDomainError(trailhead.NotFound, http.StatusNotFound, ""),
			nil,
			http.StatusNotFound,
			`{"Error":"NotFound"}`,
			false,
		},
		{
			"deserialization",
			trailhead.ErrDeserialization,
			nil,
			http.StatusBadRequest,
			`{"Error":"DeserializationError","Message":"cannot deserialize"}`,
			false,
		},
		{
			"internal",
			errors.New("boom"),
			nil,
			http.StatusInternalServerError,
			`{"Error":"InternalError"}`,
			true,
		},
		{
			"internal-exposed",
			errors.New("boom"),
			[]resp.ResponderOptFn{resp.WithInternalMessages(true)},
			http.StatusInternalServerError,
			`{"Error":"InternalError","Message":"boom"}`,
			true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			d, b := newTestResponder(tc.opts...)
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			// Act
			d.Err(w, r, tc.err)

			// Assert
			require.Equal(t, tc.status, w.Code)
			require.Equal(t, resp.ContentTypeJSON, w.Header().Get("Content-Type"))
			require.Equal(t, tc.body, w.Body.String())
			require.Contains(t, b.String(), "[WARN]")
			require.Equal(t, tc.alert, strings.Contains(b.String(), "[ERROR]"))
		})
	}
}

func TestResponderErrHook(t *testing.T) {
	// Arrange
	var called error
	hook := func(w http.ResponseWriter, r *http.Request, err error) error {
		called = err
		w.WriteHeader(http.StatusTeapot)
		_, werr := w.Write([]byte("custom"))
		return werr
	}
	d, b := newTestResponder(resp.WithErrorHook(hook))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	expected := trailhead.NewDomainError(trailhead.NotFound, http.StatusNotFound, "")

	// Act
	d.Err(w, r, expected)

	// Assert
	require.ErrorIs(t, called, expected)
	require.Equal(t, http.StatusTeapot, w.Code)
	require.Equal(t, "custom", w.Body.String())
	require.Contains(t, b.String(), "[WARN]")
	require.Contains(t, b.String(), "NotFound (404)")
	require.NotContains(t, b.String(), "[ERROR]")
}

func TestResponderErrHookFails(t *testing.T) {
	for _, tc := range []struct {
		name string
		hook resp.ErrorHook
	}{
		{"errors", func(http.ResponseWriter, *http.Request, error) error { return errors.New("hook broke") }},
		{"panics", func(http.ResponseWriter, *http.Request, error) error { panic("hook broke") }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			d, b := newTestResponder(resp.WithErrorHook(tc.hook))
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			// Act
			require.NotPanics(t, func() {
				d.Err(w, r, trailhead.NewDomainError(trailhead.NotFound, http.StatusNotFound, ""))
			})

			// Assert
			require.Equal(t, http.StatusInternalServerError, w.Code)
			require.Equal(t, `{"Error":"InternalError"}`, w.Body.String())
			require.Contains(t, b.String(), "[ERROR]")
			require.Contains(t, b.String(), "hook broke")
		})
	}
}

func TestResponderErrAfterWrite(t *testing.T) {
	// Arrange
	d, b := newTestResponder()
	rec := httptest.NewRecorder()
	w := resp.NewWriter(rec)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := w.Write([]byte("partial"))
	require.Nil(t, err)

	// Act
	d.Err(w, r, errors.New("late"))

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "partial", rec.Body.String())
	require.Contains(t, b.String(), "late")
}
