package resp

import (
	"net/http"
)

var (
	_ http.ResponseWriter = (*Writer)(nil)
	_ http.Flusher        = (*Writer)(nil)
)

// A StreamMode names how a handler took over writing a response.
type StreamMode int

const (
	NotStreaming StreamMode = iota
	ServerSentEvents
	Chunked
)

// A Writer wraps an http.ResponseWriter, tracking what has been written to it.
//
// A Writer holds a pending status code, http.StatusOK by default,
// which handlers can change with SetStatus until the header is written.
type Writer struct {
	w           http.ResponseWriter
	status      int
	wroteHeader bool
	bytes       int
	mode        StreamMode
}

// NewWriter wraps w in a *Writer.
// If w is already a *Writer, NewWriter returns it.
func NewWriter(w http.ResponseWriter) *Writer {
	if rw, ok := w.(*Writer); ok {
		return rw
	}

	return &Writer{w: w, status: http.StatusOK}
}

// BytesWritten is the size of the body written so far.
func (w *Writer) BytesWritten() int { return w.bytes }

// ContentType is the "Content-Type" header set on the response, if any.
func (w *Writer) ContentType() string { return w.w.Header().Get("Content-Type") }

// Flush sends any buffered data to the client,
// if the wrapped http.ResponseWriter supports it.
func (w *Writer) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(w.status)
	}

	if f, ok := w.w.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *Writer) Header() http.Header { return w.w.Header() }

// SetStatus sets the status code to write with the header.
// Once the header is written, SetStatus does nothing.
func (w *Writer) SetStatus(code int) {
	if w.wroteHeader {
		return
	}

	w.status = code
}

// Status is the status code written, or to be written, with the header.
func (w *Writer) Status() int { return w.status }

// StreamMode reports how, if at all, a handler took over writing the response.
func (w *Writer) StreamMode() StreamMode { return w.mode }

// Streaming asserts whether a handler took over writing the response.
func (w *Writer) Streaming() bool { return w.mode != NotStreaming }

// Unwrap exposes the wrapped http.ResponseWriter to [http.ResponseController].
func (w *Writer) Unwrap() http.ResponseWriter { return w.w }

func (w *Writer) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(w.status)
	}

	n, err := w.w.Write(b)
	w.bytes += n
	return n, err
}

// WriteHeader writes the header with code.
// Only the first call has any effect.
func (w *Writer) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}

	w.status = code
	w.wroteHeader = true
	w.w.WriteHeader(code)
}

// Written asserts whether the header has been written.
func (w *Writer) Written() bool { return w.wroteHeader }

// stream switches the Writer into mode, writing the header.
func (w *Writer) stream(mode StreamMode) error {
	if w.mode != NotStreaming {
		return ErrStreaming
	}

	if _, ok := w.w.(http.Flusher); !ok {
		return ErrNotFlushing
	}

	w.mode = mode
	w.Flush()
	return nil
}
