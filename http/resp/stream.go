package resp

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// An Event is a single server-sent event.
type Event struct {
	ID    string
	Name  string
	Data  string
	Retry time.Duration
}

// An EventStream writes server-sent events to a *Writer.
type EventStream struct {
	w *Writer
}

// NewEventStream switches w into ServerSentEvents mode;
// past this point the renderer never writes to w.
func NewEventStream(w *Writer) (*EventStream, error) {
	h := w.Header()
	h.Set("Content-Type", ContentTypeEvents)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Del("Content-Length")

	if err := w.stream(ServerSentEvents); err != nil {
		return nil, err
	}

	return &EventStream{w: w}, nil
}

// Send writes ev and flushes it to the client.
// If ctx is done, Send writes nothing and returns ErrDone.
func (s *EventStream) Send(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrDone, err)
	}

	var b strings.Builder
	if ev.ID != "" {
		b.WriteString("id: " + ev.ID + "\n")
	}

	if ev.Name != "" {
		b.WriteString("event: " + ev.Name + "\n")
	}

	if ev.Retry > 0 {
		b.WriteString("retry: " + strconv.FormatInt(ev.Retry.Milliseconds(), 10) + "\n")
	}

	for _, line := range strings.Split(ev.Data, "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")

	if _, err := io.WriteString(s.w, b.String()); err != nil {
		return err
	}

	s.w.Flush()
	return nil
}

// A ChunkStream writes a response in flushed chunks.
type ChunkStream struct {
	w *Writer
}

// NewChunkStream switches w into Chunked mode;
// past this point the renderer never writes to w.
func NewChunkStream(w *Writer) (*ChunkStream, error) {
	w.Header().Del("Content-Length")
	if err := w.stream(Chunked); err != nil {
		return nil, err
	}

	return &ChunkStream{w: w}, nil
}

// Write writes p as a single chunk, flushing it to the client.
func (s *ChunkStream) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		return n, err
	}

	s.w.Flush()
	return n, nil
}
