package trace

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
)

// NDJSONHandler writes one JSON object per line to an underlying writer, an
// append-only newline-delimited JSON event log.
type NDJSONHandler struct {
	w *bufio.Writer
	closer io.Closer
	encoder *json.Encoder
}

// NewNDJSONFileHandler opens (or creates/truncates) path and returns a
// Handler that appends one NDJSON record per Report.
func NewNDJSONFileHandler(path string) (*NDJSONHandler, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return newNDJSONHandler(f, f), nil
}

// NewNDJSONHandler wraps an arbitrary io.Writer (e.g. a file already opened
// by the caller, or an in-memory buffer in tests). If w also implements
// io.Closer, Close will close it; otherwise Close is a no-op.
func NewNDJSONHandler(w io.Writer) *NDJSONHandler {
	closer, _ := w.(io.Closer)
	return newNDJSONHandler(w, closer)
}

func newNDJSONHandler(w io.Writer, closer io.Closer) *NDJSONHandler {
	bw := bufio.NewWriter(w)
	return &NDJSONHandler{
		w: bw,
		closer: closer,
		encoder: json.NewEncoder(bw),
	}
}

// Handle appends one Report as a single JSON line.
func (h *NDJSONHandler) Handle(r Report) error {
	return h.encoder.Encode(r)
}

// Close flushes buffered output and closes the underlying writer, if any.
func (h *NDJSONHandler) Close() error {
	if err := h.w.Flush(); err != nil {
		return err
	}
	if h.closer != nil {
		return h.closer.Close()
	}
	return nil
}

// NullHandler discards every Report. Useful as a default when no event log
// is configured.
type NullHandler struct{}

func (NullHandler) Handle(Report) error { return nil }
func (NullHandler) Close() error { return nil }
