// Package sources abstracts where image bytes come from: the platform file
// picker, plain file paths and fyne storage URIs.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

// ErrNoHandle is returned when a read is attempted without a source.
var ErrNoHandle = errors.New("no source handle")

// Handle is an opaque reference to a user-chosen byte source.
type Handle interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// Picker asks the user for a source. The channel receives exactly one value,
// nil when the user cancelled.
type Picker interface {
	Pick(ctx context.Context) <-chan Handle
}

// FileHandle reads from a local path.
type FileHandle struct {
	path string
}

func NewFileHandle(path string) *FileHandle {
	return &FileHandle{path: path}
}

func (h *FileHandle) Name() string { return filepath.Base(h.path) }

func (h *FileHandle) Path() string { return h.path }

func (h *FileHandle) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", h.path, err)
	}
	return data, nil
}

// URIHandle reads through fyne's storage layer.
type URIHandle struct {
	uri fyne.URI
}

func NewURIHandle(uri fyne.URI) *URIHandle {
	return &URIHandle{uri: uri}
}

func (h *URIHandle) Name() string { return h.uri.Name() }

func (h *URIHandle) URI() fyne.URI { return h.uri }

// Path returns the local path for file:// URIs and "" otherwise.
func (h *URIHandle) Path() string {
	if h.uri.Scheme() != "file" {
		return ""
	}
	return h.uri.Path()
}

func (h *URIHandle) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := storage.Reader(h.uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", h.uri, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// BytesHandle serves an in-memory buffer, used for tests and embedded samples.
type BytesHandle struct {
	name string
	data []byte
	err  error
}

func NewBytesHandle(name string, data []byte) *BytesHandle {
	return &BytesHandle{name: name, data: data}
}

// NewFailingHandle returns a handle whose Read always fails with err.
func NewFailingHandle(name string, err error) *BytesHandle {
	return &BytesHandle{name: name, err: err}
}

func (h *BytesHandle) Name() string { return h.name }

func (h *BytesHandle) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return h.data, nil
}

// StaticPicker answers every Pick with the same handle.
type StaticPicker struct {
	Handle Handle
}

func (p StaticPicker) Pick(context.Context) <-chan Handle {
	ch := make(chan Handle, 1)
	ch <- p.Handle
	return ch
}

// pathOf returns the local file path behind h, if it has one.
func pathOf(h Handle) string {
	if p, ok := h.(interface{ Path() string }); ok {
		return p.Path()
	}
	return ""
}
