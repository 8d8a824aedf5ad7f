package renderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ErrFormat = errors.New("unsupported export format")

// Format is an export file format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts svg, png, jpeg and jpg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// Ext is the file extension of f, with the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Container is a mount point. Every draw replaces its contents with the
// encoded vector document.
type Container interface {
	Replace(doc []byte) error
	Clear() error
}

// Buffer is an in-memory Container.
type Buffer struct {
	mu      sync.RWMutex
	doc     []byte
	renders int
}

func (b *Buffer) Replace(doc []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc = append(b.doc[:0:0], doc...)
	b.renders++
	return nil
}

func (b *Buffer) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc = nil
	return nil
}

// Bytes returns a copy of the current document.
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]byte(nil), b.doc...)
}

// Renders counts the documents written so far.
func (b *Buffer) Renders() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.renders
}

// Saver receives the bytes of a download.
type Saver interface {
	Save(filename, contentType string, data []byte) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(filename, contentType string, data []byte) error

func (f SaverFunc) Save(filename, contentType string, data []byte) error {
	return f(filename, contentType, data)
}

// DirSaver writes downloads into Dir.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(filename, _ string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
