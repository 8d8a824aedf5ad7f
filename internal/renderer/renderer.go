// Package renderer draws styled barcodes as vector trees and exports them
// as SVG, PNG or JPEG. Module matrices come from go-qrcode; shapes follow
// the qr-code-styling vocabulary.
package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/cristianadrielbraun/qrforge/internal/logger"
	"github.com/cristianadrielbraun/qrforge/internal/svg"
)

var ErrNoSaver = errors.New("no saver attached")

// Instance is one live barcode. It is safe for concurrent use.
type Instance struct {
	mu        sync.Mutex
	log       *logger.Logger
	cur       settings
	tree      *svg.Node
	matrix    *bitmap
	matrixKey string
	container Container
	saver     Saver
}

// New validates opts and draws the first tree.
func New(opts Options, log *logger.Logger) (*Instance, error) {
	if log == nil {
		log = logger.Nop()
	}
	i := &Instance{log: log}
	if err := i.apply(WithOptions(opts)); err != nil {
		return nil, err
	}
	return i, nil
}

// Options returns the current options.
func (i *Instance) Options() Options {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cur.opts
}

// Width returns the current canvas width.
func (i *Instance) Width() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cur.opts.Width
}

// Tree returns a copy of the last drawn tree.
func (i *Instance) Tree() *svg.Node {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.tree.Clone()
}

// Mount attaches c and writes the current document into it.
func (i *Instance) Mount(c Container) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.container = c
	return c.Replace(i.tree.Bytes())
}

// Unmount clears and detaches the container.
func (i *Instance) Unmount() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.container == nil {
		return nil
	}
	err := i.container.Clear()
	i.container = nil
	return err
}

// SetSaver sets where Download sends its bytes.
func (i *Instance) SetSaver(s Saver) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.saver = s
}

// Update applies opts and redraws. On error the instance keeps its previous
// settings and tree.
func (i *Instance) Update(opts ...Option) error {
	return i.apply(opts...)
}

// ApplyExtension installs ext and redraws.
func (i *Instance) ApplyExtension(ext Extension) error {
	return i.apply(WithExtension(ext))
}

// DeleteExtension removes the extension. The current tree is kept until the
// next draw.
func (i *Instance) DeleteExtension() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cur.ext = nil
}

func (i *Instance) apply(opts ...Option) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	next := i.cur
	for _, opt := range opts {
		opt(&next)
	}
	if err := next.opts.validate(); err != nil {
		return err
	}

	key := next.opts.QROptions.ErrorCorrectionLevel + "\x00" + next.opts.Data
	bm := i.matrix
	if bm == nil || key != i.matrixKey {
		var err error
		if bm, err = encodeMatrix(next.opts.Data, next.opts.QROptions.ErrorCorrectionLevel); err != nil {
			return err
		}
	}

	doc := draw(next.opts, bm)
	if next.ext != nil {
		next.ext(doc, next.opts)
	}

	i.cur, i.tree, i.matrix, i.matrixKey = next, doc, bm, key
	if i.container != nil {
		if err := i.container.Replace(doc.Bytes()); err != nil {
			return fmt.Errorf("failed to update container: %w", err)
		}
	}
	return nil
}

// Encode writes the current tree in format f.
func (i *Instance) Encode(w io.Writer, f Format) error {
	i.mu.Lock()
	doc := i.tree.Clone()
	opts := i.cur.opts
	i.mu.Unlock()

	switch f {
	case FormatSVG:
		return doc.Encode(w)
	case FormatPNG, FormatJPEG:
		img, err := rasterize(doc, opts.Width, opts.Height, func(err error) {
			i.log.Warn().Err(err).Msg("logo skipped in raster export")
		})
		if err != nil {
			return err
		}
		if f == FormatPNG {
			return writePNG(w, img)
		}
		return writeJPEG(w, img, opts.BackgroundOptions.Color)
	}
	return fmt.Errorf("%w: %q", ErrFormat, f)
}

// Download encodes the current tree and hands it to the saver. filename
// gets the format's extension when it has none.
func (i *Instance) Download(f Format, filename string) error {
	i.mu.Lock()
	saver := i.saver
	i.mu.Unlock()
	if saver == nil {
		return ErrNoSaver
	}

	var buf bytes.Buffer
	if err := i.Encode(&buf, f); err != nil {
		return err
	}
	if filepath.Ext(filename) == "" {
		filename += f.Ext()
	}
	return saver.Save(filename, f.ContentType(), buf.Bytes())
}
