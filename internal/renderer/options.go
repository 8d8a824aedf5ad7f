package renderer

import (
	"errors"
	"fmt"

	"github.com/cristianadrielbraun/qrforge/internal/svg"
)

var (
	ErrSize   = errors.New("width and height must be positive")
	ErrNoData = errors.New("no data to encode")
)

// DotType is the shape vocabulary for data modules.
type DotType string

const (
	DotSquare        DotType = "square"
	DotDots          DotType = "dots"
	DotRounded       DotType = "rounded"
	DotClassy        DotType = "classy"
	DotClassyRounded DotType = "classy-rounded"
	DotExtraRounded  DotType = "extra-rounded"
)

// CornerSquareType is the shape vocabulary for the 7x7 position rings.
type CornerSquareType string

const (
	CornerSquareSquare       CornerSquareType = "square"
	CornerSquareExtraRounded CornerSquareType = "extra-rounded"
	CornerSquareDot          CornerSquareType = "dot"
)

// CornerDotType is the shape vocabulary for the 3x3 ring centres.
type CornerDotType string

const (
	CornerDotSquare CornerDotType = "square"
	CornerDotDot    CornerDotType = "dot"
)

type DotsOptions struct {
	Color string
	Type  DotType
}

type CornersSquareOptions struct {
	Color string
	Type  CornerSquareType
}

type CornersDotOptions struct {
	Color string
	Type  CornerDotType
}

type BackgroundOptions struct {
	// Color is any CSS colour; "transparent" or empty draws no background.
	Color string
}

type QROptions struct {
	// ErrorCorrectionLevel is one of L, M, Q, H.
	ErrorCorrectionLevel string
}

type ImageOptions struct {
	Margin             int
	HideBackgroundDots bool
	// ImageSize is the image side as a fraction of the code side.
	ImageSize float64
}

// Options is the full parameter set of one barcode instance.
type Options struct {
	Width  int
	Height int
	Data   string
	// Image is an embeddable reference, normally a data URI.
	Image string

	DotsOptions          DotsOptions
	CornersSquareOptions CornersSquareOptions
	CornersDotOptions    CornersDotOptions
	BackgroundOptions    BackgroundOptions
	QROptions            QROptions
	ImageOptions         ImageOptions
}

// DefaultOptions mirrors the defaults of the styling library: black square
// modules on white, level Q, image at 40% with background dots hidden.
func DefaultOptions() Options {
	return Options{
		Width:                300,
		Height:               300,
		DotsOptions:          DotsOptions{Color: "#000", Type: DotSquare},
		CornersSquareOptions: CornersSquareOptions{Type: CornerSquareSquare},
		CornersDotOptions:    CornersDotOptions{Type: CornerDotSquare},
		BackgroundOptions:    BackgroundOptions{Color: "#fff"},
		QROptions:            QROptions{ErrorCorrectionLevel: "Q"},
		ImageOptions:         ImageOptions{HideBackgroundDots: true, ImageSize: 0.4},
	}
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrSize, o.Width, o.Height)
	}
	if o.Data == "" {
		return ErrNoData
	}
	return nil
}

// Extension post-processes every freshly drawn tree before it reaches the
// container.
type Extension func(doc *svg.Node, opts Options)

type settings struct {
	opts Options
	ext  Extension
}

// Option changes part of an instance's settings. Anything an update does not
// name keeps its current value.
type Option func(*settings)

// WithOptions replaces every option.
func WithOptions(o Options) Option {
	return func(s *settings) { s.opts = o }
}

// WithSize changes only the canvas size.
func WithSize(width, height int) Option {
	return func(s *settings) {
		s.opts.Width = width
		s.opts.Height = height
	}
}

// WithData changes only the encoded data.
func WithData(data string) Option {
	return func(s *settings) { s.opts.Data = data }
}

// WithExtension installs ext, replacing any previous extension.
func WithExtension(ext Extension) Option {
	return func(s *settings) { s.ext = ext }
}
