// Package style holds the immutable rendering parameters of a barcode:
// colours, module and corner shapes, error correction and sizes, plus the
// optional logo settings.
package style

import (
	"errors"
	"fmt"
)

var (
	ErrDisplaySize     = errors.New("display size must be a positive integer")
	ErrErrorCorrection = errors.New("error correction level must be one of L, M, Q, H")
	ErrPattern         = errors.New("unknown pattern style")
	ErrCorner          = errors.New("unknown corner style")
	ErrNegativeLength  = errors.New("padding and border radius must not be negative")
)

// Color is a CSS colour value or the NoFill sentinel.
type Color string

// NoFill leaves an area unpainted.
const NoFill Color = "transparent"

// IsNoFill reports whether c paints nothing.
func (c Color) IsNoFill() bool { return c == NoFill || c == "" }

type Pattern string

const (
	PatternSquare  Pattern = "square"
	PatternDots    Pattern = "dots"
	PatternRounded Pattern = "rounded"
	PatternClassy  Pattern = "classy"
)

var Patterns = []Pattern{PatternSquare, PatternDots, PatternRounded, PatternClassy}

type Corner string

const (
	CornerSquare        Corner = "square"
	CornerExtraRounded  Corner = "extra-rounded"
	CornerDot           Corner = "dot"
	CornerClassyRounded Corner = "classy-rounded"
)

var Corners = []Corner{CornerSquare, CornerExtraRounded, CornerDot, CornerClassyRounded}

// ErrorCorrection is the redundancy tier. Higher levels survive more damage
// and carry less data: L < M < Q < H.
type ErrorCorrection string

const (
	ErrorCorrectionL ErrorCorrection = "L"
	ErrorCorrectionM ErrorCorrection = "M"
	ErrorCorrectionQ ErrorCorrection = "Q"
	ErrorCorrectionH ErrorCorrection = "H"
)

var ErrorCorrections = []ErrorCorrection{ErrorCorrectionL, ErrorCorrectionM, ErrorCorrectionQ, ErrorCorrectionH}

// Rank returns the ordinal of e (L=0 ... H=3), or -1 for an unknown level.
func (e ErrorCorrection) Rank() int {
	for i, l := range ErrorCorrections {
		if l == e {
			return i
		}
	}
	return -1
}

func (p Pattern) valid() bool {
	for _, v := range Patterns {
		if v == p {
			return true
		}
	}
	return false
}

func (c Corner) valid() bool {
	for _, v := range Corners {
		if v == c {
			return true
		}
	}
	return false
}

// Defaults applied by New and by the share-link decoder.
const (
	DefaultModuleColor     Color           = "#000000"
	DefaultBackgroundColor Color           = NoFill
	DefaultPattern         Pattern         = PatternSquare
	DefaultCorner          Corner          = CornerSquare
	DefaultErrorCorrection ErrorCorrection = ErrorCorrectionH
	DefaultDisplaySize                     = 300
)

// Config is a snapshot of every rendering parameter. Methods use value
// receivers and With returns a copy, so a Config handed to a consumer never
// changes under it.
type Config struct {
	ModuleColor     Color `json:"moduleColor" yaml:"module_color"`
	BackgroundColor Color `json:"backgroundColor" yaml:"background_color"`

	// Position ring and centre colours; empty means ModuleColor.
	CornerSquareColor Color `json:"cornerSquareColor,omitempty" yaml:"corner_square_color,omitempty"`
	CornerDotColor    Color `json:"cornerDotColor,omitempty" yaml:"corner_dot_color,omitempty"`

	Pattern                  Pattern         `json:"patternStyle" yaml:"pattern_style"`
	Corner                   Corner          `json:"cornerStyle" yaml:"corner_style"`
	ErrorCorrection          ErrorCorrection `json:"errorCorrectionLevel" yaml:"error_correction"`
	DisplaySizePx            int             `json:"displaySizePx" yaml:"display_size_px"`
	BackgroundPaddingPx      int             `json:"backgroundPaddingPx" yaml:"background_padding_px"`
	BackgroundBorderRadiusPx int             `json:"backgroundBorderRadiusPx" yaml:"background_border_radius_px"`
}

// Option changes one field of a Config under construction.
type Option func(*Config)

func WithModuleColor(c Color) Option { return func(s *Config) { s.ModuleColor = c } }

func WithBackgroundColor(c Color) Option { return func(s *Config) { s.BackgroundColor = c } }

func WithCornerSquareColor(c Color) Option { return func(s *Config) { s.CornerSquareColor = c } }

func WithCornerDotColor(c Color) Option { return func(s *Config) { s.CornerDotColor = c } }

func WithPattern(p Pattern) Option { return func(s *Config) { s.Pattern = p } }

func WithCorner(c Corner) Option { return func(s *Config) { s.Corner = c } }

func WithErrorCorrection(e ErrorCorrection) Option {
	return func(s *Config) { s.ErrorCorrection = e }
}

func WithDisplaySize(px int) Option { return func(s *Config) { s.DisplaySizePx = px } }

func WithBackgroundPadding(px int) Option { return func(s *Config) { s.BackgroundPaddingPx = px } }

func WithBackgroundBorderRadius(px int) Option {
	return func(s *Config) { s.BackgroundBorderRadiusPx = px }
}

// Default returns the configuration a fresh editor starts from.
func Default() Config {
	return Config{
		ModuleColor:     DefaultModuleColor,
		BackgroundColor: DefaultBackgroundColor,
		Pattern:         DefaultPattern,
		Corner:          DefaultCorner,
		ErrorCorrection: DefaultErrorCorrection,
		DisplaySizePx:   DefaultDisplaySize,
	}
}

// New applies opts on top of Default and validates the result.
func New(opts ...Option) (Config, error) {
	return Default().With(opts...)
}

// With returns a validated copy of c with opts applied. c itself is left
// untouched even when validation fails.
func (c Config) With(opts ...Option) (Config, error) {
	next := c
	for _, opt := range opts {
		opt(&next)
	}
	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}

// Validate checks the invariants every consumer relies on.
func (c Config) Validate() error {
	if c.DisplaySizePx <= 0 {
		return fmt.Errorf("%w: got %d", ErrDisplaySize, c.DisplaySizePx)
	}
	if c.ErrorCorrection.Rank() < 0 {
		return fmt.Errorf("%w: got %q", ErrErrorCorrection, c.ErrorCorrection)
	}
	if !c.Pattern.valid() {
		return fmt.Errorf("%w: %q", ErrPattern, c.Pattern)
	}
	if !c.Corner.valid() {
		return fmt.Errorf("%w: %q", ErrCorner, c.Corner)
	}
	if c.BackgroundPaddingPx < 0 || c.BackgroundBorderRadiusPx < 0 {
		return ErrNegativeLength
	}
	return nil
}

// RingColor is the colour of the three position rings.
func (c Config) RingColor() Color {
	if c.CornerSquareColor == "" {
		return c.ModuleColor
	}
	return c.CornerSquareColor
}

// CenterColor is the colour of the position ring centres.
func (c Config) CenterColor() Color {
	if c.CornerDotColor == "" {
		return c.ModuleColor
	}
	return c.CornerDotColor
}

// ParsePattern reports whether s names a known pattern style.
func ParsePattern(s string) (Pattern, bool) {
	p := Pattern(s)
	return p, p.valid()
}

// ParseCorner reports whether s names a known corner style.
func ParseCorner(s string) (Corner, bool) {
	c := Corner(s)
	return c, c.valid()
}

// ParseErrorCorrection reports whether s names one of the four levels.
func ParseErrorCorrection(s string) (ErrorCorrection, bool) {
	e := ErrorCorrection(s)
	return e, e.Rank() >= 0
}
