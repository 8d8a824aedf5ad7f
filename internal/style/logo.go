package style

import (
	"errors"
	"fmt"
)

var (
	ErrLogoSize        = errors.New("logo size coefficient must be within (0,1)")
	ErrPaddingPreset   = errors.New("unknown logo padding preset")
	ErrLogoPosition    = errors.New("unknown logo position")
	ErrLogoCoefficient = errors.New("logo plate coefficients must be within [0,1]")
)

// PaddingPreset selects a fixed margin and plate combination for the logo.
type PaddingPreset string

const (
	PaddingNone     PaddingPreset = "none"
	PaddingMinimal  PaddingPreset = "minimal"
	PaddingStandard PaddingPreset = "standard"
)

var PaddingPresets = []PaddingPreset{PaddingNone, PaddingMinimal, PaddingStandard}

// ParsePaddingPreset reports whether s names a known preset.
func ParsePaddingPreset(s string) (PaddingPreset, bool) {
	for _, p := range PaddingPresets {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Position is where the logo sits on the canvas.
type Position string

const (
	PositionCenter Position = "center"
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
)

var Positions = []Position{PositionCenter, PositionTop, PositionBottom, PositionLeft, PositionRight}

// Anchor returns the logo centre as fractions of the canvas width and height.
// Unknown positions resolve to the centre.
func (p Position) Anchor() (x, y float64) {
	switch p {
	case PositionTop:
		return 0.5, 0.2
	case PositionBottom:
		return 0.5, 0.8
	case PositionLeft:
		return 0.2, 0.5
	case PositionRight:
		return 0.8, 0.5
	default:
		return 0.5, 0.5
	}
}

func (p Position) valid() bool {
	switch p {
	case PositionCenter, PositionTop, PositionBottom, PositionLeft, PositionRight:
		return true
	}
	return false
}

const (
	DefaultLogoSize               = 0.2
	DefaultLogoBorderRadius       = 0.1
	DefaultLogoOpacity            = 0.9
	DefaultPaddingPreset          = PaddingNone
	DefaultLogoPosition           = PositionCenter
	DefaultLogoHideBackgroundDots = true
)

// Logo describes an image embedded in the barcode. ImageData is an
// embeddable reference (usually a data URI) and is never part of a share link.
type Logo struct {
	ImageData       string        `json:"imageData,omitempty" yaml:"image_data,omitempty"`
	SizeCoefficient float64       `json:"sizeCoefficient" yaml:"size_coefficient"`
	PaddingPreset   PaddingPreset `json:"paddingPreset" yaml:"padding_preset"`
	Position        Position      `json:"position,omitempty" yaml:"position,omitempty"`

	HideBackgroundDots      bool    `json:"hideBackgroundDots" yaml:"hide_background_dots"`
	BorderRadiusCoefficient float64 `json:"borderRadiusCoefficient" yaml:"border_radius_coefficient"`
	OpacityCoefficient      float64 `json:"opacityCoefficient" yaml:"opacity_coefficient"`
}

// DefaultLogo returns logo settings with no image attached.
func DefaultLogo() Logo {
	return Logo{
		SizeCoefficient:         DefaultLogoSize,
		PaddingPreset:           DefaultPaddingPreset,
		Position:                DefaultLogoPosition,
		HideBackgroundDots:      DefaultLogoHideBackgroundDots,
		BorderRadiusCoefficient: DefaultLogoBorderRadius,
		OpacityCoefficient:      DefaultLogoOpacity,
	}
}

// HasImage reports whether there is anything to draw.
func (l Logo) HasImage() bool { return l.ImageData != "" }

// Validate checks the coefficient ranges and enum values.
func (l Logo) Validate() error {
	if l.SizeCoefficient <= 0 || l.SizeCoefficient >= 1 {
		return fmt.Errorf("%w: got %v", ErrLogoSize, l.SizeCoefficient)
	}
	if _, ok := ParsePaddingPreset(string(l.PaddingPreset)); !ok {
		return fmt.Errorf("%w: %q", ErrPaddingPreset, l.PaddingPreset)
	}
	if l.Position != "" && !l.Position.valid() {
		return fmt.Errorf("%w: %q", ErrLogoPosition, l.Position)
	}
	if l.BorderRadiusCoefficient < 0 || l.BorderRadiusCoefficient > 1 ||
		l.OpacityCoefficient < 0 || l.OpacityCoefficient > 1 {
		return ErrLogoCoefficient
	}
	return nil
}
