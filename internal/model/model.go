// Package model defines Configuration, the unit that drives a render and is
// serialised into share links.
package model

import (
	"fmt"

	"github.com/cristianadrielbraun/qrforge/internal/content"
	"github.com/cristianadrielbraun/qrforge/internal/style"
)

// FallbackData is rendered when the payload is empty.
const FallbackData = "https://qrcreator.link"

// Configuration aggregates everything needed to draw one barcode.
type Configuration struct {
	Type   content.Type   `json:"type" yaml:"type"`
	Fields content.Fields `json:"fields" yaml:"fields"`
	Style  style.Config   `json:"style" yaml:"style"`
	Logo   *style.Logo    `json:"logo,omitempty" yaml:"logo,omitempty"`
}

// Default is the configuration a fresh editor starts with.
func Default() Configuration {
	return Configuration{
		Type:   content.TypeURL,
		Fields: content.Fields{content.FieldValue: ""},
		Style:  style.Default(),
	}
}

// Payload derives the exact string the barcode carries.
func (c Configuration) Payload() string {
	return content.Encode(c.Type, c.Fields)
}

// RenderData is Payload with FallbackData substituted for an empty payload.
func (c Configuration) RenderData() string {
	if p := c.Payload(); p != "" {
		return p
	}
	return FallbackData
}

// ActiveLogo returns the logo when one is configured with an image.
func (c Configuration) ActiveLogo() (style.Logo, bool) {
	if c.Logo == nil || !c.Logo.HasImage() {
		return style.Logo{}, false
	}
	return *c.Logo, true
}

// Clone returns a deep copy so callers can derive a new snapshot without
// sharing maps or the logo pointer with c.
func (c Configuration) Clone() Configuration {
	out := c
	out.Fields = c.Fields.Clone()
	if c.Logo != nil {
		logo := *c.Logo
		out.Logo = &logo
	}
	return out
}

// Validate checks the style and, when present, the logo.
func (c Configuration) Validate() error {
	if _, ok := content.ParseType(string(c.Type)); !ok {
		return fmt.Errorf("unknown content type %q", c.Type)
	}
	if err := c.Style.Validate(); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	if c.Logo != nil {
		if err := c.Logo.Validate(); err != nil {
			return fmt.Errorf("logo: %w", err)
		}
	}
	return nil
}

// WithStyle returns a copy of c with the style options applied.
func (c Configuration) WithStyle(opts ...style.Option) (Configuration, error) {
	s, err := c.Style.With(opts...)
	if err != nil {
		return c, err
	}
	out := c.Clone()
	out.Style = s
	return out, nil
}

// WithContent returns a copy of c carrying a new intent.
func (c Configuration) WithContent(t content.Type, fields content.Fields) Configuration {
	out := c.Clone()
	out.Type = t
	out.Fields = fields.Clone()
	return out
}

// WithLogo returns a copy of c with logo attached, or removed when logo is nil.
func (c Configuration) WithLogo(logo *style.Logo) (Configuration, error) {
	out := c.Clone()
	if logo == nil {
		out.Logo = nil
		return out, nil
	}
	if err := logo.Validate(); err != nil {
		return c, err
	}
	l := *logo
	out.Logo = &l
	return out, nil
}
