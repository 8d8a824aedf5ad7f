// Package share turns a Configuration into a flat query string and back.
// Logo images are never serialised: a link reproduces the style only.
package share

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cristianadrielbraun/qrforge/internal/content"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/style"
)

// Query keys.
const (
	KeyType            = "type"
	KeyContent         = "content"
	KeyFgColor         = "fgColor"
	KeyBgColor         = "bgColor"
	KeySize            = "size"
	KeyPatternStyle    = "patternStyle"
	KeyCornerStyle     = "cornerStyle"
	KeyErrorCorrection = "errorCorrection"
	KeyBgPadding       = "bgPadding"
	KeyBgBorderRadius  = "bgBorderRadius"
	KeyRingColor       = "ringColor"
	KeyCenterColor     = "centerColor"
	KeyHasLogo         = "hasLogo"
	KeyLogoPadding     = "logoPadding"
	KeyLogoSize        = "logoSize"
)

// Paths of the two link kinds.
const (
	EditPath = "/"
	ViewPath = "/view"
)

// Serialize flattens cfg. The content key carries the payload, not the raw
// fields.
func Serialize(cfg model.Configuration) url.Values {
	s := cfg.Style
	v := url.Values{}
	v.Set(KeyType, string(cfg.Type))
	v.Set(KeyContent, cfg.Payload())
	v.Set(KeyFgColor, string(s.ModuleColor))
	v.Set(KeyBgColor, string(s.BackgroundColor))
	v.Set(KeySize, strconv.Itoa(s.DisplaySizePx))
	v.Set(KeyPatternStyle, string(s.Pattern))
	v.Set(KeyCornerStyle, string(s.Corner))
	v.Set(KeyErrorCorrection, string(s.ErrorCorrection))
	v.Set(KeyBgPadding, strconv.Itoa(s.BackgroundPaddingPx))
	v.Set(KeyBgBorderRadius, strconv.Itoa(s.BackgroundBorderRadiusPx))
	if s.CornerSquareColor != "" {
		v.Set(KeyRingColor, string(s.CornerSquareColor))
	}
	if s.CornerDotColor != "" {
		v.Set(KeyCenterColor, string(s.CornerDotColor))
	}
	if cfg.Logo != nil {
		v.Set(KeyHasLogo, "true")
		v.Set(KeyLogoPadding, string(cfg.Logo.PaddingPreset))
		v.Set(KeyLogoSize, strconv.FormatFloat(cfg.Logo.SizeCoefficient, 'f', -1, 64))
	}
	return v
}

// Deserialize rebuilds a Configuration. It never fails: a missing or
// unusable key keeps the default of a fresh Configuration.
func Deserialize(v url.Values) model.Configuration {
	cfg := model.Default()
	s := &cfg.Style

	if t, ok := content.ParseType(v.Get(KeyType)); ok {
		cfg.Type = t
	}
	if v.Has(KeyContent) {
		cfg.Fields = content.Decode(cfg.Type, v.Get(KeyContent))
	} else if cfg.Type == content.TypeWiFi {
		cfg.Fields = content.Decode(cfg.Type, "")
	}

	if c := v.Get(KeyFgColor); c != "" {
		s.ModuleColor = style.Color(c)
	}
	if c := v.Get(KeyBgColor); c != "" {
		s.BackgroundColor = style.Color(c)
	}
	if c := v.Get(KeyRingColor); c != "" {
		s.CornerSquareColor = style.Color(c)
	}
	if c := v.Get(KeyCenterColor); c != "" {
		s.CornerDotColor = style.Color(c)
	}
	if n, ok := intAtLeast(v.Get(KeySize), 1); ok {
		s.DisplaySizePx = n
	}
	if p, ok := style.ParsePattern(v.Get(KeyPatternStyle)); ok {
		s.Pattern = p
	}
	if c, ok := style.ParseCorner(v.Get(KeyCornerStyle)); ok {
		s.Corner = c
	}
	if e, ok := style.ParseErrorCorrection(v.Get(KeyErrorCorrection)); ok {
		s.ErrorCorrection = e
	}
	if n, ok := intAtLeast(v.Get(KeyBgPadding), 0); ok {
		s.BackgroundPaddingPx = n
	}
	if n, ok := intAtLeast(v.Get(KeyBgBorderRadius), 0); ok {
		s.BackgroundBorderRadiusPx = n
	}

	if has, _ := strconv.ParseBool(v.Get(KeyHasLogo)); has {
		logo := style.DefaultLogo()
		if p, ok := style.ParsePaddingPreset(v.Get(KeyLogoPadding)); ok {
			logo.PaddingPreset = p
		}
		if f, err := strconv.ParseFloat(v.Get(KeyLogoSize), 64); err == nil && f > 0 && f < 1 {
			logo.SizeCoefficient = f
		}
		cfg.Logo = &logo
	}
	return cfg
}

func intAtLeast(s string, floor int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < floor {
		return 0, false
	}
	return n, true
}

// Query is the encoded query string of cfg. Keys are sorted, so equal
// configurations give equal strings.
func Query(cfg model.Configuration) string {
	return Serialize(cfg).Encode()
}

// EditLink opens cfg in the editor served at base.
func EditLink(base string, cfg model.Configuration) string {
	return strings.TrimSuffix(base, "/") + EditPath + "?" + Query(cfg)
}

// ViewLink opens the rendered output of cfg served at base.
func ViewLink(base string, cfg model.Configuration) string {
	return strings.TrimSuffix(base, "/") + ViewPath + "?" + Query(cfg)
}
