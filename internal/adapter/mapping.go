package adapter

import (
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/overlay"
	"github.com/cristianadrielbraun/qrforge/internal/renderer"
	"github.com/cristianadrielbraun/qrforge/internal/style"
)

func mapPattern(p style.Pattern) renderer.DotType {
	switch p {
	case style.PatternDots:
		return renderer.DotDots
	case style.PatternRounded:
		return renderer.DotRounded
	case style.PatternClassy:
		return renderer.DotClassy
	default:
		return renderer.DotSquare
	}
}

// classy-rounded has no ring equivalent and becomes square.
func mapCornerSquare(c style.Corner) renderer.CornerSquareType {
	switch c {
	case style.CornerExtraRounded:
		return renderer.CornerSquareExtraRounded
	case style.CornerDot:
		return renderer.CornerSquareDot
	default:
		return renderer.CornerSquareSquare
	}
}

func mapCornerDot(c style.Corner) renderer.CornerDotType {
	if c == style.CornerDot {
		return renderer.CornerDotDot
	}
	return renderer.CornerDotSquare
}

func paint(c style.Color) string {
	if c.IsNoFill() {
		return string(style.NoFill)
	}
	return string(c)
}

// Options translates a configuration into renderer options. The canvas is
// square at the configured display size.
func Options(cfg model.Configuration) renderer.Options {
	s := cfg.Style
	opts := renderer.Options{
		Width:  s.DisplaySizePx,
		Height: s.DisplaySizePx,
		Data:   cfg.RenderData(),
		DotsOptions: renderer.DotsOptions{
			Color: paint(s.ModuleColor),
			Type:  mapPattern(s.Pattern),
		},
		CornersSquareOptions: renderer.CornersSquareOptions{
			Color: paint(s.RingColor()),
			Type:  mapCornerSquare(s.Corner),
		},
		CornersDotOptions: renderer.CornersDotOptions{
			Color: paint(s.CenterColor()),
			Type:  mapCornerDot(s.Corner),
		},
		BackgroundOptions: renderer.BackgroundOptions{Color: paint(s.BackgroundColor)},
		QROptions:         renderer.QROptions{ErrorCorrectionLevel: string(s.ErrorCorrection)},
	}
	if logo, ok := cfg.ActiveLogo(); ok {
		opts.Image = logo.ImageData
		opts.ImageOptions = renderer.ImageOptions{
			Margin:             overlay.ResolvePadding(logo.PaddingPreset).MarginPx,
			HideBackgroundDots: logo.HideBackgroundDots,
			ImageSize:          logo.SizeCoefficient,
		}
	}
	return opts
}
