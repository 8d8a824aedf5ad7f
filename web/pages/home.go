// Package pages renders the HTML pages of the site.
package pages

import (
	"strconv"

	"github.com/cristianadrielbraun/qrforge/internal/content"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/style"
	"github.com/cristianadrielbraun/qrforge/web/components"
)

// HomeProps feeds the editor page.
type HomeProps struct {
	Config  model.Configuration
	Preview []byte
	Links   components.Links
}

var exportFormats = []string{"png", "svg", "jpeg"}

type option struct {
	Value    string
	Label    string
	Selected bool
}

func options[T ~string](values []T, current T) []option {
	out := make([]option, 0, len(values))
	for _, v := range values {
		out = append(out, option{Value: string(v), Label: string(v), Selected: v == current})
	}
	return out
}

// securityOptions keeps the payload token as the value and shows the
// friendlier name.
func securityOptions(current string) []option {
	return []option{
		{Value: content.SecurityWPA, Label: "WPA/WPA2", Selected: current == content.SecurityWPA},
		{Value: content.SecurityWEP, Label: content.SecurityWEP, Selected: current == content.SecurityWEP},
		{Value: content.SecurityNone, Label: content.SecurityNone, Selected: current == content.SecurityNone},
	}
}

// logoOf returns the logo settings shown in the form. Without a logo the
// padding preset reads as none.
func logoOf(cfg model.Configuration) style.Logo {
	if cfg.Logo != nil {
		return *cfg.Logo
	}
	l := style.DefaultLogo()
	l.PaddingPreset = style.PaddingNone
	return l
}

func logoSize(cfg model.Configuration) string {
	return strconv.FormatFloat(logoOf(cfg).SizeCoefficient, 'f', -1, 64)
}
