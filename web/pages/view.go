package pages

import (
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/web/components"
)

// ViewProps feeds the view page.
type ViewProps struct {
	Config  model.Configuration
	Preview []byte
	Links   components.Links
}
