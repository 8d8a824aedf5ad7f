package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrforge/internal/logger"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/renderer"
	"github.com/cristianadrielbraun/qrforge/web/pages"
)

// preview renders cfg once into a buffer. A failed render yields no bytes;
// the page then shows its placeholder.
func (h *Handler) preview(c *gin.Context, cfg model.Configuration) []byte {
	buf := &renderer.Buffer{}
	handle, err := h.adapter.Create(cfg, buf)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("preview unavailable")
		return nil
	}
	doc := buf.Bytes()
	if err := h.release(handle); err != nil {
		logger.FromContext(c.Request.Context()).Debug().Err(err).Msg("failed to release preview renderer")
	}
	return doc
}

// HomePage serves the editor, prefilled from share-link keys when present.
func (h *Handler) HomePage(c *gin.Context) {
	cfg, err := configFromValues(c.Request.URL.Query())
	if err != nil {
		cfg = model.Default()
	}
	h.page(c, pages.HomePage(pages.HomeProps{
		Config:  cfg,
		Preview: h.preview(c, cfg),
		Links:   linksFor(c, cfg),
	}))
}

// ViewPage serves the rendered barcode of a share link.
func (h *Handler) ViewPage(c *gin.Context) {
	cfg, err := configFromValues(c.Request.URL.Query())
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	h.page(c, pages.ViewPage(pages.ViewProps{
		Config:  cfg,
		Preview: h.preview(c, cfg),
		Links:   linksFor(c, cfg),
	}))
}

func (h *Handler) page(c *gin.Context, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
	}
}
