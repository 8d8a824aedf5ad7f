package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires every route onto a new gin engine.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(h.withTraceID(), withLogging(), withMetrics())

	// Static assets
	r.Static("/web/static", "web/static")

	api := r.Group("/api")
	{
		api.GET("/qr", h.QRCode)
		api.POST("/qr", h.QRCodeUpload)
		api.GET("/links", h.Links)
		api.POST("/htmx/toast", h.GenericToast)
	}

	r.GET("/ws", h.Session)

	// Pages
	r.GET("/", h.HomePage)
	r.GET("/view", h.ViewPage)
	r.GET("/sitemap.xml", h.SitemapXML)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
