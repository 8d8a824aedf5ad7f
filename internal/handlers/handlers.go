// Package handlers is the HTTP and WebSocket surface of the service.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cristianadrielbraun/qrforge/internal/adapter"
	"github.com/cristianadrielbraun/qrforge/internal/config"
	"github.com/cristianadrielbraun/qrforge/internal/export"
	"github.com/cristianadrielbraun/qrforge/internal/logger"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/share"
	"github.com/cristianadrielbraun/qrforge/web/components"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	cfg      *config.Config
	log      *logger.Logger
	adapter  *adapter.Adapter
	exporter *export.Controller
	live     *liveSet
	upgrader websocket.Upgrader
}

// New returns a Handler for cfg.
func New(cfg *config.Config, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	live := &liveSet{}
	return &Handler{
		cfg:      cfg,
		log:      log,
		adapter:  adapter.New(log, adapter.WithObserver(live.observe)),
		exporter: export.New(cfg.Render.SettleDelay, log),
		live:     live,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// requestBase is the scheme and host the client used to reach us.
func requestBase(c *gin.Context) string {
	scheme := "https"
	host := c.Request.Host
	if xf := c.Request.Header.Get("X-Forwarded-Proto"); xf != "" {
		scheme = xf
	} else if c.Request.TLS == nil && (strings.HasPrefix(host, "localhost") || strings.HasPrefix(host, "127.0.0.1")) {
		scheme = "http"
	}
	return scheme + "://" + host
}

func linksFor(c *gin.Context, cfg model.Configuration) components.Links {
	base := requestBase(c)
	return components.Links{
		Edit: share.EditLink(base, cfg),
		View: share.ViewLink(base, cfg),
	}
}

// SitemapXML serves a minimal sitemap for the site.
func (h *Handler) SitemapXML(c *gin.Context) {
	c.Header("Content-Type", "application/xml; charset=utf-8")
	base := requestBase(c)
	xml := "" +
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n" +
		"  <url>\n" +
		"    <loc>" + base + share.EditPath + "</loc>\n" +
		"    <changefreq>weekly</changefreq>\n" +
		"    <priority>1.0</priority>\n" +
		"  </url>\n" +
		"  <url>\n" +
		"    <loc>" + base + share.ViewPath + "</loc>\n" +
		"    <changefreq>monthly</changefreq>\n" +
		"    <priority>0.6</priority>\n" +
		"  </url>\n" +
		"</urlset>\n"
	c.String(http.StatusOK, xml)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
