package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrforge/internal/content"
	"github.com/cristianadrielbraun/qrforge/internal/logger"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/renderer"
	"github.com/cristianadrielbraun/qrforge/internal/share"
	"github.com/cristianadrielbraun/qrforge/internal/style"
)

// normalizeHTTPURL validates and normalizes a URL string for QR generation.
// It ensures an http/https scheme, a non-empty hostname, and returns a cleaned absolute URL.
func normalizeHTTPURL(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("URL parameter is required")
	}
	// If missing scheme, default to https
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.ParseRequestURI(v)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("only http and https URLs are supported")
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL must include a valid host")
	}
	if len(v) > 4096 {
		return "", fmt.Errorf("URL is too long")
	}
	return u.String(), nil
}

// configFromValues builds a configuration from share-link keys. A bare
// ?url= (the original API) is accepted as a url-type payload.
func configFromValues(v url.Values) (model.Configuration, error) {
	if !v.Has(share.KeyContent) && v.Has("url") {
		u, err := normalizeHTTPURL(v.Get("url"))
		if err != nil {
			return model.Configuration{}, err
		}
		v = cloneValues(v)
		v.Set(share.KeyType, string(content.TypeURL))
		v.Set(share.KeyContent, u)
	}
	return share.Deserialize(v), nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

// QRCode renders the configuration in the query string.
func (h *Handler) QRCode(c *gin.Context) {
	v := c.Request.URL.Query()
	cfg, err := configFromValues(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.render(c, cfg, v)
}

// QRCodeUpload is QRCode with an optional multipart logo file.
func (h *Handler) QRCodeUpload(c *gin.Context) {
	limits := h.cfg.Upload
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.MaxBytes+(1<<20))
	if err := c.Request.ParseMultipartForm(limits.MaxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form: " + err.Error()})
		return
	}

	v := cloneValues(c.Request.URL.Query())
	for k, vals := range c.Request.PostForm {
		v[k] = vals
	}
	cfg, err := configFromValues(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fh, err := c.FormFile("logo")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid logo upload: " + err.Error()})
		return
	default:
		uri, err := logoDataURI(fh, limits)
		if err != nil {
			c.JSON(uploadStatus(err), gin.H{"error": err.Error()})
			return
		}
		logo := style.DefaultLogo()
		if cfg.Logo != nil {
			logo = *cfg.Logo
		}
		logo.ImageData = uri
		if p := style.Position(v.Get("logoPosition")); p != "" {
			logo.Position = p
		}
		if cfg, err = cfg.WithLogo(&logo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	h.render(c, cfg, v)
}

// render draws cfg once at the requested resolution and downloads it
// straight into the response. The handle is released afterwards, so there
// is no display size to restore.
func (h *Handler) render(c *gin.Context, cfg model.Configuration, v url.Values) {
	log := logger.FromContext(c.Request.Context())
	limit := h.cfg.Render.MaxResolution

	format, err := renderer.ParseFormat(v.Get("format"))
	if err != nil {
		format, _ = renderer.ParseFormat(h.cfg.Render.DefaultFormat)
	}

	if cfg.Style.DisplaySizePx > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("size must not exceed %d", limit)})
		return
	}
	if r := v.Get("resolution"); r != "" {
		n, err := strconv.Atoi(r)
		if err != nil || n < 1 || n > limit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("resolution must be between 1 and %d", limit)})
			return
		}
		cfg.Style.DisplaySizePx = n
	}

	start := time.Now()
	handle, err := h.adapter.Create(cfg, nil)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		if err := h.release(handle); err != nil {
			log.Debug().Err(err).Msg("failed to release renderer")
		}
	}()
	handle.SetSaver(responseSaver(c, v.Has("download")))

	if err := handle.Download(format, "qrcode"); err != nil {
		log.Error().Err(err).Str("handle", handle.ID.String()).Msg("failed to generate QR code")
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		}
		return
	}
	renderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
}

// responseSaver writes a download into the HTTP response.
func responseSaver(c *gin.Context, attachment bool) renderer.Saver {
	return renderer.SaverFunc(func(filename, contentType string, data []byte) error {
		disposition := "inline"
		if attachment {
			disposition = "attachment"
		}
		c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, contentType, data)
		return nil
	})
}

// Links returns the edit and view links of the configuration in the query.
func (h *Handler) Links(c *gin.Context) {
	cfg, err := configFromValues(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l := linksFor(c, cfg)
	c.JSON(http.StatusOK, gin.H{
		"edit":    l.Edit,
		"view":    l.View,
		"payload": cfg.Payload(),
	})
}
