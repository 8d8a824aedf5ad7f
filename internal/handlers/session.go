package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cristianadrielbraun/qrforge/internal/adapter"
	"github.com/cristianadrielbraun/qrforge/internal/logger"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/renderer"
	"github.com/cristianadrielbraun/qrforge/web/components"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// Client message types.
const (
	msgConfigure = "configure"
	msgExport    = "export"
)

// Server frame types.
const (
	framePreview = "preview"
	frameClear   = "clear"
	frameExport  = "export"
	frameLinks   = "links"
	frameError   = "error"
)

// SessionRequest is a message sent by the editor.
type SessionRequest struct {
	Type       string               `json:"type"`
	Config     *model.Configuration `json:"config,omitempty"`
	Format     string               `json:"format,omitempty"`
	Resolution int                  `json:"resolution,omitempty"`
	Filename   string               `json:"filename,omitempty"`
}

// SessionFrame is a message pushed to the editor.
type SessionFrame struct {
	Type        string            `json:"type"`
	SVG         string            `json:"svg,omitempty"`
	Filename    string            `json:"filename,omitempty"`
	ContentType string            `json:"contentType,omitempty"`
	Data        string            `json:"data,omitempty"`
	Links       *components.Links `json:"links,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// session is one editor connection. It is both the mount point and the
// download target of its handle, so every redraw and export becomes a frame.
type session struct {
	conn *websocket.Conn
	log  *logger.Logger

	mu     sync.Mutex
	closed bool
}

func (s *session) send(f SessionFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return websocket.ErrCloseSent
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(f); err != nil {
		return err
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
	return nil
}

func (s *session) sendError(err error) {
	if werr := s.send(SessionFrame{Type: frameError, Error: err.Error()}); werr != nil {
		s.log.Debug().Err(werr).Msg("failed to send error frame")
	}
}

func (s *session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *session) Replace(doc []byte) error {
	return s.send(SessionFrame{Type: framePreview, SVG: string(doc)})
}

func (s *session) Clear() error {
	err := s.send(SessionFrame{Type: frameClear})
	if err == websocket.ErrCloseSent {
		return nil
	}
	return err
}

func (s *session) Save(filename, contentType string, data []byte) error {
	return s.send(SessionFrame{
		Type:        frameExport,
		Filename:    filename,
		ContentType: contentType,
		Data:        base64.StdEncoding.EncodeToString(data),
	})
}

// Session upgrades to a websocket and runs a live editor session. The
// initial configuration comes from the query string.
func (h *Handler) Session(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade connection to websocket")
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketSessions.Inc()
	defer websocketSessions.Dec()

	cfg, err := configFromValues(c.Request.URL.Query())
	if err != nil {
		cfg = model.Default()
	}

	s := &session{conn: conn, log: log}
	handle, err := h.adapter.Create(cfg, s)
	if err != nil {
		s.sendError(err)
	}
	handle.SetSaver(s)
	s.sendLinks(c, cfg)
	log.Info().Str("handle", handle.ID.String()).Str("remote_addr", c.Request.RemoteAddr).Msg("editor session started")

	done := make(chan struct{})
	defer close(done)
	go keepAlive(conn, done)

	h.readLoop(c, s, handle)

	s.close()
	if err := h.release(handle); err != nil {
		log.Debug().Err(err).Msg("failed to destroy session renderer")
	}
	log.Info().Str("handle", handle.ID.String()).Msg("editor session closed")
}

func keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) readLoop(c *gin.Context, s *session, handle *adapter.Handle) {
	conn := s.conn
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("websocket error")
			}
			return
		}
		websocketMessagesTotal.WithLabelValues("received").Inc()
		if messageType != websocket.TextMessage {
			continue
		}

		var req SessionRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.sendError(fmt.Errorf("failed to parse request: %w", err))
			continue
		}
		switch req.Type {
		case msgConfigure:
			h.configure(c, s, handle, req)
		case msgExport:
			h.export(s, handle, req)
		default:
			s.sendError(fmt.Errorf("unsupported message type %q", req.Type))
		}
	}
}

func (h *Handler) configure(c *gin.Context, s *session, handle *adapter.Handle, req SessionRequest) {
	if req.Config == nil {
		s.sendError(fmt.Errorf("configure needs a config"))
		return
	}
	cfg := *req.Config
	if cfg.Style.DisplaySizePx > h.cfg.Render.MaxResolution {
		s.sendError(fmt.Errorf("size must not exceed %d", h.cfg.Render.MaxResolution))
		return
	}
	if err := h.adapter.Update(handle, cfg); err != nil {
		s.sendError(err)
		return
	}
	s.sendLinks(c, cfg)
}

func (h *Handler) export(s *session, handle *adapter.Handle, req SessionRequest) {
	format, err := renderer.ParseFormat(req.Format)
	if err != nil {
		s.sendError(err)
		return
	}
	resolution := req.Resolution
	if resolution == 0 {
		resolution = handle.Config().Style.DisplaySizePx
	}
	if resolution > h.cfg.Render.MaxResolution {
		s.sendError(fmt.Errorf("resolution must not exceed %d", h.cfg.Render.MaxResolution))
		return
	}
	filename := req.Filename
	if filename == "" {
		filename = "qrcode"
	}
	// only a handle that has drawn can be exported
	target, err := h.live.get(handle.ID)
	if err != nil {
		s.sendError(err)
		return
	}
	if _, err := h.exporter.ExportAt(target, resolution, format, filename); err != nil {
		s.sendError(err)
	}
}

func (s *session) sendLinks(c *gin.Context, cfg model.Configuration) {
	l := linksFor(c, cfg)
	if err := s.send(SessionFrame{Type: frameLinks, Links: &l}); err != nil {
		s.log.Debug().Err(err).Msg("failed to send links")
	}
}
