package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cristianadrielbraun/qrforge/internal/logger"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID puts a request-scoped logger carrying the trace id into the
// request context.
func (h *Handler) withTraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		l := h.log.With("trace_id", traceID)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Header(traceIDHeader, traceID)
		c.Next()
	}
}

func withLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		uri := c.Request.RequestURI
		method := c.Request.Method

		c.Next()

		log := logger.FromContext(c.Request.Context())
		log.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Int("size", c.Writer.Size()).
			Send()
	}
}

func withMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
