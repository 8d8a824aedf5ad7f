package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qrforge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qrforge_render_duration_seconds",
			Help:    "Time to render and encode one barcode",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"format"},
	)

	uploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qrforge_upload_size_bytes",
			Help:    "Size of uploaded logos in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 512 * 1024, 1024 * 1024, 4 * 1024 * 1024},
		},
	)

	liveHandles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qrforge_live_handles",
			Help: "Number of drawn renderer handles not yet released",
		},
	)

	// WebSocket metrics
	websocketSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qrforge_websocket_active_sessions",
			Help: "Number of active editor sessions",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrforge_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // sent, received
	)
)
