package adapter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var renders = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "qrforge_renders_total",
		Help: "Total number of renderer draws requested through the adapter",
	},
	[]string{"op", "status"},
)
