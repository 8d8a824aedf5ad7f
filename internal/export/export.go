// Package export renders a handle at a download resolution and puts the
// preview back afterwards.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cristianadrielbraun/qrforge/internal/logger"
	"github.com/cristianadrielbraun/qrforge/internal/renderer"
)

// DefaultSettleDelay is how long the export resolution is kept before the
// preview is restored.
const DefaultSettleDelay = 500 * time.Millisecond

var ErrResolution = errors.New("export resolution must be positive")

var exports = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "qrforge_exports_total",
		Help: "Total number of exports by format and status",
	},
	[]string{"format", "status"},
)

// Target is a redrawable barcode that can be saved to a file.
type Target interface {
	Resolution() int
	Resize(px int) error
	Download(f renderer.Format, filename string) error
}

// Controller runs exports.
type Controller struct {
	settle time.Duration
	log    *logger.Logger
}

// New returns a Controller. A non-positive settle uses DefaultSettleDelay.
func New(settle time.Duration, log *logger.Logger) *Controller {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{settle: settle, log: log}
}

// ExportAt redraws t at resolutionPx, downloads it as format and, after the
// settle delay, redraws at the resolution t had before. It does not wait for
// the restore: the returned channel is closed once it has happened.
//
// Overlapping exports on the same target are not serialised. A second export
// started before the first restore captures the export resolution as its
// display resolution and leaves the preview there.
func (c *Controller) ExportAt(t Target, resolutionPx int, f renderer.Format, filename string) (<-chan struct{}, error) {
	if resolutionPx <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrResolution, resolutionPx)
	}
	display := t.Resolution()

	if err := t.Resize(resolutionPx); err != nil {
		exports.WithLabelValues(string(f), "error").Inc()
		return nil, fmt.Errorf("failed to resize for export: %w", err)
	}

	done := make(chan struct{})
	restore := func() {
		defer close(done)
		if err := t.Resize(display); err != nil {
			c.log.Error().Err(err).Int("resolution", display).Msg("failed to restore preview resolution")
		}
	}

	if err := t.Download(f, filename); err != nil {
		exports.WithLabelValues(string(f), "error").Inc()
		// put the preview back before reporting
		restore()
		return done, fmt.Errorf("failed to export %s: %w", f, err)
	}
	exports.WithLabelValues(string(f), "ok").Inc()
	c.log.Info().
		Str("format", string(f)).
		Str("filename", filename).
		Int("resolution", resolutionPx).
		Msg("exported")

	time.AfterFunc(c.settle, restore)
	return done, nil
}
