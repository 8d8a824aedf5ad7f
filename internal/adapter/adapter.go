// Package adapter owns one renderer instance per mount point and keeps it in
// step with a Configuration. Failures are logged and leave the handle in a
// no-render state; they never corrupt the configuration.
package adapter

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/cristianadrielbraun/qrforge/internal/logger"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/overlay"
	"github.com/cristianadrielbraun/qrforge/internal/renderer"
	"github.com/cristianadrielbraun/qrforge/internal/svg"
)

// ErrNoRender is returned by handle operations while nothing is drawn.
var ErrNoRender = errors.New("renderer not available")

// Factory builds a renderer instance.
type Factory func(opts renderer.Options, log *logger.Logger) (*renderer.Instance, error)

// Loader resolves the Factory. It runs at most once per Adapter.
type Loader func() (Factory, error)

// DefaultLoader returns the in-process renderer.
func DefaultLoader() (Factory, error) {
	return renderer.New, nil
}

// Observer is told about every handle that finished a draw.
type Observer func(*Handle)

// Adapter creates and updates handles.
type Adapter struct {
	load       func() (Factory, error)
	compositor *overlay.Compositor
	observer   Observer
	log        *logger.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLoader replaces DefaultLoader.
func WithLoader(l Loader) Option {
	return func(a *Adapter) { a.load = sync.OnceValues[Factory, error](l) }
}

// WithObserver registers the callback run after each successful draw.
func WithObserver(o Observer) Option {
	return func(a *Adapter) { a.observer = o }
}

// New returns an Adapter. The renderer is not loaded until the first Create.
func New(log *logger.Logger, opts ...Option) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	a := &Adapter{
		load:       sync.OnceValues[Factory, error](DefaultLoader),
		compositor: overlay.New(log),
		log:        log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle is the live renderer bound to one mount point.
type Handle struct {
	ID uuid.UUID

	mu        sync.Mutex
	inst      *renderer.Instance
	cfg       model.Configuration
	container renderer.Container
	saver     renderer.Saver
}

// Ready reports whether the handle has a renderer.
func (h *Handle) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inst != nil
}

// Config returns the last configuration applied to the handle.
func (h *Handle) Config() model.Configuration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.Clone()
}

func (h *Handle) instance() (*renderer.Instance, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inst == nil {
		return nil, ErrNoRender
	}
	return h.inst, nil
}

// Resolution is the current canvas width in pixels.
func (h *Handle) Resolution() int {
	inst, err := h.instance()
	if err != nil {
		return 0
	}
	return inst.Width()
}

// Resize redraws at px x px, keeping every other parameter.
func (h *Handle) Resize(px int) error {
	inst, err := h.instance()
	if err != nil {
		return err
	}
	return inst.Update(renderer.WithSize(px, px))
}

// SetSaver sets the destination of Download.
func (h *Handle) SetSaver(s renderer.Saver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.saver = s
	if h.inst != nil {
		h.inst.SetSaver(s)
	}
}

// Download exports the current drawing through the saver.
func (h *Handle) Download(f renderer.Format, filename string) error {
	inst, err := h.instance()
	if err != nil {
		return err
	}
	return inst.Download(f, filename)
}

// Encode writes the current drawing to w.
func (h *Handle) Encode(w io.Writer, f renderer.Format) error {
	inst, err := h.instance()
	if err != nil {
		return err
	}
	return inst.Encode(w, f)
}

// Tree returns a copy of the current drawing.
func (h *Handle) Tree() (*svg.Node, error) {
	inst, err := h.instance()
	if err != nil {
		return nil, err
	}
	return inst.Tree(), nil
}

// extension returns the compositor step for cfg, or nil without a logo.
func (a *Adapter) extension(cfg model.Configuration) renderer.Extension {
	logo, ok := cfg.ActiveLogo()
	if !ok {
		return nil
	}
	return func(doc *svg.Node, opts renderer.Options) {
		a.compositor.Apply(doc, float64(opts.Width), float64(opts.Height), logo)
	}
}

// Create builds a renderer for cfg and mounts it into c. On failure the
// returned handle is still usable: it is in the no-render state and a later
// Update may recover it.
func (a *Adapter) Create(cfg model.Configuration, c renderer.Container) (*Handle, error) {
	h := &Handle{ID: uuid.New(), cfg: cfg.Clone(), container: c}
	log := a.log.With("handle", h.ID.String())

	if err := a.build(h, cfg); err != nil {
		renders.WithLabelValues("create", "error").Inc()
		log.Error().Err(err).Msg("failed to create renderer")
		return h, err
	}
	renders.WithLabelValues("create", "ok").Inc()
	log.Debug().Str("type", string(cfg.Type)).Int("size", cfg.Style.DisplaySizePx).Msg("renderer created")
	a.notify(h)
	return h, nil
}

func (a *Adapter) build(h *Handle, cfg model.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	factory, err := a.load()
	if err != nil {
		return fmt.Errorf("failed to load renderer: %w", err)
	}
	inst, err := factory(Options(cfg), a.log)
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}
	if ext := a.extension(cfg); ext != nil {
		if err := inst.ApplyExtension(ext); err != nil {
			return fmt.Errorf("failed to apply logo overlay: %w", err)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.saver != nil {
		inst.SetSaver(h.saver)
	}
	if h.container != nil {
		if err := inst.Mount(h.container); err != nil {
			return fmt.Errorf("failed to mount renderer: %w", err)
		}
	}
	h.inst = inst
	h.cfg = cfg.Clone()
	return nil
}

// Update re-applies every parameter of cfg to h in place. The previous logo
// overlay is discarded and the compositor runs again on the fresh tree.
func (a *Adapter) Update(h *Handle, cfg model.Configuration) error {
	log := a.log.With("handle", h.ID.String())

	inst, err := h.instance()
	if err != nil {
		// never drawn: try again from scratch
		if err := a.build(h, cfg); err != nil {
			renders.WithLabelValues("update", "error").Inc()
			log.Error().Err(err).Msg("failed to create renderer")
			return err
		}
		renders.WithLabelValues("update", "ok").Inc()
		a.notify(h)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		renders.WithLabelValues("update", "error").Inc()
		log.Error().Err(err).Msg("rejected configuration update")
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// the extension is swapped inside the same draw, so a rejected update
	// keeps the previous overlay
	if err := inst.Update(renderer.WithOptions(Options(cfg)), renderer.WithExtension(a.extension(cfg))); err != nil {
		renders.WithLabelValues("update", "error").Inc()
		log.Error().Err(err).Msg("failed to update renderer")
		return err
	}

	h.mu.Lock()
	h.cfg = cfg.Clone()
	h.mu.Unlock()

	renders.WithLabelValues("update", "ok").Inc()
	a.notify(h)
	return nil
}

// Destroy clears the mount point and drops the renderer.
func (a *Adapter) Destroy(h *Handle) error {
	h.mu.Lock()
	inst := h.inst
	h.inst = nil
	h.mu.Unlock()
	if inst == nil {
		return nil
	}
	if err := inst.Unmount(); err != nil {
		a.log.Warn().Err(err).Str("handle", h.ID.String()).Msg("failed to clear mount point")
		return err
	}
	return nil
}

func (a *Adapter) notify(h *Handle) {
	if a.observer != nil {
		a.observer(h)
	}
}
