package handlers

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cristianadrielbraun/qrforge/internal/adapter"
)

// liveSet holds the handles that have drawn at least once and have not been
// released. The adapter reports every successful draw through its observer,
// so a handle stuck in the no-render state never shows up here.
type liveSet struct {
	m sync.Map
}

func (l *liveSet) observe(h *adapter.Handle) {
	if _, loaded := l.m.LoadOrStore(h.ID, h); !loaded {
		liveHandles.Inc()
	}
}

func (l *liveSet) get(id uuid.UUID) (*adapter.Handle, error) {
	v, ok := l.m.Load(id)
	if !ok {
		return nil, fmt.Errorf("handle %s: %w", id, adapter.ErrNoRender)
	}
	return v.(*adapter.Handle), nil
}

func (l *liveSet) forget(id uuid.UUID) {
	if _, loaded := l.m.LoadAndDelete(id); loaded {
		liveHandles.Dec()
	}
}

func (l *liveSet) len() int {
	n := 0
	l.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// release destroys handle and drops it from the live set.
func (h *Handler) release(handle *adapter.Handle) error {
	h.live.forget(handle.ID)
	return h.adapter.Destroy(handle)
}
