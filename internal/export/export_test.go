package export

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrforge/internal/adapter"
	"github.com/cristianadrielbraun/qrforge/internal/content"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/renderer"
)

type fakeTarget struct {
	mu           sync.Mutex
	res          int
	resizes      []int
	downloadedAt int
	downloadErr  error
}

func (f *fakeTarget) Resolution() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.res
}

func (f *fakeTarget) Resize(px int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.res = px
	f.resizes = append(f.resizes, px)
	return nil
}

func (f *fakeTarget) Download(renderer.Format, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadedAt = f.res
	return f.downloadErr
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("restore did not happen")
	}
}

func TestExportAt_RestoresDisplayResolution(t *testing.T) {
	target := &fakeTarget{res: 300}
	c := New(20*time.Millisecond, nil)

	done, err := c.ExportAt(target, 2048, renderer.FormatPNG, "qr")
	require.NoError(t, err)

	assert.Equal(t, 2048, target.downloadedAt)
	assert.Equal(t, 2048, target.Resolution(), "export resolution holds until the settle delay")

	wait(t, done)
	assert.Equal(t, 300, target.Resolution())
	assert.Equal(t, []int{2048, 300}, target.resizes)
}

func TestExportAt_DownloadErrorRestoresImmediately(t *testing.T) {
	target := &fakeTarget{res: 300, downloadErr: errors.New("disk full")}
	c := New(time.Hour, nil)

	done, err := c.ExportAt(target, 1024, renderer.FormatJPEG, "qr")
	require.Error(t, err)
	wait(t, done)
	assert.Equal(t, 300, target.Resolution())
}

func TestExportAt_InvalidResolution(t *testing.T) {
	target := &fakeTarget{res: 300}
	_, err := New(0, nil).ExportAt(target, 0, renderer.FormatPNG, "qr")
	assert.ErrorIs(t, err, ErrResolution)
	assert.Empty(t, target.resizes)
}

func TestExportAt_OverlappingExportsKeepExportResolution(t *testing.T) {
	target := &fakeTarget{res: 300}
	c := New(20*time.Millisecond, nil)

	first, err := c.ExportAt(target, 2048, renderer.FormatPNG, "a")
	require.NoError(t, err)
	second, err := c.ExportAt(target, 1024, renderer.FormatPNG, "b")
	require.NoError(t, err)

	wait(t, first)
	wait(t, second)
	// the second export saw 2048 as the display size
	assert.Equal(t, 2048, target.Resolution())
}

func TestExportAt_AdapterHandle(t *testing.T) {
	a := adapter.New(nil)
	cfg := model.Default().WithContent(content.TypeText, content.Fields{content.FieldValue: "hello"})
	var preview renderer.Buffer
	h, err := a.Create(cfg, &preview)
	require.NoError(t, err)

	var saved []byte
	h.SetSaver(renderer.SaverFunc(func(name, _ string, data []byte) error {
		assert.Equal(t, "qr.svg", name)
		saved = data
		return nil
	}))

	done, err := New(10*time.Millisecond, nil).ExportAt(h, 1200, renderer.FormatSVG, "qr")
	require.NoError(t, err)
	assert.Contains(t, string(saved), `width="1200"`)

	wait(t, done)
	assert.Equal(t, 300, h.Resolution())
	assert.Contains(t, string(preview.Bytes()), `width="300"`)
}
