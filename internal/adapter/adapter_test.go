package adapter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrforge/internal/content"
	"github.com/cristianadrielbraun/qrforge/internal/model"
	"github.com/cristianadrielbraun/qrforge/internal/renderer"
	"github.com/cristianadrielbraun/qrforge/internal/style"
	"github.com/cristianadrielbraun/qrforge/internal/svg"
)

func urlConfig(value string) model.Configuration {
	return model.Default().WithContent(content.TypeURL, content.Fields{content.FieldValue: value})
}

func withLogo(t *testing.T, cfg model.Configuration, preset style.PaddingPreset) model.Configuration {
	t.Helper()
	logo := style.DefaultLogo()
	logo.ImageData = "data:image/png;base64,AAAA"
	logo.PaddingPreset = preset
	out, err := cfg.WithLogo(&logo)
	require.NoError(t, err)
	return out
}

func plates(doc *svg.Node) int {
	n := 0
	for _, r := range doc.FindAll("rect") {
		if fill, _ := r.Get("fill"); strings.HasPrefix(fill, "rgba(") {
			n++
		}
	}
	return n
}

func TestOptions_Mapping(t *testing.T) {
	cfg := urlConfig("https://exon.dev")
	cfg, err := cfg.WithStyle(style.WithPattern(style.PatternClassy), style.WithCorner(style.CornerClassyRounded))
	require.NoError(t, err)

	opts := Options(cfg)
	assert.Equal(t, "https://exon.dev", opts.Data)
	assert.Equal(t, 300, opts.Width)
	assert.Equal(t, 300, opts.Height)
	assert.Equal(t, renderer.DotClassy, opts.DotsOptions.Type)
	assert.Equal(t, renderer.CornerSquareSquare, opts.CornersSquareOptions.Type)
	assert.Equal(t, renderer.CornerDotSquare, opts.CornersDotOptions.Type)
	assert.Equal(t, "transparent", opts.BackgroundOptions.Color)
	assert.Equal(t, "H", opts.QROptions.ErrorCorrectionLevel)
	assert.Empty(t, opts.Image)

	cfg, err = cfg.WithStyle(style.WithCorner(style.CornerDot), style.WithCornerDotColor("#ff0000"))
	require.NoError(t, err)
	opts = Options(cfg)
	assert.Equal(t, renderer.CornerSquareDot, opts.CornersSquareOptions.Type)
	assert.Equal(t, renderer.CornerDotDot, opts.CornersDotOptions.Type)
	assert.Equal(t, "#000000", opts.CornersSquareOptions.Color)
	assert.Equal(t, "#ff0000", opts.CornersDotOptions.Color)
}

func TestOptions_Logo(t *testing.T) {
	cfg := withLogo(t, urlConfig("x"), style.PaddingStandard)
	opts := Options(cfg)
	assert.Equal(t, "data:image/png;base64,AAAA", opts.Image)
	assert.Equal(t, 5, opts.ImageOptions.Margin)
	assert.True(t, opts.ImageOptions.HideBackgroundDots)
	assert.Equal(t, 0.2, opts.ImageOptions.ImageSize)
}

func TestOptions_EmptyPayloadUsesFallback(t *testing.T) {
	assert.Equal(t, model.FallbackData, Options(urlConfig("")).Data)
}

func TestCreate_MountsAndNotifies(t *testing.T) {
	var seen []*Handle
	a := New(nil, WithObserver(func(h *Handle) { seen = append(seen, h) }))
	var buf renderer.Buffer

	h, err := a.Create(urlConfig("https://exon.dev"), &buf)
	require.NoError(t, err)

	assert.True(t, h.Ready())
	assert.Equal(t, 1, buf.Renders())
	assert.Contains(t, string(buf.Bytes()), "<svg")
	require.Len(t, seen, 1)
	assert.Same(t, h, seen[0])
	assert.Equal(t, 300, h.Resolution())
}

func TestCreate_WithLogoPlacesPlateUnderImage(t *testing.T) {
	a := New(nil)
	h, err := a.Create(withLogo(t, urlConfig("https://exon.dev"), style.PaddingStandard), &renderer.Buffer{})
	require.NoError(t, err)

	doc, err := h.Tree()
	require.NoError(t, err)
	require.Equal(t, 1, plates(doc))

	img := doc.Children[len(doc.Children)-1]
	plate := doc.Children[len(doc.Children)-2]
	assert.Equal(t, "image", img.Tag)
	assert.Equal(t, "rect", plate.Tag)
	w, _ := img.Float("width")
	assert.InDelta(t, 60.0, w, 1e-9)
}

func TestUpdate_ReappliesOverlayOnFreshTree(t *testing.T) {
	a := New(nil)
	cfg := withLogo(t, urlConfig("https://exon.dev"), style.PaddingMinimal)
	h, err := a.Create(cfg, &renderer.Buffer{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, a.Update(h, cfg))
	}
	doc, err := h.Tree()
	require.NoError(t, err)
	assert.Equal(t, 1, plates(doc))
	assert.Len(t, doc.FindAll("image"), 1)

	// removing the logo removes the overlay too
	plain, err := cfg.WithLogo(nil)
	require.NoError(t, err)
	require.NoError(t, a.Update(h, plain))
	doc, err = h.Tree()
	require.NoError(t, err)
	assert.Zero(t, plates(doc))
	assert.Nil(t, doc.Find("image"))
}

func TestUpdate_InvalidConfigKeepsPrevious(t *testing.T) {
	a := New(nil)
	cfg := urlConfig("https://exon.dev")
	h, err := a.Create(cfg, &renderer.Buffer{})
	require.NoError(t, err)

	bad := cfg.Clone()
	bad.Style.DisplaySizePx = 0
	assert.Error(t, a.Update(h, bad))

	assert.Equal(t, cfg, h.Config())
	assert.Equal(t, 300, h.Resolution())
}

func TestUpdate_FailedDrawKeepsOverlay(t *testing.T) {
	a := New(nil)
	cfg := withLogo(t, urlConfig("https://exon.dev"), style.PaddingStandard)
	h, err := a.Create(cfg, &renderer.Buffer{})
	require.NoError(t, err)

	// valid configuration, but too much data for any version
	tooLong := cfg.WithContent(content.TypeText, content.Fields{content.FieldValue: strings.Repeat("x", 4000)})
	require.Error(t, a.Update(h, tooLong))
	assert.Equal(t, cfg, h.Config())

	require.NoError(t, h.Resize(600))
	doc, err := h.Tree()
	require.NoError(t, err)
	assert.Equal(t, 1, plates(doc))
	img := doc.Find("image")
	require.NotNil(t, img)
	w, _ := img.Float("width")
	assert.InDelta(t, 120.0, w, 1e-9, "logo is still placed by the compositor")
}

func TestOptions_ErrorCorrectionPassesThrough(t *testing.T) {
	for _, level := range style.ErrorCorrections {
		t.Run(string(level), func(t *testing.T) {
			cfg, err := urlConfig("x").WithStyle(style.WithErrorCorrection(level))
			require.NoError(t, err)
			assert.Equal(t, string(level), Options(cfg).QROptions.ErrorCorrectionLevel)
		})
	}
}

func TestLoaderFailure_NoRenderState(t *testing.T) {
	calls := 0
	a := New(nil, WithLoader(func() (Factory, error) {
		calls++
		return nil, errors.New("module unavailable")
	}))
	var buf renderer.Buffer

	h, err := a.Create(urlConfig("x"), &buf)
	require.Error(t, err)
	require.NotNil(t, h)
	assert.False(t, h.Ready())
	assert.ErrorIs(t, h.Resize(1024), ErrNoRender)
	assert.Zero(t, h.Resolution())
	assert.Zero(t, buf.Renders())

	_, err = a.Create(urlConfig("y"), &buf)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "renderer is loaded once")
}

func TestUpdate_RecoversFromNoRender(t *testing.T) {
	a := New(nil)
	bad := urlConfig("x")
	bad.Style.DisplaySizePx = -1
	var buf renderer.Buffer

	h, err := a.Create(bad, &buf)
	require.Error(t, err)
	assert.False(t, h.Ready())

	require.NoError(t, a.Update(h, urlConfig("x")))
	assert.True(t, h.Ready())
	assert.Equal(t, 1, buf.Renders())
}

func TestResize(t *testing.T) {
	a := New(nil)
	h, err := a.Create(urlConfig("https://exon.dev"), &renderer.Buffer{})
	require.NoError(t, err)

	require.NoError(t, h.Resize(1024))
	assert.Equal(t, 1024, h.Resolution())
	assert.Equal(t, 300, h.Config().Style.DisplaySizePx, "configuration is not touched by resize")
}

func TestDestroy(t *testing.T) {
	a := New(nil)
	var buf renderer.Buffer
	h, err := a.Create(urlConfig("https://exon.dev"), &buf)
	require.NoError(t, err)

	require.NoError(t, a.Destroy(h))
	assert.Empty(t, buf.Bytes())
	assert.False(t, h.Ready())
	assert.NoError(t, a.Destroy(h))
}
