package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrforge/internal/style"
)

func TestToast(t *testing.T) {
	var buf bytes.Buffer
	err := Toast(ToastProps{
		Title:       "Copied <link>",
		Variant:     ParseVariant("destructive"),
		Position:    PositionBottomRight,
		Duration:    2000,
		Dismissible: true,
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Copied &lt;link&gt;")
	assert.Contains(t, out, `data-variant="error"`)
	assert.Contains(t, out, "bottom-4 right-4")
	assert.Contains(t, out, "aria-label=\"Close\"")
}

func TestParseVariant(t *testing.T) {
	assert.Equal(t, VariantWarning, ParseVariant("warning"))
	assert.Equal(t, VariantSuccess, ParseVariant(""))
}

func TestPreview(t *testing.T) {
	cfg := style.Default()
	cfg.BackgroundPaddingPx = 12
	cfg.BackgroundBorderRadiusPx = 8

	var buf bytes.Buffer
	err := Preview(PreviewProps{
		ID:    "qr",
		Style: cfg,
		SVG:   []byte(`<?xml version="1.0" encoding="UTF-8"?><svg/>`),
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "padding:12px;border-radius:8px;background:transparent")
	assert.Contains(t, out, "<svg/>")
	assert.NotContains(t, out, "<?xml")
}

func TestPreview_Placeholder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Preview(PreviewProps{Style: style.Default()}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Preview unavailable")
}
