package model

import (
	"testing"

	"github.com/cristianadrielbraun/qrforge/internal/content"
	"github.com/cristianadrielbraun/qrforge/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestRenderData_Fallback(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "", cfg.Payload())
	assert.Equal(t, FallbackData, cfg.RenderData())

	cfg = cfg.WithContent(content.TypeEmail, content.Fields{content.FieldValue: "a@b.com"})
	assert.Equal(t, "mailto:a@b.com", cfg.RenderData())
}

func TestWithContent_DoesNotShareFields(t *testing.T) {
	fields := content.Fields{content.FieldValue: "one"}
	cfg := Default().WithContent(content.TypeText, fields)
	fields[content.FieldValue] = "two"
	assert.Equal(t, "one", cfg.Payload())
}

func TestWithStyle(t *testing.T) {
	base := Default()
	next, err := base.WithStyle(style.WithPattern(style.PatternDots))
	require.NoError(t, err)
	assert.Equal(t, style.PatternDots, next.Style.Pattern)
	assert.Equal(t, style.PatternSquare, base.Style.Pattern)

	_, err = base.WithStyle(style.WithDisplaySize(0))
	assert.ErrorIs(t, err, style.ErrDisplaySize)
}

func TestWithLogo(t *testing.T) {
	logo := style.DefaultLogo()
	logo.ImageData = "data:image/png;base64,AAAA"

	cfg, err := Default().WithLogo(&logo)
	require.NoError(t, err)
	logo.SizeCoefficient = 0.5

	active, ok := cfg.ActiveLogo()
	require.True(t, ok)
	assert.Equal(t, style.DefaultLogoSize, active.SizeCoefficient)

	cfg, err = cfg.WithLogo(nil)
	require.NoError(t, err)
	_, ok = cfg.ActiveLogo()
	assert.False(t, ok)

	bad := style.DefaultLogo()
	bad.SizeCoefficient = 2
	_, err = Default().WithLogo(&bad)
	assert.ErrorIs(t, err, style.ErrLogoSize)
}

func TestActiveLogo_WithoutImage(t *testing.T) {
	logo := style.DefaultLogo()
	cfg, err := Default().WithLogo(&logo)
	require.NoError(t, err)
	_, ok := cfg.ActiveLogo()
	assert.False(t, ok)
}

func TestClone_IsDeep(t *testing.T) {
	logo := style.DefaultLogo()
	cfg := Default()
	cfg.Logo = &logo
	clone := cfg.Clone()
	clone.Logo.SizeCoefficient = 0.4
	clone.Fields[content.FieldValue] = "changed"
	assert.Equal(t, style.DefaultLogoSize, cfg.Logo.SizeCoefficient)
	assert.Equal(t, "", cfg.Fields[content.FieldValue])
}
