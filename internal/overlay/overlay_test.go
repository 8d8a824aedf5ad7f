package overlay

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrforge/internal/logger"
	"github.com/cristianadrielbraun/qrforge/internal/style"
	"github.com/cristianadrielbraun/qrforge/internal/svg"
)

func TestResolvePadding(t *testing.T) {
	tests := []struct {
		preset style.PaddingPreset
		want   Padding
	}{
		{style.PaddingNone, Padding{MarginPx: 0, PlateColor: style.NoFill, PlateSizeCoefficient: 0.22}},
		{style.PaddingMinimal, Padding{MarginPx: 2, PlateColor: "white", PlateSizeCoefficient: 0.23}},
		{style.PaddingStandard, Padding{MarginPx: 5, PlateColor: "white", PlateSizeCoefficient: 0.25}},
		{"unknown", Padding{MarginPx: 0, PlateColor: style.NoFill, PlateSizeCoefficient: 0.22}},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePadding(tt.preset))
		})
	}
}

func TestPlateFill(t *testing.T) {
	tests := []struct {
		name    string
		color   style.Color
		opacity float64
		want    string
	}{
		{"hex", "#ff8000", 0.9, "rgba(255, 128, 0, 0.9)"},
		{"short hex", "#fff", 0.5, "rgba(255, 255, 255, 0.5)"},
		{"rgb", "rgb(1,2,3)", 0.9, "rgba(1,2,3, 0.9)"},
		{"named", "white", 0.9, "rgba(255, 255, 255, 0.9)"},
		{"opaque keeps colour", "#ff8000", 1, "#ff8000"},
		{"unknown kept", "hsl(0,0%,0%)", 0.9, "hsl(0,0%,0%)"},
		{"bad hex kept", "#zzzzzz", 0.9, "#zzzzzz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlateFill(tt.color, tt.opacity))
		})
	}
}

func TestCompute_Center(t *testing.T) {
	logo := style.DefaultLogo()
	logo.PaddingPreset = style.PaddingStandard

	got := Compute(300, 300, logo)

	assert.Equal(t, 150.0, got.AnchorX)
	assert.Equal(t, 150.0, got.AnchorY)
	assert.InDelta(t, 120.0, got.Image.X, 1e-9)
	assert.InDelta(t, 60.0, got.Image.Width, 1e-9)
	require.NotNil(t, got.Plate)
	assert.InDelta(t, 75.0, got.Plate.Width, 1e-9)
	assert.InDelta(t, 112.5, got.Plate.X, 1e-9)
	assert.InDelta(t, 7.5, got.Plate.Radius, 1e-9)
	assert.Equal(t, "rgba(255, 255, 255, 0.9)", got.Plate.Fill)
}

func TestCompute_NonSquareUsesShortSide(t *testing.T) {
	logo := style.DefaultLogo()
	logo.Position = style.PositionRight

	got := Compute(400, 200, logo)

	assert.Equal(t, 320.0, got.AnchorX)
	assert.Equal(t, 100.0, got.AnchorY)
	assert.InDelta(t, 40.0, got.Image.Width, 1e-9)
	assert.Nil(t, got.Plate, "none preset draws no plate")
}

func freshTree() *svg.Node {
	return svg.El("svg", svg.A("width", "300"), svg.A("height", "300")).Append(
		svg.El("rect", svg.A("width", "300"), svg.A("height", "300"), svg.A("fill", "#fff")),
		svg.El("g", svg.A("class", "dots")).Append(
			svg.El("rect", svg.A("x", "0"), svg.A("y", "0"), svg.A("width", "9"), svg.A("height", "9")),
		),
		svg.El("image", svg.A("href", "data:image/png;base64,AAAA"), svg.A("x", "100"), svg.A("y", "100"),
			svg.A("width", "100"), svg.A("height", "100")),
	)
}

func TestApply_InsertsPlateBeforeImage(t *testing.T) {
	doc := freshTree()
	before := doc.Clone()
	logo := style.DefaultLogo()
	logo.PaddingPreset = style.PaddingMinimal

	ok := New(logger.Nop()).Apply(doc, 300, 300, logo)
	require.True(t, ok)

	require.Len(t, doc.Children, 4)
	plate := doc.Children[2]
	img := doc.Children[3]
	assert.Equal(t, "rect", plate.Tag)
	assert.Equal(t, "image", img.Tag)

	fill, _ := plate.Get("fill")
	assert.Equal(t, "rgba(255, 255, 255, 0.9)", fill)
	w, _ := plate.Float("width")
	assert.InDelta(t, 69.0, w, 1e-9)

	x, _ := img.Float("x")
	size, _ := img.Float("width")
	h, _ := img.Float("height")
	assert.InDelta(t, 120.0, x, 1e-9)
	assert.InDelta(t, 60.0, size, 1e-9)
	assert.Equal(t, size, h)

	// structural cells are untouched
	assert.Equal(t, before.Children[0], doc.Children[0])
	assert.Equal(t, before.Children[1], doc.Children[1])
}

func TestApply_TransparentPlateSkipsRect(t *testing.T) {
	doc := freshTree()
	require.True(t, New(nil).Apply(doc, 300, 300, style.DefaultLogo()))
	assert.Len(t, doc.Children, 3)
	assert.Len(t, doc.FindAll("rect"), 2)
}

func TestApply_NoImageIsLoggedNoop(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "test", "debug")
	doc := svg.El("svg").Append(svg.El("rect"))
	before := doc.Clone()

	ok := New(log).Apply(doc, 300, 300, style.DefaultLogo())

	assert.False(t, ok)
	assert.Equal(t, before, doc)
	assert.Contains(t, buf.String(), "no image primitive")
}

func TestApply_TwiceOnOwnOutputAddsSecondPlate(t *testing.T) {
	doc := freshTree()
	logo := style.DefaultLogo()
	logo.PaddingPreset = style.PaddingStandard
	c := New(nil)

	c.Apply(doc, 300, 300, logo)
	c.Apply(doc, 300, 300, logo)

	// reapplying is unsupported; callers must start from a fresh render
	assert.Len(t, doc.FindAll("rect"), 4)
}

func TestCompute_ImageInsideCanvas(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("centred image box is contained in the canvas", prop.ForAll(
		func(w, h int, size float64) bool {
			logo := style.DefaultLogo()
			logo.SizeCoefficient = size
			box := Compute(float64(w), float64(h), logo).Image
			return box.Within(float64(w), float64(h))
		},
		gen.IntRange(1, 5000),
		gen.IntRange(1, 5000),
		gen.Float64Range(0.001, 0.999),
	))

	properties.TestingRun(t)
}
