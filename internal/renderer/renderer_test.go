package renderer

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianadrielbraun/qrforge/internal/svg"
)

func testOptions(data string) Options {
	o := DefaultOptions()
	o.Data = data
	return o
}

// scan decodes the barcode in a PNG/JPEG after adding a white quiet zone.
func scan(t *testing.T, raw []byte) string {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	b := img.Bounds()
	framed := imaging.PasteCenter(imaging.New(b.Dx()+80, b.Dy()+80, color.White), img)

	bmp, err := gozxing.NewBinaryBitmapFromImage(framed)
	require.NoError(t, err)
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"svg": FormatSVG, "PNG": FormatPNG, "jpeg": FormatJPEG, "jpg": FormatJPEG} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("gif")
	assert.ErrorIs(t, err, ErrFormat)

	assert.Equal(t, ".jpg", FormatJPEG.Ext())
	assert.Equal(t, "image/svg+xml", FormatSVG.ContentType())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(testOptions(""), nil)
	assert.ErrorIs(t, err, ErrNoData)

	o := testOptions("x")
	o.Width = 0
	_, err = New(o, nil)
	assert.ErrorIs(t, err, ErrSize)
}

func TestDraw_Structure(t *testing.T) {
	inst, err := New(testOptions("hello"), nil)
	require.NoError(t, err)
	doc := inst.Tree()

	assert.Equal(t, "svg", doc.Tag)
	w, _ := doc.Get("width")
	assert.Equal(t, "300", w)

	bg := doc.Children[0]
	assert.Equal(t, "rect", bg.Tag)
	fill, _ := bg.Get("fill")
	assert.Equal(t, "#fff", fill)

	dots := doc.Children[1]
	assert.Equal(t, "g", dots.Tag)
	assert.NotEmpty(t, dots.Children)

	var rings, centres int
	doc.Walk(func(n *svg.Node) bool {
		switch class, _ := n.Get("class"); class {
		case "corner-square":
			rings++
		case "corner-dot":
			centres++
		}
		return true
	})
	assert.Equal(t, 3, rings)
	assert.Equal(t, 3, centres)
	assert.Nil(t, doc.Find("image"))
}

func TestDraw_TransparentBackgroundHasNoRect(t *testing.T) {
	o := testOptions("hello")
	o.BackgroundOptions.Color = "transparent"
	inst, err := New(o, nil)
	require.NoError(t, err)
	assert.Equal(t, "g", inst.Tree().Children[0].Tag)
}

func TestDraw_HideBackgroundDots(t *testing.T) {
	o := testOptions("https://qrcreator.link/some/longer/path")
	o.Image = "data:image/png;base64,AAAA"
	o.ImageOptions.ImageSize = 0.3

	o.ImageOptions.HideBackgroundDots = false
	shown, err := New(o, nil)
	require.NoError(t, err)

	o.ImageOptions.HideBackgroundDots = true
	hidden, err := New(o, nil)
	require.NoError(t, err)

	assert.Less(t, len(hidden.Tree().Children[1].Children), len(shown.Tree().Children[1].Children))
	require.NotNil(t, hidden.Tree().Find("image"))
}

func TestDotShapes(t *testing.T) {
	for _, typ := range []DotType{DotSquare, DotDots, DotRounded, DotClassy, DotClassyRounded, DotExtraRounded} {
		t.Run(string(typ), func(t *testing.T) {
			o := testOptions("shapes")
			o.DotsOptions.Type = typ
			inst, err := New(o, nil)
			require.NoError(t, err)
			assert.NotEmpty(t, inst.Tree().Children[1].Children)
		})
	}
}

func TestUpdate_PartialKeepsOthers(t *testing.T) {
	o := testOptions("hello")
	o.DotsOptions.Color = "#123456"
	inst, err := New(o, nil)
	require.NoError(t, err)

	require.NoError(t, inst.Update(WithSize(1200, 1200)))

	got := inst.Options()
	assert.Equal(t, 1200, got.Width)
	assert.Equal(t, "#123456", got.DotsOptions.Color)
	assert.Equal(t, "hello", got.Data)
}

func TestUpdate_InvalidKeepsPrevious(t *testing.T) {
	inst, err := New(testOptions("hello"), nil)
	require.NoError(t, err)
	before := inst.Tree()

	assert.Error(t, inst.Update(WithSize(-1, 300)))
	assert.Equal(t, 300, inst.Width())
	assert.Equal(t, before, inst.Tree())
}

func TestExtension_RunsOnFreshTree(t *testing.T) {
	inst, err := New(testOptions("hello"), nil)
	require.NoError(t, err)

	marker := func(doc *svg.Node, _ Options) {
		doc.Append(svg.El("desc"))
	}
	require.NoError(t, inst.ApplyExtension(marker))
	require.NoError(t, inst.Update(WithSize(400, 400)))
	require.NoError(t, inst.Update(WithData("world")))

	assert.Len(t, inst.Tree().FindAll("desc"), 1)

	inst.DeleteExtension()
	require.NoError(t, inst.Update(WithSize(300, 300)))
	assert.Empty(t, inst.Tree().FindAll("desc"))
}

func TestMount_ReplacesContents(t *testing.T) {
	inst, err := New(testOptions("hello"), nil)
	require.NoError(t, err)

	var buf Buffer
	require.NoError(t, inst.Mount(&buf))
	assert.Equal(t, 1, buf.Renders())
	assert.True(t, strings.HasPrefix(string(buf.Bytes()), "<?xml"))

	require.NoError(t, inst.Update(WithSize(500, 500)))
	assert.Equal(t, 2, buf.Renders())
	assert.Contains(t, string(buf.Bytes()), `width="500"`)

	require.NoError(t, inst.Unmount())
	assert.Empty(t, buf.Bytes())
}

func TestEncode_PNGScansBack(t *testing.T) {
	for _, typ := range []DotType{DotSquare, DotRounded} {
		t.Run(string(typ), func(t *testing.T) {
			o := testOptions("https://qrcreator.link")
			o.DotsOptions.Type = typ
			inst, err := New(o, nil)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, inst.Encode(&buf, FormatPNG))
			assert.Equal(t, "https://qrcreator.link", scan(t, buf.Bytes()))
		})
	}
}

func TestEncode_JPEGFlattensTransparent(t *testing.T) {
	o := testOptions("hello")
	o.Width, o.Height = 400, 310
	o.BackgroundOptions.Color = "transparent"
	inst, err := New(o, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, inst.Encode(&buf, FormatJPEG))
	img, err := imaging.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	r, g, b, _ := img.At(10, 150).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
	assert.Equal(t, "hello", scan(t, buf.Bytes()))
}

func redLogo(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(16, 16, color.NRGBA{R: 255, A: 255}), imaging.PNG))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestEncode_PNGDrawsLogo(t *testing.T) {
	o := testOptions("https://qrcreator.link")
	o.QROptions.ErrorCorrectionLevel = "H"
	o.Image = redLogo(t)
	o.ImageOptions.ImageSize = 0.2
	inst, err := New(o, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, inst.Encode(&buf, FormatPNG))
	img, err := imaging.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	r, g, b, _ := img.At(150, 150).RGBA()
	assert.Greater(t, r>>8, uint32(200))
	assert.Less(t, g>>8, uint32(60))
	assert.Less(t, b>>8, uint32(60))
}

func TestEncode_UndecodableLogoIsSkipped(t *testing.T) {
	o := testOptions("hello")
	o.Image = "https://example.com/logo.png"
	inst, err := New(o, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, inst.Encode(&buf, FormatPNG))
	assert.NotZero(t, buf.Len())
}

func TestDownload(t *testing.T) {
	inst, err := New(testOptions("hello"), nil)
	require.NoError(t, err)
	assert.ErrorIs(t, inst.Download(FormatSVG, "qr"), ErrNoSaver)

	var name, ctype string
	var data []byte
	inst.SetSaver(SaverFunc(func(filename, contentType string, b []byte) error {
		name, ctype, data = filename, contentType, b
		return nil
	}))

	require.NoError(t, inst.Download(FormatSVG, "qr-code"))
	assert.Equal(t, "qr-code.svg", name)
	assert.Equal(t, "image/svg+xml", ctype)
	assert.Contains(t, string(data), "<svg")
}

func TestDirSaver(t *testing.T) {
	dir := t.TempDir()
	inst, err := New(testOptions("hello"), nil)
	require.NoError(t, err)
	inst.SetSaver(DirSaver{Dir: dir})

	require.NoError(t, inst.Download(FormatPNG, "out"))
	img, err := imaging.Open(dir + "/out.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 300, 300), img.Bounds())
}

func TestParseColor(t *testing.T) {
	def := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}},
		{"#0f0", color.NRGBA{G: 255, A: 255}},
		{"#00000080", color.NRGBA{A: 128}},
		{"rgba(255, 255, 255, 0.5)", color.NRGBA{R: 255, G: 255, B: 255, A: 128}},
		{"rgb(1,2,3)", color.NRGBA{R: 1, G: 2, B: 3, A: 255}},
		{"white", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"transparent", color.NRGBA{}},
		{"", def},
		{"#12", def},
		{"hsl(0, 0%, 0%)", def},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseColor(tt.in, def))
		})
	}
}

func TestRasterTree_NormalisesPaints(t *testing.T) {
	doc := svg.El("svg").Append(
		svg.El("rect", svg.A("fill", "rgba(255, 255, 255, 0.5)")),
		svg.El("rect", svg.A("fill", "transparent")),
		svg.El("image", svg.A("href", "data:,x")),
	)
	out, images := rasterTree(doc)

	require.Len(t, out.Children, 2)
	require.Len(t, images, 1)
	fill, _ := out.Children[0].Get("fill")
	op, _ := out.Children[0].Float("fill-opacity")
	assert.Equal(t, "#ffffff", fill)
	assert.InDelta(t, 0.5, op, 0.01)
	none, _ := out.Children[1].Get("fill")
	assert.Equal(t, "none", none)
	assert.Len(t, doc.Children, 3, "input tree is untouched")
}
