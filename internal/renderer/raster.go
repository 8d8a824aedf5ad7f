package renderer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"

	"github.com/cristianadrielbraun/qrforge/internal/svg"
)

// JPEGQuality is the quality used for every JPEG export.
const JPEGQuality = 92

// parseColor reads a CSS colour: hex (#rgb, #rrggbb, #rrggbbaa), rgb(),
// rgba(), a named colour or "transparent". Anything else yields def.
func parseColor(param string, def color.NRGBA) color.NRGBA {
	s := strings.ToLower(strings.TrimSpace(param))
	if s == "" {
		return def
	}
	if s == "transparent" || s == "none" {
		return color.NRGBA{}
	}

	if strings.HasPrefix(s, "#") {
		h := s[1:]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		if len(h) == 6 {
			h += "ff"
		}
		if len(h) != 8 {
			return def
		}
		v, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return def
		}
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	}

	if strings.HasPrefix(s, "rgb") {
		open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
		if open < 0 || end < open {
			return def
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return def
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil {
				return def
			}
			ch[i] = uint8(math.Max(0, math.Min(255, math.Round(v))))
		}
		alpha := 1.0
		if len(parts) == 4 {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil {
				return def
			}
			alpha = math.Max(0, math.Min(1, v))
		}
		return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: uint8(math.Round(alpha * 255))}
	}

	if named, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}
	}
	return def
}

// rasterTree rewrites doc into the subset oksvg understands: paints become
// opaque hex plus an opacity attribute and image primitives are detached.
// The detached images are returned in paint order.
func rasterTree(doc *svg.Node) (*svg.Node, []*svg.Node) {
	out := doc.Clone()
	var images []*svg.Node
	out.Walk(func(n *svg.Node) bool {
		for _, paint := range []string{"fill", "stroke"} {
			v, ok := n.Get(paint)
			if !ok || v == "none" {
				continue
			}
			c := parseColor(v, color.NRGBA{A: 255})
			if c.A == 0 {
				n.Set(paint, "none")
				continue
			}
			n.Set(paint, fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
			if c.A < 255 {
				n.Set(paint+"-opacity", svg.Num(float64(c.A)/255))
			}
		}
		if n.Tag == "image" {
			images = append(images, n)
		}
		return true
	})
	for _, img := range images {
		out.Remove(img)
	}
	return out, images
}

// rasterize draws doc onto a width x height canvas. Logos are decoded from
// their data URIs and composited with imaging; a logo that cannot be
// decoded is skipped and reported through skipped.
func rasterize(doc *svg.Node, width, height int, skipped func(error)) (*image.NRGBA, error) {
	vector, images := rasterTree(doc)

	icon, err := oksvg.ReadIconStream(bytes.NewReader(vector.Bytes()), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vector tree: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, canvas, canvas.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	out := imaging.Clone(canvas)
	for _, n := range images {
		x, _ := n.Float("x")
		y, _ := n.Float("y")
		w, _ := n.Float("width")
		h, _ := n.Float("height")
		side := int(math.Round(math.Min(w, h)))
		if side <= 0 {
			continue
		}
		href, _ := n.Get("href")
		logo, err := decodeImage(href, side)
		if err != nil {
			if skipped != nil {
				skipped(err)
			}
			continue
		}
		logo = fitInto(logo, w, h)
		// centre inside the box like preserveAspectRatio xMidYMid meet
		b := logo.Bounds()
		px := int(math.Round(x + (w-float64(b.Dx()))/2))
		py := int(math.Round(y + (h-float64(b.Dy()))/2))
		out = imaging.Overlay(out, logo, image.Pt(px, py), 1.0)
	}
	return out, nil
}

// fitInto scales img up or down to the largest size that fits w x h while
// keeping its aspect ratio.
func fitInto(img image.Image, w, h float64) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return imaging.Clone(img)
	}
	scale := math.Min(w/float64(b.Dx()), h/float64(b.Dy()))
	nw := int(math.Max(1, math.Round(float64(b.Dx())*scale)))
	nh := int(math.Max(1, math.Round(float64(b.Dy())*scale)))
	return imaging.Resize(img, nw, nh, imaging.Lanczos)
}

// decodeImage reads a data URI. SVG payloads are rasterised at side pixels.
func decodeImage(href string, side int) (image.Image, error) {
	if !strings.HasPrefix(href, "data:") {
		return nil, fmt.Errorf("unsupported image reference %.32q", href)
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(href, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}

	var raw []byte
	if strings.HasSuffix(meta, ";base64") {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}
		raw = b
		meta = strings.TrimSuffix(meta, ";base64")
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}
		raw = []byte(s)
	}

	if strings.HasPrefix(meta, "image/svg+xml") {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(raw), oksvg.IgnoreErrorMode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse svg image: %w", err)
		}
		icon.SetTarget(0, 0, float64(side), float64(side))
		dst := image.NewRGBA(image.Rect(0, 0, side, side))
		scanner := rasterx.NewScannerGV(side, side, dst, dst.Bounds())
		icon.Draw(rasterx.NewDasher(side, side, scanner), 1.0)
		return dst, nil
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// writePNG encodes img as PNG.
func writePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// writeJPEG flattens img onto bg, white when bg is transparent, and encodes
// it as JPEG.
func writeJPEG(w io.Writer, img image.Image, bg string) error {
	fill := parseColor(bg, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	if fill.A == 0 {
		fill = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	fill.A = 255
	b := img.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), fill)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
	if err := imaging.Encode(w, flat, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return nil
}
