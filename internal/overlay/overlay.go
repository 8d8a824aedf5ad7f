// Package overlay places a logo and its background plate on a rendered
// barcode tree. It must always run against a fresh render: applying it to
// its own output inserts a second plate.
package overlay

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/cristianadrielbraun/qrforge/internal/logger"
	"github.com/cristianadrielbraun/qrforge/internal/style"
	"github.com/cristianadrielbraun/qrforge/internal/svg"
)

// Rect is an axis-aligned box in canvas pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Within reports whether r lies inside [0,w] x [0,h], allowing for float
// rounding.
func (r Rect) Within(w, h float64) bool {
	const eps = 1e-9
	return r.X >= -eps && r.Y >= -eps && r.X+r.Width <= w+eps && r.Y+r.Height <= h+eps
}

// Plate is the rectangle drawn under the logo.
type Plate struct {
	Rect
	Radius float64
	Fill   string
}

// Layout is the computed placement for one canvas size and logo.
type Layout struct {
	AnchorX, AnchorY float64
	Image            Rect
	// Plate is nil when the preset asks for a transparent plate.
	Plate *Plate
}

// Compute derives the logo and plate geometry for a width x height canvas.
func Compute(width, height float64, logo style.Logo) Layout {
	pad := ResolvePadding(logo.PaddingPreset)
	px, py := logo.Position.Anchor()
	ax, ay := width*px, height*py

	side := math.Min(width, height)
	imageSide := side * logo.SizeCoefficient
	plateSide := side * pad.PlateSizeCoefficient

	out := Layout{
		AnchorX: ax,
		AnchorY: ay,
		Image:   Rect{X: ax - imageSide/2, Y: ay - imageSide/2, Width: imageSide, Height: imageSide},
	}
	if !pad.PlateColor.IsNoFill() {
		out.Plate = &Plate{
			Rect:   Rect{X: ax - plateSide/2, Y: ay - plateSide/2, Width: plateSide, Height: plateSide},
			Radius: plateSide * logo.BorderRadiusCoefficient,
			Fill:   PlateFill(pad.PlateColor, logo.OpacityCoefficient),
		}
	}
	return out
}

// PlateFill folds opacity into c. Hex, rgb() and named colours become
// rgba(); anything else is returned unchanged. Opacity of 1 or more keeps c.
func PlateFill(c style.Color, opacity float64) string {
	s := strings.TrimSpace(string(c))
	if opacity >= 1 {
		return s
	}
	alpha := svg.Num(opacity)
	switch {
	case strings.HasPrefix(s, "#"):
		r, g, b, ok := parseHex(s)
		if !ok {
			return s
		}
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, alpha)
	case strings.HasPrefix(s, "rgb("):
		return "rgba(" + strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")") + ", " + alpha + ")"
	}
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", named.R, named.G, named.B, alpha)
	}
	return s
}

func parseHex(s string) (r, g, b uint8, ok bool) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// Compositor applies Layout to rendered trees.
type Compositor struct {
	log *logger.Logger
}

// New returns a Compositor that reports skipped overlays to log.
func New(log *logger.Logger) *Compositor {
	if log == nil {
		log = logger.Nop()
	}
	return &Compositor{log: log}
}

// Apply inserts the plate before the first image primitive of doc and moves
// and resizes that image. Every other primitive is left alone. It returns
// false, after logging, when doc holds no image.
func (c *Compositor) Apply(doc *svg.Node, width, height float64, logo style.Logo) bool {
	img := doc.Find("image")
	if img == nil {
		c.log.Warn().
			Float64("width", width).
			Float64("height", height).
			Msg("logo overlay skipped: render has no image primitive")
		return false
	}

	layout := Compute(width, height, logo)
	if p := layout.Plate; p != nil {
		plate := svg.El("rect",
			svg.A("fill", p.Fill),
			svg.A("x", svg.Num(p.X)),
			svg.A("y", svg.Num(p.Y)),
			svg.A("width", svg.Num(p.Width)),
			svg.A("height", svg.Num(p.Height)),
			svg.A("rx", svg.Num(p.Radius)),
			svg.A("ry", svg.Num(p.Radius)),
		)
		if !doc.InsertBefore(img, plate) {
			// img is doc itself; nothing can sit under it
			c.log.Warn().Msg("logo plate skipped: image primitive has no parent")
		}
	}

	img.Set("x", svg.Num(layout.Image.X))
	img.Set("y", svg.Num(layout.Image.Y))
	img.Set("width", svg.Num(layout.Image.Width))
	img.Set("height", svg.Num(layout.Image.Height))
	return true
}
