package renderer

import (
	"fmt"
	"math"

	"github.com/cristianadrielbraun/qrforge/internal/svg"
)

// layout is the pixel geometry of one draw.
type layout struct {
	count  int
	dot    float64
	x0, y0 float64
}

func newLayout(opts Options, count int) layout {
	w, h := float64(opts.Width), float64(opts.Height)
	minSize := math.Min(w, h)
	dot := math.Floor(minSize / float64(count))
	if dot < 1 {
		// canvas smaller than the symbol: fall back to fractional modules
		dot = minSize / float64(count)
	}
	side := dot * float64(count)
	return layout{
		count: count,
		dot:   dot,
		x0:    math.Floor((w - side) / 2),
		y0:    math.Floor((h - side) / 2),
	}
}

// imageBox returns the centred image area in module units: the first module
// covered and the number of modules per side. hide is zero when there is no
// image.
func imageBox(opts Options, count int) (start, hide int) {
	if opts.Image == "" || opts.ImageOptions.ImageSize <= 0 {
		return 0, 0
	}
	size := math.Min(opts.ImageOptions.ImageSize, 1)
	hide = int(math.Ceil(float64(count) * size))
	if (count-hide)%2 != 0 {
		hide++
	}
	if hide > count {
		hide = count
	}
	return (count - hide) / 2, hide
}

// draw produces the vector tree for opts and the module grid bm.
func draw(opts Options, bm *bitmap) *svg.Node {
	l := newLayout(opts, bm.size)
	w, h := svg.Num(float64(opts.Width)), svg.Num(float64(opts.Height))

	doc := svg.El("svg",
		svg.A("xmlns", svg.Namespace),
		svg.A("width", w),
		svg.A("height", h),
		svg.A("viewBox", fmt.Sprintf("0 0 %s %s", w, h)),
	)

	if bg := opts.BackgroundOptions.Color; bg != "" && bg != "transparent" {
		doc.Append(svg.El("rect",
			svg.A("x", "0"), svg.A("y", "0"),
			svg.A("width", w), svg.A("height", h),
			svg.A("fill", bg),
		))
	}

	start, hide := imageBox(opts, bm.size)
	hidden := func(x, y int) bool {
		return opts.ImageOptions.HideBackgroundDots && hide > 0 &&
			x >= start && x < start+hide && y >= start && y < start+hide
	}

	dots := svg.El("g", svg.A("class", "dots"), svg.A("fill", opts.DotsOptions.Color))
	for y := 0; y < bm.size; y++ {
		for x := 0; x < bm.size; x++ {
			if !bm.dark(x, y) || bm.finder(x, y) || hidden(x, y) {
				continue
			}
			neighbours := func(dx, dy int) bool {
				nx, ny := x+dx, y+dy
				return bm.dark(nx, ny) && !bm.finder(nx, ny) && !hidden(nx, ny)
			}
			dots.Append(dotShape(opts.DotsOptions.Type, l.x0+float64(x)*l.dot, l.y0+float64(y)*l.dot, l.dot, neighbours))
		}
	}
	doc.Append(dots)

	ring := opts.CornersSquareOptions.Color
	if ring == "" {
		ring = opts.DotsOptions.Color
	}
	center := opts.CornersDotOptions.Color
	if center == "" {
		center = ring
	}
	n := bm.size
	for _, origin := range [][2]int{{0, 0}, {n - 7, 0}, {0, n - 7}} {
		x := l.x0 + float64(origin[0])*l.dot
		y := l.y0 + float64(origin[1])*l.dot
		doc.Append(cornerSquare(opts.CornersSquareOptions.Type, x, y, l.dot, ring))
		doc.Append(cornerDot(opts.CornersDotOptions.Type, x, y, l.dot, center))
	}

	if hide > 0 {
		margin := float64(opts.ImageOptions.Margin)
		side := float64(hide)*l.dot - 2*margin
		if side > 0 {
			doc.Append(svg.El("image",
				svg.A("href", opts.Image),
				svg.A("x", svg.Num(l.x0+float64(start)*l.dot+margin)),
				svg.A("y", svg.Num(l.y0+float64(start)*l.dot+margin)),
				svg.A("width", svg.Num(side)),
				svg.A("height", svg.Num(side)),
				svg.A("preserveAspectRatio", "xMidYMid meet"),
			))
		}
	}
	return doc
}

func rect(x, y, w, h, r float64) *svg.Node {
	n := svg.El("rect",
		svg.A("x", svg.Num(x)), svg.A("y", svg.Num(y)),
		svg.A("width", svg.Num(w)), svg.A("height", svg.Num(h)),
	)
	if r > 0 {
		n.Set("rx", svg.Num(r))
		n.Set("ry", svg.Num(r))
	}
	return n
}

func circle(cx, cy, r float64) *svg.Node {
	return svg.El("circle", svg.A("cx", svg.Num(cx)), svg.A("cy", svg.Num(cy)), svg.A("r", svg.Num(r)))
}

// leaf draws a module with its top-left and bottom-right corners rounded by r.
func leaf(x, y, s, r float64) *svg.Node {
	d := fmt.Sprintf("M %s %s V %s A %s %s 0 0 1 %s %s H %s V %s A %s %s 0 0 1 %s %s Z",
		svg.Num(x), svg.Num(y+s),
		svg.Num(y+r),
		svg.Num(r), svg.Num(r), svg.Num(x+r), svg.Num(y),
		svg.Num(x+s),
		svg.Num(y+s-r),
		svg.Num(r), svg.Num(r), svg.Num(x+s-r), svg.Num(y+s),
	)
	return svg.El("path", svg.A("d", d))
}

func dotShape(t DotType, x, y, s float64, neighbour func(dx, dy int) bool) *svg.Node {
	isolated := !neighbour(-1, 0) && !neighbour(1, 0) && !neighbour(0, -1) && !neighbour(0, 1)
	switch t {
	case DotDots:
		return circle(x+s/2, y+s/2, s/2)
	case DotRounded:
		if isolated {
			return circle(x+s/2, y+s/2, s/2)
		}
		return rect(x, y, s, s, s*0.25)
	case DotExtraRounded:
		return rect(x, y, s, s, s*0.45)
	case DotClassy:
		if isolated {
			return leaf(x, y, s, s/2)
		}
		return rect(x, y, s, s, 0)
	case DotClassyRounded:
		return leaf(x, y, s, s*0.35)
	default:
		return rect(x, y, s, s, 0)
	}
}

// cornerSquare draws the 7x7 ring as a stroke centred half a module inside
// the pattern edge.
func cornerSquare(t CornerSquareType, x, y, s float64, color string) *svg.Node {
	var n *svg.Node
	switch t {
	case CornerSquareDot:
		n = circle(x+3.5*s, y+3.5*s, 3*s)
	case CornerSquareExtraRounded:
		n = rect(x+s/2, y+s/2, 6*s, 6*s, 2.5*s)
	default:
		n = rect(x+s/2, y+s/2, 6*s, 6*s, 0)
	}
	n.Set("class", "corner-square")
	n.Set("fill", "none")
	n.Set("stroke", color)
	n.Set("stroke-width", svg.Num(s))
	return n
}

func cornerDot(t CornerDotType, x, y, s float64, color string) *svg.Node {
	var n *svg.Node
	switch t {
	case CornerDotDot:
		n = circle(x+3.5*s, y+3.5*s, 1.5*s)
	default:
		n = rect(x+2*s, y+2*s, 3*s, 3*s, 0)
	}
	n.Set("class", "corner-dot")
	n.Set("fill", color)
	return n
}
