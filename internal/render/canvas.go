// Package render draws simulation state onto a software RGBA canvas.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"ionfield/internal/palette"
)

// Canvas is a premultiplied RGBA surface addressed in logical units. Scale
// maps logical units onto backing pixels.
type Canvas struct {
	img   *image.RGBA
	scale float64
	ras   *vector.Rasterizer
	src   *image.Uniform
}

// NewCanvas allocates a w×h pixel canvas.
func NewCanvas(w, h int, scale float64) *Canvas {
	c := &Canvas{ras: vector.NewRasterizer(1, 1), src: image.NewUniform(color.Transparent)}
	c.ras.DrawOp = draw.Over
	c.Resize(w, h, scale)
	return c
}

// Resize reallocates the backing image. Contents are discarded.
func (c *Canvas) Resize(w, h int, scale float64) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if !(scale > 0) {
		scale = 1
	}
	c.scale = scale
	if c.img != nil && c.img.Rect.Dx() == w && c.img.Rect.Dy() == h {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Pixels returns the raw premultiplied RGBA bytes.
func (c *Canvas) Pixels() []byte { return c.img.Pix }

// Scale returns the logical-to-pixel factor.
func (c *Canvas) Scale() float64 { return c.scale }

// Size returns the pixel dimensions.
func (c *Canvas) Size() (int, int) { return c.img.Rect.Dx(), c.img.Rect.Dy() }

// Clear fills the canvas with col.
func (c *Canvas) Clear(col palette.RGBA) {
	fillRGBA(c.img.Pix, premul(col))
}

// Fade paints col over the whole canvas at opacity alpha.
func (c *Canvas) Fade(col palette.RGBA, alpha float64) {
	fadeRGBA(c.img.Pix, premul(col.WithAlpha(1)), alpha)
}

func premul(col palette.RGBA) color.RGBA {
	r, g, b, a := col.NRGBA().RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// box returns the pixel rectangle covering [x0,x1]×[y0,y1] in pixel space,
// clipped to the canvas.
func (c *Canvas) box(x0, y0, x1, y1 float64) image.Rectangle {
	r := image.Rect(
		int(math.Floor(x0))-1, int(math.Floor(y0))-1,
		int(math.Ceil(x1))+1, int(math.Ceil(y1))+1,
	)
	return r.Intersect(c.img.Rect)
}

// fill rasterizes the path built by trace into box b with colour col.
func (c *Canvas) fill(b image.Rectangle, col palette.RGBA, trace func(z *vector.Rasterizer, ox, oy float32)) {
	if b.Empty() || col.A <= 0 {
		return
	}
	c.ras.Reset(b.Dx(), b.Dy())
	c.ras.DrawOp = draw.Over
	trace(c.ras, float32(b.Min.X), float32(b.Min.Y))
	c.src.C = col.NRGBA()
	c.ras.Draw(c.img, b, c.src, image.Point{})
}

// FillCircle draws a solid disc.
func (c *Canvas) FillCircle(x, y, radius float64, col palette.RGBA) {
	s := c.scale
	px, py, r := x*s, y*s, radius*s
	if !(r > 0) || math.IsNaN(px) || math.IsNaN(py) {
		return
	}
	if r < 0.6 {
		r = 0.6
	}
	const k = 0.5523
	c.fill(c.box(px-r, py-r, px+r, py+r), col, func(z *vector.Rasterizer, ox, oy float32) {
		cx, cy, rr := float32(px)-ox, float32(py)-oy, float32(r)
		kr := float32(k) * rr
		z.MoveTo(cx+rr, cy)
		z.CubeTo(cx+rr, cy+kr, cx+kr, cy+rr, cx, cy+rr)
		z.CubeTo(cx-kr, cy+rr, cx-rr, cy+kr, cx-rr, cy)
		z.CubeTo(cx-rr, cy-kr, cx-kr, cy-rr, cx, cy-rr)
		z.CubeTo(cx+kr, cy-rr, cx+rr, cy-kr, cx+rr, cy)
		z.ClosePath()
	})
}

// Glow draws a radial gradient from col at the centre to transparent at radius.
func (c *Canvas) Glow(x, y, radius float64, col palette.RGBA) {
	s := c.scale
	px, py, r := x*s, y*s, radius*s
	if !(r > 0) || col.A <= 0 || math.IsNaN(px) || math.IsNaN(py) {
		return
	}
	b := c.box(px-r, py-r, px+r, py+r)
	if b.Empty() {
		return
	}
	col = col.Clamp()
	inv := 1 / r
	for yy := b.Min.Y; yy < b.Max.Y; yy++ {
		dy := float64(yy) + 0.5 - py
		off := c.img.PixOffset(b.Min.X, yy)
		for xx := b.Min.X; xx < b.Max.X; xx, off = xx+1, off+4 {
			dx := float64(xx) + 0.5 - px
			d := math.Sqrt(dx*dx+dy*dy) * inv
			if d >= 1 {
				continue
			}
			f := 1 - d
			blendOver(c.img.Pix, off, col.R, col.G, col.B, col.A*f*f)
		}
	}
}

// Line strokes a segment of the given logical width.
func (c *Canvas) Line(x0, y0, x1, y1, width float64, col palette.RGBA) {
	s := c.scale
	ax, ay, bx, by := x0*s, y0*s, x1*s, y1*s
	if math.IsNaN(ax+ay+bx+by) {
		return
	}
	w := math.Max(width*s, 0.75) / 2
	dx, dy := bx-ax, by-ay
	l := math.Hypot(dx, dy)
	if l < 1e-6 {
		return
	}
	nx, ny := -dy/l*w, dx/l*w
	b := c.box(math.Min(ax, bx)-w, math.Min(ay, by)-w, math.Max(ax, bx)+w, math.Max(ay, by)+w)
	c.fill(b, col, func(z *vector.Rasterizer, ox, oy float32) {
		z.MoveTo(float32(ax+nx)-ox, float32(ay+ny)-oy)
		z.LineTo(float32(bx+nx)-ox, float32(by+ny)-oy)
		z.LineTo(float32(bx-nx)-ox, float32(by-ny)-oy)
		z.LineTo(float32(ax-nx)-ox, float32(ay-ny)-oy)
		z.ClosePath()
	})
}

// GradientLine strokes a segment whose colour runs from c0 to c1.
func (c *Canvas) GradientLine(x0, y0, x1, y1, width float64, c0, c1 palette.RGBA) {
	const steps = 6
	for i := 0; i < steps; i++ {
		t0 := float64(i) / steps
		t1 := float64(i+1) / steps
		col := palette.Lerp(c0, c1, (t0+t1)/2)
		c.Line(x0+(x1-x0)*t0, y0+(y1-y0)*t0, x0+(x1-x0)*t1, y0+(y1-y0)*t1, width, col)
	}
}

// DashedLine strokes alternating dash and gap lengths along a segment.
func (c *Canvas) DashedLine(x0, y0, x1, y1, width, dash, gap float64, col palette.RGBA) {
	l := math.Hypot(x1-x0, y1-y0)
	if l < 1e-6 {
		return
	}
	if dash <= 0 {
		c.Line(x0, y0, x1, y1, width, col)
		return
	}
	ux, uy := (x1-x0)/l, (y1-y0)/l
	for p := 0.0; p < l; p += dash + gap {
		e := math.Min(p+dash, l)
		c.Line(x0+ux*p, y0+uy*p, x0+ux*e, y0+uy*e, width, col)
	}
}

// Quad strokes the quadratic curve from (x0, y0) through control (cx, cy) to (x1, y1).
func (c *Canvas) Quad(x0, y0, cx, cy, x1, y1, width float64, col palette.RGBA) {
	const steps = 16
	px, py := x0, y0
	for i := 1; i <= steps; i++ {
		t := float64(i) / steps
		u := 1 - t
		x := u*u*x0 + 2*u*t*cx + t*t*x1
		y := u*u*y0 + 2*u*t*cy + t*t*y1
		c.Line(px, py, x, y, width, col)
		px, py = x, y
	}
}

// Polyline strokes consecutive points given as x, y pairs.
func (c *Canvas) Polyline(pts []float64, width float64, col palette.RGBA, closed bool) {
	n := len(pts) / 2
	if n < 2 {
		return
	}
	for i := 1; i < n; i++ {
		c.Line(pts[2*i-2], pts[2*i-1], pts[2*i], pts[2*i+1], width, col)
	}
	if closed {
		c.Line(pts[2*n-2], pts[2*n-1], pts[0], pts[1], width, col)
	}
}
