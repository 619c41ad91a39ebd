package render

import (
	"cmp"
	"math"
	"slices"

	"ionfield/internal/field"
	"ionfield/internal/palette"
)

// Background is the fade colour behind every population.
var Background = palette.MustHex("#060914")

var white = palette.RGBA{R: 255, G: 255, B: 255, A: 1}

// DrawStats counts what the last Draw emitted.
type DrawStats struct {
	Connections int
	Bonds       int
	Particles   int
	Strays      int
	Electrons   int
	Transits    int
	Atoms       int
}

// Renderer draws a field.State. It keeps scratch buffers between frames.
type Renderer struct {
	// FadeAlpha is the opacity of the per-frame background wash.
	FadeAlpha float64

	order     []int
	atoms     []atom
	pts       []float64
	front     []electronDot
	atomOrder []int
}

type atom struct {
	x, y, z, r float64
}

type electronDot struct {
	x, y, dz, size float64
	phase          float64
}

// NewRenderer returns a renderer with the default trail length.
func NewRenderer() *Renderer {
	return &Renderer{FadeAlpha: 0.22}
}

func depthAlpha(z float64) float64 { return 0.35 + 0.65*z }
func depthScale(z float64) float64 { return 0.6 + 0.6*z }

// byDepth fills r.order with 0..n-1 sorted far to near.
func (r *Renderer) byDepth(n int, z func(i int) float64) []int {
	r.order = r.order[:0]
	for i := 0; i < n; i++ {
		r.order = append(r.order, i)
	}
	slices.SortStableFunc(r.order, func(a, b int) int { return cmp.Compare(z(a), z(b)) })
	return r.order
}

// Draw washes the canvas and paints every population back to front.
func (r *Renderer) Draw(c *Canvas, s *field.State) DrawStats {
	var st DrawStats
	c.Fade(Background, r.FadeAlpha)
	r.drawMolecules(c, s, &st)
	if !s.Scrolling && s.Profile.ConnectionDistance > 0 && s.Profile.MaxConnections > 0 {
		r.drawConnections(c, s, &st)
	}
	r.drawBonds(c, s, &st)
	r.drawParticles(c, s, &st)
	r.drawOrbitals(c, s, &st)
	r.drawStrays(c, s, &st)
	return st
}

func (r *Renderer) drawConnections(c *Canvas, s *field.State, st *DrawStats) {
	maxD := s.Profile.ConnectionDistance
	limit := s.Profile.MaxConnections
	grid := s.Grid()
	ps := s.Particles
	for i := range ps {
		p := &ps[i]
		n := 0
		grid.Near(p.X, p.Y, maxD, func(j int) bool {
			if j <= i || j >= len(ps) {
				return true
			}
			q := &ps[j]
			d := math.Hypot(q.X-p.X, q.Y-p.Y)
			if d >= maxD {
				return true
			}
			a := (1 - d/maxD) * 0.35 * depthAlpha(math.Min(p.Z, q.Z))
			if s.Profile.GradientLines {
				c.GradientLine(p.X, p.Y, q.X, q.Y, 0.6, p.Color.WithAlpha(a), q.Color.WithAlpha(a))
			} else {
				c.Line(p.X, p.Y, q.X, q.Y, 0.6, p.Color.WithAlpha(a))
			}
			st.Connections++
			n++
			return n < limit
		})
	}
}

func (r *Renderer) drawBonds(c *Canvas, s *field.State, st *DrawStats) {
	ps := s.Particles
	for i := range ps {
		p := &ps[i]
		j := p.Bond
		if j <= i || j >= len(ps) {
			continue
		}
		q := &ps[j]
		life := 1.0
		if p.BondTTL > 0 {
			life = 1 - p.BondAge/p.BondTTL
		}
		a := 0.6 * p.BondStrength * math.Max(life, 0)
		if s.Profile.GradientLines {
			c.GradientLine(p.X, p.Y, q.X, q.Y, 1.1, p.Color.WithAlpha(a), q.Color.WithAlpha(a))
		} else {
			c.DashedLine(p.X, p.Y, q.X, q.Y, 1, 4, 3, p.Color.WithAlpha(a))
		}
		st.Bonds++
	}
}

func (r *Renderer) drawParticles(c *Canvas, s *field.State, st *DrawStats) {
	ps := s.Particles
	amp := s.Params.PulseAmplitude
	for _, i := range r.byDepth(len(ps), func(i int) float64 { return ps[i].Z }) {
		p := &ps[i]
		pulse := field.PulseFactor(p.Phase, amp)
		size := p.Radius * depthScale(p.Z) * pulse
		a := p.Color.A * depthAlpha(p.Z) * pulse
		r.body(c, s, p.X, p.Y, size, p.Color.WithAlpha(a))
		st.Particles++
	}
}

// body draws a glow halo, a core disc and the specular highlight.
func (r *Renderer) body(c *Canvas, s *field.State, x, y, size float64, col palette.RGBA) {
	if s.Profile.Glow {
		c.Glow(x, y, size*4, col.Scale(0.35))
	}
	c.FillCircle(x, y, size, col)
	if s.Profile.Highlights {
		c.FillCircle(x-size*0.35, y-size*0.35, size*0.35, white.WithAlpha(0.8*col.A))
	}
}

func (r *Renderer) drawStrays(c *Canvas, s *field.State, st *DrawStats) {
	ss := s.Strays
	amp := s.Params.PulseAmplitude
	maxAge := math.Max(s.Params.EnergyMaxAge, 1)
	for _, i := range r.byDepth(len(ss), func(i int) float64 { return ss[i].Z }) {
		p := &ss[i]
		pulse := field.PulseFactor(p.Phase, amp)
		size := p.Radius * depthScale(p.Z) * pulse
		a := p.Color.A * depthAlpha(p.Z)
		switch {
		case p.Energy:
			a *= 1 - p.Age/maxAge
			c.Glow(p.X, p.Y, size*3, p.Color.WithAlpha(a*0.5))
			c.FillCircle(p.X, p.Y, size, p.Color.WithAlpha(a))
		case p.EffectiveCharge() != 0:
			r.body(c, s, p.X, p.Y, size, p.Color.WithAlpha(a))
			ring := chargeColor(p.Charge).WithAlpha(a * 0.6)
			r.circle(c, p.X, p.Y, size*2.2, 0.6, ring)
		default:
			c.FillCircle(p.X, p.Y, size*0.8, p.Color.WithAlpha(a*0.7))
		}
		st.Strays++
	}
}

var (
	anionColor  = palette.MustHex("#6bb8ff")
	cationColor = palette.MustHex("#ff8a6b")
)

func chargeColor(q int) palette.RGBA {
	if q < 0 {
		return anionColor
	}
	return cationColor
}

func (r *Renderer) circle(c *Canvas, x, y, radius, width float64, col palette.RGBA) {
	const steps = 20
	r.pts = r.pts[:0]
	for k := 0; k < steps; k++ {
		a := float64(k) / steps * 2 * math.Pi
		r.pts = append(r.pts, x+math.Cos(a)*radius, y+math.Sin(a)*radius)
	}
	c.Polyline(r.pts, width, col, true)
}

func (r *Renderer) drawOrbitals(c *Canvas, s *field.State, st *DrawStats) {
	os := s.Orbitals
	// Entanglement lines sit behind every system.
	for oi := range os {
		o := &os[oi]
		for k := range o.InTransit {
			t := &o.InTransit[k]
			if t.Target < 0 || t.Target >= len(os) {
				continue
			}
			dst := &os[t.Target]
			a := 0.18 * (1 - math.Abs(t.Progress-0.5))
			if s.Profile.GradientLines {
				c.GradientLine(o.X, o.Y, dst.X, dst.Y, 0.8, o.Color.WithAlpha(a), dst.Color.WithAlpha(a))
			} else {
				c.DashedLine(o.X, o.Y, dst.X, dst.Y, 0.8, 6, 6, o.Color.WithAlpha(a))
			}
		}
	}
	for _, oi := range r.byDepth(len(os), func(i int) float64 { return os[i].Z }) {
		r.drawSystem(c, s, oi, st)
	}
	for oi := range os {
		o := &os[oi]
		for k := range o.InTransit {
			t := &o.InTransit[k]
			x, y := s.TransitPosition(oi, t)
			size := t.Electron.Size * 1.2
			c.Glow(x, y, size*5, o.Color.WithAlpha(0.5))
			c.FillCircle(x, y, size, white.WithAlpha(0.9))
			st.Transits++
		}
	}
}

func (r *Renderer) drawSystem(c *Canvas, s *field.State, oi int, st *DrawStats) {
	o := &s.Orbitals[oi]
	da := depthAlpha(o.Z)
	ds := depthScale(o.Z)
	r.front = r.front[:0]
	for ri := range o.Rings {
		ring := &o.Rings[ri]
		const steps = 48
		r.pts = r.pts[:0]
		for k := 0; k < steps; k++ {
			dx, dy, _ := field.ElectronOffset(ring, float64(k)/steps*2*math.Pi)
			r.pts = append(r.pts, o.X+dx, o.Y+dy)
		}
		c.Polyline(r.pts, 0.6, o.Color.WithAlpha(0.16*da), true)
		for k := range ring.Electrons {
			e := &ring.Electrons[k]
			dx, dy, dz := field.ElectronOffset(ring, e.Angle)
			r.front = append(r.front, electronDot{x: o.X + dx, y: o.Y + dy, dz: dz, size: e.Size, phase: e.Phase})
		}
	}
	slices.SortStableFunc(r.front, func(a, b electronDot) int { return cmp.Compare(a.dz, b.dz) })
	split, _ := slices.BinarySearchFunc(r.front, 0.0, func(e electronDot, z float64) int { return cmp.Compare(e.dz, z) })

	r.electrons(c, s, o, r.front[:split], da, st)
	nucleus := 5 * ds
	glow := o.Color.WithAlpha(0.45 * da)
	if o.Excited {
		glow = palette.Lighten(glow, 0.4)
		nucleus *= 1.2
	}
	c.Glow(o.X, o.Y, nucleus*4, glow)
	c.FillCircle(o.X, o.Y, nucleus, o.Color.WithAlpha(0.9*da))
	if s.Profile.Highlights {
		c.FillCircle(o.X-nucleus*0.35, o.Y-nucleus*0.35, nucleus*0.35, white.WithAlpha(0.8*da))
	}
	r.electrons(c, s, o, r.front[split:], da, st)
}

func (r *Renderer) electrons(c *Canvas, s *field.State, o *field.Orbital, dots []electronDot, da float64, st *DrawStats) {
	outer := math.Max(o.OuterRadius(), 1)
	for _, e := range dots {
		depth := 0.75 + 0.25*e.dz/outer
		size := e.size * depth * field.PulseFactor(e.phase, s.Params.PulseAmplitude*0.5)
		col := palette.Lighten(o.Color, 0.5).WithAlpha(da * depth)
		if s.Profile.Glow {
			c.Glow(e.x, e.y, size*3, col.Scale(0.4))
		}
		c.FillCircle(e.x, e.y, size, col)
		st.Electrons++
	}
}

func (r *Renderer) drawMolecules(c *Canvas, s *field.State, st *DrawStats) {
	ms := s.Molecules
	for _, mi := range r.byDepth(len(ms), func(i int) float64 { return ms[i].Z }) {
		m := &ms[mi]
		g := &m.Geometry
		k := m.Scale * depthScale(m.Z)
		da := depthAlpha(m.Z)
		r.atoms = r.atoms[:0]
		for i, p := range g.Points {
			q := field.Rotate(p, m.RotX, m.RotY, m.RotZ)
			r.atoms = append(r.atoms, atom{x: m.X + q.X*k, y: m.Y + q.Y*k, z: q.Z, r: g.Radii[i] * k})
		}
		for _, l := range g.Links {
			if l.From >= len(r.atoms) || l.To >= len(r.atoms) {
				continue
			}
			a, b := r.atoms[l.From], r.atoms[l.To]
			col := m.Color.WithAlpha(0.35 * da)
			switch l.Kind {
			case field.LinkRung:
				if s.Profile.GradientLines {
					c.GradientLine(a.x, a.y, b.x, b.y, 0.8, col, palette.Lighten(col, 0.5))
				} else {
					c.DashedLine(a.x, a.y, b.x, b.y, 0.8, 3, 2, col)
				}
			case field.LinkDouble:
				dx, dy := b.x-a.x, b.y-a.y
				n := math.Max(math.Hypot(dx, dy), 1e-3)
				nx, ny := -dy/n*1.2, dx/n*1.2
				c.Line(a.x+nx, a.y+ny, b.x+nx, b.y+ny, 0.7, col)
				c.Line(a.x-nx, a.y-ny, b.x-nx, b.y-ny, 0.7, col)
			default:
				c.Line(a.x, a.y, b.x, b.y, 1, col)
			}
		}
		r.atomOrder = r.atomOrder[:0]
		for i := range r.atoms {
			r.atomOrder = append(r.atomOrder, i)
		}
		slices.SortStableFunc(r.atomOrder, func(a, b int) int { return cmp.Compare(r.atoms[a].z, r.atoms[b].z) })
		for _, i := range r.atomOrder {
			a := r.atoms[i]
			c.FillCircle(a.x, a.y, a.r, m.Color.WithAlpha(0.6*da))
			st.Atoms++
		}
	}
}
