package render

import (
	"image/color"
	"testing"

	"ionfield/internal/core"
	"ionfield/internal/field"
	"ionfield/internal/palette"
	"ionfield/internal/profile"
)

func pixel(c *Canvas, x, y int) color.RGBA {
	return c.Image().RGBAAt(x, y)
}

func TestFadeConvergesOnBackground(t *testing.T) {
	c := NewCanvas(8, 8, 1)
	c.Clear(palette.RGBA{R: 255, G: 255, B: 255, A: 1})
	for i := 0; i < 200; i++ {
		c.Fade(Background, 0.2)
	}
	want := premul(Background.WithAlpha(1))
	got := pixel(c, 3, 3)
	for i, pair := range [][2]uint8{{got.R, want.R}, {got.G, want.G}, {got.B, want.B}, {got.A, want.A}} {
		d := int(pair[0]) - int(pair[1])
		if d < -4 || d > 4 {
			t.Fatalf("channel %d = %d, want ~%d", i, pair[0], pair[1])
		}
	}
}

func TestFillCircleCoversCentreOnly(t *testing.T) {
	c := NewCanvas(40, 40, 1)
	c.FillCircle(20, 20, 5, palette.RGBA{R: 255, A: 1})
	if p := pixel(c, 20, 20); p.R < 250 || p.A < 250 {
		t.Fatalf("centre pixel = %+v", p)
	}
	if p := pixel(c, 2, 2); p.A != 0 {
		t.Fatalf("corner pixel painted: %+v", p)
	}
}

func TestScaleMapsLogicalUnits(t *testing.T) {
	c := NewCanvas(80, 80, 2)
	c.FillCircle(30, 30, 3, palette.RGBA{G: 255, A: 1})
	if p := pixel(c, 60, 60); p.G < 250 {
		t.Fatalf("scaled centre pixel = %+v", p)
	}
	if p := pixel(c, 30, 30); p.A != 0 {
		t.Fatalf("unscaled position painted: %+v", p)
	}
}

func TestPrimitivesClipOffCanvas(t *testing.T) {
	c := NewCanvas(20, 20, 1)
	col := palette.RGBA{B: 255, A: 1}
	c.Line(-50, -50, 70, 70, 2, col)
	c.DashedLine(-10, 10, 30, 10, 1, 3, 2, col)
	c.GradientLine(0, 0, 100, 5, 1, col, palette.RGBA{R: 255, A: 1})
	c.Quad(-5, -5, 40, 0, 10, 30, 1, col)
	c.Glow(-3, 25, 10, col)
	c.FillCircle(1000, 1000, 5, col)
	if p := pixel(c, 10, 10); p.B == 0 {
		t.Fatalf("diagonal line missing at centre: %+v", p)
	}
}

func TestGlowFallsOff(t *testing.T) {
	c := NewCanvas(60, 60, 1)
	c.Glow(30, 30, 20, palette.RGBA{R: 255, G: 255, B: 255, A: 1})
	inner, outer := pixel(c, 30, 30), pixel(c, 30, 45)
	if inner.A <= outer.A || outer.A == 0 {
		t.Fatalf("glow alpha inner=%d outer=%d", inner.A, outer.A)
	}
	if p := pixel(c, 30, 55); p.A != 0 {
		t.Fatalf("glow leaked past radius: %+v", p)
	}
}

func newState(t *testing.T, tier profile.Tier) *field.State {
	t.Helper()
	s := field.NewState(core.NewRNG(9), field.DefaultParams())
	s.Refresh(profile.For(tier), 640, 400)
	for i := 0; i < 30; i++ {
		field.Step(s, 1)
	}
	return s
}

func TestDrawPaintsEveryPopulation(t *testing.T) {
	s := newState(t, profile.TierHigh)
	c := NewCanvas(640, 400, 1)
	st := NewRenderer().Draw(c, s)
	if st.Particles != len(s.Particles) || st.Strays != len(s.Strays) {
		t.Fatalf("drew %d/%d particles and %d/%d strays", st.Particles, len(s.Particles), st.Strays, len(s.Strays))
	}
	electrons := 0
	for i := range s.Orbitals {
		electrons += s.Orbitals[i].ElectronCount()
	}
	if st.Electrons != electrons {
		t.Fatalf("drew %d electrons, want %d", st.Electrons, electrons)
	}
	if st.Atoms == 0 {
		t.Fatal("no molecular atoms drawn")
	}
	lit := 0
	pix := c.Pixels()
	for i := 0; i < len(pix); i += 4 {
		if int(pix[i])+int(pix[i+1])+int(pix[i+2]) > 60 {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("canvas is blank after Draw")
	}
}

func TestConnectionsSkippedWhileScrollingOrDisabled(t *testing.T) {
	s := newState(t, profile.TierHigh)
	for i := range s.Particles {
		s.Particles[i].X = 300 + float64(i%10)*4
		s.Particles[i].Y = 200 + float64(i/10)*4
	}
	field.Step(s, 0)
	c := NewCanvas(640, 400, 1)
	r := NewRenderer()
	if st := r.Draw(c, s); st.Connections == 0 {
		t.Fatal("packed particles drew no connections")
	} else if st.Connections > len(s.Particles)*s.Profile.MaxConnections {
		t.Fatalf("%d connections exceed per-particle limit", st.Connections)
	}
	s.Scrolling = true
	if st := r.Draw(c, s); st.Connections != 0 {
		t.Fatalf("scrolling drew %d connections", st.Connections)
	}
	low := newState(t, profile.TierLow)
	if st := r.Draw(c, low); st.Connections != 0 {
		t.Fatalf("low tier drew %d connections", st.Connections)
	}
}

func TestByDepthSortsFarToNear(t *testing.T) {
	zs := []float64{0.9, 0.1, 0.5, 0.3}
	r := NewRenderer()
	order := r.byDepth(len(zs), func(i int) float64 { return zs[i] })
	for k := 1; k < len(order); k++ {
		if zs[order[k-1]] > zs[order[k]] {
			t.Fatalf("order %v is not ascending by depth", order)
		}
	}
}
