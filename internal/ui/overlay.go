//go:build ebiten

package ui

import (
	"image/color"

	"ionfield/internal/palette"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// scrollStep is the logical distance one wheel notch moves the cards.
const scrollStep = 40

// OverlayEvents reports what the overlay's input handling changed this tick.
type OverlayEvents struct {
	Scrolled     bool
	FocusChanged bool
}

// Overlay draws the focusable cards above the field and routes wheel, hover
// and Tab input to them.
type Overlay struct {
	*Cards
	scale float64
}

// NewOverlay constructs an overlay with n cards.
func NewOverlay(n int) *Overlay {
	return &Overlay{Cards: NewCards(n), scale: 1}
}

// Update resizes the layout to the logical viewport and handles input.
// Cursor coordinates arrive in screen pixels and are divided by scale.
func (o *Overlay) Update(logicalW, logicalH, scale float64) OverlayEvents {
	if scale <= 0 {
		scale = 1
	}
	o.scale = scale
	o.Resize(logicalW, logicalH)

	var ev OverlayEvents
	if _, dy := ebiten.Wheel(); dy != 0 {
		ev.Scrolled = o.Scroll(-dy * scrollStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		ev.FocusChanged = o.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ev.FocusChanged = o.SetFocus(-1) || ev.FocusChanged
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if hit := o.Hit(float64(mx)/scale, float64(my)/scale); hit >= 0 {
			ev.FocusChanged = o.SetFocus(hit) || ev.FocusChanged
		}
	}
	if i, ok := o.Focused(); ok {
		if _, visible := o.Bounds(i); !visible {
			ev.FocusChanged = o.SetFocus(-1) || ev.FocusChanged
		}
	}
	return ev
}

// Draw paints every visible card.
func (o *Overlay) Draw(screen *ebiten.Image) {
	face := basicfont.Face7x13
	focused, hasFocus := o.Focused()
	for i := 0; i < o.Count; i++ {
		r, ok := o.Bounds(i)
		if !ok {
			continue
		}
		x, y := float32(r.X*o.scale), float32(r.Y*o.scale)
		w, h := float32(r.W*o.scale), float32(r.H*o.scale)
		accent := palette.FocusColor(i).NRGBA()
		fill := color.NRGBA{R: 14, G: 18, B: 34, A: 150}
		stroke := color.NRGBA{R: accent.R, G: accent.G, B: accent.B, A: 90}
		width := float32(1)
		if hasFocus && focused == i {
			fill.A = 190
			stroke.A = 255
			width = 2
		}
		vector.DrawFilledRect(screen, x, y, w, h, fill, true)
		vector.StrokeRect(screen, x, y, w, h, width*float32(o.scale), stroke, true)
		text.Draw(screen, cardTitle(i), face, int(x)+12, int(y)+22, accent)
	}
}

func cardTitle(i int) string {
	names := []string{"Helix", "Lattice", "Orbitals", "Strays", "Bonds", "Flow"}
	return names[i%len(names)]
}
