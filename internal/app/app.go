//go:build ebiten

package app

import (
	"time"

	"ionfield/internal/engine"
	"ionfield/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hudWidth is the parameter panel width in screen pixels.
const hudWidth = 260

// Game adapts the engine to the ebiten.Game interface. Layout reports the
// screen in device pixels; the engine works in logical (outside) units.
type Game struct {
	eng     *engine.Engine
	overlay *ui.Overlay
	hud     *ui.HUD
	showHUD bool

	frame *ebiten.Image

	outW, outH int
	scale      float64
	pointerIn  bool
}

// New constructs a Game around a mounted engine. overlay must be the engine's
// focus locator so card bounds and focus indices agree.
func New(eng *engine.Engine, overlay *ui.Overlay, showHUD bool) *Game {
	return &Game{
		eng:     eng,
		overlay: overlay,
		hud:     ui.NewHUD(eng, hudWidth),
		showHUD: showHUD,
		scale:   1,
	}
}

// Update routes input to the engine. It runs at the fixed TPS and may repeat
// back to back when drawing falls behind, so it never drives a frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.eng.Unmount()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	ev := g.overlay.Update(float64(g.outW), float64(g.outH), g.scale)
	if ev.Scrolled {
		g.eng.NotifyScroll()
	}
	if ev.FocusChanged {
		if i, ok := g.overlay.Focused(); ok {
			g.eng.SetFocus(i)
		} else {
			g.eng.ClearFocus()
		}
	}
	g.updatePointer()

	if g.showHUD {
		g.hud.Update(g.screenW() - g.hud.Width())
	}
	return nil
}

func (g *Game) updatePointer() {
	mx, my := ebiten.CursorPosition()
	inside := mx >= 0 && my >= 0 && mx < g.screenW() && my < g.screenH()
	if inside && g.showHUD && mx >= g.screenW()-g.hud.Width() {
		inside = false
	}
	if inside {
		g.eng.SetPointer(float64(mx)/g.scale, float64(my)/g.scale)
		g.pointerIn = true
		return
	}
	if g.pointerIn {
		g.eng.ClearPointer()
		g.pointerIn = false
	}
}

// Draw runs one engine frame per displayed frame, uploads the canvas and
// paints the overlay on top.
func (g *Game) Draw(screen *ebiten.Image) {
	g.eng.Frame(time.Now())
	canvas := g.eng.Canvas()
	if canvas == nil {
		return
	}
	w, h := canvas.Size()
	if w == 0 || h == 0 {
		return
	}
	if g.frame == nil || g.frame.Bounds().Dx() != w || g.frame.Bounds().Dy() != h {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(w, h)
	}
	g.frame.WritePixels(canvas.Pixels())

	op := &ebiten.DrawImageOptions{}
	k := g.scale / canvas.Scale()
	op.GeoM.Scale(k, k)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.frame, op)

	g.overlay.Draw(screen)
	if g.showHUD {
		g.hud.Draw(screen, g.screenW()-g.hud.Width(), g.screenH())
	}
}

// Layout forwards viewport changes to the engine and returns the device-pixel
// screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := ebiten.Monitor().DeviceScaleFactor()
	if s <= 0 {
		s = 1
	}
	if outsideWidth != g.outW || outsideHeight != g.outH || s != g.scale {
		g.outW, g.outH, g.scale = outsideWidth, outsideHeight, s
		g.eng.SetViewport(float64(outsideWidth), float64(outsideHeight), s)
	}
	return g.screenW(), g.screenH()
}

func (g *Game) screenW() int { return int(float64(g.outW) * g.scale) }
func (g *Game) screenH() int { return int(float64(g.outH) * g.scale) }
