//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"ionfield/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Source is what the HUD reads and adjusts; the engine implements it.
type Source interface {
	core.ParameterProvider
	core.ParameterControlsProvider
	core.FloatParameterSetter
}

// HUD renders a translucent parameter panel along the right edge of the field.
type HUD struct {
	src        Source
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	controls     []hudControlState
	panelOffsetX int

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for src with the given panel width.
func NewHUD(src Source, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{src: src, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	controls := src.ParameterControls()
	h.controls = make([]hudControlState, len(controls))
	for i, ctrl := range controls {
		h.controls[i] = hudControlState{control: ctrl, value: "--"}
	}
	h.layoutControls()
	return h
}

// Width returns the panel width in screen pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the snapshot and handles clicks on the +/- buttons.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.src.Parameters()
	h.refreshControlValues()
	h.handleInput()
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 10, G: 12, B: 22, A: 210})
	h.drawControls()
	h.drawReadouts()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			state.hasValue = false
			state.value = "--"
			continue
		}
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			state.hasValue = false
			state.value = "--"
			continue
		}
		state.floatValue = parsed
		state.value = formatFloat(state.control, parsed)
		state.hasValue = true
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.applyAdjustment(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.applyAdjustment(state, 1)
			return
		}
	}
}

// Contains reports whether screen point (x, y) lies on the panel.
func (h *HUD) Contains(x, y int) bool {
	if h == nil || h.width <= 0 {
		return false
	}
	return x >= h.panelOffsetX && x < h.panelOffsetX+h.width && y >= 0 && y < h.lastHeight
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	target, ok := nextValue(state, direction)
	if !ok || math.Abs(target-state.floatValue) < 1e-9 {
		return
	}
	if h.src.SetFloatParameter(state.control.Key, target) {
		state.floatValue = target
		state.value = formatFloat(state.control, target)
	}
}

func nextValue(state *hudControlState, direction int) (float64, bool) {
	if state == nil || direction == 0 || state.control.Type != core.ParamTypeFloat {
		return 0, false
	}
	step := state.control.Step
	if step <= 0 {
		step = 0.05
	}
	target := state.floatValue + float64(direction)*step
	if state.control.HasMin && target < state.control.Min {
		if direction < 0 && state.floatValue <= state.control.Min {
			return 0, false
		}
		target = state.control.Min
	}
	if state.control.HasMax && target > state.control.Max {
		if direction > 0 && state.floatValue >= state.control.Max {
			return 0, false
		}
		target = state.control.Max
	}
	return target, true
}

var (
	hudHeader = color.RGBA{R: 200, G: 205, B: 225, A: 255}
	hudLabel  = color.RGBA{R: 220, G: 222, B: 235, A: 255}
	hudMuted  = color.RGBA{R: 140, G: 145, B: 165, A: 255}
)

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	text.Draw(h.panel, "Ion Field", face, panelPadding, panelPadding+headerBaseline, hudHeader)
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, hudLabel)
		valueColor := hudLabel
		if !state.hasValue {
			valueColor = hudMuted
		}
		bounds := text.BoundString(face, state.value)
		valueX := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		_, minus := nextValue(state, -1)
		_, plus := nextValue(state, 1)
		h.drawButton(state.minusRect, "-", state.hasValue && minus)
		h.drawButton(state.plusRect, "+", state.hasValue && plus)
	}
}

func (h *HUD) drawReadouts() {
	face := basicfont.Face7x13
	y := controlsTop + len(h.controls)*lineHeight + infoSpacing/2
	for _, group := range h.snapshot.Groups {
		if group.Name == "Tuning" {
			continue
		}
		if y > h.lastHeight {
			return
		}
		text.Draw(h.panel, group.Name, face, panelPadding, y, hudHeader)
		y += readoutLine
		for _, p := range group.Params {
			text.Draw(h.panel, p.Label, face, panelPadding+8, y, hudMuted)
			bounds := text.BoundString(face, p.Value)
			text.Draw(h.panel, p.Value, face, h.width-panelPadding-bounds.Dx(), y, hudLabel)
			y += readoutLine
		}
		y += readoutLine / 2
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 44, G: 50, B: 72, A: 255}
	fg := color.RGBA{R: 230, G: 232, B: 245, A: 255}
	if !enabled {
		bg = color.RGBA{R: 26, G: 30, B: 44, A: 255}
		fg = color.RGBA{R: 110, G: 114, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	floatValue float64
	hasValue   bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	readoutLine    = 16
	controlsTop    = panelPadding + headerBaseline + 14
)
