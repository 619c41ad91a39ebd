package ui

import (
	"math"

	"ionfield/internal/core"
)

// Cards lays out a grid of focusable cards over the field and resolves their
// on-screen bounds. It satisfies engine.FocusLocator.
type Cards struct {
	Count  int
	W, H   float64
	Gap    float64
	Margin float64

	viewW, viewH float64
	scroll       float64
	focused      int
}

// NewCards returns n cards with the default geometry and nothing focused.
func NewCards(n int) *Cards {
	if n < 0 {
		n = 0
	}
	return &Cards{Count: n, W: 240, H: 120, Gap: 24, Margin: 48, focused: -1}
}

// Resize sets the logical viewport the cards are laid out in.
func (c *Cards) Resize(w, h float64) {
	c.viewW, c.viewH = w, h
	c.scroll = core.Clamp(c.scroll, 0, c.maxScroll())
}

func (c *Cards) columns() int {
	n := int((c.viewW - 2*c.Margin + c.Gap) / (c.W + c.Gap))
	return max(n, 1)
}

func (c *Cards) rows() int {
	if c.Count == 0 {
		return 0
	}
	cols := c.columns()
	return (c.Count + cols - 1) / cols
}

func (c *Cards) maxScroll() float64 {
	content := 2*c.Margin + float64(c.rows())*(c.H+c.Gap) - c.Gap
	return math.Max(content-c.viewH, 0)
}

// Scroll moves the grid by dy logical units and reports whether it moved.
func (c *Cards) Scroll(dy float64) bool {
	next := core.Clamp(c.scroll+dy, 0, c.maxScroll())
	if next == c.scroll {
		return false
	}
	c.scroll = next
	return true
}

// Offset returns the current scroll offset.
func (c *Cards) Offset() float64 { return c.scroll }

func (c *Cards) rect(i int) core.Rect {
	cols := c.columns()
	row, col := i/cols, i%cols
	return core.Rect{
		X: c.Margin + float64(col)*(c.W+c.Gap),
		Y: c.Margin + float64(row)*(c.H+c.Gap) - c.scroll,
		W: c.W,
		H: c.H,
	}
}

// Bounds returns the card's rectangle while any part of it is on screen.
func (c *Cards) Bounds(i int) (core.Rect, bool) {
	if i < 0 || i >= c.Count {
		return core.Rect{}, false
	}
	r := c.rect(i)
	if r.Y+r.H <= 0 || r.Y >= c.viewH || r.X >= c.viewW {
		return core.Rect{}, false
	}
	return r, true
}

// Hit returns the index of the visible card under (x, y), or -1.
func (c *Cards) Hit(x, y float64) int {
	for i := 0; i < c.Count; i++ {
		if r, ok := c.Bounds(i); ok && r.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Focused returns the focused index.
func (c *Cards) Focused() (int, bool) { return c.focused, c.focused >= 0 }

// SetFocus focuses i, or clears focus when i is out of range. It reports
// whether the focus changed.
func (c *Cards) SetFocus(i int) bool {
	if i < 0 || i >= c.Count {
		i = -1
	}
	if i == c.focused {
		return false
	}
	c.focused = i
	return true
}

// Next focuses the following card, wrapping around.
func (c *Cards) Next() bool {
	if c.Count == 0 {
		return false
	}
	return c.SetFocus((c.focused + 1) % c.Count)
}
