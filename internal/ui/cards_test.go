package ui

import "testing"

func TestCardsLayoutAndVisibility(t *testing.T) {
	c := NewCards(6)
	c.Resize(1280, 400)
	if c.columns() != 4 {
		t.Fatalf("columns = %d, want 4", c.columns())
	}
	r, ok := c.Bounds(0)
	if !ok || r.X != 48 || r.Y != 48 {
		t.Fatalf("card 0 = %+v (%v)", r, ok)
	}
	if _, ok := c.Bounds(6); ok {
		t.Fatal("out-of-range card reported visible")
	}
	if got := c.Hit(60, 60); got != 0 {
		t.Fatalf("Hit = %d, want 0", got)
	}
	if got := c.Hit(5, 5); got != -1 {
		t.Fatalf("Hit in margin = %d", got)
	}
}

func TestCardsScrollHidesAndClamps(t *testing.T) {
	c := NewCards(12)
	c.Resize(600, 300)
	if !c.Scroll(1000) {
		t.Fatal("scroll did not move")
	}
	if c.Offset() != c.maxScroll() {
		t.Fatalf("offset %v not clamped to %v", c.Offset(), c.maxScroll())
	}
	if _, ok := c.Bounds(0); ok {
		t.Fatal("first card still visible after scrolling to the end")
	}
	if c.Scroll(10) {
		t.Fatal("scroll past the end moved")
	}
	c.Scroll(-1e9)
	if c.Offset() != 0 {
		t.Fatalf("offset = %v after scrolling back", c.Offset())
	}
}

func TestCardsFocusCycle(t *testing.T) {
	c := NewCards(3)
	if _, ok := c.Focused(); ok {
		t.Fatal("new cards start focused")
	}
	for want := 0; want < 4; want++ {
		c.Next()
		if got, _ := c.Focused(); got != want%3 {
			t.Fatalf("focus = %d, want %d", got, want%3)
		}
	}
	if !c.SetFocus(-1) {
		t.Fatal("clearing focus reported no change")
	}
	if c.SetFocus(-1) {
		t.Fatal("clearing twice reported a change")
	}
}
