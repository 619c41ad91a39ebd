package engine

import (
	"sync"
	"time"

	"ionfield/internal/palette"
)

// mailbox collects host inputs between frames. Writers may run on any
// goroutine; Frame takes a snapshot at its top.
type mailbox struct {
	mu      sync.Mutex
	pending inputs
}

type inputs struct {
	viewport    bool
	w, h, ratio float64

	pointer      bool
	pointerClear bool
	px, py       float64

	scrolled bool

	focus      bool
	focusIndex int
	focusSet   bool
}

func (m *mailbox) take() inputs {
	m.mu.Lock()
	in := m.pending
	m.pending = inputs{}
	m.mu.Unlock()
	return in
}

func (m *mailbox) reset() {
	m.mu.Lock()
	m.pending = inputs{}
	m.mu.Unlock()
}

func (m *mailbox) update(fn func(in *inputs)) {
	m.mu.Lock()
	fn(&m.pending)
	m.mu.Unlock()
}

// SetViewport reports a new logical viewport size and host pixel ratio.
func (e *Engine) SetViewport(w, h, ratio float64) {
	if !validSize(w) || !validSize(h) {
		return
	}
	e.box.update(func(in *inputs) {
		in.viewport = true
		in.w, in.h, in.ratio = w, h, ratio
	})
}

// SetPointer reports the raw pointer position in logical units.
func (e *Engine) SetPointer(x, y float64) {
	e.box.update(func(in *inputs) {
		in.pointer, in.pointerClear = true, false
		in.px, in.py = x, y
	})
}

// ClearPointer reports that the pointer left the surface.
func (e *Engine) ClearPointer() {
	e.box.update(func(in *inputs) {
		in.pointer, in.pointerClear = false, true
	})
}

// NotifyScroll reports scroll activity; the scrolling flag stays raised for
// ScrollHold after the latest call.
func (e *Engine) NotifyScroll() {
	e.box.update(func(in *inputs) { in.scrolled = true })
}

// SetFocus reports the currently focused item index.
func (e *Engine) SetFocus(index int) {
	e.box.update(func(in *inputs) {
		in.focus, in.focusSet, in.focusIndex = true, true, index
	})
}

// ClearFocus reports that no item is focused.
func (e *Engine) ClearFocus() {
	e.box.update(func(in *inputs) {
		in.focus, in.focusSet, in.focusIndex = true, false, 0
	})
}

// apply folds a snapshot of inputs into engine state. It reports whether the
// populations must be rebuilt.
func (e *Engine) apply(in inputs, now time.Time) bool {
	refresh := false
	if in.viewport {
		if in.w != e.viewW || in.h != e.viewH {
			refresh = true
		}
		e.viewW, e.viewH, e.hostRatio = in.w, in.h, in.ratio
	}
	switch {
	case in.pointer:
		e.state.SetPointer(in.px, in.py)
	case in.pointerClear:
		e.state.ClearPointer()
	}
	if in.scrolled {
		e.scrollUntil = now.Add(e.opts.ScrollHold)
	}
	if in.focus {
		e.applyFocus(in.focusSet, in.focusIndex)
	}
	return refresh
}

func (e *Engine) applyFocus(set bool, index int) {
	if !set {
		if e.hasFocus {
			e.hasFocus = false
			e.state.ClearFocusColor()
			e.state.ClearFocusRect()
		}
		return
	}
	if e.hasFocus && e.focusIndex == index {
		return
	}
	e.hasFocus = true
	e.focusIndex = index
	e.state.SetFocusColor(palette.FocusColor(index))
	e.recheckFocus(true)
}
