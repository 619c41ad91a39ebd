package palette

// Ambient is the base palette particles draw their colours from.
var Ambient = []RGBA{
	MustHex("#5ec8ff"),
	MustHex("#7b8cff"),
	MustHex("#a97bff"),
	MustHex("#4fe3c1"),
	MustHex("#8fd3ff"),
}

// Focus lists the colours cycled through by focused item index.
var Focus = []RGBA{
	MustHex("#ff6b9a"),
	MustHex("#ffb347"),
	MustHex("#6bffb8"),
	MustHex("#6bb8ff"),
	MustHex("#d36bff"),
	MustHex("#fff06b"),
}

// FocusColor returns the focus colour for item index i.
func FocusColor(i int) RGBA {
	if i < 0 {
		i = -i
	}
	return Focus[i%len(Focus)]
}

// Scheme tracks the optional focus colour and the eased transition toward it.
type Scheme struct {
	focus    RGBA
	hasFocus bool

	// Strength is how far a focused particle moves from its base toward the focus colour.
	Strength float64
	// Frames is the transition length in 60Hz frames.
	Frames float64

	progress float64
	active   bool
}

// NewScheme returns a scheme with no focus colour.
func NewScheme() *Scheme {
	return &Scheme{Strength: 0.75, Frames: 45, progress: 1}
}

// SetFocus starts a transition toward c. Callers snapshot displayed colours
// before the next Apply.
func (s *Scheme) SetFocus(c RGBA) {
	s.focus = c.Clamp()
	s.hasFocus = true
	s.restart()
}

// ClearFocus starts a transition back to base colours.
func (s *Scheme) ClearFocus() {
	if !s.hasFocus {
		return
	}
	s.hasFocus = false
	s.restart()
}

func (s *Scheme) restart() {
	s.progress = 0
	s.active = true
}

// Focus returns the focus colour and whether one is set.
func (s *Scheme) Focus() (RGBA, bool) { return s.focus, s.hasFocus }

// Active reports whether a transition is running.
func (s *Scheme) Active() bool { return s.active }

// Progress returns linear transition progress in [0,1].
func (s *Scheme) Progress() float64 { return s.progress }

// SetProgress forces progress; values ≥ 1 finish the transition.
func (s *Scheme) SetProgress(p float64) {
	if p >= 1 {
		s.progress = 1
		s.active = false
		return
	}
	if p < 0 {
		p = 0
	}
	s.progress = p
	s.active = true
}

// Advance moves the transition forward by dt frames.
func (s *Scheme) Advance(dt float64) {
	if !s.active {
		return
	}
	frames := s.Frames
	if frames <= 0 {
		frames = 1
	}
	s.SetProgress(s.progress + dt/frames)
}

// Eased returns the cubic-eased progress.
func (s *Scheme) Eased() float64 { return EaseInOutCubic(s.progress) }

// Target is the colour a particle with the given base settles on.
func (s *Scheme) Target(base RGBA) RGBA {
	if !s.hasFocus {
		return base.Clamp()
	}
	return Mix(base, s.focus, s.Strength)
}

// Blend returns the displayed colour for a particle that started the current
// transition at from.
func (s *Scheme) Blend(from, base RGBA) RGBA {
	return Lerp(from, s.Target(base), s.Eased())
}
