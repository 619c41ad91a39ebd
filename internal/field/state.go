// Package field holds the simulation state and the per-frame step that moves
// ambient particles, strays, orbital systems and molecular structures.
package field

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/charmbracelet/harmonica"

	"ionfield/internal/core"
	"ionfield/internal/palette"
	"ionfield/internal/profile"
)

// Pointer is the smoothed pointer. X and Y trail RawX and RawY through a spring.
type Pointer struct {
	X, Y       float64
	RawX, RawY float64
	Active     bool

	vx, vy float64
	moved  float64
}

// State owns every population plus the inputs the step reads.
type State struct {
	W, H    float64
	Profile profile.Profile
	Params  Params

	Particles []Particle
	Strays    []Stray
	Orbitals  []Orbital
	Molecules []Molecule

	Scheme    *palette.Scheme
	Pointer   Pointer
	Focus     core.Rect
	HasFocus  bool
	Scrolling bool

	Frame uint64
	Time  float64
	Stats Stats

	rng    *core.RNG
	noise  *perlin.Perlin
	spring harmonica.Spring
	grid   *core.BucketGrid

	nextElectron uint32
	heavyDT      float64
	colorDT      float64
}

// NewState returns an empty state. Call Refresh to populate it.
func NewState(rng *core.RNG, params Params) *State {
	if rng == nil {
		rng = core.NewRNG(1)
	}
	return &State{
		Params: params,
		Scheme: palette.NewScheme(),
		rng:    rng,
		noise:  perlin.NewPerlin(2, 2, 3, rng.Source().Int64()),
		spring: harmonica.NewSpring(harmonica.FPS(60), 7.0, 0.85),
		grid:   core.NewBucketGrid(1, 1, 64),
	}
}

// RNG exposes the random source driving every randomized branch.
func (s *State) RNG() *core.RNG { return s.rng }

// Grid is the spatial index of ambient particles as of the last step.
func (s *State) Grid() *core.BucketGrid { return s.grid }

// SetPointer records a raw pointer position.
func (s *State) SetPointer(x, y float64) {
	pt := &s.Pointer
	if !pt.Active {
		pt.X, pt.Y = x, y
		pt.vx, pt.vy = 0, 0
	}
	pt.RawX, pt.RawY = x, y
	pt.Active = true
}

// ClearPointer stops the pointer field.
func (s *State) ClearPointer() {
	s.Pointer.Active = false
	s.Pointer.moved = 0
}

// SetFocusRect sets the on-screen bounds of the focused item.
func (s *State) SetFocusRect(r core.Rect) {
	s.Focus = r
	s.HasFocus = r.W > 0 && r.H > 0
}

// ClearFocusRect drops the localized focus effect.
func (s *State) ClearFocusRect() {
	s.Focus = core.Rect{}
	s.HasFocus = false
}

// SetFocusColor starts a colour transition toward c.
func (s *State) SetFocusColor(c palette.RGBA) {
	s.snapshotColors()
	s.Scheme.SetFocus(c)
}

// ClearFocusColor starts a transition back to base colours.
func (s *State) ClearFocusColor() {
	if _, ok := s.Scheme.Focus(); !ok {
		return
	}
	s.snapshotColors()
	s.Scheme.ClearFocus()
}

func (s *State) snapshotColors() {
	for i := range s.Particles {
		s.Particles[i].From = s.Particles[i].Color
	}
	for i := range s.Strays {
		s.Strays[i].From = s.Strays[i].Color
	}
}

// ElectronTotal counts electrons in rings and in transit across all systems.
func (s *State) ElectronTotal() int {
	n := 0
	for i := range s.Orbitals {
		n += s.Orbitals[i].ElectronCount() + len(s.Orbitals[i].InTransit)
	}
	return n
}

// PulseFactor is the size and opacity multiplier for a pulse phase.
func PulseFactor(phase, amplitude float64) float64 {
	return 1 + math.Sin(phase)*amplitude
}

// chance converts a per-frame probability into one for dt frames.
func chance(p, dt float64) float64 {
	if p >= 1 {
		return 1
	}
	if p <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math.Pow(1-p, dt)
}

func (s *State) gridCell() float64 {
	c := math.Max(s.Profile.ConnectionDistance, s.Params.BondCaptureDistance)
	return math.Max(c, 48)
}

func (s *State) indexParticles() {
	s.grid.Clear()
	for i := range s.Particles {
		s.grid.Insert(i, s.Particles[i].X, s.Particles[i].Y)
	}
}
