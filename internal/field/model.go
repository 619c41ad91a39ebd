package field

import "ionfield/internal/palette"

// Particle is an ambient body. Bond holds the partner's index or -1.
type Particle struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	Radius     float64

	Color palette.RGBA
	Base  palette.RGBA
	From  palette.RGBA

	Phase      float64
	PulseSpeed float64

	Orbit       bool
	OrbitCX     float64
	OrbitCY     float64
	OrbitRadius float64
	OrbitAngle  float64
	OrbitSpeed  float64

	Bond         int
	BondStrength float64
	BondAge      float64
	BondTTL      float64
	BondCooldown float64
}

// Bonded reports whether the particle currently has a partner.
func (p *Particle) Bonded() bool { return p.Bond >= 0 }

// Stray is a free charged particle. Energy strays are short-lived sparks that
// shrink every frame.
type Stray struct {
	X, Y, Z float64
	VX, VY  float64
	Radius  float64

	Color palette.RGBA
	Base  palette.RGBA
	From  palette.RGBA

	Phase      float64
	PulseSpeed float64

	Charge   int
	Ion      bool
	Age      float64
	Lifespan float64

	Energy bool
	Shrink float64
}

// EffectiveCharge is the charge felt by orbital systems; neutral strays feel nothing.
func (s *Stray) EffectiveCharge() int {
	if !s.Ion || s.Energy {
		return 0
	}
	return s.Charge
}

// QuantumState shapes an electron's path around its ring.
type QuantumState uint8

const (
	StateS QuantumState = iota
	StateP
	StateD
)

// Electron orbits inside exactly one ring or travels in exactly one transit list.
type Electron struct {
	ID       uint32
	Angle    float64
	Speed    float64
	Size     float64
	Phase    float64
	Ionized  bool
	Cooldown float64
}

// Ring is one orbital shell.
type Ring struct {
	Radius      float64
	Inclination float64
	Tilt        float64
	State       QuantumState
	Electrons   []Electron
}

// Transit is an electron moving from its source system toward Target.
type Transit struct {
	Electron   Electron
	Target     int
	SourceRing int
	Progress   float64
	Speed      float64
	Bulge      float64
}

// Orbital is a nucleus with rings of electrons.
type Orbital struct {
	X, Y, Z float64
	VX, VY  float64
	Charge  int

	Excited      bool
	ExcitedTimer float64

	Rings     []Ring
	InTransit []Transit

	TransferCooldown float64
	Phase            float64
	Color            palette.RGBA
}

// OuterRadius returns the radius of the outermost ring.
func (o *Orbital) OuterRadius() float64 {
	if len(o.Rings) == 0 {
		return 0
	}
	return o.Rings[len(o.Rings)-1].Radius
}

// ElectronCount counts electrons held in rings.
func (o *Orbital) ElectronCount() int {
	n := 0
	for i := range o.Rings {
		n += len(o.Rings[i].Electrons)
	}
	return n
}

// Energy is a weighted electron count: outer shells contribute more.
func (o *Orbital) Energy() float64 {
	e := 0.0
	for i := range o.Rings {
		e += float64(i+1) * float64(len(o.Rings[i].Electrons))
	}
	return e
}

// Molecule is a rotating pseudo-3D structure that morphs between shapes.
type Molecule struct {
	X, Y, Z    float64
	VX, VY, VZ float64

	RotX, RotY, RotZ    float64
	SpinX, SpinY, SpinZ float64

	Age      float64
	Lifetime float64
	Scale    float64
	Color    palette.RGBA

	Geometry Geometry
}

// Shape returns the structure tag carried by the geometry.
func (m *Molecule) Shape() Shape { return m.Geometry.Shape }

// Stats counts protocol events since the last rebuild.
type Stats struct {
	BondsFormed int
	BondsBroken int
	Captures    int
	Transfers   int
	Arrivals    int
	Jumps       int
	Morphs      int
	Evictions   int
	Relocations int
	Flips       int
}
