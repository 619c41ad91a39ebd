package field

import (
	"math"

	"ionfield/internal/palette"
	"ionfield/internal/profile"
)

const (
	narrowViewport = 768
	smallArea      = 640 * 480
	smallAreaStray = 8
)

// Refresh rebuilds every population for the profile and viewport. Sizes are
// a pure function of its arguments.
func (s *State) Refresh(p profile.Profile, w, h float64) {
	s.Profile = p
	s.W, s.H = math.Max(w, 0), math.Max(h, 0)
	s.Stats = Stats{}
	s.populateParticles()
	s.populateStrays()
	s.populateOrbitals()
	s.populateMolecules()
	s.grid.Reset(s.W, s.H, s.gridCell())
	s.indexParticles()
}

func (s *State) narrow() bool { return s.W < narrowViewport }

// ParticleCount is the ambient population for the current profile and viewport.
func (s *State) ParticleCount() int {
	n := s.Profile.Particles
	if s.narrow() {
		n /= 2
	}
	return n
}

// StrayCount is the initial stray population for the current profile and viewport.
func (s *State) StrayCount() int {
	n := min(s.Profile.StrayParticles, s.Profile.MaxStrayParticles)
	if s.W*s.H < smallArea {
		n = min(n, smallAreaStray)
	}
	return max(n, 0)
}

// OrbitalCount is the orbital system count for the current profile and viewport.
func (s *State) OrbitalCount() int {
	if s.narrow() {
		return min(s.Profile.OrbitalSystems, 2)
	}
	return s.Profile.OrbitalSystems
}

// MoleculeCount is the structure count for the current profile and viewport.
func (s *State) MoleculeCount() int {
	if s.narrow() {
		return min(s.Profile.Molecules, 1)
	}
	return s.Profile.Molecules
}

func (s *State) populateParticles() {
	n := max(s.ParticleCount(), 0)
	s.Particles = make([]Particle, 0, n)
	for i := 0; i < n; i++ {
		s.Particles = append(s.Particles, s.newParticle())
	}
}

func (s *State) newParticle() Particle {
	r := s.rng
	base := palette.Ambient[r.IntN(len(palette.Ambient))].WithAlpha(r.Range(0.45, 0.9))
	p := Particle{
		X:          r.Range(0, s.W),
		Y:          r.Range(0, s.H),
		Z:          r.Range(0.15, 1),
		VX:         r.Range(-0.35, 0.35),
		VY:         r.Range(-0.35, 0.35),
		VZ:         r.Range(-0.0015, 0.0015),
		Radius:     r.Range(1.2, 3.2),
		Base:       base,
		From:       base,
		Color:      s.Scheme.Blend(base, base),
		Phase:      r.Range(0, 2*math.Pi),
		PulseSpeed: r.Range(0.01, 0.04),
		Bond:       -1,
	}
	if r.Chance(0.15) {
		p.Orbit = true
		p.OrbitRadius = r.Range(20, 80)
		p.OrbitAngle = r.Range(0, 2*math.Pi)
		p.OrbitSpeed = r.Sign() * r.Range(0.004, 0.015)
		p.OrbitCX = p.X - math.Cos(p.OrbitAngle)*p.OrbitRadius
		p.OrbitCY = p.Y - math.Sin(p.OrbitAngle)*p.OrbitRadius
		p.VX *= 0.3
		p.VY *= 0.3
	}
	return p
}

func (s *State) populateStrays() {
	n := s.StrayCount()
	s.Strays = make([]Stray, 0, s.Profile.MaxStrayParticles)
	for i := 0; i < n; i++ {
		s.Strays = append(s.Strays, s.newStray(s.rng.Range(0, s.W), s.rng.Range(0, s.H)))
	}
}

func (s *State) newStray(x, y float64) Stray {
	r := s.rng
	charge := r.RangeInt(-1, 1)
	base := palette.Ambient[r.IntN(len(palette.Ambient))].WithAlpha(r.Range(0.5, 0.85))
	return Stray{
		X:          x,
		Y:          y,
		Z:          r.Range(0.2, 1),
		VX:         r.Range(-0.5, 0.5),
		VY:         r.Range(-0.5, 0.5),
		Radius:     r.Range(1, 2.2),
		Base:       base,
		From:       base,
		Color:      s.Scheme.Blend(base, base),
		Phase:      r.Range(0, 2*math.Pi),
		PulseSpeed: r.Range(0.03, 0.08),
		Charge:     charge,
		Ion:        charge != 0 && r.Chance(0.6),
		Lifespan:   r.Range(300, 900),
	}
}

func (s *State) newEnergy(x, y float64, c palette.RGBA) Stray {
	r := s.rng
	a := r.Range(0, 2*math.Pi)
	sp := r.Range(0.5, 1.8)
	base := c.WithAlpha(0.9)
	return Stray{
		X:          x,
		Y:          y,
		Z:          1,
		VX:         math.Cos(a) * sp,
		VY:         math.Sin(a) * sp,
		Radius:     r.Range(1.2, 2.6),
		Base:       base,
		From:       base,
		Color:      base,
		PulseSpeed: 0.2,
		Lifespan:   s.Params.EnergyMaxAge,
		Energy:     true,
		Shrink:     r.Range(0.02, 0.05),
	}
}

func (s *State) populateOrbitals() {
	n := max(s.OrbitalCount(), 0)
	s.Orbitals = make([]Orbital, 0, n)
	for i := 0; i < n; i++ {
		s.Orbitals = append(s.Orbitals, s.newOrbital())
	}
}

func (s *State) newOrbital() Orbital {
	r := s.rng
	pad := math.Min(100, math.Min(s.W, s.H)/4)
	o := Orbital{
		X:      r.Range(pad, s.W-pad),
		Y:      r.Range(pad, s.H-pad),
		Z:      r.Range(0.5, 1),
		VX:     r.Range(-0.25, 0.25),
		VY:     r.Range(-0.25, 0.25),
		Charge: int(r.Sign()),
		Phase:  r.Range(0, 2*math.Pi),
		Color:  palette.Ambient[r.IntN(len(palette.Ambient))].WithAlpha(0.85),
	}
	rings := max(s.Profile.RingsPerSystem, 1)
	for ri := 0; ri < rings; ri++ {
		ring := Ring{
			Radius:      22 + float64(ri)*16,
			Inclination: r.Range(0.3, 1.2),
			Tilt:        r.Range(0, math.Pi),
			State:       QuantumState(r.IntN(3)),
		}
		dir := r.Sign()
		per := max(s.Profile.ElectronsPerRing, 0)
		for k := 0; k < per; k++ {
			ring.Electrons = append(ring.Electrons, s.newElectron(
				float64(k)/float64(per)*2*math.Pi+r.Range(-0.2, 0.2),
				dir*r.Range(0.01, 0.03)/(1+float64(ri)*0.4),
			))
		}
		o.Rings = append(o.Rings, ring)
	}
	return o
}

func (s *State) newElectron(angle, speed float64) Electron {
	s.nextElectron++
	return Electron{
		ID:    s.nextElectron,
		Angle: angle,
		Speed: speed,
		Size:  s.rng.Range(1.5, 2.5),
		Phase: s.rng.Range(0, 2*math.Pi),
	}
}

func (s *State) populateMolecules() {
	n := max(s.MoleculeCount(), 0)
	s.Molecules = make([]Molecule, 0, n)
	for i := 0; i < n; i++ {
		s.Molecules = append(s.Molecules, s.newMolecule())
	}
}

func (s *State) newMolecule() Molecule {
	r := s.rng
	return Molecule{
		X:        r.Range(0, s.W),
		Y:        r.Range(0, s.H),
		Z:        r.Range(0.2, 0.6),
		VX:       r.Range(-0.15, 0.15),
		VY:       r.Range(-0.15, 0.15),
		RotX:     r.Range(0, 2*math.Pi),
		RotY:     r.Range(0, 2*math.Pi),
		SpinX:    r.Range(-0.01, 0.01),
		SpinY:    r.Range(-0.012, 0.012),
		SpinZ:    r.Range(-0.006, 0.006),
		Lifetime: r.Range(s.Params.MoleculeLifetimeMin, s.Params.MoleculeLifetimeMax),
		Scale:    r.Range(0.8, 1.3),
		Color:    palette.Ambient[r.IntN(len(palette.Ambient))].WithAlpha(0.55),
		Geometry: NewGeometry(Shape(r.IntN(int(shapeCount))), s.geometrySizes(), r),
	}
}

func (s *State) geometrySizes() GeometrySizes {
	return GeometrySizes{HelixPairs: s.Profile.HelixPairs, LatticeSize: s.Profile.LatticeSize}
}

// randomEdge returns a point just outside a random viewport edge.
func (s *State) randomEdge() (float64, float64) {
	m := s.Params.WrapMargin / 2
	switch s.rng.IntN(4) {
	case 0:
		return s.rng.Range(0, s.W), -m
	case 1:
		return s.W + m, s.rng.Range(0, s.H)
	case 2:
		return s.rng.Range(0, s.W), s.H + m
	default:
		return -m, s.rng.Range(0, s.H)
	}
}
