package field

import (
	"math"

	"ionfield/internal/core"
	"ionfield/internal/palette"
)

// MaxStepDT bounds a single step in 60Hz frame units.
const MaxStepDT = 4

// Step advances the simulation by dt frames. Positions integrate every call;
// interactions and colour transitions run on the profile's cadence with the
// dt accumulated since their last run.
func Step(s *State, dt float64) {
	if !(dt > 0) {
		dt = 0
	}
	dt = math.Min(dt, MaxStepDT)

	s.Frame++
	s.Time += dt
	s.heavyDT += dt
	s.colorDT += dt

	s.updatePointer(dt)
	s.moveParticles(dt)
	s.moveStrays(dt)
	s.moveOrbitals(dt)
	s.advanceTransits(dt)
	s.ageMolecules(dt)
	s.indexParticles()
	s.maintainBonds(dt)

	if s.Frame%s.InteractionEvery() == 0 {
		h := s.heavyDT
		s.heavyDT = 0
		s.formBonds(h)
		s.interactStrays(h)
		s.transferElectrons(h)
		s.jumpElectrons(h)
		s.focusField(h)
		s.pointerSpawn(h)
	}
	if s.Frame%s.ColorEvery() == 0 {
		s.applyColors(s.colorDT)
		s.colorDT = 0
	}
}

// InteractionEvery is the current interaction cadence in frames.
func (s *State) InteractionEvery() uint64 {
	n := max(s.Profile.InteractionEvery, 1)
	if s.Scrolling {
		n *= 3
	}
	return uint64(n)
}

// ColorEvery is the current colour-transition cadence in frames.
func (s *State) ColorEvery() uint64 {
	n := max(s.Profile.ColorEvery, 1)
	if s.Scrolling {
		n *= 2
	}
	return uint64(n)
}

func (s *State) updatePointer(dt float64) {
	pt := &s.Pointer
	if !pt.Active {
		return
	}
	steps := max(int(math.Round(dt)), 1)
	px, py := pt.X, pt.Y
	for i := 0; i < steps; i++ {
		pt.X, pt.vx = s.spring.Update(pt.X, pt.vx, pt.RawX)
		pt.Y, pt.vy = s.spring.Update(pt.Y, pt.vy, pt.RawY)
	}
	pt.moved += math.Hypot(pt.X-px, pt.Y-py)
}

func (s *State) moveParticles(dt float64) {
	prm := s.Params
	flow := s.Profile.FlowField && prm.FlowStrength > 0
	pt := s.Pointer
	damp := math.Pow(prm.Damping, dt)
	for i := range s.Particles {
		p := &s.Particles[i]
		p.Phase += p.PulseSpeed * dt
		if p.BondCooldown > 0 {
			p.BondCooldown = math.Max(0, p.BondCooldown-dt)
		}
		p.Z = core.WrapDepth(p.Z + p.VZ*dt)

		if p.Orbit {
			p.OrbitAngle += p.OrbitSpeed * dt
			p.OrbitCX = core.Wrap(p.OrbitCX+p.VX*dt, s.W, prm.WrapMargin)
			p.OrbitCY = core.Wrap(p.OrbitCY+p.VY*dt, s.H, prm.WrapMargin)
			p.X = p.OrbitCX + math.Cos(p.OrbitAngle)*p.OrbitRadius
			p.Y = p.OrbitCY + math.Sin(p.OrbitAngle)*p.OrbitRadius
			continue
		}

		if flow {
			a := s.noise.Noise3D(p.X*prm.FlowScale, p.Y*prm.FlowScale, s.Time*0.002) * 2 * math.Pi
			p.VX += math.Cos(a) * prm.FlowStrength * dt
			p.VY += math.Sin(a) * prm.FlowStrength * dt
		}
		if pt.Active && prm.PointerRadius > 0 {
			dx, dy := pt.X-p.X, pt.Y-p.Y
			if d := core.Dist(dx, dy); d < prm.PointerRadius {
				k := prm.PointerForce * (1 - d/prm.PointerRadius) * dt
				p.VX += dx / d * k
				p.VY += dy / d * k
			}
		}
		if math.Hypot(p.VX, p.VY) > prm.CruiseSpeed {
			p.VX *= damp
			p.VY *= damp
		}
		p.VX, p.VY = core.LimitSpeed(p.VX, p.VY, prm.MaxSpeed)
		p.X = core.Wrap(p.X+p.VX*dt, s.W, prm.WrapMargin)
		p.Y = core.Wrap(p.Y+p.VY*dt, s.H, prm.WrapMargin)
	}
}

func (s *State) ageMolecules(dt float64) {
	margin := s.Params.WrapMargin * 2
	for i := range s.Molecules {
		m := &s.Molecules[i]
		m.RotX += m.SpinX * dt
		m.RotY += m.SpinY * dt
		m.RotZ += m.SpinZ * dt
		m.X = core.Wrap(m.X+m.VX*dt, s.W, margin)
		m.Y = core.Wrap(m.Y+m.VY*dt, s.H, margin)
		m.Z = core.WrapDepth(m.Z + m.VZ*dt)
		m.Age += dt
		if m.Age > m.Lifetime {
			s.morph(m)
		}
	}
}

// morph advances the shape and regenerates its geometry in one assignment.
func (s *State) morph(m *Molecule) {
	m.Geometry = NewGeometry(m.Shape().Next(), s.geometrySizes(), s.rng)
	m.Age = 0
	m.Lifetime = s.rng.Range(s.Params.MoleculeLifetimeMin, s.Params.MoleculeLifetimeMax)
	s.Stats.Morphs++
}

func (s *State) focusField(dt float64) {
	if !s.HasFocus || s.Params.FocusForce <= 0 {
		return
	}
	cx, cy := s.Focus.Center()
	area := s.Focus.Expand(s.Params.FocusMargin)
	reach := core.FloorDist(math.Hypot(area.W, area.H) / 2)
	for i := range s.Particles {
		p := &s.Particles[i]
		if p.Orbit || !area.Contains(p.X, p.Y) {
			continue
		}
		dx, dy := cx-p.X, cy-p.Y
		d := core.Dist(dx, dy)
		pull := s.Params.FocusForce * math.Max(0, 1-d/reach)
		ripple := math.Sin(d*0.05-s.Time*0.12) * s.Params.FocusRipple * 0.05
		k := (pull - ripple) * dt
		p.VX += dx / d * k
		p.VY += dy / d * k
	}
}

func (s *State) pointerSpawn(dt float64) {
	pt := &s.Pointer
	if !pt.Active {
		return
	}
	moved := pt.moved
	pt.moved = 0
	if moved < 1 || !s.rng.Chance(chance(s.Params.PointerSpawnChance, dt)) {
		return
	}
	s.addStray(s.newEnergy(pt.X, pt.Y, s.sparkColor()))
}

// sparkColor borrows a random particle's target colour.
func (s *State) sparkColor() palette.RGBA {
	if len(s.Particles) == 0 {
		return s.Scheme.Target(palette.Ambient[0])
	}
	return s.Scheme.Target(s.Particles[s.rng.IntN(len(s.Particles))].Base)
}

func (s *State) applyColors(dt float64) {
	sc := s.Scheme
	if !sc.Active() {
		return
	}
	sc.Advance(dt)
	for i := range s.Particles {
		p := &s.Particles[i]
		p.Color = sc.Blend(p.From, p.Base)
	}
	for i := range s.Strays {
		st := &s.Strays[i]
		if st.Energy {
			continue
		}
		st.Color = sc.Blend(st.From, st.Base)
	}
}
