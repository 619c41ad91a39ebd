package field

import (
	"math"

	"ionfield/internal/core"
)

// ElectronOffset returns an electron's position relative to its nucleus for
// the given angle. dz is signed pseudo-depth in ring units.
func ElectronOffset(r *Ring, angle float64) (dx, dy, dz float64) {
	rad := r.Radius
	switch r.State {
	case StateP:
		rad *= 1 + 0.18*math.Cos(2*angle)
	case StateD:
		rad *= 1 + 0.12*math.Cos(3*angle)
	}
	x := math.Cos(angle) * rad
	y0 := math.Sin(angle) * rad
	y := y0 * math.Cos(r.Inclination)
	z := y0 * math.Sin(r.Inclination)
	st, ct := math.Sincos(r.Tilt)
	return x*ct - y*st, x*st + y*ct, z
}

// ElectronPosition returns the world position of electron k in ring ri of system oi.
func (s *State) ElectronPosition(oi, ri, k int) (float64, float64) {
	o := &s.Orbitals[oi]
	r := &o.Rings[ri]
	dx, dy, _ := ElectronOffset(r, r.Electrons[k].Angle)
	return o.X + dx, o.Y + dy
}

// TransitPoint evaluates the quadratic curve from (x0, y0) to (x1, y1) at t.
// The control point sits off the midpoint by bulge times the chord length.
func TransitPoint(x0, y0, x1, y1, bulge, t float64) (float64, float64) {
	t = core.Clamp01(t)
	dx, dy := x1-x0, y1-y0
	cx := (x0+x1)/2 - dy*bulge
	cy := (y0+y1)/2 + dx*bulge
	u := 1 - t
	return u*u*x0 + 2*u*t*cx + t*t*x1, u*u*y0 + 2*u*t*cy + t*t*y1
}

// TransitPosition returns the current position of a transit owned by system oi.
func (s *State) TransitPosition(oi int, t *Transit) (float64, float64) {
	src := &s.Orbitals[oi]
	if t.Target < 0 || t.Target >= len(s.Orbitals) {
		return src.X, src.Y
	}
	dst := &s.Orbitals[t.Target]
	return TransitPoint(src.X, src.Y, dst.X, dst.Y, t.Bulge, t.Progress)
}

func (s *State) moveOrbitals(dt float64) {
	for oi := range s.Orbitals {
		o := &s.Orbitals[oi]
		margin := o.OuterRadius() + s.Params.WrapMargin
		o.X = core.Wrap(o.X+o.VX*dt, s.W, margin)
		o.Y = core.Wrap(o.Y+o.VY*dt, s.H, margin)
		o.Phase += 0.02 * dt
		if o.Excited {
			o.ExcitedTimer -= dt
			if o.ExcitedTimer <= 0 {
				o.Excited = false
				o.ExcitedTimer = 0
			}
		}
		if o.TransferCooldown > 0 {
			o.TransferCooldown = math.Max(0, o.TransferCooldown-dt)
		}
		boost := 1.0
		if o.Excited {
			boost = 1.6
		}
		for ri := range o.Rings {
			r := &o.Rings[ri]
			for k := range r.Electrons {
				e := &r.Electrons[k]
				e.Angle = math.Mod(e.Angle+e.Speed*boost*dt, 2*math.Pi)
				e.Phase += 0.05 * dt
				if e.Cooldown > 0 {
					e.Cooldown = math.Max(0, e.Cooldown-dt)
				}
			}
		}
	}
}

// advanceTransits moves in-transit electrons and lands finished ones on the
// target's outermost ring.
func (s *State) advanceTransits(dt float64) {
	for oi := range s.Orbitals {
		o := &s.Orbitals[oi]
		if len(o.InTransit) == 0 {
			continue
		}
		kept := o.InTransit[:0]
		var landed []Transit
		for _, t := range o.InTransit {
			t.Progress += t.Speed * dt
			t.Electron.Phase += 0.1 * dt
			if t.Progress >= 1 {
				t.Progress = 1
				landed = append(landed, t)
				continue
			}
			kept = append(kept, t)
		}
		o.InTransit = kept
		for i := range landed {
			s.land(oi, &landed[i])
		}
	}
}

func (s *State) land(oi int, t *Transit) {
	target := t.Target
	if target < 0 || target >= len(s.Orbitals) || len(s.Orbitals[target].Rings) == 0 {
		target = oi
	}
	dst := &s.Orbitals[target]
	ring := &dst.Rings[len(dst.Rings)-1]
	e := t.Electron
	e.Angle = s.rng.Range(0, 2*math.Pi)
	e.Cooldown = s.rng.Range(s.Params.JumpCooldownMin, s.Params.JumpCooldownMax)
	if len(ring.Electrons) > 0 && math.Signbit(ring.Electrons[0].Speed) != math.Signbit(e.Speed) {
		e.Speed = -e.Speed
	}
	ring.Electrons = append(ring.Electrons, e)
	dst.Excited = true
	dst.ExcitedTimer = s.Params.ExcitedFrames
	s.Stats.Arrivals++
	if s.rng.Bool() {
		s.burst(dst.X, dst.Y, dst.Color, max(s.Params.BurstSize/2, 1))
	}
}

func (s *State) transferElectrons(dt float64) {
	if !s.Profile.ElectronTransfer || len(s.Orbitals) < 2 {
		return
	}
	for oi := range s.Orbitals {
		o := &s.Orbitals[oi]
		if o.TransferCooldown > 0 {
			continue
		}
		energy := o.Energy()
		if energy == 0 {
			continue
		}
		if !s.rng.Chance(chance(s.Params.TransferChance*(1+energy/10), dt)) {
			continue
		}
		target := s.transferTarget(oi)
		if target < 0 {
			continue
		}
		ri := s.sourceRing(o)
		if ri < 0 {
			continue
		}
		s.beginTransit(oi, ri, s.rng.IntN(len(o.Rings[ri].Electrons)), target)
	}
}

// transferTarget picks a random other system within TransferDistance, or -1.
func (s *State) transferTarget(oi int) int {
	o := &s.Orbitals[oi]
	var candidates []int
	for j := range s.Orbitals {
		if j == oi {
			continue
		}
		if core.Dist(s.Orbitals[j].X-o.X, s.Orbitals[j].Y-o.Y) <= s.Params.TransferDistance {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[s.rng.IntN(len(candidates))]
}

// sourceRing picks a random non-empty ring, or -1.
func (s *State) sourceRing(o *Orbital) int {
	var rings []int
	for ri := range o.Rings {
		if len(o.Rings[ri].Electrons) > 0 {
			rings = append(rings, ri)
		}
	}
	if len(rings) == 0 {
		return -1
	}
	return rings[s.rng.IntN(len(rings))]
}

// beginTransit moves electron k of ring ri into system oi's transit list.
func (s *State) beginTransit(oi, ri, k, target int) {
	o := &s.Orbitals[oi]
	ring := &o.Rings[ri]
	e := ring.Electrons[k]
	ring.Electrons = removeElectron(ring.Electrons, k)
	o.InTransit = append(o.InTransit, Transit{
		Electron:   e,
		Target:     target,
		SourceRing: ri,
		Speed:      s.rng.Range(s.Params.TransitSpeedMin, s.Params.TransitSpeedMax),
		Bulge:      s.rng.Range(-0.35, 0.35),
	})
	o.TransferCooldown = s.rng.Range(s.Params.TransferCooldownMin, s.Params.TransferCooldownMax)
	s.Stats.Transfers++
}

func removeElectron(es []Electron, k int) []Electron {
	last := len(es) - 1
	es[k] = es[last]
	return es[:last]
}

func (s *State) jumpElectrons(dt float64) {
	if !s.Profile.QuantumJumps {
		return
	}
	pj := chance(s.Params.JumpChance, dt)
	for oi := range s.Orbitals {
		o := &s.Orbitals[oi]
		for ri := range o.Rings {
			for k := 0; k < len(o.Rings[ri].Electrons); k++ {
				if o.Rings[ri].Electrons[k].Cooldown > 0 || !s.rng.Chance(pj) {
					continue
				}
				if s.quantumJump(oi, ri, k) != ri {
					// the slot now holds the ring's former last electron
					k--
				}
			}
		}
	}
}

// quantumJump gives electron k of ring ri a new angle and possibly moves it
// to an adjacent ring, outward-biased when the system is excited. It returns
// the ring the electron ends up in.
func (s *State) quantumJump(oi, ri, k int) int {
	o := &s.Orbitals[oi]
	x, y := s.ElectronPosition(oi, ri, k)
	ring := &o.Rings[ri]
	e := &ring.Electrons[k]
	e.Angle = s.rng.Range(0, 2*math.Pi)
	e.Cooldown = s.rng.Range(s.Params.JumpCooldownMin, s.Params.JumpCooldownMax)
	s.Stats.Jumps++

	to := ri
	if len(o.Rings) > 1 && s.rng.Bool() {
		outward := 0.3
		if o.Excited {
			outward = 0.75
		}
		dir := -1
		if s.rng.Chance(outward) {
			dir = 1
		}
		to = ri + dir
		if to < 0 || to >= len(o.Rings) {
			to = ri - dir
		}
		moved := *e
		ring.Electrons = removeElectron(ring.Electrons, k)
		o.Rings[to].Electrons = append(o.Rings[to].Electrons, moved)
	}
	s.burst(x, y, o.Color, max(s.Params.BurstSize/2, 1))
	return to
}
