package field

import (
	"math"

	"ionfield/internal/core"
	"ionfield/internal/palette"
)

// addStray appends st and evicts the oldest strays beyond the profile ceiling.
func (s *State) addStray(st Stray) {
	s.Strays = append(s.Strays, st)
	over := len(s.Strays) - max(s.Profile.MaxStrayParticles, 0)
	if over <= 0 {
		return
	}
	n := copy(s.Strays, s.Strays[over:])
	s.Strays = s.Strays[:n]
	s.Stats.Evictions += over
}

// burst emits n energy strays at (x, y).
func (s *State) burst(x, y float64, c palette.RGBA, n int) {
	for i := 0; i < n; i++ {
		s.addStray(s.newEnergy(x, y, c))
	}
}

func (s *State) moveStrays(dt float64) {
	prm := s.Params
	drag := math.Pow(0.96, dt)
	kept := s.Strays[:0]
	for _, st := range s.Strays {
		st.Phase += st.PulseSpeed * dt
		st.Age += dt
		if st.Energy {
			st.Radius -= st.Shrink * dt
			if st.Radius < prm.EnergyMinSize || st.Age > prm.EnergyMaxAge {
				continue
			}
			st.VX *= drag
			st.VY *= drag
		} else if st.Age > st.Lifespan {
			s.cycleStray(&st)
		}
		st.X = core.Wrap(st.X+st.VX*dt, s.W, prm.WrapMargin)
		st.Y = core.Wrap(st.Y+st.VY*dt, s.H, prm.WrapMargin)
		kept = append(kept, st)
	}
	s.Strays = kept
}

// cycleStray ends a stray's lifespan by flipping its ion state or relocating it.
func (s *State) cycleStray(st *Stray) {
	if s.rng.Bool() {
		st.Ion = !st.Ion
		if st.Ion && st.Charge == 0 {
			st.Charge = int(s.rng.Sign())
		}
		s.Stats.Flips++
	} else {
		st.X, st.Y = s.randomEdge()
		st.VX = s.rng.Range(-0.5, 0.5)
		st.VY = s.rng.Range(-0.5, 0.5)
		s.Stats.Relocations++
	}
	st.Age = 0
	st.Lifespan = s.rng.Range(300, 900)
}

type capture struct {
	x, y    float64
	orbital int
	color   palette.RGBA
}

// interactStrays pushes charged strays around orbital systems and captures
// ions that reach an oppositely charged system.
func (s *State) interactStrays(dt float64) {
	if len(s.Orbitals) == 0 || len(s.Strays) == 0 {
		return
	}
	prm := s.Params
	pc := chance(prm.CaptureChance, dt)
	var captured []capture
	kept := s.Strays[:0]
	for _, st := range s.Strays {
		q := st.EffectiveCharge()
		taken := false
		for oi := range s.Orbitals {
			if q == 0 {
				break
			}
			o := &s.Orbitals[oi]
			outer := o.OuterRadius()
			infl := outer * prm.InfluenceScale
			dx, dy := o.X-st.X, o.Y-st.Y
			d := core.Dist(dx, dy)
			if d > infl {
				continue
			}
			sign := float64(q * o.Charge)
			k := prm.IonForce * (1 - d/core.FloorDist(infl)) * dt
			st.VX -= sign * dx / d * k
			st.VY -= sign * dy / d * k
			st.VX, st.VY = core.LimitSpeed(st.VX, st.VY, prm.IonMaxSpeed)
			if sign < 0 && d < outer && o.ElectronCount() < s.captureCap(o) && s.rng.Chance(pc) {
				captured = append(captured, capture{x: st.X, y: st.Y, orbital: oi, color: st.Color})
				taken = true
				break
			}
		}
		if !taken {
			kept = append(kept, st)
		}
	}
	s.Strays = kept
	for _, c := range captured {
		s.captureInto(c)
	}
}

func (s *State) captureCap(o *Orbital) int {
	return len(o.Rings) * max(s.Profile.ElectronsPerRing, 1) * 2
}

func (s *State) captureInto(c capture) {
	o := &s.Orbitals[c.orbital]
	if len(o.Rings) == 0 {
		return
	}
	ring := &o.Rings[len(o.Rings)-1]
	dir := 1.0
	if len(ring.Electrons) > 0 && ring.Electrons[0].Speed < 0 {
		dir = -1
	}
	e := s.newElectron(math.Atan2(c.y-o.Y, c.x-o.X), dir*s.rng.Range(0.01, 0.02))
	e.Ionized = true
	ring.Electrons = append(ring.Electrons, e)
	s.Stats.Captures++
	s.burst(c.x, c.y, c.color, s.Params.BurstSize)
}
