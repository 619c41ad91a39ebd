package field

import (
	"ionfield/internal/core"
)

func (s *State) bondable(i int) bool {
	p := &s.Particles[i]
	return !p.Orbit && !p.Bonded() && p.BondCooldown <= 0
}

func (s *State) formBonds(dt float64) {
	if !s.Profile.Bonds {
		return
	}
	capture := s.Params.BondCaptureDistance
	pr := chance(s.Params.BondChance, dt)
	for i := range s.Particles {
		if !s.bondable(i) || !s.rng.Chance(pr) {
			continue
		}
		p := &s.Particles[i]
		best, bestD := -1, capture
		s.grid.Near(p.X, p.Y, capture, func(j int) bool {
			if j == i || !s.bondable(j) {
				return true
			}
			q := &s.Particles[j]
			if d := core.Dist(q.X-p.X, q.Y-p.Y); d < bestD {
				best, bestD = j, d
			}
			return true
		})
		if best >= 0 {
			s.bond(i, best)
		}
	}
}

// bond links i and j. Both sides are written together.
func (s *State) bond(i, j int) {
	strength := s.rng.Range(0.4, 1)
	ttl := s.rng.Range(s.Params.BondMinFrames, s.Params.BondMaxFrames)
	for _, pair := range [2][2]int{{i, j}, {j, i}} {
		p := &s.Particles[pair[0]]
		p.Bond = pair[1]
		p.BondStrength = strength
		p.BondAge = 0
		p.BondTTL = ttl
	}
	s.Stats.BondsFormed++
}

// unbond releases i and its partner and starts both cooldowns.
func (s *State) unbond(i int) {
	j := s.Particles[i].Bond
	if j < 0 {
		return
	}
	for _, k := range [2]int{i, j} {
		p := &s.Particles[k]
		p.Bond = -1
		p.BondStrength = 0
		p.BondAge = 0
		p.BondTTL = 0
		p.BondCooldown = s.Params.BondCooldown
	}
	s.Stats.BondsBroken++
}

// maintainBonds ages every bond, breaks expired or stretched ones and pulls
// the rest together. Each pair is visited once, from its lower index.
func (s *State) maintainBonds(dt float64) {
	release := s.Params.BondReleaseDistance
	for i := range s.Particles {
		p := &s.Particles[i]
		j := p.Bond
		if j <= i {
			continue
		}
		q := &s.Particles[j]
		p.BondAge += dt
		q.BondAge = p.BondAge
		dx, dy := q.X-p.X, q.Y-p.Y
		d := core.Dist(dx, dy)
		if p.BondAge >= p.BondTTL || d > release {
			s.unbond(i)
			continue
		}
		remaining := p.BondStrength * (1 - p.BondAge/p.BondTTL)
		f := s.Params.BondPull * remaining * d * dt
		ux, uy := dx/d, dy/d
		p.VX += ux * f
		p.VY += uy * f
		q.VX -= ux * f
		q.VY -= uy * f
	}
}
