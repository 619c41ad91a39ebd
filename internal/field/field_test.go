package field

import (
	"math"
	"testing"

	"ionfield/internal/core"
	"ionfield/internal/palette"
	"ionfield/internal/profile"
)

func newTestState(t *testing.T, seed int64, tier profile.Tier, w, h float64, tune func(*Params)) *State {
	t.Helper()
	params := DefaultParams()
	if tune != nil {
		tune(&params)
	}
	s := NewState(core.NewRNG(seed), params)
	s.Refresh(profile.For(tier), w, h)
	return s
}

func TestRefreshIsIdempotentInSize(t *testing.T) {
	for _, tier := range profile.Tiers() {
		for _, vp := range [][2]float64{{1280, 800}, {600, 900}, {320, 480}} {
			s := newTestState(t, 7, tier, vp[0], vp[1], nil)
			sizes := func() [4]int {
				return [4]int{len(s.Particles), len(s.Strays), len(s.Orbitals), len(s.Molecules)}
			}
			first := sizes()
			for i := 0; i < 3; i++ {
				s.Refresh(profile.For(tier), vp[0], vp[1])
				if got := sizes(); got != first {
					t.Fatalf("%s %v: refresh %d sizes %v, want %v", tier, vp, i, got, first)
				}
			}
			want := [4]int{s.ParticleCount(), s.StrayCount(), s.OrbitalCount(), s.MoleculeCount()}
			if first != want {
				t.Fatalf("%s %v: sizes %v, want %v", tier, vp, first, want)
			}
		}
	}
}

func TestNarrowViewportCapsPopulations(t *testing.T) {
	p := profile.For(profile.TierHigh)
	s := newTestState(t, 1, profile.TierHigh, 600, 900, nil)
	if len(s.Particles) != p.Particles/2 {
		t.Fatalf("particles = %d, want %d", len(s.Particles), p.Particles/2)
	}
	if len(s.Orbitals) > 2 || len(s.Molecules) > 1 {
		t.Fatalf("narrow caps not applied: %d orbitals, %d molecules", len(s.Orbitals), len(s.Molecules))
	}
	small := newTestState(t, 1, profile.TierHigh, 320, 480, nil)
	if len(small.Strays) > smallAreaStray {
		t.Fatalf("small viewport strays = %d", len(small.Strays))
	}
}

func TestStrayCeilingHoldsAfterEveryInsert(t *testing.T) {
	s := newTestState(t, 3, profile.TierHigh, 1280, 800, nil)
	s.Profile.MaxStrayParticles = 5
	s.Strays = s.Strays[:0]
	for i := 0; i < 20; i++ {
		st := s.newStray(float64(i), 0)
		s.addStray(st)
		if len(s.Strays) > 5 {
			t.Fatalf("insert %d: %d strays exceed ceiling", i, len(s.Strays))
		}
	}
	if s.Stats.Evictions != 15 {
		t.Fatalf("evictions = %d, want 15", s.Stats.Evictions)
	}
	for i, st := range s.Strays {
		if st.X != float64(15+i) {
			t.Fatalf("stray %d has x=%v; oldest were not evicted first", i, st.X)
		}
	}
}

func TestStrayCeilingHoldsWhileRunning(t *testing.T) {
	s := newTestState(t, 5, profile.TierHigh, 1280, 800, func(p *Params) {
		p.CaptureChance = 1
		p.JumpChance = 0.5
		p.PointerSpawnChance = 1
	})
	for i := 0; i < 600; i++ {
		s.SetPointer(float64(i%1280), 400)
		Step(s, 1)
		if len(s.Strays) > s.Profile.MaxStrayParticles {
			t.Fatalf("frame %d: %d strays > %d", i, len(s.Strays), s.Profile.MaxStrayParticles)
		}
	}
}

func electronIDs(t *testing.T, s *State) map[uint32]int {
	t.Helper()
	seen := make(map[uint32]int)
	for oi := range s.Orbitals {
		o := &s.Orbitals[oi]
		for _, r := range o.Rings {
			for _, e := range r.Electrons {
				seen[e.ID]++
			}
		}
		for _, tr := range o.InTransit {
			if tr.Target == oi || tr.Target < 0 || tr.Target >= len(s.Orbitals) {
				t.Fatalf("system %d has transit with bad target %d", oi, tr.Target)
			}
			if tr.Progress < 0 || tr.Progress > 1 {
				t.Fatalf("transit progress %v out of range", tr.Progress)
			}
			seen[tr.Electron.ID]++
		}
	}
	return seen
}

func TestElectronsAreConserved(t *testing.T) {
	s := newTestState(t, 11, profile.TierHigh, 1280, 800, func(p *Params) {
		p.CaptureChance = 0
		p.TransferChance = 0.5
		p.TransferDistance = 1e6
		p.TransferCooldownMin = 5
		p.TransferCooldownMax = 10
		p.JumpChance = 0.2
		p.JumpCooldownMin = 1
		p.JumpCooldownMax = 5
	})
	initial := electronIDs(t, s)
	for i := 0; i < 3000; i++ {
		Step(s, 1)
		seen := electronIDs(t, s)
		if len(seen) != len(initial) {
			t.Fatalf("frame %d: %d electrons, want %d", i, len(seen), len(initial))
		}
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("frame %d: electron %d held %d times", i, id, n)
			}
			if initial[id] != 1 {
				t.Fatalf("frame %d: unknown electron %d", i, id)
			}
		}
	}
	if s.Stats.Transfers == 0 || s.Stats.Arrivals == 0 || s.Stats.Jumps == 0 {
		t.Fatalf("protocol never ran: %+v", s.Stats)
	}
}

func TestQuantumJumpLandsInAdjacentRing(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		s := newTestState(t, seed, profile.TierHigh, 1280, 800, nil)
		rng := s.RNG()
		for trial := 0; trial < 100; trial++ {
			oi := rng.IntN(len(s.Orbitals))
			o := &s.Orbitals[oi]
			o.Excited = rng.Bool()
			ri := s.sourceRing(o)
			if ri < 0 {
				continue
			}
			before := o.ElectronCount()
			to := s.quantumJump(oi, ri, 0)
			if to < 0 || to >= len(o.Rings) {
				t.Fatalf("seed %d: jump from ring %d landed in %d of %d", seed, ri, to, len(o.Rings))
			}
			if d := to - ri; d < -1 || d > 1 {
				t.Fatalf("seed %d: jump from ring %d to %d is not adjacent", seed, ri, to)
			}
			if o.ElectronCount() != before {
				t.Fatalf("seed %d: jump changed electron count %d → %d", seed, before, o.ElectronCount())
			}
		}
	}
}

func TestBondsStaySymmetric(t *testing.T) {
	s := newTestState(t, 13, profile.TierHigh, 1024, 768, func(p *Params) {
		p.BondChance = 1
		p.BondCaptureDistance = 60
	})
	for i := 0; i < 900; i++ {
		Step(s, 1)
		for a := range s.Particles {
			b := s.Particles[a].Bond
			if b < 0 {
				continue
			}
			if b == a || b >= len(s.Particles) {
				t.Fatalf("frame %d: particle %d bonded to %d", i, a, b)
			}
			if s.Particles[b].Bond != a {
				t.Fatalf("frame %d: %d→%d but %d→%d", i, a, b, b, s.Particles[b].Bond)
			}
			if s.Particles[a].Orbit {
				t.Fatalf("frame %d: orbiting particle %d bonded", i, a)
			}
		}
	}
	if s.Stats.BondsFormed == 0 || s.Stats.BondsBroken == 0 {
		t.Fatalf("bonds never cycled: %+v", s.Stats)
	}
}

func TestBrokenBondsCoolDown(t *testing.T) {
	s := newTestState(t, 2, profile.TierHigh, 1280, 800, nil)
	a, b := -1, -1
	for i := range s.Particles {
		if s.Particles[i].Orbit {
			continue
		}
		if a < 0 {
			a = i
		} else {
			b = i
			break
		}
	}
	s.bond(a, b)
	s.unbond(b)
	for _, k := range []int{a, b} {
		p := s.Particles[k]
		if p.Bonded() || p.BondCooldown != s.Params.BondCooldown {
			t.Fatalf("particle %d after unbond: bond=%d cooldown=%v", k, p.Bond, p.BondCooldown)
		}
		if s.bondable(k) {
			t.Fatalf("particle %d bondable during cooldown", k)
		}
	}
}

func TestMorphRegeneratesConsistentGeometry(t *testing.T) {
	s := newTestState(t, 17, profile.TierHigh, 1280, 800, nil)
	if len(s.Molecules) == 0 {
		t.Fatal("no molecules")
	}
	m := &s.Molecules[0]
	for cycle := 0; cycle < 6; cycle++ {
		shape := m.Shape()
		rot := m.RotY
		m.Age = m.Lifetime + 1
		Step(s, 1)
		if m.Shape() != shape.Next() {
			t.Fatalf("cycle %d: shape %s, want %s", cycle, m.Shape(), shape.Next())
		}
		if err := m.Geometry.Validate(); err != nil {
			t.Fatalf("cycle %d: %s geometry invalid: %v", cycle, m.Shape(), err)
		}
		if m.RotY == rot && m.SpinY != 0 {
			t.Fatalf("cycle %d: rotation did not advance", cycle)
		}
	}
}

func TestGeometryShapes(t *testing.T) {
	rng := core.NewRNG(4)
	sizes := GeometrySizes{HelixPairs: 12, LatticeSize: 3}
	for _, shape := range []Shape{ShapeHelix, ShapeLattice, ShapePolyatomic} {
		g := NewGeometry(shape, sizes, rng)
		if g.Shape != shape {
			t.Fatalf("NewGeometry(%s) tagged %s", shape, g.Shape)
		}
		if err := g.Validate(); err != nil {
			t.Fatalf("%s: %v", shape, err)
		}
	}
	if n := len(NewGeometry(ShapeLattice, sizes, rng).Points); n != 27 {
		t.Fatalf("3-lattice has %d nodes, want 27", n)
	}
	if n := len(NewGeometry(ShapeHelix, sizes, rng).Points); n != 24 {
		t.Fatalf("12-pair helix has %d points, want 24", n)
	}
	bad := Geometry{Shape: ShapeLattice, Points: []Point3{{}}, Radii: []float64{1}, Links: []Link{{From: 0, To: 3}}}
	if bad.Validate() == nil {
		t.Fatal("out-of-range link accepted")
	}
}

func TestColorsStayClampedThroughTransition(t *testing.T) {
	s := newTestState(t, 19, profile.TierMedium, 1280, 800, nil)
	s.SetFocusColor(palette.RGBA{R: 400, G: -20, B: 128, A: 3})
	check := func(stage string) {
		for i := range s.Particles {
			if c := s.Particles[i].Color; !c.Valid() {
				t.Fatalf("%s: particle %d colour %+v out of range", stage, i, c)
			}
		}
		for i := range s.Strays {
			if c := s.Strays[i].Color; !c.Valid() {
				t.Fatalf("%s: stray %d colour %+v out of range", stage, i, c)
			}
		}
	}
	for i := 0; i < 120; i++ {
		Step(s, 1)
		check("focus")
	}
	if s.Scheme.Active() {
		t.Fatal("transition still active after 120 frames")
	}
	s.ClearFocusColor()
	for i := 0; i < 120; i++ {
		Step(s, 1)
		check("clear")
	}
	for i := range s.Particles {
		p := s.Particles[i]
		if p.Color != p.Base.Clamp() {
			t.Fatalf("particle %d did not return to base: %+v vs %+v", i, p.Color, p.Base)
		}
	}
}

func TestCompletedTransitionIsFixedPoint(t *testing.T) {
	s := newTestState(t, 23, profile.TierHigh, 1280, 800, nil)
	s.SetFocusColor(palette.FocusColor(2))
	for s.Scheme.Active() {
		Step(s, 1)
	}
	if s.Scheme.Progress() != 1 {
		t.Fatalf("progress = %v", s.Scheme.Progress())
	}
	want := make([]palette.RGBA, len(s.Particles))
	for i := range s.Particles {
		want[i] = s.Particles[i].Color
	}
	for round := 0; round < 5; round++ {
		s.Scheme.SetProgress(1)
		s.applyColors(1)
		Step(s, 1)
		for i := range s.Particles {
			p := s.Particles[i]
			if got := s.Scheme.Blend(p.From, p.Base); got != want[i] {
				t.Fatalf("round %d: blend for %d moved %+v → %+v", round, i, want[i], got)
			}
			if p.Color != want[i] {
				t.Fatalf("round %d: particle %d changed colour", round, i)
			}
		}
	}
}

func TestStepClampsDTAndKeepsDepth(t *testing.T) {
	s := newTestState(t, 29, profile.TierHigh, 1280, 800, nil)
	before := s.Time
	Step(s, math.NaN())
	Step(s, -3)
	Step(s, 100)
	if got := s.Time - before; got != MaxStepDT {
		t.Fatalf("time advanced %v, want %v", got, float64(MaxStepDT))
	}
	for i := 0; i < 300; i++ {
		Step(s, 2.5)
	}
	m := s.Params.WrapMargin
	for i, p := range s.Particles {
		if !(p.Z > 0 && p.Z <= 1) {
			t.Fatalf("particle %d depth %v outside (0,1]", i, p.Z)
		}
		if p.Orbit {
			continue
		}
		if p.X < -m || p.X > s.W+m || p.Y < -m || p.Y > s.H+m {
			t.Fatalf("particle %d escaped wrap margin at (%v, %v)", i, p.X, p.Y)
		}
		if math.IsNaN(p.X) || math.IsNaN(p.VX) {
			t.Fatalf("particle %d went NaN", i)
		}
	}
}

func TestScrollingStretchesCadence(t *testing.T) {
	s := newTestState(t, 1, profile.TierHigh, 1280, 800, nil)
	if s.InteractionEvery() != 1 || s.ColorEvery() != 1 {
		t.Fatalf("high cadence = %d/%d", s.InteractionEvery(), s.ColorEvery())
	}
	s.Scrolling = true
	if s.InteractionEvery() != 3 || s.ColorEvery() != 2 {
		t.Fatalf("scrolling cadence = %d/%d", s.InteractionEvery(), s.ColorEvery())
	}
}

func TestPointerSpringSettles(t *testing.T) {
	s := newTestState(t, 1, profile.TierLow, 1280, 800, nil)
	s.SetPointer(100, 100)
	if s.Pointer.X != 100 {
		t.Fatalf("first pointer sample should snap, got %v", s.Pointer.X)
	}
	s.SetPointer(300, 200)
	for i := 0; i < 180; i++ {
		Step(s, 1)
	}
	if math.Abs(s.Pointer.X-300) > 1 || math.Abs(s.Pointer.Y-200) > 1 {
		t.Fatalf("pointer at (%v, %v), want ~(300, 200)", s.Pointer.X, s.Pointer.Y)
	}
	s.ClearPointer()
	if s.Pointer.Active {
		t.Fatal("pointer still active")
	}
}

func TestStrayLifecycleAndEnergyExpiry(t *testing.T) {
	s := newTestState(t, 31, profile.TierLow, 1280, 800, func(p *Params) { p.CaptureChance = 0 })
	s.Strays[0].Age = s.Strays[0].Lifespan + 1
	Step(s, 1)
	if s.Stats.Flips+s.Stats.Relocations != 1 {
		t.Fatalf("expected one lifecycle event, got %+v", s.Stats)
	}
	s.burst(640, 400, palette.Ambient[0], 4)
	for i := 0; i < int(s.Params.EnergyMaxAge)+2; i++ {
		Step(s, 1)
	}
	for i, st := range s.Strays {
		if st.Energy {
			t.Fatalf("energy stray %d survived with radius %v age %v", i, st.Radius, st.Age)
		}
	}
}

func TestTransitPoint(t *testing.T) {
	x, y := TransitPoint(0, 0, 100, 50, 0.3, 0)
	if x != 0 || y != 0 {
		t.Fatalf("t=0 at (%v, %v)", x, y)
	}
	x, y = TransitPoint(0, 0, 100, 50, 0.3, 1)
	if x != 100 || y != 50 {
		t.Fatalf("t=1 at (%v, %v)", x, y)
	}
	x, y = TransitPoint(0, 0, 100, 0, 0, 0.5)
	if x != 50 || y != 0 {
		t.Fatalf("straight midpoint at (%v, %v)", x, y)
	}
	_, y = TransitPoint(0, 0, 100, 0, 0.5, 0.5)
	if y <= 0 {
		t.Fatalf("positive bulge should bow the curve, y=%v", y)
	}
}

func TestParamsFromMap(t *testing.T) {
	p := FromMap(map[string]string{
		"bond_chance":           "0.5",
		"burst_size":            "9",
		"bond_release_distance": "1",
		"pointer_radius":        "-5",
		"jump_chance":           "junk",
	})
	def := DefaultParams()
	if p.BondChance != 0.5 || p.BurstSize != 9 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.BondReleaseDistance != p.BondCaptureDistance {
		t.Fatalf("release %v below capture %v", p.BondReleaseDistance, p.BondCaptureDistance)
	}
	if p.PointerRadius != def.PointerRadius || p.JumpChance != def.JumpChance {
		t.Fatal("invalid values should be ignored")
	}
}

func TestFlowFieldPushesFreeParticles(t *testing.T) {
	speedAfterStep := func(strength float64, flowOn bool) float64 {
		s := newTestState(t, 11, profile.TierHigh, 1280, 800, func(p *Params) { p.FlowStrength = strength })
		s.Profile.FlowField = flowOn
		s.Particles = s.Particles[:1]
		p := &s.Particles[0]
		p.Orbit, p.Bond, p.BondCooldown = false, -1, 0
		p.X, p.Y, p.VX, p.VY = 423.7, 311.2, 0, 0
		s.Strays, s.Orbitals, s.Molecules = nil, nil, nil
		Step(s, 1)
		return math.Hypot(s.Particles[0].VX, s.Particles[0].VY)
	}
	if got := speedAfterStep(0, true); got != 0 {
		t.Fatalf("zero flow strength moved the particle: speed %v", got)
	}
	if got := speedAfterStep(0.02, false); got != 0 {
		t.Fatalf("flow applied with the profile flag off: speed %v", got)
	}
	if got := speedAfterStep(0.02, true); math.Abs(got-0.02) > 1e-9 {
		t.Fatalf("flow impulse speed = %v, want 0.02", got)
	}
}
