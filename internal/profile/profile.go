// Package profile holds the static quality tiers the engine negotiates between.
package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier is an ordered quality level. Higher values mean more work per frame.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "tier(" + strconv.Itoa(int(t)) + ")"
	}
}

// Valid reports whether t names one of the table entries.
func (t Tier) Valid() bool { return t >= TierLow && t <= TierHigh }

// Down returns the next lower tier, saturating at TierLow.
func (t Tier) Down() Tier {
	if t <= TierLow {
		return TierLow
	}
	return t - 1
}

// Up returns the next higher tier, saturating at TierHigh.
func (t Tier) Up() Tier {
	if t >= TierHigh {
		return TierHigh
	}
	return t + 1
}

// ParseTier converts a tier name into a Tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return TierLow, nil
	case "medium", "med":
		return TierMedium, nil
	case "high":
		return TierHigh, nil
	}
	return TierLow, fmt.Errorf("unknown tier %q", s)
}

// Tiers lists every tier from lowest to highest.
func Tiers() []Tier { return []Tier{TierLow, TierMedium, TierHigh} }

// Profile bundles population ceilings, detail flags and cadences for a tier.
type Profile struct {
	Tier      Tier
	TargetFPS int

	Particles         int
	StrayParticles    int
	MaxStrayParticles int
	OrbitalSystems    int
	RingsPerSystem    int
	ElectronsPerRing  int
	Molecules         int
	LatticeSize       int
	HelixPairs        int

	ConnectionDistance float64
	MaxConnections     int
	GradientLines      bool
	Glow               bool
	Highlights         bool
	Bonds              bool
	ElectronTransfer   bool
	QuantumJumps       bool
	FlowField          bool

	PixelRatioCap    float64
	InteractionEvery int
	ColorEvery       int
}

var table = [...]Profile{
	TierLow: {
		Tier:               TierLow,
		TargetFPS:          30,
		Particles:          40,
		StrayParticles:     10,
		MaxStrayParticles:  24,
		OrbitalSystems:     2,
		RingsPerSystem:     2,
		ElectronsPerRing:   2,
		Molecules:          1,
		LatticeSize:        2,
		HelixPairs:         8,
		ConnectionDistance: 0,
		MaxConnections:     0,
		PixelRatioCap:      1,
		InteractionEvery:   3,
		ColorEvery:         2,
	},
	TierMedium: {
		Tier:               TierMedium,
		TargetFPS:          45,
		Particles:          90,
		StrayParticles:     20,
		MaxStrayParticles:  48,
		OrbitalSystems:     3,
		RingsPerSystem:     3,
		ElectronsPerRing:   3,
		Molecules:          2,
		LatticeSize:        3,
		HelixPairs:         12,
		ConnectionDistance: 110,
		MaxConnections:     3,
		Glow:               true,
		Bonds:              true,
		ElectronTransfer:   true,
		QuantumJumps:       true,
		PixelRatioCap:      1.5,
		InteractionEvery:   2,
		ColorEvery:         1,
	},
	TierHigh: {
		Tier:               TierHigh,
		TargetFPS:          60,
		Particles:          160,
		StrayParticles:     36,
		MaxStrayParticles:  90,
		OrbitalSystems:     5,
		RingsPerSystem:     4,
		ElectronsPerRing:   4,
		Molecules:          3,
		LatticeSize:        3,
		HelixPairs:         16,
		ConnectionDistance: 140,
		MaxConnections:     5,
		GradientLines:      true,
		Glow:               true,
		Highlights:         true,
		Bonds:              true,
		ElectronTransfer:   true,
		QuantumJumps:       true,
		FlowField:          true,
		PixelRatioCap:      2,
		InteractionEvery:   1,
		ColorEvery:         1,
	},
}

// For returns the table entry for t. Out-of-range tiers clamp to the nearest entry.
func For(t Tier) Profile {
	if t < TierLow {
		t = TierLow
	}
	if t > TierHigh {
		t = TierHigh
	}
	return table[t]
}

// FromMap applies key=value overrides on top of base. Unknown keys and
// malformed values are ignored so a bad flag never disables the engine.
func FromMap(base Profile, cfg map[string]string) Profile {
	p := base
	if cfg == nil {
		return p
	}
	ints := map[string]*int{
		"target_fps":          &p.TargetFPS,
		"particles":           &p.Particles,
		"stray_particles":     &p.StrayParticles,
		"max_stray_particles": &p.MaxStrayParticles,
		"orbital_systems":     &p.OrbitalSystems,
		"rings_per_system":    &p.RingsPerSystem,
		"electrons_per_ring":  &p.ElectronsPerRing,
		"molecules":           &p.Molecules,
		"max_connections":     &p.MaxConnections,
		"interaction_every":   &p.InteractionEvery,
		"color_every":         &p.ColorEvery,
	}
	for key, dst := range ints {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
				*dst = parsed
			}
		}
	}
	floats := map[string]*float64{
		"connection_distance": &p.ConnectionDistance,
		"pixel_ratio_cap":     &p.PixelRatioCap,
	}
	for key, dst := range floats {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
				*dst = parsed
			}
		}
	}
	bools := map[string]*bool{
		"gradient_lines":    &p.GradientLines,
		"glow":              &p.Glow,
		"highlights":        &p.Highlights,
		"bonds":             &p.Bonds,
		"electron_transfer": &p.ElectronTransfer,
		"quantum_jumps":     &p.QuantumJumps,
		"flow_field":        &p.FlowField,
	}
	for key, dst := range bools {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseBool(v); err == nil {
				*dst = parsed
			}
		}
	}
	if p.MaxStrayParticles < p.StrayParticles {
		p.MaxStrayParticles = p.StrayParticles
	}
	if p.InteractionEvery <= 0 {
		p.InteractionEvery = 1
	}
	if p.ColorEvery <= 0 {
		p.ColorEvery = 1
	}
	if p.RingsPerSystem <= 0 {
		p.RingsPerSystem = 1
	}
	return p
}
