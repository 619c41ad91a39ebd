package field

import "strconv"

// Params holds the physical tunables of the simulation. Population sizes live
// in the tier profile; these stay fixed across tiers.
type Params struct {
	WrapMargin     float64
	MaxSpeed       float64
	CruiseSpeed    float64
	Damping        float64
	PulseAmplitude float64

	FlowStrength float64
	FlowScale    float64

	BondCaptureDistance float64
	BondReleaseDistance float64
	BondChance          float64
	BondMinFrames       float64
	BondMaxFrames       float64
	BondCooldown        float64
	BondPull            float64

	InfluenceScale float64
	IonForce       float64
	IonMaxSpeed    float64
	CaptureChance  float64

	TransferChance      float64
	TransferDistance    float64
	TransferCooldownMin float64
	TransferCooldownMax float64
	TransitSpeedMin     float64
	TransitSpeedMax     float64

	JumpChance      float64
	JumpCooldownMin float64
	JumpCooldownMax float64
	ExcitedFrames   float64

	MoleculeLifetimeMin float64
	MoleculeLifetimeMax float64

	EnergyMinSize float64
	EnergyMaxAge  float64
	BurstSize     int

	PointerRadius      float64
	PointerForce       float64
	PointerSpawnChance float64

	FocusForce  float64
	FocusMargin float64
	FocusRipple float64
}

// DefaultParams returns the standard tuning.
func DefaultParams() Params {
	return Params{
		WrapMargin:     40,
		MaxSpeed:       2.4,
		CruiseSpeed:    0.6,
		Damping:        0.97,
		PulseAmplitude: 0.25,

		FlowStrength: 0.012,
		FlowScale:    0.0035,

		BondCaptureDistance: 28,
		BondReleaseDistance: 90,
		BondChance:          0.05,
		BondMinFrames:       120,
		BondMaxFrames:       420,
		BondCooldown:        180,
		BondPull:            0.0025,

		InfluenceScale: 2.5,
		IonForce:       0.06,
		IonMaxSpeed:    2.2,
		CaptureChance:  0.03,

		TransferChance:      0.0025,
		TransferDistance:    420,
		TransferCooldownMin: 90,
		TransferCooldownMax: 240,
		TransitSpeedMin:     0.008,
		TransitSpeedMax:     0.018,

		JumpChance:      0.0015,
		JumpCooldownMin: 60,
		JumpCooldownMax: 180,
		ExcitedFrames:   180,

		MoleculeLifetimeMin: 600,
		MoleculeLifetimeMax: 1200,

		EnergyMinSize: 0.35,
		EnergyMaxAge:  90,
		BurstSize:     5,

		PointerRadius:      160,
		PointerForce:       0.05,
		PointerSpawnChance: 0.15,

		FocusForce:  0.03,
		FocusMargin: 120,
		FocusRipple: 0.6,
	}
}

// FromMap populates Params from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Params {
	p := DefaultParams()
	if cfg == nil {
		return p
	}
	floats := map[string]*float64{
		"wrap_margin":           &p.WrapMargin,
		"max_speed":             &p.MaxSpeed,
		"cruise_speed":          &p.CruiseSpeed,
		"damping":               &p.Damping,
		"pulse_amplitude":       &p.PulseAmplitude,
		"flow_strength":         &p.FlowStrength,
		"flow_scale":            &p.FlowScale,
		"bond_capture_distance": &p.BondCaptureDistance,
		"bond_release_distance": &p.BondReleaseDistance,
		"bond_chance":           &p.BondChance,
		"bond_cooldown":         &p.BondCooldown,
		"bond_pull":             &p.BondPull,
		"ion_force":             &p.IonForce,
		"capture_chance":        &p.CaptureChance,
		"transfer_chance":       &p.TransferChance,
		"transfer_distance":     &p.TransferDistance,
		"jump_chance":           &p.JumpChance,
		"pointer_radius":        &p.PointerRadius,
		"pointer_force":         &p.PointerForce,
		"pointer_spawn_chance":  &p.PointerSpawnChance,
		"focus_force":           &p.FocusForce,
		"focus_margin":          &p.FocusMargin,
	}
	for key, dst := range floats {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
				*dst = parsed
			}
		}
	}
	if v, ok := cfg["burst_size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.BurstSize = parsed
		}
	}
	if p.BondReleaseDistance < p.BondCaptureDistance {
		p.BondReleaseDistance = p.BondCaptureDistance
	}
	if p.Damping > 1 {
		p.Damping = 1
	}
	return p
}
