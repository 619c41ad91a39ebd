package engine

import (
	"fmt"

	"ionfield/internal/core"
	"ionfield/internal/field"
	"ionfield/internal/governor"
	"ionfield/internal/profile"
	"ionfield/internal/render"
)

// Canvas returns the backing canvas, or nil when unmounted.
func (e *Engine) Canvas() *render.Canvas {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	return e.canvas
}

// State returns the simulation state, or nil when unmounted.
func (e *Engine) State() *field.State {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	return e.state
}

// Tier returns the active tier.
func (e *Engine) Tier() profile.Tier {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	if e.gov == nil {
		return profile.TierLow
	}
	return e.gov.Tier()
}

// Changes returns every governor transition since Mount.
func (e *Engine) Changes() []governor.Change {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	if e.gov == nil {
		return nil
	}
	return append([]governor.Change(nil), e.gov.Changes()...)
}

// Counters reports host callbacks seen, frames rendered and population rebuilds.
func (e *Engine) Counters() (frames, rendered uint64, rebuilds int) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	return e.frames, e.rendered, e.rebuilds
}

// LastDraw returns what the latest rendered frame emitted.
func (e *Engine) LastDraw() render.DrawStats {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	return e.stats
}

type floatTunable struct {
	control core.ParameterControl
	get     func(p *field.Params) *float64
}

var tunables = []floatTunable{
	{core.ParameterControl{Key: "flow_strength", Label: "Flow", Type: core.ParamTypeFloat, Step: 0.002, HasMin: true, Min: 0, HasMax: true, Max: 0.05},
		func(p *field.Params) *float64 { return &p.FlowStrength }},
	{core.ParameterControl{Key: "pointer_force", Label: "Pointer pull", Type: core.ParamTypeFloat, Step: 0.01, HasMin: true, Min: 0, HasMax: true, Max: 0.3},
		func(p *field.Params) *float64 { return &p.PointerForce }},
	{core.ParameterControl{Key: "bond_chance", Label: "Bond chance", Type: core.ParamTypeFloat, Step: 0.01, HasMin: true, Min: 0, HasMax: true, Max: 1},
		func(p *field.Params) *float64 { return &p.BondChance }},
	{core.ParameterControl{Key: "transfer_chance", Label: "Transfer chance", Type: core.ParamTypeFloat, Step: 0.0005, HasMin: true, Min: 0, HasMax: true, Max: 0.05},
		func(p *field.Params) *float64 { return &p.TransferChance }},
	{core.ParameterControl{Key: "jump_chance", Label: "Jump chance", Type: core.ParamTypeFloat, Step: 0.0005, HasMin: true, Min: 0, HasMax: true, Max: 0.05},
		func(p *field.Params) *float64 { return &p.JumpChance }},
	{core.ParameterControl{Key: "capture_chance", Label: "Capture chance", Type: core.ParamTypeFloat, Step: 0.005, HasMin: true, Min: 0, HasMax: true, Max: 1},
		func(p *field.Params) *float64 { return &p.CaptureChance }},
}

// ParameterControls lists the HUD-adjustable tunables.
func (e *Engine) ParameterControls() []core.ParameterControl {
	out := make([]core.ParameterControl, len(tunables))
	for i, t := range tunables {
		out[i] = t.control
	}
	return out
}

// SetFloatParameter updates a tunable on the running simulation.
func (e *Engine) SetFloatParameter(key string, value float64) bool {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	if e.state == nil {
		return false
	}
	for _, t := range tunables {
		if t.control.Key != key {
			continue
		}
		c := t.control
		if (c.HasMin && value < c.Min) || (c.HasMax && value > c.Max) {
			return false
		}
		*t.get(&e.state.Params) = value
		return true
	}
	return false
}

// Parameters snapshots the engine for the HUD.
func (e *Engine) Parameters() core.ParameterSnapshot {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	if e.state == nil {
		return core.ParameterSnapshot{}
	}
	s := e.state
	pw, ph := e.surf.Pixels()
	transits := 0
	for i := range s.Orbitals {
		transits += len(s.Orbitals[i].InTransit)
	}

	tuning := core.ParameterGroup{Name: "Tuning"}
	for _, t := range tunables {
		tuning.Params = append(tuning.Params, core.FloatParam(t.control.Key, t.control.Label, *t.get(&s.Params)))
	}

	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Engine",
			Params: []core.Parameter{
				core.StringParam("tier", "Tier", e.gov.Tier().String()),
				core.StringParam("initial_tier", "Initial tier", e.gov.Initial().String()),
				core.FloatParam("fps", "Host fps", roundTo(e.gov.LastFPS(), 1)),
				core.IntParam("target_fps", "Target fps", e.profile.TargetFPS),
				core.FloatParam("pixel_ratio", "Pixel ratio", e.surf.Ratio()),
				core.StringParam("surface", "Surface", fmt.Sprintf("%dx%d", pw, ph)),
				core.BoolParam("scrolling", "Scrolling", s.Scrolling),
			},
		},
		{
			Name: "Populations",
			Params: []core.Parameter{
				core.IntParam("particles", "Particles", len(s.Particles)),
				core.IntParam("strays", "Strays", len(s.Strays)),
				core.IntParam("orbitals", "Orbitals", len(s.Orbitals)),
				core.IntParam("electrons", "Electrons", s.ElectronTotal()),
				core.IntParam("transits", "In transit", transits),
				core.IntParam("molecules", "Molecules", len(s.Molecules)),
			},
		},
		{
			Name: "Events",
			Params: []core.Parameter{
				core.IntParam("bonds", "Bonds formed", s.Stats.BondsFormed),
				core.IntParam("captures", "Captures", s.Stats.Captures),
				core.IntParam("transfers", "Transfers", s.Stats.Transfers),
				core.IntParam("jumps", "Jumps", s.Stats.Jumps),
				core.IntParam("morphs", "Morphs", s.Stats.Morphs),
				core.IntParam("connections", "Connections", e.stats.Connections),
			},
		},
		tuning,
	}}
}

func roundTo(v float64, places int) float64 {
	k := 1.0
	for i := 0; i < places; i++ {
		k *= 10
	}
	return float64(int64(v*k+0.5)) / k
}
