// Package governor measures achieved frame rate and moves the engine between
// quality tiers with hysteresis.
package governor

import (
	"math"
	"time"

	"ionfield/internal/profile"
)

// Thresholds tunes the hysteresis machine. Only the shape of the behaviour is
// load-bearing: a tier change needs a streak longer than the matching
// threshold, so the governor can never flip faster than that.
type Thresholds struct {
	LowFPS  float64
	HighFPS float64

	DowngradeStreak int
	UpgradeStreak   int

	LowCap  int
	HighCap int

	// HighDecay is how much a bad sample erodes the recovery streak.
	HighDecay int
	// SettleFrames qualifying samples are ignored after a tier change.
	SettleFrames int
	// MaxFrame discards samples longer than this (e.g. a hidden window).
	MaxFrame time.Duration
	// MinFrame discards samples shorter than this. Hosts that run catch-up
	// ticks back to back report near-zero intervals that no display produces.
	MinFrame time.Duration
}

// DefaultThresholds returns the standard tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowFPS:          40,
		HighFPS:         55,
		DowngradeStreak: 45,
		UpgradeStreak:   600,
		LowCap:          240,
		HighCap:         1200,
		HighDecay:       2,
		SettleFrames:    30,
		MaxFrame:        time.Second,
		MinFrame:        time.Millisecond,
	}
}

// Change records a tier transition.
type Change struct {
	From, To profile.Tier
	FPS      float64
}

// Governor is a two-transition hysteresis machine over the ordered tier list.
type Governor struct {
	th      Thresholds
	current profile.Tier
	initial profile.Tier

	low, high int
	settle    int
	rebuild   bool
	samples   int
	lastFPS   float64
	changes   []Change
}

// New returns a governor starting at initial, which is also its recovery ceiling.
func New(initial profile.Tier, th Thresholds) *Governor {
	return NewAt(initial, initial, th)
}

// NewAt returns a governor currently at current whose ceiling is initial.
func NewAt(current, initial profile.Tier, th Thresholds) *Governor {
	if th.LowCap <= 0 {
		th.LowCap = th.DowngradeStreak + 1
	}
	if th.HighCap <= 0 {
		th.HighCap = th.UpgradeStreak + 1
	}
	if th.HighDecay <= 0 {
		th.HighDecay = 1
	}
	if current > initial {
		current = initial
	}
	return &Governor{th: th, current: current, initial: initial}
}

// Tier returns the active tier.
func (g *Governor) Tier() profile.Tier { return g.current }

// Initial returns the tier chosen at startup.
func (g *Governor) Initial() profile.Tier { return g.initial }

// Profile returns the table entry for the active tier.
func (g *Governor) Profile() profile.Profile { return profile.For(g.current) }

// Streaks returns the low and high streak counters.
func (g *Governor) Streaks() (low, high int) { return g.low, g.high }

// LastFPS returns the most recent qualifying sample.
func (g *Governor) LastFPS() float64 { return g.lastFPS }

// Samples counts qualifying samples seen so far.
func (g *Governor) Samples() int { return g.samples }

// Changes returns every transition so far, oldest first.
func (g *Governor) Changes() []Change { return g.changes }

// TakeRebuild reports and clears the pending population rebuild.
func (g *Governor) TakeRebuild() bool {
	r := g.rebuild
	g.rebuild = false
	return r
}

// Sample feeds the duration of the latest frame. It reports whether the tier changed.
func (g *Governor) Sample(frame time.Duration) bool {
	if frame <= 0 {
		return false
	}
	if g.th.MaxFrame > 0 && frame > g.th.MaxFrame {
		return false
	}
	if frame < g.th.MinFrame {
		return false
	}
	fps := float64(time.Second) / float64(frame)
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return false
	}
	g.samples++
	g.lastFPS = fps
	if g.settle > 0 {
		g.settle--
		return false
	}

	switch {
	case fps < g.th.LowFPS:
		g.low = min(g.low+1, g.th.LowCap)
		g.high = max(g.high-g.th.HighDecay, 0)
	case fps > g.th.HighFPS:
		g.high = min(g.high+1, g.th.HighCap)
		g.low = max(g.low-1, 0)
	default:
		g.low = max(g.low-1, 0)
		g.high = max(g.high-1, 0)
	}

	if g.low > g.th.DowngradeStreak {
		g.low = 0
		if g.current > profile.TierLow {
			return g.switchTo(g.current.Down(), fps)
		}
		return false
	}
	if g.high > g.th.UpgradeStreak {
		g.high = 0
		next := g.current.Up()
		if next > g.initial || next == g.current {
			return false
		}
		return g.switchTo(next, fps)
	}
	return false
}

func (g *Governor) switchTo(t profile.Tier, fps float64) bool {
	g.changes = append(g.changes, Change{From: g.current, To: t, FPS: fps})
	g.current = t
	g.low, g.high = 0, 0
	g.settle = g.th.SettleFrames
	g.rebuild = true
	return true
}
