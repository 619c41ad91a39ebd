package governor

import (
	"math/rand/v2"
	"testing"
	"time"

	"ionfield/internal/profile"
)

func feed(g *Governor, frame time.Duration, n int) int {
	changes := 0
	for i := 0; i < n; i++ {
		if g.Sample(frame) {
			changes++
		}
	}
	return changes
}

func TestIgnoresInvalidSamples(t *testing.T) {
	g := New(profile.TierHigh, DefaultThresholds())
	for _, d := range []time.Duration{0, -time.Millisecond, 5 * time.Second} {
		if g.Sample(d) {
			t.Fatalf("sample %v must not change the tier", d)
		}
	}
	if g.Samples() != 0 {
		t.Fatalf("invalid samples were counted: %d", g.Samples())
	}
}

func TestCatchUpTicksAreNotSamples(t *testing.T) {
	g := New(profile.TierHigh, DefaultThresholds())
	changes := 0
	for i := 0; i < 60; i++ {
		for _, d := range []time.Duration{50 * time.Millisecond, 200 * time.Microsecond, 200 * time.Microsecond} {
			if g.Sample(d) {
				changes++
			}
		}
	}
	if g.Samples() != 60 {
		t.Fatalf("counted %d samples, want only the 60 displayed frames", g.Samples())
	}
	if changes != 1 || g.Tier() != profile.TierMedium {
		t.Fatalf("changes=%d tier=%s, want one downgrade to medium", changes, g.Tier())
	}
}

func TestSustainedSlowFramesDowngradeOneStep(t *testing.T) {
	g := New(profile.TierHigh, DefaultThresholds())
	changes := feed(g, 40*time.Millisecond, 60)
	if changes != 1 {
		t.Fatalf("expected exactly one downgrade in 60 slow frames, got %d", changes)
	}
	if g.Tier() != profile.TierMedium {
		t.Fatalf("tier = %s, want medium", g.Tier())
	}
	if !g.TakeRebuild() {
		t.Fatal("downgrade must schedule a rebuild")
	}
	if g.TakeRebuild() {
		t.Fatal("rebuild flag must be consumed")
	}
}

func TestDowngradeNeedsFullStreak(t *testing.T) {
	th := DefaultThresholds()
	g := New(profile.TierHigh, th)
	if changes := feed(g, 40*time.Millisecond, th.DowngradeStreak); changes != 0 {
		t.Fatalf("downgraded before the streak threshold was exceeded")
	}
	if !g.Sample(40 * time.Millisecond) {
		t.Fatal("expected a downgrade once the streak exceeds the threshold")
	}
}

func TestDowngradeSaturatesAtLow(t *testing.T) {
	g := New(profile.TierLow, DefaultThresholds())
	if changes := feed(g, 100*time.Millisecond, 500); changes != 0 {
		t.Fatalf("low tier cannot downgrade further, got %d changes", changes)
	}
	low, _ := g.Streaks()
	if low > DefaultThresholds().LowCap {
		t.Fatalf("low streak %d exceeds its cap", low)
	}
}

func TestFastFramesUpgradeAtMostOnce(t *testing.T) {
	g := NewAt(profile.TierMedium, profile.TierHigh, DefaultThresholds())
	changes := feed(g, 10*time.Millisecond, 2000)
	if changes != 1 {
		t.Fatalf("expected a single upgrade, got %d", changes)
	}
	if g.Tier() != profile.TierHigh {
		t.Fatalf("tier = %s, want high", g.Tier())
	}
	for _, c := range g.Changes() {
		if c.To < c.From {
			t.Fatalf("unexpected downgrade %s -> %s under fast frames", c.From, c.To)
		}
	}
}

func TestUpgradeRefusedAboveInitialTier(t *testing.T) {
	g := New(profile.TierMedium, DefaultThresholds())
	if changes := feed(g, 5*time.Millisecond, 5000); changes != 0 {
		t.Fatalf("governor upgraded past its initial tier")
	}
	if g.Tier() != profile.TierMedium {
		t.Fatalf("tier = %s, want medium", g.Tier())
	}
}

func TestNeverExceedsInitialTierUnderNoise(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for _, initial := range profile.Tiers() {
		g := New(initial, DefaultThresholds())
		for i := 0; i < 20000; i++ {
			var d time.Duration
			if (i/500)%2 == 0 {
				d = time.Duration(5+rng.IntN(8)) * time.Millisecond
			} else {
				d = time.Duration(30+rng.IntN(40)) * time.Millisecond
			}
			g.Sample(d)
			if g.Tier() > initial {
				t.Fatalf("tier %s exceeded initial %s at sample %d", g.Tier(), initial, i)
			}
		}
	}
}

func TestNoOscillationFasterThanStreaks(t *testing.T) {
	th := DefaultThresholds()
	g := New(profile.TierHigh, th)
	lastChange := -1
	for i := 0; i < 10000; i++ {
		d := 10 * time.Millisecond
		if i%2 == 0 {
			d = 40 * time.Millisecond
		}
		if g.Sample(d) {
			if lastChange >= 0 && i-lastChange <= th.DowngradeStreak {
				t.Fatalf("tier changed twice within %d samples", i-lastChange)
			}
			lastChange = i
		}
	}
}

func TestNeutralBandDecaysStreaks(t *testing.T) {
	g := New(profile.TierHigh, DefaultThresholds())
	feed(g, 40*time.Millisecond, 30)
	low, _ := g.Streaks()
	if low != 30 {
		t.Fatalf("low streak = %d, want 30", low)
	}
	feed(g, 20*time.Millisecond, 10)
	low, high := g.Streaks()
	if low != 20 || high != 0 {
		t.Fatalf("neutral band should decay streaks, got low=%d high=%d", low, high)
	}
}
