package main

import (
	"context"
	"testing"
	"time"

	"ionfield/internal/engine"
	"ionfield/internal/profile"
)

func TestParseScenario(t *testing.T) {
	got, err := parseScenario("16ms*10, 40ms*3")
	if err != nil {
		t.Fatalf("parseScenario: %v", err)
	}
	if len(got) != 2 || got[0].interval != 16*time.Millisecond || got[1].frames != 3 {
		t.Fatalf("phases = %+v", got)
	}
	for _, bad := range []string{"", "16ms", "abc*3", "16ms*x", "0s*4", "16ms*0"} {
		if _, err := parseScenario(bad); err == nil {
			t.Fatalf("parseScenario(%q) accepted", bad)
		}
	}
}

func TestRunReportsDowngrade(t *testing.T) {
	high := profile.TierHigh
	phases := []phase{{interval: 16 * time.Millisecond, frames: 60}, {interval: 40 * time.Millisecond, frames: 100}}
	rep, err := run(context.Background(), engine.Options{Seed: 1, Tier: &high}, 800, 600, 1, phases, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.start != profile.TierHigh || rep.final != profile.TierMedium {
		t.Fatalf("tiers %s -> %s, want high -> medium", rep.start, rep.final)
	}
	if len(rep.changes) != 1 || rep.frames != 160 {
		t.Fatalf("changes=%d frames=%d", len(rep.changes), rep.frames)
	}
}

func TestSnapshotPath(t *testing.T) {
	if got := snapshotPath("out.png", profile.TierLow, true); got != "out-low.png" {
		t.Fatalf("snapshotPath = %q", got)
	}
	if got := snapshotPath("out.png", profile.TierLow, false); got != "out.png" {
		t.Fatalf("snapshotPath = %q", got)
	}
}
