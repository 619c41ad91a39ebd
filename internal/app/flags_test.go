package app

import (
	"flag"
	"testing"

	"ionfield/internal/profile"
)

func TestConfigBindAndOptions(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	err := fs.Parse([]string{"-tier", "medium", "-seed", "7", "-set", "particles=12", "-set", "bond_chance=0.25", "-set", "junk"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts, err := cfg.Options(nil)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.Tier == nil || *opts.Tier != profile.TierMedium {
		t.Fatalf("tier = %v", opts.Tier)
	}
	if opts.Seed != 7 {
		t.Fatalf("seed = %d", opts.Seed)
	}
	if opts.Overrides["particles"] != "12" || len(opts.Overrides) != 2 {
		t.Fatalf("overrides = %v", opts.Overrides)
	}
	if opts.Params.BondChance != 0.25 {
		t.Fatalf("bond chance = %v", opts.Params.BondChance)
	}
	if got := profile.FromMap(profile.For(*opts.Tier), opts.Overrides).Particles; got != 12 {
		t.Fatalf("profile override particles = %d", got)
	}
}

func TestAutoTierLeavesSelectionToHints(t *testing.T) {
	cfg := NewConfig()
	cfg.ReducedMotion = true
	opts, err := cfg.Options(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Tier != nil {
		t.Fatalf("auto tier forced %v", *opts.Tier)
	}
	if !opts.Hints.ReducedMotion || opts.Hints.Cores <= 0 {
		t.Fatalf("hints = %+v", opts.Hints)
	}
}

func TestUnknownTierIsAnError(t *testing.T) {
	cfg := NewConfig()
	cfg.Tier = "ultra"
	if _, err := cfg.Options(nil); err == nil {
		t.Fatal("expected error for unknown tier")
	}
}
