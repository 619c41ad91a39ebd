package app

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"strings"

	"ionfield/internal/engine"
	"ionfield/internal/field"
	"ionfield/internal/profile"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Tier          string
	Width         int
	Height        int
	TPS           int
	Seed          int64
	ReducedMotion bool
	MemoryGB      float64
	HUD           bool
	Cards         int
	Verbose       bool
	Set           KVList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Tier: "auto", Width: 1280, Height: 800, TPS: 60, Seed: 42, Cards: 4}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Tier, "tier", c.Tier, "starting tier: auto, low, medium or high")
	fs.IntVar(&c.Width, "width", c.Width, "window width in logical pixels")
	fs.IntVar(&c.Height, "height", c.Height, "window height in logical pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "host callbacks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the simulation")
	fs.BoolVar(&c.ReducedMotion, "reduced-motion", c.ReducedMotion, "start in the low tier")
	fs.Float64Var(&c.MemoryGB, "memory-gb", c.MemoryGB, "device memory hint in GB (0 = unknown)")
	fs.BoolVar(&c.HUD, "hud", c.HUD, "show the parameter panel")
	fs.IntVar(&c.Cards, "cards", c.Cards, "number of focusable cards")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log lifecycle and governor events")
	fs.Var(&c.Set, "set", "parameter override in key=value form (repeatable)")
}

// KVList collects repeatable key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

// Set appends a value.
func (l *KVList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Map splits entries on the first '='. Entries without one are skipped.
func (l KVList) Map() map[string]string {
	if len(l) == 0 {
		return nil
	}
	m := make(map[string]string, len(l))
	for _, kv := range l {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return m
}

// Options translates the configuration into engine options. Overrides go to
// both the tier profile and the field tunables; each ignores keys it does not know.
func (c *Config) Options(logger *log.Logger) (engine.Options, error) {
	opts := engine.Options{
		Seed: c.Seed,
		Hints: profile.Hints{
			ReducedMotion: c.ReducedMotion,
			MemoryGB:      c.MemoryGB,
			Cores:         runtime.NumCPU(),
		},
		Logger: logger,
	}
	if t := strings.ToLower(strings.TrimSpace(c.Tier)); t != "" && t != "auto" {
		tier, err := profile.ParseTier(t)
		if err != nil {
			return engine.Options{}, fmt.Errorf("app: -tier: %w", err)
		}
		opts.Tier = &tier
	}
	overrides := c.Set.Map()
	opts.Overrides = overrides
	opts.Params = field.FromMap(overrides)
	return opts, nil
}
