// Command field-bench drives the engine headlessly through a synthetic
// frame-time scenario and reports governor transitions and populations.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"ionfield/internal/app"
	"ionfield/internal/engine"
	"ionfield/internal/governor"
	"ionfield/internal/profile"
	"ionfield/internal/render"

	"golang.org/x/sync/errgroup"
)

// phase is a run of identical host callback intervals.
type phase struct {
	interval time.Duration
	frames   int
}

// parseScenario reads "16ms*300,40ms*120" style phase lists.
func parseScenario(s string) ([]phase, error) {
	var out []phase
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		durStr, countStr, ok := strings.Cut(part, "*")
		if !ok {
			return nil, fmt.Errorf("phase %q: want duration*frames", part)
		}
		d, err := time.ParseDuration(strings.TrimSpace(durStr))
		if err != nil {
			return nil, fmt.Errorf("phase %q: %w", part, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil {
			return nil, fmt.Errorf("phase %q: %w", part, err)
		}
		if d <= 0 || n <= 0 {
			return nil, fmt.Errorf("phase %q: duration and frames must be positive", part)
		}
		out = append(out, phase{interval: d, frames: n})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty scenario")
	}
	return out, nil
}

type report struct {
	start    profile.Tier
	final    profile.Tier
	changes  []governor.Change
	frames   uint64
	rendered uint64
	rebuilds int
	draw     render.DrawStats
	params   string
	elapsed  time.Duration
}

func run(ctx context.Context, opts engine.Options, w, h, ratio float64, phases []phase, snapshot string) (report, error) {
	eng := engine.New(opts)
	if err := eng.Mount(w, h, ratio); err != nil {
		return report{}, err
	}
	defer eng.Unmount()

	rep := report{start: eng.Tier()}
	began := time.Now()
	now := time.Unix(0, 0)
	for _, ph := range phases {
		for i := 0; i < ph.frames; i++ {
			if err := ctx.Err(); err != nil {
				return report{}, err
			}
			now = now.Add(ph.interval)
			eng.Frame(now)
		}
	}
	rep.elapsed = time.Since(began)
	rep.final = eng.Tier()
	rep.changes = eng.Changes()
	rep.frames, rep.rendered, rep.rebuilds = eng.Counters()
	rep.draw = eng.LastDraw()
	rep.params = populations(eng)

	if snapshot != "" {
		if err := writePNG(snapshot, eng.Canvas()); err != nil {
			return report{}, err
		}
	}
	return rep, nil
}

func populations(eng *engine.Engine) string {
	snap := eng.Parameters()
	var b strings.Builder
	for _, key := range []string{"particles", "strays", "orbitals", "electrons", "transits", "molecules", "surface"} {
		if p, ok := snap.Lookup(key); ok {
			fmt.Fprintf(&b, " %s=%s", key, p.Value)
		}
	}
	return strings.TrimSpace(b.String())
}

func writePNG(path string, c *render.Canvas) error {
	if c == nil {
		return fmt.Errorf("snapshot %s: engine has no canvas", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, c.Image()); err != nil {
		f.Close()
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return f.Close()
}

func snapshotPath(base string, t profile.Tier, many bool) string {
	if base == "" || !many {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + t.String() + ext
}

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	ratio := flag.Float64("ratio", 2, "host pixel ratio")
	scenario := flag.String("scenario", "16ms*600,40ms*240,8ms*1500", "frame-time phases as duration*frames, comma separated")
	tiers := flag.String("tiers", "", "comma separated starting tiers to compare; empty uses -tier")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel runs")
	snapshot := flag.String("png", "", "write the final canvas to this PNG file")
	flag.Parse()

	phases, err := parseScenario(*scenario)
	if err != nil {
		log.Fatalf("-scenario: %v", err)
	}

	starts := []string{cfg.Tier}
	if *tiers != "" {
		starts = strings.Split(*tiers, ",")
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "field-bench: ", log.Lmicroseconds)
	}

	reports := make([]report, len(starts))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*workers, 1))
	for i, name := range starts {
		c := *cfg
		c.Tier = strings.TrimSpace(name)
		opts, err := c.Options(logger)
		if err != nil {
			log.Fatal(err)
		}
		g.Go(func() error {
			tier := profile.InitialTier(opts.Hints)
			if opts.Tier != nil {
				tier = *opts.Tier
			}
			rep, err := run(ctx, opts, float64(c.Width), float64(c.Height), *ratio, phases, snapshotPath(*snapshot, tier, len(starts) > 1))
			if err != nil {
				return fmt.Errorf("%s: %w", c.Tier, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	for _, rep := range reports {
		fmt.Printf("start=%s final=%s frames=%d rendered=%d rebuilds=%d wall=%s\n",
			rep.start, rep.final, rep.frames, rep.rendered, rep.rebuilds, rep.elapsed.Round(time.Millisecond))
		for _, ch := range rep.changes {
			fmt.Printf("  %s -> %s at %.1f fps\n", ch.From, ch.To, ch.FPS)
		}
		fmt.Printf("  %s\n", rep.params)
		fmt.Printf("  drawn: connections=%d bonds=%d particles=%d strays=%d electrons=%d transits=%d atoms=%d\n",
			rep.draw.Connections, rep.draw.Bonds, rep.draw.Particles, rep.draw.Strays, rep.draw.Electrons, rep.draw.Transits, rep.draw.Atoms)
	}
}
