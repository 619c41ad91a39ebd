// Package engine ties the governor, surface manager, simulation and renderer
// into one mountable frame loop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"ionfield/internal/core"
	"ionfield/internal/field"
	"ionfield/internal/governor"
	"ionfield/internal/profile"
	"ionfield/internal/render"
	"ionfield/internal/surface"
)

var (
	// ErrMounted is returned by Mount on an engine that is already running.
	ErrMounted = errors.New("engine: already mounted")
	// ErrViewport is returned for non-finite or negative viewport sizes.
	ErrViewport = errors.New("engine: invalid viewport")
)

// DefaultFocusRecheck is how many admitted frames pass between focus lookups.
const DefaultFocusRecheck = 30

// DefaultScrollHold keeps the scrolling flag raised after the last scroll event.
const DefaultScrollHold = 150 * time.Millisecond

// FocusLocator resolves a focused item index to its on-screen bounds in
// logical units. ok is false when the item is not currently laid out.
type FocusLocator interface {
	Bounds(index int) (core.Rect, bool)
}

// Options configures an Engine. The zero value is usable.
type Options struct {
	Seed int64
	// Tier forces the starting tier; nil derives it from Hints.
	Tier  *profile.Tier
	Hints profile.Hints

	Thresholds governor.Thresholds
	Params     field.Params
	// Overrides are key=value profile overrides applied on every rebuild.
	Overrides map[string]string

	Locator      FocusLocator
	FocusRecheck int
	ScrollHold   time.Duration

	Logger *log.Logger
}

func (o *Options) normalize() {
	if o.Thresholds == (governor.Thresholds{}) {
		o.Thresholds = governor.DefaultThresholds()
	}
	if o.Params == (field.Params{}) {
		o.Params = field.DefaultParams()
	}
	if o.FocusRecheck <= 0 {
		o.FocusRecheck = DefaultFocusRecheck
	}
	if o.ScrollHold <= 0 {
		o.ScrollHold = DefaultScrollHold
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
}

// Engine owns every population and the governor for one mounted surface.
type Engine struct {
	opts Options
	log  *log.Logger

	mounted atomic.Bool
	// frameMu serializes Frame against Mount, Unmount and HUD access.
	frameMu sync.Mutex

	box mailbox

	gov      *governor.Governor
	surf     surface.Manager
	state    *field.State
	canvas   *render.Canvas
	renderer *render.Renderer
	throttle *core.Throttle
	profile  profile.Profile

	viewW, viewH float64
	hostRatio    float64
	lastHost     time.Time
	scrollUntil  time.Time

	focusIndex int
	hasFocus   bool
	focusAge   int

	frames   uint64
	rendered uint64
	rebuilds int
	stats    render.DrawStats
}

// New returns an unmounted engine.
func New(opts Options) *Engine {
	opts.normalize()
	return &Engine{opts: opts, log: opts.Logger}
}

// Mount builds every population for a w×h logical viewport at the host pixel ratio.
func (e *Engine) Mount(w, h, ratio float64) error {
	if !validSize(w) || !validSize(h) {
		return fmt.Errorf("%w: %vx%v", ErrViewport, w, h)
	}
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	if e.mounted.Load() {
		return ErrMounted
	}
	e.mountLocked(w, h, ratio)
	return nil
}

// mountLocked builds a fresh mount. frameMu must be held.
func (e *Engine) mountLocked(w, h, ratio float64) {
	hints := e.opts.Hints
	hints.ViewportW, hints.ViewportH = w, h
	initial := profile.InitialTier(hints)
	if e.opts.Tier != nil && e.opts.Tier.Valid() {
		initial = *e.opts.Tier
	}

	e.gov = governor.New(initial, e.opts.Thresholds)
	e.profile = e.profileFor(initial)
	e.throttle = core.NewThrottle(e.profile.TargetFPS)
	e.viewW, e.viewH, e.hostRatio = w, h, ratio
	e.surf = surface.Manager{}
	e.surf.Update(ratio, w, h, initial, false)
	pw, ph := e.surf.Pixels()
	e.canvas = render.NewCanvas(pw, ph, e.surf.Ratio())
	e.canvas.Clear(render.Background)
	e.renderer = render.NewRenderer()
	e.state = field.NewState(core.NewRNG(e.opts.Seed), e.opts.Params)
	e.state.Refresh(e.profile, w, h)
	e.lastHost = time.Time{}
	e.scrollUntil = time.Time{}
	e.frames, e.rendered, e.rebuilds = 0, 0, 0
	e.box.reset()

	e.mounted.Store(true)
	e.log.Printf("mounted %.0fx%.0f ratio=%.2f tier=%s particles=%d orbitals=%d",
		w, h, e.surf.Ratio(), initial, len(e.state.Particles), len(e.state.Orbitals))
}

func validSize(v float64) bool { return v >= 0 && !math.IsInf(v, 0) }

// Unmount stops the engine. The mounted flag drops before anything else is
// released, so a Frame racing with Unmount becomes a no-op.
func (e *Engine) Unmount() {
	if !e.mounted.Swap(false) {
		return
	}
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	if e.mounted.Load() {
		// A Mount landed between the flag drop and the lock and owns the engine now.
		return
	}
	e.box.reset()
	e.state = nil
	e.canvas = nil
	e.renderer = nil
	e.log.Printf("unmounted after %d frames (%d rendered)", e.frames, e.rendered)
}

// Mounted reports whether the engine is running.
func (e *Engine) Mounted() bool { return e.mounted.Load() }

func (e *Engine) profileFor(t profile.Tier) profile.Profile {
	return profile.FromMap(profile.For(t), e.opts.Overrides)
}

// Frame runs one host callback at time now. It reports whether a frame was
// stepped and drawn; throttled callbacks still feed the governor.
func (e *Engine) Frame(now time.Time) bool {
	if !e.mounted.Load() {
		return false
	}
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	if !e.mounted.Load() {
		return false
	}
	e.frames++

	refresh := e.apply(e.box.take(), now)

	if !e.lastHost.IsZero() {
		if e.gov.Sample(now.Sub(e.lastHost)) {
			ch := e.gov.Changes()[len(e.gov.Changes())-1]
			e.log.Printf("governor: %s -> %s at %.1f fps", ch.From, ch.To, ch.FPS)
		}
	}
	e.lastHost = now
	if e.gov.TakeRebuild() {
		e.profile = e.profileFor(e.gov.Tier())
		e.throttle.SetFPS(e.profile.TargetFPS)
		refresh = true
	}

	scrolling := now.Before(e.scrollUntil)
	e.state.Scrolling = scrolling
	if e.surf.Update(e.hostRatio, e.viewW, e.viewH, e.gov.Tier(), scrolling) {
		pw, ph := e.surf.Pixels()
		e.canvas.Resize(pw, ph, e.surf.Ratio())
		e.canvas.Clear(render.Background)
	}
	if refresh {
		e.state.Refresh(e.profile, e.viewW, e.viewH)
		e.rebuilds++
	}

	ok, elapsed := e.throttle.Admit(now)
	if !ok {
		return false
	}
	e.recheckFocus(false)
	field.Step(e.state, elapsed.Seconds()*60)
	e.stats = e.renderer.Draw(e.canvas, e.state)
	e.rendered++
	return true
}

// Run drives Frame from ticks until ctx is cancelled, ticks closes or the
// engine is unmounted.
func (e *Engine) Run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok || !e.mounted.Load() {
				return nil
			}
			e.Frame(now)
		}
	}
}

// recheckFocus refreshes the focus rectangle on the FocusRecheck cadence, or
// immediately when force is set. A missing item drops the localized effect
// until a later lookup finds it.
func (e *Engine) recheckFocus(force bool) {
	if !e.hasFocus {
		return
	}
	e.focusAge++
	if !force && e.focusAge < e.opts.FocusRecheck {
		return
	}
	e.focusAge = 0
	if e.opts.Locator == nil {
		e.state.ClearFocusRect()
		return
	}
	if r, ok := e.opts.Locator.Bounds(e.focusIndex); ok {
		e.state.SetFocusRect(r)
		return
	}
	e.state.ClearFocusRect()
}
