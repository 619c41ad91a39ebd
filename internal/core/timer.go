package core

import "time"

// Throttle admits frames at a target rate. Unlike a fixed-step accumulator it
// reports the elapsed time since the last admitted frame so callers can scale
// integration instead of dropping motion.
type Throttle struct {
	interval time.Duration
	last     time.Time
}

// NewThrottle constructs a Throttle targeting the given frames per second.
func NewThrottle(fps int) *Throttle {
	t := &Throttle{}
	t.SetFPS(fps)
	return t
}

// SetFPS changes the target rate. It is safe to call from the frame loop.
func (t *Throttle) SetFPS(fps int) {
	if fps <= 0 {
		fps = 60
	}
	t.interval = time.Second / time.Duration(fps)
}

// Interval returns the admitted frame spacing.
func (t *Throttle) Interval() time.Duration { return t.interval }

// Reset forgets the last admitted frame.
func (t *Throttle) Reset() { t.last = time.Time{} }

// Admit reports whether a frame at now should run and how much time passed
// since the previous admitted frame. A 1ms tolerance keeps 60Hz callbacks from
// being rejected by jitter when the target is 60fps.
func (t *Throttle) Admit(now time.Time) (bool, time.Duration) {
	if t.last.IsZero() {
		t.last = now
		return true, t.interval
	}
	elapsed := now.Sub(t.last)
	if elapsed < t.interval-time.Millisecond {
		return false, 0
	}
	// Keep the phase so admitted frames do not drift behind the host cadence.
	rem := elapsed % t.interval
	if elapsed < t.interval || elapsed >= 2*t.interval {
		rem = 0
	}
	t.last = now.Add(-rem)
	return true, elapsed
}
