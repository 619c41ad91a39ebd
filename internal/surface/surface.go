// Package surface derives the backing pixel buffer size from the logical
// viewport, the host pixel ratio and the active tier.
package surface

import (
	"math"

	"ionfield/internal/profile"
)

// HardCeiling caps the pixel ratio even on the highest tier.
const HardCeiling = 2.0

// RatioCap returns the largest pixel ratio allowed for tier. Scrolling always
// forces 1×.
func RatioCap(t profile.Tier, scrolling bool) float64 {
	if scrolling {
		return 1
	}
	c := profile.For(t).PixelRatioCap
	if c <= 0 {
		c = 1
	}
	return math.Min(c, HardCeiling)
}

// Manager owns the logical and physical surface dimensions.
type Manager struct {
	logicalW, logicalH float64
	pixelW, pixelH     int
	ratio              float64
	reallocs           int
}

// Update recomputes the effective ratio and pixel size. It reports true only
// when the pixel size changed, which is when the caller must reallocate.
func (m *Manager) Update(hostRatio, logicalW, logicalH float64, t profile.Tier, scrolling bool) bool {
	if math.IsNaN(hostRatio) || math.IsInf(hostRatio, 0) || hostRatio <= 0 {
		hostRatio = 1
	}
	if !(logicalW > 0) {
		logicalW = 0
	}
	if !(logicalH > 0) {
		logicalH = 0
	}
	ratio := math.Min(hostRatio, RatioCap(t, scrolling))
	pw := int(math.Floor(logicalW * ratio))
	ph := int(math.Floor(logicalH * ratio))
	m.logicalW, m.logicalH = logicalW, logicalH
	m.ratio = ratio
	if pw == m.pixelW && ph == m.pixelH {
		return false
	}
	m.pixelW, m.pixelH = pw, ph
	m.reallocs++
	return true
}

// Logical returns the CSS-like size used by all simulation math.
func (m *Manager) Logical() (float64, float64) { return m.logicalW, m.logicalH }

// Pixels returns the backing buffer size.
func (m *Manager) Pixels() (int, int) { return m.pixelW, m.pixelH }

// Ratio returns the effective pixel ratio (pixels per logical unit).
func (m *Manager) Ratio() float64 {
	if m.ratio <= 0 {
		return 1
	}
	return m.ratio
}

// Reallocations counts how many times the pixel size changed.
func (m *Manager) Reallocations() int { return m.reallocs }
