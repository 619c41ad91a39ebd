package core

import "math"

// MinDistance floors every distance used as a denominator.
const MinDistance = 1e-3

// Size describes logical dimensions in CSS-like units.
type Size struct {
	W float64
	H float64
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Rect is an axis-aligned rectangle in logical coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle midpoint.
func (r Rect) Center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Expand grows the rectangle by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Dist returns the euclidean length of (dx, dy) floored at MinDistance.
func Dist(dx, dy float64) float64 {
	return FloorDist(math.Hypot(dx, dy))
}

// FloorDist clamps d to at least MinDistance. NaN collapses to MinDistance too.
func FloorDist(d float64) float64 {
	if !(d >= MinDistance) {
		return MinDistance
	}
	return d
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

// Wrap applies toroidal wrapping with a margin beyond [0, size].
func Wrap(v, size, margin float64) float64 {
	if size <= 0 {
		return v
	}
	if v < -margin {
		return size + margin
	}
	if v > size+margin {
		return -margin
	}
	return v
}

// WrapDepth folds z into (0, 1].
func WrapDepth(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 1
	}
	z = math.Mod(z, 1)
	if z <= 0 {
		z++
	}
	return z
}

// LimitSpeed scales (vx, vy) down so its length does not exceed max.
func LimitSpeed(vx, vy, max float64) (float64, float64) {
	sp := math.Hypot(vx, vy)
	if sp <= max || sp == 0 {
		return vx, vy
	}
	k := max / sp
	return vx * k, vy * k
}
