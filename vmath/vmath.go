package vmath

import (
	"math"
)

// --- Scalar ---

// Clamp bounds v to [lo, hi]; lo wins when the range is inverted
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Clamp01 bounds v to [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates a→b by t without clamping
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Finite reports whether all values are neither NaN nor ±Inf
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// --- Easing ---

// Smoothstep returns t²(3−2t) for t in [0,1]
func Smoothstep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

// EaseOutQuad returns 1−(1−t)², fast start and slow finish
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// --- Distance ---

// Dist returns the Euclidean distance between two points
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

// Progress returns elapsed/total clamped to [0,1], 1 when total is non-positive
func Progress(elapsed, total float64) float64 {
	if total <= 0 {
		return 1
	}
	return Clamp01(elapsed / total)
}
