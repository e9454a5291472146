package vmath

import "math"

// Vec2 is a float64 2D point/vector in logical pixels
type Vec2 struct {
	X, Y float64
}

// Sub returns a−b
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

// Add returns a+b
func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }

// Scale returns a·s
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Len returns the vector magnitude
func (a Vec2) Len() float64 { return math.Hypot(a.X, a.Y) }

// Rect is an inclusive clamp region
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// ClampPoint bounds p into the rect on both axes
func (r Rect) ClampPoint(p Vec2) Vec2 {
	return Vec2{Clamp(p.X, r.MinX, r.MaxX), Clamp(p.Y, r.MinY, r.MaxY)}
}

// Contains reports whether p lies inside the rect, edges included
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// SeparationPush returns the displacement that moves other away from anchor by half
// of the deficit to radius. Zero when already separated.
// Coincident points are pushed along +X so the result is deterministic.
func SeparationPush(anchor, other Vec2, radius float64) Vec2 {
	d := other.Sub(anchor)
	dist := d.Len()
	if dist >= radius {
		return Vec2{}
	}
	push := (radius - dist) / 2
	if dist == 0 {
		return Vec2{X: push}
	}
	angle := math.Atan2(d.Y, d.X)
	return Vec2{math.Cos(angle) * push, math.Sin(angle) * push}
}
