package vmath

import "math"

// Ellipse describes a tilted orbit projection around a center
// Orbit radius is scaled by (1−TiltX) and (1−TiltY) on the two axes, then rotated by Rotation
type Ellipse struct {
	CX, CY   float64
	TiltX    float64
	TiltY    float64
	Rotation float64
}

// Radii returns the semi-axes for the given orbit radius
func (e Ellipse) Radii(orbit float64) (rx, ry float64) {
	return orbit * (1 - e.TiltX), orbit * (1 - e.TiltY)
}

// Point projects the orbital phase angle onto the rotated ellipse
func (e Ellipse) Point(orbit, angle float64) (x, y float64) {
	rx, ry := e.Radii(orbit)
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	cosR, sinR := math.Cos(e.Rotation), math.Sin(e.Rotation)

	x = e.CX + cosA*rx*cosR - sinA*ry*sinR
	y = e.CY + cosA*rx*sinR + sinA*ry*cosR
	return x, y
}
