package placement

import (
	"math"

	"github.com/lixenwraith/memory-space/vmath"
)

// Frame is the usable rectangle normalized coordinates map onto, in logical pixels
// Max edges never fall below min edges
type Frame struct {
	MinX, MinY, MaxX, MaxY float64
}

// MarginFrame insets a W×H viewport by margin on every side
func MarginFrame(w, h, margin float64) Frame {
	return Frame{
		MinX: margin,
		MinY: margin,
		MaxX: math.Max(margin, w-margin),
		MaxY: math.Max(margin, h-margin),
	}
}

// SafeMargin scales the margin with the viewport: floor(min(W,H)·0.18) bounded to [90,180]
func SafeMargin(w, h float64) float64 {
	return vmath.Clamp(math.Floor(math.Min(w, h)*0.18), 90, 180)
}

// sidebarGap separates hotspots from the sidebar's no-go edge
const sidebarGap = 24

// SidebarFrame is MarginFrame with the left edge pushed past a reserved strip
// noGoLeft is the right edge of the reserved strip (0 when there is none)
func SidebarFrame(w, h, margin, noGoLeft float64) Frame {
	minX := math.Max(margin, noGoLeft+sidebarGap)
	return Frame{
		MinX: minX,
		MinY: margin,
		MaxX: math.Max(minX, w-margin),
		MaxY: math.Max(margin, h-margin),
	}
}

// UsableW is the horizontal span, at least one pixel
func (f Frame) UsableW() float64 { return math.Max(1, f.MaxX-f.MinX) }

// UsableH is the vertical span, at least one pixel
func (f Frame) UsableH() float64 { return math.Max(1, f.MaxY-f.MinY) }

// Project maps a normalized position to pixels without clamping
func (f Frame) Project(p NormalizedPosition) vmath.Vec2 {
	return vmath.Vec2{X: f.MinX + p.RX*f.UsableW(), Y: f.MinY + p.RY*f.UsableH()}
}

// ToPixel maps a normalized position to pixels, clamped to the frame
func (f Frame) ToPixel(p NormalizedPosition) vmath.Vec2 {
	return f.Rect().ClampPoint(f.Project(p))
}

// ToNormalized is the inverse of ToPixel, clamped to [0,1]
func (f Frame) ToNormalized(v vmath.Vec2) NormalizedPosition {
	return NormalizedPosition{
		RX: vmath.Clamp01((v.X - f.MinX) / f.UsableW()),
		RY: vmath.Clamp01((v.Y - f.MinY) / f.UsableH()),
	}
}

// Rect returns the frame as a clamp region
func (f Frame) Rect() vmath.Rect {
	return vmath.Rect{MinX: f.MinX, MinY: f.MinY, MaxX: f.MaxX, MaxY: f.MaxY}
}
