package canvas

import (
	"math"
)

// FillRect paints an axis-aligned logical rectangle
func (s *Surface) FillRect(x, y, w, h float64, c Color) {
	if w <= 0 || h <= 0 || !finite(x, y, w, h) {
		return
	}
	x0, x1 := pixelRange(x, x+w, s.sx, s.width)
	y0, y1 := pixelRange(y, y+h, s.sy, s.height)
	src := c.premul()
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			s.plotPremul(px, py, src)
		}
	}
}

// FillCircle paints a solid disc
// Discs smaller than one backing pixel collapse to a single pixel with area-weighted alpha
func (s *Surface) FillCircle(cx, cy, r float64, c Color) {
	if r <= 0 || !finite(cx, cy, r) {
		return
	}
	fp := s.minFootprint()
	if r*2 < fp {
		cover := math.Min(1, math.Pi*r*r/(fp*fp))
		s.plot(int(cx*s.sx), int(cy*s.sy), c.WithAlpha(c.A*cover))
		return
	}
	s.fillDisc(cx, cy, r, func(float64, float64) Color { return c.premul() })
}

// FillCircleGradient paints a disc of radius r centered at (cx,cy) with a radial gradient
func (s *Surface) FillCircleGradient(cx, cy, r float64, g *RadialGradient) {
	if g == nil || r <= 0 || !finite(cx, cy, r) {
		return
	}
	fp := s.minFootprint()
	if r*2 < fp {
		c := g.At(cx, cy)
		cover := math.Min(1, math.Pi*r*r/(fp*fp))
		s.plot(int(cx*s.sx), int(cy*s.sy), c.WithAlpha(c.A*cover))
		return
	}
	s.fillDisc(cx, cy, r, func(x, y float64) Color {
		t, ok := g.paramAt(x, y)
		if !ok {
			return Transparent
		}
		return g.colorAt(t)
	})
}

// FillRectGradient paints a logical rectangle with a radial gradient (full-screen glows)
func (s *Surface) FillRectGradient(x, y, w, h float64, g *RadialGradient) {
	if g == nil || w <= 0 || h <= 0 || !finite(x, y, w, h) {
		return
	}
	x0, x1 := pixelRange(x, x+w, s.sx, s.width)
	y0, y1 := pixelRange(y, y+h, s.sy, s.height)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			lx, ly := s.toLogical(px, py)
			t, ok := g.paramAt(lx, ly)
			if !ok {
				continue
			}
			s.plotPremul(px, py, g.colorAt(t))
		}
	}
}

// fillDisc rasterizes pixel centers inside the disc using a premultiplied shader
func (s *Surface) fillDisc(cx, cy, r float64, shade func(x, y float64) Color) {
	x0, x1 := pixelRange(cx-r, cx+r, s.sx, s.width)
	y0, y1 := pixelRange(cy-r, cy+r, s.sy, s.height)
	r2 := r * r
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			lx, ly := s.toLogical(px, py)
			dx, dy := lx-cx, ly-cy
			if dx*dx+dy*dy > r2 {
				continue
			}
			s.plotPremul(px, py, shade(lx, ly))
		}
	}
}

// FillStreak paints a rectangle starting at (ox,oy) extending length along angle
// It is the translate+rotate+fillRect(0, −t/2, length, t) idiom
func (s *Surface) FillStreak(ox, oy, angle, length, thickness float64, c Color) {
	if length <= 0 || thickness <= 0 || !finite(ox, oy, angle, length, thickness) {
		return
	}
	fp := s.minFootprint()
	half := thickness / 2
	if thickness < fp {
		c = c.WithAlpha(c.A * thickness / fp)
		half = fp / 2
	}
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	ex, ey := ox+cosA*length, oy+sinA*length

	x0, x1 := pixelRange(math.Min(ox, ex)-half, math.Max(ox, ex)+half, s.sx, s.width)
	y0, y1 := pixelRange(math.Min(oy, ey)-half, math.Max(oy, ey)+half, s.sy, s.height)
	src := c.premul()
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			lx, ly := s.toLogical(px, py)
			dx, dy := lx-ox, ly-oy
			u := dx*cosA + dy*sinA
			v := -dx*sinA + dy*cosA
			if u < 0 || u > length || math.Abs(v) > half {
				continue
			}
			s.plotPremul(px, py, src)
		}
	}
}

// StrokeEllipse outlines a rotated ellipse with a one-pixel line
func (s *Surface) StrokeEllipse(cx, cy, rx, ry, rotation float64, c Color) {
	if rx <= 0 || ry <= 0 || !finite(cx, cy, rx, ry, rotation) {
		return
	}
	// Sample density: roughly one sample per backing pixel along the perimeter
	perimeter := 2 * math.Pi * math.Max(rx, ry) * math.Max(s.sx, s.sy)
	n := max(int(perimeter), 16)
	cosR, sinR := math.Cos(rotation), math.Sin(rotation)

	lastX, lastY := -1, -1
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		ex, ey := math.Cos(a)*rx, math.Sin(a)*ry
		x := cx + ex*cosR - ey*sinR
		y := cy + ex*sinR + ey*cosR
		px, py := int(math.Floor(x*s.sx)), int(math.Floor(y*s.sy))
		if px == lastX && py == lastY {
			continue
		}
		lastX, lastY = px, py
		s.plot(px, py, c)
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
