package canvas

import (
	"math"
	"sort"
)

// Stop is a gradient color stop at offset in [0,1]
type Stop struct {
	Offset float64
	Color  Color
}

// RadialGradient interpolates between a start circle (X0,Y0,R0) and an end circle (X1,Y1,R1)
// Semantics follow the 2D canvas two-point conical gradient
type RadialGradient struct {
	X0, Y0, R0 float64
	X1, Y1, R1 float64
	stops      []Stop
}

// NewRadialGradient creates a gradient; add stops with AddStop
func NewRadialGradient(x0, y0, r0, x1, y1, r1 float64) *RadialGradient {
	return &RadialGradient{X0: x0, Y0: y0, R0: r0, X1: x1, Y1: y1, R1: r1}
}

// CenteredGradient is the common concentric form (x,y,0) → (x,y,r)
func CenteredGradient(x, y, r float64) *RadialGradient {
	return NewRadialGradient(x, y, 0, x, y, r)
}

// AddStop inserts a stop keeping offsets ordered
func (g *RadialGradient) AddStop(offset float64, c Color) *RadialGradient {
	g.stops = append(g.stops, Stop{Offset: clamp01(offset), Color: c})
	sort.SliceStable(g.stops, func(i, j int) bool { return g.stops[i].Offset < g.stops[j].Offset })
	return g
}

// paramAt solves for the gradient parameter t at logical point (x,y)
// ok is false where the gradient is undefined (transparent)
func (g *RadialGradient) paramAt(x, y float64) (t float64, ok bool) {
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	dr := g.R1 - g.R0
	qx, qy := x-g.X0, y-g.Y0

	a := dx*dx + dy*dy - dr*dr
	b := qx*dx + qy*dy + g.R0*dr
	c := qx*qx + qy*qy - g.R0*g.R0

	if math.Abs(a) < 1e-9 {
		if b == 0 {
			return 0, false
		}
		t = c / (2 * b)
		return t, g.R0+t*dr >= 0
	}

	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	root := math.Sqrt(disc)
	t1 := (b + root) / a
	t2 := (b - root) / a
	if t1 < t2 {
		t1, t2 = t2, t1
	}
	if g.R0+t1*dr >= 0 {
		return t1, true
	}
	if g.R0+t2*dr >= 0 {
		return t2, true
	}
	return 0, false
}

// colorAt returns the premultiplied color for parameter t
func (g *RadialGradient) colorAt(t float64) Color {
	n := len(g.stops)
	if n == 0 {
		return Transparent
	}
	if t <= g.stops[0].Offset {
		return g.stops[0].Color.premul()
	}
	if t >= g.stops[n-1].Offset {
		return g.stops[n-1].Color.premul()
	}
	for i := 1; i < n; i++ {
		hi := g.stops[i]
		if t > hi.Offset {
			continue
		}
		lo := g.stops[i-1]
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return hi.Color.premul()
		}
		f := (t - lo.Offset) / span
		a, b := lo.Color.premul(), hi.Color.premul()
		return Color{
			R: a.R + (b.R-a.R)*f,
			G: a.G + (b.G-a.G)*f,
			B: a.B + (b.B-a.B)*f,
			A: a.A + (b.A-a.A)*f,
		}
	}
	return g.stops[n-1].Color.premul()
}

// At returns the straight-alpha gradient color at a logical point
func (g *RadialGradient) At(x, y float64) Color {
	t, ok := g.paramAt(x, y)
	if !ok {
		return Transparent
	}
	return g.colorAt(t).unpremul()
}
