// Package orbit draws a star's planets circling on tilted elliptical orbits.
package orbit

import (
	"math"

	"github.com/lixenwraith/memory-space/canvas"
)

// Orbit layout derived from a planet's local id
const (
	baseRadius   = 10
	radiusStep   = 4
	baseOrbit    = 150
	orbitStep    = 100
	speedFactor  = 0.0005
	hueStep      = 137
	satBase      = 80
	lightBase    = 60
	shadeModulus = 15
)

// Planet is one orbiting body; X and Y hold the last projected position
type Planet struct {
	ID    int
	R     float64
	Orbit float64
	Speed float64 // radians per millisecond
	Angle float64
	Color canvas.Color

	X, Y float64
}

// NewPlanet derives size, orbit, speed and color from id; ids start at 1
func NewPlanet(id int, angle float64) *Planet {
	n := float64(id)
	speed := 0.0
	if id != 0 {
		speed = speedFactor / n
	}
	return &Planet{
		ID:    id,
		R:     baseRadius + radiusStep*n,
		Orbit: orbitStep*n + baseOrbit,
		Speed: speed,
		Angle: angle,
		Color: PlanetColor(id),
		X:     math.NaN(),
		Y:     math.NaN(),
	}
}

// PlanetColor returns hsl((id·137) mod 360, 80+id mod 15 %, 60+id mod 15 %)
func PlanetColor(id int) canvas.Color {
	id = max(id, 0)
	hue := float64((id * hueStep) % 360)
	shade := float64(id % shadeModulus)
	return canvas.HSL(hue, satBase+shade, lightBase+shade)
}

// Projected reports whether the planet has a usable screen position
func (p *Planet) Projected() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
