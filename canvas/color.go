package canvas

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha color with channels in [0,1]
type Color struct {
	R, G, B, A float64
}

// Predefined colors
var (
	Transparent = Color{}
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
)

// RGBA builds a color from 8-bit channels and a [0,1] alpha, matching rgba(r,g,b,a)
func RGBA(r, g, b uint8, a float64) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, clamp01(a)}
}

// FromColorful converts a go-colorful color with the given alpha
func FromColorful(c colorful.Color, a float64) Color {
	c = c.Clamped()
	return Color{c.R, c.G, c.B, clamp01(a)}
}

// HSL builds a color from hue degrees and saturation/lightness percentages, matching hsl(h, s%, l%)
func HSL(h, s, l float64) Color {
	return FromColorful(colorful.Hsl(h, s/100, l/100), 1)
}

// Hex parses "#rrggbb"/"#rgb"; falls back to opaque black on malformed input
func Hex(s string) Color {
	c, err := colorful.Hex(expandHex(s))
	if err != nil {
		return Black
	}
	return FromColorful(c, 1)
}

// WithAlpha returns c with alpha replaced
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// RGB8 returns 8-bit channels, ignoring alpha
func (c Color) RGB8() (r, g, b uint8) {
	return to8(c.R), to8(c.G), to8(c.B)
}

// premul converts straight alpha to premultiplied
func (c Color) premul() Color {
	return Color{c.R * c.A, c.G * c.A, c.B * c.A, c.A}
}

// unpremul converts premultiplied to straight alpha
func (c Color) unpremul() Color {
	if c.A <= 0 {
		return Transparent
	}
	return Color{c.R / c.A, c.G / c.A, c.B / c.A, c.A}
}

func expandHex(s string) string {
	if len(s) == 4 && s[0] == '#' {
		return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return s
}

func clamp01(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
