package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/memory-space/canvas"
)

// toTcell drops alpha; callers composite onto an opaque base first
func toTcell(c canvas.Color) tcell.Color {
	r, g, b := c.RGB8()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// over blends straight-alpha src onto an opaque dst
func over(src, dst canvas.Color) canvas.Color {
	a := src.A
	return canvas.Color{
		R: src.R*a + dst.R*(1-a),
		G: src.G*a + dst.G*(1-a),
		B: src.B*a + dst.B*(1-a),
		A: 1,
	}
}

// mix averages two opaque colors
func mix(a, b canvas.Color) canvas.Color {
	return canvas.Color{R: (a.R + b.R) / 2, G: (a.G + b.G) / 2, B: (a.B + b.B) / 2, A: 1}
}
