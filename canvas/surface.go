// Package canvas provides a small 2D raster surface with a logical coordinate space.
//
// Drawing calls take logical (CSS-pixel) coordinates. The backing pixel grid may be
// coarser or finer; the logical→backing scale plays the role of a device pixel ratio.
// Pixels are stored premultiplied so additive ("lighter") and source-over
// compositing can be mixed freely within one frame.
package canvas

import "math"

// Surface is a drawable RGBA raster
type Surface struct {
	logicalW, logicalH float64
	width, height      int
	sx, sy             float64
	pix                []Color
	op                 CompositeOp
}

// New creates a transparent surface of width×height backing pixels mapped onto logicalW×logicalH
func New(logicalW, logicalH float64, width, height int) *Surface {
	s := &Surface{}
	s.Resize(logicalW, logicalH, width, height)
	return s
}

// Resize changes logical and backing size; content is discarded like a canvas width reset
func (s *Surface) Resize(logicalW, logicalH float64, width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	size := width * height
	if cap(s.pix) < size {
		s.pix = make([]Color, size)
	} else {
		s.pix = s.pix[:size]
	}
	s.width, s.height = width, height
	s.logicalW, s.logicalH = math.Max(logicalW, 1), math.Max(logicalH, 1)
	s.sx = float64(width) / s.logicalW
	s.sy = float64(height) / s.logicalH
	s.op = SourceOver
	s.Clear()
}

// LogicalSize returns the logical viewport size
func (s *Surface) LogicalSize() (w, h float64) { return s.logicalW, s.logicalH }

// PixelSize returns the backing grid size
func (s *Surface) PixelSize() (w, h int) { return s.width, s.height }

// SetComposite sets the active composite operation
func (s *Surface) SetComposite(op CompositeOp) { s.op = op }

// Composite returns the active composite operation
func (s *Surface) Composite() CompositeOp { return s.op }

// Clear resets every pixel to transparent (clearRect over the full surface)
func (s *Surface) Clear() {
	clear(s.pix)
}

// Fill paints the full surface with c using the active composite operation
func (s *Surface) Fill(c Color) {
	src := c.premul()
	for i := range s.pix {
		composite(&s.pix[i], src, s.op)
	}
}

// At returns the straight-alpha color of a backing pixel; transparent when out of bounds
func (s *Surface) At(px, py int) Color {
	if px < 0 || py < 0 || px >= s.width || py >= s.height {
		return Transparent
	}
	return s.pix[py*s.width+px].unpremul()
}

// Visible reports whether any pixel has a non-zero alpha at 8-bit precision
func (s *Surface) Visible() bool {
	for i := range s.pix {
		if s.pix[i].A >= 0.5/255 {
			return true
		}
	}
	return false
}

// DrawSurface composites src over s with the active operation, sampling src by nearest pixel
func (s *Surface) DrawSurface(src *Surface) {
	if src == nil || src.width == 0 || src.height == 0 {
		return
	}
	for py := 0; py < s.height; py++ {
		sy := py * src.height / max(s.height, 1)
		for px := 0; px < s.width; px++ {
			sx := px * src.width / max(s.width, 1)
			composite(&s.pix[py*s.width+px], src.pix[sy*src.width+sx], s.op)
		}
	}
}

// toLogical returns the logical coordinates of a backing pixel center
func (s *Surface) toLogical(px, py int) (float64, float64) {
	return (float64(px) + 0.5) / s.sx, (float64(py) + 0.5) / s.sy
}

// pixelRange converts a logical span to an inclusive backing index range clipped to [0,n)
func pixelRange(lo, hi, scale float64, n int) (int, int) {
	a := int(math.Floor(lo * scale))
	b := int(math.Ceil(hi*scale)) - 1
	return max(a, 0), min(b, n-1)
}

// minFootprint is the logical size of one backing pixel on the smaller axis
func (s *Surface) minFootprint() float64 {
	return 1 / math.Max(math.Min(s.sx, s.sy), 1e-9)
}

// plot composites a straight-alpha color at a backing pixel
func (s *Surface) plot(px, py int, c Color) {
	if px < 0 || py < 0 || px >= s.width || py >= s.height {
		return
	}
	composite(&s.pix[py*s.width+px], c.premul(), s.op)
}

// plotPremul composites a premultiplied color at a backing pixel
func (s *Surface) plotPremul(px, py int, c Color) {
	composite(&s.pix[py*s.width+px], c, s.op)
}
