package canvas

// CompositeOp selects how drawn pixels combine with the surface
type CompositeOp uint8

const (
	// SourceOver paints over existing content (canvas default)
	SourceOver CompositeOp = iota
	// Lighter adds color and alpha with saturation ("lighter")
	Lighter
	// Screen brightens: 1 − (1−dst)(1−src)
	Screen
)

// String returns the canvas composite operation name
func (op CompositeOp) String() string {
	switch op {
	case Lighter:
		return "lighter"
	case Screen:
		return "screen"
	default:
		return "source-over"
	}
}

// composite merges premultiplied src into premultiplied dst
func composite(dst *Color, src Color, op CompositeOp) {
	if src.A <= 0 && op != Lighter {
		return
	}
	switch op {
	case Lighter:
		dst.R = clamp01(dst.R + src.R)
		dst.G = clamp01(dst.G + src.G)
		dst.B = clamp01(dst.B + src.B)
		dst.A = clamp01(dst.A + src.A)
	case Screen:
		dst.R = dst.R + src.R - dst.R*src.R
		dst.G = dst.G + src.G - dst.G*src.G
		dst.B = dst.B + src.B - dst.B*src.B
		dst.A = dst.A + src.A - dst.A*src.A
	default:
		inv := 1 - src.A
		dst.R = src.R + dst.R*inv
		dst.G = src.G + dst.G*inv
		dst.B = src.B + dst.B*inv
		dst.A = src.A + dst.A*inv
	}
}
