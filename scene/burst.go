package scene

import (
	"time"

	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/vmath"
)

// BurstDuration is the zoom burst lifetime
const BurstDuration = 800 * time.Millisecond

// Burst is the expanding flash drawn where a star was clicked
type Burst struct {
	X, Y  float64
	Start time.Time
}

// Done reports whether the burst has finished at now
func (b Burst) Done(now time.Time) bool { return !now.Before(b.Start.Add(BurstDuration)) }

// Draw paints the burst additively
func (b Burst) Draw(surf *canvas.Surface, now time.Time) {
	t := vmath.Progress(float64(now.Sub(b.Start)), float64(BurstDuration))
	if t >= 1 {
		return
	}
	r := vmath.Lerp(12, 260, vmath.EaseOutQuad(t))
	a := 1 - t
	prev := surf.Composite()
	surf.SetComposite(canvas.Lighter)
	surf.FillCircleGradient(b.X, b.Y, r, canvas.CenteredGradient(b.X, b.Y, r).
		AddStop(0, canvas.RGBA(255, 255, 255, a)).
		AddStop(0.3, canvas.RGBA(255, 230, 170, a*0.6)).
		AddStop(1, canvas.Transparent))
	surf.SetComposite(prev)
}

// pruneBursts drops finished bursts in place
func pruneBursts(bursts []Burst, now time.Time) []Burst {
	out := bursts[:0]
	for _, b := range bursts {
		if !b.Done(now) {
			out = append(out, b)
		}
	}
	return out
}
