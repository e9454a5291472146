package scene

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/memory-space/canvas"
)

// Small star field parameters
const (
	SmallStarCount       = 240
	SmallStarCountCalm   = 160
	smallStarMaxDelay    = 2.8
	smallStarTwinkleSecs = 3.2
)

type smallStar struct {
	x, y    float64 // fraction of the viewport
	size    float64
	opacity float64
	delay   float64 // seconds
}

// SmallStars is the decorative background field
type SmallStars struct {
	stars   []smallStar
	twinkle bool
}

// NewSmallStars scatters n stars; twinkle animates their opacity
func NewSmallStars(rng *rand.Rand, n int, twinkle bool) *SmallStars {
	s := &SmallStars{stars: make([]smallStar, n), twinkle: twinkle}
	for i := range s.stars {
		s.stars[i] = smallStar{
			x:       rng.Float64(),
			y:       rng.Float64(),
			size:    1 + rng.Float64()*2.2,
			opacity: 0.25 + rng.Float64()*0.6,
			delay:   rng.Float64() * smallStarMaxDelay,
		}
	}
	return s
}

// Len returns the star count
func (s *SmallStars) Len() int { return len(s.stars) }

// Draw paints the field at elapsed time t since mount
func (s *SmallStars) Draw(surf *canvas.Surface, t time.Duration) {
	w, h := surf.LogicalSize()
	secs := t.Seconds()
	for _, st := range s.stars {
		a := st.opacity
		if s.twinkle {
			local := secs - st.delay
			if local > 0 {
				a *= 0.6 + 0.4*math.Cos(2*math.Pi*local/smallStarTwinkleSecs)
			}
		}
		surf.FillCircle(st.x*w, st.y*h, st.size/2, canvas.White.WithAlpha(a))
	}
}

// drawNebula paints the deep-space backdrop shared by the backgrounds
func drawNebula(surf *canvas.Surface) {
	w, h := surf.LogicalSize()
	surf.Fill(canvas.RGBA(3, 4, 14, 1))
	surf.FillRectGradient(0, 0, w, h, canvas.CenteredGradient(w*0.3, h*0.35, math.Max(w, h)*0.55).
		AddStop(0, canvas.RGBA(90, 50, 160, 0.35)).
		AddStop(1, canvas.Transparent))
	surf.FillRectGradient(0, 0, w, h, canvas.CenteredGradient(w*0.75, h*0.7, math.Max(w, h)*0.5).
		AddStop(0, canvas.RGBA(30, 80, 160, 0.3)).
		AddStop(1, canvas.Transparent))
}

// drawBigStar paints a hotspot: a soft glow around a bright core, scaled by zoom
func drawBigStar(surf *canvas.Surface, x, y, zoom float64, hot bool) {
	glow := 18 * zoom
	a := 0.55
	if hot {
		a = 0.85
	}
	surf.FillCircleGradient(x, y, glow, canvas.CenteredGradient(x, y, glow).
		AddStop(0, canvas.RGBA(255, 250, 220, a)).
		AddStop(0.35, canvas.RGBA(255, 220, 140, a*0.5)).
		AddStop(1, canvas.Transparent))
	surf.FillCircle(x, y, 3*zoom, canvas.White)
}
