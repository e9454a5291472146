package scene

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/frame"
	"github.com/lixenwraith/memory-space/vmath"
)

// Warp emitter timing
const (
	WarpBatch     = 20
	WarpInterval  = 140 * time.Millisecond
	WarpDuration  = 1700 * time.Millisecond
	warpLifeMin   = 1200 * time.Millisecond
	warpLifeRange = 800 * time.Millisecond
	warpMaxDelay  = 80 * time.Millisecond
	warpLinger    = 80 * time.Millisecond
	warpOvershoot = 220
)

type warpStreak struct {
	born   time.Time
	delay  time.Duration
	dur    time.Duration
	angle  float64
	rmin   float64
	reach  float64
	length float64
	thick  float64
	alpha  float64
}

func (s warpStreak) expires() time.Time { return s.born.Add(s.delay + s.dur + warpLinger) }

// Warp emits light streaks that fly outward from a center point
type Warp struct {
	sched *frame.Scheduler
	rng   *rand.Rand

	cx, cy  float64
	w, h    float64
	streaks []warpStreak
	tick    *frame.Timer
	end     *frame.Timer
	until   time.Time
}

// NewWarp creates an idle emitter
func NewWarp(sched *frame.Scheduler, rng *rand.Rand) *Warp {
	return &Warp{sched: sched, rng: rng}
}

// Start emits a batch now and every WarpInterval until d elapses
func (w *Warp) Start(cx, cy, vw, vh float64, d time.Duration) {
	w.Stop()
	w.cx, w.cy, w.w, w.h = cx, cy, vw, vh
	w.until = w.sched.Now().Add(d)
	w.emit()
	w.tick = w.sched.Every(WarpInterval, w.emit)
	w.end = w.sched.AfterFunc(d, w.Stop)
}

// Stop ends emission; streaks in flight finish
func (w *Warp) Stop() {
	w.tick.Stop()
	w.end.Stop()
	w.tick, w.end = nil, nil
}

// Clear stops emission and drops every streak
func (w *Warp) Clear() {
	w.Stop()
	w.streaks = w.streaks[:0]
}

// Emitting reports whether batches are still being scheduled
func (w *Warp) Emitting() bool {
	return w.tick != nil && w.sched.Now().Before(w.until)
}

// Len returns the streaks alive
func (w *Warp) Len() int { return len(w.streaks) }

func (w *Warp) emit() {
	now := w.sched.Now()
	m := math.Min(w.w, w.h)
	for range WarpBatch {
		angle := w.rng.Float64() * 2 * math.Pi
		start := m*0.12 + w.rng.Float64()*m*0.08
		x0, y0 := w.cx+math.Cos(angle)*start, w.cy+math.Sin(angle)*start
		w.streaks = append(w.streaks, warpStreak{
			born:   now,
			delay:  time.Duration(w.rng.Float64() * float64(warpMaxDelay)),
			dur:    warpLifeMin + time.Duration(w.rng.Float64()*float64(warpLifeRange)),
			angle:  angle,
			rmin:   start,
			reach:  rayToEdge(x0, y0, angle, w.w, w.h) + warpOvershoot,
			length: 40 + w.rng.Float64()*90,
			thick:  1 + w.rng.Float64()*1.5,
			alpha:  0.55 + w.rng.Float64()*0.45,
		})
	}
}

// rayToEdge is the distance from (x0,y0) along angle to the first viewport edge ahead
func rayToEdge(x0, y0, angle, w, h float64) float64 {
	dx, dy := math.Cos(angle), math.Sin(angle)
	best := math.Inf(1)
	hit := func(t float64) {
		if t > 0 && t < best {
			best = t
		}
	}
	if dx != 0 {
		hit(-x0 / dx)
		hit((w - x0) / dx)
	}
	if dy != 0 {
		hit(-y0 / dy)
		hit((h - y0) / dy)
	}
	if math.IsInf(best, 1) {
		return math.Hypot(w, h)
	}
	return best
}

// Draw prunes finished streaks and paints the rest additively
func (w *Warp) Draw(surf *canvas.Surface, now time.Time) {
	live := w.streaks[:0]
	for _, s := range w.streaks {
		if !now.Before(s.expires()) {
			continue
		}
		live = append(live, s)
	}
	w.streaks = live
	if len(live) == 0 {
		return
	}

	prev := surf.Composite()
	surf.SetComposite(canvas.Lighter)
	defer surf.SetComposite(prev)
	for _, s := range live {
		t := vmath.Progress(float64(now.Sub(s.born.Add(s.delay))), float64(s.dur))
		if t <= 0 {
			continue
		}
		// Accelerating flight, fading near the end
		head := s.rmin + s.reach*t*t
		tail := math.Max(s.rmin, head-s.length*(0.4+t))
		a := s.alpha * (1 - vmath.Smoothstep((t-0.7)/0.3))
		ox, oy := w.cx+math.Cos(s.angle)*tail, w.cy+math.Sin(s.angle)*tail
		surf.FillStreak(ox, oy, s.angle, head-tail, s.thick, canvas.RGBA(200, 225, 255, a))
	}
}
