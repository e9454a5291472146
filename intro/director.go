// Package intro plays the once-per-session opening sequence: streaks converge on
// the center, a dust cloud explodes outward, then the dust dissolves to reveal
// whatever is drawn beneath the intro surface.
package intro

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/vmath"
)

// Timeline
const (
	ConvergeDuration  = 2800 * time.Millisecond
	ExplosionDuration = 2200 * time.Millisecond
	FillDuration      = 3500 * time.Millisecond
	TrailingBuffer    = 1000 * time.Millisecond
	TotalDuration     = ConvergeDuration + ExplosionDuration + FillDuration + TrailingBuffer
)

// Particle counts and shaping
const (
	StreakCount = 260
	DustCount   = 900

	dustLifeFactor = 1.15
	fadeLifeFactor = 1.3
	dustBias       = 1.8
	minAlpha       = 0.01
)

// Phase is the current stage of the sequence
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseConverge
	PhaseExplosion
	PhaseFill
	PhaseDone
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseConverge:
		return "converge"
	case PhaseExplosion:
		return "explosion"
	case PhaseFill:
		return "fill"
	case PhaseDone:
		return "done"
	default:
		return "idle"
	}
}

var palette = []canvas.Color{
	canvas.RGBA(255, 230, 190, 1),
	canvas.RGBA(255, 210, 160, 1),
	canvas.RGBA(255, 190, 220, 1),
	canvas.RGBA(200, 190, 255, 1),
	canvas.RGBA(185, 215, 255, 1),
	canvas.RGBA(190, 255, 230, 1),
}

type streak struct {
	angle     float64
	length    float64
	delay     float64 // fraction of the phase before the streak appears
	durFactor float64 // fraction of the phase the streak lives
	color     canvas.Color
}

type dust struct {
	angle     float64
	maxRadius float64
	life      float64 // ms
	age       float64 // ms
	size      float64
	color     canvas.Color
}

// Director owns the intro surface, its particle buffers, and the timeline
type Director struct {
	surface *canvas.Surface
	rng     *rand.Rand
	log     zerolog.Logger

	phase        Phase
	elapsed      time.Duration
	phaseElapsed time.Duration

	streaks []streak
	dust    []dust
	skipped int
}

// New creates a director drawing to surface; rng drives every random choice
func New(surface *canvas.Surface, rng *rand.Rand, log zerolog.Logger) *Director {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Director{surface: surface, rng: rng, log: log}
}

// Surface returns the drawing surface
func (d *Director) Surface() *canvas.Surface { return d.surface }

// Phase returns the current phase
func (d *Director) Phase() Phase { return d.phase }

// Elapsed returns time since Start
func (d *Director) Elapsed() time.Duration { return d.elapsed }

// Running reports whether Tick still has work
func (d *Director) Running() bool {
	return d.phase != PhaseIdle && d.phase != PhaseDone
}

// Skipped returns how many particles were dropped as non-finite in the last frame
func (d *Director) Skipped() int { return d.skipped }

// Start resets the timeline and begins the converge phase
func (d *Director) Start() {
	d.elapsed = 0
	d.phaseElapsed = 0
	d.phase = PhaseConverge
	d.dust = d.dust[:0]
	d.createStreaks()
	d.log.Debug().Int("streaks", len(d.streaks)).Msg("intro started")
}

// Stop ends the sequence immediately and leaves the surface transparent
func (d *Director) Stop() {
	if d.phase == PhaseIdle || d.phase == PhaseDone {
		return
	}
	d.finish()
}

// Resize rescales the surface; the timeline and particles continue unchanged
func (d *Director) Resize(logicalW, logicalH float64, pxW, pxH int) {
	d.surface.Resize(logicalW, logicalH, pxW, pxH)
}

// Tick advances by dt and draws one frame; false once the sequence has finished
func (d *Director) Tick(dt time.Duration) bool {
	if !d.Running() {
		return false
	}
	if dt < 0 {
		dt = 0
	}
	d.elapsed += dt
	d.phaseElapsed += dt
	d.skipped = 0

	if d.elapsed >= TotalDuration {
		d.finish()
		return false
	}

	dtMs := float64(dt) / float64(time.Millisecond)
	switch d.phase {
	case PhaseConverge:
		p := vmath.Progress(float64(d.phaseElapsed), float64(ConvergeDuration))
		d.drawConverge(p)
		if p >= 1 {
			d.advance(PhaseExplosion, ConvergeDuration)
			d.createDust()
		}
	case PhaseExplosion:
		p := vmath.Progress(float64(d.phaseElapsed), float64(ExplosionDuration))
		d.drawExplosion(dtMs, p)
		if p >= 1 {
			d.advance(PhaseFill, ExplosionDuration)
		}
	case PhaseFill:
		p := vmath.Progress(float64(d.phaseElapsed), float64(FillDuration))
		d.drawFill(dtMs, p)
	}

	if d.skipped > 0 {
		d.log.Debug().Int("skipped", d.skipped).Stringer("phase", d.phase).Msg("non-finite particles")
	}
	return true
}

// advance moves to the next phase, carrying the overshoot past the previous phase's end
func (d *Director) advance(next Phase, spent time.Duration) {
	d.phase = next
	d.phaseElapsed = max(0, d.phaseElapsed-spent)
	d.log.Debug().Stringer("phase", next).Dur("elapsed", d.elapsed).Msg("intro phase")
}

func (d *Director) finish() {
	d.surface.SetComposite(canvas.SourceOver)
	d.surface.Clear()
	d.phase = PhaseDone
	d.streaks = d.streaks[:0]
	d.dust = d.dust[:0]
	d.log.Debug().Dur("elapsed", d.elapsed).Msg("intro finished")
}

func (d *Director) center() (cx, cy, w, h float64) {
	w, h = d.surface.LogicalSize()
	return w / 2, h / 2, w, h
}

func (d *Director) pick() canvas.Color {
	return palette[d.rng.IntN(len(palette))]
}

func (d *Director) createStreaks() {
	_, _, w, h := d.center()
	maxLen := math.Max(w, h) * 0.9
	d.streaks = d.streaks[:0]
	for range StreakCount {
		d.streaks = append(d.streaks, streak{
			angle:     d.rng.Float64() * 2 * math.Pi,
			length:    maxLen * (0.4 + d.rng.Float64()*0.6),
			delay:     d.rng.Float64() * 0.4,
			durFactor: 0.4 + d.rng.Float64()*0.4,
			color:     d.pick(),
		})
	}
}

func (d *Director) createDust() {
	_, _, w, h := d.center()
	maxR := math.Max(w, h) * 0.75
	life := float64(ExplosionDuration/time.Millisecond) * dustLifeFactor
	d.dust = d.dust[:0]
	for range DustCount {
		d.dust = append(d.dust, dust{
			angle:     d.rng.Float64() * 2 * math.Pi,
			maxRadius: maxR * math.Pow(d.rng.Float64(), dustBias),
			life:      life,
			size:      1.4 + d.rng.Float64()*2.6,
			color:     d.pick(),
		})
	}
}

// drawConverge paints streaks shrinking toward the center over an opaque black frame
func (d *Director) drawConverge(progress float64) {
	s := d.surface
	cx, cy, _, _ := d.center()

	s.Clear()
	s.SetComposite(canvas.SourceOver)
	s.Fill(canvas.Black)

	for i := range d.streaks {
		st := &d.streaks[i]
		local := (progress - st.delay) / math.Max(0.001, st.durFactor)
		if local <= 0 || local >= 1 {
			continue
		}
		ease := vmath.Smoothstep(local)
		length := st.length * (1 - ease)
		var opacity float64
		if ease < 0.3 {
			opacity = ease / 0.3
		} else {
			opacity = 1 - (ease-0.3)/0.7
		}
		if !vmath.Finite(st.angle, length, opacity) {
			d.skipped++
			continue
		}
		s.FillStreak(cx, cy, st.angle, length, 1.4, st.color.WithAlpha(vmath.Clamp01(opacity)))
	}

	core := 0.8 + vmath.EaseOutQuad(progress)*1.2
	glow := canvas.CenteredGradient(cx, cy, core*3).
		AddStop(0, canvas.RGBA(255, 255, 255, 1)).
		AddStop(0.4, canvas.RGBA(255, 245, 230, 0.9)).
		AddStop(1, canvas.RGBA(255, 220, 180, 0))
	s.FillCircleGradient(cx, cy, core*3, glow)
	s.FillCircle(cx, cy, core, canvas.White)
}

// drawExplosion paints the flash, the expanding dust, and the supernova core
func (d *Director) drawExplosion(dtMs, progress float64) {
	s := d.surface
	cx, cy, w, h := d.center()

	s.Clear()
	s.SetComposite(canvas.SourceOver)
	s.Fill(canvas.Black)

	flashR := math.Hypot(w, h) * (0.4 + progress*0.9)
	flashA := math.Pow(1-progress, 0.7)
	flash := canvas.CenteredGradient(cx, cy, flashR).
		AddStop(0, canvas.RGBA(255, 255, 255, flashA)).
		AddStop(0.3, canvas.RGBA(255, 245, 230, flashA*0.95)).
		AddStop(0.6, canvas.RGBA(255, 230, 190, flashA*0.75)).
		AddStop(1, canvas.RGBA(0, 0, 0, 0))
	s.FillCircleGradient(cx, cy, flashR, flash)

	s.SetComposite(canvas.Lighter)
	for i := range d.dust {
		p := &d.dust[i]
		p.age += dtMs
		t := vmath.Clamp01(p.age / p.life)
		radius := p.maxRadius * vmath.EaseOutQuad(t)
		x := cx + math.Cos(p.angle)*radius
		y := cy + math.Sin(p.angle)*radius
		fade := 1 - t
		alpha := fade * (0.7 + 0.3*progress)
		size := p.size * (0.9 + 0.2*fade)
		if !vmath.Finite(x, y, size, alpha) {
			d.skipped++
			continue
		}
		s.FillCircle(x, y, size, p.color.WithAlpha(alpha))
	}

	maxR := math.Max(w, h) * 0.75
	norm := vmath.EaseOutQuad(progress)
	coreR := 12 + norm*maxR*0.45
	core := canvas.CenteredGradient(cx, cy, coreR).
		AddStop(0, canvas.RGBA(255, 255, 255, 1)).
		AddStop(0.25, canvas.RGBA(255, 245, 230, 0.98)).
		AddStop(0.55, canvas.RGBA(255, 225, 190, 0.7)).
		AddStop(0.9, canvas.RGBA(200, 210, 255, 0.18)).
		AddStop(1, canvas.RGBA(0, 0, 0, 0))
	s.FillCircleGradient(cx, cy, coreR, core)
	s.FillCircle(cx, cy, 3+norm*1.5, canvas.RGBA(255, 255, 255, 0.95))

	s.SetComposite(canvas.SourceOver)
}

// drawFill lets the dust dissolve over a transparent surface
func (d *Director) drawFill(dtMs, progress float64) {
	s := d.surface
	cx, cy, _, _ := d.center()

	s.Clear()
	s.SetComposite(canvas.Lighter)
	for i := range d.dust {
		p := &d.dust[i]
		p.age += dtMs
		raw := p.age / p.life
		t := vmath.Clamp01(raw)
		radius := p.maxRadius * vmath.EaseOutQuad(t)
		x := cx + math.Cos(p.angle)*radius
		y := cy + math.Sin(p.angle)*radius
		fade := math.Max(0, 1-math.Min(1, raw/fadeLifeFactor))
		alpha := fade * 0.5 * (1 - progress)
		size := p.size * (0.7 + 0.3*fade)
		if !vmath.Finite(x, y, size, alpha) {
			d.skipped++
			continue
		}
		if alpha <= minAlpha {
			continue
		}
		s.FillCircle(x, y, size, p.color.WithAlpha(alpha))
	}
	s.SetComposite(canvas.SourceOver)
}
