package orbit

import (
	"cmp"
	"math"
	"slices"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/vmath"
)

// Projection and shading constants
const (
	TiltX    = 0.1
	TiltY    = 0.7
	Rotation = -math.Pi / 15

	// FrameStep is the fixed per-frame time step in ms applied to Speed
	FrameStep = 16

	sunRadius       = 300
	highlightOffset = 0.6
	labelOffsetX    = -20
	labelOffsetY    = 8
)

var (
	orbitStroke = canvas.RGBA(255, 255, 255, 0.1)
	dimColor    = canvas.Hex("#777")
	highlight   = canvas.RGBA(255, 255, 255, 0.9)
	shadow      = canvas.RGBA(0, 0, 0, 0.75)
)

// RunState tells Tick whether planets advance this frame
type RunState uint8

const (
	Running RunState = iota
	Paused
)

// String returns the state name
func (s RunState) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// Focus describes which planet, if any, holds the user's attention; zero ids mean none
type Focus struct {
	MediaPlanet  int  // planet whose media popup is open
	AddPopupOpen bool // planet creation popup
	Hovered      int  // planet hovered in the side list
}

// Active reports whether any popup is open or a planet is hovered
func (f Focus) Active() bool {
	return f.MediaPlanet != 0 || f.AddPopupOpen || f.Hovered != 0
}

// State is the run state implied by the focus
func (f Focus) State() RunState {
	if f.Active() {
		return Paused
	}
	return Running
}

// Dimmed reports whether planet id is drawn in the muted color
func (f Focus) Dimmed(id int) bool {
	return (f.MediaPlanet != 0 && f.MediaPlanet != id) ||
		f.AddPopupOpen ||
		(f.Hovered != 0 && f.Hovered != id)
}

// Label is the anchor of a planet's name tag in logical pixels
type Label struct {
	ID     int
	X, Y   float64
	Dimmed bool
}

// Renderer draws the sun, orbit paths and planets onto a surface each frame
type Renderer struct {
	surface    *canvas.Surface
	background *canvas.Surface
	log        zerolog.Logger

	order   []*Planet
	labels  []Label
	skipped int
}

// NewRenderer creates a renderer drawing to surface
func NewRenderer(surface *canvas.Surface, log zerolog.Logger) *Renderer {
	return &Renderer{surface: surface, log: log}
}

// Surface returns the drawing surface
func (r *Renderer) Surface() *canvas.Surface { return r.surface }

// SetBackground sets a pre-rendered layer copied in before the sun
func (r *Renderer) SetBackground(bg *canvas.Surface) { r.background = bg }

// Skipped returns how many planets were dropped in the last frame
func (r *Renderer) Skipped() int { return r.skipped }

// Ellipse returns the orbit projection centered on the surface
func (r *Renderer) Ellipse() vmath.Ellipse {
	w, h := r.surface.LogicalSize()
	return vmath.Ellipse{CX: w / 2, CY: h / 2, TiltX: TiltX, TiltY: TiltY, Rotation: Rotation}
}

// Tick advances running planets by one frame, redraws, and returns label anchors in id order
// The returned slice is reused by the next call
func (r *Renderer) Tick(state RunState, focus Focus, planets []*Planet) []Label {
	s := r.surface
	w, h := s.LogicalSize()
	cx, cy := w/2, h/2
	e := r.Ellipse()

	s.Clear()
	s.SetComposite(canvas.SourceOver)
	if r.background != nil {
		s.DrawSurface(r.background)
	}

	sun := canvas.CenteredGradient(cx, cy, sunRadius).
		AddStop(0, canvas.RGBA(255, 255, 200, 0.9)).
		AddStop(0.2, canvas.RGBA(255, 220, 100, 0.6)).
		AddStop(0.6, canvas.RGBA(255, 160, 0, 0.3)).
		AddStop(1, canvas.Transparent)
	s.SetComposite(canvas.Screen)
	s.FillRectGradient(0, 0, w, h, sun)
	s.SetComposite(canvas.SourceOver)

	r.order = append(r.order[:0], planets...)
	slices.SortStableFunc(r.order, func(a, b *Planet) int {
		return cmp.Compare(planetID(a), planetID(b))
	})

	r.labels = r.labels[:0]
	r.skipped = 0
	for _, p := range r.order {
		if p == nil || !vmath.Finite(p.R) || p.R <= 0 {
			r.skipped++
			continue
		}

		rx, ry := e.Radii(p.Orbit)
		s.StrokeEllipse(cx, cy, rx, ry, Rotation, orbitStroke)

		if state == Running {
			p.Angle += p.Speed * FrameStep
		}
		x, y := e.Point(p.Orbit, p.Angle)
		p.X, p.Y = x, y
		if !vmath.Finite(x) || !vmath.Finite(y) {
			r.skipped++
			continue
		}

		dimmed := focus.Dimmed(p.ID)
		fill := p.Color
		if dimmed {
			fill = dimColor
		}

		dx, dy := x-cx, y-cy
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dist = 1
		}
		hx := x - dx/dist*p.R*highlightOffset
		hy := y - dy/dist*p.R*highlightOffset

		g := canvas.NewRadialGradient(hx, hy, 0, x, y, p.R).
			AddStop(0, highlight).
			AddStop(0.25, fill).
			AddStop(1, shadow)
		s.FillCircleGradient(x, y, p.R, g)

		r.labels = append(r.labels, Label{
			ID:     p.ID,
			X:      x + labelOffsetX,
			Y:      y + p.R + labelOffsetY,
			Dimmed: dimmed,
		})
	}
	if r.skipped > 0 {
		r.log.Debug().Int("skipped", r.skipped).Msg("planets skipped")
	}
	return r.labels
}

// PlanetAt returns the id of the topmost planet whose disc contains (x,y), or 0
func (r *Renderer) PlanetAt(planets []*Planet, x, y float64) int {
	hit, hitID := false, 0
	for _, p := range planets {
		if p == nil || !p.Projected() || p.R <= 0 {
			continue
		}
		if vmath.Dist(x, y, p.X, p.Y) > p.R {
			continue
		}
		// higher ids draw later and sit on top
		if !hit || p.ID > hitID {
			hit, hitID = true, p.ID
		}
	}
	return hitID
}

func planetID(p *Planet) int {
	if p == nil {
		return math.MinInt
	}
	return p.ID
}
