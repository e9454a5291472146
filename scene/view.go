// Package scene holds the interactive views: the home background, the user's
// star field, the planet system and the static pages.
//
// A view owns a canvas surface and a frame loop on the shared scheduler. The
// host feeds it pointer and key events in logical pixels and reads back the
// surface plus text overlays each frame. Close cancels every frame callback and
// timer the view registered.
package scene

import (
	"context"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/archive"
	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/frame"
	"github.com/lixenwraith/memory-space/kvstore"
	"github.com/lixenwraith/memory-space/placement"
	"github.com/lixenwraith/memory-space/vmath"
)

// View is one routed screen
type View interface {
	// Resize sets the logical viewport and backing pixel grid
	Resize(w, h float64, pxW, pxH int)
	Pointer(ev PointerEvent)
	// Key reports whether the view consumed the key
	Key(ev KeyEvent) bool
	Surface() *canvas.Surface
	Texts() []Text
	Close()
}

// Sound plays transition cues
type Sound interface {
	Whoosh()
	Chime()
}

type silent struct{}

func (silent) Whoosh() {}
func (silent) Chime()  {}

// Env carries what views share
type Env struct {
	Ctx      context.Context
	Sched    *frame.Scheduler
	Store    kvstore.Store
	Client   *api.Client
	Notifier archive.Notifier
	Sound    Sound
	Rand     *rand.Rand
	SeedMode placement.SeedMode
	Log      zerolog.Logger

	// CellW and CellH are the logical size of one text cell
	CellW, CellH float64

	// Navigate requests a route change; the swap happens on the next frame
	Navigate func(path string)
}

func (e *Env) sound() Sound {
	if e.Sound == nil {
		return silent{}
	}
	return e.Sound
}

func (e *Env) navigate(path string) {
	if e.Navigate != nil {
		e.Navigate(path)
	}
}

// hitRadius is how far from a hotspot center a pointer still hits it
const hitRadius = 16

// hitTest returns the topmost key within hitRadius of (x,y); later keys draw on top
func hitTest(c interface {
	Keys() []string
	Position(string) (vmath.Vec2, bool)
}, x, y float64) string {
	keys := c.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		p, ok := c.Position(keys[i])
		if ok && vmath.Dist(p.X, p.Y, x, y) <= hitRadius {
			return keys[i]
		}
	}
	return ""
}

// loop is a self-requeueing frame callback with owned timers
type loop struct {
	sched  *frame.Scheduler
	id     frame.ID
	timers []*frame.Timer
	closed bool
}

func (l *loop) start(draw frame.Callback) {
	var tick frame.Callback
	tick = func(now time.Time) {
		draw(now)
		if !l.closed {
			l.id = l.sched.RequestFrame(tick)
		}
	}
	l.id = l.sched.RequestFrame(tick)
}

// after registers a timer that Close stops
func (l *loop) after(d time.Duration, fn func()) {
	if l.closed {
		return
	}
	var t *frame.Timer
	t = l.sched.AfterFunc(d, func() {
		l.timers = slices.DeleteFunc(l.timers, func(o *frame.Timer) bool { return o == t })
		fn()
	})
	l.timers = append(l.timers, t)
}

func (l *loop) stop() {
	l.closed = true
	l.sched.CancelFrame(l.id)
	for _, t := range l.timers {
		t.Stop()
	}
	l.timers = nil
}
