package scene

import (
	"time"

	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/drag"
	"github.com/lixenwraith/memory-space/placement"
	"github.com/lixenwraith/memory-space/vmath"
)

// Home layout and zoom timing
const (
	HomeMargin  = 140
	HomeMinDist = 280

	homeMoveThreshold = 3
	homeZoomDuration  = 1600 * time.Millisecond
	// navigation and cleanup each wait this long
	homeZoomStep = 800 * time.Millisecond
)

// HomeHotspots are the fixed home stars, keyed by the route they open
var HomeHotspots = []placement.HotspotConfig{
	{Key: "/introduction", Label: "Introduction", Metadata: "This star contains an introduction to this site."},
	{Key: "/tutorial", Label: "Tutorial", Metadata: "Here, you can find the tutorial for this site."},
	{Key: "/example", Label: "Example", Metadata: "This star shows examples of how to use it."},
	{Key: "/inquiries", Label: "Inquiries", Metadata: "This star is for inquiries."},
}

func homeKeys() []string {
	keys := make([]string, len(HomeHotspots))
	for i, c := range HomeHotspots {
		keys[i] = c.Key
	}
	return keys
}

func homeConfig(key string) (placement.HotspotConfig, bool) {
	for _, c := range HomeHotspots {
		if c.Key == key {
			return c, true
		}
	}
	return placement.HotspotConfig{}, false
}

// Home is the landing background: four seeded stars that shift-drag and zoom into pages
// With interactive false it is decoration only
type Home struct {
	env         *Env
	interactive bool
	store       *placement.PositionStore
	drag        *drag.Controller
	loop        loop

	surf    *canvas.Surface
	w, h    float64
	mounted time.Time
	stars   *SmallStars
	warp    *Warp
	bursts  []Burst

	tooltip   Tooltip
	hover     string
	press     string
	zoomKey   string
	zoomStart time.Time
}

// NewHome mounts the home background and starts its frame loop
func NewHome(env *Env, interactive bool) *Home {
	h := &Home{
		env:         env,
		interactive: interactive,
		store:       placement.HomeStore(env.Store, env.Log),
		surf:        canvas.New(1, 1, 0, 0),
		mounted:     env.Sched.Now(),
		warp:        NewWarp(env.Sched, env.Rand),
		loop:        loop{sched: env.Sched},
	}
	h.drag = drag.New(h.store, drag.ShiftGate(),
		drag.Options{MoveThreshold: homeMoveThreshold}, env.Log)
	h.drag.OnDragStart = func(string) { h.tooltip.Hide() }
	h.loop.start(h.draw)
	return h
}

// Surface implements View
func (h *Home) Surface() *canvas.Surface { return h.surf }

// Controller exposes the drag controller
func (h *Home) Controller() *drag.Controller { return h.drag }

// Tooltip returns the hover box state
func (h *Home) Tooltip() Tooltip { return h.tooltip }

// Zooming returns the star being zoomed into
func (h *Home) Zooming() string { return h.zoomKey }

// Resize regenerates the layout for a new viewport
func (h *Home) Resize(w, ht float64, pxW, pxH int) {
	h.w, h.h = w, ht
	h.surf.Resize(w, ht, pxW, pxH)
	res := h.store.Resolve(placement.Engine{Mode: h.env.SeedMode}, HomeHotspots, w, ht, HomeMargin, HomeMinDist)
	h.drag.Layout(placement.MarginFrame(w, ht, HomeMargin), homeKeys(), res.Positions)
	h.stars = NewSmallStars(h.env.Rand, SmallStarCount, true)
	h.tooltip.Hide()
}

// Pointer implements View
func (h *Home) Pointer(ev PointerEvent) {
	if !h.interactive {
		return
	}
	p := drag.Pointer{X: ev.X, Y: ev.Y, Shift: ev.Shift}
	switch ev.Kind {
	case PointerDown:
		h.press = hitTest(h.drag, ev.X, ev.Y)
		if h.press != "" {
			h.drag.PointerDown(h.press, p)
		}
	case PointerMove:
		if h.drag.State() == drag.Dragging {
			h.drag.PointerMove(p)
			return
		}
		h.hoverAt(ev.X, ev.Y)
	case PointerUp:
		h.drag.PointerUp()
		key := h.press
		h.press = ""
		if key == "" {
			return
		}
		// Click consumes drag suppression even when the release lands elsewhere
		if h.drag.Click(key, ev.Shift) && hitTest(h.drag, ev.X, ev.Y) == key {
			h.zoom(key)
		}
	case PointerCancel:
		h.drag.Cancel()
		h.press = ""
	}
}

func (h *Home) hoverAt(x, y float64) {
	h.hover = hitTest(h.drag, x, y)
	cfg, ok := homeConfig(h.hover)
	if !ok {
		h.tooltip.Hide()
		return
	}
	p, _ := h.drag.Position(h.hover)
	h.tooltip.Title, h.tooltip.Desc = cfg.Label, cfg.Metadata
	tw, th := h.tooltip.Size(h.env.CellW, h.env.CellH)
	h.tooltip.Show(cfg.Label, cfg.Metadata, p.X, p.Y, 12, 12, tw, th, h.w, h.h)
}

// Key opens the nth star with the digits 1 to 4
func (h *Home) Key(ev KeyEvent) bool {
	if !h.interactive || ev.Key != KeyRune {
		return false
	}
	i := int(ev.Rune - '1')
	if i < 0 || i >= len(HomeHotspots) {
		return false
	}
	h.zoom(HomeHotspots[i].Key)
	return true
}

func (h *Home) zoom(key string) {
	if h.zoomKey != "" {
		return
	}
	p, ok := h.drag.Position(key)
	if !ok {
		return
	}
	now := h.env.Sched.Now()
	h.zoomKey, h.zoomStart = key, now
	h.tooltip.Hide()
	h.bursts = append(h.bursts, Burst{X: p.X, Y: p.Y, Start: now})
	h.warp.Start(h.w/2, h.h/2, h.w, h.h, homeZoomDuration)
	h.env.sound().Chime()
	h.env.sound().Whoosh()
	h.env.Log.Debug().Str("route", key).Msg("zoom into home star")

	h.loop.after(homeZoomStep, func() {
		h.env.navigate(key)
		h.loop.after(homeZoomStep, h.endZoom)
	})
}

func (h *Home) endZoom() {
	h.zoomKey = ""
	h.warp.Clear()
}

func (h *Home) draw(now time.Time) {
	if h.stars == nil {
		return
	}
	s := h.surf
	s.Clear()
	drawNebula(s)
	h.stars.Draw(s, now.Sub(h.mounted))
	for _, k := range h.drag.Keys() {
		p, _ := h.drag.Position(k)
		zoom := 1.0
		if k == h.zoomKey {
			t := vmath.Progress(float64(now.Sub(h.zoomStart)), float64(homeZoomDuration))
			zoom = 1 + 2*vmath.EaseOutQuad(t)
		}
		drawBigStar(s, p.X, p.Y, zoom, h.interactive && (k == h.hover || k == h.drag.Active()))
	}
	h.bursts = pruneBursts(h.bursts, now)
	for _, b := range h.bursts {
		b.Draw(s, now)
	}
	h.warp.Draw(s, now)
}

// Texts implements View
func (h *Home) Texts() []Text {
	if !h.interactive {
		return nil
	}
	return h.tooltip.Texts(h.env.CellW, h.env.CellH)
}

// Hints implements Hinter
func (h *Home) Hints() string {
	return "click or 1-4 open  shift+drag move  h home  m my space"
}

// Close stops the loop, timers and any gesture
func (h *Home) Close() {
	h.loop.stop()
	h.warp.Clear()
	h.drag.Cancel()
}
