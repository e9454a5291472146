package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/archive"
	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/drag"
	"github.com/lixenwraith/memory-space/frame"
	"github.com/lixenwraith/memory-space/kvstore"
	"github.com/lixenwraith/memory-space/placement"
	"github.com/lixenwraith/memory-space/vmath"
)

// Star field timing and layout
const (
	SidebarCells = 28

	starMoveThreshold = 2
	starResizeQuiet   = 200 * time.Millisecond
	starCenterMove    = 800 * time.Millisecond
	starWarpDuration  = 1700 * time.Millisecond
	starZoomStep      = 800 * time.Millisecond
)

// Sidebar rows, in text cells from the top
const (
	rowTitle      = 1
	rowEditMode   = 3
	rowAnimations = 4
	rowFirstStar  = 6
)

// StarRoute is the planet-system route of a star
func StarRoute(id int64) string { return fmt.Sprintf("/star/%d", id) }

type centerMove struct {
	key      string
	from, to vmath.Vec2
	start    time.Time
	zooming  bool
}

// StarField is the user's star map with the management sidebar
type StarField struct {
	env    *Env
	list   *archive.StarList
	store  *placement.PositionStore
	drag   *drag.Controller
	loop   loop
	resize *frame.Debouncer

	surf     *canvas.Surface
	w, h     float64
	sized    bool
	mounted  time.Time
	stars    *SmallStars
	warp     *Warp
	bursts   []Burst
	moving   *centerMove
	tooltip  Tooltip
	hover    string
	press    string
	selected int

	editMode   bool
	animations bool

	modal    *Modal
	managing int64 // star id behind an open manage modal
}

// NewStarField mounts the star map and starts loading the user's stars
func NewStarField(env *Env) *StarField {
	f := &StarField{
		env:        env,
		store:      placement.UserStarStore(env.Store, env.Log),
		surf:       canvas.New(1, 1, 0, 0),
		mounted:    env.Sched.Now(),
		warp:       NewWarp(env.Sched, env.Rand),
		loop:       loop{sched: env.Sched},
		selected:   -1,
		editMode:   kvstore.EditMode.Load(env.Store),
		animations: kvstore.Animations.Load(env.Store),
	}
	f.resize = env.Sched.Debounce(starResizeQuiet)
	f.list = archive.NewStarList(env.Ctx, env.Client, f.store, env.Sched, env.Notifier, env.Log)
	f.list.OnChange(func([]api.Star) { f.regenerate() })
	f.drag = drag.New(f.store, drag.EditModeGate(func() bool { return f.editMode }),
		drag.Options{MoveThreshold: starMoveThreshold, Repel: true, CollisionRadius: drag.DefaultCollisionRadius}, env.Log)
	f.drag.OnDragStart = func(string) { f.tooltip.Hide() }
	f.list.Refresh()
	f.loop.start(f.draw)
	return f
}

// Surface implements View
func (f *StarField) Surface() *canvas.Surface { return f.surf }

// List returns the star collection
func (f *StarField) List() *archive.StarList { return f.list }

// Controller exposes the drag controller
func (f *StarField) Controller() *drag.Controller { return f.drag }

// EditMode reports whether drag works without shift
func (f *StarField) EditMode() bool { return f.editMode }

// Animations reports whether decorative effects run
func (f *StarField) Animations() bool { return f.animations }

// Warp returns the streak emitter
func (f *StarField) Warp() *Warp { return f.warp }

// Modal returns the open prompt, nil when none
func (f *StarField) Modal() *Modal { return f.modal }

// Tooltip returns the hover box state
func (f *StarField) Tooltip() Tooltip { return f.tooltip }

// SmallStars returns the background field
func (f *StarField) SmallStars() *SmallStars { return f.stars }

func (f *StarField) sidebarRight() float64 { return SidebarCells * f.env.CellW }

// Frame is the clamp frame stars live in
func (f *StarField) Frame() placement.Frame {
	return placement.SidebarFrame(f.w, f.h, placement.SafeMargin(f.w, f.h), f.sidebarRight()+24)
}

// Resize implements View; the first size lays out at once, later ones after a quiet period
func (f *StarField) Resize(w, h float64, pxW, pxH int) {
	f.w, f.h = w, h
	f.surf.Resize(w, h, pxW, pxH)
	if !f.sized {
		f.sized = true
		f.regenerate()
		return
	}
	f.resize.Trigger(f.regenerate)
}

func (f *StarField) regenerate() {
	if !f.sized {
		return
	}
	keys := f.list.Keys()
	positions := f.store.ResolveScatter(keys, f.env.Rand)
	f.drag.Layout(f.Frame(), keys, positions)
	n := SmallStarCountCalm
	if f.animations {
		n = SmallStarCount
	}
	f.stars = NewSmallStars(f.env.Rand, n, f.animations)
	f.tooltip.Hide()
	f.selected = min(f.selected, len(keys)-1)
}

// ToggleEditMode flips and persists edit mode
func (f *StarField) ToggleEditMode() {
	f.editMode = !f.editMode
	if err := kvstore.EditMode.Store(f.env.Store, f.editMode); err != nil {
		f.env.Log.Debug().Err(err).Msg("edit mode not persisted")
	}
	f.regenerate()
}

// ToggleAnimations flips and persists the animation flag; turning it off drops the warp
func (f *StarField) ToggleAnimations() {
	f.animations = !f.animations
	if err := kvstore.Animations.Store(f.env.Store, f.animations); err != nil {
		f.env.Log.Debug().Err(err).Msg("animation flag not persisted")
	}
	if !f.animations {
		f.warp.Clear()
	}
	f.regenerate()
}

// OpenCreate opens the new-star prompt unless the list is full
func (f *StarField) OpenCreate() {
	if f.list.Full() {
		f.env.Notifier.Notify(archive.ErrTooManyStars.Error())
		return
	}
	f.modal = NewModal("Create New Star", "", archive.MaxStarNameLength)
	f.managing = 0
}

// OpenManage opens the rename/delete prompt for a star
func (f *StarField) OpenManage(s api.Star) {
	f.modal = NewModal("Manage Star", s.Name, archive.MaxStarNameLength)
	f.modal.DeletePrompt = fmt.Sprintf("Are you sure you want to delete '%s'?", s.Name)
	f.managing = s.ID
}

func (f *StarField) closeModal() {
	f.modal = nil
	f.managing = 0
}

// Pointer implements View
func (f *StarField) Pointer(ev PointerEvent) {
	if f.modal != nil {
		cw, ch := f.env.CellW, f.env.CellH
		if ev.Kind == PointerDown && !within(f.modal.Texts(cw, ch, f.w, f.h), cw, ch, ev.X, ev.Y) {
			f.closeModal()
		}
		return
	}
	if f.moving != nil {
		return
	}
	p := drag.Pointer{X: ev.X, Y: ev.Y, Shift: ev.Shift}
	switch ev.Kind {
	case PointerDown:
		if f.drag.State() != drag.Dragging && ev.X < f.sidebarRight() {
			f.sidebarClick(ev.Y)
			return
		}
		f.press = hitTest(f.drag, ev.X, ev.Y)
		if f.press != "" {
			f.drag.PointerDown(f.press, p)
		}
	case PointerMove:
		if f.drag.State() == drag.Dragging {
			f.drag.PointerMove(p)
			return
		}
		f.hoverAt(ev.X, ev.Y)
	case PointerUp:
		f.drag.PointerUp()
		key := f.press
		f.press = ""
		if key != "" && f.drag.Click(key, ev.Shift) && hitTest(f.drag, ev.X, ev.Y) == key {
			f.zoom(key)
		}
	case PointerCancel:
		f.drag.Cancel()
		f.press = ""
	}
}

func (f *StarField) sidebarClick(y float64) {
	row := int(y / f.env.CellH)
	stars := f.list.Stars()
	switch {
	case row == rowEditMode:
		f.ToggleEditMode()
	case row == rowAnimations:
		f.ToggleAnimations()
	case row >= rowFirstStar && row < rowFirstStar+len(stars):
		f.selected = row - rowFirstStar
		f.OpenManage(stars[f.selected])
	case row == rowFirstStar+len(stars)+1:
		f.OpenCreate()
	}
}

func (f *StarField) starFor(key string) (api.Star, bool) {
	for _, s := range f.list.Stars() {
		if archive.StarKey(s.ID) == key {
			return s, true
		}
	}
	return api.Star{}, false
}

func (f *StarField) hoverAt(x, y float64) {
	f.hover = hitTest(f.drag, x, y)
	s, ok := f.starFor(f.hover)
	if !ok {
		f.tooltip.Hide()
		return
	}
	p, _ := f.drag.Position(f.hover)
	f.tooltip.Title, f.tooltip.Desc = s.Name, "Click to view memory"
	tw, th := f.tooltip.Size(f.env.CellW, f.env.CellH)
	f.tooltip.Show(s.Name, "Click to view memory", p.X, p.Y, 16, -12, tw, th, f.w, f.h)
}

// Key implements View
func (f *StarField) Key(ev KeyEvent) bool {
	if f.modal != nil {
		f.modalKey(ev)
		return true
	}
	stars := f.list.Stars()
	switch {
	case ev.Is('e'):
		f.ToggleEditMode()
	case ev.Is('a'):
		f.ToggleAnimations()
	case ev.Is('n'), ev.Is('+'):
		f.OpenCreate()
	case ev.Key == KeyDown && len(stars) > 0:
		f.selected = (f.selected + 1) % len(stars)
	case ev.Key == KeyUp && len(stars) > 0:
		f.selected = (f.selected - 1 + len(stars)) % len(stars)
	case ev.Key == KeyEnter && f.selected >= 0 && f.selected < len(stars):
		f.zoom(archive.StarKey(stars[f.selected].ID))
	case ev.Is('m') && f.selected >= 0 && f.selected < len(stars):
		f.OpenManage(stars[f.selected])
	default:
		return false
	}
	return true
}

func (f *StarField) modalKey(ev KeyEvent) {
	switch f.modal.Key(ev) {
	case ActionCancel:
		f.closeModal()
	case ActionConfirm:
		if f.managing != 0 {
			if f.list.Rename(f.managing, f.modal.Value()) == nil {
				f.closeModal()
			}
			return
		}
		err := f.list.Create(f.modal.Value())
		if err == nil || errors.Is(err, archive.ErrTooManyStars) {
			f.closeModal()
		}
	case ActionDelete:
		f.list.Delete(f.managing)
		f.closeModal()
	}
}

// zoom moves the star to the center, warps, then navigates; without animations it navigates at once
func (f *StarField) zoom(key string) {
	s, ok := f.starFor(key)
	if !ok || f.editMode || f.moving != nil {
		return
	}
	route := StarRoute(s.ID)
	if !f.animations {
		f.env.navigate(route)
		return
	}
	from, _ := f.drag.Position(key)
	center := vmath.Vec2{X: f.w / 2, Y: f.h / 2}
	f.moving = &centerMove{key: key, from: from, to: center, start: f.env.Sched.Now()}
	f.tooltip.Hide()
	f.env.Log.Debug().Str("route", route).Msg("zoom into star")

	f.loop.after(starCenterMove, func() {
		f.warp.Start(center.X, center.Y, f.w, f.h, starWarpDuration)
		f.bursts = append(f.bursts, Burst{X: center.X, Y: center.Y, Start: f.env.Sched.Now()})
		f.moving.zooming = true
		f.env.sound().Whoosh()
		f.env.sound().Chime()
		f.loop.after(starZoomStep, func() {
			f.env.navigate(route)
			f.loop.after(starZoomStep, f.endZoom)
		})
	})
}

func (f *StarField) endZoom() {
	f.moving = nil
	f.warp.Clear()
}

// Moving reports the star travelling to the center, if any
func (f *StarField) Moving() string {
	if f.moving == nil {
		return ""
	}
	return f.moving.key
}

func (f *StarField) draw(now time.Time) {
	if f.stars == nil {
		return
	}
	s := f.surf
	s.Clear()
	drawNebula(s)
	f.stars.Draw(s, now.Sub(f.mounted))
	for _, k := range f.drag.Keys() {
		p, _ := f.drag.Position(k)
		zoom := 1.0
		if m := f.moving; m != nil && m.key == k {
			t := vmath.EaseOutQuad(vmath.Progress(float64(now.Sub(m.start)), float64(starCenterMove)))
			p = vmath.Vec2{X: vmath.Lerp(m.from.X, m.to.X, t), Y: vmath.Lerp(m.from.Y, m.to.Y, t)}
			if m.zooming {
				z := vmath.Progress(float64(now.Sub(m.start.Add(starCenterMove))), float64(2*starZoomStep))
				zoom = 1 + 3*vmath.EaseOutQuad(z)
			}
		}
		drawBigStar(s, p.X, p.Y, zoom, k == f.hover || k == f.drag.Active() || f.editMode)
	}
	f.bursts = pruneBursts(f.bursts, now)
	for _, b := range f.bursts {
		b.Draw(s, now)
	}
	f.warp.Draw(s, now)
	s.FillRect(0, 0, f.sidebarRight(), f.h, PanelColor)
}

// Texts implements View
func (f *StarField) Texts() []Text {
	cw, ch := f.env.CellW, f.env.CellH
	stars := f.list.Stars()
	row := func(r int, s string, fg canvas.Color) Text {
		return Text{X: cw, Y: float64(r) * ch, S: s, FG: fg}
	}
	onOff := func(label string, on bool) string {
		if on {
			return "[" + label + ": ON]"
		}
		return "[" + label + ": OFF]"
	}
	out := []Text{
		{X: cw, Y: rowTitle * ch, S: fmt.Sprintf("My Stars (%d/%d)", len(stars), archive.MaxStars), FG: AccentColor, Bold: true},
		row(rowEditMode, onOff("Edit Mode", f.editMode), TextColor),
		row(rowAnimations, onOff("Animations", f.animations), TextColor),
	}
	for i, s := range stars {
		t := row(rowFirstStar+i, "* "+s.Name, TextColor)
		if i == f.selected {
			t.S = "> " + s.Name
			t.Bold = true
			t.FG = AccentColor
		}
		out = append(out, t)
	}
	add := row(rowFirstStar+len(stars)+1, "[+ Add Star]", AccentColor)
	if f.list.Full() {
		add = row(rowFirstStar+len(stars)+1, fmt.Sprintf("You can create up to %d stars.", archive.MaxStars), MutedColor)
	}
	out = append(out, add)
	if !f.list.Loaded() {
		out = append(out, row(rowFirstStar, "loading...", MutedColor))
	}
	out = append(out, f.tooltip.Texts(cw, ch)...)
	if f.modal != nil {
		out = append(out, f.modal.Texts(cw, ch, f.w, f.h)...)
	}
	return out
}

// Hints implements Hinter
func (f *StarField) Hints() string {
	if f.editMode {
		return "drag to move  e edit off  n new  Up/Down select  m manage  Esc home"
	}
	return "click open  shift+drag move  e edit  a anim  n new  Up/Down  Enter open  m manage"
}

// Close stops the loop, timers, requests and any gesture
func (f *StarField) Close() {
	f.loop.stop()
	f.resize.Stop()
	f.warp.Clear()
	f.drag.Cancel()
	f.list.Close()
}
