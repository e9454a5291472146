// Package drag turns press-move-release gestures into clamped, persisted hotspot moves.
package drag

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/placement"
	"github.com/lixenwraith/memory-space/vmath"
)

// State is the gesture state of a Controller
type State uint8

const (
	Idle State = iota
	Dragging
)

// String returns the state name
func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Gate decides whether a press may start a drag given the shift modifier
type Gate func(shift bool) bool

// ShiftGate allows dragging only while shift is held
func ShiftGate() Gate {
	return func(shift bool) bool { return shift }
}

// EditModeGate allows dragging while shift is held or while editMode reports true
func EditModeGate(editMode func() bool) Gate {
	return func(shift bool) bool { return shift || (editMode != nil && editMode()) }
}

// Pointer is a pointer sample in logical pixels
type Pointer struct {
	X, Y  float64
	Shift bool
}

// Options tunes a Controller
type Options struct {
	MoveThreshold   float64 // pointer travel past which the gesture counts as a move
	Repel           bool
	CollisionRadius float64
}

// DefaultOptions is the shift-drag configuration without repulsion
func DefaultOptions() Options {
	return Options{MoveThreshold: 3, CollisionRadius: DefaultCollisionRadius}
}

// Controller owns hotspot pixel positions for one background and the active gesture
type Controller struct {
	frame placement.Frame
	store *placement.PositionStore
	gate  Gate
	opts  Options
	log   zerolog.Logger

	order []string
	pos   map[string]vmath.Vec2

	state     State
	active    string
	start     vmath.Vec2
	startPos  vmath.Vec2
	moved     bool
	captured  bool
	touched   map[string]struct{}
	swallowed string // key whose next click belongs to a drag gesture

	// OnDragStart runs when a drag begins (tooltip suppression)
	OnDragStart func(key string)
	// OnCommit runs after a moved gesture is persisted
	OnCommit func(saved placement.Positions)
}

// New creates a controller persisting into store; a nil gate means ShiftGate
func New(store *placement.PositionStore, gate Gate, opts Options, log zerolog.Logger) *Controller {
	if gate == nil {
		gate = ShiftGate()
	}
	if opts.MoveThreshold <= 0 {
		opts.MoveThreshold = 3
	}
	if opts.CollisionRadius <= 0 {
		opts.CollisionRadius = DefaultCollisionRadius
	}
	return &Controller{
		store: store,
		gate:  gate,
		opts:  opts,
		log:   log,
		pos:   make(map[string]vmath.Vec2),
	}
}

// Layout replaces the hotspot set, mapping normalized positions through frame
// Keys are drawn and hit-tested in the given order; any gesture in progress is dropped
func (c *Controller) Layout(frame placement.Frame, keys []string, positions placement.Positions) {
	c.Cancel()
	c.frame = frame
	c.order = append(c.order[:0], keys...)
	clear(c.pos)
	for _, k := range keys {
		p, ok := positions[k]
		if !ok {
			p = placement.NormalizedPosition{RX: 0.5, RY: 0.5}
		}
		c.pos[k] = frame.ToPixel(p)
	}
}

// Frame returns the clamp frame
func (c *Controller) Frame() placement.Frame { return c.frame }

// Keys returns hotspot keys in layout order
func (c *Controller) Keys() []string { return c.order }

// Position returns the current pixel center of a hotspot
func (c *Controller) Position(key string) (vmath.Vec2, bool) {
	p, ok := c.pos[key]
	return p, ok
}

// State returns the gesture state
func (c *Controller) State() State { return c.state }

// Active returns the dragged key, empty when idle
func (c *Controller) Active() string { return c.active }

// Captured reports whether pointer events are routed to the active hotspot
func (c *Controller) Captured() bool { return c.captured }

// Moved reports whether the current gesture passed the move threshold
func (c *Controller) Moved() bool { return c.moved }

// PointerDown starts a drag on key when the gate allows it and reports whether it did
func (c *Controller) PointerDown(key string, p Pointer) bool {
	if c.state == Dragging {
		return false
	}
	pos, ok := c.pos[key]
	if !ok || !c.gate(p.Shift) {
		return false
	}
	c.state = Dragging
	c.active = key
	c.start = vmath.Vec2{X: p.X, Y: p.Y}
	c.startPos = pos
	c.moved = false
	c.captured = true
	c.touched = make(map[string]struct{})
	c.swallowed = key
	if c.OnDragStart != nil {
		c.OnDragStart(key)
	}
	return true
}

// PointerMove updates the dragged hotspot, clamped to the frame, and repels neighbors
func (c *Controller) PointerMove(p Pointer) {
	if c.state != Dragging {
		return
	}
	delta := vmath.Vec2{X: p.X, Y: p.Y}.Sub(c.start)
	if !vmath.Finite(delta.X, delta.Y) {
		return
	}
	if delta.Len() > c.opts.MoveThreshold {
		c.moved = true
	}
	bounds := c.frame.Rect()
	next := bounds.ClampPoint(c.startPos.Add(delta))
	c.pos[c.active] = next

	if !c.opts.Repel {
		return
	}
	others := make(map[string]vmath.Vec2, len(c.pos)-1)
	for k, v := range c.pos {
		if k != c.active {
			others[k] = v
		}
	}
	for _, k := range Repel(next, others, c.order, c.opts.CollisionRadius, bounds) {
		c.pos[k] = others[k]
		c.touched[k] = struct{}{}
	}
}

// PointerUp ends the gesture; a moved gesture is persisted in one write
func (c *Controller) PointerUp() {
	if c.state != Dragging {
		return
	}
	if c.moved {
		c.commit()
	}
	c.reset()
}

// Cancel behaves like PointerUp (pointercancel)
func (c *Controller) Cancel() {
	c.PointerUp()
}

// Click reports whether a click on key should trigger navigation
// Clicks with the gate satisfied and the click closing a drag gesture are swallowed
func (c *Controller) Click(key string, shift bool) bool {
	swallowed := c.swallowed == key
	c.swallowed = ""
	if swallowed || c.gate(shift) {
		return false
	}
	_, ok := c.pos[key]
	return ok
}

func (c *Controller) commit() {
	update := placement.Positions{c.active: c.frame.ToNormalized(c.pos[c.active])}
	for k := range c.touched {
		update[k] = c.frame.ToNormalized(c.pos[k])
	}
	if c.store != nil {
		c.store.Merge(update)
	}
	c.log.Debug().Str("hotspot", c.active).Int("neighbors", len(c.touched)).Msg("drag committed")
	if c.OnCommit != nil {
		c.OnCommit(update)
	}
}

func (c *Controller) reset() {
	c.state = Idle
	c.active = ""
	c.moved = false
	c.captured = false
	c.touched = nil
}
