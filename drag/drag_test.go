package drag

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/memory-space/kvstore"
	"github.com/lixenwraith/memory-space/placement"
	"github.com/lixenwraith/memory-space/vmath"
)

// countingStore counts writes reaching the backend
type countingStore struct {
	*kvstore.MemoryStore
	sets int
}

func (c *countingStore) Set(ns, key, value string) error {
	c.sets++
	return c.MemoryStore.Set(ns, key, value)
}

func setup(t *testing.T, gate Gate, opts Options, positions placement.Positions) (*Controller, *placement.PositionStore, *countingStore) {
	t.Helper()
	kv := &countingStore{MemoryStore: kvstore.NewMemoryStore()}
	store := placement.UserStarStore(kv, zerolog.Nop())
	c := New(store, gate, opts, zerolog.Nop())
	c.Layout(placement.MarginFrame(1000, 800, 140), positions.Keys(), positions)
	return c, store, kv
}

func TestGateRequiresShift(t *testing.T) {
	c, _, _ := setup(t, ShiftGate(), DefaultOptions(), placement.Positions{"a": {RX: 0.5, RY: 0.5}})

	assert.False(t, c.PointerDown("a", Pointer{X: 500, Y: 400}))
	assert.Equal(t, Idle, c.State())

	assert.True(t, c.PointerDown("a", Pointer{X: 500, Y: 400, Shift: true}))
	assert.Equal(t, Dragging, c.State())
	assert.True(t, c.Captured())
	assert.Equal(t, "a", c.Active())

	assert.False(t, c.PointerDown("missing", Pointer{Shift: true}), "second press ignored while dragging")
}

func TestEditModeGate(t *testing.T) {
	edit := false
	gate := EditModeGate(func() bool { return edit })
	assert.False(t, gate(false))
	assert.True(t, gate(true))
	edit = true
	assert.True(t, gate(false))
}

func TestDragClamp(t *testing.T) {
	c, _, _ := setup(t, ShiftGate(), DefaultOptions(), placement.Positions{"a": {RX: 0.5, RY: 0.5}})
	deltas := []vmath.Vec2{{X: 1e6, Y: 1e6}, {X: -1e6, Y: -1e6}, {X: 5000, Y: -20}, {X: -3, Y: 9000}}

	for _, d := range deltas {
		require.True(t, c.PointerDown("a", Pointer{X: 500, Y: 400, Shift: true}))
		c.PointerMove(Pointer{X: 500 + d.X, Y: 400 + d.Y})
		p, _ := c.Position("a")
		assert.True(t, c.Frame().Rect().Contains(p), "position %v escaped frame for delta %v", p, d)
		c.PointerUp()
	}

	p, _ := c.Position("a")
	assert.Equal(t, 857.0, p.X)
	assert.Equal(t, 660.0, p.Y)
}

func TestSmallMoveNotPersisted(t *testing.T) {
	c, _, kv := setup(t, ShiftGate(), DefaultOptions(), placement.Positions{"a": {RX: 0.5, RY: 0.5}})

	c.PointerDown("a", Pointer{X: 500, Y: 400, Shift: true})
	c.PointerMove(Pointer{X: 502, Y: 401})
	assert.False(t, c.Moved())
	c.PointerUp()

	assert.Equal(t, 0, kv.sets)
	assert.Equal(t, Idle, c.State())
	assert.False(t, c.Captured())
}

func TestDragPersists(t *testing.T) {
	var committed placement.Positions
	var suppressed string
	c, store, kv := setup(t, ShiftGate(), DefaultOptions(), placement.Positions{"a": {RX: 0.5, RY: 0.5}})
	c.OnCommit = func(p placement.Positions) { committed = p }
	c.OnDragStart = func(key string) { suppressed = key }

	c.PointerDown("a", Pointer{X: 500, Y: 400, Shift: true})
	assert.Equal(t, "a", suppressed)
	c.PointerMove(Pointer{X: 572, Y: 452})
	c.PointerUp()

	assert.Equal(t, 1, kv.sets)
	got := store.Load()["a"]
	assert.InDelta(t, 0.6, got.RX, 1e-9)
	assert.InDelta(t, 0.6, got.RY, 1e-9)
	assert.Equal(t, got, committed["a"])
}

func TestRepelCoincident(t *testing.T) {
	anchor := vmath.Vec2{X: 500, Y: 400}
	others := map[string]vmath.Vec2{"b": anchor}
	bounds := vmath.Rect{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 800}

	moved := Repel(anchor, others, []string{"b"}, 120, bounds)
	assert.Equal(t, []string{"b"}, moved)
	assert.GreaterOrEqual(t, others["b"].Sub(anchor).Len(), 120-repelEpsilon)
	assert.Greater(t, others["b"].X, anchor.X, "coincident points separate along +X")
}

func TestRepelRespectsBounds(t *testing.T) {
	anchor := vmath.Vec2{X: 100, Y: 100}
	others := map[string]vmath.Vec2{"b": {X: 100, Y: 100}, "far": {X: 0, Y: 0}}
	bounds := vmath.Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

	moved := Repel(anchor, others, []string{"b", "far"}, 120, bounds)
	assert.Empty(t, moved, "pinned neighbor cannot move")
	assert.Equal(t, vmath.Vec2{X: 100, Y: 100}, others["b"])
}

func TestDragRepelsAndPersistsNeighbors(t *testing.T) {
	opts := DefaultOptions()
	opts.Repel = true
	opts.MoveThreshold = 2
	c, store, kv := setup(t, EditModeGate(func() bool { return true }), opts, placement.Positions{
		"a": {RX: 0.5, RY: 0.5},
		"b": {RX: 0.75, RY: 0.5},
		"c": {RX: 0.1, RY: 0.1},
	})

	require.True(t, c.PointerDown("a", Pointer{X: 500, Y: 400}))
	c.PointerMove(Pointer{X: 650, Y: 400})

	a, _ := c.Position("a")
	b, _ := c.Position("b")
	assert.Equal(t, vmath.Vec2{X: 650, Y: 400}, a)
	assert.GreaterOrEqual(t, b.Sub(a).Len(), DefaultCollisionRadius-repelEpsilon)
	assert.Equal(t, 400.0, b.Y)

	c.PointerUp()
	assert.Equal(t, 1, kv.sets, "dragged hotspot and neighbors share one write")

	saved := store.Load()
	assert.Contains(t, saved, "a")
	assert.Contains(t, saved, "b")
	assert.NotContains(t, saved, "c", "untouched hotspots are not written")
	assert.InDelta(t, (b.X-140)/720, saved["b"].RX, 1e-9)
}

func TestClickSuppression(t *testing.T) {
	c, _, _ := setup(t, ShiftGate(), DefaultOptions(), placement.Positions{"a": {RX: 0.5, RY: 0.5}})

	assert.True(t, c.Click("a", false))
	assert.False(t, c.Click("a", true), "click with modifier held is an edit gesture")
	assert.False(t, c.Click("missing", false))

	c.PointerDown("a", Pointer{X: 500, Y: 400, Shift: true})
	c.PointerUp()
	assert.False(t, c.Click("a", false), "click closing a drag is swallowed")
	assert.True(t, c.Click("a", false))
}

func TestLayoutDefaultsMissingToCenter(t *testing.T) {
	c := New(nil, nil, Options{}, zerolog.Nop())
	c.Layout(placement.MarginFrame(1000, 800, 140), []string{"x"}, nil)
	p, ok := c.Position("x")
	require.True(t, ok)
	assert.Equal(t, vmath.Vec2{X: 500, Y: 400}, p)
}
