package scene

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/memory-space/drag"
	"github.com/lixenwraith/memory-space/placement"
	"github.com/lixenwraith/memory-space/vmath"
)

func newHome(t *testing.T, h *harness, interactive bool) *Home {
	t.Helper()
	home := NewHome(h.env, interactive)
	t.Cleanup(home.Close)
	home.Resize(testW, testH, testPxW, testPxH)
	h.step(tick)
	return home
}

func TestHomeLayoutPersisted(t *testing.T) {
	h := newHarness(t)
	home := newHome(t, h, true)

	frame := placement.MarginFrame(testW, testH, HomeMargin)
	require.Len(t, home.Controller().Keys(), len(HomeHotspots))
	for _, k := range home.Controller().Keys() {
		p, ok := home.Controller().Position(k)
		require.True(t, ok)
		assert.True(t, frame.Rect().Contains(p), "%s at %v", k, p)
	}
	saved := placement.HomeStore(h.kv, zerolog.Nop()).Load()
	assert.Len(t, saved, len(HomeHotspots))
	assert.True(t, home.Surface().Visible())

	// a second mount reuses the stored layout
	again := newHome(t, h, true)
	for _, k := range home.Controller().Keys() {
		a, _ := home.Controller().Position(k)
		b, _ := again.Controller().Position(k)
		assert.InDelta(t, a.X, b.X, 1e-6)
		assert.InDelta(t, a.Y, b.Y, 1e-6)
	}
}

func TestHomeShiftDrag(t *testing.T) {
	h := newHarness(t)
	home := newHome(t, h, true)
	key := HomeHotspots[0].Key
	p, _ := home.Controller().Position(key)

	home.Pointer(PointerEvent{Kind: PointerDown, X: p.X, Y: p.Y, Shift: true})
	assert.Equal(t, drag.Dragging, home.Controller().State())
	home.Pointer(PointerEvent{Kind: PointerMove, X: p.X + 40, Y: p.Y + 30, Shift: true})
	home.Pointer(PointerEvent{Kind: PointerUp, X: p.X + 40, Y: p.Y + 30, Shift: true})

	frame := home.Controller().Frame()
	want := frame.Rect().ClampPoint(p.Add(vmath.Vec2{X: 40, Y: 30}))
	got, _ := home.Controller().Position(key)
	assert.Equal(t, want, got)

	saved := placement.HomeStore(h.kv, zerolog.Nop()).Load()
	norm := frame.ToNormalized(want)
	assert.InDelta(t, norm.RX, saved[key].RX, 1e-3)
	assert.InDelta(t, norm.RY, saved[key].RY, 1e-3)

	h.run(2 * homeZoomStep)
	assert.Empty(t, home.Zooming(), "the drag release is not a click")
	assert.Empty(t, h.routes)
}

func TestHomeClickZooms(t *testing.T) {
	h := newHarness(t)
	home := newHome(t, h, true)
	key := HomeHotspots[2].Key
	p, _ := home.Controller().Position(key)

	home.Pointer(PointerEvent{Kind: PointerDown, X: p.X, Y: p.Y})
	assert.Equal(t, drag.Idle, home.Controller().State(), "plain press does not drag")
	home.Pointer(PointerEvent{Kind: PointerUp, X: p.X + 2, Y: p.Y})
	assert.Equal(t, key, home.Zooming())

	h.step(homeZoomStep - time.Millisecond)
	assert.Empty(t, h.routes)
	h.step(time.Millisecond)
	assert.Equal(t, []string{key}, h.routes)

	h.step(homeZoomStep)
	assert.Empty(t, home.Zooming())
	assert.Equal(t, []string{key}, h.routes, "navigates once")
}

func TestHomeDigitKeys(t *testing.T) {
	h := newHarness(t)
	home := newHome(t, h, true)

	assert.False(t, home.Key(char('9')))
	assert.True(t, home.Key(char('2')))
	assert.Equal(t, HomeHotspots[1].Key, home.Zooming())
	assert.True(t, home.Key(char('3')), "ignored while zooming")
	assert.Equal(t, HomeHotspots[1].Key, home.Zooming())
}

func TestHomeHoverTooltip(t *testing.T) {
	h := newHarness(t)
	home := newHome(t, h, true)
	p, _ := home.Controller().Position(HomeHotspots[0].Key)

	home.Pointer(PointerEvent{Kind: PointerMove, X: p.X + 4, Y: p.Y - 4})
	tip := home.Tooltip()
	require.True(t, tip.Visible)
	assert.Equal(t, "Introduction", tip.Title)
	assert.LessOrEqual(t, tip.X, p.X+12)
	assert.Len(t, home.Texts(), 2)

	home.Pointer(PointerEvent{Kind: PointerMove, X: 1, Y: 1})
	assert.False(t, home.Tooltip().Visible)
	assert.Empty(t, home.Texts())
}

func TestHomeDecorative(t *testing.T) {
	h := newHarness(t)
	home := newHome(t, h, false)
	p, _ := home.Controller().Position(HomeHotspots[0].Key)

	home.Pointer(PointerEvent{Kind: PointerDown, X: p.X, Y: p.Y, Shift: true})
	home.Pointer(PointerEvent{Kind: PointerUp, X: p.X, Y: p.Y})
	assert.False(t, home.Key(char('1')))
	assert.Empty(t, home.Zooming())
	assert.Equal(t, drag.Idle, home.Controller().State())
	assert.Nil(t, home.Texts())
}

func TestHomeCloseReleasesScheduler(t *testing.T) {
	h := newHarness(t)
	home := NewHome(h.env, true)
	home.Resize(testW, testH, testPxW, testPxH)
	home.Key(char('1'))
	h.step(tick)

	home.Close()
	frames, timers := h.sched.Pending()
	assert.Zero(t, frames)
	assert.Zero(t, timers)

	h.run(3 * homeZoomStep)
	assert.Empty(t, h.routes)
}
