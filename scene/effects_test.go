package scene

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/memory-space/canvas"
)

func TestWarpEmission(t *testing.T) {
	h := newHarness(t)
	w := NewWarp(h.sched, rand.New(rand.NewPCG(1, 1)))
	w.Start(testW/2, testH/2, testW, testH, WarpDuration)
	assert.Equal(t, WarpBatch, w.Len())
	assert.True(t, w.Emitting())

	// 20ms steps land on every 140ms emission
	for range 85 {
		h.step(20 * time.Millisecond)
	}
	assert.Equal(t, 13*WarpBatch, w.Len(), "initial batch plus one per interval up to 1.7s")
	assert.False(t, w.Emitting())

	h.step(time.Second)
	assert.Equal(t, 13*WarpBatch, w.Len(), "no emission after the duration")
	_, timers := h.sched.Pending()
	assert.Zero(t, timers)
}

func TestWarpStreaksExpire(t *testing.T) {
	h := newHarness(t)
	surf := canvas.New(testW, testH, testPxW, testPxH)
	w := NewWarp(h.sched, rand.New(rand.NewPCG(2, 2)))
	w.Start(testW/2, testH/2, testW, testH, 100*time.Millisecond)

	h.step(600 * time.Millisecond)
	w.Draw(surf, h.clock.Now())
	assert.True(t, surf.Visible(), "streaks in flight are drawn")
	assert.Equal(t, canvas.SourceOver, surf.Composite(), "composite restored")

	// longest life is delay 80 + 2000 + linger 80
	h.step(2200 * time.Millisecond)
	surf.Clear()
	w.Draw(surf, h.clock.Now())
	assert.Zero(t, w.Len())
	assert.False(t, surf.Visible())
}

func TestWarpClear(t *testing.T) {
	h := newHarness(t)
	w := NewWarp(h.sched, rand.New(rand.NewPCG(3, 3)))
	w.Start(100, 100, testW, testH, WarpDuration)
	w.Clear()
	assert.Zero(t, w.Len())
	assert.False(t, w.Emitting())
	_, timers := h.sched.Pending()
	assert.Zero(t, timers)
}

func TestRayToEdge(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		angle  float64
		expect float64
	}{
		{"right", 500, 400, 0, 500},
		{"down", 500, 400, math.Pi / 2, 400},
		{"left", 200, 400, math.Pi, 200},
		{"up", 500, 100, -math.Pi / 2, 100},
		{"diagonal", 0, 0, math.Pi / 4, 800 * math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expect, rayToEdge(tt.x, tt.y, tt.angle, 1000, 800), 1e-6)
		})
	}
}

func TestBurstLifetime(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := Burst{X: 100, Y: 100, Start: start}
	surf := canvas.New(200, 200, 50, 50)

	b.Draw(surf, start.Add(100*time.Millisecond))
	assert.True(t, surf.Visible())
	assert.False(t, b.Done(start.Add(799*time.Millisecond)))
	assert.True(t, b.Done(start.Add(BurstDuration)))

	bursts := pruneBursts([]Burst{b, {Start: start.Add(time.Second)}}, start.Add(900*time.Millisecond))
	require.Len(t, bursts, 1)
	assert.Equal(t, start.Add(time.Second), bursts[0].Start)
}

func TestSmallStars(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 4))
	s := NewSmallStars(rng, SmallStarCount, true)
	require.Equal(t, SmallStarCount, s.Len())
	for _, st := range s.stars {
		assert.GreaterOrEqual(t, st.size, 1.0)
		assert.LessOrEqual(t, st.size, 3.2)
		assert.GreaterOrEqual(t, st.opacity, 0.25)
		assert.LessOrEqual(t, st.opacity, 0.85)
		assert.LessOrEqual(t, st.delay, smallStarMaxDelay)
	}
	surf := canvas.New(testW, testH, testPxW, testPxH)
	s.Draw(surf, 0)
	assert.True(t, surf.Visible())
}

func TestTooltipClamp(t *testing.T) {
	var tip Tooltip
	tip.Show("Title", "Desc", 100, 100, 12, 12, 80, 32, testW, testH)
	assert.True(t, tip.Visible)
	assert.Equal(t, 112.0, tip.X)
	assert.Equal(t, 112.0, tip.Y)

	tip.Show("Title", "Desc", 990, 790, 12, 12, 80, 32, testW, testH)
	assert.Equal(t, testW-80-8, tip.X)
	assert.Equal(t, testH-32-8, tip.Y)

	tip.Show("Title", "Desc", -50, -50, 16, -12, 80, 32, testW, testH)
	assert.Equal(t, 8.0, tip.X)
	assert.Equal(t, 8.0, tip.Y)

	lines := tip.Texts(8, 16)
	require.Len(t, lines, 2)
	assert.Equal(t, len(lines[0].S), len(lines[1].S))

	tip.Hide()
	assert.Nil(t, tip.Texts(8, 16))
}

func TestModalInput(t *testing.T) {
	m := NewModal("Create New Star", "far too long for the limit", 5)
	assert.Equal(t, "far t", m.Value())

	assert.Equal(t, ActionNone, m.Key(key(KeyBackspace)))
	assert.Equal(t, ActionNone, m.Key(char('X')))
	assert.Equal(t, ActionNone, m.Key(char('Y')), "input is full")
	assert.Equal(t, "far X", m.Value())

	assert.Equal(t, ActionNone, m.Key(key(KeyDelete)), "no delete without a prompt")
	assert.Empty(t, m.Confirm)
	assert.Equal(t, ActionConfirm, m.Key(key(KeyEnter)))
	assert.Equal(t, ActionCancel, m.Key(key(KeyEscape)))
}

func TestModalDeleteConfirmation(t *testing.T) {
	m := NewModal("Manage Star", "Alpha", 15)
	m.DeletePrompt = "Delete 'Alpha'?"

	assert.Equal(t, ActionNone, m.Key(key(KeyDelete)))
	assert.Equal(t, "Delete 'Alpha'?", m.Confirm)
	assert.Equal(t, ActionNone, m.Key(char('n')), "any other key withdraws")
	assert.Empty(t, m.Confirm)
	assert.Equal(t, "Alpha", m.Value(), "answer keys are not typed")

	m.Key(key(KeyDelete))
	assert.Equal(t, ActionDelete, m.Key(char('y')))
}

func TestModalLayout(t *testing.T) {
	m := NewModal("Title", "abc", 15)
	texts := m.Texts(8, 16, testW, testH)
	require.NotEmpty(t, texts)
	for _, tx := range texts {
		assert.Equal(t, len([]rune(texts[0].S)), len([]rune(tx.S)), "rows share a width")
	}
	assert.True(t, within(texts, 8, 16, testW/2, testH/2))
	assert.False(t, within(texts, 8, 16, 1, 1))
}

func TestLoopDropsFiredTimers(t *testing.T) {
	h := newHarness(t)
	l := &loop{sched: h.sched}

	fired := 0
	for range 50 {
		l.after(10*time.Millisecond, func() { fired++ })
		h.step(20 * time.Millisecond)
	}
	assert.Equal(t, 50, fired)
	assert.Empty(t, l.timers, "fired timers are released")

	l.after(time.Second, func() { fired++ })
	require.Len(t, l.timers, 1)
	l.stop()
	h.step(2 * time.Second)
	assert.Equal(t, 50, fired, "stop cancels pending timers")
	assert.Empty(t, l.timers)
}
