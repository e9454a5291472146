package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/archive"
	"github.com/lixenwraith/memory-space/kvstore"
)

func newStarField(t *testing.T, h *harness, names ...string) (*StarField, []api.Star) {
	t.Helper()
	var seeded []api.Star
	for _, n := range names {
		seeded = append(seeded, h.srv.SeedStar(n))
	}
	f := NewStarField(h.env)
	t.Cleanup(f.Close)
	f.Resize(testW, testH, testPxW, testPxH)
	h.settle(f.List(), 1)
	h.step(tick)
	return f, seeded
}

func click(v View, x, y float64) {
	v.Pointer(PointerEvent{Kind: PointerDown, X: x, Y: y})
	v.Pointer(PointerEvent{Kind: PointerUp, X: x, Y: y})
}

func TestStarFieldLayout(t *testing.T) {
	h := newHarness(t)
	f, seeded := newStarField(t, h, "Alpha", "Beta")

	require.Len(t, f.List().Stars(), 2)
	require.Len(t, f.Controller().Keys(), 2)
	fr := f.Controller().Frame()
	assert.Equal(t, SidebarCells*8.0+48, fr.MinX, "sidebar plus gap keeps stars clear")
	for _, s := range seeded {
		p, ok := f.Controller().Position(archive.StarKey(s.ID))
		require.True(t, ok)
		assert.GreaterOrEqual(t, p.X, fr.MinX)
		assert.LessOrEqual(t, p.X, fr.MaxX)
	}
	assert.Equal(t, SmallStarCount, f.SmallStars().Len())
	assert.True(t, f.Surface().Visible())
}

func TestStarFieldToggles(t *testing.T) {
	h := newHarness(t)
	f, _ := newStarField(t, h, "Alpha")

	assert.True(t, f.Key(char('e')))
	assert.True(t, f.EditMode())
	v, err := h.kv.Get(kvstore.NamespaceLocal, kvstore.KeyEditMode)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	assert.True(t, f.Key(char('a')))
	assert.False(t, f.Animations())
	v, _ = h.kv.Get(kvstore.NamespaceLocal, kvstore.KeyAnimations)
	assert.Equal(t, "0", v)
	assert.Equal(t, SmallStarCountCalm, f.SmallStars().Len())

	// flags survive a remount
	again := NewStarField(h.env)
	t.Cleanup(again.Close)
	assert.True(t, again.EditMode())
	assert.False(t, again.Animations())
}

func TestStarFieldSidebarToggleRows(t *testing.T) {
	h := newHarness(t)
	f, _ := newStarField(t, h, "Alpha")

	click(f, 30, rowEditMode*16+4)
	assert.True(t, f.EditMode())
	click(f, 30, rowAnimations*16+4)
	assert.False(t, f.Animations())
}

func TestStarFieldClickWithoutAnimations(t *testing.T) {
	h := newHarness(t)
	f, seeded := newStarField(t, h, "Alpha", "Beta")
	f.ToggleAnimations()

	p, _ := f.Controller().Position(archive.StarKey(seeded[1].ID))
	click(f, p.X, p.Y)
	assert.Equal(t, []string{StarRoute(seeded[1].ID)}, h.routes)
	assert.Empty(t, f.Moving())
	assert.Zero(t, f.Warp().Len())
}

func TestStarFieldZoomSequence(t *testing.T) {
	h := newHarness(t)
	f, seeded := newStarField(t, h, "Alpha")
	key := archive.StarKey(seeded[0].ID)
	p, _ := f.Controller().Position(key)

	click(f, p.X, p.Y)
	assert.Equal(t, key, f.Moving())
	assert.False(t, f.Warp().Emitting())

	h.step(starCenterMove)
	assert.True(t, f.Warp().Emitting(), "warp starts once the star reaches the center")
	assert.Empty(t, h.routes)

	// pointer input is ignored mid-flight
	click(f, p.X, p.Y)

	h.step(starZoomStep)
	assert.Equal(t, []string{StarRoute(seeded[0].ID)}, h.routes)

	h.step(starZoomStep)
	assert.Empty(t, f.Moving())
	assert.Zero(t, f.Warp().Len())
}

func TestStarFieldEditModeBlocksZoom(t *testing.T) {
	h := newHarness(t)
	f, seeded := newStarField(t, h, "Alpha")
	f.ToggleEditMode()
	p, _ := f.Controller().Position(archive.StarKey(seeded[0].ID))

	click(f, p.X, p.Y)
	h.run(3 * starZoomStep)
	assert.Empty(t, h.routes)
	assert.Empty(t, f.Moving())
}

func TestStarFieldKeyboardOpen(t *testing.T) {
	h := newHarness(t)
	f, seeded := newStarField(t, h, "Alpha", "Beta")
	f.ToggleAnimations()

	f.Key(key(KeyDown))
	f.Key(key(KeyDown))
	f.Key(key(KeyEnter))
	assert.Equal(t, []string{StarRoute(seeded[1].ID)}, h.routes)
}

func TestStarFieldManageDelete(t *testing.T) {
	h := newHarness(t)
	f, seeded := newStarField(t, h, "Alpha", "Beta")

	click(f, 30, rowFirstStar*16+4)
	m := f.Modal()
	require.NotNil(t, m)
	assert.Equal(t, "Manage Star", m.Title)
	assert.Equal(t, "Alpha", m.Value())

	f.Key(key(KeyDelete))
	assert.Equal(t, "Are you sure you want to delete 'Alpha'?", f.Modal().Confirm)
	f.Key(char('y'))
	assert.Nil(t, f.Modal())

	h.settle(f.List(), 2)
	stars := f.List().Stars()
	require.Len(t, stars, 1)
	assert.Equal(t, seeded[1].ID, stars[0].ID)
	assert.Len(t, f.Controller().Keys(), 1)
}

func TestStarFieldRename(t *testing.T) {
	h := newHarness(t)
	f, _ := newStarField(t, h, "Alpha")

	f.Key(key(KeyDown))
	f.Key(char('m'))
	require.NotNil(t, f.Modal())
	for range len("Alpha") {
		f.Key(key(KeyBackspace))
	}
	typeInto(f, "Omega")
	f.Key(key(KeyEnter))
	assert.Nil(t, f.Modal())

	h.settle(f.List(), 2)
	require.Len(t, f.List().Stars(), 1)
	assert.Equal(t, "Omega", f.List().Stars()[0].Name)
}

func TestStarFieldCreate(t *testing.T) {
	h := newHarness(t)
	f, _ := newStarField(t, h, "Alpha", "Beta")

	f.Key(char('n'))
	require.NotNil(t, f.Modal())
	assert.Equal(t, "Create New Star", f.Modal().Title)
	typeInto(f, "Gamma")
	f.Key(key(KeyEnter))
	assert.Nil(t, f.Modal())

	h.settle(f.List(), 2)
	assert.Len(t, f.List().Stars(), 3)
	assert.Len(t, f.Controller().Keys(), 3)
}

func TestStarFieldCreateRejectsBlank(t *testing.T) {
	h := newHarness(t)
	f, _ := newStarField(t, h)

	f.Key(char('n'))
	typeInto(f, "   ")
	f.Key(key(KeyEnter))
	assert.NotNil(t, f.Modal(), "stays open on a validation error")
	assert.Equal(t, []string{archive.ErrEmptyStarName.Error()}, h.notes.msgs)

	f.Pointer(PointerEvent{Kind: PointerDown, X: 2, Y: 2})
	assert.Nil(t, f.Modal(), "an outside press dismisses")
}

func TestStarFieldFull(t *testing.T) {
	h := newHarness(t)
	names := make([]string, archive.MaxStars)
	for i := range names {
		names[i] = string(rune('A' + i))
	}
	f, _ := newStarField(t, h, names...)
	require.True(t, f.List().Full())

	f.Key(char('n'))
	assert.Nil(t, f.Modal())
	assert.Equal(t, []string{archive.ErrTooManyStars.Error()}, h.notes.msgs)
}

func TestStarFieldResizeDebounced(t *testing.T) {
	h := newHarness(t)
	f, _ := newStarField(t, h, "Alpha")
	before := f.Controller().Frame()

	f.Resize(1200, 900, 150, 112)
	h.step(starResizeQuiet / 2)
	f.Resize(1200, 900, 150, 112)
	h.step(starResizeQuiet - time.Millisecond)
	assert.Equal(t, before, f.Controller().Frame(), "still waiting for a quiet period")

	h.step(time.Millisecond)
	assert.NotEqual(t, before, f.Controller().Frame())
	assert.Equal(t, f.Frame(), f.Controller().Frame())
}

func TestStarFieldCloseReleasesScheduler(t *testing.T) {
	h := newHarness(t)
	f, seeded := newStarField(t, h, "Alpha")
	p, _ := f.Controller().Position(archive.StarKey(seeded[0].ID))
	click(f, p.X, p.Y)
	f.Resize(1200, 900, 150, 112)

	f.Close()
	frames, timers := h.sched.Pending()
	assert.Zero(t, frames)
	assert.Zero(t, timers)
}
