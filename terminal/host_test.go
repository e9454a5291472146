package terminal

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/memory-space/frame"
	"github.com/lixenwraith/memory-space/kvstore"
	"github.com/lixenwraith/memory-space/scene"
)

type hostFixture struct {
	screen tcell.SimulationScreen
	clock  *frame.MockClock
	sched  *frame.Scheduler
	stage  *scene.Stage
	host   *Host
}

// newHostFixture runs a signed-out stage on the home route against a simulated screen
func newHostFixture(t *testing.T, cols, rows int) *hostFixture {
	t.Helper()
	screen := newSimScreen(t, cols, rows)
	clock := frame.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	sched := frame.NewScheduler(clock)
	t.Cleanup(sched.Close)

	stage := scene.NewStage(scene.Env{
		Ctx:   context.Background(),
		Sched: sched,
		Store: kvstore.NewMemoryStore(),
		Rand:  rand.New(rand.NewPCG(1, 2)),
		Log:   zerolog.Nop(),
		CellW: CellW,
		CellH: CellH,
	})
	t.Cleanup(stage.Close)

	f := &hostFixture{
		screen: screen,
		clock:  clock,
		sched:  sched,
		stage:  stage,
		host:   NewHost(NewService(screen), stage, sched, 0, zerolog.Nop()),
	}
	f.host.Resize()
	stage.Start(scene.RouteHome, false)
	f.frame(0)
	return f
}

func (f *hostFixture) frame(d time.Duration) {
	f.host.Frame(f.clock.Advance(d))
}

func (f *hostFixture) row(y int) string {
	cols, _ := f.screen.Size()
	var b strings.Builder
	for x := 0; x < cols; x++ {
		r, _, _, _ := f.screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestHostDefaults(t *testing.T) {
	f := newHostFixture(t, 80, 30)
	assert.Equal(t, DefaultFPS, f.host.fps)
	assert.Equal(t, scene.RouteHome, f.stage.Route())
	require.IsType(t, &scene.Home{}, f.stage.View())
}

func TestHostFrameDraws(t *testing.T) {
	f := newHostFixture(t, 80, 30)
	f.frame(16 * time.Millisecond)

	r, _, _, _ := f.screen.GetContent(0, 0)
	assert.Equal(t, halfBlock, r)
	status := f.row(29)
	assert.Contains(t, status, scene.RouteHome)
	assert.Contains(t, status, "guest")

	assert.Equal(t, int64(2), f.host.frames.Load())
	assert.Equal(t, int64(1), f.host.resizes.Load())
	assert.GreaterOrEqual(t, f.host.drawPeakMs.Get(), f.host.drawMs.Get())
}

func TestHostResize(t *testing.T) {
	f := newHostFixture(t, 80, 30)
	f.screen.SetSize(100, 40)
	assert.True(t, f.host.Handle(tcell.NewEventResize(100, 40)))
	f.frame(16 * time.Millisecond)

	assert.Contains(t, f.row(39), scene.RouteHome, "status line follows the new bottom row")
	w, h, _, _, changed := f.host.presenter.Viewport()
	assert.False(t, changed)
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 640.0, h)
}

func TestHostKeys(t *testing.T) {
	f := newHostFixture(t, 80, 30)

	assert.True(t, f.host.Handle(tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModNone)))
	assert.True(t, f.host.Handle(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)), "unmapped keys are ignored")
	assert.False(t, f.host.Handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.Equal(t, int64(3), f.host.Stats().Ints.Get("events").Load())

	select {
	case <-f.stage.Done():
		t.Fatal("stage quit early")
	default:
	}
	f.host.Handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	select {
	case <-f.stage.Done():
	default:
		t.Fatal("q should quit the stage")
	}
}

func TestHostFocusLossCancelsPointer(t *testing.T) {
	f := newHostFixture(t, 80, 30)
	f.host.Handle(tcell.NewEventMouse(1, 1, tcell.ButtonPrimary, tcell.ModNone))
	f.host.Handle(tcell.NewEventFocus(false))

	_, held := f.host.input.Cancel()
	assert.False(t, held, "focus loss released the button")
}

func TestHostRunStopsOnQuit(t *testing.T) {
	f := newHostFixture(t, 40, 12)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- f.host.Run(ctx) }()
	f.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("host did not stop")
	}
}
