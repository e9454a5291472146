package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/intro"
)

func newStage(t *testing.T, h *harness, route string, withIntro bool) *Stage {
	t.Helper()
	s := NewStage(*h.env)
	t.Cleanup(s.Close)
	s.Resize(testW, testH, testPxW, testPxH)
	s.Start(route, withIntro)
	h.settleStage(s)
	return s
}

// settleStage applies the auth result and any navigation it queued
func (h *harness) settleStage(s *Stage) {
	s.wg.Wait()
	h.step(0)
	h.step(0)
}

func TestStageOpensGatedRouteAfterAuth(t *testing.T) {
	h := newHarness(t)
	s := newStage(t, h, RouteMySpace, false)

	assert.True(t, s.Auth().LoggedIn)
	assert.Equal(t, RouteMySpace, s.Route())
	require.IsType(t, &StarField{}, s.View())

	status := s.Texts()[len(s.Texts())-1]
	assert.Contains(t, status.S, "demo")
	assert.Contains(t, status.S, RouteMySpace)
}

func TestStageLoginRequired(t *testing.T) {
	h := newHarness(t)
	h.srv.SetAuth(api.Auth{})
	s := newStage(t, h, "/star/101", false)

	assert.False(t, s.Auth().LoggedIn)
	assert.Equal(t, RouteHome, s.Route())
	assert.Equal(t, MsgLoginRequired, s.Toast())
	assert.Contains(t, s.Texts()[len(s.Texts())-1].S, MsgLoginRequired)

	h.step(toastDuration)
	assert.Empty(t, s.Toast())

	s.Key(char('m'))
	h.step(0)
	assert.Equal(t, RouteHome, s.Route())
	assert.Equal(t, MsgLoginRequired, s.Toast())
}

func TestStageNavigation(t *testing.T) {
	h := newHarness(t)
	s := newStage(t, h, RouteHome, false)
	require.IsType(t, &Home{}, s.View())

	s.Navigate("/tutorial")
	assert.Equal(t, RouteHome, s.Route(), "swap waits for the next frame")
	h.step(0)
	assert.Equal(t, "/tutorial", s.Route())
	require.IsType(t, &InfoView{}, s.View())

	s.Key(key(KeyEscape))
	h.step(0)
	assert.Equal(t, RouteHome, s.Route())

	s.Navigate("/nowhere")
	h.step(0)
	assert.Equal(t, RouteHome, s.Route())

	s.Navigate("/star/abc")
	h.step(0)
	assert.Equal(t, RouteHome, s.Route())
}

func TestStageStarBackGoesToMySpace(t *testing.T) {
	h := newHarness(t)
	star := h.srv.SeedStar("Alpha")
	s := newStage(t, h, StarRoute(star.ID), false)
	assert.Equal(t, StarRoute(star.ID), s.Route())
	require.IsType(t, &PlanetView{}, s.View())

	s.Key(key(KeyEscape))
	h.step(0)
	assert.Equal(t, RouteMySpace, s.Route())
}

func TestStageHomeZoomNavigates(t *testing.T) {
	h := newHarness(t)
	s := newStage(t, h, RouteHome, false)

	s.Key(char('4'))
	h.run(homeZoomStep + 2*tick)
	assert.Equal(t, "/inquiries", s.Route())
}

func TestStageIntroOverlay(t *testing.T) {
	h := newHarness(t)
	s := newStage(t, h, RouteHome, true)

	require.True(t, s.IntroRunning())
	assert.Len(t, s.Layers(), 2)
	texts := s.Texts()
	require.Len(t, texts, 1)
	assert.True(t, strings.Contains(texts[0].S, "skip"))

	s.Key(char('4'))
	assert.False(t, s.IntroRunning())
	assert.Len(t, s.Layers(), 1)
	assert.Empty(t, s.View().(*Home).Zooming(), "the skipping key is not passed on")

	again := newStage(t, h, RouteHome, true)
	assert.False(t, again.IntroRunning(), "once per session")
}

func TestStageIntroRunsOut(t *testing.T) {
	h := newHarness(t)
	s := newStage(t, h, RouteHome, true)

	h.run(intro.TotalDuration + 2*tick)
	assert.False(t, s.IntroRunning())
	assert.Len(t, s.Layers(), 1)
}

func TestStageQuit(t *testing.T) {
	h := newHarness(t)
	s := newStage(t, h, RouteHome, false)

	s.Key(char('q'))
	s.Key(char('q'))
	select {
	case <-s.Done():
	default:
		t.Fatal("quit not signalled")
	}
}

func TestStageClose(t *testing.T) {
	h := newHarness(t)
	h.srv.SetAuth(api.Auth{})
	s := NewStage(*h.env)
	s.Resize(testW, testH, testPxW, testPxH)
	s.Start(RouteMySpace, true)
	h.settleStage(s)

	s.Close()
	frames, timers := h.sched.Pending()
	assert.Zero(t, frames)
	assert.Zero(t, timers)
}
