package frame

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestScheduler() (*Scheduler, *MockClock) {
	clock := NewMockClock(epoch)
	return NewScheduler(clock), clock
}

func TestMockClock(t *testing.T) {
	c := NewMockClock(epoch)
	assert.Equal(t, epoch, c.Now())
	assert.Equal(t, epoch.Add(time.Second), c.Advance(time.Second))
	c.SetTime(epoch)
	assert.Equal(t, epoch, c.Now())
}

func TestFrameOrderAndRequeue(t *testing.T) {
	s, clock := newTestScheduler()
	var order []string

	s.RequestFrame(func(time.Time) { order = append(order, "a") })
	s.RequestFrame(func(time.Time) {
		order = append(order, "b")
		s.RequestFrame(func(time.Time) { order = append(order, "next") })
	})
	cancelled := s.RequestFrame(func(time.Time) { order = append(order, "cancelled") })
	s.CancelFrame(cancelled)

	s.Step(clock.Now())
	assert.Equal(t, []string{"a", "b"}, order)

	s.Step(clock.Advance(16 * time.Millisecond))
	assert.Equal(t, []string{"a", "b", "next"}, order)

	frames, _ := s.Pending()
	assert.Equal(t, 0, frames)
}

func TestFrameTimestamp(t *testing.T) {
	s, clock := newTestScheduler()
	var got time.Time
	s.RequestFrame(func(now time.Time) { got = now })
	now := clock.Advance(40 * time.Millisecond)
	s.Step(now)
	assert.Equal(t, now, got)
}

func TestAfterFunc(t *testing.T) {
	s, clock := newTestScheduler()
	fired := 0
	timer := s.AfterFunc(800*time.Millisecond, func() { fired++ })

	s.Step(clock.Advance(799 * time.Millisecond))
	assert.Equal(t, 0, fired)

	s.Step(clock.Advance(time.Millisecond))
	assert.Equal(t, 1, fired)

	s.Step(clock.Advance(time.Second))
	assert.Equal(t, 1, fired, "one-shot timer fires once")
	assert.False(t, timer.Stop(), "stopping a fired timer reports false")
}

func TestTimerStop(t *testing.T) {
	s, clock := newTestScheduler()
	fired := false
	timer := s.AfterFunc(100*time.Millisecond, func() { fired = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	s.Step(clock.Advance(time.Second))
	assert.False(t, fired)

	var nilTimer *Timer
	assert.False(t, nilTimer.Stop())
}

func TestTimerStoppedByEarlierTimer(t *testing.T) {
	s, clock := newTestScheduler()
	var second *Timer
	secondFired := false
	s.AfterFunc(10*time.Millisecond, func() { second.Stop() })
	second = s.AfterFunc(20*time.Millisecond, func() { secondFired = true })

	s.Step(clock.Advance(time.Second))
	assert.False(t, secondFired)
}

func TestEvery(t *testing.T) {
	s, clock := newTestScheduler()
	count := 0
	timer := s.Every(140*time.Millisecond, func() { count++ })

	for i := 0; i < 10; i++ {
		s.Step(clock.Advance(70 * time.Millisecond))
	}
	assert.Equal(t, 5, count)

	assert.True(t, timer.Stop())
	s.Step(clock.Advance(time.Second))
	assert.Equal(t, 5, count)
}

func TestDebounce(t *testing.T) {
	s, clock := newTestScheduler()
	d := s.Debounce(200 * time.Millisecond)
	runs := 0

	d.Trigger(func() { runs++ })
	s.Step(clock.Advance(100 * time.Millisecond))
	d.Trigger(func() { runs++ })
	s.Step(clock.Advance(150 * time.Millisecond))
	assert.Equal(t, 0, runs, "window restarts on every trigger")

	s.Step(clock.Advance(50 * time.Millisecond))
	assert.Equal(t, 1, runs)

	d.Trigger(func() { runs++ })
	d.Stop()
	s.Step(clock.Advance(time.Second))
	assert.Equal(t, 1, runs)
}

func TestPostFromGoroutine(t *testing.T) {
	s, clock := newTestScheduler()
	var mu sync.Mutex
	var got []int

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(func() {
				mu.Lock()
				got = append(got, i)
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	s.Step(clock.Now())
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, got)
}

func TestClose(t *testing.T) {
	s, clock := newTestScheduler()
	ran := false
	s.RequestFrame(func(time.Time) { ran = true })
	s.AfterFunc(time.Millisecond, func() { ran = true })
	s.Post(func() { ran = true })

	s.Close()
	frames, timers := s.Pending()
	assert.Zero(t, frames)
	assert.Zero(t, timers)

	assert.Equal(t, ID(0), s.RequestFrame(func(time.Time) { ran = true }))
	s.Step(clock.Advance(time.Second))
	assert.False(t, ran)
}

func TestCloseDuringFrame(t *testing.T) {
	s, clock := newTestScheduler()
	second := false
	s.RequestFrame(func(time.Time) { s.Close() })
	s.RequestFrame(func(time.Time) { second = true })
	s.Step(clock.Now())
	assert.False(t, second)
}

func TestRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(nil)
	ctx, cancel := context.WithCancel(context.Background())

	posted := make(chan struct{})
	stepped := make(chan struct{}, 1)
	var loop func(time.Time)
	loop = func(time.Time) {
		select {
		case stepped <- struct{}{}:
		default:
		}
		s.RequestFrame(loop)
	}
	s.RequestFrame(loop)
	s.Post(func() { close(posted) })

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 120) }()

	select {
	case <-posted:
	case <-time.After(2 * time.Second):
		t.Fatal("posted work did not run")
	}
	select {
	case <-stepped:
	case <-time.After(2 * time.Second):
		t.Fatal("frame callback did not run")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	frames, timers := s.Pending()
	assert.Zero(t, frames)
	assert.Zero(t, timers)
}
