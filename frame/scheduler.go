// Package frame is the single-threaded frame loop: an ordered per-frame callback
// queue, timers, and a mailbox for results produced on other goroutines.
//
// Everything registered with a Scheduler runs on the goroutine calling Step (or Run).
// Only Post is meant to be called from other goroutines.
package frame

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// ID identifies a requested frame callback; zero is never issued
type ID uint64

// Callback receives the frame timestamp
type Callback func(now time.Time)

type frameEntry struct {
	id ID
	cb Callback
}

// Scheduler owns the frame queue and timers
type Scheduler struct {
	mu     sync.Mutex
	clock  Clock
	nextID uint64

	frames []frameEntry
	timers []*Timer
	posted []func()
	closed bool

	wake chan struct{}
}

// NewScheduler creates a scheduler reading time from clock; nil uses RealClock
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{clock: clock, wake: make(chan struct{}, 1)}
}

// Clock returns the scheduler's time source
func (s *Scheduler) Clock() Clock { return s.clock }

// Now is a shortcut for Clock().Now()
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

func (s *Scheduler) issue() uint64 {
	s.nextID++
	return s.nextID
}

// RequestFrame queues cb for the next Step; callbacks run in request order
// Returns 0 after Close
func (s *Scheduler) RequestFrame(cb Callback) ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || cb == nil {
		return 0
	}
	id := ID(s.issue())
	s.frames = append(s.frames, frameEntry{id: id, cb: cb})
	return id
}

// CancelFrame removes a queued callback; unknown ids are ignored
func (s *Scheduler) CancelFrame(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = slices.DeleteFunc(s.frames, func(e frameEntry) bool { return e.id == id })
}

// Timer is a one-shot or repeating callback driven by Step
type Timer struct {
	s       *Scheduler
	seq     uint64
	due     time.Time
	every   time.Duration
	fn      func()
	stopped bool
	done    bool
}

// AfterFunc runs fn on the first Step at or after now+d
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) *Timer {
	return s.addTimer(d, 0, fn)
}

// Every runs fn every d, starting d from now
func (s *Scheduler) Every(d time.Duration, fn func()) *Timer {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.addTimer(d, d, fn)
}

func (s *Scheduler) addTimer(d, every time.Duration, fn func()) *Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Timer{s: s, seq: s.issue(), due: s.clock.Now().Add(d), every: every, fn: fn}
	if s.closed || fn == nil {
		t.stopped = true
		return t
	}
	s.timers = append(s.timers, t)
	return t
}

// Stop prevents further runs and reports whether the timer was still pending
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.stopped || t.done {
		return false
	}
	t.stopped = true
	s.timers = slices.DeleteFunc(s.timers, func(o *Timer) bool { return o == t })
	return true
}

// Debouncer delays a call until no trigger arrived for its window
type Debouncer struct {
	s      *Scheduler
	window time.Duration
	timer  *Timer
}

// Debounce creates a debouncer with the given quiet window
func (s *Scheduler) Debounce(window time.Duration) *Debouncer {
	return &Debouncer{s: s, window: window}
}

// Trigger restarts the window; fn runs once the window passes quietly
func (d *Debouncer) Trigger(fn func()) {
	d.timer.Stop()
	d.timer = d.s.AfterFunc(d.window, fn)
}

// Stop drops a pending call
func (d *Debouncer) Stop() {
	d.timer.Stop()
	d.timer = nil
}

// Post queues fn to run at the start of the next Step; safe from any goroutine
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	if s.closed || fn == nil {
		s.mu.Unlock()
		return
	}
	s.posted = append(s.posted, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Step runs one frame at now: posted work, then due timers by due time, then frame callbacks
// Callbacks requested during a Step run on the following Step
func (s *Scheduler) Step(now time.Time) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	posted := s.posted
	s.posted = nil
	s.mu.Unlock()

	for _, fn := range posted {
		fn()
	}

	for _, t := range s.dueTimers(now) {
		s.mu.Lock()
		live := !t.stopped && !s.closed
		if live && t.every == 0 {
			t.done = true
		}
		s.mu.Unlock()
		if live {
			t.fn()
		}
	}

	s.mu.Lock()
	frames := s.frames
	s.frames = nil
	s.mu.Unlock()

	for _, f := range frames {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}
		f.cb(now)
	}
}

// dueTimers removes due one-shot timers, reschedules repeating ones, and returns both in firing order
func (s *Scheduler) dueTimers(now time.Time) []*Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*Timer
	keep := s.timers[:0]
	for _, t := range s.timers {
		if t.due.After(now) {
			keep = append(keep, t)
			continue
		}
		due = append(due, t)
		if t.every > 0 {
			keep = append(keep, t)
		}
	}
	clear(s.timers[len(keep):])
	s.timers = keep

	slices.SortFunc(due, func(a, b *Timer) int {
		if c := a.due.Compare(b.due); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	for _, t := range due {
		if t.every > 0 {
			t.due = t.due.Add(t.every)
			if !t.due.After(now) {
				t.due = now.Add(t.every)
			}
		}
	}
	return due
}

// Pending returns the number of queued frame callbacks and live timers
func (s *Scheduler) Pending() (frames, timers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames), len(s.timers)
}

// Close drops every queued callback, timer, and posted function; later registrations are ignored
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.frames = nil
	for _, t := range s.timers {
		t.stopped = true
	}
	s.timers = nil
	s.posted = nil
}

// Run steps the scheduler at fps until ctx is done, then closes it
// Posted work wakes the loop early so async results do not wait a full frame
func (s *Scheduler) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	defer s.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Step(s.clock.Now())
		case <-s.wake:
			s.Drain()
		}
	}
}

// Wake fires after Post; hosts that call Step themselves select on it
func (s *Scheduler) Wake() <-chan struct{} { return s.wake }

// Drain runs posted functions without advancing frames or timers
func (s *Scheduler) Drain() {
	s.mu.Lock()
	posted := s.posted
	s.posted = nil
	s.mu.Unlock()
	for _, fn := range posted {
		fn()
	}
}
