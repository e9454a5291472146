package scene

import (
	"context"
	"math/rand/v2"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/frame"
	"github.com/lixenwraith/memory-space/kvstore"
	"github.com/lixenwraith/memory-space/mockapi"
)

const (
	testW, testH     = 1000.0, 800.0
	testPxW, testPxH = 125, 100
	tick             = 16 * time.Millisecond
)

type notes struct{ msgs []string }

func (n *notes) Notify(msg string) { n.msgs = append(n.msgs, msg) }

type harness struct {
	srv    *mockapi.Server
	clock  *frame.MockClock
	sched  *frame.Scheduler
	kv     *kvstore.MemoryStore
	notes  *notes
	routes []string
	env    *Env
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := mockapi.New(api.DefaultContextPath, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	cfg := api.DefaultConfig()
	cfg.BaseURL = ts.URL

	clock := frame.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	sched := frame.NewScheduler(clock)
	t.Cleanup(sched.Close)

	h := &harness{
		srv:   srv,
		clock: clock,
		sched: sched,
		kv:    kvstore.NewMemoryStore(),
		notes: &notes{},
	}
	h.env = &Env{
		Ctx:      context.Background(),
		Sched:    sched,
		Store:    h.kv,
		Client:   api.New(cfg, ts.Client(), zerolog.Nop()),
		Notifier: h.notes,
		Rand:     rand.New(rand.NewPCG(7, 11)),
		Log:      zerolog.Nop(),
		CellW:    8,
		CellH:    16,
		Navigate: func(path string) { h.routes = append(h.routes, path) },
	}
	return h
}

// step advances the clock by d and runs one frame
func (h *harness) step(d time.Duration) {
	h.sched.Step(h.clock.Advance(d))
}

// run steps frame by frame for total
func (h *harness) run(total time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += tick {
		h.step(tick)
	}
}

type waiter interface{ Wait() }

// settle waits for in-flight requests and applies their results
func (h *harness) settle(w waiter, rounds int) {
	for range rounds {
		w.Wait()
		h.step(0)
	}
}

func runes(s string) []KeyEvent {
	var out []KeyEvent
	for _, r := range s {
		out = append(out, KeyEvent{Key: KeyRune, Rune: r})
	}
	return out
}

func typeInto(v interface{ Key(KeyEvent) bool }, s string) {
	for _, ev := range runes(s) {
		v.Key(ev)
	}
}

func key(k Key) KeyEvent { return KeyEvent{Key: k} }

func char(r rune) KeyEvent { return KeyEvent{Key: KeyRune, Rune: r} }
