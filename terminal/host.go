package terminal

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/frame"
	"github.com/lixenwraith/memory-space/scene"
	"github.com/lixenwraith/memory-space/status"
)

// DefaultFPS is the frame rate of Run
const DefaultFPS = 60

// Host feeds terminal input to a stage and presents its frames, all on one goroutine
type Host struct {
	svc       *Service
	presenter *Presenter
	input     *Input
	stage     *scene.Stage
	sched     *frame.Scheduler
	fps       int
	log       zerolog.Logger

	stats      *status.Registry
	frames     *atomic.Int64
	events     *atomic.Int64
	resizes    *atomic.Int64
	drawMs     *status.AtomicFloat
	drawPeakMs *status.AtomicFloat
}

// NewHost wires a started or unstarted service to stage; sched must be the stage's scheduler
func NewHost(svc *Service, stage *scene.Stage, sched *frame.Scheduler, fps int, log zerolog.Logger) *Host {
	if fps <= 0 {
		fps = DefaultFPS
	}
	stats := status.NewRegistry()
	return &Host{
		svc:        svc,
		presenter:  NewPresenter(svc.Screen(), CellW, CellH),
		input:      NewInput(CellW, CellH),
		stage:      stage,
		sched:      sched,
		fps:        fps,
		log:        log,
		stats:      stats,
		frames:     stats.Ints.Get("frames"),
		events:     stats.Ints.Get("events"),
		resizes:    stats.Ints.Get("resizes"),
		drawMs:     stats.Floats.Get("draw_ms"),
		drawPeakMs: stats.Floats.Get("draw_peak_ms"),
	}
}

// Stats returns the host's frame and input counters
func (h *Host) Stats() *status.Registry { return h.stats }

// Resize matches the stage to the screen when its size changed
func (h *Host) Resize() {
	w, ht, pxW, pxH, changed := h.presenter.Viewport()
	if !changed {
		return
	}
	if ev, ok := h.input.Cancel(); ok {
		h.stage.Pointer(ev)
	}
	h.stage.Resize(w, ht, pxW, pxH)
	h.resizes.Add(1)
	h.log.Debug().Float64("w", w).Float64("h", ht).Int("px_w", pxW).Int("px_h", pxH).Msg("viewport")
}

// Handle applies one terminal event and reports whether the host keeps running
func (h *Host) Handle(ev tcell.Event) bool {
	h.events.Add(1)
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.svc.Screen().Sync()
		h.Resize()
	case *tcell.EventKey:
		if Quit(ev) {
			return false
		}
		if k, ok := Key(ev); ok {
			h.stage.Key(k)
		}
	case *tcell.EventMouse:
		if p, ok := h.input.Pointer(ev); ok {
			h.stage.Pointer(p)
		}
	case *tcell.EventFocus:
		if !ev.Focused {
			if p, ok := h.input.Cancel(); ok {
				h.stage.Pointer(p)
			}
		}
	}
	return true
}

// Frame steps the scheduler to now and draws the stage
func (h *Host) Frame(now time.Time) {
	start := time.Now()
	h.sched.Step(now)
	h.presenter.Draw(h.stage.Layers(), h.stage.Texts())

	ms := float64(time.Since(start)) / float64(time.Millisecond)
	h.drawMs.Set(ms)
	h.drawPeakMs.Max(ms)
	h.frames.Add(1)
}

// Run loops until ctx is done, the stage quits, or a quit chord arrives
func (h *Host) Run(ctx context.Context) error {
	h.svc.Start()
	h.Resize()

	ticker := time.NewTicker(time.Second / time.Duration(h.fps))
	defer ticker.Stop()
	defer func() { h.log.Info().Object("stats", h.stats).Msg("host stopped") }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.stage.Done():
			return nil
		case ev := <-h.svc.Events():
			if !h.Handle(ev) {
				return nil
			}
		case <-h.sched.Wake():
			h.sched.Drain()
		case <-ticker.C:
			h.Frame(h.sched.Now())
		}
	}
}
