package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Service owns the tcell screen and the input polling goroutine
type Service struct {
	screen  tcell.Screen
	eventCh chan tcell.Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// NewService wraps screen; a nil screen opens the controlling terminal on Init
func NewService(screen tcell.Screen) *Service {
	return &Service{
		screen:  screen,
		eventCh: make(chan tcell.Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Init opens the screen with mouse motion reporting
func (s *Service) Init() error {
	if s.screen == nil {
		scr, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal open: %w", err)
		}
		s.screen = scr
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	s.screen.EnableMouse(tcell.MouseMotionEvents)
	s.screen.HideCursor()
	s.screen.Clear()
	return nil
}

// Start launches input polling
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.pollLoop()
}

// pollLoop forwards events until the screen is finalized
func (s *Service) pollLoop() {
	defer close(s.doneCh)

	defer func() {
		if r := recover(); r != nil {
			s.screen.Fini()
			fmt.Fprintf(os.Stderr, "\r\nterminal poll crashed: %v\r\n%s\r\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.eventCh <- ev:
		case <-s.stopCh:
			return
		}
	}
}

// Stop finalizes the screen, which ends polling, and restores the terminal
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		if s.screen != nil {
			s.screen.Fini()
		}
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.screen.Fini()
	<-s.doneCh
}

// Screen returns the wrapped screen
func (s *Service) Screen() tcell.Screen { return s.screen }

// Events returns the input event channel
func (s *Service) Events() <-chan tcell.Event { return s.eventCh }
