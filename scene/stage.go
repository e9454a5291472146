package scene

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/frame"
	"github.com/lixenwraith/memory-space/intro"
)

// Routes
const (
	RouteHome    = "/"
	RouteMySpace = "/my-space"
	routeStar    = "/star/"
)

// Stage messages
const (
	MsgLoginRequired = "Please sign in to open your space."
	toastDuration    = 3 * time.Second
)

// Hinter is implemented by views that show key hints on the status line
type Hinter interface {
	Hints() string
}

// Stage routes between views, gates routes behind login and overlays the intro
type Stage struct {
	env    Env
	view   View
	route  string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	auth       api.Auth
	authLoaded bool
	pending    string

	toast      string
	toastTimer *frame.Timer

	intro     *intro.Director
	introLast time.Time
	introID   frame.ID

	w, h     float64
	pxW, pxH int

	quit     chan struct{}
	quitOnce sync.Once
}

// NewStage wires env to the stage; env.Navigate and env.Notifier are replaced
func NewStage(env Env) *Stage {
	s := &Stage{quit: make(chan struct{})}
	if env.Ctx == nil {
		env.Ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(env.Ctx)
	env.Ctx = s.ctx
	env.Navigate = s.Navigate
	env.Notifier = s
	s.env = env
	return s
}

// Start plays the intro when it has not run this session, loads the signed-in user
// and opens route once that is known
func (s *Stage) Start(route string, withIntro bool) {
	if withIntro && intro.Claim(s.env.Store) {
		s.intro = intro.New(canvas.New(1, 1, 0, 0), s.env.Rand, s.env.Log)
		s.intro.Resize(s.w, s.h, s.pxW, s.pxH)
		s.intro.Start()
		s.introLast = s.env.Sched.Now()
		s.introID = s.env.Sched.RequestFrame(s.introFrame)
	}
	if needsLogin(route) {
		s.pending = route
		route = RouteHome
	}
	s.open(route)
	s.loadAuth()
}

func (s *Stage) loadAuth() {
	if s.env.Client == nil {
		s.setAuth(api.Auth{}, nil)
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		a, err := s.env.Client.Me(s.ctx)
		if s.ctx.Err() != nil {
			return
		}
		s.env.Sched.Post(func() { s.setAuth(a, err) })
	}()
}

func (s *Stage) setAuth(a api.Auth, err error) {
	if err != nil {
		s.env.Log.Warn().Err(err).Msg("auth check failed")
		a = api.Auth{}
	}
	s.auth, s.authLoaded = a, true
	s.env.Log.Info().Bool("logged_in", a.LoggedIn).Str("user", a.DisplayName()).Msg("auth loaded")
	if p := s.pending; p != "" {
		s.pending = ""
		s.open(p)
	}
}

// Auth returns the signed-in user; LoggedIn is false until loaded
func (s *Stage) Auth() api.Auth { return s.auth }

// Route returns the current route
func (s *Stage) Route() string { return s.route }

// View returns the mounted view
func (s *Stage) View() View { return s.view }

// Navigate switches routes on the next frame so a view never closes inside its own callback
func (s *Stage) Navigate(path string) {
	s.env.Sched.Post(func() { s.open(path) })
}

func needsLogin(route string) bool {
	return route == RouteMySpace || strings.HasPrefix(route, routeStar)
}

func (s *Stage) open(route string) {
	if needsLogin(route) {
		if !s.authLoaded {
			s.pending = route
			return
		}
		if !s.auth.LoggedIn {
			s.Notify(MsgLoginRequired)
			route = RouteHome
		}
	}
	if route == s.route && s.view != nil {
		return
	}
	next := s.build(route)
	if next == nil {
		s.env.Log.Debug().Str("route", route).Msg("unknown route")
		route, next = RouteHome, s.build(RouteHome)
		if route == s.route && s.view != nil {
			next.Close()
			return
		}
	}
	if s.view != nil {
		s.view.Close()
	}
	s.view, s.route = next, route
	if s.w > 0 {
		s.view.Resize(s.w, s.h, s.pxW, s.pxH)
	}
	s.env.Log.Info().Str("route", route).Msg("navigated")
}

func (s *Stage) build(route string) View {
	env := &s.env
	switch {
	case route == RouteHome:
		return NewHome(env, true)
	case route == RouteMySpace:
		return NewStarField(env)
	case strings.HasPrefix(route, routeStar):
		id, err := strconv.ParseInt(strings.TrimPrefix(route, routeStar), 10, 64)
		if err != nil || id <= 0 {
			return nil
		}
		return NewPlanetView(env, id)
	}
	if _, ok := Pages[route]; ok {
		return NewInfoView(env, route)
	}
	return nil
}

// Notify shows msg on the status line for a few seconds
func (s *Stage) Notify(msg string) {
	s.toast = msg
	s.toastTimer.Stop()
	s.toastTimer = s.env.Sched.AfterFunc(toastDuration, func() { s.toast = "" })
	s.env.Log.Info().Str("message", msg).Msg("notice")
}

// Toast returns the visible notice
func (s *Stage) Toast() string { return s.toast }

// IntroRunning reports whether the intro overlay is playing
func (s *Stage) IntroRunning() bool { return s.intro != nil && s.intro.Running() }

func (s *Stage) introFrame(now time.Time) {
	dt := now.Sub(s.introLast)
	s.introLast = now
	if s.intro.Tick(dt) {
		s.introID = s.env.Sched.RequestFrame(s.introFrame)
		return
	}
	s.env.Log.Debug().Dur("elapsed", s.intro.Elapsed()).Msg("intro finished")
}

// SkipIntro ends the intro at once
func (s *Stage) SkipIntro() {
	if !s.IntroRunning() {
		return
	}
	s.env.Sched.CancelFrame(s.introID)
	s.intro.Stop()
}

// Resize sets the logical viewport and backing grid for the view and the intro
func (s *Stage) Resize(w, h float64, pxW, pxH int) {
	s.w, s.h, s.pxW, s.pxH = w, h, pxW, pxH
	if s.intro != nil {
		s.intro.Resize(w, h, pxW, pxH)
	}
	if s.view != nil {
		s.view.Resize(w, h, pxW, pxH)
	}
}

// Pointer routes a pointer event; any press skips the intro
func (s *Stage) Pointer(ev PointerEvent) {
	if s.IntroRunning() {
		if ev.Kind == PointerDown {
			s.SkipIntro()
		}
		return
	}
	if s.view != nil {
		s.view.Pointer(ev)
	}
}

// Key routes a key to the view first, then applies the global bindings
func (s *Stage) Key(ev KeyEvent) {
	if s.IntroRunning() {
		s.SkipIntro()
		return
	}
	if s.view != nil && s.view.Key(ev) {
		return
	}
	switch {
	case ev.Is('q'):
		s.quitOnce.Do(func() { close(s.quit) })
	case ev.Key == KeyEscape:
		if b := s.back(); b != "" {
			s.Navigate(b)
		}
	case ev.Is('h'):
		s.Navigate(RouteHome)
	case ev.Is('m'):
		s.Navigate(RouteMySpace)
	}
}

// back is the parent route, empty at home
func (s *Stage) back() string {
	switch {
	case s.route == RouteHome:
		return ""
	case strings.HasPrefix(s.route, routeStar):
		return RouteMySpace
	default:
		return RouteHome
	}
}

// Done is closed when the user quits
func (s *Stage) Done() <-chan struct{} { return s.quit }

// Layers returns the surfaces to composite, bottom first
func (s *Stage) Layers() []*canvas.Surface {
	var out []*canvas.Surface
	if s.view != nil {
		out = append(out, s.view.Surface())
	}
	if s.intro != nil && s.intro.Running() {
		out = append(out, s.intro.Surface())
	}
	return out
}

// Texts returns the view's overlays plus the status line
func (s *Stage) Texts() []Text {
	if s.IntroRunning() {
		return []Text{{X: s.env.CellW, Y: s.h - s.env.CellH, S: "press any key to skip", FG: MutedColor}}
	}
	var out []Text
	if s.view != nil {
		out = append(out, s.view.Texts()...)
	}
	return append(out, s.statusLine())
}

func (s *Stage) statusLine() Text {
	user := "guest"
	if s.auth.LoggedIn {
		user = s.auth.DisplayName()
	}
	hints := "h home  m my space  q quit"
	if hv, ok := s.view.(Hinter); ok {
		hints = hv.Hints() + "  q quit"
	}
	line := " " + s.route + " | " + user + " | " + hints
	fg := MutedColor
	if s.toast != "" {
		line = " " + s.toast
		fg = AccentColor
	}
	return Text{X: 0, Y: s.h - s.env.CellH, S: line, FG: fg, BG: PanelColor}
}

// Close tears down the view, the intro and in-flight requests
func (s *Stage) Close() {
	s.cancel()
	s.wg.Wait()
	s.toastTimer.Stop()
	s.env.Sched.CancelFrame(s.introID)
	if s.view != nil {
		s.view.Close()
		s.view = nil
	}
}
