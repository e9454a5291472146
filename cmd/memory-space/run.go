package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	rtdebug "runtime/debug"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/audio"
	"github.com/lixenwraith/memory-space/frame"
	"github.com/lixenwraith/memory-space/kvstore"
	"github.com/lixenwraith/memory-space/mockapi"
	"github.com/lixenwraith/memory-space/scene"
	"github.com/lixenwraith/memory-space/terminal"
)

type runOptions struct {
	route   string
	star    int64
	noIntro bool
	mock    bool
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive client",
	Long: `Opens the archive in the terminal. Keys: h home, m my space, esc back, q quit.

--mock serves a seeded in-memory archive on a loopback port instead of
talking to api.base_url.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClient(cmd.Context(), runOpts)
	},
}

func bindRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&runOpts.route, "route", scene.RouteHome, "Route to open, e.g. /my-space or /tutorial")
	f.Int64Var(&runOpts.star, "star", 0, "Open the planet system of this star id")
	f.BoolVar(&runOpts.noIntro, "no-intro", false, "Skip the intro animation")
	f.BoolVar(&runOpts.mock, "mock", false, "Run against a built-in mock archive")
}

func (o runOptions) startRoute() string {
	if o.star > 0 {
		return "/star/" + strconv.FormatInt(o.star, 10)
	}
	return o.route
}

// crashGuard restores the terminal before reporting a panic
func crashGuard(svc *terminal.Service, where string) {
	if r := recover(); r != nil {
		svc.Stop()
		fmt.Fprintf(os.Stderr, "\r\nmemory-space crashed in %s: %v\r\nStack Trace:\r\n%s\r\n", where, r, rtdebug.Stack())
		os.Exit(1)
	}
}

func runClient(parent context.Context, opts runOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := kvstore.Open(cfg.Storage.Backend, cfg.Storage.Path, cfg.Session.TTL)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	g, gctx := errgroup.WithContext(ctx)

	apiCfg := &api.Config{BaseURL: cfg.API.BaseURL, ContextPath: cfg.API.ContextPath, Timeout: cfg.API.Timeout}
	if opts.mock {
		base, err := serveMock(gctx, g, apiCfg.ContextPath)
		if err != nil {
			return err
		}
		apiCfg.BaseURL = base
	}
	client := api.New(apiCfg, nil, logger)

	player := audio.NewPlayer(audio.Config{Enabled: cfg.Audio.Enabled, Volume: cfg.Audio.Volume}, logger)
	_ = player.Init()
	defer player.Close()

	svc := terminal.NewService(nil)
	if err := svc.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer svc.Stop()

	sched := frame.NewScheduler(frame.RealClock{})
	defer sched.Close()

	seed := uint64(time.Now().UnixNano())
	stage := scene.NewStage(scene.Env{
		Ctx:      gctx,
		Sched:    sched,
		Store:    store,
		Client:   client,
		Sound:    player,
		Rand:     rand.New(rand.NewPCG(seed, seed>>1|1)),
		SeedMode: cfg.Placement.SeedMode(),
		Log:      logger,
		CellW:    cfg.View.CellWidth,
		CellH:    cfg.View.CellHeight,
	})
	defer stage.Close()

	host := terminal.NewHost(svc, stage, sched, cfg.View.FPS, logger)
	host.Resize()
	stage.Start(opts.startRoute(), cfg.Intro.Enabled && !opts.noIntro)
	logger.Info().Str("route", opts.startRoute()).Str("api", apiCfg.BaseURL).Str("storage", cfg.Storage.Backend).Msg("client started")

	g.Go(func() error {
		defer crashGuard(svc, "frame loop")
		err := host.Run(gctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		// returning ends the group context, which stops the mock server
		if err == nil {
			err = errQuit
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	logger.Info().Msg("client stopped")
	return nil
}

// errQuit cancels sibling goroutines when the client exits normally
var errQuit = errors.New("quit")

// serveMock starts a seeded mock archive on a loopback port and returns its base URL
func serveMock(ctx context.Context, g *errgroup.Group, contextPath string) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("mock listen: %w", err)
	}
	srv := mockapi.New(contextPath, logger.With().Str("component", "mockapi").Logger())
	seedDemo(srv)
	g.Go(func() error { return serveHTTP(ctx, &http.Server{Handler: srv.Handler()}, ln, logger) })
	return "http://" + ln.Addr().String(), nil
}

// seedDemo fills srv with a small archive to explore
func seedDemo(srv *mockapi.Server) {
	for _, name := range []string{"Childhood", "Travels", "Family"} {
		star := srv.SeedStar(name)
		if name == "Travels" {
			for _, p := range []string{"Lisbon", "Kyoto", "Oaxaca"} {
				srv.SeedPlanet(star.ID, p)
			}
		}
	}
}

// serveHTTP runs srv on ln until ctx ends, then shuts it down gracefully
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("mock api listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mock shutdown: %w", err)
	}
	return nil
}
