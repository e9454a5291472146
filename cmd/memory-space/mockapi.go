package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/memory-space/mockapi"
)

var (
	mockAddr  string
	mockEmpty bool
)

var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Serve an in-memory archive API for development",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ln, err := net.Listen("tcp", mockAddr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", mockAddr, err)
		}
		srv := mockapi.New(cfg.API.ContextPath, logger)
		if !mockEmpty {
			seedDemo(srv)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mock api on http://%s%s/api (%s)\n", ln.Addr(), cfg.API.ContextPath, srv)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return serveHTTP(gctx, &http.Server{Handler: srv.Handler()}, ln, logger) })
		return g.Wait()
	},
}

func init() {
	mockAPICmd.Flags().StringVar(&mockAddr, "addr", ":8080", "Listen address")
	mockAPICmd.Flags().BoolVar(&mockEmpty, "empty", false, "Start without demo stars")
}
