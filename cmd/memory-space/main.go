package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/memory-space/config"
	"github.com/lixenwraith/memory-space/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	cfg       *config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "memory-space",
	Short: "Memory archive in the terminal",
	Long: `memory-space draws the memory archive's star maps in the terminal.

Home shows four draggable stars (shift or ctrl drag). My space lists your
own stars; opening one shows its planets in orbit and the media they hold.

Run without a subcommand to start the interactive client.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
		if debug {
			cfg.Log.Debug = true
		}
		// the client owns the terminal; everything else may log to stderr
		console := cmd.HasParent() && cmd.Name() != "run"
		logger, logCloser, err = logging.Setup(logging.Options{Debug: cfg.Log.Debug, Dir: cfg.Log.Dir, Console: console})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClient(cmd.Context(), runOpts)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: ./memory-space.toml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Write debug logs under log.dir")

	bindRunFlags(rootCmd)
	bindRunFlags(runCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(mockAPICmd)
	rootCmd.AddCommand(introCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
