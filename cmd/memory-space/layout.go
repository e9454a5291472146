package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/memory-space/placement"
	"github.com/lixenwraith/memory-space/scene"
)

type layoutOptions struct {
	keys          []string
	width, height float64
	margin        float64
	minDist       float64
	legacy        bool
	json          bool
}

var layoutOpts layoutOptions

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the seeded placement for a set of hotspot keys",
	Long: `Computes where hotspots land on a fresh viewport, without stored positions.
The same key set always gives the same layout; --legacy hashes keys in the
given order instead of sorted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := layoutOpts
		if !cmd.Flags().Changed("legacy") {
			opts.legacy = cfg.Placement.LegacySeed
		}
		return printLayout(cmd.OutOrStdout(), opts)
	},
}

func init() {
	var keys []string
	for _, h := range scene.HomeHotspots {
		keys = append(keys, h.Key)
	}
	f := layoutCmd.Flags()
	f.StringSliceVar(&layoutOpts.keys, "keys", keys, "Hotspot keys, comma separated")
	f.Float64Var(&layoutOpts.width, "width", 1000, "Viewport width in px")
	f.Float64Var(&layoutOpts.height, "height", 800, "Viewport height in px")
	f.Float64Var(&layoutOpts.margin, "margin", scene.HomeMargin, "Edge margin in px")
	f.Float64Var(&layoutOpts.minDist, "min-dist", scene.HomeMinDist, "Minimum separation in px")
	f.BoolVar(&layoutOpts.legacy, "legacy", false, "Hash keys in the given order")
	f.BoolVar(&layoutOpts.json, "json", false, "Print the normalized positions as stored")
}

type layoutRow struct {
	Key       string  `json:"key"`
	RX        float64 `json:"rx"`
	RY        float64 `json:"ry"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Tries     int     `json:"tries"`
	Threshold float64 `json:"threshold"`
	Exhausted bool    `json:"exhausted,omitempty"`
}

func layoutRows(opts layoutOptions) ([]layoutRow, uint32, error) {
	if len(opts.keys) == 0 {
		return nil, 0, fmt.Errorf("no keys")
	}
	if opts.width <= 0 || opts.height <= 0 {
		return nil, 0, fmt.Errorf("viewport %gx%g must be positive", opts.width, opts.height)
	}
	mode := placement.SeedSorted
	if opts.legacy {
		mode = placement.SeedOrdered
	}
	configs := make([]placement.HotspotConfig, len(opts.keys))
	for i, k := range opts.keys {
		configs[i] = placement.HotspotConfig{Key: k}
	}

	res := placement.Engine{Mode: mode}.Place(configs, nil, opts.width, opts.height, opts.margin, opts.minDist)
	frame := placement.MarginFrame(opts.width, opts.height, opts.margin)
	rows := make([]layoutRow, 0, len(res.Placed))
	for _, p := range res.Placed {
		px := frame.ToPixel(p.Position)
		rows = append(rows, layoutRow{
			Key: p.Key, RX: p.Position.RX, RY: p.Position.RY, X: px.X, Y: px.Y,
			Tries: p.Tries, Threshold: p.Threshold, Exhausted: p.Exhausted,
		})
	}
	return rows, placement.Seed(opts.keys, mode), nil
}

func printLayout(w io.Writer, opts layoutOptions) error {
	rows, seed, err := layoutRows(opts)
	if err != nil {
		return err
	}
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintf(w, "seed %08x  viewport %gx%g  margin %g  min-dist %g\n", seed, opts.width, opts.height, opts.margin, opts.minDist)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tRX\tRY\tX\tY\tTRIES\tSEP")
	for _, r := range rows {
		sep := fmt.Sprintf("%g", r.Threshold)
		if r.Exhausted {
			sep += " (exhausted)"
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.0f\t%.0f\t%d\t%s\n", r.Key, r.RX, r.RY, r.X, r.Y, r.Tries, sep)
	}
	return tw.Flush()
}
