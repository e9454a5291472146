package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/memory-space/canvas"
	"github.com/lixenwraith/memory-space/intro"
)

type introOptions struct {
	frames        int
	fps           int
	width, height float64
	seed          uint64
}

var introOpts introOptions

var introCmd = &cobra.Command{
	Use:   "intro",
	Short: "Run the intro animation headless and print its phase timeline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntro(cmd.OutOrStdout(), introOpts)
	},
}

func init() {
	f := introCmd.Flags()
	f.IntVar(&introOpts.frames, "frames", 0, "Stop after this many frames (0 runs to the end)")
	f.IntVar(&introOpts.fps, "fps", 60, "Simulated frame rate")
	f.Float64Var(&introOpts.width, "width", 1000, "Viewport width in px")
	f.Float64Var(&introOpts.height, "height", 800, "Viewport height in px")
	f.Uint64Var(&introOpts.seed, "seed", 1, "Particle seed")
}

type phaseMark struct {
	phase intro.Phase
	at    time.Duration
	frame int
}

type introReport struct {
	marks    []phaseMark
	frames   int
	elapsed  time.Duration
	finished bool
	skipped  int
}

func simulateIntro(opts introOptions) (introReport, error) {
	if opts.fps <= 0 {
		return introReport{}, fmt.Errorf("fps must be positive")
	}
	// one backing pixel per 8x8 logical block keeps the headless run cheap
	pxW, pxH := max(1, int(opts.width/8)), max(1, int(opts.height/8))
	d := intro.New(canvas.New(opts.width, opts.height, pxW, pxH), rand.New(rand.NewPCG(opts.seed, opts.seed+1)), logger)
	d.Resize(opts.width, opts.height, pxW, pxH)
	d.Start()

	rep := introReport{marks: []phaseMark{{phase: d.Phase()}}}
	dt := time.Second / time.Duration(opts.fps)
	for opts.frames == 0 || rep.frames < opts.frames {
		running := d.Tick(dt)
		rep.frames++
		rep.skipped += d.Skipped()
		if p := d.Phase(); p != rep.marks[len(rep.marks)-1].phase {
			rep.marks = append(rep.marks, phaseMark{phase: p, at: d.Elapsed(), frame: rep.frames})
		}
		if !running {
			rep.finished = true
			break
		}
	}
	rep.elapsed = d.Elapsed()
	return rep, nil
}

func runIntro(w io.Writer, opts introOptions) error {
	rep, err := simulateIntro(opts)
	if err != nil {
		return err
	}
	for _, m := range rep.marks {
		fmt.Fprintf(w, "%-10s %8s  frame %d\n", m.phase, m.at.Round(time.Millisecond), m.frame)
	}
	state := "stopped"
	if rep.finished {
		state = "finished"
	}
	fmt.Fprintf(w, "%s after %d frames, %s of %s; %d non-finite particles skipped\n",
		state, rep.frames, rep.elapsed.Round(time.Millisecond), intro.TotalDuration, rep.skipped)
	return nil
}
