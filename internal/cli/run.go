package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"quincunx/internal/core"
	"quincunx/internal/galton"
	"quincunx/internal/render"
	prng "quincunx/pkg/core"
)

// runOptions holds the root command's experiment flags.
type runOptions struct {
	slots   int
	seed    int64
	repeat  int
	trim    string
	animate bool
	tps     int
}

func (o *runOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&o.slots, "slots", 10, "number of slots at the bottom of the board (skill is drawn around half of slots-1)")
	flags.Int64Var(&o.seed, "seed", 0, "random seed (default: time based)")
	flags.IntVar(&o.repeat, "repeat", 0, "replay the experiment this many extra times with the same beads")
	flags.StringVar(&o.trim, "trim", "", "keep only the upper or lower half of the settled beads after each run (upper|lower)")
	flags.BoolVar(&o.animate, "animate", false, "draw every tick as an ASCII frame")
	flags.IntVar(&o.tps, "tps", 20, "ticks per second when animating")
}

// RunResult is the outcome of one pass of the beads through the board.
type RunResult struct {
	Round   int     `json:"round"`
	Counts  []int   `json:"counts"`
	Average float64 `json:"average"`
	Ticks   int     `json:"ticks"`
}

// RunReport describes an experiment and all of its rounds.
type RunReport struct {
	Beads int         `json:"beads"`
	Mode  string      `json:"mode"`
	Slots int         `json:"slots"`
	Seed  int64       `json:"seed"`
	Trim  string      `json:"trim,omitempty"`
	Runs  []RunResult `json:"runs"`
}

// parseArgs validates the "<number of beans> <luck | skill>" pair.
func parseArgs(args []string) (int, galton.Mode, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	beans, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number of beans %q", args[0])
	}
	if beans < 0 {
		return 0, 0, fmt.Errorf("number of beans must be >= 0, got %d", beans)
	}
	mode, err := galton.ParseMode(args[1])
	if err != nil {
		return 0, 0, err
	}
	return beans, mode, nil
}

func runExperiment(opts *RootOptions, ro *runOptions, cmd *cobra.Command, args []string) error {
	formatter := newFormatter(opts, cmd)

	beans, mode, err := parseArgs(args)
	if err != nil {
		showUsage(cmd.OutOrStdout())
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}
	if ro.slots < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--slots must be >= 1, got %d", ro.slots))
	}
	if ro.repeat < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--repeat must be >= 0, got %d", ro.repeat))
	}
	switch ro.trim {
	case "", "upper", "lower":
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid trim %q: must be upper or lower", ro.trim))
	}

	cfg := galton.DefaultConfig()
	cfg.Beads = beans
	cfg.Mode = mode
	cfg.Slots = ro.slots
	cfg.SkillAverage, cfg.SkillStdev = galton.SkillFor(cfg.Slots)
	cfg.Seed = ro.seed
	if !cmd.Flags().Changed("seed") {
		cfg.Seed = time.Now().UnixNano()
	}

	log := opts.Logger
	log.Info("run started", "beads", cfg.Beads, "mode", cfg.Mode.String(), "slots", cfg.Slots, "seed", cfg.Seed)
	start := time.Now()

	// Frames go to stderr under JSON so stdout stays parseable.
	var frames io.Writer
	if ro.animate {
		frames = formatter.Writer
		if formatter.Format == "json" {
			frames = formatter.GetErrWriter()
		}
	}

	m := galton.New(cfg.Slots)
	m.Reset(galton.Population(cfg, prng.NewRNG(cfg.Seed)))

	report := RunReport{
		Beads: cfg.Beads,
		Mode:  cfg.Mode.String(),
		Slots: cfg.Slots,
		Seed:  cfg.Seed,
		Trim:  ro.trim,
	}
	for round := 0; round <= ro.repeat; round++ {
		if round > 0 {
			m.Repeat()
		}
		ticks, err := drive(cmd.Context(), m, frames, ro.tps)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				formatter.Error(ErrCodeCancelled, "run cancelled", nil)
				return WrapExitError(ExitFailure, "run cancelled", err)
			}
			return err
		}
		switch ro.trim {
		case "upper":
			m.UpperHalf()
		case "lower":
			m.LowerHalf()
		}
		log.Debug("round finished", "round", round, "ticks", ticks, "average", m.Average())
		report.Runs = append(report.Runs, RunResult{
			Round:   round,
			Counts:  m.Counts(),
			Average: m.Average(),
			Ticks:   ticks,
		})
	}
	log.Info("run finished", "rounds", len(report.Runs), "elapsed", time.Since(start))

	return outputRun(formatter, report)
}

// drive steps m until it finishes. With a frame writer it draws each tick,
// paced by a fixed-step clock.
func drive(ctx context.Context, m *galton.Machine, frames io.Writer, tps int) (int, error) {
	var clock *core.FixedStep
	if frames != nil {
		clock = core.NewFixedStep(tps)
		if err := render.Text(frames, m); err != nil {
			return 0, err
		}
	}
	ticks := 0
	for {
		if err := ctx.Err(); err != nil {
			return ticks, err
		}
		if clock != nil {
			clock.Wait()
		}
		if !m.Step() {
			return ticks, nil
		}
		ticks++
		if frames != nil {
			fmt.Fprintf(frames, "\ntick %d\n", ticks)
			if err := render.Text(frames, m); err != nil {
				return ticks, err
			}
		}
	}
}

func outputRun(f *OutputFormatter, report RunReport) error {
	if f.Format == "json" {
		return f.Success(report)
	}
	for _, r := range report.Runs {
		fmt.Fprintln(f.Writer, runHeader(report, r))
		fmt.Fprintln(f.Writer, joinInts(r.Counts))
	}
	f.VerboseLog("average slot: %.4f", report.Runs[len(report.Runs)-1].Average)
	return nil
}

func runHeader(report RunReport, r RunResult) string {
	var notes []string
	if r.Round > 0 {
		notes = append(notes, fmt.Sprintf("repeat %d", r.Round))
	}
	if report.Trim != "" {
		notes = append(notes, report.Trim+" half")
	}
	if len(notes) == 0 {
		return "Slot bean counts:"
	}
	return fmt.Sprintf("Slot bean counts (%s):", strings.Join(notes, ", "))
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
