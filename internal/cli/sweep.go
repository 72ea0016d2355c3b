package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"quincunx/internal/sweep"
)

// SweepReport is the JSON payload of the sweep command.
type SweepReport struct {
	Plan    string         `json:"plan"`
	Results []sweep.Result `json:"results"`
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "sweep <plan.yaml>",
		Short: "Run a plan of experiments in parallel",
		Long: `Run every experiment listed in a YAML plan, one machine per experiment,
spread across worker goroutines. Each experiment gets a time-ordered run ID.
Results are printed in plan order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(rootOpts, cmd, args[0], workers)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel workers (default: plan setting, then CPU count)")

	return cmd
}

func runSweep(opts *RootOptions, cmd *cobra.Command, path string, workers int) error {
	formatter := newFormatter(opts, cmd)

	plan, err := sweep.LoadPlan(path)
	if err != nil {
		formatter.Error(ErrCodePlan, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load plan", err)
	}
	formatter.VerboseLog("Loaded plan %q with %d experiment(s)", plan.Name, len(plan.Experiments))

	runner := &sweep.Runner{Workers: workers, IDs: opts.ids, Logger: opts.Logger}
	results, err := runner.Run(cmd.Context(), plan)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			formatter.Error(ErrCodeCancelled, "sweep cancelled",
				map[string]int{"completed": len(results), "planned": len(plan.Experiments)})
			return WrapExitError(ExitFailure, "sweep cancelled", err)
		}
		return err
	}

	if formatter.Format == "json" {
		return formatter.Success(SweepReport{Plan: plan.Name, Results: results})
	}

	fmt.Fprintf(formatter.Writer, "plan %s: %d experiment(s)\n", plan.Name, len(results))
	for _, res := range results {
		fmt.Fprintf(formatter.Writer, "\n%s  %s  (%s, %d beads, %d slots, seed %d)\n",
			res.RunID, res.Name, res.Mode, res.Beads, res.Slots, res.Seed)
		if res.Trim != "" {
			fmt.Fprintf(formatter.Writer, "  trimmed to %s half after each round\n", res.Trim)
		}
		for i, round := range res.Rounds {
			fmt.Fprintf(formatter.Writer, "  round %d  avg %.2f  %s\n", i, round.Average, joinInts(round.Counts))
		}
		formatter.VerboseLog("%s finished in %s", res.Name, res.Elapsed)
	}
	return nil
}
