package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"quincunx/internal/galton"
)

// CheckReport is the result of an exhaustive invariant check.
type CheckReport struct {
	MaxBeads   int         `json:"max_beads"`
	MaxSlots   int         `json:"max_slots"`
	Machines   int         `json:"machines"`
	Ticks      int         `json:"ticks"`
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation is one broken invariant.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Beads   int    `json:"beads"`
	Slots   int    `json:"slots"`
	Tick    int    `json:"tick"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		maxBeads int
		maxSlots int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:     "check",
		Aliases: []string{"test"},
		Short:   "Exhaustively check machine invariants on small boards",
		Long: `Run a luck-mode machine for every bead count from 0 to --max-beads and
every slot count from 1 to --max-slots, verifying after each tick that
falling beads sit on legal pegs and no bead is lost, and that every bead
has settled when the machine stops.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxBeads < 0 || maxSlots < 1 {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("--max-beads must be >= 0 and --max-slots >= 1, got %d and %d", maxBeads, maxSlots))
			}
			return runCheck(rootOpts, cmd, maxBeads, maxSlots, seed)
		},
	}

	cmd.Flags().IntVar(&maxBeads, "max-beads", 3, "largest bead count to check")
	cmd.Flags().IntVar(&maxSlots, "max-slots", 5, "largest slot count to check")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the luck beads")

	return cmd
}

func runCheck(opts *RootOptions, cmd *cobra.Command, maxBeads, maxSlots int, seed int64) error {
	formatter := newFormatter(opts, cmd)
	opts.Logger.Info("check started", "max_beads", maxBeads, "max_slots", maxSlots, "seed", seed)

	res, err := galton.Check(maxBeads, maxSlots, seed)
	report := CheckReport{
		MaxBeads: maxBeads,
		MaxSlots: maxSlots,
		Machines: res.Machines,
		Ticks:    res.Ticks,
		OK:       err == nil,
	}
	for _, e := range flatten(err) {
		var ie *galton.InvariantError
		if errors.As(e, &ie) {
			report.Violations = append(report.Violations, Violation{
				Code:    string(ie.Code),
				Message: ie.Message,
				Beads:   ie.Beads,
				Slots:   ie.Slots,
				Tick:    ie.Tick,
			})
		}
	}
	opts.Logger.Info("check finished", "machines", report.Machines, "violations", len(report.Violations))

	if !report.OK {
		msg := fmt.Sprintf("%d invariant violation(s)", len(report.Violations))
		if formatter.Format == "json" {
			formatter.Error(ErrCodeInvariant, msg, report.Violations)
		} else {
			for _, v := range report.Violations {
				fmt.Fprintf(formatter.Writer, "FAIL %s beads=%d slots=%d tick=%d: %s\n",
					v.Code, v.Beads, v.Slots, v.Tick, v.Message)
			}
		}
		return WrapExitError(ExitFailure, "invariant check failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}
	fmt.Fprintf(formatter.Writer, "checked %d machines (beads 0..%d, slots 1..%d) in %d ticks: ok\n",
		report.Machines, maxBeads, maxSlots, report.Ticks)
	return nil
}

// flatten splits an errors.Join result into its parts.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
