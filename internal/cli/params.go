package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"quincunx/internal/core"
)

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		beads int
		slots int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "params [luck|skill]",
		Short: "Show the tunable parameters of a freshly reset board",
		Long: `Build a board from the simulation registry and print its parameter
snapshot: the experiment configuration followed by the machine tallies
right after the first bead has been dropped.`,
		Args:          cobra.MaximumNArgs(1),
		ValidArgs:     core.Names(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "luck"
			if len(args) == 1 {
				name = args[0]
			}
			factory, ok := core.Sims()[name]
			if !ok {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("unknown board %q: must be one of %v", name, core.Names()))
			}

			cfg := map[string]string{}
			if cmd.Flags().Changed("beads") {
				cfg["beads"] = strconv.Itoa(beads)
			}
			if cmd.Flags().Changed("slots") {
				cfg["slots"] = strconv.Itoa(slots)
			}
			if cmd.Flags().Changed("seed") {
				cfg["seed"] = strconv.FormatInt(seed, 10)
			}
			sim := factory(cfg)

			provider, ok := sim.(core.ParameterProvider)
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("board %q exposes no parameters", name))
			}
			return outputParams(newFormatter(rootOpts, cmd), provider.Parameters())
		},
	}

	cmd.Flags().IntVar(&beads, "beads", 400, "number of beads")
	cmd.Flags().IntVar(&slots, "slots", 10, "number of slots")
	cmd.Flags().Int64Var(&seed, "seed", 1337, "random seed")

	return cmd
}

func outputParams(f *OutputFormatter, snap core.ParameterSnapshot) error {
	if f.Format == "json" {
		return f.Success(snap)
	}
	for i, g := range snap.Groups {
		if i > 0 {
			fmt.Fprintln(f.Writer)
		}
		fmt.Fprintln(f.Writer, g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(f.Writer, "  %-14s %s\n", p.Key, p.Value)
		}
	}
	return nil
}
