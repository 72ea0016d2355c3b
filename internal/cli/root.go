// Package cli implements the quincunx command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"quincunx/internal/logging"
	"quincunx/internal/sweep"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	LogLevel string

	// Logger is built from LogLevel before any command runs.
	Logger *slog.Logger

	ids sweep.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the quincunx CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(nil)
}

func newRootCommand(ids sweep.IDGenerator) *cobra.Command {
	opts := &RootOptions{ids: ids}
	run := &runOptions{}

	cmd := &cobra.Command{
		Use:   "quincunx <number of beans> <luck | skill>",
		Short: "Quincunx - a Galton box simulator",
		Long: `Drop beads through a triangle of pegs and count where they land.

In luck mode every peg is a coin flip. In skill mode each bead goes right
until it has used up its skill, drawn once from a normal distribution.`,
		Example: `  quincunx 400 luck
  quincunx 400 skill --repeat 2 --trim upper
  quincunx check
  quincunx sweep plan.yaml`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			level := opts.LogLevel
			if opts.Verbose && !cmd.Flags().Changed("log-level") {
				level = "debug"
			}
			opts.Logger = logging.NewLogger(level, cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(opts, run, cmd, args)
		},
	}

	// A negative bean count such as "-300" parses as an unknown shorthand
	// flag, so flag errors on the root fall back to the usage text.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		if c.HasParent() {
			return WrapExitError(ExitCommandError, "invalid flags", err)
		}
		showUsage(c.OutOrStdout())
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (implies --log-level debug)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (error|warn|info|debug|trace)")

	run.bind(cmd)

	// "help" is a single positional argument to the two-argument contract;
	// --help still prints the cobra help.
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))

	return cmd
}

// showUsage prints the two-argument usage message.
func showUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: quincunx <number of beans> <luck | skill>")
	fmt.Fprintln(w, "Example: quincunx 400 luck")
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
