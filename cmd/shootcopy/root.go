package main

import (
	"github.com/spf13/cobra"
)

type options struct {
	configPath      string
	target          string
	selection       string
	timestampSource string
	logFormat       string
	listFormat      string
	gap             int
	parallelism     int
	verbose         bool
	dryRun          bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "shootcopy [SOURCE]",
		Short: "Back up camera cards one photoshoot at a time",
		Long: `shootcopy groups the photos and videos of a camera card into photoshoots
by capture time, lets you pick the shoots to keep, and copies them into
<start>_project_<n>/<ext>/ folders, verifying every copy.

SOURCE defaults to /Volumes/LUMIX.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return userFacing(runBackup(cmd, opts, args))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	flags.IntVarP(&opts.gap, "gap", "g", 120, "Minutes between files that start a new photoshoot")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print every copied and verified file")
	flags.IntVarP(&opts.parallelism, "parallelism", "j", 0, "Execution units to copy with (0 = number of CPUs)")
	flags.StringVar(&opts.timestampSource, "timestamp-source", "", "Where capture times come from: filesystem or exif")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log output format: console or json")

	rootCmd.Flags().StringVarP(&opts.target, "target", "t", "", "Folder to back up into (prompted when empty)")
	rootCmd.Flags().StringVarP(&opts.selection, "select", "s", "", `Shoots to back up, e.g. "1 3" or "all" (prompted when empty)`)
	rootCmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "d", false, "List the detected shoots and stop")

	rootCmd.AddCommand(newListCommand(opts))

	return rootCmd
}

func newListCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list [SOURCE]",
		Short:         "List the photoshoots found on a card",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return userFacing(runList(cmd, opts, args))
		},
	}
	cmd.Flags().StringVarP(&opts.listFormat, "format", "f", "table", "Output format: table or yaml")
	return cmd
}
