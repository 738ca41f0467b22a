package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	debug      bool
	configPath string
	workDir    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "symimport",
		Short:        "Import Apple system symbols into the symbol bucket",
		Long: "symimport fetches Apple firmware archives and local simulator\n" +
			"runtimes, extracts their dyld shared caches, sorts the symbols\n" +
			"with symsorter and uploads the result to a GCS bucket.\n\n" +
			"Imports are idempotent: a bundle already present in the bucket\n" +
			"is never fetched or extracted again.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging to <work-dir>/logs/symimport.log")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to sources.yaml (default: search upward from the working directory)")
	cmd.PersistentFlags().StringVar(&opts.workDir, "work-dir", "", "scratch directory for downloads, staging and run artifacts")

	cmd.AddCommand(
		firmwareCmd(opts),
		simulatorsCmd(opts),
		statusCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)
	return cmd
}
