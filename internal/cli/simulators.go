package cli

import (
	"github.com/spf13/cobra"
)

func simulatorsCmd(opts *rootOptions) *cobra.Command {
	var cachesDir string
	var format string

	c := &cobra.Command{
		Use:   "simulators",
		Short: "Import symbols from locally cached Xcode simulator runtimes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(opts)
			if err != nil {
				return err
			}
			defer a.cleanup()

			dir := cachesDir
			if dir == "" {
				dir = a.cfg.Simulator.CachesDir
			}
			dir = expandHome(dir)

			run, err := a.simulators.Execute(cmd.Context(), dir)
			if err != nil {
				_ = printRun(cmd.OutOrStdout(), run, format)
				return err
			}

			if err := printRun(cmd.OutOrStdout(), run, format); err != nil {
				return err
			}
			return runOutcome(cmd, run)
		},
	}

	c.Flags().StringVar(&cachesDir, "caches-dir", "", "CoreSimulator dyld cache directory (default from sources.yaml)")
	c.Flags().StringVar(&format, "format", "pretty", "output format: pretty|json")
	return c
}
