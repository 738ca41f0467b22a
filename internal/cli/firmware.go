package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

func firmwareCmd(opts *rootOptions) *cobra.Command {
	var osName string
	var osVersion string
	var sourceType string
	var format string

	c := &cobra.Command{
		Use:   "firmware",
		Short: "Import symbols from a firmware feed (IPSW or OTA)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := domain.ParseSourceType(sourceType)
			if err != nil {
				return err
			}
			if source == domain.SourceSimulator {
				return fmt.Errorf("use %q for simulator runtimes", "symimport simulators")
			}

			a, err := buildApp(opts)
			if err != nil {
				return err
			}
			defer a.cleanup()

			run, err := a.firmware.Execute(cmd.Context(), osName, osVersion, source)
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

	c.Flags().StringVar(&osName, "os-name", "", "OS to import (ios|tvos|macos|watchos) (required)")
	c.Flags().StringVar(&osVersion, "os-version", "latest", "OS version to import, or \"latest\"")
	c.Flags().StringVar(&sourceType, "type", "ipsw", "archive type: ipsw|ota")
	c.Flags().StringVar(&format, "format", "pretty", "output format: pretty|json")

	_ = c.MarkFlagRequired("os-name")
	return c
}
