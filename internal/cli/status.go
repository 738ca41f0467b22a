package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/feedclient"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/logger"
	"github.com/getsentry/apple-system-symbols-upload/internal/ui/tui"
)

func statusCmd(opts *rootOptions) *cobra.Command {
	var plain bool
	var osName string
	var limit int

	c := &cobra.Command{
		Use:   "status",
		Short: "Browse imported bundles and recent runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(opts)
			if err != nil {
				return err
			}
			defer a.cleanup()

			if plain {
				return printStatus(cmd, a, osName, limit)
			}

			return tui.Run(tui.Deps{
				Bundles: a.store,
				Runs:    a.runs,
				OSNames: sortedOSNames(a.cfg.Devices),
				Logger:  logger.L(),
				Debug:   opts.debug,
			})
		},
	}

	c.Flags().BoolVar(&plain, "plain", false, "print to stdout instead of opening the browser")
	c.Flags().StringVar(&osName, "os-name", "", "with --plain, also list bucket bundles for this OS")
	c.Flags().IntVar(&limit, "limit", 20, "with --plain, number of recent runs to show")
	return c
}

func printStatus(cmd *cobra.Command, a *app, osName string, limit int) error {
	out := cmd.OutOrStdout()

	if osName != "" {
		bundles, err := a.store.List(cmd.Context(), osName)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Bundles in gs://%s for %s (%d):\n", a.cfg.Bucket, osName, len(bundles))
		for _, b := range bundles {
			fmt.Fprintf(out, "  %s\n", b)
		}
		if newest, ok := newestBundle(bundles); ok {
			fmt.Fprintf(out, "Newest: %s\n", newest)
		}
		fmt.Fprintln(out)
	}

	runs, err := a.runs.ListRuns(limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Recent runs (%d):\n", len(runs))
	for _, r := range runs {
		name := r.OSName
		if name == "" {
			name = "simulators"
		}
		fmt.Fprintf(out, "  %s  %-10s %-9s imported=%d failed=%d\n",
			r.StartedAt, name, r.Source, r.Imported, r.Failed)
	}
	return nil
}

// newestBundle picks the highest firmware version out of a bucket
// listing, using semantic ordering so 16.10 beats 16.4. Simulator
// bundles carry a macOS segment and are skipped.
func newestBundle(names []string) (string, bool) {
	fws := make([]domain.Firmware, 0, len(names))
	for _, name := range names {
		parts := strings.Split(name, "_")
		if len(parts) != 3 {
			continue
		}
		fws = append(fws, domain.Firmware{OSVersion: parts[0], Build: parts[1], Arch: parts[2]})
	}

	fw, ok := feedclient.Newest(fws)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s (%s, %s)", fw.OSVersion, fw.Build, fw.Arch), true
}

func sortedOSNames(devices map[string][]domain.Device) []string {
	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
