package cli

import (
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/logger"
	"github.com/getsentry/apple-system-symbols-upload/internal/usecase"
)

// runOutcome maps a finished run onto the process exit status and, when
// jobs failed, points the operator at the log file.
func runOutcome(cmd *cobra.Command, run domain.ImportRun) error {
	err := usecase.RunError(run)
	if err != nil {
		if p := logger.Path(); p != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "see %s for details\n", p)
		}
	}
	return err
}

func printRun(w io.Writer, run domain.ImportRun, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	case "pretty", "":
		printPrettyRun(w, run)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyRun(w io.Writer, run domain.ImportRun) {
	osName := run.OSName
	if osName == "" {
		osName = "simulators"
	}

	total := run.FinishedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "OS:        %s\n", osName)
	fmt.Fprintf(w, "Source:    %s\n", run.Source)
	fmt.Fprintf(w, "Requested: %s\n", run.RequestedVersion)
	fmt.Fprintf(w, "Started:   %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration:  %s\n", total)
	if run.ID != "" {
		fmt.Fprintf(w, "Run ID:    %s\n", run.ID)
	}
	fmt.Fprintln(w)

	if len(run.Jobs) == 0 {
		fmt.Fprintln(w, "Nothing to import.")
		return
	}

	for _, j := range run.Jobs {
		fmt.Fprintf(w, "- [%s] %s\n", statusMark(j.Status), j.Bundle)
		if j.ResolvedVersion != "" && j.ResolvedVersion != j.RequestedVersion {
			fmt.Fprintf(w, "  resolved: %s -> %s\n", j.RequestedVersion, j.ResolvedVersion)
		}
		if j.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", j.Error)
		}
	}

	fmt.Fprintf(w, "\nimported=%d skipped=%d failed=%d\n",
		run.Imported(), countSkipped(run), run.Failed())
}

func statusMark(s domain.JobStatus) string {
	switch s {
	case domain.JobSucceeded:
		return "OK"
	case domain.JobSkipped:
		return "SKIP"
	case domain.JobFailed:
		return "FAIL"
	default:
		return string(s)
	}
}

func countSkipped(run domain.ImportRun) int {
	n := 0
	for _, j := range run.Jobs {
		if j.Status == domain.JobSkipped {
			n++
		}
	}
	return n
}
