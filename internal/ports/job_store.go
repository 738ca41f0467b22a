package ports

import "github.com/getsentry/apple-system-symbols-upload/internal/domain"

// RunSummary is one line of the job-store index.
type RunSummary struct {
	ID        string
	OSName    string
	Source    domain.SourceType
	Imported  int
	Failed    int
	StartedAt string
}

// JobStore persists import runs for operator inspection.
type JobStore interface {
	SaveRun(run domain.ImportRun) (id string, err error)
	ListRuns(limit int) ([]RunSummary, error)
}
