package domain

import "time"

// JobStatus is the terminal state of a single import job.
type JobStatus string

const (
	JobSkipped   JobStatus = "skipped"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// ImportJob records the outcome of one (bundle, source) import attempt.
type ImportJob struct {
	ID     string
	Bundle BundleID

	RequestedVersion string
	ResolvedVersion  string

	Status JobStatus
	Error  string

	StartedAt  time.Time
	FinishedAt time.Time
}

// ImportRun is the persisted artifact of one orchestrator invocation.
// It may contain several jobs: one per configured device that resolved
// to a distinct build.
type ImportRun struct {
	ID string

	OSName           string
	Source           SourceType
	RequestedVersion string

	StartedAt  time.Time
	FinishedAt time.Time

	Jobs []ImportJob
}

// Failed counts jobs that ended in failure.
func (r ImportRun) Failed() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Status == JobFailed {
			n++
		}
	}
	return n
}

// Imported counts jobs that actually uploaded a new bundle.
func (r ImportRun) Imported() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Status == JobSucceeded {
			n++
		}
	}
	return n
}
