package usecase

import (
	"context"
	"time"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

// ImportSimulators imports symbols for every Xcode simulator runtime
// cached on this machine whose bundle is not yet in the bucket.
type ImportSimulators struct {
	scanner   ports.SimulatorScanner
	checker   ports.BundleChecker
	extractor ports.SimulatorExtractor
	uploader  ports.BundleUploader
	stager    ports.Stager
	store     ports.JobStore
	reporter  ports.ErrorReporter
}

func NewImportSimulators(
	scanner ports.SimulatorScanner,
	checker ports.BundleChecker,
	extractor ports.SimulatorExtractor,
	uploader ports.BundleUploader,
	stager ports.Stager,
	store ports.JobStore,
	reporter ports.ErrorReporter,
) *ImportSimulators {
	return &ImportSimulators{
		scanner:   scanner,
		checker:   checker,
		extractor: extractor,
		uploader:  uploader,
		stager:    stager,
		store:     store,
		reporter:  reporter,
	}
}

func (uc *ImportSimulators) Execute(ctx context.Context, cachesDir string) (domain.ImportRun, error) {
	run := domain.ImportRun{
		Source:           domain.SourceSimulator,
		RequestedVersion: "local",
		StartedAt:        time.Now().UTC(),
	}

	runtimes, err := uc.scanner.Scan(cachesDir)
	if err != nil {
		run.FinishedAt = time.Now().UTC()
		uc.saveRun(&run)
		return run, err
	}

	stagingDir, cleanup, err := uc.stager.TempDir("symimport-simulator-")
	if err != nil {
		run.FinishedAt = time.Now().UTC()
		uc.saveRun(&run)
		return run, err
	}
	defer func() { _ = cleanup() }()

	extracted := make([]int, 0, len(runtimes))
	for _, rt := range runtimes {
		bundle := rt.Bundle()
		job := domain.ImportJob{
			Bundle:           bundle,
			RequestedVersion: "local",
			ResolvedVersion:  rt.OSVersion,
			StartedAt:        time.Now().UTC(),
		}

		present, err := uc.checker.Exists(ctx, bundle)
		if err != nil {
			job.Status = domain.JobFailed
			job.Error = err.Error()
			job.FinishedAt = time.Now().UTC()
			run.Jobs = append(run.Jobs, job)
			uc.report(err, bundle)
			continue
		}
		if present {
			job.Status = domain.JobSkipped
			job.FinishedAt = time.Now().UTC()
			run.Jobs = append(run.Jobs, job)
			continue
		}

		if err := uc.extractor.ExtractRuntime(ctx, rt, stagingDir); err != nil {
			job.Status = domain.JobFailed
			job.Error = err.Error()
			job.FinishedAt = time.Now().UTC()
			run.Jobs = append(run.Jobs, job)
			uc.report(err, bundle)
			continue
		}

		run.Jobs = append(run.Jobs, job)
		extracted = append(extracted, len(run.Jobs)-1)
	}

	if len(extracted) > 0 {
		if err := uc.uploader.Upload(ctx, stagingDir); err != nil {
			for _, idx := range extracted {
				run.Jobs[idx].Status = domain.JobFailed
				run.Jobs[idx].Error = err.Error()
				run.Jobs[idx].FinishedAt = time.Now().UTC()
				uc.report(err, run.Jobs[idx].Bundle)
			}
		} else {
			for _, idx := range extracted {
				run.Jobs[idx].Status = domain.JobSucceeded
				run.Jobs[idx].FinishedAt = time.Now().UTC()
			}
		}
	}

	run.FinishedAt = time.Now().UTC()
	uc.saveRun(&run)
	return run, nil
}

func (uc *ImportSimulators) report(err error, bundle domain.BundleID) {
	if uc.reporter == nil {
		return
	}
	uc.reporter.CaptureError(err, map[string]string{
		"os_name":    bundle.OSName,
		"os_version": bundle.OSVersion,
		"source":     string(domain.SourceSimulator),
		"bundle":     bundle.ID(),
	})
}

func (uc *ImportSimulators) saveRun(run *domain.ImportRun) {
	if uc.store == nil {
		return
	}
	if id, err := uc.store.SaveRun(*run); err == nil {
		run.ID = id
	}
}
