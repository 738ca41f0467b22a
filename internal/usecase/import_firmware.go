package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

// ImportFirmware drives one idempotent firmware import run: resolve the
// requested version per configured device, skip bundles already in the
// bucket, then fetch -> extract -> sort -> upload the rest.
type ImportFirmware struct {
	devices   map[string][]domain.Device
	feed      ports.FirmwareFeed
	checker   ports.BundleChecker
	fetcher   ports.ArchiveFetcher
	extractor ports.FirmwareExtractor
	uploader  ports.BundleUploader
	stager    ports.Stager
	store     ports.JobStore
	reporter  ports.ErrorReporter
}

func NewImportFirmware(
	devices map[string][]domain.Device,
	feed ports.FirmwareFeed,
	checker ports.BundleChecker,
	fetcher ports.ArchiveFetcher,
	extractor ports.FirmwareExtractor,
	uploader ports.BundleUploader,
	stager ports.Stager,
	store ports.JobStore,
	reporter ports.ErrorReporter,
) *ImportFirmware {
	return &ImportFirmware{
		devices:   devices,
		feed:      feed,
		checker:   checker,
		fetcher:   fetcher,
		extractor: extractor,
		uploader:  uploader,
		stager:    stager,
		store:     store,
		reporter:  reporter,
	}
}

// pendingImport is a job that passed the existence check and still has
// to go through fetch/extract/upload.
type pendingImport struct {
	jobIdx   int
	firmware domain.Firmware
}

func (uc *ImportFirmware) Execute(ctx context.Context, osName, version string, source domain.SourceType) (domain.ImportRun, error) {
	run := domain.ImportRun{
		OSName:           osName,
		Source:           source,
		RequestedVersion: version,
		StartedAt:        time.Now().UTC(),
	}

	devices, ok := uc.devices[osName]
	if !ok || len(devices) == 0 {
		// Nothing configured for this OS: a no-op, not an error, so a
		// scheduled run over all OS names stays green.
		run.FinishedAt = time.Now().UTC()
		uc.saveRun(&run)
		return run, nil
	}

	pending := make([]pendingImport, 0, len(devices))
	seenBuilds := map[string]bool{}

	for _, dev := range devices {
		fw, err := uc.feed.Lookup(ctx, dev, osName, version, source)
		if err != nil {
			uc.failJob(&run, domain.BundleID{OSName: osName, Source: source}, version, "", err)
			continue
		}
		if seenBuilds[fw.BuildKey()] {
			continue
		}
		seenBuilds[fw.BuildKey()] = true

		bundle := fw.Bundle()
		present, err := uc.checker.Exists(ctx, bundle)
		if err != nil {
			uc.failJob(&run, bundle, version, fw.OSVersion, err)
			continue
		}
		if present {
			now := time.Now().UTC()
			run.Jobs = append(run.Jobs, domain.ImportJob{
				Bundle:           bundle,
				RequestedVersion: version,
				ResolvedVersion:  fw.OSVersion,
				Status:           domain.JobSkipped,
				StartedAt:        now,
				FinishedAt:       now,
			})
			continue
		}

		run.Jobs = append(run.Jobs, domain.ImportJob{
			Bundle:           bundle,
			RequestedVersion: version,
			ResolvedVersion:  fw.OSVersion,
			StartedAt:        time.Now().UTC(),
		})
		pending = append(pending, pendingImport{jobIdx: len(run.Jobs) - 1, firmware: fw})
	}

	if len(pending) == 0 {
		run.FinishedAt = time.Now().UTC()
		uc.saveRun(&run)
		return run, nil
	}

	stagingDir, cleanup, err := uc.stager.TempDir("symimport-output-")
	if err != nil {
		for _, p := range pending {
			uc.finishFailed(&run, p.jobIdx, err)
		}
		run.FinishedAt = time.Now().UTC()
		uc.saveRun(&run)
		return run, nil
	}
	defer func() { _ = cleanup() }()

	extracted := make([]int, 0, len(pending))
	for _, p := range pending {
		if err := uc.importOne(ctx, p.firmware, stagingDir, &run, p.jobIdx); err != nil {
			uc.finishFailed(&run, p.jobIdx, err)
			continue
		}
		extracted = append(extracted, p.jobIdx)
	}

	if len(extracted) > 0 {
		if err := uc.uploader.Upload(ctx, stagingDir); err != nil {
			for _, idx := range extracted {
				uc.finishFailed(&run, idx, err)
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

// importOne downloads and extracts a single firmware into the shared
// staging dir. The bundle marker only ever lands in the staging tree via
// symsorter, so a failure here can never mark the bundle present.
func (uc *ImportFirmware) importOne(ctx context.Context, fw domain.Firmware, stagingDir string, run *domain.ImportRun, jobIdx int) error {
	archiveDir, cleanup, err := uc.stager.TempDir("symimport-archive-")
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	archivePath, err := uc.fetcher.Fetch(ctx, fw.URL, archiveDir)
	if err != nil {
		return err
	}

	bundle, err := uc.extractor.Extract(ctx, archivePath, stagingDir, fw)
	if err != nil {
		return err
	}

	// Restore.plist is authoritative for IPSWs; keep the job record in
	// sync with what symsorter actually wrote.
	run.Jobs[jobIdx].Bundle = bundle
	run.Jobs[jobIdx].ResolvedVersion = bundle.OSVersion
	return nil
}

func (uc *ImportFirmware) failJob(run *domain.ImportRun, bundle domain.BundleID, requested, resolved string, err error) {
	now := time.Now().UTC()
	run.Jobs = append(run.Jobs, domain.ImportJob{
		Bundle:           bundle,
		RequestedVersion: requested,
		ResolvedVersion:  resolved,
		Status:           domain.JobFailed,
		Error:            err.Error(),
		StartedAt:        now,
		FinishedAt:       now,
	})
	uc.report(err, bundle, run.Source)
}

func (uc *ImportFirmware) finishFailed(run *domain.ImportRun, jobIdx int, err error) {
	run.Jobs[jobIdx].Status = domain.JobFailed
	run.Jobs[jobIdx].Error = err.Error()
	run.Jobs[jobIdx].FinishedAt = time.Now().UTC()
	uc.report(err, run.Jobs[jobIdx].Bundle, run.Source)
}

func (uc *ImportFirmware) report(err error, bundle domain.BundleID, source domain.SourceType) {
	if uc.reporter == nil {
		return
	}
	uc.reporter.CaptureError(err, map[string]string{
		"os_name":    bundle.OSName,
		"os_version": bundle.OSVersion,
		"source":     string(source),
		"bundle":     bundle.ID(),
	})
}

// saveRun persists the artifact; a store failure must not fail the run.
func (uc *ImportFirmware) saveRun(run *domain.ImportRun) {
	if uc.store == nil {
		return
	}
	if id, err := uc.store.SaveRun(*run); err == nil {
		run.ID = id
	}
}

// RunError summarizes a finished run as an error suitable for a process
// exit status. Returns nil when no job failed.
func RunError(run domain.ImportRun) error {
	if n := run.Failed(); n > 0 {
		return fmt.Errorf("%d of %d import job(s) failed", n, len(run.Jobs))
	}
	return nil
}
