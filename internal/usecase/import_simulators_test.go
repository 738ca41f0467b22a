package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

type fakeScanner struct {
	runtimes []domain.SimRuntime
	err      error
}

func (s *fakeScanner) Scan(_ string) ([]domain.SimRuntime, error) {
	return s.runtimes, s.err
}

type fakeSimExtractor struct {
	err   error
	calls []domain.SimRuntime
}

func (e *fakeSimExtractor) ExtractRuntime(_ context.Context, rt domain.SimRuntime, _ string) error {
	e.calls = append(e.calls, rt)
	return e.err
}

func iosRuntime() domain.SimRuntime {
	return domain.SimRuntime{
		OSName:       "ios",
		OSVersion:    "16.4",
		Build:        "20E247",
		Arch:         "arm64e",
		MacOSVersion: "22E261",
		Path:         "/caches/22E261/com.apple.CoreSimulator.SimRuntime.iOS-16-4.20E247",
	}
}

func TestImportSimulators_ExtractsMissingRuntime(t *testing.T) {
	scanner := &fakeScanner{runtimes: []domain.SimRuntime{iosRuntime()}}
	extractor := &fakeSimExtractor{}
	uploader := &fakeUploader{}

	uc := NewImportSimulators(scanner, &fakeChecker{}, extractor, uploader, &fakeStager{base: t.TempDir()}, &fakeJobStore{}, &fakeReporter{})
	run, err := uc.Execute(context.Background(), "/caches")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if run.Imported() != 1 {
		t.Fatalf("expected one imported runtime, got %+v", run.Jobs)
	}
	if len(extractor.calls) != 1 || uploader.calls != 1 {
		t.Fatalf("expected extract+upload once, got %d/%d", len(extractor.calls), uploader.calls)
	}
}

func TestImportSimulators_SkipsPresentRuntime(t *testing.T) {
	rt := iosRuntime()
	scanner := &fakeScanner{runtimes: []domain.SimRuntime{rt}}
	checker := &fakeChecker{present: map[string]bool{rt.Bundle().ID(): true}}
	extractor := &fakeSimExtractor{}
	uploader := &fakeUploader{}

	uc := NewImportSimulators(scanner, checker, extractor, uploader, &fakeStager{base: t.TempDir()}, &fakeJobStore{}, &fakeReporter{})
	run, err := uc.Execute(context.Background(), "/caches")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(run.Jobs) != 1 || run.Jobs[0].Status != domain.JobSkipped {
		t.Fatalf("expected one skipped job, got %+v", run.Jobs)
	}
	if len(extractor.calls) != 0 || uploader.calls != 0 {
		t.Fatalf("skip must not extract or upload")
	}
}

func TestImportSimulators_FailedExtractionIsReportedAndNotUploaded(t *testing.T) {
	scanner := &fakeScanner{runtimes: []domain.SimRuntime{iosRuntime()}}
	extractor := &fakeSimExtractor{err: &domain.OpError{Op: "extract.dsc", Kind: domain.KindTool, Err: domain.ErrToolFailed}}
	uploader := &fakeUploader{}
	reporter := &fakeReporter{}

	uc := NewImportSimulators(scanner, &fakeChecker{}, extractor, uploader, &fakeStager{base: t.TempDir()}, &fakeJobStore{}, reporter)
	run, err := uc.Execute(context.Background(), "/caches")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if run.Failed() != 1 || uploader.calls != 0 {
		t.Fatalf("failed extraction must fail the job and skip upload, got %+v (uploads=%d)", run.Jobs, uploader.calls)
	}
	if len(reporter.captured) != 1 {
		t.Fatalf("expected one reported failure")
	}
}

func TestImportSimulators_ScanErrorIsFatal(t *testing.T) {
	scanner := &fakeScanner{err: errors.New("caches dir missing")}

	uc := NewImportSimulators(scanner, &fakeChecker{}, &fakeSimExtractor{}, &fakeUploader{}, &fakeStager{base: t.TempDir()}, &fakeJobStore{}, &fakeReporter{})
	if _, err := uc.Execute(context.Background(), "/nope"); err == nil {
		t.Fatalf("expected scan error to propagate")
	}
}
