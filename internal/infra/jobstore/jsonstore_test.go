package jobstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

func sampleRun(start time.Time) domain.ImportRun {
	return domain.ImportRun{
		OSName:           "tvos",
		Source:           domain.SourceIPSW,
		RequestedVersion: "latest",
		StartedAt:        start,
		FinishedAt:       start.Add(90 * time.Second),
		Jobs: []domain.ImportJob{
			{
				Bundle: domain.BundleID{
					OSName: "tvos", OSVersion: "16.4", Build: "20L497",
					Arch: "arm64", Source: domain.SourceIPSW,
				},
				RequestedVersion: "latest",
				ResolvedVersion:  "16.4",
				Status:           domain.JobSucceeded,
				StartedAt:        start,
				FinishedAt:       start.Add(90 * time.Second),
			},
		},
	}
}

func TestSaveRun_CreatesJSONFileAndIndex(t *testing.T) {
	tmp := t.TempDir()
	start := time.Date(2026, 2, 3, 10, 11, 12, 0, time.UTC)

	store := NewJSONStore(tmp, WithIDFunc(func() string { return "fixed-id" }))

	id, err := store.SaveRun(sampleRun(start))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id != "fixed-id" {
		t.Fatalf("expected generated id, got %q", id)
	}

	wantFile := filepath.Join(tmp, "runs", "20260203T101112Z_tvos-ipsw.json")
	b, err := os.ReadFile(wantFile)
	if err != nil {
		t.Fatalf("expected artifact at %s: %v", wantFile, err)
	}

	var saved domain.ImportRun
	if err := json.Unmarshal(b, &saved); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if saved.ID != "fixed-id" || len(saved.Jobs) != 1 || saved.Jobs[0].Status != domain.JobSucceeded {
		t.Fatalf("unexpected artifact %+v", saved)
	}

	if _, err := os.Stat(filepath.Join(tmp, "runs", "index.jsonl")); err != nil {
		t.Fatalf("expected index.jsonl: %v", err)
	}
}

func TestListRuns_NewestFirstAndLimited(t *testing.T) {
	tmp := t.TempDir()
	store := NewJSONStore(tmp)

	for i := 0; i < 3; i++ {
		run := sampleRun(time.Date(2026, 2, 3, 10, 0, i, 0, time.UTC))
		if _, err := store.SaveRun(run); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	got, err := store.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	if got[0].StartedAt != "2026-02-03T10:00:02Z" {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if got[0].Imported != 1 || got[0].Failed != 0 {
		t.Fatalf("unexpected counts %+v", got[0])
	}
}

func TestListRuns_NoIndexIsEmpty(t *testing.T) {
	store := NewJSONStore(t.TempDir())
	got, err := store.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no summaries, got %v", got)
	}
}
