// Package jobstore persists import runs as JSON artifacts so operators
// can inspect what a scheduled run did. The bucket stays the source of
// truth for idempotency; these records are purely informational.
package jobstore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

const runsDirName = "runs"

type JSONStore struct {
	rootDir string
	now     func() time.Time
	newID   func() string
}

type Option func(*JSONStore)

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithIDFunc is useful for tests.
func WithIDFunc(f func() string) Option {
	return func(s *JSONStore) { s.newID = f }
}

func NewJSONStore(root string, opts ...Option) *JSONStore {
	s := &JSONStore{
		rootDir: root,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.JobStore = (*JSONStore)(nil)

func (s *JSONStore) SaveRun(run domain.ImportRun) (string, error) {
	dir := filepath.Join(s.rootDir, runsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{Op: "jobstore.mkdir", Kind: domain.KindTool, Path: dir, Err: err}
	}

	if run.ID == "" {
		run.ID = s.newID()
	}

	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
		run.StartedAt = ts
	}
	ts = ts.UTC()

	slug := runSlug(run)
	filename := fmt.Sprintf("%s_%s.json", ts.Format("20060102T150405Z"), slug)
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", &domain.OpError{Op: "jobstore.marshal", Kind: domain.KindTool, Path: path, Err: err}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{Op: "jobstore.write", Kind: domain.KindTool, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{Op: "jobstore.rename", Kind: domain.KindTool, Path: path, Err: err}
	}

	_ = s.appendIndex(dir, run)

	return run.ID, nil
}

type indexLine struct {
	ID        string            `json:"id"`
	OSName    string            `json:"os_name"`
	Source    domain.SourceType `json:"source"`
	Imported  int               `json:"imported"`
	Failed    int               `json:"failed"`
	StartedAt time.Time         `json:"started_at"`
}

func (s *JSONStore) appendIndex(dir string, run domain.ImportRun) error {
	line, err := json.Marshal(indexLine{
		ID:        run.ID,
		OSName:    run.OSName,
		Source:    run.Source,
		Imported:  run.Imported(),
		Failed:    run.Failed(),
		StartedAt: run.StartedAt,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

// ListRuns returns the newest entries of the index, newest first.
func (s *JSONStore) ListRuns(limit int) ([]ports.RunSummary, error) {
	indexPath := filepath.Join(s.rootDir, runsDirName, "index.jsonl")
	f, err := os.Open(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.OpError{Op: "jobstore.index", Kind: domain.KindTool, Path: indexPath, Err: err}
	}
	defer f.Close()

	var all []ports.RunSummary
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var line indexLine
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			continue
		}
		all = append(all, ports.RunSummary{
			ID:        line.ID,
			OSName:    line.OSName,
			Source:    line.Source,
			Imported:  line.Imported,
			Failed:    line.Failed,
			StartedAt: line.StartedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.OpError{Op: "jobstore.index", Kind: domain.KindTool, Path: indexPath, Err: err}
	}

	// Newest last on disk; reverse and trim.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func runSlug(run domain.ImportRun) string {
	part := run.OSName
	if part == "" {
		part = "simulators"
	}
	slug := slugify(part + "-" + string(run.Source))
	if slug == "" {
		slug = "run"
	}
	return slug
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
