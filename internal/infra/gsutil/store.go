// Package gsutil implements the bucket ports on top of the gsutil CLI.
// The bucket is the durable store; this package never deletes or
// overwrites objects (-n keeps uploads no-clobber).
package gsutil

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

// gsutil prints this (and exits non-zero) when a stat/ls target does not
// exist; any other failure is a real error.
const noURLsMatched = "No URLs matched"

type runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
}

type Store struct {
	bucket string
	tool   string
	run    runner
	log    *slog.Logger
}

func NewStore(bucket, tool string, run runner, log *slog.Logger) *Store {
	if tool == "" {
		tool = "gsutil"
	}
	return &Store{bucket: bucket, tool: tool, run: run, log: log}
}

var (
	_ ports.BundleChecker  = (*Store)(nil)
	_ ports.BundleLister   = (*Store)(nil)
	_ ports.BundleUploader = (*Store)(nil)
)

// Exists probes the bundle marker object written by symsorter.
func (s *Store) Exists(ctx context.Context, bundle domain.BundleID) (bool, error) {
	target := fmt.Sprintf("gs://%s/%s", s.bucket, bundle.BucketPath())

	out, err := s.run.Output(ctx, "", s.tool, "stat", target)
	if err == nil {
		return true, nil
	}
	if strings.Contains(out, noURLsMatched) {
		return false, nil
	}
	// Neither present nor the known "absent" output: treat the bucket
	// state as unknown rather than guessing.
	return false, &domain.OpError{
		Op:   "gsutil.stat",
		Kind: domain.KindBucket,
		Path: target,
		Err:  fmt.Errorf("%w: %w", domain.ErrBucketState, err),
	}
}

// List returns the bundle names under <os>/bundles/.
func (s *Store) List(ctx context.Context, osName string) ([]string, error) {
	target := fmt.Sprintf("gs://%s/%s/bundles/", s.bucket, osName)

	out, err := s.run.Output(ctx, "", s.tool, "ls", target)
	if err != nil {
		if strings.Contains(out, noURLsMatched) {
			return nil, nil
		}
		return nil, &domain.OpError{
			Op:   "gsutil.ls",
			Kind: domain.KindBucket,
			Path: target,
			Err:  err,
		}
	}
	return bundleNamesFromLS(out), nil
}

// Upload copies the staging tree into the bucket. -n (no-clobber) keeps
// the write-once semantics the existence check assumes.
func (s *Store) Upload(ctx context.Context, stagingDir string) error {
	if s.log != nil {
		s.log.Info("bucket.upload", "bucket", s.bucket, "staging", stagingDir)
	}

	err := s.run.Run(ctx, stagingDir, s.tool, "-m", "cp", "-rn", ".", "gs://"+s.bucket)
	if err != nil {
		return &domain.OpError{
			Op:   "gsutil.upload",
			Kind: domain.KindBucket,
			Path: "gs://" + s.bucket,
			Err:  err,
		}
	}
	return nil
}

// bundleNamesFromLS strips gs:// URL noise down to bare bundle names.
func bundleNamesFromLS(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, "/")
		if line == "" || !strings.HasPrefix(line, "gs://") {
			continue
		}
		name := line[strings.LastIndex(line, "/")+1:]
		if name == "" || name == "bundles" {
			continue
		}
		names = append(names, name)
	}
	return names
}
