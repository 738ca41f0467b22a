// Package toolrunner executes the external binaries the importer
// delegates to (gsutil, symsorter, dyld-shared-cache-extractor, ...).
package toolrunner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// outputTail bounds how much subprocess output ends up in error messages.
const outputTail = 4 * 1024

type Runner struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Runner {
	return &Runner{log: log}
}

// Run executes a tool and discards its output. dir may be empty to
// inherit the current working directory.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) error {
	_, err := r.Output(ctx, dir, name, args...)
	return err
}

// Output executes a tool and returns combined stdout+stderr. On a
// non-zero exit the combined output is still returned alongside the
// error so callers can inspect it (gsutil signals "absent" through its
// output, not its exit code).
func (r *Runner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	if r.log != nil {
		r.log.Debug("tool.exec", "name", name, "args", strings.Join(args, " "), "dir", dir)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	out := buf.String()
	if err == nil {
		return out, nil
	}

	return out, &domain.OpError{
		Op:   "tool." + name,
		Kind: domain.KindTool,
		Err:  fmt.Errorf("%w: %w", domain.ErrToolFailed, wrapExit(err, out)),
	}
}

// wrapExit folds the output tail into the exec error so the job record
// carries something actionable.
func wrapExit(err error, out string) error {
	tail := strings.TrimSpace(out)
	if len(tail) > outputTail {
		tail = tail[len(tail)-outputTail:]
	}
	if tail == "" {
		return err
	}
	return &toolError{err: err, tail: tail}
}

type toolError struct {
	err  error
	tail string
}

func (e *toolError) Error() string {
	return e.err.Error() + ": " + e.tail
}

func (e *toolError) Unwrap() error {
	return e.err
}
