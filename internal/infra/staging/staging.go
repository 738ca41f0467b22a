// Package staging creates the throwaway working directories an import
// run needs (downloaded archives, unpacked firmware, symsorter output).
package staging

import (
	"os"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

type Stager struct {
	// base is the parent for temp dirs; empty means the system temp dir.
	base string
}

func New(base string) *Stager {
	return &Stager{base: base}
}

var _ ports.Stager = (*Stager)(nil)

func (s *Stager) TempDir(prefix string) (string, func() error, error) {
	if s.base != "" {
		if err := os.MkdirAll(s.base, 0o755); err != nil {
			return "", nil, &domain.OpError{Op: "staging.mkdir", Kind: domain.KindTool, Path: s.base, Err: err}
		}
	}

	dir, err := os.MkdirTemp(s.base, prefix)
	if err != nil {
		return "", nil, &domain.OpError{Op: "staging.tempdir", Kind: domain.KindTool, Path: s.base, Err: err}
	}
	return dir, func() error { return os.RemoveAll(dir) }, nil
}
