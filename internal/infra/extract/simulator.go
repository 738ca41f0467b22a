package extract

import (
	"context"
	"os"
	"path/filepath"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// ExtractRuntime symsorts the shared cache of one simulator runtime.
// The scanner emits one runtime per cached architecture, so exactly one
// cache file (dyld_sim_shared_cache_<arch>) belongs to this runtime.
func (e *Extractor) ExtractRuntime(ctx context.Context, rt domain.SimRuntime, outputDir string) error {
	cachePath := filepath.Join(rt.Path, simulatorCachePrefix+rt.Arch)
	if _, err := os.Stat(cachePath); err != nil {
		return &domain.OpError{Op: "extract.simulator", Kind: domain.KindNotFound, Path: cachePath, Err: err}
	}
	return e.extractSharedCache(ctx, cachePath, outputDir, rt.Bundle())
}
