package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

const (
	firmwareCachePrefix  = "dyld_shared_cache"
	simulatorCachePrefix = "dyld_sim_shared_cache_"
)

// isSharedCacheFile reports whether name is a mountable shared-cache
// blob. Suffixed overflow files (dyld_shared_cache_arm64e.1, .2, ...)
// and .map files are skipped: the extractor resolves them from the
// unsuffixed cache.
func isSharedCacheFile(name, prefix string) bool {
	return strings.HasPrefix(name, prefix) && filepath.Ext(name) == ""
}

// extractSharedCache runs dyld-shared-cache-extractor on one cache file
// and symsorts the resulting dylibs into outputDir.
func (e *Extractor) extractSharedCache(ctx context.Context, cachePath, outputDir string, bundle domain.BundleID) error {
	dscOut, cleanup, err := e.stager.TempDir("symimport-dsc-")
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	if e.log != nil {
		e.log.Info("extract.shared_cache", "cache", cachePath, "bundle", bundle.ID())
	}
	if err := e.run.Run(ctx, "", e.tools.DSCExtractor, cachePath, dscOut); err != nil {
		return err
	}
	return e.symsort(ctx, dscOut, outputDir, bundle)
}

// symsort sorts every symbol-bearing binary under dir into the bucket
// layout rooted at outputDir, including the bundles/<id> marker.
func (e *Extractor) symsort(ctx context.Context, dir, outputDir string, bundle domain.BundleID) error {
	return e.run.Run(ctx, "", e.tools.Symsorter, symsorterArgs(outputDir, bundle.OSName, bundle.ID(), dir)...)
}

func symsorterArgs(outputDir, prefix, bundleID, dir string) []string {
	return []string{
		"-zz",
		"--ignore-errors",
		"-o", outputDir,
		"--prefix", prefix,
		"--bundle-id", bundleID,
		dir,
	}
}
