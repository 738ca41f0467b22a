package extract

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// extractOTA hands the archive to the ipsw tool, which knows how to
// unpack OTA payload formats, then symsorts whatever shared caches it
// produced. OTA payloads are not mountable disk images, so the feed
// metadata stays authoritative for the bundle identity.
func (e *Extractor) extractOTA(ctx context.Context, archivePath, outputDir string, fw domain.Firmware) (domain.BundleID, error) {
	payloadDir, cleanup, err := e.stager.TempDir("symimport-ota-")
	if err != nil {
		return domain.BundleID{}, err
	}
	defer func() { _ = cleanup() }()

	if e.log != nil {
		e.log.Info("extract.ota", "archive", archivePath, "dest", payloadDir)
	}
	if err := e.run.Run(ctx, "", e.tools.IPSW, "extract", "--dyld", archivePath, "--output", payloadDir); err != nil {
		return domain.BundleID{}, err
	}

	bundle := fw.Bundle()

	caches, err := findSharedCaches(payloadDir)
	if err != nil {
		return domain.BundleID{}, &domain.OpError{Op: "extract.ota", Kind: domain.KindTool, Path: payloadDir, Err: err}
	}
	if len(caches) == 0 {
		return domain.BundleID{}, &domain.OpError{
			Op:   "extract.ota",
			Kind: domain.KindTool,
			Path: archivePath,
			Err:  fmt.Errorf("no dyld_shared_cache in extracted payload"),
		}
	}

	for _, cache := range caches {
		if err := e.extractSharedCache(ctx, cache, outputDir, bundle); err != nil {
			return domain.BundleID{}, err
		}
	}
	return bundle, nil
}

func findSharedCaches(root string) ([]string, error) {
	var caches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isSharedCacheFile(d.Name(), firmwareCachePrefix) {
			caches = append(caches, path)
		}
		return nil
	})
	return caches, err
}
