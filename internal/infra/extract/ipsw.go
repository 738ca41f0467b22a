package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// Directories on the mounted restore image that hold symbol-bearing
// dylibs outside the shared cache.
var extraDylibDirs = [][]string{
	{"usr", "lib"},
	{"System", "Library", "AccessibilityBundles"},
}

func (e *Extractor) extractIPSW(ctx context.Context, archivePath, outputDir string, fw domain.Firmware) (domain.BundleID, error) {
	extractDir, cleanup, err := e.stager.TempDir("symimport-ipsw-")
	if err != nil {
		return domain.BundleID{}, err
	}
	defer func() { _ = cleanup() }()

	if e.log != nil {
		e.log.Info("extract.unzip", "archive", archivePath, "dest", extractDir)
	}
	if err := e.run.Run(ctx, "", e.tools.Unzip, archivePath, "-d", extractDir); err != nil {
		return domain.BundleID{}, err
	}

	info, err := ReadRestorePlist(filepath.Join(extractDir, "Restore.plist"))
	if err != nil {
		return domain.BundleID{}, err
	}

	// Restore.plist is authoritative for the bundle identity.
	bundle := domain.BundleID{
		OSName:    fw.OSName,
		OSVersion: info.OSVersion,
		Build:     info.Build,
		Arch:      fw.Arch,
		Source:    fw.Source,
	}

	imageName, err := pickRestoreImage(extractDir, info.RestoreImages)
	if err != nil {
		return domain.BundleID{}, &domain.OpError{
			Op:   "extract.ipsw",
			Kind: domain.KindTool,
			Path: archivePath,
			Err:  err,
		}
	}

	volume, err := e.mount(ctx, filepath.Join(extractDir, imageName))
	if err != nil {
		return domain.BundleID{}, err
	}
	defer e.detach(volume)

	if err := e.extractVolume(ctx, volume, outputDir, bundle); err != nil {
		return domain.BundleID{}, err
	}
	return bundle, nil
}

// extractVolume walks the mounted restore image: every unsuffixed
// dyld_shared_cache file plus the extra dylib directories.
func (e *Extractor) extractVolume(ctx context.Context, volume, outputDir string, bundle domain.BundleID) error {
	cacheDir := filepath.Join(volume, "System", "Library", "Caches", "com.apple.dyld")
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return &domain.OpError{Op: "extract.ipsw", Kind: domain.KindTool, Path: cacheDir, Err: err}
	}

	for _, entry := range entries {
		if entry.IsDir() || !isSharedCacheFile(entry.Name(), firmwareCachePrefix) {
			continue
		}
		if err := e.extractSharedCache(ctx, filepath.Join(cacheDir, entry.Name()), outputDir, bundle); err != nil {
			return err
		}
	}

	for _, parts := range extraDylibDirs {
		dir := filepath.Join(volume, filepath.Join(parts...))
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := e.symsort(ctx, dir, outputDir, bundle); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) mount(ctx context.Context, imagePath string) (string, error) {
	if e.log != nil {
		e.log.Info("extract.mount", "image", imagePath)
	}

	out, err := e.run.Output(ctx, "", e.tools.Hdiutil, "attach", imagePath)
	if err != nil {
		return "", err
	}

	volume := parseAttachOutput(out)
	if volume == "" {
		return "", &domain.OpError{
			Op:   "extract.mount",
			Kind: domain.KindTool,
			Path: imagePath,
			Err:  fmt.Errorf("no /Volumes mount point in hdiutil output"),
		}
	}
	return volume, nil
}

func (e *Extractor) detach(volume string) {
	if e.log != nil {
		e.log.Info("extract.unmount", "volume", volume)
	}
	// Best effort: a stuck mount must not fail the job after the
	// symbols were already sorted.
	_ = e.run.Run(context.Background(), "", e.tools.Hdiutil, "detach", volume)
}

// parseAttachOutput finds the /Volumes mount point in hdiutil attach
// output. Lines look like "/dev/disk4s1\tApple_HFS\t/Volumes/SystemRoot".
func parseAttachOutput(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		last := strings.TrimSpace(fields[len(fields)-1])
		if strings.HasPrefix(last, "/Volumes/") {
			return last
		}
	}
	return ""
}
