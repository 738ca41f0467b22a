// Package simscan discovers Xcode simulator runtimes in the local
// CoreSimulator dyld cache directory.
package simscan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

const (
	runtimeDirPrefix = "com.apple.CoreSimulator.SimRuntime."
	cacheFilePrefix  = "dyld_sim_shared_cache_"
)

type Scanner struct{}

func NewScanner() *Scanner {
	return &Scanner{}
}

var _ ports.SimulatorScanner = (*Scanner)(nil)

// Scan walks <cachesDir>/<macos-build>/<runtime-dir> and returns every
// runtime that has at least one shared cache file.
func (s *Scanner) Scan(cachesDir string) ([]domain.SimRuntime, error) {
	macosEntries, err := os.ReadDir(cachesDir)
	if err != nil {
		return nil, &domain.OpError{Op: "simscan", Kind: domain.KindNotFound, Path: cachesDir, Err: err}
	}

	var runtimes []domain.SimRuntime
	for _, macosEntry := range macosEntries {
		if !macosEntry.IsDir() {
			continue
		}
		macosVersion := macosEntry.Name()

		runtimeEntries, err := os.ReadDir(filepath.Join(cachesDir, macosVersion))
		if err != nil {
			return nil, &domain.OpError{Op: "simscan", Kind: domain.KindNotFound, Path: filepath.Join(cachesDir, macosVersion), Err: err}
		}

		for _, rtEntry := range runtimeEntries {
			if !rtEntry.IsDir() || !strings.HasPrefix(rtEntry.Name(), runtimeDirPrefix) {
				continue
			}

			rtPath := filepath.Join(cachesDir, macosVersion, rtEntry.Name())
			rt, err := parseRuntimeDirName(rtEntry.Name())
			if err != nil {
				continue
			}

			// One runtime per cached architecture: a host can carry
			// both arm64 and x86_64 caches for the same build.
			for _, arch := range cacheArchs(rtPath) {
				rt.Arch = arch
				rt.MacOSVersion = macosVersion
				rt.Path = rtPath
				runtimes = append(runtimes, rt)
			}
		}
	}
	return runtimes, nil
}

// parseRuntimeDirName decodes names like
// "com.apple.CoreSimulator.SimRuntime.iOS-16-4.20E247" into os name,
// version and build.
func parseRuntimeDirName(name string) (domain.SimRuntime, error) {
	parts := strings.Split(name, ".")
	if len(parts) < 6 {
		return domain.SimRuntime{}, fmt.Errorf("unexpected runtime dir name %q", name)
	}

	osParts := strings.Split(parts[4], "-")
	if len(osParts) < 3 {
		return domain.SimRuntime{}, fmt.Errorf("unexpected runtime os segment %q", parts[4])
	}

	// Only major.minor: a patch segment like iOS-16-4-1 is not part of
	// the bundle identity.
	return domain.SimRuntime{
		OSName:    strings.ToLower(osParts[0]),
		OSVersion: strings.Join(osParts[1:3], "."),
		Build:     parts[5],
	}, nil
}

// cacheArchs lists the architectures with a shared cache file in the
// runtime dir (skipping .map siblings).
func cacheArchs(rtPath string) []string {
	entries, err := os.ReadDir(rtPath)
	if err != nil {
		return nil
	}

	var archs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, cacheFilePrefix) || filepath.Ext(name) != "" {
			continue
		}
		archs = append(archs, strings.TrimPrefix(name, cacheFilePrefix))
	}
	return archs
}
