package config

import (
	"os"
	"path/filepath"
)

const configFileName = "sources.yaml"

// Find walks upward from startDir looking for sources.yaml. Returns ""
// when no config file exists; callers then run on defaults.
func Find(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, configFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
