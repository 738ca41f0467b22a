package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// Load reads and validates sources.yaml. An empty path yields the
// built-in defaults.
func Load(path string) (domain.Config, error) {
	if path == "" {
		return MapConfig("", YAMLConfig{})
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapConfig(path, dto)
}
