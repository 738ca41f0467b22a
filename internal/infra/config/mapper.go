package config

import (
	"fmt"
	"strings"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// MapConfig merges a parsed sources.yaml over the built-in defaults and
// validates the result.
func MapConfig(path string, yc YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if strings.TrimSpace(yc.Bucket) != "" {
		cfg.Bucket = strings.TrimSpace(yc.Bucket)
	}
	if strings.TrimSpace(yc.WorkDir) != "" {
		cfg.WorkDir = strings.TrimSpace(yc.WorkDir)
	}

	for name, yf := range yc.Feeds {
		source, err := domain.ParseSourceType(name)
		if err != nil {
			return domain.Config{}, invalidField(path, "feeds."+name, err.Error())
		}
		if source == domain.SourceSimulator {
			return domain.Config{}, invalidField(path, "feeds."+name, "simulators are scanned locally, not fed")
		}

		feed := cfg.Feeds[source]
		if strings.TrimSpace(yf.URL) != "" {
			feed.URL = strings.TrimSpace(yf.URL)
		}
		if strings.TrimSpace(yf.VersionPath) != "" {
			feed.VersionPath = strings.TrimSpace(yf.VersionPath)
		}
		if strings.TrimSpace(yf.BuildPath) != "" {
			feed.BuildPath = strings.TrimSpace(yf.BuildPath)
		}
		if strings.TrimSpace(yf.URLPath) != "" {
			feed.URLPath = strings.TrimSpace(yf.URLPath)
		}
		cfg.Feeds[source] = feed
	}

	if yc.Devices != nil {
		devices := make(map[string][]domain.Device, len(yc.Devices))
		for osName, yds := range yc.Devices {
			mapped := make([]domain.Device, 0, len(yds))
			for i, yd := range yds {
				fieldPrefix := fmt.Sprintf("devices.%s[%d]", osName, i)
				if strings.TrimSpace(yd.Identifier) == "" {
					return domain.Config{}, invalidField(path, fieldPrefix+".identifier", "identifier is required")
				}
				if strings.TrimSpace(yd.Arch) == "" {
					return domain.Config{}, invalidField(path, fieldPrefix+".arch", "arch is required")
				}
				mapped = append(mapped, domain.Device{
					Identifier:   strings.TrimSpace(yd.Identifier),
					Name:         strings.TrimSpace(yd.Name),
					Architecture: strings.TrimSpace(yd.Arch),
				})
			}
			devices[strings.ToLower(osName)] = mapped
		}
		cfg.Devices = devices
	}

	cfg.Tools = mapTools(cfg.Tools, yc.Tools)
	if strings.TrimSpace(yc.Simulator.CachesDir) != "" {
		cfg.Simulator.CachesDir = strings.TrimSpace(yc.Simulator.CachesDir)
	}

	if cfg.Bucket == "" {
		return domain.Config{}, invalidField(path, "bucket", "bucket is required")
	}

	return cfg, nil
}

func mapTools(def domain.ToolsConfig, yt YAMLTools) domain.ToolsConfig {
	pick := func(v, fallback string) string {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}
	return domain.ToolsConfig{
		Gsutil:       pick(yt.Gsutil, def.Gsutil),
		Symsorter:    pick(yt.Symsorter, def.Symsorter),
		DSCExtractor: pick(yt.DSCExtractor, def.DSCExtractor),
		Unzip:        pick(yt.Unzip, def.Unzip),
		Hdiutil:      pick(yt.Hdiutil, def.Hdiutil),
		IPSW:         pick(yt.IPSW, def.IPSW),
	}
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
