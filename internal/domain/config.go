package domain

// Config is the importer configuration loaded from sources.yaml.
type Config struct {
	Bucket  string
	WorkDir string

	Feeds   map[SourceType]FeedConfig
	Devices map[string][]Device

	Tools     ToolsConfig
	Simulator SimulatorConfig
}

// FeedConfig describes one firmware feed endpoint. The URL is a template
// with {device} and {version} placeholders; the three selectors are
// JSONPath expressions evaluated against the response document.
type FeedConfig struct {
	URL         string
	VersionPath string
	BuildPath   string
	URLPath     string
}

// ToolsConfig holds the external binaries the importer shells out to.
// Bare names are resolved via PATH.
type ToolsConfig struct {
	Gsutil       string
	Symsorter    string
	DSCExtractor string
	Unzip        string
	Hdiutil      string
	IPSW         string
}

type SimulatorConfig struct {
	CachesDir string
}

// DefaultConfig provides sane defaults if sources.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Bucket: "sentryio-system-symbols-0",
		Feeds: map[SourceType]FeedConfig{
			SourceIPSW: {
				URL:         "https://api.ipsw.me/v2.1/{device}/{version}/info.json",
				VersionPath: "$[0].version",
				BuildPath:   "$[0].buildid",
				URLPath:     "$[0].url",
			},
			SourceOTA: {
				URL:         "https://api.ipsw.me/v2.1/{device}/{version}/ota/info.json",
				VersionPath: "$[0].version",
				BuildPath:   "$[0].buildid",
				URLPath:     "$[0].url",
			},
		},
		Devices: map[string][]Device{
			"ios": {},
			"tvos": {
				{Identifier: "AppleTV5,3", Name: "AppleTV 4 (2015)", Architecture: "arm64"},
			},
			"macos":   {},
			"watchos": {},
		},
		Tools: ToolsConfig{
			Gsutil:       "gsutil",
			Symsorter:    "symsorter",
			DSCExtractor: "dyld-shared-cache-extractor",
			Unzip:        "unzip",
			Hdiutil:      "hdiutil",
			IPSW:         "ipsw",
		},
		Simulator: SimulatorConfig{
			CachesDir: "~/Library/Developer/CoreSimulator/Caches/dyld",
		},
	}
}
