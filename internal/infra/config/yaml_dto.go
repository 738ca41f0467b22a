package config

type YAMLConfig struct {
	Bucket  string `yaml:"bucket"`
	WorkDir string `yaml:"work_dir"`

	Feeds   map[string]YAMLFeed     `yaml:"feeds"`
	Devices map[string][]YAMLDevice `yaml:"devices"`

	Tools     YAMLTools     `yaml:"tools"`
	Simulator YAMLSimulator `yaml:"simulator"`
}

type YAMLFeed struct {
	URL         string `yaml:"url"`
	VersionPath string `yaml:"version_path"`
	BuildPath   string `yaml:"build_path"`
	URLPath     string `yaml:"url_path"`
}

type YAMLDevice struct {
	Identifier string `yaml:"identifier"`
	Name       string `yaml:"name"`
	Arch       string `yaml:"arch"`
}

type YAMLTools struct {
	Gsutil       string `yaml:"gsutil"`
	Symsorter    string `yaml:"symsorter"`
	DSCExtractor string `yaml:"dsc_extractor"`
	Unzip        string `yaml:"unzip"`
	Hdiutil      string `yaml:"hdiutil"`
	IPSW         string `yaml:"ipsw"`
}

type YAMLSimulator struct {
	CachesDir string `yaml:"caches_dir"`
}
