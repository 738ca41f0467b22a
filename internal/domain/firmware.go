package domain

import "fmt"

// Device is a hardware identifier the firmware feed is queried for.
type Device struct {
	Identifier   string // e.g. "AppleTV5,3"
	Name         string // e.g. "AppleTV 4 (2015)"
	Architecture string // e.g. "arm64"
}

// Firmware is one concrete firmware build resolved from the feed.
type Firmware struct {
	OSName    string
	OSVersion string
	Build     string
	URL       string
	Arch      string
	Source    SourceType
}

// Bundle returns the bundle identity this firmware would produce.
func (f Firmware) Bundle() BundleID {
	return BundleID{
		OSName:    f.OSName,
		OSVersion: f.OSVersion,
		Build:     f.Build,
		Arch:      f.Arch,
		Source:    f.Source,
	}
}

// BuildKey deduplicates firmwares across devices: distinct devices often
// resolve to the same build for the same architecture.
func (f Firmware) BuildKey() string {
	return fmt.Sprintf("%s-%s-%s-%s", f.OSName, f.OSVersion, f.Build, f.Arch)
}
