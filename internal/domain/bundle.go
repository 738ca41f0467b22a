package domain

import (
	"fmt"
	"strings"
)

// SourceType identifies where a symbol bundle originates from.
type SourceType string

const (
	SourceIPSW      SourceType = "ipsw"
	SourceOTA       SourceType = "ota"
	SourceSimulator SourceType = "simulator"
)

// ParseSourceType validates a user-supplied source type string.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(strings.ToLower(strings.TrimSpace(s))) {
	case SourceIPSW:
		return SourceIPSW, nil
	case SourceOTA:
		return SourceOTA, nil
	case SourceSimulator:
		return SourceSimulator, nil
	default:
		return "", fmt.Errorf("unsupported source type %q (expected ipsw|ota|simulator)", s)
	}
}

// BundleID uniquely identifies a symbol bundle in the bucket.
// It is the idempotency key for an import: once a bundle with this
// identity is present in the bucket it is never imported again.
// Construct it once and treat it as immutable.
type BundleID struct {
	OSName    string
	OSVersion string
	Build     string
	Arch      string
	Source    SourceType

	// MacOSVersion is only set for simulator bundles: the host macOS
	// version the simulator runtime was cached under.
	MacOSVersion string
}

// ID renders the bundle name used in the bucket layout.
// Firmware bundles: "<version>_<build>_<arch>".
// Simulator bundles: "simulator_<macos>_<version>_<build>_<arch>".
func (b BundleID) ID() string {
	if b.Source == SourceSimulator {
		return fmt.Sprintf("simulator_%s_%s_%s_%s", b.MacOSVersion, b.OSVersion, b.Build, b.Arch)
	}
	return fmt.Sprintf("%s_%s_%s", b.OSVersion, b.Build, b.Arch)
}

// BucketPath is the object path of the bundle marker relative to the
// bucket root. The marker is written by symsorter when it sorts the
// bundle, so its presence implies the symbols were uploaded.
func (b BundleID) BucketPath() string {
	return fmt.Sprintf("%s/bundles/%s", b.OSName, b.ID())
}

func (b BundleID) String() string {
	return fmt.Sprintf("%s/%s (%s)", b.OSName, b.ID(), b.Source)
}
