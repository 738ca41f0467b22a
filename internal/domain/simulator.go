package domain

// SimRuntime is one Xcode simulator runtime found in the local
// CoreSimulator dyld cache directory.
type SimRuntime struct {
	OSName       string
	OSVersion    string
	Build        string
	Arch         string
	MacOSVersion string
	Path         string
}

// Bundle returns the bundle identity for this runtime.
func (r SimRuntime) Bundle() BundleID {
	return BundleID{
		OSName:       r.OSName,
		OSVersion:    r.OSVersion,
		Build:        r.Build,
		Arch:         r.Arch,
		Source:       SourceSimulator,
		MacOSVersion: r.MacOSVersion,
	}
}
