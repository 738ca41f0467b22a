package feedclient

import (
	goversion "github.com/hashicorp/go-version"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// Newest picks the firmware with the highest OS version using semantic
// ordering, so "16.10" beats "16.4". Build number breaks ties. Returns
// false for an empty slice.
func Newest(fws []domain.Firmware) (domain.Firmware, bool) {
	if len(fws) == 0 {
		return domain.Firmware{}, false
	}

	best := fws[0]
	for _, fw := range fws[1:] {
		if versionLess(best, fw) {
			best = fw
		}
	}
	return best, true
}

func versionLess(a, b domain.Firmware) bool {
	va, errA := goversion.NewVersion(a.OSVersion)
	vb, errB := goversion.NewVersion(b.OSVersion)
	if errA != nil || errB != nil {
		// Unparseable versions fall back to build ordering below.
		return a.Build < b.Build
	}
	if va.Equal(vb) {
		return a.Build < b.Build
	}
	return va.LessThan(vb)
}
