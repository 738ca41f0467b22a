package ports

import (
	"context"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// FirmwareFeed resolves a (device, version) request to a concrete
// firmware build. version may be "latest".
type FirmwareFeed interface {
	Lookup(ctx context.Context, device domain.Device, osName, version string, source domain.SourceType) (domain.Firmware, error)
}
