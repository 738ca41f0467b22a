package ports

import (
	"context"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// FirmwareExtractor unpacks one downloaded archive and sorts its symbols
// into outputDir. The returned BundleID is authoritative: for IPSWs the
// version and build are re-read from the archive's Restore.plist.
type FirmwareExtractor interface {
	Extract(ctx context.Context, archivePath, outputDir string, fw domain.Firmware) (domain.BundleID, error)
}

// SimulatorExtractor extracts and sorts symbols for one local simulator
// runtime into outputDir.
type SimulatorExtractor interface {
	ExtractRuntime(ctx context.Context, rt domain.SimRuntime, outputDir string) error
}
