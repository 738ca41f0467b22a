package ports

import "github.com/getsentry/apple-system-symbols-upload/internal/domain"

// SimulatorScanner finds simulator runtimes in the local CoreSimulator
// dyld cache directory.
type SimulatorScanner interface {
	Scan(cachesDir string) ([]domain.SimRuntime, error)
}
