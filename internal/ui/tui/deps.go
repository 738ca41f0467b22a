package tui

import (
	"log/slog"

	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

type Deps struct {
	Bundles ports.BundleLister
	Runs    ports.JobStore

	// OSNames are the configured OS names, in display order.
	OSNames []string

	Logger *slog.Logger
	Debug  bool
}
