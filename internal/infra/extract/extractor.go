// Package extract turns downloaded firmware archives and local
// simulator runtimes into symsorted symbol trees, shelling out to the
// external extraction tools.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

type runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
}

type Extractor struct {
	tools  domain.ToolsConfig
	run    runner
	stager ports.Stager
	log    *slog.Logger
}

func NewExtractor(tools domain.ToolsConfig, run runner, stager ports.Stager, log *slog.Logger) *Extractor {
	return &Extractor{tools: tools, run: run, stager: stager, log: log}
}

var (
	_ ports.FirmwareExtractor  = (*Extractor)(nil)
	_ ports.SimulatorExtractor = (*Extractor)(nil)
)

func (e *Extractor) Extract(ctx context.Context, archivePath, outputDir string, fw domain.Firmware) (domain.BundleID, error) {
	switch fw.Source {
	case domain.SourceIPSW:
		return e.extractIPSW(ctx, archivePath, outputDir, fw)
	case domain.SourceOTA:
		return e.extractOTA(ctx, archivePath, outputDir, fw)
	default:
		return domain.BundleID{}, &domain.OpError{
			Op:   "extract",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("unsupported source %q", fw.Source),
		}
	}
}
