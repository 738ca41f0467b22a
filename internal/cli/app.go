package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/apple-system-symbols-upload/internal/buildinfo"
	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/archive"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/config"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/extract"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/feedclient"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/gsutil"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/httpclient"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/jobstore"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/logger"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/sentryreport"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/simscan"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/staging"
	"github.com/getsentry/apple-system-symbols-upload/internal/infra/toolrunner"
	"github.com/getsentry/apple-system-symbols-upload/internal/usecase"
)

// app holds the fully wired dependency graph for one CLI invocation.
type app struct {
	cfg     domain.Config
	store   *gsutil.Store
	runs    *jobstore.JSONStore
	scanner *simscan.Scanner

	firmware   *usecase.ImportFirmware
	simulators *usecase.ImportSimulators

	cleanup func()
}

func buildApp(opts *rootOptions) (*app, error) {
	path := opts.configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.Find(wd)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	workDir := resolveWorkDir(opts.workDir, cfg.WorkDir)
	cfg.WorkDir = workDir

	logCleanup, _ := logger.Setup(logger.Config{WorkDir: workDir, Debug: opts.debug})
	log := logger.L()

	reporter, err := sentryreport.New(
		os.Getenv("SENTRY_DSN"),
		os.Getenv("SENTRY_ENVIRONMENT"),
		buildinfo.Version,
	)
	if err != nil {
		log.Warn("sentry.init_failed", "error", err)
		reporter, _ = sentryreport.New("", "", "")
	}

	runner := toolrunner.New(log)
	store := gsutil.NewStore(cfg.Bucket, cfg.Tools.Gsutil, runner, log)
	feed := feedclient.New(httpclient.New(httpclient.FeedConfig()), cfg.Feeds, log)
	fetcher := archive.NewFetcher(httpclient.New(httpclient.DownloadConfig()), log)
	stager := staging.New(workDir)
	extractor := extract.NewExtractor(cfg.Tools, runner, stager, log)
	runs := jobstore.NewJSONStore(workDir)
	scanner := simscan.NewScanner()

	return &app{
		cfg:     cfg,
		store:   store,
		runs:    runs,
		scanner: scanner,
		firmware: usecase.NewImportFirmware(
			cfg.Devices, feed, store, fetcher, extractor, store, stager, runs, reporter,
		),
		simulators: usecase.NewImportSimulators(
			scanner, store, extractor, store, stager, runs, reporter,
		),
		cleanup: func() {
			reporter.Flush(2 * time.Second)
			if logCleanup != nil {
				_ = logCleanup()
			}
		},
	}, nil
}

// resolveWorkDir picks the scratch directory: flag, then config, then a
// stable location under the system temp dir.
func resolveWorkDir(flagVal, cfgVal string) string {
	if v := strings.TrimSpace(flagVal); v != "" {
		return expandHome(v)
	}
	if v := strings.TrimSpace(cfgVal); v != "" {
		return expandHome(v)
	}
	return filepath.Join(os.TempDir(), "symimport")
}

// expandHome resolves a leading "~/" against the current user's home.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
