// Package archive downloads firmware archives to local disk.
package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
	"github.com/getsentry/apple-system-symbols-upload/internal/ports"
)

type Fetcher struct {
	http *http.Client
	log  *slog.Logger
}

func NewFetcher(httpClient *http.Client, log *slog.Logger) *Fetcher {
	return &Fetcher{http: httpClient, log: log}
}

var _ ports.ArchiveFetcher = (*Fetcher)(nil)

// Fetch streams the archive at rawURL into destDir, named after the last
// URL path segment, and returns the local file path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, destDir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &domain.OpError{Op: "archive.fetch", Kind: domain.KindInvalidConfig, Path: rawURL, Err: err}
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "archive"
	}
	dest := filepath.Join(destDir, name)

	if f.log != nil {
		f.log.Info("archive.download", "url", rawURL, "dest", dest)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &domain.OpError{Op: "archive.fetch", Kind: domain.KindInvalidConfig, Path: rawURL, Err: err}
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return "", &domain.OpError{Op: "archive.fetch", Kind: domain.KindNetwork, Path: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.OpError{
			Op:   "archive.fetch",
			Kind: domain.KindNetwork,
			Path: rawURL,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", &domain.OpError{Op: "archive.write", Kind: domain.KindTool, Path: dest, Err: err}
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return "", &domain.OpError{Op: "archive.write", Kind: domain.KindNetwork, Path: dest, Err: err}
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return "", &domain.OpError{Op: "archive.write", Kind: domain.KindTool, Path: dest, Err: err}
	}

	return dest, nil
}
