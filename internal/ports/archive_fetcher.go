package ports

import "context"

// ArchiveFetcher downloads a firmware archive into destDir and returns
// the local file path.
type ArchiveFetcher interface {
	Fetch(ctx context.Context, url, destDir string) (string, error)
}
