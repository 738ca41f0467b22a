package ports

import (
	"context"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// BundleChecker answers whether a bundle was already imported.
// Read-only remote query; errors are fatal for the current job only.
type BundleChecker interface {
	Exists(ctx context.Context, bundle domain.BundleID) (bool, error)
}

// BundleLister enumerates bundle names present in the bucket for one OS.
type BundleLister interface {
	List(ctx context.Context, osName string) ([]string, error)
}

// BundleUploader copies a sorted staging tree into the bucket. The
// staging tree already contains the bundles/<id> markers written by
// symsorter; the upload is no-clobber so present objects stay untouched.
type BundleUploader interface {
	Upload(ctx context.Context, stagingDir string) error
}
