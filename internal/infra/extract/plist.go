package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"howett.net/plist"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// RestoreInfo is the subset of an IPSW's Restore.plist the importer needs.
type RestoreInfo struct {
	OSVersion     string
	Build         string
	RestoreImages map[string]string
}

type restorePlistDTO struct {
	ProductVersion                string            `plist:"ProductVersion"`
	ProductBuildVersion           string            `plist:"ProductBuildVersion"`
	SystemRestoreImageFileSystems map[string]string `plist:"SystemRestoreImageFileSystems"`
}

// ReadRestorePlist parses Restore.plist from an unpacked IPSW.
func ReadRestorePlist(path string) (RestoreInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return RestoreInfo{}, &domain.OpError{Op: "extract.restore_plist", Kind: domain.KindNotFound, Path: path, Err: err}
	}
	defer f.Close()

	var dto restorePlistDTO
	if err := plist.NewDecoder(f).Decode(&dto); err != nil {
		return RestoreInfo{}, &domain.OpError{Op: "extract.restore_plist", Kind: domain.KindTool, Path: path, Err: err}
	}

	if dto.ProductVersion == "" || dto.ProductBuildVersion == "" {
		return RestoreInfo{}, &domain.OpError{
			Op:   "extract.restore_plist",
			Kind: domain.KindTool,
			Path: path,
			Err:  fmt.Errorf("missing ProductVersion/ProductBuildVersion"),
		}
	}

	return RestoreInfo{
		OSVersion:     dto.ProductVersion,
		Build:         dto.ProductBuildVersion,
		RestoreImages: dto.SystemRestoreImageFileSystems,
	}, nil
}

// pickRestoreImage selects the system restore image to mount from the
// unpacked archive at dir. The plist's dict order does not survive
// decoding, so the pick is: skip recovery-OS names, then take the
// largest image on disk (the system image dwarfs the others).
func pickRestoreImage(dir string, images map[string]string) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("no restore images listed")
	}

	names := make([]string, 0, len(images))
	for name := range images {
		if strings.Contains(strings.ToLower(name), "recovery") {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		for name := range images {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	best := names[0]
	var bestSize int64 = -1
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best = name
			bestSize = info.Size()
		}
	}
	return best, nil
}
