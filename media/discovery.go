package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/lepinkainen/takeoutdate/sidecar"
	"github.com/spf13/afero"
)

// Discoverer walks an export tree and produces one record per media file.
type Discoverer struct {
	fs      afero.Fs
	locator *sidecar.Locator
	exts    Extensions
}

// NewDiscoverer creates a Discoverer. A nil locator uses the default sidecar
// naming strategies.
func NewDiscoverer(fsys afero.Fs, locator *sidecar.Locator, exts Extensions) *Discoverer {
	if locator == nil {
		locator = sidecar.NewLocator(fsys)
	}
	return &Discoverer{fs: fsys, locator: locator, exts: exts}
}

// CheckRoot makes root absolute and verifies it is an existing directory.
func CheckRoot(fsys afero.Fs, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	fi, err := fsys.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrRootNotFound, abs)
		}
		return "", fmt.Errorf("failed to access %s: %w", abs, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDir, abs)
	}
	return abs, nil
}

// Discover returns the media files under root in depth-first, lexical order.
//
// It fails with *EmptyInputError when the tree has no regular files at all; a
// tree with only unsupported files yields an empty, valid result.
func (d *Discoverer) Discover(root string) ([]MediaFileRecord, error) {
	abs, err := CheckRoot(d.fs, root)
	if err != nil {
		return nil, err
	}

	var (
		records   []MediaFileRecord
		fileCount int
	)

	// afero.Walk visits directory entries in lexical order.
	err = afero.Walk(d.fs, abs, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		fileCount++

		if !d.exts.IsMedia(path) {
			return nil
		}

		rec, err := d.record(path)
		if err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", abs, err)
	}

	if fileCount == 0 {
		return nil, &EmptyInputError{Root: abs}
	}

	return records, nil
}

func (d *Discoverer) record(path string) (MediaFileRecord, error) {
	ext := NormalizeExtension(filepath.Ext(path))

	match, err := d.locator.Locate(path)
	if err != nil {
		return MediaFileRecord{}, err
	}

	return MediaFileRecord{
		FilePath:            path,
		Extension:           ext,
		SupportsEmbeddedTag: d.exts.SupportsTag(ext),
		SidecarPath:         match.Path,
		SidecarExists:       match.Exists,
		SidecarStrategy:     match.Strategy,
	}, nil
}

// KindCount is the number of discovered files of one reporting kind.
type KindCount struct {
	Kind  string
	Count int
}

// CountByKind counts records per reporting kind, sorted by kind.
func CountByKind(records []MediaFileRecord) []KindCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Kind()]++
	}

	out := make([]KindCount, 0, len(counts))
	for kind, n := range counts {
		out = append(out, KindCount{Kind: kind, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
