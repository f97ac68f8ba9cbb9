// Package sidecar finds and parses the JSON metadata records that a photo
// archive export writes next to each media file.
package sidecar

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Match is the result of a sidecar lookup.
//
// Path is the matched sidecar when Exists is true. When nothing matched it is
// the primary candidate (the exact-name convention), so callers can report
// where the sidecar was expected. Path is empty only if no strategy produced
// a candidate at all.
type Match struct {
	Path     string
	Strategy string
	Exists   bool
}

// Candidate is one sidecar path a strategy proposed.
type Candidate struct {
	Strategy string
	Path     string
}

// Locator resolves media paths to sidecar paths using an ordered list of
// naming strategies.
type Locator struct {
	fs         afero.Fs
	strategies []Strategy
}

// NewLocator creates a Locator. With no strategies, DefaultStrategies is used.
func NewLocator(fsys afero.Fs, strategies ...Strategy) *Locator {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Locator{fs: fsys, strategies: strategies}
}

// Candidates lists every sidecar path the strategies propose for mediaPath,
// in the order Locate tries them.
func (l *Locator) Candidates(mediaPath string) []Candidate {
	dir, base := filepath.Split(mediaPath)
	if base == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []Candidate
	for _, s := range l.strategies {
		for _, name := range s.Candidates(base) {
			// A sidecar can never be the media file itself.
			if name == base || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, Candidate{Strategy: s.Name, Path: filepath.Join(dir, name)})
		}
	}
	return out
}

// Locate returns the first existing sidecar for mediaPath. A missing sidecar
// is not an error; only a filesystem that cannot be queried is.
func (l *Locator) Locate(mediaPath string) (Match, error) {
	candidates := l.Candidates(mediaPath)
	if len(candidates) == 0 {
		return Match{}, nil
	}

	for _, c := range candidates {
		fi, err := l.fs.Stat(c.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Match{}, fmt.Errorf("failed to stat sidecar candidate %s: %w", c.Path, err)
		}
		if fi.IsDir() {
			continue
		}
		return Match{Path: c.Path, Strategy: c.Strategy, Exists: true}, nil
	}

	return Match{Path: candidates[0].Path}, nil
}
