package sidecar

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fsys, path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

func TestLocate(t *testing.T) {
	longBase := "PXL_20210101_101010123_with_a_long_description.jpg"

	tests := []struct {
		name         string
		media        string
		sidecar      string
		wantStrategy string
	}{
		{
			name:         "exact name",
			media:        "photo.jpg",
			sidecar:      "photo.jpg.json",
			wantStrategy: "exact",
		},
		{
			name:         "uppercase extension kept verbatim",
			media:        "IMG_0001.JPG",
			sidecar:      "IMG_0001.JPG.json",
			wantStrategy: "exact",
		},
		{
			name:         "extension case differs from sidecar",
			media:        "photo.JPG",
			sidecar:      "photo.jpg.json",
			wantStrategy: "case",
		},
		{
			name:         "lowercase media with uppercase sidecar",
			media:        "clip.mp4",
			sidecar:      "clip.MP4.json",
			wantStrategy: "case",
		},
		{
			name:         "supplemental metadata suffix",
			media:        "IMG_1234.HEIC",
			sidecar:      "IMG_1234.HEIC.supplemental-metadata.json",
			wantStrategy: "supplemental",
		},
		{
			name:         "truncated supplemental metadata suffix",
			media:        "PXL_20230405_123456789.MP.jpg",
			sidecar:      truncateRunes("PXL_20230405_123456789.MP.jpg.supplemental-metadata", 46) + ".json",
			wantStrategy: "supplemental",
		},
		{
			name:         "duplicate counter moves behind extension",
			media:        "photo(1).jpg",
			sidecar:      "photo.jpg(1).json",
			wantStrategy: "duplicate",
		},
		{
			name:         "duplicate counter with supplemental suffix",
			media:        "photo(2).jpg",
			sidecar:      "photo.jpg.supplemental-metadata(2).json",
			wantStrategy: "duplicate",
		},
		{
			name:         "edited copy shares original sidecar",
			media:        "photo-edited.jpg",
			sidecar:      "photo.jpg.json",
			wantStrategy: "edited",
		},
		{
			name:         "truncated long name",
			media:        longBase,
			sidecar:      longBase[:46] + ".json",
			wantStrategy: "truncated",
		},
		{
			name:         "stem without media extension",
			media:        "scan.png",
			sidecar:      "scan.json",
			wantStrategy: "stem",
		},
		{
			name:         "trailing underscore dropped",
			media:        "holiday_.jpg",
			sidecar:      "holiday.jpg.json",
			wantStrategy: "stem",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			dir := "/takeout/Photos from 2021"
			mediaPath := filepath.Join(dir, tt.media)
			writeFile(t, fsys, mediaPath)
			writeFile(t, fsys, filepath.Join(dir, tt.sidecar))

			got, err := NewLocator(fsys).Locate(mediaPath)
			if err != nil {
				t.Fatalf("Locate() error = %v", err)
			}
			if !got.Exists {
				t.Fatalf("Locate() did not find %s", tt.sidecar)
			}
			if got.Path != filepath.Join(dir, tt.sidecar) {
				t.Errorf("Locate() path = %q, want %q", got.Path, filepath.Join(dir, tt.sidecar))
			}
			if got.Strategy != tt.wantStrategy {
				t.Errorf("Locate() strategy = %q, want %q", got.Strategy, tt.wantStrategy)
			}
		})
	}
}

func TestLocate_NoSidecar(t *testing.T) {
	fsys := afero.NewMemMapFs()
	mediaPath := "/takeout/clip.mp4"
	writeFile(t, fsys, mediaPath)

	got, err := NewLocator(fsys).Locate(mediaPath)
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if got.Exists {
		t.Errorf("Expected no sidecar, got %+v", got)
	}
	if got.Path != "/takeout/clip.mp4.json" {
		t.Errorf("Expected primary candidate path, got %q", got.Path)
	}
	if got.Strategy != "" {
		t.Errorf("Expected empty strategy, got %q", got.Strategy)
	}
}

func TestLocate_PrefersEarlierStrategy(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/t/photo.jpg")
	writeFile(t, fsys, "/t/photo.jpg.json")
	writeFile(t, fsys, "/t/photo.json")

	got, err := NewLocator(fsys).Locate("/t/photo.jpg")
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if got.Path != "/t/photo.jpg.json" {
		t.Errorf("Expected exact match to win, got %q", got.Path)
	}
}

func TestLocate_SkipsDirectories(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/t/photo.jpg")
	if err := fsys.MkdirAll("/t/photo.jpg.json", 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := NewLocator(fsys).Locate("/t/photo.jpg")
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if got.Exists {
		t.Errorf("Directory must not count as sidecar, got %+v", got)
	}
}

type failingStatFs struct {
	afero.Fs
}

func (f failingStatFs) Stat(name string) (os.FileInfo, error) {
	return nil, &os.PathError{Op: "stat", Path: name, Err: errors.New("input/output error")}
}

func TestLocate_UnreadableFilesystem(t *testing.T) {
	_, err := NewLocator(failingStatFs{afero.NewMemMapFs()}).Locate("/t/photo.jpg")
	if err == nil {
		t.Fatal("Expected error for unreadable filesystem, got nil")
	}
	if !strings.Contains(err.Error(), "input/output error") {
		t.Errorf("Expected wrapped I/O error, got %v", err)
	}
}

func TestCandidates_NeverIncludeMediaFile(t *testing.T) {
	bases := []string{"photo.jpg", "photo(1).jpg", "a-edited.jpg", "x_.mp4", strings.Repeat("n", 80) + ".jpg"}
	l := NewLocator(afero.NewMemMapFs())

	for _, base := range bases {
		mediaPath := filepath.Join("/t", base)
		for _, c := range l.Candidates(mediaPath) {
			if c.Path == mediaPath {
				t.Errorf("Candidates(%q) contains the media file itself", base)
			}
			if !strings.HasSuffix(c.Path, ".json") {
				t.Errorf("Candidates(%q) produced non-JSON candidate %q", base, c.Path)
			}
		}
	}
}

func TestCustomStrategies(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/t/photo.jpg")
	writeFile(t, fsys, "/t/photo.meta.json")

	custom := Strategy{
		Name: "meta",
		Candidates: func(base string) []string {
			return []string{strings.TrimSuffix(base, filepath.Ext(base)) + ".meta.json"}
		},
	}

	got, err := NewLocator(fsys, custom).Locate("/t/photo.jpg")
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if !got.Exists || got.Strategy != "meta" {
		t.Errorf("Expected custom strategy match, got %+v", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("ääää", 2); got != "ää" {
		t.Errorf("truncateRunes() = %q, want %q", got, "ää")
	}
	if got := truncateRunes("short", 10); got != "short" {
		t.Errorf("truncateRunes() = %q, want unchanged", got)
	}
}
