package media

import (
	"path/filepath"
	"sort"
	"strings"
)

// Default extension sets for files produced by the photo archive export.
var (
	DefaultImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".heic", ".heif", ".webp", ".bmp", ".tif", ".tiff", ".dng", ".raw", ".cr2", ".nef", ".arw"}
	DefaultVideoExtensions = []string{".mp4", ".mov", ".m4v", ".3gp", ".avi", ".mkv", ".mpg", ".mpeg", ".mts", ".m2ts", ".wmv", ".webm"}
	// DefaultTagExtensions are the formats whose container defines a writable
	// capture-time tag.
	DefaultTagExtensions = []string{".jpg", ".jpeg"}
)

// Extensions decides which files are media files and which of those can hold
// an embedded capture-time tag. Matching is case-insensitive.
type Extensions struct {
	media map[string]bool
	tag   map[string]bool
}

// NewExtensions builds an extension set. Tag extensions that are not also
// image or video extensions are ignored.
func NewExtensions(image, video, tag []string) Extensions {
	e := Extensions{
		media: make(map[string]bool, len(image)+len(video)),
		tag:   make(map[string]bool, len(tag)),
	}
	for _, list := range [][]string{image, video} {
		for _, ext := range list {
			e.media[NormalizeExtension(ext)] = true
		}
	}
	for _, ext := range tag {
		ext = NormalizeExtension(ext)
		if e.media[ext] {
			e.tag[ext] = true
		}
	}
	return e
}

// DefaultExtensions returns the built-in extension sets.
func DefaultExtensions() Extensions {
	return NewExtensions(DefaultImageExtensions, DefaultVideoExtensions, DefaultTagExtensions)
}

// IsMedia reports whether path has a supported media extension.
func (e Extensions) IsMedia(path string) bool {
	return e.media[NormalizeExtension(filepath.Ext(path))]
}

// SupportsTag reports whether the normalized extension ext can hold an
// embedded capture-time tag.
func (e Extensions) SupportsTag(ext string) bool {
	return e.tag[NormalizeExtension(ext)]
}

// List returns the supported media extensions, sorted.
func (e Extensions) List() []string {
	out := make([]string, 0, len(e.media))
	for ext := range e.media {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// NormalizeExtension lowercases ext and makes sure it starts with a dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Kind folds extensions that name the same format for reporting. Path
// matching always uses the real extension.
func Kind(ext string) string {
	ext = NormalizeExtension(ext)
	switch ext {
	case ".jpeg":
		return ".jpg"
	case ".tif":
		return ".tiff"
	case ".mpeg":
		return ".mpg"
	}
	return ext
}
