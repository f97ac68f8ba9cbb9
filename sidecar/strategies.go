package sidecar

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	jsonExt            = ".json"
	supplementalSuffix = ".supplemental-metadata"
)

// nameLimits are the lengths (in characters, excluding ".json") that the
// export truncates sidecar names to. 46 is the usual cut; 47 and 48 show up
// in older exports.
var nameLimits = []int{46, 47, 48}

// editedSuffixes are appended by the export to edited copies of a photo. The
// edited copy has no sidecar of its own and shares the original's.
var editedSuffixes = []string{"-edited", "-bearbeitet", "-modifié", "-editado", "-modificato", "-bewerkt"}

// duplicateRegex matches "name(1).jpg": the export moves the counter behind
// the extension in the sidecar name ("name.jpg(1).json").
var duplicateRegex = regexp.MustCompile(`^(.+)\((\d+)\)(\.[^.]*)$`)

// Strategy generates candidate sidecar file names for a media file name. The
// candidates are tried in order; they are plain names, not paths.
type Strategy struct {
	Name       string
	Candidates func(base string) []string
}

// DefaultStrategies returns the naming strategies in the order they are tried.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "exact", Candidates: exactCandidates},
		{Name: "case", Candidates: caseCandidates},
		{Name: "truncated", Candidates: truncatedCandidates},
		{Name: "supplemental", Candidates: supplementalCandidates},
		{Name: "duplicate", Candidates: duplicateCandidates},
		{Name: "edited", Candidates: editedCandidates},
		{Name: "stem", Candidates: stemCandidates},
	}
}

func exactCandidates(base string) []string {
	return []string{base + jsonExt}
}

// caseCandidates covers sidecars whose media extension differs in case from
// the file on disk ("photo.JPG" next to "photo.jpg.json").
func caseCandidates(base string) []string {
	ext := filepath.Ext(base)
	if ext == "" {
		return nil
	}
	stem := strings.TrimSuffix(base, ext)

	var names []string
	for _, variant := range []string{strings.ToLower(ext), strings.ToUpper(ext)} {
		if variant != ext {
			names = append(names, stem+variant+jsonExt)
		}
	}
	return dedupe(names)
}

func supplementalCandidates(base string) []string {
	full := base + supplementalSuffix
	names := []string{full + jsonExt}
	for _, limit := range nameLimits {
		if t := truncateRunes(full, limit); t != full {
			names = append(names, t+jsonExt)
		}
	}
	return dedupe(names)
}

func duplicateCandidates(base string) []string {
	m := duplicateRegex.FindStringSubmatch(base)
	if m == nil {
		return nil
	}
	stem, counter, ext := m[1], "("+m[2]+")", m[3]
	original := stem + ext

	names := []string{
		original + counter + jsonExt,
		original + supplementalSuffix + counter + jsonExt,
	}
	for _, limit := range nameLimits {
		names = append(names,
			truncateRunes(original, limit)+counter+jsonExt,
			truncateRunes(original+supplementalSuffix, limit)+counter+jsonExt,
		)
	}
	return dedupe(names)
}

func editedCandidates(base string) []string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for _, suffix := range editedSuffixes {
		if !strings.HasSuffix(stem, suffix) || len(stem) == len(suffix) {
			continue
		}
		original := strings.TrimSuffix(stem, suffix) + ext
		var names []string
		names = append(names, exactCandidates(original)...)
		names = append(names, supplementalCandidates(original)...)
		names = append(names, truncatedCandidates(original)...)
		return dedupe(names)
	}
	return nil
}

func truncatedCandidates(base string) []string {
	var names []string
	for _, limit := range nameLimits {
		if t := truncateRunes(base, limit); t != base {
			names = append(names, t+jsonExt)
		}
	}
	return dedupe(names)
}

func stemCandidates(base string) []string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		return nil
	}
	names := []string{stem + jsonExt}
	if trimmed := strings.TrimRight(stem, "_"); trimmed != stem && trimmed != "" {
		names = append(names, trimmed+ext+jsonExt, trimmed+jsonExt)
	}
	return dedupe(names)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
