// Package report turns a batch result into a JSON run report.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lepinkainen/takeoutdate/media"
	"github.com/spf13/afero"
)

type RunReport struct {
	RunID      string    `json:"run_id"`
	Version    string    `json:"version"`
	Root       string    `json:"root"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Summary    Summary   `json:"summary"`
	Items      []Item    `json:"items"`
}

type Summary struct {
	Total         int `json:"total"`
	OK            int `json:"ok"`
	Warned        int `json:"warned"`
	Failed        int `json:"failed"`
	TagsWritten   int `json:"tags_written"`
	TagsPlanned   int `json:"tags_planned,omitempty"`
	MtimesSet     int `json:"mtimes_set"`
	MtimesPlanned int `json:"mtimes_planned,omitempty"`
}

// Item is the result for one file.
type Item struct {
	Path            string   `json:"path"`
	Kind            string   `json:"kind"`
	Sidecar         string   `json:"sidecar,omitempty"`
	SidecarStrategy string   `json:"sidecar_strategy,omitempty"`
	Source          string   `json:"source"`
	Timestamp       string   `json:"timestamp,omitempty"`
	Tag             string   `json:"tag"`
	Mtime           string   `json:"mtime"`
	Status          string   `json:"status"`
	Warnings        []string `json:"warnings,omitempty"`
	Errors          []string `json:"errors,omitempty"`
}

// FromResult builds a report with a fresh run id. Items keep the result's
// discovery order.
func FromResult(res *media.Result, version string, dryRun bool) *RunReport {
	rr := &RunReport{
		RunID:      uuid.NewString(),
		Version:    version,
		Root:       res.Root,
		DryRun:     dryRun,
		StartedAt:  res.StartedAt.UTC(),
		FinishedAt: res.FinishedAt.UTC(),
		Summary: Summary{
			Total:         res.Summary.Total,
			OK:            res.Summary.OK,
			Warned:        res.Summary.Warned,
			Failed:        res.Summary.Failed,
			TagsWritten:   res.Summary.TagsWritten,
			TagsPlanned:   res.Summary.TagsPlanned,
			MtimesSet:     res.Summary.MtimesSet,
			MtimesPlanned: res.Summary.MtimesPlanned,
		},
		Items: make([]Item, 0, len(res.Outcomes)),
	}

	for _, o := range res.Outcomes {
		item := Item{
			Path:   o.Record.FilePath,
			Kind:   o.Record.Kind(),
			Source: string(o.Resolved.Source),
			Tag:    string(o.Tag),
			Mtime:  string(o.Mtime),
			Status: string(o.Status()),
		}
		if o.Record.SidecarExists {
			item.Sidecar = o.Record.SidecarPath
			item.SidecarStrategy = o.Record.SidecarStrategy
		}
		if o.Resolved.HasTimestamp() {
			item.Timestamp = o.Resolved.Timestamp.UTC().Format(time.RFC3339)
		}
		item.Warnings = append(item.Warnings, o.Warnings...)
		for _, err := range o.Errors {
			item.Errors = append(item.Errors, err.Error())
		}
		rr.Items = append(rr.Items, item)
	}
	return rr
}

// Write stores the report at path. The file is written next to its target and
// renamed into place, so readers never see a partial report.
func Write(fsys afero.Fs, path string, rr *RunReport) error {
	data, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fsys, dir, ".takeoutdate-report-*.json")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
