package media

import (
	"context"
	"errors"
)

// TagScan summarizes the embedded tags of a set of files without changing
// anything.
type TagScan struct {
	Checked int
	Tagged  int
	// Missing files lack the tag; Fixable is the subset whose sidecar holds a
	// capture time.
	Missing    int
	Fixable    int
	Unreadable int

	MissingFiles []string
}

// ScanTags reads the embedded tag of every record that supports one. progress
// is called once per checked file and may be nil.
func ScanTags(ctx context.Context, ex *Extractor, records []MediaFileRecord, progress func()) (TagScan, error) {
	var scan TagScan

	for _, rec := range records {
		if !rec.SupportsEmbeddedTag {
			continue
		}
		if err := ctx.Err(); err != nil {
			return scan, err
		}

		scan.Checked++
		ts, err := ex.EmbeddedTimestamp(ctx, rec.FilePath)
		switch {
		case errors.Is(err, context.Canceled):
			return scan, err
		case err != nil:
			scan.Unreadable++
			ex.log.Debugw("capture tag unreadable", "path", rec.FilePath, "error", err)
		case ts.IsZero():
			scan.Missing++
			scan.MissingFiles = append(scan.MissingFiles, rec.FilePath)
			if !ex.SidecarTimestamp(rec).IsZero() {
				scan.Fixable++
			}
		default:
			scan.Tagged++
		}

		if progress != nil {
			progress()
		}
	}

	return scan, nil
}
