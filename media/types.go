package media

import (
	"context"
	"time"
)

// MediaFileRecord describes one discovered media file. It is created once by
// discovery and never modified.
type MediaFileRecord struct {
	FilePath            string
	Extension           string
	SupportsEmbeddedTag bool

	// SidecarPath is empty only when no naming strategy produced a candidate.
	SidecarPath string
	// SidecarExists is a snapshot taken at discovery time.
	SidecarExists bool
	// SidecarStrategy names the naming strategy that matched, if any.
	SidecarStrategy string
}

// Kind returns the reporting kind of the file (".jpeg" is reported as ".jpg").
func (r MediaFileRecord) Kind() string {
	return Kind(r.Extension)
}

// Source says where a resolved timestamp came from.
type Source string

const (
	SourceSidecar     Source = "sidecar"
	SourceEmbeddedTag Source = "embeddedTag"
	SourceNone        Source = "none"
)

// ResolvedDate is the authoritative timestamp chosen for one file together
// with the corrective actions it requires. A zero Timestamp means none.
type ResolvedDate struct {
	Timestamp     time.Time
	Source        Source
	NeedsTagWrite bool
}

// HasTimestamp reports whether a timestamp was resolved.
func (d ResolvedDate) HasTimestamp() bool {
	return !d.Timestamp.IsZero()
}

// TagReader reads the embedded capture-time tag of a media file.
//
// ok is false when the tag is absent. err is reserved for genuine failures
// (file vanished, engine crashed, unreadable container).
type TagReader interface {
	ReadCaptureTime(ctx context.Context, path string) (t time.Time, ok bool, err error)
}

// TagEngine reads and writes the embedded capture-time tag.
//
// WriteCaptureTime leaves a copy of the pre-write file at path+BackupSuffix;
// removing it is the caller's job.
type TagEngine interface {
	TagReader
	WriteCaptureTime(ctx context.Context, path string, t time.Time) error
}

// BackupSuffix is appended to a media path by the tag engine for the
// pre-write backup.
const BackupSuffix = "_original"
