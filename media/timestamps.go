package media

import (
	"context"
	"time"

	"github.com/lepinkainen/takeoutdate/sidecar"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Extractor reads the two candidate timestamps of a media file.
type Extractor struct {
	fs     afero.Fs
	reader TagReader
	log    *zap.SugaredLogger
}

// NewExtractor creates an Extractor.
func NewExtractor(fsys afero.Fs, reader TagReader, log *zap.SugaredLogger) *Extractor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Extractor{fs: fsys, reader: reader, log: log}
}

// SidecarTimestamp returns the capture time recorded in the file's sidecar,
// or the zero time. It never fails: the sidecar is only a hint.
func (e *Extractor) SidecarTimestamp(rec MediaFileRecord) time.Time {
	if rec.SidecarPath == "" || !rec.SidecarExists {
		return time.Time{}
	}

	data, err := afero.ReadFile(e.fs, rec.SidecarPath)
	if err != nil {
		e.log.Debugw("sidecar unreadable", "path", rec.FilePath, "sidecar", rec.SidecarPath, "error", err)
		return time.Time{}
	}

	record, reason := sidecar.ParseRecord(data)
	t, ok := record.CapturedAt()
	if !ok {
		e.log.Debugw("sidecar has no capture time", "path", rec.FilePath, "sidecar", rec.SidecarPath, "reason", reason)
		return time.Time{}
	}
	return t
}

// EmbeddedTimestamp returns the file's embedded capture time, or the zero
// time when the tag is absent. Read failures are returned as *TagReadError.
func (e *Extractor) EmbeddedTimestamp(ctx context.Context, path string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, &TagReadError{Path: path, Err: err}
	}

	t, ok, err := e.reader.ReadCaptureTime(ctx, path)
	if err != nil {
		return time.Time{}, &TagReadError{Path: path, Err: err}
	}
	if !ok {
		return time.Time{}, nil
	}
	return t.Truncate(time.Second), nil
}
