package exiftool

import (
	"context"
	"fmt"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"
)

// NativeReader reads DateTimeOriginal from JPEG/TIFF EXIF data without
// exiftool. It cannot write tags.
//
// A file whose EXIF block is missing or undecodable reports the tag as absent;
// only failing to open the file is an error.
type NativeReader struct {
	fs  afero.Fs
	loc *time.Location
}

// NewNativeReader creates a NativeReader. A nil loc means UTC.
func NewNativeReader(fsys afero.Fs, loc *time.Location) *NativeReader {
	if loc == nil {
		loc = time.UTC
	}
	return &NativeReader{fs: fsys, loc: loc}
}

func (n *NativeReader) ReadCaptureTime(ctx context.Context, path string) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}

	f, err := n.fs.Open(path)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return time.Time{}, false, nil
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, false, nil
	}
	value, err := tag.StringVal()
	if err != nil {
		return time.Time{}, false, nil
	}

	return ParseTagTime(value, n.loc)
}
