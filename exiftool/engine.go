// Package exiftool reads and writes the embedded capture-time tag through a
// stay-open exiftool process.
package exiftool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goexiftool "github.com/barasher/go-exiftool"
)

const (
	readTag  = "DateTimeOriginal"
	writeTag = "AllDates"
)

// Options configure the exiftool engines.
type Options struct {
	// BinaryPath overrides the exiftool executable. Empty means PATH lookup.
	BinaryPath string
	// Instances is the maximum number of exiftool processes in a Pool.
	Instances int
	// Location is used for tag values that carry no offset. Defaults to UTC.
	Location *time.Location
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// Engine wraps one exiftool process. Calls are serialized.
//
// Writes keep exiftool's "<file>_original" backup; removing it is up to the
// caller.
type Engine struct {
	mu  sync.Mutex
	et  *goexiftool.Exiftool
	loc *time.Location
}

// NewEngine starts an exiftool process.
func NewEngine(opts Options) (*Engine, error) {
	etOpts := []func(*goexiftool.Exiftool) error{goexiftool.BackupOriginal()}
	if opts.BinaryPath != "" {
		etOpts = append(etOpts, goexiftool.SetExiftoolBinaryPath(opts.BinaryPath))
	}

	et, err := goexiftool.NewExiftool(etOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &Engine{et: et, loc: opts.location()}, nil
}

// ReadCaptureTime returns the DateTimeOriginal tag of path. A missing or
// zeroed tag reports ok=false without an error; a value that is not a date
// returns ErrUnparseableTag.
func (e *Engine) ReadCaptureTime(ctx context.Context, path string) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}

	e.mu.Lock()
	fms := e.et.ExtractMetadata(path)
	e.mu.Unlock()

	if len(fms) != 1 {
		return time.Time{}, false, fmt.Errorf("exiftool returned %d results for %s", len(fms), path)
	}
	if fms[0].Err != nil {
		return time.Time{}, false, fms[0].Err
	}

	value, err := fms[0].GetString(readTag)
	if errors.Is(err, goexiftool.ErrKeyNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	return ParseTagTime(value, e.loc)
}

// WriteCaptureTime sets DateTimeOriginal, CreateDate and ModifyDate of path
// to t.
func (e *Engine) WriteCaptureTime(ctx context.Context, path string, t time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fm := goexiftool.FileMetadata{File: path, Fields: map[string]interface{}{}}
	fm.SetString(writeTag, FormatTagTime(t, e.loc))
	fms := []goexiftool.FileMetadata{fm}

	e.mu.Lock()
	e.et.WriteMetadata(fms)
	e.mu.Unlock()

	if fms[0].Err != nil {
		return fmt.Errorf("exiftool write: %w", fms[0].Err)
	}
	return nil
}

// Close stops the exiftool process.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.et.Close()
}
