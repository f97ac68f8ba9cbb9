package media

import (
	"context"
	"errors"
	"io/fs"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ActionStatus is the state of one corrective action on one file.
type ActionStatus string

const (
	ActionSkipped ActionStatus = "skipped"
	ActionPlanned ActionStatus = "planned"
	ActionDone    ActionStatus = "done"
	ActionFailed  ActionStatus = "failed"
)

// Status is the terminal state of one file.
type Status string

const (
	StatusOK     Status = "ok"
	StatusWarned Status = "warned"
	StatusFailed Status = "failed"
)

// WarnNoDate is recorded when neither source had a timestamp.
const WarnNoDate = "no date found"

var errNoEngine = errors.New("no tag engine configured")

// Outcome is the result of processing one file. A file with errors is still
// considered processed.
type Outcome struct {
	Record   MediaFileRecord
	Resolved ResolvedDate
	Tag      ActionStatus
	Mtime    ActionStatus
	Warnings []string
	Errors   []error
}

// Err combines all errors recorded for the file.
func (o Outcome) Err() error {
	return multierr.Combine(o.Errors...)
}

// Status reports failed if any action failed, warned if there were warnings
// and ok otherwise.
func (o Outcome) Status() Status {
	switch {
	case len(o.Errors) > 0:
		return StatusFailed
	case len(o.Warnings) > 0:
		return StatusWarned
	default:
		return StatusOK
	}
}

// ReconcilerOptions tune the Reconciler.
type ReconcilerOptions struct {
	// DryRun reports actions as planned without writing anything.
	DryRun bool
	// KeepBackup leaves the engine's pre-write backup next to the file.
	KeepBackup bool
}

// Reconciler applies a ResolvedDate to a file: it writes the embedded tag
// when needed and then sets the modification time.
type Reconciler struct {
	fs     afero.Fs
	engine TagEngine
	log    *zap.SugaredLogger
	opts   ReconcilerOptions
}

// NewReconciler creates a Reconciler.
func NewReconciler(fsys afero.Fs, engine TagEngine, log *zap.SugaredLogger, opts ReconcilerOptions) *Reconciler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Reconciler{fs: fsys, engine: engine, log: log, opts: opts}
}

// Apply runs the corrective actions for path. Failures are recorded on the
// returned Outcome; Apply itself never fails.
func (r *Reconciler) Apply(ctx context.Context, path string, rd ResolvedDate) Outcome {
	out := Outcome{
		Record:   MediaFileRecord{FilePath: path},
		Resolved: rd,
		Tag:      ActionSkipped,
		Mtime:    ActionSkipped,
	}

	if !rd.HasTimestamp() {
		out.Warnings = append(out.Warnings, WarnNoDate)
		r.log.Warnw("no date found", "path", path)
		return out
	}

	// The tag write rewrites the file, so it has to happen before the mtime is set.
	if rd.NeedsTagWrite {
		out.Tag = r.writeTag(ctx, path, rd, &out)
	}
	out.Mtime = r.writeMtime(path, rd, &out)

	return out
}

func (r *Reconciler) writeTag(ctx context.Context, path string, rd ResolvedDate, out *Outcome) ActionStatus {
	if r.opts.DryRun {
		r.log.Debugw("would write capture tag", "path", path, "time", rd.Timestamp)
		return ActionPlanned
	}

	err := errNoEngine
	if r.engine != nil {
		err = r.engine.WriteCaptureTime(ctx, path, rd.Timestamp)
	}
	if err != nil {
		// The backup stays on disk for manual recovery.
		out.Errors = append(out.Errors, &ActionError{Action: ActionTagWrite, Path: path, Err: err})
		r.log.Debugw("capture tag write failed", "path", path, "error", err)
		return ActionFailed
	}
	r.log.Debugw("wrote capture tag", "path", path, "time", rd.Timestamp)

	if !r.opts.KeepBackup {
		backup := path + BackupSuffix
		if err := r.fs.Remove(backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
			out.Errors = append(out.Errors, &ActionError{Action: ActionBackupCleanup, Path: backup, Err: err})
		}
	}
	return ActionDone
}

func (r *Reconciler) writeMtime(path string, rd ResolvedDate, out *Outcome) ActionStatus {
	if r.opts.DryRun {
		r.log.Debugw("would set modification time", "path", path, "time", rd.Timestamp, "source", rd.Source)
		return ActionPlanned
	}

	if err := r.fs.Chtimes(path, rd.Timestamp, rd.Timestamp); err != nil {
		out.Errors = append(out.Errors, &ActionError{Action: ActionMtimeWrite, Path: path, Err: err})
		r.log.Debugw("modification time update failed", "path", path, "error", err)
		return ActionFailed
	}
	r.log.Debugw("set modification time", "path", path, "time", rd.Timestamp, "source", rd.Source)
	return ActionDone
}
