package media

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is matched by *EmptyInputError.
	ErrEmptyInput = errors.New("directory tree contains no files")
	// ErrRootNotFound means the root directory does not exist.
	ErrRootNotFound = errors.New("root directory does not exist")
	// ErrRootNotDir means the root path is not a directory.
	ErrRootNotDir = errors.New("root path is not a directory")
)

// EmptyInputError is returned by discovery when the tree holds no files of
// any kind. A tree with only unsupported files is not empty.
type EmptyInputError struct {
	Root string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("the directory %s is empty, so there is no work to do; check that the export has been fully extracted", e.Root)
}

func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// TagReadError is a failure to read the embedded tag, as opposed to the tag
// being absent.
type TagReadError struct {
	Path string
	Err  error
}

func (e *TagReadError) Error() string {
	return fmt.Sprintf("failed to read capture tag of %s: %v", e.Path, e.Err)
}

func (e *TagReadError) Unwrap() error { return e.Err }

// Action names a corrective write.
type Action string

const (
	ActionTagWrite      Action = "tag-write"
	ActionBackupCleanup Action = "backup-cleanup"
	ActionMtimeWrite    Action = "mtime-write"
)

// ActionError is a failed corrective write on one file.
type ActionError struct {
	Action Action
	Path   string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Action, e.Path, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// IsFatal reports whether err must abort a whole run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrRootNotFound) || errors.Is(err, ErrRootNotDir)
}
