package media

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// fakeEngine keeps capture tags in memory and mimics exiftool's side effects:
// a write leaves path+"_original" behind and touches the file's mtime.
type fakeEngine struct {
	fs afero.Fs

	mu       sync.Mutex
	tags     map[string]time.Time
	readErr  map[string]error
	writeErr map[string]error
	writes   []string
	reads    int
	inFlight map[string]bool
	overlap  bool

	// beforeRead runs at the start of every read, outside the engine lock.
	beforeRead func(path string)
}

func newFakeEngine(fsys afero.Fs) *fakeEngine {
	return &fakeEngine{
		fs:       fsys,
		tags:     make(map[string]time.Time),
		readErr:  make(map[string]error),
		writeErr: make(map[string]error),
		inFlight: make(map[string]bool),
	}
}

func (f *fakeEngine) enter(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight[path] {
		f.overlap = true
	}
	f.inFlight[path] = true
}

func (f *fakeEngine) leave(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inFlight, path)
}

func (f *fakeEngine) ReadCaptureTime(ctx context.Context, path string) (time.Time, bool, error) {
	if f.beforeRead != nil {
		f.beforeRead(path)
	}
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}

	f.enter(path)
	defer f.leave(path)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if err := f.readErr[path]; err != nil {
		return time.Time{}, false, err
	}
	t, ok := f.tags[path]
	return t, ok, nil
}

func (f *fakeEngine) WriteCaptureTime(ctx context.Context, path string, t time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.enter(path)
	defer f.leave(path)

	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(f.fs, path+BackupSuffix, data, 0o644); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.writeErr[path]; err != nil {
		return err
	}
	f.tags[path] = t
	f.writes = append(f.writes, path)

	now := time.Now()
	return f.fs.Chtimes(path, now, now)
}

func (f *fakeEngine) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

func sidecarJSON(ts string) string {
	return `{"title":"x","photoTakenTime":{"timestamp":"` + ts + `","formatted":"whatever"}}`
}

func modTime(t *testing.T, fsys afero.Fs, path string) time.Time {
	t.Helper()
	fi, err := fsys.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	return fi.ModTime()
}

func exists(t *testing.T, fsys afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fsys, path)
	if err != nil {
		t.Fatalf("Failed to check %s: %v", path, err)
	}
	return ok
}

// removeFailFs fails every Remove.
type removeFailFs struct {
	afero.Fs
}

var errRemoveDenied = errors.New("remove denied")

func (removeFailFs) Remove(string) error { return errRemoveDenied }

var (
	newYear2021 = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	may2019     = time.Date(2019, 5, 1, 10, 0, 0, 0, time.UTC)
)
