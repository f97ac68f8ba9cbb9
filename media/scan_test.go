package media

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func TestScanTags(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/t/tagged.jpg", "jpeg")
	writeFile(t, fsys, "/t/fixable.jpg", "jpeg")
	writeFile(t, fsys, "/t/fixable.jpg.json", sidecarJSON("1609459200"))
	writeFile(t, fsys, "/t/lost.jpg", "jpeg")
	writeFile(t, fsys, "/t/broken.jpg", "jpeg")
	writeFile(t, fsys, "/t/clip.mp4", "mp4")

	engine := newFakeEngine(fsys)
	engine.tags["/t/tagged.jpg"] = may2019
	engine.readErr["/t/broken.jpg"] = errors.New("truncated file")

	records, err := NewDiscoverer(fsys, nil, DefaultExtensions()).Discover("/t")
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	scan, err := ScanTags(context.Background(), NewExtractor(fsys, engine, nil), records, func() { calls++ })
	if err != nil {
		t.Fatal(err)
	}

	if scan.Checked != 4 || scan.Tagged != 1 || scan.Missing != 2 || scan.Fixable != 1 || scan.Unreadable != 1 {
		t.Errorf("Unexpected scan: %+v", scan)
	}
	if calls != 4 {
		t.Errorf("progress called %d times, want 4", calls)
	}
	if len(scan.MissingFiles) != 2 || scan.MissingFiles[0] != "/t/fixable.jpg" || scan.MissingFiles[1] != "/t/lost.jpg" {
		t.Errorf("MissingFiles = %v", scan.MissingFiles)
	}
	if engine.writeCount() != 0 {
		t.Error("Scanning must not write")
	}
}

func TestScanTags_Cancelled(t *testing.T) {
	fsys := afero.NewMemMapFs()
	engine := newFakeEngine(fsys)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []MediaFileRecord{{FilePath: "/t/a.jpg", SupportsEmbeddedTag: true}}
	if _, err := ScanTags(ctx, NewExtractor(fsys, engine, nil), records, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
