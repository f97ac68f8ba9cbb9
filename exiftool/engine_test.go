package exiftool

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func requireExiftool(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("exiftool"); err != nil {
		t.Skip("exiftool not available, skipping test")
	}
}

func TestEngine_RoundTrip(t *testing.T) {
	requireExiftool(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(path, encodeJPEG(t), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := NewEngine(Options{})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	defer e.Close()

	ctx := context.Background()
	if _, ok, err := e.ReadCaptureTime(ctx, path); err != nil || ok {
		t.Fatalf("Fresh JPEG should have no tag, got ok=%v err=%v", ok, err)
	}

	want := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := e.WriteCaptureTime(ctx, path, want); err != nil {
		t.Fatalf("WriteCaptureTime failed: %v", err)
	}

	if _, err := os.Stat(path + "_original"); err != nil {
		t.Errorf("Expected exiftool backup next to the file: %v", err)
	}

	got, ok, err := e.ReadCaptureTime(ctx, path)
	if err != nil || !ok || !got.Equal(want) {
		t.Errorf("ReadCaptureTime = %v, %v, %v; want %v", got, ok, err, want)
	}
}

func TestEngine_ReadMissingFile(t *testing.T) {
	requireExiftool(t)

	e, err := NewEngine(Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if _, _, err := e.ReadCaptureTime(context.Background(), filepath.Join(t.TempDir(), "gone.jpg")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestPool_WithExiftool(t *testing.T) {
	requireExiftool(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(path, encodeJPEG(t), 0o644); err != nil {
		t.Fatal(err)
	}

	p := Open(Options{Instances: 2, Location: time.UTC})
	defer p.Close()

	want := time.Date(2019, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := p.WriteCaptureTime(context.Background(), path, want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := p.ReadCaptureTime(context.Background(), path)
	if err != nil || !ok || !got.Equal(want) {
		t.Errorf("ReadCaptureTime = %v, %v, %v; want %v", got, ok, err, want)
	}
}
