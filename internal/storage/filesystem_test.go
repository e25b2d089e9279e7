package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalogpix/internal/domain/fault"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return s
}

func TestNewFileStoreCreatesSubtrees(t *testing.T) {
	base := t.TempDir()
	if _, err := NewFileStore(base); err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	for _, dir := range []string{"originals", "renditions"} {
		if _, err := os.Stat(filepath.Join(base, dir)); err != nil {
			t.Fatalf("expected %s subtree: %v", dir, err)
		}
	}
}

func TestNewFileStoreRequiresBasePath(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatal("NewFileStore(blank) succeeded, want error")
	}
}

func TestWriteReadDeleteRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key, err := s.Write(ctx, "originals/test.jpg", []byte("payload"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if key != "originals/test.jpg" {
		t.Fatalf("Write() key = %q", key)
	}
	if !s.Exists(ctx, key) {
		t.Fatal("Exists() = false after write")
	}

	data, err := s.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("Read() = %q", data)
	}

	removed, err := s.Delete(ctx, key)
	if err != nil || !removed {
		t.Fatalf("Delete() = (%v, %v), want (true, nil)", removed, err)
	}
	if s.Exists(ctx, key) {
		t.Fatal("Exists() = true after delete")
	}

	removed, err = s.Delete(ctx, key)
	if err != nil || removed {
		t.Fatalf("second Delete() = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestReadMissingKeyIsNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Read(context.Background(), "originals/absent.jpg")
	if !fault.Is(err, fault.KindNotFound) {
		t.Fatalf("Read() error = %v, want not-found fault", err)
	}
}

func TestWriteRejectsTraversalKeys(t *testing.T) {
	s := newTestStore(t)
	for _, key := range []string{"", "   ", "../escape.jpg", "a/../../escape.jpg"} {
		if _, err := s.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("Write(%q) succeeded, want error", key)
		}
	}
}

func TestOriginalKey(t *testing.T) {
	key := OriginalKey("Photo.JPG")
	if !strings.HasPrefix(key, "originals/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("OriginalKey() = %q", key)
	}
	if key == OriginalKey("Photo.JPG") {
		t.Fatal("OriginalKey() is not collision-free across calls")
	}
}

func TestRenditionKey(t *testing.T) {
	if got := RenditionKey(42, "thumb"); got != "renditions/42_thumb.jpg" {
		t.Fatalf("RenditionKey() = %q", got)
	}
}
