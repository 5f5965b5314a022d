package images

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mhutchins/feedboard/internal/domain"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewDiskStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return store
}

func TestSave(t *testing.T) {
	tests := []struct {
		contentType string
		wantExt     string
	}{
		{"image/png", ".png"},
		{"image/jpg", ".jpg"},
		{"image/jpeg", ".jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			store := newTestStore(t)

			ref, err := store.Save(strings.NewReader("fake image bytes"), tt.contentType)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if !strings.HasPrefix(ref, store.Dir()+"/") || !strings.HasSuffix(ref, tt.wantExt) {
				t.Errorf("ref = %q, want %s/<name>%s", ref, store.Dir(), tt.wantExt)
			}

			data, err := os.ReadFile(filepath.FromSlash(ref))
			if err != nil {
				t.Fatalf("read stored file: %v", err)
			}
			if string(data) != "fake image bytes" {
				t.Errorf("stored bytes = %q", data)
			}
		})
	}
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(strings.NewReader("<svg/>"), "image/svg+xml")
	if !errors.Is(err, domain.ErrUnsupportedImage) {
		t.Fatalf("err = %v, want ErrUnsupportedImage", err)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("a file was written for a rejected type")
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Save(strings.NewReader("bytes"), "image/png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Remove(ref); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.FromSlash(ref)); !os.IsNotExist(err) {
		t.Errorf("file still exists after Remove")
	}

	// Removing again is not an error: a missing blob counts as removed.
	if err := store.Remove(ref); err != nil {
		t.Errorf("Remove of missing file: %v", err)
	}
	if err := store.Remove(""); err != nil {
		t.Errorf("Remove of empty ref: %v", err)
	}
}

func TestRemoveRefusesOutsideReferences(t *testing.T) {
	store := newTestStore(t)

	outside := filepath.Join(t.TempDir(), "victim.txt")
	if err := os.WriteFile(outside, []byte("data"), 0o644); err != nil {
		t.Fatalf("write victim file: %v", err)
	}

	if err := store.Remove(outside); err == nil {
		t.Fatal("Remove accepted a reference outside the image directory")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Errorf("outside file was deleted")
	}
}
