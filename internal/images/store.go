package images

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mhutchins/feedboard/internal/domain"
)

// allowedTypes maps accepted upload MIME types to the stored file extension.
var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpg",
}

// DiskStore keeps uploaded images as files under a single directory. The
// reference handed out for a stored image is its slash-separated path
// relative to the process working directory, e.g. "images/<uuid>.png", which
// doubles as the public URL path the HTTP layer serves.
type DiskStore struct {
	dir    string
	logger *slog.Logger
}

// NewDiskStore creates the image directory if needed and returns a store
// over it.
func NewDiskStore(dir string, logger *slog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &DiskStore{dir: dir, logger: logger}, nil
}

// Dir returns the directory images are stored in.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes the payload to a fresh file and returns its reference.
// Payloads with a MIME type outside the allow-list are rejected softly with
// domain.ErrUnsupportedImage; nothing is written in that case.
func (s *DiskStore) Save(payload io.Reader, contentType string) (string, error) {
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", domain.ErrUnsupportedImage
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(f, payload); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close image file: %w", err)
	}

	ref := s.dir + "/" + name
	s.logger.Debug("image stored", "ref", ref, "type", contentType)
	return ref, nil
}

// Remove deletes the blob behind the reference. A missing file is treated as
// already removed. References pointing outside the image directory are
// refused.
func (s *DiskStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}

	path := filepath.Clean(filepath.FromSlash(ref))
	if !strings.HasPrefix(path, filepath.Clean(s.dir)+string(filepath.Separator)) {
		return fmt.Errorf("image reference %q is outside the image directory", ref)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
