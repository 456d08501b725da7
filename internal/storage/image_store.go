package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-service/internal/models"
)

// ImageDirName is the bucket directory under the upload root. Stored image
// paths are relative ("productImage/<name>") so the upload root can move
// between environments.
const ImageDirName = "productImage"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageStore writes uploaded product images to the local filesystem and
// keys them positionally (image1, image2, ...).
type ImageStore struct {
	root    string
	maxSize int64
	logger  *logrus.Logger
}

func NewImageStore(root string, maxSize int64, logger *logrus.Logger) (*ImageStore, error) {
	dir := filepath.Join(root, ImageDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &ImageStore{root: root, maxSize: maxSize, logger: logger}, nil
}

// SaveUploads stores each file under a random name and returns the image map
// with positional keys in upload order. On any failure the files already
// written are removed before returning.
func (s *ImageStore) SaveUploads(files []*multipart.FileHeader) (models.ImageMap, error) {
	images := make(models.ImageMap, len(files))
	var written []string

	cleanup := func() {
		for _, path := range written {
			if err := os.Remove(filepath.Join(s.root, path)); err != nil {
				s.logger.WithError(err).WithField("path", path).Warn("Failed to remove partial upload")
			}
		}
	}

	for i, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] {
			cleanup()
			return nil, fmt.Errorf("unsupported image type %q", ext)
		}
		if s.maxSize > 0 && fh.Size > s.maxSize {
			cleanup()
			return nil, fmt.Errorf("image %q exceeds the %d byte limit", fh.Filename, s.maxSize)
		}

		relPath := filepath.Join(ImageDirName, uuid.New().String()+ext)
		if err := s.writeFile(fh, filepath.Join(s.root, relPath)); err != nil {
			cleanup()
			return nil, err
		}

		written = append(written, relPath)
		images[fmt.Sprintf("image%d", i+1)] = relPath
	}

	return images, nil
}

func (s *ImageStore) writeFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// Delete removes stored images best-effort. Failures are logged and counted
// but never returned; callers must not abort a cascade on missing files.
func (s *ImageStore) Delete(images models.ImageMap) int {
	failed := 0
	for key, relPath := range images {
		if err := os.Remove(filepath.Join(s.root, relPath)); err != nil {
			failed++
			s.logger.WithError(err).WithFields(logrus.Fields{
				"key":  key,
				"path": relPath,
			}).Error("Failed to delete image file")
		}
	}
	return failed
}

// Root returns the upload root, used to serve stored files statically.
func (s *ImageStore) Root() string {
	return s.root
}
