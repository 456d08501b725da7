package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commerce-service/internal/models"
)

func multipartFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, name := range names {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["images"]
}

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	store, err := NewImageStore(t.TempDir(), 1<<20, logger)
	require.NoError(t, err)
	return store
}

func TestSaveUploadsPositionalKeys(t *testing.T) {
	store := newTestStore(t)

	images, err := store.SaveUploads(multipartFiles(t, "a.jpg", "b.png", "c.webp"))

	assert.NoError(t, err)
	assert.Len(t, images, 3)
	for _, key := range []string{"image1", "image2", "image3"} {
		path, ok := images[key]
		assert.True(t, ok, key)
		assert.Equal(t, ImageDirName, filepath.Dir(path))

		_, err := os.Stat(filepath.Join(store.Root(), path))
		assert.NoError(t, err)
	}
}

func TestSaveUploadsRejectsUnknownExtension(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveUploads(multipartFiles(t, "a.jpg", "evil.exe"))

	assert.Error(t, err)

	// the partial jpg written before the failure must be cleaned up
	entries, readErr := os.ReadDir(filepath.Join(store.Root(), ImageDirName))
	assert.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestDeleteIsBestEffort(t *testing.T) {
	store := newTestStore(t)

	images, err := store.SaveUploads(multipartFiles(t, "a.jpg"))
	assert.NoError(t, err)

	images["image2"] = filepath.Join(ImageDirName, "missing.png")

	failed := store.Delete(images)

	assert.Equal(t, 1, failed)
	_, statErr := os.Stat(filepath.Join(store.Root(), images["image1"]))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteEmptyMap(t *testing.T) {
	store := newTestStore(t)

	assert.Equal(t, 0, store.Delete(models.ImageMap{}))
	assert.Equal(t, 0, store.Delete(nil))
}
