package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photogram/backend/internal/apperrors"
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestStoreAndDelete(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	header := uploadHeader(t, "photo.JPG", []byte("fake image bytes"))

	filename, err := store.Store(header, ImageExtensions, 1024, "posts")
	require.NoError(t, err)
	assert.NotEqual(t, "photo.JPG", filename)
	assert.Equal(t, ".jpg", filepath.Ext(filename))

	data, err := os.ReadFile(filepath.Join(store.root, "posts", filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), data)

	require.NoError(t, store.Delete(filename, "posts"))
	_, err = os.Stat(filepath.Join(store.root, "posts", filename))
	assert.True(t, os.IsNotExist(err))
}

func TestStoreRejectsWrongExtension(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	header := uploadHeader(t, "script.exe", []byte("nope"))

	_, err := store.Store(header, ImageExtensions, 1024, "posts")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
}

func TestStoreRejectsOversizedFile(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	header := uploadHeader(t, "big.png", bytes.Repeat([]byte("x"), 64))

	_, err := store.Store(header, ImageExtensions, 32, "posts")
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
}

func TestDeleteMissingFile(t *testing.T) {
	store := NewDiskStore(t.TempDir())
	assert.NoError(t, store.Delete("gone.jpg", "posts"))
	assert.NoError(t, store.Delete("", "posts"))
}

func TestMediaTypeFor(t *testing.T) {
	mt, err := MediaTypeFor("clip.MP4")
	require.NoError(t, err)
	assert.Equal(t, "video", mt)

	mt, err = MediaTypeFor("pic.png")
	require.NoError(t, err)
	assert.Equal(t, "image", mt)

	_, err = MediaTypeFor("notes.txt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileType)
}
