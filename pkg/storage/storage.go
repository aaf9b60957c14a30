package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/photogram/backend/internal/apperrors"
)

// Allowed upload extensions by media kind.
var (
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	VideoExtensions = []string{".mp4", ".mov", ".avi", ".webm", ".mkv"}
)

// BlobStore validates and persists uploaded media and deletes it again.
type BlobStore interface {
	Store(file *multipart.FileHeader, allowed []string, maxSize int64, folder string) (string, error)
	Delete(filename, folder string) error
}

// DiskStore is a BlobStore backed by a local directory tree, one subfolder
// per entity kind.
type DiskStore struct {
	root string
}

// NewDiskStore creates a DiskStore rooted at the given directory.
func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// Store validates the upload and writes it under root/folder with a
// generated unique filename, which it returns.
func (s *DiskStore) Store(file *multipart.FileHeader, allowed []string, maxSize int64, folder string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !extAllowed(ext, allowed) {
		return "", fmt.Errorf("%w: %s (allowed: %s)", apperrors.ErrInvalidFileType, ext, strings.Join(allowed, ", "))
	}
	if file.Size > maxSize {
		return "", fmt.Errorf("%w: maximum size is %dMB", apperrors.ErrFileTooLarge, maxSize/(1024*1024))
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := uuid.NewString() + ext
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filename, nil
}

// Delete removes a stored file. A missing file is not an error; the sweep
// jobs may race with manual deletes.
func (s *DiskStore) Delete(filename, folder string) error {
	if filename == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, folder, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MediaTypeFor reports "image" or "video" for a filename, or an error for an
// extension outside both allow-lists.
func MediaTypeFor(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if extAllowed(ext, ImageExtensions) {
		return "image", nil
	}
	if extAllowed(ext, VideoExtensions) {
		return "video", nil
	}
	return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidFileType, ext)
}

func extAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
