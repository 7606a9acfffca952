// Package storage persists uploaded vehicle images and hands back public
// URLs. The interface mirrors an object store's upload-then-URL contract;
// the shipped implementation writes to local disk served under /uploads.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BlobStore saves a blob under a key and returns its public URL.
type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
}

// DiskStore writes blobs beneath Dir and prefixes BaseURL/uploads to the key
// for the public URL.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Save streams the blob to disk. The key must not escape the upload
// directory.
func (s *DiskStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir uploads: %w", err)
	}
	f, err := os.Create(filepath.Join(s.Dir, key))
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		// Remove the partial file so a retry with the same key starts clean.
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	return s.BaseURL + "/uploads/" + key, nil
}

// ImageKey derives the storage key for a vehicle image:
// {owner_id}_{timestamp}.{ext}.
func ImageKey(ownerID, filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s_%d.%s", ownerID, time.Now().UnixMilli(), ext)
}
