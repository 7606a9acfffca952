package storage

import (
	"context"

	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStore(dir, "https://admobility.example/")

	url, err := s.Save(context.Background(), "owner-1_1700000000000.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://admobility.example/uploads/owner-1_1700000000000.jpg", url)

	body, err := os.ReadFile(filepath.Join(dir, "owner-1_1700000000000.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	s := NewDiskStore(t.TempDir(), "https://admobility.example")
	for _, key := range []string{"", "../escape.jpg", "a/b.jpg"} {
		_, err := s.Save(context.Background(), key, strings.NewReader("x"))
		assert.Error(t, err, "key %q", key)
	}
}

func TestImageKey(t *testing.T) {
	key := ImageKey("owner-9", "photo.JPG")
	assert.True(t, strings.HasPrefix(key, "owner-9_"))
	assert.True(t, strings.HasSuffix(key, ".JPG"))

	noExt := ImageKey("owner-9", "photo")
	assert.True(t, strings.HasSuffix(noExt, ".bin"))
}
