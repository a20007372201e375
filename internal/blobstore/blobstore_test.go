package blobstore

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestSaveAndDeleteProductImage(t *testing.T) {
	store, err := NewStore(t.TempDir(), 5)
	require.NoError(t, err)

	url, err := store.SaveProductImage(makeFileHeader(t, "soap.png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, URLPrefix+"/products/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	rel := strings.TrimPrefix(url, URLPrefix+"/")
	onDisk := filepath.Join(store.Root(), rel)
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	store.Delete(url)
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// deleting again must stay silent
	store.Delete(url)
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	store, err := NewStore(t.TempDir(), 5)
	require.NoError(t, err)

	_, err = store.SaveProductImage(makeFileHeader(t, "soap.gif", []byte("gif-bytes")))
	assert.Error(t, err)
}

func TestSaveRejectsOversizedImage(t *testing.T) {
	store, err := NewStore(t.TempDir(), 1)
	require.NoError(t, err)

	_, err = store.SaveProductImage(makeFileHeader(t, "big.jpg", bytes.Repeat([]byte("x"), (1<<20)+1)))
	assert.Error(t, err)
}

func TestDeleteIgnoresForeignURLs(t *testing.T) {
	store, err := NewStore(t.TempDir(), 5)
	require.NoError(t, err)

	store.Delete("https://example.com/elsewhere.png")
	store.Delete(URLPrefix + "/../../etc/passwd")
	store.Delete("")
}

// A record-write failure after upload leaves the stored blob behind. The
// upload itself gives no handle for cleanup beyond the returned URL, so the
// caller owns the rollback; this pins the behavior down.
func TestSaveLeavesBlobUntilDeleted(t *testing.T) {
	store, err := NewStore(t.TempDir(), 5)
	require.NoError(t, err)

	url, err := store.SaveProductImage(makeFileHeader(t, "orphan.webp", []byte("webp-bytes")))
	require.NoError(t, err)

	rel := strings.TrimPrefix(url, URLPrefix+"/")
	_, err = os.Stat(filepath.Join(store.Root(), rel))
	require.NoError(t, err)
}
