// Package blobstore stores product images on the local filesystem under the
// application workdir and addresses them by URL path, mirroring the contract
// of a managed blob store: upload returns a serving URL, delete takes one.
package blobstore

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/random"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// URLPrefix is the path under which stored images are served.
const URLPrefix = "/images"

var allowedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// Store is a filesystem-backed image store rooted at <workdir>/images.
type Store struct {
	root    string
	maxSize int64
}

// NewStore creates the images directory if needed. maxSizeMB bounds uploads;
// zero means 5 MB.
func NewStore(workdir string, maxSizeMB int64) (*Store, error) {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	root := filepath.Join(workdir, "images")
	if err := os.MkdirAll(filepath.Join(root, "products"), 0o755); err != nil {
		return nil, errors.Wrap(err, "blobstore: create image dir")
	}
	return &Store{root: root, maxSize: maxSizeMB << 20}, nil
}

// Root returns the directory images are stored under, for static serving.
func (s *Store) Root() string {
	return s.root
}

// SaveProductImage writes an uploaded image and returns its serving URL path,
// shaped products/<unix-ms>_<random>.<ext>.
func (s *Store) SaveProductImage(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return "", errors.Errorf("blobstore: unsupported image type %q", ext)
	}
	if fh.Size > s.maxSize {
		return "", errors.Errorf("blobstore: image exceeds %d bytes", s.maxSize)
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "blobstore: open upload")
	}
	defer src.Close()

	name := fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), random.String(8), ext)
	rel := path.Join("products", name)
	dst, err := os.Create(filepath.Join(s.root, "products", name))
	if err != nil {
		return "", errors.Wrap(err, "blobstore: create image file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", errors.Wrap(err, "blobstore: write image")
	}

	return path.Join(URLPrefix, rel), nil
}

// Delete removes the image addressed by a URL previously returned from
// SaveProductImage. Unknown or already-removed URLs are not an error; the
// caller is usually tearing down a record and must not be blocked.
func (s *Store) Delete(imageURL string) {
	rel, ok := strings.CutPrefix(imageURL, URLPrefix+"/")
	if !ok || rel == "" {
		return
	}
	rel = filepath.Clean(rel)
	if strings.HasPrefix(rel, "..") {
		return
	}
	if err := os.Remove(filepath.Join(s.root, rel)); err != nil && !os.IsNotExist(err) {
		zap.L().Warn("failed to delete image", zap.String("url", imageURL), zap.Error(err))
	}
}
