// Package uploader ships case directories to object storage.
package uploader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"sqlsim/internal/config"
)

// Uploader uploads a case directory and returns where it landed.
type Uploader interface {
	Enabled() bool
	UploadDir(ctx context.Context, dir string) (string, error)
}

// NoopUploader is used when no storage backend is configured.
type NoopUploader struct{}

// Enabled implements Uploader.
func (n NoopUploader) Enabled() bool {
	return false
}

// UploadDir implements Uploader.
func (n NoopUploader) UploadDir(ctx context.Context, dir string) (string, error) {
	return "", nil
}

// FromConfig picks the configured backend. GCS wins when both are enabled.
func FromConfig(storage config.StorageConfig) (Uploader, error) {
	switch {
	case storage.GCS.Enabled:
		return NewGCS(storage.GCS)
	case storage.S3.Enabled:
		return NewS3(storage.S3)
	default:
		return NoopUploader{}, nil
	}
}

// objectPrefix normalizes a configured key prefix to "" or "a/b/".
func objectPrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// uploadFiles calls put for each regular file directly under dir with the
// object key prefix+base(dir)+"/"+name, and returns prefix+base(dir).
func uploadFiles(dir string, prefix string, put func(path, key string) error) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	root := objectPrefix(prefix) + filepath.Base(dir)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := put(filepath.Join(dir, entry.Name()), root+"/"+entry.Name()); err != nil {
			return "", err
		}
	}
	return root, nil
}
