// Package uploader pushes prepared training sets (images and caption
// sidecars) to S3-compatible remote storage.
package uploader

import (
	"context"
	"io"
	"path/filepath"
)

// Uploader is the interface to a remote dataset store.
type Uploader interface {
	// Upload stores content under key with the given MIME type.
	Upload(ctx context.Context, key string, content io.Reader, contentType string) error

	// Exists reports whether an object is already stored at key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL of an uploaded object.
	GetURL(key string) string

	// Delete removes an object from remote storage.
	Delete(ctx context.Context, key string) error
}

// DetectContentType maps a dataset file extension to its MIME type. Besides
// the image formats, training sets carry .txt caption sidecars and the
// occasional metadata file.
func DetectContentType(filename string) string {
	switch filepath.Ext(filename) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}
