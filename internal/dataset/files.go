// Package dataset handles the file side of training-set preparation:
// enumerating images, decoding and encoding them, sequential renaming, and
// the batch pipeline that drives the geometry operations.
package dataset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".gif":  true,
}

// IsImageFile reports whether the path has a supported image extension.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ListImages returns the image files under a path. A single image file
// yields itself; a directory is walked recursively. Results are sorted.
func ListImages(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input path: %w", err)
	}

	if !info.IsDir() {
		if !IsImageFile(path) {
			return nil, fmt.Errorf("%s is not a supported image file", path)
		}
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsImageFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk input directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// EnsureDir creates a directory if it does not exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
