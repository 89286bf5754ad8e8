package dataset

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// SaveOptions holds format-specific encoding parameters.
type SaveOptions struct {
	JPEGQuality int
	WebPQuality int
}

// DefaultSaveOptions favors high quality output for training data.
func DefaultSaveOptions() SaveOptions {
	return SaveOptions{JPEGQuality: 95, WebPQuality: 95}
}

// Load decodes an image from disk. WebP is handled explicitly because
// imaging's registered decoders don't cover every encoder variant.
func Load(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, 0); err != nil {
			return nil, fmt.Errorf("failed to rewind %s: %w", path, err)
		}
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// Save encodes an image to disk, choosing the format from the destination
// extension. The parent directory is created if needed. Metadata from the
// source is not carried over; re-encoding strips it.
func Save(img image.Image, path string, opts SaveOptions) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		if err := webp.Encode(f, img, &webp.Options{Quality: float32(opts.WebPQuality)}); err != nil {
			return fmt.Errorf("failed to encode WebP: %w", err)
		}
		return nil
	case ".jpg", ".jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(opts.JPEGQuality))
	default:
		// png, gif, tif, bmp are handled by imaging's extension dispatch.
		return imaging.Save(img, path)
	}
}
