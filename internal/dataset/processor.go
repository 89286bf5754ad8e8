package dataset

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/loraforge/loraprep/internal/geometry"
)

// ProcessConfig holds the parameters of one batch run.
type ProcessConfig struct {
	// TargetWidth and TargetHeight are the canonical output resolution.
	TargetWidth  int
	TargetHeight int

	// Constraints are applied before cropping or letterboxing.
	Constraints geometry.Constraints

	// Letterbox pads to the target aspect instead of cropping.
	Letterbox bool
	Fill      color.NRGBA

	Resample  geometry.Resample
	Overwrite bool
	DryRun    bool
	Save      SaveOptions
}

// Processor runs the scale/crop/letterbox pipeline over a set of images.
type Processor struct {
	Config ProcessConfig
}

// NewProcessor creates a processor, filling in default quality and fill color.
func NewProcessor(cfg ProcessConfig) *Processor {
	if cfg.Save.JPEGQuality == 0 {
		cfg.Save.JPEGQuality = 95
	}
	if cfg.Save.WebPQuality == 0 {
		cfg.Save.WebPQuality = 95
	}
	if cfg.Fill == (color.NRGBA{}) {
		cfg.Fill = color.NRGBA{A: 255} // black
	}
	return &Processor{Config: cfg}
}

// Transform applies the configured pipeline to a decoded image: constrain
// within bounds, then either letterbox to the exact target size or
// center-crop to the target aspect and resize.
func (p *Processor) Transform(img image.Image) (image.Image, error) {
	cfg := p.Config

	img, err := geometry.ResizeWithinBounds(img, cfg.Constraints, cfg.Resample)
	if err != nil {
		return nil, err
	}

	if cfg.Letterbox {
		return geometry.LetterboxToAspect(img, cfg.TargetWidth, cfg.TargetHeight, cfg.Fill, cfg.Resample)
	}

	aspect := float64(cfg.TargetWidth) / float64(cfg.TargetHeight)
	cropped, err := geometry.CenterCropToAspect(img, aspect)
	if err != nil {
		return nil, err
	}
	return geometry.ResizeToExact(cropped, cfg.TargetWidth, cfg.TargetHeight, cfg.Resample)
}

// ProcessFile runs the pipeline for a single image file. It reports whether
// the destination was written (false when skipped by overwrite policy or in
// dry-run mode).
func (p *Processor) ProcessFile(srcPath, destPath string) (bool, error) {
	if !p.Config.Overwrite {
		if _, err := os.Stat(destPath); err == nil {
			log.Debug().Str("dest", destPath).Msg("Destination exists, skipping")
			return false, nil
		}
	}

	img, err := Load(srcPath)
	if err != nil {
		return false, err
	}

	result, err := p.Transform(img)
	if err != nil {
		return false, err
	}

	if p.Config.DryRun {
		b := result.Bounds()
		log.Info().
			Str("src", srcPath).
			Str("dest", destPath).
			Int("width", b.Dx()).
			Int("height", b.Dy()).
			Msg("Dry run, not writing")
		return false, nil
	}

	if err := Save(result, destPath, p.Config.Save); err != nil {
		return false, err
	}
	return true, nil
}

// BatchStats summarizes a batch run.
type BatchStats struct {
	Processed int
	Skipped   int
	Failed    int
}

// ProcessBatch runs the pipeline over a file or directory of images, writing
// outputs under outputDir with the source file names. A failing item is
// logged and does not abort the rest of the batch.
func (p *Processor) ProcessBatch(inputPath, outputDir string) (BatchStats, error) {
	files, err := ListImages(inputPath)
	if err != nil {
		return BatchStats{}, err
	}
	if err := EnsureDir(outputDir); err != nil {
		return BatchStats{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	var stats BatchStats
	for _, src := range files {
		dest := filepath.Join(outputDir, filepath.Base(src))
		written, err := p.ProcessFile(src, dest)
		if err != nil {
			log.Error().Err(err).Str("src", src).Msg("Failed to process image")
			stats.Failed++
			continue
		}
		if written {
			log.Info().Str("src", src).Str("dest", dest).Msg("Processed")
			stats.Processed++
		} else {
			stats.Skipped++
		}
	}

	return stats, nil
}
