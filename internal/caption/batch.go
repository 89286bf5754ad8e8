package caption

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/loraforge/loraprep/internal/dataset"
)

// BatchStats summarizes a captioning run.
type BatchStats struct {
	Captioned int
	Skipped   int
	Failed    int
}

// CaptionBatch captions every image under inputPath and writes a .txt
// sidecar per image into outputDir, named by the image stem. Existing
// sidecars are kept unless overwrite is set. A failing image is logged and
// does not abort the batch.
func (c *Client) CaptionBatch(ctx context.Context, inputPath, outputDir string, overwrite bool) (BatchStats, error) {
	files, err := dataset.ListImages(inputPath)
	if err != nil {
		return BatchStats{}, err
	}
	if err := dataset.EnsureDir(outputDir); err != nil {
		return BatchStats{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	var stats BatchStats
	for _, src := range files {
		base := filepath.Base(src)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		dest := filepath.Join(outputDir, stem+".txt")

		if !overwrite {
			if _, err := os.Stat(dest); err == nil {
				log.Debug().Str("dest", dest).Msg("Caption exists, skipping")
				stats.Skipped++
				continue
			}
		}

		data, err := os.ReadFile(src)
		if err != nil {
			log.Error().Err(err).Str("src", src).Msg("Failed to read image")
			stats.Failed++
			continue
		}

		text, err := c.Caption(ctx, data)
		if err != nil {
			log.Error().Err(err).Str("src", src).Msg("Failed to caption image")
			stats.Failed++
			continue
		}

		if err := os.WriteFile(dest, []byte(text+"\n"), 0644); err != nil {
			log.Error().Err(err).Str("dest", dest).Msg("Failed to write caption")
			stats.Failed++
			continue
		}

		log.Info().Str("src", src).Str("dest", dest).Msg("Captioned")
		stats.Captioned++
	}

	return stats, nil
}
