package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/loraforge/loraprep/internal/dataset"
	"github.com/loraforge/loraprep/internal/geometry"
)

var (
	cropInput     string
	cropOutput    string
	cropShape     string
	cropOverwrite bool
	cropDryRun    bool
	cropResample  string
)

var cropCmd = &cobra.Command{
	Use:   "crop",
	Short: "Center-crop images to a target shape",
	Long: `Automated center-cropping: crop each image symmetrically to the target
aspect ratio, then resize it to the canonical resolution for that shape.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := cfg.ResolveShape(cropShape)
		if err != nil {
			return err
		}

		resample, err := geometry.ParseResample(resolveResample(cropResample))
		if err != nil {
			return err
		}

		processor := dataset.NewProcessor(dataset.ProcessConfig{
			TargetWidth:  shape.Width,
			TargetHeight: shape.Height,
			Resample:     resample,
			Overwrite:    cropOverwrite || cfg.Behavior.Overwrite,
			DryRun:       cropDryRun || cfg.Behavior.DryRun,
			Save: dataset.SaveOptions{
				JPEGQuality: cfg.Behavior.JPEGQuality,
				WebPQuality: cfg.Behavior.WebPQuality,
			},
		})

		stats, err := processor.ProcessBatch(cropInput, cropOutput)
		if err != nil {
			return err
		}

		log.Info().
			Int("processed", stats.Processed).
			Int("skipped", stats.Skipped).
			Int("failed", stats.Failed).
			Msg("Crop complete")
		if stats.Failed > 0 {
			return fmt.Errorf("%d image(s) failed", stats.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cropCmd)

	cropCmd.Flags().StringVarP(&cropInput, "input", "i", "", "Image file or directory (required)")
	cropCmd.Flags().StringVarP(&cropOutput, "output", "o", "", "Output directory (required)")
	cropCmd.Flags().StringVarP(&cropShape, "shape", "s", "", "Target shape label, e.g. 1:1, 3:4, 16:9 (required)")
	cropCmd.Flags().BoolVar(&cropOverwrite, "overwrite", false, "Overwrite existing output files")
	cropCmd.Flags().BoolVar(&cropDryRun, "dry-run", false, "Log planned outputs without writing")
	cropCmd.Flags().StringVar(&cropResample, "resample", "", "Resample method: nearest, bilinear, bicubic or lanczos")

	cropCmd.MarkFlagRequired("input")
	cropCmd.MarkFlagRequired("output")
	cropCmd.MarkFlagRequired("shape")
}
