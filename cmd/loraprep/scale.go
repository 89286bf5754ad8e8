package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/loraforge/loraprep/internal/dataset"
	"github.com/loraforge/loraprep/internal/geometry"
)

var (
	scaleInput        string
	scaleOutput       string
	scaleShape        string
	scaleMinWidth     int
	scaleMinHeight    int
	scaleMaxWidth     int
	scaleMaxHeight    int
	scaleAllowUpscale bool
	scaleLetterbox    bool
	scaleFill         string
	scaleOverwrite    bool
	scaleDryRun       bool
	scaleResample     string
)

var scaleCmd = &cobra.Command{
	Use:   "scale",
	Short: "Scale and crop or letterbox images to a target shape",
	Long: `Scale images to a canonical training resolution. Each image is first
constrained within the optional min/max bounds, then either center-cropped to
the target aspect ratio and resized exactly, or letterboxed onto a padded
canvas when --letterbox is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := cfg.ResolveShape(scaleShape)
		if err != nil {
			return err
		}

		resample, err := geometry.ParseResample(resolveResample(scaleResample))
		if err != nil {
			return err
		}

		fill, err := parseFillColor(scaleFill)
		if err != nil {
			return err
		}

		processor := dataset.NewProcessor(dataset.ProcessConfig{
			TargetWidth:  shape.Width,
			TargetHeight: shape.Height,
			Constraints: geometry.Constraints{
				MinWidth:     optDim(firstNonZero(scaleMinWidth, cfg.Constraints.MinWidth)),
				MinHeight:    optDim(firstNonZero(scaleMinHeight, cfg.Constraints.MinHeight)),
				MaxWidth:     optDim(firstNonZero(scaleMaxWidth, cfg.Constraints.MaxWidth)),
				MaxHeight:    optDim(firstNonZero(scaleMaxHeight, cfg.Constraints.MaxHeight)),
				AllowUpscale: scaleAllowUpscale,
			},
			Letterbox: scaleLetterbox,
			Fill:      fill,
			Resample:  resample,
			Overwrite: scaleOverwrite || cfg.Behavior.Overwrite,
			DryRun:    scaleDryRun || cfg.Behavior.DryRun,
			Save: dataset.SaveOptions{
				JPEGQuality: cfg.Behavior.JPEGQuality,
				WebPQuality: cfg.Behavior.WebPQuality,
			},
		})

		stats, err := processor.ProcessBatch(scaleInput, scaleOutput)
		if err != nil {
			return err
		}

		log.Info().
			Int("processed", stats.Processed).
			Int("skipped", stats.Skipped).
			Int("failed", stats.Failed).
			Msg("Scale complete")
		if stats.Failed > 0 {
			return fmt.Errorf("%d image(s) failed", stats.Failed)
		}
		return nil
	},
}

// optDim converts a flag value to the geometry package's optional dimension;
// zero means the flag was not given.
func optDim(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

// firstNonZero prefers the flag value over the configured default.
func firstNonZero(flag, cfg int) int {
	if flag != 0 {
		return flag
	}
	return cfg
}

// resolveResample falls back to the configured default when the flag is empty.
func resolveResample(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Behavior.Resample
}

// parseFillColor parses a "#RRGGBB" hex color. Empty means black.
func parseFillColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{A: 255}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid fill color %q, expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid fill color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func init() {
	rootCmd.AddCommand(scaleCmd)

	scaleCmd.Flags().StringVarP(&scaleInput, "input", "i", "", "Image file or directory (required)")
	scaleCmd.Flags().StringVarP(&scaleOutput, "output", "o", "", "Output directory (required)")
	scaleCmd.Flags().StringVarP(&scaleShape, "shape", "s", "", "Target shape label, e.g. 1:1, 3:4, 16:9 (required)")
	scaleCmd.Flags().IntVar(&scaleMinWidth, "min-width", 0, "Minimum width (upscales when --allow-upscale)")
	scaleCmd.Flags().IntVar(&scaleMinHeight, "min-height", 0, "Minimum height (upscales when --allow-upscale)")
	scaleCmd.Flags().IntVar(&scaleMaxWidth, "max-width", 0, "Maximum width")
	scaleCmd.Flags().IntVar(&scaleMaxHeight, "max-height", 0, "Maximum height")
	scaleCmd.Flags().BoolVar(&scaleAllowUpscale, "allow-upscale", true, "Permit upscaling to meet minimum bounds")
	scaleCmd.Flags().BoolVar(&scaleLetterbox, "letterbox", false, "Pad to target aspect instead of cropping")
	scaleCmd.Flags().StringVar(&scaleFill, "fill", "", "Letterbox fill color as #RRGGBB (default black)")
	scaleCmd.Flags().BoolVar(&scaleOverwrite, "overwrite", false, "Overwrite existing output files")
	scaleCmd.Flags().BoolVar(&scaleDryRun, "dry-run", false, "Log planned outputs without writing")
	scaleCmd.Flags().StringVar(&scaleResample, "resample", "", "Resample method: nearest, bilinear, bicubic or lanczos")

	scaleCmd.MarkFlagRequired("input")
	scaleCmd.MarkFlagRequired("output")
	scaleCmd.MarkFlagRequired("shape")
}
