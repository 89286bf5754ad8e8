package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/loraforge/loraprep/internal/caption"
)

var (
	captionInput     string
	captionOutput    string
	captionPrompt    string
	captionModel     string
	captionHost      string
	captionMaxTokens int
	captionOverwrite bool
)

var captionCmd = &cobra.Command{
	Use:   "caption",
	Short: "Caption images with a vision model",
	Long: `Caption every image with an Ollama vision model and write the result as
a .txt sidecar named after the image stem, the layout LoRA trainers expect.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := caption.Options{
			Host:         cfg.Caption.Host,
			Model:        cfg.Caption.Model,
			MaxTokens:    cfg.Caption.MaxTokens,
			SystemPrompt: cfg.Caption.SystemPrompt,
			UserPrompt:   cfg.Caption.UserPrompt,
		}
		if captionHost != "" {
			opts.Host = captionHost
		}
		if captionModel != "" {
			opts.Model = captionModel
		}
		if captionMaxTokens > 0 {
			opts.MaxTokens = captionMaxTokens
		}
		if captionPrompt != "" {
			opts.UserPrompt = captionPrompt
		}

		client, err := caption.NewClient(opts)
		if err != nil {
			return err
		}

		stats, err := client.CaptionBatch(cmd.Context(), captionInput, captionOutput, captionOverwrite)
		if err != nil {
			return err
		}

		log.Info().
			Int("captioned", stats.Captioned).
			Int("skipped", stats.Skipped).
			Int("failed", stats.Failed).
			Msg("Captioning complete")
		if stats.Failed > 0 {
			return fmt.Errorf("%d image(s) failed", stats.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(captionCmd)

	captionCmd.Flags().StringVarP(&captionInput, "input", "i", "", "Image file or directory (required)")
	captionCmd.Flags().StringVarP(&captionOutput, "output", "o", "", "Directory for caption .txt files (required)")
	captionCmd.Flags().StringVarP(&captionPrompt, "prompt", "p", "", "Override the captioning prompt")
	captionCmd.Flags().StringVarP(&captionModel, "model", "m", "", "Override the vision model name")
	captionCmd.Flags().StringVar(&captionHost, "host", "", "Override the Ollama server URL")
	captionCmd.Flags().IntVar(&captionMaxTokens, "max-tokens", 0, "Override the caption token limit")
	captionCmd.Flags().BoolVar(&captionOverwrite, "overwrite", true, "Overwrite existing caption files")

	captionCmd.MarkFlagRequired("input")
	captionCmd.MarkFlagRequired("output")
}
