package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/loraforge/loraprep/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "loraprep",
	Short: "LoRA training-set preparation toolkit",
	Long: `A CLI tool to prepare image datasets for LoRA fine-tuning:
scale and crop images to canonical training resolutions, letterbox instead of
cropping when borders are preferred, caption images with a vision model,
batch-rename files, and upload finished sets to S3-compatible storage.`,
}

var (
	cfg     *config.Config
	cfgFile string
	envFile string
	debug   bool
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to .env file to load before running commands")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to YAML config file (defaults are used when omitted)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupLogging(debug)

		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file '%s': %w", envFile, err)
			}
		}

		if cfgFile != "" {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = config.Default()
		}
		return nil
	}
}
