package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/loraforge/loraprep/internal/uploader"
)

var (
	uploadInput    string
	uploadBucket   string
	uploadRegion   string
	uploadEndpoint string
	uploadBaseURL  string
	uploadPrefix   string
	uploadForce    bool
	uploadDryRun   bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a prepared dataset to remote storage (S3/R2)",
	Long: `Upload a prepared training set (images and caption sidecars) to
S3-compatible remote storage (AWS S3, Cloudflare R2, MinIO).

Credentials are read from environment variables:
  - R2_ACCESS_KEY_ID / AWS_ACCESS_KEY_ID
  - R2_SECRET_ACCESS_KEY / AWS_SECRET_ACCESS_KEY`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		region := uploadRegion
		if region == "" {
			region = cfg.Upload.Region
		}
		bucket := uploadBucket
		if bucket == "" {
			bucket = cfg.Upload.Bucket
		}
		if bucket == "" {
			return fmt.Errorf("bucket name is required (-b or upload.bucket in config)")
		}
		endpoint := uploadEndpoint
		if endpoint == "" {
			endpoint = cfg.Upload.Endpoint
		}
		prefix := uploadPrefix
		if prefix == "" {
			prefix = cfg.Upload.Prefix
		}

		var ul uploader.Uploader
		if !uploadDryRun {
			var err error
			ul, err = uploader.NewS3Uploader(ctx, uploader.S3Config{
				Endpoint: endpoint,
				Region:   region,
				Bucket:   bucket,
				BaseURL:  uploadBaseURL,
			})
			if err != nil {
				return err
			}
		}

		var uploaded, skipped, failed int
		err := filepath.WalkDir(uploadInput, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(uploadInput, path)
			if err != nil {
				return err
			}

			key := filepath.ToSlash(rel)
			if prefix != "" {
				key = strings.TrimSuffix(prefix, "/") + "/" + key
			}
			contentType := uploader.DetectContentType(path)

			if uploadDryRun {
				log.Info().Str("key", key).Str("contentType", contentType).Msg("Would upload")
				uploaded++
				return nil
			}

			if !uploadForce {
				exists, err := ul.Exists(ctx, key)
				if err != nil {
					log.Error().Err(err).Str("key", key).Msg("Failed to check existence")
					failed++
					return nil
				}
				if exists {
					log.Debug().Str("key", key).Msg("Already uploaded, skipping")
					skipped++
					return nil
				}
			}

			f, err := os.Open(path)
			if err != nil {
				log.Error().Err(err).Str("path", path).Msg("Failed to open file")
				failed++
				return nil
			}
			defer f.Close()

			if err := ul.Upload(ctx, key, f, contentType); err != nil {
				log.Error().Err(err).Str("key", key).Msg("Upload failed")
				failed++
				return nil
			}

			log.Info().Str("key", key).Msg("Uploaded")
			uploaded++
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk dataset directory: %w", err)
		}

		log.Info().
			Int("uploaded", uploaded).
			Int("skipped", skipped).
			Int("failed", failed).
			Msg("Upload complete")
		if failed > 0 {
			return fmt.Errorf("%d file(s) failed to upload", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadInput, "input", "i", "", "Prepared dataset directory (required)")
	uploadCmd.Flags().StringVarP(&uploadBucket, "bucket", "b", "", "S3 bucket name")
	uploadCmd.Flags().StringVarP(&uploadRegion, "region", "r", "", "S3 region ('us-east-1', or 'auto' for R2)")
	uploadCmd.Flags().StringVar(&uploadEndpoint, "endpoint", "", "Custom S3 endpoint URL (for R2)")
	uploadCmd.Flags().StringVar(&uploadBaseURL, "base-url", "", "Public base URL for uploaded files")
	uploadCmd.Flags().StringVar(&uploadPrefix, "prefix", "", "Key prefix for all uploads")
	uploadCmd.Flags().BoolVar(&uploadForce, "force", false, "Upload even if files already exist remotely")
	uploadCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "List what would be uploaded without uploading")

	uploadCmd.MarkFlagRequired("input")
}
