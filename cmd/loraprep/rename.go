package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/loraforge/loraprep/internal/dataset"
)

var (
	renameDir    string
	renamePrefix string
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename images in a directory to sequential names",
	Long: `Rename every image in a directory to a 1-based sequential scheme with an
optional prefix (dog1.jpg, dog2.png, ...), ordered by current file name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := dataset.RenameSequential(renameDir, renamePrefix)
		if err != nil {
			return err
		}
		log.Info().Int("renamed", count).Str("dir", renameDir).Msg("Rename complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)

	renameCmd.Flags().StringVarP(&renameDir, "dir", "d", "", "Directory containing images to rename (required)")
	renameCmd.Flags().StringVar(&renamePrefix, "prefix", "", "Optional filename prefix")

	renameCmd.MarkFlagRequired("dir")
}
