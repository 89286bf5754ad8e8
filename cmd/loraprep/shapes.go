package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "List accepted shape labels and their resolutions",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, label := range cfg.ShapeLabels() {
			shape := cfg.Shapes[label]
			fmt.Printf("%-6s %dx%d\n", label, shape.Width, shape.Height)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shapesCmd)
}
