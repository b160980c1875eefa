package main

import (
	"fmt"
	"os"

	"github.com/aretw0/algorist/pkg/adapters/file"
	"github.com/aretw0/algorist/pkg/adapters/preview"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <snapshot> <image.png>",
	Short: "Render a saved snapshot to PNG",
	Long:  `Reads a snapshot written by 'run --out' and renders it with flat shading.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		viewName, _ := cmd.Flags().GetString("view")
		size, _ := cmd.Flags().GetInt("size")

		view, err := preview.ParseView(viewName)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		snap, err := file.Read(args[0])
		if err != nil {
			fmt.Printf("Error reading snapshot '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		if err := preview.WriteFile(args[1], snap, preview.WithView(view), preview.WithSize(size, size)); err != nil {
			fmt.Printf("Error rendering preview: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d objects)\n", args[1], len(snap.Objects))
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().String("view", "front", "Camera: top, front or side")
	previewCmd.Flags().Int("size", 800, "Image width and height in pixels")
}
