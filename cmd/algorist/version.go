package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/algorist"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of algorist",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("algorist version %s\n", strings.TrimSpace(algorist.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
