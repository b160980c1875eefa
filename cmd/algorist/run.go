package main

import (
	"fmt"
	"os"

	"github.com/aretw0/algorist/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Run a grammar and write the scene",
	Long: `Loads a grammar, runs it from its start rule and prints a summary.
Use --out to save the snapshot (JSON or YAML by extension) and --preview to
render a PNG.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := baseOptions(cmd, args)
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Out, _ = cmd.Flags().GetString("out")
		opts.Preview, _ = cmd.Flags().GetString("preview")
		opts.View, _ = cmd.Flags().GetString("view")
		if cmd.Flags().Changed("seed") {
			opts.Seed, _ = cmd.Flags().GetUint64("seed")
			opts.HasSeed = true
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if err := cli.Execute(ctx, opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("watch", "w", false, "Run again whenever the grammar changes")
	runCmd.Flags().StringP("out", "o", "", "Write the snapshot to this file (.json, .yaml)")
	runCmd.Flags().String("preview", "", "Render a PNG preview to this file")
	runCmd.Flags().String("view", "front", "Preview camera: top, front or side")
	runCmd.Flags().Uint64("seed", 0, "Seed for a repeatable run")

	rootCmd.Run = runCmd.Run
}
