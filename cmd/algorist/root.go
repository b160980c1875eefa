package main

import (
	"fmt"
	"os"

	"github.com/aretw0/algorist/internal/cli"
	"github.com/aretw0/algorist/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "algorist",
	Short: "Algorist grows 3D scenes from generative grammars",
	Long: `Algorist runs rule-based generative grammars: weighted, recursive rules
that transform a cursor and place primitive shapes, producing a scene snapshot.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() == "mcp" {
			return // stdout belongs to the protocol
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet && tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Grammar file or directory")
	rootCmd.PersistentFlags().StringP("example", "e", "", "Use a bundled example grammar instead of --dir")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for a shared geometry cache")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress the banner and summaries")
}

// baseOptions reads the persistent flags. A positional argument stands in
// for --dir when the flag is not set.
func baseOptions(cmd *cobra.Command, args []string) cli.RunOptions {
	opts := cli.RunOptions{}
	opts.Path, _ = cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		opts.Path = args[0]
	}
	opts.Example, _ = cmd.Flags().GetString("example")
	opts.Debug, _ = cmd.Flags().GetBool("debug")
	opts.RedisAddr, _ = cmd.Flags().GetString("redis")
	opts.Quiet, _ = cmd.Flags().GetBool("quiet")
	return opts
}
