package main

import (
	"fmt"
	"os"

	"github.com/aretw0/algorist/internal/cli"
	"github.com/aretw0/algorist/internal/validator"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check the grammar for consistency",
	Long: `Checks every rule, shape and parameter, then crawls from the start rule and
reports rules that are never reached.`,
	Run: func(cmd *cobra.Command, args []string) {
		strict, _ := cmd.Flags().GetBool("strict")
		if err := runValidate(cmd, args, strict); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Grammar is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat warnings as errors")
}

func runValidate(cmd *cobra.Command, args []string, strict bool) error {
	opts := baseOptions(cmd, args)
	loader, err := cli.OpenLoader(opts, cli.CreateLogger(opts.Debug))
	if err != nil {
		return err
	}

	report, err := validator.ValidateGraph(cmd.Context(), loader)
	if err != nil {
		for _, issue := range grammar.Issues(err) {
			fmt.Printf("- %s\n", issue)
		}
		return err
	}

	warnings := report.Warnings()
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if strict && len(warnings) > 0 {
		return fmt.Errorf("%d warnings", len(warnings))
	}
	return nil
}
