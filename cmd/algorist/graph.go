package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/algorist"
	"github.com/aretw0/algorist/internal/cli"
	"github.com/aretw0/algorist/internal/presentation/graph"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Export the rule graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the grammar: one node per rule, one
edge per call. With --trace the grammar is run once and rules are annotated
with how often they fired.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := baseOptions(cmd, args)
		logger := cli.CreateLogger(opts.Debug)

		loader, err := cli.OpenLoader(opts, logger)
		if err != nil {
			fmt.Printf("Error opening grammar: %v\n", err)
			os.Exit(1)
		}
		doc, err := loader.Load(cmd.Context())
		if err != nil {
			fmt.Printf("Error loading grammar: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.Overlay
		if trace, _ := cmd.Flags().GetBool("trace"); trace {
			counts := make(map[string]int)
			var mu sync.Mutex
			hooks := domain.LifecycleHooks{
				OnRuleInvoke: func(_ context.Context, e *domain.RuleEvent) {
					mu.Lock()
					counts[e.Rule]++
					mu.Unlock()
				},
			}
			_, err := algorist.Generate(cmd.Context(), doc,
				algorist.WithLogger(logger),
				algorist.WithLifecycleHooks(hooks),
			)
			if err != nil {
				fmt.Printf("Error running grammar: %v\n", err)
				os.Exit(1)
			}
			overlay = &graph.Overlay{Invocations: counts}
		}

		fmt.Print(graph.GenerateMermaid(doc, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("trace", false, "Run the grammar and annotate rules with invocation counts")
}
