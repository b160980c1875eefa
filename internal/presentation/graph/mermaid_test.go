package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/algorist/internal/presentation/graph"
	"github.com/aretw0/algorist/pkg/grammar"
)

func variant(weight float64, shape string, calls ...string) grammar.Variant {
	step := grammar.Step{Call: calls}
	if shape != "" {
		step.Shape = &grammar.ShapeRef{Name: shape}
	}
	return grammar.Variant{Weight: weight, Steps: []grammar.Step{step}}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		doc      *grammar.Document
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Start Rule Shape",
			doc: &grammar.Document{Start: "main", Rules: map[string][]grammar.Variant{
				"main": {variant(0, "", "leaf")},
				"leaf": {variant(0, "cube")},
			}},
			contains: []string{
				`main(("main"))`,
				`leaf[["leaf <br/> cube"]]`,
				"main --> leaf",
			},
		},
		{
			name: "Weighted Variants",
			doc: &grammar.Document{Start: "a", Rules: map[string][]grammar.Variant{
				"a": {variant(1, "plane", "a"), variant(3, "cube", "b")},
				"b": {variant(0, "cube", "a")},
			}},
			contains: []string{
				`a -- "#0 25%" --> a`,
				`a -- "#1 75%" --> b`,
				`b["b <br/> cube"]`,
				"b --> a",
			},
		},
		{
			name: "Missing Rule",
			doc: &grammar.Document{Start: "a", Rules: map[string][]grammar.Variant{
				"a": {variant(0, "", "ghost")},
			}},
			contains: []string{
				"a -.-> ghost",
				`ghost["ghost ?"]`,
				"class ghost missing;",
			},
		},
		{
			name: "ID Sanitization",
			doc: &grammar.Document{Start: "trunk/base", Rules: map[string][]grammar.Variant{
				"trunk/base": {variant(0, "", "left-branch")},
				"left-branch": {variant(0, "cylinder")},
			}},
			contains: []string{
				`trunk_base(("trunk/base"))`,
				`left_branch[["left-branch <br/> cylinder"]]`,
			},
		},
		{
			name: "Overlay",
			doc: &grammar.Document{Start: "a", Rules: map[string][]grammar.Variant{
				"a": {variant(0, "", "b")},
				"b": {variant(0, "cube")},
			}},
			overlay:  &graph.Overlay{Invocations: map[string]int{"b": 7}},
			contains: []string{"b <br/> cube <br/> x7", "class b visited;"},
			excludes: []string{"class a visited;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.doc, tt.overlay)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("GenerateMermaid() must start with a flowchart header, got:\n%v", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnwanted substring: %v", got, unwanted)
				}
			}
		})
	}
}
