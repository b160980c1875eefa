package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/algorist/pkg/grammar"
)

// Overlay carries run data to draw on top of the rule graph.
type Overlay struct {
	// Invocations counts dispatches per rule.
	Invocations map[string]int
}

// GenerateMermaid produces a Mermaid flowchart of the rule call graph.
// Shapes:
// - Start rule: ((Circle))
// - Rule that only places shapes: [[Subroutine]]
// - Default: [Rectangle]
// Calls from a rule with several variants are labelled with the variant's
// share of the total weight. Calls to undefined rules are dotted.
func GenerateMermaid(doc *grammar.Document, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	edges := grammar.Edges(doc)
	callers := make(map[string]bool)
	for _, e := range edges {
		callers[e.From] = true
	}
	shapes := grammar.Shapes(doc)

	for _, name := range grammar.RuleNames(doc) {
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		switch {
		case name == doc.Start:
			opener, closer = "((", "))"
		case !callers[name]:
			opener, closer = "[[", "]]"
		}

		label := name
		if s := shapes[name]; len(s) > 0 {
			label += " <br/> " + strings.Join(s, ", ")
		}
		if overlay != nil && overlay.Invocations[name] > 0 {
			label += fmt.Sprintf(" <br/> x%d", overlay.Invocations[name])
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)
	}

	missing := make(map[string]bool)
	for _, e := range edges {
		from, to := sanitizeMermaidID(e.From), sanitizeMermaidID(e.To)
		if _, ok := doc.Rules[e.To]; !ok {
			missing[e.To] = true
			fmt.Fprintf(&sb, "    %s -.-> %s\n", from, to)
			continue
		}
		variants := doc.Rules[e.From]
		if len(variants) < 2 {
			fmt.Fprintf(&sb, "    %s --> %s\n", from, to)
			continue
		}
		var total float64
		for _, v := range variants {
			total += v.EffectiveWeight()
		}
		fmt.Fprintf(&sb, "    %s -- \"#%d %.0f%%\" --> %s\n", from, e.Variant, 100*e.Weight/total, to)
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString("\n    classDef missing fill:#ffebee,stroke:#c62828,stroke-dasharray:4,color:#000;\n")
		for _, name := range names {
			fmt.Fprintf(&sb, "    %s[\"%s ?\"]\n", sanitizeMermaidID(name), name)
			fmt.Fprintf(&sb, "    class %s missing;\n", sanitizeMermaidID(name))
		}
	}

	if overlay != nil && len(overlay.Invocations) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps the label readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		for _, name := range grammar.RuleNames(doc) {
			if overlay.Invocations[name] > 0 {
				fmt.Fprintf(&sb, "    class %s visited;\n", sanitizeMermaidID(name))
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
