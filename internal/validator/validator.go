package validator

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/aretw0/algorist/pkg/ports"
)

// Report lists what a crawl from the start rule found. Every slice is sorted.
type Report struct {
	Reachable   []string
	Unreachable []string
	// Barren rules neither place a shape nor call another rule.
	Barren []string
}

// Warnings renders the report findings as one line each.
func (r Report) Warnings() []string {
	var out []string
	for _, name := range r.Unreachable {
		out = append(out, fmt.Sprintf("rule %q is never reached from the start rule", name))
	}
	for _, name := range r.Barren {
		out = append(out, fmt.Sprintf("rule %q places nothing and calls nothing", name))
	}
	return out
}

// ValidateGraph loads the grammar, rejects it if it is invalid and crawls it
// otherwise.
func ValidateGraph(ctx context.Context, loader ports.GrammarLoader) (Report, error) {
	doc, err := loader.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load grammar: %w", err)
	}
	if err := grammar.Validate(doc); err != nil {
		return Report{}, err
	}
	return Crawl(doc), nil
}

// Crawl walks rule calls breadth first from doc.Start.
func Crawl(doc *grammar.Document) Report {
	next := make(map[string][]string)
	for _, e := range grammar.Edges(doc) {
		next[e.From] = append(next[e.From], e.To)
	}

	visited := make(map[string]bool)
	queue := []string{doc.Start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		if _, ok := doc.Rules[current]; !ok {
			continue // reported by grammar.Validate
		}
		visited[current] = true

		for _, target := range next[current] {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	shapes := grammar.Shapes(doc)
	var r Report
	for _, name := range grammar.RuleNames(doc) {
		if visited[name] {
			r.Reachable = append(r.Reachable, name)
		} else {
			r.Unreachable = append(r.Unreachable, name)
		}
		if len(shapes[name]) == 0 && len(next[name]) == 0 {
			r.Barren = append(r.Barren, name)
		}
	}
	sort.Strings(r.Reachable)
	return r
}
