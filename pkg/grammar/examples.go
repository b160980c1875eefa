package grammar

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed examples/*.yaml
var examples embed.FS

// ExampleNames lists the bundled grammars.
func ExampleNames() []string {
	entries, _ := fs.ReadDir(examples, "examples")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Example parses a bundled grammar by name.
func Example(name string) (*Document, error) {
	data, err := examples.ReadFile("examples/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown example %q (have %s)", name, strings.Join(ExampleNames(), ", "))
	}
	return Parse(data, FormatYAML)
}
