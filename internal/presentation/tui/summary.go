package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/algorist/pkg/domain"
)

// Summary describes a finished run as markdown.
func Summary(name string, snap domain.Snapshot, elapsed time.Duration) string {
	var sb strings.Builder
	if name == "" {
		name = "grammar"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "Placed **%d** objects from **%d** meshes in %s.\n\n",
		len(snap.Objects), len(snap.Geometries), elapsed.Round(time.Millisecond))

	counts := snap.ShapeCounts()
	if len(counts) > 0 {
		shapes := make([]string, 0, len(counts))
		for s := range counts {
			shapes = append(shapes, s)
		}
		sort.Strings(shapes)

		sb.WriteString("| Shape | Objects |\n|---|---:|\n")
		for _, s := range shapes {
			fmt.Fprintf(&sb, "| %s | %d |\n", s, counts[s])
		}
		sb.WriteString("\n")
	}

	if min, max, ok := snap.Bounds(); ok {
		fmt.Fprintf(&sb, "Bounds: `(%.3g, %.3g, %.3g)` to `(%.3g, %.3g, %.3g)`\n",
			min[0], min[1], min[2], max[0], max[1], max[2])
	}
	return sb.String()
}
