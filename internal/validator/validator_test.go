package validator

import (
	"context"
	"testing"

	"github.com/aretw0/algorist/pkg/adapters/memory"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawl(t *testing.T) {
	doc, err := grammar.Parse([]byte(`
start: trunk
rules:
  trunk:
    - steps:
        - shape: {name: cylinder}
          call: [branch]
  branch:
    - steps:
        - call: [leaf, trunk]
    - steps:
        - shape: {name: cone}
  leaf:
    - steps:
        - shape: {name: uvsphere}
  orphan:
    - steps:
        - shape: {name: cube}
  husk:
    - steps:
        - transform: [{translate: [1, 0, 0]}]
`), grammar.FormatYAML)
	require.NoError(t, err)

	r := Crawl(doc)
	assert.Equal(t, []string{"branch", "leaf", "trunk"}, r.Reachable)
	assert.Equal(t, []string{"husk", "orphan"}, r.Unreachable)
	assert.Equal(t, []string{"husk"}, r.Barren)
	assert.Len(t, r.Warnings(), 3)
}

func TestValidateGraph(t *testing.T) {
	ctx := context.Background()

	t.Run("valid example", func(t *testing.T) {
		doc, err := grammar.Example("tree")
		require.NoError(t, err)
		loader, err := memory.NewLoader(doc)
		require.NoError(t, err)

		r, err := ValidateGraph(ctx, loader)
		require.NoError(t, err)
		assert.Empty(t, r.Unreachable)
		assert.NotEmpty(t, r.Reachable)
	})

	t.Run("broken call", func(t *testing.T) {
		loader, err := memory.NewLoaderFromSource(`
start: a
rules:
  a:
    - steps:
        - call: [ghost]
`, grammar.FormatYAML)
		require.NoError(t, err)

		_, err = ValidateGraph(ctx, loader)
		assert.ErrorIs(t, err, domain.ErrInvalidGrammar)
	})
}
