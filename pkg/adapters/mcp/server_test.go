package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/algorist/pkg/adapters/memory"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tower = `
start: tower
limits: {max_depth: 3}
rules:
  tower:
    - steps:
        - transform: [{translate: [0, 0, 1]}]
          shape: {name: cube, params: {size: 1}}
          call: [tower]
`

func TestHandleGenerate(t *testing.T) {
	cache := memory.NewGeometryCache()
	s := NewServer(WithGeometryCache(cache))

	res, err := s.handleGenerate(context.Background(), mcp.CallToolRequest{}, GenerateArgs{
		GrammarArgs: GrammarArgs{Source: tower},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Objects)
	assert.Equal(t, 1, res.Geometries)
	assert.Equal(t, map[string]int{"cube": 2}, res.Shapes)
	require.Len(t, res.Min, 3)
	assert.InDelta(t, 0.5, res.Min[2], 1e-9)
	assert.InDelta(t, 2.5, res.Max[2], 1e-9)
	assert.Nil(t, res.Snapshot)
	assert.Equal(t, 1, cache.Len())
}

func TestHandleGenerate_SnapshotAndSeed(t *testing.T) {
	s := NewServer()
	seed := uint64(11)
	args := GenerateArgs{GrammarArgs: GrammarArgs{Example: "tree"}, Seed: &seed, IncludeSnapshot: true}

	a, err := s.handleGenerate(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	b, err := s.handleGenerate(context.Background(), mcp.CallToolRequest{}, args)
	require.NoError(t, err)

	require.NotNil(t, a.Snapshot)
	assert.Len(t, a.Snapshot.Objects, a.Objects)
	assert.Equal(t, a.Shapes, b.Shapes)
	assert.Equal(t, a.Min, b.Min)
	assert.Equal(t, a.Max, b.Max)
}

func TestHandleGenerate_Errors(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	_, err := s.handleGenerate(ctx, mcp.CallToolRequest{}, GenerateArgs{})
	assert.Error(t, err)

	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, GenerateArgs{GrammarArgs: GrammarArgs{Example: "tree", Source: tower}})
	assert.Error(t, err)

	_, err = s.handleGenerate(ctx, mcp.CallToolRequest{}, GenerateArgs{GrammarArgs: GrammarArgs{Example: "nope"}})
	assert.Error(t, err)
}

func TestHandleValidate(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	res, err := s.handleValidate(ctx, mcp.CallToolRequest{}, GrammarArgs{Source: tower})
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = s.handleValidate(ctx, mcp.CallToolRequest{}, GrammarArgs{Source: `{"start": "a", "rules": {"a": [{"steps": [{"call": ["b"]}]}]}}`, Format: "json"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0].Message, `"b"`)

	res, err = s.handleValidate(ctx, mcp.CallToolRequest{}, GrammarArgs{Source: "rules: ["})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Issues)
}

func TestCatalogJSON(t *testing.T) {
	data, err := catalogJSON()
	require.NoError(t, err)

	var catalog []map[string]any
	require.NoError(t, json.Unmarshal(data, &catalog))
	require.NotEmpty(t, catalog)
	for _, info := range catalog {
		assert.Contains(t, info, "name")
		assert.Contains(t, info, "schema")
	}
}
