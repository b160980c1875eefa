package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// TowerYAML is a one-rule grammar that stacks cubes. Its depth limit lets
// exactly two cubes through.
const TowerYAML = `name: tower
start: tower
limits: {max_depth: 3}
rules:
  tower:
    - steps:
        - transform: [{translate: [0, 0, 1]}]
          shape: {name: cube}
          call: [tower]
`

// SetupTestRepo initializes a Loam repository in a fresh temp dir and
// returns its absolute path with the repository.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// WriteFiles writes every name (slash separated, relative to dir) with its
// content, creating directories on the way.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}
