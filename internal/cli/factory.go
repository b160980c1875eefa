package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/algorist"
	"github.com/aretw0/algorist/pkg/adapters/file"
	"github.com/aretw0/algorist/pkg/adapters/loam"
	"github.com/aretw0/algorist/pkg/adapters/memory"
	"github.com/aretw0/algorist/pkg/adapters/redis"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/aretw0/algorist/pkg/observability"
	"github.com/aretw0/algorist/pkg/ports"
	"github.com/aretw0/algorist/pkg/rnd"
)

// sourceKind says how a path is read.
type sourceKind int

const (
	sourceFile sourceKind = iota
	sourceLoam
)

var grammarExtensions = []string{".yaml", ".yml", ".json"}

// detectSource decides how to read path. A file is read as one document. A
// directory holding index.md is a loam grammar; otherwise a grammar.yaml or a
// file named after the directory is used, falling back to loam.
func detectSource(path string) (sourceKind, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, "", err
	}
	if !info.IsDir() {
		return sourceFile, path, nil
	}
	if _, err := os.Stat(filepath.Join(path, loam.IndexID+".md")); err == nil {
		return sourceLoam, path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, "", err
	}
	for _, base := range []string{"grammar", filepath.Base(abs)} {
		for _, ext := range grammarExtensions {
			candidate := filepath.Join(path, base+ext)
			if _, err := os.Stat(candidate); err == nil {
				return sourceFile, candidate, nil
			}
		}
	}
	return sourceLoam, path, nil
}

// OpenLoader opens the grammar named by opts.
func OpenLoader(opts RunOptions, logger *slog.Logger) (ports.GrammarLoader, error) {
	if opts.Example != "" {
		doc, err := grammar.Example(opts.Example)
		if err != nil {
			return nil, err
		}
		loader, err := memory.NewLoader(doc)
		if err != nil {
			return nil, err
		}
		return loader, nil
	}

	kind, path, err := detectSource(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("grammar source: %w", err)
	}
	switch kind {
	case sourceLoam:
		logger.Debug("Reading grammar directory", "dir", path)
		loader, err := loam.Open(path)
		if err != nil {
			return nil, err
		}
		return loader, nil
	default:
		logger.Debug("Reading grammar file", "path", path)
		return file.NewLoader(path, file.WithLogger(logger)), nil
	}
}

// OpenCache returns the shared geometry cache, Redis when configured.
func OpenCache(opts RunOptions) ports.GeometryCache {
	if opts.RedisAddr != "" {
		return redis.New(opts.RedisAddr, os.Getenv("ALGORIST_REDIS_PASSWORD"), 0)
	}
	return memory.NewGeometryCache()
}

// sessionOptions maps CLI flags onto session options.
func sessionOptions(opts RunOptions, cache ports.GeometryCache, logger *slog.Logger) []algorist.Option {
	out := []algorist.Option{
		algorist.WithLogger(logger),
		algorist.WithGeometryCache(cache),
	}
	if opts.Debug {
		out = append(out, algorist.WithLifecycleHooks(observability.LogHooks(logger)))
	}
	if opts.HasSeed {
		out = append(out, algorist.WithRandSource(rnd.NewSeeded(opts.Seed)))
	}
	return out
}
