package ports

import (
	"context"

	"github.com/aretw0/algorist/pkg/grammar"
)

// GrammarLoader retrieves a grammar document from some backend.
// This allows the storage layer (File, Loam, Memory) to be decoupled.
type GrammarLoader interface {
	Load(ctx context.Context) (*grammar.Document, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying grammar changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
