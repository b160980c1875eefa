package algorist

import (
	"context"
	"fmt"

	"github.com/aretw0/algorist/pkg/adapters/memory"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/grammar"
)

// Generate runs doc once in a fresh session and returns everything it placed.
// The scene is in-memory unless opts supply one that can snapshot.
func Generate(ctx context.Context, doc *grammar.Document, opts ...Option) (domain.Snapshot, error) {
	s, err := New(append([]Option{WithScene(memory.NewScene())}, opts...)...)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if err := s.Load(doc); err != nil {
		return domain.Snapshot{}, err
	}
	if err := s.Run(ctx); err != nil {
		return domain.Snapshot{}, fmt.Errorf("run %q: %w", doc.Start, err)
	}
	return s.Snapshot(ctx)
}
