package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/algorist/pkg/grammar"
)

// Loader implements ports.GrammarLoader and ports.Watchable over a document
// held in memory. Set replaces it and wakes every watcher.
type Loader struct {
	mu       sync.RWMutex
	data     []byte
	watchers map[chan struct{}]struct{}
}

// NewLoader holds a copy of doc.
func NewLoader(doc *grammar.Document) (*Loader, error) {
	l := &Loader{watchers: make(map[chan struct{}]struct{})}
	if err := l.Set(doc); err != nil {
		return nil, err
	}
	return l, nil
}

// NewLoaderFromSource parses src and holds the result.
func NewLoaderFromSource(src string, format grammar.Format) (*Loader, error) {
	doc, err := grammar.Parse([]byte(src), format)
	if err != nil {
		return nil, err
	}
	return NewLoader(doc)
}

// Load returns a fresh copy of the held document, so callers may mutate it.
func (l *Loader) Load(ctx context.Context) (*grammar.Document, error) {
	l.mu.RLock()
	data := l.data
	l.mu.RUnlock()
	return grammar.Parse(data, grammar.FormatJSON)
}

// Set replaces the held document and signals watchers.
func (l *Loader) Set(doc *grammar.Document) error {
	if doc == nil {
		return fmt.Errorf("memory loader: nil document")
	}
	data, err := grammar.Marshal(doc, grammar.FormatJSON)
	if err != nil {
		return fmt.Errorf("memory loader: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.data = data
	for ch := range l.watchers {
		select {
		case ch <- struct{}{}:
		default:
			// a reload is already pending
		}
	}
	return nil
}

// Watch signals on every Set until ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	l.mu.Lock()
	l.watchers[ch] = struct{}{}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.watchers, ch)
		close(ch)
		l.mu.Unlock()
	}()
	return ch, nil
}
