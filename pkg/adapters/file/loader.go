package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/algorist/internal/logging"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Loader implements ports.GrammarLoader and ports.Watchable for a single
// YAML or JSON grammar file.
type Loader struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDebounce sets the quiet period before a change is signalled.
func WithDebounce(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.debounce = d
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader for path.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path:     path,
		debounce: DefaultDebounce,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the grammar file path.
func (l *Loader) Path() string { return l.path }

// Load reads and parses the grammar file. It does not validate it.
func (l *Loader) Load(ctx context.Context) (*grammar.Document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar: %w", err)
	}
	format := grammar.FormatYAML
	if strings.EqualFold(filepath.Ext(l.path), ".json") {
		format = grammar.FormatJSON
	}
	doc, err := grammar.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(l.path), filepath.Ext(l.path))
	}
	return doc, nil
}

// Watch signals on the returned channel whenever the file changes.
// The directory is watched rather than the file, so atomic saves that
// replace the file are seen too. The channel closes when ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	abs, err := filepath.Abs(l.path)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(l.debounce)
				} else {
					timer.Reset(l.debounce)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				select {
				case out <- struct{}{}:
				default: // a reload is already pending
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("grammar watch error", "path", l.path, "err", err)
			}
		}
	}()
	return out, nil
}
