package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/algorist/pkg/ports"
)

// ErrNotWatchable is returned when --watch is used with a source that cannot
// report changes.
var ErrNotWatchable = errors.New("grammar source does not support watching")

// RunWatch runs the grammar, then runs it again every time the source changes,
// until ctx is done. A failing run is reported and the loop keeps waiting.
func RunWatch(ctx context.Context, opts RunOptions, loader ports.GrammarLoader, cache ports.GeometryCache, logger *slog.Logger) error {
	watchable, ok := loader.(ports.Watchable)
	if !ok {
		return ErrNotWatchable
	}

	changes, err := watchable.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	out := opts.stdout()
	printSystemMessage(out, "Watching for changes. Press Ctrl+C to stop.")

	runAndReport := func() {
		if _, err := runOnce(ctx, opts, loader, cache, logger); err != nil {
			if ctx.Err() != nil {
				return
			}
			printSystemMessage(out, "Run failed: %v", err)
		}
	}
	runAndReport()

	for {
		select {
		case <-ctx.Done():
			printSystemMessage(out, "Stopped watching.")
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			printSystemMessage(out, "Change detected, running again.")
			runAndReport()
		}
	}
}
