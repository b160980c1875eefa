package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/algorist"
	"github.com/aretw0/algorist/internal/presentation/tui"
	"github.com/aretw0/algorist/pkg/adapters/file"
	"github.com/aretw0/algorist/pkg/adapters/preview"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/ports"
)

// Execute loads the grammar once, runs it and writes the requested outputs.
func Execute(ctx context.Context, opts RunOptions) error {
	logger := CreateLogger(opts.Debug)

	loader, err := OpenLoader(opts, logger)
	if err != nil {
		return err
	}
	cache := OpenCache(opts)

	if opts.Watch {
		return RunWatch(ctx, opts, loader, cache, logger)
	}
	_, err = runOnce(ctx, opts, loader, cache, logger)
	return err
}

// runOnce performs one load, run and write cycle.
func runOnce(ctx context.Context, opts RunOptions, loader ports.GrammarLoader, cache ports.GeometryCache, logger *slog.Logger) (domain.Snapshot, error) {
	doc, err := loader.Load(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load grammar: %w", err)
	}

	start := time.Now()
	snap, err := algorist.Generate(ctx, doc, sessionOptions(opts, cache, logger)...)
	if err != nil {
		return domain.Snapshot{}, err
	}
	elapsed := time.Since(start)
	logger.Info("Run finished", "grammar", doc.Name, "objects", len(snap.Objects), "elapsed", elapsed)

	if err := writeOutputs(opts, snap); err != nil {
		return snap, err
	}
	if !opts.Quiet {
		printSummary(opts.stdout(), doc.Name, snap, elapsed)
	}
	return snap, nil
}

func writeOutputs(opts RunOptions, snap domain.Snapshot) error {
	if opts.Out != "" {
		if err := file.Write(opts.Out, snap); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	if opts.Preview != "" {
		var popts []preview.Option
		if opts.View != "" {
			view, err := preview.ParseView(opts.View)
			if err != nil {
				return err
			}
			popts = append(popts, preview.WithView(view))
		}
		if err := preview.WriteFile(opts.Preview, snap, popts...); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
	}
	return nil
}

// printSummary renders the run summary, styled when w is a terminal.
func printSummary(w io.Writer, name string, snap domain.Snapshot, elapsed time.Duration) {
	md := tui.Summary(name, snap, elapsed)
	if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
		if out, err := tui.NewRenderer()(md); err == nil {
			md = out
		}
	}
	fmt.Fprint(w, md)
}
