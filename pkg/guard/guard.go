// Package guard bounds recursive productions.
//
// A Guard wraps one production and cuts it off softly once a budget is spent:
// the call returns (nil, nil), a warning is logged and OnGuardAbort fires.
// Geometry placed before the cut stays where it is.
package guard

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/aretw0/algorist/internal/logging"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/ungerik/go3d/float64/vec3"
)

const (
	DefaultMaxDepth   = 12
	DefaultMaxObjects = 10000
)

// ScaleSource exposes the per-axis scale of the current frame.
// *transform.Transform satisfies it.
type ScaleSource interface {
	ScaleFactors() vec3.T
}

// Guard holds the budget and counters of one guarded production.
type Guard struct {
	name       string
	maxDepth   int
	maxObjects int
	minScale   float64
	hasMin     bool
	scale      ScaleSource
	logger     *slog.Logger
	hooks      domain.LifecycleHooks

	depth       int
	invocations int
}

// Option configures a Guard.
type Option func(*Guard)

// MaxDepth sets the live recursion budget. Calls at depth n are aborted.
func MaxDepth(n int) Option {
	return func(g *Guard) {
		g.maxDepth = n
	}
}

// MaxObjects sets the lifetime invocation budget.
func MaxObjects(n int) Option {
	return func(g *Guard) {
		g.maxObjects = n
	}
}

// MinScale aborts when any axis of the current frame has shrunk to min or below.
// It requires WithScaleSource.
func MinScale(min float64) Option {
	return func(g *Guard) {
		g.minScale = min
		g.hasMin = true
	}
}

// WithScaleSource sets the transform inspected by MinScale.
func WithScaleSource(src ScaleSource) Option {
	return func(g *Guard) {
		g.scale = src
	}
}

// WithName labels the guard in logs and events.
func WithName(name string) Option {
	return func(g *Guard) {
		g.name = name
	}
}

// WithLogger sets the logger used for abort warnings.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = l
	}
}

// WithHooks sets the lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(g *Guard) {
		g.hooks = h
	}
}

// New validates the configuration and returns a fresh guard.
func New(opts ...Option) (*Guard, error) {
	g := &Guard{
		maxDepth:   DefaultMaxDepth,
		maxObjects: DefaultMaxObjects,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.hasMin && g.scale == nil {
		return nil, fmt.Errorf("guard %q: %w", g.name, domain.ErrMinScaleWithoutTransform)
	}
	if g.hasMin && (math.IsNaN(g.minScale) || g.minScale < 0) {
		return nil, fmt.Errorf("guard %q: min scale must be a non-negative number, got %v", g.name, g.minScale)
	}
	return g, nil
}

// Limit is New followed by Wrap.
func Limit(p domain.Production, opts ...Option) (domain.Production, error) {
	g, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return g.Wrap(p), nil
}

// Depth is the current live recursion depth.
func (g *Guard) Depth() int { return g.depth }

// Invocations is the number of attempted entries since the guard was created.
func (g *Guard) Invocations() int { return g.invocations }

// Wrap returns p bounded by the guard. Every production returned by Wrap
// shares this guard's counters; use one Guard per logical production.
func (g *Guard) Wrap(p domain.Production) domain.Production {
	return func(ctx context.Context, args domain.Args) (any, error) {
		g.depth++
		g.invocations++
		defer func() { g.depth-- }()

		if reason, ok := g.exceeded(); ok {
			g.abort(ctx, reason)
			return nil, nil
		}
		return p(ctx, args)
	}
}

func (g *Guard) exceeded() (domain.AbortReason, bool) {
	if g.depth >= g.maxDepth {
		return domain.AbortMaxDepth, true
	}
	if g.invocations >= g.maxObjects {
		return domain.AbortMaxObjects, true
	}
	if g.hasMin {
		for _, s := range g.scale.ScaleFactors() {
			if math.Abs(s) <= g.minScale {
				return domain.AbortMinScale, true
			}
		}
	}
	return "", false
}

var abortMessages = map[domain.AbortReason]string{
	domain.AbortMaxDepth:   "max recursion depth exceeded",
	domain.AbortMaxObjects: "max objects exceeded",
	domain.AbortMinScale:   "min scale reached",
}

func (g *Guard) abort(ctx context.Context, reason domain.AbortReason) {
	g.logger.Warn(abortMessages[reason],
		"production", g.name,
		"depth", g.depth,
		"invocations", g.invocations,
	)
	if g.hooks.OnGuardAbort != nil {
		g.hooks.OnGuardAbort(ctx, &domain.GuardEvent{
			EventBase:   domain.NewEventBase(domain.EventGuardAbort),
			Production:  g.name,
			Reason:      reason,
			Depth:       g.depth,
			Invocations: g.invocations,
		})
	}
}
