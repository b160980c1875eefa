package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/algorist/pkg/domain"
)

// LogHooks logs every lifecycle event at debug level. Guard aborts are
// already warned about by the guard itself.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRuleInvoke: func(ctx context.Context, e *domain.RuleEvent) {
			logger.DebugContext(ctx, "rule_invoke", "rule", e.Rule, "variant", e.Variant, "draw", e.Draw)
		},
		OnShapePlaced: func(ctx context.Context, e *domain.ShapeEvent) {
			attrs := []any{"shape", e.Shape, "handle", e.Handle, "position", e.Pose.Translation()}
			if e.Color != nil {
				attrs = append(attrs, "color", e.Color.Hex())
			}
			logger.DebugContext(ctx, "shape_placed", attrs...)
		},
		OnCacheLookup: func(ctx context.Context, e *domain.CacheEvent) {
			logger.DebugContext(ctx, "cache_lookup", "key", e.Key.String(), "hit", e.Hit)
		},
	}
}
