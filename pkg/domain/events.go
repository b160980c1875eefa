package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRuleInvoke  EventType = "rule_invoke"
	EventGuardAbort  EventType = "guard_abort"
	EventShapePlaced EventType = "shape_placed"
	EventCacheLookup EventType = "cache_lookup"
)

// AbortReason says which budget stopped a guarded production.
type AbortReason string

const (
	AbortMaxDepth   AbortReason = "max_depth"
	AbortMaxObjects AbortReason = "max_objects"
	AbortMinScale   AbortReason = "min_scale"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps an event of type t with the current time.
func NewEventBase(t EventType) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t}
}

// RuleEvent is emitted when the dispatcher picks a variant.
type RuleEvent struct {
	EventBase
	Rule    string  `json:"rule"`
	Variant int     `json:"variant"`
	Draw    float64 `json:"draw"`
}

// GuardEvent is emitted when a guarded production is cut off.
type GuardEvent struct {
	EventBase
	Production  string      `json:"production"`
	Reason      AbortReason `json:"reason"`
	Depth       int         `json:"depth"`
	Invocations int         `json:"invocations"`
}

// ShapeEvent is emitted after an object has been placed and stamped.
type ShapeEvent struct {
	EventBase
	Handle Handle `json:"handle"`
	Shape  string `json:"shape"`
	Pose   Pose   `json:"pose"`
	Color  *RGBA  `json:"color,omitempty"`
}

// CacheEvent reports a geometry cache lookup.
type CacheEvent struct {
	EventBase
	Key ShapeKey `json:"key"`
	Hit bool     `json:"hit"`
}

// LifecycleHooks defines callbacks for observing a generative run.
type LifecycleHooks struct {
	OnRuleInvoke  func(context.Context, *RuleEvent)
	OnGuardAbort  func(context.Context, *GuardEvent)
	OnShapePlaced func(context.Context, *ShapeEvent)
	OnCacheLookup func(context.Context, *CacheEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRuleInvoke:  chain(h.OnRuleInvoke, other.OnRuleInvoke),
		OnGuardAbort:  chain(h.OnGuardAbort, other.OnGuardAbort),
		OnShapePlaced: chain(h.OnShapePlaced, other.OnShapePlaced),
		OnCacheLookup: chain(h.OnCacheLookup, other.OnCacheLookup),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
