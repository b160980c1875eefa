package domain

import "context"

// Args are the arguments threaded through a rule invocation.
type Args map[string]any

// Production implements one alternative expansion of a rule.
// A nil result with a nil error means the production placed nothing.
type Production func(ctx context.Context, args Args) (any, error)
