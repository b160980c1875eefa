package domain

import "errors"

// ErrRuleNotFound is returned when a rule name has no registered variants.
var ErrRuleNotFound = errors.New("rule not found")

// ErrMinScaleWithoutTransform is returned when a guard is configured with a
// minimum scale but no transform to read the scale from.
var ErrMinScaleWithoutTransform = errors.New("min scale requires a transform")

// ErrInvalidWeight is returned when a rule variant is registered with a weight
// that is not a positive finite number.
var ErrInvalidWeight = errors.New("invalid rule weight")

// ErrUnknownShape is returned when a builder is asked for a shape it cannot construct.
var ErrUnknownShape = errors.New("unknown shape")

// ErrInvalidParams is returned when shape parameters fail their schema.
var ErrInvalidParams = errors.New("invalid shape parameters")

// ErrGeometryNotFound is returned by geometry caches on a miss.
var ErrGeometryNotFound = errors.New("geometry not found")

// ErrObjectNotFound is returned when a scene handle does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidGrammar is returned when a grammar document fails validation.
var ErrInvalidGrammar = errors.New("invalid grammar")
