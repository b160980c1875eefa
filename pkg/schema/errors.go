package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ParamError is one parameter that failed its schema.
type ParamError struct {
	Param  string
	Reason string
	Value  any
}

func (e *ParamError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("param %q: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("param %q: %s (got %v)", e.Param, e.Reason, e.Value)
}

// ParamErrors collects every failure of one parameter set, in parameter
// name order.
type ParamErrors []*ParamError

func (e ParamErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	parts := make([]string, len(e))
	for i, pe := range e {
		parts[i] = pe.Error()
	}
	return fmt.Sprintf("%d invalid params: %s", len(e), strings.Join(parts, "; "))
}

// Unwrap exposes each failure to errors.Is and errors.As.
func (e ParamErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i, pe := range e {
		out[i] = pe
	}
	return out
}

// Errors returns the failures carried by err, or nil.
func Errors(err error) []*ParamError {
	var pe ParamErrors
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}
