package algorist

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/aretw0/algorist/pkg/guard"
	"github.com/aretw0/algorist/pkg/transform"
)

// ErrNoGrammar is returned by Run when no document has been loaded.
var ErrNoGrammar = errors.New("no grammar loaded")

// Load validates doc and registers every variant of every rule as a guarded
// production. Each variant gets its own guard, configured from the document
// limits overridden by the variant limits.
//
// A session loads at most one document; the registry is append-only.
func (s *Session) Load(doc *grammar.Document, opts ...grammar.ValidateOption) error {
	if s.doc != nil {
		return fmt.Errorf("session already loaded grammar %q", s.doc.Name)
	}
	if err := grammar.Validate(doc, opts...); err != nil {
		return err
	}

	for _, name := range grammar.RuleNames(doc) {
		for i, v := range doc.Rules[name] {
			limits := doc.Limits.Merge(v.Limits)
			guarded, err := s.Limit(s.compileVariant(v), guardOptions(fmt.Sprintf("%s#%d", name, i), limits)...)
			if err != nil {
				return fmt.Errorf("rule %q variant %d: %w", name, i, err)
			}
			if _, err := s.rules.Register(name, v.EffectiveWeight(), guarded); err != nil {
				return fmt.Errorf("rule %q variant %d: %w", name, i, err)
			}
		}
	}

	s.doc = doc
	s.logger.Debug("grammar loaded", "grammar", doc.Name, "rules", len(doc.Rules), "start", doc.Start)
	return nil
}

// Run sets the document background and invokes its start rule.
func (s *Session) Run(ctx context.Context) error {
	if s.doc == nil {
		return ErrNoGrammar
	}
	if s.doc.Background != nil {
		if err := s.Background(ctx, *s.doc.Background); err != nil {
			return fmt.Errorf("set background: %w", err)
		}
	}
	if _, err := s.rules.Invoke(ctx, s.doc.Start, nil); err != nil {
		return err
	}
	return nil
}

// Document returns the loaded grammar, or nil.
func (s *Session) Document() *grammar.Document { return s.doc }

func guardOptions(name string, l grammar.Limits) []guard.Option {
	opts := []guard.Option{guard.WithName(name)}
	if l.MaxDepth > 0 {
		opts = append(opts, guard.MaxDepth(l.MaxDepth))
	}
	if l.MaxObjects > 0 {
		opts = append(opts, guard.MaxObjects(l.MaxObjects))
	}
	if l.MinScale != nil {
		opts = append(opts, guard.MinScale(*l.MinScale))
	}
	return opts
}

func (s *Session) compileVariant(v grammar.Variant) domain.Production {
	return func(ctx context.Context, _ domain.Args) (any, error) {
		for _, step := range v.Steps {
			if err := s.runStep(ctx, step); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
}

// runStep applies the step's ops, then places its shape and calls its rules.
// With Repeat the ops compound: iteration n runs inside n applications.
func (s *Session) runStep(ctx context.Context, step grammar.Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if step.Chance > 0 && !s.rand.Coin(step.Chance) {
		return nil
	}

	// The first scope opened by the step unwinds every later one, so repeated
	// ops compound without keeping a restore per iteration.
	var restore transform.Restore
	defer func() {
		if restore != nil {
			restore()
		}
	}()

	for range step.Times() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, op := range step.Transform {
			r, err := s.applyOp(op)
			if err != nil {
				return err
			}
			if restore == nil {
				restore = r
			}
		}
		if err := s.body(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) body(ctx context.Context, step grammar.Step) error {
	if ref := step.Shape; ref != nil {
		var opts []ShapeOption
		if !ref.WantsMaterial() {
			opts = append(opts, WithoutMaterial())
		}
		if _, err := s.Shape(ctx, ref.Name, domain.Params(ref.Params), opts...); err != nil {
			return err
		}
	}
	for _, call := range step.Call {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.rules.Invoke(ctx, call, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) applyOp(op grammar.Op) (transform.Restore, error) {
	t := s.transform
	switch {
	case op.Translate != nil:
		v := op.Translate
		return t.Translate(v[0].Sample(s.rand), v[1].Sample(s.rand), v[2].Sample(s.rand)), nil

	case op.Scale != nil:
		return t.Scale(transform.Scaling{
			X:   op.Scale.X.Sample(s.rand),
			Y:   op.Scale.Y.Sample(s.rand),
			Z:   op.Scale.Z.Sample(s.rand),
			XYZ: op.Scale.XYZ.Sample(s.rand),
		}), nil

	case op.Rotate != nil:
		axis, err := s.rotationAxis(op.Rotate)
		if err != nil {
			return nil, err
		}
		angle := op.Rotate.Angle.Sample(s.rand) + op.Rotate.Degrees.Sample(s.rand)*math.Pi/180
		return t.Rotate(angle, axis), nil

	case op.Color != nil:
		return t.Color(s.colorOptions(op.Color)...), nil
	}
	return nil, fmt.Errorf("%w: empty transform op", domain.ErrInvalidGrammar)
}

func (s *Session) rotationAxis(op *grammar.RotateOp) (transform.Axis, error) {
	if d := op.Direction; d != nil {
		return transform.Direction(d[0].Sample(s.rand), d[1].Sample(s.rand), d[2].Sample(s.rand)), nil
	}
	axis, err := transform.ParseAxis(op.Axis)
	if err != nil {
		return transform.Axis{}, fmt.Errorf("%w: %v", domain.ErrInvalidGrammar, err)
	}
	return axis, nil
}

func (s *Session) colorOptions(op *grammar.ColorOp) []transform.ColorOption {
	var opts []transform.ColorOption
	if op.Base != nil {
		opts = append(opts, transform.WithBase(*op.Base))
	}
	if op.Hue != nil {
		opts = append(opts, transform.Hue(op.Hue.Sample(s.rand)))
	}
	if op.Saturation != nil {
		opts = append(opts, transform.Saturation(op.Saturation.Sample(s.rand)))
	}
	if op.Value != nil {
		opts = append(opts, transform.Value(op.Value.Sample(s.rand)))
	}
	if op.Alpha != nil {
		opts = append(opts, transform.Alpha(op.Alpha.Sample(s.rand)))
	}
	return opts
}
