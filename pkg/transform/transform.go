package transform

import (
	"context"
	"fmt"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/ports"
	"github.com/ungerik/go3d/float64/vec3"
)

// Restore undoes a scoped mutation. It is safe to call more than once.
type Restore func()

type frame struct {
	pose  domain.Pose
	color domain.HSVA
}

// Transform holds the current pose and colour plus the saved frames.
type Transform struct {
	pose  domain.Pose
	color domain.HSVA
	stack []frame
}

// Option configures a Transform.
type Option func(*Transform)

// WithPose sets the initial pose.
func WithPose(p domain.Pose) Option {
	return func(t *Transform) {
		t.pose = p
	}
}

// WithColor sets the initial colour.
func WithColor(c domain.HSVA) Option {
	return func(t *Transform) {
		t.color = c
	}
}

// New creates a Transform at the identity pose with the default colour.
func New(opts ...Option) *Transform {
	t := &Transform{
		pose:  domain.IdentityPose(),
		color: domain.DefaultColor,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Pose returns the current pose.
func (t *Transform) Pose() domain.Pose { return t.pose }

// HSVA returns the current colour.
func (t *Transform) HSVA() domain.HSVA { return t.color }

// RGBA returns the current colour converted for materials.
func (t *Transform) RGBA() domain.RGBA { return t.color.RGBA() }

// ScaleFactors returns the per-axis scale of the current pose.
func (t *Transform) ScaleFactors() vec3.T { return t.pose.ScaleFactors() }

// Depth is the number of open scopes.
func (t *Transform) Depth() int { return len(t.stack) }

func (t *Transform) push() Restore {
	mark := len(t.stack)
	t.stack = append(t.stack, frame{pose: t.pose, color: t.color})

	done := false
	return func() {
		if done {
			return
		}
		done = true
		t.unwind(mark)
	}
}

// unwind restores the frame saved at index mark, discarding any newer frames
// left open by scopes that were never released.
func (t *Transform) unwind(mark int) {
	if mark >= len(t.stack) {
		return
	}
	f := t.stack[mark]
	t.pose, t.color = f.pose, f.color
	t.stack = t.stack[:mark]
}

func (t *Transform) compose(m domain.Pose) Restore {
	r := t.push()
	t.pose = t.pose.Mul(m)
	return r
}

// Scale multiplies the local frame by diag(x, y, z).
func (t *Transform) Scale(s Scaling) Restore {
	x, y, z := s.resolve()
	return t.compose(domain.ScalePose(x, y, z))
}

// Translate offsets the local frame.
func (t *Transform) Translate(x, y, z float64) Restore {
	return t.compose(domain.TranslationPose(x, y, z))
}

// Rotate turns the local frame by angle radians around axis.
func (t *Transform) Rotate(angle float64, axis Axis) Restore {
	return t.compose(domain.RotationPose(angle, vec3.T(axis)))
}

// Color derives a new colour from the inherited one (or WithBase).
func (t *Transform) Color(opts ...ColorOption) Restore {
	var d colorDelta
	for _, opt := range opts {
		opt(&d)
	}
	r := t.push()
	t.color = d.apply(t.color)
	return r
}

// Apply stamps the current pose and colour onto an already linked object.
func (t *Transform) Apply(ctx context.Context, p ports.Placer, h domain.Handle) error {
	if err := p.SetWorldTransform(ctx, h, t.pose); err != nil {
		return fmt.Errorf("set world transform of %s: %w", h, err)
	}
	if err := p.AttachMaterial(ctx, h, t.color.RGBA()); err != nil {
		return fmt.Errorf("attach material to %s: %w", h, err)
	}
	return nil
}

// ApplyPose stamps only the pose, for objects placed without a material.
func (t *Transform) ApplyPose(ctx context.Context, p ports.Placer, h domain.Handle) error {
	if err := p.SetWorldTransform(ctx, h, t.pose); err != nil {
		return fmt.Errorf("set world transform of %s: %w", h, err)
	}
	return nil
}

// Step is a deferred scoped mutation, used with Scoped.
type Step func(*Transform) Restore

// Scaled is the Step form of Scale.
func Scaled(s Scaling) Step {
	return func(t *Transform) Restore { return t.Scale(s) }
}

// Translated is the Step form of Translate.
func Translated(x, y, z float64) Step {
	return func(t *Transform) Restore { return t.Translate(x, y, z) }
}

// Rotated is the Step form of Rotate.
func Rotated(angle float64, axis Axis) Step {
	return func(t *Transform) Restore { return t.Rotate(angle, axis) }
}

// Colored is the Step form of Color.
func Colored(opts ...ColorOption) Step {
	return func(t *Transform) Restore { return t.Color(opts...) }
}

// Scoped applies steps in order, runs fn and restores everything in reverse
// order however fn exits.
func (t *Transform) Scoped(fn func() error, steps ...Step) error {
	for _, step := range steps {
		defer step(t)()
	}
	return fn()
}
