/*
Package transform implements the scoped pose and colour stack that stamps
newly placed geometry.

Every mutator is a scoped acquisition: it composes a delta onto the current
value, pushes the previous value and returns a Restore. Calling the Restore
pops the stack back to where it was when the mutator ran.

	defer t.Translate(0, 0, 1)()
	defer t.Color(transform.Hue(0.1), transform.Saturation(0.9))()
	return s.Shape(ctx, "cube", nil)

Scoped is the closure form, restoring on every exit path including panics:

	err := t.Scoped(func() error {
		return s.Invoke(ctx, "branch", nil)
	}, transform.Scaled(transform.Uniform(0.8)), transform.Rotated(0.3, transform.AxisZ))

A Transform is owned by one generative run and is not safe for concurrent use.
*/
package transform
