/*
Package primitives builds mesh data for the named shapes a grammar can place.

Each shape has a parameter schema and defaults matching the usual 3D editor
primitives:

	torus      major_radius=1 minor_radius=0.25 major_segments=48 minor_segments=12
	plane      size=2
	grid       size=2 x_subdivisions=10 y_subdivisions=10
	cube       size=[1,1,1] or a single number (half extents are size*0.5)
	uvsphere   radius=1 segments=32 ring_count=16
	icosphere  radius=1 subdivisions=2
	cylinder   radius=1 depth=2 vertices=32
	cone       radius1=1 radius2=0 depth=2 vertices=32
	circle     radius=1 vertices=32 fill_type=NOTHING

Builder implements ports.GeometryBuilder. Building is the expensive step the
factory caches, so callers normally go through factory.Factory instead.
*/
package primitives
