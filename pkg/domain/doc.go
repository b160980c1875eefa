/*
Package domain contains the core value types shared by every layer of algorist.

It is kept free of I/O so the transform stack, the rule dispatcher and the
adapters can all agree on the same vocabulary.

# Key Entities

  - Pose: a 4x4 affine matrix (column-major) describing a coordinate frame.
  - HSVA / RGBA: paint state carried by the transform stack and stamped on materials.
  - ShapeKey: the canonical (shape, sorted params) identity of reusable geometry.
  - Geometry, Object, Material, Snapshot: what a scene ends up holding.
  - LifecycleHooks: callbacks fired while a grammar grows.
*/
package domain
