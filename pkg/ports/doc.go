/*
Package ports defines the driven ports (interfaces) of the algorist engine.

These interfaces decouple the generative core from the host scene, allowing
the same grammar to drive an in-memory scene in tests, a Redis-backed geometry
cache in a server, or a real 3D editor behind an adapter.

# Key Interfaces

  - GeometryBuilder: performs the expensive construction of primitive mesh data.
  - GeometryCache: deduplicates geometry by ShapeKey.
  - Scene: links new objects to shared geometry and stamps pose and material.
  - GrammarLoader: retrieves grammar documents (file, Loam, memory).
*/
package ports
