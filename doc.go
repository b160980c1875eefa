/*
Package algorist is a generative-grammar geometry engine: recursive, weighted
rules place primitive shapes in a 3D scene, each under a nested pose and colour.

It separates the grammar (Rules) from the running frame (Transform) and from
the host scene (Ports). The scene, the geometry cache and the geometry builder
are injected, so the same rules can populate an in-memory scene, a snapshot
file or a remote renderer.

# Concept

A rule is a name with one or more weighted variants. Invoking a rule draws one
variant and runs it. Variants place shapes and invoke further rules inside
scoped transforms: every Translate, Scale, Rotate or Color returns a Restore
that puts the previous frame back, and compositions happen in the local frame,
so nested rules build on their parent's pose.

Recursion is bounded by guards. A guarded production stops quietly once it is
too deep, has been entered too often, or has shrunk below a minimum scale.
Nothing that was already placed is undone.

# Key Features

  - Weighted dispatch: variants are chosen proportionally to their weights.
  - Scoped transforms: strict LIFO restore on every exit path, panics included.
  - Soft budgets: depth, object and scale limits end branches without errors.
  - Shared geometry: identical (shape, params) requests build one mesh.
  - Declarative grammars: YAML or JSON documents compile to guarded rules.

# Usage

Rules can be written in Go:

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/algorist"
		"github.com/aretw0/algorist/pkg/domain"
		"github.com/aretw0/algorist/pkg/guard"
	)

	func main() {
		ctx := context.Background()
		s, err := algorist.New()
		if err != nil {
			log.Fatal(err)
		}

		var tower domain.Production
		tower, err = s.Limit(func(ctx context.Context, _ domain.Args) (any, error) {
			defer s.Transform().Translate(0, 0, 1)()
			if _, err := s.Shape(ctx, "cube", nil); err != nil {
				return nil, err
			}
			return tower(ctx, nil)
		}, guard.MaxDepth(10))
		if err != nil {
			log.Fatal(err)
		}
		if _, err := tower(ctx, nil); err != nil {
			log.Fatal(err)
		}
	}

Or loaded from a grammar document:

	doc, _ := grammar.Example("spiral")
	s, _ := algorist.New()
	if err := s.Load(doc); err != nil {
		log.Fatal(err)
	}
	if err := s.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package algorist
