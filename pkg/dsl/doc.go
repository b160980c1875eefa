/*
Package dsl provides a Go DSL for programmatically constructing algorist grammars.

It produces the same grammar.Document a YAML file would, through a fluent
builder, which is handy for generated grammars and for tests.

Example usage:

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/algorist"
		"github.com/aretw0/algorist/pkg/dsl"
	)

	func main() {
		b := dsl.New("tower").MaxDepth(10)

		b.Rule("tower").Variant(1).
			Step().Translate(0, 0, 1).Shape("cube", nil).Call("tower")

		doc, err := b.Document()
		if err != nil {
			log.Fatal(err)
		}
		snap, err := algorist.Generate(context.Background(), doc)
		if err != nil {
			log.Fatal(err)
		}
		log.Println(len(snap.Objects))
	}
*/
package dsl
