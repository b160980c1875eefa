package algorist_test

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/aretw0/algorist"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/aretw0/algorist/pkg/guard"
	"github.com/aretw0/algorist/pkg/rnd"
	"github.com/aretw0/algorist/pkg/transform"
)

// ExampleSession_Limit builds rings of spheres, each ring wider than the one
// below it. The ring level is passed as a production argument.
func ExampleSession_Limit() {
	ctx := context.Background()
	s, err := algorist.New()
	if err != nil {
		log.Fatal(err)
	}
	t := s.Transform()

	var pit domain.Production
	pit, err = s.Limit(func(ctx context.Context, args domain.Args) (any, error) {
		level := args["level"].(int)
		defer t.Color(transform.Hue(0.1))()

		step := int(360 / (float64(level) * 3.8))
		for angle := 0; angle < 360; angle += step {
			err := t.Scoped(func() error {
				_, err := s.Shape(ctx, "uvsphere", domain.Params{"segments": 16, "ring_count": 8})
				return err
			},
				transform.Rotated(float64(angle)*math.Pi/180, transform.AxisZ),
				transform.Translated(float64(level), 0, 0),
			)
			if err != nil {
				return nil, err
			}
		}

		defer t.Translate(0, 0, 1.5)()
		return pit(ctx, domain.Args{"level": level + 1})
	})
	if err != nil {
		log.Fatal(err)
	}

	restore := t.Color(transform.WithBase(domain.HSVA{H: 0, S: 0.9, V: 1, A: 1}))
	if _, err := pit(ctx, domain.Args{"level": 1}); err != nil {
		log.Fatal(err)
	}
	restore()

	err = t.Scoped(func() error {
		_, err := s.Shape(ctx, "circle", domain.Params{"radius": 100, "fill_type": "NGON"})
		return err
	}, transform.Translated(0, 0, -1))
	if err != nil {
		log.Fatal(err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("placed %d objects from %d meshes\n", len(snap.Objects), len(snap.Geometries))
	// Output:
	// placed 267 objects from 2 meshes
}

// ExampleSession_Rule grows a branching tree from weighted rules: every
// branch bends one of four ways before splitting in two.
func ExampleSession_Rule() {
	ctx := context.Background()
	s, err := algorist.New(algorist.WithRandSource(rnd.NewSeeded(42)))
	if err != nil {
		log.Fatal(err)
	}
	t := s.Transform()

	bend := func(axis transform.Axis, sign float64) domain.Production {
		return func(ctx context.Context, _ domain.Args) (any, error) {
			angle := sign * (5 + s.Rand().Positive(30)) * math.Pi / 180
			defer t.Rotate(angle, axis)()
			return s.Invoke(ctx, "branch", nil)
		}
	}
	for _, g := range []struct {
		axis transform.Axis
		sign float64
	}{{transform.AxisX, 1}, {transform.AxisX, -1}, {transform.AxisY, 1}, {transform.AxisY, -1}} {
		p, err := s.Limit(bend(g.axis, g.sign))
		if err != nil {
			log.Fatal(err)
		}
		if _, err := s.Rule("grow", 1, p); err != nil {
			log.Fatal(err)
		}
	}

	branch, err := s.Limit(func(ctx context.Context, _ domain.Args) (any, error) {
		if _, err := s.Shape(ctx, "cylinder", domain.Params{"radius": 0.1, "depth": 1}); err != nil {
			return nil, err
		}
		return nil, t.Scoped(func() error {
			for range 2 {
				if _, err := s.Invoke(ctx, "grow", nil); err != nil {
					return err
				}
			}
			return nil
		},
			transform.Translated(0, 0, 0.7),
			transform.Scaled(transform.Uniform(0.7+s.Rand().Symmetric(0.15))),
			transform.Colored(transform.Value(0.8)),
		)
	}, guard.MaxDepth(8))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := s.Rule("branch", 1, branch); err != nil {
		log.Fatal(err)
	}

	defer t.Scale(transform.Uniform(3))()
	if _, err := s.Invoke(ctx, "branch", nil); err != nil {
		log.Fatal(err)
	}

	snap, _ := s.Snapshot(ctx)
	fmt.Println(len(snap.Objects))
	// Output:
	// 127
}

// ExampleSession_Load runs one of the bundled grammar documents.
func ExampleSession_Load() {
	doc, err := grammar.Example("ring")
	if err != nil {
		log.Fatal(err)
	}

	s, err := algorist.New()
	if err != nil {
		log.Fatal(err)
	}
	if err := s.Load(doc); err != nil {
		log.Fatal(err)
	}
	if err := s.Run(context.Background()); err != nil {
		log.Fatal(err)
	}

	snap, _ := s.Snapshot(context.Background())
	fmt.Println(len(snap.Objects))
	// Output:
	// 132
}
