package algorist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/algorist/internal/logging"
	"github.com/aretw0/algorist/pkg/adapters/memory"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/factory"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/aretw0/algorist/pkg/guard"
	"github.com/aretw0/algorist/pkg/ports"
	"github.com/aretw0/algorist/pkg/primitives"
	"github.com/aretw0/algorist/pkg/rnd"
	"github.com/aretw0/algorist/pkg/rules"
	"github.com/aretw0/algorist/pkg/transform"
	"github.com/google/uuid"
)

// Session is the high-level entry point of the library. It owns one transform
// stack, one rule registry and the scene that productions place objects in.
//
// A Session is not safe for concurrent use. Servers create one per request.
type Session struct {
	ID string

	transform *transform.Transform
	rand      *rnd.Source
	rules     *rules.Registry
	factory   *factory.Factory

	scene   ports.Scene
	cache   ports.GeometryCache
	builder ports.GeometryBuilder

	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	transformOpts []transform.Option

	doc *grammar.Document
}

// Option defines a functional option for configuring the Session.
type Option func(*Session)

// WithLogger sets a custom structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithScene sets the scene objects are linked into (default: an in-memory scene).
func WithScene(scene ports.Scene) Option {
	return func(s *Session) {
		s.scene = scene
	}
}

// WithGeometryCache sets the geometry cache (default: an in-memory cache).
// Sharing one cache between sessions shares built geometry between them.
func WithGeometryCache(cache ports.GeometryCache) Option {
	return func(s *Session) {
		s.cache = cache
	}
}

// WithBuilder sets the geometry builder (default: the built-in primitives).
func WithBuilder(b ports.GeometryBuilder) Option {
	return func(s *Session) {
		s.builder = b
	}
}

// WithRandSource sets the random source used for dispatch, coins and jitter.
func WithRandSource(src *rnd.Source) Option {
	return func(s *Session) {
		s.rand = src
	}
}

// WithColor sets the root colour of the transform stack.
func WithColor(c domain.HSVA) Option {
	return func(s *Session) {
		s.transformOpts = append(s.transformOpts, transform.WithColor(c))
	}
}

// WithPose sets the root pose of the transform stack.
func WithPose(p domain.Pose) Option {
	return func(s *Session) {
		s.transformOpts = append(s.transformOpts, transform.WithPose(p))
	}
}

// New initializes a Session with in-memory defaults for every collaborator
// that is not provided.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		ID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.logger = s.logger.With("session", s.ID)

	if s.rand == nil {
		s.rand = rnd.New(nil)
	}
	if s.scene == nil {
		s.scene = memory.NewScene()
	}
	if s.cache == nil {
		s.cache = memory.NewGeometryCache()
	}
	if s.builder == nil {
		s.builder = primitives.NewBuilder(primitives.WithLogger(s.logger))
	}

	s.transform = transform.New(s.transformOpts...)
	s.rules = rules.NewRegistry(
		rules.WithRand(s.rand),
		rules.WithHooks(s.hooks),
		rules.WithLogger(s.logger),
	)
	s.factory = factory.New(s.builder, s.cache, s.scene,
		factory.WithLogger(s.logger),
		factory.WithHooks(s.hooks),
	)
	return s, nil
}

// Transform returns the session's transform stack.
func (s *Session) Transform() *transform.Transform { return s.transform }

// Rand returns the session's random source.
func (s *Session) Rand() *rnd.Source { return s.rand }

// Rules returns the session's rule registry.
func (s *Session) Rules() *rules.Registry { return s.rules }

// Scene returns the scene objects are placed in.
func (s *Session) Scene() ports.Scene { return s.scene }

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Rule registers p as a variant of name with the given weight.
func (s *Session) Rule(name string, weight float64, p domain.Production) (rules.Rule, error) {
	return s.rules.Register(name, weight, p)
}

// Invoke dispatches name to one of its variants.
func (s *Session) Invoke(ctx context.Context, name string, args domain.Args) (any, error) {
	return s.rules.Invoke(ctx, name, args)
}

// Limit bounds p with a guard bound to the session transform, so MinScale is
// always accepted.
func (s *Session) Limit(p domain.Production, opts ...guard.Option) (domain.Production, error) {
	base := []guard.Option{
		guard.WithScaleSource(s.transform),
		guard.WithLogger(s.logger),
		guard.WithHooks(s.hooks),
	}
	return guard.Limit(p, append(base, opts...)...)
}

// ShapeOption configures a single placement.
type ShapeOption func(*shapeConfig)

type shapeConfig struct {
	material bool
}

// WithoutMaterial places the object with a pose only.
func WithoutMaterial() ShapeOption {
	return func(c *shapeConfig) {
		c.material = false
	}
}

// Shape instantiates a primitive and stamps the current pose and colour on it.
func (s *Session) Shape(ctx context.Context, name string, params domain.Params, opts ...ShapeOption) (domain.Handle, error) {
	cfg := shapeConfig{material: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	h, err := s.factory.Instantiate(ctx, name, params)
	if err != nil {
		return "", err
	}

	var color *domain.RGBA
	if cfg.material {
		if err := s.transform.Apply(ctx, s.scene, h); err != nil {
			return "", err
		}
		c := s.transform.RGBA()
		color = &c
	} else if err := s.transform.ApplyPose(ctx, s.scene, h); err != nil {
		return "", err
	}

	if s.hooks.OnShapePlaced != nil {
		s.hooks.OnShapePlaced(ctx, &domain.ShapeEvent{
			EventBase: domain.NewEventBase(domain.EventShapePlaced),
			Handle:    h,
			Shape:     name,
			Pose:      s.transform.Pose(),
			Color:     color,
		})
	}
	return h, nil
}

// Background sets the world colour when the scene supports it.
func (s *Session) Background(ctx context.Context, c domain.HSVA) error {
	bg, ok := s.scene.(ports.BackgroundSetter)
	if !ok {
		s.logger.Debug("scene has no background, ignoring", "scene", fmt.Sprintf("%T", s.scene))
		return nil
	}
	return bg.SetBackground(ctx, c.RGBA())
}

// Snapshot captures the scene, when it supports it.
func (s *Session) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	snap, ok := s.scene.(ports.Snapshotter)
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("scene %T cannot be snapshotted: %w", s.scene, errors.ErrUnsupported)
	}
	return snap.Snapshot(ctx)
}
