package primitives

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/aretw0/algorist/internal/logging"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/schema"
	"github.com/mitchellh/mapstructure"
	"github.com/ungerik/go3d/float64/vec3"
)

// mesh is raw geometry before it gets an identity.
type mesh struct {
	vertices []vec3.T
	faces    [][]int
}

type generator interface {
	schema() schema.Schema
	defaults() (domain.Params, error)
	build(params domain.Params) (mesh, error)
	normalize(params domain.Params) (domain.Params, error)
}

// shape binds a typed parameter struct to its mesh function.
type shape[P any] struct {
	fields schema.Schema
	zero   P
	mesh   func(P) mesh
}

func (s shape[P]) schema() schema.Schema { return s.fields }

func (s shape[P]) defaults() (domain.Params, error) {
	out := make(map[string]any)
	if err := mapstructure.Decode(s.zero, &out); err != nil {
		return nil, err
	}
	return domain.Params(out), nil
}

// decode validates params and lays them over the shape defaults.
func (s shape[P]) decode(params domain.Params) (P, error) {
	p := s.zero
	if err := schema.Validate(s.fields, params); err != nil {
		return p, fmt.Errorf("%w: %v", domain.ErrInvalidParams, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.DecodeHookFuncType(uniformVector),
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(map[string]any(params)); err != nil {
		return p, fmt.Errorf("%w: %v", domain.ErrInvalidParams, err)
	}
	return p, nil
}

func (s shape[P]) build(params domain.Params) (mesh, error) {
	p, err := s.decode(params)
	if err != nil {
		return mesh{}, err
	}
	return s.mesh(p), nil
}

// normalize returns every parameter of the shape, defaults filled in and
// shortcuts such as a bare number for a vector expanded.
func (s shape[P]) normalize(params domain.Params) (domain.Params, error) {
	p, err := s.decode(params)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if err := mapstructure.Decode(p, &out); err != nil {
		return nil, err
	}
	return domain.Params(out), nil
}

var vec3Type = reflect.TypeOf([3]float64{})

// uniformVector lets a bare number stand for (n, n, n).
func uniformVector(from, to reflect.Type, data any) (any, error) {
	if to != vec3Type {
		return data, nil
	}
	if f, ok := schema.AsFloat(data); ok {
		return [3]float64{f, f, f}, nil
	}
	return data, nil
}

var shapes = map[string]generator{
	"torus":     torusShape,
	"plane":     planeShape,
	"grid":      gridShape,
	"cube":      cubeShape,
	"uvsphere":  uvSphereShape,
	"icosphere": icoSphereShape,
	"cylinder":  cylinderShape,
	"cone":      coneShape,
	"circle":    circleShape,
}

// Builder constructs primitive geometry.
type Builder struct {
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the mesh for shape with params applied over the defaults.
func (b *Builder) Build(ctx context.Context, name string, params domain.Params) (domain.Geometry, error) {
	gen, ok := shapes[name]
	if !ok {
		return domain.Geometry{}, fmt.Errorf("%w: %s", domain.ErrUnknownShape, name)
	}
	m, err := gen.build(params)
	if err != nil {
		return domain.Geometry{}, fmt.Errorf("%s: %w", name, err)
	}
	b.logger.Debug("primitive built", "shape", name, "vertices", len(m.vertices))
	return domain.Geometry{
		Shape:    name,
		Vertices: m.vertices,
		Faces:    m.faces,
	}, nil
}

// Normalize implements ports.ParamNormalizer: requests that build the same
// mesh come back with identical params.
func (b *Builder) Normalize(ctx context.Context, name string, params domain.Params) (domain.Params, error) {
	gen, ok := shapes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownShape, name)
	}
	full, err := gen.normalize(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return full, nil
}

// Shapes lists the supported shape names, sorted.
func Shapes() []string {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is a supported shape.
func Has(name string) bool {
	_, ok := shapes[name]
	return ok
}

// Schema returns the parameter schema of a shape.
func Schema(name string) (schema.Schema, error) {
	gen, ok := shapes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownShape, name)
	}
	return gen.schema(), nil
}

// Defaults returns the default parameters of a shape.
func Defaults(name string) (domain.Params, error) {
	gen, ok := shapes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownShape, name)
	}
	return gen.defaults()
}

// Validate checks params against the shape schema without building anything.
func Validate(name string, params domain.Params) error {
	gen, ok := shapes[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownShape, name)
	}
	if err := schema.Validate(gen.schema(), params); err != nil {
		return fmt.Errorf("%s: %w: %v", name, domain.ErrInvalidParams, err)
	}
	return nil
}

// Info describes a shape for discovery endpoints.
type Info struct {
	Name     string        `json:"name"`
	Schema   schema.Schema `json:"schema"`
	Defaults domain.Params `json:"defaults"`
}

// Catalog describes every supported shape, sorted by name.
func Catalog() ([]Info, error) {
	out := make([]Info, 0, len(shapes))
	for _, name := range Shapes() {
		defaults, err := shapes[name].defaults()
		if err != nil {
			return nil, fmt.Errorf("%s defaults: %w", name, err)
		}
		out = append(out, Info{Name: name, Schema: shapes[name].schema(), Defaults: defaults})
	}
	return out, nil
}

var (
	errNegative = errors.New("must not be negative")
	errTooLarge = errors.New("too large")
)
