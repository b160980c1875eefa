package memory

import (
	"context"
	"sync"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/google/uuid"
)

// Scene implements ports.Scene in memory.
// Safe for concurrent use.
type Scene struct {
	mu         sync.RWMutex
	geometries map[string]domain.Geometry
	objects    []*domain.Object
	index      map[domain.Handle]*domain.Object
	background *domain.RGBA
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		geometries: make(map[string]domain.Geometry),
		index:      make(map[domain.Handle]*domain.Object),
	}
}

// Link creates a new object sharing geom. Geometry is stored once by ID.
func (s *Scene) Link(ctx context.Context, shape string, geom domain.Geometry) (domain.Handle, error) {
	obj := &domain.Object{
		Handle:     domain.Handle(uuid.NewString()),
		Shape:      shape,
		GeometryID: geom.ID,
		Pose:       domain.IdentityPose(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.geometries[geom.ID]; !ok {
		s.geometries[geom.ID] = geom
	}
	s.objects = append(s.objects, obj)
	s.index[obj.Handle] = obj
	return obj.Handle, nil
}

// SetWorldTransform replaces the object's pose.
func (s *Scene) SetWorldTransform(ctx context.Context, h domain.Handle, pose domain.Pose) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.index[h]
	if !ok {
		return domain.ErrObjectNotFound
	}
	obj.Pose = pose
	return nil
}

// AttachMaterial gives the object its own material.
func (s *Scene) AttachMaterial(ctx context.Context, h domain.Handle, color domain.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.index[h]
	if !ok {
		return domain.ErrObjectNotFound
	}
	m := domain.NewMaterial(color)
	obj.Material = &m
	return nil
}

// SetBackground records the world colour.
func (s *Scene) SetBackground(ctx context.Context, color domain.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = &color
	return nil
}

// Object returns a copy of the object behind h.
func (s *Scene) Object(h domain.Handle) (domain.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.index[h]
	if !ok {
		return domain.Object{}, false
	}
	return copyObject(obj), true
}

// Len returns the number of placed objects.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Snapshot copies the scene content. Objects keep placement order.
func (s *Scene) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.Snapshot{
		Geometries: make(map[string]domain.Geometry, len(s.geometries)),
		Objects:    make([]domain.Object, 0, len(s.objects)),
	}
	if s.background != nil {
		bg := *s.background
		snap.Background = &bg
	}
	for id, g := range s.geometries {
		snap.Geometries[id] = g
	}
	for _, obj := range s.objects {
		snap.Objects = append(snap.Objects, copyObject(obj))
	}
	return snap, nil
}

func copyObject(obj *domain.Object) domain.Object {
	out := *obj
	if obj.Material != nil {
		m := *obj.Material
		out.Material = &m
	}
	return out
}
