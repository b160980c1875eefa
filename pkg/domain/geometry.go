package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"
)

// Params are the keyword parameters of a shape request.
type Params map[string]any

// Handle identifies a placed object inside a scene.
type Handle string

// ShapeKey is the cache identity of a piece of geometry: the shape name plus the
// canonical encoding of its full, sorted parameter set.
type ShapeKey struct {
	Shape  string `json:"shape"`
	Params string `json:"params"`
}

// NewShapeKey canonicalises params so that numerically equal values (1, 1.0,
// json.Number("1")) produce the same key.
func NewShapeKey(shape string, params Params) ShapeKey {
	return ShapeKey{Shape: shape, Params: canonicalMap(reflect.ValueOf(map[string]any(params)))}
}

func (k ShapeKey) String() string {
	return k.Shape + "(" + k.Params + ")"
}

func canonicalMap(v reflect.Value) string {
	if !v.IsValid() || v.Len() == 0 {
		return ""
	}
	keys := make([]string, 0, v.Len())
	vals := make(map[string]reflect.Value, v.Len())
	for _, k := range v.MapKeys() {
		name := fmt.Sprint(k.Interface())
		keys = append(keys, name)
		vals[name] = v.MapIndex(k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(canonicalValue(vals[k]))
	}
	return b.String()
}

func canonicalValue(v reflect.Value) string {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return "null"
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return "null"
	}
	if n, ok := v.Interface().(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return formatNumber(f)
		}
		return strconv.Quote(n.String())
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return formatNumber(float64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return formatNumber(float64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		return formatNumber(v.Float())
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.String:
		return strconv.Quote(v.String())
	case reflect.Slice, reflect.Array:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = canonicalValue(v.Index(i))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case reflect.Map:
		return "{" + canonicalMap(v) + "}"
	}
	return strconv.Quote(fmt.Sprint(v.Interface()))
}

func formatNumber(f float64) string {
	if f == 0 {
		// fold -0 into 0
		return "0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Geometry is built mesh data shared by every object placed from the same ShapeKey.
type Geometry struct {
	ID       string   `json:"id" yaml:"id"`
	Shape    string   `json:"shape" yaml:"shape"`
	Key      ShapeKey `json:"key" yaml:"key"`
	Vertices []vec3.T `json:"vertices" yaml:"vertices"`
	Faces    [][]int  `json:"faces" yaml:"faces"`
}

// Material is an object-local colour. Blend is set whenever alpha < 1.
type Material struct {
	Color RGBA `json:"color" yaml:"color"`
	Blend bool `json:"blend,omitempty" yaml:"blend,omitempty"`
}

// NewMaterial builds the material for a colour, enabling blending for transparency.
func NewMaterial(c RGBA) Material {
	return Material{Color: c, Blend: c.Transparent()}
}

// Object is an independently placeable instance of a Geometry.
type Object struct {
	Handle     Handle    `json:"handle" yaml:"handle"`
	Shape      string    `json:"shape" yaml:"shape"`
	GeometryID string    `json:"geometry_id" yaml:"geometry_id"`
	Pose       Pose      `json:"pose" yaml:"pose"`
	Material   *Material `json:"material,omitempty" yaml:"material,omitempty"`
}

// Snapshot is the full content of a scene at a point in time.
type Snapshot struct {
	Background *RGBA               `json:"background,omitempty" yaml:"background,omitempty"`
	Geometries map[string]Geometry `json:"geometries" yaml:"geometries"`
	Objects    []Object            `json:"objects" yaml:"objects"`
}

// Bounds returns the world-space axis-aligned box around every placed
// vertex. ok is false when nothing with vertices has been placed.
func (s Snapshot) Bounds() (min, max vec3.T, ok bool) {
	for _, obj := range s.Objects {
		geom, found := s.Geometries[obj.GeometryID]
		if !found {
			continue
		}
		for _, v := range geom.Vertices {
			p := obj.Pose.TransformPoint(v)
			if !ok {
				min, max, ok = p, p, true
				continue
			}
			for i := range 3 {
				min[i] = math.Min(min[i], p[i])
				max[i] = math.Max(max[i], p[i])
			}
		}
	}
	return min, max, ok
}

// ShapeCounts counts the placed objects per shape name.
func (s Snapshot) ShapeCounts() map[string]int {
	counts := make(map[string]int)
	for _, obj := range s.Objects {
		counts[obj.Shape]++
	}
	return counts
}
