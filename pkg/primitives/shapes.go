package primitives

import (
	"math"

	"github.com/aretw0/algorist/pkg/schema"
	"github.com/ungerik/go3d/float64/vec3"
)

type torusParams struct {
	MajorRadius   float64 `mapstructure:"major_radius"`
	MinorRadius   float64 `mapstructure:"minor_radius"`
	MajorSegments int     `mapstructure:"major_segments"`
	MinorSegments int     `mapstructure:"minor_segments"`
}

var torusShape = shape[torusParams]{
	fields: schema.Schema{
		"major_radius":   schema.PositiveFloat(),
		"minor_radius":   schema.PositiveFloat(),
		"major_segments": schema.MinInt(3),
		"minor_segments": schema.MinInt(3),
	},
	zero: torusParams{MajorRadius: 1, MinorRadius: 0.25, MajorSegments: 48, MinorSegments: 12},
	mesh: func(p torusParams) mesh {
		var m mesh
		for i := 0; i < p.MajorSegments; i++ {
			u := 2 * math.Pi * float64(i) / float64(p.MajorSegments)
			su, cu := math.Sincos(u)
			for j := 0; j < p.MinorSegments; j++ {
				v := 2 * math.Pi * float64(j) / float64(p.MinorSegments)
				sv, cv := math.Sincos(v)
				r := p.MajorRadius + p.MinorRadius*cv
				m.vertices = append(m.vertices, vec3.T{r * cu, r * su, p.MinorRadius * sv})
			}
		}
		for i := 0; i < p.MajorSegments; i++ {
			ni := (i + 1) % p.MajorSegments
			for j := 0; j < p.MinorSegments; j++ {
				nj := (j + 1) % p.MinorSegments
				m.faces = append(m.faces, []int{
					i*p.MinorSegments + j,
					ni*p.MinorSegments + j,
					ni*p.MinorSegments + nj,
					i*p.MinorSegments + nj,
				})
			}
		}
		return m
	},
}

type planeParams struct {
	Size float64 `mapstructure:"size"`
}

var planeShape = shape[planeParams]{
	fields: schema.Schema{"size": schema.PositiveFloat()},
	zero:   planeParams{Size: 2},
	mesh: func(p planeParams) mesh {
		return gridMesh(p.Size, 1, 1)
	},
}

type gridParams struct {
	Size          float64 `mapstructure:"size"`
	XSubdivisions int     `mapstructure:"x_subdivisions"`
	YSubdivisions int     `mapstructure:"y_subdivisions"`
}

var gridShape = shape[gridParams]{
	fields: schema.Schema{
		"size":           schema.PositiveFloat(),
		"x_subdivisions": schema.MinInt(1),
		"y_subdivisions": schema.MinInt(1),
	},
	zero: gridParams{Size: 2, XSubdivisions: 10, YSubdivisions: 10},
	mesh: func(p gridParams) mesh {
		return gridMesh(p.Size, p.XSubdivisions, p.YSubdivisions)
	},
}

// gridMesh lays nx by ny quads over a size x size square in the XY plane.
func gridMesh(size float64, nx, ny int) mesh {
	var m mesh
	half := size / 2
	for y := 0; y <= ny; y++ {
		for x := 0; x <= nx; x++ {
			m.vertices = append(m.vertices, vec3.T{
				-half + size*float64(x)/float64(nx),
				-half + size*float64(y)/float64(ny),
				0,
			})
		}
	}
	row := nx + 1
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			i := y*row + x
			m.faces = append(m.faces, []int{i, i + 1, i + row + 1, i + row})
		}
	}
	return m
}

type cubeParams struct {
	Size [3]float64 `mapstructure:"size"`
}

var cubeShape = shape[cubeParams]{
	fields: schema.Schema{"size": schema.Custom("float|[3]float", func(v any) error {
		if _, ok := schema.AsFloat(v); ok {
			return schema.PositiveFloat().Validate(v)
		}
		return schema.Vector(3).Validate(v)
	})},
	zero:   cubeParams{Size: [3]float64{1, 1, 1}},
	mesh: func(p cubeParams) mesh {
		hx, hy, hz := p.Size[0]*0.5, p.Size[1]*0.5, p.Size[2]*0.5
		return mesh{
			vertices: []vec3.T{
				{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
				{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
			},
			faces: [][]int{
				{0, 3, 2, 1}, // bottom
				{4, 5, 6, 7}, // top
				{0, 1, 5, 4},
				{1, 2, 6, 5},
				{2, 3, 7, 6},
				{3, 0, 4, 7},
			},
		}
	},
}

type uvSphereParams struct {
	Radius    float64 `mapstructure:"radius"`
	Segments  int     `mapstructure:"segments"`
	RingCount int     `mapstructure:"ring_count"`
}

var uvSphereShape = shape[uvSphereParams]{
	fields: schema.Schema{
		"radius":     schema.PositiveFloat(),
		"segments":   schema.MinInt(3),
		"ring_count": schema.MinInt(3),
	},
	zero: uvSphereParams{Radius: 1, Segments: 32, RingCount: 16},
	mesh: func(p uvSphereParams) mesh {
		m := mesh{vertices: []vec3.T{{0, 0, p.Radius}}}
		for ring := 1; ring < p.RingCount; ring++ {
			phi := math.Pi * float64(ring) / float64(p.RingCount)
			sp, cp := math.Sincos(phi)
			for seg := 0; seg < p.Segments; seg++ {
				theta := 2 * math.Pi * float64(seg) / float64(p.Segments)
				st, ct := math.Sincos(theta)
				m.vertices = append(m.vertices, vec3.T{p.Radius * sp * ct, p.Radius * sp * st, p.Radius * cp})
			}
		}
		south := len(m.vertices)
		m.vertices = append(m.vertices, vec3.T{0, 0, -p.Radius})

		at := func(ring, seg int) int { return 1 + (ring-1)*p.Segments + seg%p.Segments }
		for seg := 0; seg < p.Segments; seg++ {
			m.faces = append(m.faces, []int{0, at(1, seg), at(1, seg+1)})
		}
		for ring := 1; ring < p.RingCount-1; ring++ {
			for seg := 0; seg < p.Segments; seg++ {
				m.faces = append(m.faces, []int{at(ring, seg), at(ring+1, seg), at(ring+1, seg+1), at(ring, seg+1)})
			}
		}
		last := p.RingCount - 1
		for seg := 0; seg < p.Segments; seg++ {
			m.faces = append(m.faces, []int{south, at(last, seg+1), at(last, seg)})
		}
		return m
	},
}

type icoSphereParams struct {
	Radius       float64 `mapstructure:"radius"`
	Subdivisions int     `mapstructure:"subdivisions"`
}

var icoSphereShape = shape[icoSphereParams]{
	fields: schema.Schema{
		"radius":       schema.PositiveFloat(),
		"subdivisions": schema.Custom("int[1,8]", boundedInt(1, 8)),
	},
	zero: icoSphereParams{Radius: 1, Subdivisions: 2},
	mesh: func(p icoSphereParams) mesh {
		return icosphere(p.Radius, p.Subdivisions)
	},
}

// icosphere subdivides an icosahedron; one subdivision is the bare icosahedron.
func icosphere(radius float64, subdivisions int) mesh {
	t := (1 + math.Sqrt(5)) / 2
	verts := []vec3.T{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	faces := [][]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for level := 1; level < subdivisions; level++ {
		mid := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			if a > b {
				a, b = b, a
			}
			if i, ok := mid[[2]int{a, b}]; ok {
				return i
			}
			va, vb := verts[a], verts[b]
			verts = append(verts, vec3.T{(va[0] + vb[0]) / 2, (va[1] + vb[1]) / 2, (va[2] + vb[2]) / 2})
			mid[[2]int{a, b}] = len(verts) - 1
			return len(verts) - 1
		}

		next := make([][]int, 0, len(faces)*4)
		for _, f := range faces {
			ab, bc, ca := midpoint(f[0], f[1]), midpoint(f[1], f[2]), midpoint(f[2], f[0])
			next = append(next,
				[]int{f[0], ab, ca},
				[]int{f[1], bc, ab},
				[]int{f[2], ca, bc},
				[]int{ab, bc, ca},
			)
		}
		faces = next
	}

	for i, v := range verts {
		l := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		verts[i] = vec3.T{v[0] / l * radius, v[1] / l * radius, v[2] / l * radius}
	}
	return mesh{vertices: verts, faces: faces}
}

type cylinderParams struct {
	Radius   float64 `mapstructure:"radius"`
	Depth    float64 `mapstructure:"depth"`
	Vertices int     `mapstructure:"vertices"`
}

var cylinderShape = shape[cylinderParams]{
	fields: schema.Schema{
		"radius":   schema.PositiveFloat(),
		"depth":    schema.PositiveFloat(),
		"vertices": schema.MinInt(3),
	},
	zero: cylinderParams{Radius: 1, Depth: 2, Vertices: 32},
	mesh: func(p cylinderParams) mesh {
		return frustum(p.Radius, p.Radius, p.Depth, p.Vertices)
	},
}

type coneParams struct {
	Radius1  float64 `mapstructure:"radius1"`
	Radius2  float64 `mapstructure:"radius2"`
	Depth    float64 `mapstructure:"depth"`
	Vertices int     `mapstructure:"vertices"`
}

var coneShape = shape[coneParams]{
	fields: schema.Schema{
		"radius1":  schema.Custom("non_negative_float", nonNegative),
		"radius2":  schema.Custom("non_negative_float", nonNegative),
		"depth":    schema.PositiveFloat(),
		"vertices": schema.MinInt(3),
	},
	zero: coneParams{Radius1: 1, Radius2: 0, Depth: 2, Vertices: 32},
	mesh: func(p coneParams) mesh {
		return frustum(p.Radius1, p.Radius2, p.Depth, p.Vertices)
	},
}

// frustum builds a capped truncated cone centred on the origin along Z.
// A zero radius collapses that end to a single apex vertex.
func frustum(bottom, top, depth float64, n int) mesh {
	var m mesh
	half := depth / 2

	ring := func(r, z float64) []int {
		if r == 0 {
			m.vertices = append(m.vertices, vec3.T{0, 0, z})
			return []int{len(m.vertices) - 1}
		}
		idx := make([]int, n)
		for i := 0; i < n; i++ {
			s, c := math.Sincos(2 * math.Pi * float64(i) / float64(n))
			m.vertices = append(m.vertices, vec3.T{r * c, r * s, z})
			idx[i] = len(m.vertices) - 1
		}
		return idx
	}
	lo, hi := ring(bottom, -half), ring(top, half)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		switch {
		case len(lo) == 1 && len(hi) == 1:
			// degenerate spike, nothing to connect
		case len(hi) == 1:
			m.faces = append(m.faces, []int{lo[i], lo[j], hi[0]})
		case len(lo) == 1:
			m.faces = append(m.faces, []int{lo[0], hi[j], hi[i]})
		default:
			m.faces = append(m.faces, []int{lo[i], lo[j], hi[j], hi[i]})
		}
	}

	if len(lo) > 1 {
		base := make([]int, n)
		for i := range lo {
			base[i] = lo[n-1-i]
		}
		m.faces = append(m.faces, base)
	}
	if len(hi) > 1 {
		m.faces = append(m.faces, append([]int(nil), hi...))
	}
	return m
}

const (
	FillNothing = "NOTHING"
	FillNgon    = "NGON"
	FillTrifan  = "TRIFAN"
)

type circleParams struct {
	Radius   float64 `mapstructure:"radius"`
	Vertices int     `mapstructure:"vertices"`
	FillType string  `mapstructure:"fill_type"`
}

var circleShape = shape[circleParams]{
	fields: schema.Schema{
		"radius":    schema.PositiveFloat(),
		"vertices":  schema.MinInt(3),
		"fill_type": schema.Enum(FillNothing, FillNgon, FillTrifan),
	},
	zero: circleParams{Radius: 1, Vertices: 32, FillType: FillNothing},
	mesh: func(p circleParams) mesh {
		var m mesh
		ring := make([]int, p.Vertices)
		for i := range ring {
			s, c := math.Sincos(2 * math.Pi * float64(i) / float64(p.Vertices))
			m.vertices = append(m.vertices, vec3.T{p.Radius * c, p.Radius * s, 0})
			ring[i] = i
		}

		switch p.FillType {
		case FillNgon:
			m.faces = [][]int{ring}
		case FillTrifan:
			centre := len(m.vertices)
			m.vertices = append(m.vertices, vec3.T{})
			for i := range ring {
				m.faces = append(m.faces, []int{centre, ring[i], ring[(i+1)%len(ring)]})
			}
		}
		return m
	},
}

func nonNegative(v any) error {
	if err := schema.Float().Validate(v); err != nil {
		return err
	}
	if f, _ := schema.AsFloat(v); f < 0 {
		return errNegative
	}
	return nil
}

func boundedInt(min, max int) func(any) error {
	return func(v any) error {
		if err := schema.MinInt(min).Validate(v); err != nil {
			return err
		}
		if f, _ := schema.AsFloat(v); f > float64(max) {
			return errTooLarge
		}
		return nil
	}
}
