// Package preview rasterises a scene snapshot into a flat-shaded orthographic
// PNG. It is a quick look at what a grammar grew, not a renderer.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/ungerik/go3d/float64/vec3"
	"golang.org/x/image/vector"
)

// ErrEmptyScene is returned when the snapshot has nothing to draw.
var ErrEmptyScene = errors.New("preview: nothing to draw")

// View is the axis the camera looks along.
type View string

const (
	// ViewTop looks down the Z axis.
	ViewTop View = "top"
	// ViewFront looks along +Y.
	ViewFront View = "front"
	// ViewSide looks along -X.
	ViewSide View = "side"
)

// ParseView accepts top, front or side.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewTop, ViewFront, ViewSide:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q (want top, front or side)", s)
}

var (
	defaultBackground = domain.RGBA{R: 0.12, G: 0.12, B: 0.14, A: 1}
	unpainted         = domain.RGBA{R: 0.7, G: 0.7, B: 0.7, A: 1}
)

type config struct {
	width, height int
	margin        int
	view          View
}

// Option configures Render.
type Option func(*config)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(c *config) {
		c.width, c.height = width, height
	}
}

// WithView selects the projection.
func WithView(v View) Option {
	return func(c *config) {
		c.view = v
	}
}

// WithMargin sets the empty border around the scene, in pixels.
func WithMargin(px int) Option {
	return func(c *config) {
		c.margin = px
	}
}

// face is one polygon ready to fill.
type face struct {
	points []vec3.T // projected: x, y in view units, z is depth (larger is nearer)
	fill   color.NRGBA
}

// Render draws snap with faces sorted far to near.
func Render(snap domain.Snapshot, opts ...Option) (*image.RGBA, error) {
	cfg := config{width: 800, height: 800, margin: 16, view: ViewFront}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return nil, fmt.Errorf("preview: invalid size %dx%d", cfg.width, cfg.height)
	}

	faces := collect(snap, cfg.view)
	if len(faces) == 0 {
		return nil, ErrEmptyScene
	}
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].depth() < faces[j].depth() })

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range faces {
		for _, p := range f.points {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}
	inner := float64(min(cfg.width, cfg.height) - 2*cfg.margin)
	if inner <= 0 {
		return nil, fmt.Errorf("preview: margin %d leaves no room", cfg.margin)
	}
	extent := math.Max(maxX-minX, maxY-minY)
	scale := 1.0
	if extent > 0 {
		scale = inner / extent
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	toPixel := func(p vec3.T) (float32, float32) {
		x := float64(cfg.width)/2 + (p[0]-cx)*scale
		y := float64(cfg.height)/2 - (p[1]-cy)*scale
		return float32(x), float32(y)
	}

	bounds := image.Rect(0, 0, cfg.width, cfg.height)
	dst := image.NewRGBA(bounds)
	bg := defaultBackground
	if snap.Background != nil {
		bg = *snap.Background
	}
	draw.Draw(dst, bounds, image.NewUniform(nrgba(bg, 1)), image.Point{}, draw.Src)

	ras := vector.NewRasterizer(cfg.width, cfg.height)
	for _, f := range faces {
		ras.Reset(cfg.width, cfg.height)
		x, y := toPixel(f.points[0])
		ras.MoveTo(x, y)
		for _, p := range f.points[1:] {
			x, y := toPixel(p)
			ras.LineTo(x, y)
		}
		ras.ClosePath()
		ras.Draw(dst, bounds, image.NewUniform(f.fill), image.Point{})
	}
	return dst, nil
}

// WritePNG renders snap and encodes it to w.
func WritePNG(w io.Writer, snap domain.Snapshot, opts ...Option) error {
	img, err := Render(snap, opts...)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WriteFile renders snap to a PNG file at path.
func WriteFile(path string, snap domain.Snapshot, opts ...Option) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create preview directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	if err := WritePNG(f, snap, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (f face) depth() float64 {
	var sum float64
	for _, p := range f.points {
		sum += p[2]
	}
	return sum / float64(len(f.points))
}

// project maps a world point to (screen x, screen y, depth).
func project(v View, p vec3.T) vec3.T {
	switch v {
	case ViewTop:
		return vec3.T{p[0], p[1], p[2]}
	case ViewSide:
		return vec3.T{p[1], p[2], p[0]}
	default:
		return vec3.T{p[0], p[2], -p[1]}
	}
}

// towardCamera is the unit vector from the scene to the camera.
func towardCamera(v View) vec3.T {
	switch v {
	case ViewTop:
		return vec3.T{0, 0, 1}
	case ViewSide:
		return vec3.T{1, 0, 0}
	default:
		return vec3.T{0, -1, 0}
	}
}

func collect(snap domain.Snapshot, view View) []face {
	light := towardCamera(view)
	light = vec3.Add(&light, &vec3.T{0.3, 0.2, 0.4})
	light.Normalize()

	var faces []face
	for _, obj := range snap.Objects {
		geom, ok := snap.Geometries[obj.GeometryID]
		if !ok {
			continue
		}
		paint := unpainted
		if obj.Material != nil {
			paint = obj.Material.Color
		}
		for _, idx := range geom.Faces {
			if len(idx) < 3 {
				continue
			}
			world := make([]vec3.T, 0, len(idx))
			for _, i := range idx {
				if i < 0 || i >= len(geom.Vertices) {
					world = nil
					break
				}
				world = append(world, obj.Pose.TransformPoint(geom.Vertices[i]))
			}
			if len(world) < 3 {
				continue
			}

			e1 := vec3.Sub(&world[1], &world[0])
			e2 := vec3.Sub(&world[2], &world[0])
			n := vec3.Cross(&e1, &e2)
			n.Normalize()
			shade := 0.35 + 0.65*math.Abs(vec3.Dot(&n, &light))

			pts := make([]vec3.T, len(world))
			for i, p := range world {
				pts[i] = project(view, p)
			}
			faces = append(faces, face{points: pts, fill: nrgba(paint, shade)})
		}
	}
	return faces
}

func nrgba(c domain.RGBA, shade float64) color.NRGBA {
	ch := func(v float64) uint8 {
		return uint8(math.Round(domain.Clamp01(v) * 255))
	}
	return color.NRGBA{R: ch(c.R * shade), G: ch(c.G * shade), B: ch(c.B * shade), A: ch(c.A)}
}
