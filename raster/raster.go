// Package raster runs the primitive programs on the CPU.
//
// It assembles each instance's four-vertex strip into two triangles, maps
// clip space to the framebuffer, samples pixel centres with a top-left
// fill rule, interpolates the vertex outputs, runs the fragment stage and
// blends the premultiplied result source-over into a [Target]. Screen
// tiles are shaded in parallel; within a pixel, draws land in submission
// order.
package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/prim2d"
	"github.com/gogpu/prim2d/internal/parallel"
)

// stripTriangles are the vertex indices of the two triangles of a strip.
var stripTriangles = [2][3]uint32{{0, 1, 2}, {1, 2, 3}}

// Rasterizer draws instances into targets. It is safe for concurrent use
// on distinct targets.
type Rasterizer struct {
	opts options
	pool *parallel.WorkerPool
}

// New creates a rasterizer. Close releases its workers.
func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{opts: buildOptions(opts)}
	if r.opts.workers != 1 {
		r.pool = parallel.NewWorkerPool(r.opts.workers)
	}
	return r
}

// Close stops the worker pool.
func (r *Rasterizer) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// Draw runs every instance through its program and blends the fragments
// into t. Instances may mix kinds. tex is sampled by textured rectangles;
// with a nil tex they write nothing. The frame is validated; instances are
// not, and degenerate ones draw whatever the programs produce for them.
func (r *Rasterizer) Draw(t *Target, frame prim2d.FrameUniform, instances []prim2d.Instance, tex prim2d.Sampler) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	if r.opts.clear != nil {
		t.Clear(*r.opts.clear)
	}

	prims := make([]primitive, 0, len(instances))
	skipped := 0
	for _, inst := range instances {
		p, ok := assemble(inst, frame, t.width, t.height)
		if !ok {
			skipped++
			continue
		}
		prims = append(prims, p)
	}
	if skipped > 0 {
		prim2d.Logger().Debug("raster: skipped non-finite instances", "count", skipped)
	}
	if len(prims) == 0 {
		return nil
	}

	parallel.ForEachTile(r.pool, t.Bounds(), r.opts.tileSize, func(tile image.Rectangle) {
		for i := range prims {
			prims[i].shade(t, tile, tex)
		}
	})
	return nil
}

// DrawAll is Draw for a slice of one concrete instance type.
func DrawAll[T prim2d.Instance](r *Rasterizer, t *Target, frame prim2d.FrameUniform, instances []T, tex prim2d.Sampler) error {
	list := make([]prim2d.Instance, len(instances))
	for i, inst := range instances {
		list[i] = inst
	}
	return r.Draw(t, frame, list, tex)
}

// vertex is a strip vertex in framebuffer space with its varyings.
type vertex struct {
	x, y float64
	out  prim2d.V2F
}

// primitive is one assembled instance.
type primitive struct {
	kind   prim2d.Kind
	verts  [prim2d.QuadVertexCount]vertex
	bounds image.Rectangle
}

// assemble runs the vertex stage and maps the strip to framebuffer
// coordinates. It fails for non-finite positions.
func assemble(inst prim2d.Instance, frame prim2d.FrameUniform, width, height int) (primitive, bool) {
	p := primitive{kind: inst.Kind()}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range p.verts {
		out := inst.Vertex(frame, uint32(i))
		x, y, ok := toFramebuffer(out.Position, width, height)
		if !ok {
			return p, false
		}
		p.verts[i] = vertex{x: x, y: y, out: out}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	// Clamp before converting so huge quads do not overflow int.
	fw, fh := float64(width)+1, float64(height)+1
	minX, maxX = clampSpan(minX, fw), clampSpan(maxX, fw)
	minY, maxY = clampSpan(minY, fh), clampSpan(maxY, fh)
	// Pixel (px, py) is sampled at its centre, so it can only be covered
	// when minX <= px+0.5 <= maxX.
	p.bounds = image.Rect(
		int(math.Ceil(minX-0.5)), int(math.Ceil(minY-0.5)),
		int(math.Floor(maxX-0.5))+1, int(math.Floor(maxY-0.5))+1,
	).Intersect(image.Rect(0, 0, width, height))
	return p, true
}

func clampSpan(v, hi float64) float64 {
	return math.Min(math.Max(v, -1), hi)
}

// toFramebuffer applies the perspective divide and viewport mapping.
func toFramebuffer(pos f32.Vec4, width, height int) (x, y float64, ok bool) {
	w := pos[3]
	if !(w != 0) || math32.IsInf(w, 0) {
		return 0, 0, false
	}
	nx, ny := float64(pos[0]/w), float64(pos[1]/w)
	if math.IsNaN(nx) || math.IsNaN(ny) || math.IsInf(nx, 0) || math.IsInf(ny, 0) {
		return 0, 0, false
	}
	return (nx + 1) / 2 * float64(width), (1 - ny) / 2 * float64(height), true
}

// shade rasterizes both strip triangles inside tile.
func (p *primitive) shade(t *Target, tile image.Rectangle, tex prim2d.Sampler) {
	area := p.bounds.Intersect(tile)
	if area.Empty() {
		return
	}
	for _, tri := range stripTriangles {
		a, b, c := p.verts[tri[0]], p.verts[tri[1]], p.verts[tri[2]]
		rasterTriangle(t, area, p.kind, a, b, c, tex)
	}
}

func rasterTriangle(t *Target, area image.Rectangle, kind prim2d.Kind, a, b, c vertex, tex prim2d.Sampler) {
	det := edge(a, b, c.x, c.y)
	if det == 0 {
		return
	}
	if det < 0 {
		b, c = c, b
		det = -det
	}
	inv := 1 / det

	for py := area.Min.Y; py < area.Max.Y; py++ {
		sy := float64(py) + 0.5
		row := py * t.width
		for px := area.Min.X; px < area.Max.X; px++ {
			sx := float64(px) + 0.5
			w0 := edge(b, c, sx, sy)
			w1 := edge(c, a, sx, sy)
			w2 := edge(a, b, sx, sy)
			if !inside(w0, b, c) || !inside(w1, c, a) || !inside(w2, a, b) {
				continue
			}
			in := interpolate(a.out, b.out, c.out, float32(w0*inv), float32(w1*inv), float32(w2*inv))
			if color, ok := prim2d.Shade(kind, in, tex); ok {
				t.blend(row+px, color)
			}
		}
	}
}

// edge is the signed area of (a, b, p). With y pointing down it is
// positive when p lies to the right of a->b. The endpoints are ordered
// before evaluating so an edge shared by two triangles yields exactly
// opposite values for both.
func edge(a, b vertex, px, py float64) float64 {
	if a.x > b.x || (a.x == b.x && a.y > b.y) {
		return -edge(b, a, px, py)
	}
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// inside applies the top-left rule: samples exactly on an edge belong to
// the triangle only when the edge is a top or left edge.
func inside(w float64, a, b vertex) bool {
	if w > 0 {
		return true
	}
	if w < 0 {
		return false
	}
	dx, dy := b.x-a.x, b.y-a.y
	return dy < 0 || (dy == 0 && dx > 0)
}

func interpolate(a, b, c prim2d.V2F, wa, wb, wc float32) prim2d.V2F {
	var out prim2d.V2F
	for i := range out.Position {
		out.Position[i] = a.Position[i]*wa + b.Position[i]*wb + c.Position[i]*wc
		out.Color[i] = a.Color[i]*wa + b.Color[i]*wb + c.Color[i]*wc
	}
	for i := range out.UV {
		out.UV[i] = a.UV[i]*wa + b.UV[i]*wb + c.UV[i]*wc
	}
	out.RadiusRatio = a.RadiusRatio*wa + b.RadiusRatio*wb + c.RadiusRatio*wc
	return out
}

// String describes the rasterizer configuration.
func (r *Rasterizer) String() string {
	workers := 1
	if r.pool != nil {
		workers = r.pool.Workers()
	}
	return fmt.Sprintf("raster(workers=%d, tile=%d)", workers, r.opts.tileSize)
}
