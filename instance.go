package prim2d

import (
	"fmt"

	"golang.org/x/image/math/f32"
)

// V2F is the vertex stage output: a clip-space position plus the values the
// rasterizer interpolates across the quad.
type V2F struct {
	Position f32.Vec4
	Color    f32.Vec4
	// UV is the quad coordinate in [-1, 1] for circles and rings and the
	// texture coordinate in [0, 1] for textured rectangles.
	UV f32.Vec2
	// RadiusRatio is inner/outer for rings and 0 otherwise.
	RadiusRatio float32
}

// Instance is one primitive descriptor. Each concrete type matches the
// per-instance vertex layout of its program byte for byte (see AppendTo).
type Instance interface {
	// Kind names the program that draws the instance.
	Kind() Kind
	// Vertex runs the vertex stage for one strip vertex.
	Vertex(frame FrameUniform, index uint32) V2F
	// Validate reports degenerate input. Drawing never requires it.
	Validate() error
	// AppendTo appends the little-endian instance record to dst.
	AppendTo(dst []byte) []byte
}

// Point is a fixed-size square centered on Position.
type Point struct {
	Color    f32.Vec4
	Position f32.Vec2
}

// Kind returns KindPoint.
func (Point) Kind() Kind { return KindPoint }

// Vertex expands the point to a quad of half side PointHalfExtent.
func (p Point) Vertex(frame FrameUniform, index uint32) V2F {
	corner := QuadCorner(index)
	pos := add2(scale2(corner, PointHalfExtent), p.Position)
	return V2F{Position: ToClip(pos, frame), Color: p.Color, UV: corner}
}

// Validate checks that every attribute is finite.
func (p Point) Validate() error {
	if !finite4(p.Color) || !finite2(p.Position) {
		return fmt.Errorf("point at %v: %w", p.Position, ErrNonFinite)
	}
	return nil
}

// AppendTo appends color then position.
func (p Point) AppendTo(dst []byte) []byte {
	return appendFloats(dst, p.Color[0], p.Color[1], p.Color[2], p.Color[3],
		p.Position[0], p.Position[1])
}

// Circle is an antialiased disc.
type Circle struct {
	Color  f32.Vec4
	Center f32.Vec2
	Radius float32
}

// Kind returns KindCircle.
func (Circle) Kind() Kind { return KindCircle }

// Vertex places a corner of the square that bounds the disc.
func (c Circle) Vertex(frame FrameUniform, index uint32) V2F {
	pos, uv := expandRadial(c.Center, c.Radius, index)
	return V2F{Position: ToClip(pos, frame), Color: c.Color, UV: uv}
}

// Validate rejects non-finite attributes and a non-positive radius.
func (c Circle) Validate() error {
	if !finite4(c.Color) || !finite2(c.Center) || !finite(c.Radius) {
		return fmt.Errorf("circle at %v: %w", c.Center, ErrNonFinite)
	}
	if !(c.Radius > 0) {
		return fmt.Errorf("circle radius %v: %w", c.Radius, ErrDegenerateRadius)
	}
	return nil
}

// AppendTo appends color, center and radius.
func (c Circle) AppendTo(dst []byte) []byte {
	return appendFloats(dst, c.Color[0], c.Color[1], c.Color[2], c.Color[3],
		c.Center[0], c.Center[1], c.Radius)
}

// Ring is an antialiased annulus.
type Ring struct {
	Color       f32.Vec4
	Center      f32.Vec2
	OuterRadius float32
	InnerRadius float32
}

// Kind returns KindRing.
func (Ring) Kind() Kind { return KindRing }

// Vertex places a corner of the square that bounds the outer circle and
// computes the radius ratio once per vertex. OuterRadius == 0 yields a NaN
// or infinite ratio, which the fragment stage discards.
func (r Ring) Vertex(frame FrameUniform, index uint32) V2F {
	pos, uv := expandRadial(r.Center, r.OuterRadius, index)
	return V2F{
		Position:    ToClip(pos, frame),
		Color:       r.Color,
		UV:          uv,
		RadiusRatio: r.InnerRadius / r.OuterRadius,
	}
}

// Validate rejects non-finite attributes, a non-positive outer radius and
// an inner radius outside [0, outer].
func (r Ring) Validate() error {
	if !finite4(r.Color) || !finite2(r.Center) || !finite(r.OuterRadius) || !finite(r.InnerRadius) {
		return fmt.Errorf("ring at %v: %w", r.Center, ErrNonFinite)
	}
	if !(r.OuterRadius > 0) {
		return fmt.Errorf("ring outer radius %v: %w", r.OuterRadius, ErrDegenerateRadius)
	}
	if r.InnerRadius < 0 || r.InnerRadius > r.OuterRadius {
		return fmt.Errorf("ring radii %v/%v: %w", r.InnerRadius, r.OuterRadius, ErrInvalidRing)
	}
	return nil
}

// AppendTo appends color, center, outer and inner radius.
func (r Ring) AppendTo(dst []byte) []byte {
	return appendFloats(dst, r.Color[0], r.Color[1], r.Color[2], r.Color[3],
		r.Center[0], r.Center[1], r.OuterRadius, r.InnerRadius)
}

// Rect is a solid rectangle rotated about its center.
type Rect struct {
	Color    f32.Vec4
	Center   f32.Vec2
	Size     f32.Vec2
	Rotation float32 // radians
}

// Kind returns KindRect.
func (Rect) Kind() Kind { return KindRect }

// Vertex places a rotated corner of the rectangle.
func (r Rect) Vertex(frame FrameUniform, index uint32) V2F {
	pos, corner := expandRect(r.Center, r.Size, r.Rotation, index)
	return V2F{Position: ToClip(pos, frame), Color: r.Color, UV: corner}
}

// Validate rejects non-finite attributes and non-positive sides.
func (r Rect) Validate() error {
	return validateRect("rect", r.Center, r.Size, r.Rotation, finite4(r.Color))
}

// AppendTo appends color, center, size and rotation.
func (r Rect) AppendTo(dst []byte) []byte {
	return appendFloats(dst, r.Color[0], r.Color[1], r.Color[2], r.Color[3],
		r.Center[0], r.Center[1], r.Size[0], r.Size[1], r.Rotation)
}

// TexturedRect is a rotated rectangle filled with the bound texture. The
// texture and sampler are bound per draw, not per instance.
type TexturedRect struct {
	Center   f32.Vec2
	Size     f32.Vec2
	Rotation float32 // radians
}

// Kind returns KindTexturedRect.
func (TexturedRect) Kind() Kind { return KindTexturedRect }

// Vertex places a rotated corner and maps it to texture space, so corner
// (-1,-1) samples (0,0) and (1,1) samples (1,1).
func (r TexturedRect) Vertex(frame FrameUniform, index uint32) V2F {
	pos, corner := expandRect(r.Center, r.Size, r.Rotation, index)
	return V2F{
		Position: ToClip(pos, frame),
		Color:    f32.Vec4{1, 1, 1, 1},
		UV:       add2(scale2(corner, 0.5), f32.Vec2{0.5, 0.5}),
	}
}

// Validate rejects non-finite attributes and non-positive sides.
func (r TexturedRect) Validate() error {
	return validateRect("textured rect", r.Center, r.Size, r.Rotation, true)
}

// AppendTo appends center, size and rotation.
func (r TexturedRect) AppendTo(dst []byte) []byte {
	return appendFloats(dst, r.Center[0], r.Center[1], r.Size[0], r.Size[1], r.Rotation)
}

func validateRect(name string, center, size f32.Vec2, rotation float32, colorOK bool) error {
	if !colorOK || !finite2(center) || !finite2(size) || !finite(rotation) {
		return fmt.Errorf("%s at %v: %w", name, center, ErrNonFinite)
	}
	if !(size[0] > 0) || !(size[1] > 0) {
		return fmt.Errorf("%s size %v: %w", name, size, ErrDegenerateSize)
	}
	return nil
}
