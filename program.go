package prim2d

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Kind identifies one of the primitive programs.
type Kind uint8

const (
	KindPoint Kind = iota
	KindCircle
	KindRing
	KindRect
	KindTexturedRect

	kindCount
)

// Kinds lists every program kind in table order.
func Kinds() []Kind {
	return []Kind{KindPoint, KindCircle, KindRing, KindRect, KindTexturedRect}
}

// String returns the program name.
func (k Kind) String() string {
	if k < kindCount {
		return programs[k].Name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Attribute is one per-instance input of a program.
type Attribute struct {
	Name     string
	Location uint32
	Format   gputypes.VertexFormat
	Offset   uint64
}

// Components returns the number of float32 components of the attribute.
func (a Attribute) Components() int {
	switch a.Format {
	case gputypes.VertexFormatFloat32x4:
		return 4
	case gputypes.VertexFormatFloat32x2:
		return 2
	default:
		return 1
	}
}

// Program describes how one primitive kind is drawn: its shader source,
// per-instance layout and resource needs.
type Program struct {
	Kind Kind
	Name string
	// Shader is the WGSL source name in the shaders library.
	Shader string
	// Stride is the byte size of one instance record.
	Stride     uint64
	Attributes []Attribute
	// Textured programs bind a texture and sampler at group 1.
	Textured bool
}

// Binding slots shared by all programs.
const (
	FrameGroup     = 0
	FrameBinding   = 0
	TextureGroup   = 1
	TextureBinding = 0
	SamplerBinding = 1
)

// Entry point names in every program.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

var attrColor = Attribute{Name: "color", Format: gputypes.VertexFormatFloat32x4}

func attrs(list ...Attribute) []Attribute {
	var off uint64
	out := make([]Attribute, len(list))
	for i, a := range list {
		a.Location = uint32(i)
		a.Offset = off
		off += uint64(a.Components()) * 4
		out[i] = a
	}
	return out
}

func vec2Attr(name string) Attribute {
	return Attribute{Name: name, Format: gputypes.VertexFormatFloat32x2}
}

func floatAttr(name string) Attribute {
	return Attribute{Name: name, Format: gputypes.VertexFormatFloat32}
}

var programs = [kindCount]Program{
	KindPoint: {
		Kind: KindPoint, Name: "points", Shader: "points.wgsl", Stride: 24,
		Attributes: attrs(attrColor, vec2Attr("position")),
	},
	KindCircle: {
		Kind: KindCircle, Name: "circle", Shader: "circle.wgsl", Stride: 28,
		Attributes: attrs(attrColor, vec2Attr("center"), floatAttr("radius")),
	},
	KindRing: {
		Kind: KindRing, Name: "rings", Shader: "rings.wgsl", Stride: 32,
		Attributes: attrs(attrColor, vec2Attr("center"), floatAttr("outer_radius"), floatAttr("inner_radius")),
	},
	KindRect: {
		Kind: KindRect, Name: "rect", Shader: "rect.wgsl", Stride: 36,
		Attributes: attrs(attrColor, vec2Attr("center"), vec2Attr("size"), floatAttr("rotation")),
	},
	KindTexturedRect: {
		Kind: KindTexturedRect, Name: "texture", Shader: "texture.wgsl", Stride: 20,
		Attributes: attrs(vec2Attr("center"), vec2Attr("size"), floatAttr("rotation")),
		Textured:   true,
	},
}

// ProgramFor returns the program descriptor for k.
func ProgramFor(k Kind) (Program, error) {
	if k >= kindCount {
		return Program{}, fmt.Errorf("kind %d: %w", k, ErrUnknownKind)
	}
	return programs[k], nil
}

// Programs returns every program descriptor in Kind order.
func Programs() []Program {
	out := make([]Program, kindCount)
	copy(out, programs[:])
	return out
}

// VertexLayout returns the per-instance vertex buffer layout.
func (p Program) VertexLayout() gputypes.VertexBufferLayout {
	va := make([]gputypes.VertexAttribute, len(p.Attributes))
	for i, a := range p.Attributes {
		va[i] = gputypes.VertexAttribute{
			Format:         a.Format,
			Offset:         a.Offset,
			ShaderLocation: a.Location,
		}
	}
	return gputypes.VertexBufferLayout{
		ArrayStride: p.Stride,
		StepMode:    gputypes.VertexStepModeInstance,
		Attributes:  va,
	}
}

// Topology is the primitive topology every program draws with.
func (Program) Topology() gputypes.PrimitiveTopology {
	return gputypes.PrimitiveTopologyTriangleStrip
}

// Shade runs the fragment stage of kind for one interpolated V2F. It
// returns the premultiplied output color and false when the fragment is
// discarded. tex is only consulted by textured programs; a nil sampler
// there discards.
func Shade(kind Kind, in V2F, tex Sampler) (f32.Vec4, bool) {
	switch kind {
	case KindCircle:
		c := CircleCoverage(in.UV)
		if !covered(c) {
			return f32.Vec4{}, false
		}
		return scale4(in.Color, c), true
	case KindRing:
		c := RingCoverage(in.UV, in.RadiusRatio)
		if !covered(c) {
			return f32.Vec4{}, false
		}
		return scale4(in.Color, c), true
	case KindTexturedRect:
		if tex == nil {
			return f32.Vec4{}, false
		}
		return tex.Sample(in.UV), true
	case KindPoint, KindRect:
		return in.Color, true
	default:
		return f32.Vec4{}, false
	}
}
