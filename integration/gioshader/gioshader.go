package gioshader

import (
	"fmt"

	"gioui.org/shader"

	"github.com/gogpu/prim2d"
	"github.com/gogpu/prim2d/shaders"
)

// Stage is one entry point of a program.
type Stage struct {
	Sources shader.Sources
	// EntryPoint is the entry point name inside Sources.SPIRV.
	EntryPoint string
	// GLSLES is the GLSL ES 3.10 source of the stage.
	GLSLES string
}

// InputDesc describes one vertex attribute as laid out in an instance
// buffer. It has the shape of the input descriptors Gio backends take when
// building an input layout.
type InputDesc struct {
	Type   shader.DataType
	Size   int
	Offset int
}

// Program is the exported vertex and fragment pair of one primitive kind.
type Program struct {
	Kind     prim2d.Kind
	Vertex   Stage
	Fragment Stage
	// Layout describes one per-instance record, in location order.
	Layout []InputDesc
	// Stride is the byte size of one instance record.
	Stride int
}

// frameLocations mirrors the frame uniform block.
var frameLocations = []shader.UniformLocation{
	{Name: "frame.screen_size", Type: shader.DataTypeFloat, Size: 2, Offset: 0},
	{Name: "frame.viewport_origin", Type: shader.DataTypeFloat, Size: 2, Offset: 8},
}

// Export compiles the program drawing kind from lib.
func Export(lib *shaders.Library, kind prim2d.Kind) (Program, error) {
	program, err := prim2d.ProgramFor(kind)
	if err != nil {
		return Program{}, err
	}
	refl, err := lib.Reflect(program.Shader)
	if err != nil {
		return Program{}, err
	}
	spirv, err := lib.Compile(program.Shader, shaders.TargetSPIRV, shaders.StageVertex)
	if err != nil {
		return Program{}, err
	}

	out := Program{Kind: kind, Stride: int(program.Stride)} //nolint:gosec // strides are tiny
	for _, a := range program.Attributes {
		out.Layout = append(out.Layout, InputDesc{
			Type:   shader.DataTypeFloat,
			Size:   a.Components(),
			Offset: int(a.Offset), //nolint:gosec // offsets are tiny
		})
	}

	for _, stage := range []shaders.Stage{shaders.StageVertex, shaders.StageFragment} {
		glsl, err := lib.Compile(program.Shader, shaders.TargetGLSLES, stage)
		if err != nil {
			return Program{}, err
		}
		s := Stage{
			Sources: shader.Sources{
				Name:  fmt.Sprintf("%s.%s", program.Name, stage),
				SPIRV: string(spirv.Code),
			},
			EntryPoint: stage.EntryPoint(),
			GLSLES:     string(glsl.Code),
		}
		if stage == shaders.StageVertex {
			s.Sources.Inputs = inputs(refl)
			s.Sources.Uniforms = shader.UniformsReflection{
				Locations: frameLocations,
				Size:      prim2d.FrameUniformSize,
			}
			out.Vertex = s
		} else {
			s.Sources.Textures = textures(refl)
			out.Fragment = s
		}
	}

	prim2d.Logger().Debug("gioshader: exported", "program", program.Name, "spirv", len(spirv.Code))
	return out, nil
}

// ExportAll exports every program in Kind order.
func ExportAll(lib *shaders.Library) ([]Program, error) {
	var out []Program
	for _, k := range prim2d.Kinds() {
		p, err := Export(lib, k)
		if err != nil {
			return nil, fmt.Errorf("gioshader: %s: %w", k, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func inputs(refl shaders.Reflection) []shader.InputLocation {
	var out []shader.InputLocation
	for _, in := range refl.VertexInputs {
		out = append(out, shader.InputLocation{
			Name:          in.Name,
			Location:      int(in.Location),
			Semantic:      "TEXCOORD",
			SemanticIndex: int(in.Location),
			Type:          shader.DataTypeFloat,
			Size:          in.Components,
		})
	}
	return out
}

// textures lists sampled textures. Gio binds a texture together with its
// sampler, so separate sampler globals are folded into the texture.
func textures(refl shaders.Reflection) []shader.TextureBinding {
	var out []shader.TextureBinding
	for _, r := range refl.Resources {
		if r.Kind == shaders.ResourceTexture {
			out = append(out, shader.TextureBinding{Name: r.Name, Binding: int(r.Binding)})
		}
	}
	return out
}
