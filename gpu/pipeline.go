package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/prim2d"
)

// PrimitivePipeline is the render pipeline of one primitive program.
//
// It draws QuadVertexCount vertices per instance as a triangle strip,
// reading one instance record per instance step, and blends the
// premultiplied fragment color over the target.
type PrimitivePipeline struct {
	device  hal.Device
	program prim2d.Program

	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// newPrimitivePipeline compiles the program's WGSL and creates its render
// pipeline against the shared bind group layouts.
func newPrimitivePipeline(device hal.Device, layouts *bindLayouts, program prim2d.Program, o *options) (*PrimitivePipeline, error) {
	source, err := o.library.ProgramSource(program.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s source: %w", program.Name, err)
	}

	p := &PrimitivePipeline{device: device, program: program}
	label := o.label + "_" + program.Name

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", program.Name, err)
	}
	p.shader = shader

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: layouts.forProgram(program),
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create %s pipeline layout: %w", program.Name, err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: prim2d.VertexEntryPoint,
			Buffers:    []gputypes.VertexBufferLayout{program.VertexLayout()},
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: prim2d.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    o.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: program.Topology(),
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: o.sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create %s render pipeline: %w", program.Name, err)
	}
	p.pipeline = pipeline

	prim2d.Logger().Debug("gpu: pipeline created", "program", program.Name, "format", o.format, "samples", o.sampleCount)
	return p, nil
}

// Program returns the program the pipeline draws.
func (p *PrimitivePipeline) Program() prim2d.Program { return p.program }

// record draws count instances from buf. The frame bind group (and the
// texture bind group for textured programs) must already be set.
func (p *PrimitivePipeline) record(rp hal.RenderPassEncoder, buf hal.Buffer, count uint32) {
	rp.SetPipeline(p.pipeline)
	rp.SetVertexBuffer(0, buf, 0)
	rp.Draw(prim2d.QuadVertexCount, count, 0, 0)
}

// Destroy releases the pipeline objects in reverse creation order. Safe to
// call more than once.
func (p *PrimitivePipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
