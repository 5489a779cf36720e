package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/prim2d"
)

// bindLayouts holds the bind group layouts shared by every program, so a
// single frame bind group serves all pipelines.
type bindLayouts struct {
	frame   hal.BindGroupLayout
	texture hal.BindGroupLayout
}

func createBindLayouts(device hal.Device, label string) (*bindLayouts, error) {
	frame, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_frame_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    prim2d.FrameBinding,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create frame layout: %w", err)
	}

	texture, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    prim2d.TextureBinding,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    prim2d.SamplerBinding,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		device.DestroyBindGroupLayout(frame)
		return nil, fmt.Errorf("create texture layout: %w", err)
	}
	return &bindLayouts{frame: frame, texture: texture}, nil
}

// forProgram returns the bind group layouts a program's pipeline uses, in
// group order.
func (l *bindLayouts) forProgram(p prim2d.Program) []hal.BindGroupLayout {
	if p.Textured {
		return []hal.BindGroupLayout{l.frame, l.texture}
	}
	return []hal.BindGroupLayout{l.frame}
}

func (l *bindLayouts) destroy(device hal.Device) {
	if l.texture != nil {
		device.DestroyBindGroupLayout(l.texture)
		l.texture = nil
	}
	if l.frame != nil {
		device.DestroyBindGroupLayout(l.frame)
		l.frame = nil
	}
}
