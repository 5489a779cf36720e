package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/prim2d"
)

// FrameBinding is the frame uniform buffer and its group 0 bind group.
type FrameBinding struct {
	device hal.Device
	queue  hal.Queue

	buf       hal.Buffer
	bindGroup hal.BindGroup

	frame   prim2d.FrameUniform
	written bool
}

func newFrameBinding(device hal.Device, queue hal.Queue, layouts *bindLayouts, label string) (*FrameBinding, error) {
	f := &FrameBinding{device: device, queue: queue}

	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_frame_uniform",
		Size:  prim2d.FrameUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create frame uniform: %w", err)
	}
	f.buf = buf

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_frame_bind",
		Layout: layouts.frame,
		Entries: []gputypes.BindGroupEntry{
			{Binding: prim2d.FrameBinding, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: prim2d.FrameUniformSize,
			}},
		},
	})
	if err != nil {
		f.Destroy()
		return nil, fmt.Errorf("create frame bind group: %w", err)
	}
	f.bindGroup = bindGroup
	return f, nil
}

// Update validates frame and writes it to the uniform buffer.
func (f *FrameBinding) Update(frame prim2d.FrameUniform) error {
	if f.buf == nil {
		return ErrDestroyed
	}
	if err := frame.Validate(); err != nil {
		return err
	}
	f.queue.WriteBuffer(f.buf, 0, frame.Bytes())
	f.frame = frame
	f.written = true
	return nil
}

// Frame returns the last frame written and whether one was written.
func (f *FrameBinding) Frame() (prim2d.FrameUniform, bool) {
	return f.frame, f.written
}

// Destroy releases the bind group and buffer. Safe to call more than once.
func (f *FrameBinding) Destroy() {
	if f.bindGroup != nil {
		f.device.DestroyBindGroup(f.bindGroup)
		f.bindGroup = nil
	}
	if f.buf != nil {
		f.device.DestroyBuffer(f.buf)
		f.buf = nil
	}
	f.written = false
}
