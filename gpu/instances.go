package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/prim2d"
)

// minInstanceCapacity is the smallest instance count a buffer allocates.
const minInstanceCapacity = 64

// InstanceBuffer is a growable per-instance vertex buffer holding records
// of a single program kind.
type InstanceBuffer struct {
	device hal.Device
	queue  hal.Queue
	label  string

	program  prim2d.Program
	buf      hal.Buffer
	capacity int
	count    int
	scratch  []byte
}

// NewInstanceBuffer creates an empty instance buffer for kind. The GPU
// buffer is allocated on the first non-empty upload.
func NewInstanceBuffer(device hal.Device, queue hal.Queue, kind prim2d.Kind, label string) (*InstanceBuffer, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	program, err := prim2d.ProgramFor(kind)
	if err != nil {
		return nil, err
	}
	return &InstanceBuffer{
		device:  device,
		queue:   queue,
		label:   label + "_" + program.Name + "_instances",
		program: program,
	}, nil
}

// Upload replaces the buffer contents with instances. Every instance must
// be of the buffer's kind. Instances are not validated; degenerate input
// is drawn as the shaders define it.
func (b *InstanceBuffer) Upload(instances ...prim2d.Instance) error {
	b.scratch = b.scratch[:0]
	for i, inst := range instances {
		if inst.Kind() != b.program.Kind {
			return fmt.Errorf("instance %d is %s, buffer holds %s: %w",
				i, inst.Kind(), b.program.Kind, ErrMixedKinds)
		}
		b.scratch = inst.AppendTo(b.scratch)
	}
	if err := b.reserve(len(instances)); err != nil {
		return err
	}
	if len(b.scratch) > 0 {
		b.queue.WriteBuffer(b.buf, 0, b.scratch)
	}
	b.count = len(instances)
	return nil
}

// Upload is the typed form of InstanceBuffer.Upload.
func Upload[T prim2d.Instance](b *InstanceBuffer, instances []T) error {
	list := make([]prim2d.Instance, len(instances))
	for i, inst := range instances {
		list[i] = inst
	}
	return b.Upload(list...)
}

// reserve grows the GPU buffer geometrically until it holds n records.
func (b *InstanceBuffer) reserve(n int) error {
	if n <= b.capacity {
		return nil
	}
	capacity := max(b.capacity*2, minInstanceCapacity)
	for capacity < n {
		capacity *= 2
	}

	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.label,
		Size:  uint64(capacity) * b.program.Stride, //nolint:gosec // capacity is positive
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", b.label, err)
	}
	if b.buf != nil {
		b.device.DestroyBuffer(b.buf)
	}
	b.buf = buf
	b.capacity = capacity
	prim2d.Logger().Debug("gpu: instance buffer grown", "program", b.program.Name, "capacity", capacity)
	return nil
}

// Kind returns the program kind the buffer holds.
func (b *InstanceBuffer) Kind() prim2d.Kind { return b.program.Kind }

// Len returns the number of instances uploaded last.
func (b *InstanceBuffer) Len() int { return b.count }

// Capacity returns the number of instances the GPU buffer can hold.
func (b *InstanceBuffer) Capacity() int { return b.capacity }

// Destroy releases the GPU buffer. Safe to call more than once.
func (b *InstanceBuffer) Destroy() {
	if b.buf != nil {
		b.device.DestroyBuffer(b.buf)
		b.buf = nil
	}
	b.capacity = 0
	b.count = 0
}
