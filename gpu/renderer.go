package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/prim2d"
)

// Renderer owns the shared bind group layouts, the frame uniform and one
// lazily built pipeline per program on a HAL device it does not own.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	opts   options

	layouts   *bindLayouts
	frame     *FrameBinding
	pipelines map[prim2d.Kind]*PrimitivePipeline

	destroyed bool
}

// NewRenderer creates a renderer on device and queue. The caller keeps
// ownership of both.
func NewRenderer(device hal.Device, queue hal.Queue, opts ...Option) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	r := &Renderer{
		device:    device,
		queue:     queue,
		opts:      buildOptions(opts),
		pipelines: make(map[prim2d.Kind]*PrimitivePipeline),
	}

	layouts, err := createBindLayouts(device, r.opts.label)
	if err != nil {
		return nil, err
	}
	r.layouts = layouts

	frame, err := newFrameBinding(device, queue, layouts, r.opts.label)
	if err != nil {
		r.Destroy()
		return nil, err
	}
	r.frame = frame

	prim2d.Logger().Info("gpu: renderer ready", "format", r.opts.format, "samples", r.opts.sampleCount)
	return r, nil
}

// NewFromProvider creates a renderer on the device shared by a host such
// as gogpu. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. The surface format
// becomes the default color format; WithFormat still overrides it.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, ErrNoDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("provider HalDevice is not hal.Device: %w", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("provider HalQueue is not hal.Queue: %w", ErrNoHAL)
	}
	all := append([]Option{WithFormat(provider.SurfaceFormat())}, opts...)
	return NewRenderer(device, queue, all...)
}

// Format returns the color format the pipelines render to.
func (r *Renderer) Format() gputypes.TextureFormat { return r.opts.format }

// SampleCount returns the multisample count of the pipelines.
func (r *Renderer) SampleCount() uint32 { return r.opts.sampleCount }

// BeginFrame writes the frame uniform used by every following draw.
func (r *Renderer) BeginFrame(frame prim2d.FrameUniform) error {
	if r.destroyed {
		return ErrDestroyed
	}
	return r.frame.Update(frame)
}

// Frame returns the frame binding.
func (r *Renderer) Frame() *FrameBinding { return r.frame }

// Pipeline returns the pipeline drawing kind, building it on first use.
func (r *Renderer) Pipeline(kind prim2d.Kind) (*PrimitivePipeline, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	if p, ok := r.pipelines[kind]; ok {
		return p, nil
	}
	program, err := prim2d.ProgramFor(kind)
	if err != nil {
		return nil, err
	}
	p, err := newPrimitivePipeline(r.device, r.layouts, program, &r.opts)
	if err != nil {
		return nil, err
	}
	r.pipelines[kind] = p
	return p, nil
}

// Prepare builds the pipelines of every program.
func (r *Renderer) Prepare() error {
	var errs []error
	for _, k := range prim2d.Kinds() {
		if _, err := r.Pipeline(k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewInstances creates an empty instance buffer for kind.
func (r *Renderer) NewInstances(kind prim2d.Kind) (*InstanceBuffer, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	return NewInstanceBuffer(r.device, r.queue, kind, r.opts.label)
}

// NewTexture uploads img into a texture bindable by textured rectangles.
func (r *Renderer) NewTexture(img image.Image) (*TextureBinding, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	return newTextureBinding(r.device, r.queue, r.layouts, img, &r.opts)
}

// Batch is one draw: every instance of a buffer, plus the texture for
// textured rectangles.
type Batch struct {
	Instances *InstanceBuffer
	Texture   *TextureBinding
}

// Record records batches into a render pass owned by the caller. The pass
// color attachment must match the renderer's format and sample count.
// Empty batches are skipped.
func (r *Renderer) Record(rp hal.RenderPassEncoder, batches ...Batch) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if _, ok := r.frame.Frame(); !ok {
		return ErrNoFrame
	}
	// Build every pipeline before touching the pass.
	for _, b := range batches {
		if b.Instances == nil {
			continue
		}
		if _, err := r.Pipeline(b.Instances.Kind()); err != nil {
			return err
		}
		if b.Instances.program.Textured && b.Instances.Len() > 0 && (b.Texture == nil || b.Texture.bindGroup == nil) {
			return ErrNoTexture
		}
	}

	rp.SetBindGroup(prim2d.FrameGroup, r.frame.bindGroup, nil)
	for _, b := range batches {
		if b.Instances == nil || b.Instances.Len() == 0 {
			continue
		}
		p := r.pipelines[b.Instances.Kind()]
		if p.program.Textured {
			rp.SetBindGroup(prim2d.TextureGroup, b.Texture.bindGroup, nil)
		}
		p.record(rp, b.Instances.buf, uint32(b.Instances.Len())) //nolint:gosec // instance count fits uint32
	}
	return nil
}

// Encode begins a render pass on encoder with one color attachment,
// records batches into it and ends the pass. The encoder must be in the
// recording state; the caller ends and submits it.
func (r *Renderer) Encode(encoder hal.CommandEncoder, attachment hal.RenderPassColorAttachment, batches ...Batch) error {
	if r.destroyed {
		return ErrDestroyed
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            r.opts.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{attachment},
	})
	defer rp.End()
	return r.Record(rp, batches...)
}

// Render encodes one pass clearing target to clear, draws batches, submits
// and waits for completion.
func (r *Renderer) Render(target *Target, clear gputypes.Color, batches ...Batch) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if target == nil || target.resolveView == nil {
		return fmt.Errorf("render target: %w", ErrDestroyed)
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: r.opts.label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(r.opts.label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	if err := r.Encode(encoder, target.Attachment(clear), batches...); err != nil {
		encoder.DiscardEncoding()
		return err
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	return submitAndWait(r.device, r.queue, cmdBuf)
}

// Reload drops the compiled pipelines and the library's resolved sources
// so the next draw rebuilds them from the current WGSL.
func (r *Renderer) Reload() {
	r.opts.library.Invalidate()
	r.destroyPipelines()
	prim2d.Logger().Debug("gpu: pipelines reloaded")
}

func (r *Renderer) destroyPipelines() {
	for k, p := range r.pipelines {
		p.Destroy()
		delete(r.pipelines, k)
	}
}

// Destroy releases every object the renderer created except instance
// buffers, textures and targets, which the caller destroys. Safe to call
// more than once.
func (r *Renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.destroyPipelines()
	if r.frame != nil {
		r.frame.Destroy()
		r.frame = nil
	}
	if r.layouts != nil {
		r.layouts.destroy(r.device)
		r.layouts = nil
	}
}
