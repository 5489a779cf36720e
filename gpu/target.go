package gpu

import (
	"fmt"
	"image"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// pollInterval is how often submitAndWait checks the queue before it falls
// back to waiting for the whole device.
const (
	pollInterval = 50 * time.Microsecond
	pollAttempts = 200
)

// copyRowAlignment is the required BytesPerRow alignment of texture to
// buffer copies.
const copyRowAlignment = 256

// Target is an offscreen color target the renderer can draw into and read
// back. With a sample count above one it renders into a multisampled
// texture that resolves into the single-sample texture.
type Target struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	msaaTex     hal.Texture
	msaaView    hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView

	width, height uint32
}

// NewTarget creates an offscreen target matching the renderer's format
// and sample count.
func (r *Renderer) NewTarget(width, height uint32) (*Target, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("target %dx%d: %w", width, height, ErrTextureSize)
	}
	t := &Target{device: r.device, queue: r.queue, format: r.opts.format, width: width, height: height}
	label := r.opts.label + "_target"
	size := hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}

	if r.opts.sampleCount > 1 {
		msaaTex, err := r.device.CreateTexture(&hal.TextureDescriptor{
			Label:         label + "_msaa",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   r.opts.sampleCount,
			Dimension:     gputypes.TextureDimension2D,
			Format:        t.format,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			return nil, fmt.Errorf("create MSAA texture: %w", err)
		}
		t.msaaTex = msaaTex

		msaaView, err := r.device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
			Label:         label + "_msaa_view",
			Format:        t.format,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			t.Destroy()
			return nil, fmt.Errorf("create MSAA view: %w", err)
		}
		t.msaaView = msaaView
	}

	resolveTex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label + "_resolve",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create resolve texture: %w", err)
	}
	t.resolveTex = resolveTex

	resolveView, err := r.device.CreateTextureView(resolveTex, &hal.TextureViewDescriptor{
		Label:         label + "_resolve_view",
		Format:        t.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create resolve view: %w", err)
	}
	t.resolveView = resolveView
	return t, nil
}

// Attachment returns the color attachment clearing the target to clear.
func (t *Target) Attachment(clear gputypes.Color) hal.RenderPassColorAttachment {
	a := hal.RenderPassColorAttachment{
		View:       t.resolveView,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: clear,
	}
	if t.msaaView != nil {
		a.View = t.msaaView
		a.ResolveTarget = t.resolveView
	}
	return a
}

// Size returns the target dimensions in pixels.
func (t *Target) Size() (width, height uint32) { return t.width, t.height }

// Readback copies the resolved target into an RGBA image, swizzling BGRA
// formats. Pixels keep the premultiplied alpha the pipelines blend with.
func (t *Target) Readback() (*image.RGBA, error) {
	if t.resolveTex == nil {
		return nil, ErrDestroyed
	}
	w, h := t.width, t.height

	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "prim2d_readback_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("prim2d_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// The resolve texture leaves the render pass as a color attachment.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	rowBytes := w * 4
	paddedRow := (rowBytes + copyRowAlignment - 1) &^ (copyRowAlignment - 1)
	pixelBufSize := uint64(paddedRow) * uint64(h)
	stagingBuf, err := t.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "prim2d_readback_staging",
		Size:  pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer t.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(t.resolveTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: paddedRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer t.device.FreeCommandBuffer(cmdBuf)

	if err := submitAndWait(t.device, t.queue, cmdBuf); err != nil {
		return nil, err
	}

	mapping, err := t.device.MapBuffer(stagingBuf, 0, pixelBufSize)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	if mapping.Ptr == nil {
		_ = t.device.UnmapBuffer(stagingBuf)
		return nil, fmt.Errorf("map staging buffer: nil mapping")
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	staged := unsafe.Slice((*byte)(mapping.Ptr), pixelBufSize)
	for y := range int(h) {
		src := staged[y*int(paddedRow) : y*int(paddedRow)+int(rowBytes)]
		copy(img.Pix[y*img.Stride:], src)
	}
	if err := t.device.UnmapBuffer(stagingBuf); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	if isBGRA(t.format) {
		swizzleBGRA(img.Pix)
	}
	return img, nil
}

// Destroy releases the target textures. Safe to call more than once.
func (t *Target) Destroy() {
	if t.resolveView != nil {
		t.device.DestroyTextureView(t.resolveView)
		t.resolveView = nil
	}
	if t.resolveTex != nil {
		t.device.DestroyTexture(t.resolveTex)
		t.resolveTex = nil
	}
	if t.msaaView != nil {
		t.device.DestroyTextureView(t.msaaView)
		t.msaaView = nil
	}
	if t.msaaTex != nil {
		t.device.DestroyTexture(t.msaaTex)
		t.msaaTex = nil
	}
}

// submitAndWait submits one command buffer and blocks until the queue has
// completed it.
func submitAndWait(device hal.Device, queue hal.Queue, cmdBuf hal.CommandBuffer) error {
	idx, err := queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	for range pollAttempts {
		if queue.PollCompleted() >= idx {
			return nil
		}
		time.Sleep(pollInterval)
	}
	if err := device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	return nil
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}

func swizzleBGRA(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
