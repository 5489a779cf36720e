package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/prim2d"
)

// TextureBinding is an RGBA8 texture with its sampler and the group 1 bind
// group used by textured rectangles. Texels hold premultiplied color.
type TextureBinding struct {
	device hal.Device
	queue  hal.Queue

	tex       hal.Texture
	view      hal.TextureView
	sampler   hal.Sampler
	bindGroup hal.BindGroup

	width, height uint32
}

func filterMode(f prim2d.Filter) gputypes.FilterMode {
	if f == prim2d.FilterNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

func newTextureBinding(device hal.Device, queue hal.Queue, layouts *bindLayouts, img image.Image, o *options) (*TextureBinding, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image %v: %w", b, ErrTextureSize)
	}
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // bounds are positive
	t := &TextureBinding{device: device, queue: queue, width: w, height: h}
	label := o.label + "_texture"

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}
	t.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create texture view: %w", err)
	}
	t.view = view

	mode := filterMode(o.filter)
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label + "_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    mode,
		MinFilter:    mode,
		MipmapFilter: mode,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	t.sampler = sampler

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: layouts.texture,
		Entries: []gputypes.BindGroupEntry{
			{Binding: prim2d.TextureBinding, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			{Binding: prim2d.SamplerBinding, Resource: gputypes.SamplerBinding{
				Sampler: sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create texture bind group: %w", err)
	}
	t.bindGroup = bindGroup

	t.write(prim2d.ToRGBA(img))
	return t, nil
}

// Update uploads img, which must match the texture size.
func (t *TextureBinding) Update(img image.Image) error {
	if t.tex == nil {
		return ErrDestroyed
	}
	b := img.Bounds()
	if b.Dx() != int(t.width) || b.Dy() != int(t.height) {
		return fmt.Errorf("image %dx%d, texture %dx%d: %w", b.Dx(), b.Dy(), t.width, t.height, ErrTextureSize)
	}
	t.write(prim2d.ToRGBA(img))
	return nil
}

func (t *TextureBinding) write(rgba *image.RGBA) {
	t.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
		},
		rgba.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(rgba.Stride), //nolint:gosec // stride fits uint32
			RowsPerImage: t.height,
		},
		&hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	)
}

// Size returns the texture dimensions in texels.
func (t *TextureBinding) Size() (width, height uint32) { return t.width, t.height }

// Destroy releases the bind group, sampler, view and texture. Safe to call
// more than once.
func (t *TextureBinding) Destroy() {
	if t.bindGroup != nil {
		t.device.DestroyBindGroup(t.bindGroup)
		t.bindGroup = nil
	}
	if t.sampler != nil {
		t.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
