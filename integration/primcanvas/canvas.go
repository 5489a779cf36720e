// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package primcanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/prim2d"
	"github.com/gogpu/prim2d/raster"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("primcanvas: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("primcanvas: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("primcanvas: nil DeviceProvider")
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Canvas rasterizes primitives on the CPU and presents them through gogpu.
type Canvas struct {
	provider gpucontext.DeviceProvider
	raster   *raster.Rasterizer
	target   *raster.Target
	frame    prim2d.FrameUniform

	texture     gpucontext.Texture
	oldTexture  gpucontext.Texture // awaiting destruction after a resize
	pending     []byte             // pixels waiting for a TextureCreator
	dirty       bool
	sizeChanged bool
	closed      bool
}

// New creates a canvas of the given pixel size. The frame defaults to a
// ScreenOnly frame of the same size. Options configure the rasterizer.
func New(provider gpucontext.DeviceProvider, width, height int, opts ...raster.Option) (*Canvas, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Canvas{
		provider: provider,
		raster:   raster.New(opts...),
		target:   raster.NewTarget(width, height),
		frame:    prim2d.NewFrame(float32(width), float32(height)),
		dirty:    true,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(provider gpucontext.DeviceProvider, width, height int, opts ...raster.Option) *Canvas {
	c, err := New(provider, width, height, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.target.Width(), c.target.Height()
}

// Frame returns the frame used by Draw.
func (c *Canvas) Frame() prim2d.FrameUniform {
	return c.frame
}

// SetFrame replaces the frame used by Draw. The screen size need not match
// the canvas size; worldspace is scaled to fill the canvas.
func (c *Canvas) SetFrame(frame prim2d.FrameUniform) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if err := frame.Validate(); err != nil {
		return err
	}
	c.frame = frame
	return nil
}

// Target returns the pixel buffer. It is nil after Close.
func (c *Canvas) Target() *raster.Target {
	if c.closed {
		return nil
	}
	return c.target
}

// Clear fills the canvas with a premultiplied color.
func (c *Canvas) Clear(color f32.Vec4) {
	if c.closed {
		return
	}
	c.target.Clear(color)
	c.dirty = true
}

// Draw rasterizes instances over the current content. tex is sampled by
// textured rectangles and may be nil otherwise.
func (c *Canvas) Draw(instances []prim2d.Instance, tex prim2d.Sampler) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if err := c.raster.Draw(c.target, c.frame, instances, tex); err != nil {
		return err
	}
	c.dirty = true
	return nil
}

// MarkDirty flags the canvas for upload on the next Flush.
func (c *Canvas) MarkDirty() {
	c.dirty = true
}

// IsDirty reports whether the canvas has changes not yet uploaded.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// Resize reallocates the pixel buffer and clears it. The frame is reset to
// a ScreenOnly frame of the new size.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if w, h := c.Size(); w == width && h == height {
		return nil
	}

	c.target = raster.NewTarget(width, height)
	c.frame = prim2d.NewFrame(float32(width), float32(height))
	c.sizeChanged = true
	c.dirty = true
	return nil
}

// Flush prepares the pixels for upload. An existing texture is updated in
// place; otherwise the pixels are held until RenderTo can create one.
func (c *Canvas) Flush() error {
	if c.closed {
		return ErrCanvasClosed
	}

	// The old texture may still be referenced by in-flight command buffers.
	// It is destroyed after the next texture creation, which waits for the GPU.
	if c.sizeChanged {
		if c.texture != nil {
			destroy(c.oldTexture)
			c.oldTexture = c.texture
			c.texture = nil
		}
		c.sizeChanged = false
	}

	if !c.dirty && (c.texture != nil || c.pending != nil) {
		return nil
	}

	data := c.target.Image().Pix
	if c.texture == nil {
		c.pending = data
		c.dirty = false
		return nil
	}

	updater, ok := c.texture.(gpucontext.TextureUpdater)
	if !ok {
		// Not updatable: replace it on the next RenderTo.
		destroy(c.oldTexture)
		c.oldTexture = c.texture
		c.texture = nil
		c.pending = data
		c.dirty = false
		return nil
	}
	if err := updater.UpdateData(data); err != nil {
		return fmt.Errorf("primcanvas: texture update failed: %w", err)
	}
	c.dirty = false
	return nil
}

// Texture returns the current GPU texture, or nil before the first RenderTo.
func (c *Canvas) Texture() gpucontext.Texture {
	return c.texture
}

// Provider returns the DeviceProvider, or nil after Close.
func (c *Canvas) Provider() gpucontext.DeviceProvider {
	if c.closed {
		return nil
	}
	return c.provider
}

// Close releases the textures and the rasterizer. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	destroy(c.oldTexture)
	destroy(c.texture)
	c.oldTexture, c.texture = nil, nil
	c.pending = nil

	c.raster.Close()
	c.provider = nil
	return nil
}

func destroy(tex gpucontext.Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
