// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package primcanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Rendering errors.
var (
	// ErrInvalidDrawContext is returned for a nil TextureDrawer.
	ErrInvalidDrawContext = errors.New("primcanvas: nil TextureDrawer")

	// ErrInvalidRenderer is returned when the drawer has no TextureCreator.
	ErrInvalidRenderer = errors.New("primcanvas: drawer has no TextureCreator")
)

// RenderTo draws the canvas at (0, 0).
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToPosition(dc, 0, 0)
}

// RenderToPosition flushes the canvas, creates the texture if needed and
// draws it with its top-left corner at (x, y).
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if dc == nil {
		return ErrInvalidDrawContext
	}
	if err := c.Flush(); err != nil {
		return err
	}

	if c.pending != nil {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		w, h := c.Size()
		tex, err := creator.NewTextureFromRGBA(w, h, c.pending)
		if err != nil {
			return fmt.Errorf("primcanvas: NewTextureFromRGBA failed: %w", err)
		}
		// Target pixels are premultiplied.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		c.texture = tex
		c.pending = nil

		// Texture creation waited for the GPU, so the old one is idle.
		destroy(c.oldTexture)
		c.oldTexture = nil
	}

	return dc.DrawTexture(c.texture, x, y)
}
