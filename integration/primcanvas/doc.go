// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package primcanvas presents CPU-rasterized primitives in gogpu windows.
//
// A Canvas owns a raster.Target. Draw rasterizes instances into it and
// RenderTo uploads the pixels to a GPU texture and draws that texture:
//
//	instances (CPU raster) -> raster.Target -> GPU Texture -> Window
//
// # Usage
//
//	canvas, err := primcanvas.New(app.GPUContextProvider(), 800, 600)
//	if err != nil {
//	    return err
//	}
//	defer canvas.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.Clear(f32.Vec4{0, 0, 0, 1})
//	    _ = canvas.Draw([]prim2d.Instance{
//	        prim2d.Circle{Color: f32.Vec4{1, 0, 0, 1}, Center: f32.Vec2{400, 300}, Radius: 100},
//	    }, nil)
//	    _ = canvas.RenderTo(dc.AsTextureDrawer())
//	})
//
// The texture is created lazily on the first RenderTo, when a
// gpucontext.TextureCreator is available, and updated in place afterwards.
// Uploads only happen when the canvas is dirty.
//
// For rendering straight into a surface without the CPU rasterizer, use
// gpu.NewFromProvider with the same provider.
//
// Canvas is NOT safe for concurrent use.
package primcanvas
