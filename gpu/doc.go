// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu binds the primitive programs to a gogpu/wgpu HAL device.
//
// It owns exactly the binding contract of the programs and nothing more:
//
//   - group 0, binding 0: the 16-byte frame uniform ([FrameBinding])
//   - group 1, bindings 0 and 1: texture and filtering sampler for
//     textured rectangles ([TextureBinding])
//   - one per-instance vertex buffer per draw ([InstanceBuffer])
//   - one render pipeline per program ([PrimitivePipeline]) drawing a
//     four-vertex triangle strip per instance with premultiplied blending
//
// A [Renderer] ties these together. The host begins a frame with the
// current [prim2d.FrameUniform], uploads instances and either records the
// draws into a render pass it owns ([Renderer.Record]) or lets the
// renderer encode and submit a whole pass ([Renderer.Render]).
//
// Windowing, surfaces and scene management stay with the host.
//
// Renderer and the resources it creates are not safe for concurrent use.
package gpu
