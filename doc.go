// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package prim2d is a shader-level core for drawing 2D primitives.
//
// Five programs turn compact per-instance descriptors into antialiased
// pixels: [Point], [Circle], [Ring], [Rect] and [TexturedRect]. They share
// one worldspace to clipspace mapping driven by a per-frame [FrameUniform]
// (screen size plus viewport origin).
//
// The programs exist twice with a single contract. The WGSL sources in the
// shaders package run on the GPU; this package holds a CPU rendition of the
// same stages, which the raster package executes end-to-end and which the
// tests check the contract against.
//
// # Stages
//
// Each instance is drawn as a four-vertex triangle strip. The vertex stage
// ([Instance.Vertex]) expands the instance to quad corners and maps them to
// clip space with [ToClip]. The fragment stage ([Shade]) applies analytic
// coverage ([CircleCoverage], [RingCoverage]) or samples a texture.
//
//	frame := prim2d.FrameUniform{ScreenSize: f32.Vec2{800, 600}}
//	c := prim2d.Circle{Color: f32.Vec4{1, 0, 0, 1}, Center: f32.Vec2{400, 300}, Radius: 50}
//	v := c.Vertex(frame, 0) // bottom-left corner of the bounding quad
//
// # Validation
//
// The programs never fail. Degenerate input produces degenerate pixels.
// Hosts that want early diagnostics call [FrameUniform.Validate] and
// [Instance.Validate], which return errors wrapping the sentinels in this
// package.
//
// # Logging
//
// By default the package and its sub-packages are silent. Use [SetLogger]
// to route diagnostics to a [log/slog.Logger].
package prim2d
