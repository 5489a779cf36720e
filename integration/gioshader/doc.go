// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gioshader exports the primitive programs in the shader container
// format used by Gio (gioui.org/shader), so Gio-based hosts can create the
// programs with their own GPU backend.
//
// Each program yields a vertex and a fragment [Stage]. A stage carries a
// [shader.Sources] with the SPIR-V module and the reflection Gio binds by
// (vertex inputs, the frame uniform block, sampled textures), the GLSL ES
// 3.10 text of the stage, and the per-instance input layout.
//
//	stages, err := gioshader.Export(shaders.Default(), prim2d.KindCircle)
//	vs, err := device.NewVertexShader(stages.Vertex.Sources)
package gioshader
