// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shaders holds the WGSL sources of the primitive programs and
// the tooling around them.
//
// Sources are embedded in the binary and may include each other with a
// line of the form
//
//	#include <common.wgsl>
//
// A [Library] resolves includes (each file at most once per program,
// cycles are reported as errors), caches the result and can be refreshed
// from disk for hot reloading. [Compile] translates a resolved program to
// SPIR-V, MSL, GLSL or HLSL through naga, and [Reflect] reports the entry
// points, resource bindings and vertex inputs a program declares.
package shaders
