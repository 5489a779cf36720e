package prim2d

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Small float32 helpers over x/image/math/f32 vectors. They mirror the
// WGSL built-ins the programs use so the CPU stages round the same way.

func add2(a, b f32.Vec2) f32.Vec2 { return f32.Vec2{a[0] + b[0], a[1] + b[1]} }
func sub2(a, b f32.Vec2) f32.Vec2 { return f32.Vec2{a[0] - b[0], a[1] - b[1]} }
func mul2(a, b f32.Vec2) f32.Vec2 { return f32.Vec2{a[0] * b[0], a[1] * b[1]} }
func div2(a, b f32.Vec2) f32.Vec2 { return f32.Vec2{a[0] / b[0], a[1] / b[1]} }

func scale2(v f32.Vec2, s float32) f32.Vec2 { return f32.Vec2{v[0] * s, v[1] * s} }

func dot2(a, b f32.Vec2) float32 { return a[0]*b[0] + a[1]*b[1] }

func scale4(v f32.Vec4, s float32) f32.Vec4 {
	return f32.Vec4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// clamp01 behaves like WGSL clamp(x, 0, 1). NaN propagates.
func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

func finite2(v f32.Vec2) bool { return finite(v[0]) && finite(v[1]) }

func finite4(v f32.Vec4) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2]) && finite(v[3])
}
