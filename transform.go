package prim2d

import "golang.org/x/image/math/f32"

var (
	clipScale = f32.Vec2{2, -2}
	clipShift = f32.Vec2{-1, 1}
)

// ToClip maps a worldspace point to clip space:
//
//	clip = (p - origin) / screen_size * (2, -2) + (-1, 1)
//
// The origin maps to (-1, 1) (top-left) and origin+screen_size to (1, -1).
// Results outside [-1, 1] are left for the rasterizer to clip. Z is 0 and W
// is 1. The frame is not validated here.
func ToClip(p f32.Vec2, frame FrameUniform) f32.Vec4 {
	n := add2(mul2(div2(sub2(p, frame.Origin()), frame.ScreenSize), clipScale), clipShift)
	return f32.Vec4{n[0], n[1], 0, 1}
}
