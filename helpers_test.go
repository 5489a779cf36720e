package prim2d

import (
	"testing"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

const eps = 1e-5

func near(a, b, tol float32) bool { return math32.Abs(a-b) <= tol }

func assertVec2(t *testing.T, what string, got, want f32.Vec2, tol float32) {
	t.Helper()
	if !near(got[0], want[0], tol) || !near(got[1], want[1], tol) {
		t.Errorf("%s = %v, want %v (tol %g)", what, got, want, tol)
	}
}

func assertVec4(t *testing.T, what string, got, want f32.Vec4, tol float32) {
	t.Helper()
	for i := range got {
		if !near(got[i], want[i], tol) {
			t.Errorf("%s = %v, want %v (tol %g)", what, got, want, tol)
			return
		}
	}
}

// fromClip inverts ToClip for the x and y components.
func fromClip(clip f32.Vec4, frame FrameUniform) f32.Vec2 {
	n := div2(sub2(f32.Vec2{clip[0], clip[1]}, clipShift), clipScale)
	return add2(mul2(n, frame.ScreenSize), frame.Origin())
}

// worldOf maps a vertex clip position back to worldspace.
func worldOf(v V2F, frame FrameUniform) f32.Vec2 {
	return fromClip(v.Position, frame)
}
