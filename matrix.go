package prim2d

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Rotation returns the affine transform that rotates by theta radians and
// then translates by t:
//
//	| cos θ  -sin θ  t.x |
//	| sin θ   cos θ  t.y |
//
// Positive angles turn +x towards +y. Worldspace y grows downwards, so on
// screen that reads as clockwise.
func Rotation(theta float32, t f32.Vec2) f32.Aff3 {
	s, c := math32.Sincos(theta)
	return f32.Aff3{
		c, -s, t[0],
		s, c, t[1],
	}
}

// Apply transforms p by m.
func Apply(m f32.Aff3, p f32.Vec2) f32.Vec2 {
	return f32.Vec2{
		m[0]*p[0] + m[1]*p[1] + m[2],
		m[3]*p[0] + m[4]*p[1] + m[5],
	}
}
