// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package prim2d

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Coverage falloff. uv is the normalized quad coordinate, so dot(uv, uv)
// is 1 on the outer rim. The circle edge fades over dot in [0.98, 1.0]; the
// ring edges are twice as sharp.
const (
	circleFalloff = 50
	ringFalloff   = 100
)

// CircleCoverage returns the analytic coverage of a disc at uv:
//
//	clamp(dot(uv, uv) * -50 + 50, 0, 1)
//
// It is 1 for dot(uv, uv) <= 0.98, falls linearly to 0 at 1.0 and is 0
// outside the rim.
func CircleCoverage(uv f32.Vec2) float32 {
	d := dot2(uv, uv)
	return clamp01(d*-circleFalloff + circleFalloff)
}

// RingCoverage returns the analytic coverage of an annulus at uv, where
// ratio is inner_radius / outer_radius:
//
//	d := dot(uv, uv)
//	min(clamp(d*-100 + 100, 0, 1), clamp(d*100 - 100*ratio, 0, 1))
//
// The inner edge sits where d equals ratio. A NaN ratio yields NaN, which
// the fragment stage treats as zero coverage.
func RingCoverage(uv f32.Vec2, ratio float32) float32 {
	d := dot2(uv, uv)
	outer := clamp01(d*-ringFalloff + ringFalloff)
	inner := clamp01(d*ringFalloff - ringFalloff*ratio)
	return math32.Min(outer, inner)
}

// covered reports whether a fragment with the given coverage survives.
// Zero and NaN coverage discard.
func covered(c float32) bool { return c > 0 }
