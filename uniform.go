package prim2d

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// FrameUniformSize is the byte size of the uniform block:
// screen_size (vec2<f32>) at offset 0, viewport_origin (vec2<f32>) at 8.
const FrameUniformSize = 16

// ViewportMode selects how the viewport origin participates in the
// coordinate transform.
type ViewportMode uint8

const (
	// ViewportOffset subtracts ViewportOrigin before normalizing.
	ViewportOffset ViewportMode = iota
	// ScreenOnly treats the origin as (0, 0) regardless of ViewportOrigin.
	ScreenOnly
)

// String returns the mode name.
func (m ViewportMode) String() string {
	switch m {
	case ViewportOffset:
		return "offset"
	case ScreenOnly:
		return "screen"
	default:
		return fmt.Sprintf("ViewportMode(%d)", m)
	}
}

// FrameUniform is the per-frame state shared by every program: the screen
// size in world units and the worldspace point mapped to the top-left
// corner of the screen.
//
// The host writes it once per frame. Every stage receives it by value.
type FrameUniform struct {
	ScreenSize     f32.Vec2
	ViewportOrigin f32.Vec2
	Mode           ViewportMode
}

// NewFrame returns a ScreenOnly frame of the given size.
func NewFrame(width, height float32) FrameUniform {
	return FrameUniform{ScreenSize: f32.Vec2{width, height}, Mode: ScreenOnly}
}

// WithOrigin returns a copy of u that honours origin.
func (u FrameUniform) WithOrigin(origin f32.Vec2) FrameUniform {
	u.ViewportOrigin = origin
	u.Mode = ViewportOffset
	return u
}

// Origin returns the origin the transform uses.
func (u FrameUniform) Origin() f32.Vec2 {
	if u.Mode == ScreenOnly {
		return f32.Vec2{}
	}
	return u.ViewportOrigin
}

// Validate checks the frame invariants. Screen size components must be
// strictly positive and finite; the effective origin must be finite.
func (u FrameUniform) Validate() error {
	w, h := u.ScreenSize[0], u.ScreenSize[1]
	if !(w > 0) || !(h > 0) || math32.IsInf(w, 0) || math32.IsInf(h, 0) {
		return fmt.Errorf("frame %vx%v: %w", w, h, ErrInvalidScreenSize)
	}
	if !finite2(u.Origin()) {
		return fmt.Errorf("frame origin %v: %w", u.ViewportOrigin, ErrInvalidOrigin)
	}
	return nil
}

// AppendTo appends the 16-byte GPU representation of u to dst. In
// ScreenOnly mode the origin is written as zeros.
func (u FrameUniform) AppendTo(dst []byte) []byte {
	o := u.Origin()
	dst = appendFloats(dst, u.ScreenSize[0], u.ScreenSize[1], o[0], o[1])
	return dst
}

// Bytes returns the 16-byte GPU representation of u.
func (u FrameUniform) Bytes() []byte {
	return u.AppendTo(make([]byte, 0, FrameUniformSize))
}

func appendFloats(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}
