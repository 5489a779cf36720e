package prim2d

import "golang.org/x/image/math/f32"

// QuadVertexCount is the number of vertices drawn per instance.
const QuadVertexCount = 4

// PointHalfExtent is the half side, in world units, of the quad a Point
// expands to. Points have no per-instance size.
const PointHalfExtent float32 = 1

// quadCorners lists the unit quad corners in triangle-strip order.
var quadCorners = [QuadVertexCount]f32.Vec2{
	{-1, -1},
	{1, -1},
	{-1, 1},
	{1, 1},
}

// QuadCorner returns the base corner for a vertex index. Indices wrap
// modulo 4, so every index is valid.
func QuadCorner(index uint32) f32.Vec2 {
	return quadCorners[index&(QuadVertexCount-1)]
}

// expandRadial places a corner of the square bounding a circle or ring.
func expandRadial(center f32.Vec2, radius float32, index uint32) (pos, uv f32.Vec2) {
	uv = QuadCorner(index)
	return add2(scale2(uv, radius), center), uv
}

// expandRect places a corner of a rotated rectangle.
func expandRect(center, size f32.Vec2, rotation float32, index uint32) (pos, corner f32.Vec2) {
	corner = QuadCorner(index)
	local := mul2(corner, scale2(size, 0.5))
	return Apply(Rotation(rotation, center), local), corner
}
