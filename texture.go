package prim2d

import (
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f32"
)

// Sampler is the CPU stand-in for a bound texture and sampler pair.
// Sample receives texture coordinates where (0,0) is the top-left texel
// corner and (1,1) the bottom-right one. It returns premultiplied RGBA.
type Sampler interface {
	Sample(uv f32.Vec2) f32.Vec4
}

// Filter selects texel filtering.
type Filter uint8

const (
	FilterLinear Filter = iota
	FilterNearest
)

// ImageTexture is an RGBA8 texture sampled with clamp-to-edge addressing.
type ImageTexture struct {
	width, height int
	pix           []uint8 // premultiplied RGBA, row-major
	filter        Filter
}

// NewImageTexture copies img into a texture. Non-RGBA images are converted
// with premultiplied alpha, which is also what gets uploaded to the GPU.
func NewImageTexture(img image.Image, filter Filter) *ImageTexture {
	rgba := ToRGBA(img)
	b := rgba.Bounds()
	return &ImageTexture{
		width:  b.Dx(),
		height: b.Dy(),
		pix:    rgba.Pix,
		filter: filter,
	}
}

// ToRGBA returns img as a tightly packed *image.RGBA with its bounds at
// the origin, converting if needed.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Size returns the texture dimensions.
func (t *ImageTexture) Size() (int, int) { return t.width, t.height }

// Sample implements Sampler.
func (t *ImageTexture) Sample(uv f32.Vec2) f32.Vec4 {
	if t.width == 0 || t.height == 0 {
		return f32.Vec4{}
	}
	x := uv[0]*float32(t.width) - 0.5
	y := uv[1]*float32(t.height) - 0.5
	if t.filter == FilterNearest {
		return t.texel(int(math32.Floor(x+0.5)), int(math32.Floor(y+0.5)))
	}

	x0, y0 := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)
	c00 := t.texel(ix, iy)
	c10 := t.texel(ix+1, iy)
	c01 := t.texel(ix, iy+1)
	c11 := t.texel(ix+1, iy+1)
	var out f32.Vec4
	for i := range out {
		top := c00[i] + (c10[i]-c00[i])*fx
		bot := c01[i] + (c11[i]-c01[i])*fx
		out[i] = top + (bot-top)*fy
	}
	return out
}

// texel fetches a texel with clamp-to-edge addressing.
func (t *ImageTexture) texel(x, y int) f32.Vec4 {
	x = min(max(x, 0), t.width-1)
	y = min(max(y, 0), t.height-1)
	i := (y*t.width + x) * 4
	p := t.pix[i : i+4 : i+4]
	return f32.Vec4{
		float32(p[0]) / 255,
		float32(p[1]) / 255,
		float32(p[2]) / 255,
		float32(p[3]) / 255,
	}
}
