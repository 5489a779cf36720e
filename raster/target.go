package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Target is a float framebuffer holding premultiplied RGBA, plus a mask of
// the pixels any fragment was written to.
type Target struct {
	width   int
	height  int
	pix     []f32.Vec4
	written []bool
}

// NewTarget creates a transparent target of the given size.
func NewTarget(width, height int) *Target {
	width, height = max(width, 0), max(height, 0)
	return &Target{
		width:   width,
		height:  height,
		pix:     make([]f32.Vec4, width*height),
		written: make([]bool, width*height),
	}
}

// Width returns the width of the target.
func (t *Target) Width() int {
	return t.width
}

// Height returns the height of the target.
func (t *Target) Height() int {
	return t.height
}

// Bounds returns the pixel rectangle of the target.
func (t *Target) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

// At returns the premultiplied color of a pixel. Out of range pixels are
// transparent.
func (t *Target) At(x, y int) f32.Vec4 {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return f32.Vec4{}
	}
	return t.pix[y*t.width+x]
}

// Written reports whether any fragment was blended into the pixel since
// the last Clear.
func (t *Target) Written(x, y int) bool {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return false
	}
	return t.written[y*t.width+x]
}

// Clear fills the target with a premultiplied color and resets the
// written mask.
func (t *Target) Clear(c f32.Vec4) {
	for i := range t.pix {
		t.pix[i] = c
	}
	clear(t.written)
}

// blend composites a premultiplied source over the pixel at index i.
func (t *Target) blend(i int, src f32.Vec4) {
	dst := t.pix[i]
	k := 1 - src[3]
	t.pix[i] = f32.Vec4{
		src[0] + dst[0]*k,
		src[1] + dst[1]*k,
		src[2] + dst[2]*k,
		src[3] + dst[3]*k,
	}
	t.written[i] = true
}

// Image converts the target to an 8-bit premultiplied image.
func (t *Target) Image() *image.RGBA {
	img := image.NewRGBA(t.Bounds())
	for i, c := range t.pix {
		img.Pix[i*4+0] = unorm8(c[0])
		img.Pix[i*4+1] = unorm8(c[1])
		img.Pix[i*4+2] = unorm8(c[2])
		img.Pix[i*4+3] = unorm8(c[3])
	}
	return img
}

// RGBA returns the 8-bit color of a pixel.
func (t *Target) RGBA(x, y int) color.RGBA {
	c := t.At(x, y)
	return color.RGBA{R: unorm8(c[0]), G: unorm8(c[1]), B: unorm8(c[2]), A: unorm8(c[3])}
}

// SavePNG saves the target to a PNG file.
func (t *Target) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, t.Image())
}

// unorm8 converts a [0, 1] float to a byte the way a UNORM color target
// stores it. NaN stores as 0.
func unorm8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math32.Round(v * 255))
}
