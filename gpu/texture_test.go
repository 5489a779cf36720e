package gpu

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/prim2d"
)

func TestNewTexture(t *testing.T) {
	r := newTestRenderer(t, WithFilter(prim2d.FilterNearest))

	img := image.NewNRGBA(image.Rect(2, 3, 10, 7))
	img.Set(4, 4, color.NRGBA{R: 255, A: 128})
	tex, err := r.NewTexture(img)
	if err != nil {
		t.Fatalf("NewTexture failed: %v", err)
	}
	defer tex.Destroy()

	if w, h := tex.Size(); w != 8 || h != 4 {
		t.Errorf("Size() = %dx%d, want 8x4", w, h)
	}
	if tex.bindGroup == nil || tex.sampler == nil || tex.view == nil {
		t.Error("texture objects missing")
	}
}

func TestTextureUpdate(t *testing.T) {
	r := newTestRenderer(t)
	tex, err := r.NewTexture(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("NewTexture failed: %v", err)
	}

	if err := tex.Update(image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Errorf("Update same size failed: %v", err)
	}
	if err := tex.Update(image.NewRGBA(image.Rect(0, 0, 5, 4))); !errors.Is(err, ErrTextureSize) {
		t.Errorf("Update other size error = %v, want ErrTextureSize", err)
	}

	tex.Destroy()
	tex.Destroy()
	if err := tex.Update(image.NewRGBA(image.Rect(0, 0, 4, 4))); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Update after Destroy error = %v, want ErrDestroyed", err)
	}
}

func TestNewTextureEmpty(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.NewTexture(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrTextureSize) {
		t.Errorf("NewTexture(empty) error = %v, want ErrTextureSize", err)
	}
}

func TestFilterMode(t *testing.T) {
	if got := filterMode(prim2d.FilterNearest); got != gputypes.FilterModeNearest {
		t.Errorf("filterMode(nearest) = %v", got)
	}
	if got := filterMode(prim2d.FilterLinear); got != gputypes.FilterModeLinear {
		t.Errorf("filterMode(linear) = %v", got)
	}
}

func TestTargetErrors(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.NewTarget(0, 10); !errors.Is(err, ErrTextureSize) {
		t.Errorf("NewTarget(0, 10) error = %v, want ErrTextureSize", err)
	}
	tgt, err := r.NewTarget(8, 8)
	if err != nil {
		t.Fatalf("NewTarget failed: %v", err)
	}
	if a := tgt.Attachment(gputypes.Color{}); a.ResolveTarget != nil {
		t.Error("single-sample target should not resolve")
	}
	tgt.Destroy()
	tgt.Destroy()
	if _, err := tgt.Readback(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Readback after Destroy error = %v, want ErrDestroyed", err)
	}
}

func TestSwizzleBGRA(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	swizzleBGRA(pix)
	want := []byte{3, 2, 1, 4, 7, 6, 5, 8}
	for i := range pix {
		if pix[i] != want[i] {
			t.Fatalf("swizzleBGRA = %v, want %v", pix, want)
		}
	}
	if !isBGRA(gputypes.TextureFormatBGRA8Unorm) || isBGRA(gputypes.TextureFormatRGBA8Unorm) {
		t.Error("isBGRA misclassifies formats")
	}
}
