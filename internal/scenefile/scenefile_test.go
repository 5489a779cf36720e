package scenefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/prim2d"
)

const yamlScene = `
width: 400
frame:
  screen_size: [800, 600]
  viewport_origin: [10, 20]
background: [0, 0, 1, 0.5]
texture:
  path: checker.png
  filter: nearest
shapes:
  - kind: circle
    center: [400, 300]
    radius: 50
    color: [1, 0, 0, 1]
  - kind: ring
    center: [100, 100]
    outer_radius: 20
    inner_radius: 10
    color: [0, 1, 0, 0.5]
  - kind: rect
    center: [50, 50]
    size: [10, 20]
    rotation: 1.5
    color: [1, 1, 1, 1]
  - kind: textured_rect
    center: [60, 60]
    size: [32, 32]
  - kind: point
    position: [5, 5]
    color: [1, 1, 0, 1]
`

const tomlScene = `
width = 64
height = 32

[frame]
screen_size = [64.0, 32.0]

[[shapes]]
kind = "rects"
center = [32.0, 16.0]
size = [8.0, 8.0]
color = [1.0, 0.0, 0.0, 1.0]

[[shapes]]
kind = "circles"
center = [10.0, 10.0]
radius = 4.0
color = [0.0, 0.0, 1.0, 1.0]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "scene.yaml", yamlScene)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if s.Width != 400 || s.Height != 600 {
		t.Errorf("size = %dx%d, want 400x600 (height from screen size)", s.Width, s.Height)
	}

	frame, err := s.FrameUniform()
	if err != nil {
		t.Fatalf("FrameUniform: %v", err)
	}
	if frame.Mode != prim2d.ViewportOffset || frame.Origin() != (f32.Vec2{10, 20}) {
		t.Errorf("frame = %+v, want origin (10,20) in ViewportOffset mode", frame)
	}

	if got, want := s.TexturePath(), filepath.Join(filepath.Dir(path), "checker.png"); got != want {
		t.Errorf("TexturePath() = %q, want %q", got, want)
	}
	if s.Filter() != prim2d.FilterNearest {
		t.Errorf("Filter() = %v, want nearest", s.Filter())
	}
	if got, want := s.BackgroundColor(), (f32.Vec4{0, 0, 0.5, 0.5}); got != want {
		t.Errorf("BackgroundColor() = %v, want %v", got, want)
	}

	instances, err := s.Instances()
	if err != nil {
		t.Fatalf("Instances: %v", err)
	}
	wantKinds := []prim2d.Kind{
		prim2d.KindCircle, prim2d.KindRing, prim2d.KindRect, prim2d.KindTexturedRect, prim2d.KindPoint,
	}
	if len(instances) != len(wantKinds) {
		t.Fatalf("len(instances) = %d, want %d", len(instances), len(wantKinds))
	}
	for i, inst := range instances {
		if inst.Kind() != wantKinds[i] {
			t.Errorf("instances[%d].Kind() = %v, want %v", i, inst.Kind(), wantKinds[i])
		}
	}

	ring := instances[1].(prim2d.Ring)
	if ring.Color != (f32.Vec4{0, 0.5, 0, 0.5}) {
		t.Errorf("ring color = %v, want premultiplied (0,0.5,0,0.5)", ring.Color)
	}
	if ring.OuterRadius != 20 || ring.InnerRadius != 10 {
		t.Errorf("ring radii = %v/%v, want 20/10", ring.OuterRadius, ring.InnerRadius)
	}
	rect := instances[2].(prim2d.Rect)
	if rect.Rotation != 1.5 || rect.Size != (f32.Vec2{10, 20}) {
		t.Errorf("rect = %+v", rect)
	}
}

func TestLoadTOML(t *testing.T) {
	s, err := Load(writeFile(t, "scene.toml", tomlScene))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	frame, err := s.FrameUniform()
	if err != nil {
		t.Fatalf("FrameUniform: %v", err)
	}
	if frame.Mode != prim2d.ScreenOnly {
		t.Errorf("Mode = %v, want ScreenOnly", frame.Mode)
	}
	if s.TexturePath() != "" {
		t.Errorf("TexturePath() = %q, want empty", s.TexturePath())
	}
	if s.Filter() != prim2d.FilterLinear {
		t.Errorf("Filter() = %v, want linear default", s.Filter())
	}

	instances, err := s.Instances()
	if err != nil {
		t.Fatalf("Instances: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("len(instances) = %d, want 2", len(instances))
	}
	c, ok := instances[1].(prim2d.Circle)
	if !ok || c.Radius != 4 || c.Center != (f32.Vec2{10, 10}) {
		t.Errorf("instances[1] = %#v, want circle r=4 at (10,10)", instances[1])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want error
	}{
		{"unknown extension", func(t *testing.T) string { return writeFile(t, "scene.json", "{}") }, ErrFormat},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Load(writeFile(t, "bad.yaml", "shapes: [")); err == nil {
		t.Error("Load(malformed yaml) succeeded")
	}
	if _, err := Load(writeFile(t, "bad.toml", "width = ")); err == nil {
		t.Error("Load(malformed toml) succeeded")
	}
}

func TestUnknownShape(t *testing.T) {
	s, err := Parse([]byte("frame: {screen_size: [10, 10]}\nshapes:\n  - kind: hexagon\n"), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := s.Instances(); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("Instances() error = %v, want ErrUnknownShape", err)
	}
}

func TestInvalidFrame(t *testing.T) {
	s, err := Parse([]byte("shapes: []\n"), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := s.FrameUniform(); !errors.Is(err, prim2d.ErrInvalidScreenSize) {
		t.Errorf("FrameUniform() error = %v, want ErrInvalidScreenSize", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.yaml", FormatYAML},
		{"b.YML", FormatYAML},
		{"dir/c.toml", FormatTOML},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatOf(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
		}
	}
}
