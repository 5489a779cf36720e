// Package scenefile loads primitive scenes from YAML or TOML files.
//
// A scene names the frame, an optional texture and an ordered list of
// shapes. Colors in scene files are straight (non-premultiplied) RGBA and
// are premultiplied on conversion. Rotations are in radians.
//
//	width: 800
//	height: 600
//	frame:
//	  screen_size: [800, 600]
//	shapes:
//	  - kind: circle
//	    center: [400, 300]
//	    radius: 50
//	    color: [1, 0, 0, 1]
package scenefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/math/f32"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/prim2d"
)

var (
	// ErrFormat is returned for a file extension with no decoder.
	ErrFormat = errors.New("scenefile: unsupported format")

	// ErrUnknownShape is returned for a shape kind no program draws.
	ErrUnknownShape = errors.New("scenefile: unknown shape kind")
)

// Format is a scene file encoding.
type Format uint8

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrFormat)
}

// Scene is a decoded scene file.
type Scene struct {
	// Width and Height are the output size in pixels. Zero means the
	// frame's screen size.
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`

	Frame      Frame      `yaml:"frame" toml:"frame"`
	Background [4]float32 `yaml:"background" toml:"background"`
	Texture    Texture    `yaml:"texture" toml:"texture"`
	Shapes     []Shape    `yaml:"shapes" toml:"shapes"`

	dir string
}

// Frame describes the frame uniform. Without an origin the frame is
// ScreenOnly.
type Frame struct {
	ScreenSize     [2]float32  `yaml:"screen_size" toml:"screen_size"`
	ViewportOrigin *[2]float32 `yaml:"viewport_origin" toml:"viewport_origin"`
}

// Texture names the image sampled by textured rectangles.
type Texture struct {
	Path string `yaml:"path" toml:"path"`
	// Filter is "linear" (default) or "nearest".
	Filter string `yaml:"filter" toml:"filter"`
}

// Shape is one instance. Kind selects which fields apply.
type Shape struct {
	Kind        string     `yaml:"kind" toml:"kind"`
	Color       [4]float32 `yaml:"color" toml:"color"`
	Position    [2]float32 `yaml:"position" toml:"position"`
	Center      [2]float32 `yaml:"center" toml:"center"`
	Size        [2]float32 `yaml:"size" toml:"size"`
	Radius      float32    `yaml:"radius" toml:"radius"`
	OuterRadius float32    `yaml:"outer_radius" toml:"outer_radius"`
	InnerRadius float32    `yaml:"inner_radius" toml:"inner_radius"`
	Rotation    float32    `yaml:"rotation" toml:"rotation"`
}

// Load reads a scene file, choosing the decoder by extension.
func Load(path string) (*Scene, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// Parse decodes a scene. Relative texture paths resolve against the
// working directory.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parsing scene: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, fmt.Errorf("parsing scene: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			prim2d.Logger().Warn("scenefile: unknown keys", "keys", fmt.Sprint(undecoded))
		}
	default:
		return nil, fmt.Errorf("format %d: %w", format, ErrFormat)
	}

	if s.Width == 0 {
		s.Width = int(s.Frame.ScreenSize[0])
	}
	if s.Height == 0 {
		s.Height = int(s.Frame.ScreenSize[1])
	}
	return &s, nil
}

// FrameUniform returns the validated frame of the scene.
func (s *Scene) FrameUniform() (prim2d.FrameUniform, error) {
	u := prim2d.NewFrame(s.Frame.ScreenSize[0], s.Frame.ScreenSize[1])
	if o := s.Frame.ViewportOrigin; o != nil {
		u = u.WithOrigin(f32.Vec2(*o))
	}
	if err := u.Validate(); err != nil {
		return prim2d.FrameUniform{}, err
	}
	return u, nil
}

// BackgroundColor returns the premultiplied clear color.
func (s *Scene) BackgroundColor() f32.Vec4 {
	return premultiply(s.Background)
}

// TexturePath returns the texture path resolved against the scene file's
// directory, or "" when the scene has no texture.
func (s *Scene) TexturePath() string {
	p := s.Texture.Path
	if p == "" || filepath.IsAbs(p) || s.dir == "" {
		return p
	}
	return filepath.Join(s.dir, p)
}

// Filter returns the texture filter.
func (s *Scene) Filter() prim2d.Filter {
	if strings.EqualFold(s.Texture.Filter, "nearest") {
		return prim2d.FilterNearest
	}
	return prim2d.FilterLinear
}

// Instances converts the shapes, in file order.
func (s *Scene) Instances() ([]prim2d.Instance, error) {
	out := make([]prim2d.Instance, 0, len(s.Shapes))
	for i, sh := range s.Shapes {
		inst, err := sh.Instance()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		out = append(out, inst)
	}
	return out, nil
}

// Instance converts one shape. Kinds are the program names ("points",
// "circle", "rings", "rect", "texture") or their singular forms.
func (sh Shape) Instance() (prim2d.Instance, error) {
	color := premultiply(sh.Color)
	switch strings.ToLower(sh.Kind) {
	case "point", "points":
		return prim2d.Point{Color: color, Position: f32.Vec2(sh.Position)}, nil
	case "circle", "circles":
		return prim2d.Circle{Color: color, Center: f32.Vec2(sh.Center), Radius: sh.Radius}, nil
	case "ring", "rings":
		return prim2d.Ring{
			Color: color, Center: f32.Vec2(sh.Center),
			OuterRadius: sh.OuterRadius, InnerRadius: sh.InnerRadius,
		}, nil
	case "rect", "rects":
		return prim2d.Rect{
			Color: color, Center: f32.Vec2(sh.Center),
			Size: f32.Vec2(sh.Size), Rotation: sh.Rotation,
		}, nil
	case "texture", "textured_rect":
		return prim2d.TexturedRect{Center: f32.Vec2(sh.Center), Size: f32.Vec2(sh.Size), Rotation: sh.Rotation}, nil
	}
	return nil, fmt.Errorf("%q: %w", sh.Kind, ErrUnknownShape)
}

func premultiply(c [4]float32) f32.Vec4 {
	return f32.Vec4{c[0] * c[3], c[1] * c[3], c[2] * c[3], c[3]}
}
