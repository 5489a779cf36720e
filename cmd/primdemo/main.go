// Command primdemo renders a primitive scene file to PNG with the CPU
// rasterizer.
//
// Usage:
//
//	primdemo [options] <scene.yaml|scene.toml>
//
// Without a scene argument a built-in scene is drawn.
package main

import (
	"flag"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/prim2d"
	"github.com/gogpu/prim2d/internal/scenefile"
	"github.com/gogpu/prim2d/raster"
)

func main() {
	var (
		output  = flag.String("output", "demo.png", "output file")
		workers = flag.Int("workers", 0, "raster workers (0: GOMAXPROCS)")
		verbose = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	if *verbose {
		prim2d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	scene := defaultScene()
	if flag.NArg() > 0 {
		var err error
		if scene, err = scenefile.Load(flag.Arg(0)); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}

	frame, err := scene.FrameUniform()
	if err != nil {
		log.Fatalf("Invalid frame: %v", err)
	}
	instances, err := scene.Instances()
	if err != nil {
		log.Fatalf("Invalid scene: %v", err)
	}

	var tex prim2d.Sampler
	if path := scene.TexturePath(); path != "" {
		img, err := loadImage(path)
		if err != nil {
			log.Fatalf("Failed to load texture: %v", err)
		}
		tex = prim2d.NewImageTexture(img, scene.Filter())
	}

	r := raster.New(raster.WithWorkers(*workers), raster.WithClear(scene.BackgroundColor()))
	defer r.Close()

	target := raster.NewTarget(scene.Width, scene.Height)
	if err := r.Draw(target, frame, instances, tex); err != nil {
		log.Fatalf("Failed to draw: %v", err)
	}

	if err := target.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Scene saved to %s (%dx%d, %d instances)\n", *output, scene.Width, scene.Height, len(instances))
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the scene file
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// defaultScene draws one of each untextured primitive.
func defaultScene() *scenefile.Scene {
	s := &scenefile.Scene{
		Width:      800,
		Height:     600,
		Frame:      scenefile.Frame{ScreenSize: [2]float32{800, 600}},
		Background: [4]float32{0.1, 0.1, 0.15, 1},
	}
	add := func(sh scenefile.Shape) { s.Shapes = append(s.Shapes, sh) }

	add(scenefile.Shape{Kind: "circle", Center: [2]float32{200, 200}, Radius: 120, Color: [4]float32{1, 0.3, 0.3, 0.8}})
	add(scenefile.Shape{Kind: "circle", Center: [2]float32{300, 260}, Radius: 120, Color: [4]float32{0.3, 0.3, 1, 0.8}})
	add(scenefile.Shape{
		Kind: "ring", Center: [2]float32{580, 200}, OuterRadius: 110, InnerRadius: 70,
		Color: [4]float32{1, 0.8, 0, 1},
	})
	for i := range 6 {
		add(scenefile.Shape{
			Kind:     "rect",
			Center:   [2]float32{150 + float32(i)*100, 480},
			Size:     [2]float32{60, 30},
			Rotation: float32(i) * math.Pi / 6,
			Color:    [4]float32{0.3, 1, 0.5, 0.9},
		})
	}
	for i := range 40 {
		x := 20 + float32(i)*19
		add(scenefile.Shape{Kind: "point", Position: [2]float32{x, 580}, Color: [4]float32{1, 1, 1, 1}})
	}
	return s
}
