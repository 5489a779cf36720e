package raster

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/prim2d/internal/parallel"
)

// Option configures a Rasterizer.
type Option func(*options)

type options struct {
	workers  int
	tileSize int
	clear    *f32.Vec4
}

// WithWorkers sets the number of goroutines shading tiles. Values <= 0
// select GOMAXPROCS; 1 shades on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithTileSize sets the edge length of the screen tiles shaded in
// parallel. Default: 64.
func WithTileSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tileSize = n
		}
	}
}

// WithClear makes every Draw clear the target to c (premultiplied) first.
func WithClear(c f32.Vec4) Option {
	return func(o *options) { o.clear = &c }
}

func buildOptions(opts []Option) options {
	o := options{tileSize: parallel.TileSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
