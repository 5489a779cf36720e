package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/prim2d"
	"github.com/gogpu/prim2d/shaders"
)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	format      gputypes.TextureFormat
	sampleCount uint32
	label       string
	library     *shaders.Library
	filter      prim2d.Filter
}

func defaultOptions() options {
	return options{
		format:      gputypes.TextureFormatBGRA8Unorm,
		sampleCount: 1,
		label:       "prim2d",
		filter:      prim2d.FilterLinear,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.library == nil {
		o.library = shaders.Default()
	}
	return o
}

// WithFormat sets the color target format of every pipeline.
// Default: BGRA8Unorm.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		if f != gputypes.TextureFormatUndefined {
			o.format = f
		}
	}
}

// WithSampleCount sets the multisample count of the pipelines. Values
// below 1 are treated as 1.
func WithSampleCount(n uint32) Option {
	return func(o *options) { o.sampleCount = max(n, 1) }
}

// WithLabel sets the prefix of every GPU object label.
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// WithLibrary sets the shader library the pipelines are built from.
// Default: shaders.Default().
func WithLibrary(lib *shaders.Library) Option {
	return func(o *options) { o.library = lib }
}

// WithFilter sets the sampler filter of textures created by the renderer.
func WithFilter(f prim2d.Filter) Option {
	return func(o *options) { o.filter = f }
}
