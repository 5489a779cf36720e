package gpu

import "errors"

var (
	// ErrNoDevice is returned when a nil device or queue is supplied.
	ErrNoDevice = errors.New("gpu: nil device or queue")

	// ErrNoHAL is returned when a device provider does not expose HAL types.
	ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrNoFrame is returned when drawing before BeginFrame.
	ErrNoFrame = errors.New("gpu: no frame uniform written")

	// ErrNoTexture is returned for a textured batch without a texture.
	ErrNoTexture = errors.New("gpu: textured batch has no texture")

	// ErrMixedKinds is returned when instances of different kinds are
	// uploaded into one buffer.
	ErrMixedKinds = errors.New("gpu: instance kind does not match buffer")

	// ErrTextureSize is returned when updating a texture with an image of
	// another size, or creating an empty one.
	ErrTextureSize = errors.New("gpu: texture size mismatch")

	// ErrDestroyed is returned when using a destroyed renderer.
	ErrDestroyed = errors.New("gpu: renderer destroyed")
)
