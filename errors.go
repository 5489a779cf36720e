package prim2d

import "errors"

// Validation errors. The programs themselves never fail; these are returned
// by the opt-in host-side validators and wrapped with context.
var (
	// ErrInvalidScreenSize is returned when a screen size component is not
	// strictly positive and finite.
	ErrInvalidScreenSize = errors.New("prim2d: screen size must be positive and finite")

	// ErrInvalidOrigin is returned when the viewport origin is not finite.
	ErrInvalidOrigin = errors.New("prim2d: viewport origin must be finite")

	// ErrNonFinite is returned when an instance attribute is NaN or infinite.
	ErrNonFinite = errors.New("prim2d: non-finite instance attribute")

	// ErrDegenerateRadius is returned for circles and rings whose outer
	// radius is not positive.
	ErrDegenerateRadius = errors.New("prim2d: radius must be positive")

	// ErrInvalidRing is returned when a ring's inner radius is negative or
	// exceeds its outer radius.
	ErrInvalidRing = errors.New("prim2d: inner radius must lie in [0, outer]")

	// ErrDegenerateSize is returned for rectangles with a non-positive side.
	ErrDegenerateSize = errors.New("prim2d: size must be positive")

	// ErrUnknownKind is returned for a Kind outside the program table.
	ErrUnknownKind = errors.New("prim2d: unknown primitive kind")
)
