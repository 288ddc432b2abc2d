package lattice

import "errors"

var (
	ErrIndexOutOfRange = errors.New("lattice: cell index out of range")
	ErrInvalidWidth    = errors.New("lattice: width must be at least 2")
	ErrEmptyBounds     = errors.New("lattice: cannot lay out an empty bounding box")
	ErrWidthMismatch   = errors.New("lattice: secondary lattice width must be primary width + 1")
)
