package scene

import "errors"

var (
	ErrEmptyScene      = errors.New("scene: no objects to pack")
	ErrDuplicateObject = errors.New("scene: duplicate object id")
	ErrCorruptScene    = errors.New("scene: packed buffers are inconsistent")
)
