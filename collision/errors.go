package collision

import "errors"

var (
	ErrCorruptHierarchy = errors.New("collision: corrupt hierarchy")
)
