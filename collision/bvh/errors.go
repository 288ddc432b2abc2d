package bvh

import "errors"

var (
	ErrInvalidInput = errors.New("bvh: invalid input")
)
