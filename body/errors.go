package body

import "errors"

var (
	ErrInvalidOptions = errors.New("body: invalid options")
)
