package compiler

import (
	"runtime"

	"github.com/achilleasa/go-softbody/body"
	"github.com/achilleasa/go-softbody/types"
)

type Options struct {
	// Options used for building every body.
	Body body.Options

	// Offset applied to every body after it is built.
	Translate types.Vec3

	// Number of bodies built in parallel. Values < 1 select the number of
	// available CPUs.
	Workers int
}

// Get the default compiler options.
func DefaultOptions() Options {
	return Options{
		Body:    body.DefaultOptions(),
		Workers: runtime.NumCPU(),
	}
}
