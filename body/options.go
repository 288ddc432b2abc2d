package body

import (
	"github.com/achilleasa/go-softbody/lattice"
	"github.com/pkg/errors"
)

type Options struct {
	// Number of points along each side of the primary lattice. The
	// secondary lattice uses LatticeWidth + 1 points per side.
	LatticeWidth int

	// Distance by which every collision leaf box is expanded.
	CollisionMargin float32

	// Lattice cell sizes are rounded up to a multiple of this value. A
	// value of 0 keeps the tightest cell size.
	CellRounding float32

	// Controls whether enclosed lattice cells are connected to their
	// neighbours.
	Connectivity lattice.Connectivity
}

// Get the default body options.
func DefaultOptions() Options {
	return Options{
		LatticeWidth:    13,
		CollisionMargin: 10.0,
		CellRounding:    100.0,
		Connectivity:    lattice.InteriorConnected,
	}
}

// Validate the options.
func (o Options) Validate() error {
	switch {
	case o.LatticeWidth < 2:
		return errors.Wrapf(ErrInvalidOptions, "lattice width must be at least 2; got %d", o.LatticeWidth)
	case o.CollisionMargin < 0:
		return errors.Wrapf(ErrInvalidOptions, "collision margin must not be negative; got %f", o.CollisionMargin)
	case o.CellRounding < 0:
		return errors.Wrapf(ErrInvalidOptions, "cell rounding must not be negative; got %f", o.CellRounding)
	case o.Connectivity != lattice.InteriorConnected && o.Connectivity != lattice.InteriorDetached:
		return errors.Wrapf(ErrInvalidOptions, "unknown connectivity policy %d", o.Connectivity)
	}
	return nil
}
