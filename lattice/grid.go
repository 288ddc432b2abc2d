package lattice

import "github.com/samber/lo"

// The classification state of a lattice cell.
type CellState uint8

const (
	// Not reached by any seed or sweep; the cell is enclosed by the surface.
	Unset CellState = iota

	// Adjacent to at least one surface vertex.
	Surface

	// Reachable from a lattice face without crossing the surface shell.
	Exterior
)

func (s CellState) String() string {
	switch s {
	case Surface:
		return "surface"
	case Exterior:
		return "exterior"
	}
	return "interior"
}

// A Width^3 array of cell states using the same z-major order as Lattice.
type Grid struct {
	Width int
	cells []CellState
}

// Allocate a grid with every cell Unset.
func NewGrid(width int) *Grid {
	return &Grid{
		Width: width,
		cells: make([]CellState, width*width*width),
	}
}

// Get the state of the cell at c.
func (g *Grid) At(c Coord) CellState {
	return g.cells[g.index(c)]
}

// Set the state of the cell at c.
func (g *Grid) Set(c Coord, s CellState) {
	g.cells[g.index(c)] = s
}

// Returns true if c addresses a cell inside the grid.
func (g *Grid) InRange(c Coord) bool {
	return inRange(g.Width, c)
}

// Count the cells in each state. States with no cells are absent from the
// returned map.
func (g *Grid) Count() map[CellState]int {
	return lo.CountValues(g.cells)
}

func (g *Grid) index(c Coord) int {
	return c[2]*g.Width*g.Width + c[1]*g.Width + c[0]
}

// Visit every cell along a line parallel to axis, starting at from and
// moving by step (+1 or -1) along that axis. The visitor returns false to
// stop the walk.
func (g *Grid) walk(from Coord, axis int, step int, visit func(c Coord) bool) {
	for c := from; g.InRange(c); c[axis] += step {
		if !visit(c) {
			return
		}
	}
}
