package lattice

import (
	"fmt"
	"math"

	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

// A cell coordinate inside a lattice, stored as {x, y, z}.
type Coord [3]int

// Add an offset to a coordinate.
func (c Coord) Add(d Coord) Coord {
	return Coord{c[0] + d[0], c[1] + d[1], c[2] + d[2]}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c[0], c[1], c[2])
}

// The 8 cells of a unit cube anchored at a base cell. Corner i is located at
// base + {i&1, (i>>1)&1, (i>>2)&1}; this matches the bit order of the Other*
// masks and the trilinear weight order used by Binding.
type CornerSet [8]Coord

// Get the 8 corners of the unit cube anchored at base.
func Corners(base Coord) CornerSet {
	var cs CornerSet
	for i := range cs {
		cs[i] = base.Add(cornerOffset(i))
	}
	return cs
}

func cornerOffset(i int) Coord {
	return Coord{i & 1, (i >> 1) & 1, (i >> 2) & 1}
}

// A cubic lattice of Width^3 mass points stored in z-major order.
type Lattice struct {
	Tag    Tag
	Width  int
	Points []Point
}

// Allocate a lattice whose points are placed at origin + coord * cellSize.
func New(tag Tag, width int, origin types.Vec3, cellSize float32) (*Lattice, error) {
	if width < 2 {
		return nil, errors.Wrapf(ErrInvalidWidth, "%s lattice width %d", tag, width)
	}

	l := &Lattice{
		Tag:    tag,
		Width:  width,
		Points: make([]Point, width*width*width),
	}

	for z := 0; z < width; z++ {
		for y := 0; y < width; y++ {
			for x := 0; x < width; x++ {
				index := l.Index(Coord{x, y, z})
				pos := types.XYZ(float32(x), float32(y), float32(z)).Mul(cellSize).Add(origin).Vec4(1)
				l.Points[index] = Point{
					OldPos:     pos,
					NewPos:     pos,
					LocalIndex: uint32(index),
				}
			}
		}
	}

	return l, nil
}

// Get the flat index for a cell coordinate. The coordinate is not validated.
func (l *Lattice) Index(c Coord) int {
	return c[2]*l.Width*l.Width + c[1]*l.Width + c[0]
}

// Get the cell coordinate for a flat index.
func (l *Lattice) Coord(index int) Coord {
	return Coord{index % l.Width, (index / l.Width) % l.Width, index / (l.Width * l.Width)}
}

// Returns true if c addresses a cell inside the lattice.
func (l *Lattice) InRange(c Coord) bool {
	return inRange(l.Width, c)
}

// Get a pointer to the point at c.
func (l *Lattice) At(c Coord) *Point {
	return &l.Points[l.Index(c)]
}

// Shift every point by d.
func (l *Lattice) Translate(d types.Vec3) {
	offset := d.Vec4(0)
	for i := range l.Points {
		l.Points[i].OldPos = l.Points[i].OldPos.Add(offset)
		l.Points[i].NewPos = l.Points[i].NewPos.Add(offset)
	}
}

// Get the box enclosing the current position of every point.
func (l *Lattice) Bounds() types.AABB {
	bbox := types.EmptyAABB()
	for i := range l.Points {
		bbox = bbox.Extend(l.Points[i].Position())
	}
	return bbox
}

func inRange(width int, c Coord) bool {
	return c[0] >= 0 && c[0] < width &&
		c[1] >= 0 && c[1] < width &&
		c[2] >= 0 && c[2] < width
}

// Layout describes how the two interleaved lattices of a body are placed in
// world space. The primary lattice has N^3 points starting at Origin; the
// secondary lattice has (N+1)^3 points offset by half a cell so that each
// primary point sits at the center of a secondary cell.
type Layout struct {
	N        int
	Origin   types.Vec3
	CellSize float32
}

// Calculate a layout that encloses bounds with an N^3 primary lattice. The
// cell size is the tightest size that fits the largest bounds side, rounded
// up to the next multiple of rounding above the half-rounding point. A
// rounding <= 0 disables rounding.
func NewLayout(bounds types.AABB, n int, rounding float32) (Layout, error) {
	if n < 2 {
		return Layout{}, errors.Wrapf(ErrInvalidWidth, "layout width %d", n)
	}
	if bounds.IsEmpty() {
		return Layout{}, errors.Wrap(ErrEmptyBounds, "layout")
	}

	side := bounds.Max.Ceil().Sub(bounds.Min.Floor()).MaxComponent() + 1
	cellSize := float32(math.Ceil(float64(side / float32(n-1))))
	if rounding > 0 {
		cellSize = float32(math.Ceil(float64((cellSize+rounding/2)/rounding))) * rounding
	}

	return Layout{
		N:        n,
		Origin:   bounds.Min.Floor(),
		CellSize: cellSize,
	}, nil
}

// Allocate the primary and secondary lattices for this layout.
func (lt Layout) NewPair() (primary, secondary *Lattice, err error) {
	primary, err = New(PrimaryTag, lt.N, lt.Origin, lt.CellSize)
	if err != nil {
		return nil, nil, err
	}

	secondary, err = New(SecondaryTag, lt.N+1, lt.Origin.AddScalar(-0.5*lt.CellSize), lt.CellSize)
	if err != nil {
		return nil, nil, err
	}

	return primary, secondary, nil
}
