package lattice

import (
	"time"

	"github.com/achilleasa/go-softbody/log"
	"github.com/pkg/errors"
)

// Connectivity selects how enclosed (Unset) cells contribute to the
// neighbour masks. Exterior cells and out-of-range neighbours never do.
type Connectivity uint8

const (
	// Enclosed cells are part of the body volume and stay connected.
	InteriorConnected Connectivity = iota

	// Only surface cells are connected; enclosed cells are treated like
	// exterior ones.
	InteriorDetached
)

func (c Connectivity) String() string {
	if c == InteriorDetached {
		return "detached"
	}
	return "connected"
}

// The cells that a single surface vertex maps onto in each lattice.
type VertexCells struct {
	Primary   CornerSet
	Secondary CornerSet
}

var sameNeighbours = [6]struct {
	mask   uint32
	offset Coord
}{
	{SameLeft, Coord{-1, 0, 0}},
	{SameRight, Coord{1, 0, 0}},
	{SameDown, Coord{0, -1, 0}},
	{SameUp, Coord{0, 1, 0}},
	{SameFront, Coord{0, 0, -1}},
	{SameBack, Coord{0, 0, 1}},
}

// The Other* mask bit for corner i of a CornerSet.
func otherMask(corner int) uint32 {
	return OtherNearBotLeft >> uint(corner)
}

// Classifier labels the cells of both lattices of a body as surface,
// exterior or interior and derives the per-point neighbour masks.
type Classifier struct {
	logger log.Logger

	Primary   *Grid
	Secondary *Grid
}

// Create a classifier for a body whose primary lattice has n^3 points.
func NewClassifier(n int) (*Classifier, error) {
	if n < 2 {
		return nil, errors.Wrapf(ErrInvalidWidth, "classifier width %d", n)
	}

	return &Classifier{
		logger:    log.New("classifier"),
		Primary:   NewGrid(n),
		Secondary: NewGrid(n + 1),
	}, nil
}

// Run the complete classification pipeline: seed surface cells, sweep
// exterior cells and update the neighbour masks of both lattices.
func Classify(primary, secondary *Lattice, vertices []VertexCells, policy Connectivity) (*Classifier, error) {
	if secondary.Width != primary.Width+1 {
		return nil, errors.Wrapf(ErrWidthMismatch, "primary width %d, secondary width %d", primary.Width, secondary.Width)
	}

	c, err := NewClassifier(primary.Width)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err = c.Seed(vertices); err != nil {
		return nil, err
	}
	c.Sweep()
	if err = c.ApplyMasks(primary, secondary, policy); err != nil {
		return nil, err
	}

	pc, sc := c.Primary.Count(), c.Secondary.Count()
	c.logger.Debugf(
		"classified lattices in %d ms; primary surface/exterior/interior: %d/%d/%d, secondary: %d/%d/%d",
		time.Since(start).Nanoseconds()/1e6,
		pc[Surface], pc[Exterior], pc[Unset],
		sc[Surface], sc[Exterior], sc[Unset],
	)

	return c, nil
}

// Mark the corner cells of every vertex as Surface. All corners of a vertex
// are validated before any of them is marked.
func (c *Classifier) Seed(vertices []VertexCells) error {
	for vIndex, vc := range vertices {
		for corner := 0; corner < 8; corner++ {
			if !c.Primary.InRange(vc.Primary[corner]) {
				return errors.Wrapf(ErrIndexOutOfRange, "vertex %d: primary corner %d at %s (width %d)", vIndex, corner, vc.Primary[corner], c.Primary.Width)
			}
			if !c.Secondary.InRange(vc.Secondary[corner]) {
				return errors.Wrapf(ErrIndexOutOfRange, "vertex %d: secondary corner %d at %s (width %d)", vIndex, corner, vc.Secondary[corner], c.Secondary.Width)
			}
		}

		for corner := 0; corner < 8; corner++ {
			c.Primary.Set(vc.Primary[corner], Surface)
			c.Secondary.Set(vc.Secondary[corner], Surface)
		}
	}

	return nil
}

// Sweep both grids from all six faces.
func (c *Classifier) Sweep() {
	sweep(c.Primary)
	sweep(c.Secondary)
}

// For every line parallel to each axis, march inwards from both ends marking
// cells Exterior until the first Surface cell is met. Cells beyond that
// Surface cell are left untouched by that direction.
func sweep(g *Grid) {
	last := g.Width - 1
	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3
		for a := 0; a < g.Width; a++ {
			for b := 0; b < g.Width; b++ {
				var from Coord
				from[u], from[v] = a, b

				for _, step := range [2]int{1, -1} {
					from[axis] = 0
					if step < 0 {
						from[axis] = last
					}

					g.walk(from, axis, step, func(cell Coord) bool {
						if g.At(cell) == Surface {
							return false
						}
						g.Set(cell, Exterior)
						return true
					})
				}
			}
		}
	}
}

// Returns true if the cell at cell is in range and counts as connected
// under policy.
func connected(g *Grid, cell Coord, policy Connectivity) bool {
	if !g.InRange(cell) {
		return false
	}

	switch g.At(cell) {
	case Surface:
		return true
	case Unset:
		return policy == InteriorConnected
	}
	return false
}

// Update the SameMask and OtherMask of every point in both lattices.
func (c *Classifier) ApplyMasks(primary, secondary *Lattice, policy Connectivity) error {
	if primary.Width != c.Primary.Width || secondary.Width != c.Secondary.Width {
		return errors.Wrapf(ErrWidthMismatch, "classifier widths %d/%d, lattice widths %d/%d", c.Primary.Width, c.Secondary.Width, primary.Width, secondary.Width)
	}

	applyMasks(primary, c.Primary, c.Secondary, Coord{0, 0, 0}, policy)
	applyMasks(secondary, c.Secondary, c.Primary, Coord{-1, -1, -1}, policy)
	return nil
}

// The corners of the other lattice surrounding the point at cell are
// located at cell + otherBase + cornerOffset(i).
func applyMasks(l *Lattice, same, other *Grid, otherBase Coord, policy Connectivity) {
	for index := range l.Points {
		cell := l.Coord(index)

		var sameMask uint32
		for _, nb := range sameNeighbours {
			if connected(same, cell.Add(nb.offset), policy) {
				sameMask |= nb.mask
			}
		}

		var otherMaskBits uint32
		for corner, oc := range Corners(cell.Add(otherBase)) {
			if connected(other, oc, policy) {
				otherMaskBits |= otherMask(corner)
			}
		}

		l.Points[index].SameMask = sameMask
		l.Points[index].OtherMask = otherMaskBits
	}
}

// Collect the Surface points of both lattices as collision candidates. The
// primary lattice is scanned first; each lattice is scanned in z-major
// order. Point data is snapshotted from the lattices' current state.
func (c *Classifier) Candidates(primary, secondary *Lattice) []Candidate {
	out := make([]Candidate, 0, c.Primary.Count()[Surface]+c.Secondary.Count()[Surface])
	out = appendCandidates(out, primary, c.Primary)
	out = appendCandidates(out, secondary, c.Secondary)
	return out
}

func appendCandidates(out []Candidate, l *Lattice, g *Grid) []Candidate {
	for index := range l.Points {
		if g.At(l.Coord(index)) != Surface {
			continue
		}
		out = append(out, Candidate{
			LocalIndex: uint32(index),
			Tag:        l.Tag,
			Point:      l.Points[index],
		})
	}
	return out
}
