package lattice

import (
	"math"

	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

// Binding ties a surface vertex to the lattice cells that drive it. The
// vertex position is reconstructed from the 8 corners of its base cell in
// each lattice using trilinear weights; the weights of the vertex normal end
// point are tracked separately so that normals deform with the body.
type Binding struct {
	Primary   Coord
	Secondary Coord

	// Weights for the vertex position.
	W1 [8]float32
	W2 [8]float32

	// Weights for the normal end point.
	NW1 [8]float32
	NW2 [8]float32
}

// Get the 8 corner cells of each lattice for this binding.
func (b Binding) Cells() VertexCells {
	return VertexCells{
		Primary:   Corners(b.Primary),
		Secondary: Corners(b.Secondary),
	}
}

// Bind a vertex and its normal end point to both lattices. The base cell in
// each lattice is the cell whose unit cube contains the vertex; an error is
// returned if that cube is not fully inside the lattice.
func Bind(primary, secondary *Lattice, cellSize float32, vertex, normalEnd types.Vec3) (Binding, error) {
	var (
		b   Binding
		err error
	)

	if b.Primary, err = baseCell(primary, cellSize, vertex); err != nil {
		return b, err
	}
	if b.Secondary, err = baseCell(secondary, cellSize, vertex); err != nil {
		return b, err
	}

	origin1 := primary.At(b.Primary).Position()
	origin2 := secondary.At(b.Secondary).Position()
	b.W1 = trilinearWeights(vertex, origin1, cellSize)
	b.NW1 = trilinearWeights(normalEnd, origin1, cellSize)
	b.W2 = trilinearWeights(vertex, origin2, cellSize)
	b.NW2 = trilinearWeights(normalEnd, origin2, cellSize)

	return b, nil
}

// Locate the base cell containing p relative to the first lattice point.
func baseCell(l *Lattice, cellSize float32, p types.Vec3) (Coord, error) {
	rel := p.Sub(l.Points[0].Position())

	var c Coord
	for axis := 0; axis < 3; axis++ {
		c[axis] = int(math.Floor(float64(rel[axis] / cellSize)))
	}

	// The far corner of the unit cube must also be inside the lattice.
	if !l.InRange(c) || !l.InRange(c.Add(Coord{1, 1, 1})) {
		return c, errors.Wrapf(ErrIndexOutOfRange, "%s lattice: vertex %v maps to base cell %s (width %d)", l.Tag, p, c, l.Width)
	}

	return c, nil
}

// Calculate trilinear weights of p inside the cube [origin, origin + cellSize].
func trilinearWeights(p, origin types.Vec3, cellSize float32) [8]float32 {
	rel := p.Sub(origin)
	t := types.XYZ(rel[0]/cellSize, rel[1]/cellSize, rel[2]/cellSize)

	var w [8]float32
	for corner := range w {
		off := cornerOffset(corner)
		weight := float32(1.0)
		for axis := 0; axis < 3; axis++ {
			if off[axis] == 1 {
				weight *= t[axis]
			} else {
				weight *= 1 - t[axis]
			}
		}
		w[corner] = weight
	}
	return w
}
