package collision

import (
	"github.com/achilleasa/go-softbody/collision/bvh"
	"github.com/achilleasa/go-softbody/lattice"
	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

// Hierarchy is the packed collision BVH of a single body.
type Hierarchy struct {
	// Nodes in packed (level) order. The root is Nodes[0].
	Nodes []bvh.Node

	// The number of boundary points covered by the hierarchy.
	Points int
}

// Describes where the hierarchy of a body is stored inside the shared node
// buffer of a scene.
type CatalogueEntry struct {
	ArrayOffset uint32
	NodeCount   uint32

	MinX, MaxX float32
	MinY, MaxY float32
	MinZ, MaxZ float32
}

// Box returns the bounding box stored in the catalogue entry.
func (e CatalogueEntry) Box() types.AABB {
	return types.AABB{
		Min: types.XYZ(e.MinX, e.MinY, e.MinZ),
		Max: types.XYZ(e.MaxX, e.MaxY, e.MaxZ),
	}
}

// Build a hierarchy over a set of boundary candidates. Either a complete
// hierarchy is returned or an error; there are no partial results.
func NewHierarchy(cands []lattice.Candidate, margin float32) (*Hierarchy, error) {
	nodes, err := bvh.Build(cands, margin)
	if err != nil {
		return nil, err
	}

	return &Hierarchy{
		Nodes:  nodes,
		Points: len(cands),
	}, nil
}

// Get the box enclosing the whole hierarchy.
func (h *Hierarchy) Bounds() types.AABB {
	if len(h.Nodes) == 0 {
		return types.EmptyAABB()
	}
	return h.Nodes[0].Box
}

// Create a catalogue entry for this hierarchy assuming that its nodes are
// stored at offset inside the shared node buffer.
func (h *Hierarchy) Catalogue(offset uint32) CatalogueEntry {
	box := h.Bounds()
	return CatalogueEntry{
		ArrayOffset: offset,
		NodeCount:   uint32(len(h.Nodes)),
		MinX:        box.Min[0],
		MaxX:        box.Max[0],
		MinY:        box.Min[1],
		MaxY:        box.Max[1],
		MinZ:        box.Min[2],
		MaxZ:        box.Max[2],
	}
}

// Encode the hierarchy nodes into their flat GPU representation.
func (h *Hierarchy) Encode() []bvh.GPUNode {
	return bvh.Encode(h.Nodes)
}

// Count the number of nodes of each kind.
func (h *Hierarchy) Count() map[bvh.NodeKind]int {
	out := make(map[bvh.NodeKind]int, 3)
	for _, n := range h.Nodes {
		out[n.Kind]++
	}
	return out
}

// Verify checks the structural properties of the hierarchy: the node count
// matches the padded point count, leafs only appear on the last level,
// internal boxes are the exact union of their children and every point is
// referenced exactly once.
func (h *Hierarchy) Verify() error {
	if exp := bvh.PaddedLen(h.Points) - 1; len(h.Nodes) != exp {
		return errors.Wrapf(ErrCorruptHierarchy, "expected %d nodes for %d points; got %d", exp, h.Points, len(h.Nodes))
	}

	refs := make(map[bvh.PointRef]struct{}, h.Points)
	for i, n := range h.Nodes {
		last := bvh.IsLastLevel(i, len(h.Nodes))
		switch n.Kind {
		case bvh.Leaf:
			if !last {
				return errors.Wrapf(ErrCorruptHierarchy, "leaf node %d is not on the last level", i)
			}
			if !n.Left.Present && !n.Right.Present {
				return errors.Wrapf(ErrCorruptHierarchy, "leaf node %d does not reference any point", i)
			}
			for _, s := range []bvh.Slot{n.Left, n.Right} {
				if !s.Present {
					continue
				}
				if s.Point.Tag != lattice.PrimaryTag && s.Point.Tag != lattice.SecondaryTag {
					return errors.Wrapf(ErrCorruptHierarchy, "leaf node %d references point %d with tag %s", i, s.Point.LocalIndex, s.Point.Tag)
				}
				if _, dup := refs[s.Point]; dup {
					return errors.Wrapf(ErrCorruptHierarchy, "%s point %d is referenced more than once", s.Point.Tag, s.Point.LocalIndex)
				}
				refs[s.Point] = struct{}{}
			}
		case bvh.Internal:
			if last {
				return errors.Wrapf(ErrCorruptHierarchy, "internal node %d has no children", i)
			}
			l, r := bvh.Children(i)
			if exp := h.Nodes[l].Box.Union(h.Nodes[r].Box); n.Box != exp {
				return errors.Wrapf(ErrCorruptHierarchy, "internal node %d box %v does not match the union of its children %v", i, n.Box, exp)
			}
		case bvh.Empty:
			if n.Left.Present || n.Right.Present || !n.Box.IsEmpty() {
				return errors.Wrapf(ErrCorruptHierarchy, "placeholder node %d carries data", i)
			}
		}
	}

	if len(refs) != h.Points {
		return errors.Wrapf(ErrCorruptHierarchy, "expected %d referenced points; got %d", h.Points, len(refs))
	}
	return nil
}
