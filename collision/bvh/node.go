package bvh

import (
	"github.com/achilleasa/go-softbody/lattice"
	"github.com/achilleasa/go-softbody/types"
)

// The kind of a packed BVH node.
type NodeKind uint8

const (
	// A placeholder for a subtree that only covers padding entries. Its box
	// is empty and it never references a lattice point.
	Empty NodeKind = iota

	// A node covering one or two lattice points.
	Leaf

	// A node whose box is the union of its two child boxes. Children are
	// not referenced explicitly; see Children.
	Internal
)

func (k NodeKind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Internal:
		return "internal"
	}
	return "empty"
}

// A reference to a point in one of the two body lattices.
type PointRef struct {
	LocalIndex uint32
	Tag        lattice.Tag
}

// A leaf slot. Slots of non-leaf nodes are never present.
type Slot struct {
	Point   PointRef
	Present bool
}

// A node in a packed BVH.
type Node struct {
	Kind  NodeKind
	Left  Slot
	Right Slot
	Box   types.AABB
}

// Create a placeholder node.
func emptyNode() Node {
	return Node{Kind: Empty, Box: types.EmptyAABB()}
}

// Get the indices of the two children of the node at index i. The packing
// produced by Build stores complete trees whose per-level interleave
// matches level order, so the usual implicit heap addressing applies.
func Children(i int) (left, right int) {
	return 2*i + 1, 2*i + 2
}

// Returns true if the node at index i has no children in a packed array of
// n nodes.
func IsLastLevel(i, n int) bool {
	l, _ := Children(i)
	return l >= n
}

// The flat node layout consumed by the GPU traversal code. Absent leaf slots
// are encoded as id = type = -1. Internal nodes carry id = -1 and use the
// type fields to flag whether each child subtree is live (0) or covers only
// padding (-1).
type GPUNode struct {
	LeftID    int32
	LeftType  int32
	RightID   int32
	RightType int32

	MinX, MaxX float32
	MinY, MaxY float32
	MinZ, MaxZ float32
}

// Encode a packed node array into its flat GPU representation.
func Encode(nodes []Node) []GPUNode {
	out := make([]GPUNode, len(nodes))
	for i, n := range nodes {
		g := GPUNode{
			LeftID:    -1,
			LeftType:  -1,
			RightID:   -1,
			RightType: -1,
			MinX:      n.Box.Min[0],
			MaxX:      n.Box.Max[0],
			MinY:      n.Box.Min[1],
			MaxY:      n.Box.Max[1],
			MinZ:      n.Box.Min[2],
			MaxZ:      n.Box.Max[2],
		}

		switch n.Kind {
		case Leaf:
			g.LeftID, g.LeftType = encodeSlot(n.Left)
			g.RightID, g.RightType = encodeSlot(n.Right)
		case Internal:
			l, r := Children(i)
			g.LeftType = liveFlag(nodes, l)
			g.RightType = liveFlag(nodes, r)
		}
		out[i] = g
	}
	return out
}

func encodeSlot(s Slot) (id, typ int32) {
	if !s.Present {
		return -1, -1
	}
	return int32(s.Point.LocalIndex), int32(s.Point.Tag)
}

func liveFlag(nodes []Node, i int) int32 {
	if i >= len(nodes) || nodes[i].Kind == Empty {
		return -1
	}
	return 0
}
