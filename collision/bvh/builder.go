package bvh

import (
	"sort"
	"time"

	"github.com/achilleasa/go-softbody/lattice"
	"github.com/achilleasa/go-softbody/log"
	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

type stats struct {
	points   int
	padded   int
	leafs    int
	internal int
	empty    int
	maxDepth int
}

type builder struct {
	logger log.Logger

	// Every leaf box is expanded by this amount along each axis.
	margin float32

	// Stats
	stats stats
}

// Get the number of entries that a set of n candidates is padded to before
// partitioning: the smallest power of two >= n. Each leaf holds two entries
// so the result is never less than 2.
func PaddedLen(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}

// Construct a packed BVH over a set of boundary candidates.
//
// The candidate list is padded with sentinels to PaddedLen(len(cands))
// entries and then recursively split in half after sorting the real points
// along an axis that cycles x -> y -> z with depth. Each pair of entries
// forms a leaf whose box is expanded by margin. The returned array always
// contains PaddedLen(len(cands)) - 1 nodes; subtrees that only cover
// padding are filled with Empty placeholder nodes.
//
// The input slice is not modified.
func Build(cands []lattice.Candidate, margin float32) ([]Node, error) {
	if len(cands) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "no boundary points")
	}
	if margin < 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "negative collision margin %f", margin)
	}
	for idx, c := range cands {
		if !c.Valid() {
			return nil, errors.Wrapf(ErrInvalidInput, "candidate %d does not reference a lattice point", idx)
		}
	}

	work := pad(cands)
	b := &builder{
		logger: log.New("bvh builder"),
		margin: margin,
		stats: stats{
			points: len(cands),
			padded: len(work),
		},
	}

	start := time.Now()
	nodes := b.build(work, types.XAxis, 0)
	b.logger.Debugf(
		"BVH build time: %d ms, points: %d (padded to %d), maxDepth: %d, nodes: %d, internal: %d, leafs: %d, empty: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.points, b.stats.padded, b.stats.maxDepth,
		len(nodes), b.stats.internal, b.stats.leafs, b.stats.empty,
	)

	return nodes, nil
}

// Copy cands and append sentinels until the list length is a power of two.
func pad(cands []lattice.Candidate) []lattice.Candidate {
	out := make([]lattice.Candidate, PaddedLen(len(cands)))
	copy(out, cands)
	for i := len(cands); i < len(out); i++ {
		out[i] = lattice.Sentinel()
	}
	return out
}

// Partition a power-of-two sized work list. Sentinels are always located at
// the tail of the list; only the real prefix is sorted so they stay there.
func (b *builder) build(work []lattice.Candidate, axis types.Axis, depth int) []Node {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	if len(work) == 2 {
		return []Node{b.createLeaf(work[0], work[1])}
	}

	valid := 0
	for valid < len(work) && work[valid].Valid() {
		valid++
	}

	prefix := work[:valid]
	sort.Slice(prefix, func(i, j int) bool {
		return less(&prefix[i].Point, &prefix[j].Point, axis)
	})

	div := (len(work) + 1) / 2
	left := b.build(work[:div], axis.Next(), depth+1)
	right := b.build(work[div:], axis.Next(), depth+1)

	parent := emptyNode()
	if left[0].Kind != Empty || right[0].Kind != Empty {
		parent.Kind = Internal
		parent.Box = left[0].Box.Union(right[0].Box)
		b.stats.internal++
	} else {
		b.stats.empty++
	}

	merged := Merge(left, right)
	out := make([]Node, 0, len(merged)+1)
	out = append(out, parent)
	return append(out, merged...)
}

// Compare two points by their coordinate along axis. Ties are broken using
// the remaining axes in x -> y -> z cycle order so the resulting partition
// does not depend on the sort algorithm.
func less(p0, p1 *lattice.Point, axis types.Axis) bool {
	v0, v1 := p0.Position(), p1.Position()
	for i := 0; i < 3; i, axis = i+1, axis.Next() {
		if v0.Axis(axis) != v1.Axis(axis) {
			return v0.Axis(axis) < v1.Axis(axis)
		}
	}
	return false
}

// Create a leaf for a pair of entries. Sentinels become absent slots; a pair
// of sentinels yields an Empty placeholder.
func (b *builder) createLeaf(c0, c1 lattice.Candidate) Node {
	if !c0.Valid() && !c1.Valid() {
		b.stats.empty++
		return emptyNode()
	}

	node := Node{Kind: Leaf, Box: types.EmptyAABB()}
	if c0.Valid() {
		node.Left = Slot{Point: PointRef{LocalIndex: c0.LocalIndex, Tag: c0.Tag}, Present: true}
		node.Box = node.Box.Extend(c0.Point.Position())
	}
	if c1.Valid() {
		node.Right = Slot{Point: PointRef{LocalIndex: c1.LocalIndex, Tag: c1.Tag}, Present: true}
		node.Box = node.Box.Extend(c1.Point.Position())
	}
	node.Box = node.Box.Expand(b.margin)

	b.stats.leafs++
	return node
}
