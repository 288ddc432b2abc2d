package lattice

import "github.com/achilleasa/go-softbody/types"

// Tag identifies which of the two interleaved lattices a point belongs to.
// The zero value is reserved for padding entries that do not reference any
// lattice point.
type Tag int32

const (
	InvalidTag Tag = iota
	PrimaryTag
	SecondaryTag
)

func (t Tag) String() string {
	switch t {
	case PrimaryTag:
		return "primary"
	case SecondaryTag:
		return "secondary"
	}
	return "invalid"
}

// Neighbour masks for points in the same lattice.
const (
	SameLeft  uint32 = 0x20
	SameRight uint32 = 0x10
	SameDown  uint32 = 0x08
	SameUp    uint32 = 0x04
	SameFront uint32 = 0x02
	SameBack  uint32 = 0x01
)

// Neighbour masks for the 8 corner points in the other lattice. Near refers
// to the lower end of the Z axis.
const (
	OtherNearBotLeft  uint32 = 0x80
	OtherNearBotRight uint32 = 0x40
	OtherNearTopLeft  uint32 = 0x20
	OtherNearTopRight uint32 = 0x10
	OtherFarBotLeft   uint32 = 0x08
	OtherFarBotRight  uint32 = 0x04
	OtherFarTopLeft   uint32 = 0x02
	OtherFarTopRight  uint32 = 0x01
)

// A simulated mass point. The layout mirrors the structure consumed by the
// spring integration kernels so positions are padded to Vec4.
type Point struct {
	// Position during the previous and current simulation step.
	OldPos types.Vec4
	NewPos types.Vec4

	Acc types.Vec4

	// Connectivity masks (see the Same* and Other* constants).
	SameMask  uint32
	OtherMask uint32

	// Index of this point inside its lattice.
	LocalIndex uint32
}

// Position returns the current point position.
func (p *Point) Position() types.Vec3 {
	return p.NewPos.Vec3()
}

// A point that may take part in collisions, together with the lattice it
// was taken from. Candidates with InvalidTag are padding entries.
type Candidate struct {
	LocalIndex uint32
	Tag        Tag
	Point      Point
}

// Create a padding candidate.
func Sentinel() Candidate {
	return Candidate{Tag: InvalidTag}
}

// Returns true if this candidate references a real lattice point.
func (c Candidate) Valid() bool {
	return c.Tag != InvalidTag
}
