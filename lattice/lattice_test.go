package lattice

import (
	"testing"

	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

func TestIndexCoordRoundTrip(t *testing.T) {
	l, err := New(PrimaryTag, 5, types.Vec3{}, 1)
	if err != nil {
		t.Fatal(err)
	}

	for index := range l.Points {
		c := l.Coord(index)
		if got := l.Index(c); got != index {
			t.Fatalf("expected coord %s to map back to index %d; got %d", c, index, got)
		}
		if !l.InRange(c) {
			t.Fatalf("expected coord %s to be in range", c)
		}
		if l.Points[index].LocalIndex != uint32(index) {
			t.Fatalf("expected point %d to have local index %d; got %d", index, index, l.Points[index].LocalIndex)
		}
	}

	// z-major order: x varies fastest
	if got := l.Index(Coord{1, 2, 3}); got != 3*25+2*5+1 {
		t.Fatalf("expected index of (1, 2, 3) to be %d; got %d", 3*25+2*5+1, got)
	}
}

func TestNewRejectsTinyLattices(t *testing.T) {
	_, err := New(PrimaryTag, 1, types.Vec3{}, 1)
	if errors.Cause(err) != ErrInvalidWidth {
		t.Fatalf("expected to get %v; got %v", ErrInvalidWidth, err)
	}
}

func TestLayout(t *testing.T) {
	type spec struct {
		bounds      types.AABB
		n           int
		rounding    float32
		expCellSize float32
		expOrigin   types.Vec3
	}

	bounds := types.AABB{Min: types.XYZ(0.5, -3.2, 0), Max: types.XYZ(250, 100, 50)}
	specs := []spec{
		// side = 250 - 0 + 1 = 251; 251 / 12 -> 21; rounded up to 100
		{bounds, 13, 100, 100, types.XYZ(0, -4, 0)},
		// 251 / 2 -> 126; (126 + 50) / 100 -> 2
		{bounds, 3, 100, 200, types.XYZ(0, -4, 0)},
		{bounds, 3, 0, 126, types.XYZ(0, -4, 0)},
	}

	for idx, s := range specs {
		lt, err := NewLayout(s.bounds, s.n, s.rounding)
		if err != nil {
			t.Fatalf("[spec %d] %v", idx, err)
		}
		if lt.CellSize != s.expCellSize {
			t.Fatalf("[spec %d] expected cell size %f; got %f", idx, s.expCellSize, lt.CellSize)
		}
		if lt.Origin != s.expOrigin {
			t.Fatalf("[spec %d] expected origin %v; got %v", idx, s.expOrigin, lt.Origin)
		}
	}

	if _, err := NewLayout(types.EmptyAABB(), 13, 100); errors.Cause(err) != ErrEmptyBounds {
		t.Fatalf("expected to get %v; got %v", ErrEmptyBounds, err)
	}
}

func TestLayoutPair(t *testing.T) {
	lt := Layout{N: 3, Origin: types.XYZ(10, 20, 30), CellSize: 100}
	primary, secondary, err := lt.NewPair()
	if err != nil {
		t.Fatal(err)
	}

	if primary.Width != 3 || len(primary.Points) != 27 {
		t.Fatalf("expected a 3^3 primary lattice; got width %d with %d points", primary.Width, len(primary.Points))
	}
	if secondary.Width != 4 || len(secondary.Points) != 64 {
		t.Fatalf("expected a 4^3 secondary lattice; got width %d with %d points", secondary.Width, len(secondary.Points))
	}
	if primary.Tag != PrimaryTag || secondary.Tag != SecondaryTag {
		t.Fatalf("expected lattice tags primary/secondary; got %s/%s", primary.Tag, secondary.Tag)
	}

	exp := types.XYZ(110, 220, 30)
	if got := primary.At(Coord{1, 2, 0}).Position(); got != exp {
		t.Fatalf("expected primary point (1, 2, 0) at %v; got %v", exp, got)
	}

	// Secondary lattice is offset by half a cell
	exp = types.XYZ(60, 170, -20)
	if got := secondary.At(Coord{1, 2, 0}).Position(); got != exp {
		t.Fatalf("expected secondary point (1, 2, 0) at %v; got %v", exp, got)
	}
}

func TestLatticeTranslate(t *testing.T) {
	l, err := New(SecondaryTag, 2, types.Vec3{}, 10)
	if err != nil {
		t.Fatal(err)
	}

	d := types.XYZ(1000, -5, 2)
	before := l.Bounds()
	l.Translate(d)
	after := l.Bounds()

	if exp := before.Translate(d); after != exp {
		t.Fatalf("expected translated bounds %v; got %v", exp, after)
	}
	for i, p := range l.Points {
		if p.OldPos != p.NewPos {
			t.Fatalf("expected point %d old and new position to move together; got %v and %v", i, p.OldPos, p.NewPos)
		}
		if p.NewPos[3] != 1 {
			t.Fatalf("expected point %d w component to stay 1; got %f", i, p.NewPos[3])
		}
	}
}

func TestCorners(t *testing.T) {
	cs := Corners(Coord{2, 3, 4})
	exp := CornerSet{
		{2, 3, 4}, {3, 3, 4}, {2, 4, 4}, {3, 4, 4},
		{2, 3, 5}, {3, 3, 5}, {2, 4, 5}, {3, 4, 5},
	}
	if cs != exp {
		t.Fatalf("expected corners %v; got %v", exp, cs)
	}
}
