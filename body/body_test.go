package body

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/achilleasa/go-softbody/asset/mesh"
	"github.com/achilleasa/go-softbody/lattice"
	"github.com/achilleasa/go-softbody/log"
	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

// Create an axis aligned cube mesh with corners at 0 and side.
func cubeMesh(side float32) *mesh.Mesh {
	m := &mesh.Mesh{Name: "cube"}
	for i := 0; i < 8; i++ {
		corner := types.XYZ(float32(i&1), float32((i>>1)&1), float32((i>>2)&1))
		m.Vertices = append(m.Vertices, corner.Mul(side))
		m.Normals = append(m.Normals, corner.Mul(2).AddScalar(-1))
	}
	m.Faces = []mesh.Face{
		{0, 2, 3}, {0, 3, 1},
		{4, 5, 7}, {4, 7, 6},
		{0, 1, 5}, {0, 5, 4},
		{2, 6, 7}, {2, 7, 3},
		{0, 4, 6}, {0, 6, 2},
		{1, 3, 7}, {1, 7, 5},
	}
	return m
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if err := opts.Validate(); err != nil {
		t.Fatal(err)
	}
	if opts.LatticeWidth != 13 {
		t.Fatalf("expected default lattice width 13; got %d", opts.LatticeWidth)
	}
}

func TestInvalidOptions(t *testing.T) {
	specs := []func(o *Options){
		func(o *Options) { o.LatticeWidth = 1 },
		func(o *Options) { o.CollisionMargin = -1 },
		func(o *Options) { o.CellRounding = -100 },
		func(o *Options) { o.Connectivity = 42 },
	}

	for idx, mutate := range specs {
		opts := DefaultOptions()
		mutate(&opts)
		if err := opts.Validate(); errors.Cause(err) != ErrInvalidOptions {
			t.Fatalf("[spec %d] expected to get %v; got %v", idx, ErrInvalidOptions, err)
		}

		if _, err := New(0, cubeMesh(1000), opts); errors.Cause(err) != ErrInvalidOptions {
			t.Fatalf("[spec %d] expected New to fail with %v; got %v", idx, ErrInvalidOptions, err)
		}
	}
}

func TestNewBody(t *testing.T) {
	b, err := New(1, cubeMesh(1000), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// side = 1001; 1001 / 12 -> 84; rounded up to 200
	if b.Layout.CellSize != 200 {
		t.Fatalf("expected cell size 200; got %f", b.Layout.CellSize)
	}
	if b.Primary.Width != 13 || b.Secondary.Width != 14 {
		t.Fatalf("expected lattice widths 13/14; got %d/%d", b.Primary.Width, b.Secondary.Width)
	}

	if len(b.Particles) != 8 || len(b.Bindings) != 8 {
		t.Fatalf("expected 8 particles and bindings; got %d and %d", len(b.Particles), len(b.Bindings))
	}
	for i, p := range b.Particles {
		if l := p.NPos.Vec3().Sub(p.Pos.Vec3()).Len(); l < 0.999 || l > 1.001 {
			t.Fatalf("expected particle %d normal end point at unit distance; got %f", i, l)
		}
	}

	// Vertices map to base cells 0 and 5 along each axis in both lattices
	if exp := (lattice.Coord{5, 0, 5}); b.Bindings[5].Primary != exp {
		t.Fatalf("expected vertex 5 primary base cell %s; got %s", exp, b.Bindings[5].Primary)
	}
	if exp := (lattice.Coord{5, 0, 5}); b.Bindings[5].Secondary != exp {
		t.Fatalf("expected vertex 5 secondary base cell %s; got %s", exp, b.Bindings[5].Secondary)
	}

	// 8 vertices x 8 distinct corner cells in each lattice
	if b.Hierarchy.Points != 128 {
		t.Fatalf("expected 128 boundary points; got %d", b.Hierarchy.Points)
	}
	if len(b.Hierarchy.Nodes) != 127 {
		t.Fatalf("expected 127 bvh nodes; got %d", len(b.Hierarchy.Nodes))
	}
	if err = b.Hierarchy.Verify(); err != nil {
		t.Fatal(err)
	}

	// Primary boundary points span [0, 1200]; secondary ones [-100, 1100]
	var margin float32 = 10
	exp := types.AABB{
		Min: types.XYZ(-100-margin, -100-margin, -100-margin),
		Max: types.XYZ(1200+margin, 1200+margin, 1200+margin),
	}
	if got := b.Hierarchy.Bounds(); got != exp {
		t.Fatalf("expected hierarchy bounds %v; got %v", exp, got)
	}
}

func TestTranslateRebuildsHierarchy(t *testing.T) {
	b, err := New(0, cubeMesh(1000), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	before := append(b.Hierarchy.Nodes[:0:0], b.Hierarchy.Nodes...)
	particle := b.Particles[3]

	d := types.XYZ(100, -200, 300)
	if err = b.Translate(d); err != nil {
		t.Fatal(err)
	}

	if len(b.Hierarchy.Nodes) != len(before) {
		t.Fatalf("expected %d nodes after translation; got %d", len(before), len(b.Hierarchy.Nodes))
	}
	for i, n := range b.Hierarchy.Nodes {
		if exp := before[i].Box.Translate(d); n.Box != exp {
			t.Fatalf("expected node %d box %v; got %v", i, exp, n.Box)
		}
		if n.Left != before[i].Left || n.Right != before[i].Right {
			t.Fatalf("expected node %d to reference the same points after translation", i)
		}
	}

	if exp := particle.Pos.Vec3().Add(d); b.Particles[3].Pos.Vec3() != exp {
		t.Fatalf("expected particle 3 at %v; got %v", exp, b.Particles[3].Pos.Vec3())
	}
	if exp := particle.NPos.Vec3().Add(d); b.Particles[3].NPos.Vec3() != exp {
		t.Fatalf("expected particle 3 normal end point at %v; got %v", exp, b.Particles[3].NPos.Vec3())
	}
	if b.Particles[3].Pos[3] != 1 {
		t.Fatalf("expected particle w component to stay 1; got %f", b.Particles[3].Pos[3])
	}
}

func TestNewRejectsInconsistentMesh(t *testing.T) {
	m := cubeMesh(1000)
	m.Normals = m.Normals[:7]

	_, err := New(3, m, DefaultOptions())
	if !errors.Is(err, mesh.ErrInconsistentImportData) {
		t.Fatalf("expected to get %v; got %v", mesh.ErrInconsistentImportData, err)
	}
	if !strings.Contains(err.Error(), "body 3 (cube): 8 vertices") {
		t.Fatalf("expected error to identify the body; got %v", err)
	}
}

func TestConnectivityPolicyWithoutEnclosedCells(t *testing.T) {
	opts := DefaultOptions()
	opts.Connectivity = lattice.InteriorDetached
	detached, err := New(0, cubeMesh(1000), opts)
	if err != nil {
		t.Fatal(err)
	}
	connected, err := New(0, cubeMesh(1000), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// Only the cube corners seed surface cells so every other cell is
	// reachable from a lattice face.
	if n := connected.Classifier.Primary.Count()[lattice.Unset]; n != 0 {
		t.Fatalf("expected no enclosed primary cells; got %d", n)
	}
	if n := connected.Classifier.Secondary.Count()[lattice.Unset]; n != 0 {
		t.Fatalf("expected no enclosed secondary cells; got %d", n)
	}

	for _, pair := range [][2]*lattice.Lattice{
		{connected.Primary, detached.Primary},
		{connected.Secondary, detached.Secondary},
	} {
		for i := range pair[0].Points {
			p0, p1 := pair[0].Points[i], pair[1].Points[i]
			if p0.SameMask != p1.SameMask || p0.OtherMask != p1.OtherMask {
				t.Fatalf("expected %s point %d masks to match across policies", pair[0].Tag, i)
			}
		}
	}

	// Surface point (1, 1, 1) is connected to its surface neighbour and
	// disconnected from its exterior one.
	mask := connected.Primary.At(lattice.Coord{1, 1, 1}).SameMask
	if mask&lattice.SameLeft == 0 || mask&lattice.SameRight != 0 {
		t.Fatalf("unexpected same mask %#x for primary point (1, 1, 1)", mask)
	}
}

func TestRebuildLogsHierarchySummary(t *testing.T) {
	var buf bytes.Buffer
	log.SetSink(&buf)
	defer log.SetSink(os.Stdout)
	log.SetLevel(log.Debug)
	defer log.SetLevel(log.Notice)

	b, err := New(4, cubeMesh(1000), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// 128 boundary points yield 64 leafs and 63 internal nodes
	exp := "body 4 (cube) hierarchy; leafs: 64, internal: 63, placeholders: 0"
	if !strings.Contains(buf.String(), exp) {
		t.Fatalf("expected debug log to contain %q; got\n%s", exp, buf.String())
	}
	if !strings.Contains(buf.String(), fmt.Sprintf("%v", b.Primary.Bounds())) {
		t.Fatalf("expected debug log to contain the primary lattice bounds; got\n%s", buf.String())
	}

	// Rebuilding at notice level skips the summary
	buf.Reset()
	log.SetLevel(log.Notice)
	if err = b.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "hierarchy;") {
		t.Fatalf("expected no hierarchy summary at notice level; got\n%s", buf.String())
	}
}
