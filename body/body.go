package body

import (
	"time"

	"github.com/achilleasa/go-softbody/asset/mesh"
	"github.com/achilleasa/go-softbody/collision"
	"github.com/achilleasa/go-softbody/collision/bvh"
	"github.com/achilleasa/go-softbody/lattice"
	"github.com/achilleasa/go-softbody/log"
	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

// A surface vertex of the body together with the end point of its unit
// normal. Both positions use w = 1.
type Particle struct {
	Pos  types.Vec4
	NPos types.Vec4
}

// Body is a deformable object: an imported surface mesh embedded in two
// interleaved mass point lattices plus the collision hierarchy over the
// lattice points adjacent to the surface.
type Body struct {
	logger log.Logger

	ID      int
	Name    string
	Options Options

	Layout    lattice.Layout
	Primary   *lattice.Lattice
	Secondary *lattice.Lattice

	Particles []Particle
	Bindings  []lattice.Binding

	Classifier *lattice.Classifier
	Hierarchy  *collision.Hierarchy
}

// Build a body from a mesh. Either a fully initialized body is returned or
// an error that identifies the body; there are no partial results.
func New(id int, m *mesh.Mesh, opts Options) (*Body, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrapf(err, "body %d (%s): %d vertices", id, m.Name, len(m.Vertices))
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "body %d (%s): %d vertices", id, m.Name, len(m.Vertices))
	}

	b := &Body{
		logger:  log.New("body"),
		ID:      id,
		Name:    m.Name,
		Options: opts,
	}

	start := time.Now()
	b.initParticles(m)

	var err error
	if b.Layout, err = lattice.NewLayout(m.BBox(), opts.LatticeWidth, opts.CellRounding); err != nil {
		return nil, b.annotate(err)
	}
	if b.Primary, b.Secondary, err = b.Layout.NewPair(); err != nil {
		return nil, b.annotate(err)
	}

	if err = b.initBindings(); err != nil {
		return nil, b.annotate(err)
	}

	cells := make([]lattice.VertexCells, len(b.Bindings))
	for i, binding := range b.Bindings {
		cells[i] = binding.Cells()
	}
	if b.Classifier, err = lattice.Classify(b.Primary, b.Secondary, cells, opts.Connectivity); err != nil {
		return nil, b.annotate(err)
	}

	if err = b.Rebuild(); err != nil {
		return nil, err
	}

	b.logger.Infof(
		"built body %d (%s) in %d ms; cell size: %.0f, lattice points: %d/%d, boundary points: %d, bvh nodes: %d",
		b.ID, b.Name, time.Since(start).Nanoseconds()/1e6, b.Layout.CellSize,
		len(b.Primary.Points), len(b.Secondary.Points), b.Hierarchy.Points, len(b.Hierarchy.Nodes),
	)
	return b, nil
}

func (b *Body) annotate(err error) error {
	return errors.Wrapf(err, "body %d (%s): %d vertices", b.ID, b.Name, len(b.Particles))
}

// Store each vertex and the end point of its unit normal. Zero length
// normals collapse onto the vertex.
func (b *Body) initParticles(m *mesh.Mesh) {
	b.Particles = make([]Particle, len(m.Vertices))
	for i, v := range m.Vertices {
		b.Particles[i] = Particle{
			Pos:  v.Vec4(1),
			NPos: v.Add(m.Normals[i].Normalize()).Vec4(1),
		}
	}
}

func (b *Body) initBindings() error {
	b.Bindings = make([]lattice.Binding, len(b.Particles))
	for i, p := range b.Particles {
		binding, err := lattice.Bind(b.Primary, b.Secondary, b.Layout.CellSize, p.Pos.Vec3(), p.NPos.Vec3())
		if err != nil {
			return errors.Wrapf(err, "vertex %d", i)
		}
		b.Bindings[i] = binding
	}
	return nil
}

// Collect the current boundary points of both lattices.
func (b *Body) Candidates() []lattice.Candidate {
	return b.Classifier.Candidates(b.Primary, b.Secondary)
}

// Rebuild the collision hierarchy from the current lattice point positions.
// The hierarchy is always rebuilt from scratch and verified before it
// replaces the current one.
func (b *Body) Rebuild() error {
	cands := b.Candidates()
	h, err := collision.NewHierarchy(cands, b.Options.CollisionMargin)
	if err == nil {
		err = h.Verify()
	}
	if err != nil {
		return errors.Wrapf(err, "body %d (%s): %d boundary points", b.ID, b.Name, len(cands))
	}
	b.Hierarchy = h

	if log.Enabled(log.Debug) {
		counts := h.Count()
		b.logger.Debugf(
			"body %d (%s) hierarchy; leafs: %d, internal: %d, placeholders: %d, primary lattice: %v, secondary lattice: %v",
			b.ID, b.Name, counts[bvh.Leaf], counts[bvh.Internal], counts[bvh.Empty],
			b.Primary.Bounds(), b.Secondary.Bounds(),
		)
	}
	return nil
}

// Translate moves the body by d and rebuilds its collision hierarchy. The
// cell classification does not depend on absolute positions and is kept.
func (b *Body) Translate(d types.Vec3) error {
	offset := d.Vec4(0)
	for i := range b.Particles {
		b.Particles[i].Pos = b.Particles[i].Pos.Add(offset)
		b.Particles[i].NPos = b.Particles[i].NPos.Add(offset)
	}
	b.Primary.Translate(d)
	b.Secondary.Translate(d)
	b.Layout.Origin = b.Layout.Origin.Add(d)

	b.logger.Debugf("translated body %d (%s) by %v", b.ID, b.Name, d)
	return b.Rebuild()
}
