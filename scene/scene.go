package scene

import (
	"time"

	"github.com/achilleasa/go-softbody/body"
	"github.com/achilleasa/go-softbody/collision"
	"github.com/achilleasa/go-softbody/collision/bvh"
	"github.com/achilleasa/go-softbody/log"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Scene collects the bodies that share a set of device buffers.
type Scene struct {
	logger log.Logger
	bodies []*body.Body
}

// Create an empty scene.
func New() *Scene {
	return &Scene{
		logger: log.New("scene"),
	}
}

// Add a body to the scene. Bodies are packed in the order they are added.
func (sc *Scene) Add(b *body.Body) error {
	if b == nil || b.Hierarchy == nil {
		return errors.New("scene: body has no collision hierarchy")
	}
	if lo.ContainsBy(sc.bodies, func(other *body.Body) bool { return other.ID == b.ID }) {
		return errors.Wrapf(ErrDuplicateObject, "body %d (%s)", b.ID, b.Name)
	}

	sc.bodies = append(sc.bodies, b)
	sc.logger.Noticef("added body %d (%s); bvh nodes: %d", b.ID, b.Name, len(b.Hierarchy.Nodes))
	return nil
}

// Get the bodies added to the scene.
func (sc *Scene) Bodies() []*body.Body {
	return sc.bodies
}

// Pack concatenates the data of every body into a set of shared buffers and
// generates a catalogue entry per body that locates its hierarchy.
func (sc *Scene) Pack() (*Packed, error) {
	if len(sc.bodies) == 0 {
		return nil, ErrEmptyScene
	}
	start := time.Now()

	nodeCount := lo.SumBy(sc.bodies, func(b *body.Body) int { return len(b.Hierarchy.Nodes) })
	out := &Packed{
		Objects:   make([]Object, 0, len(sc.bodies)),
		Catalogue: make([]collision.CatalogueEntry, 0, len(sc.bodies)),
		NodeList:  make([]bvh.GPUNode, 0, nodeCount),
	}

	for _, b := range sc.bodies {
		out.Catalogue = append(out.Catalogue, b.Hierarchy.Catalogue(uint32(len(out.NodeList))))
		out.Objects = append(out.Objects, Object{
			ID:              int32(b.ID),
			Name:            b.Name,
			ParticleOffset:  uint32(len(out.Particles)),
			ParticleCount:   uint32(len(b.Particles)),
			PrimaryOffset:   uint32(len(out.PrimaryPoints)),
			SecondaryOffset: uint32(len(out.SecondaryPoints)),
			LatticeWidth:    uint32(b.Primary.Width),
			CellSize:        b.Layout.CellSize,
		})

		out.NodeList = append(out.NodeList, b.Hierarchy.Encode()...)
		out.PrimaryPoints = append(out.PrimaryPoints, b.Primary.Points...)
		out.SecondaryPoints = append(out.SecondaryPoints, b.Secondary.Points...)
		out.Particles = append(out.Particles, b.Particles...)
		out.Bindings = append(out.Bindings, b.Bindings...)
	}

	sc.logger.Debugf(
		"packed %d bodies in %d ms; bvh nodes: %d, lattice points: %d/%d",
		len(sc.bodies), time.Since(start).Nanoseconds()/1e6,
		len(out.NodeList), len(out.PrimaryPoints), len(out.SecondaryPoints),
	)
	return out, nil
}
