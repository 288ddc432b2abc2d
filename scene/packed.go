package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/achilleasa/go-softbody/body"
	"github.com/achilleasa/go-softbody/collision"
	"github.com/achilleasa/go-softbody/collision/bvh"
	"github.com/achilleasa/go-softbody/lattice"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// Object locates the data of a single body inside the shared buffers.
type Object struct {
	ID   int32
	Name string

	ParticleOffset uint32
	ParticleCount  uint32

	// Offsets to the first point of each lattice. The primary lattice holds
	// LatticeWidth^3 points and the secondary (LatticeWidth+1)^3.
	PrimaryOffset   uint32
	SecondaryOffset uint32
	LatticeWidth    uint32

	CellSize float32
}

// Packed is the device friendly representation of a scene. Bvh leaf slots
// reference points by their index inside the lattice of their own object;
// consumers add the object's lattice offset to locate them.
type Packed struct {
	Objects   []Object
	Catalogue []collision.CatalogueEntry
	NodeList  []bvh.GPUNode

	PrimaryPoints   []lattice.Point
	SecondaryPoints []lattice.Point

	// Particles and bindings are stored per surface vertex.
	Particles []body.Particle
	Bindings  []lattice.Binding
}

// Validate checks that the catalogue and object tables tile the shared
// buffers without gaps or overlaps.
func (p *Packed) Validate() error {
	if len(p.Objects) != len(p.Catalogue) {
		return errors.Wrapf(ErrCorruptScene, "%d objects but %d catalogue entries", len(p.Objects), len(p.Catalogue))
	}

	var nodes, particles, primary, secondary uint32
	for i, entry := range p.Catalogue {
		obj := p.Objects[i]
		if entry.ArrayOffset != nodes {
			return errors.Wrapf(ErrCorruptScene, "object %d: expected bvh offset %d; got %d", obj.ID, nodes, entry.ArrayOffset)
		}
		if obj.ParticleOffset != particles || obj.PrimaryOffset != primary || obj.SecondaryOffset != secondary {
			return errors.Wrapf(ErrCorruptScene, "object %d: unexpected particle or lattice offsets", obj.ID)
		}

		w := obj.LatticeWidth
		nodes += entry.NodeCount
		particles += obj.ParticleCount
		primary += w * w * w
		secondary += (w + 1) * (w + 1) * (w + 1)
	}

	switch {
	case int(nodes) != len(p.NodeList):
		return errors.Wrapf(ErrCorruptScene, "catalogue covers %d bvh nodes; buffer holds %d", nodes, len(p.NodeList))
	case int(particles) != len(p.Particles) || len(p.Particles) != len(p.Bindings):
		return errors.Wrapf(ErrCorruptScene, "objects cover %d particles; buffers hold %d particles and %d bindings", particles, len(p.Particles), len(p.Bindings))
	case int(primary) != len(p.PrimaryPoints) || int(secondary) != len(p.SecondaryPoints):
		return errors.Wrapf(ErrCorruptScene, "objects cover %d/%d lattice points; buffers hold %d/%d", primary, secondary, len(p.PrimaryPoints), len(p.SecondaryPoints))
	}
	return nil
}

// Build a tabular representation of the buffer sizes.
func (p *Packed) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Buffer Type", "Buffer", "Size"})
	table.Append([]string{"Collision", "---", fmtSize(p.Catalogue, p.NodeList)})
	table.Append([]string{"", "Catalogue", fmtSize(p.Catalogue)})
	table.Append([]string{"", "BVH", fmtSize(p.NodeList)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Lattices", "---", fmtSize(p.PrimaryPoints, p.SecondaryPoints)})
	table.Append([]string{"", "Primary", fmtSize(p.PrimaryPoints)})
	table.Append([]string{"", "Secondary", fmtSize(p.SecondaryPoints)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Surface", "---", fmtSize(p.Particles, p.Bindings)})
	table.Append([]string{"", "Particles", fmtSize(p.Particles)})
	table.Append([]string{"", "Bindings", fmtSize(p.Bindings)})
	table.SetFooter([]string{"Total", " ", strings.TrimLeft(fmtSize(p.Catalogue, p.NodeList, p.PrimaryPoints, p.SecondaryPoints, p.Particles, p.Bindings), " ")})

	table.Render()
	return buf.String()
}

// Build a tabular representation of the object catalogue.
func (p *Packed) CatalogueTable() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"ID", "Name", "BVH Offset", "BVH Nodes", "Particles", "Cell Size", "Bounds"})
	for i, obj := range p.Objects {
		entry := p.Catalogue[i]
		box := entry.Box()
		table.Append([]string{
			fmt.Sprint(obj.ID),
			obj.Name,
			fmt.Sprint(entry.ArrayOffset),
			fmt.Sprint(entry.NodeCount),
			fmt.Sprint(obj.ParticleCount),
			fmt.Sprintf("%.0f", obj.CellSize),
			fmt.Sprintf("(%.1f, %.1f, %.1f) - (%.1f, %.1f, %.1f)", box.Min[0], box.Min[1], box.Min[2], box.Max[0], box.Max[1], box.Max[2]),
		})
	}

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
