package mesh

import (
	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

// A triangle defined by three indices into the mesh vertex list.
type Face [3]uint32

// Mesh is an imported surface whose vertices drive a deformable body. The
// vertex at index i uses the normal at index i.
type Mesh struct {
	Name     string
	Vertices []types.Vec3
	Normals  []types.Vec3
	Faces    []Face
}

// Get the bounding box of the mesh vertices.
func (m *Mesh) BBox() types.AABB {
	bbox := types.EmptyAABB()
	for _, v := range m.Vertices {
		bbox = bbox.Extend(v)
	}
	return bbox
}

// Validate checks that the mesh can be used to build a body: it must define
// vertices, normals and faces, every vertex needs its own normal and every
// face must reference existing vertices.
func (m *Mesh) Validate() error {
	switch {
	case len(m.Vertices) == 0:
		return errors.Wrapf(ErrInconsistentImportData, "mesh %q: no vertices", m.Name)
	case len(m.Normals) == 0:
		return errors.Wrapf(ErrInconsistentImportData, "mesh %q: no normals", m.Name)
	case len(m.Faces) == 0:
		return errors.Wrapf(ErrInconsistentImportData, "mesh %q: no faces", m.Name)
	case len(m.Vertices) != len(m.Normals):
		return errors.Wrapf(ErrInconsistentImportData, "mesh %q: %d vertices but %d normals", m.Name, len(m.Vertices), len(m.Normals))
	}

	for faceIndex, f := range m.Faces {
		for _, vIndex := range f {
			if int(vIndex) >= len(m.Vertices) {
				return errors.Wrapf(ErrInconsistentImportData, "mesh %q: face %d references vertex %d (vertex count %d)", m.Name, faceIndex, vIndex, len(m.Vertices))
			}
		}
	}

	return nil
}
