package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/go-softbody/asset"
	"github.com/achilleasa/go-softbody/asset/mesh"
	"github.com/achilleasa/go-softbody/types"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

const cubeObj = `
# unit cube with per-vertex normals
o cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
vn -1 -1 -1
vn 1 -1 -1
vn 1 1 -1
vn -1 1 -1
vn -1 -1 1
vn 1 -1 1
vn 1 1 1
vn -1 1 1
s off
f 1//1 4//4 3//3 2//2
f 5//5 6//6 7//7 8//8
f 1//1 2//2 6//6 5//5
f 4//4 8//8 7//7 3//3
f 1 5 8 4
f -7 -6 -2 -3
`

func read(t *testing.T, name, payload string) (*mesh.Mesh, error) {
	t.Helper()
	return newWavefrontReader().Read(asset.NewResourceFromStream(name, strings.NewReader(payload)))
}

func TestReadCube(t *testing.T) {
	m, err := read(t, "cube.obj", cubeObj)
	if err != nil {
		t.Fatal(err)
	}

	if m.Name != "cube" {
		t.Fatalf("expected mesh name %q; got %q", "cube", m.Name)
	}
	if len(m.Vertices) != 8 || len(m.Normals) != 8 {
		t.Fatalf("expected 8 vertices and normals; got %d and %d", len(m.Vertices), len(m.Normals))
	}
	if len(m.Faces) != 12 {
		t.Fatalf("expected quads to be split into 12 triangles; got %d", len(m.Faces))
	}

	expFaces := []mesh.Face{{0, 3, 2}, {0, 2, 1}}
	if diff := cmp.Diff(expFaces, m.Faces[:2]); diff != "" {
		t.Fatalf("unexpected faces (-want +got):\n%s", diff)
	}

	// Negative indices are relative to the end of the vertex list
	expFaces = []mesh.Face{{1, 2, 6}, {1, 6, 5}}
	if diff := cmp.Diff(expFaces, m.Faces[10:]); diff != "" {
		t.Fatalf("unexpected faces for negative indices (-want +got):\n%s", diff)
	}

	exp := types.AABB{Min: types.XYZ(0, 0, 0), Max: types.XYZ(1, 1, 1)}
	if m.BBox() != exp {
		t.Fatalf("expected bbox %v; got %v", exp, m.BBox())
	}
}

func TestReadDefaultsNameToResource(t *testing.T) {
	payload := strings.Replace(cubeObj, "o cube", "", 1)
	m, err := read(t, "meshes/box.obj", payload)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "box" {
		t.Fatalf("expected mesh name %q; got %q", "box", m.Name)
	}
}

func TestReadSyntaxErrors(t *testing.T) {
	specs := []string{
		"v 1 2",
		"vn 1 a 2",
		"o",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2/1 3",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3",
	}

	for idx, payload := range specs {
		_, err := read(t, "bad.obj", payload)
		if errors.Cause(err) != ErrSyntax {
			t.Fatalf("[spec %d] expected to get %v; got %v", idx, ErrSyntax, err)
		}
		if !strings.Contains(err.Error(), "bad.obj") {
			t.Fatalf("[spec %d] expected error to reference the file name; got %v", idx, err)
		}
	}
}

func TestReadInconsistentData(t *testing.T) {
	specs := []string{
		// empty
		"",
		// no normals
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3",
		// no faces
		"v 0 0 0\nvn 0 0 1",
		// vertex/normal count mismatch
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1 2 3",
	}

	for idx, payload := range specs {
		_, err := read(t, "bad.obj", payload)
		if !errors.Is(err, mesh.ErrInconsistentImportData) {
			t.Fatalf("[spec %d] expected to get %v; got %v", idx, mesh.ErrInconsistentImportData, err)
		}
	}
}

func TestReadMesh(t *testing.T) {
	dir := t.TempDir()
	objFile := filepath.Join(dir, "cube.obj")
	if err := os.WriteFile(objFile, []byte(cubeObj), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadMesh(objFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Faces) != 12 {
		t.Fatalf("expected 12 faces; got %d", len(m.Faces))
	}

	if _, err = ReadMesh(filepath.Join(dir, "cube.fbx")); errors.Cause(err) != ErrUnsupportedFormat {
		t.Fatalf("expected to get %v; got %v", ErrUnsupportedFormat, err)
	}
	if _, err = ReadMesh(filepath.Join(dir, "missing.obj")); err == nil {
		t.Fatal("expected to get an error for a missing file")
	}
}

func TestReadMeshFromStdin(t *testing.T) {
	objFile := filepath.Join(t.TempDir(), "input")
	payload := strings.Replace(cubeObj, "o cube", "", 1)
	if err := os.WriteFile(objFile, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(objFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	origStdin := os.Stdin
	os.Stdin = f
	defer func() { os.Stdin = origStdin }()

	m, err := ReadMesh(Stdin)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "stdin" || len(m.Faces) != 12 {
		t.Fatalf("expected mesh %q with 12 faces; got %q with %d faces", "stdin", m.Name, len(m.Faces))
	}
}
