package reader

import (
	"os"
	"strings"

	"github.com/achilleasa/go-softbody/asset"
	"github.com/achilleasa/go-softbody/asset/mesh"
	"github.com/pkg/errors"
)

var (
	ErrUnsupportedFormat = errors.New("reader: unsupported file format")
	ErrSyntax            = errors.New("reader: syntax error")
)

// The Reader interface is implemented by all mesh readers.
type Reader interface {
	// Read a mesh from a resource.
	Read(*asset.Resource) (*mesh.Mesh, error)
}

// The filename that selects standard input. The stream is parsed as a
// wavefront obj file.
const Stdin = "-"

// Read a mesh from a local file, a URL or standard input. The reader is
// selected based on the file extension.
func ReadMesh(filename string) (*mesh.Mesh, error) {
	if filename == Stdin {
		return newWavefrontReader().Read(asset.NewResourceFromStream("stdin.obj", os.Stdin))
	}

	var reader Reader
	switch {
	case strings.HasSuffix(filename, ".obj"):
		reader = newWavefrontReader()
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", filename)
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}
