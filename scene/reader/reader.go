package reader

import (
	"strings"

	"github.com/achilleasa/go-softbody/asset"
	"github.com/achilleasa/go-softbody/scene"
	"github.com/pkg/errors"
)

var ErrUnsupportedFormat = errors.New("readScene: unsupported file format")

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read a packed scene from a resource.
	Read(*asset.Resource) (*scene.Packed, error)
}

// Read a packed scene from a local file or url.
func ReadScene(filename string) (*scene.Packed, error) {
	if !strings.HasSuffix(filename, ".zip") {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", filename)
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newZipSceneReader().Read(res)
}
