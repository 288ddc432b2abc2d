package writer

import (
	"os"

	"github.com/achilleasa/go-softbody/scene"
	"github.com/pkg/errors"
)

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write a packed scene.
	Write(*scene.Packed) error
}

// Write a packed scene to a zip archive.
func WriteScene(sc *scene.Packed, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "writeScene")
	}

	err = newZipSceneWriter(f, filename).Write(sc)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, "writeScene")
	}
	return err
}
