package reader

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"io"
	"time"

	"github.com/achilleasa/go-softbody/asset"
	"github.com/achilleasa/go-softbody/log"
	"github.com/achilleasa/go-softbody/scene"
	"github.com/pkg/errors"
)

const (
	dataFile = "scene.bin"
)

var ErrMissingData = errors.New("zipSceneReader: archive does not contain scene data")

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read a packed scene from a zip file.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*scene.Packed, error) {
	p.logger.Noticef(`parsing compiled scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", sceneRes.Path())
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", sceneRes.Path())
	}

	var sc *scene.Packed
	for _, f := range zr.File {
		if f.Name != dataFile {
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		sc = &scene.Packed{}
		err = gob.NewDecoder(rc).Decode(sc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "zipSceneReader: failed to load %s", f.Name)
		}
	}

	if sc == nil {
		return nil, errors.Wrapf(ErrMissingData, "%s", sceneRes.Path())
	}
	if err = sc.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s", sceneRes.Path())
	}

	p.logger.Noticef("loaded scene with %d objects in %d ms", len(sc.Objects), time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}
