package writer

import (
	"archive/zip"
	"encoding/gob"
	"io"
	"time"

	"github.com/achilleasa/go-softbody/log"
	"github.com/achilleasa/go-softbody/scene"
	"github.com/pkg/errors"
)

const (
	dataFile = "scene.bin"
)

type zipSceneWriter struct {
	logger log.Logger
	out    io.Writer
	name   string
}

// Create a new zip scene writer.
func newZipSceneWriter(out io.Writer, name string) *zipSceneWriter {
	return &zipSceneWriter{
		logger: log.New("zip writer"),
		out:    out,
		name:   name,
	}
}

// Write scene data to the zip archive.
func (w *zipSceneWriter) Write(sc *scene.Packed) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	w.logger.Noticef(`writing compressed scene to "%s"`, w.name)
	start := time.Now()

	zw := zip.NewWriter(w.out)
	cw, err := zw.Create(dataFile)
	if err != nil {
		return errors.Wrapf(err, "zipSceneWriter: failed to create %s", dataFile)
	}
	if err = gob.NewEncoder(cw).Encode(sc); err != nil {
		return errors.Wrapf(err, "zipSceneWriter: failed to encode %s", dataFile)
	}
	if err = zw.Close(); err != nil {
		return errors.Wrapf(err, "zipSceneWriter")
	}

	w.logger.Noticef("compressed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}
