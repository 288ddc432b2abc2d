package compiler

import (
	"sync"
	"time"

	"github.com/achilleasa/go-softbody/asset/mesh/reader"
	"github.com/achilleasa/go-softbody/body"
	"github.com/achilleasa/go-softbody/log"
	"github.com/achilleasa/go-softbody/scene"
	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

var ErrNoBodies = errors.New("compiler: no body could be built")

// A unit of work processed by a compiler worker.
type buildRequest struct {
	id       int
	meshFile string
}

type sceneCompiler struct {
	logger log.Logger
	opts   Options

	wg      sync.WaitGroup
	reqChan chan buildRequest

	// Build results indexed by request id. Each slot is written by exactly
	// one worker.
	bodies []*body.Body
	errs   []error
}

// Compile builds a body for each mesh file and adds the ones that build
// successfully to a new scene in input order. Bodies that fail to build are
// skipped and their errors are returned alongside the scene. An error is
// only returned if no body could be built.
func Compile(meshFiles []string, opts Options) (*scene.Scene, []error, error) {
	if err := opts.Body.Validate(); err != nil {
		return nil, nil, err
	}

	compiler := &sceneCompiler{
		logger:  log.New("scene compiler"),
		opts:    opts,
		reqChan: make(chan buildRequest),
		bodies:  make([]*body.Body, len(meshFiles)),
		errs:    make([]error, len(meshFiles)),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling %d bodies", len(meshFiles))

	compiler.startWorkers()
	for id, meshFile := range meshFiles {
		compiler.reqChan <- buildRequest{id: id, meshFile: meshFile}
	}
	close(compiler.reqChan)
	compiler.wg.Wait()

	sc := scene.New()
	var skipped []error
	for id, b := range compiler.bodies {
		err := compiler.errs[id]
		if err == nil {
			err = sc.Add(b)
		}
		if err != nil {
			compiler.logger.Warningf("skipping %s: %s", meshFiles[id], err)
			skipped = append(skipped, err)
		}
	}

	if len(sc.Bodies()) == 0 {
		return nil, skipped, ErrNoBodies
	}

	compiler.logger.Noticef("compiled %d/%d bodies in %d ms", len(sc.Bodies()), len(meshFiles), time.Since(start).Nanoseconds()/1e6)
	return sc, skipped, nil
}

func (sc *sceneCompiler) startWorkers() {
	workers := sc.opts.Workers
	if workers < 1 {
		workers = DefaultOptions().Workers
	}

	for i := 0; i < workers; i++ {
		sc.wg.Add(1)
		go func() {
			defer sc.wg.Done()
			for req := range sc.reqChan {
				sc.bodies[req.id], sc.errs[req.id] = sc.build(req)
			}
		}()
	}
}

func (sc *sceneCompiler) build(req buildRequest) (*body.Body, error) {
	m, err := reader.ReadMesh(req.meshFile)
	if err != nil {
		return nil, err
	}

	b, err := body.New(req.id, m, sc.opts.Body)
	if err != nil {
		return nil, err
	}

	if sc.opts.Translate != (types.Vec3{}) {
		if err = b.Translate(sc.opts.Translate); err != nil {
			return nil, err
		}
	}
	return b, nil
}
