package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/go-softbody/asset"
	"github.com/achilleasa/go-softbody/asset/mesh"
	"github.com/achilleasa/go-softbody/log"
	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
)

type wavefrontReader struct {
	logger log.Logger

	// The mesh being parsed. Face normal indices are only range-checked; the
	// mesh pairs vertex i with normal i.
	mesh *mesh.Mesh
}

// Create a new wavefront mesh reader.
func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger: log.New("wavefront reader"),
	}
}

// Read a mesh definition. The object name is taken from the first "o" or
// "g" statement and defaults to the resource base name.
func (r *wavefrontReader) Read(res *asset.Resource) (*mesh.Mesh, error) {
	source := "local"
	if res.IsRemote() {
		source = "remote"
	}
	r.logger.Noticef(`parsing mesh from %s resource "%s"`, source, res.Path())
	start := time.Now()

	r.mesh = &mesh.Mesh{}
	if err := r.parse(res); err != nil {
		return nil, err
	}
	if r.mesh.Name == "" {
		r.mesh.Name = res.BaseName()
	}

	if err := r.mesh.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s", res.Path())
	}

	r.logger.Infof(
		"parsed mesh %q in %d ms; vertices: %d, faces: %d",
		r.mesh.Name, time.Since(start).Nanoseconds()/1e6, len(r.mesh.Vertices), len(r.mesh.Faces),
	)
	return r.mesh, nil
}

// Generate a syntax error annotated with the file and line number.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	return errors.Wrapf(ErrSyntax, "[%s: %d] %s", file, line, fmt.Sprintf(msgFormat, args...))
}

func (r *wavefrontReader) parse(res *asset.Resource) error {
	var lineNum int

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.mesh.Vertices = append(r.mesh.Vertices, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.mesh.Normals = append(r.mesh.Normals, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			if r.mesh.Name == "" {
				r.mesh.Name = lineTokens[1]
			} else if r.mesh.Name != lineTokens[1] {
				r.logger.Infof(`merging object "%s" into mesh "%s"`, lineTokens[1], r.mesh.Name)
			}
		case "f":
			faces, err := r.parseFace(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err)
			}
			r.mesh.Faces = append(r.mesh.Faces, faces...)
		case "vt", "s", "usemtl", "mtllib":
			// Surface attributes have no effect on the body volume
		default:
			r.logger.Debugf(`[%s: %d] skipping unsupported statement "%s"`, res.Path(), lineNum, lineTokens[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "%s", res.Path())
	}
	return nil
}

// Parse face definition. Each face definition consists of 3 or 4 arguments,
// one for each vertex. Each argument uses one of the following formats:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate an offset off the end
// of the vertex/normal list. Quads are split into two triangles.
func (r *wavefrontReader) parseFace(lineTokens []string) ([]mesh.Face, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d`, len(lineTokens)-1)
	}

	var indices [4]uint32
	expIndices := 0
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.mesh.Vertices))
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		indices[arg] = uint32(vOffset)

		if expIndices > 2 && vTokens[2] != "" {
			if _, err = selectFaceCoordIndex(vTokens[2], len(r.mesh.Normals)); err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
		}
	}

	faces := []mesh.Face{{indices[0], indices[1], indices[2]}}
	if len(lineTokens) == 5 {
		faces = append(faces, mesh.Face{indices[0], indices[2], indices[3]})
	}
	return faces, nil
}

// Convert a 1-based (or negative, relative to the end) face index into a
// 0-based offset into a coordinate list of length coordListLen.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = int(index - 1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
