package cmd

import (
	"strconv"
	"strings"

	"github.com/achilleasa/go-softbody/asset/compiler"
	"github.com/achilleasa/go-softbody/lattice"
	"github.com/achilleasa/go-softbody/scene/writer"
	"github.com/achilleasa/go-softbody/types"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var defaults = compiler.DefaultOptions()

// Flags accepted by the compile command.
var CompileFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Value: defaults.Body.LatticeWidth,
		Usage: "number of primary lattice points per axis",
	},
	cli.Float64Flag{
		Name:  "margin",
		Value: float64(defaults.Body.CollisionMargin),
		Usage: "collision margin added to the bvh leaf boxes",
	},
	cli.Float64Flag{
		Name:  "rounding",
		Value: float64(defaults.Body.CellRounding),
		Usage: "round lattice cell sizes up to a multiple of this value; 0 disables rounding",
	},
	cli.BoolFlag{
		Name:  "detach-interior",
		Usage: "treat cells enclosed by the surface as disconnected",
	},
	cli.StringFlag{
		Name:  "translate",
		Value: "0,0,0",
		Usage: "translate all bodies by x,y,z",
	},
	cli.IntFlag{
		Name:  "workers",
		Value: defaults.Workers,
		Usage: "number of bodies to build in parallel",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "scene.zip",
		Usage: "filename for the compiled scene",
	},
}

// Build a body for each mesh file and write the packed scene to a zip file.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing mesh files")
	}

	opts, err := compilerOptions(ctx)
	if err != nil {
		return err
	}

	sc, skipped, err := compiler.Compile(ctx.Args(), opts)
	if err != nil {
		return err
	}
	if len(skipped) != 0 {
		logger.Warningf("skipped %d out of %d bodies", len(skipped), ctx.NArg())
	}

	packed, err := sc.Pack()
	if err != nil {
		return err
	}

	// Display compiled scene info
	logger.Noticef("scene information:\n%s", packed.Stats())

	return writer.WriteScene(packed, ctx.String("out"))
}

func compilerOptions(ctx *cli.Context) (compiler.Options, error) {
	opts := compiler.DefaultOptions()
	opts.Workers = ctx.Int("workers")
	opts.Body.LatticeWidth = ctx.Int("width")
	opts.Body.CollisionMargin = float32(ctx.Float64("margin"))
	opts.Body.CellRounding = float32(ctx.Float64("rounding"))
	if ctx.Bool("detach-interior") {
		opts.Body.Connectivity = lattice.InteriorDetached
	}

	var err error
	if opts.Translate, err = parseVec3(ctx.String("translate")); err != nil {
		return opts, errors.Wrap(err, "invalid value for --translate")
	}
	return opts, opts.Body.Validate()
}

// Parse a vector in "x,y,z" format.
func parseVec3(value string) (types.Vec3, error) {
	var v types.Vec3
	tokens := strings.Split(value, ",")
	if len(tokens) != 3 {
		return v, errors.Errorf("expected 3 comma separated components; got %d", len(tokens))
	}

	for i, token := range tokens {
		f, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(f)
	}
	return v, nil
}
