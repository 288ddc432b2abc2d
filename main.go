package main

import (
	"os"

	"github.com/achilleasa/go-softbody/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "softbody"
	app.Usage = "prepare deformable bodies for gpu collision detection"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "build deformable bodies from mesh files and pack them into a scene",
			Description: `
Parse each mesh from a wavefront obj file, embed it into a pair of interleaved
mass point lattices, classify the lattice cells against the mesh surface and
build a bounding volume hierarchy over the lattice points next to the surface.

Bodies that cannot be built are skipped. The hierarchies, lattices and surface
particles of the remaining bodies are packed into shared buffers and written
to a zip archive which can be supplied as an argument to the inspect command.`,
			ArgsUsage: "mesh_file1.obj mesh_file2.obj ... (use - to read a mesh from stdin)",
			Flags:     cmd.CompileFlags,
			Action:    cmd.CompileScene,
		},
		{
			Name:      "inspect",
			Usage:     "display buffer sizes and the collision catalogue of a compiled scene",
			ArgsUsage: "scene.zip",
			Action:    cmd.ShowSceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		cmd.Fatal(err)
	}
}
