package cmd

import (
	"github.com/achilleasa/go-softbody/scene/reader"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Display compiled scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing compiled scene zip file")
	}

	packed, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", packed.Stats())
	logger.Noticef("collision catalogue:\n%s", packed.CatalogueTable())
	return nil
}
