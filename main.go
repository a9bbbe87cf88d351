package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/log"
)

var logger = log.New("pathtracer")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-pathtracer"
	app.Usage = "render sphere scenes using path tracing"
	app.Version = "0.1.0"
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
			Name:  "render",
			Usage: "render a scene to an image",
			Description: `
Render a built-in scene or a YAML scene file. Camera and sampling settings come
from the scene and may be overridden with flags.

The image is written as PPM to stdout unless --out names a file; the format is
picked from the file extension or forced with --format.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "built-in scene name or path to a YAML scene file",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "-",
					Usage: "image filename, - for stdout",
				},
				cli.StringFlag{
					Name:  "format, f",
					Usage: "image format (ppm or png), defaults to the out file extension",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "image width in pixels",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Usage: "maximum number of ray bounces",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "random seed",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of render goroutines, 0 uses every CPU, 1 renders sequentially",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Usage: "edge length of render tiles in pixels",
				},
			},
			Action: RenderScene,
		},
		{
			Name:  "scenes",
			Usage: "list built-in scenes and scene files",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Value: "scenes",
					Usage: "directory to scan for YAML scene files",
				},
			},
			Action: ListScenes,
		},
		{
			Name:        "sample-config",
			Usage:       "write the default scene as a YAML scene file",
			Description: `The output can be edited and passed back to render --scene.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Value: "-",
					Usage: "scene filename, - for stdout",
				},
			},
			Action: SampleConfig,
		},
	}

	return app
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
