package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/web/server"
)

var logger = log.New("web")

func main() {
	app := cli.NewApp()
	app.Name = "go-pathtracer-web"
	app.Usage = "serve the path tracer over HTTP"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "port, p",
			Value: 8080,
			Usage: "port to serve on",
		},
		cli.StringFlag{
			Name:  "scenes",
			Value: "../scenes",
			Usage: "directory of YAML scene files to offer",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
	}
	app.Action = func(ctx *cli.Context) error {
		if ctx.Bool("v") {
			log.SetLevel(log.Info)
		}

		webServer := server.NewServer(ctx.Int("port"), ctx.String("scenes"))
		logger.Noticef("visit http://localhost:%d to start rendering", ctx.Int("port"))
		return webServer.Start()
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("error starting server: %v", err)
		os.Exit(1)
	}
}
