package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/scene"
)

// List built-in scenes and the scene files found in --dir.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	response, err := scene.ListAllScenes(ctx.String("dir"))
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Name", "Group", "Description"})
	for _, group := range response.Groups {
		for _, info := range group.Scenes {
			ref := info.ID
			if info.Type == scene.TypeFile {
				ref = info.FilePath
			}
			table.Append([]string{ref, info.DisplayName, group.Name, info.Description})
		}
	}
	table.Render()

	return nil
}

// Write the default scene as YAML.
func SampleConfig(ctx *cli.Context) error {
	setupLogging(ctx)

	out := ctx.String("out")
	if out == "-" {
		return scene.Encode(ctx.App.Writer, scene.DefaultSceneFile())
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("error creating scene file: %w", err)
	}
	defer file.Close()

	if err := scene.Encode(file, scene.DefaultSceneFile()); err != nil {
		return err
	}
	logger.Noticef("scene saved as %s", out)
	return nil
}
