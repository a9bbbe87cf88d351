package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Render a scene to an image.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	s, err := createScene(ctx.String("scene"))
	if err != nil {
		return err
	}
	applyOverrides(ctx, s)

	format, err := outputFormat(ctx.String("out"), ctx.String("format"))
	if err != nil {
		return err
	}

	rt, err := s.NewRaytracer()
	if err != nil {
		return err
	}

	logger.Noticef("rendering scene %q (%d objects)", s.Name, s.GetPrimitiveCount())

	// Ctrl-C stops after the tiles in flight
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, stats, err := rt.Render(renderCtx, func(completed, total int) {
		logger.Noticef("tiles remaining: %d", total-completed)
	})
	if err != nil {
		return err
	}

	if err := writeImage(ctx.App.Writer, ctx.String("out"), img, format); err != nil {
		return err
	}

	displayRenderStats(stats)
	logger.Notice("Done")
	return nil
}

// createScene resolves a built-in scene name or a YAML scene file path
func createScene(ref string) (*scene.Scene, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}
	return scene.Load(ref)
}

// applyOverrides replaces scene settings with the flags given on the command line
func applyOverrides(ctx *cli.Context, s *scene.Scene) {
	if ctx.IsSet("width") {
		s.CameraConfig.ImageWidth = ctx.Int("width")
	}
	if ctx.IsSet("spp") {
		s.SamplingConfig.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		s.SamplingConfig.MaxDepth = ctx.Int("depth")
	}
	if ctx.IsSet("seed") {
		s.SamplingConfig.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("workers") {
		s.SamplingConfig.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("tile-size") {
		s.SamplingConfig.TileSize = ctx.Int("tile-size")
	}
}

// outputFormat prefers an explicit format name over the file extension
func outputFormat(out, name string) (output.Format, error) {
	if name != "" {
		return output.ParseFormat(name)
	}
	if out == "-" {
		return output.FormatPPM, nil
	}
	return output.FormatFromPath(out), nil
}

// writeImage encodes img to the named file, or to stdout when out is "-"
func writeImage(stdout io.Writer, out string, img *output.Image, format output.Format) error {
	if out == "-" {
		return output.Encode(stdout, img, format)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("error creating image file: %w", err)
	}

	if err := output.Encode(file, img, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error writing image file: %w", err)
	}

	logger.Noticef("image saved as %s", out)
	return nil
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Image", "Samples/px", "Max depth", "Workers", "Tiles", "Rays", "Bounces/sample"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%d", stats.SamplesPerPixel),
		fmt.Sprintf("%d", stats.MaxDepth),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d", stats.Tiles),
		fmt.Sprintf("%d", stats.TotalRays),
		fmt.Sprintf("%.2f", stats.AverageBounces()),
	})
	table.SetFooter([]string{"", "", "", "", "TOTAL", stats.Duration.String(), fmt.Sprintf("%.0f rays/s", stats.RaysPerSecond())})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
