package renderer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/output"
)

var logger = log.New("renderer")

// hitInterval starts just above zero so scattered rays do not re-hit the
// surface they leave from
var hitInterval = core.NewInterval(0.001, math.Inf(1))

// ProgressFunc is called after each finished tile from the rendering goroutine
type ProgressFunc func(completed, total int)

// Raytracer renders a world through a camera
type Raytracer struct {
	world      geometry.Hittable
	camera     CameraConfig
	config     SamplingConfig
	background Background
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world geometry.Hittable, camera CameraConfig, config SamplingConfig) (*Raytracer, error) {
	if world == nil {
		return nil, ErrNoWorld
	}
	if err := camera.Validate(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Raytracer{
		world:      world,
		camera:     camera,
		config:     config,
		background: DefaultBackground(),
	}, nil
}

// SetBackground replaces the sky gradient
func (rt *Raytracer) SetBackground(background Background) {
	rt.background = background
}

// SamplingConfig returns the active sampling configuration
func (rt *Raytracer) SamplingConfig() SamplingConfig {
	return rt.config
}

// RayColor returns the light arriving along r after at most depth bounces
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	color, _ := rt.traceRay(r, depth, sampler)
	return color
}

// traceRay follows a path iteratively, carrying the product of attenuations.
// It returns the path colour and the number of segments intersected.
func (rt *Raytracer) traceRay(r core.Ray, depth int, sampler core.Sampler) (core.Vec3, int64) {
	throughput := core.NewVec3(1, 1, 1)
	var segments int64

	// Running out of bounces gathers no more light
	for ; depth > 0; depth-- {
		segments++

		hit, isHit := rt.world.Hit(r, hitInterval)
		if !isHit {
			return throughput.MultiplyVec(rt.background.Color(r)), segments
		}
		if hit.Material == nil {
			panic(fmt.Sprintf("renderer: hit at t=%g carries no material", hit.T))
		}

		scatter, didScatter := hit.Material.Scatter(r, *hit, sampler)
		if !didScatter {
			return core.Vec3{}, segments
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		r = scatter.Scattered
	}

	return core.Vec3{}, segments
}

// renderTile samples every pixel in the tile and stores averaged colours in img
func (rt *Raytracer) renderTile(camera *Camera, img *output.Image, tile *Tile) TileStats {
	sampler := core.NewRandomSampler(tile.NewRandom())
	pixelSampleScale := 1.0 / float64(rt.config.SamplesPerPixel)
	var stats TileStats

	for j := tile.Bounds.Min.Y; j < tile.Bounds.Max.Y; j++ {
		for i := tile.Bounds.Min.X; i < tile.Bounds.Max.X; i++ {
			var pixelColor core.Vec3
			for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
				ray := camera.GetRay(i, j, sampler)
				color, segments := rt.traceRay(ray, rt.config.MaxDepth, sampler)
				pixelColor = pixelColor.Add(color)
				stats.Rays += segments
			}
			stats.Samples += int64(rt.config.SamplesPerPixel)
			img.Set(i, j, pixelColor.Multiply(pixelSampleScale))
		}
	}

	return stats
}

// Render traces the whole image. The camera state is derived afresh on every
// call. Tiles are rendered sequentially when Workers is 1 and on a worker
// pool otherwise; both produce identical images for the same seed.
func (rt *Raytracer) Render(ctx context.Context, progress ProgressFunc) (*output.Image, RenderStats, error) {
	startTime := time.Now()

	camera := NewCamera(rt.camera)
	width, height := camera.ImageWidth(), camera.ImageHeight()
	img := output.NewImage(width, height)
	tiles := NewTileGrid(width, height, rt.config.TileSize, rt.config.Seed)

	numWorkers := rt.config.Workers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, len(tiles))

	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		MaxDepth:        rt.config.MaxDepth,
		Workers:         numWorkers,
		Tiles:           len(tiles),
	}

	logger.Debugf("rendering %dx%d, %d spp, depth %d, %d tiles on %d workers",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, len(tiles), numWorkers)

	var err error
	if numWorkers == 1 {
		err = rt.renderSequential(ctx, camera, img, tiles, &stats, progress)
	} else {
		err = rt.renderParallel(ctx, camera, img, tiles, numWorkers, &stats, progress)
	}
	if err != nil {
		return nil, RenderStats{}, err
	}

	stats.Duration = time.Since(startTime)
	return img, stats, nil
}

func (rt *Raytracer) renderSequential(ctx context.Context, camera *Camera, img *output.Image, tiles []*Tile, stats *RenderStats, progress ProgressFunc) error {
	for i, tile := range tiles {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		stats.add(rt.renderTile(camera, img, tile))
		if progress != nil {
			progress(i+1, len(tiles))
		}
	}
	return nil
}

func (rt *Raytracer) renderParallel(ctx context.Context, camera *Camera, img *output.Image, tiles []*Tile, numWorkers int, stats *RenderStats, progress ProgressFunc) error {
	pool := NewWorkerPool(numWorkers, len(tiles), func(tile *Tile) TileStats {
		return rt.renderTile(camera, img, tile)
	})
	pool.Start(ctx)

	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile})
	}
	go pool.Stop()

	var firstErr error
	completed := 0
	for result, ok := pool.GetResult(); ok; result, ok = pool.GetResult() {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}

		stats.add(result.Stats)
		completed++
		if progress != nil && firstErr == nil {
			progress(completed, len(tiles))
		}
	}

	return firstErr
}

// InspectResult describes what the centre ray of a pixel hits
type InspectResult struct {
	Ray core.Ray
	Hit *material.HitRecord // nil when the ray escapes
}

// Inspect casts the un-jittered ray from the camera center through pixel (x, y)
func (rt *Raytracer) Inspect(x, y int) (InspectResult, error) {
	camera := NewCamera(rt.camera)
	if x < 0 || y < 0 || x >= camera.ImageWidth() || y >= camera.ImageHeight() {
		return InspectResult{}, fmt.Errorf("%w: (%d, %d) not in %dx%d",
			ErrPixelOutOfRange, x, y, camera.ImageWidth(), camera.ImageHeight())
	}

	ray := camera.CenterRay(x, y)
	result := InspectResult{Ray: ray}
	if hit, isHit := rt.world.Hit(ray, hitInterval); isHit {
		result.Hit = hit
	}
	return result, nil
}
