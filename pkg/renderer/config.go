package renderer

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Base seed; each tile derives its own generator from it
	Workers         int   // Parallel workers, 1 renders on the calling goroutine, 0 = CPU count
	TileSize        int   // Edge length of square render tiles in pixels
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 10,
		MaxDepth:        10,
		Seed:            42,
		Workers:         0,
		TileSize:        32,
	}
}

// Validate reports configurations the renderer cannot run with
func (c SamplingConfig) Validate() error {
	switch {
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidSampling, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidSampling, c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidSampling, c.Workers)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %d", ErrInvalidSampling, c.TileSize)
	}
	return nil
}

// Background is the sky gradient returned for rays that escape the scene
type Background struct {
	Bottom core.Vec3 // Colour looking straight down
	Top    core.Vec3 // Colour looking straight up
}

// DefaultBackground blends from white to light blue
func DefaultBackground() Background {
	return Background{
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
		Top:    core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Color returns the gradient colour for a ray direction
func (b Background) Color(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	a := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Lerp(b.Top, a)
}
