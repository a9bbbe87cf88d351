package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	SamplesPerPixel int           // Primary rays per pixel
	MaxDepth        int           // Bounce limit
	Workers         int           // Goroutines that rendered tiles
	Tiles           int           // Number of tiles
	TotalSamples    int64         // Primary rays traced
	TotalRays       int64         // Ray segments intersected against the world
	Duration        time.Duration // Wall-clock render time
}

// TileStats contains the work done for a single tile
type TileStats struct {
	Samples int64
	Rays    int64
}

// add merges the statistics of a finished tile
func (s *RenderStats) add(tile TileStats) {
	s.TotalSamples += tile.Samples
	s.TotalRays += tile.Rays
}

// RaysPerSecond returns the ray segment throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalRays) / s.Duration.Seconds()
}

// AverageBounces returns the mean number of ray segments per primary ray
func (s RenderStats) AverageBounces() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.TotalRays) / float64(s.TotalSamples)
}
