package renderer

import (
	"context"
	"testing"
	"time"
)

func TestRenderStats_Add(t *testing.T) {
	var stats RenderStats
	stats.add(TileStats{Samples: 10, Rays: 25})
	stats.add(TileStats{Samples: 5, Rays: 5})

	if stats.TotalSamples != 15 || stats.TotalRays != 30 {
		t.Errorf("Expected 15 samples and 30 rays, got %d and %d", stats.TotalSamples, stats.TotalRays)
	}
	if got := stats.AverageBounces(); got != 2 {
		t.Errorf("Expected 2 bounces per sample, got %f", got)
	}
}

func TestRenderStats_RaysPerSecond(t *testing.T) {
	tests := []struct {
		name     string
		stats    RenderStats
		expected float64
	}{
		{"no duration", RenderStats{TotalRays: 100}, 0},
		{"two seconds", RenderStats{TotalRays: 100, Duration: 2 * time.Second}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.RaysPerSecond(); got != tt.expected {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}

	if got := (RenderStats{}).AverageBounces(); got != 0 {
		t.Errorf("Expected 0 average bounces without samples, got %f", got)
	}
}

func TestWorkerPool_ProcessesEveryTask(t *testing.T) {
	tiles := NewTileGrid(50, 50, 10, 0)
	pool := NewWorkerPool(3, len(tiles), func(tile *Tile) TileStats {
		return TileStats{Samples: int64(tile.Bounds.Dx() * tile.Bounds.Dy())}
	})
	if pool.GetNumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.GetNumWorkers())
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	pool.Start(ctx)
	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile})
	}
	pool.Stop()

	seen := make(map[int]bool)
	var samples int64
	for result, ok := pool.GetResult(); ok; result, ok = pool.GetResult() {
		if result.Error != nil {
			t.Errorf("Tile %d failed: %v", result.TileID, result.Error)
		}
		seen[result.TileID] = true
		samples += result.Stats.Samples
	}

	if len(seen) != len(tiles) {
		t.Errorf("Expected %d results, got %d", len(tiles), len(seen))
	}
	if samples != 2500 {
		t.Errorf("Expected 2500 pixels across tiles, got %d", samples)
	}
}
