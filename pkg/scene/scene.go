package scene

import (
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Description    string
	World          *geometry.HittableList // Objects in the scene
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Background     renderer.Background
}

// NewRaytracer returns a raytracer for the scene's world, camera and sampling settings
func (s *Scene) NewRaytracer() (*renderer.Raytracer, error) {
	var world geometry.Hittable
	if s.World != nil {
		world = s.World
	}
	rt, err := renderer.NewRaytracer(world, s.CameraConfig, s.SamplingConfig)
	if err != nil {
		return nil, err
	}
	rt.SetBackground(s.Background)
	return rt, nil
}

// GetPrimitiveCount returns the number of objects in the world
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Len()
}
