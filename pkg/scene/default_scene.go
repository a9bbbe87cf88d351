package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// DefaultSceneFile describes the five-sphere demo scene: a yellow ground, a
// blue diffuse sphere, a hollow glass sphere and a fuzzy gold metal sphere,
// seen through a narrow lens with a shallow depth of field.
func DefaultSceneFile() *File {
	camera := renderer.CameraConfig{
		AspectRatio:   16.0 / 9.0,
		ImageWidth:    400,
		VFov:          20,
		LookFrom:      core.NewVec3(-2, 2, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		VUp:           core.NewVec3(0, 1, 0),
		DefocusAngle:  10.0,
		FocusDistance: 3.4,
	}

	sampling := renderer.DefaultSamplingConfig()
	sampling.SamplesPerPixel = 100
	sampling.MaxDepth = 50

	f := NewFile()
	f.Name = "default"
	f.Description = "Diffuse, glass and metal spheres on a yellow ground"
	f.Camera = cameraSectionFrom(camera)
	f.Render = renderSectionFrom(sampling)
	f.Materials = map[string]MaterialSpec{
		"ground": {Type: MaterialLambertian, Albedo: Color{0.8, 0.8, 0.0}},
		"center": {Type: MaterialLambertian, Albedo: Color{0.1, 0.2, 0.5}},
		"left":   {Type: MaterialDielectric, IOR: 1.50},
		"bubble": {Type: MaterialDielectric, IOR: 1.00 / 1.50},
		"right":  {Type: MaterialMetal, Albedo: Color{0.8, 0.6, 0.2}, Fuzz: 1.0},
	}
	f.Spheres = []SphereSpec{
		{Center: Vector{0.0, -100.5, -1.0}, Radius: 100.0, Material: "ground"},
		{Center: Vector{0.0, 0.0, -1.0}, Radius: 0.5, Material: "center"},
		{Center: Vector{-1.0, 0.0, -1.0}, Radius: 0.5, Material: "left"},
		{Center: Vector{-1.0, 0.0, -1.0}, Radius: 0.4, Material: "bubble"},
		{Center: Vector{1.0, 0.0, -1.0}, Radius: 0.5, Material: "right"},
	}
	return f
}

// NewDefaultScene builds the five-sphere demo scene
func NewDefaultScene() *Scene {
	s, err := DefaultSceneFile().Build()
	if err != nil {
		panic("scene: default scene is invalid: " + err.Error())
	}
	return s
}

// NewBackgroundScene creates an empty world that shows only the sky gradient
func NewBackgroundScene() *Scene {
	return &Scene{
		Name:           "background",
		Description:    "Empty world showing the sky gradient",
		World:          geometry.NewHittableList(),
		CameraConfig:   renderer.DefaultCameraConfig(),
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Background:     renderer.DefaultBackground(),
	}
}
