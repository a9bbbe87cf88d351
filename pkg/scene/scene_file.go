package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v2"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

var (
	ErrUnknownMaterial     = errors.New("scene: unknown material")
	ErrUnknownMaterialType = errors.New("scene: unknown material type")
	ErrUnknownColor        = errors.New("scene: unknown color name")
	ErrInvalidVector       = errors.New("scene: vectors need exactly three components")
)

// Material types accepted in scene files
const (
	MaterialLambertian = "lambertian"
	MaterialMetal      = "metal"
	MaterialDielectric = "dielectric"
)

// Vector is an [x, y, z] list in a scene file
type Vector [3]float64

// Vec3 converts the vector to a core.Vec3
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

func vectorFrom(v core.Vec3) Vector {
	return Vector{v.X, v.Y, v.Z}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Vector) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var components []float64
	if err := unmarshal(&components); err != nil {
		return err
	}
	if len(components) != 3 {
		return fmt.Errorf("%w, got %d", ErrInvalidVector, len(components))
	}
	copy(v[:], components)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Vector) MarshalYAML() (interface{}, error) {
	return v[:], nil
}

// Color is an [r, g, b] list in [0, 1] or a CSS colour name such as "gold"
type Color [3]float64

// Vec3 converts the colour to a core.Vec3
func (c Color) Vec3() core.Vec3 {
	return core.NewVec3(c[0], c[1], c[2])
}

func colorFrom(v core.Vec3) Color {
	return Color{v.X, v.Y, v.Z}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		rgba, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColor, name)
		}
		*c = Color{float64(rgba.R) / 255, float64(rgba.G) / 255, float64(rgba.B) / 255}
		return nil
	}

	var v Vector
	if err := unmarshal(&v); err != nil {
		return err
	}
	*c = Color(v)
	return nil
}

// IsZero reports black, which lets materials without an albedo omit it.
func (c Color) IsZero() bool {
	return c == Color{}
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (interface{}, error) {
	return c[:], nil
}

// CameraSection is the camera block of a scene file
type CameraSection struct {
	AspectRatio   float64 `yaml:"aspect_ratio"`
	ImageWidth    int     `yaml:"image_width"`
	VFov          float64 `yaml:"vfov"`
	LookFrom      Vector  `yaml:"look_from,flow"`
	LookAt        Vector  `yaml:"look_at,flow"`
	VUp           Vector  `yaml:"vup,flow"`
	DefocusAngle  float64 `yaml:"defocus_angle"`
	FocusDistance float64 `yaml:"focus_distance"`
}

func cameraSectionFrom(c renderer.CameraConfig) CameraSection {
	return CameraSection{
		AspectRatio:   c.AspectRatio,
		ImageWidth:    c.ImageWidth,
		VFov:          c.VFov,
		LookFrom:      vectorFrom(c.LookFrom),
		LookAt:        vectorFrom(c.LookAt),
		VUp:           vectorFrom(c.VUp),
		DefocusAngle:  c.DefocusAngle,
		FocusDistance: c.FocusDistance,
	}
}

// Config converts the section to a renderer camera configuration
func (c CameraSection) Config() renderer.CameraConfig {
	return renderer.CameraConfig{
		AspectRatio:   c.AspectRatio,
		ImageWidth:    c.ImageWidth,
		VFov:          c.VFov,
		LookFrom:      c.LookFrom.Vec3(),
		LookAt:        c.LookAt.Vec3(),
		VUp:           c.VUp.Vec3(),
		DefocusAngle:  c.DefocusAngle,
		FocusDistance: c.FocusDistance,
	}
}

// RenderSection is the render block of a scene file
type RenderSection struct {
	SamplesPerPixel int   `yaml:"samples_per_pixel"`
	MaxDepth        int   `yaml:"max_depth"`
	Seed            int64 `yaml:"seed"`
	Workers         int   `yaml:"workers"` // 0 uses every CPU
	TileSize        int   `yaml:"tile_size"`
}

func renderSectionFrom(c renderer.SamplingConfig) RenderSection {
	return RenderSection{
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
		Seed:            c.Seed,
		Workers:         c.Workers,
		TileSize:        c.TileSize,
	}
}

// Config converts the section to a renderer sampling configuration
func (r RenderSection) Config() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		SamplesPerPixel: r.SamplesPerPixel,
		MaxDepth:        r.MaxDepth,
		Seed:            r.Seed,
		Workers:         r.Workers,
		TileSize:        r.TileSize,
	}
}

// BackgroundSection is the sky gradient of a scene file
type BackgroundSection struct {
	Bottom Color `yaml:"bottom,flow"`
	Top    Color `yaml:"top,flow"`
}

// MaterialSpec describes a named material. Only the fields of its type are used.
type MaterialSpec struct {
	Type   string  `yaml:"type"`
	Albedo Color   `yaml:"albedo,omitempty,flow"`
	Fuzz   float64 `yaml:"fuzz,omitempty"`
	IOR    float64 `yaml:"ior,omitempty"`
}

func (m MaterialSpec) build() (material.Material, error) {
	switch strings.ToLower(m.Type) {
	case MaterialLambertian:
		return material.NewLambertian(m.Albedo.Vec3()), nil
	case MaterialMetal:
		return material.NewMetal(m.Albedo.Vec3(), m.Fuzz), nil
	case MaterialDielectric:
		return material.NewDielectric(m.IOR), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMaterialType, m.Type)
}

// SphereSpec places a sphere with a named material
type SphereSpec struct {
	Center   Vector  `yaml:"center,flow"`
	Radius   float64 `yaml:"radius"`
	Material string  `yaml:"material"`
}

// File is the YAML representation of a scene
type File struct {
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description,omitempty"`
	Camera      CameraSection           `yaml:"camera"`
	Render      RenderSection           `yaml:"render"`
	Background  BackgroundSection       `yaml:"background"`
	Materials   map[string]MaterialSpec `yaml:"materials"`
	Spheres     []SphereSpec            `yaml:"spheres"`
}

// NewFile returns a scene file holding the renderer defaults and an empty world
func NewFile() *File {
	background := renderer.DefaultBackground()
	return &File{
		Camera: cameraSectionFrom(renderer.DefaultCameraConfig()),
		Render: renderSectionFrom(renderer.DefaultSamplingConfig()),
		Background: BackgroundSection{
			Bottom: colorFrom(background.Bottom),
			Top:    colorFrom(background.Top),
		},
		Materials: map[string]MaterialSpec{},
	}
}

// Build validates the file and constructs the scene. Spheres naming the same
// material share a single instance.
func (f *File) Build() (*Scene, error) {
	cameraConfig := f.Camera.Config()
	if err := cameraConfig.Validate(); err != nil {
		return nil, err
	}
	samplingConfig := f.Render.Config()
	if err := samplingConfig.Validate(); err != nil {
		return nil, err
	}

	// Build in name order so errors are reported deterministically
	names := make([]string, 0, len(f.Materials))
	for name := range f.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	materials := make(map[string]material.Material, len(f.Materials))
	for _, name := range names {
		m, err := f.Materials[name].build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = m
	}

	world := geometry.NewHittableList()
	for i, spec := range f.Spheres {
		m, ok := materials[spec.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: %w: %q", i, ErrUnknownMaterial, spec.Material)
		}
		world.Add(geometry.NewSphere(spec.Center.Vec3(), spec.Radius, m))
	}

	return &Scene{
		Name:           f.Name,
		Description:    f.Description,
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		Background: renderer.Background{
			Bottom: f.Background.Bottom.Vec3(),
			Top:    f.Background.Top.Vec3(),
		},
	}, nil
}

// DecodeFile reads a scene file over the renderer defaults. Unknown keys are rejected.
func DecodeFile(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading scene: %w", err)
	}

	f := NewFile()
	if err := yaml.UnmarshalStrict(data, f); err != nil {
		return nil, fmt.Errorf("error parsing scene: %w", err)
	}
	return f, nil
}

// Decode reads and builds a scene
func Decode(r io.Reader) (*Scene, error) {
	f, err := DecodeFile(r)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

// LoadFile reads and builds the scene stored at path
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scene file: %w", err)
	}

	s, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Encode writes f as YAML
func Encode(w io.Writer, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("error serializing scene: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing scene: %w", err)
	}
	return nil
}
