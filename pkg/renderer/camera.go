package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig describes the lens and image geometry
type CameraConfig struct {
	AspectRatio   float64   // Ratio of image width over height
	ImageWidth    int       // Rendered image width in pixels
	VFov          float64   // Vertical field of view in degrees
	LookFrom      core.Vec3 // Camera position
	LookAt        core.Vec3 // Point the camera looks at
	VUp           core.Vec3 // Camera-relative "up" direction
	DefocusAngle  float64   // Variation angle of rays through each pixel, 0 disables depth of field
	FocusDistance float64   // Distance from LookFrom to the plane of perfect focus
}

// DefaultCameraConfig returns the camera used when nothing else is specified
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:   1.0,
		ImageWidth:    100,
		VFov:          90,
		LookFrom:      core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		VUp:           core.NewVec3(0, 1, 0),
		DefocusAngle:  0,
		FocusDistance: 10,
	}
}

// ImageHeight derives the image height from width and aspect ratio, at least 1
func (c CameraConfig) ImageHeight() int {
	return max(1, int(float64(c.ImageWidth)/c.AspectRatio))
}

// Validate reports configurations that cannot produce a view basis
func (c CameraConfig) Validate() error {
	switch {
	case c.ImageWidth <= 0:
		return fmt.Errorf("%w: image width must be positive, got %d", ErrInvalidCamera, c.ImageWidth)
	case !(c.AspectRatio > 0) || math.IsInf(c.AspectRatio, 0):
		return fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalidCamera, c.AspectRatio)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical fov must be in (0, 180), got %g", ErrInvalidCamera, c.VFov)
	case !(c.FocusDistance > 0):
		return fmt.Errorf("%w: focus distance must be positive, got %g", ErrInvalidCamera, c.FocusDistance)
	case !(c.DefocusAngle >= 0 && c.DefocusAngle < 180):
		return fmt.Errorf("%w: defocus angle must be in [0, 180), got %g", ErrInvalidCamera, c.DefocusAngle)
	}

	view := c.LookFrom.Subtract(c.LookAt)
	if view.LengthSquared() == 0 {
		return fmt.Errorf("%w: look-from and look-at coincide", ErrInvalidCamera)
	}
	if c.VUp.Cross(view).LengthSquared() == 0 {
		return fmt.Errorf("%w: up vector is parallel to the view direction", ErrInvalidCamera)
	}
	return nil
}

// Camera holds the view state derived from a CameraConfig
type Camera struct {
	config       CameraConfig
	imageHeight  int
	center       core.Vec3 // Camera center
	pixel00Loc   core.Vec3 // Location of pixel 0, 0
	pixelDeltaU  core.Vec3 // Offset to pixel to the right
	pixelDeltaV  core.Vec3 // Offset to pixel below
	u, v, w      core.Vec3 // Camera frame basis vectors
	defocusDiskU core.Vec3 // Defocus disk horizontal radius
	defocusDiskV core.Vec3 // Defocus disk vertical radius
}

// NewCamera derives the view basis and pixel grid. The config must be valid.
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{config: config}
	c.imageHeight = config.ImageHeight()
	c.center = config.LookFrom

	// Viewport dimensions at the focus plane
	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * (float64(config.ImageWidth) / float64(c.imageHeight))

	// Orthonormal camera basis
	c.w = config.LookFrom.Subtract(config.LookAt).Normalize()
	c.u = config.VUp.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := c.u.Multiply(viewportWidth)
	viewportV := c.v.Negate().Multiply(viewportHeight)

	c.pixelDeltaU = viewportU.Divide(float64(config.ImageWidth))
	c.pixelDeltaV = viewportV.Divide(float64(c.imageHeight))

	viewportUpperLeft := c.center.
		Subtract(c.w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	c.pixel00Loc = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDistance * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))
	c.defocusDiskU = c.u.Multiply(defocusRadius)
	c.defocusDiskV = c.v.Multiply(defocusRadius)

	return c
}

// ImageWidth returns the rendered image width in pixels
func (c *Camera) ImageWidth() int {
	return c.config.ImageWidth
}

// ImageHeight returns the rendered image height in pixels
func (c *Camera) ImageHeight() int {
	return c.imageHeight
}

// Center returns the camera position
func (c *Camera) Center() core.Vec3 {
	return c.center
}

// GetRay constructs a ray originating from the defocus disk and directed at
// a randomly sampled point around pixel (i, j)
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := core.SampleSquare(sampler)
	pixelSample := c.pixelLocation(float64(i)+offset.X, float64(j)+offset.Y)

	rayOrigin := c.center
	if c.config.DefocusAngle > 0 {
		rayOrigin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(rayOrigin, pixelSample.Subtract(rayOrigin))
}

// CenterRay returns the ray from the camera center through the middle of pixel (i, j)
func (c *Camera) CenterRay(i, j int) core.Ray {
	return core.NewRay(c.center, c.pixelLocation(float64(i), float64(j)).Subtract(c.center))
}

func (c *Camera) pixelLocation(x, y float64) core.Vec3 {
	return c.pixel00Loc.
		Add(c.pixelDeltaU.Multiply(x)).
		Add(c.pixelDeltaV.Multiply(y))
}

// defocusDiskSample returns a random point on the camera defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Vec3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}
