package output

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// intensity keeps scaled channels below 256 so truncation yields a byte
var intensity = core.NewInterval(0.000, 0.999)

// LinearToGamma applies gamma 2 correction; non-positive values map to 0
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// ToRGB8 encodes a linear colour for display: gamma 2, clamp to
// [0, 0.999], scale by 256 and truncate. All channels share one scale.
func ToRGB8(c core.Vec3) [3]uint8 {
	return [3]uint8{
		encodeChannel(c.X),
		encodeChannel(c.Y),
		encodeChannel(c.Z),
	}
}

func encodeChannel(linear float64) uint8 {
	// NaN fails every comparison in Clamp; treat it as black
	if math.IsNaN(linear) {
		return 0
	}
	return uint8(256 * intensity.Clamp(LinearToGamma(linear)))
}
