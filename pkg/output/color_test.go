package output

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestToRGB8(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Vec3
		expected [3]uint8
	}{
		{"pure red", core.NewVec3(1, 0, 0), [3]uint8{255, 0, 0}},
		{"white", core.NewVec3(1, 1, 1), [3]uint8{255, 255, 255}},
		{"black", core.NewVec3(0, 0, 0), [3]uint8{0, 0, 0}},
		{"quarter intensity is half after gamma", core.NewVec3(0.25, 0.25, 0.25), [3]uint8{128, 128, 128}},
		{"overflow clamps", core.NewVec3(4, 2, 1.5), [3]uint8{255, 255, 255}},
		{"negative clamps to zero", core.NewVec3(-1, -0.5, 0), [3]uint8{0, 0, 0}},
		{"channels share the same scale", core.NewVec3(0.5, 0.5, 0.5), [3]uint8{181, 181, 181}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB8(tt.color); got != tt.expected {
				t.Errorf("ToRGB8(%v) = %v, expected %v", tt.color, got, tt.expected)
			}
		})
	}
}

func TestToRGB8_NaNIsBlack(t *testing.T) {
	got := ToRGB8(core.NewVec3(math.NaN(), 1, math.NaN()))
	if got != [3]uint8{0, 255, 0} {
		t.Errorf("Expected NaN channels to encode as 0, got %v", got)
	}
}

func TestLinearToGamma(t *testing.T) {
	if LinearToGamma(-2) != 0 {
		t.Error("Negative input should map to 0")
	}
	if g := LinearToGamma(0.81); math.Abs(g-0.9) > 1e-12 {
		t.Errorf("Expected 0.9, got %f", g)
	}
}
