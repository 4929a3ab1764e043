package fluid

import (
	"math"
	"math/rand"
	"testing"
)

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float32
		r, g, b float32
	}{
		{"red", 0, 1, 1, 1, 0, 0},
		{"green", 1.0 / 3.0, 1, 1, 0, 1, 0},
		{"blue", 2.0 / 3.0, 1, 1, 0, 0, 1},
		{"white", 0, 0, 1, 1, 1, 1},
		{"black", 0.5, 1, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := HSVToRGB(tt.h, tt.s, tt.v)
			if math.Abs(float64(r-tt.r)) > 1e-5 ||
				math.Abs(float64(g-tt.g)) > 1e-5 ||
				math.Abs(float64(b-tt.b)) > 1e-5 {
				t.Errorf("HSVToRGB(%v, %v, %v) = (%v, %v, %v), want (%v, %v, %v)",
					tt.h, tt.s, tt.v, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestGenerateColorScaling(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		r, g, b := GenerateColor(rng)

		// Fully saturated HSV always has one channel at the value; scaled by
		// 0.6 the max channel must land exactly there.
		max := r
		if g > max {
			max = g
		}
		if b > max {
			max = b
		}
		if math.Abs(float64(max-0.6)) > 1e-5 {
			t.Fatalf("max channel = %v, want 0.6", max)
		}
		if r < 0 || g < 0 || b < 0 {
			t.Fatalf("negative channel in (%v, %v, %v)", r, g, b)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name             string
		value, min, max  float32
		want             float32
	}{
		{"in range", 0.3, 0, 1, 0.3},
		{"above", 1.5, 0, 1, 0.5},
		{"far above", 3.25, 0, 1, 0.25},
		{"below", -0.25, 0, 1, 0.75},
		{"at max", 1, 0, 1, 0},
		{"degenerate span", 0.7, 0.5, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.value, tt.min, tt.max)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("Wrap(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
			}
		})
	}
}
