package fluid

import (
	"math"
	"testing"
)

func TestFieldAtClampsToEdge(t *testing.T) {
	f := NewField(4, 4, 1, FilterNearest)
	f.Set(0, 0, 0, 1)
	f.Set(3, 3, 0, 2)

	tests := []struct {
		name string
		x, y int
		want float32
	}{
		{"negative x", -1, 0, 1},
		{"negative y", 0, -2, 1},
		{"past right edge", 5, 3, 2},
		{"past top edge", 3, 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.At(tt.x, tt.y, 0); got != tt.want {
				t.Errorf("At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSampleBilinear(t *testing.T) {
	// 2x2 grid: 1 2 / 3 4 (row 0 is the bottom row)
	f := NewField(2, 2, 1, FilterLinear)
	f.Set(0, 0, 0, 1)
	f.Set(1, 0, 0, 2)
	f.Set(0, 1, 0, 3)
	f.Set(1, 1, 0, 4)

	tests := []struct {
		name string
		u, v float32
		want float32
	}{
		{"texel center", 0.25, 0.25, 1},
		{"grid center", 0.5, 0.5, 2.5},
		{"bottom edge midpoint", 0.5, 0.25, 1.5},
		{"left edge midpoint", 0.25, 0.5, 2},
	}

	out := make([]float32, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.Sample(tt.u, tt.v, out)
			if math.Abs(float64(out[0]-tt.want)) > 1e-5 {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, out[0], tt.want)
			}
		})
	}
}

func TestSampleNearest(t *testing.T) {
	f := NewField(2, 2, 1, FilterNearest)
	f.Set(0, 0, 0, 1)
	f.Set(1, 1, 0, 4)

	out := make([]float32, 1)
	f.Sample(0.1, 0.1, out)
	if out[0] != 1 {
		t.Errorf("Sample(0.1, 0.1) = %v, want 1", out[0])
	}
	f.Sample(0.9, 0.9, out)
	if out[0] != 4 {
		t.Errorf("Sample(0.9, 0.9) = %v, want 4", out[0])
	}
}

func TestResizeNoopForSameSize(t *testing.T) {
	f := NewField(8, 8, 2, FilterLinear)
	f.Set(3, 3, 0, 5)

	if f.Resize(8, 8) {
		t.Error("Resize to same dimensions should return false")
	}
	if f.At(3, 3, 0) != 5 {
		t.Error("no-op resize must not touch data")
	}
}

func TestResizePreservesConstantField(t *testing.T) {
	f := NewField(4, 4, 1, FilterLinear)
	for i := range f.Data {
		f.Data[i] = 7
	}

	if !f.Resize(8, 8) {
		t.Fatal("Resize to new dimensions should return true")
	}
	if f.W != 8 || f.H != 8 {
		t.Fatalf("dimensions = %dx%d, want 8x8", f.W, f.H)
	}
	if math.Abs(float64(f.TexelX-0.125)) > 1e-6 {
		t.Errorf("TexelX = %v, want 0.125", f.TexelX)
	}
	for i, v := range f.Data {
		if math.Abs(float64(v-7)) > 1e-4 {
			t.Fatalf("Data[%d] = %v, want ~7 after resample", i, v)
		}
	}
}

func TestDoubleBufferSwap(t *testing.T) {
	b := NewDoubleBuffer(2, 2, 1, FilterNearest)
	b.Read.Set(0, 0, 0, 1)
	b.Write.Set(0, 0, 0, 2)

	b.Swap()

	if b.Read.At(0, 0, 0) != 2 || b.Write.At(0, 0, 0) != 1 {
		t.Error("Swap did not exchange read and write sides")
	}
}

func TestDoubleBufferResize(t *testing.T) {
	b := NewDoubleBuffer(4, 4, 1, FilterLinear)
	for i := range b.Read.Data {
		b.Read.Data[i] = 3
	}
	b.Write.Set(0, 0, 0, 9)

	if !b.Resize(8, 8) {
		t.Fatal("Resize to new dimensions should return true")
	}
	if b.Read.W != 8 || b.Write.W != 8 {
		t.Error("both sides should be resized")
	}
	if math.Abs(float64(b.Read.At(4, 4, 0)-3)) > 1e-4 {
		t.Error("read side content should be resampled forward")
	}
	for i, v := range b.Write.Data {
		if v != 0 {
			t.Fatalf("Write.Data[%d] = %v, want fresh zeroed write side", i, v)
		}
	}
}
