// Package fluid implements the grid-based incompressible-flow solver behind
// the splash-cursor effect: double-buffered velocity, dye and pressure
// fields, Gaussian impulse injection, vorticity confinement, a Jacobi
// pressure solve and semi-Lagrangian advection.
package fluid

// FilterMode selects how a Field is sampled between texels.
type FilterMode int

const (
	// FilterLinear samples with bilinear interpolation.
	FilterLinear FilterMode = iota
	// FilterNearest samples the nearest texel.
	FilterNearest
)

// Field is a 2D grid of numeric samples (vector or scalar) stored as a flat
// float32 slice, interleaved by component. It mirrors a GPU texture plus
// render target: fixed size, per-axis texel size, and a filtering mode.
type Field struct {
	W, H       int
	Components int
	TexelX     float32 // 1 / W
	TexelY     float32 // 1 / H
	Filter     FilterMode
	Data       []float32
}

// NewField allocates a zeroed field of the given size.
func NewField(w, h, components int, filter FilterMode) *Field {
	return &Field{
		W:          w,
		H:          h,
		Components: components,
		TexelX:     1.0 / float32(w),
		TexelY:     1.0 / float32(h),
		Filter:     filter,
		Data:       make([]float32, w*h*components),
	}
}

// Clear zeroes all samples.
func (f *Field) Clear() {
	for i := range f.Data {
		f.Data[i] = 0
	}
}

// idx returns the data offset of texel (x, y), clamped to the grid edge.
func (f *Field) idx(x, y int) int {
	if x < 0 {
		x = 0
	} else if x >= f.W {
		x = f.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.H {
		y = f.H - 1
	}
	return (y*f.W + x) * f.Components
}

// At returns component c of texel (x, y). Out-of-range coordinates clamp to
// the edge, matching clamp-to-edge texture sampling.
func (f *Field) At(x, y, c int) float32 {
	return f.Data[f.idx(x, y)+c]
}

// Set writes component c of texel (x, y).
func (f *Field) Set(x, y, c int, v float32) {
	f.Data[f.idx(x, y)+c] = v
}

// Sample reads the field at normalized coordinates (u, v) in [0, 1] into
// out, which must hold Components values. Texel centers sit at
// ((x+0.5)/W, (y+0.5)/H). Linear filtering does a 4-tap bilinear fetch;
// nearest returns the closest texel. This is also the explicit fallback used
// when hardware filtering is unavailable on the display side.
func (f *Field) Sample(u, v float32, out []float32) {
	if f.Filter == FilterNearest {
		x := int(u * float32(f.W))
		y := int(v * float32(f.H))
		base := f.idx(x, y)
		copy(out, f.Data[base:base+f.Components])
		return
	}

	fx := u*float32(f.W) - 0.5
	fy := v*float32(f.H) - 0.5
	x0 := floorInt(fx)
	y0 := floorInt(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	i00 := f.idx(x0, y0)
	i10 := f.idx(x0+1, y0)
	i01 := f.idx(x0, y0+1)
	i11 := f.idx(x0+1, y0+1)

	for c := 0; c < f.Components; c++ {
		a := f.Data[i00+c]*(1-tx) + f.Data[i10+c]*tx
		b := f.Data[i01+c]*(1-tx) + f.Data[i11+c]*tx
		out[c] = a*(1-ty) + b*ty
	}
}

// Resize reallocates the field at the new size, bilinearly resampling the
// old content forward. A resize never discards state, only resamples it.
// Returns false (no-op) when the dimensions are unchanged.
func (f *Field) Resize(w, h int) bool {
	if w == f.W && h == f.H {
		return false
	}

	old := *f
	f.W = w
	f.H = h
	f.TexelX = 1.0 / float32(w)
	f.TexelY = 1.0 / float32(h)
	f.Data = make([]float32, w*h*f.Components)

	sample := make([]float32, f.Components)
	for y := 0; y < h; y++ {
		v := (float32(y) + 0.5) / float32(h)
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(w)
			old.Sample(u, v, sample)
			copy(f.Data[(y*w+x)*f.Components:], sample)
		}
	}
	return true
}

// DoubleBuffer is an ordered read/write pair of identically shaped fields.
// A stage reads one side while writing the other; Swap exchanges the roles
// in O(1) after the stage completes.
type DoubleBuffer struct {
	Read  *Field
	Write *Field
}

// NewDoubleBuffer allocates two fields with identical parameters.
func NewDoubleBuffer(w, h, components int, filter FilterMode) *DoubleBuffer {
	return &DoubleBuffer{
		Read:  NewField(w, h, components, filter),
		Write: NewField(w, h, components, filter),
	}
}

// Swap exchanges the read and write sides.
func (b *DoubleBuffer) Swap() {
	b.Read, b.Write = b.Write, b.Read
}

// Resize resizes both sides. The read side is resampled to preserve its
// content; the write side is replaced with a fresh zeroed field, since its
// contents are transient between swaps. No-op when dimensions are unchanged.
func (b *DoubleBuffer) Resize(w, h int) bool {
	if w == b.Read.W && h == b.Read.H {
		return false
	}
	b.Read.Resize(w, h)
	b.Write = NewField(w, h, b.Read.Components, b.Read.Filter)
	return true
}

func floorInt(v float32) int {
	i := int(v)
	if v < 0 && float32(i) != v {
		i--
	}
	return i
}
