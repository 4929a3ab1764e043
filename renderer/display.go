package renderer

import (
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/fluid"
)

// Display draws the current dye field to the visible surface. It owns the
// upload texture and the display material; it holds no simulation state.
// The texture uses the probed 4-channel format: the float path keeps dye
// accumulation above 1.0 intact, the byte path is the probed fallback.
type Display struct {
	caps     Capabilities
	material *Material

	texture     rl.Texture2D
	pixels      []color.RGBA // byte fallback upload buffer
	floatPixels []float32    // RGBA float upload buffer
	w, h        int

	flags     Flags
	backColor [3]float32
}

// NewDisplay builds the display pass for the probed capabilities. shading is
// forced off when linear filtering is unsupported; the manual-bilinear
// variant is selected in that case. Shader compile failure is returned as an
// error and aborts setup.
func NewDisplay(caps Capabilities, shading, transparent bool, backColor [3]uint8) (*Display, error) {
	var flags Flags
	if !caps.Linear {
		flags |= FlagManualFilter
		shading = false
	}
	if shading {
		flags |= FlagShading
	}
	if transparent {
		flags |= FlagTransparent
	}

	d := &Display{
		caps:     caps,
		material: NewMaterial(),
		flags:    flags,
		backColor: [3]float32{
			float32(backColor[0]) / 255,
			float32(backColor[1]) / 255,
			float32(backColor[2]) / 255,
		},
	}
	if _, err := d.material.Select(flags); err != nil {
		return nil, err
	}
	return d, nil
}

// SetShading toggles the lighting pass, recompiling the variant only on the
// first switch to a new flag combination. Ignored when linear filtering is
// unsupported.
func (d *Display) SetShading(on bool) error {
	if !d.caps.Linear {
		return nil
	}
	flags := d.flags &^ FlagShading
	if on {
		flags |= FlagShading
	}
	if flags == d.flags {
		return nil
	}
	if _, err := d.material.Select(flags); err != nil {
		return err
	}
	d.flags = flags
	return nil
}

// Shading reports whether the lighting pass is active.
func (d *Display) Shading() bool { return d.flags&FlagShading != 0 }

// Draw uploads the dye field and renders it across the given surface size.
func (d *Display) Draw(dye *fluid.Field, screenW, screenH float32) {
	d.ensureTexture(dye.W, dye.H)
	d.upload(dye)

	prog := d.material.variants[d.flags]
	rl.SetShaderValue(prog.Shader, prog.Locs.TexelSize,
		[]float32{dye.TexelX, dye.TexelY}, rl.ShaderUniformVec2)
	rl.SetShaderValue(prog.Shader, prog.Locs.BackColor,
		d.backColor[:], rl.ShaderUniformVec3)

	rl.BeginShaderMode(prog.Shader)
	rl.DrawTexturePro(
		d.texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(d.w), Height: float32(d.h)},
		rl.Rectangle{X: 0, Y: 0, Width: screenW, Height: screenH},
		rl.Vector2{X: 0, Y: 0},
		0,
		rl.White,
	)
	rl.EndShaderMode()
}

// ensureTexture recreates the upload texture in the probed 4-channel format
// when the dye dimensions change.
func (d *Display) ensureTexture(w, h int) {
	if w == d.w && h == d.h && d.texture.ID != 0 {
		return
	}
	if d.texture.ID != 0 {
		rl.UnloadTexture(d.texture)
	}

	if d.caps.FloatTextures {
		// The image borrows Go-owned data, so it is not unloaded.
		data := make([]byte, w*h*bytesPerPixel(d.caps.Format4))
		img := rl.NewImage(data, int32(w), int32(h), 1, d.caps.Format4)
		d.texture = rl.LoadTextureFromImage(img)
		d.floatPixels = make([]float32, w*h*4)
		d.pixels = nil
	} else {
		img := rl.GenImageColor(w, h, rl.Black)
		d.texture = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		d.pixels = make([]color.RGBA, w*h)
		d.floatPixels = nil
	}

	if d.caps.Linear {
		rl.SetTextureFilter(d.texture, rl.FilterBilinear)
	} else {
		rl.SetTextureFilter(d.texture, rl.FilterPoint)
	}

	d.w = w
	d.h = h
}

// upload packs dye samples into the texture's pixel layout and pushes them to
// the GPU.
func (d *Display) upload(dye *fluid.Field) {
	if d.caps.FloatTextures {
		d.packFloat(dye)
		rl.UpdateTexture(d.texture, rgbaView(d.floatPixels))
		return
	}
	d.packBytes(dye)
	rl.UpdateTexture(d.texture, d.pixels)
}

// packFloat copies dye samples into the RGBA float buffer unclamped, flipping
// rows since the grid's y axis points up while texture row 0 is the top.
func (d *Display) packFloat(dye *fluid.Field) {
	for y := 0; y < dye.H; y++ {
		row := (dye.H - 1 - y) * dye.W
		for x := 0; x < dye.W; x++ {
			base := (y*dye.W + x) * 3
			out := (row + x) * 4
			d.floatPixels[out] = dye.Data[base]
			d.floatPixels[out+1] = dye.Data[base+1]
			d.floatPixels[out+2] = dye.Data[base+2]
			d.floatPixels[out+3] = 1
		}
	}
}

// packBytes converts dye samples to clamped 8-bit pixels with the same row
// flip, for contexts that rejected the float format.
func (d *Display) packBytes(dye *fluid.Field) {
	for y := 0; y < dye.H; y++ {
		row := (dye.H - 1 - y) * dye.W
		for x := 0; x < dye.W; x++ {
			base := (y*dye.W + x) * 3
			d.pixels[row+x] = color.RGBA{
				R: toByte(dye.Data[base]),
				G: toByte(dye.Data[base+1]),
				B: toByte(dye.Data[base+2]),
				A: 255,
			}
		}
	}
}

// rgbaView reinterprets the packed float buffer for UpdateTexture, which
// copies width*height*bytesPerPixel from the slice pointer according to the
// texture's own format.
func rgbaView(f []float32) []color.RGBA {
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&f[0])), len(f))
}

// Unload releases the texture and every compiled shader variant.
func (d *Display) Unload() {
	if d.texture.ID != 0 {
		rl.UnloadTexture(d.texture)
		d.texture = rl.Texture2D{}
	}
	d.material.Unload()
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
