// Package renderer presents the dye field on the visible surface: it probes
// the context's texture capabilities, keeps a cache of display-shader
// variants keyed by feature flags, and draws the upload each frame.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Capabilities reports what the rendering context supports. Produced once by
// Probe after the window exists; zero value means no usable context.
type Capabilities struct {
	// Best supported pixel format per channel width.
	Format4 rl.PixelFormat
	Format2 rl.PixelFormat
	Format1 rl.PixelFormat

	// FloatTextures is true when a float format was accepted for the
	// 4-channel cascade.
	FloatTextures bool

	// Linear is true when the context can filter the selected formats
	// bilinearly. When false the caller must reduce dye resolution, disable
	// shading, and compile the manual-bilinear display variant.
	Linear bool
}

// format cascades, best first. The last entry of each is the legacy format
// every context accepts.
var (
	cascade4 = []rl.PixelFormat{
		rl.UncompressedR32g32b32a32,
		rl.UncompressedR8g8b8a8,
	}
	cascade2 = []rl.PixelFormat{
		rl.UncompressedR32g32b32,
		rl.UncompressedGrayAlpha,
	}
	cascade1 = []rl.PixelFormat{
		rl.UncompressedR32,
		rl.UncompressedGrayscale,
	}
)

// Probe selects the best supported format for each channel width by
// attempting an empty texture creation and walking down the cascade on
// failure. Must run after the rendering context is initialized.
func Probe() Capabilities {
	var caps Capabilities
	caps.Format4 = firstSupported(cascade4)
	caps.Format2 = firstSupported(cascade2)
	caps.Format1 = firstSupported(cascade1)

	caps.FloatTextures = floatSupported(caps.Format4, caps.Format2, caps.Format1)
	// Linear filtering of float textures needs the float-filter extension;
	// contexts that rejected the float formats are the same class that lack
	// it, so the two degrade together.
	caps.Linear = caps.FloatTextures

	return caps
}

// floatSupported reports whether every probed channel width landed on its
// float format. A context that accepts the wide float format but rejects the
// narrow ones has unreliable float texturing and gets the byte path.
func floatSupported(f4, f2, f1 rl.PixelFormat) bool {
	return f4 == rl.UncompressedR32g32b32a32 &&
		f2 == rl.UncompressedR32g32b32 &&
		f1 == rl.UncompressedR32
}

// firstSupported returns the first format in the cascade for which an empty
// texture can be created. Falls back to the cascade's last entry.
func firstSupported(cascade []rl.PixelFormat) rl.PixelFormat {
	for _, format := range cascade {
		if textureCreates(format) {
			return format
		}
	}
	return cascade[len(cascade)-1]
}

// textureCreates allocates a tiny texture in the given format and reports
// whether the context accepted it.
func textureCreates(format rl.PixelFormat) bool {
	const side = 4
	data := make([]byte, side*side*bytesPerPixel(format))
	img := rl.NewImage(data, side, side, 1, format)
	tex := rl.LoadTextureFromImage(img)
	if tex.ID == 0 {
		return false
	}
	rl.UnloadTexture(tex)
	return true
}

func bytesPerPixel(format rl.PixelFormat) int {
	switch format {
	case rl.UncompressedGrayscale:
		return 1
	case rl.UncompressedGrayAlpha:
		return 2
	case rl.UncompressedR8g8b8a8:
		return 4
	case rl.UncompressedR32:
		return 4
	case rl.UncompressedR32g32b32:
		return 12
	case rl.UncompressedR32g32b32a32:
		return 16
	default:
		return 4
	}
}
