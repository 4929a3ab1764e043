package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Flags is the feature-keyword bitset selecting a display-shader variant.
type Flags uint8

const (
	// FlagShading enables the normal-based lighting pass.
	FlagShading Flags = 1 << iota
	// FlagManualFilter replaces hardware bilinear sampling with an explicit
	// 4-tap fetch, for contexts without linear filtering.
	FlagManualFilter
	// FlagTransparent makes output alpha the maximum dye channel instead of
	// compositing over the background color.
	FlagTransparent
)

// UniformLocs is the typed record of the display program's binding slots.
type UniformLocs struct {
	TexelSize int32
	BackColor int32
}

// Program is one compiled shader variant plus its uniform locations.
type Program struct {
	Shader rl.Shader
	Locs   UniformLocs
}

// Material caches compiled display-shader variants keyed by flags. Variants
// compile lazily on first selection and switching between compiled variants
// costs only a map lookup.
type Material struct {
	variants map[Flags]Program
	active   Flags
}

// NewMaterial creates an empty variant cache.
func NewMaterial() *Material {
	return &Material{variants: make(map[Flags]Program)}
}

// Select returns the program for the given flag set, compiling it if this is
// the first request. A compile or link failure is fatal for initialization
// and surfaces as an error.
func (m *Material) Select(flags Flags) (Program, error) {
	if prog, ok := m.variants[flags]; ok {
		m.active = flags
		return prog, nil
	}

	prog, err := compileDisplay(flags)
	if err != nil {
		return Program{}, err
	}
	m.variants[flags] = prog
	m.active = flags
	return prog, nil
}

// Active returns the most recently selected flag set.
func (m *Material) Active() Flags { return m.active }

// Unload releases every compiled variant.
func (m *Material) Unload() {
	for flags, prog := range m.variants {
		rl.UnloadShader(prog.Shader)
		delete(m.variants, flags)
	}
}

// variantSource assembles the fragment source with the keyword defines for
// the flag set.
func variantSource(flags Flags) string {
	src := "#version 330\n"
	if flags&FlagShading != 0 {
		src += "#define SHADING\n"
	}
	if flags&FlagManualFilter != 0 {
		src += "#define MANUAL_FILTERING\n"
	}
	if flags&FlagTransparent != 0 {
		src += "#define TRANSPARENT\n"
	}
	return src + displayFragSrc
}

// compileDisplay compiles a variant against raylib's default vertex shader.
func compileDisplay(flags Flags) (Program, error) {
	shader := rl.LoadShaderFromMemory("", variantSource(flags))
	if !rl.IsShaderValid(shader) {
		return Program{}, fmt.Errorf("renderer: display shader variant %#x failed to compile", uint8(flags))
	}

	return Program{
		Shader: shader,
		Locs: UniformLocs{
			TexelSize: rl.GetShaderLocation(shader, "texelSize"),
			BackColor: rl.GetShaderLocation(shader, "backColor"),
		},
	}, nil
}
