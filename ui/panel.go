// Package ui renders the overlay parameter panel: raygui sliders bound to
// the live solver parameters.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/fluid"
	"github.com/pthm-cable/ripple/renderer"
)

const (
	panelX      = float32(10)
	panelTop    = float32(70)
	panelWidth  = float32(260)
	sliderWidth = panelWidth - 60
)

// Panel is the overlay control panel. It owns no simulation state; Draw
// mutates the params it is handed.
type Panel struct{}

// NewPanel creates the panel.
func NewPanel() *Panel {
	return &Panel{}
}

// Draw renders the panel and applies any slider changes to params. Returns
// true when a value changed this frame.
func (p *Panel) Draw(params *fluid.Params, display *renderer.Display) bool {
	y := panelTop
	changed := false

	rl.DrawRectangle(int32(panelX)-5, int32(y)-10, int32(panelWidth), 330, rl.Fade(rl.Black, 0.5))
	rl.DrawText("Simulation", int32(panelX), int32(y), 20, rl.RayWhite)
	y += 30

	changed = p.slider(&y, "velocity dissipation", &params.VelocityDissipation, 0, 4) || changed
	changed = p.slider(&y, "density dissipation", &params.DensityDissipation, 0, 8) || changed
	changed = p.slider(&y, "pressure", &params.Pressure, 0, 1) || changed

	iters := float32(params.PressureIterations)
	if p.slider(&y, "pressure iterations", &iters, 1, 60) {
		params.PressureIterations = int(iters)
		changed = true
	}

	changed = p.slider(&y, "curl strength", &params.Curl, 0, 50) || changed

	radius := params.SplatRadius * 100
	if p.slider(&y, "splat radius", &radius, 0.01, 1) {
		params.SplatRadius = radius / 100
		changed = true
	}

	changed = p.slider(&y, "splat force", &params.SplatForce, 1000, 12000) || changed

	if display != nil {
		shading := gui.CheckBox(
			rl.Rectangle{X: panelX, Y: y, Width: 20, Height: 20},
			"shading", display.Shading(),
		)
		if shading != display.Shading() {
			if err := display.SetShading(shading); err == nil {
				changed = true
			}
		}
	}

	return changed
}

// slider draws one labeled slider and advances the layout cursor.
func (p *Panel) slider(y *float32, label string, value *float32, min, max float32) bool {
	rl.DrawText(label, int32(panelX), int32(*y), 14, rl.LightGray)
	*y += 18

	next := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: *y, Width: sliderWidth, Height: 16},
		"", "",
		*value, min, max,
	)
	rl.DrawText(fmt.Sprintf("%.2f", *value), int32(panelX+sliderWidth+8), int32(*y), 14, rl.LightGray)
	*y += 24

	if next != *value {
		*value = next
		return true
	}
	return false
}
