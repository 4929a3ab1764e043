package effect

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/telemetry"
)

// Draw renders the current dye field and the overlay UI. No-op when the
// effect runs headless.
func (e *Effect) Draw() {
	if e.display == nil {
		return
	}

	e.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	if e.transparent {
		rl.ClearBackground(rl.Blank)
	} else {
		rl.ClearBackground(rl.NewColor(e.backColor[0], e.backColor[1], e.backColor[2], 255))
	}

	e.display.Draw(e.solver.Dye(), e.screenW, e.screenH)

	if e.showPanel {
		changed := e.panel.Draw(&e.solver.Params, e.display)
		if changed {
			e.splatForce = e.solver.Params.SplatForce
		}
	}

	e.drawHUD()

	rl.EndDrawing()

	e.perf.EndPhase()
	e.perf.EndFrame()
}

// drawHUD prints the minimal status line.
func (e *Effect) drawHUD() {
	rl.DrawText(fmt.Sprintf("Frame: %d", e.frame), 10, 10, 20, rl.White)
	if !e.running {
		rl.DrawText("move the pointer to start", 10, 35, 20, rl.Gray)
	}
	if e.paused {
		rl.DrawText("PAUSED", 10, 35, 20, rl.Yellow)
	}
}
