package effect

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/pointer"
)

// pollInput translates raylib input into pointer events and handles the
// keyboard controls. Graphical mode only.
func (e *Effect) pollInput() {
	e.handleResize()

	if rl.IsKeyPressed(rl.KeySpace) {
		e.paused = !e.paused
	}
	if rl.IsKeyPressed(rl.KeyS) && e.display != nil {
		if err := e.display.SetShading(!e.display.Shading()); err != nil {
			// Variant failed to compile mid-run; keep the previous one.
			slog.Warn("shading variant compile failed", "error", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		e.showPanel = !e.showPanel
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	e.pollMouse()
	e.pollTouch()
}

// pollMouse emits press/move/release events for the synthetic mouse pointer.
// Hover movement splats too; that is the point of a cursor effect.
func (e *Effect) pollMouse() {
	pos := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		e.tracker.Push(pointer.Event{Kind: pointer.Press, ID: pointer.MouseID, X: pos.X, Y: pos.Y})
	}

	if !e.mouseSeen {
		e.mouseSeen = true
	} else if pos.X != e.lastMouseX || pos.Y != e.lastMouseY {
		e.tracker.Push(pointer.Event{Kind: pointer.MoveTo, ID: pointer.MouseID, X: pos.X, Y: pos.Y})
	}
	e.lastMouseX = pos.X
	e.lastMouseY = pos.Y

	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		e.tracker.Push(pointer.Event{Kind: pointer.Release, ID: pointer.MouseID})
	}
}

// pollTouch diffs the active touch set against last frame's, synthesizing
// press events for new ids, move events for continuing ones, and release
// events for ids that disappeared.
func (e *Effect) pollTouch() {
	seen := make(map[int32]bool)

	count := rl.GetTouchPointCount()
	for i := int32(0); i < count; i++ {
		id := rl.GetTouchPointId(i)
		pos := rl.GetTouchPosition(i)
		seen[id] = true

		kind := pointer.MoveTo
		if !e.activeTouches[id] {
			kind = pointer.Press
		}
		e.tracker.Push(pointer.Event{Kind: kind, ID: id, X: pos.X, Y: pos.Y})
	}

	for id := range e.activeTouches {
		if !seen[id] {
			e.tracker.Push(pointer.Event{Kind: pointer.Release, ID: id})
		}
	}
	e.activeTouches = seen
}

// handleResize checks for window resize and re-derives grid resolutions.
func (e *Effect) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == e.screenW && h == e.screenH {
		return
	}
	e.Resize(w, h)
}
