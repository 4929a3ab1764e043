package fluid

import "math"

// GridSize maps a configured resolution to grid dimensions matching the
// display aspect ratio. The longer configured dimension goes to whichever
// screen axis is longer, so the grid aspect tracks the display in either
// orientation.
func GridSize(resolution int, screenW, screenH float32) (int, int) {
	aspect := screenW / screenH
	if aspect < 1 {
		aspect = 1 / aspect
	}

	shorter := resolution
	longer := int(math.Round(float64(float32(resolution) * aspect)))

	if screenW > screenH {
		return longer, shorter
	}
	return shorter, longer
}
