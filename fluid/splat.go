package fluid

import "math"

// Splat injects a Gaussian-falloff impulse into the velocity field and the
// same footprint of color into the dye field at normalized position (x, y).
// dx/dy are the velocity amounts in texels per second (pointer delta times
// splat force). Dye is blended additively, never overwritten: visual trails
// depend on accumulation. Each call consumes one write+swap cycle on both
// double buffers.
func (s *Solver) Splat(x, y, dx, dy, r, g, b float32) {
	radius := s.correctRadius(s.Params.SplatRadius)

	splatInto(s.velocity, x, y, radius, s.aspect, []float32{dx, dy})
	splatInto(s.dye, x, y, radius, s.aspect, []float32{r, g, b})
}

// correctRadius widens the splat along x when the surface is wider than
// tall, so splats stay circular in screen space.
func (s *Solver) correctRadius(radius float32) float32 {
	if s.aspect > 1 {
		radius *= s.aspect
	}
	return radius
}

// splatInto adds exp(-d²/radius) * amount around (cx, cy), with the x
// distance aspect-corrected.
func splatInto(buf *DoubleBuffer, cx, cy, radius, aspect float32, amount []float32) {
	src := buf.Read
	dst := buf.Write

	for y := 0; y < src.H; y++ {
		v := (float32(y) + 0.5) * src.TexelY
		py := v - cy
		for x := 0; x < src.W; x++ {
			u := (float32(x) + 0.5) * src.TexelX
			px := (u - cx) * aspect
			falloff := float32(math.Exp(float64(-(px*px + py*py) / radius)))

			base := (y*src.W + x) * src.Components
			for c := 0; c < src.Components; c++ {
				dst.Data[base+c] = src.Data[base+c] + amount[c]*falloff
			}
		}
	}
	buf.Swap()
}
