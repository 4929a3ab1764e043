package fluid

import "math/rand"

// HSVToRGB converts hue/saturation/value in [0, 1] to RGB in [0, 1].
func HSVToRGB(h, s, v float32) (r, g, b float32) {
	i := int(h * 6)
	f := h*6 - float32(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// GenerateColor returns a fully saturated random-hue splat color, with the
// value scaled down to avoid over-saturating the dye field.
func GenerateColor(rng *rand.Rand) (r, g, b float32) {
	r, g, b = HSVToRGB(rng.Float32(), 1.0, 1.0)
	return r * 0.6, g * 0.6, b * 0.6
}

// Wrap folds value into [min, max).
func Wrap(value, min, max float32) float32 {
	span := max - min
	if span == 0 {
		return min
	}
	for value >= max {
		value -= span
	}
	for value < min {
		value += span
	}
	return value
}
