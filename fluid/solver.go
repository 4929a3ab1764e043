package fluid

import (
	"math"
	"time"
)

// Velocity components are clamped to this bound after the vorticity force,
// the dominant source of blow-up from degenerate input deltas.
const velocityClamp = 1000.0

// Params holds the live solver parameters. All values can change between
// frames; resolution changes go through Resize instead.
type Params struct {
	VelocityDissipation float32
	DensityDissipation  float32
	Pressure            float32 // fraction of prior pressure retained at solve start
	PressureIterations  int
	Curl                float32
	SplatRadius         float32 // normalized, already divided by 100
	SplatForce          float32
}

// StageTimings reports how long each integration stage took, for telemetry.
type StageTimings struct {
	Curl           time.Duration
	Vorticity      time.Duration
	Divergence     time.Duration
	Pressure       time.Duration
	Gradient       time.Duration
	AdvectVelocity time.Duration
	AdvectDye      time.Duration
}

// Solver owns the simulation fields and advances them one time step per
// frame. Velocity is stored in texels per second; multiplying by the texel
// size yields displacement in normalized coordinates, matching the splat
// force scale.
type Solver struct {
	Params Params

	velocity *DoubleBuffer // 2 components
	dye      *DoubleBuffer // 3 components, usually higher resolution
	pressure *DoubleBuffer // 1 component
	div      *Field        // scratch, 1 component
	curl     *Field        // scratch, 1 component

	aspect float32 // display width / height, for aspect-corrected splats
}

// NewSolver allocates all fields. simW/simH size the velocity, pressure,
// divergence and curl grids; dyeW/dyeH size the dye grid. aspect is the
// display aspect ratio (width / height).
func NewSolver(simW, simH, dyeW, dyeH int, aspect float32, params Params) *Solver {
	return &Solver{
		Params:   params,
		velocity: NewDoubleBuffer(simW, simH, 2, FilterLinear),
		dye:      NewDoubleBuffer(dyeW, dyeH, 3, FilterLinear),
		pressure: NewDoubleBuffer(simW, simH, 1, FilterNearest),
		div:      NewField(simW, simH, 1, FilterNearest),
		curl:     NewField(simW, simH, 1, FilterNearest),
		aspect:   aspect,
	}
}

// Dye returns the current visible color field.
func (s *Solver) Dye() *Field { return s.dye.Read }

// Velocity returns the current velocity field.
func (s *Solver) Velocity() *Field { return s.velocity.Read }

// Resize re-derives all grids for a new display size, preserving content by
// resampling. No-op for unchanged dimensions.
func (s *Solver) Resize(simW, simH, dyeW, dyeH int, aspect float32) {
	s.aspect = aspect
	if s.velocity.Resize(simW, simH) {
		s.pressure.Resize(simW, simH)
		s.div.Resize(simW, simH)
		s.curl.Resize(simW, simH)
	}
	s.dye.Resize(dyeW, dyeH)
}

// Step advances the physical state by dt seconds: vorticity confinement,
// pressure projection, then self-advection of velocity and dye.
func (s *Solver) Step(dt float32) StageTimings {
	var t StageTimings
	start := time.Now()

	s.computeCurl()
	t.Curl = time.Since(start)
	start = time.Now()

	s.applyVorticity(dt)
	t.Vorticity = time.Since(start)
	start = time.Now()

	s.computeDivergence()
	t.Divergence = time.Since(start)
	start = time.Now()

	s.solvePressure()
	t.Pressure = time.Since(start)
	start = time.Now()

	s.subtractGradient()
	t.Gradient = time.Since(start)
	start = time.Now()

	s.advectVelocity(dt)
	t.AdvectVelocity = time.Since(start)
	start = time.Now()

	s.advectDye(dt)
	t.AdvectDye = time.Since(start)

	return t
}

// computeCurl evaluates the scalar curl of velocity by central differences.
func (s *Solver) computeCurl() {
	vel := s.velocity.Read
	for y := 0; y < vel.H; y++ {
		for x := 0; x < vel.W; x++ {
			l := vel.At(x-1, y, 1)
			r := vel.At(x+1, y, 1)
			t := vel.At(x, y+1, 0)
			b := vel.At(x, y-1, 0)
			s.curl.Set(x, y, 0, 0.5*(r-l-t+b))
		}
	}
}

// applyVorticity adds the confinement force: the normalized gradient of
// |curl|, scaled by the configured strength and the local curl sign. This
// counteracts the numerical damping of small eddies at low grid resolution.
// Velocity is clamped here, the single clamp site.
func (s *Solver) applyVorticity(dt float32) {
	vel := s.velocity.Read
	out := s.velocity.Write
	strength := s.Params.Curl

	for y := 0; y < vel.H; y++ {
		for x := 0; x < vel.W; x++ {
			l := absf(s.curl.At(x-1, y, 0))
			r := absf(s.curl.At(x+1, y, 0))
			t := absf(s.curl.At(x, y+1, 0))
			b := absf(s.curl.At(x, y-1, 0))
			c := s.curl.At(x, y, 0)

			fx := 0.5 * (t - b)
			fy := 0.5 * (r - l)
			invLen := 1.0 / (float32(math.Sqrt(float64(fx*fx+fy*fy))) + 1e-4)
			fx *= invLen * strength * c
			fy *= -invLen * strength * c

			u := clampf(vel.At(x, y, 0)+fx*dt, -velocityClamp, velocityClamp)
			v := clampf(vel.At(x, y, 1)+fy*dt, -velocityClamp, velocityClamp)
			out.Set(x, y, 0, u)
			out.Set(x, y, 1, v)
		}
	}
	s.velocity.Swap()
}

// computeDivergence evaluates the velocity divergence with reflective
// boundaries: the normal component mirrors at the grid edge so walls do not
// act as sources or sinks.
func (s *Solver) computeDivergence() {
	vel := s.velocity.Read
	w, h := vel.W, vel.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := vel.At(x-1, y, 0)
			r := vel.At(x+1, y, 0)
			t := vel.At(x, y+1, 1)
			b := vel.At(x, y-1, 1)

			if x == 0 {
				l = -vel.At(x, y, 0)
			}
			if x == w-1 {
				r = -vel.At(x, y, 0)
			}
			if y == h-1 {
				t = -vel.At(x, y, 1)
			}
			if y == 0 {
				b = -vel.At(x, y, 1)
			}

			s.div.Set(x, y, 0, 0.5*(r-l+t-b))
		}
	}
}

// solvePressure seeds the pressure field with a fraction of the previous
// frame's solution, then runs the configured number of Jacobi sweeps on the
// discrete Poisson equation. Partial reuse converges faster across frames
// than a hard zero reset.
func (s *Solver) solvePressure() {
	keep := s.Params.Pressure
	read := s.pressure.Read
	write := s.pressure.Write
	for i := range read.Data {
		write.Data[i] = read.Data[i] * keep
	}
	s.pressure.Swap()

	for iter := 0; iter < s.Params.PressureIterations; iter++ {
		p := s.pressure.Read
		out := s.pressure.Write
		for y := 0; y < p.H; y++ {
			for x := 0; x < p.W; x++ {
				l := p.At(x-1, y, 0)
				r := p.At(x+1, y, 0)
				t := p.At(x, y+1, 0)
				b := p.At(x, y-1, 0)
				out.Set(x, y, 0, (l+r+t+b-s.div.At(x, y, 0))*0.25)
			}
		}
		s.pressure.Swap()
	}
}

// subtractGradient removes the pressure gradient from velocity, enforcing
// the divergence-free constraint.
func (s *Solver) subtractGradient() {
	p := s.pressure.Read
	vel := s.velocity.Read
	out := s.velocity.Write

	for y := 0; y < vel.H; y++ {
		for x := 0; x < vel.W; x++ {
			l := p.At(x-1, y, 0)
			r := p.At(x+1, y, 0)
			t := p.At(x, y+1, 0)
			b := p.At(x, y-1, 0)
			out.Set(x, y, 0, vel.At(x, y, 0)-(r-l))
			out.Set(x, y, 1, vel.At(x, y, 1)-(t-b))
		}
	}
	s.velocity.Swap()
}

// advectVelocity semi-Lagrangian advects the velocity field through itself:
// trace backward along the local velocity by dt, resample bilinearly, and
// apply exponential dissipation.
func (s *Solver) advectVelocity(dt float32) {
	vel := s.velocity.Read
	out := s.velocity.Write
	decay := 1.0 / (1.0 + s.Params.VelocityDissipation*dt)

	var sample [2]float32
	for y := 0; y < vel.H; y++ {
		v := (float32(y) + 0.5) * vel.TexelY
		for x := 0; x < vel.W; x++ {
			u := (float32(x) + 0.5) * vel.TexelX
			base := (y*vel.W + x) * 2
			cu := u - dt*vel.Data[base]*vel.TexelX
			cv := v - dt*vel.Data[base+1]*vel.TexelY
			vel.Sample(cu, cv, sample[:])
			out.Data[base] = sample[0] * decay
			out.Data[base+1] = sample[1] * decay
		}
	}
	s.velocity.Swap()
}

// advectDye advects the dye field by the final velocity with its own,
// typically lower, dissipation rate.
func (s *Solver) advectDye(dt float32) {
	vel := s.velocity.Read
	dye := s.dye.Read
	out := s.dye.Write
	decay := 1.0 / (1.0 + s.Params.DensityDissipation*dt)

	var velSample [2]float32
	var dyeSample [3]float32
	for y := 0; y < dye.H; y++ {
		v := (float32(y) + 0.5) * dye.TexelY
		for x := 0; x < dye.W; x++ {
			u := (float32(x) + 0.5) * dye.TexelX
			vel.Sample(u, v, velSample[:])
			cu := u - dt*velSample[0]*vel.TexelX
			cv := v - dt*velSample[1]*vel.TexelY
			dye.Sample(cu, cv, dyeSample[:])
			base := (y*dye.W + x) * 3
			out.Data[base] = dyeSample[0] * decay
			out.Data[base+1] = dyeSample[1] * decay
			out.Data[base+2] = dyeSample[2] * decay
		}
	}
	s.dye.Swap()
}

// DyeMass returns the summed magnitude of all dye samples.
func (s *Solver) DyeMass() float64 {
	var sum float64
	for _, v := range s.dye.Read.Data {
		sum += float64(v)
	}
	return sum
}

// DyeMax returns the largest dye sample.
func (s *Solver) DyeMax() float64 {
	var m float64
	for _, v := range s.dye.Read.Data {
		if float64(v) > m {
			m = float64(v)
		}
	}
	return m
}

// MaxVelocity returns the largest velocity component magnitude.
func (s *Solver) MaxVelocity() float64 {
	var m float64
	for _, v := range s.velocity.Read.Data {
		a := math.Abs(float64(v))
		if a > m {
			m = a
		}
	}
	return m
}

// MeanAbsDivergence recomputes the divergence of the current velocity field
// and returns its mean magnitude over the grid. Diagnostic only; the solver
// keeps its own scratch divergence from the last projection.
func (s *Solver) MeanAbsDivergence() float64 {
	vel := s.velocity.Read
	w, h := vel.W, vel.H
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := vel.At(x-1, y, 0)
			r := vel.At(x+1, y, 0)
			t := vel.At(x, y+1, 1)
			b := vel.At(x, y-1, 1)
			if x == 0 {
				l = -vel.At(x, y, 0)
			}
			if x == w-1 {
				r = -vel.At(x, y, 0)
			}
			if y == h-1 {
				t = -vel.At(x, y, 1)
			}
			if y == 0 {
				b = -vel.At(x, y, 1)
			}
			sum += math.Abs(float64(0.5 * (r - l + t - b)))
		}
	}
	return sum / float64(w*h)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
