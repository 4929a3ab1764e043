// Package effect owns one mounted instance of the splash-cursor simulation:
// the frame loop, input wiring, periodic synthetic splats, resize handling
// and teardown. All simulation state is scoped to the Effect value; nothing
// lives at package level, so multiple instances never alias.
package effect

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/fluid"
	"github.com/pthm-cable/ripple/pointer"
	"github.com/pthm-cable/ripple/renderer"
	"github.com/pthm-cable/ripple/telemetry"
	"github.com/pthm-cable/ripple/ui"
)

// Time step ceiling: long pauses (window backgrounded, frame drops) advance
// the simulation by at most one nominal frame.
const maxDT = 1.0 / 60.0

// Field diagnostics walk the full grids; sample every few frames.
const diagInterval = 15

// Options holds per-run settings supplied by the host binary.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
}

// Effect is a single mounted simulation instance.
type Effect struct {
	solver  *fluid.Solver
	tracker *pointer.Tracker
	display *renderer.Display // nil when headless
	caps    renderer.Capabilities
	panel   *ui.Panel

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	rng      *rand.Rand
	running  bool
	paused   bool
	headless bool

	lastTime    time.Time
	autoAccumMS float64
	frame       int32

	screenW, screenH float32
	simRes, dyeRes   int
	colorSpeed       float32
	splatForce       float32
	transparent      bool
	backColor        [3]uint8

	// touch ids seen last frame, for synthesizing release events
	activeTouches map[int32]bool
	lastMouseX    float32
	lastMouseY    float32
	mouseSeen     bool
	showPanel     bool
}

// New constructs an effect instance from the loaded configuration. When
// headless is set (or no rendering context exists) the display pass is
// skipped entirely and the solver runs on its own; the effect never errors
// for a missing context. A shader compile failure does error: it indicates a
// packaging or driver bug the caller should see.
func New(opts Options) (*Effect, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Effect{
		rng:           rand.New(rand.NewSource(seed)),
		headless:      opts.Headless,
		logStats:      opts.LogStats,
		simRes:        cfg.Sim.SimResolution,
		dyeRes:        cfg.Sim.DyeResolution,
		colorSpeed:    float32(cfg.Splat.ColorUpdateSpeed),
		splatForce:    float32(cfg.Splat.Force),
		transparent:   cfg.Display.Transparent,
		backColor:     cfg.Display.BackColor,
		screenW:       cfg.Derived.ScreenW32,
		screenH:       cfg.Derived.ScreenH32,
		activeTouches: make(map[int32]bool),
	}

	shading := cfg.Display.Shading
	if !e.headless {
		e.caps = renderer.Probe()
		degradedRes, degradedShading := degrade(e.caps, e.dyeRes, shading)
		if degradedRes != e.dyeRes || degradedShading != shading {
			slog.Warn("linear filtering unsupported",
				"dye_resolution", degradedRes,
				"shading", degradedShading,
			)
		}
		e.dyeRes = degradedRes
		shading = degradedShading
	}

	params := fluid.Params{
		VelocityDissipation: float32(cfg.Sim.VelocityDissipation),
		DensityDissipation:  float32(cfg.Sim.DensityDissipation),
		Pressure:            float32(cfg.Sim.Pressure),
		PressureIterations:  cfg.Sim.PressureIterations,
		Curl:                float32(cfg.Sim.Curl),
		SplatRadius:         cfg.Derived.SplatRadius,
		SplatForce:          float32(cfg.Splat.Force),
	}

	simW, simH := fluid.GridSize(e.simRes, e.screenW, e.screenH)
	dyeW, dyeH := fluid.GridSize(e.dyeRes, e.screenW, e.screenH)
	e.solver = fluid.NewSolver(simW, simH, dyeW, dyeH, e.screenW/e.screenH, params)
	e.tracker = pointer.NewTracker(e.screenW, e.screenH, e.rng)

	if !e.headless {
		display, err := renderer.NewDisplay(e.caps, shading, e.transparent, e.backColor)
		if err != nil {
			return nil, err
		}
		e.display = display
		e.panel = ui.NewPanel()
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow == 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	e.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	e.collector = telemetry.NewCollector(statsWindow)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	e.output = output
	if err := e.output.WriteConfig(cfg); err != nil {
		slog.Warn("config snapshot failed", "error", err)
	}

	// Headless runs have no pointer to wake the loop; start immediately.
	if e.headless {
		e.running = true
	}

	slog.Info("effect_created",
		"sim_grid_w", simW, "sim_grid_h", simH,
		"dye_grid_w", dyeW, "dye_grid_h", dyeH,
		"float_textures", e.caps.FloatTextures,
		"linear_filtering", e.caps.Linear,
		"headless", e.headless,
	)
	return e, nil
}

// degrade halves the dye resolution and disables shading when the context
// cannot filter textures bilinearly. Hard requirement, not an optimization:
// advected dye needs either hardware bilinear sampling or the manual fallback
// at reduced cost.
func degrade(caps renderer.Capabilities, dyeRes int, shading bool) (int, bool) {
	if caps.Linear {
		return dyeRes, shading
	}
	return dyeRes / 2, false
}

// Update runs one graphical frame: input polling, queued event flush, and
// one simulation step.
func (e *Effect) Update() {
	e.perf.StartFrame()
	e.perf.StartPhase(telemetry.PhaseInput)

	e.pollInput()
	e.tracker.Flush()

	e.step(e.tick())
}

// UpdateHeadless advances one fixed step without any rendering context.
func (e *Effect) UpdateHeadless(dt float32) {
	e.perf.StartFrame()
	e.tracker.Flush()
	e.step(dt)
	e.perf.EndFrame()
}

// Inject queues a synthetic pointer event, for hosts that forward their own
// input stream and for driving the stepper in tests.
func (e *Effect) Inject(ev pointer.Event) {
	e.tracker.Push(ev)
}

// Solver exposes the live solver (the ui panel mutates its parameters).
func (e *Effect) Solver() *fluid.Solver { return e.solver }

// Frame returns the number of simulation steps taken.
func (e *Effect) Frame() int32 { return e.frame }

// tick computes the clamped frame dt.
func (e *Effect) tick() float32 {
	now := time.Now()
	if e.lastTime.IsZero() {
		e.lastTime = now
		return maxDT
	}
	dt := float32(now.Sub(e.lastTime).Seconds())
	e.lastTime = now
	if dt > maxDT {
		dt = maxDT
	}
	return dt
}

// step advances the simulation by dt. The loop has two states: it idles
// until the first real pointer movement or touch, then runs until teardown.
func (e *Effect) step(dt float32) {
	if !e.running {
		if !e.tracker.Started() {
			return
		}
		e.running = true
		slog.Info("loop_started", "frame", e.frame)
	}
	if e.paused {
		return
	}

	e.perf.StartPhase(telemetry.PhaseSplat)
	e.tracker.CycleColors(dt, e.colorSpeed)

	splats := 0
	e.tracker.ConsumeMoved(func(x, y, dx, dy, r, g, b float32) {
		e.solver.Splat(x, y, dx*e.splatForce, dy*e.splatForce, r, g, b)
		splats++
	})
	splats += e.autoSplat(dt)
	e.perf.EndPhase()

	timings := e.solver.Step(dt)
	e.perf.AddPhase(telemetry.PhaseCurl, timings.Curl)
	e.perf.AddPhase(telemetry.PhaseVorticity, timings.Vorticity)
	e.perf.AddPhase(telemetry.PhaseDivergence, timings.Divergence)
	e.perf.AddPhase(telemetry.PhasePressure, timings.Pressure)
	e.perf.AddPhase(telemetry.PhaseGradient, timings.Gradient)
	e.perf.AddPhase(telemetry.PhaseAdvectVelocity, timings.AdvectVelocity)
	e.perf.AddPhase(telemetry.PhaseAdvectDye, timings.AdvectDye)

	e.collector.RecordActivity(float64(dt), splats, e.tracker.Count())
	if e.frame%diagInterval == 0 {
		e.collector.RecordSample(telemetry.FrameSample{
			DyeMass:    e.solver.DyeMass(),
			DyeMax:     e.solver.DyeMax(),
			MeanAbsDiv: e.solver.MeanAbsDivergence(),
			MaxVel:     e.solver.MaxVelocity(),
		})
	}
	if e.collector.Due() {
		w := e.collector.Flush(e.frame)
		perfStats := e.perf.Stats()
		if e.logStats {
			w.LogStats()
			perfStats.LogStats()
		}
		if err := e.output.WriteStats(w); err != nil {
			slog.Warn("stats output failed", "error", err)
		}
		if err := e.output.WritePerf(perfStats, e.frame); err != nil {
			slog.Warn("perf output failed", "error", err)
		}
	}

	e.frame++
}

// autoSplat injects one synthetic impulse at a random location once per
// configured interval, keeping the background alive with no interaction.
func (e *Effect) autoSplat(dt float32) int {
	interval := float64(config.Cfg().Splat.AutoIntervalMS)
	if interval <= 0 {
		return 0
	}
	e.autoAccumMS += float64(dt) * 1000
	if e.autoAccumMS < interval {
		return 0
	}
	e.autoAccumMS -= interval

	x := e.rng.Float32()
	y := e.rng.Float32()
	dx := 1000 * (e.rng.Float32() - 0.5)
	dy := 1000 * (e.rng.Float32() - 0.5)
	r, g, b := fluid.GenerateColor(e.rng)
	// Synthetic splats carry brighter dye so they read without motion trails.
	e.solver.Splat(x, y, dx, dy, r*10, g*10, b*10)
	return 1
}

// Resize re-derives grid resolutions for a new surface size, preserving
// field content.
func (e *Effect) Resize(width, height float32) {
	e.screenW = width
	e.screenH = height
	simW, simH := fluid.GridSize(e.simRes, width, height)
	dyeW, dyeH := fluid.GridSize(e.dyeRes, width, height)
	e.solver.Resize(simW, simH, dyeW, dyeH, width/height)
	e.tracker.Resize(width, height)
}

// Unload tears the instance down: stops the loop and releases every GPU
// resource and output file. Must be exhaustive; leaked resources accumulate
// across host navigations.
func (e *Effect) Unload() {
	e.running = false
	if e.display != nil {
		e.display.Unload()
		e.display = nil
	}
	if err := e.output.Close(); err != nil {
		slog.Warn("output close failed", "error", err)
	}
	slog.Info("effect_unloaded", "frames", e.frame)
}
