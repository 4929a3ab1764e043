package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameSample holds the field diagnostics recorded for one frame.
type FrameSample struct {
	DyeMass    float64 // summed dye magnitude
	DyeMax     float64 // largest dye sample
	MeanAbsDiv float64 // mean |divergence| after projection
	MaxVel     float64 // largest velocity component magnitude
}

// WindowStats aggregates frame diagnostics over one stats window.
type WindowStats struct {
	WindowEndFrame int32   `csv:"window_end"`
	SimTimeSec     float64 `csv:"sim_time"`

	// Activity during the window
	Splats   int `csv:"splats"`
	Pointers int `csv:"pointers"`

	// Field diagnostics (mean/std over the window's frames)
	DyeMassMean float64 `csv:"dye_mass_mean"`
	DyeMassStd  float64 `csv:"dye_mass_std"`
	DyeMax      float64 `csv:"dye_max"`
	MeanAbsDiv  float64 `csv:"mean_abs_div"`
	MaxVelocity float64 `csv:"max_velocity"`
}

// LogStats logs the window as one structured event.
func (w WindowStats) LogStats() {
	slog.Info("window_stats",
		"window_end", w.WindowEndFrame,
		"sim_time", w.SimTimeSec,
		"splats", w.Splats,
		"pointers", w.Pointers,
		"dye_mass_mean", w.DyeMassMean,
		"dye_mass_std", w.DyeMassStd,
		"dye_max", w.DyeMax,
		"mean_abs_div", w.MeanAbsDiv,
		"max_velocity", w.MaxVelocity,
	)
}

// Collector accumulates per-frame samples and flushes a WindowStats record
// once per stats window.
type Collector struct {
	windowSec float64
	simTime   float64
	lastFlush float64

	dyeMass []float64
	dyeMax  []float64
	absDiv  []float64
	maxVel  []float64

	splats   int
	pointers int
}

// NewCollector creates a collector flushing every windowSec seconds of
// simulated time.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 5
	}
	return &Collector{windowSec: windowSec}
}

// RecordActivity advances the window clock and activity counters. Called
// every frame.
func (c *Collector) RecordActivity(dt float64, splats, pointers int) {
	c.simTime += dt
	c.splats += splats
	if pointers > c.pointers {
		c.pointers = pointers
	}
}

// RecordSample adds one set of field diagnostics. Diagnostics walk the full
// grids, so callers sample every few frames rather than every frame.
func (c *Collector) RecordSample(sample FrameSample) {
	c.dyeMass = append(c.dyeMass, sample.DyeMass)
	c.dyeMax = append(c.dyeMax, sample.DyeMax)
	c.absDiv = append(c.absDiv, sample.MeanAbsDiv)
	c.maxVel = append(c.maxVel, sample.MaxVel)
}

// Due reports whether a full window has elapsed.
func (c *Collector) Due() bool {
	return c.simTime-c.lastFlush >= c.windowSec
}

// Flush aggregates the window and resets the accumulators.
func (c *Collector) Flush(frame int32) WindowStats {
	w := WindowStats{
		WindowEndFrame: frame,
		SimTimeSec:     c.simTime,
		Splats:         c.splats,
		Pointers:       c.pointers,
	}

	if len(c.dyeMass) > 0 {
		w.DyeMassMean, w.DyeMassStd = stat.MeanStdDev(c.dyeMass, nil)
		w.DyeMax = floats.Max(c.dyeMax)
		w.MeanAbsDiv = stat.Mean(c.absDiv, nil)
		w.MaxVelocity = floats.Max(c.maxVel)
	}

	c.lastFlush = c.simTime
	c.dyeMass = c.dyeMass[:0]
	c.dyeMax = c.dyeMax[:0]
	c.absDiv = c.absDiv[:0]
	c.maxVel = c.maxVel[:0]
	c.splats = 0
	c.pointers = 0

	return w
}
