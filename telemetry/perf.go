// Package telemetry collects per-frame solver timings and field diagnostics
// over rolling windows, logs them via slog, and optionally exports CSV.
package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation frame.
const (
	PhaseInput          = "input"
	PhaseSplat          = "splat"
	PhaseCurl           = "curl"
	PhaseVorticity      = "vorticity"
	PhaseDivergence     = "divergence"
	PhasePressure       = "pressure"
	PhaseGradient       = "gradient"
	PhaseAdvectVelocity = "advect_velocity"
	PhaseAdvectDye      = "advect_dye"
	PhaseRender         = "render"
)

// orderedPhases fixes the reporting order.
var orderedPhases = []string{
	PhaseInput, PhaseSplat, PhaseCurl, PhaseVorticity, PhaseDivergence,
	PhasePressure, PhaseGradient, PhaseAdvectVelocity, PhaseAdvectDye,
	PhaseRender,
}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window of frames.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 120
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a named phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndPhase closes the current phase without starting another, so externally
// timed work that follows is not misattributed.
func (p *PerfCollector) EndPhase() {
	if p.lastPhase == "" {
		return
	}
	p.currentPhases[p.lastPhase] += time.Since(p.phaseStart)
	p.lastPhase = ""
}

// AddPhase records an externally measured duration for a phase. Used for the
// solver's internal stage timings.
func (p *PerfCollector) AddPhase(phase string, d time.Duration) {
	p.currentPhases[phase] += d
}

// EndFrame finishes the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics over the window.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Phase averages and their share of frame time
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	FramesPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalFrame, minFrame, maxFrame time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalFrame += s.FrameDuration
		if i == 0 || s.FrameDuration < minFrame {
			minFrame = s.FrameDuration
		}
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgFrame := totalFrame / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgFrame > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgFrame) * 100
		}
	}

	var fps float64
	if avgFrame > 0 {
		fps = float64(time.Second) / float64(avgFrame)
	}

	return PerfStats{
		AvgFrameDuration: avgFrame,
		MinFrameDuration: minFrame,
		MaxFrameDuration: maxFrame,
		PhaseAvg:         phaseAvg,
		PhasePct:         phasePct,
		FramesPerSecond:  fps,
	}
}

// LogStats logs performance statistics as one structured event.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"fps", int(s.FramesPerSecond),
	}

	for _, phase := range orderedPhases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd         int32   `csv:"window_end"`
	AvgFrameUS        int64   `csv:"avg_frame_us"`
	MinFrameUS        int64   `csv:"min_frame_us"`
	MaxFrameUS        int64   `csv:"max_frame_us"`
	FPS               float64 `csv:"fps"`
	SplatPct          float64 `csv:"splat_pct"`
	CurlPct           float64 `csv:"curl_pct"`
	VorticityPct      float64 `csv:"vorticity_pct"`
	DivergencePct     float64 `csv:"divergence_pct"`
	PressurePct       float64 `csv:"pressure_pct"`
	GradientPct       float64 `csv:"gradient_pct"`
	AdvectVelocityPct float64 `csv:"advect_velocity_pct"`
	AdvectDyePct      float64 `csv:"advect_dye_pct"`
	RenderPct         float64 `csv:"render_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly record.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:         windowEnd,
		AvgFrameUS:        s.AvgFrameDuration.Microseconds(),
		MinFrameUS:        s.MinFrameDuration.Microseconds(),
		MaxFrameUS:        s.MaxFrameDuration.Microseconds(),
		FPS:               s.FramesPerSecond,
		SplatPct:          s.PhasePct[PhaseSplat],
		CurlPct:           s.PhasePct[PhaseCurl],
		VorticityPct:      s.PhasePct[PhaseVorticity],
		DivergencePct:     s.PhasePct[PhaseDivergence],
		PressurePct:       s.PhasePct[PhasePressure],
		GradientPct:       s.PhasePct[PhaseGradient],
		AdvectVelocityPct: s.PhasePct[PhaseAdvectVelocity],
		AdvectDyePct:      s.PhasePct[PhaseAdvectDye],
		RenderPct:         s.PhasePct[PhaseRender],
	}
}
