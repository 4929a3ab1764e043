package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorAddPhase(t *testing.T) {
	p := NewPerfCollector(4)

	p.StartFrame()
	p.AddPhase(PhasePressure, 10*time.Millisecond)
	p.AddPhase(PhasePressure, 5*time.Millisecond)
	p.AddPhase(PhaseAdvectDye, 2*time.Millisecond)
	p.EndFrame()

	stats := p.Stats()
	if got := stats.PhaseAvg[PhasePressure]; got != 15*time.Millisecond {
		t.Errorf("pressure avg = %v, want 15ms", got)
	}
	if got := stats.PhaseAvg[PhaseAdvectDye]; got != 2*time.Millisecond {
		t.Errorf("advect_dye avg = %v, want 2ms", got)
	}
}

func TestPerfCollectorEndPhaseStopsAttribution(t *testing.T) {
	p := NewPerfCollector(4)

	p.StartFrame()
	p.StartPhase(PhaseInput)
	p.EndPhase()
	// Work after EndPhase must not land in the input phase.
	p.AddPhase(PhaseCurl, time.Millisecond)
	p.EndFrame()

	stats := p.Stats()
	if got := stats.PhaseAvg[PhaseCurl]; got != time.Millisecond {
		t.Errorf("curl avg = %v, want 1ms", got)
	}
	if input, curl := stats.PhaseAvg[PhaseInput], stats.PhaseAvg[PhaseCurl]; input > curl {
		t.Errorf("input phase absorbed later work: input = %v", input)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	p := NewPerfCollector(2)

	for i := 1; i <= 3; i++ {
		p.StartFrame()
		p.AddPhase(PhaseSplat, time.Duration(i)*time.Millisecond)
		p.EndFrame()
	}

	// Window of 2: frames 2 and 3 remain.
	stats := p.Stats()
	want := (2*time.Millisecond + 3*time.Millisecond) / 2
	if got := stats.PhaseAvg[PhaseSplat]; got != want {
		t.Errorf("splat avg = %v, want %v", got, want)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(4)
	stats := p.Stats()

	if stats.AvgFrameDuration != 0 || stats.FramesPerSecond != 0 {
		t.Error("empty collector should report zeroed stats")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("empty stats should still carry initialized maps")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgFrameDuration: 16 * time.Millisecond,
		MinFrameDuration: 10 * time.Millisecond,
		MaxFrameDuration: 20 * time.Millisecond,
		FramesPerSecond:  62.5,
		PhasePct: map[string]float64{
			PhasePressure:  40,
			PhaseAdvectDye: 10,
			PhaseRender:    5,
		},
	}

	csv := s.ToCSV(240)
	if csv.WindowEnd != 240 {
		t.Errorf("WindowEnd = %d, want 240", csv.WindowEnd)
	}
	if csv.AvgFrameUS != 16000 {
		t.Errorf("AvgFrameUS = %d, want 16000", csv.AvgFrameUS)
	}
	if csv.PressurePct != 40 || csv.AdvectDyePct != 10 || csv.RenderPct != 5 {
		t.Errorf("phase percentages not mapped: %+v", csv)
	}
	if csv.CurlPct != 0 {
		t.Errorf("CurlPct = %v, want 0 for absent phase", csv.CurlPct)
	}
}
