package pointer

import (
	"math"
	"math/rand"
	"testing"
)

func newTestTracker(w, h float32) *Tracker {
	return NewTracker(w, h, rand.New(rand.NewSource(42)))
}

func TestPressNormalizesPosition(t *testing.T) {
	tr := newTestTracker(200, 100)
	tr.Push(Event{Kind: Press, ID: MouseID, X: 100, Y: 25})
	tr.Flush()

	st, _ := tr.get(MouseID)
	if math.Abs(float64(st.TexX-0.5)) > 1e-5 {
		t.Errorf("TexX = %v, want 0.5", st.TexX)
	}
	// Device y grows downward, field v grows upward.
	if math.Abs(float64(st.TexY-0.75)) > 1e-5 {
		t.Errorf("TexY = %v, want 0.75", st.TexY)
	}
	if !st.Down {
		t.Error("pointer should be down after press")
	}
	if st.Moved {
		t.Error("press alone must not flag movement")
	}
}

func TestMoveComputesAspectCorrectedDeltas(t *testing.T) {
	// Wide surface (aspect 2): y deltas are scaled up, x deltas untouched.
	tr := newTestTracker(200, 100)
	tr.Push(Event{Kind: Press, ID: MouseID, X: 100, Y: 50})
	tr.Push(Event{Kind: MoveTo, ID: MouseID, X: 120, Y: 40})
	tr.Flush()

	st, _ := tr.get(MouseID)
	if !st.Moved {
		t.Fatal("nonzero delta should flag movement")
	}
	if math.Abs(float64(st.DeltaX-0.1)) > 1e-5 {
		t.Errorf("DeltaX = %v, want 0.1", st.DeltaX)
	}
	// Raw dy = +0.1 (upward), scaled by aspect 2.
	if math.Abs(float64(st.DeltaY-0.2)) > 1e-5 {
		t.Errorf("DeltaY = %v, want 0.2", st.DeltaY)
	}
}

func TestMoveTallSurfaceCompressesX(t *testing.T) {
	tr := newTestTracker(100, 200)
	tr.Push(Event{Kind: Press, ID: MouseID, X: 50, Y: 100})
	tr.Push(Event{Kind: MoveTo, ID: MouseID, X: 60, Y: 100})
	tr.Flush()

	st, _ := tr.get(MouseID)
	// Raw dx = 0.1, compressed by aspect 0.5.
	if math.Abs(float64(st.DeltaX-0.05)) > 1e-5 {
		t.Errorf("DeltaX = %v, want 0.05", st.DeltaX)
	}
}

func TestStartedRequiresInteraction(t *testing.T) {
	tr := newTestTracker(100, 100)
	if tr.Started() {
		t.Error("fresh tracker should not be started")
	}

	tr.Push(Event{Kind: MoveTo, ID: MouseID, X: 50, Y: 50})
	tr.Flush()
	tr.Push(Event{Kind: MoveTo, ID: MouseID, X: 50, Y: 50})
	tr.Flush()
	if tr.Started() {
		t.Error("zero-delta movement should not start the loop")
	}

	tr.Push(Event{Kind: MoveTo, ID: MouseID, X: 60, Y: 50})
	tr.Flush()
	if !tr.Started() {
		t.Error("real movement should start the loop")
	}
}

func TestFirstMovePositionsWithoutImpulse(t *testing.T) {
	tr := newTestTracker(100, 100)
	tr.Push(Event{Kind: MoveTo, ID: MouseID, X: 50, Y: 50})
	tr.Flush()

	st, _ := tr.get(MouseID)
	if math.Abs(float64(st.TexX-0.5)) > 1e-5 || math.Abs(float64(st.TexY-0.5)) > 1e-5 {
		t.Errorf("position = (%v, %v), want (0.5, 0.5)", st.TexX, st.TexY)
	}
	if st.DeltaX != 0 || st.DeltaY != 0 {
		t.Errorf("delta = (%v, %v), want zero on first contact", st.DeltaX, st.DeltaY)
	}
	if st.Moved {
		t.Error("first contact must not flag movement")
	}
	if tr.Started() {
		t.Error("first contact must not start the loop")
	}

	// The next move measures from the first contact, not from the origin.
	tr.Push(Event{Kind: MoveTo, ID: MouseID, X: 60, Y: 50})
	tr.Flush()
	st, _ = tr.get(MouseID)
	if math.Abs(float64(st.DeltaX-0.1)) > 1e-5 {
		t.Errorf("DeltaX = %v, want 0.1", st.DeltaX)
	}
}

func TestMousePressDoesNotStartLoop(t *testing.T) {
	tr := newTestTracker(100, 100)
	tr.Push(Event{Kind: Press, ID: MouseID, X: 50, Y: 50})
	tr.Flush()
	if tr.Started() {
		t.Error("mouse press alone should not start the loop")
	}

	tr.Push(Event{Kind: Press, ID: 2, X: 10, Y: 10})
	tr.Flush()
	if !tr.Started() {
		t.Error("touch start should start the loop")
	}
}

func TestMouseReleaseKeepsPointer(t *testing.T) {
	tr := newTestTracker(100, 100)
	tr.Push(Event{Kind: Press, ID: MouseID, X: 50, Y: 50})
	tr.Push(Event{Kind: Release, ID: MouseID})
	tr.Flush()

	if tr.Count() != 1 {
		t.Fatalf("Count = %d, want mouse pointer retained", tr.Count())
	}
	st, _ := tr.get(MouseID)
	if st.Down {
		t.Error("released mouse should not be down")
	}
}

func TestTouchReleaseRemovesPointer(t *testing.T) {
	tr := newTestTracker(100, 100)
	tr.Push(Event{Kind: Press, ID: 3, X: 10, Y: 10})
	tr.Push(Event{Kind: Press, ID: 7, X: 90, Y: 90})
	tr.Flush()
	if tr.Count() != 2 {
		t.Fatalf("Count = %d, want 2 touches", tr.Count())
	}

	tr.Push(Event{Kind: Release, ID: 3})
	tr.Flush()
	if tr.Count() != 1 {
		t.Errorf("Count = %d, want released touch removed", tr.Count())
	}

	// Releasing an unknown id is a no-op.
	tr.Push(Event{Kind: Release, ID: 99})
	tr.Flush()
	if tr.Count() != 1 {
		t.Errorf("Count = %d after unknown release, want 1", tr.Count())
	}
}

func TestConsumeMovedResetsFlag(t *testing.T) {
	tr := newTestTracker(100, 100)
	tr.Push(Event{Kind: Press, ID: MouseID, X: 50, Y: 50})
	tr.Push(Event{Kind: MoveTo, ID: MouseID, X: 60, Y: 50})
	tr.Flush()

	calls := 0
	tr.ConsumeMoved(func(x, y, dx, dy, r, g, b float32) {
		calls++
		if math.Abs(float64(x-0.6)) > 1e-5 {
			t.Errorf("x = %v, want 0.6", x)
		}
		if dx <= 0 {
			t.Errorf("dx = %v, want positive", dx)
		}
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	tr.ConsumeMoved(func(x, y, dx, dy, r, g, b float32) {
		calls++
	})
	if calls != 1 {
		t.Error("second consume should see no moved pointers")
	}
}

func TestCycleColorsWrapsAccumulator(t *testing.T) {
	tr := newTestTracker(100, 100)
	tr.Push(Event{Kind: Press, ID: MouseID, X: 50, Y: 50})
	tr.Flush()

	_, tint := tr.get(MouseID)
	before := *tint

	// dt * speed = 1.5 pushes the accumulator past one full cycle.
	tr.CycleColors(0.15, 10)

	_, tint = tr.get(MouseID)
	if tint.Cycle < 0 || tint.Cycle >= 1 {
		t.Errorf("Cycle = %v, want wrapped into [0, 1)", tint.Cycle)
	}
	if tint.R == before.R && tint.G == before.G && tint.B == before.B {
		t.Error("wrapped cycle should assign a fresh color")
	}
}

func TestPressAssignsFreshColor(t *testing.T) {
	tr := newTestTracker(100, 100)
	tr.Push(Event{Kind: Press, ID: MouseID, X: 50, Y: 50})
	tr.Flush()
	_, first := tr.get(MouseID)
	c1 := *first

	tr.Push(Event{Kind: Release, ID: MouseID})
	tr.Push(Event{Kind: Press, ID: MouseID, X: 50, Y: 50})
	tr.Flush()

	_, second := tr.get(MouseID)
	if c1.R == second.R && c1.G == second.G && c1.B == second.B {
		t.Error("re-press should roll a new color")
	}
}
