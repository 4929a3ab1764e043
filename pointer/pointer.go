// Package pointer tracks one logical pointer per input source (mouse, each
// active touch) and converts host device events into aspect-corrected,
// normalized deltas for the solver to consume as splats. Input arrives as an
// explicit event queue, so the per-frame step stays decoupled from the
// host's event mechanism and fully drivable by synthetic events.
package pointer

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ripple/fluid"
)

// MouseID identifies the synthetic mouse pointer. Touch pointers use their
// non-negative platform ids.
const MouseID int32 = -1

// EventKind discriminates pointer events.
type EventKind uint8

const (
	// Press is a button-down or touch-start at a device position.
	Press EventKind = iota
	// MoveTo is a motion update at a device position.
	MoveTo
	// Release is a button-up or touch-end.
	Release
)

// Event is one host input event in device pixel coordinates.
type Event struct {
	Kind EventKind
	ID   int32
	X, Y float32
}

// State is the ephemeral per-pointer component: normalized position,
// previous position, aspect-corrected deltas and the down/moved flags.
type State struct {
	ID             int32
	TexX, TexY     float32
	PrevX, PrevY   float32
	DeltaX, DeltaY float32
	Down           bool
	Moved          bool
}

// Tint is the per-pointer splat color plus its hue-cycle accumulator.
type Tint struct {
	R, G, B float32
	Cycle   float32
}

// Tracker owns the pointer entities and the pending event queue.
type Tracker struct {
	world  *ecs.World
	mapper *ecs.Map2[State, Tint]
	filter *ecs.Filter2[State, Tint]

	entities map[int32]ecs.Entity
	queue    []Event

	width, height float32
	rng           *rand.Rand
	started       bool
}

// NewTracker creates a tracker for a surface of the given device size.
func NewTracker(width, height float32, rng *rand.Rand) *Tracker {
	world := ecs.NewWorld()
	return &Tracker{
		world:    world,
		mapper:   ecs.NewMap2[State, Tint](world),
		filter:   ecs.NewFilter2[State, Tint](world),
		entities: make(map[int32]ecs.Entity),
		width:    width,
		height:   height,
		rng:      rng,
	}
}

// Resize updates the device dimensions used for normalization and aspect
// correction.
func (t *Tracker) Resize(width, height float32) {
	t.width = width
	t.height = height
}

// Started reports whether any real movement has occurred yet. The frame loop
// stays idle until then to avoid wasted work before interaction.
func (t *Tracker) Started() bool { return t.started }

// Count returns the number of tracked pointers.
func (t *Tracker) Count() int { return len(t.entities) }

// Push queues a host event for the next Flush. Everything runs on the frame
// goroutine, so the queue needs no locking.
func (t *Tracker) Push(ev Event) {
	t.queue = append(t.queue, ev)
}

// Flush applies all queued events in arrival order.
func (t *Tracker) Flush() {
	for _, ev := range t.queue {
		switch ev.Kind {
		case Press:
			t.press(ev.ID, ev.X, ev.Y)
		case MoveTo:
			t.move(ev.ID, ev.X, ev.Y)
		case Release:
			t.release(ev.ID)
		}
	}
	t.queue = t.queue[:0]
}

// press sets position, zeroes deltas, assigns a fresh color and marks the
// pointer down. A touch-start counts as interaction start; a mouse press
// alone does not, only its first real movement.
func (t *Tracker) press(id int32, x, y float32) {
	st, tint := t.get(id)
	st.TexX = x / t.width
	st.TexY = 1 - y/t.height
	st.PrevX = st.TexX
	st.PrevY = st.TexY
	st.DeltaX = 0
	st.DeltaY = 0
	st.Down = true
	st.Moved = false
	tint.R, tint.G, tint.B = fluid.GenerateColor(t.rng)
	if id != MouseID {
		t.started = true
	}
}

// move computes the aspect-corrected delta from the previous position and
// flags the pointer as moved when the delta is nonzero. A pointer's very
// first event only positions it: there is no previous position to move from,
// so the delta is zero by definition.
func (t *Tracker) move(id int32, x, y float32) {
	_, known := t.entities[id]
	st, _ := t.get(id)
	if !known {
		st.TexX = x / t.width
		st.TexY = 1 - y/t.height
		st.PrevX = st.TexX
		st.PrevY = st.TexY
		return
	}
	st.PrevX = st.TexX
	st.PrevY = st.TexY
	st.TexX = x / t.width
	st.TexY = 1 - y/t.height
	st.DeltaX = t.correctDeltaX(st.TexX - st.PrevX)
	st.DeltaY = t.correctDeltaY(st.TexY - st.PrevY)
	if st.DeltaX != 0 || st.DeltaY != 0 {
		st.Moved = true
		t.started = true
	}
}

// release clears the down flag only; the last color and position persist so
// the mouse pointer can be reused. Touch pointers are removed entirely.
func (t *Tracker) release(id int32) {
	e, ok := t.entities[id]
	if !ok {
		return
	}
	if id == MouseID {
		st, _ := t.mapper.Get(e)
		st.Down = false
		return
	}
	t.mapper.Remove(e)
	delete(t.entities, id)
}

// get returns the components for id, creating the pointer entity on first
// contact.
func (t *Tracker) get(id int32) (*State, *Tint) {
	if e, ok := t.entities[id]; ok {
		return t.mapper.Get(e)
	}
	st := State{ID: id}
	tint := Tint{}
	tint.R, tint.G, tint.B = fluid.GenerateColor(t.rng)
	e := t.mapper.NewEntity(&st, &tint)
	t.entities[id] = e
	return t.mapper.Get(e)
}

// CycleColors advances each pointer's hue accumulator by dt * speed and
// regenerates the color once it wraps past 1.
func (t *Tracker) CycleColors(dt, speed float32) {
	query := t.filter.Query()
	for query.Next() {
		_, tint := query.Get()
		tint.Cycle += dt * speed
		if tint.Cycle >= 1 {
			tint.Cycle = fluid.Wrap(tint.Cycle, 0, 1)
			tint.R, tint.G, tint.B = fluid.GenerateColor(t.rng)
		}
	}
}

// ConsumeMoved invokes fn for every pointer flagged moved, then resets the
// flag. Positions are normalized; deltas are aspect-corrected.
func (t *Tracker) ConsumeMoved(fn func(x, y, dx, dy, r, g, b float32)) {
	query := t.filter.Query()
	for query.Next() {
		st, tint := query.Get()
		if !st.Moved {
			continue
		}
		st.Moved = false
		fn(st.TexX, st.TexY, st.DeltaX, st.DeltaY, tint.R, tint.G, tint.B)
	}
}

// correctDeltaX compresses horizontal deltas on tall surfaces so motion
// speed reads the same on both axes.
func (t *Tracker) correctDeltaX(delta float32) float32 {
	aspect := t.width / t.height
	if aspect < 1 {
		delta *= aspect
	}
	return delta
}

// correctDeltaY compresses vertical deltas on wide surfaces.
func (t *Tracker) correctDeltaY(delta float32) float32 {
	aspect := t.width / t.height
	if aspect > 1 {
		delta *= aspect
	}
	return delta
}
