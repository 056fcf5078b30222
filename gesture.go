package pinboard

import "slices"

// GesturePhase identifies what a pointer event means once multi-touch is
// taken into account.
type GesturePhase uint8

const (
	GestureNone       GesturePhase = iota // nothing for the caller to act on
	GestureDrag                           // single-pointer movement, see Delta
	GesturePinchStart                     // second pointer down: baseline recorded, no zoom yet
	GesturePinch                          // two-pointer frame, see Ratio and Midpoint
	GesturePinchEnd                       // a pinch pointer lifted, baseline cleared
)

// Gesture is the semantic result of one pointer event. All positions are in
// screen pixels.
type Gesture struct {
	Phase     GesturePhase
	PointerID int

	// Drag fields.
	Position Vec2
	Delta    Vec2 // movement since this pointer's previous position

	// Pinch fields.
	Midpoint      Vec2
	Distance      float64
	StartDistance float64
	StartScale    float64
	Ratio         float64 // Distance / StartDistance

	// PinchEnd fields. RemainingID is -1 when no pointer is left down.
	RemainingID int
	Remaining   Vec2
}

type pinchState struct {
	active     bool
	pointer0   int
	pointer1   int
	startDist  float64
	startScale float64
	midpoint   Vec2
}

// GestureRecognizer tracks the last known screen position of every active
// pointer and turns raw down/move/up events into drags and pinches.
// Pointers beyond the first two are tracked but never drive a gesture.
type GestureRecognizer struct {
	positions map[int]Vec2
	order     []int // pointer ids in press order
	pinch     pinchState
}

// NewGestureRecognizer creates a recognizer with no active pointers.
func NewGestureRecognizer() *GestureRecognizer {
	return &GestureRecognizer{positions: make(map[int]Vec2)}
}

// Count returns the number of pointers currently down.
func (g *GestureRecognizer) Count() int { return len(g.order) }

// Has reports whether pointerID is down.
func (g *GestureRecognizer) Has(pointerID int) bool {
	_, ok := g.positions[pointerID]
	return ok
}

// Position returns the last known position of a pointer.
func (g *GestureRecognizer) Position(pointerID int) (Vec2, bool) {
	p, ok := g.positions[pointerID]
	return p, ok
}

// Pinching reports whether a pinch baseline is active.
func (g *GestureRecognizer) Pinching() bool { return g.pinch.active }

// Reset forgets every pointer and any pinch in progress.
func (g *GestureRecognizer) Reset() {
	clear(g.positions)
	g.order = g.order[:0]
	g.pinch = pinchState{}
}

// Down registers a pressed pointer. When it is the second pointer, the pinch
// baseline {distance, scale, midpoint} is recorded and GesturePinchStart is
// returned; the caller must not zoom on this frame.
func (g *GestureRecognizer) Down(pointerID int, p Vec2, scale float64) Gesture {
	if _, ok := g.positions[pointerID]; ok {
		g.positions[pointerID] = p
		return Gesture{Phase: GestureNone, PointerID: pointerID}
	}
	g.positions[pointerID] = p
	g.order = append(g.order, pointerID)

	if len(g.order) == 2 && !g.pinch.active {
		p0, p1 := g.positions[g.order[0]], g.positions[g.order[1]]
		g.pinch = pinchState{
			active:     true,
			pointer0:   g.order[0],
			pointer1:   g.order[1],
			startDist:  p0.Dist(p1),
			startScale: scale,
			midpoint:   p0.Midpoint(p1),
		}
		return Gesture{
			Phase:         GesturePinchStart,
			PointerID:     pointerID,
			Midpoint:      g.pinch.midpoint,
			Distance:      g.pinch.startDist,
			StartDistance: g.pinch.startDist,
			StartScale:    scale,
			Ratio:         1,
		}
	}
	return Gesture{Phase: GestureNone, PointerID: pointerID, Position: p}
}

// Move updates a pointer position. Pinch pointers produce GesturePinch with
// the distance ratio against the baseline and the current midpoint; a lone
// pointer produces GestureDrag. Unknown pointers (hover) produce GestureNone.
func (g *GestureRecognizer) Move(pointerID int, p Vec2) Gesture {
	prev, ok := g.positions[pointerID]
	if !ok {
		return Gesture{Phase: GestureNone, PointerID: pointerID, Position: p}
	}
	g.positions[pointerID] = p

	if g.pinch.active {
		if pointerID != g.pinch.pointer0 && pointerID != g.pinch.pointer1 {
			return Gesture{Phase: GestureNone, PointerID: pointerID, Position: p}
		}
		p0, p1 := g.positions[g.pinch.pointer0], g.positions[g.pinch.pointer1]
		dist := p0.Dist(p1)
		mid := p0.Midpoint(p1)
		if g.pinch.startDist <= 0 {
			// Both contacts started on the same pixel: re-baseline on the
			// first frame with a usable distance.
			g.pinch.startDist = dist
			return Gesture{Phase: GestureNone, PointerID: pointerID, Position: p}
		}
		g.pinch.midpoint = mid
		return Gesture{
			Phase:         GesturePinch,
			PointerID:     pointerID,
			Midpoint:      mid,
			Distance:      dist,
			StartDistance: g.pinch.startDist,
			StartScale:    g.pinch.startScale,
			Ratio:         dist / g.pinch.startDist,
		}
	}
	if len(g.order) > 1 {
		return Gesture{Phase: GestureNone, PointerID: pointerID, Position: p}
	}
	return Gesture{Phase: GestureDrag, PointerID: pointerID, Position: p, Delta: p.Sub(prev)}
}

// Up removes a pointer. Lifting either pinch pointer clears the baseline and
// returns GesturePinchEnd naming the pointer still down, if any, so the
// caller can continue with single-pointer semantics from its current
// position.
func (g *GestureRecognizer) Up(pointerID int) Gesture {
	p, ok := g.positions[pointerID]
	if !ok {
		return Gesture{Phase: GestureNone, PointerID: pointerID, RemainingID: -1}
	}
	delete(g.positions, pointerID)
	g.order = slices.DeleteFunc(g.order, func(id int) bool { return id == pointerID })

	if g.pinch.active && (pointerID == g.pinch.pointer0 || pointerID == g.pinch.pointer1) {
		other := g.pinch.pointer0
		if other == pointerID {
			other = g.pinch.pointer1
		}
		g.pinch = pinchState{}
		out := Gesture{Phase: GesturePinchEnd, PointerID: pointerID, Position: p, RemainingID: -1}
		if rest, ok := g.positions[other]; ok {
			out.RemainingID = other
			out.Remaining = rest
		}
		return out
	}
	return Gesture{Phase: GestureNone, PointerID: pointerID, Position: p, RemainingID: -1}
}
