package pinboard

import "math"

// Handle names a corner resize handle of a note.
type Handle uint8

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSW
	HandleSE
)

var handleNames = [...]string{"none", "nw", "ne", "sw", "se"}

func (h Handle) String() string {
	if int(h) < len(handleNames) {
		return handleNames[h]
	}
	return "invalid"
}

// HandleMetrics sizes resize handles in screen pixels.
type HandleMetrics struct {
	// BasePx is the visible handle side at scale 1.
	BasePx float64
	// MinPx is the smallest visible side, reached when zoomed out.
	MinPx float64
	// HitPadding multiplies the visible side to get the grabbable side, so
	// small or zoomed-out handles stay easy to hit.
	HitPadding float64
}

// VisibleSize returns the side of the drawn handle square at the given scale.
func (m HandleMetrics) VisibleSize(scale float64) float64 {
	return math.Max(m.MinPx, m.BasePx*scale)
}

// HitSize returns the side of the grabbable handle square at the given scale.
func (m HandleMetrics) HitSize(scale float64) float64 {
	return m.VisibleSize(scale) * math.Max(1, m.HitPadding)
}

// handleCorners returns the screen position of each corner, indexed by Handle.
func handleCorners(n *Note, cam Camera) [5]Vec2 {
	tl := cam.WorldToScreen(n.X, n.Y)
	br := cam.WorldToScreen(n.X+n.W, n.Y+n.H)
	return [5]Vec2{
		HandleNW: tl,
		HandleNE: {br.X, tl.Y},
		HandleSW: {tl.X, br.Y},
		HandleSE: br,
	}
}

// HandleRects returns the screen-space squares of side size centered on each
// corner of n, indexed by Handle (index 0 is unused).
func HandleRects(n *Note, cam Camera, size float64) [5]Rect {
	var out [5]Rect
	corners := handleCorners(n, cam)
	for h := HandleNW; h <= HandleSE; h++ {
		c := corners[h]
		out[h] = Rect{X: c.X - size/2, Y: c.Y - size/2, Width: size, Height: size}
	}
	return out
}

// HitResizeHandle returns the handle of n whose hit square contains the
// screen point, or HandleNone. When hit squares overlap (a small note on
// screen) the nearest corner wins.
func HitResizeHandle(n *Note, screen Vec2, cam Camera, m HandleMetrics) Handle {
	if n == nil {
		return HandleNone
	}
	size := m.HitSize(cam.Scale)
	rects := HandleRects(n, cam, size)
	corners := handleCorners(n, cam)
	best := HandleNone
	bestDist := math.Inf(1)
	for h := HandleNW; h <= HandleSE; h++ {
		if !rects[h].Contains(screen.X, screen.Y) {
			continue
		}
		if d := corners[h].Dist(screen); d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}

// HitNote returns the topmost note whose bounding box contains the world
// point, or nil.
func HitNote(s *Scene, world Vec2) *Note {
	// Iterate backward: topmost note first.
	for i := len(s.notes) - 1; i >= 0; i-- {
		n := s.notes[i]
		if n.Bounds().Contains(world.X, world.Y) {
			return n
		}
	}
	return nil
}

// BreakpointHit identifies one breakpoint of a connector.
type BreakpointHit struct {
	ConnectorID EntityID
	Index       int
	Point       Vec2
}

// HitConnectorBreakpoint returns the first breakpoint of a live connector
// lying within a square window of half-side tolerance (world units) around
// the point. Dangling connectors are skipped.
func HitConnectorBreakpoint(s *Scene, world Vec2, tolerance float64) (BreakpointHit, bool) {
	for _, c := range s.connectors {
		if s.IsDangling(c) {
			continue
		}
		for i, bp := range c.Breakpoints {
			if math.Abs(bp.X-world.X) <= tolerance && math.Abs(bp.Y-world.Y) <= tolerance {
				return BreakpointHit{ConnectorID: c.ID, Index: i, Point: bp}, true
			}
		}
	}
	return BreakpointHit{}, false
}

// EntitiesInRect returns the ids of notes fully contained in r, bottom to top.
// Notes that only overlap r are excluded.
func EntitiesInRect(s *Scene, r Rect) []EntityID {
	var ids []EntityID
	for _, n := range s.notes {
		if r.ContainsRect(n.Bounds()) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
