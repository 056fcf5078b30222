// Package pinboard is the interaction engine of an infinite whiteboard:
// notes, connectors and freehand strokes on a pannable, zoomable canvas with
// multi-select, marquee selection and undo/redo.
//
// The engine owns no window and draws nothing. A host (see the ebitenboard
// package) feeds it pointer, wheel and keyboard events and reads the
// [Scene] and [Camera] back each frame to render.
//
// # Quick start
//
//	c, err := pinboard.NewController(pinboard.DefaultConfig(),
//		pinboard.WithGateway(pinboard.NewGateway(store, "board", nil)))
//	if err != nil {
//		return err
//	}
//	c.Load(ctx)
//
//	// per input event
//	c.PointerDown(pinboard.PointerEvent{PointerID: 0, X: x, Y: y})
//	c.PointerMove(...)
//	c.PointerUp(...)
//
//	// per frame
//	c.Tick(dt)
//	if c.Dirty() {
//		draw(c.Scene(), c.Camera())
//		c.ClearDirty()
//	}
//
// # Coordinates
//
// Screen pixels have their origin at the top-left of the viewport. World
// units are mapped through the camera as screen = world*Scale + (X, Y);
// [Camera.ScreenToWorld] and [Camera.WorldToScreen] are exact inverses.
// Zooming keeps the world point under the cursor (or pinch midpoint) fixed.
//
// # Interaction
//
// [Controller] is a state machine with one mode at a time, see [State]. The
// active [Tool] is read on every pointer down. With the select tool a press
// on a resize handle of the single selected note resizes it, a press on a
// note moves the selection, and a press on empty space starts a marquee that
// selects the notes it fully contains. Two simultaneous pointers pinch-zoom.
//
// # History
//
// Each completed action pushes a full [Snapshot] of the scene onto a bounded
// [History]. Undo and redo restore snapshots by value.
//
// # Persistence
//
// A [Gateway] serializes [BoardState] (camera plus entities) as JSON into any
// [Store]: [MemoryStore], [FileStore], or the SQLite store in the
// sqlitestore package. Loading a missing or corrupt board yields an empty
// board, never an error.
package pinboard
