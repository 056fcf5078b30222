package pinboard

import (
	"math"
	"slices"
	"time"
)

// toolHandler is implemented by each tool variant. The controller picks one
// on pointer down and routes the captured pointer's move and up to it.
type toolHandler interface {
	pointerDown(c *Controller, p pointer)
	pointerMove(c *Controller, p pointer)
	pointerUp(c *Controller, p pointer, cancelled bool)
}

// handlerFor maps every Tool to its handler.
func handlerFor(t Tool) toolHandler {
	switch t {
	case ToolSelect:
		return selectTool{}
	case ToolPan:
		return panTool{}
	case ToolSticky:
		return createTool{kind: NoteSticky}
	case ToolShape:
		return createTool{kind: NoteShape}
	case ToolEllipse:
		return createTool{kind: NoteEllipse}
	case ToolText:
		return createTool{kind: NoteText}
	case ToolFrame:
		return createTool{kind: NoteFrame}
	case ToolPen:
		return penTool{}
	case ToolConnect:
		return connectTool{}
	}
	return selectTool{}
}

type pointer struct {
	PointerEvent
	screen Vec2
	world  Vec2
}

// dragState is the per-gesture scratch data, reset on every pointer down.
type dragState struct {
	pointerID   int
	startScreen Vec2
	lastScreen  Vec2
	startWorld  Vec2
	moved       bool

	// MovingSelection
	offsets      map[EntityID]Vec2
	onBreakpoint bool
	breakpoint   BreakpointHit
	tapNote      EntityID

	// Resizing
	resizeID EntityID
	handle   Handle
	orig     Rect

	// Marqueeing
	marquee     Rect
	marqueeBase []EntityID
}

// tapSlopPx is how far a pointer may travel, in screen pixels, and still
// count as a tap for double-tap detection.
const tapSlopPx = 4

func (c *Controller) snap(v float64) float64 {
	if c.cfg.GridSize <= 0 {
		return v
	}
	return math.Round(v/c.cfg.GridSize) * c.cfg.GridSize
}

// --- pan ---

type panTool struct{}

func (panTool) pointerDown(c *Controller, _ pointer) { c.setState(StatePanning) }

func (panTool) pointerMove(c *Controller, p pointer) {
	d := p.screen.Sub(c.drag.lastScreen)
	if d.X == 0 && d.Y == 0 {
		return
	}
	c.setCamera(c.st.Camera.PanBy(d.X, d.Y))
	c.drag.moved = true
}

func (panTool) pointerUp(c *Controller, _ pointer, _ bool) {
	if c.drag.moved {
		c.markPending()
	}
	c.setState(StateIdle)
}

// --- select: move, resize, marquee ---

type selectTool struct{}

func (selectTool) pointerDown(c *Controller, p pointer) {
	sc := c.st.Scene
	sel := sc.Selection()

	if id, ok := sel.Primary(); ok {
		if n := sc.Note(id); n != nil {
			if h := HitResizeHandle(n, p.screen, c.st.Camera, c.metrics); h != HandleNone {
				c.drag.resizeID = n.ID
				c.drag.handle = h
				c.drag.orig = n.Bounds()
				c.setState(StateResizing)
				return
			}
		}
	}

	tol := c.cfg.BreakpointTolerance
	if bp, ok := HitConnectorBreakpoint(sc, p.world, tol); ok {
		c.drag.onBreakpoint = true
		c.drag.breakpoint = bp
		c.setState(StateMovingSelection)
		return
	}

	if n := HitNote(sc, p.world); n != nil {
		shift := p.Modifiers.Has(ModShift)
		switch {
		case shift:
			if !sel.Toggle(n.ID) {
				c.dirty = true
				return
			}
		case !sel.Contains(n.ID):
			sel.Set(n.ID)
		}
		sc.BringToFront(n.ID)
		c.drag.tapNote = n.ID
		c.drag.offsets = make(map[EntityID]Vec2, sel.Len())
		for _, sn := range sc.SelectedNotes() {
			c.drag.offsets[sn.ID] = p.world.Sub(Vec2{sn.X, sn.Y})
		}
		c.setState(StateMovingSelection)
		return
	}

	c.drag.marquee = Rect{X: p.world.X, Y: p.world.Y}
	if p.Modifiers.Has(ModShift) {
		c.drag.marqueeBase = sel.IDs()
	} else {
		sel.Clear()
	}
	c.setState(StateMarqueeing)
}

func (selectTool) pointerMove(c *Controller, p pointer) {
	sc := c.st.Scene
	switch c.state {
	case StateMovingSelection:
		if c.drag.onBreakpoint {
			conn := sc.Connector(c.drag.breakpoint.ConnectorID)
			i := c.drag.breakpoint.Index
			if conn == nil || i >= len(conn.Breakpoints) {
				return
			}
			next := Vec2{c.snap(p.world.X), c.snap(p.world.Y)}
			if conn.Breakpoints[i] != next {
				conn.Breakpoints[i] = next
				c.drag.moved = true
				c.dirty = true
			}
			return
		}
		for id, off := range c.drag.offsets {
			n := sc.Note(id)
			if n == nil {
				continue
			}
			x, y := c.snap(p.world.X-off.X), c.snap(p.world.Y-off.Y)
			if x != n.X || y != n.Y {
				n.X, n.Y = x, y
				c.drag.moved = true
				c.dirty = true
			}
		}

	case StateResizing:
		n := sc.Note(c.drag.resizeID)
		if n == nil {
			return
		}
		r := resizeRect(c.drag.orig, c.drag.handle, p.world.Sub(c.drag.startWorld), c.cfg.MinNoteSize)
		if r != n.Bounds() {
			n.X, n.Y, n.W, n.H = r.X, r.Y, r.Width, r.Height
			c.drag.moved = true
			c.dirty = true
		}

	case StateMarqueeing:
		c.drag.marquee = RectFromPoints(c.drag.startWorld, p.world)
		ids := EntitiesInRect(sc, c.drag.marquee)
		sc.Selection().Set(slices.Concat(c.drag.marqueeBase, ids)...)
		c.dirty = true
	}
}

func (selectTool) pointerUp(c *Controller, p pointer, cancelled bool) {
	switch c.state {
	case StateMovingSelection, StateResizing:
		action := "move"
		if c.state == StateResizing {
			action = "resize"
		}
		// Selecting or raising a note without moving it is not an edit.
		if c.drag.moved {
			c.commit(action)
		}
		tap := c.drag.tapNote
		tapped := !cancelled && tap != "" && p.screen.Dist(c.drag.startScreen) <= tapSlopPx
		c.setState(StateIdle)
		if tapped {
			c.registerTap(tap, p.world)
		}
	default:
		c.setState(StateIdle)
	}
}

// resizeRect returns orig resized by the total world delta d dragged on
// handle h. Width and height never drop below minSize; the corner opposite
// the handle stays fixed.
func resizeRect(orig Rect, h Handle, d Vec2, minSize float64) Rect {
	w, ht := orig.Width, orig.Height
	switch h {
	case HandleSE:
		w, ht = orig.Width+d.X, orig.Height+d.Y
	case HandleSW:
		w, ht = orig.Width-d.X, orig.Height+d.Y
	case HandleNE:
		w, ht = orig.Width+d.X, orig.Height-d.Y
	case HandleNW:
		w, ht = orig.Width-d.X, orig.Height-d.Y
	}
	w = math.Max(w, minSize)
	ht = math.Max(ht, minSize)
	r := Rect{X: orig.X, Y: orig.Y, Width: w, Height: ht}
	if h == HandleSW || h == HandleNW {
		r.X = orig.X + orig.Width - w
	}
	if h == HandleNE || h == HandleNW {
		r.Y = orig.Y + orig.Height - ht
	}
	return r
}

type tapRecord struct {
	note EntityID
	at   time.Time
}

// registerTap opens the editor when this tap follows a tap on the same note
// within the double-tap window and the pointer still hits that note.
func (c *Controller) registerTap(id EntityID, world Vec2) {
	now := c.now()
	prev := c.lastTap
	c.lastTap = tapRecord{note: id, at: now}
	if prev.note != id || now.Sub(prev.at) > c.cfg.DoubleTapWindow {
		return
	}
	if n := HitNote(c.st.Scene, world); n == nil || n.ID != id {
		return
	}
	c.lastTap = tapRecord{}
	c.BeginEdit(id)
}

// --- create ---

type createTool struct {
	kind NoteKind
}

func (t createTool) pointerDown(c *Controller, p pointer) {
	style := c.cfg.Notes.For(t.kind)
	col, err := ParseHexColor(style.Color)
	if err != nil {
		col = Color{R: 1, G: 1, B: 1, A: 1}
	}
	w := math.Max(style.W, c.cfg.MinNoteSize)
	h := math.Max(style.H, c.cfg.MinNoteSize)
	sc := c.st.Scene
	n := sc.AddNote(Note{
		Kind:  t.kind,
		X:     c.snap(p.world.X - w/2),
		Y:     c.snap(p.world.Y - h/2),
		W:     w,
		H:     h,
		Color: col,
	})
	sc.Selection().Set(n.ID)
	c.log.Debug("note created", "id", n.ID, "kind", t.kind)
	c.commit("create")
	if !c.cfg.KeepTool {
		c.SetTool(ToolSelect)
	}
	if t.kind == NoteText {
		c.BeginEdit(n.ID)
	}
}

func (createTool) pointerMove(*Controller, pointer)     {}
func (createTool) pointerUp(*Controller, pointer, bool) {}

// --- pen ---

type penTool struct{}

func (penTool) pointerDown(c *Controller, p pointer) {
	c.draft = &Stroke{Points: []Vec2{p.world}, Pen: c.st.Pen.clone()}
	c.setState(StateDrawingStroke)
}

func (penTool) pointerMove(c *Controller, p pointer) {
	if c.draft == nil {
		return
	}
	last := c.draft.Points[len(c.draft.Points)-1]
	if p.world.Dist(last) > c.cfg.StrokeSpacingPx/c.st.Camera.Scale {
		c.draft.Points = append(c.draft.Points, p.world)
		c.dirty = true
	}
}

func (penTool) pointerUp(c *Controller, _ pointer, _ bool) {
	draft := c.draft
	c.draft = nil
	if draft != nil && len(draft.Points) >= 2 {
		st := c.st.Scene.AddStroke(*draft)
		c.log.Debug("stroke finished", "id", st.ID, "points", len(st.Points))
		c.commit("stroke")
	}
	c.setState(StateIdle)
}

// --- connect ---

type connectTool struct{}

func (connectTool) pointerDown(c *Controller, p pointer) {
	sc := c.st.Scene
	n := HitNote(sc, p.world)
	if c.state != StateConnectingFirstPick {
		if n != nil {
			c.connect = n.ID
			c.setState(StateConnectingFirstPick)
		}
		return
	}
	switch {
	case n == nil:
		c.connect = ""
		c.setState(StateIdle)
	case n.ID == c.connect:
		// Same note again: keep waiting for a different target.
	default:
		conn := sc.AddConnector(c.connect, n.ID)
		c.connect = ""
		c.setState(StateConnectingComplete)
		if conn != nil {
			c.log.Debug("connector created", "id", conn.ID, "from", conn.FromID, "to", conn.ToID)
			c.commit("connect")
		}
		c.setState(StateIdle)
	}
}

func (connectTool) pointerMove(*Controller, pointer)     {}
func (connectTool) pointerUp(*Controller, pointer, bool) {}
