package pinboard

import (
	"errors"
	"testing"
	"time"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"delete", KeyDelete},
		{"Del", KeyDelete},
		{"backspace", KeyBackspace},
		{"ESC", KeyEscape},
		{"return", KeyEnter},
		{"z", KeyZ},
		{"1", Key1},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseKey(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseKey("unknown"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("ParseKey(unknown) err = %v, want ErrUnknownKey", err)
	}
	if _, err := ParseKey("f13"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("ParseKey(f13) err = %v, want ErrUnknownKey", err)
	}
}

func TestUndoRedoShortcuts(t *testing.T) {
	c, _ := newTestController(t)
	createSticky(t, c, 100, 100)
	createSticky(t, c, 400, 100)

	c.KeyDown(KeyEvent{Key: KeyZ, Modifiers: ModCtrl})
	if n := len(c.Scene().Notes()); n != 1 {
		t.Fatalf("after ctrl+z notes = %d, want 1", n)
	}
	c.KeyDown(KeyEvent{Key: KeyZ, Modifiers: ModMeta})
	if n := len(c.Scene().Notes()); n != 0 {
		t.Fatalf("after cmd+z notes = %d, want 0", n)
	}
	if c.Undo() {
		t.Error("undo past the base snapshot")
	}
	c.KeyDown(KeyEvent{Key: KeyZ, Modifiers: ModCtrl | ModShift})
	if n := len(c.Scene().Notes()); n != 1 {
		t.Fatalf("after ctrl+shift+z notes = %d, want 1", n)
	}
	c.KeyDown(KeyEvent{Key: KeyY, Modifiers: ModCtrl})
	if n := len(c.Scene().Notes()); n != 2 {
		t.Fatalf("after ctrl+y notes = %d, want 2", n)
	}
	if c.Redo() {
		t.Error("redo past the newest snapshot")
	}
	if c.KeyDown(KeyEvent{Key: KeyZ}) {
		t.Error("bare z handled as a shortcut")
	}
}

func TestUndoIgnoredMidGesture(t *testing.T) {
	c, _ := newTestController(t)
	createSticky(t, c, 100, 100)
	press(c, 100, 100)
	move(c, 150, 100)
	if c.Undo() {
		t.Error("undo applied during a drag")
	}
	release(c, 150, 100)
	if !c.Undo() {
		t.Error("undo after the drag failed")
	}
	if n := c.Scene().Notes()[0]; n.X != 20 {
		t.Errorf("undo restored x = %v, want 20", n.X)
	}
}

func TestBackspaceDeletes(t *testing.T) {
	c, _ := newTestController(t)
	createSticky(t, c, 100, 100)
	if !c.KeyDown(KeyEvent{Key: KeyBackspace}) {
		t.Fatal("backspace not handled")
	}
	if c.Scene().Len() != 0 {
		t.Error("backspace did not delete the selection")
	}
	if c.DeleteSelection() != 0 {
		t.Error("empty selection deleted something")
	}
}

func TestDuplicateSelection(t *testing.T) {
	c, _ := newTestController(t)
	a := createSticky(t, c, 100, 100)
	b := createSticky(t, c, 500, 100)
	createSticky(t, c, 100, 500)
	c.Scene().AddConnector(a.ID, b.ID, Vec2{300, 50})
	c.Select(a.ID, b.ID)

	if !c.KeyDown(KeyEvent{Key: KeyD, Modifiers: ModCtrl}) {
		t.Fatal("ctrl+d not handled")
	}
	sc := c.Scene()
	if len(sc.Notes()) != 5 || len(sc.Connectors()) != 2 {
		t.Fatalf("notes=%d connectors=%d, want 5 2", len(sc.Notes()), len(sc.Connectors()))
	}
	sel := sc.SelectedNotes()
	if len(sel) != 2 || sc.Selection().Len() != 3 {
		t.Fatalf("selection = %v", sc.Selection().IDs())
	}
	if sel[0].X != a.X+20 || sel[0].Y != a.Y+20 {
		t.Errorf("copy at (%v,%v), want offset by 20", sel[0].X, sel[0].Y)
	}
	dup := sc.Connectors()[1]
	if dup.FromID != sel[0].ID || dup.ToID != sel[1].ID {
		t.Errorf("copied connector %s -> %s", dup.FromID, dup.ToID)
	}
	if dup.Breakpoints[0] != (Vec2{320, 70}) {
		t.Errorf("copied breakpoint = %v", dup.Breakpoints[0])
	}

	c.Undo()
	if len(sc.Notes()) != 3 {
		t.Error("duplicate not undone in one step")
	}
}

func TestDuplicateStroke(t *testing.T) {
	c, _ := newTestController(t)
	st := c.Scene().AddStroke(Stroke{Points: []Vec2{{0, 0}, {10, 10}}})
	c.Select(st.ID)
	ids := c.DuplicateSelection()
	if len(ids) != 1 {
		t.Fatalf("ids = %v", ids)
	}
	cp := c.Scene().Stroke(ids[0])
	if cp.Points[1] != (Vec2{30, 30}) || st.Points[1] != (Vec2{10, 10}) {
		t.Errorf("copy %v original %v", cp.Points, st.Points)
	}
}

func TestEscapeClearsSelectionAndCancels(t *testing.T) {
	c, _ := newTestController(t)
	a := createSticky(t, c, 100, 100)
	c.KeyDown(KeyEvent{Key: KeyEscape})
	if c.Scene().Selection().Len() != 0 {
		t.Error("escape kept the selection")
	}

	press(c, 400, 400)
	move(c, 500, 500)
	c.KeyDown(KeyEvent{Key: KeyEscape})
	if c.State() != StateIdle {
		t.Errorf("marquee state after escape = %v", c.State())
	}
	move(c, 0, 0)
	release(c, 0, 0)
	if c.Scene().Selection().Len() != 0 {
		t.Error("cancelled marquee still selected notes")
	}

	c.SetTool(ToolConnect)
	click(c, 100, 100)
	c.Escape()
	if _, ok := c.ConnectSource(); ok || c.State() != StateIdle {
		t.Error("escape did not cancel the connect pick")
	}
	if c.Scene().Note(a.ID) == nil {
		t.Error("escape removed a note")
	}
}

func TestEscapeDuringMoveKeepsSelection(t *testing.T) {
	c, _ := newTestController(t)
	n := createSticky(t, c, 100, 100)
	before := c.History().Len()

	press(c, 100, 100)
	move(c, 150, 100)
	c.KeyDown(KeyEvent{Key: KeyEscape})
	if c.State() != StateMovingSelection || !c.Scene().Selection().Contains(n.ID) {
		t.Fatalf("escape mid-move: state=%v selection=%v", c.State(), c.Scene().Selection().IDs())
	}
	move(c, 160, 100)
	release(c, 160, 100)
	if n.X != 80 || c.History().Len() != before+1 {
		t.Errorf("x=%v history=%d, want 80 %d", n.X, c.History().Len(), before+1)
	}
	if !c.Scene().Selection().Contains(n.ID) {
		t.Error("move committed with an empty selection")
	}
}

func TestZoomToFitAnimates(t *testing.T) {
	c, _ := newTestController(t)
	createSticky(t, c, 100, 100)
	createSticky(t, c, 2000, 1200)

	if !c.KeyDown(KeyEvent{Key: Key1, Modifiers: ModShift}) {
		t.Fatal("shift+1 not handled")
	}
	if !c.Animating() {
		t.Fatal("zoom to fit did not start an animation")
	}
	for i := 0; i < 30 && c.Animating(); i++ {
		c.Tick(1.0 / 60)
	}
	if c.Animating() {
		t.Fatal("animation still running after 0.5s")
	}
	bounds, _ := c.Scene().NotesBounds()
	vis := c.Camera().VisibleBounds(c.Viewport())
	if !vis.ContainsRect(bounds) {
		t.Errorf("visible %+v does not contain notes %+v", vis, bounds)
	}
	if !c.Pending() {
		t.Error("camera change not pending save")
	}
}

func TestZoomToFitEmptyBoard(t *testing.T) {
	c, _ := newTestController(t)
	c.SetCamera(Camera{X: 300, Y: 300, Scale: 3})
	c.ZoomToFit()
	for i := 0; i < 60 && c.Animating(); i++ {
		c.Tick(1.0 / 60)
	}
	if c.Camera() != DefaultCamera() {
		t.Errorf("camera = %+v, want default", c.Camera())
	}
}

func TestPointerDownStopsAnimation(t *testing.T) {
	c, _ := newTestController(t)
	c.ScrollTo(Vec2{1000, 1000}, time.Second)
	if !c.Animating() {
		t.Fatal("ScrollTo did not animate")
	}
	press(c, 10, 10)
	if c.Animating() {
		t.Error("pointer down did not stop the animation")
	}
	release(c, 10, 10)
}

func TestScrollToImmediate(t *testing.T) {
	c, _ := newTestController(t)
	c.SetCamera(Camera{Scale: 2})
	c.ScrollTo(Vec2{100, 50}, 0)
	s := c.Camera().WorldToScreen(100, 50)
	if !approxEqual(s.X, 400, epsilon) || !approxEqual(s.Y, 300, epsilon) {
		t.Errorf("world point at %v, want viewport center", s)
	}
	if c.Camera().Scale != 2 {
		t.Error("ScrollTo changed the scale")
	}
}

func TestSetColorAndBreakpoint(t *testing.T) {
	c, _ := newTestController(t)
	a := createSticky(t, c, 100, 100)
	b := createSticky(t, c, 500, 100)
	c.Select(a.ID)
	red := MustParseHexColor("#ff0000")
	c.SetColor(red)
	if a.Color != red {
		t.Errorf("color = %v", a.Color)
	}
	conn := c.Scene().AddConnector(a.ID, b.ID)
	if !c.AddBreakpoint(conn.ID, Vec2{300, 300}) {
		t.Fatal("AddBreakpoint failed")
	}
	if c.AddBreakpoint("missing", Vec2{}) {
		t.Error("AddBreakpoint on a missing connector")
	}
}

func TestDragBreakpoint(t *testing.T) {
	c, _ := newTestController(t)
	a := createSticky(t, c, 100, 100)
	b := createSticky(t, c, 500, 100)
	conn := c.Scene().AddConnector(a.ID, b.ID)
	c.AddBreakpoint(conn.ID, Vec2{300, 400})
	c.Escape()

	drag(c, 303, 397, 320, 450)
	if got := conn.Breakpoints[0]; got != (Vec2{320, 450}) {
		t.Errorf("breakpoint = %v, want (320,450)", got)
	}
	c.Undo()
	if got := c.Scene().Connector(conn.ID).Breakpoints[0]; got != (Vec2{300, 400}) {
		t.Errorf("after undo breakpoint = %v", got)
	}
}
