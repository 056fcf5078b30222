package pinboard

import "testing"

func newTestHistory(limit int) (*Scene, *History) {
	s := newTestScene()
	h := NewHistory(limit)
	h.Reset(s)
	return s, h
}

func TestHistoryUndoRedoInverse(t *testing.T) {
	s, h := newTestHistory(10)
	n := addTestNote(s, 0, 0, 100, 100)
	h.Push(s)
	n.X = 500
	h.Push(s)

	after := TakeSnapshot(s)
	if !h.Undo(s) {
		t.Fatal("Undo = false")
	}
	if got := s.Note(n.ID); got == nil || got.X != 0 {
		t.Fatalf("after undo note = %+v, want X=0", got)
	}
	if !h.Redo(s) {
		t.Fatal("Redo = false")
	}
	if !after.Matches(s) {
		t.Error("undo then redo did not restore the scene")
	}
}

func TestHistoryBoundaryNoOps(t *testing.T) {
	s, h := newTestHistory(10)
	if h.Undo(s) || h.CanUndo() {
		t.Error("undo possible on base snapshot")
	}
	if h.Redo(s) || h.CanRedo() {
		t.Error("redo possible at newest entry")
	}
	if h.Len() != 1 || h.Index() != 0 {
		t.Errorf("Len=%d Index=%d, want 1 0", h.Len(), h.Index())
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(0)
	if h.Limit() != 1 {
		t.Errorf("Limit = %d, want 1", h.Limit())
	}
	if _, ok := h.Current(); ok || h.Index() != -1 {
		t.Error("empty history has a current entry")
	}
	if h.CanRedo() || h.CanUndo() {
		t.Error("empty history can undo or redo")
	}
}

func TestHistoryBranchDiscard(t *testing.T) {
	s, h := newTestHistory(10)
	addTestNote(s, 0, 0, 10, 10)
	h.Push(s)
	addTestNote(s, 20, 0, 10, 10)
	h.Push(s)

	h.Undo(s)
	addTestNote(s, 40, 0, 10, 10)
	h.Push(s)

	if h.CanRedo() {
		t.Error("redo branch survived a push")
	}
	if h.Len() != 3 || h.Index() != 2 {
		t.Errorf("Len=%d Index=%d, want 3 2", h.Len(), h.Index())
	}
	h.Undo(s)
	if len(s.Notes()) != 1 {
		t.Errorf("after undo notes = %d, want 1", len(s.Notes()))
	}
}

func TestHistoryEviction(t *testing.T) {
	s, h := newTestHistory(3)
	for i := 0; i < 5; i++ {
		addTestNote(s, float64(i)*20, 0, 10, 10)
		h.Push(s)
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want limit 3", h.Len())
	}
	for h.Undo(s) {
	}
	// Oldest surviving snapshot holds notes 1..3.
	if len(s.Notes()) != 3 {
		t.Errorf("oldest snapshot notes = %d, want 3", len(s.Notes()))
	}
	if h.Index() != 0 {
		t.Errorf("Index = %d, want 0", h.Index())
	}
}

func TestHistoryRestoreDoesNotAlias(t *testing.T) {
	s, h := newTestHistory(10)
	a := addTestNote(s, 0, 0, 100, 100)
	b := addTestNote(s, 300, 0, 100, 100)
	c := s.AddConnector(a.ID, b.ID, Vec2{200, 50})
	s.Selection().Set(a.ID)
	h.Push(s)

	// Mutating the live scene must not reach the snapshot.
	c.Breakpoints[0] = Vec2{999, 999}
	s.Note(a.ID).X = 42
	snap, _ := h.Current()
	if snap.Notes[0].X != 0 || snap.Connectors[0].Breakpoints[0] != (Vec2{200, 50}) {
		t.Fatal("snapshot aliased into the live scene")
	}

	addTestNote(s, 0, 0, 1, 1)
	h.Push(s)
	h.Undo(s)
	// And mutating after restore must not reach the history entry.
	s.Connectors()[0].Breakpoints[0] = Vec2{-1, -1}
	h.Redo(s)
	h.Undo(s)
	if got := s.Connectors()[0].Breakpoints[0]; got != (Vec2{200, 50}) {
		t.Errorf("breakpoint after undo = %v, want (200,50)", got)
	}
	if id, ok := s.Selection().Primary(); !ok || id != a.ID {
		t.Errorf("restored selection = %v", s.Selection().IDs())
	}
}

func TestSnapshotMatches(t *testing.T) {
	s := newTestScene()
	addTestNote(s, 0, 0, 10, 10)
	op := 0.5
	s.AddStroke(Stroke{Points: []Vec2{{0, 0}, {1, 1}}, Pen: Pen{Size: 2, Opacity: &op}})
	snap := TakeSnapshot(s)
	if !snap.Matches(s) {
		t.Fatal("fresh snapshot does not match")
	}
	other := 0.5
	s.Strokes()[0].Pen.Opacity = &other
	if !snap.Matches(s) {
		t.Error("equal opacity through a different pointer reported unequal")
	}
	s.Selection().Set(s.Notes()[0].ID)
	if snap.Matches(s) {
		t.Error("selection change not detected")
	}
}
