package pinboard

import "testing"

var testMetrics = HandleMetrics{BasePx: 8, MinPx: 6, HitPadding: 6}

func TestHitNoteTopmostFirst(t *testing.T) {
	s := newTestScene()
	bottom := addTestNote(s, 0, 0, 200, 200)
	top := addTestNote(s, 50, 50, 100, 100)

	if got := HitNote(s, Vec2{75, 75}); got != top {
		t.Errorf("overlap hit = %v, want top", got)
	}
	if got := HitNote(s, Vec2{10, 10}); got != bottom {
		t.Errorf("bottom-only hit = %v, want bottom", got)
	}
	if got := HitNote(s, Vec2{500, 500}); got != nil {
		t.Errorf("empty hit = %v, want nil", got)
	}
	// Edges are inside.
	if got := HitNote(s, Vec2{200, 200}); got != bottom {
		t.Errorf("edge hit = %v, want bottom", got)
	}
}

func TestHandleSizes(t *testing.T) {
	if got := testMetrics.VisibleSize(1); got != 8 {
		t.Errorf("VisibleSize(1) = %v, want 8", got)
	}
	if got := testMetrics.VisibleSize(0.1); got != 6 {
		t.Errorf("VisibleSize(0.1) = %v, want min 6", got)
	}
	if got := testMetrics.VisibleSize(2); got != 16 {
		t.Errorf("VisibleSize(2) = %v, want 16", got)
	}
	if got := testMetrics.HitSize(1); got != 48 {
		t.Errorf("HitSize(1) = %v, want 48", got)
	}
	if testMetrics.HitSize(0.1) <= testMetrics.VisibleSize(0.1) {
		t.Error("hit region not larger than visible handle")
	}
}

func TestHitResizeHandle(t *testing.T) {
	n := &Note{ID: "n", X: 100, Y: 100, W: 200, H: 100}
	cam := DefaultCamera()

	tests := []struct {
		name string
		at   Vec2
		want Handle
	}{
		{"nw corner", Vec2{100, 100}, HandleNW},
		{"ne corner", Vec2{300, 100}, HandleNE},
		{"sw corner", Vec2{100, 200}, HandleSW},
		{"se corner", Vec2{300, 200}, HandleSE},
		{"se padded", Vec2{320, 220}, HandleSE},
		{"outside padding", Vec2{330, 230}, HandleNone},
		{"center", Vec2{200, 150}, HandleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitResizeHandle(n, tt.at, cam, testMetrics); got != tt.want {
				t.Errorf("HitResizeHandle(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
	if got := HitResizeHandle(nil, Vec2{}, cam, testMetrics); got != HandleNone {
		t.Errorf("nil note = %v", got)
	}
}

func TestHitResizeHandleZoomedOut(t *testing.T) {
	// At scale 0.1 the note is a 10x10 screen square; every corner's hit
	// square covers it, so the nearest corner must win.
	n := &Note{ID: "n", X: 0, Y: 0, W: 100, H: 100}
	cam := Camera{Scale: 0.1}
	if got := HitResizeHandle(n, Vec2{9, 9}, cam, testMetrics); got != HandleSE {
		t.Errorf("near se = %v, want se", got)
	}
	if got := HitResizeHandle(n, Vec2{1, 9}, cam, testMetrics); got != HandleSW {
		t.Errorf("near sw = %v, want sw", got)
	}
}

func TestHitResizeHandleScreenSpace(t *testing.T) {
	n := &Note{ID: "n", X: 0, Y: 0, W: 100, H: 100}
	cam := Camera{X: 50, Y: 50, Scale: 2}
	// se corner is at world (100,100) -> screen (250,250).
	if got := HitResizeHandle(n, Vec2{250, 250}, cam, testMetrics); got != HandleSE {
		t.Errorf("se at screen (250,250) = %v", got)
	}
}

func TestHandleRects(t *testing.T) {
	n := &Note{X: 0, Y: 0, W: 100, H: 50}
	rects := HandleRects(n, DefaultCamera(), 8)
	if rects[HandleNW] != (Rect{X: -4, Y: -4, Width: 8, Height: 8}) {
		t.Errorf("nw rect = %+v", rects[HandleNW])
	}
	if rects[HandleSE] != (Rect{X: 96, Y: 46, Width: 8, Height: 8}) {
		t.Errorf("se rect = %+v", rects[HandleSE])
	}
}

func TestHitConnectorBreakpoint(t *testing.T) {
	s := newTestScene()
	a := addTestNote(s, 0, 0, 50, 50)
	b := addTestNote(s, 300, 0, 50, 50)
	c := s.AddConnector(a.ID, b.ID, Vec2{150, 100}, Vec2{200, 100})

	hit, ok := HitConnectorBreakpoint(s, Vec2{205, 95}, 8)
	if !ok || hit.ConnectorID != c.ID || hit.Index != 1 {
		t.Errorf("hit = %+v, %v; want index 1 of %s", hit, ok, c.ID)
	}
	// Square window: a diagonal offset of 7,7 is inside.
	if _, ok := HitConnectorBreakpoint(s, Vec2{157, 107}, 8); !ok {
		t.Error("diagonal offset inside square window missed")
	}
	if _, ok := HitConnectorBreakpoint(s, Vec2{170, 100}, 8); ok {
		t.Error("point outside tolerance hit")
	}

	// Dangling connectors are skipped.
	s.notes = s.notes[:1]
	if _, ok := HitConnectorBreakpoint(s, Vec2{150, 100}, 8); ok {
		t.Error("dangling connector breakpoint hit")
	}
}

func TestEntitiesInRectContainment(t *testing.T) {
	s := newTestScene()
	inside := addTestNote(s, 10, 10, 50, 50)
	partial := addTestNote(s, 80, 80, 50, 50)
	exact := addTestNote(s, 0, 0, 100, 100)
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	ids := EntitiesInRect(s, r)
	has := func(id EntityID) bool {
		for _, x := range ids {
			if x == id {
				return true
			}
		}
		return false
	}
	if !has(inside.ID) {
		t.Error("fully contained note excluded")
	}
	if has(partial.ID) {
		t.Error("partially overlapping note included")
	}
	if !has(exact.ID) {
		t.Error("note sharing the rect's edges excluded")
	}
}
