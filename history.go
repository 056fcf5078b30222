package pinboard

import "slices"

// Snapshot is an immutable deep copy of the scene's entities and selection.
type Snapshot struct {
	Notes      []Note
	Connectors []Connector
	Strokes    []Stroke
	Selection  []EntityID
}

// TakeSnapshot deep-copies the scene. Nothing in the result aliases s.
func TakeSnapshot(s *Scene) Snapshot {
	snap := Snapshot{
		Notes:      make([]Note, len(s.notes)),
		Connectors: make([]Connector, len(s.connectors)),
		Strokes:    make([]Stroke, len(s.strokes)),
		Selection:  s.selection.IDs(),
	}
	for i, n := range s.notes {
		snap.Notes[i] = *n
	}
	for i, c := range s.connectors {
		snap.Connectors[i] = c.clone()
	}
	for i, st := range s.strokes {
		snap.Strokes[i] = st.clone()
	}
	return snap
}

// Matches reports whether the scene is observably equal to the snapshot.
func (snap *Snapshot) Matches(s *Scene) bool {
	if len(snap.Notes) != len(s.notes) ||
		len(snap.Connectors) != len(s.connectors) ||
		len(snap.Strokes) != len(s.strokes) ||
		!slices.Equal(snap.Selection, s.selection.ids) {
		return false
	}
	for i, n := range s.notes {
		if snap.Notes[i] != *n {
			return false
		}
	}
	for i, c := range s.connectors {
		sc := snap.Connectors[i]
		if sc.ID != c.ID || sc.FromID != c.FromID || sc.ToID != c.ToID || !slices.Equal(sc.Breakpoints, c.Breakpoints) {
			return false
		}
	}
	for i, st := range s.strokes {
		ss := snap.Strokes[i]
		if ss.ID != st.ID || !slices.Equal(ss.Points, st.Points) || !penEqual(ss.Pen, st.Pen) {
			return false
		}
	}
	return true
}

func penEqual(a, b Pen) bool {
	if a.Color != b.Color || a.Size != b.Size {
		return false
	}
	if a.Opacity == nil || b.Opacity == nil {
		return a.Opacity == b.Opacity
	}
	return *a.Opacity == *b.Opacity
}

// restore replaces the scene contents with copies of the snapshot. The
// primary selection follows from the restored set.
func (snap *Snapshot) restore(s *Scene) {
	s.replace(snap.Notes, snap.Connectors, snap.Strokes, snap.Selection)
}

// History is a bounded undo/redo stack of full scene snapshots with a cursor.
// Once a snapshot exists, 0 <= Index() < Len().
type History struct {
	limit   int
	entries []Snapshot
	index   int
}

// NewHistory creates an empty history holding at most limit snapshots.
// A limit below 1 is treated as 1.
func NewHistory(limit int) *History {
	return &History{limit: max(1, limit), index: -1}
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor, or -1 when empty.
func (h *History) Index() int { return h.index }

// Limit returns the maximum number of snapshots kept.
func (h *History) Limit() int { return h.limit }

// CanUndo reports whether Undo would change the scene.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would change the scene.
func (h *History) CanRedo() bool { return h.index >= 0 && h.index < len(h.entries)-1 }

// Current returns the snapshot under the cursor.
func (h *History) Current() (*Snapshot, bool) {
	if h.index < 0 {
		return nil, false
	}
	return &h.entries[h.index], true
}

// Push records the scene. Entries after the cursor are discarded first; when
// the limit is exceeded the oldest entry is evicted.
func (h *History) Push(s *Scene) {
	if h.index < len(h.entries)-1 {
		clear(h.entries[h.index+1:])
		h.entries = h.entries[:h.index+1]
	}
	h.entries = append(h.entries, TakeSnapshot(s))
	if len(h.entries) > h.limit {
		h.entries[0] = Snapshot{}
		h.entries = h.entries[1:]
	}
	h.index = len(h.entries) - 1
}

// Reset drops every entry and records s as the only snapshot.
func (h *History) Reset(s *Scene) {
	clear(h.entries)
	h.entries = h.entries[:0]
	h.index = -1
	h.Push(s)
}

// Undo moves the cursor back and restores that snapshot into s. At the
// oldest entry it does nothing and returns false.
func (h *History) Undo(s *Scene) bool {
	if !h.CanUndo() {
		return false
	}
	h.index--
	h.entries[h.index].restore(s)
	return true
}

// Redo moves the cursor forward and restores that snapshot into s. At the
// newest entry it does nothing and returns false.
func (h *History) Redo(s *Scene) bool {
	if !h.CanRedo() {
		return false
	}
	h.index++
	h.entries[h.index].restore(s)
	return true
}
