package pinboard

import "slices"

// Scene is the authoritative collection of board entities plus the
// selection. Each entity list is z-ordered by insertion and BringToFront:
// the last element is topmost.
//
// Scene performs CRUD only. Gesture rules such as the minimum note size are
// enforced by the Controller.
type Scene struct {
	notes      []*Note
	connectors []*Connector
	strokes    []*Stroke
	selection  Selection
	ids        IDSource
}

// NewScene creates an empty scene. A nil IDSource defaults to TypeIDs.
func NewScene(ids IDSource) *Scene {
	if ids == nil {
		ids = TypeIDs{}
	}
	return &Scene{ids: ids}
}

// Notes returns the notes bottom to top. The returned slice MUST NOT be mutated.
func (s *Scene) Notes() []*Note { return s.notes }

// Connectors returns all connectors, including dangling ones. The returned
// slice MUST NOT be mutated.
func (s *Scene) Connectors() []*Connector { return s.connectors }

// Strokes returns the finalized strokes bottom to top. The returned slice
// MUST NOT be mutated.
func (s *Scene) Strokes() []*Stroke { return s.strokes }

// Selection returns the live selection set.
func (s *Scene) Selection() *Selection { return &s.selection }

// Len returns the total entity count.
func (s *Scene) Len() int { return len(s.notes) + len(s.connectors) + len(s.strokes) }

// AddNote inserts a copy of n on top of the note stack and returns it. An
// empty ID is replaced by a fresh one.
func (s *Scene) AddNote(n Note) *Note {
	if n.ID == "" {
		n.ID = s.ids.NewID(KindNote)
	} else {
		s.ids.Observe(n.ID)
	}
	p := &n
	s.notes = append(s.notes, p)
	return p
}

// AddConnector links from to to. It returns nil, creating nothing, when
// from == to, when either note does not exist, or when a connector with the
// same direction already exists. The reverse direction is a distinct
// connector and is allowed.
func (s *Scene) AddConnector(from, to EntityID, breakpoints ...Vec2) *Connector {
	if from == to || s.Note(from) == nil || s.Note(to) == nil {
		return nil
	}
	for _, c := range s.connectors {
		if c.FromID == from && c.ToID == to {
			return nil
		}
	}
	c := &Connector{
		ID:          s.ids.NewID(KindConnector),
		FromID:      from,
		ToID:        to,
		Breakpoints: slices.Clone(breakpoints),
	}
	s.connectors = append(s.connectors, c)
	return c
}

// AddStroke inserts a copy of st on top of the stroke stack and returns it.
func (s *Scene) AddStroke(st Stroke) *Stroke {
	st = st.clone()
	if st.ID == "" {
		st.ID = s.ids.NewID(KindStroke)
	} else {
		s.ids.Observe(st.ID)
	}
	p := &st
	s.strokes = append(s.strokes, p)
	return p
}

// RemoveEntities deletes the given entities of any kind, every connector
// attached to a removed note, and their selection entries. It returns the
// number of entities removed, cascaded connectors included.
func (s *Scene) RemoveEntities(ids ...EntityID) int {
	if len(ids) == 0 {
		return 0
	}
	gone := make(map[EntityID]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	removed := 0
	noteGone := false
	s.notes = slices.DeleteFunc(s.notes, func(n *Note) bool {
		_, ok := gone[n.ID]
		if ok {
			removed++
			noteGone = true
		}
		return ok
	})
	s.connectors = slices.DeleteFunc(s.connectors, func(c *Connector) bool {
		_, self := gone[c.ID]
		cascade := false
		if noteGone {
			_, from := gone[c.FromID]
			_, to := gone[c.ToID]
			cascade = from || to
		}
		if self || cascade {
			gone[c.ID] = struct{}{}
			removed++
			return true
		}
		return false
	})
	s.strokes = slices.DeleteFunc(s.strokes, func(st *Stroke) bool {
		_, ok := gone[st.ID]
		if ok {
			removed++
		}
		return ok
	})
	s.selection.ids = slices.DeleteFunc(s.selection.ids, func(id EntityID) bool {
		_, ok := gone[id]
		return ok
	})
	return removed
}

// BringToFront moves the entity to the end of its list. It reports false if
// the id is unknown.
func (s *Scene) BringToFront(id EntityID) bool {
	return toFront(s.notes, id) || toFront(s.connectors, id) || toFront(s.strokes, id)
}

func toFront[E Entity](list []E, id EntityID) bool {
	i := slices.IndexFunc(list, func(e E) bool { return e.EntityID() == id })
	if i < 0 {
		return false
	}
	e := list[i]
	copy(list[i:], list[i+1:])
	list[len(list)-1] = e
	return true
}

// FindByID returns the entity with the given id, or nil.
func (s *Scene) FindByID(id EntityID) Entity {
	if n := s.Note(id); n != nil {
		return n
	}
	if c := s.Connector(id); c != nil {
		return c
	}
	if st := s.Stroke(id); st != nil {
		return st
	}
	return nil
}

// Note returns the note with the given id, or nil.
func (s *Scene) Note(id EntityID) *Note { return find(s.notes, id) }

// Connector returns the connector with the given id, or nil.
func (s *Scene) Connector(id EntityID) *Connector { return find(s.connectors, id) }

// Stroke returns the stroke with the given id, or nil.
func (s *Scene) Stroke(id EntityID) *Stroke { return find(s.strokes, id) }

func find[E Entity](list []E, id EntityID) E {
	for _, e := range list {
		if e.EntityID() == id {
			return e
		}
	}
	var zero E
	return zero
}

// IsDangling reports whether either endpoint of c no longer resolves to a
// note. Dangling connectors are kept but skipped by hit testing and renderers.
func (s *Scene) IsDangling(c *Connector) bool {
	return s.Note(c.FromID) == nil || s.Note(c.ToID) == nil
}

// SelectedNotes returns the selected notes in z-order.
func (s *Scene) SelectedNotes() []*Note {
	var out []*Note
	for _, n := range s.notes {
		if s.selection.Contains(n.ID) {
			out = append(out, n)
		}
	}
	return out
}

// NotesBounds returns the union of all note bounds, or false when there are
// no notes.
func (s *Scene) NotesBounds() (Rect, bool) {
	if len(s.notes) == 0 {
		return Rect{}, false
	}
	r := s.notes[0].Bounds()
	for _, n := range s.notes[1:] {
		r = r.Union(n.Bounds())
	}
	return r, true
}

// replace swaps in deep copies of the given entity lists and selection.
// Used by history restore and board load; nothing aliases the inputs.
func (s *Scene) replace(notes []Note, connectors []Connector, strokes []Stroke, selection []EntityID) {
	s.notes = make([]*Note, 0, len(notes))
	for _, n := range notes {
		s.ids.Observe(n.ID)
		s.notes = append(s.notes, &n)
	}
	s.connectors = make([]*Connector, 0, len(connectors))
	for _, c := range connectors {
		c := c.clone()
		s.ids.Observe(c.ID)
		s.connectors = append(s.connectors, &c)
	}
	s.strokes = make([]*Stroke, 0, len(strokes))
	for _, st := range strokes {
		st := st.clone()
		s.ids.Observe(st.ID)
		s.strokes = append(s.strokes, &st)
	}
	s.selection.Set(selection...)
}
