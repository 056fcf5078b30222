package pinboard

import "slices"

// EntityID identifies a note, connector or stroke. IDs are unique for the
// lifetime of a board session.
type EntityID string

// EntityKind distinguishes the three entity lists of a Scene.
type EntityKind uint8

const (
	KindNote EntityKind = iota
	KindConnector
	KindStroke
)

// NoteKind selects how a note is drawn. It has no effect on hit testing,
// which always uses the bounding box.
type NoteKind string

const (
	NoteSticky  NoteKind = "sticky"
	NoteShape   NoteKind = "shape"
	NoteEllipse NoteKind = "ellipse"
	NoteText    NoteKind = "text"
	NoteFrame   NoteKind = "frame"
)

// Entity is implemented by *Note, *Connector and *Stroke.
type Entity interface {
	EntityID() EntityID
	EntityKind() EntityKind
}

// Note is a rectangular board entity in world units.
type Note struct {
	ID    EntityID `json:"id"`
	Kind  NoteKind `json:"kind,omitempty"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	W     float64  `json:"w"`
	H     float64  `json:"h"`
	Text  string   `json:"text"`
	Color Color    `json:"color"`
}

// EntityID implements Entity.
func (n *Note) EntityID() EntityID { return n.ID }

// EntityKind implements Entity.
func (n *Note) EntityKind() EntityKind { return KindNote }

// Bounds returns the note's axis-aligned bounding box.
func (n *Note) Bounds() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.W, Height: n.H}
}

// Connector links two notes, optionally routed through breakpoints.
type Connector struct {
	ID          EntityID `json:"id"`
	FromID      EntityID `json:"fromId"`
	ToID        EntityID `json:"toId"`
	Breakpoints []Vec2   `json:"breakpoints,omitempty"`
}

// EntityID implements Entity.
func (c *Connector) EntityID() EntityID { return c.ID }

// EntityKind implements Entity.
func (c *Connector) EntityKind() EntityKind { return KindConnector }

func (c Connector) clone() Connector {
	c.Breakpoints = slices.Clone(c.Breakpoints)
	return c
}

// Pen describes how a stroke is drawn. A nil Opacity means fully opaque.
type Pen struct {
	Color   Color    `json:"color"`
	Size    float64  `json:"size"`
	Opacity *float64 `json:"opacity"`
}

func (p Pen) clone() Pen {
	if p.Opacity != nil {
		o := *p.Opacity
		p.Opacity = &o
	}
	return p
}

// Stroke is a freehand pen path in world units. Points are appended while
// drawing; a finalized stroke is never modified, only deleted.
type Stroke struct {
	ID     EntityID `json:"id"`
	Points []Vec2   `json:"points"`
	Pen    Pen      `json:"pen"`
}

// EntityID implements Entity.
func (s *Stroke) EntityID() EntityID { return s.ID }

// EntityKind implements Entity.
func (s *Stroke) EntityKind() EntityKind { return KindStroke }

// Bounds returns the bounding box of the stroke's points.
func (s *Stroke) Bounds() Rect {
	if len(s.Points) == 0 {
		return Rect{}
	}
	r := Rect{X: s.Points[0].X, Y: s.Points[0].Y}
	for _, p := range s.Points[1:] {
		r = r.Union(Rect{X: p.X, Y: p.Y})
	}
	return r
}

func (s Stroke) clone() Stroke {
	s.Points = slices.Clone(s.Points)
	s.Pen = s.Pen.clone()
	return s
}
