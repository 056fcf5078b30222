package pinboard

import (
	"fmt"
	"strings"
	"time"
)

// Key is a keyboard key the controller has a shortcut for.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyDelete
	KeyBackspace
	KeyEscape
	KeyEnter
	KeyD
	KeyY
	KeyZ
	Key1
)

var keyNames = [...]string{
	KeyUnknown:   "unknown",
	KeyDelete:    "delete",
	KeyBackspace: "backspace",
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyD:         "d",
	KeyY:         "y",
	KeyZ:         "z",
	Key1:         "1",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}

// ParseKey maps a key name ("delete", "z", "1", ...) to a Key.
func ParseKey(s string) (Key, error) {
	for i, name := range keyNames {
		if i != int(KeyUnknown) && strings.EqualFold(s, name) {
			return Key(i), nil
		}
	}
	switch strings.ToLower(s) {
	case "del":
		return KeyDelete, nil
	case "esc":
		return KeyEscape, nil
	case "return":
		return KeyEnter, nil
	}
	return KeyUnknown, fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// KeyEvent is one key press.
type KeyEvent struct {
	Key       Key
	Modifiers KeyModifiers
}

// zoomToFitPadding is the screen margin left around the notes by zoom to fit.
const zoomToFitPadding = 40

// cameraAnimation is the duration of zoom to fit and the default ScrollTo.
const cameraAnimation = 300 * time.Millisecond

// KeyDown applies a keyboard shortcut and reports whether it was handled.
// While a note is being edited only Escape (cancel) and Enter (commit) are
// handled; everything else belongs to the editor.
func (c *Controller) KeyDown(ev KeyEvent) bool {
	mods := ev.Modifiers
	if c.edit.active {
		switch {
		case ev.Key == KeyEscape:
			c.CancelEdit()
			return true
		case ev.Key == KeyEnter && !mods.Has(ModShift):
			c.CommitEdit()
			return true
		}
		return false
	}
	switch {
	case ev.Key == KeyDelete || ev.Key == KeyBackspace:
		c.DeleteSelection()
	case ev.Key == KeyD && mods.command():
		c.DuplicateSelection()
	case ev.Key == KeyZ && mods.command() && mods.Has(ModShift):
		c.Redo()
	case ev.Key == KeyZ && mods.command():
		c.Undo()
	case ev.Key == KeyY && mods.command():
		c.Redo()
	case ev.Key == KeyEscape:
		c.Escape()
	case ev.Key == Key1 && mods.Has(ModShift):
		c.ZoomToFit()
	default:
		return false
	}
	return true
}

// idle reports whether no pointer gesture owns the board.
func (c *Controller) idle() bool {
	return c.active == nil && (c.state == StateIdle || c.state == StateConnectingFirstPick)
}

// DeleteSelection removes the selected entities and the connectors attached
// to removed notes. It returns the number of entities removed.
func (c *Controller) DeleteSelection() int {
	if !c.idle() {
		return 0
	}
	ids := c.st.Scene.Selection().IDs()
	if len(ids) == 0 {
		return 0
	}
	n := c.st.Scene.RemoveEntities(ids...)
	c.log.Debug("deleted", "selected", len(ids), "removed", n)
	c.commit("delete")
	return n
}

// DuplicateSelection copies the selected notes and strokes offset by
// DuplicateOffset, plus every connector whose endpoints were both copied.
// The copies become the selection. It returns their ids.
func (c *Controller) DuplicateSelection() []EntityID {
	if !c.idle() {
		return nil
	}
	sc := c.st.Scene
	sel := sc.Selection()
	if sel.Len() == 0 {
		return nil
	}
	off := c.cfg.DuplicateOffset
	mapped := make(map[EntityID]EntityID)
	var out []EntityID
	for _, id := range sel.IDs() {
		switch e := sc.FindByID(id).(type) {
		case *Note:
			n := *e
			n.ID = ""
			n.X += off
			n.Y += off
			dup := sc.AddNote(n)
			mapped[e.ID] = dup.ID
			out = append(out, dup.ID)
		case *Stroke:
			st := e.clone()
			st.ID = ""
			for i := range st.Points {
				st.Points[i] = st.Points[i].Add(Vec2{off, off})
			}
			out = append(out, sc.AddStroke(st).ID)
		}
	}
	for _, conn := range sc.Connectors() {
		from, okFrom := mapped[conn.FromID]
		to, okTo := mapped[conn.ToID]
		if !okFrom || !okTo {
			continue
		}
		bps := make([]Vec2, len(conn.Breakpoints))
		for i, bp := range conn.Breakpoints {
			bps[i] = bp.Add(Vec2{off, off})
		}
		if dup := sc.AddConnector(from, to, bps...); dup != nil {
			out = append(out, dup.ID)
		}
	}
	if len(out) == 0 {
		return nil
	}
	sel.Set(out...)
	c.commit("duplicate")
	return out
}

// Undo restores the previous snapshot. It is a no-op at the oldest entry or
// during a gesture.
func (c *Controller) Undo() bool {
	if !c.idle() || !c.st.History.Undo(c.st.Scene) {
		return false
	}
	c.afterRestore("undo")
	return true
}

// Redo restores the next snapshot. It is a no-op at the newest entry or
// during a gesture.
func (c *Controller) Redo() bool {
	if !c.idle() || !c.st.History.Redo(c.st.Scene) {
		return false
	}
	c.afterRestore("redo")
	return true
}

func (c *Controller) afterRestore(action string) {
	c.connect = ""
	c.setState(StateIdle)
	c.markPending()
	c.log.Debug(action, "index", c.st.History.Index(), "len", c.st.History.Len())
}

// Escape clears the selection and cancels a marquee or a pending connect pick.
// While notes are being moved or resized the selection is left alone.
func (c *Controller) Escape() {
	switch c.state {
	case StateMovingSelection, StateResizing:
		return
	case StateMarqueeing:
		c.active = nil
		c.drag = dragState{pointerID: -1}
	case StateConnectingFirstPick:
		c.connect = ""
	}
	if c.state == StateMarqueeing || c.state == StateConnectingFirstPick {
		c.setState(StateIdle)
	}
	c.st.Scene.Selection().Clear()
	c.dirty = true
}

// Select replaces the selection with the ids that exist in the scene.
// Selection changes alone are not recorded in history.
func (c *Controller) Select(ids ...EntityID) {
	sc := c.st.Scene
	keep := make([]EntityID, 0, len(ids))
	for _, id := range ids {
		if sc.FindByID(id) != nil {
			keep = append(keep, id)
		}
	}
	sc.Selection().Set(keep...)
	c.dirty = true
}

// SetColor recolors the selected notes.
func (c *Controller) SetColor(col Color) {
	if !c.idle() {
		return
	}
	notes := c.st.Scene.SelectedNotes()
	for _, n := range notes {
		n.Color = col
	}
	if len(notes) > 0 {
		c.commit("recolor")
	}
}

// AddBreakpoint appends a routing point to a connector.
func (c *Controller) AddBreakpoint(id EntityID, at Vec2) bool {
	conn := c.st.Scene.Connector(id)
	if conn == nil || !at.isFinite() || !c.idle() {
		return false
	}
	conn.Breakpoints = append(conn.Breakpoints, at)
	c.commit("breakpoint")
	return true
}

// ZoomToFit animates the camera so every note is visible in the viewport.
// An empty board animates back to the default camera.
func (c *Controller) ZoomToFit() {
	if c.viewport.Width <= 0 || c.viewport.Height <= 0 {
		return
	}
	target := DefaultCamera()
	target.Scale = c.limits.Clamp(target.Scale)
	if bounds, ok := c.st.Scene.NotesBounds(); ok {
		target = c.st.Camera.Fit(bounds, c.viewport, zoomToFitPadding, c.limits)
	}
	c.animateTo(target, cameraAnimation)
}

// ScrollTo animates the camera, keeping its scale, so the world point lands
// in the center of the viewport. A non-positive duration jumps immediately.
func (c *Controller) ScrollTo(world Vec2, d time.Duration) {
	if !world.isFinite() {
		return
	}
	vc := c.viewport.Center()
	s := c.st.Camera.Scale
	target := Camera{X: vc.X - world.X*s, Y: vc.Y - world.Y*s, Scale: s}
	if d <= 0 {
		c.tween = nil
		c.setCamera(target)
		c.markPending()
		return
	}
	c.animateTo(target, d)
}

func (c *Controller) animateTo(target Camera, d time.Duration) {
	if target == c.st.Camera {
		return
	}
	c.tween = NewCameraTween(c.st.Camera, target, float32(d.Seconds()), nil)
	c.dirty = true
}

// --- Text editing ---

type editState struct {
	active bool
	id     EntityID
	text   string
}

// BeginEdit opens the text editor on a note. An edit already open on
// another note is committed first.
func (c *Controller) BeginEdit(id EntityID) bool {
	n := c.st.Scene.Note(id)
	if n == nil {
		return false
	}
	if c.edit.active {
		if c.edit.id == id {
			return true
		}
		c.CommitEdit()
	}
	c.edit = editState{active: true, id: id, text: n.Text}
	c.dirty = true
	fire(c.handlers.edit, EditContext{NoteID: id, Text: n.Text, Open: true})
	return true
}

// Editing returns the note being edited and the editor's current text.
func (c *Controller) Editing() (EntityID, string, bool) {
	return c.edit.id, c.edit.text, c.edit.active
}

// SetEditText updates the editor buffer. The note keeps its text until
// CommitEdit.
func (c *Controller) SetEditText(text string) {
	if !c.edit.active {
		return
	}
	c.edit.text = text
	c.dirty = true
}

// CommitEdit closes the editor, applies the text and records history. It
// reports whether the note text changed.
func (c *Controller) CommitEdit() bool {
	if !c.edit.active {
		return false
	}
	e := c.edit
	c.edit = editState{}
	c.dirty = true
	n := c.st.Scene.Note(e.id)
	changed := false
	if n != nil && n.Text != e.text {
		n.Text = e.text
		changed = c.commit("edit")
	}
	fire(c.handlers.edit, EditContext{NoteID: e.id, Text: e.text, Committed: n != nil})
	return changed
}

// CancelEdit closes the editor without applying the text.
func (c *Controller) CancelEdit() {
	if !c.edit.active {
		return
	}
	e := c.edit
	c.edit = editState{}
	c.dirty = true
	fire(c.handlers.edit, EditContext{NoteID: e.id, Text: e.text})
}
