package pinboard

import "slices"

// EventType identifies a controller callback kind.
type EventType uint8

const (
	EventStateChange EventType = iota // fires when the interaction state changes
	EventCommit                       // fires after a history snapshot is pushed
	EventEdit                         // fires when a text edit opens or closes
)

// StateChangeContext carries a state transition.
type StateChangeContext struct {
	From State
	To   State
}

// CommitContext describes a completed action that was recorded in history.
type CommitContext struct {
	Action       string
	HistoryLen   int
	HistoryIndex int
}

// EditContext describes the text editor binding for a note.
type EditContext struct {
	NoteID EntityID
	Text   string
	// Open is true when the editor should open and false when it closed.
	Open bool
	// Committed is set on close when the text was applied.
	Committed bool
}

// --- Handler registry ---

type handler[T any] struct {
	id uint32
	fn func(T)
}

type handlerRegistry struct {
	stateChange []handler[StateChangeContext]
	commit      []handler[CommitContext]
	edit        []handler[EditContext]
	nextID      uint32
}

// CallbackHandle allows removing a registered controller callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventStateChange:
		h.reg.stateChange = removeHandler(h.reg.stateChange, h.id)
	case EventCommit:
		h.reg.commit = removeHandler(h.reg.commit, h.id)
	case EventEdit:
		h.reg.edit = removeHandler(h.reg.edit, h.id)
	}
}

func removeHandler[T any](s []handler[T], id uint32) []handler[T] {
	return slices.DeleteFunc(s, func(h handler[T]) bool { return h.id == id })
}

func fire[T any](hs []handler[T], ctx T) {
	for _, h := range hs {
		h.fn(ctx)
	}
}

// OnStateChange registers a callback for interaction state transitions.
func (c *Controller) OnStateChange(fn func(StateChangeContext)) CallbackHandle {
	c.handlers.nextID++
	id := c.handlers.nextID
	c.handlers.stateChange = append(c.handlers.stateChange, handler[StateChangeContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &c.handlers, event: EventStateChange}
}

// OnCommit registers a callback fired after each history push.
func (c *Controller) OnCommit(fn func(CommitContext)) CallbackHandle {
	c.handlers.nextID++
	id := c.handlers.nextID
	c.handlers.commit = append(c.handlers.commit, handler[CommitContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &c.handlers, event: EventCommit}
}

// OnEdit registers a callback fired when the text editor for a note should
// open or has closed.
func (c *Controller) OnEdit(fn func(EditContext)) CallbackHandle {
	c.handlers.nextID++
	id := c.handlers.nextID
	c.handlers.edit = append(c.handlers.edit, handler[EditContext]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &c.handlers, event: EventEdit}
}
