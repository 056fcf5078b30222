package pinboard

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// PointerEvent is one pointer down/move/up/cancel in screen pixels.
type PointerEvent struct {
	PointerID int
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// WheelEvent is a mouse wheel step at a screen position. Positive DeltaY
// zooms out.
type WheelEvent struct {
	DeltaY    float64
	X, Y      float64
	Modifiers KeyModifiers
}

// EngineState is the mutable board session owned by one Controller.
type EngineState struct {
	Scene   *Scene
	Camera  Camera
	History *History
	Tool    Tool
	Pen     Pen
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithIDSource sets how entity ids are issued. Default is TypeIDs.
func WithIDSource(ids IDSource) Option {
	return func(c *Controller) { c.ids = ids }
}

// WithGateway enables Load, Flush and autosave through g.
func WithGateway(g *Gateway) Option {
	return func(c *Controller) { c.gateway = g }
}

// WithClock replaces time.Now for double-tap and autosave timing.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller is the interaction state machine. It turns pointer, wheel and
// keyboard events into scene and camera changes and records history at the
// end of each completed action. All methods must be called from one
// goroutine; renderers only read through the accessors.
type Controller struct {
	cfg     Config
	limits  ScaleRange
	metrics HandleMetrics
	st      EngineState
	state   State

	gestures *GestureRecognizer
	active   toolHandler // handler owning the captured pointer, nil when none
	drag     dragState
	draft    *Stroke
	connect  EntityID // source note while ConnectingFirstPick
	lastTap  tapRecord
	edit     editState

	viewport Rect
	tween    *CameraTween

	gateway   *Gateway
	pending   bool
	changedAt time.Time
	dirty     bool

	handlers handlerRegistry
	ids      IDSource
	log      *slog.Logger
	debug    bool
	now      func() time.Time
}

// NewController creates a controller with an empty board. Zero fields of cfg
// take their defaults; an inconsistent cfg returns an ErrInvalidConfig error.
func NewController(cfg Config, opts ...Option) (*Controller, error) {
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:      cfg,
		limits:   cfg.scaleRange(),
		metrics:  cfg.handleMetrics(),
		gestures: NewGestureRecognizer(),
		log:      slog.Default(),
		now:      time.Now,
		drag:     dragState{pointerID: -1},
	}
	for _, opt := range opts {
		opt(c)
	}
	cam := DefaultCamera()
	cam.Scale = c.limits.Clamp(cam.Scale)
	c.st = EngineState{
		Scene:   NewScene(c.ids),
		Camera:  cam,
		History: NewHistory(cfg.HistoryLimit),
		Tool:    ToolSelect,
		Pen:     cfg.pen(),
	}
	c.st.History.Reset(c.st.Scene)
	c.dirty = true
	return c, nil
}

// --- Accessors ---

// Config returns the effective configuration.
func (c *Controller) Config() Config { return c.cfg }

// Scene returns the live scene.
func (c *Controller) Scene() *Scene { return c.st.Scene }

// Camera returns the current camera.
func (c *Controller) Camera() Camera { return c.st.Camera }

// History returns the undo history.
func (c *Controller) History() *History { return c.st.History }

// State returns the current interaction state.
func (c *Controller) State() State { return c.state }

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.st.Tool }

// Pen returns the pen used for new strokes.
func (c *Controller) Pen() Pen { return c.st.Pen }

// SetPen sets the pen used for new strokes.
func (c *Controller) SetPen(p Pen) { c.st.Pen = p.clone() }

// HandleMetrics returns the resize handle sizing in use.
func (c *Controller) HandleMetrics() HandleMetrics { return c.metrics }

// MarqueeRect returns the world-space marquee while Marqueeing.
func (c *Controller) MarqueeRect() (Rect, bool) {
	if c.state != StateMarqueeing {
		return Rect{}, false
	}
	return c.drag.marquee, true
}

// DraftStroke returns the stroke being drawn, or nil.
func (c *Controller) DraftStroke() *Stroke { return c.draft }

// ConnectSource returns the source note while the connect tool waits for its
// second pick.
func (c *Controller) ConnectSource() (EntityID, bool) {
	return c.connect, c.state == StateConnectingFirstPick
}

// Dirty reports whether the board changed since ClearDirty.
func (c *Controller) Dirty() bool { return c.dirty }

// ClearDirty is called by the renderer after drawing a frame.
func (c *Controller) ClearDirty() { c.dirty = false }

// Pending reports whether there are changes not yet saved through the gateway.
func (c *Controller) Pending() bool { return c.pending }

// SetViewport sets the screen rectangle the board is shown in. Used by zoom
// to fit and ScrollTo.
func (c *Controller) SetViewport(r Rect) { c.viewport = r }

// Viewport returns the screen rectangle set by SetViewport.
func (c *Controller) Viewport() Rect { return c.viewport }

// SetCamera replaces the camera, clamping its scale. Non-finite cameras are
// ignored.
func (c *Controller) SetCamera(cam Camera) {
	if !finite(cam.X) || !finite(cam.Y) || !finite(cam.Scale) || cam.Scale <= 0 {
		return
	}
	cam.Scale = c.limits.Clamp(cam.Scale)
	c.tween = nil
	c.setCamera(cam)
}

// SetTool switches the active tool. A pending connect pick is abandoned; a
// gesture in progress finishes with the tool that started it.
func (c *Controller) SetTool(t Tool) {
	if t >= toolCount || t == c.st.Tool {
		return
	}
	if c.state == StateConnectingFirstPick {
		c.connect = ""
		c.setState(StateIdle)
	}
	c.log.Debug("tool changed", "from", c.st.Tool, "to", t)
	c.st.Tool = t
	c.dirty = true
}

// --- Pointer input ---

// PointerDown starts a gesture with the captured pointer. A second
// simultaneous pointer cancels the current gesture and starts a pinch.
func (c *Controller) PointerDown(ev PointerEvent) {
	screen := Vec2{ev.X, ev.Y}
	if !screen.isFinite() {
		return
	}
	c.tween = nil
	g := c.gestures.Down(ev.PointerID, screen, c.st.Camera.Scale)
	if g.Phase == GesturePinchStart {
		c.abortGesture()
		c.connect = ""
		c.setState(StatePanning)
		return
	}
	if c.gestures.Count() > 1 || c.active != nil {
		return
	}
	if c.edit.active {
		c.CommitEdit()
	}

	var h toolHandler
	switch {
	case ev.Button == MouseButtonMiddle:
		h = panTool{}
	case ev.Button == MouseButtonRight:
		return
	case c.state == StateConnectingFirstPick:
		h = connectTool{}
	default:
		h = handlerFor(c.st.Tool)
	}
	p := c.pointer(ev)
	c.drag = dragState{
		pointerID:   ev.PointerID,
		startScreen: screen,
		lastScreen:  screen,
		startWorld:  p.world,
	}
	c.active = h
	h.pointerDown(c, p)
}

// PointerMove routes movement of the captured pointer to the active gesture,
// or applies a pinch frame.
func (c *Controller) PointerMove(ev PointerEvent) {
	screen := Vec2{ev.X, ev.Y}
	if !screen.isFinite() {
		return
	}
	g := c.gestures.Move(ev.PointerID, screen)
	if g.Phase == GesturePinch {
		c.applyPinch(g)
		return
	}
	if c.active == nil || ev.PointerID != c.drag.pointerID {
		return
	}
	c.active.pointerMove(c, c.pointer(ev))
	c.drag.lastScreen = screen
}

// PointerUp finishes the gesture of the captured pointer. An up without a
// matching down is ignored.
func (c *Controller) PointerUp(ev PointerEvent) { c.release(ev, false) }

// PointerCancel aborts the gesture of the captured pointer. It behaves like
// PointerUp except that a gesture with no net displacement records no
// history.
func (c *Controller) PointerCancel(ev PointerEvent) { c.release(ev, true) }

func (c *Controller) release(ev PointerEvent, cancelled bool) {
	if !c.gestures.Has(ev.PointerID) {
		return
	}
	g := c.gestures.Up(ev.PointerID)
	if g.Phase == GesturePinchEnd {
		c.markPending()
		if g.RemainingID < 0 {
			c.setState(StateIdle)
			return
		}
		// Continue as a single-pointer pan from where the remaining pointer is.
		c.active = panTool{}
		c.drag = dragState{
			pointerID:   g.RemainingID,
			startScreen: g.Remaining,
			lastScreen:  g.Remaining,
			startWorld:  c.st.Camera.ScreenToWorld(g.Remaining.X, g.Remaining.Y),
		}
		c.setState(StatePanning)
		return
	}
	if c.active == nil || ev.PointerID != c.drag.pointerID {
		return
	}
	p := c.pointer(ev)
	if !p.screen.isFinite() {
		p = c.lastPointer()
	}
	h := c.active
	c.active = nil
	h.pointerUp(c, p, cancelled)
	c.drag = dragState{pointerID: -1}
}

// Wheel zooms at the cursor by WheelZoomBase^-DeltaY.
func (c *Controller) Wheel(ev WheelEvent) {
	at := Vec2{ev.X, ev.Y}
	if !at.isFinite() || !finite(ev.DeltaY) || ev.DeltaY == 0 {
		return
	}
	c.tween = nil
	factor := math.Pow(c.cfg.WheelZoomBase, -ev.DeltaY)
	if factor == 0 {
		factor = math.SmallestNonzeroFloat64
	}
	cam := c.st.Camera.ZoomAt(at, factor, c.limits)
	if cam == c.st.Camera {
		return
	}
	c.setCamera(cam)
	c.markPending()
}

func (c *Controller) applyPinch(g Gesture) {
	scale := c.limits.Clamp(g.StartScale * g.Ratio)
	c.setCamera(c.st.Camera.ZoomTo(g.Midpoint, scale, c.limits))
}

// abortGesture cancels whatever single-pointer gesture is active.
func (c *Controller) abortGesture() {
	if c.active == nil {
		return
	}
	h := c.active
	c.active = nil
	h.pointerUp(c, c.lastPointer(), true)
	c.drag = dragState{pointerID: -1}
}

func (c *Controller) pointer(ev PointerEvent) pointer {
	screen := Vec2{ev.X, ev.Y}
	return pointer{
		PointerEvent: ev,
		screen:       screen,
		world:        c.st.Camera.ScreenToWorld(screen.X, screen.Y),
	}
}

func (c *Controller) lastPointer() pointer {
	s := c.drag.lastScreen
	return c.pointer(PointerEvent{PointerID: c.drag.pointerID, X: s.X, Y: s.Y})
}

// --- Mutation boundaries ---

func (c *Controller) setState(s State) {
	if s == c.state {
		return
	}
	from := c.state
	c.state = s
	c.dirty = true
	c.log.Debug("state", "from", from, "to", s)
	fire(c.handlers.stateChange, StateChangeContext{From: from, To: s})
}

func (c *Controller) setCamera(cam Camera) {
	if cam == c.st.Camera {
		return
	}
	c.st.Camera = cam
	c.dirty = true
}

// markPending flags the board for the next autosave.
func (c *Controller) markPending() {
	c.pending = true
	c.changedAt = c.now()
	c.dirty = true
}

// commit pushes a history snapshot for a completed action. Nothing is pushed
// when the scene still equals the snapshot under the cursor.
func (c *Controller) commit(action string) bool {
	h := c.st.History
	c.dirty = true
	if cur, ok := h.Current(); ok && cur.Matches(c.st.Scene) {
		return false
	}
	start := time.Now()
	h.Push(c.st.Scene)
	c.debugCommit(action, time.Since(start))
	c.log.Debug("history push", "action", action, "len", h.Len(), "index", h.Index())
	c.markPending()
	fire(c.handlers.commit, CommitContext{Action: action, HistoryLen: h.Len(), HistoryIndex: h.Index()})
	return true
}

// --- Animation and persistence ---

// Tick advances camera animation by dt seconds and autosaves once the
// debounce has elapsed since the last change. Saving never happens while a
// gesture is in progress.
func (c *Controller) Tick(dt float32) {
	if c.tween != nil {
		cam, done := c.tween.Update(dt)
		c.setCamera(cam)
		if done {
			c.tween = nil
			c.markPending()
		}
	}
	if !c.pending || c.gateway == nil || c.active != nil || c.gestures.Count() > 0 {
		return
	}
	if c.now().Sub(c.changedAt) < c.cfg.AutosaveDebounce {
		return
	}
	_ = c.Flush(context.Background())
}

// Animating reports whether a camera animation is running.
func (c *Controller) Animating() bool { return c.tween != nil }

// Flush saves the board through the gateway now. Without a gateway it does
// nothing.
func (c *Controller) Flush(ctx context.Context) error {
	if c.gateway == nil {
		return nil
	}
	if err := c.gateway.Save(ctx, c.BoardState()); err != nil {
		c.log.Warn("autosave failed", "key", c.gateway.Key(), "error", err)
		return err
	}
	c.pending = false
	c.log.Debug("board saved", "key", c.gateway.Key(), "entities", c.st.Scene.Len())
	return nil
}

// Load replaces the board with the one saved in the gateway. A missing or
// corrupt board resets to an empty board and default camera; Load reports
// whether a saved board was found.
func (c *Controller) Load(ctx context.Context) bool {
	var b *BoardState
	if c.gateway != nil {
		b = c.gateway.Load(ctx)
	}
	if b == nil {
		c.LoadBoard(BoardState{Camera: DefaultCamera()})
		return false
	}
	c.LoadBoard(*b)
	return true
}

// LoadBoard replaces the scene and camera with b and starts a fresh history.
func (c *Controller) LoadBoard(b BoardState) {
	c.abortGesture()
	c.gestures.Reset()
	c.edit = editState{}
	c.connect = ""
	c.tween = nil
	c.st.Scene.replace(b.Notes, b.Connectors, b.Strokes, nil)
	cam := b.Camera
	if !finite(cam.X) || !finite(cam.Y) || !finite(cam.Scale) || cam.Scale <= 0 {
		cam = DefaultCamera()
	}
	cam.Scale = c.limits.Clamp(cam.Scale)
	c.st.Camera = cam
	c.st.History.Reset(c.st.Scene)
	c.setState(StateIdle)
	c.pending = false
	c.dirty = true
	c.log.Debug("board loaded", "notes", len(b.Notes), "connectors", len(b.Connectors), "strokes", len(b.Strokes))
}

// BoardState returns a deep copy of the board for persistence.
func (c *Controller) BoardState() BoardState {
	snap := TakeSnapshot(c.st.Scene)
	return BoardState{
		Version:    BoardVersion,
		Camera:     c.st.Camera,
		Notes:      snap.Notes,
		Connectors: snap.Connectors,
		Strokes:    snap.Strokes,
	}
}
