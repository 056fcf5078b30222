package pinboard

import (
	"encoding/json"
	"fmt"
	"strings"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	Pointer int     `json:"pointer,omitempty"`
	Button  string  `json:"button,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	FromX   float64 `json:"fromX,omitempty"`
	FromY   float64 `json:"fromY,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	Frames  int     `json:"frames,omitempty"`
	DeltaY  float64 `json:"deltaY,omitempty"`
	Tool    string  `json:"tool,omitempty"`
	Key     string  `json:"key,omitempty"`
	Text    string  `json:"text,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
	Shift   bool    `json:"shift,omitempty"`
	Ctrl    bool    `json:"ctrl,omitempty"`
	Alt     bool    `json:"alt,omitempty"`
	Meta    bool    `json:"meta,omitempty"`

	tool   Tool
	key    Key
	button MouseButton
}

func (st *scriptStep) mods() KeyModifiers {
	var m KeyModifiers
	if st.Shift {
		m |= ModShift
	}
	if st.Ctrl {
		m |= ModCtrl
	}
	if st.Alt {
		m |= ModAlt
	}
	if st.Meta {
		m |= ModMeta
	}
	return m
}

func (st *scriptStep) event(x, y float64) PointerEvent {
	return PointerEvent{PointerID: st.Pointer, X: x, Y: y, Button: st.button, Modifiers: st.mods()}
}

// scriptFile is the top-level JSON structure of a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script replays recorded input against a Controller. Steps:
//
//	tool     {"tool": "sticky"}
//	press    {"x", "y", "pointer", "button", modifiers}
//	move     same fields as press
//	release  same fields as press
//	cancel   same fields as press
//	click    press and release at x, y
//	drag     press at fromX/fromY, "frames" moves, release at toX/toY
//	key      {"key": "z", "ctrl": true}
//	wheel    {"x", "y", "deltaY"}
//	text     {"text"}: replaces the open editor's text
//	tick     {"seconds"}: advances animation and autosave
//	wait     {"frames"}: pauses a frame-driven replay
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
}

// LoadScript parses and validates a JSON script.
func LoadScript(data []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pinboard: parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	for i := range f.Steps {
		if err := f.Steps[i].compile(); err != nil {
			return nil, fmt.Errorf("pinboard: script step %d: %w", i, err)
		}
	}
	return &Script{steps: f.Steps}, nil
}

func (st *scriptStep) compile() error {
	switch st.Action {
	case "tool":
		t, err := ParseTool(st.Tool)
		if err != nil {
			return err
		}
		st.tool = t
	case "key":
		k, err := ParseKey(st.Key)
		if err != nil {
			return err
		}
		st.key = k
	case "press", "move", "release", "cancel", "click", "drag":
		switch strings.ToLower(st.Button) {
		case "", "left":
			st.button = MouseButtonLeft
		case "right":
			st.button = MouseButtonRight
		case "middle":
			st.button = MouseButtonMiddle
		default:
			return fmt.Errorf("unknown button %q", st.Button)
		}
	case "wheel", "text", "tick", "wait":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Len returns the number of steps.
func (s *Script) Len() int { return len(s.steps) }

// Done reports whether every step has been executed.
func (s *Script) Done() bool { return s.cursor >= len(s.steps) && s.waitCount == 0 }

// Run executes every remaining step immediately. Wait steps are skipped.
func (s *Script) Run(c *Controller) {
	s.waitCount = 0
	for s.cursor < len(s.steps) {
		st := &s.steps[s.cursor]
		s.cursor++
		s.exec(c, st)
	}
}

// Step executes the next step, honoring wait steps, for replay one frame at
// a time. It reports whether the script is still running.
func (s *Script) Step(c *Controller) bool {
	if s.waitCount > 0 {
		s.waitCount--
		return true
	}
	if s.cursor >= len(s.steps) {
		return false
	}
	st := &s.steps[s.cursor]
	s.cursor++
	if st.Action == "wait" {
		if st.Frames > 1 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
		return true
	}
	s.exec(c, st)
	return !s.Done()
}

func (s *Script) exec(c *Controller, st *scriptStep) {
	switch st.Action {
	case "tool":
		c.SetTool(st.tool)
	case "press":
		c.PointerDown(st.event(st.X, st.Y))
	case "move":
		c.PointerMove(st.event(st.X, st.Y))
	case "release":
		c.PointerUp(st.event(st.X, st.Y))
	case "cancel":
		c.PointerCancel(st.event(st.X, st.Y))
	case "click":
		c.PointerDown(st.event(st.X, st.Y))
		c.PointerUp(st.event(st.X, st.Y))
	case "drag":
		frames := max(st.Frames, 1)
		c.PointerDown(st.event(st.FromX, st.FromY))
		for i := 1; i <= frames; i++ {
			t := float64(i) / float64(frames)
			c.PointerMove(st.event(st.FromX+(st.ToX-st.FromX)*t, st.FromY+(st.ToY-st.FromY)*t))
		}
		c.PointerUp(st.event(st.ToX, st.ToY))
	case "key":
		c.KeyDown(KeyEvent{Key: st.key, Modifiers: st.mods()})
	case "wheel":
		c.Wheel(WheelEvent{DeltaY: st.DeltaY, X: st.X, Y: st.Y, Modifiers: st.mods()})
	case "text":
		c.SetEditText(st.Text)
	case "tick":
		c.Tick(float32(st.Seconds))
	}
}
