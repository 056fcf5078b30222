package pinboard

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Sentinel errors. Wrapped errors are matched with errors.Is.
var (
	ErrNotFound      = errors.New("pinboard: not found")
	ErrInvalidConfig = errors.New("pinboard: invalid config")
	ErrUnknownTool   = errors.New("pinboard: unknown tool")
	ErrUnknownKey    = errors.New("pinboard: unknown key")
	ErrEmptyScript   = errors.New("pinboard: script has no steps")
)

// Vec2 is a 2D vector used for positions, offsets and deltas throughout the
// API. Whether it is in screen pixels or world units depends on context.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Midpoint returns the average of v and o.
func (v Vec2) Midpoint(o Vec2) Vec2 {
	return Vec2{(v.X + o.X) / 2, (v.Y + o.Y) / 2}
}

func (v Vec2) isFinite() bool { return finite(v.X) && finite(v.Y) }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromPoints returns the rectangle spanned by two opposite corners in any
// order.
func RectFromPoints(a, b Vec2) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// ContainsRect reports whether other lies entirely inside r. Shared edges
// count as inside.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// It marshals to and from "#rrggbb" or "#rrggbbaa".
type Color struct {
	R, G, B, A float64
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (leading '#' optional).
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("pinboard: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("pinboard: invalid color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// MustParseHexColor is ParseHexColor that panics on error. For constants.
func MustParseHexColor(s string) Color {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func channel(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func (c Color) Hex() string {
	if channel(c.A) == 255 {
		return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
}

// ToRGBA converts to a premultiplied color.RGBA for renderers.
func (c Color) ToRGBA() color.RGBA {
	a := math.Max(0, math.Min(1, c.A))
	return color.RGBA{
		R: channel(c.R * a),
		G: channel(c.G * a),
		B: channel(c.B * a),
		A: channel(a),
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseHexColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button, pen and touch contacts
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Has reports whether every modifier in m2 is set in m.
func (m KeyModifiers) Has(m2 KeyModifiers) bool { return m&m2 == m2 }

// command reports whether Ctrl or Cmd is held.
func (m KeyModifiers) command() bool { return m&(ModCtrl|ModMeta) != 0 }

// Tool is the toolbar selection read by the controller on each pointer down.
type Tool uint8

const (
	ToolSelect  Tool = iota // select, move, resize, marquee
	ToolPan                 // drag the camera
	ToolSticky              // create a sticky note
	ToolShape               // create a rectangle shape
	ToolEllipse             // create an ellipse
	ToolText                // create a text block and open the editor
	ToolFrame               // create a frame
	ToolPen                 // freehand strokes
	ToolConnect             // connect two notes
	toolCount
)

var toolNames = [toolCount]string{
	ToolSelect:  "select",
	ToolPan:     "pan",
	ToolSticky:  "sticky",
	ToolShape:   "shape",
	ToolEllipse: "ellipse",
	ToolText:    "text",
	ToolFrame:   "frame",
	ToolPen:     "pen",
	ToolConnect: "connect",
}

// String returns the toolbar name of the tool.
func (t Tool) String() string {
	if t < toolCount {
		return toolNames[t]
	}
	return fmt.Sprintf("Tool(%d)", uint8(t))
}

// ParseTool maps a toolbar name back to a Tool.
func ParseTool(s string) (Tool, error) {
	for i, name := range toolNames {
		if strings.EqualFold(s, name) {
			return Tool(i), nil
		}
	}
	return ToolSelect, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tool) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tool) UnmarshalText(b []byte) error {
	parsed, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// createsNote reports whether pointer down with this tool creates a note.
func (t Tool) createsNote() bool {
	switch t {
	case ToolSticky, ToolShape, ToolEllipse, ToolText, ToolFrame:
		return true
	}
	return false
}

// State is the interaction mode of the controller.
type State uint8

const (
	StateIdle                State = iota // no gesture in progress
	StatePanning                          // dragging the camera
	StateMovingSelection                  // dragging selected notes or a breakpoint
	StateResizing                         // dragging a resize handle of the primary note
	StateMarqueeing                       // dragging a selection rectangle
	StateDrawingStroke                    // recording a freehand stroke
	StateConnectingFirstPick              // connect tool has a source note
	StateConnectingComplete               // transient: connector created, returns to Idle
)

var stateNames = [...]string{
	StateIdle:                "idle",
	StatePanning:             "panning",
	StateMovingSelection:     "moving",
	StateResizing:            "resizing",
	StateMarqueeing:          "marqueeing",
	StateDrawingStroke:       "drawing",
	StateConnectingFirstPick: "connecting",
	StateConnectingComplete:  "connected",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}
