package pinboard

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the engine. Zero fields take their defaults.
type Config struct {
	MinScale float64 `yaml:"min_scale" envconfig:"MIN_SCALE"`
	MaxScale float64 `yaml:"max_scale" envconfig:"MAX_SCALE"`

	// MinNoteSize is the floor for note width and height after a resize,
	// in world units.
	MinNoteSize float64 `yaml:"min_note_size" envconfig:"MIN_NOTE_SIZE"`

	HandlePx         float64 `yaml:"handle_px" envconfig:"HANDLE_PX"`
	MinHandlePx      float64 `yaml:"min_handle_px" envconfig:"MIN_HANDLE_PX"`
	HandleHitPadding float64 `yaml:"handle_hit_padding" envconfig:"HANDLE_HIT_PADDING"`

	// BreakpointTolerance is the half-side of the breakpoint hit window in
	// world units.
	BreakpointTolerance float64 `yaml:"breakpoint_tolerance" envconfig:"BREAKPOINT_TOLERANCE"`

	// StrokeSpacingPx is the minimum screen distance between recorded
	// stroke points.
	StrokeSpacingPx float64 `yaml:"stroke_spacing_px" envconfig:"STROKE_SPACING_PX"`

	HistoryLimit    int           `yaml:"history_limit" envconfig:"HISTORY_LIMIT"`
	DoubleTapWindow time.Duration `yaml:"double_tap_window" envconfig:"DOUBLE_TAP_WINDOW"`
	DuplicateOffset float64       `yaml:"duplicate_offset" envconfig:"DUPLICATE_OFFSET"`

	// GridSize snaps moved and created notes to multiples of itself. 0 is off.
	GridSize float64 `yaml:"grid_size" envconfig:"GRID_SIZE"`

	// WheelZoomBase is the zoom factor per wheel delta unit; a wheel event
	// zooms by WheelZoomBase^-deltaY.
	WheelZoomBase float64 `yaml:"wheel_zoom_base" envconfig:"WHEEL_ZOOM_BASE"`

	// KeepTool leaves a creation tool active after it creates a note.
	KeepTool bool `yaml:"keep_tool" envconfig:"KEEP_TOOL"`

	AutosaveDebounce time.Duration `yaml:"autosave_debounce" envconfig:"AUTOSAVE_DEBOUNCE"`
	PersistKey       string        `yaml:"persist_key" envconfig:"PERSIST_KEY"`

	Pen   PenConfig  `yaml:"pen" envconfig:"PEN"`
	Notes NoteStyles `yaml:"notes" envconfig:"NOTES"`
}

// PenConfig is the initial pen for freehand strokes.
type PenConfig struct {
	Color string  `yaml:"color" envconfig:"COLOR"`
	Size  float64 `yaml:"size" envconfig:"SIZE"`
}

// NoteStyle is the size and color a creation tool gives a new note.
type NoteStyle struct {
	W     float64 `yaml:"w" envconfig:"W"`
	H     float64 `yaml:"h" envconfig:"H"`
	Color string  `yaml:"color" envconfig:"COLOR"`
}

// NoteStyles holds one NoteStyle per note kind.
type NoteStyles struct {
	Sticky  NoteStyle `yaml:"sticky" envconfig:"STICKY"`
	Shape   NoteStyle `yaml:"shape" envconfig:"SHAPE"`
	Ellipse NoteStyle `yaml:"ellipse" envconfig:"ELLIPSE"`
	Text    NoteStyle `yaml:"text" envconfig:"TEXT"`
	Frame   NoteStyle `yaml:"frame" envconfig:"FRAME"`
}

// For returns the style of a note kind. Unknown kinds get the sticky style.
func (s *NoteStyles) For(kind NoteKind) NoteStyle {
	switch kind {
	case NoteShape:
		return s.Shape
	case NoteEllipse:
		return s.Ellipse
	case NoteText:
		return s.Text
	case NoteFrame:
		return s.Frame
	default:
		return s.Sticky
	}
}

func (s *NoteStyle) fill(w, h float64, color string) {
	if s.W <= 0 {
		s.W = w
	}
	if s.H <= 0 {
		s.H = h
	}
	if s.Color == "" {
		s.Color = color
	}
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	var c Config
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.MinScale <= 0 {
		c.MinScale = 0.1
	}
	if c.MaxScale <= 0 {
		c.MaxScale = 8
	}
	if c.MinNoteSize <= 0 {
		c.MinNoteSize = 30
	}
	if c.HandlePx <= 0 {
		c.HandlePx = 8
	}
	if c.MinHandlePx <= 0 {
		c.MinHandlePx = 6
	}
	if c.HandleHitPadding <= 0 {
		c.HandleHitPadding = 6
	}
	if c.BreakpointTolerance <= 0 {
		c.BreakpointTolerance = 8
	}
	if c.StrokeSpacingPx <= 0 {
		c.StrokeSpacingPx = 2
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 100
	}
	if c.DoubleTapWindow <= 0 {
		c.DoubleTapWindow = 300 * time.Millisecond
	}
	if c.DuplicateOffset == 0 {
		c.DuplicateOffset = 20
	}
	if c.WheelZoomBase <= 0 {
		c.WheelZoomBase = 1.0015
	}
	if c.AutosaveDebounce <= 0 {
		c.AutosaveDebounce = 500 * time.Millisecond
	}
	if c.PersistKey == "" {
		c.PersistKey = "board"
	}
	if c.Pen.Color == "" {
		c.Pen.Color = "#1f2937"
	}
	if c.Pen.Size <= 0 {
		c.Pen.Size = 3
	}
	c.Notes.Sticky.fill(160, 160, "#fde68a")
	c.Notes.Shape.fill(160, 100, "#93c5fd")
	c.Notes.Ellipse.fill(140, 140, "#c4b5fd")
	c.Notes.Text.fill(200, 40, "#ffffff00")
	c.Notes.Frame.fill(400, 300, "#e5e7eb")
}

// Validate reports the first inconsistent setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.MinScale <= 0:
		return fmt.Errorf("%w: min_scale must be positive, got %v", ErrInvalidConfig, c.MinScale)
	case c.MaxScale < c.MinScale:
		return fmt.Errorf("%w: max_scale %v below min_scale %v", ErrInvalidConfig, c.MaxScale, c.MinScale)
	case c.HistoryLimit < 1:
		return fmt.Errorf("%w: history_limit must be at least 1, got %d", ErrInvalidConfig, c.HistoryLimit)
	case c.MinNoteSize <= 0:
		return fmt.Errorf("%w: min_note_size must be positive, got %v", ErrInvalidConfig, c.MinNoteSize)
	}
	if _, err := ParseHexColor(c.Pen.Color); err != nil {
		return fmt.Errorf("%w: pen.color: %v", ErrInvalidConfig, err)
	}
	for kind, s := range map[NoteKind]NoteStyle{
		NoteSticky:  c.Notes.Sticky,
		NoteShape:   c.Notes.Shape,
		NoteEllipse: c.Notes.Ellipse,
		NoteText:    c.Notes.Text,
		NoteFrame:   c.Notes.Frame,
	} {
		if _, err := ParseHexColor(s.Color); err != nil {
			return fmt.Errorf("%w: notes.%s.color: %v", ErrInvalidConfig, kind, err)
		}
	}
	return nil
}

// LoadConfigFile reads a YAML config file. Missing fields take their defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pinboard: read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("pinboard: parse config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}

// ApplyEnv overlays environment variables named PREFIX_FIELD (for example
// PINBOARD_MIN_SCALE or PINBOARD_NOTES_STICKY_W) on c. Unset variables leave
// the current value alone.
func (c *Config) ApplyEnv(prefix string) error {
	if err := envconfig.Process(prefix, c); err != nil {
		return fmt.Errorf("pinboard: env config: %w", err)
	}
	c.defaults()
	return nil
}

func (c *Config) scaleRange() ScaleRange {
	return ScaleRange{Min: c.MinScale, Max: c.MaxScale}
}

func (c *Config) handleMetrics() HandleMetrics {
	return HandleMetrics{BasePx: c.HandlePx, MinPx: c.MinHandlePx, HitPadding: c.HandleHitPadding}
}

func (c *Config) pen() Pen {
	col, err := ParseHexColor(c.Pen.Color)
	if err != nil {
		col = Color{A: 1}
	}
	return Pen{Color: col, Size: c.Pen.Size}
}
