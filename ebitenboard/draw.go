package ebitenboard

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/pinboard"
)

// Theme holds the colors the renderer uses for chrome around entities.
type Theme struct {
	Background  color.RGBA
	Border      color.RGBA
	Selection   color.RGBA
	Handle      color.RGBA
	Connector   color.RGBA
	Marquee     color.RGBA
	MarqueeFill color.RGBA
	Text        color.RGBA
}

// DefaultTheme returns a light theme.
func DefaultTheme() Theme {
	return Theme{
		Background:  color.RGBA{0xf8, 0xfa, 0xfc, 0xff},
		Border:      color.RGBA{0x47, 0x55, 0x69, 0xff},
		Selection:   color.RGBA{0x25, 0x63, 0xeb, 0xff},
		Handle:      color.RGBA{0xff, 0xff, 0xff, 0xff},
		Connector:   color.RGBA{0x33, 0x41, 0x55, 0xff},
		Marquee:     color.RGBA{0x25, 0x63, 0xeb, 0xff},
		MarqueeFill: color.RGBA{0x12, 0x31, 0x75, 0x30},
		Text:        color.RGBA{0x11, 0x18, 0x27, 0xff},
	}
}

// ellipseSegments is the number of line segments in a drawn ellipse outline.
const ellipseSegments = 48

// screenRect maps a world rectangle through the camera.
func screenRect(cam pinboard.Camera, r pinboard.Rect) pinboard.Rect {
	tl := cam.WorldToScreen(r.X, r.Y)
	return pinboard.Rect{X: tl.X, Y: tl.Y, Width: r.Width * cam.Scale, Height: r.Height * cam.Scale}
}

// connectorPath returns the screen-space polyline of a connector: from-note
// center, breakpoints, to-note center.
func connectorPath(s *pinboard.Scene, cam pinboard.Camera, c *pinboard.Connector) []pinboard.Vec2 {
	from, to := s.Note(c.FromID), s.Note(c.ToID)
	if from == nil || to == nil {
		return nil
	}
	pts := make([]pinboard.Vec2, 0, len(c.Breakpoints)+2)
	fc := from.Bounds().Center()
	pts = append(pts, cam.WorldToScreen(fc.X, fc.Y))
	for _, bp := range c.Breakpoints {
		pts = append(pts, cam.WorldToScreen(bp.X, bp.Y))
	}
	tc := to.Bounds().Center()
	return append(pts, cam.WorldToScreen(tc.X, tc.Y))
}

// ellipsePoints returns n points on the ellipse inscribed in r.
func ellipsePoints(r pinboard.Rect, n int) []pinboard.Vec2 {
	c := r.Center()
	rx, ry := r.Width/2, r.Height/2
	pts := make([]pinboard.Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = pinboard.Vec2{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)}
	}
	return pts
}

func penColor(p pinboard.Pen) color.RGBA {
	col := p.Color
	if p.Opacity != nil {
		col.A *= math.Max(0, math.Min(1, *p.Opacity))
	}
	return col.ToRGBA()
}

func strokeLine(dst *ebiten.Image, a, b pinboard.Vec2, width float64, clr color.Color) {
	vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), float32(width), clr, true)
}

func fillRect(dst *ebiten.Image, r pinboard.Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), clr, false)
}

func strokeRect(dst *ebiten.Image, r pinboard.Rect, width float64, clr color.Color) {
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), float32(width), clr, false)
}

// drawBoard renders the scene. It only reads controller state.
func drawBoard(screen *ebiten.Image, c *pinboard.Controller, th *Theme) {
	screen.Fill(th.Background)
	sc := c.Scene()
	cam := c.Camera()
	sel := sc.Selection()

	for _, st := range sc.Strokes() {
		drawStroke(screen, cam, st)
	}
	if d := c.DraftStroke(); d != nil {
		drawStroke(screen, cam, d)
	}

	for _, conn := range sc.Connectors() {
		pts := connectorPath(sc, cam, conn)
		if pts == nil {
			continue
		}
		clr := th.Connector
		if sel.Contains(conn.ID) {
			clr = th.Selection
		}
		for i := 1; i < len(pts); i++ {
			strokeLine(screen, pts[i-1], pts[i], 2, clr)
		}
		for _, p := range pts[1 : len(pts)-1] {
			fillRect(screen, pinboard.Rect{X: p.X - 3, Y: p.Y - 3, Width: 6, Height: 6}, clr)
		}
	}

	editID, editText, editing := c.Editing()
	source, connecting := c.ConnectSource()
	for _, n := range visibleNotes(sc.Notes(), cam.VisibleBounds(c.Viewport())) {
		text := n.Text
		if editing && n.ID == editID {
			text = editText + "|"
		}
		drawNote(screen, cam, n, text, th)
		r := screenRect(cam, n.Bounds())
		switch {
		case sel.Contains(n.ID):
			strokeRect(screen, r, 2, th.Selection)
		case connecting && n.ID == source:
			strokeRect(screen, r, 3, th.Selection)
		}
	}

	if id, ok := sel.Primary(); ok {
		if n := sc.Note(id); n != nil {
			size := c.HandleMetrics().VisibleSize(cam.Scale)
			rects := pinboard.HandleRects(n, cam, size)
			for _, hr := range rects[pinboard.HandleNW:] {
				fillRect(screen, hr, th.Handle)
				strokeRect(screen, hr, 1, th.Selection)
			}
		}
	}

	if m, ok := c.MarqueeRect(); ok {
		r := screenRect(cam, m)
		fillRect(screen, r, th.MarqueeFill)
		strokeRect(screen, r, 1, th.Marquee)
	}
}

// visibleNotes returns the notes overlapping the world-space view, bottom to
// top.
func visibleNotes(notes []*pinboard.Note, view pinboard.Rect) []*pinboard.Note {
	out := make([]*pinboard.Note, 0, len(notes))
	for _, n := range notes {
		if view.Intersects(n.Bounds()) {
			out = append(out, n)
		}
	}
	return out
}

func drawStroke(dst *ebiten.Image, cam pinboard.Camera, st *pinboard.Stroke) {
	clr := penColor(st.Pen)
	w := math.Max(1, st.Pen.Size*cam.Scale)
	for i := 1; i < len(st.Points); i++ {
		a, b := st.Points[i-1], st.Points[i]
		strokeLine(dst, cam.WorldToScreen(a.X, a.Y), cam.WorldToScreen(b.X, b.Y), w, clr)
	}
}

func drawNote(dst *ebiten.Image, cam pinboard.Camera, n *pinboard.Note, text string, th *Theme) {
	r := screenRect(cam, n.Bounds())
	fill := n.Color.ToRGBA()
	switch n.Kind {
	case pinboard.NoteEllipse:
		pts := ellipsePoints(r, ellipseSegments)
		// Fill with horizontal bands between mirrored outline points.
		for i := 1; i < ellipseSegments/2; i++ {
			top, bottom := pts[ellipseSegments-i], pts[i]
			strokeLine(dst, top, bottom, r.Width*math.Pi/float64(ellipseSegments)+1, fill)
		}
		for i := range pts {
			strokeLine(dst, pts[i], pts[(i+1)%len(pts)], 1.5, th.Border)
		}
	case pinboard.NoteText:
		if fill.A > 0 {
			fillRect(dst, r, fill)
		}
	case pinboard.NoteFrame:
		fillRect(dst, r, fill)
		strokeRect(dst, r, 2, th.Border)
	default:
		fillRect(dst, r, fill)
		strokeRect(dst, r, 1, th.Border)
	}
	if text != "" {
		ebitenutil.DebugPrintAt(dst, text, int(r.X)+4, int(r.Y)+4)
	}
}

// statusLine summarizes the controller for the overlay.
func statusLine(c *pinboard.Controller) string {
	sc := c.Scene()
	h := c.History()
	return fmt.Sprintf("tool: %s  state: %s  zoom: %.0f%%  notes: %d  connectors: %d  strokes: %d  history: %d/%d",
		c.Tool(), c.State(), c.Camera().Scale*100,
		len(sc.Notes()), len(sc.Connectors()), len(sc.Strokes()),
		h.Index()+1, h.Len())
}

func drawStats(screen *ebiten.Image, c *pinboard.Controller) {
	_, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 4, 4)
	ebitenutil.DebugPrintAt(screen, statusLine(c), 4, h-18)
}
