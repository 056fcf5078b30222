package pinboard

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ScaleRange bounds Camera.Scale.
type ScaleRange struct {
	Min, Max float64
}

// Clamp restricts s to [r.Min, r.Max].
func (r ScaleRange) Clamp(s float64) float64 {
	return math.Max(r.Min, math.Min(s, r.Max))
}

// Camera maps world coordinates to screen pixels:
//
//	screen = world*Scale + (X, Y)
//
// X and Y are the screen-space pan offset. All methods are pure and return a
// new Camera; the zero value is not usable, start from DefaultCamera.
type Camera struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// DefaultCamera returns the identity camera (no pan, scale 1).
func DefaultCamera() Camera {
	return Camera{Scale: 1}
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c Camera) ScreenToWorld(sx, sy float64) Vec2 {
	return Vec2{(sx - c.X) / c.Scale, (sy - c.Y) / c.Scale}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c Camera) WorldToScreen(wx, wy float64) Vec2 {
	return Vec2{wx*c.Scale + c.X, wy*c.Scale + c.Y}
}

// ZoomAt multiplies the scale by factor, clamps it to limits and re-pans so
// the world point under screen stays under screen. Non-positive or
// non-finite factors leave the camera unchanged.
func (c Camera) ZoomAt(screen Vec2, factor float64, limits ScaleRange) Camera {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return c
	}
	return c.ZoomTo(screen, c.Scale*factor, limits)
}

// ZoomTo sets the scale (clamped to limits) keeping the world point under
// screen fixed.
func (c Camera) ZoomTo(screen Vec2, scale float64, limits ScaleRange) Camera {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return c
	}
	w := c.ScreenToWorld(screen.X, screen.Y)
	next := limits.Clamp(scale)
	return Camera{
		X:     screen.X - w.X*next,
		Y:     screen.Y - w.Y*next,
		Scale: next,
	}
}

// PanBy translates the camera by a screen-space delta, independent of scale.
func (c Camera) PanBy(dx, dy float64) Camera {
	c.X += dx
	c.Y += dy
	return c
}

// VisibleBounds returns the world-space rectangle visible through a viewport
// given in screen pixels.
func (c Camera) VisibleBounds(viewport Rect) Rect {
	tl := c.ScreenToWorld(viewport.X, viewport.Y)
	br := c.ScreenToWorld(viewport.X+viewport.Width, viewport.Y+viewport.Height)
	return RectFromPoints(tl, br)
}

// Fit returns a camera that shows world inside viewport with padding screen
// pixels on every side, scale clamped to limits.
func (c Camera) Fit(world, viewport Rect, padding float64, limits ScaleRange) Camera {
	availW := viewport.Width - 2*padding
	availH := viewport.Height - 2*padding
	if availW <= 0 || availH <= 0 {
		return c
	}
	scale := c.Scale
	switch {
	case world.Width > 0 && world.Height > 0:
		scale = math.Min(availW/world.Width, availH/world.Height)
	case world.Width > 0:
		scale = availW / world.Width
	case world.Height > 0:
		scale = availH / world.Height
	}
	scale = limits.Clamp(scale)
	center := world.Center()
	vc := viewport.Center()
	return Camera{
		X:     vc.X - center.X*scale,
		Y:     vc.Y - center.Y*scale,
		Scale: scale,
	}
}

func (c Camera) valid(limits ScaleRange) bool {
	return finite(c.X) && finite(c.Y) && finite(c.Scale) &&
		c.Scale >= limits.Min && c.Scale <= limits.Max
}

// --- Animation ---

// CameraTween animates a camera towards a target over a fixed duration.
// Advance it with Update; it reports done once every component has arrived.
type CameraTween struct {
	to     Camera
	tweenX *gween.Tween
	tweenY *gween.Tween
	tweenS *gween.Tween
	done   bool
}

// NewCameraTween creates a tween from one camera state to another. A nil
// easing function defaults to ease.OutCubic.
func NewCameraTween(from, to Camera, duration float32, fn ease.TweenFunc) *CameraTween {
	if fn == nil {
		fn = ease.OutCubic
	}
	return &CameraTween{
		to:     to,
		tweenX: gween.New(float32(from.X), float32(to.X), duration, fn),
		tweenY: gween.New(float32(from.Y), float32(to.Y), duration, fn),
		tweenS: gween.New(float32(from.Scale), float32(to.Scale), duration, fn),
	}
}

// Update advances the tween by dt seconds and returns the interpolated
// camera. The final frame returns the exact target.
func (t *CameraTween) Update(dt float32) (Camera, bool) {
	if t.done {
		return t.to, true
	}
	x, doneX := t.tweenX.Update(dt)
	y, doneY := t.tweenY.Update(dt)
	s, doneS := t.tweenS.Update(dt)
	if doneX && doneY && doneS {
		t.done = true
		return t.to, true
	}
	return Camera{X: float64(x), Y: float64(y), Scale: float64(s)}, false
}

// Done reports whether the tween has reached its target.
func (t *CameraTween) Done() bool {
	return t.done
}
