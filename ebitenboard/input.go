package ebitenboard

import (
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/pinboard"
)

// mousePointer is the pointer id of the mouse. Touches get ids from
// firstTouchPointer upward.
const (
	mousePointer      = 0
	firstTouchPointer = 1
)

type inputState struct {
	mouseDown   bool
	mouseButton pinboard.MouseButton
	mousePos    pinboard.Vec2

	touchIDs  []ebiten.TouchID
	touches   map[ebiten.TouchID]int // ebiten touch -> pointer id
	touchPos  map[int]pinboard.Vec2
	nextTouch int
}

func (in *inputState) init() {
	in.touches = make(map[ebiten.TouchID]int)
	in.touchPos = make(map[int]pinboard.Vec2)
	in.nextTouch = firstTouchPointer
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() pinboard.KeyModifiers {
	return modifiersFrom(ebiten.IsKeyPressed)
}

func modifiersFrom(pressed func(ebiten.Key) bool) pinboard.KeyModifiers {
	var mods pinboard.KeyModifiers
	if pressed(ebiten.KeyShift) || pressed(ebiten.KeyShiftLeft) || pressed(ebiten.KeyShiftRight) {
		mods |= pinboard.ModShift
	}
	if pressed(ebiten.KeyControl) || pressed(ebiten.KeyControlLeft) || pressed(ebiten.KeyControlRight) {
		mods |= pinboard.ModCtrl
	}
	if pressed(ebiten.KeyAlt) || pressed(ebiten.KeyAltLeft) || pressed(ebiten.KeyAltRight) {
		mods |= pinboard.ModAlt
	}
	if pressed(ebiten.KeyMeta) || pressed(ebiten.KeyMetaLeft) || pressed(ebiten.KeyMetaRight) {
		mods |= pinboard.ModMeta
	}
	return mods
}

// process forwards this frame's input to the controller.
func (in *inputState) process(c *pinboard.Controller) {
	mods := readModifiers()
	in.processMouse(c, mods)
	in.processTouches(c, mods)
	in.processWheel(c, mods)
	if _, _, editing := c.Editing(); editing {
		processEditor(c, mods)
		return
	}
	processKeys(c, mods)
}

// processMouse handles the mouse as pointer 0. The button that started a
// press is kept until release.
func (in *inputState) processMouse(c *pinboard.Controller, mods pinboard.KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	pos := pinboard.Vec2{X: float64(mx), Y: float64(my)}
	ev := pinboard.PointerEvent{PointerID: mousePointer, X: pos.X, Y: pos.Y, Modifiers: mods}

	if !in.mouseDown {
		for _, mb := range []struct {
			eb ebiten.MouseButton
			pb pinboard.MouseButton
		}{
			{ebiten.MouseButtonLeft, pinboard.MouseButtonLeft},
			{ebiten.MouseButtonMiddle, pinboard.MouseButtonMiddle},
			{ebiten.MouseButtonRight, pinboard.MouseButtonRight},
		} {
			if inpututil.IsMouseButtonJustPressed(mb.eb) {
				in.mouseDown = true
				in.mouseButton = mb.pb
				in.mousePos = pos
				ev.Button = mb.pb
				c.PointerDown(ev)
				return
			}
		}
		return
	}

	ev.Button = in.mouseButton
	if !ebiten.IsMouseButtonPressed(ebitenButton(in.mouseButton)) {
		in.mouseDown = false
		c.PointerUp(ev)
		return
	}
	if pos != in.mousePos {
		in.mousePos = pos
		c.PointerMove(ev)
	}
}

func ebitenButton(b pinboard.MouseButton) ebiten.MouseButton {
	switch b {
	case pinboard.MouseButtonRight:
		return ebiten.MouseButtonRight
	case pinboard.MouseButtonMiddle:
		return ebiten.MouseButtonMiddle
	default:
		return ebiten.MouseButtonLeft
	}
}

// processTouches maps each ebiten touch to a stable pointer id.
func (in *inputState) processTouches(c *pinboard.Controller, mods pinboard.KeyModifiers) {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	active := make(map[ebiten.TouchID]bool, len(in.touchIDs))
	for _, tid := range in.touchIDs {
		active[tid] = true
		tx, ty := ebiten.TouchPosition(tid)
		pos := pinboard.Vec2{X: float64(tx), Y: float64(ty)}
		id, known := in.touches[tid]
		if !known {
			id = in.nextTouch
			in.nextTouch++
			in.touches[tid] = id
			in.touchPos[id] = pos
			c.PointerDown(pinboard.PointerEvent{PointerID: id, X: pos.X, Y: pos.Y, Modifiers: mods})
			continue
		}
		if pos != in.touchPos[id] {
			in.touchPos[id] = pos
			c.PointerMove(pinboard.PointerEvent{PointerID: id, X: pos.X, Y: pos.Y, Modifiers: mods})
		}
	}
	for tid, id := range in.touches {
		if active[tid] {
			continue
		}
		pos := in.touchPos[id]
		c.PointerUp(pinboard.PointerEvent{PointerID: id, X: pos.X, Y: pos.Y, Modifiers: mods})
		delete(in.touches, tid)
		delete(in.touchPos, id)
	}
}

// wheelDeltaScale converts ebiten wheel steps to DOM-like delta units.
const wheelDeltaScale = 100

func (in *inputState) processWheel(c *pinboard.Controller, mods pinboard.KeyModifiers) {
	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	// ebiten reports positive wy when scrolling up; DOM deltaY is the opposite.
	c.Wheel(pinboard.WheelEvent{DeltaY: -wy * wheelDeltaScale, X: float64(mx), Y: float64(my), Modifiers: mods})
}

var shortcutKeys = []struct {
	eb ebiten.Key
	pk pinboard.Key
}{
	{ebiten.KeyDelete, pinboard.KeyDelete},
	{ebiten.KeyBackspace, pinboard.KeyBackspace},
	{ebiten.KeyEscape, pinboard.KeyEscape},
	{ebiten.KeyD, pinboard.KeyD},
	{ebiten.KeyY, pinboard.KeyY},
	{ebiten.KeyZ, pinboard.KeyZ},
	{ebiten.KeyDigit1, pinboard.Key1},
}

var toolKeys = map[ebiten.Key]pinboard.Tool{
	ebiten.KeyV: pinboard.ToolSelect,
	ebiten.KeyH: pinboard.ToolPan,
	ebiten.KeyS: pinboard.ToolSticky,
	ebiten.KeyR: pinboard.ToolShape,
	ebiten.KeyO: pinboard.ToolEllipse,
	ebiten.KeyT: pinboard.ToolText,
	ebiten.KeyF: pinboard.ToolFrame,
	ebiten.KeyP: pinboard.ToolPen,
	ebiten.KeyC: pinboard.ToolConnect,
}

// toolForKey returns the tool bound to a bare key press.
func toolForKey(k ebiten.Key, mods pinboard.KeyModifiers) (pinboard.Tool, bool) {
	if mods != 0 {
		return pinboard.ToolSelect, false
	}
	t, ok := toolKeys[k]
	return t, ok
}

func processKeys(c *pinboard.Controller, mods pinboard.KeyModifiers) {
	for _, k := range shortcutKeys {
		if inpututil.IsKeyJustPressed(k.eb) {
			c.KeyDown(pinboard.KeyEvent{Key: k.pk, Modifiers: mods})
		}
	}
	for k := range toolKeys {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		if t, ok := toolForKey(k, mods); ok {
			c.SetTool(t)
		}
	}
}

// processEditor feeds typed characters to the open text editor.
func processEditor(c *pinboard.Controller, mods pinboard.KeyModifiers) {
	_, text, _ := c.Editing()
	next := text
	chars := ebiten.AppendInputChars(nil)
	next += string(chars)
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		next = trimLastRune(next)
	}
	enter := inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyKPEnter)
	if enter && mods.Has(pinboard.ModShift) {
		next += "\n"
	}
	if next != text {
		c.SetEditText(next)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		c.KeyDown(pinboard.KeyEvent{Key: pinboard.KeyEscape, Modifiers: mods})
	case enter && !mods.Has(pinboard.ModShift):
		c.KeyDown(pinboard.KeyEvent{Key: pinboard.KeyEnter, Modifiers: mods})
	}
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
