package bramble

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputSource produces the raw events of one frame. Poll appends them to buf
// and returns the extended slice.
type InputSource interface {
	Poll(buf []Event) []Event
}

var ebitenButtons = [...]struct {
	eb ebiten.MouseButton
	mb MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

// EbitenInput translates Ebitengine's polled input state into events.
// It must be polled from ebiten.Game.Update.
type EbitenInput struct {
	lastX, lastY int
	seen         bool
	keys         []ebiten.Key
	chars        []rune
}

// NewEbitenInput creates an input source backed by Ebitengine.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{}
}

// Poll implements InputSource.
func (in *EbitenInput) Poll(buf []Event) []Event {
	mods := readModifiers()
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)

	if !in.seen || cx != in.lastX || cy != in.lastY {
		in.seen = true
		in.lastX, in.lastY = cx, cy
		buf = append(buf, Event{Type: EventMouseMove, X: x, Y: y, Modifiers: mods})
	}

	for _, b := range ebitenButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			buf = append(buf, Event{Type: EventMouseDown, X: x, Y: y, Button: b.mb, Modifiers: mods})
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			buf = append(buf, Event{Type: EventMouseUp, X: x, Y: y, Button: b.mb, Modifiers: mods})
		}
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		buf = append(buf, Event{Type: EventMouseWheel, X: x, Y: y, WheelX: wx, WheelY: wy, Modifiers: mods})
	}

	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		buf = append(buf, Event{Type: EventKeyDown, Key: k, Modifiers: mods})
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		buf = append(buf, Event{Type: EventKeyUp, Key: k, Modifiers: mods})
	}

	in.chars = ebiten.AppendInputChars(in.chars[:0])
	for _, r := range in.chars {
		buf = append(buf, Event{Type: EventKeyChar, Char: r, Modifiers: mods})
	}
	return buf
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}
