package bramble

import (
	"errors"
	"image/color"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is the default background of an App.
var ColorBlack = Color{0, 0, 0, 1}

// toRGBA converts to a premultiplied color.RGBA for ebiten fills.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for positions, sizes, scales, anchors and offsets
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
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

// Errors returned by tree, scene and loop operations. Callers match them with
// errors.Is; returned errors usually wrap one of these with context.
var (
	ErrNilNode         = errors.New("bramble: nil node")
	ErrHasParent       = errors.New("bramble: node already has a parent")
	ErrCycle           = errors.New("bramble: node is an ancestor of the new parent")
	ErrDisposed        = errors.New("bramble: node is disposed")
	ErrIndexOutOfRange = errors.New("bramble: child index out of range")
	ErrNilScene        = errors.New("bramble: nil scene")
	ErrSceneActive     = errors.New("bramble: scene is already current")
	ErrSceneDisposed   = errors.New("bramble: scene is disposed")
	ErrNoScene         = errors.New("bramble: no scene to run")
	ErrTimerBound      = errors.New("bramble: timer already added")
	ErrDeviceLost      = errors.New("bramble: render device lost")
	ErrWindow          = errors.New("bramble: window unavailable")
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
