package bramble

import (
	"bytes"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// FrameSetter is implemented by content that can display animation frames.
// Frame-sequence actions require their target's Content to implement it.
type FrameSetter interface {
	SetFrame(img *ebiten.Image)
}

// --- Sprite ---

// Sprite draws an image tinted by Tint.
type Sprite struct {
	Image *ebiten.Image
	Tint  Color
}

// NewSprite creates a node that draws img. The node is sized to the image.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := NewNode(name)
	n.Content = &Sprite{Image: img, Tint: ColorWhite}
	if img != nil {
		b := img.Bounds()
		n.SetSize(float64(b.Dx()), float64(b.Dy()))
	}
	return n
}

// DrawSelf implements Drawable.
func (s *Sprite) DrawSelf(r Renderer, _ *Node) {
	if s.Image == nil {
		return
	}
	r.DrawImage(s.Image, s.Tint)
}

// SetFrame implements FrameSetter.
func (s *Sprite) SetFrame(img *ebiten.Image) {
	s.Image = img
}

// --- RectShape ---

// RectShape fills the node's (0, 0, width, height) rectangle with Color.
type RectShape struct {
	Color Color
}

// NewRect creates a node filled with a solid color.
func NewRect(name string, w, h float64, c Color) *Node {
	n := NewNode(name)
	n.Content = &RectShape{Color: c}
	n.SetSize(w, h)
	return n
}

// DrawSelf implements Drawable.
func (s *RectShape) DrawSelf(r Renderer, n *Node) {
	r.FillRect(n.width, n.height, s.Color)
}

// --- Label ---

// Font wraps Ebitengine's text/v2 face for TrueType rendering.
type Font struct {
	face *text.GoTextFace
	lh   float64
}

// LoadFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadFont(ttfData []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("bramble: parse font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &Font{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

var defaultFonts = map[float64]*Font{}

// DefaultFont returns the built-in Go Regular font at the given size.
func DefaultFont(size float64) *Font {
	if f, ok := defaultFonts[size]; ok {
		return f
	}
	f, err := LoadFont(goregular.TTF, size)
	if err != nil {
		// goregular is embedded; a parse failure is a broken build.
		panic(err)
	}
	defaultFonts[size] = f
	return f
}

// Measure returns the size of s rendered with f.
func (f *Font) Measure(s string) (w, h float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 { return f.lh }

// Label draws a string. The text is rasterized into a cached image that is
// rebuilt only when the string, font or color changes.
type Label struct {
	node  *Node
	text  string
	font  *Font
	color Color
	img   *ebiten.Image
	dirty bool
}

// NewLabel creates a node that draws s with font. A nil font uses
// DefaultFont(16).
func NewLabel(name, s string, font *Font) *Node {
	if font == nil {
		font = DefaultFont(16)
	}
	n := NewNode(name)
	l := &Label{node: n, font: font, color: ColorWhite, dirty: true}
	n.Content = l
	l.SetText(s)
	return n
}

// LabelOf returns the Label drawn by n, or nil.
func LabelOf(n *Node) *Label {
	l, _ := n.Content.(*Label)
	return l
}

// Text returns the label's string.
func (l *Label) Text() string { return l.text }

// SetText changes the label's string and resizes its node to fit.
func (l *Label) SetText(s string) {
	if l.text == s && !l.dirty {
		return
	}
	l.text = s
	l.dirty = true
	w, h := l.font.Measure(s)
	l.node.SetSize(math.Ceil(w), math.Ceil(h))
}

// SetColor changes the text color.
func (l *Label) SetColor(c Color) {
	if l.color == c {
		return
	}
	l.color = c
	l.dirty = true
}

// DrawSelf implements Drawable.
func (l *Label) DrawSelf(r Renderer, n *Node) {
	w, h := int(n.width), int(n.height)
	if w <= 0 || h <= 0 {
		return
	}
	if l.dirty || l.img == nil {
		l.dirty = false
		if l.img != nil {
			b := l.img.Bounds()
			if b.Dx() != w || b.Dy() != h {
				l.img.Deallocate()
				l.img = ebiten.NewImage(w, h)
			} else {
				l.img.Clear()
			}
		} else {
			l.img = ebiten.NewImage(w, h)
		}
		op := &text.DrawOptions{}
		op.LineSpacing = l.font.lh
		text.Draw(l.img, l.text, l.font.face, op)
	}
	r.DrawImage(l.img, l.color)
}
