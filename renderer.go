package bramble

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer is the drawing capability consumed by nodes, scenes and
// transitions. SetTransform and SetOpacity describe the node about to draw;
// PushLayer composes an extra transform and opacity over everything drawn
// until the matching PopLayer, which is how transitions offset and fade
// whole scenes.
type Renderer interface {
	BeginFrame()
	EndFrame() error
	Clear(c Color)
	SetTransform(m Matrix)
	SetOpacity(alpha float64)
	PushLayer(m Matrix, alpha float64)
	PopLayer()
	DrawImage(img *ebiten.Image, tint Color)
	FillRect(w, h float64, c Color)
}

// DeviceResetter is implemented by renderers whose device-dependent resources
// can be lost. After EndFrame reports ErrDeviceLost, the App calls ResetDevice
// before the next frame.
type DeviceResetter interface {
	ResetDevice() error
}

type renderLayer struct {
	m     Matrix
	alpha float64
}

// ImageRenderer draws onto an ebiten image, usually the screen passed to
// ebiten.Game.Draw.
type ImageRenderer struct {
	target *ebiten.Image
	layers []renderLayer
	geo    ebiten.GeoM
	alpha  float64
	pixel  *ebiten.Image
	draws  int
}

// NewImageRenderer creates a renderer targeting dst.
func NewImageRenderer(dst *ebiten.Image) *ImageRenderer {
	return &ImageRenderer{target: dst, alpha: 1}
}

// SetTarget switches the destination image, e.g. when the screen changes size.
func (r *ImageRenderer) SetTarget(dst *ebiten.Image) { r.target = dst }

// Target returns the current destination image.
func (r *ImageRenderer) Target() *ebiten.Image { return r.target }

// DrawCalls returns the number of draw calls issued since BeginFrame.
func (r *ImageRenderer) DrawCalls() int { return r.draws }

// BeginFrame resets the layer stack and draw counter.
func (r *ImageRenderer) BeginFrame() {
	r.layers = append(r.layers[:0], renderLayer{m: Identity, alpha: 1})
	r.geo.Reset()
	r.alpha = 1
	r.draws = 0
}

// EndFrame finishes the frame. Ebiten presents the screen itself.
func (r *ImageRenderer) EndFrame() error {
	if r.target == nil {
		return ErrDeviceLost
	}
	return nil
}

// ResetDevice drops cached GPU images so they are recreated on demand.
func (r *ImageRenderer) ResetDevice() error {
	if r.pixel != nil {
		r.pixel.Deallocate()
		r.pixel = nil
	}
	return nil
}

// Clear fills the whole target with c.
func (r *ImageRenderer) Clear(c Color) {
	if r.target == nil {
		return
	}
	r.target.Fill(c.toRGBA())
}

func (r *ImageRenderer) top() renderLayer {
	if len(r.layers) == 0 {
		return renderLayer{m: Identity, alpha: 1}
	}
	return r.layers[len(r.layers)-1]
}

// SetTransform sets the world transform of the next draw.
func (r *ImageRenderer) SetTransform(m Matrix) {
	eff := r.top().m.Mul(m)
	r.geo.SetElement(0, 0, eff[0])
	r.geo.SetElement(0, 1, eff[2])
	r.geo.SetElement(0, 2, eff[4])
	r.geo.SetElement(1, 0, eff[1])
	r.geo.SetElement(1, 1, eff[3])
	r.geo.SetElement(1, 2, eff[5])
}

// SetOpacity sets the displayed opacity of the next draw.
func (r *ImageRenderer) SetOpacity(alpha float64) {
	r.alpha = r.top().alpha * clamp01(alpha)
}

// PushLayer composes m and alpha over all draws until PopLayer.
func (r *ImageRenderer) PushLayer(m Matrix, alpha float64) {
	t := r.top()
	r.layers = append(r.layers, renderLayer{m: t.m.Mul(m), alpha: t.alpha * clamp01(alpha)})
}

// PopLayer removes the innermost layer. The base layer is never removed.
func (r *ImageRenderer) PopLayer() {
	if len(r.layers) > 1 {
		r.layers = r.layers[:len(r.layers)-1]
	}
}

// DrawImage draws img with the current transform, opacity and tint.
func (r *ImageRenderer) DrawImage(img *ebiten.Image, tint Color) {
	if r.target == nil || img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM = r.geo
	a := tint.A * r.alpha
	// ColorScale is premultiplied.
	op.ColorScale.Scale(float32(tint.R*a), float32(tint.G*a), float32(tint.B*a), float32(a))
	r.target.DrawImage(img, &op)
	r.draws++
}

// FillRect fills the local rectangle (0, 0, w, h) with c.
func (r *ImageRenderer) FillRect(w, h float64, c Color) {
	if r.target == nil || w <= 0 || h <= 0 {
		return
	}
	if r.pixel == nil {
		r.pixel = ebiten.NewImage(1, 1)
		r.pixel.Fill(ColorWhite.toRGBA())
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Concat(r.geo)
	a := c.A * r.alpha
	op.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
	r.target.DrawImage(r.pixel, &op)
	r.draws++
}
