package bramble

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// fpsRefresh is how often, in seconds, the FPS label is rewritten.
const fpsRefresh = 0.5

// NewFPSNode creates a label showing Ebitengine's measured FPS and TPS,
// refreshed twice a second while displayed. Give it a high z-order to keep
// it on top.
func NewFPSNode() *Node {
	n := NewLabel("fps", "FPS: --\nTPS: --", DefaultFont(12))
	label := LabelOf(n)
	var since float64
	n.OnUpdate = func(dt float64) {
		since += dt
		if since < fpsRefresh {
			return
		}
		since = 0
		label.SetText(fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	return n
}
