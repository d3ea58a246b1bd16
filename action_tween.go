package bramble

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// MoveBy moves the target by (dx, dy) over duration seconds.
func MoveBy(duration, dx, dy float64) *Action {
	a := newAction(actionMove, duration)
	a.tw.delta = Vec2{dx, dy}
	return a
}

// MoveTo moves the target to (x, y) over duration seconds.
func MoveTo(duration, x, y float64) *Action {
	a := newAction(actionMove, duration)
	a.tw.absolute = true
	a.tw.to = Vec2{x, y}
	return a
}

// ScaleBy multiplies the target's scale by (sx, sy) over duration seconds.
func ScaleBy(duration, sx, sy float64) *Action {
	a := newAction(actionScale, duration)
	a.tw.to = Vec2{sx, sy}
	return a
}

// ScaleTo scales the target to (sx, sy) over duration seconds.
func ScaleTo(duration, sx, sy float64) *Action {
	a := newAction(actionScale, duration)
	a.tw.absolute = true
	a.tw.to = Vec2{sx, sy}
	return a
}

// RotateBy rotates the target by deg degrees over duration seconds.
func RotateBy(duration, deg float64) *Action {
	a := newAction(actionRotate, duration)
	a.tw.delta = Vec2{deg, 0}
	return a
}

// RotateTo rotates the target to deg degrees over duration seconds.
func RotateTo(duration, deg float64) *Action {
	a := newAction(actionRotate, duration)
	a.tw.absolute = true
	a.tw.to = Vec2{deg, 0}
	return a
}

// FadeTo changes the target's opacity to alpha over duration seconds.
func FadeTo(duration, alpha float64) *Action {
	a := newAction(actionOpacity, duration)
	a.tw.absolute = true
	a.tw.to = Vec2{clamp01(alpha), 0}
	return a
}

// FadeIn fades the target to fully opaque.
func FadeIn(duration float64) *Action { return FadeTo(duration, 1) }

// FadeOut fades the target to fully transparent.
func FadeOut(duration float64) *Action { return FadeTo(duration, 0) }

// JumpBy moves the target by (dx, dy) while hopping jumps times with the
// given peak height. Positive heights hop up the screen.
func JumpBy(duration, dx, dy, height float64, jumps int) *Action {
	a := newAction(actionJump, duration)
	a.tw.delta = Vec2{dx, dy}
	a.tw.height = height
	a.tw.jumps = max(jumps, 1)
	return a
}

// JumpTo hops the target to (x, y).
func JumpTo(duration, x, y, height float64, jumps int) *Action {
	a := JumpBy(duration, 0, 0, height, jumps)
	a.tw.absolute = true
	a.tw.to = Vec2{x, y}
	return a
}

// PathBy moves the target along a polyline at constant speed. Points are
// offsets from the target's position when the action starts. With rotate set
// the target turns to face its direction of travel.
func PathBy(duration float64, points []Vec2, rotate bool) *Action {
	a := newAction(actionPath, duration)
	a.tw.points = append([]Vec2(nil), points...)
	a.tw.lengths = pathLengths(a.tw.points)
	a.tw.rotate = rotate
	return a
}

// PathTo moves the target along a polyline of absolute positions.
func PathTo(duration float64, points []Vec2, rotate bool) *Action {
	a := PathBy(duration, points, rotate)
	a.tw.absolute = true
	return a
}

// Animate shows frames in order over duration seconds. The target's Content
// must implement FrameSetter.
func Animate(duration float64, frames []*ebiten.Image) *Action {
	a := newAction(actionFrames, duration)
	a.tw.frames = append([]*ebiten.Image(nil), frames...)
	return a
}

// Tween calls fn with the eased progress in [0, 1] every frame.
func Tween(duration float64, fn func(n *Node, t float64)) *Action {
	a := newAction(actionCustom, duration)
	a.tw.custom = fn
	return a
}

// initTween captures the target's current state as the loop baseline.
func (a *Action) initTween(n *Node) bool {
	tw := &a.tw
	switch a.kind {
	case actionMove, actionJump:
		tw.start = Vec2{n.x, n.y}
		if tw.absolute {
			tw.delta = Vec2{tw.to.X - n.x, tw.to.Y - n.y}
		}
	case actionScale:
		tw.start = Vec2{n.scaleX, n.scaleY}
		if tw.absolute {
			tw.delta = Vec2{tw.to.X - n.scaleX, tw.to.Y - n.scaleY}
		} else {
			tw.delta = Vec2{n.scaleX*tw.to.X - n.scaleX, n.scaleY*tw.to.Y - n.scaleY}
		}
	case actionRotate:
		tw.start = Vec2{n.rotation, 0}
		if tw.absolute {
			tw.delta = Vec2{tw.to.X - n.rotation, 0}
		}
	case actionOpacity:
		tw.start = Vec2{n.opacity, 0}
		tw.delta = Vec2{tw.to.X - n.opacity, 0}
	case actionPath:
		tw.start = Vec2{n.x, n.y}
		if len(tw.points) == 0 {
			a.fail("path action %q has no points", a.name)
			return false
		}
	case actionFrames:
		if len(tw.frames) == 0 {
			a.fail("animation %q has no frames", a.name)
			return false
		}
		fs, ok := n.Content.(FrameSetter)
		if !ok {
			a.fail("animation %q: node %q cannot show frames", a.name, n.name)
			return false
		}
		tw.setter = fs
	case actionCustom:
		if tw.custom == nil {
			a.fail("tween %q has no function", a.name)
			return false
		}
	}
	return true
}

// updateTween writes the interpolated value for progress t into n.
func updateTween(a *Action, n *Node, t float64) {
	tw := &a.tw
	switch a.kind {
	case actionMove:
		n.SetPosition(tw.start.X+tw.delta.X*t, tw.start.Y+tw.delta.Y*t)
	case actionScale:
		n.SetScale(tw.start.X+tw.delta.X*t, tw.start.Y+tw.delta.Y*t)
	case actionRotate:
		n.SetRotation(tw.start.X + tw.delta.X*t)
	case actionOpacity:
		n.SetOpacity(tw.start.X + tw.delta.X*t)
	case actionJump:
		f := math.Mod(t*float64(tw.jumps), 1)
		hop := tw.height * 4 * f * (1 - f)
		n.SetPosition(tw.start.X+tw.delta.X*t, tw.start.Y+tw.delta.Y*t-hop)
	case actionPath:
		p, dir := pathPoint(tw.points, tw.lengths, t)
		if !tw.absolute {
			p.X += tw.start.X
			p.Y += tw.start.Y
		}
		n.SetPosition(p.X, p.Y)
		if tw.rotate && (dir.X != 0 || dir.Y != 0) {
			n.SetRotation(math.Atan2(dir.Y, dir.X) / degToRad)
		}
	case actionFrames:
		i := min(int(t*float64(len(tw.frames))), len(tw.frames)-1)
		img := tw.frames[i]
		tw.setter.SetFrame(img)
		if img != nil {
			b := img.Bounds()
			n.SetSize(float64(b.Dx()), float64(b.Dy()))
		}
	case actionCustom:
		tw.custom(n, t)
	}
}

// pathLengths returns the cumulative arc length at each point.
func pathLengths(points []Vec2) []float64 {
	lengths := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		dx := points[i].X - points[i-1].X
		dy := points[i].Y - points[i-1].Y
		lengths[i] = lengths[i-1] + math.Hypot(dx, dy)
	}
	return lengths
}

// pathPoint returns the point at fraction t of the polyline's length and the
// direction of the segment it lies on.
func pathPoint(points []Vec2, lengths []float64, t float64) (Vec2, Vec2) {
	last := len(points) - 1
	total := lengths[last]
	if last == 0 || total == 0 {
		return points[0], Vec2{}
	}
	d := t * total
	i := 1
	for i < last && lengths[i] < d {
		i++
	}
	a, b := points[i-1], points[i]
	dir := Vec2{b.X - a.X, b.Y - a.Y}
	seg := lengths[i] - lengths[i-1]
	if seg == 0 {
		return b, dir
	}
	f := (d - lengths[i-1]) / seg
	return Vec2{a.X + dir.X*f, a.Y + dir.Y*f}, dir
}
