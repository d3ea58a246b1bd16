package bramble

// HitShape defines a custom hit-testable region in a node's local coordinates.
// When set on a node, it overrides the default rectangle derived from the
// node's size.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using a
// cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether the world-space point (wx, wy) hits the node.
// The point is mapped into local space with the cached inverse transform and
// tested against HitShape, or against the rectangle (0, 0, width, height) when
// no shape is set. Nodes with a zero width or height and no shape never hit,
// and neither do nodes whose world transform is singular (zero scale).
func (n *Node) ContainsPoint(wx, wy float64) bool {
	if n.HitShape == nil && (n.width == 0 || n.height == 0) {
		return false
	}
	if m := n.WorldTransform(); isSingular(m) {
		return false
	}
	lx, ly := n.WorldToLocal(wx, wy)
	return n.containsLocal(lx, ly)
}

func (n *Node) containsLocal(lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	return lx >= 0 && lx <= n.width && ly >= 0 && ly <= n.height
}

// BoundingBox returns the axis-aligned world-space rectangle enclosing the
// node's local (0, 0, width, height) rectangle.
func (n *Node) BoundingBox() Rect {
	m := n.WorldTransform()
	xs := [4]float64{}
	ys := [4]float64{}
	xs[0], ys[0] = m.Apply(0, 0)
	xs[1], ys[1] = m.Apply(n.width, 0)
	xs[2], ys[2] = m.Apply(0, n.height)
	xs[3], ys[3] = m.Apply(n.width, n.height)
	minX, minY, maxX, maxY := xs[0], ys[0], xs[0], ys[0]
	for i := 1; i < 4; i++ {
		minX = min(minX, xs[i])
		maxX = max(maxX, xs[i])
		minY = min(minY, ys[i])
		maxY = max(maxY, ys[i])
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
