package bramble

import "math"

const degToRad = math.Pi / 180

// Matrix is a 2D affine transform stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Matrix [6]float64

// Identity is the identity affine matrix.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Mul returns m * child, i.e. child is applied first. A node's world
// transform is parent.World.Mul(node.Local).
func (m Matrix) Mul(child Matrix) Matrix {
	return multiplyAffine(m, child)
}

// Invert returns the inverse of m, or Identity when m is singular.
func (m Matrix) Invert() Matrix {
	return invertAffine(m)
}

// Apply transforms the point (x, y) by m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// computeLocalTransform computes the local affine matrix from the node's
// geometry. The pivot is the anchor scaled by the node size; rotation and
// skew are in degrees.
//
// Composition order:
//
//	Translate(-pivot) -> Scale -> Skew -> Rotate -> Translate(X, Y)
func computeLocalTransform(n *Node) Matrix {
	sx := n.scaleX
	sy := n.scaleY

	sin, cos := math.Sincos(n.rotation * degToRad)

	var tanSkewX, tanSkewY float64
	if n.skewX != 0 {
		tanSkewX = math.Tan(n.skewX * degToRad)
	}
	if n.skewY != 0 {
		tanSkewY = math.Tan(n.skewY * degToRad)
	}

	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	px := n.anchorX * n.width
	py := n.anchorY * n.height
	preTx := -px*sx - tanSkewX*py*sy
	preTy := -tanSkewY*px*sx - py*sy

	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	return Matrix{ra, rb, rc, rd, rtx + n.x, rty + n.y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
func multiplyAffine(p, c Matrix) Matrix {
	return Matrix{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// isSingular reports whether m has no inverse (determinant ~ 0).
func isSingular(m Matrix) bool {
	det := m[0]*m[3] - m[2]*m[1]
	return det > -1e-12 && det < 1e-12
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m Matrix) Matrix {
	if isSingular(m) {
		return Identity
	}
	det := m[0]*m[3] - m[2]*m[1]
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Matrix{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// parentWorld returns the world transform a node composes against.
func parentWorld(n *Node) Matrix {
	if n.parent == nil {
		return Identity
	}
	return n.parent.worldTransform
}

// recomputeTransform rebuilds the local and world matrices of n against the
// given parent world matrix and clears its dirty flag.
func (n *Node) recomputeTransform(parent Matrix) {
	n.localTransform = computeLocalTransform(n)
	n.worldTransform = multiplyAffine(parent, n.localTransform)
	n.transformDirty = false
	n.inverseDirty = true
	n.transformGen++
}

// updateWorldTransform recomputes n (when dirty or forced) and walks the whole
// subtree, forcing every descendant of a recomputed node.
func updateWorldTransform(n *Node, parent Matrix, force bool) {
	recompute := n.transformDirty || force
	if recompute {
		n.recomputeTransform(parent)
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, recompute)
	}
}

// RefreshTransform brings the cached world transform of n up to date. The
// topmost stale ancestor (or n itself) is recomputed together with its whole
// subtree, so every node on the path to n composes against fresh parents.
func (n *Node) RefreshTransform() {
	var top *Node
	for p := n; p != nil; p = p.parent {
		if p.transformDirty {
			top = p
		}
	}
	if top == nil {
		return
	}
	updateWorldTransform(top, parentWorld(top), true)
}

// WorldTransform returns the composed local-to-world matrix, refreshing it
// first if any geometry on the path to the root changed.
func (n *Node) WorldTransform() Matrix {
	n.RefreshTransform()
	return n.worldTransform
}

// LocalTransform returns the node's own matrix (without its ancestors).
func (n *Node) LocalTransform() Matrix {
	n.RefreshTransform()
	return n.localTransform
}

// InverseTransform returns the world-to-local matrix. It is computed lazily
// and cached until the world transform changes again.
func (n *Node) InverseTransform() Matrix {
	n.RefreshTransform()
	if n.inverseDirty {
		n.inverseTransform = invertAffine(n.worldTransform)
		n.inverseDirty = false
	}
	return n.inverseTransform
}

// TransformGeneration counts how many times the world transform of n has been
// recomputed. It only changes when the cache is actually rebuilt.
func (n *Node) TransformGeneration() uint64 {
	return n.transformGen
}

// IsTransformDirty reports whether the node's own geometry changed since its
// transform was last computed.
func (n *Node) IsTransformDirty() bool {
	return n.transformDirty
}

// --- Geometry setters ---
//
// Each setter is a no-op for an unchanged value. Otherwise only this node is
// marked dirty; descendants are invalidated on the next refresh.

// SetPosition sets the node's local position.
func (n *Node) SetPosition(x, y float64) {
	if n.x == x && n.y == y {
		return
	}
	n.x = x
	n.y = y
	n.transformDirty = true
}

// SetX sets the node's local X.
func (n *Node) SetX(x float64) { n.SetPosition(x, n.y) }

// SetY sets the node's local Y.
func (n *Node) SetY(y float64) { n.SetPosition(n.x, y) }

// Move offsets the node's position by (dx, dy).
func (n *Node) Move(dx, dy float64) { n.SetPosition(n.x+dx, n.y+dy) }

// SetSize sets the node's width and height. Size drives the anchor pivot and
// the default hit-test rectangle.
func (n *Node) SetSize(w, h float64) {
	if n.width == w && n.height == h {
		return
	}
	n.width = w
	n.height = h
	n.transformDirty = true
}

// SetScale sets the node's scale factors.
func (n *Node) SetScale(sx, sy float64) {
	if n.scaleX == sx && n.scaleY == sy {
		return
	}
	n.scaleX = sx
	n.scaleY = sy
	n.transformDirty = true
}

// SetSkew sets the node's skew angles in degrees.
func (n *Node) SetSkew(kx, ky float64) {
	if n.skewX == kx && n.skewY == ky {
		return
	}
	n.skewX = kx
	n.skewY = ky
	n.transformDirty = true
}

// SetRotation sets the node's rotation in degrees (clockwise on screen).
func (n *Node) SetRotation(deg float64) {
	if n.rotation == deg {
		return
	}
	n.rotation = deg
	n.transformDirty = true
}

// SetAnchor sets the normalized pivot point. Values are clamped to [0, 1];
// (0.5, 0.5) rotates and scales around the node's center.
func (n *Node) SetAnchor(ax, ay float64) {
	ax, ay = clamp01(ax), clamp01(ay)
	if n.anchorX == ax && n.anchorY == ay {
		return
	}
	n.anchorX = ax
	n.anchorY = ay
	n.transformDirty = true
}

// MarkDirty forces the node's transform to be recomputed on the next refresh.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Geometry getters ---

// X returns the node's local X.
func (n *Node) X() float64 { return n.x }

// Y returns the node's local Y.
func (n *Node) Y() float64 { return n.y }

// Position returns the node's local position.
func (n *Node) Position() Vec2 { return Vec2{n.x, n.y} }

// Width returns the node's width.
func (n *Node) Width() float64 { return n.width }

// Height returns the node's height.
func (n *Node) Height() float64 { return n.height }

// Size returns the node's width and height.
func (n *Node) Size() Vec2 { return Vec2{n.width, n.height} }

// Scale returns the node's scale factors.
func (n *Node) Scale() Vec2 { return Vec2{n.scaleX, n.scaleY} }

// Skew returns the node's skew angles in degrees.
func (n *Node) Skew() Vec2 { return Vec2{n.skewX, n.skewY} }

// Rotation returns the node's rotation in degrees.
func (n *Node) Rotation() float64 { return n.rotation }

// Anchor returns the node's normalized pivot.
func (n *Node) Anchor() Vec2 { return Vec2{n.anchorX, n.anchorY} }

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return n.InverseTransform().Apply(wx, wy)
}

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return n.WorldTransform().Apply(lx, ly)
}

// Translate returns a matrix that offsets points by (tx, ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}
