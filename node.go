package bramble

import (
	"fmt"
	"hash/fnv"
)

// nodeIDCounter is a plain counter; bramble runs on a single goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Drawable renders a node's own content. The renderer already carries the
// node's world transform and displayed opacity when DrawSelf is called.
type Drawable interface {
	DrawSelf(r Renderer, n *Node)
}

// Node is the scene graph element. Parents own their children; the parent and
// scene back-references are only used for lookup, never for lifetime.
type Node struct {
	// Identity
	ID       uint32
	name     string
	nameHash uint32

	// Hierarchy
	parent         *Node
	scene          *Scene
	children       []*Node
	sortedChildren []*Node // ZOrder-sorted traversal order, rebuilt lazily
	childrenSorted bool

	// Geometry (local)
	x, y             float64
	width, height    float64
	scaleX, scaleY   float64
	skewX, skewY     float64
	rotation         float64
	anchorX, anchorY float64
	zOrder           int

	// Cached transform state
	localTransform   Matrix
	worldTransform   Matrix
	inverseTransform Matrix
	transformDirty   bool
	inverseDirty     bool
	transformGen     uint64

	// Opacity
	opacity          float64
	displayedOpacity float64
	cascadeOpacity   bool

	// Lifecycle
	visible   bool
	displayed bool
	disposed  bool

	// Content drawn between the negative and non-negative z-order children.
	// Nil for pure containers.
	Content Drawable

	// Hit testing. Only Responsible nodes synthesize hover/press/click events.
	Responsible bool
	HitShape    HitShape
	hover       bool
	pressed     bool
	pressButton MouseButton

	// Metadata
	UserData any
	EntityID uint32

	// Per-node callbacks (nil by default; zero cost when unused)
	OnEnter  func()
	OnExit   func()
	OnUpdate func(dt float64)
	OnEvent  func(e *Event)

	actions []*Action
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.scaleX = 1
	n.scaleY = 1
	n.opacity = 1
	n.displayedOpacity = 1
	n.cascadeOpacity = true
	n.visible = true
	n.transformDirty = true
	n.inverseDirty = true
	n.childrenSorted = true
	n.localTransform = Identity
	n.worldTransform = Identity
	n.inverseTransform = Identity
}

// NewNode creates a container node with no visual representation.
func NewNode(name string) *Node {
	n := &Node{}
	nodeDefaults(n)
	n.SetName(name)
	return n
}

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// SetName renames the node and refreshes its lookup hash.
func (n *Node) SetName(name string) {
	n.name = name
	n.nameHash = hashName(name)
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

// Parent returns the owning node, or nil for roots and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Scene returns the scene this node is attached to, or nil.
func (n *Node) Scene() *Scene { return n.scene }

// --- Tree manipulation ---

// AddChild attaches child to n, keeping the child's current z-order. A
// reparented node therefore keeps the order it had under its old parent; use
// AddChildWithOrder to set it explicitly.
//
// It fails with ErrHasParent when child is already parented and with ErrCycle
// when child is n or one of its ancestors; neither node is modified then.
// If n is displayed, child's subtree receives its enter notifications before
// AddChild returns.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("bramble: add child to %q: %w", n.name, ErrNilNode)
	}
	if n.disposed || child.disposed {
		return fmt.Errorf("bramble: add %q to %q: %w", child.name, n.name, ErrDisposed)
	}
	if child.parent != nil {
		return fmt.Errorf("bramble: add %q to %q: %w", child.name, n.name, ErrHasParent)
	}
	if isAncestor(child, n) {
		return fmt.Errorf("bramble: add %q to %q: %w", child.name, n.name, ErrCycle)
	}
	if child.scene != nil && child.scene.root == child {
		return fmt.Errorf("bramble: add scene root %q to %q: %w", child.name, n.name, ErrHasParent)
	}

	child.parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
	child.updateDisplayedOpacity()
	child.setScene(n.scene)
	if n.displayed {
		child.enter()
	}
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	return nil
}

// AddChildWithOrder sets child's z-order and attaches it to n.
func (n *Node) AddChildWithOrder(child *Node, zOrder int) error {
	if child == nil {
		return fmt.Errorf("bramble: add child to %q: %w", n.name, ErrNilNode)
	}
	if err := n.AddChild(child); err != nil {
		return err
	}
	child.SetZOrder(zOrder)
	return nil
}

// RemoveChild detaches child from n. It returns false, and logs a warning,
// when child is not a direct child of n. The removed subtree receives its
// exit notifications and loses its scene reference; it is not disposed.
func (n *Node) RemoveChild(child *Node) bool {
	if child == nil || child.parent != n {
		name := "<nil>"
		if child != nil {
			name = child.name
		}
		logWarnf("RemoveChild: %q is not a child of %q", name, n.name)
		return false
	}
	n.detachChild(child)
	return true
}

// RemoveChildByName detaches every direct child named name. It returns false
// when no child matched.
func (n *Node) RemoveChildByName(name string) bool {
	h := hashName(name)
	var matched []*Node
	for _, c := range n.children {
		if c.nameHash == h && c.name == name {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		logWarnf("RemoveChildByName: %q has no child named %q", n.name, name)
		return false
	}
	for _, c := range matched {
		n.detachChild(c)
	}
	return true
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.detachChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for len(n.children) > 0 {
		n.detachChild(n.children[len(n.children)-1])
	}
}

func (n *Node) detachChild(child *Node) {
	n.removeChildByPtr(child)
	n.childrenSorted = false
	child.parent = nil
	child.exit()
	child.setScene(nil)
	markSubtreeDirty(child)
	child.updateDisplayedOpacity()
}

// Children returns the child list in insertion order. The returned slice MUST
// NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given insertion index.
func (n *Node) ChildAt(index int) (*Node, error) {
	if index < 0 || index >= len(n.children) {
		return nil, fmt.Errorf("bramble: child %d of %q (%d children): %w",
			index, n.name, len(n.children), ErrIndexOutOfRange)
	}
	return n.children[index], nil
}

// Child returns the first direct child named name, or nil. Names are compared
// by hash first and then by exact string, so a hash collision never matches.
func (n *Node) Child(name string) *Node {
	h := hashName(name)
	for _, c := range n.children {
		if c.nameHash == h && c.name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children named name.
func (n *Node) ChildrenNamed(name string) []*Node {
	h := hashName(name)
	var out []*Node
	for _, c := range n.children {
		if c.nameHash == h && c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// ZOrder returns the node's z-order among its siblings.
func (n *Node) ZOrder() int { return n.zOrder }

// SetZOrder sets the node's z-order and marks the parent's children as unsorted.
// Children with a negative z-order draw before their parent's own content.
func (n *Node) SetZOrder(z int) {
	if n.zOrder == z {
		return
	}
	n.zOrder = z
	if n.parent != nil {
		n.parent.childrenSorted = false
	}
}

// SortedChildren returns the children in ascending z-order; equal orders keep
// insertion order. The returned slice MUST NOT be mutated by the caller.
func (n *Node) SortedChildren() []*Node {
	if !n.childrenSorted {
		n.rebuildSortedChildren()
	}
	return n.sortedChildren
}

// rebuildSortedChildren rebuilds the z-sorted traversal order for a node.
// Uses insertion sort: zero allocations, stable, and optimal for the typical
// case of few children that are nearly sorted (O(n) when already sorted).
func (n *Node) rebuildSortedChildren() {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].zOrder > key.zOrder {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}

// --- Visibility and lifecycle ---

// Visible reports whether the node (and so its subtree) is drawn.
func (n *Node) Visible() bool { return n.visible }

// SetVisible shows or hides the node. Showing a node whose parent is
// displayed fires its enter notifications immediately. Hiding does not exit.
func (n *Node) SetVisible(v bool) {
	if n.visible == v {
		return
	}
	n.visible = v
	if v && !n.displayed && n.isLive() {
		n.enter()
	}
}

// IsDisplayed reports whether the node has entered a current scene.
func (n *Node) IsDisplayed() bool { return n.displayed }

// isLive reports whether the node sits where it should be displayed: under a
// displayed parent, or as the root of an active scene.
func (n *Node) isLive() bool {
	if n.parent != nil {
		return n.parent.displayed
	}
	return n.scene != nil && n.scene.root == n && n.scene.active
}

// enter marks the subtree displayed, firing OnEnter parent-first. Nodes that
// are already displayed or hidden are skipped.
func (n *Node) enter() {
	if n.displayed || !n.visible || n.disposed {
		return
	}
	n.displayed = true
	if n.OnEnter != nil {
		n.OnEnter()
	}
	for _, c := range snapshot(n.children) {
		if c.parent == n {
			c.enter()
		}
	}
}

// exit clears the displayed flag of the subtree, firing OnExit parent-first.
func (n *Node) exit() {
	if !n.displayed {
		return
	}
	n.displayed = false
	n.hover = false
	n.pressed = false
	if n.OnExit != nil {
		n.OnExit()
	}
	for _, c := range snapshot(n.children) {
		if c.parent == n {
			c.exit()
		}
	}
}

func (n *Node) setScene(s *Scene) {
	n.scene = s
	for _, c := range n.children {
		c.setScene(s)
	}
}

// --- Opacity ---

// Opacity returns the node's own opacity.
func (n *Node) Opacity() float64 { return n.opacity }

// DisplayedOpacity returns the effective opacity after cascading.
func (n *Node) DisplayedOpacity() float64 { return n.displayedOpacity }

// SetOpacity sets the node's own opacity, clamped to [0, 1]. The displayed
// opacity of the whole subtree is updated immediately.
func (n *Node) SetOpacity(a float64) {
	a = clamp01(a)
	if n.opacity == a {
		return
	}
	n.opacity = a
	n.updateDisplayedOpacity()
}

// CascadeOpacity reports whether the node multiplies its parent's displayed
// opacity into its own.
func (n *Node) CascadeOpacity() bool { return n.cascadeOpacity }

// SetCascadeOpacity enables or disables inheriting the parent's opacity.
func (n *Node) SetCascadeOpacity(enabled bool) {
	if n.cascadeOpacity == enabled {
		return
	}
	n.cascadeOpacity = enabled
	n.updateDisplayedOpacity()
}

func (n *Node) updateDisplayedOpacity() {
	if n.cascadeOpacity && n.parent != nil {
		n.displayedOpacity = n.opacity * n.parent.displayedOpacity
	} else {
		n.displayedOpacity = n.opacity
	}
	for _, c := range n.children {
		c.updateDisplayedOpacity()
	}
}

// --- Per-frame update ---

// collectLive appends n and its displayed descendants in pre-order. The
// resulting slice is a snapshot, so callbacks may restructure the tree while
// the caller iterates it.
func collectLive(n *Node, buf []*Node) []*Node {
	if !n.displayed {
		return buf
	}
	buf = append(buf, n)
	for _, c := range n.children {
		buf = collectLive(c, buf)
	}
	return buf
}

// --- Disposal ---

// Dispose removes this node from its parent, fires exit notifications,
// stops its actions and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.exit()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.parent = nil
		child.dispose()
	}
	n.StopAllActions()
	n.children = nil
	n.sortedChildren = nil
	n.parent = nil
	n.scene = nil
	n.Content = nil
	n.HitShape = nil
	n.UserData = nil
	n.OnEnter = nil
	n.OnExit = nil
	n.OnUpdate = nil
	n.OnEvent = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// snapshot copies a child list so callbacks can restructure the tree while
// the caller iterates.
func snapshot(nodes []*Node) []*Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Node, len(nodes))
	copy(out, nodes)
	return out
}
