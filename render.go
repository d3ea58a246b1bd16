package bramble

// Render draws the subtree rooted at n. Stale transforms are refreshed first,
// then the tree is walked in z-order: children with a negative z-order, the
// node's own content, then the remaining children. Hidden nodes are skipped
// together with their subtree. It returns the number of nodes whose content
// was drawn.
func (n *Node) Render(r Renderer) int {
	n.RefreshTransform()
	drawn := 0
	n.render(r, false, &drawn)
	return drawn
}

func (n *Node) render(r Renderer, parentRecomputed bool, drawn *int) {
	if !n.visible {
		if parentRecomputed {
			// Parent moved while this subtree was hidden.
			n.transformDirty = true
		}
		return
	}

	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.recomputeTransform(parentWorld(n))
	}

	children := n.SortedChildren()
	split := len(children)
	for i, c := range children {
		if c.zOrder >= 0 {
			split = i
			break
		}
	}

	for _, c := range children[:split] {
		c.render(r, recompute, drawn)
	}
	if n.Content != nil {
		r.SetTransform(n.worldTransform)
		r.SetOpacity(n.displayedOpacity)
		n.Content.DrawSelf(r, n)
		*drawn++
	}
	for _, c := range children[split:] {
		c.render(r, recompute, drawn)
	}
}
