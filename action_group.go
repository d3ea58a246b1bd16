package bramble

// Delay waits for duration seconds. It is mostly useful inside a Sequence.
func Delay(duration float64) *Action {
	return newAction(actionDelay, duration)
}

// Sequence runs actions one after another on the same target.
func Sequence(actions ...*Action) *Action {
	a := newAction(actionSequence, 0)
	a.children = groupChildren(actions)
	return a
}

// Parallel runs actions together; it finishes when all of them have.
func Parallel(actions ...*Action) *Action {
	a := newAction(actionParallel, 0)
	a.children = groupChildren(actions)
	return a
}

func groupChildren(actions []*Action) []*Action {
	out := make([]*Action, 0, len(actions))
	for _, c := range actions {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Children returns the actions of a Sequence or Parallel group.
func (a *Action) Children() []*Action { return a.children }

func (a *Action) stepSequence(target *Node, dt float64) {
	for a.index < len(a.children) {
		c := a.children[a.index]
		c.Update(target, dt)
		if !c.IsDone() {
			return
		}
		a.index++
		// Instant children that follow complete in the same frame.
		dt = 0
	}
	a.completeGroupLoop(target)
}

func (a *Action) stepParallel(target *Node, dt float64) {
	done := true
	for _, c := range a.children {
		if c.IsDone() {
			continue
		}
		c.Update(target, dt)
		if !c.IsDone() {
			done = false
		}
	}
	if done {
		a.completeGroupLoop(target)
	}
}

func (a *Action) completeGroupLoop(target *Node) {
	if a.state != ActionStarted {
		return
	}
	a.completeLoop(target)
}
