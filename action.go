package bramble

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// ActionState is the lifecycle state of an Action.
type ActionState uint8

const (
	ActionNotStarted ActionState = iota // created or reset, never updated
	ActionDelayed                       // waiting for its delay to elapse
	ActionStarted                       // interpolating
	ActionDone                          // all loops finished
	ActionRemoveable                    // detached from its node, safe to drop
)

var actionStateNames = [...]string{"NotStarted", "Delayed", "Started", "Done", "Removeable"}

// String returns the state name.
func (s ActionState) String() string {
	if int(s) < len(actionStateNames) {
		return actionStateNames[s]
	}
	return "Unknown"
}

// LoopForever makes an action repeat until it is stopped.
const LoopForever = -1

type actionKind uint8

const (
	actionMove actionKind = iota
	actionScale
	actionRotate
	actionOpacity
	actionJump
	actionPath
	actionFrames
	actionCustom
	actionDelay
	actionSequence
	actionParallel
)

// tweenParams holds the interpolation parameters of every tween variant.
// Each variant reads only the fields it needs.
type tweenParams struct {
	absolute bool // To variant: delta is derived from target at init
	to       Vec2
	delta    Vec2
	start    Vec2

	height float64 // jump
	jumps  int

	points  []Vec2    // path, relative to start unless absolute
	lengths []float64 // cumulative arc length at each point
	rotate  bool

	frames []*ebiten.Image
	setter FrameSetter

	custom func(n *Node, t float64)
}

// Action is a time-driven state machine that mutates a node's properties.
// Actions are created by the constructors (MoveBy, FadeTo, Sequence, ...),
// configured with the chained setters, and started with Node.RunAction.
type Action struct {
	name     string
	kind     actionKind
	state    ActionState
	delay    float64
	duration float64
	elapsed  float64

	loops     int
	loopsDone int

	easing       ease.TweenFunc
	detachTarget bool
	paused       bool
	failed       bool
	owner        *Node

	onLoopDone func(a *Action, loop int)
	onDone     func(a *Action)

	tw tweenParams

	children []*Action
	index    int
}

func newAction(kind actionKind, duration float64) *Action {
	if duration < 0 {
		duration = 0
	}
	return &Action{kind: kind, duration: duration, loops: 1}
}

// --- Configuration ---

// SetName names the action so it can be found with Node.Action and stopped
// with Node.StopAction.
func (a *Action) SetName(name string) *Action {
	a.name = name
	return a
}

// Name returns the action's name.
func (a *Action) Name() string { return a.name }

// SetDelay sets the time in seconds to wait before the first loop starts.
func (a *Action) SetDelay(d float64) *Action {
	a.delay = max(d, 0)
	return a
}

// SetLoops sets the total number of runs. LoopForever repeats until stopped;
// other values below 1 mean a single run.
func (a *Action) SetLoops(n int) *Action {
	if n != LoopForever && n < 1 {
		n = 1
	}
	a.loops = n
	return a
}

// SetEasing sets the easing function. Nil means linear.
func (a *Action) SetEasing(fn ease.TweenFunc) *Action {
	a.easing = fn
	return a
}

// SetDetachTarget removes the target node from its parent once the action
// is done.
func (a *Action) SetDetachTarget(detach bool) *Action {
	a.detachTarget = detach
	return a
}

// SetOnLoopDone registers fn to run every time a loop completes, including
// the last one. loop counts completed runs starting at 1.
func (a *Action) SetOnLoopDone(fn func(a *Action, loop int)) *Action {
	a.onLoopDone = fn
	return a
}

// SetOnDone registers fn to run once when the whole action finishes.
func (a *Action) SetOnDone(fn func(a *Action)) *Action {
	a.onDone = fn
	return a
}

// --- Accessors ---

// State returns the current lifecycle state.
func (a *Action) State() ActionState { return a.state }

// Elapsed returns the seconds accumulated since the action was started or
// reset, including the delay.
func (a *Action) Elapsed() float64 { return a.elapsed }

// Duration returns the length of one loop in seconds.
func (a *Action) Duration() float64 { return a.duration }

// LoopsDone returns the number of completed loops.
func (a *Action) LoopsDone() int { return a.loopsDone }

// IsDone reports whether the action has finished or was stopped.
func (a *Action) IsDone() bool { return a.state >= ActionDone }

// Target returns the node running the action, or nil.
func (a *Action) Target() *Node { return a.owner }

// --- Control ---

// Reset returns the action to NotStarted with no elapsed time and no
// completed loops so it can be run again.
func (a *Action) Reset() {
	a.state = ActionNotStarted
	a.elapsed = 0
	a.loopsDone = 0
	a.index = 0
	a.failed = false
	for _, c := range a.children {
		c.Reset()
	}
}

// Stop ends the action without firing its callbacks. The owning node drops
// it on its next tick.
func (a *Action) Stop() {
	a.state = ActionRemoveable
}

// Pause suspends time accumulation until Resume.
func (a *Action) Pause() { a.paused = true }

// Resume continues a paused action.
func (a *Action) Resume() { a.paused = false }

// IsPaused reports whether the action is paused.
func (a *Action) IsPaused() bool { return a.paused }

// --- Stepping ---

// Update advances the action by dt seconds against target. It is called by
// the owning node each frame, but may also be driven manually.
func (a *Action) Update(target *Node, dt float64) {
	if a.state >= ActionDone || a.paused {
		return
	}
	a.elapsed += dt
	if a.state == ActionNotStarted || a.state == ActionDelayed {
		if a.elapsed < a.delay {
			a.state = ActionDelayed
			return
		}
		if !a.init(target) {
			return
		}
		a.state = ActionStarted
		dt = a.elapsed - a.delay
	}
	switch a.kind {
	case actionSequence:
		a.stepSequence(target, dt)
	case actionParallel:
		a.stepParallel(target, dt)
	default:
		a.stepTween(target)
	}
}

// init captures the start state of the target. It fails fast, leaving the
// action Done without callbacks, when the action cannot run on target.
func (a *Action) init(target *Node) bool {
	if target == nil {
		a.fail("action %q has no target", a.name)
		return false
	}
	switch a.kind {
	case actionSequence, actionParallel:
		a.index = 0
		for _, c := range a.children {
			c.Reset()
		}
		return true
	}
	return a.initTween(target)
}

func (a *Action) fail(format string, args ...any) {
	logWarnf(format, args...)
	a.state = ActionDone
	a.failed = true
}

// fraction returns the progress of the current loop in [0, 1].
func (a *Action) fraction() float64 {
	if a.duration <= 0 {
		return 1
	}
	f := (a.elapsed-a.delay)/a.duration - float64(a.loopsDone)
	return min(max(f, 0), 1)
}

func (a *Action) eased(f float64) float64 {
	if f >= 1 {
		return 1
	}
	if a.easing == nil {
		return f
	}
	return float64(a.easing(float32(f), 0, 1, 1))
}

func (a *Action) stepTween(target *Node) {
	f := a.fraction()
	updateTween(a, target, a.eased(f))
	if f < 1 {
		return
	}
	if a.completeLoop(target) && a.duration > 0 {
		// Time left over past the loop boundary starts the next loop.
		if rest := a.fraction(); rest > 0 {
			updateTween(a, target, a.eased(rest))
		}
	}
}

// completeLoop records a finished loop. It returns true when another loop
// was started.
func (a *Action) completeLoop(target *Node) bool {
	a.loopsDone++
	if a.onLoopDone != nil {
		a.onLoopDone(a, a.loopsDone)
	}
	if a.state != ActionStarted {
		// Stopped or reset by the callback.
		return false
	}
	if a.loops != LoopForever && a.loopsDone >= a.loops {
		a.state = ActionDone
		if a.onDone != nil {
			a.onDone(a)
		}
		return false
	}
	return a.init(target)
}

// --- Node side ---

// RunAction starts a on n and returns it. An action owned by another node is
// moved to n; a finished action is reset first.
func (n *Node) RunAction(a *Action) *Action {
	if a == nil || n.disposed {
		return a
	}
	if a.owner == n && a.state < ActionDone {
		return a
	}
	if a.owner != nil {
		a.owner.dropAction(a)
	}
	if a.state >= ActionDone {
		a.Reset()
	}
	a.owner = n
	n.actions = append(n.actions, a)
	return a
}

// Action returns the first running action named name, or nil.
func (n *Node) Action(name string) *Action {
	for _, a := range n.actions {
		if a.name == name && a.state < ActionDone {
			return a
		}
	}
	return nil
}

// NumActions returns the number of actions still running on n.
func (n *Node) NumActions() int {
	c := 0
	for _, a := range n.actions {
		if a.state < ActionDone {
			c++
		}
	}
	return c
}

// StopAction stops every action named name. It returns false when none was
// running.
func (n *Node) StopAction(name string) bool {
	found := false
	for _, a := range n.actions {
		if a.name == name && a.state < ActionDone {
			a.Stop()
			found = true
		}
	}
	return found
}

// StopAllActions stops every action on n.
func (n *Node) StopAllActions() {
	for _, a := range n.actions {
		if a.state < ActionRemoveable {
			a.Stop()
		}
		a.owner = nil
	}
	clear(n.actions)
	n.actions = nil
}

func (n *Node) dropAction(a *Action) {
	for i, x := range n.actions {
		if x == a {
			// Overwrite instead of splicing so an in-progress tick keeps a
			// consistent view of the backing array.
			n.actions[i] = nil
			break
		}
	}
	a.owner = nil
}

// tickActions advances every action on n, applies completion side effects,
// and drops finished actions. Callbacks may run or stop actions on n.
func (n *Node) tickActions(dt float64) {
	list := n.actions
	for _, a := range list {
		if a == nil || a.owner != n {
			continue
		}
		if a.state < ActionDone {
			a.Update(n, dt)
		}
		if a.state == ActionDone {
			a.state = ActionRemoveable
			if a.detachTarget && !a.failed {
				n.RemoveFromParent()
			}
		}
		if n.disposed {
			return
		}
	}

	kept := n.actions[:0]
	for _, a := range n.actions {
		if a == nil {
			continue
		}
		if a.owner != n {
			continue
		}
		if a.state >= ActionDone {
			if a.state == ActionDone {
				a.state = ActionRemoveable
			}
			a.owner = nil
			continue
		}
		kept = append(kept, a)
	}
	clear(n.actions[len(kept):])
	n.actions = kept
}
