package bramble

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// tickN advances n's actions count times by dt.
func tickN(n *Node, dt float64, count int) {
	for i := 0; i < count; i++ {
		n.tickActions(dt)
	}
}

func TestActionStateNames(t *testing.T) {
	if ActionStarted.String() != "Started" || ActionState(99).String() != "Unknown" {
		t.Error("unexpected state names")
	}
}

func TestMoveBy(t *testing.T) {
	n := NewNode("n")
	n.SetPosition(10, 10)
	a := n.RunAction(MoveBy(1, 100, -50))

	n.tickActions(0.5)
	assertNear(t, "x half", n.X(), 60)
	assertNear(t, "y half", n.Y(), -15)
	if a.State() != ActionStarted {
		t.Errorf("state = %v, want Started", a.State())
	}

	n.tickActions(0.5)
	assertNear(t, "x end", n.X(), 110)
	assertNear(t, "y end", n.Y(), -40)
	if a.State() != ActionRemoveable {
		t.Errorf("state = %v, want Removeable", a.State())
	}
	if n.NumActions() != 0 || len(n.actions) != 0 {
		t.Error("finished action should be dropped")
	}
}

func TestMoveToUsesPositionAtStart(t *testing.T) {
	n := NewNode("n")
	a := MoveTo(1, 100, 0)
	n.RunAction(a)
	n.SetPosition(50, 0) // moved before the first update
	n.tickActions(0.5)
	assertNear(t, "x", n.X(), 75)
}

func TestScaleByMultiplies(t *testing.T) {
	n := NewNode("n")
	n.SetScale(2, 2)
	n.RunAction(ScaleBy(1, 3, 0.5))
	tickN(n, 0.5, 2)
	if n.Scale() != (Vec2{6, 1}) {
		t.Errorf("scale = %v, want {6 1}", n.Scale())
	}
}

func TestRotateToAndBy(t *testing.T) {
	n := NewNode("n")
	n.SetRotation(10)
	n.RunAction(Sequence(RotateTo(1, 90), RotateBy(1, -30)))
	n.tickActions(1)
	assertNear(t, "after RotateTo", n.Rotation(), 90)
	n.tickActions(1)
	assertNear(t, "after RotateBy", n.Rotation(), 60)
}

func TestFadeOut(t *testing.T) {
	n := NewNode("n")
	n.SetOpacity(0.8)
	n.RunAction(FadeOut(2))
	n.tickActions(1)
	assertNear(t, "half", n.Opacity(), 0.4)
	n.tickActions(1)
	assertNear(t, "end", n.Opacity(), 0)
}

func TestJumpByReturnsToLine(t *testing.T) {
	n := NewNode("n")
	n.RunAction(JumpBy(1, 100, 0, 20, 2))
	n.tickActions(0.25)
	// Middle of the first hop.
	assertNear(t, "x", n.X(), 25)
	assertNear(t, "peak", n.Y(), -20)
	n.tickActions(0.25)
	assertNear(t, "landed", n.Y(), 0)
	n.tickActions(0.5)
	assertNear(t, "end x", n.X(), 100)
	assertNear(t, "end y", n.Y(), 0)
}

func TestPathByConstantSpeed(t *testing.T) {
	n := NewNode("n")
	n.SetPosition(5, 5)
	// Two segments of length 10 and 30.
	path := []Vec2{{0, 0}, {10, 0}, {10, 30}}
	n.RunAction(PathBy(4, path, true))

	n.tickActions(1) // 10 units along
	assertNear(t, "x", n.X(), 15)
	assertNear(t, "y", n.Y(), 5)

	n.tickActions(1) // 20 units along
	assertNear(t, "x", n.X(), 15)
	assertNear(t, "y", n.Y(), 15)
	assertNear(t, "facing down", n.Rotation(), 90)

	n.tickActions(2)
	assertNear(t, "end y", n.Y(), 35)
}

func TestPathToAbsolute(t *testing.T) {
	n := NewNode("n")
	n.SetPosition(500, 500)
	n.RunAction(PathTo(1, []Vec2{{0, 0}, {10, 0}}, false))
	n.tickActions(1)
	assertNear(t, "x", n.X(), 10)
	assertNear(t, "y", n.Y(), 0)
}

func TestEasingApplied(t *testing.T) {
	n := NewNode("n")
	n.RunAction(MoveBy(1, 100, 0).SetEasing(ease.InQuad))
	n.tickActions(0.5)
	assertNear(t, "eased", n.X(), 25)
	n.tickActions(0.5)
	assertNear(t, "end exact", n.X(), 100)
}

// --- Delay and loops ---

func TestActionDelay(t *testing.T) {
	n := NewNode("n")
	a := n.RunAction(MoveBy(1, 10, 0).SetDelay(0.5))
	n.tickActions(0.25)
	if a.State() != ActionDelayed || n.X() != 0 {
		t.Fatalf("state = %v, x = %v; want Delayed, 0", a.State(), n.X())
	}
	n.tickActions(0.75) // half a second into the move
	assertNear(t, "x", n.X(), 5)
	assertNear(t, "elapsed includes delay", a.Elapsed(), 1)
}

func TestActionLoopsFireCallbacks(t *testing.T) {
	n := NewNode("n")
	var (
		calls    int
		loopAt   []float64
		doneAt   = -1.0
		clock    float64
		lastLoop int
	)
	a := Tween(1, func(*Node, float64) { calls++ }).
		SetLoops(2).
		SetOnLoopDone(func(_ *Action, loop int) {
			loopAt = append(loopAt, clock)
			lastLoop = loop
		}).
		SetOnDone(func(*Action) { doneAt = clock })
	n.RunAction(a)

	for i := 0; i < 6; i++ {
		clock += 0.5
		n.tickActions(0.5)
	}

	if len(loopAt) != 2 || loopAt[0] != 1 || loopAt[1] != 2 {
		t.Errorf("loop callbacks at %v, want [1 2]", loopAt)
	}
	if lastLoop != 2 {
		t.Errorf("last loop = %d, want 2", lastLoop)
	}
	if doneAt != 2 {
		t.Errorf("done at %v, want 2", doneAt)
	}
	if calls != 4 {
		t.Errorf("tween calls = %d, want 4 (none after done)", calls)
	}
	if a.LoopsDone() != 2 {
		t.Errorf("LoopsDone = %d, want 2", a.LoopsDone())
	}
}

func TestActionLoopsRestartFromCurrentState(t *testing.T) {
	n := NewNode("n")
	n.RunAction(MoveBy(1, 10, 0).SetLoops(3))
	tickN(n, 1, 3)
	assertNear(t, "x", n.X(), 30)
}

func TestActionLoopForever(t *testing.T) {
	n := NewNode("n")
	a := n.RunAction(RotateBy(1, 90).SetLoops(LoopForever))
	tickN(n, 1, 10)
	if a.IsDone() {
		t.Fatal("LoopForever should not finish")
	}
	assertNear(t, "rotation", n.Rotation(), 900)
	a.Stop()
	n.tickActions(1)
	if n.NumActions() != 0 {
		t.Error("stopped action should be dropped")
	}
}

func TestActionLeftoverTimeCarriesIntoNextLoop(t *testing.T) {
	n := NewNode("n")
	n.RunAction(MoveBy(1, 10, 0).SetLoops(2))
	n.tickActions(1.5)
	assertNear(t, "x", n.X(), 15)
}

func TestStopFromLoopCallback(t *testing.T) {
	n := NewNode("n")
	doneCalls := 0
	a := MoveBy(1, 10, 0).SetLoops(5).
		SetOnLoopDone(func(a *Action, _ int) { a.Stop() }).
		SetOnDone(func(*Action) { doneCalls++ })
	n.RunAction(a)
	tickN(n, 1, 3)
	assertNear(t, "x", n.X(), 10)
	if doneCalls != 0 {
		t.Error("a stopped action must not fire OnDone")
	}
}

// --- Fail fast ---

func TestAnimateWithoutFramesFails(t *testing.T) {
	captureLog(t)
	n := NewSprite("s", nil)
	doneCalls := 0
	a := n.RunAction(Animate(1, nil).SetOnDone(func(*Action) { doneCalls++ }))
	n.tickActions(0.1)
	if !a.IsDone() {
		t.Error("empty animation should finish immediately")
	}
	if doneCalls != 0 {
		t.Error("failed action must not fire callbacks")
	}
}

func TestAnimateNeedsFrameSetter(t *testing.T) {
	buf := captureLog(t)
	n := NewNode("plain")
	a := n.RunAction(Animate(1, make([]*ebiten.Image, 3)).SetDetachTarget(true))
	parent := NewNode("parent")
	_ = parent.AddChild(n)
	n.tickActions(0.1)
	if !a.IsDone() || buf.Len() == 0 {
		t.Error("animation on a node without frames should fail with a warning")
	}
	if n.Parent() != parent {
		t.Error("a failed action must not detach its target")
	}
}

type frameRecorder struct{ calls int }

func (f *frameRecorder) DrawSelf(Renderer, *Node) {}
func (f *frameRecorder) SetFrame(*ebiten.Image) { f.calls++ }

func TestAnimateSetsFrames(t *testing.T) {
	n := NewNode("anim")
	rec := &frameRecorder{}
	n.Content = rec
	a := n.RunAction(Animate(0.3, make([]*ebiten.Image, 3)))
	tickN(n, 0.1, 3)
	if rec.calls != 3 {
		t.Errorf("SetFrame calls = %d, want 3", rec.calls)
	}
	if !a.IsDone() {
		t.Error("animation should be done")
	}
}

func TestEmptyPathFails(t *testing.T) {
	captureLog(t)
	n := NewNode("n")
	a := n.RunAction(PathBy(1, nil, false))
	n.tickActions(0.5)
	if !a.IsDone() || n.Position() != (Vec2{}) {
		t.Error("empty path should fail without moving the node")
	}
}

// --- Groups ---

func TestSequence(t *testing.T) {
	n := NewNode("n")
	var order []string
	seq := Sequence(
		MoveBy(1, 10, 0).SetOnDone(func(*Action) { order = append(order, "move") }),
		Delay(1),
		FadeOut(1).SetOnDone(func(*Action) { order = append(order, "fade") }),
	).SetOnDone(func(*Action) { order = append(order, "seq") })
	n.RunAction(seq)

	n.tickActions(1)
	assertNear(t, "x", n.X(), 10)
	n.tickActions(1) // delay
	assertNear(t, "opacity during delay", n.Opacity(), 1)
	n.tickActions(0.5)
	assertNear(t, "opacity", n.Opacity(), 0.5)
	n.tickActions(0.5)

	want := []string{"move", "fade", "seq"}
	if len(order) != 3 {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
	if n.NumActions() != 0 {
		t.Error("finished sequence should be dropped")
	}
}

func TestSequenceInstantChildrenCompleteSameFrame(t *testing.T) {
	n := NewNode("n")
	n.RunAction(Sequence(MoveBy(0, 5, 0), MoveBy(0, 5, 0)))
	n.tickActions(0.016)
	assertNear(t, "x", n.X(), 10)
	if n.NumActions() != 0 {
		t.Error("instant sequence should finish in one frame")
	}
}

func TestParallel(t *testing.T) {
	n := NewNode("n")
	p := n.RunAction(Parallel(MoveBy(1, 10, 0), FadeOut(2)))
	n.tickActions(1)
	assertNear(t, "x", n.X(), 10)
	if p.IsDone() {
		t.Fatal("parallel should wait for its longest child")
	}
	n.tickActions(1)
	assertNear(t, "opacity", n.Opacity(), 0)
	if !p.IsDone() {
		t.Error("parallel should be done")
	}
}

func TestSequenceLoopsResetChildren(t *testing.T) {
	n := NewNode("n")
	n.RunAction(Sequence(MoveBy(1, 10, 0), MoveBy(1, -10, 0)).SetLoops(2))
	tickN(n, 1, 3)
	assertNear(t, "x", n.X(), 10)
	n.tickActions(1)
	assertNear(t, "x", n.X(), 0)
	if n.NumActions() != 0 {
		t.Error("sequence should finish after two loops")
	}
}

// --- Node side ---

func TestDetachTarget(t *testing.T) {
	parent := NewNode("parent")
	n := NewNode("n")
	_ = parent.AddChild(n)
	n.RunAction(FadeOut(1).SetDetachTarget(true))
	n.tickActions(1)
	if n.Parent() != nil {
		t.Error("target should be detached when done")
	}
	if n.IsDisposed() {
		t.Error("detaching must not dispose")
	}
}

func TestRunActionMovesBetweenNodes(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	act := MoveBy(1, 10, 0)
	a.RunAction(act)
	b.RunAction(act)
	if act.Target() != b {
		t.Error("target should be b")
	}
	a.tickActions(1)
	b.tickActions(1)
	assertNear(t, "a.x", a.X(), 0)
	assertNear(t, "b.x", b.X(), 10)
}

func TestRunActionTwiceIsNoOp(t *testing.T) {
	n := NewNode("n")
	act := MoveBy(1, 10, 0)
	n.RunAction(act)
	n.RunAction(act)
	if len(n.actions) != 1 {
		t.Errorf("actions = %d, want 1", len(n.actions))
	}
}

func TestRerunFinishedAction(t *testing.T) {
	n := NewNode("n")
	act := MoveBy(1, 10, 0)
	n.RunAction(act)
	n.tickActions(1)
	n.RunAction(act)
	if act.State() != ActionNotStarted {
		t.Errorf("state = %v, want NotStarted", act.State())
	}
	n.tickActions(1)
	assertNear(t, "x", n.X(), 20)
}

func TestStopActionByName(t *testing.T) {
	n := NewNode("n")
	n.RunAction(MoveBy(1, 10, 0).SetName("walk"))
	n.RunAction(FadeOut(1).SetName("fade"))
	if n.Action("walk") == nil {
		t.Fatal("Action(walk) should be found")
	}
	if !n.StopAction("walk") {
		t.Fatal("StopAction returned false")
	}
	if n.StopAction("missing") {
		t.Error("StopAction(missing) should return false")
	}
	n.tickActions(1)
	assertNear(t, "x", n.X(), 0)
	assertNear(t, "opacity", n.Opacity(), 0)
}

func TestStartActionFromCallback(t *testing.T) {
	n := NewNode("n")
	n.RunAction(MoveBy(1, 10, 0).SetOnDone(func(a *Action) {
		a.Target().RunAction(MoveBy(1, 0, 10))
	}))
	n.tickActions(1)
	if n.NumActions() != 1 {
		t.Fatalf("NumActions = %d, want 1", n.NumActions())
	}
	n.tickActions(1)
	assertNear(t, "y", n.Y(), 10)
}

func TestDisposeStopsActions(t *testing.T) {
	n := NewNode("n")
	act := n.RunAction(MoveBy(1, 10, 0))
	n.Dispose()
	if act.State() != ActionRemoveable || act.Target() != nil {
		t.Error("dispose should stop and release actions")
	}
}

func TestDisposeFromCallbackStopsTick(t *testing.T) {
	n := NewNode("n")
	second := 0
	n.RunAction(Tween(1, func(n *Node, _ float64) { n.Dispose() }))
	n.RunAction(Tween(1, func(*Node, float64) { second++ }))
	n.tickActions(0.5)
	if second != 0 {
		t.Error("actions of a disposed node must not run")
	}
}

func TestPauseResume(t *testing.T) {
	n := NewNode("n")
	a := n.RunAction(MoveBy(1, 10, 0))
	n.tickActions(0.5)
	a.Pause()
	n.tickActions(0.5)
	assertNear(t, "paused", n.X(), 5)
	a.Resume()
	n.tickActions(0.5)
	assertNear(t, "resumed", n.X(), 10)
}

func TestActionsTickOnlyWhileDisplayed(t *testing.T) {
	s := activeScene(t)
	n := NewNode("n")
	n.RunAction(MoveBy(1, 10, 0))
	s.Update(0.5) // not attached yet
	_ = s.AddChild(n)
	s.Update(0.5)
	assertNear(t, "x", n.X(), 5)
}
