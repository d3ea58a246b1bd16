package bramble

import "testing"

func TestNewScene(t *testing.T) {
	s := NewScene("title")
	if s.root == nil {
		t.Fatal("root should not be nil")
	}
	if s.root.Name() != "root" {
		t.Errorf("root.Name = %q, want %q", s.root.Name(), "root")
	}
	if s.root.Scene() != s {
		t.Error("root should reference its scene")
	}
	if s.IsActive() || s.IsDisposed() {
		t.Error("a new scene is neither active nor disposed")
	}
}

func TestSceneRoot(t *testing.T) {
	s := NewScene("s")
	if s.Root() != s.root {
		t.Error("Root() should return the internal root node")
	}
}

func TestSceneSetEntityStore(t *testing.T) {
	s := NewScene("s")
	s.SetEntityStore(nil) // should not panic
	if s.store != nil {
		t.Error("store should be nil")
	}
}

func TestSceneEnterOrder(t *testing.T) {
	s := NewScene("s")
	var order []string
	s.OnEnter = func() { order = append(order, "scene") }
	s.OnExit = func() { order = append(order, "scene-exit") }
	n := NewNode("n")
	n.OnEnter = func() { order = append(order, "node") }
	n.OnExit = func() { order = append(order, "node-exit") }
	_ = s.AddChild(n)

	s.enter(nil)
	s.enter(nil)
	s.exit()
	s.exit()

	want := []string{"scene", "node", "node-exit", "scene-exit"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestSceneUpdateOrder(t *testing.T) {
	s := activeScene(t)
	var order []string
	n := NewNode("n")
	n.OnUpdate = func(dt float64) { order = append(order, "node") }
	n.RunAction(Tween(1, func(*Node, float64) { order = append(order, "action") }))
	_ = s.AddChild(n)
	s.OnUpdate = func(dt float64) { order = append(order, "scene") }

	s.Update(0.1)
	want := []string{"action", "scene", "node"}
	if len(order) != 3 {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestSceneUpdateSkipsHiddenNodes(t *testing.T) {
	s := activeScene(t)
	n := NewNode("n")
	calls := 0
	n.OnUpdate = func(float64) { calls++ }
	n.SetVisible(false)
	_ = s.AddChild(n)
	s.Update(0.1)
	if calls != 0 {
		t.Errorf("hidden node updated %d times", calls)
	}
	n.SetVisible(true)
	s.Update(0.1)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSceneUpdateToleratesRemovalDuringCallbacks(t *testing.T) {
	s := activeScene(t)
	a := NewNode("a")
	b := NewNode("b")
	bCalls := 0
	a.OnUpdate = func(float64) { s.Root().RemoveChild(b) }
	b.OnUpdate = func(float64) { bCalls++ }
	_ = s.AddChild(a)
	_ = s.AddChild(b)

	s.Update(0.1)
	if bCalls != 0 {
		t.Errorf("removed node updated %d times", bCalls)
	}
}

func TestSceneUpdateAddedNodeWaitsForNextFrame(t *testing.T) {
	s := activeScene(t)
	late := NewNode("late")
	lateCalls := 0
	late.OnUpdate = func(float64) { lateCalls++ }
	s.OnUpdate = func(float64) {
		if late.Parent() == nil {
			_ = s.AddChild(late)
		}
	}
	s.Update(0.1)
	if lateCalls != 0 {
		t.Errorf("node added mid-frame updated %d times", lateCalls)
	}
	s.Update(0.1)
	if lateCalls != 1 {
		t.Errorf("lateCalls = %d, want 1", lateCalls)
	}
}

func TestSceneDispose(t *testing.T) {
	s := activeScene(t)
	var c lifecycleCounter
	n := c.track(NewNode("n"))
	_ = s.AddChild(n)
	exits := 0
	s.OnExit = func() { exits++ }

	s.Dispose()
	s.Dispose()
	if exits != 1 || c.exits != 1 {
		t.Errorf("exits = %d/%d, want 1/1", exits, c.exits)
	}
	if !s.IsDisposed() || !n.IsDisposed() {
		t.Error("scene and its nodes should be disposed")
	}
	s.Update(1) // no-op
	if drawn := s.Render(&recordingRenderer{}); drawn != 0 {
		t.Errorf("disposed scene drew %d nodes", drawn)
	}
}
