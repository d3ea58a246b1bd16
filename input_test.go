package bramble

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- HitShape tests ---

func TestHitRectContains(t *testing.T) {
	r := HitRect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 5, 40, false},
		{"outside right", 115, 40, false},
		{"outside top", 50, 15, false},
		{"outside bottom", 50, 75, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("HitRect.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestHitCircleContains(t *testing.T) {
	c := HitCircle{CenterX: 50, CenterY: 50, Radius: 25}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 50, 50, true},
		{"on circumference", 75, 50, true},
		{"inside", 60, 50, true},
		{"outside", 80, 50, false},
		{"outside diagonal", 70, 70, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("HitCircle.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestHitPolygonContains(t *testing.T) {
	square := HitPolygon{Points: []Vec2{{0, 0}, {100, 0}, {100, 100}, {0, 100}}}
	if !square.Contains(50, 50) || !square.Contains(0, 50) {
		t.Error("square should contain its center and edge")
	}
	if square.Contains(-1, 50) {
		t.Error("square should not contain an outside point")
	}

	reversed := HitPolygon{Points: []Vec2{{0, 100}, {100, 100}, {100, 0}, {0, 0}}}
	if !reversed.Contains(50, 50) {
		t.Error("reversed winding should still contain the center")
	}

	degen := HitPolygon{Points: []Vec2{{0, 0}, {1, 1}}}
	if degen.Contains(0, 0) {
		t.Error("degenerate polygon should not contain anything")
	}
}

func TestContainsPoint(t *testing.T) {
	n := NewRect("r", 100, 50, ColorWhite)
	n.SetPosition(10, 10)
	if !n.ContainsPoint(60, 30) {
		t.Error("should contain a point inside the rect")
	}
	if n.ContainsPoint(5, 30) {
		t.Error("should not contain a point left of the rect")
	}

	n.SetRotation(90)
	// Rotated about its origin, the rect now spans x in [-40, 10].
	if !n.ContainsPoint(-20, 30) || n.ContainsPoint(60, 30) {
		t.Error("hit test should follow rotation")
	}
}

func TestContainsPointZeroScale(t *testing.T) {
	n := NewRect("r", 100, 100, ColorWhite)
	n.SetPosition(500, 500)
	n.SetScale(0, 0)
	for _, p := range []Vec2{{50, 50}, {500, 500}, {0, 0}} {
		if n.ContainsPoint(p.X, p.Y) {
			t.Errorf("zero-scale node should not hit (%v, %v)", p.X, p.Y)
		}
	}
	n.HitShape = HitCircle{CenterX: 0, CenterY: 0, Radius: 10}
	if n.ContainsPoint(0, 0) {
		t.Error("zero-scale node with a HitShape should not hit")
	}
	n.SetScale(1, 0)
	if n.ContainsPoint(500, 500) {
		t.Error("a collapsed axis should not hit")
	}
}

func TestContainsPointContainer(t *testing.T) {
	n := NewNode("box")
	if n.ContainsPoint(0, 0) {
		t.Error("a zero-size node without HitShape never hits")
	}
	n.HitShape = HitCircle{CenterX: 0, CenterY: 0, Radius: 5}
	if !n.ContainsPoint(3, 3) {
		t.Error("HitShape should make the node hittable")
	}
}

// --- Dispatch ---

// interactiveScene returns an active scene with one responsible 100x100 rect
// at the origin.
func interactiveScene(t *testing.T) (*Scene, *Node) {
	t.Helper()
	s := activeScene(t)
	n := NewRect("button", 100, 100, ColorWhite)
	n.Responsible = true
	_ = s.AddChild(n)
	return s, n
}

func eventLog(n *Node) *[]EventType {
	var got []EventType
	n.OnEvent = func(e *Event) { got = append(got, e.Type) }
	return &got
}

func mouse(t EventType, x, y float64) *Event {
	return &Event{Type: t, X: x, Y: y, Button: MouseButtonLeft}
}

func TestHoverPressClick(t *testing.T) {
	s, n := interactiveScene(t)
	got := eventLog(n)

	s.Dispatch(mouse(EventMouseMove, 10, 10))
	if !n.IsHovered() {
		t.Fatal("node should be hovered")
	}
	s.Dispatch(mouse(EventMouseDown, 10, 10))
	if !n.IsPressed() {
		t.Fatal("node should be pressed")
	}
	s.Dispatch(mouse(EventMouseUp, 10, 10))
	s.Dispatch(mouse(EventMouseMove, 500, 500))

	want := []EventType{
		EventHoverEnter, EventMouseMove,
		EventPress, EventMouseDown,
		EventClick, EventMouseUp,
		EventHoverLeave, EventMouseMove,
	}
	if len(*got) != len(want) {
		t.Fatalf("events = %v, want %v", *got, want)
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Errorf("event[%d] = %v, want %v", i, (*got)[i], want[i])
		}
	}
}

func TestNoClickWhenReleasedOutside(t *testing.T) {
	s, n := interactiveScene(t)
	clicks := 0
	n.OnEvent = func(e *Event) {
		if e.Type == EventClick {
			clicks++
		}
	}
	s.Dispatch(mouse(EventMouseDown, 10, 10))
	s.Dispatch(mouse(EventMouseUp, 300, 300))
	if clicks != 0 {
		t.Error("release outside the node should not click")
	}
	if n.IsPressed() {
		t.Error("release should clear the pressed state")
	}
}

func TestNoClickForOtherButton(t *testing.T) {
	s, n := interactiveScene(t)
	clicks := 0
	n.OnEvent = func(e *Event) {
		if e.Type == EventClick {
			clicks++
		}
	}
	s.Dispatch(mouse(EventMouseDown, 10, 10))
	up := mouse(EventMouseUp, 10, 10)
	up.Button = MouseButtonRight
	s.Dispatch(up)
	if clicks != 0 || !n.IsPressed() {
		t.Error("a different button should not complete the click")
	}
}

func TestTopmostNodeFirst(t *testing.T) {
	s := activeScene(t)
	var order []string
	for _, name := range []string{"bottom", "top"} {
		name := name
		n := NewRect(name, 50, 50, ColorWhite)
		n.OnEvent = func(*Event) { order = append(order, name) }
		_ = s.AddChild(n)
	}
	s.Dispatch(mouse(EventMouseDown, 10, 10))
	if len(order) != 2 || order[0] != "top" || order[1] != "bottom" {
		t.Errorf("order = %v, want [top bottom]", order)
	}
}

func TestChildrenBeforeParent(t *testing.T) {
	s := activeScene(t)
	var order []string
	parent := NewNode("parent")
	child := NewNode("child")
	parent.OnEvent = func(*Event) { order = append(order, "parent") }
	child.OnEvent = func(*Event) { order = append(order, "child") }
	_ = parent.AddChild(child)
	_ = s.AddChild(parent)
	s.Dispatch(&Event{Type: EventKeyDown, Key: ebiten.KeySpace})
	if len(order) != 2 || order[0] != "child" || order[1] != "parent" {
		t.Errorf("order = %v, want [child parent]", order)
	}
}

func TestStopPropagation(t *testing.T) {
	s := activeScene(t)
	bottom := NewRect("bottom", 50, 50, ColorWhite)
	top := NewRect("top", 50, 50, ColorWhite)
	bottomHits := 0
	bottom.OnEvent = func(*Event) { bottomHits++ }
	top.OnEvent = func(e *Event) { e.StopPropagation() }
	_ = s.AddChild(bottom)
	_ = s.AddChild(top)

	e := mouse(EventMouseDown, 10, 10)
	s.Dispatch(e)
	if bottomHits != 0 || !e.Stopped() {
		t.Error("StopPropagation should keep the event from lower nodes")
	}
}

func TestStoppingSynthesizedEventStopsRaw(t *testing.T) {
	s, n := interactiveScene(t)
	lower := NewNode("lower")
	lowerHits := 0
	lower.OnEvent = func(*Event) { lowerHits++ }
	_ = s.AddChild(lower)
	lower.SetZOrder(-1)
	n.OnEvent = func(e *Event) {
		if e.Type == EventPress {
			e.StopPropagation()
		}
	}
	s.Dispatch(mouse(EventMouseDown, 10, 10))
	if lowerHits != 0 {
		t.Error("stopping the press should stop the raw mouse event")
	}
}

func TestHiddenNodesSkipped(t *testing.T) {
	s := activeScene(t)
	n := NewNode("n")
	hits := 0
	n.OnEvent = func(*Event) { hits++ }
	n.SetVisible(false)
	_ = s.AddChild(n)
	s.Dispatch(&Event{Type: EventKeyDown})
	if hits != 0 {
		t.Error("hidden nodes should not receive events")
	}
}

func TestEventLocalCoordinates(t *testing.T) {
	s := activeScene(t)
	n := NewRect("n", 50, 50, ColorWhite)
	n.SetPosition(100, 200)
	n.SetScale(2, 2)
	_ = s.AddChild(n)
	var lx, ly float64
	var target *Node
	n.OnEvent = func(e *Event) {
		lx, ly, target = e.LocalX, e.LocalY, e.Target
	}
	s.Dispatch(mouse(EventMouseMove, 120, 260))
	assertNear(t, "lx", lx, 10)
	assertNear(t, "ly", ly, 30)
	if target != n {
		t.Error("Target should be the handling node")
	}
}

func TestSceneHandlersRunFirst(t *testing.T) {
	s, n := interactiveScene(t)
	var order []string
	s.On(EventPress, func(e *Event) { order = append(order, "scene-press") })
	s.On(EventMouseDown, func(e *Event) { order = append(order, "scene-down") })
	n.OnEvent = func(e *Event) { order = append(order, "node-"+e.Type.String()) }

	s.Dispatch(mouse(EventMouseDown, 10, 10))
	want := []string{"scene-down", "node-HoverEnter", "scene-press", "node-Press", "node-MouseDown"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	s := activeScene(t)
	count := 0
	h := s.On(EventKeyDown, func(*Event) { count++ })
	s.Dispatch(&Event{Type: EventKeyDown})
	h.Remove()
	s.Dispatch(&Event{Type: EventKeyDown})
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	CallbackHandle{}.Remove() // zero handle is a no-op
}

func TestRemoveHandlerDuringDispatch(t *testing.T) {
	s := activeScene(t)
	second := 0
	var h CallbackHandle
	s.On(EventKeyDown, func(*Event) { h.Remove() })
	h = s.On(EventKeyDown, func(*Event) { second++ })
	s.Dispatch(&Event{Type: EventKeyDown})
	s.Dispatch(&Event{Type: EventKeyDown})
	if second != 1 {
		t.Errorf("second = %d, want 1 (in-flight dispatch keeps its list)", second)
	}
}

func TestRemoveNodeDuringDispatch(t *testing.T) {
	s := activeScene(t)
	a := NewNode("a")
	b := NewNode("b")
	bHits := 0
	b.OnEvent = func(*Event) { bHits++ }
	// a is on top, so it handles the event first and removes b.
	a.OnEvent = func(*Event) { s.Root().RemoveChild(b) }
	_ = s.AddChild(b)
	_ = s.AddChild(a)
	s.Dispatch(&Event{Type: EventKeyDown})
	if bHits != 0 {
		t.Error("a node removed mid-dispatch should not receive the event")
	}
}

func TestExitClearsHover(t *testing.T) {
	s, n := interactiveScene(t)
	s.Dispatch(mouse(EventMouseMove, 10, 10))
	s.Root().RemoveChild(n)
	if n.IsHovered() {
		t.Error("exit should clear hover")
	}
}

func TestEventTypeString(t *testing.T) {
	if EventClick.String() != "Click" || EventType(200).String() != "Unknown" {
		t.Error("unexpected event type names")
	}
}

// --- ECS bridge ---

type mockStore struct {
	events []InteractionEvent
}

func (m *mockStore) EmitEvent(e InteractionEvent) {
	m.events = append(m.events, e)
}

func TestECSBridge(t *testing.T) {
	s, n := interactiveScene(t)
	store := &mockStore{}
	s.SetEntityStore(store)
	n.EntityID = 42
	n.SetPosition(10, 0)

	s.Dispatch(mouse(EventMouseDown, 30, 20))
	if len(store.events) != 2 {
		t.Fatalf("events = %d, want 2 (hover enter, press)", len(store.events))
	}
	e := store.events[1]
	if e.Type != EventPress || e.EntityID != 42 {
		t.Errorf("unexpected event: %+v", e)
	}
	assertNear(t, "local x", e.LocalX, 20)
	assertNear(t, "global x", e.GlobalX, 30)
}

func TestECSBridge_NoEntity(t *testing.T) {
	s, _ := interactiveScene(t)
	store := &mockStore{}
	s.SetEntityStore(store)
	s.Dispatch(mouse(EventMouseDown, 10, 10))
	if len(store.events) != 0 {
		t.Errorf("expected 0 events for node without EntityID, got %d", len(store.events))
	}
}
