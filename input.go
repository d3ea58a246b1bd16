package bramble

import "github.com/hajimehoshi/ebiten/v2"

// EventType identifies the kind of input event.
type EventType uint8

const (
	EventMouseDown  EventType = iota // mouse button pressed
	EventMouseUp                     // mouse button released
	EventMouseMove                   // cursor moved
	EventMouseWheel                  // wheel scrolled
	EventKeyDown                     // key pressed
	EventKeyUp                       // key released
	EventKeyChar                     // text character typed
	EventHoverEnter                  // cursor entered a responsible node
	EventHoverLeave                  // cursor left a responsible node
	EventPress                       // button went down over a responsible node
	EventClick                       // button released over the node that was pressed
	eventTypeCount
)

var eventTypeNames = [eventTypeCount]string{
	"MouseDown", "MouseUp", "MouseMove", "MouseWheel",
	"KeyDown", "KeyUp", "KeyChar",
	"HoverEnter", "HoverLeave", "Press", "Click",
}

// String returns the event type name.
func (t EventType) String() string {
	if t < eventTypeCount {
		return eventTypeNames[t]
	}
	return "Unknown"
}

// Event is a typed input event. Raw events (mouse, wheel, key) come from an
// InputSource; hover, press and click events are synthesized during dispatch
// for responsible nodes.
type Event struct {
	Type      EventType
	X, Y      float64 // cursor position in world (screen) coordinates
	Button    MouseButton
	WheelX    float64
	WheelY    float64
	Key       ebiten.Key
	Char      rune
	Modifiers KeyModifiers

	// Target is the node currently handling the event; LocalX/LocalY are the
	// cursor position in its local space. Both are set during dispatch.
	Target *Node
	LocalX float64
	LocalY float64

	stopped bool
}

// IsMouse reports whether the event carries a cursor position.
func (e *Event) IsMouse() bool {
	switch e.Type {
	case EventMouseDown, EventMouseUp, EventMouseMove, EventMouseWheel,
		EventHoverEnter, EventHoverLeave, EventPress, EventClick:
		return true
	}
	return false
}

// StopPropagation prevents the event from reaching any further node.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// --- ECS bridge ---

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, synthesized interaction events on nodes with a
// non-zero EntityID are forwarded to it.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(*Event)
}

type handlerRegistry struct {
	byType [eventTypeCount][]eventHandler
	nextID uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires. A dispatch already
// in progress keeps iterating its own copy of the handler list.
func (h CallbackHandle) Remove() {
	if h.reg == nil || h.event >= eventTypeCount {
		return
	}
	old := h.reg.byType[h.event]
	next := make([]eventHandler, 0, len(old))
	for _, eh := range old {
		if eh.id != h.id {
			next = append(next, eh)
		}
	}
	h.reg.byType[h.event] = next
}

func (r *handlerRegistry) add(t EventType, fn func(*Event)) CallbackHandle {
	r.nextID++
	r.byType[t] = append(r.byType[t], eventHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, event: t}
}

func (r *handlerRegistry) emit(e *Event) {
	for _, h := range r.byType[e.Type] {
		h.fn(e)
		if e.stopped {
			return
		}
	}
}

// On registers a scene-level handler for t. Scene handlers run before any
// node sees the event.
func (s *Scene) On(t EventType, fn func(*Event)) CallbackHandle {
	if t >= eventTypeCount || fn == nil {
		return CallbackHandle{}
	}
	return s.handlers.add(t, fn)
}

// --- Dispatch ---

// Dispatch delivers e to the scene. Scene handlers run first, then the tree
// is walked with visually topmost nodes first: children in reverse z-order,
// then the node itself. Hidden nodes are skipped with their subtree.
// Responsible nodes synthesize hover, press and click events from mouse input.
func (s *Scene) Dispatch(e *Event) {
	if s.disposed || e == nil {
		return
	}
	s.root.RefreshTransform()
	s.handlers.emit(e)
	if e.stopped {
		return
	}
	s.root.dispatch(s, e)
}

func (n *Node) dispatch(s *Scene, e *Event) {
	if !n.visible || e.stopped {
		return
	}
	if len(n.children) > 0 {
		children := snapshot(n.SortedChildren())
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			if c.parent != n {
				continue
			}
			c.dispatch(s, e)
			if e.stopped {
				return
			}
		}
	}
	if n.disposed {
		return
	}
	if n.Responsible && e.IsMouse() {
		n.handleMouse(s, e)
		if e.stopped {
			return
		}
	}
	if n.OnEvent != nil {
		e.Target = n
		if e.IsMouse() {
			e.LocalX, e.LocalY = n.WorldToLocal(e.X, e.Y)
		}
		n.OnEvent(e)
		e.Target = nil
	}
}

// handleMouse updates hover and pressed state and synthesizes the matching
// events. Hover is updated first so a press or click sees fresh state.
func (n *Node) handleMouse(s *Scene, e *Event) {
	inside := n.ContainsPoint(e.X, e.Y)
	if inside != n.hover {
		n.hover = inside
		if inside {
			s.fire(n, e, EventHoverEnter)
		} else {
			s.fire(n, e, EventHoverLeave)
		}
	}
	switch e.Type {
	case EventMouseDown:
		if n.hover && !n.pressed {
			n.pressed = true
			n.pressButton = e.Button
			s.fire(n, e, EventPress)
		}
	case EventMouseUp:
		if n.pressed && e.Button == n.pressButton {
			n.pressed = false
			if n.hover {
				s.fire(n, e, EventClick)
			}
		}
	}
}

// fire delivers a synthesized event to scene handlers, the node's OnEvent
// and the entity store. Stopping it also stops the raw event it came from.
func (s *Scene) fire(n *Node, raw *Event, t EventType) {
	lx, ly := n.WorldToLocal(raw.X, raw.Y)
	ev := Event{
		Type:      t,
		X:         raw.X,
		Y:         raw.Y,
		Button:    raw.Button,
		Modifiers: raw.Modifiers,
		Target:    n,
		LocalX:    lx,
		LocalY:    ly,
	}
	if s != nil {
		s.handlers.emit(&ev)
	}
	if !ev.stopped && n.OnEvent != nil {
		n.OnEvent(&ev)
	}
	if s != nil && s.store != nil && n.EntityID != 0 {
		s.store.EmitEvent(InteractionEvent{
			Type:      t,
			EntityID:  n.EntityID,
			GlobalX:   raw.X,
			GlobalY:   raw.Y,
			LocalX:    lx,
			LocalY:    ly,
			Button:    raw.Button,
			Modifiers: raw.Modifiers,
		})
	}
	if ev.stopped {
		raw.stopped = true
	}
}

// IsHovered reports whether the cursor was over the node at the last
// dispatched mouse event. Only meaningful for responsible nodes.
func (n *Node) IsHovered() bool { return n.hover }

// IsPressed reports whether a button went down over the node and has not
// been released yet.
func (n *Node) IsPressed() bool { return n.pressed }
