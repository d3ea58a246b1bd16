package bramble

// Scene is a swappable top-level container: one root node plus lifecycle
// hooks. An App keeps exactly one scene current at a time.
type Scene struct {
	Name string

	// ClearColor is used to clear the frame while this scene is current.
	// The zero value falls back to the App's background color.
	ClearColor Color

	// Hooks. OnEnter and OnExit fire exactly once per activation.
	OnEnter  func()
	OnExit   func()
	OnUpdate func(dt float64)
	OnRender func(r Renderer)

	root     *Node
	store    EntityStore
	handlers handlerRegistry
	active   bool
	disposed bool
	app      *App

	liveBuf []*Node
}

// NewScene creates a scene with an empty root node.
func NewScene(name string) *Scene {
	s := &Scene{Name: name}
	s.root = NewNode("root")
	s.root.setScene(s)
	return s
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// App returns the application the scene was last entered in, or nil.
func (s *Scene) App() *App {
	return s.app
}

// IsActive reports whether the scene has entered and not yet exited.
func (s *Scene) IsActive() bool {
	return s.active
}

// IsDisposed reports whether the scene has been disposed.
func (s *Scene) IsDisposed() bool {
	return s.disposed
}

// SetEntityStore sets the optional ECS bridge. Interaction events on nodes
// with a non-zero EntityID are forwarded to it.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// AddChild attaches n to the scene's root.
func (s *Scene) AddChild(n *Node) error {
	return s.root.AddChild(n)
}

// enter activates the scene: OnEnter runs first, then the node tree receives
// its enter notifications.
func (s *Scene) enter(app *App) {
	if s.active || s.disposed {
		return
	}
	s.active = true
	s.app = app
	logDebugf("scene %q enter", s.Name)
	if s.OnEnter != nil {
		s.OnEnter()
	}
	s.root.enter()
}

// exit deactivates the scene. The node tree exits before OnExit runs.
func (s *Scene) exit() {
	if !s.active {
		return
	}
	s.active = false
	logDebugf("scene %q exit", s.Name)
	s.root.exit()
	if s.OnExit != nil {
		s.OnExit()
	}
}

// Update advances the scene by dt seconds: actions on every displayed node
// tick first, then the scene's OnUpdate, then each displayed node's OnUpdate.
// The set of nodes is snapshotted up front, so callbacks may add or remove
// nodes; nodes that stop being displayed mid-frame are skipped.
func (s *Scene) Update(dt float64) {
	if s.disposed {
		return
	}
	s.liveBuf = collectLive(s.root, s.liveBuf[:0])
	for _, n := range s.liveBuf {
		if n.displayed && len(n.actions) > 0 {
			n.tickActions(dt)
		}
	}
	if s.OnUpdate != nil {
		s.OnUpdate(dt)
	}
	for _, n := range s.liveBuf {
		if n.displayed && n.OnUpdate != nil {
			n.OnUpdate(dt)
		}
	}
	clear(s.liveBuf)
}

// Render draws the scene's tree, then calls OnRender.
func (s *Scene) Render(r Renderer) int {
	if s.disposed {
		return 0
	}
	drawn := s.root.Render(r)
	if s.OnRender != nil {
		s.OnRender(r)
	}
	return drawn
}

// Dispose exits the scene if needed and disposes its node tree.
// Disposing twice is a no-op.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.exit()
	s.disposed = true
	logDebugf("scene %q disposed", s.Name)
	s.root.Dispose()
	s.handlers = handlerRegistry{}
	s.store = nil
	s.app = nil
}
