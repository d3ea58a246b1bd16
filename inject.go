package bramble

// Inject queues a synthetic input event. One queued event is delivered per
// frame, before real input, exactly as if it had come from the window.
func (a *App) Inject(e Event) {
	a.injectQueue = append(a.injectQueue, e)
}

// InjectMove queues a cursor move to (x, y).
func (a *App) InjectMove(x, y float64) {
	a.Inject(Event{Type: EventMouseMove, X: x, Y: y})
}

// InjectPress queues a left-button press at (x, y).
func (a *App) InjectPress(x, y float64) {
	a.Inject(Event{Type: EventMouseDown, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectRelease queues a left-button release at (x, y).
func (a *App) InjectRelease(x, y float64) {
	a.Inject(Event{Type: EventMouseUp, X: x, Y: y, Button: MouseButtonLeft})
}

// InjectClick queues a move, press and release at (x, y). Consumes three
// frames.
func (a *App) InjectClick(x, y float64) {
	a.InjectMove(x, y)
	a.InjectPress(x, y)
	a.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). Minimum frames is 2 (press + release).
func (a *App) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	a.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		a.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	a.InjectMove(toX, toY)
	a.InjectRelease(toX, toY)
}

// InjectKey queues a key press followed by its release.
func (a *App) InjectKey(e Event) {
	e.Type = EventKeyDown
	a.Inject(e)
	e.Type = EventKeyUp
	a.Inject(e)
}

// PendingInjections returns the number of queued synthetic events.
func (a *App) PendingInjections() int { return len(a.injectQueue) }

func (a *App) popInjected() (Event, bool) {
	if len(a.injectQueue) == 0 {
		return Event{}, false
	}
	e := a.injectQueue[0]
	copy(a.injectQueue, a.injectQueue[1:])
	a.injectQueue = a.injectQueue[:len(a.injectQueue)-1]
	return e, true
}
