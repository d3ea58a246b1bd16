package bramble

import "fmt"

// Timer runs Fn every Interval seconds of App time. Timers tick before the
// current scene's actions each frame and stop while the App is paused.
type Timer struct {
	Name     string
	Interval float64 // seconds between runs; 0 runs every frame
	Repeat   int     // total runs; 0 or less repeats until removed
	Fn       func(t *Timer)

	// Node, when set, binds the timer to a node: it only runs while the node
	// is displayed and is removed once the node is disposed.
	Node *Node

	elapsed float64
	runs    int
	stopped bool
	removed bool
	app     *App
}

// NewTimer creates a repeating timer.
func NewTimer(name string, interval float64, fn func(t *Timer)) *Timer {
	return &Timer{Name: name, Interval: interval, Fn: fn}
}

// Bind ties the timer to n and returns the timer.
func (t *Timer) Bind(n *Node) *Timer {
	t.Node = n
	return t
}

// Runs returns how many times Fn has run.
func (t *Timer) Runs() int { return t.runs }

// Stop pauses the timer without resetting its progress.
func (t *Timer) Stop() { t.stopped = true }

// Start resumes a stopped timer.
func (t *Timer) Start() { t.stopped = false }

// IsRunning reports whether the timer is added and not stopped.
func (t *Timer) IsRunning() bool { return t.app != nil && !t.removed && !t.stopped }

// Remove detaches the timer from its App. It may be added again later.
func (t *Timer) Remove() { t.removed = true }

// AddTimer registers t with the App. Adding a timer that is already
// registered returns ErrTimerBound.
func (a *App) AddTimer(t *Timer) error {
	if t == nil {
		return fmt.Errorf("bramble: add timer: nil timer")
	}
	if t.app != nil && !t.removed {
		return fmt.Errorf("bramble: add timer %q: %w", t.Name, ErrTimerBound)
	}
	listed := t.app == a
	if t.app != nil && !listed {
		t.app.pruneTimer(t)
	}
	t.app = a
	t.removed = false
	t.stopped = false
	t.elapsed = 0
	t.runs = 0
	if !listed {
		a.timers = append(a.timers, t)
	}
	return nil
}

// Timer returns the first registered timer named name, or nil.
func (a *App) Timer(name string) *Timer {
	for _, t := range a.timers {
		if t.Name == name && !t.removed {
			return t
		}
	}
	return nil
}

// StartTimers resumes every timer named name.
func (a *App) StartTimers(name string) {
	for _, t := range a.timers {
		if t.Name == name {
			t.Start()
		}
	}
}

// StopTimers pauses every timer named name.
func (a *App) StopTimers(name string) {
	for _, t := range a.timers {
		if t.Name == name {
			t.Stop()
		}
	}
}

// RemoveTimers removes every timer named name. It returns false, and logs a
// warning, when there was none.
func (a *App) RemoveTimers(name string) bool {
	found := false
	for _, t := range a.timers {
		if t.Name == name && !t.removed {
			t.Remove()
			found = true
		}
	}
	if !found {
		logWarnf("RemoveTimers: no timer named %q", name)
	}
	return found
}

// ClearTimers removes all timers.
func (a *App) ClearTimers() {
	for _, t := range a.timers {
		t.Remove()
	}
}

// NumTimers returns the number of registered timers.
func (a *App) NumTimers() int {
	c := 0
	for _, t := range a.timers {
		if !t.removed {
			c++
		}
	}
	return c
}

// updateTimers advances every timer by dt. Callbacks may add or remove
// timers; new timers start ticking on the next frame.
func (a *App) updateTimers(dt float64) {
	list := a.timers
	for _, t := range list {
		if t.removed || t.stopped || t.app != a {
			continue
		}
		if t.Node != nil {
			if t.Node.disposed {
				t.removed = true
				continue
			}
			if !t.Node.displayed {
				continue
			}
		}
		t.elapsed += dt
		if t.elapsed < t.Interval {
			continue
		}
		if t.Interval > 0 {
			t.elapsed -= t.Interval
		} else {
			t.elapsed = 0
		}
		t.runs++
		if t.Fn != nil {
			t.Fn(t)
		}
		if t.Repeat > 0 && t.runs >= t.Repeat {
			t.removed = true
		}
	}

	kept := a.timers[:0]
	for _, t := range a.timers {
		if t.removed || t.app != a {
			if t.app == a {
				t.app = nil
			}
			continue
		}
		kept = append(kept, t)
	}
	clear(a.timers[len(kept):])
	a.timers = kept
}

func (a *App) pruneTimer(t *Timer) {
	for i, x := range a.timers {
		if x == t {
			a.timers = append(a.timers[:i], a.timers[i+1:]...)
			return
		}
	}
}
