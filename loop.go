package bramble

import (
	"fmt"
	"time"
)

// Clock abstracts time for RunLoop so the scheduler can be driven by a fake
// clock in tests.
type Clock interface {
	// Now returns the time elapsed since an arbitrary fixed origin.
	Now() time.Duration
	Sleep(d time.Duration)
}

type systemClock struct {
	origin time.Time
}

// SystemClock returns a Clock backed by the monotonic wall clock.
func SystemClock() Clock {
	return &systemClock{origin: time.Now()}
}

func (c *systemClock) Now() time.Duration    { return time.Since(c.origin) }
func (c *systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Window is the platform window consumed by RunLoop.
type Window interface {
	// Open creates and shows the window. A failure aborts RunLoop.
	Open(cfg Config) error
	Close() error
	// PollEvents appends all pending input events to buf. It returns false
	// once the user has asked to close the window.
	PollEvents(buf []Event) ([]Event, bool)
	Renderer() Renderer
	Size() (w, h int)
	SetTitle(title string)
}

const (
	// sleepMargin is subtracted from idle sleeps so the loop wakes slightly
	// early rather than late.
	sleepMargin = time.Millisecond

	// maxFrameLag bounds catch-up after a long stall. Past it the schedule
	// restarts from the current time instead of running a burst of ticks.
	maxFrameLag = 250 * time.Millisecond
)

// frameScheduler decides when the next fixed-interval tick is due. Each tick
// moves the reference time forward by exactly one interval, so frames that
// run late do not accumulate drift.
type frameScheduler struct {
	interval time.Duration
	last     time.Duration
}

func (s *frameScheduler) reset(now time.Duration) { s.last = now }

func (s *frameScheduler) due(now time.Duration) bool {
	return now-s.last >= s.interval
}

// advance records a tick taken at now.
func (s *frameScheduler) advance(now time.Duration) {
	if now-s.last > maxFrameLag {
		logDebugf("frame schedule fell %v behind, resyncing", now-s.last)
		s.last = now
		return
	}
	s.last += s.interval
}

// wait returns how long to sleep before the next tick is due. It is zero or
// negative when no sleep is needed.
func (s *frameScheduler) wait(now time.Duration) time.Duration {
	return s.interval - (now - s.last) - sleepMargin
}

// RunLoop runs the App on w until Quit is called or the window is closed.
// Each iteration delivers pending input, then ticks and renders once the
// frame interval has elapsed, sleeping otherwise. A nil clk uses
// SystemClock.
//
// It fails with ErrNoScene when no scene was ever entered, and with a
// wrapped error when the window cannot be opened. A render failure other
// than a lost device stops the loop and is returned.
func (a *App) RunLoop(w Window, clk Clock) error {
	if a.current == nil && a.next == nil {
		return fmt.Errorf("bramble: run: %w", ErrNoScene)
	}
	if w == nil {
		return fmt.Errorf("bramble: run: %w", ErrWindow)
	}
	if a.closed {
		return fmt.Errorf("bramble: run: app closed")
	}
	if clk == nil {
		clk = SystemClock()
	}
	if err := w.Open(a.cfg); err != nil {
		return fmt.Errorf("bramble: open window: %w", err)
	}
	a.window = w
	a.running = true
	a.quit = false
	defer func() {
		a.running = false
		a.window = nil
		if err := w.Close(); err != nil {
			logWarnf("close window: %v", err)
		}
	}()

	sched := frameScheduler{interval: a.interval}
	sched.reset(clk.Now())
	for !a.quit {
		var open bool
		a.eventBuf, open = w.PollEvents(a.eventBuf[:0])
		if !open {
			a.Quit()
			break
		}
		a.deliverInput(a.eventBuf)

		now := clk.Now()
		if !sched.due(now) {
			if d := sched.wait(now); d > 0 {
				clk.Sleep(d)
			}
			continue
		}
		sched.advance(now)
		a.stepTestRunner()
		if e, ok := a.popInjected(); ok {
			a.deliverInput([]Event{e})
		}
		a.Tick(a.interval.Seconds())
		sched.interval = a.interval

		if err := a.Render(w.Renderer()); err != nil {
			a.Quit()
			return err
		}
	}
	return nil
}
