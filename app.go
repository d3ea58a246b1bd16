package bramble

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// App owns the current scene, the pending next scene, an optional running
// transition and the scene stack used for back navigation. It is driven
// either by Run (Ebitengine) or by RunLoop (any Window and Clock), and can be
// stepped by hand with Tick and Render.
//
// An App is not safe for concurrent use; create one per process and call it
// from the main goroutine only.
type App struct {
	cfg      Config
	interval time.Duration

	current        *Scene
	next           *Scene
	saveCurrent    bool
	nextTransition *Transition
	transition     *Transition
	transitionSave bool
	stack          []*Scene

	timers []*Timer

	input       InputSource
	injectQueue []Event
	eventBuf    []Event
	window      Window

	running      bool
	paused       bool
	quit         bool
	deviceLost   bool
	closed       bool
	ebitenDriven bool

	watcher         *ConfigWatcher
	screenshotQueue []string
	testRunner      *TestRunner
	stats           frameStats

	// OnConfigChange runs on the main goroutine after a hot-reloaded config
	// has been applied.
	OnConfigChange func(cfg Config)
}

// NewApp creates an App from cfg. The frame rate is clamped to [30, 120].
func NewApp(cfg Config) *App {
	cfg = cfg.normalized()
	a := &App{cfg: cfg}
	a.interval = frameInterval(cfg.FPS)
	a.SetDebugMode(cfg.Debug)
	return a
}

func frameInterval(fps int) time.Duration {
	return time.Second / time.Duration(clampFPS(fps))
}

// Config returns the App's current configuration.
func (a *App) Config() Config { return a.cfg }

// --- Scene switching ---

// EnterScene schedules s to replace the current scene at the start of the
// next tick. With save set the outgoing scene is pushed onto the scene stack
// for BackScene; otherwise it is disposed.
func (a *App) EnterScene(s *Scene, save bool) error {
	return a.EnterSceneWithTransition(s, save, nil)
}

// SwitchScene is EnterScene using Config.SaveScenes as the save flag.
func (a *App) SwitchScene(s *Scene) error {
	return a.EnterScene(s, a.cfg.SaveScenes)
}

// EnterSceneWithTransition schedules s like EnterScene and plays t between
// the two scenes. A nil t switches immediately.
//
// A transition that is still running is finished first: its swap completes
// and it is discarded, so at most one transition is ever active. A pending
// scene that was never entered is disposed and replaced.
func (a *App) EnterSceneWithTransition(s *Scene, save bool, t *Transition) error {
	if s == nil {
		return fmt.Errorf("bramble: enter scene: %w", ErrNilScene)
	}
	if s.disposed {
		return fmt.Errorf("bramble: enter scene %q: %w", s.Name, ErrSceneDisposed)
	}
	if s == a.current || s.active || (a.transition != nil && s == a.transition.in) {
		return fmt.Errorf("bramble: enter scene %q: %w", s.Name, ErrSceneActive)
	}
	if a.transition != nil {
		a.finishTransition()
	}
	if a.next != nil && a.next != s {
		logWarnf("scene %q replaces pending scene %q", s.Name, a.next.Name)
		a.next.Dispose()
	}
	a.removeFromStack(s)
	a.next = s
	a.saveCurrent = save
	a.nextTransition = t
	return nil
}

// BackScene schedules the top of the scene stack as the next scene. The
// current scene is not saved. It returns false, and logs a warning, when the
// stack is empty.
func (a *App) BackScene() bool {
	return a.BackSceneWithTransition(nil)
}

// BackSceneWithTransition is BackScene played through t.
func (a *App) BackSceneWithTransition(t *Transition) bool {
	if a.transition != nil {
		a.finishTransition()
	}
	if len(a.stack) == 0 {
		logWarnf("BackScene: scene stack is empty")
		return false
	}
	s := a.stack[len(a.stack)-1]
	a.stack[len(a.stack)-1] = nil
	a.stack = a.stack[:len(a.stack)-1]
	if err := a.EnterSceneWithTransition(s, false, t); err != nil {
		logWarnf("BackScene: %v", err)
		return false
	}
	return true
}

// ClearSceneStack disposes every saved scene.
func (a *App) ClearSceneStack() {
	for i := len(a.stack) - 1; i >= 0; i-- {
		a.stack[i].Dispose()
		a.stack[i] = nil
	}
	a.stack = a.stack[:0]
}

// StackLen returns the number of saved scenes.
func (a *App) StackLen() int { return len(a.stack) }

// CurrentScene returns the scene being shown, or nil.
func (a *App) CurrentScene() *Scene { return a.current }

// NextScene returns the scene scheduled to be entered, or nil.
func (a *App) NextScene() *Scene {
	if a.next != nil {
		return a.next
	}
	if a.transition != nil {
		return a.transition.in
	}
	return nil
}

// Transition returns the running transition, or nil.
func (a *App) Transition() *Transition { return a.transition }

func (a *App) removeFromStack(s *Scene) {
	for i, x := range a.stack {
		if x == s {
			a.stack = append(a.stack[:i], a.stack[i+1:]...)
			return
		}
	}
}

// beginSwitch starts the pending scene change, either immediately or
// through its transition.
func (a *App) beginSwitch() {
	next, save, t := a.next, a.saveCurrent, a.nextTransition
	a.next, a.nextTransition = nil, nil
	if t == nil {
		a.swapScenes(next, save)
		return
	}
	t.Init(a.current, next, a)
	a.transition = t
	a.transitionSave = save
	logDebugf("transition to %q started", next.Name)
}

func (a *App) finishTransition() {
	t := a.transition
	a.transition = nil
	t.Stop()
	a.swapScenes(t.in, a.transitionSave)
}

// swapScenes exits the current scene, saves or disposes it, and enters next.
func (a *App) swapScenes(next *Scene, save bool) {
	if out := a.current; out != nil && out != next {
		out.exit()
		if save {
			a.stack = append(a.stack, out)
		} else {
			out.Dispose()
		}
	}
	a.current = next
	if next != nil {
		next.enter(a)
	}
}

// --- Frame ---

// Tick advances the App by one frame of dt seconds. A pending scene change
// starts first. While a transition runs only the transition is updated;
// otherwise timers tick, then the current scene's actions, hooks and nodes.
func (a *App) Tick(dt float64) {
	a.applyConfigUpdates()
	if a.paused || a.closed {
		return
	}
	var start time.Time
	if globalDebug {
		start = time.Now()
	}
	defer func() {
		if globalDebug {
			a.stats.updateTime = time.Since(start)
		}
	}()

	if a.transition == nil && a.next != nil {
		a.beginSwitch()
	}
	if t := a.transition; t != nil {
		// Scene callbacks run inside Update and may switch scenes, which
		// finishes t early.
		t.Update(dt)
		if a.transition == t && t.IsDone() {
			a.finishTransition()
		}
		return
	}
	a.updateTimers(dt)
	if a.current != nil {
		a.current.Update(dt)
	}
}

// Render draws one frame: clear, then the transition or the current scene.
// A lost device is recreated at the start of the next frame and is not
// reported; any other renderer failure is returned.
func (a *App) Render(r Renderer) error {
	if a.deviceLost {
		if dr, ok := r.(DeviceResetter); ok {
			if err := dr.ResetDevice(); err != nil {
				return fmt.Errorf("bramble: reset device: %w", err)
			}
		}
		a.deviceLost = false
		logDebugf("render device recreated")
	}

	var start time.Time
	if globalDebug {
		start = time.Now()
	}

	r.BeginFrame()
	bg := a.cfg.Background
	if a.transition == nil && a.current != nil && a.current.ClearColor != (Color{}) {
		bg = a.current.ClearColor
	}
	r.Clear(bg)
	drawn := 0
	if a.transition != nil {
		a.transition.Render(r)
	} else if a.current != nil {
		drawn = a.current.Render(r)
	}
	err := r.EndFrame()

	if globalDebug {
		a.stats.renderTime = time.Since(start)
		a.stats.nodesDrawn = drawn
		if ir, ok := r.(*ImageRenderer); ok {
			a.stats.drawCalls = ir.DrawCalls()
		}
		a.stats.log()
	}

	if errors.Is(err, ErrDeviceLost) {
		a.deviceLost = true
		logWarnf("render device lost, recreating on next frame")
		return nil
	}
	if err != nil {
		return fmt.Errorf("bramble: render: %w", err)
	}
	return nil
}

// --- Input ---

// SetInput sets the source polled each frame by Run. RunLoop reads events
// from its Window instead.
func (a *App) SetInput(in InputSource) { a.input = in }

func (a *App) inputSuppressed() bool {
	return a.next != nil || a.transition != nil
}

// Dispatch delivers e to the current scene. Input is dropped, and false
// returned, while a scene change is pending or a transition is running.
func (a *App) Dispatch(e *Event) bool {
	if a.closed || a.current == nil || a.inputSuppressed() {
		return false
	}
	a.current.Dispatch(e)
	return true
}

func (a *App) deliverInput(events []Event) {
	for i := range events {
		a.Dispatch(&events[i])
	}
}

// pollInput appends this frame's events: one queued injected event when
// there is one, real input otherwise.
func (a *App) pollInput(buf []Event) []Event {
	if e, ok := a.popInjected(); ok {
		return append(buf, e)
	}
	if a.input != nil {
		return a.input.Poll(buf)
	}
	return buf
}

// --- Control ---

// Quit asks the running loop to stop after the current frame.
func (a *App) Quit() { a.quit = true }

// Pause stops ticking timers, transitions and scenes. Rendering and input
// continue.
func (a *App) Pause() { a.paused = true }

// Resume undoes Pause.
func (a *App) Resume() { a.paused = false }

// IsPaused reports whether the App is paused.
func (a *App) IsPaused() bool { return a.paused }

// IsRunning reports whether Run or RunLoop is executing.
func (a *App) IsRunning() bool { return a.running }

// FrameInterval returns the target time between ticks.
func (a *App) FrameInterval() time.Duration { return a.interval }

// SetFrameRate changes the target tick rate, clamped to [30, 120] fps.
func (a *App) SetFrameRate(fps int) {
	fps = clampFPS(fps)
	a.cfg.FPS = fps
	a.interval = frameInterval(fps)
	if a.ebitenDriven {
		ebiten.SetTPS(fps)
	}
}

// SetDebugMode enables debug stats and tree sanity checks.
func (a *App) SetDebugMode(enabled bool) {
	a.cfg.Debug = enabled
	globalDebug = enabled
}

// Close tears the App down: the transition's incoming scene, the pending
// scene, the current scene and every saved scene are each exited and
// disposed exactly once. Closing twice is a no-op.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.quit = true
	if t := a.transition; t != nil {
		a.transition = nil
		t.Stop()
		if t.in != nil && t.in != a.current {
			t.in.Dispose()
		}
	}
	if a.next != nil {
		a.next.Dispose()
		a.next = nil
	}
	if a.current != nil {
		a.current.Dispose()
		a.current = nil
	}
	a.ClearSceneStack()
	a.ClearTimers()
	a.timers = nil
	a.injectQueue = nil
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
}

// IsClosed reports whether Close has been called.
func (a *App) IsClosed() bool { return a.closed }

// --- Config hot reload ---

// SetConfigWatcher makes the App apply configs from w at the start of each
// tick. The App closes w on Close.
func (a *App) SetConfigWatcher(w *ConfigWatcher) {
	if a.watcher != nil && a.watcher != w {
		_ = a.watcher.Close()
	}
	a.watcher = w
}

// applyConfigUpdates drains the watcher without blocking.
func (a *App) applyConfigUpdates() {
	for a.watcher != nil {
		select {
		case cfg, ok := <-a.watcher.Configs:
			if !ok {
				a.watcher = nil
				return
			}
			a.ApplyConfig(cfg)
		case err, ok := <-a.watcher.Errors:
			if !ok {
				a.watcher = nil
				return
			}
			logWarnf("config reload: %v", err)
		default:
			return
		}
	}
}

// ApplyConfig replaces the App's settings at runtime: frame rate, title,
// window size, background, save flag and debug mode.
func (a *App) ApplyConfig(cfg Config) {
	cfg = cfg.normalized()
	old := a.cfg
	a.cfg = cfg
	a.SetFrameRate(cfg.FPS)
	a.SetDebugMode(cfg.Debug)
	if a.window != nil && cfg.Title != old.Title {
		a.window.SetTitle(cfg.Title)
	}
	if a.ebitenDriven {
		if cfg.Title != old.Title {
			ebiten.SetWindowTitle(cfg.Title)
		}
		if cfg.Width != old.Width || cfg.Height != old.Height {
			ebiten.SetWindowSize(cfg.Width, cfg.Height)
		}
		if cfg.Fullscreen != old.Fullscreen {
			ebiten.SetFullscreen(cfg.Fullscreen)
		}
	}
	logDebugf("config applied: %dx%d @ %d fps", cfg.Width, cfg.Height, cfg.FPS)
	if a.OnConfigChange != nil {
		a.OnConfigChange(a.cfg)
	}
}
