package bramble

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TransitionKind selects how a Transition composites its two scenes.
type TransitionKind uint8

const (
	TransitionNone       TransitionKind = iota // cut after the duration elapses
	TransitionFade                             // fade the old scene out, then the new one in
	TransitionEmerge                           // crossfade
	TransitionSlideLeft                        // new scene enters from the right edge
	TransitionSlideRight                       // new scene enters from the left edge
	TransitionSlideUp                          // new scene enters from the bottom edge
	TransitionSlideDown                        // new scene enters from the top edge
)

// TransitionState is the lifecycle state of a Transition.
type TransitionState uint8

const (
	TransitionInitialized TransitionState = iota
	TransitionRunning
	TransitionDone
)

// Transition is a timed cross-effect between an outgoing and an incoming
// scene. While it runs the App updates and renders both scenes through it;
// when it is done the App completes the scene swap and discards it.
type Transition struct {
	Kind     TransitionKind
	Duration float64 // seconds
	Easing   ease.TweenFunc

	state    TransitionState
	elapsed  float64
	progress float64
	tween    *gween.Tween
	out      *Scene
	in       *Scene
	app      *App
}

// NewTransition creates a transition of the given kind lasting duration
// seconds with linear easing.
func NewTransition(kind TransitionKind, duration float64) *Transition {
	return &Transition{Kind: kind, Duration: max(duration, 0), Easing: ease.Linear}
}

// Init binds the outgoing and incoming scenes and starts the transition.
// Either scene may be nil.
func (t *Transition) Init(out, in *Scene, app *App) {
	t.out = out
	t.in = in
	t.app = app
	t.elapsed = 0
	t.progress = 0
	easing := t.Easing
	if easing == nil {
		easing = ease.Linear
	}
	t.tween = gween.New(0, 1, float32(t.Duration), easing)
	t.state = TransitionRunning
}

// Update advances the transition by dt seconds and updates both scenes.
func (t *Transition) Update(dt float64) {
	if t.state != TransitionRunning {
		return
	}
	t.elapsed += dt
	if t.Duration <= 0 {
		t.finish()
	} else {
		v, finished := t.tween.Update(float32(dt))
		t.progress = clamp01(float64(v))
		if finished || t.elapsed >= t.Duration {
			t.finish()
		}
	}
	if t.out != nil {
		t.out.Update(dt)
	}
	if t.in != nil {
		t.in.Update(dt)
	}
}

func (t *Transition) finish() {
	t.progress = 1
	t.state = TransitionDone
}

// Stop ends the transition immediately.
func (t *Transition) Stop() {
	if t.state == TransitionDone {
		return
	}
	t.finish()
}

// IsDone reports whether the transition has finished.
func (t *Transition) IsDone() bool { return t.state == TransitionDone }

// State returns the current lifecycle state.
func (t *Transition) State() TransitionState { return t.state }

// Progress returns the eased progress in [0, 1].
func (t *Transition) Progress() float64 { return t.progress }

// Elapsed returns the seconds since Init.
func (t *Transition) Elapsed() float64 { return t.elapsed }

// Outgoing returns the scene being replaced.
func (t *Transition) Outgoing() *Scene { return t.out }

// Incoming returns the scene being entered.
func (t *Transition) Incoming() *Scene { return t.in }

func (t *Transition) size() (float64, float64) {
	if t.app == nil {
		return 0, 0
	}
	return float64(t.app.cfg.Width), float64(t.app.cfg.Height)
}

// Render draws both scenes composited for the current progress.
func (t *Transition) Render(r Renderer) {
	p := t.progress
	w, h := t.size()
	switch t.Kind {
	case TransitionFade:
		if p < 0.5 {
			renderLayered(r, t.out, Identity, 1-2*p)
		} else {
			renderLayered(r, t.in, Identity, 2*p-1)
		}
	case TransitionEmerge:
		renderLayered(r, t.out, Identity, 1-p)
		renderLayered(r, t.in, Identity, p)
	case TransitionSlideLeft:
		renderLayered(r, t.out, Translate(-w*p, 0), 1)
		renderLayered(r, t.in, Translate(w*(1-p), 0), 1)
	case TransitionSlideRight:
		renderLayered(r, t.out, Translate(w*p, 0), 1)
		renderLayered(r, t.in, Translate(-w*(1-p), 0), 1)
	case TransitionSlideUp:
		renderLayered(r, t.out, Translate(0, -h*p), 1)
		renderLayered(r, t.in, Translate(0, h*(1-p)), 1)
	case TransitionSlideDown:
		renderLayered(r, t.out, Translate(0, h*p), 1)
		renderLayered(r, t.in, Translate(0, -h*(1-p)), 1)
	default:
		if t.state == TransitionDone {
			renderLayered(r, t.in, Identity, 1)
		} else {
			renderLayered(r, t.out, Identity, 1)
		}
	}
}

func renderLayered(r Renderer, s *Scene, m Matrix, alpha float64) {
	if s == nil || s.disposed {
		return
	}
	r.PushLayer(m, alpha)
	s.Render(r)
	r.PopLayer()
}
