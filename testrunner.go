package bramble

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Key    string  `json:"key,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var validSteps = map[string]bool{
	"click": true, "move": true, "drag": true, "key": true,
	"wait": true, "screenshot": true, "back": true, "quit": true,
}

// TestRunner sequences injected input, screenshots and navigation across
// frames for automated testing. Attach it with App.SetTestRunner.
//
// Script format:
//
//	{"steps": [
//	  {"action": "click", "x": 100, "y": 80},
//	  {"action": "wait", "frames": 30},
//	  {"action": "key", "key": "Space"},
//	  {"action": "screenshot", "label": "after-jump"}
//	]}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("bramble: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("bramble: parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !validSteps[st.Action] {
			return nil, fmt.Errorf("bramble: parse test script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "key" {
			var k ebiten.Key
			if err := k.UnmarshalText([]byte(st.Key)); err != nil {
				return nil, fmt.Errorf("bramble: parse test script: step %d: %w", i, err)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner; it advances once per frame before input
// is polled.
func (a *App) SetTestRunner(r *TestRunner) {
	a.testRunner = r
}

// Done reports whether all steps have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

func (a *App) stepTestRunner() {
	if a.testRunner != nil {
		a.testRunner.step(a)
	}
}

// step advances the runner by one frame.
func (r *TestRunner) step(a *App) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(a.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		a.Screenshot(st.Label)
	case "click":
		a.InjectClick(st.X, st.Y)
	case "move":
		a.InjectMove(st.X, st.Y)
	case "drag":
		a.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "key":
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(st.Key)); err == nil {
			a.InjectKey(Event{Key: k})
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "back":
		a.BackScene()
	case "quit":
		a.Quit()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(a.injectQueue) == 0 {
		r.done = true
	}
}
