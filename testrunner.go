package ornament

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action  string   `json:"action"`
	Label   string   `json:"label,omitempty"`
	Gesture string   `json:"gesture,omitempty"`
	Hand    *bool    `json:"hand,omitempty"`
	X       float64  `json:"x,omitempty"`
	Y       float64  `json:"y,omitempty"`
	Frames  int      `json:"frames,omitempty"`
	URLs    []string `json:"urls,omitempty"`

	// expect fields
	Phase       string   `json:"phase,omitempty"`
	MinProgress *float64 `json:"minProgress,omitempty"`
	MaxProgress *float64 `json:"maxProgress,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var validActions = map[string]bool{
	"gesture": true, "raw": true, "hand": true, "pointer": true, "pointerLost": true,
	"toggle": true, "photos": true, "wait": true, "expect": true, "screenshot": true,
}

// TestRunner sequences injected input, expectations and screenshots across
// ticks for scripted runs. Attach to a Scene via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !validActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if st.Phase != "" {
			if _, err := ParsePhase(st.Phase); err != nil {
				return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called at the start of every Update.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Failures returns the messages of every expect step that did not hold.
func (r *TestRunner) Failures() []string {
	return append([]string(nil), r.failures...)
}

// step advances the test runner by one tick. Called from Scene.Update.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
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
		s.Screenshot(st.Label)
	case "gesture":
		s.InjectGesture(ParseGesture(st.Gesture))
	case "raw":
		hand := st.Hand == nil || *st.Hand
		frames := st.Frames
		if frames < 1 {
			frames = 1
		}
		raw := RawGesture{Gesture: ParseGesture(st.Gesture), HandPresent: hand, X: st.X, Y: st.Y}
		s.InjectRawGestures(raw, frames)
	case "hand":
		s.InjectHand(st.X, st.Y)
	case "pointer":
		s.InjectPointer(st.X, st.Y)
	case "pointerLost":
		s.InjectPointerLost()
	case "toggle":
		s.InjectToggle()
	case "photos":
		s.InjectPhotos(st.URLs...)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "expect":
		r.check(s, st)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

// check evaluates an expect step against the state left by the previous
// tick.
func (r *TestRunner) check(s *Scene, st testStep) {
	label := st.Label
	if label == "" {
		label = fmt.Sprintf("step %d", r.cursor-1)
	}
	if st.Phase != "" {
		if want, _ := ParsePhase(st.Phase); s.Phase() != want {
			r.failures = append(r.failures, fmt.Sprintf("%s: phase = %s, want %s", label, s.Phase(), want))
		}
	}
	if st.Gesture != "" {
		if want := ParseGesture(st.Gesture); s.Gesture() != want {
			r.failures = append(r.failures, fmt.Sprintf("%s: gesture = %s, want %s", label, s.Gesture(), want))
		}
	}
	p := s.Progress()
	if st.MinProgress != nil && p < *st.MinProgress {
		r.failures = append(r.failures, fmt.Sprintf("%s: progress = %.4f, want >= %.4f", label, p, *st.MinProgress))
	}
	if st.MaxProgress != nil && p > *st.MaxProgress {
		r.failures = append(r.failures, fmt.Sprintf("%s: progress = %.4f, want <= %.4f", label, p, *st.MaxProgress))
	}
}
