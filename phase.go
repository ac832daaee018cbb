package ornament

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// TransitionTiming configures one progress transition.
type TransitionTiming struct {
	Duration float32 `yaml:"duration"`
	Easing   string  `yaml:"easing"`
}

// PhaseConfig holds the bloom and collapse timings.
type PhaseConfig struct {
	Bloom    TransitionTiming `yaml:"bloom"`
	Collapse TransitionTiming `yaml:"collapse"`
}

// DefaultPhaseConfig returns a 3 s quintic ease-out bloom and a 3.5 s
// elastic collapse.
func DefaultPhaseConfig() PhaseConfig {
	return PhaseConfig{
		Bloom:    TransitionTiming{Duration: 3, Easing: "outQuint"},
		Collapse: TransitionTiming{Duration: 3.5, Easing: "inElastic"},
	}
}

// Companion animation timings.
const (
	topperShrinkDuration = 0.5
	topperGrowDuration   = 1.0
	topperGrowDelay      = 2.0
	photoGrowDuration    = 2.5
	photoGrowDelay       = 0.5
	photoShrinkDuration  = 1.0
	photoOvershoot       = 1.2
)

// PhaseMachine owns the current Phase and TransitionProgress. Triggers start
// a transient phase; only the completion of the transition it started can
// settle it into tree or nebula.
type PhaseMachine struct {
	bloomEase    ease.TweenFunc
	collapseEase ease.TweenFunc
	cfg          PhaseConfig

	phase    Phase
	progress float64
	raw      float64
	gen      uint64

	transition *Tween
	companions []*Tween
	topper     float64
	photos     float64

	onChange func(from, to Phase)
}

// NewPhaseMachine creates a machine settled in tree with progress 0, the
// topper fully grown and photo panels hidden.
func NewPhaseMachine(cfg PhaseConfig) (*PhaseMachine, error) {
	bloom, err := EasingByName(cfg.Bloom.Easing)
	if err != nil {
		return nil, fmt.Errorf("bloom: %w", err)
	}
	collapse, err := EasingByName(cfg.Collapse.Easing)
	if err != nil {
		return nil, fmt.Errorf("collapse: %w", err)
	}
	return &PhaseMachine{
		bloomEase:    bloom,
		collapseEase: collapse,
		cfg:          cfg,
		phase:        PhaseTree,
		topper:       1,
	}, nil
}

// SetOnChange registers fn to be called on every phase change.
func (m *PhaseMachine) SetOnChange(fn func(from, to Phase)) {
	m.onChange = fn
}

// Phase returns the current phase.
func (m *PhaseMachine) Phase() Phase { return m.phase }

// Progress returns the TransitionProgress in [0, 1].
func (m *PhaseMachine) Progress() float64 { return m.progress }

// Topper returns the topper scale (1 in tree, 0 in nebula).
func (m *PhaseMachine) Topper() float64 { return m.topper }

// PhotoScale returns the photo panel scale (0 in tree, 1 in nebula).
func (m *PhaseMachine) PhotoScale() float64 { return m.photos }

// Generation returns the token of the most recently started transition.
func (m *PhaseMachine) Generation() uint64 { return m.gen }

// HandleGesture applies a debounced gesture. Open palm blooms only from
// tree; closed fist collapses only from nebula. Reports whether a
// transition started.
func (m *PhaseMachine) HandleGesture(g Gesture) bool {
	switch {
	case g == GestureOpenPalm && m.phase == PhaseTree:
		m.start(PhaseBlooming)
		return true
	case g == GestureClosedFist && m.phase == PhaseNebula:
		m.start(PhaseCollapsing)
		return true
	}
	return false
}

// PhotoUploaded blooms when the machine is in tree.
func (m *PhaseMachine) PhotoUploaded() bool {
	if m.phase != PhaseTree {
		return false
	}
	m.start(PhaseBlooming)
	return true
}

// Toggle starts the transition opposite to the current direction:
// tree and collapsing bloom, nebula and blooming collapse.
func (m *PhaseMachine) Toggle() Phase {
	switch m.phase {
	case PhaseTree, PhaseCollapsing:
		m.start(PhaseBlooming)
	case PhaseNebula, PhaseBlooming:
		m.start(PhaseCollapsing)
	}
	return m.phase
}

// Update advances the active transition and companion animations by dt
// seconds. A transition that finishes here settles the phase.
func (m *PhaseMachine) Update(dt float32) {
	if tr := m.transition; tr != nil {
		tr.Update(dt)
		if !tr.Done {
			m.track()
		}
	}

	live := m.companions[:0]
	for _, c := range m.companions {
		c.Update(dt)
		if !c.Done {
			live = append(live, c)
		}
	}
	m.companions = live
}

// track publishes the tween value, clamped to [0, 1] and never moving
// against the direction of the active transition.
func (m *PhaseMachine) track() {
	v := clamp01(m.raw)
	switch m.phase {
	case PhaseBlooming:
		if v > m.progress {
			m.progress = v
		}
	case PhaseCollapsing:
		if v < m.progress {
			m.progress = v
		}
	}
}

func (m *PhaseMachine) start(to Phase) {
	m.gen++
	gen := m.gen

	if m.transition != nil {
		m.transition.Stop()
	}
	for _, c := range m.companions {
		c.Stop()
	}
	m.companions = m.companions[:0]

	from := m.phase
	m.phase = to
	m.raw = m.progress

	var (
		target float64
		settle Phase
		timing TransitionTiming
		fn     ease.TweenFunc
	)
	if to == PhaseBlooming {
		target, settle, timing, fn = 1, PhaseNebula, m.cfg.Bloom, m.bloomEase
		m.companions = append(m.companions,
			NewTween(&m.topper, 0, topperShrinkDuration, 0, ease.OutQuad),
			NewTween(&m.photos, 1, photoGrowDuration, photoGrowDelay, BackOut(photoOvershoot)),
		)
	} else {
		target, settle, timing, fn = 0, PhaseTree, m.cfg.Collapse, m.collapseEase
		m.companions = append(m.companions,
			NewTween(&m.topper, 1, topperGrowDuration, topperGrowDelay, ease.OutQuad),
			NewTween(&m.photos, 0, photoShrinkDuration, 0, ease.OutQuad),
		)
	}

	m.transition = NewTween(&m.raw, target, timing.Duration, 0, fn)
	m.transition.OnComplete = func() {
		m.complete(gen, to, settle, target)
	}
	m.notify(from, to)
}

// complete settles a transient phase. It is a no-op unless gen is still the
// current generation and the machine is still in the phase it started.
func (m *PhaseMachine) complete(gen uint64, transient, settle Phase, target float64) {
	if gen != m.gen || m.phase != transient {
		return
	}
	m.progress = target
	m.raw = target
	m.transition = nil
	m.phase = settle
	m.notify(transient, settle)
}

func (m *PhaseMachine) notify(from, to Phase) {
	if m.onChange != nil && from != to {
		m.onChange(from, to)
	}
}
