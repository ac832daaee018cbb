package ornament

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Default group sizes.
const (
	RoundGemCount  = 5000
	AccentGemCount = 20
	OrnamentCount  = 50
	DrapeBeadCount = 400
	PhotoCount     = 24
)

// TopperHeight is the y coordinate of the topper above the tree.
const TopperHeight = 4.2

// SceneConfig is the full configuration of a Scene.
type SceneConfig struct {
	Seed             uint64       `yaml:"seed"`
	Groups           []GroupSpec  `yaml:"groups"`
	Phase            PhaseConfig  `yaml:"phase"`
	Nebula           NebulaConfig `yaml:"nebula"`
	GestureThreshold int          `yaml:"gestureThreshold"`
	HandStaleAfter   float64      `yaml:"handStaleAfter"`
	// PhotoGroup names the group whose particles carry photo panels.
	PhotoGroup    string   `yaml:"photoGroup"`
	DefaultPhotos []string `yaml:"defaultPhotos,omitempty"`
}

// DefaultSceneConfig returns the five stock groups and default timings.
func DefaultSceneConfig() SceneConfig {
	photos := make([]string, PhotoCount)
	for i := range photos {
		photos[i] = fmt.Sprintf("https://picsum.photos/id/%d/400/500", i+20)
	}
	return SceneConfig{
		Seed: 1,
		Groups: []GroupSpec{
			{
				Name: "round-gems", Count: RoundGemCount, Kinematic: "gem",
				BaseScale: 0.04, ScaleVariance: 0.03,
				Tree:   ShapeConfig{Kind: ShapeCone, Radius: 3.5, Height: 8},
				Nebula: ShapeConfig{Kind: ShapeRing, Radius: 5, Thickness: 2},
				Color:  ColorSpec{Mode: ColorSpecSingle, Colors: []string{"#FFFFFF"}},
			},
			{
				Name: "accent-gems", Count: AccentGemCount, Kinematic: "gem", Rotate: true,
				BaseScale: 0.15, ScaleVariance: 0.05,
				Tree:   ShapeConfig{Kind: ShapeCone, Radius: 3.2, Height: 7.5},
				Nebula: ShapeConfig{Kind: ShapeRing, Radius: 6, Thickness: 1},
				Color:  ColorSpec{Mode: ColorSpecTwoTone, Colors: []string{"#87CEEB", "#FFB6C1"}},
			},
			{
				Name: "ornaments", Count: OrnamentCount, Kinematic: "ornament",
				BaseScale: 0.2,
				Tree:      ShapeConfig{Kind: ShapeSpiral, Radius: 3.8, Height: 8},
				Nebula:    ShapeConfig{Kind: ShapeEvenRing, Radius: 5.5},
				Color:     ColorSpec{Mode: ColorSpecPalette, Colors: []string{"#F5F5F5", "#87CEEB", "#FFD700", "#800020", "#778899", "#FFB6C1", "#F7E7CE"}},
			},
			{
				Name: "drape-beads", Count: DrapeBeadCount, Kinematic: "ornament",
				BaseScale: 0.08,
				Tree:      ShapeConfig{Kind: ShapeDrape, Radius: 3.6, Height: 8},
				Nebula:    ShapeConfig{Kind: ShapeRing, Radius: 4.5, Thickness: 0.5},
				Color:     ColorSpec{Mode: ColorSpecSingle, Colors: []string{"#FFFAF0"}},
			},
			{
				Name: "photos", Count: PhotoCount, Kinematic: "ornament", Ring: true,
				BaseScale: 1,
				Tree:      ShapeConfig{Kind: ShapeSpiral, Radius: 3.8, Height: 8},
				Nebula:    ShapeConfig{Kind: ShapeEvenRing, Radius: 10},
				Color:     ColorSpec{Mode: ColorSpecSingle, Colors: []string{"#FFFFFF"}},
			},
		},
		Phase:            DefaultPhaseConfig(),
		Nebula:           DefaultNebulaConfig(),
		GestureThreshold: DefaultGestureThreshold,
		HandStaleAfter:   DefaultHandStaleAfter,
		PhotoGroup:       "photos",
		DefaultPhotos:    photos,
	}
}

// Validate reports configuration errors that would make NewScene fail.
func (c SceneConfig) Validate() error {
	if len(c.Groups) == 0 {
		return errors.New("no groups configured")
	}
	seen := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("group %d: missing name", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("group %q: duplicate name", g.Name)
		}
		seen[g.Name] = true
		if g.Count < 0 {
			return fmt.Errorf("group %q: negative count %d", g.Name, g.Count)
		}
		if _, err := ParseKinematic(g.Kinematic); err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}
		if !g.Tree.Valid() {
			return fmt.Errorf("group %q: unknown tree shape %q", g.Name, g.Tree.Kind)
		}
		if !g.Nebula.Valid() {
			return fmt.Errorf("group %q: unknown nebula shape %q", g.Name, g.Nebula.Kind)
		}
	}
	if c.PhotoGroup != "" && !seen[c.PhotoGroup] {
		return fmt.Errorf("photo group %q is not configured", c.PhotoGroup)
	}
	if c.Phase.Bloom.Duration <= 0 || c.Phase.Collapse.Duration <= 0 {
		return errors.New("transition durations must be positive")
	}
	if _, err := EasingByName(c.Phase.Bloom.Easing); err != nil {
		return fmt.Errorf("bloom: %w", err)
	}
	if _, err := EasingByName(c.Phase.Collapse.Easing); err != nil {
		return fmt.Errorf("collapse: %w", err)
	}
	if c.HandStaleAfter < 0 {
		return errors.New("handStaleAfter must not be negative")
	}
	return nil
}

// TopperState is the decorative topper above the tree.
type TopperState struct {
	Position Point3
	Scale    float64
}

// Scene is the root controller. It owns the particle groups and their
// instance buffers, the phase machine, the nebula control loop and the input
// state, and advances all of them once per Update.
//
// A Scene is not safe for concurrent use; other goroutines talk to it
// through a Mailbox.
type Scene struct {
	cfg     SceneConfig
	groups  []*ParticleGroup
	buffers []*InstanceBuffer
	byName  map[string]int

	machine *PhaseMachine
	nebula  *NebulaControl

	input inputState
	snap  InputSnapshot

	elapsed float64
	tick    uint64

	injectQueue     []Event
	toggleRequested bool
	photoUploaded   bool

	userPhotos []string
	photos     []string
	photoSlots int

	mailbox         *Mailbox
	testRunner      *TestRunner
	screenshotQueue []string
	observer        Observer
	log             *slog.Logger
	debug           bool
}

// NewScene validates cfg, generates every group once and writes their colors
// to the instance buffers. A nil rng is seeded from cfg.Seed.
func NewScene(cfg SceneConfig, rng *rand.Rand) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scene config: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}

	machine, err := NewPhaseMachine(cfg.Phase)
	if err != nil {
		return nil, fmt.Errorf("scene config: %w", err)
	}

	s := &Scene{
		cfg:     cfg,
		byName:  make(map[string]int, len(cfg.Groups)),
		machine: machine,
		nebula:  NewNebulaControl(cfg.Nebula),
		input:   newInputState(cfg.HandStaleAfter, cfg.GestureThreshold),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	machine.SetOnChange(s.phaseChanged)

	for _, spec := range cfg.Groups {
		g, err := BuildGroup(rng, spec)
		if err != nil {
			return nil, fmt.Errorf("scene config: %w", err)
		}
		buf := NewInstanceBuffer(spec.Name, g.Count())
		g.writeColors(buf)
		s.byName[spec.Name] = len(s.groups)
		s.groups = append(s.groups, g)
		s.buffers = append(s.buffers, buf)
	}

	if cfg.PhotoGroup != "" {
		s.photoSlots = s.groups[s.byName[cfg.PhotoGroup]].Count()
	}
	s.refreshPhotos()
	s.snap = s.input.snapshot(0)
	return s, nil
}

// Update advances the scene by dt seconds.
//
// Order within a tick: test runner, mailbox drain, one injected event,
// input snapshot, gesture and manual triggers, phase tweens (completion
// fires here), elapsed time, frame pass, nebula control, status publish.
func (s *Scene) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	s.debugCheckDelta(dt)

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	if s.mailbox != nil {
		s.injectQueue = s.mailbox.drain(s.injectQueue)
	}
	s.processInjected()

	s.snap = s.input.snapshot(s.elapsed)
	s.applyTriggers()
	s.machine.Update(float32(dt))
	s.elapsed += dt

	frame := FrameInput{
		Elapsed:      s.elapsed,
		Delta:        dt,
		Progress:     s.machine.Progress(),
		Pointer:      s.snap.Pointer,
		PointerValid: s.snap.PointerValid,
		RingYaw:      s.nebula.Ring().Yaw,
		RingScale:    s.nebula.Ring().Scale,
		PhotoScale:   s.machine.PhotoScale(),
	}
	particles := 0
	for i, g := range s.groups {
		g.UpdateFrame(frame, s.buffers[i])
		s.buffers[i].Version++
		particles += g.Count()
	}

	s.nebula.Update(dt, s.machine.Phase(), s.snap.Hand)
	s.tick++

	stats := TickStats{
		Tick:      s.tick,
		Delta:     dt,
		Phase:     s.machine.Phase(),
		Progress:  s.machine.Progress(),
		Particles: particles,
		Events:    len(s.injectQueue),
	}
	if s.debug {
		stats.FrameTime = time.Since(t0)
	}
	if s.mailbox != nil {
		s.mailbox.publish(s.Status())
	}
	if s.observer != nil {
		s.observer.TickCompleted(stats)
	}
	s.debugLog(stats)
}

func (s *Scene) applyTriggers() {
	if s.toggleRequested {
		s.toggleRequested = false
		s.machine.Toggle()
	}
	if s.photoUploaded {
		s.photoUploaded = false
		s.machine.PhotoUploaded()
	}
	s.machine.HandleGesture(s.snap.Hand.Gesture)
}

func (s *Scene) phaseChanged(from, to Phase) {
	s.log.Info("phase changed",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.Uint64("tick", s.tick),
		slog.Float64("progress", s.machine.Progress()),
	)
	if s.observer != nil {
		s.observer.PhaseChanged(from, to)
	}
}

// addPhotos prepends urls to the user photo list and requests a bloom.
func (s *Scene) addPhotos(urls []string) {
	if len(urls) == 0 {
		return
	}
	s.userPhotos = append(append([]string(nil), urls...), s.userPhotos...)
	s.refreshPhotos()
	s.photoUploaded = true
	s.log.Info("photos added", slog.Int("count", len(urls)), slog.Int("total", len(s.userPhotos)))
}

func (s *Scene) refreshPhotos() {
	all := append(append([]string(nil), s.userPhotos...), s.cfg.DefaultPhotos...)
	if len(all) > s.photoSlots {
		all = all[:s.photoSlots]
	}
	s.photos = all
}

// SetUserPhotos replaces the user photo list without triggering a bloom.
// Used to restore photos saved by a previous session.
func (s *Scene) SetUserPhotos(urls []string) {
	s.userPhotos = append([]string(nil), urls...)
	s.refreshPhotos()
}

// UserPhotos returns the photos added by the user, newest first.
func (s *Scene) UserPhotos() []string {
	return append([]string(nil), s.userPhotos...)
}

// Photos returns the URLs shown on the photo panels, one per slot at most.
func (s *Scene) Photos() []string {
	return append([]string(nil), s.photos...)
}

// Phase returns the current phase.
func (s *Scene) Phase() Phase { return s.machine.Phase() }

// Gesture returns the gesture seen by the last tick.
func (s *Scene) Gesture() Gesture { return s.snap.Hand.Gesture }

// Input returns the input snapshot of the last tick.
func (s *Scene) Input() InputSnapshot { return s.snap }

// Progress returns the TransitionProgress.
func (s *Scene) Progress() float64 { return s.machine.Progress() }

// Ring returns the nebula ring state.
func (s *Scene) Ring() RingState { return s.nebula.Ring() }

// Core returns the core marker state.
func (s *Scene) Core() CoreMarker { return s.nebula.Core() }

// Topper returns the topper state.
func (s *Scene) Topper() TopperState {
	return TopperState{Position: Point3{0, TopperHeight, 0}, Scale: s.machine.Topper()}
}

// PhotoScale returns the photo panel group scale.
func (s *Scene) PhotoScale() float64 { return s.machine.PhotoScale() }

// Elapsed returns seconds since the scene started.
func (s *Scene) Elapsed() float64 { return s.elapsed }

// Tick returns the number of completed updates.
func (s *Scene) Tick() uint64 { return s.tick }

// Groups returns the particle groups in configuration order. The returned
// slice MUST NOT be mutated.
func (s *Scene) Groups() []*ParticleGroup { return s.groups }

// Buffers returns the instance buffers, parallel to Groups.
func (s *Scene) Buffers() []*InstanceBuffer { return s.buffers }

// Group returns the named group, or nil.
func (s *Scene) Group(name string) *ParticleGroup {
	i, ok := s.byName[name]
	if !ok {
		return nil
	}
	return s.groups[i]
}

// Buffer returns the instance buffer of the named group, or nil.
func (s *Scene) Buffer(name string) *InstanceBuffer {
	i, ok := s.byName[name]
	if !ok {
		return nil
	}
	return s.buffers[i]
}

// Status builds the snapshot published to a Mailbox.
func (s *Scene) Status() Status {
	return Status{
		Tick:       s.tick,
		Elapsed:    s.elapsed,
		Phase:      s.machine.Phase(),
		Gesture:    s.snap.Hand.Gesture,
		Progress:   s.machine.Progress(),
		Ring:       s.nebula.Ring(),
		Core:       s.nebula.Core(),
		Topper:     s.machine.Topper(),
		PhotoScale: s.machine.PhotoScale(),
		Photos:     s.Photos(),
	}
}

// SetLogger sets the structured logger. A nil logger discards output.
func (s *Scene) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.log = l
}

// SetObserver attaches an observer, replacing any previous one.
func (s *Scene) SetObserver(o Observer) {
	s.observer = o
}

// SetMailbox connects a mailbox. Its events are drained every tick and the
// scene publishes its status to it.
func (s *Scene) SetMailbox(m *Mailbox) {
	s.mailbox = m
	if m != nil {
		m.publish(s.Status())
	}
}

// SetDebugMode enables per-tick debug logging and timing.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Screenshot queues a labeled screenshot for the host to capture after its
// next draw.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// TakeScreenshots returns and clears the queued screenshot labels.
func (s *Scene) TakeScreenshots() []string {
	if len(s.screenshotQueue) == 0 {
		return nil
	}
	out := s.screenshotQueue
	s.screenshotQueue = nil
	return out
}
