// Package ornament is a tick-driven particle-transition engine for an
// interactive 3D ornament that morphs between a "tree" formation and a
// "nebula" ring.
//
// Ornament owns the geometry generators, the per-frame blend between the two
// endpoint sets, a four-state phase machine and the nebula control loop that
// turns hand input into ring rotation and scale. Rendering and gesture
// recognition stay outside: the engine writes per-particle transforms into
// an [InstanceSink] and reads a pointer, a debounced [Gesture] and hand
// coordinates in [0, 1].
//
// # Quick start
//
// Build a [Scene] from [DefaultSceneConfig] and call [Scene.Update] once per
// tick. Each group's [InstanceBuffer] then holds the pose of every particle:
//
//	scene, err := ornament.NewScene(ornament.DefaultSceneConfig(), nil)
//	if err != nil {
//		return err
//	}
//	scene.InjectGesture(ornament.GestureOpenPalm)
//	for range 240 {
//		scene.Update(1.0 / 60)
//	}
//	buf := scene.Buffer("round-gems")
//	pose := buf.Transform(0)
//
// # Phases
//
// The scene starts in [PhaseTree]. An open palm, a manual toggle or a photo
// upload starts [PhaseBlooming], which settles into [PhaseNebula] when its
// transition completes. A closed fist or toggle in nebula starts
// [PhaseCollapsing], which settles back into tree. Only the completion of
// the transition that started a transient phase can settle it.
//
// # Input
//
// Hosts feed input through the Inject methods (one discrete event consumed
// per tick, pointer and hand updates applied as they arrive),
// or from other goroutines through a [Mailbox]. Raw recognizer samples pass
// through a [GestureDebouncer]; a gesture becomes stable after more than
// five identical samples in a row.
//
// # Hosts
//
// The ornament command hosts a scene in an ebiten window (view), in a
// terminal (term) or headless for JSON test scripts (script). The window
// host can also serve a remote control API for an out-of-process gesture
// recognizer, which reaches the scene through a [Mailbox].
//
// Tweens use [gween]; vectors and matrices use [mathgl].
//
// [gween]: https://github.com/tanema/gween
// [mathgl]: https://github.com/go-gl/mathgl
package ornament
