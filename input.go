package ornament

// DefaultHandStaleAfter is how long, in seconds, hand coordinates stay
// trusted without a fresh sample.
const DefaultHandStaleAfter = 0.5

// InputSnapshot is the immutable per-tick view of every external input.
// All groups read the same snapshot within a tick.
type InputSnapshot struct {
	Pointer      Vec2
	PointerValid bool
	// Hand carries the debounced gesture, forced to GestureNone when the
	// hand has gone stale.
	Hand  HandInput
	Stale bool
}

// inputState accumulates writes from injection, the mailbox and host
// adapters between ticks.
type inputState struct {
	pointer      Vec2
	pointerValid bool

	gesture      Gesture
	handX, handY float64
	handAt       float64
	handSeen     bool
	staleAfter   float64

	debouncer *GestureDebouncer
}

func newInputState(staleAfter float64, threshold int) inputState {
	return inputState{
		handX:      0.5,
		handY:      0.5,
		staleAfter: staleAfter,
		debouncer:  NewGestureDebouncer(threshold),
	}
}

func (in *inputState) setPointer(p Vec2) {
	in.pointer = Vec2{X: clampUnit(p.X), Y: clampUnit(p.Y)}
	in.pointerValid = true
}

func (in *inputState) clearPointer() {
	in.pointerValid = false
}

// setGesture stores an already-debounced gesture.
func (in *inputState) setGesture(g Gesture, now float64) {
	in.gesture = g
	in.handAt = now
	in.handSeen = true
}

func (in *inputState) setHand(x, y, now float64) {
	in.handX, in.handY = clamp01(x), clamp01(y)
	in.handAt = now
	in.handSeen = true
}

// pushRaw routes a recognizer sample through the debouncer.
func (in *inputState) pushRaw(s RawGesture, now float64) {
	g, _ := in.debouncer.Push(s)
	in.gesture = g
	if s.HandPresent {
		in.handX, in.handY, _ = in.debouncer.Hand()
	}
	in.handAt = now
	in.handSeen = true
}

func (in *inputState) snapshot(now float64) InputSnapshot {
	snap := InputSnapshot{
		Pointer:      in.pointer,
		PointerValid: in.pointerValid,
		Hand:         HandInput{Gesture: in.gesture, X: in.handX, Y: in.handY},
	}
	if in.staleAfter > 0 && in.handSeen && in.gesture != GestureNone && now-in.handAt > in.staleAfter {
		snap.Hand.Gesture = GestureNone
		snap.Stale = true
	}
	return snap
}

// PointerFromScreen converts a pixel position inside a w×h viewport into
// NDC, with +Y pointing up.
func PointerFromScreen(x, y, w, h float64) Vec2 {
	if w <= 0 || h <= 0 {
		return Vec2{}
	}
	return Vec2{
		X: clampUnit(x/w*2 - 1),
		Y: clampUnit(-(y/h*2 - 1)),
	}
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
