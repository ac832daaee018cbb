package ornament

// DefaultGestureThreshold is the run length a raw gesture must exceed before
// it becomes the stable gesture.
const DefaultGestureThreshold = 5

// RawGesture is one unsmoothed sample from a gesture recognizer.
type RawGesture struct {
	Gesture     Gesture
	HandPresent bool
	// X and Y are normalized hand coordinates in [0, 1], meaningful only
	// when HandPresent is set.
	X, Y float64
}

// GestureDebouncer turns a noisy per-frame recognizer stream into the single
// stable gesture the scene consumes. A gesture becomes stable once it has
// been seen on more than threshold consecutive samples; losing the hand
// drops straight to GestureNone.
type GestureDebouncer struct {
	threshold int
	candidate Gesture
	run       int
	stable    Gesture
	x, y      float64
	hand      bool
}

// NewGestureDebouncer creates a debouncer. A threshold below 1 selects
// DefaultGestureThreshold.
func NewGestureDebouncer(threshold int) *GestureDebouncer {
	if threshold < 1 {
		threshold = DefaultGestureThreshold
	}
	return &GestureDebouncer{threshold: threshold, x: 0.5, y: 0.5}
}

// Push feeds one sample and returns the stable gesture, plus whether it
// changed on this sample.
func (d *GestureDebouncer) Push(s RawGesture) (Gesture, bool) {
	prev := d.stable
	if !s.HandPresent {
		d.hand = false
		d.candidate = GestureNone
		d.run = 0
		d.stable = GestureNone
		return d.stable, d.stable != prev
	}

	d.hand = true
	d.x, d.y = clamp01(s.X), clamp01(s.Y)

	if s.Gesture == d.candidate && d.run > 0 {
		d.run++
	} else {
		d.candidate = s.Gesture
		d.run = 1
	}
	if d.run > d.threshold {
		d.stable = d.candidate
	}
	return d.stable, d.stable != prev
}

// Stable returns the current stable gesture.
func (d *GestureDebouncer) Stable() Gesture { return d.stable }

// Hand returns the last hand coordinates and whether a hand was present on
// the latest sample. Coordinates persist after the hand is lost.
func (d *GestureDebouncer) Hand() (x, y float64, present bool) {
	return d.x, d.y, d.hand
}
