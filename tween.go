package ornament

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween animates one float64 field toward a target over a fixed duration,
// optionally after a delay. The start value is read from the field when the
// delay elapses, so a tween scheduled behind another picks up where that one
// left off. Callers advance it with Update(dt) each tick.
//
// OnComplete, if set, runs exactly once, from the Update call that finishes
// the tween. Stop ends the tween without running it.
type Tween struct {
	field    *float64
	to       float32
	duration float32
	delay    float32
	fn       ease.TweenFunc
	tween    *gween.Tween

	OnComplete func()
	Done       bool
}

// NewTween creates a tween driving *field to `to` over duration seconds after
// delay seconds, using fn for easing.
func NewTween(field *float64, to float64, duration, delay float32, fn ease.TweenFunc) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{field: field, to: float32(to), duration: duration, delay: delay, fn: fn}
}

// Update advances the tween by dt seconds and writes the eased value.
func (t *Tween) Update(dt float32) {
	if t.Done {
		return
	}
	if t.tween == nil {
		if t.delay > dt {
			t.delay -= dt
			return
		}
		dt -= t.delay
		t.delay = 0
		t.tween = gween.New(float32(*t.field), t.to, t.duration, t.fn)
	}

	val, finished := t.tween.Update(dt)
	if finished {
		// gween returns end exactly; keep the float64 target free of
		// float32 round trip error.
		*t.field = float64(t.to)
		t.Done = true
		if t.OnComplete != nil {
			fn := t.OnComplete
			t.OnComplete = nil
			fn()
		}
		return
	}
	*t.field = float64(val)
}

// Stop marks the tween done without writing or running OnComplete.
func (t *Tween) Stop() {
	t.Done = true
	t.OnComplete = nil
}

// Started reports whether the delay has elapsed.
func (t *Tween) Started() bool {
	return t.tween != nil
}

// BackOut returns a back-out easing with overshoot s. BackOut(1.70158)
// matches ease.OutBack.
func BackOut(s float32) ease.TweenFunc {
	return func(t, b, c, d float32) float32 {
		t = t/d - 1
		return c*(t*t*((s+1)*t+s)+1) + b
	}
}

var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"outQuad":    ease.OutQuad,
	"outCubic":   ease.OutCubic,
	"outQuart":   ease.OutQuart,
	"outQuint":   ease.OutQuint,
	"inQuint":    ease.InQuint,
	"inOutQuad":  ease.InOutQuad,
	"inOutSine":  ease.InOutSine,
	"outExpo":    ease.OutExpo,
	"inElastic":  ease.InElastic,
	"outElastic": ease.OutElastic,
	"outBack":    ease.OutBack,
	"outBounce":  ease.OutBounce,
}

// EasingByName looks up an easing function by its configuration name
// (e.g. "outQuint", "inElastic").
func EasingByName(name string) (ease.TweenFunc, error) {
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}
