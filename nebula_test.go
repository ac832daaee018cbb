package ornament

import (
	"math"
	"testing"
)

func TestNebulaTargetsWithoutGesture(t *testing.T) {
	c := NewNebulaControl(DefaultNebulaConfig())
	// Stale hand coordinates must not leak into the targets.
	for _, in := range []HandInput{
		{Gesture: GestureNone, X: 0.5, Y: 0.5},
		{Gesture: GestureNone, X: 0.95, Y: 0.05},
		{Gesture: GestureNone, X: 0, Y: 1},
	} {
		v, s := c.Targets(in)
		if v != 0 || s != 0.5 {
			t.Errorf("Targets(%+v) = (%f, %f), want (0, 0.5)", in, v, s)
		}
	}
}

func TestNebulaTargetsWithGesture(t *testing.T) {
	cfg := DefaultNebulaConfig()
	c := NewNebulaControl(cfg)
	v, s := c.Targets(HandInput{Gesture: GestureOpenPalm, X: 0.75, Y: 0.8})
	if want := (0.75 - 0.5) * 2 * cfg.Sensitivity; math.Abs(v-want) > 1e-15 || v <= 0 {
		t.Errorf("velocity = %g, want %g", v, want)
	}
	if math.Abs(s-0.91) > 1e-12 {
		t.Errorf("scale = %f, want 0.91", s)
	}

	v, _ = c.Targets(HandInput{Gesture: GestureClosedFist, X: 0.25, Y: 0.5})
	if v >= 0 {
		t.Errorf("left steer velocity = %g, want negative", v)
	}
}

func TestNebulaInactiveOutsideNebula(t *testing.T) {
	c := NewNebulaControl(DefaultNebulaConfig())
	in := HandInput{Gesture: GestureOpenPalm, X: 1, Y: 1}
	for _, p := range []Phase{PhaseTree, PhaseBlooming, PhaseCollapsing} {
		c.Update(1.0/60, p, in)
		r := c.Ring()
		if r.Yaw != 0 || r.Velocity != 0 || r.Scale != 1 {
			t.Errorf("%s: ring changed: %+v", p, r)
		}
		if c.Core().Visible {
			t.Errorf("%s: core visible", p)
		}
	}
}

func TestNebulaSmoothingMatchesReferenceFrame(t *testing.T) {
	cfg := DefaultNebulaConfig()
	c := NewNebulaControl(cfg)
	in := HandInput{Gesture: GestureOpenPalm, X: 1, Y: 1}

	c.Update(1.0/60, PhaseNebula, in)
	r := c.Ring()
	tv, ts := c.Targets(in)
	if want := tv * cfg.VelocitySmoothing; math.Abs(r.Velocity-want) > 1e-12 {
		t.Errorf("velocity = %g, want %g", r.Velocity, want)
	}
	if want := 1 + (ts-1)*cfg.ScaleSmoothing; math.Abs(r.Scale-want) > 1e-12 {
		t.Errorf("scale = %f, want %f", r.Scale, want)
	}
	if math.Abs(r.Yaw-r.Velocity) > 1e-12 {
		t.Errorf("yaw = %g, want one frame of velocity %g", r.Yaw, r.Velocity)
	}
	if !c.Core().Visible {
		t.Error("core should be visible in nebula")
	}
}

func TestNebulaFrameRateIndependent(t *testing.T) {
	in := HandInput{Gesture: GestureOpenPalm, X: 0.9, Y: 0.2}
	a := NewNebulaControl(DefaultNebulaConfig())
	b := NewNebulaControl(DefaultNebulaConfig())
	for i := 0; i < 120; i++ {
		a.Update(1.0/120, PhaseNebula, in)
	}
	for i := 0; i < 60; i++ {
		b.Update(1.0/60, PhaseNebula, in)
	}
	if math.Abs(a.Ring().Scale-b.Ring().Scale) > 1e-9 {
		t.Errorf("scale 120Hz = %f, 60Hz = %f", a.Ring().Scale, b.Ring().Scale)
	}
	if math.Abs(a.Ring().Velocity-b.Ring().Velocity) > 1e-9 {
		t.Errorf("velocity 120Hz = %g, 60Hz = %g", a.Ring().Velocity, b.Ring().Velocity)
	}
}

func TestNebulaConvergesAndYawAccumulates(t *testing.T) {
	c := NewNebulaControl(DefaultNebulaConfig())
	in := HandInput{Gesture: GestureOpenPalm, X: 0.75, Y: 0.8}
	prevYaw := 0.0
	for i := 0; i < 60*20; i++ {
		c.Update(1.0/60, PhaseNebula, in)
		if c.Ring().Yaw < prevYaw {
			t.Fatalf("yaw decreased at tick %d", i)
		}
		prevYaw = c.Ring().Yaw
	}
	r := c.Ring()
	if math.Abs(r.Scale-0.91) > 1e-6 {
		t.Errorf("scale = %f, want ~0.91", r.Scale)
	}
	if math.Abs(r.Velocity-0.0025) > 1e-6 {
		t.Errorf("velocity = %g, want ~0.0025", r.Velocity)
	}

	// Losing the gesture relaxes toward neutral without resetting yaw.
	yaw := r.Yaw
	for i := 0; i < 60*20; i++ {
		c.Update(1.0/60, PhaseNebula, HandInput{})
	}
	r = c.Ring()
	if math.Abs(r.Scale-0.5) > 1e-6 || math.Abs(r.Velocity) > 1e-6 {
		t.Errorf("ring = %+v, want scale 0.5 velocity 0", r)
	}
	if r.Yaw < yaw {
		t.Errorf("yaw reset from %f to %f", yaw, r.Yaw)
	}
}

func TestNebulaCoreMarker(t *testing.T) {
	c := NewNebulaControl(DefaultNebulaConfig())
	in := HandInput{Gesture: GestureOpenPalm, X: 1, Y: 0}
	for i := 0; i < 60*10; i++ {
		c.Update(1.0/60, PhaseNebula, in)
	}
	core := c.Core()
	if math.Abs(core.Offset.X-3) > 1e-6 || math.Abs(core.Offset.Y+2) > 1e-6 {
		t.Errorf("offset = %+v, want (3, -2)", core.Offset)
	}
	if math.Abs(core.Opacity-0.4) > 1e-6 {
		t.Errorf("opacity = %f, want 0.4", core.Opacity)
	}
	if math.Abs(core.Scale-0.15*0.4) > 1e-6 {
		t.Errorf("scale = %f, want %f", core.Scale, 0.06)
	}

	for i := 0; i < 60*10; i++ {
		c.Update(1.0/60, PhaseNebula, HandInput{})
	}
	core = c.Core()
	if core.Opacity > 1e-6 || math.Abs(core.Offset.X) > 1e-6 {
		t.Errorf("core = %+v, want faded out at center", core)
	}
}

func TestSmoothFactor(t *testing.T) {
	if f := smoothFactor(0.04, 1.0/60); math.Abs(f-0.04) > 1e-12 {
		t.Errorf("smoothFactor at reference rate = %f, want 0.04", f)
	}
	if f := smoothFactor(0.04, 0); f != 0 {
		t.Errorf("smoothFactor(dt=0) = %f, want 0", f)
	}
}
