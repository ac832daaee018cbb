package ornament

import "math"

// referenceRate is the tick rate the smoothing factors are tuned for.
const referenceRate = 60.0

// NebulaConfig tunes the nebula control loop. Smoothing factors are the
// per-frame lerp weights at referenceRate.
type NebulaConfig struct {
	Sensitivity       float64 `yaml:"sensitivity"`
	NeutralScale      float64 `yaml:"neutralScale"`
	MinScale          float64 `yaml:"minScale"`
	ScaleRange        float64 `yaml:"scaleRange"`
	VelocitySmoothing float64 `yaml:"velocitySmoothing"`
	ScaleSmoothing    float64 `yaml:"scaleSmoothing"`
}

// DefaultNebulaConfig returns the stock tuning.
func DefaultNebulaConfig() NebulaConfig {
	return NebulaConfig{
		Sensitivity:       0.005,
		NeutralScale:      0.5,
		MinScale:          0.15,
		ScaleRange:        0.95,
		VelocitySmoothing: 0.02,
		ScaleSmoothing:    0.04,
	}
}

// Core marker tuning.
const (
	coreSpanX           = 6.0
	coreSpanY           = 4.0
	coreBaseOpacity     = 0.2
	coreOpacityGain     = 0.4
	coreScaleRatio      = 0.4
	coreOffsetSmoothing = 0.05
	coreFadeSmoothing   = 0.1
)

// HandInput is the gesture collaborator's per-tick output.
type HandInput struct {
	Gesture Gesture
	X, Y    float64
}

// RingState is the nebula ring's rotation and scale.
type RingState struct {
	Yaw            float64
	Velocity       float64
	Scale          float64
	TargetVelocity float64
	TargetScale    float64
}

// CoreMarker is the decorative marker at the ring's center.
type CoreMarker struct {
	Offset  Vec2
	Opacity float64
	Scale   float64
	Visible bool
}

// NebulaControl maps hand input to ring rotation and scale while the scene
// is in nebula. Outside nebula it holds its state untouched.
type NebulaControl struct {
	cfg  NebulaConfig
	ring RingState
	core CoreMarker
}

// NewNebulaControl creates a control loop with the ring at rest at unit
// scale.
func NewNebulaControl(cfg NebulaConfig) *NebulaControl {
	return &NebulaControl{
		cfg:  cfg,
		ring: RingState{Scale: 1, TargetScale: cfg.NeutralScale},
		core: CoreMarker{Scale: 1},
	}
}

// Ring returns the current ring state.
func (c *NebulaControl) Ring() RingState { return c.ring }

// Core returns the current core marker state.
func (c *NebulaControl) Core() CoreMarker { return c.core }

// Targets returns the velocity and scale the ring would steer toward for in.
// Without a gesture both fall back to neutral regardless of hand position.
func (c *NebulaControl) Targets(in HandInput) (velocity, scale float64) {
	if in.Gesture == GestureNone {
		return 0, c.cfg.NeutralScale
	}
	steer := (in.X - 0.5) * 2
	return steer * c.cfg.Sensitivity, c.cfg.MinScale + in.Y*c.cfg.ScaleRange
}

// Update advances the loop by dt seconds.
func (c *NebulaControl) Update(dt float64, phase Phase, in HandInput) {
	c.core.Visible = phase == PhaseNebula
	if phase != PhaseNebula {
		return
	}

	tv, ts := c.Targets(in)
	c.ring.TargetVelocity = tv
	c.ring.TargetScale = ts

	c.ring.Velocity = lerp(c.ring.Velocity, tv, smoothFactor(c.cfg.VelocitySmoothing, dt))
	c.ring.Yaw += c.ring.Velocity * dt * referenceRate
	c.ring.Scale = lerp(c.ring.Scale, ts, smoothFactor(c.cfg.ScaleSmoothing, dt))

	var off Vec2
	opacity := 0.0
	if in.Gesture != GestureNone {
		off = Vec2{X: (in.X - 0.5) * coreSpanX, Y: (in.Y - 0.5) * coreSpanY}
		opacity = coreBaseOpacity + math.Abs(in.X-0.5)*coreOpacityGain
	}
	a := smoothFactor(coreOffsetSmoothing, dt)
	c.core.Offset.X = lerp(c.core.Offset.X, off.X, a)
	c.core.Offset.Y = lerp(c.core.Offset.Y, off.Y, a)
	f := smoothFactor(coreFadeSmoothing, dt)
	c.core.Opacity = lerp(c.core.Opacity, opacity, f)
	c.core.Scale = lerp(c.core.Scale, ts*coreScaleRatio, f)
}

// smoothFactor converts a per-reference-frame lerp weight into the weight
// for a step of dt seconds. At dt = 1/60 it returns f unchanged.
func smoothFactor(f, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	return 1 - math.Pow(1-f, dt*referenceRate)
}
