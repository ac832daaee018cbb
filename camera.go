package ornament

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default camera placement.
const (
	DefaultCameraDistance = 10.0
	DefaultFovY           = 45.0
	defaultNear           = 0.1
	defaultFar            = 100.0
)

// dollyAnim holds an active eye-distance tween.
type dollyAnim struct {
	tween *gween.Tween
}

// Camera is a perspective camera hosts use to place instances on screen.
type Camera struct {
	// Eye is the camera position; Target is the point it looks at.
	Eye, Target, Up Point3
	// FovY is the vertical field of view in degrees.
	FovY      float64
	Near, Far float64
	// Width and Height are the viewport size in pixels.
	Width, Height int

	dolly *dollyAnim
}

// NewCamera creates a camera on the +Z axis looking at the origin.
func NewCamera(width, height int) *Camera {
	return &Camera{
		Eye:    Point3{0, 0, DefaultCameraDistance},
		Up:     Point3{0, 1, 0},
		FovY:   DefaultFovY,
		Near:   defaultNear,
		Far:    defaultFar,
		Width:  width,
		Height: height,
	}
}

// SetViewport updates the viewport size.
func (c *Camera) SetViewport(width, height int) {
	c.Width, c.Height = width, height
}

// View returns the view matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	aspect := 1.0
	if c.Height > 0 {
		aspect = float64(c.Width) / float64(c.Height)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Project maps a scene point to screen pixels (origin top-left) and a depth
// in [0, 1]. ok is false for points behind the camera or outside the depth
// range.
func (c *Camera) Project(p Point3) (sx, sy, depth float64, ok bool) {
	view, proj := c.View(), c.Projection()
	clip := proj.Mul4(view).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	win := mgl64.Project(p, view, proj, 0, 0, c.Width, c.Height)
	depth = win[2]
	return win[0], float64(c.Height) - win[1], depth, depth >= 0 && depth <= 1
}

// PixelScale returns how many pixels one scene unit spans at the depth of p.
func (c *Camera) PixelScale(p Point3) float64 {
	d := c.Eye.Sub(p).Len()
	if d == 0 {
		return 0
	}
	fov := mgl64.DegToRad(c.FovY)
	viewH := 2 * d * math.Tan(fov/2)
	if viewH == 0 {
		return 0
	}
	return float64(c.Height) / viewH
}

// DollyTo animates the eye's distance from the target over duration seconds,
// keeping its direction.
func (c *Camera) DollyTo(distance float64, duration float32, easeFn ease.TweenFunc) {
	cur := c.Eye.Sub(c.Target).Len()
	c.dolly = &dollyAnim{tween: gween.New(float32(cur), float32(distance), duration, easeFn)}
}

// Update advances an active dolly by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.dolly == nil {
		return
	}
	v, done := c.dolly.tween.Update(dt)
	dir := c.Eye.Sub(c.Target)
	if dir.Len() == 0 {
		dir = Point3{0, 0, 1}
	}
	c.Eye = c.Target.Add(dir.Normalize().Mul(float64(v)))
	if done {
		c.dolly = nil
	}
}
