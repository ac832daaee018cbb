package ornament

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is the per-instance pose written by the frame pass.
type Transform struct {
	Position Point3
	// Rotation holds Euler angles in radians, applied in X, Y, Z order.
	Rotation mgl64.Vec3
	Scale    float64
}

// Matrix composes the model matrix for the instance.
//
// Composition order:
//
//	Translate(Position) * Rx * Ry * Rz * Scale
func (t Transform) Matrix() mgl64.Mat4 {
	p := t.Position
	m := mgl64.Translate3D(p[0], p[1], p[2])
	if t.Rotation[0] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DX(t.Rotation[0]))
	}
	if t.Rotation[1] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DY(t.Rotation[1]))
	}
	if t.Rotation[2] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DZ(t.Rotation[2]))
	}
	return m.Mul4(mgl64.Scale3D(t.Scale, t.Scale, t.Scale))
}

// Apply transforms a model-space point into scene space.
func (t Transform) Apply(local mgl64.Vec3) Point3 {
	return t.Matrix().Mul4x1(local.Vec4(1)).Vec3()
}

// rotateY rotates p about the vertical axis by angle radians.
func rotateY(p Point3, angle float64) Point3 {
	if angle == 0 {
		return p
	}
	return mgl64.Rotate3DY(angle).Mul3x1(p)
}

// lerpPoint linearly interpolates each coordinate of a and b by t.
func lerpPoint(a, b Point3, t float64) Point3 {
	return Point3{lerp(a[0], b[0], t), lerp(a[1], b[1], t), lerp(a[2], b[2], t)}
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
