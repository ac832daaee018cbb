package ornament

import "fmt"

// InstanceSink receives per-instance writes for one particle group. Colors
// are written once at init; transforms every tick.
type InstanceSink interface {
	SetTransform(i int, t Transform)
	SetColor(i int, c Color)
}

// InstanceBuffer is a fixed-capacity InstanceSink backed by slices. Writing
// past the capacity declared at construction is a programming error and
// panics.
type InstanceBuffer struct {
	name       string
	transforms []Transform
	colors     []Color
	// Version increments on every completed frame write so renderers can
	// skip unchanged buffers.
	Version uint64
}

// NewInstanceBuffer creates a buffer with room for exactly count instances.
func NewInstanceBuffer(name string, count int) *InstanceBuffer {
	if count < 0 {
		count = 0
	}
	colors := make([]Color, count)
	for i := range colors {
		colors[i] = ColorWhite
	}
	return &InstanceBuffer{
		name:       name,
		transforms: make([]Transform, count),
		colors:     colors,
	}
}

// Name returns the group name the buffer was created for.
func (b *InstanceBuffer) Name() string {
	return b.name
}

// Len returns the instance capacity.
func (b *InstanceBuffer) Len() int {
	return len(b.transforms)
}

// SetTransform stores the pose for instance i.
func (b *InstanceBuffer) SetTransform(i int, t Transform) {
	b.check(i, "SetTransform")
	b.transforms[i] = t
}

// SetColor stores the color for instance i.
func (b *InstanceBuffer) SetColor(i int, c Color) {
	b.check(i, "SetColor")
	b.colors[i] = c
}

// Transform returns the last pose written for instance i.
func (b *InstanceBuffer) Transform(i int) Transform {
	return b.transforms[i]
}

// Color returns the color of instance i.
func (b *InstanceBuffer) Color(i int) Color {
	return b.colors[i]
}

// Transforms returns the backing pose slice. The returned slice MUST NOT be
// mutated.
func (b *InstanceBuffer) Transforms() []Transform {
	return b.transforms
}

func (b *InstanceBuffer) check(i int, op string) {
	if i < 0 || i >= len(b.transforms) {
		panic(fmt.Sprintf("ornament: %s index %d out of range for %q (count %d)", op, i, b.name, len(b.transforms)))
	}
}
