package ornament

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// PositionSet is an immutable, flattened list of points (x, y, z per
// particle). Index i refers to the same logical particle in every set of a
// group.
type PositionSet struct {
	flat []float64
}

// NewPositionSet copies flat into a new set. len(flat) must be a multiple
// of 3.
func NewPositionSet(flat []float64) PositionSet {
	if len(flat)%3 != 0 {
		panic(fmt.Sprintf("ornament: position set length %d is not a multiple of 3", len(flat)))
	}
	cp := make([]float64, len(flat))
	copy(cp, flat)
	return PositionSet{flat: cp}
}

// Len returns the number of points.
func (s PositionSet) Len() int {
	return len(s.flat) / 3
}

// At returns point i.
func (s PositionSet) At(i int) Point3 {
	ix := i * 3
	return Point3{s.flat[ix], s.flat[ix+1], s.flat[ix+2]}
}

// Flat returns a copy of the flattened coordinates.
func (s PositionSet) Flat() []float64 {
	cp := make([]float64, len(s.flat))
	copy(cp, s.flat)
	return cp
}

func (s PositionSet) set(i int, x, y, z float64) {
	ix := i * 3
	s.flat[ix] = x
	s.flat[ix+1] = y
	s.flat[ix+2] = z
}

func newPositions(count int) PositionSet {
	if count < 0 {
		count = 0
	}
	return PositionSet{flat: make([]float64, count*3)}
}

// Loop counts for the index-driven helices.
const (
	drapeLoops     = 8
	spiralLoops    = 5
	drapeOffset    = 0.2
	spiralOffset   = 0.1
	evenRingJitter = 2.0
)

// GenerateTreePositions samples a solid cone of the given base radius and
// height, centered vertically on the origin. Height fractions are biased
// toward the base (u^1.5) and horizontal offsets are area-uniform. The
// second result holds a jewel-tone color per particle.
func GenerateTreePositions(rng *rand.Rand, count int, radius, height float64) (PositionSet, []Color) {
	pos := newPositions(count)
	colors := make([]Color, pos.Len())
	for i := 0; i < pos.Len(); i++ {
		yNorm := math.Pow(rng.Float64(), 1.5)
		r := (1 - yNorm) * radius
		theta := rng.Float64() * math.Pi * 2
		dist := math.Sqrt(rng.Float64()) * r
		pos.set(i, math.Cos(theta)*dist, yNorm*height-height/2, math.Sin(theta)*dist)

		base := GemPalette[rng.IntN(len(GemPalette))]
		colors[i] = base.Scaled(0.8 + rng.Float64()*0.4)
	}
	return pos, colors
}

// GenerateDrapePositions lays beads on a helix of eight loops wound from the
// base to the tip, slightly outside the cone surface.
func GenerateDrapePositions(rng *rand.Rand, count int, radius, height float64) PositionSet {
	return helix(count, radius+drapeOffset, height, drapeLoops, 0)
}

// GenerateOrnamentSpiralPositions lays ornaments on a five-loop spiral
// offset by half a turn from the drape.
func GenerateOrnamentSpiralPositions(rng *rand.Rand, count int, radius, height float64) PositionSet {
	return helix(count, radius+spiralOffset, height, spiralLoops, math.Pi)
}

func helix(count int, radius, height float64, loops int, phase float64) PositionSet {
	pos := newPositions(count)
	n := pos.Len()
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		theta := t*math.Pi*2*float64(loops) + phase
		r := (1 - t) * radius
		pos.set(i, math.Cos(theta)*r, t*height-height/2, math.Sin(theta)*r)
	}
	return pos
}

// GenerateRingPositions samples a flattened torus: uniform angle, radius
// jittered by ±thickness/2 and height by ±thickness/4.
func GenerateRingPositions(rng *rand.Rand, count int, radius, thickness float64) PositionSet {
	pos := newPositions(count)
	for i := 0; i < pos.Len(); i++ {
		theta := rng.Float64() * math.Pi * 2
		r := radius + (rng.Float64()-0.5)*thickness
		y := (rng.Float64() - 0.5) * (thickness * 0.5)
		pos.set(i, math.Cos(theta)*r, y, math.Sin(theta)*r)
	}
	return pos
}

// GenerateEvenRingPositions spaces count items at equal angles on a ring of
// exactly radius, with independent vertical jitter in [-1, 1].
func GenerateEvenRingPositions(rng *rand.Rand, count int, radius float64) PositionSet {
	pos := newPositions(count)
	n := pos.Len()
	for i := 0; i < n; i++ {
		theta := float64(i) / float64(n) * math.Pi * 2
		y := (rng.Float64() - 0.5) * evenRingJitter
		pos.set(i, math.Cos(theta)*radius, y, math.Sin(theta)*radius)
	}
	return pos
}

// ShapeKind names a generator for config-driven groups.
type ShapeKind string

const (
	ShapeCone     ShapeKind = "cone"
	ShapeDrape    ShapeKind = "drape"
	ShapeSpiral   ShapeKind = "spiral"
	ShapeRing     ShapeKind = "ring"
	ShapeEvenRing ShapeKind = "evenring"
)

// ShapeConfig selects a generator and its parameters.
type ShapeConfig struct {
	Kind      ShapeKind `yaml:"kind"`
	Radius    float64   `yaml:"radius"`
	Height    float64   `yaml:"height,omitempty"`
	Thickness float64   `yaml:"thickness,omitempty"`
}

// Valid reports whether Kind names a known generator.
func (c ShapeConfig) Valid() bool {
	switch c.Kind {
	case ShapeCone, ShapeDrape, ShapeSpiral, ShapeRing, ShapeEvenRing:
		return true
	}
	return false
}

// GenerateShape dispatches to the generator named by cfg.Kind. The color
// result is non-nil only for cones. Unknown kinds yield an empty set.
func GenerateShape(rng *rand.Rand, count int, cfg ShapeConfig) (PositionSet, []Color) {
	switch cfg.Kind {
	case ShapeCone:
		return GenerateTreePositions(rng, count, cfg.Radius, cfg.Height)
	case ShapeDrape:
		return GenerateDrapePositions(rng, count, cfg.Radius, cfg.Height), nil
	case ShapeSpiral:
		return GenerateOrnamentSpiralPositions(rng, count, cfg.Radius, cfg.Height), nil
	case ShapeRing:
		return GenerateRingPositions(rng, count, cfg.Radius, cfg.Thickness), nil
	case ShapeEvenRing:
		return GenerateEvenRingPositions(rng, count, cfg.Radius), nil
	default:
		return newPositions(0), nil
	}
}
