package ornament

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame pass constants.
const (
	bobAmplitude      = 0.05
	gemBobFreq        = 1.0
	ornamentBobFreq   = 0.5
	repulsionRadius   = 3.0
	repulsionStrength = 2.0
	repulsionCutoff   = 0.5
	pointerSpan       = 10.0
	pointerDepth      = 2.0
	pulseFreq         = 3.0
	pulseAmplitude    = 0.3
	spinSpeed         = 0.5
	staticSeedStep    = 132.1
)

// FrameInput is the per-tick snapshot read by every group's frame pass.
type FrameInput struct {
	Elapsed  float64
	Delta    float64
	Progress float64

	// Pointer is in NDC; it is ignored unless PointerValid is set.
	Pointer      Vec2
	PointerValid bool

	// Ring-attached groups only.
	RingYaw    float64
	RingScale  float64
	PhotoScale float64
}

// PointerToScene maps an NDC pointer onto the repulsion plane in front of
// the tree.
func PointerToScene(p Vec2) Point3 {
	return Point3{p.X * pointerSpan, p.Y * pointerSpan, pointerDepth}
}

// UpdateFrame blends every particle between its tree and nebula endpoints,
// applies secondary motion and writes the resulting transform to sink.
func (g *ParticleGroup) UpdateFrame(in FrameInput, sink InstanceSink) {
	gem := g.def.Kinematic == KinematicGem
	freq := ornamentBobFreq
	if gem {
		freq = gemBobFreq
	}

	repel := in.PointerValid && in.Progress < repulsionCutoff && !g.def.Ring
	ptr := PointerToScene(in.Pointer)

	ringFactor := in.PhotoScale * in.RingScale

	n := g.Count()
	for i := 0; i < n; i++ {
		fi := float64(i)
		pos := lerpPoint(g.tree.At(i), g.nebula.At(i), in.Progress)
		pos[1] += math.Sin(in.Elapsed*freq+fi) * bobAmplitude

		if repel {
			pos = repelFrom(pos, ptr)
		}

		scale := g.scales[i]
		var rot mgl64.Vec3
		if gem {
			scale *= 1 + math.Sin(in.Elapsed*pulseFreq+fi)*pulseAmplitude
			if g.def.Rotate {
				g.rotations[i][0] += in.Delta * spinSpeed
				g.rotations[i][1] += in.Delta * spinSpeed
				rot = g.rotations[i]
			} else {
				rot = staticGemRotation(i)
			}
		}

		if g.def.Ring {
			pos = rotateY(pos.Mul(ringFactor), in.RingYaw)
			scale *= ringFactor
		}

		sink.SetTransform(i, Transform{Position: pos, Rotation: rot, Scale: scale})
	}
}

// repelFrom pushes pos away from ptr when it lies inside the repulsion
// radius. A point exactly on the pointer has no direction and stays put.
func repelFrom(pos, ptr Point3) Point3 {
	sep := pos.Sub(ptr)
	dist := sep.Len()
	if dist >= repulsionRadius || dist == 0 {
		return pos
	}
	return pos.Add(sep.Normalize().Mul((repulsionRadius - dist) * repulsionStrength))
}

// staticGemRotation derives a fixed orientation from the particle index.
func staticGemRotation(i int) mgl64.Vec3 {
	seed := float64(i) * staticSeedStep
	return mgl64.Vec3{
		math.Mod(seed, 3),
		math.Mod(seed*2, 3),
		math.Mod(seed*3, 3),
	}
}
