package ornament

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func singlePointGroup(def GroupDef, tree, nebula Point3) *ParticleGroup {
	return NewParticleGroup(testRNG(), def,
		NewPositionSet([]float64{tree[0], tree[1], tree[2]}),
		NewPositionSet([]float64{nebula[0], nebula[1], nebula[2]}),
	)
}

func vecNear(a, b Point3, eps float64) bool {
	return a.Sub(b).Len() < eps
}

func TestFrameLerpsEndpoints(t *testing.T) {
	def := GroupDef{Name: "o", Kinematic: KinematicOrnament, BaseScale: 0.2}
	g := singlePointGroup(def, Point3{0, 0, 0}, Point3{4, 2, -6})
	buf := NewInstanceBuffer("o", 1)

	// sin(0*0.5 + 0) = 0, so no bob at elapsed 0 for particle 0.
	for _, p := range []float64{0, 0.25, 1} {
		g.UpdateFrame(FrameInput{Progress: p}, buf)
		want := Point3{4 * p, 2 * p, -6 * p}
		if got := buf.Transform(0).Position; !vecNear(got, want, 1e-12) {
			t.Errorf("progress %f: position %v, want %v", p, got, want)
		}
	}
}

func TestFrameBob(t *testing.T) {
	gem := singlePointGroup(GroupDef{Kinematic: KinematicGem, BaseScale: 1}, Point3{}, Point3{})
	orn := singlePointGroup(GroupDef{Kinematic: KinematicOrnament, BaseScale: 1}, Point3{}, Point3{})
	bg, bo := NewInstanceBuffer("g", 1), NewInstanceBuffer("o", 1)

	in := FrameInput{Elapsed: math.Pi / 2}
	gem.UpdateFrame(in, bg)
	orn.UpdateFrame(in, bo)

	if y := bg.Transform(0).Position[1]; math.Abs(y-bobAmplitude) > 1e-12 {
		t.Errorf("gem bob = %f, want %f", y, bobAmplitude)
	}
	wantOrn := math.Sin(math.Pi/4) * bobAmplitude
	if y := bo.Transform(0).Position[1]; math.Abs(y-wantOrn) > 1e-12 {
		t.Errorf("ornament bob = %f, want %f", y, wantOrn)
	}
}

func TestFrameRepulsionOnlyBelowHalfProgress(t *testing.T) {
	// Pointer NDC (0, 0) maps to (0, 0, 2). Particle at (1, 0, 2) is 1 away.
	def := GroupDef{Kinematic: KinematicOrnament, BaseScale: 1}
	g := singlePointGroup(def, Point3{1, 0, 2}, Point3{1, 0, 2})
	buf := NewInstanceBuffer("o", 1)

	in := FrameInput{Progress: 0.4, PointerValid: true}
	g.UpdateFrame(in, buf)
	// push = (3 - 1) * 2 = 4 along +x
	if got := buf.Transform(0).Position; !vecNear(got, Point3{5, 0, 2}, 1e-12) {
		t.Errorf("repelled position %v, want (5, 0, 2)", got)
	}

	in.Progress = 0.5
	g.UpdateFrame(in, buf)
	if got := buf.Transform(0).Position; !vecNear(got, Point3{1, 0, 2}, 1e-12) {
		t.Errorf("position at progress 0.5 = %v, want unrepelled (1, 0, 2)", got)
	}

	in.Progress = 0.4
	in.PointerValid = false
	g.UpdateFrame(in, buf)
	if got := buf.Transform(0).Position; !vecNear(got, Point3{1, 0, 2}, 1e-12) {
		t.Errorf("position without pointer = %v, want (1, 0, 2)", got)
	}
}

func TestFrameRepulsionIgnoresFarParticles(t *testing.T) {
	def := GroupDef{Kinematic: KinematicOrnament, BaseScale: 1}
	g := singlePointGroup(def, Point3{0, 0, -5}, Point3{0, 0, -5})
	buf := NewInstanceBuffer("o", 1)
	for _, p := range []float64{0, 0.2, 0.49} {
		g.UpdateFrame(FrameInput{Progress: p, PointerValid: true}, buf)
		if got := buf.Transform(0).Position; !vecNear(got, Point3{0, 0, -5}, 1e-12) {
			t.Errorf("progress %f: far particle moved to %v", p, got)
		}
	}
}

func TestFrameRepulsionDegenerateSeparation(t *testing.T) {
	def := GroupDef{Kinematic: KinematicOrnament, BaseScale: 1}
	g := singlePointGroup(def, Point3{0, 0, 2}, Point3{0, 0, 2})
	buf := NewInstanceBuffer("o", 1)
	g.UpdateFrame(FrameInput{PointerValid: true}, buf)
	p := buf.Transform(0).Position
	for _, v := range p {
		if math.IsNaN(v) {
			t.Fatalf("position %v contains NaN", p)
		}
	}
}

func TestFrameRingGroupExemptFromRepulsion(t *testing.T) {
	def := GroupDef{Kinematic: KinematicOrnament, BaseScale: 1, Ring: true}
	g := singlePointGroup(def, Point3{1, 0, 2}, Point3{1, 0, 2})
	buf := NewInstanceBuffer("p", 1)
	g.UpdateFrame(FrameInput{PointerValid: true, RingScale: 1, PhotoScale: 1}, buf)
	if got := buf.Transform(0).Position; !vecNear(got, Point3{1, 0, 2}, 1e-12) {
		t.Errorf("ring group position %v, want (1, 0, 2)", got)
	}
}

func TestFrameGemPulseAndStaticRotation(t *testing.T) {
	g := NewParticleGroup(testRNG(), GroupDef{Kinematic: KinematicGem, BaseScale: 0.1},
		NewPositionSet(make([]float64, 6)), NewPositionSet(make([]float64, 6)))
	buf := NewInstanceBuffer("g", 2)

	in := FrameInput{Elapsed: math.Pi / 6} // sin(elapsed*3) = 1 for particle 0
	g.UpdateFrame(in, buf)
	if s := buf.Transform(0).Scale; math.Abs(s-0.1*1.3) > 1e-12 {
		t.Errorf("pulsed scale = %f, want %f", s, 0.13)
	}

	rot := buf.Transform(1).Rotation
	want := mgl64.Vec3{math.Mod(132.1, 3), math.Mod(264.2, 3), math.Mod(396.3, 3)}
	if !vecNear(rot, want, 1e-9) {
		t.Errorf("static rotation %v, want %v", rot, want)
	}
	if r0 := buf.Transform(0).Rotation; r0 != (mgl64.Vec3{}) {
		t.Errorf("particle 0 rotation %v, want zero", r0)
	}
}

func TestFrameSpinningGemsAccumulate(t *testing.T) {
	def := GroupDef{Kinematic: KinematicGem, Rotate: true, BaseScale: 0.1}
	g := singlePointGroup(def, Point3{}, Point3{})
	buf := NewInstanceBuffer("g", 1)

	start := g.Rotation(0)
	for i := 0; i < 60; i++ {
		g.UpdateFrame(FrameInput{Delta: 1.0 / 60}, buf)
	}
	got := buf.Transform(0).Rotation
	if math.Abs(got[0]-start[0]-spinSpeed) > 1e-9 || math.Abs(got[1]-start[1]-spinSpeed) > 1e-9 {
		t.Errorf("rotation %v after 1 s, want start %v + %f on x and y", got, start, spinSpeed)
	}
	if got[2] != start[2] {
		t.Errorf("z rotation changed: %f -> %f", start[2], got[2])
	}
}

func TestFrameOrnamentsHaveNoPulseOrRotation(t *testing.T) {
	def := GroupDef{Kinematic: KinematicOrnament, BaseScale: 0.2}
	g := singlePointGroup(def, Point3{}, Point3{})
	buf := NewInstanceBuffer("o", 1)
	g.UpdateFrame(FrameInput{Elapsed: 1.234}, buf)
	tr := buf.Transform(0)
	if tr.Scale != 0.2 {
		t.Errorf("scale = %f, want 0.2", tr.Scale)
	}
	if tr.Rotation != (mgl64.Vec3{}) {
		t.Errorf("rotation = %v, want zero", tr.Rotation)
	}
}

func TestFrameRingAttachment(t *testing.T) {
	def := GroupDef{Kinematic: KinematicOrnament, BaseScale: 1, Ring: true}
	g := singlePointGroup(def, Point3{10, 0, 0}, Point3{10, 0, 0})
	buf := NewInstanceBuffer("p", 1)

	g.UpdateFrame(FrameInput{RingYaw: math.Pi / 2, RingScale: 0.5, PhotoScale: 1}, buf)
	tr := buf.Transform(0)
	// Rotating +x by 90° about Y lands on -z.
	if !vecNear(tr.Position, Point3{0, 0, -5}, 1e-9) {
		t.Errorf("position = %v, want (0, 0, -5)", tr.Position)
	}
	if math.Abs(tr.Scale-0.5) > 1e-12 {
		t.Errorf("scale = %f, want 0.5", tr.Scale)
	}

	g.UpdateFrame(FrameInput{RingScale: 1, PhotoScale: 0}, buf)
	if s := buf.Transform(0).Scale; s != 0 {
		t.Errorf("hidden photo scale = %f, want 0", s)
	}
}

func TestFrameSinkOverflowPanics(t *testing.T) {
	def := GroupDef{Kinematic: KinematicOrnament, BaseScale: 1}
	g := NewParticleGroup(testRNG(), def, NewPositionSet(make([]float64, 9)), NewPositionSet(make([]float64, 9)))
	buf := NewInstanceBuffer("small", 2)
	defer func() {
		if recover() == nil {
			t.Error("expected panic writing past sink capacity")
		}
	}()
	g.UpdateFrame(FrameInput{}, buf)
}

func TestFrameDeterministicForSameInput(t *testing.T) {
	cfg := DefaultSceneConfig().Groups[0]
	cfg.Count = 200
	g, err := BuildGroup(testRNG(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	a, b := NewInstanceBuffer("a", 200), NewInstanceBuffer("b", 200)
	in := FrameInput{Elapsed: 2.5, Delta: 1.0 / 60, Progress: 0.3, Pointer: Vec2{X: 0.1, Y: -0.2}, PointerValid: true}
	g.UpdateFrame(in, a)
	g.UpdateFrame(in, b)
	for i := 0; i < 200; i++ {
		if a.Transform(i) != b.Transform(i) {
			t.Fatalf("particle %d differs between identical frames", i)
		}
	}
}

func TestFrameZeroAllocs(t *testing.T) {
	cfg := DefaultSceneConfig().Groups[1]
	g, err := BuildGroup(testRNG(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	buf := NewInstanceBuffer("accent", g.Count())
	in := FrameInput{Elapsed: 1, Delta: 1.0 / 60, Progress: 0.2, PointerValid: true}
	allocs := testing.AllocsPerRun(100, func() {
		g.UpdateFrame(in, buf)
	})
	if allocs != 0 {
		t.Errorf("UpdateFrame allocs = %f, want 0", allocs)
	}
}
