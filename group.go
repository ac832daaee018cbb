package ornament

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// GroupDef describes a particle group independently of its endpoint sets.
type GroupDef struct {
	Name      string
	Kinematic KinematicClass
	// Rotate enables continuous spin for gem-class particles.
	Rotate bool
	// Ring attaches the group to the nebula ring: ring yaw, ring scale and
	// the photo panel scale apply to it, and pointer repulsion does not.
	Ring          bool
	BaseScale     float64
	ScaleVariance float64
	ColorMode     ColorMode
	// Colors is interpreted by ColorMode: the flat color (first entry) for
	// ColorSingle, the cycled palette for ColorPalette, or one entry per
	// particle for ColorExternal.
	Colors []Color
}

// ParticleGroup is a fixed-size set of identically-behaved particles bound
// to one tree and one nebula position set. Endpoints are never mutated after
// construction; only the rendered transforms derived from them change.
type ParticleGroup struct {
	def    GroupDef
	tree   PositionSet
	nebula PositionSet

	scales    []float64
	colors    []Color
	rotations []mgl64.Vec3
}

// NewParticleGroup binds def to its endpoint sets and assigns the static
// per-particle attributes. It panics if the sets disagree in length or an
// external color array does not match the particle count.
func NewParticleGroup(rng *rand.Rand, def GroupDef, tree, nebula PositionSet) *ParticleGroup {
	count := tree.Len()
	if nebula.Len() != count {
		panic(fmt.Sprintf("ornament: group %q has %d tree positions but %d nebula positions",
			def.Name, count, nebula.Len()))
	}
	if def.ColorMode == ColorExternal && len(def.Colors) != count {
		panic(fmt.Sprintf("ornament: group %q has %d particles but %d external colors",
			def.Name, count, len(def.Colors)))
	}

	g := &ParticleGroup{
		def:       def,
		tree:      tree,
		nebula:    nebula,
		scales:    make([]float64, count),
		colors:    make([]Color, count),
		rotations: make([]mgl64.Vec3, count),
	}
	for i := 0; i < count; i++ {
		g.scales[i] = def.BaseScale + rng.Float64()*def.ScaleVariance
		if def.Kinematic == KinematicGem && def.Rotate {
			g.rotations[i] = mgl64.Vec3{
				rng.Float64() * math.Pi,
				rng.Float64() * math.Pi,
				rng.Float64() * math.Pi,
			}
		}
		g.colors[i] = def.colorAt(i)
	}
	return g
}

func (d GroupDef) colorAt(i int) Color {
	switch d.ColorMode {
	case ColorPalette:
		if len(d.Colors) == 0 {
			return ColorWhite
		}
		return d.Colors[i%len(d.Colors)]
	case ColorExternal:
		return d.Colors[i]
	default:
		if len(d.Colors) == 0 {
			return ColorWhite
		}
		return d.Colors[0]
	}
}

// Name returns the group name.
func (g *ParticleGroup) Name() string { return g.def.Name }

// Count returns the number of particles.
func (g *ParticleGroup) Count() int { return g.tree.Len() }

// Def returns the group definition.
func (g *ParticleGroup) Def() GroupDef { return g.def }

// Tree returns the tree endpoint set.
func (g *ParticleGroup) Tree() PositionSet { return g.tree }

// Nebula returns the nebula endpoint set.
func (g *ParticleGroup) Nebula() PositionSet { return g.nebula }

// Scale returns the static scale of particle i.
func (g *ParticleGroup) Scale(i int) float64 { return g.scales[i] }

// Color returns the static color of particle i.
func (g *ParticleGroup) Color(i int) Color { return g.colors[i] }

// Rotation returns the current rotation of particle i. Only spinning gems
// change it after construction.
func (g *ParticleGroup) Rotation(i int) mgl64.Vec3 { return g.rotations[i] }

// writeColors pushes every particle color to sink. Called once at init.
func (g *ParticleGroup) writeColors(sink InstanceSink) {
	for i, c := range g.colors {
		sink.SetColor(i, c)
	}
}

// GroupSpec is the configuration form of a group: which generators build
// its endpoints and how its colors are chosen.
type GroupSpec struct {
	Name          string      `yaml:"name"`
	Count         int         `yaml:"count"`
	Kinematic     string      `yaml:"kinematic"`
	Rotate        bool        `yaml:"rotate,omitempty"`
	Ring          bool        `yaml:"ring,omitempty"`
	BaseScale     float64     `yaml:"baseScale"`
	ScaleVariance float64     `yaml:"scaleVariance,omitempty"`
	Tree          ShapeConfig `yaml:"tree"`
	Nebula        ShapeConfig `yaml:"nebula"`
	Color         ColorSpec   `yaml:"color"`
}

// ColorSpec selects the color assignment of a group.
//
// Modes:
//   - "single": Colors[0] for every particle (white if empty)
//   - "palette": Colors cycled by index
//   - "gem": per-particle jewel tones from the cone generator (tree must be a cone)
//   - "twotone": each particle randomly Colors[0] or Colors[1]
type ColorSpec struct {
	Mode   string   `yaml:"mode"`
	Colors []string `yaml:"colors,omitempty"`
}

// Color spec modes.
const (
	ColorSpecSingle  = "single"
	ColorSpecPalette = "palette"
	ColorSpecGem     = "gem"
	ColorSpecTwoTone = "twotone"
)

// ParseKinematic maps a configuration name to a KinematicClass.
func ParseKinematic(name string) (KinematicClass, error) {
	switch name {
	case "gem", "":
		return KinematicGem, nil
	case "ornament":
		return KinematicOrnament, nil
	default:
		return 0, fmt.Errorf("unknown kinematic class %q", name)
	}
}

// BuildGroup generates the endpoint sets for spec and constructs the group.
func BuildGroup(rng *rand.Rand, spec GroupSpec) (*ParticleGroup, error) {
	kin, err := ParseKinematic(spec.Kinematic)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", spec.Name, err)
	}
	if !spec.Tree.Valid() || !spec.Nebula.Valid() {
		return nil, fmt.Errorf("group %q: unknown shape %q/%q", spec.Name, spec.Tree.Kind, spec.Nebula.Kind)
	}

	tree, gemColors := GenerateShape(rng, spec.Count, spec.Tree)
	nebula, _ := GenerateShape(rng, spec.Count, spec.Nebula)

	def := GroupDef{
		Name:          spec.Name,
		Kinematic:     kin,
		Rotate:        spec.Rotate,
		Ring:          spec.Ring,
		BaseScale:     spec.BaseScale,
		ScaleVariance: spec.ScaleVariance,
	}

	palette, err := ParsePalette(spec.Color.Colors)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", spec.Name, err)
	}
	switch spec.Color.Mode {
	case ColorSpecSingle, "":
		def.ColorMode = ColorSingle
		def.Colors = palette
	case ColorSpecPalette:
		def.ColorMode = ColorPalette
		def.Colors = palette
	case ColorSpecGem:
		if gemColors == nil {
			return nil, fmt.Errorf("group %q: gem colors require a cone tree shape", spec.Name)
		}
		def.ColorMode = ColorExternal
		def.Colors = gemColors
	case ColorSpecTwoTone:
		if len(palette) < 2 {
			return nil, fmt.Errorf("group %q: twotone needs two colors, got %d", spec.Name, len(palette))
		}
		def.ColorMode = ColorExternal
		def.Colors = TwoToneColors(rng, tree.Len(), palette[0], palette[1])
	default:
		return nil, fmt.Errorf("group %q: unknown color mode %q", spec.Name, spec.Color.Mode)
	}

	return NewParticleGroup(rng, def, tree, nebula), nil
}
