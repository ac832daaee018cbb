package ornament

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Color represents an RGBA color with components in [0, 1]. Gem palette
// variation may push channels slightly above 1; renderers clamp.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default instance color.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for normalized pointer and hand coordinates.
type Vec2 struct {
	X, Y float64
}

// Point3 is a scene-space coordinate.
type Point3 = mgl64.Vec3

// Phase is the current stage of the tree/nebula morph.
type Phase uint8

const (
	PhaseTree       Phase = iota // settled tree formation
	PhaseBlooming                // transient, resolves to PhaseNebula
	PhaseNebula                  // settled ring formation
	PhaseCollapsing              // transient, resolves to PhaseTree
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseTree:
		return "tree"
	case PhaseBlooming:
		return "blooming"
	case PhaseNebula:
		return "nebula"
	case PhaseCollapsing:
		return "collapsing"
	default:
		return "unknown"
	}
}

// ParsePhase maps a phase name to a Phase.
func ParsePhase(name string) (Phase, error) {
	switch name {
	case "tree":
		return PhaseTree, nil
	case "blooming":
		return PhaseBlooming, nil
	case "nebula":
		return PhaseNebula, nil
	case "collapsing":
		return PhaseCollapsing, nil
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// Transient reports whether p is an in-flight transition phase.
func (p Phase) Transient() bool {
	return p == PhaseBlooming || p == PhaseCollapsing
}

// Gesture is a debounced hand-pose classification.
type Gesture uint8

const (
	GestureNone       Gesture = iota // no hand, or an unrecognized pose
	GestureOpenPalm                  // blooms the tree
	GestureClosedFist                // collapses the nebula
)

// String returns the gesture name as reported by the recognizer.
func (g Gesture) String() string {
	switch g {
	case GestureOpenPalm:
		return "Open_Palm"
	case GestureClosedFist:
		return "Closed_Fist"
	default:
		return "None"
	}
}

// ParseGesture maps a recognizer category name to a Gesture. Unknown names
// map to GestureNone.
func ParseGesture(name string) Gesture {
	switch name {
	case "Open_Palm", "open_palm", "openpalm", "open":
		return GestureOpenPalm
	case "Closed_Fist", "closed_fist", "closedfist", "fist":
		return GestureClosedFist
	default:
		return GestureNone
	}
}

// KinematicClass selects the per-frame motion rules for a group.
type KinematicClass uint8

const (
	KinematicGem      KinematicClass = iota // pulses, optional continuous spin
	KinematicOrnament                       // static pose, no pulse
)

// String returns the class name used in configuration files.
func (k KinematicClass) String() string {
	if k == KinematicOrnament {
		return "ornament"
	}
	return "gem"
}

// ColorMode selects how a group's per-particle colors are assigned at init.
type ColorMode uint8

const (
	ColorSingle   ColorMode = iota // one flat color for every particle
	ColorPalette                   // fixed palette cycled by index
	ColorExternal                  // caller-supplied per-particle array
)
