package component

import "github.com/milk9111/rig/rig"

// Pose is the resolved output of the last tick.
type Pose struct {
	Rest        map[string]rig.Transform
	World       map[string]rig.Transform
	Placements  []rig.Placement
	Time        float64
	Diagnostics []rig.Diagnostic
}

var PoseComponent = NewComponent[Pose]("pose")
