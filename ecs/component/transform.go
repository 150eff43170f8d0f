package component

// Transform places a rig in the viewer.
type Transform struct {
	X     float64
	Y     float64
	Scale float64
}

var TransformComponent = NewComponent[Transform]("transform")
