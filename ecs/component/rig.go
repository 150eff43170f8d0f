package component

import "github.com/milk9111/rig/editor"

// Rig ties an entity to the project it was loaded from.
type Rig struct {
	Name    string
	Project *editor.Project
}

var RigComponent = NewComponent[Rig]("rig")
