package component

// Selected marks the rig the editor is working on.
type Selected struct{}

var SelectedComponent = NewComponent[Selected]("selected")
