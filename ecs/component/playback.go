package component

import "github.com/milk9111/rig/rig"

// Playback drives an entity's clip.
type Playback struct {
	Player *rig.Player
	// Speed scales the world tick; zero means normal speed.
	Speed float64
}

var PlaybackComponent = NewComponent[Playback]("playback")
