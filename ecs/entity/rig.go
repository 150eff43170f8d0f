package entity

import (
	"fmt"

	"github.com/milk9111/rig/ecs"
	"github.com/milk9111/rig/ecs/component"
	"github.com/milk9111/rig/editor"
)

// NewRig spawns an entity that plays p's clip at (x, y).
func NewRig(w *ecs.World, name string, p *editor.Project, x, y float64, loop bool) (ecs.Entity, error) {
	if p == nil {
		return 0, fmt.Errorf("rig %s: nil project", name)
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.RigComponent.Kind(), &component.Rig{Name: name, Project: p}); err != nil {
		return 0, fmt.Errorf("rig %s: add rig: %w", name, err)
	}

	player := p.Player()
	player.Loop = loop
	if err := ecs.Add(w, e, component.PlaybackComponent.Kind(), &component.Playback{Player: player}); err != nil {
		return 0, fmt.Errorf("rig %s: add playback: %w", name, err)
	}

	if err := ecs.Add(w, e, component.PoseComponent.Kind(), &component.Pose{}); err != nil {
		return 0, fmt.Errorf("rig %s: add pose: %w", name, err)
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, Scale: 1}); err != nil {
		return 0, fmt.Errorf("rig %s: add transform: %w", name, err)
	}

	return e, nil
}
