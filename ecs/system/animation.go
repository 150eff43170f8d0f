package system

import (
	"log"

	"github.com/milk9111/rig/ecs"
	"github.com/milk9111/rig/ecs/component"
	"github.com/milk9111/rig/rig"
)

// TPS is the tick rate the animation system assumes by default.
const TPS = 60

type AnimationSystem struct {
	// DT is the time one tick advances a clip, in seconds.
	DT float64

	reported map[ecs.Entity]map[rig.Diagnostic]bool
}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{DT: 1.0 / TPS}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.PlaybackComponent.Kind(), component.PoseComponent.Kind(), func(e ecs.Entity, pb *component.Playback, pose *component.Pose) {
		if pb.Player == nil {
			return
		}

		speed := pb.Speed
		if speed == 0 {
			speed = 1
		}
		wasPlaying := pb.Player.IsPlaying()
		pb.Player.Update(a.DT * speed)
		if wasPlaying && !pb.Player.IsPlaying() {
			w.Events().Push(ecs.Event{Type: ecs.EventClipFinished, Entity: e})
		}

		rest, _ := pb.Player.Rest().Resolve()
		world, diags := pb.Player.Resolve()
		pose.Rest = rest
		pose.World = world
		pose.Time = pb.Player.CurrentTime()
		pose.Placements = nil

		if r, ok := ecs.Get(w, e, component.RigComponent.Kind()); ok && r.Project != nil {
			placements, more := r.Project.Placements(rest, world)
			pose.Placements = visible(placements, pb.Player.Sprites())
			diags = append(diags, more...)
		}
		pose.Diagnostics = diags
		a.report(w, e, diags)
	})
}

// Rebind refreshes the rest pose of e's player after its project's skeleton
// was edited.
func Rebind(w *ecs.World, e ecs.Entity) {
	pb, ok := ecs.Get(w, e, component.PlaybackComponent.Kind())
	if !ok || pb.Player == nil {
		return
	}
	r, ok := ecs.Get(w, e, component.RigComponent.Kind())
	if !ok || r.Project == nil {
		return
	}
	pb.Player.Rebind(r.Project.Skeleton)
	pb.Player.SetClip(r.Project.Clip)
}

// visible drops instances hidden by a sprite swap: a bone with an active
// swap shows only the swapped-in instance.
func visible(placements []rig.Placement, swaps map[string]string) []rig.Placement {
	if len(swaps) == 0 {
		return placements
	}
	out := placements[:0]
	for _, p := range placements {
		if id, ok := swaps[p.Instance.BoneName]; ok && id != p.Instance.ID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (a *AnimationSystem) report(w *ecs.World, e ecs.Entity, diags []rig.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	if a.reported == nil {
		a.reported = make(map[ecs.Entity]map[rig.Diagnostic]bool)
	}
	seen := a.reported[e]
	if seen == nil {
		seen = make(map[rig.Diagnostic]bool)
		a.reported[e] = seen
	}
	for _, d := range diags {
		if seen[d] {
			continue
		}
		seen[d] = true
		log.Printf("animation: entity=%s warning: %s", e, d)
		w.Events().Push(ecs.Event{Type: ecs.EventDiagnostic, Entity: e, Data: d})
	}
}
