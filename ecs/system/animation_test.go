package system

import (
	"math"
	"testing"

	"github.com/milk9111/rig/ecs"
	"github.com/milk9111/rig/ecs/component"
	"github.com/milk9111/rig/ecs/entity"
	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/rig"
)

func swingProject(t *testing.T) *editor.Project {
	t.Helper()
	arm := rig.NewBone("arm", 0, 0, 5, 0)
	arm.Parent = "root"
	s, err := rig.BuildSkeleton([]rig.Bone{rig.NewBone("root", 0, 0, 10, 0), arm})
	if err != nil {
		t.Fatal(err)
	}
	clip := rig.NewClip("swing")
	if err := clip.SetTiming(1, 30); err != nil {
		t.Fatal(err)
	}
	tr := clip.EnsureTrack("root")
	for _, k := range []rig.Keyframe{
		{Time: 0, Transform: rig.Identity()},
		{Time: 1, Transform: rig.Transform{Rotation: 90, Scale: 1}},
	} {
		if _, _, err := tr.Set(k); err != nil {
			t.Fatal(err)
		}
	}
	return editor.NewProjectFrom(s,
		[]rig.SpriteRect{rig.NewSpriteRect("hand", 0, 0, 4, 4), rig.NewSpriteRect("fist", 4, 0, 4, 4)},
		[]rig.SpriteInstance{
			{ID: "hand_1", SpriteName: "hand", BoneName: "arm", Scale: 1, Attachment: rig.AttachEnd},
			{ID: "fist_1", SpriteName: "fist", BoneName: "arm", Scale: 1, Attachment: rig.AttachEnd},
		},
		clip)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestAnimationSystemPosesRig(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewAnimationSystem()
	sys.DT = 0.5
	w.AddSystem(sys)

	e, err := entity.NewRig(w, "swing", swingProject(t), 0, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	pb, _ := ecs.Get(w, e, component.PlaybackComponent.Kind())
	pb.Player.Play()

	w.Update()
	pose, ok := ecs.Get(w, e, component.PoseComponent.Kind())
	if !ok {
		t.Fatal("pose missing")
	}
	if pose.Time != 0.5 {
		t.Fatalf("time = %v, want 0.5", pose.Time)
	}
	root := pose.World["root"]
	if !near(root.Rotation, 45) {
		t.Fatalf("root rotation = %v, want 45", root.Rotation)
	}
	if pose.Rest["root"].Rotation != 0 {
		t.Fatalf("rest moved: %+v", pose.Rest["root"])
	}
	if len(pose.Placements) != 2 {
		t.Fatalf("placements = %d, want 2", len(pose.Placements))
	}

	w.Update()
	w.Update()
	finished := 0
	for _, ev := range w.Events().Drain() {
		if ev.Type == ecs.EventClipFinished && ev.Entity == e {
			finished++
		}
	}
	if finished != 1 {
		t.Fatalf("clip finished %d times, want 1", finished)
	}
	if !near(pose.World["root"].Rotation, 90) {
		t.Fatalf("final rotation = %v, want 90", pose.World["root"].Rotation)
	}
}

func TestAnimationSystemSpriteSwap(t *testing.T) {
	p := swingProject(t)
	tr := p.Clip.EnsureTrack("arm")
	if _, _, err := tr.Set(rig.Keyframe{Time: 0, Transform: rig.Identity(), SpriteInstance: "fist_1"}); err != nil {
		t.Fatal(err)
	}

	w := ecs.NewWorld()
	w.AddSystem(NewAnimationSystem())
	e, err := entity.NewRig(w, "swing", p, 0, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	w.Update()

	pose, _ := ecs.Get(w, e, component.PoseComponent.Kind())
	if len(pose.Placements) != 1 || pose.Placements[0].Instance.ID != "fist_1" {
		t.Fatalf("placements = %+v, want only fist_1", pose.Placements)
	}
}

func TestAnimationSystemReportsDiagnosticsOnce(t *testing.T) {
	p := swingProject(t)
	if _, _, err := p.Clip.EnsureTrack("tail").Set(rig.Keyframe{Time: 0, Transform: rig.Identity()}); err != nil {
		t.Fatal(err)
	}

	w := ecs.NewWorld()
	w.AddSystem(NewAnimationSystem())
	e, err := entity.NewRig(w, "swing", p, 0, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		w.Update()
	}

	var diags []rig.Diagnostic
	for _, ev := range w.Events().Drain() {
		if ev.Type != ecs.EventDiagnostic {
			continue
		}
		diags = append(diags, ev.Data.(rig.Diagnostic))
	}
	if len(diags) != 1 || diags[0].Subject != "tail" || diags[0].Kind != rig.DanglingReference {
		t.Fatalf("diagnostics = %v", diags)
	}
	pose, _ := ecs.Get(w, e, component.PoseComponent.Kind())
	if len(pose.Diagnostics) != 1 {
		t.Fatalf("pose diagnostics = %v", pose.Diagnostics)
	}
}

func TestRebindPicksUpSkeletonEdits(t *testing.T) {
	p := swingProject(t)
	h := editor.NewHistory(p, editor.DefaultHistoryLimit)

	w := ecs.NewWorld()
	w.AddSystem(NewAnimationSystem())
	e, err := entity.NewRig(w, "swing", p, 0, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Execute(&editor.MoveBone{Bone: "root", X: 7, Y: 3}); err != nil {
		t.Fatal(err)
	}

	w.Update()
	pose, _ := ecs.Get(w, e, component.PoseComponent.Kind())
	if pose.World["root"].X != 0 {
		t.Fatalf("player saw the edit before Rebind: %+v", pose.World["root"])
	}

	Rebind(w, e)
	w.Update()
	if got := pose.World["root"]; got.X != 7 || got.Y != 3 {
		t.Fatalf("root after rebind = %+v, want (7, 3)", got)
	}
}
