package editor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/milk9111/rig/rig"
)

func testProject(t *testing.T) *Project {
	t.Helper()
	arm := rig.NewBone("arm", 0, 0, 5, 0)
	arm.Parent = "root"
	s, err := rig.BuildSkeleton([]rig.Bone{rig.NewBone("root", 0, 0, 10, 0), arm})
	if err != nil {
		t.Fatal(err)
	}
	return NewProjectFrom(s,
		[]rig.SpriteRect{rig.NewSpriteRect("hand", 0, 0, 8, 8)},
		[]rig.SpriteInstance{{ID: "hand_1", SpriteName: "hand", BoneName: "arm", Scale: 1, Attachment: rig.AttachEnd}},
		rig.NewClip("idle"))
}

type projectState struct {
	bones     []rig.Bone
	sprites   []rig.SpriteRect
	instances []rig.SpriteInstance
	tracks    map[string][]rig.Keyframe
	duration  float64
	fps       int
}

func snapshot(p *Project) projectState {
	st := projectState{
		bones:     p.Skeleton.Bones(),
		sprites:   p.Sprites(),
		instances: p.Instances(),
		tracks:    map[string][]rig.Keyframe{},
		duration:  p.Clip.Duration,
		fps:       p.Clip.FPS,
	}
	for _, tr := range p.Clip.Tracks() {
		st.tracks[tr.Bone] = tr.Keyframes()
	}
	return st
}

func (s projectState) equal(o projectState) bool {
	return fmt.Sprint(s) == fmt.Sprint(o)
}

func TestUndoRedoRestoresState(t *testing.T) {
	child := rig.NewBone("finger", 1, 0, 2, 15)
	child.Parent = "arm"

	tests := []struct {
		name string
		cmd  func() Command
	}{
		{"create_bone", func() Command { return &CreateBone{Bone: child} }},
		{"delete_bone", func() Command { return &DeleteBone{Bone: "root"} }},
		{"move_bone", func() Command { return &MoveBone{Bone: "arm", X: 3, Y: 4} }},
		{"rotate_bone", func() Command { return &RotateBone{Bone: "arm", Angle: 45, Length: 7} }},
		{"reparent_bone", func() Command { return &ReparentBone{Bone: "arm"} }},
		{"set_layer", func() Command { return &SetBoneLayer{Bone: "arm", Layer: rig.LayerFront, Order: 3} }},
		{"set_attachment", func() Command { return &SetBoneAttachment{Bone: "arm", Attachment: rig.AttachStart} }},
		{"create_sprite", func() Command { return &CreateSprite{Rect: rig.NewSpriteRect("foot", 8, 0, 8, 4)} }},
		{"delete_sprite", func() Command { return &DeleteSprite{Sprite: "hand"} }},
		{"sprite_bounds", func() Command { return &SetSpriteBounds{Sprite: "hand", X: 1, Y: 2, Width: 3, Height: 4} }},
		{"sprite_origin", func() Command { return &SetSpriteOrigin{Sprite: "hand", OriginX: 0, OriginY: 1} }},
		{"create_instance", func() Command {
			return &CreateInstance{Instance: rig.SpriteInstance{SpriteName: "hand", BoneName: "root"}}
		}},
		{"delete_instance", func() Command { return &DeleteInstance{ID: "hand_1"} }},
		{"instance_offset", func() Command { return &SetInstanceOffset{ID: "hand_1", OffsetX: 2, Rotation: 30, Scale: 2} }},
		{"bind_instance", func() Command { return &BindInstance{ID: "hand_1", Bone: "root", Attachment: rig.AttachStart} }},
		{"set_keyframe", func() Command { return KeyPose("arm", 1, rig.Transform{Rotation: 30, Scale: 1}, rig.EaseIn) }},
		{"clip_timing", func() Command { return &SetClipTiming{Duration: 2, FPS: 24} }},
		{"composite", func() Command {
			return &Composite{Label: "pose", Commands: []Command{
				&MoveBone{Bone: "root", X: 9, Y: 9},
				KeyPose("root", 0, rig.Identity(), rig.Linear),
				KeyPose("root", 1, rig.Transform{X: 5, Scale: 1}, rig.Linear),
			}}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := testProject(t)
			h := NewHistory(p, 0)
			before := snapshot(p)

			if err := h.Execute(tc.cmd()); err != nil {
				t.Fatalf("execute: %v", err)
			}
			after := snapshot(p)
			if after.equal(before) {
				t.Fatalf("command did not change the project")
			}

			if err := h.Undo(); err != nil {
				t.Fatalf("undo: %v", err)
			}
			if got := snapshot(p); !got.equal(before) {
				t.Fatalf("undo mismatch\nwant %v\ngot  %v", before, got)
			}

			if err := h.Redo(); err != nil {
				t.Fatalf("redo: %v", err)
			}
			if got := snapshot(p); !got.equal(after) {
				t.Fatalf("redo mismatch\nwant %v\ngot  %v", after, got)
			}
		})
	}
}

func TestAnimationCommandsUndo(t *testing.T) {
	p := testProject(t)
	h := NewHistory(p, 0)
	for _, cmd := range []Command{
		KeyPose("arm", 0, rig.Identity(), rig.Linear),
		KeyPose("arm", 1, rig.Transform{Rotation: 90, Scale: 1}, rig.Linear),
	} {
		if err := h.Execute(cmd); err != nil {
			t.Fatal(err)
		}
	}
	base := snapshot(p)

	tests := []struct {
		name string
		cmd  Command
	}{
		{"overwrite_key", KeyPose("arm", 1.004, rig.Transform{Rotation: 10, Scale: 1}, rig.Bezier)},
		{"delete_key", &DeleteKeyframe{Bone: "arm", Time: 1}},
		{"move_key", &MoveKeyframe{Bone: "arm", From: 1, To: 2.5}},
		{"interpolation", &SetInterpolation{Bone: "arm", Time: 0, Mode: rig.EaseInOut}},
		{"clear", &ClearAnimation{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := h.Execute(tc.cmd); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if snapshot(p).equal(base) {
				t.Fatal("command did not change the clip")
			}
			if err := h.Undo(); err != nil {
				t.Fatalf("undo: %v", err)
			}
			if got := snapshot(p); !got.equal(base) {
				t.Fatalf("undo mismatch\nwant %v\ngot  %v", base, got)
			}
		})
	}
}

func TestHistoryBound(t *testing.T) {
	p := testProject(t)
	h := NewHistory(p, 0)
	for i := 0; i < DefaultHistoryLimit+1; i++ {
		if err := h.Execute(&MoveBone{Bone: "root", X: float64(i + 1)}); err != nil {
			t.Fatal(err)
		}
	}
	if undo, _ := h.Len(); undo != DefaultHistoryLimit {
		t.Fatalf("expected %d undo entries, got %d", DefaultHistoryLimit, undo)
	}
	for h.CanUndo() {
		if err := h.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	// the first move was evicted, so the oldest reachable state is after it
	if b, _ := p.Skeleton.Bone("root"); b.X != 1 {
		t.Fatalf("expected root.X=1 after undoing everything, got %v", b.X)
	}
}

func TestExecuteClearsRedo(t *testing.T) {
	p := testProject(t)
	h := NewHistory(p, 0)
	h.Execute(&MoveBone{Bone: "root", X: 1})
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected redo available")
	}
	h.Execute(&MoveBone{Bone: "root", X: 2})
	if h.CanRedo() {
		t.Fatal("new command should clear redo")
	}
}

func TestEmptyHistoryNoop(t *testing.T) {
	p := testProject(t)
	h := NewHistory(p, 0)
	before := snapshot(p)
	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("expected ErrNothingToRedo, got %v", err)
	}
	if !snapshot(p).equal(before) {
		t.Fatal("no-op changed the project")
	}
}

func TestRejectedCommandsStayOutOfHistory(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want error
	}{
		{"cycle", &ReparentBone{Bone: "root", Parent: "arm"}, rig.ErrCycle},
		{"duplicate_bone", &CreateBone{Bone: rig.NewBone("arm", 0, 0, 1, 0)}, rig.ErrDuplicateBone},
		{"missing_bone", &MoveBone{Bone: "ghost"}, rig.ErrBoneNotFound},
		{"key_on_missing_bone", KeyPose("ghost", 0, rig.Identity(), rig.Linear), rig.ErrBoneNotFound},
		{"key_past_end", KeyPose("arm", 99, rig.Identity(), rig.Linear), rig.ErrInvalidTime},
		{"bind_missing_bone", &BindInstance{ID: "hand_1", Bone: "ghost"}, rig.ErrBoneNotFound},
		{"missing_instance", &DeleteInstance{ID: "nope"}, ErrInstanceNotFound},
		{"failing_composite", &Composite{Commands: []Command{
			&MoveBone{Bone: "root", X: 5},
			&MoveBone{Bone: "ghost", X: 5},
		}}, rig.ErrBoneNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := testProject(t)
			h := NewHistory(p, 0)
			before := snapshot(p)
			err := h.Execute(tc.cmd)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if h.CanUndo() {
				t.Fatal("rejected command entered history")
			}
			if !snapshot(p).equal(before) {
				t.Fatal("rejected command mutated the project")
			}
		})
	}
}

func TestUndoListAndOnChange(t *testing.T) {
	p := testProject(t)
	h := NewHistory(p, 0)
	calls := 0
	h.OnChange(func() { calls++ })

	h.Execute(&MoveBone{Bone: "root", X: 1})
	h.Execute(&RotateBone{Bone: "root", Angle: 10, Length: 10})
	list := h.UndoList()
	if len(list) != 2 || list[0] != "rotate bone root" || list[1] != "move bone root" {
		t.Fatalf("unexpected undo list %v", list)
	}
	h.Undo()
	if r := h.RedoList(); len(r) != 1 || r[0] != "rotate bone root" {
		t.Fatalf("unexpected redo list %v", r)
	}
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("clear should empty both stacks")
	}
	if calls != 4 {
		t.Fatalf("expected 4 change notifications, got %d", calls)
	}
}

func TestDeleteBoneOrphansDependents(t *testing.T) {
	p := testProject(t)
	h := NewHistory(p, 0)
	h.Execute(KeyPose("arm", 0, rig.Identity(), rig.Linear))
	if err := h.Execute(&DeleteBone{Bone: "arm"}); err != nil {
		t.Fatal(err)
	}
	if inst, _ := p.Instance("hand_1"); inst.BoneName != "arm" {
		t.Fatalf("instance binding should be kept, got %q", inst.BoneName)
	}
	diags := p.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("expected dangling instance and track, got %v", diags)
	}
}

type recordCommand struct {
	seen []*Project
}

func (c *recordCommand) Name() string { return "record" }

func (c *recordCommand) Do(p *Project) error {
	c.seen = append(c.seen, p)
	return nil
}

func (c *recordCommand) Undo(p *Project) error { return nil }

func TestCompositeValidatesBeforeApplying(t *testing.T) {
	p := testProject(t)
	h := NewHistory(p, 0)

	rec := &recordCommand{}
	err := h.Execute(&Composite{Commands: []Command{rec, &MoveBone{Bone: "ghost"}}})
	if !errors.Is(err, rig.ErrBoneNotFound) {
		t.Fatalf("expected ErrBoneNotFound, got %v", err)
	}
	for _, seen := range rec.seen {
		if seen == p {
			t.Fatal("a child ran on the project before the batch was validated")
		}
	}

	rec = &recordCommand{}
	if err := h.Execute(&Composite{Commands: []Command{rec, &MoveBone{Bone: "root", X: 3}}}); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.seen); n != 2 || rec.seen[1] != p {
		t.Fatalf("expected a trial run then the real run, saw %d", n)
	}
	if b, _ := p.Skeleton.Bone("root"); b.X != 3 {
		t.Fatalf("root x = %v, want 3", b.X)
	}
}

func TestProjectCloneIsIndependent(t *testing.T) {
	p := testProject(t)
	c := p.Clone()
	if err := (&MoveBone{Bone: "root", X: 42}).Do(c); err != nil {
		t.Fatal(err)
	}
	if err := KeyPose("arm", 0, rig.Identity(), rig.Linear).Do(c); err != nil {
		t.Fatal(err)
	}
	if b, _ := p.Skeleton.Bone("root"); b.X == 42 {
		t.Fatal("clone shares the skeleton")
	}
	if p.Clip.Track("arm") != nil {
		t.Fatal("clone shares the clip")
	}
	if len(c.Instances()) != len(p.Instances()) {
		t.Fatal("clone lost instances")
	}
}
