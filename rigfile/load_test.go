package rigfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/rig"
)

const bonesDoc = `{
  "bones": {
    "torso": {"name": "torso", "x": 0, "y": 0, "length": 20, "angle": -90, "parent": null, "children": ["neck", "arm"]},
    "neck": {"name": "neck", "x": 0, "y": 0, "length": 4, "angle": 0, "parent": "torso", "children": [], "layer": "front", "layer_order": 2},
    "arm": {"name": "arm", "x": 1, "y": 2, "length": 10, "angle": 45, "parent": "torso", "children": [], "parent_attachment_point": "start"}
  }
}`

func TestLoadBones(t *testing.T) {
	out, err := LoadBones([]byte(bonesDoc))
	if err != nil {
		t.Fatalf("LoadBones: %v", err)
	}
	s := out.Skeleton
	if got, want := s.Names(), []string{"torso", "neck", "arm"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	neck, _ := s.Bone("neck")
	if neck.Layer != rig.LayerFront || neck.LayerOrder != 2 || neck.Attachment != rig.AttachEnd {
		t.Fatalf("neck = %+v", neck)
	}
	arm, _ := s.Bone("arm")
	if arm.Attachment != rig.AttachStart || arm.Layer != rig.LayerMiddle {
		t.Fatalf("arm = %+v", arm)
	}
	if len(out.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %v", out.Diagnostics)
	}
}

func TestLoadBonesKeepsDocumentOrder(t *testing.T) {
	doc := `{"bones": {
		"z": {"x": 0, "y": 0, "length": 1},
		"a": {"x": 0, "y": 0, "length": 1, "parent": "z"},
		"m": {"x": 0, "y": 0, "length": 1}
	}}`
	out, err := LoadBones([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := out.Skeleton.Names(), []string{"z", "a", "m"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}

func TestLoadBonesDanglingParent(t *testing.T) {
	doc := `{"bones": {"hand": {"x": 1, "y": 1, "length": 2, "parent": "ghost"}}}`
	out, err := LoadBones([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Kind != rig.DanglingReference {
		t.Fatalf("diagnostics = %v", out.Diagnostics)
	}
	world, _ := out.Skeleton.Resolve()
	if got := world["hand"]; got.X != 1 || got.Y != 1 {
		t.Fatalf("hand resolved at %+v, want root placement", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		load   func([]byte) error
		doc    string
		target error
	}{
		{
			name: "malformed",
			load: func(b []byte) error { _, err := LoadBones(b); return err },
			doc:  `{"bones": {`,
		},
		{
			name:   "missing_bones",
			load:   func(b []byte) error { _, err := LoadBones(b); return err },
			doc:    `{}`,
			target: ErrMissingField,
		},
		{
			name:   "missing_length",
			load:   func(b []byte) error { _, err := LoadBones(b); return err },
			doc:    `{"bones": {"a": {"x": 0, "y": 0}}}`,
			target: ErrMissingField,
		},
		{
			name:   "cycle",
			load:   func(b []byte) error { _, err := LoadBones(b); return err },
			doc:    `{"bones": {"a": {"x": 0, "y": 0, "length": 1, "parent": "b"}, "b": {"x": 0, "y": 0, "length": 1, "parent": "a"}}}`,
			target: rig.ErrCycle,
		},
		{
			name: "duplicate_key",
			load: func(b []byte) error { _, err := LoadBones(b); return err },
			doc:  `{"bones": {"a": {"x": 0, "y": 0, "length": 1}, "a": {"x": 1, "y": 0, "length": 1}}}`,
		},
		{
			name:   "sprite_without_width",
			load:   func(b []byte) error { _, err := LoadSprites(b); return err },
			doc:    `{"sprite_sheet_path": "s.png", "sprites": {"head": {"x": 0, "y": 0, "height": 4}}}`,
			target: ErrMissingField,
		},
		{
			name:   "keyframe_without_time",
			load:   func(b []byte) error { _, err := LoadAnimation(b); return err },
			doc:    `{"duration": 1, "fps": 30, "animation_tracks": {"a": {"keyframes": [{"transform": {"x": 0, "y": 0, "rotation": 0}}]}}}`,
			target: ErrMissingField,
		},
		{
			name:   "negative_key_time",
			load:   func(b []byte) error { _, err := LoadAnimation(b); return err },
			doc:    `{"duration": 1, "fps": 30, "animation_tracks": {"a": {"keyframes": [{"time": -1, "transform": {"x": 0, "y": 0, "rotation": 0}}]}}}`,
			target: rig.ErrInvalidTime,
		},
		{
			name: "zero_fps",
			load: func(b []byte) error { _, err := LoadAnimation(b); return err },
			doc:  `{"duration": 1, "fps": 0, "animation_tracks": {}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.load([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not a *LoadError: %v", err, err)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Fatalf("error %v does not wrap %v", err, tt.target)
			}
		})
	}
}

func TestLoadAttachment(t *testing.T) {
	doc := `{
	  "sprite_sheet_path": "sheet.png",
	  "sprites": {
	    "head": {"name": "head", "x": 0, "y": 0, "width": 16, "height": 16},
	    "blank": {"name": "blank", "x": 16, "y": 0, "width": 0, "height": 8}
	  },
	  "bones": {"neck": {"x": 0, "y": 0, "length": 10, "angle": 0, "parent": null}},
	  "sprite_instances": {
	    "head_1": {"id": "head_1", "sprite_name": "head", "bone_name": "neck", "offset_x": 2, "offset_y": 0, "offset_rotation": 15, "scale": 0},
	    "head_2": {"id": "head_2", "sprite_name": "head", "bone_name": "ghost", "offset_x": 0, "offset_y": 0, "bone_attachment_point": "end"}
	  }
	}`
	cfg, err := LoadAttachment([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SheetPath != "sheet.png" || len(cfg.Sprites) != 2 || len(cfg.Instances) != 2 {
		t.Fatalf("config = %+v", cfg)
	}
	first := cfg.Instances[0]
	if first.Rotation != 15 || first.Scale != 1 || first.Attachment != rig.AttachStart {
		t.Fatalf("head_1 = %+v", first)
	}
	if cfg.Instances[1].Attachment != rig.AttachEnd {
		t.Fatalf("head_2 = %+v", cfg.Instances[1])
	}

	kinds := map[rig.DiagnosticKind]int{}
	for _, d := range cfg.Diagnostics {
		kinds[d.Kind]++
	}
	if kinds[rig.DanglingReference] != 1 || kinds[rig.DegenerateGeometry] != 1 {
		t.Fatalf("diagnostics = %v", cfg.Diagnostics)
	}

	p := cfg.Project(nil)
	if p.SheetPath != "sheet.png" || !p.Skeleton.Has("neck") {
		t.Fatalf("project = %+v", p)
	}
}

func TestLoadAnimationAcceptsBoneTracks(t *testing.T) {
	doc := `{
	  "duration": 2,
	  "fps": 24,
	  "bone_tracks": {
	    "arm": {"keyframes": [
	      {"time": 1, "transform": {"x": 0, "y": 0, "rotation": 90, "scale": 1}, "interpolation": "ease_in"},
	      {"time": 0, "transform": {"x": 0, "y": 0, "rotation": 0}, "interpolation": "wobble"}
	    ]}
	  }
	}`
	anim, err := LoadAnimation([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	c := anim.Clip
	if c.Duration != 2 || c.FPS != 24 {
		t.Fatalf("timing = %v @ %d", c.Duration, c.FPS)
	}
	tr := c.Track("arm")
	if tr == nil || tr.Len() != 2 {
		t.Fatalf("arm track = %+v", tr)
	}
	first, _ := tr.Keyframe(0)
	if first.Time != 0 || first.Interpolation != rig.Linear || first.Transform.Scale != 1 {
		t.Fatalf("first key = %+v", first)
	}
	if got := tr.Evaluate(0.5).Rotation; got != 45 {
		t.Fatalf("rotation at 0.5 = %v, want 45", got)
	}
}

func TestRoundTripFiles(t *testing.T) {
	dir := t.TempDir()

	bones, err := LoadBones([]byte(bonesDoc))
	if err != nil {
		t.Fatal(err)
	}
	clip := rig.NewClip("walk")
	if err := clip.SetTiming(1.5, 12); err != nil {
		t.Fatal(err)
	}
	tr := clip.EnsureTrack("arm")
	for _, k := range []rig.Keyframe{
		{Time: 0, Transform: rig.Identity(), Interpolation: rig.EaseOut},
		{Time: 1, Transform: rig.Transform{X: 1, Y: -1, Rotation: 30, Scale: 2}, SpriteInstance: "hand_1"},
	} {
		if _, _, err := tr.Set(k); err != nil {
			t.Fatal(err)
		}
	}
	p := editor.NewProjectFrom(bones.Skeleton,
		[]rig.SpriteRect{rig.NewSpriteRect("hand", 4, 8, 12, 6)},
		[]rig.SpriteInstance{{ID: "hand_1", SpriteName: "hand", BoneName: "arm", OffsetX: 3, Rotation: 10, Scale: 1.5, Attachment: rig.AttachEnd}},
		clip)
	p.SheetPath = "sheet.png"

	bonesPath := filepath.Join(dir, "rig", "bones.json")
	attachPath := filepath.Join(dir, "rig", "attachment.json")
	spritesPath := filepath.Join(dir, "sprites.json")
	animPath := filepath.Join(dir, "walk.json")
	if err := SaveBonesFile(bonesPath, p.Skeleton); err != nil {
		t.Fatal(err)
	}
	if err := SaveAttachmentFile(attachPath, p); err != nil {
		t.Fatal(err)
	}
	if err := SaveSpritesFile(spritesPath, p.SheetPath, p.Sprites()); err != nil {
		t.Fatal(err)
	}
	if err := SaveAnimationFile(animPath, p.Clip); err != nil {
		t.Fatal(err)
	}

	gotBones, err := LoadBonesFile(bonesPath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotBones.Skeleton.Bones(), p.Skeleton.Bones()) {
		t.Fatalf("bones = %+v, want %+v", gotBones.Skeleton.Bones(), p.Skeleton.Bones())
	}

	gotSprites, err := LoadSpritesFile(spritesPath)
	if err != nil {
		t.Fatal(err)
	}
	if gotSprites.SheetPath != "sheet.png" || !reflect.DeepEqual(gotSprites.Sprites, p.Sprites()) {
		t.Fatalf("sprites = %+v", gotSprites)
	}

	cfg, err := LoadAttachmentFile(attachPath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Instances, p.Instances()) {
		t.Fatalf("instances = %+v, want %+v", cfg.Instances, p.Instances())
	}
	if !reflect.DeepEqual(cfg.Skeleton.Bones(), p.Skeleton.Bones()) {
		t.Fatal("attachment bones differ")
	}

	anim, err := LoadAnimationFile(animPath)
	if err != nil {
		t.Fatal(err)
	}
	if anim.Clip.Duration != 1.5 || anim.Clip.FPS != 12 {
		t.Fatalf("timing = %v @ %d", anim.Clip.Duration, anim.Clip.FPS)
	}
	if !reflect.DeepEqual(anim.Clip.Track("arm").Keyframes(), tr.Keyframes()) {
		t.Fatalf("keys = %+v, want %+v", anim.Clip.Track("arm").Keyframes(), tr.Keyframes())
	}
}

func TestMarshalUsesCanonicalNames(t *testing.T) {
	bones, err := LoadBones([]byte(bonesDoc))
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalBones(bones.Skeleton)
	if err != nil {
		t.Fatal(err)
	}
	var d documentJSON
	if err := json.Unmarshal(data, &d); err != nil {
		t.Fatal(err)
	}
	keys, err := objectKeys(d.Bones)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"torso", "neck", "arm"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("saved order = %v, want %v", keys, want)
	}
	_, values, err := orderedEntries[boneJSON](d.Bones)
	if err != nil {
		t.Fatal(err)
	}
	if values["torso"].Parent != nil {
		t.Fatalf("root parent = %v, want null", *values["torso"].Parent)
	}
	if got := values["torso"].Children; !reflect.DeepEqual(got, []string{"neck", "arm"}) {
		t.Fatalf("torso children = %v", got)
	}
	if values["arm"].AttachmentPoint != "start" || values["arm"].ParentAttachmentPoint != "" {
		t.Fatalf("arm = %+v", values["arm"])
	}
}

func TestLoadFileErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"bones": 3}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadBonesFile(path)
	var le *LoadError
	if !errors.As(err, &le) || le.Path != path || le.Document != DocBones {
		t.Fatalf("err = %v", err)
	}

	_, err = LoadAnimationFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.As(err, &le) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}

func TestMarshalPose(t *testing.T) {
	offset := rig.Transform{Rotation: 30, Scale: 1}
	local := rig.Transform{X: 1, Y: 2, Rotation: 75, Scale: 1}
	world := rig.Transform{X: 5, Y: 6, Rotation: -15, Scale: 2}

	data, err := MarshalPose("arm", 0.5, offset, local, world)
	if err != nil {
		t.Fatal(err)
	}
	keys, err := objectKeys(data)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"bone", "time", "offset", "local", "world"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	var got struct {
		Bone  string        `json:"bone"`
		Time  float64       `json:"time"`
		World transformJSON `json:"world"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Bone != "arm" || got.Time != 0.5 {
		t.Fatalf("header = %+v", got)
	}
	if got.World.X != 5 || got.World.Rotation != -15 || got.World.Scale == nil || *got.World.Scale != 2 {
		t.Fatalf("world = %+v", got.World)
	}
}
