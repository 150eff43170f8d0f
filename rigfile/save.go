package rigfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/rig"
)

func bonesObject(s *rig.Skeleton) *object {
	obj := &object{}
	for _, b := range s.Bones() {
		x, y, length := b.X, b.Y, b.Length
		w := boneJSON{
			Name:            b.Name,
			X:               &x,
			Y:               &y,
			Length:          &length,
			Angle:           b.Angle,
			Children:        s.Children(b.Name),
			AttachmentPoint: string(b.Attachment),
			Layer:           string(b.Layer),
			LayerOrder:      b.LayerOrder,
		}
		if w.Children == nil {
			w.Children = []string{}
		}
		if b.Parent != "" {
			parent := b.Parent
			w.Parent = &parent
		}
		obj.set(b.Name, w)
	}
	return obj
}

func spritesObject(sprites []rig.SpriteRect) *object {
	obj := &object{}
	for _, r := range sprites {
		w, h, ox, oy := r.Width, r.Height, r.OriginX, r.OriginY
		obj.set(r.Name, spriteJSON{
			Name:    r.Name,
			X:       r.X,
			Y:       r.Y,
			Width:   &w,
			Height:  &h,
			OriginX: &ox,
			OriginY: &oy,
		})
	}
	return obj
}

func instancesObject(instances []rig.SpriteInstance) *object {
	obj := &object{}
	for _, inst := range instances {
		rot, scale := inst.Rotation, inst.Scale
		w := instanceJSON{
			ID:                  inst.ID,
			SpriteName:          inst.SpriteName,
			OffsetX:             inst.OffsetX,
			OffsetY:             inst.OffsetY,
			Rotation:            &rot,
			Scale:               &scale,
			BoneAttachmentPoint: string(inst.Attachment),
		}
		if inst.BoneName != "" {
			bone := inst.BoneName
			w.BoneName = &bone
		}
		obj.set(inst.ID, w)
	}
	return obj
}

func tracksObject(c *rig.Clip) *object {
	obj := &object{}
	for _, tr := range c.Tracks() {
		if tr.Len() == 0 {
			continue
		}
		keys := make([]keyframeJSON, 0, tr.Len())
		for _, k := range tr.Keyframes() {
			time, scale := k.Time, k.Transform.Scale
			keys = append(keys, keyframeJSON{
				Time: &time,
				Transform: &transformJSON{
					X:        k.Transform.X,
					Y:        k.Transform.Y,
					Rotation: k.Transform.Rotation,
					Scale:    &scale,
				},
				Interpolation:    string(k.Interpolation),
				SpriteInstanceID: k.SpriteInstance,
			})
		}
		obj.set(tr.Bone, trackJSON{Keyframes: keys})
	}
	return obj
}

func marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func MarshalBones(s *rig.Skeleton) ([]byte, error) {
	doc := &object{}
	doc.set("bones", bonesObject(s))
	return marshal(doc)
}

func MarshalSprites(sheetPath string, sprites []rig.SpriteRect) ([]byte, error) {
	doc := &object{}
	doc.set("sprite_sheet_path", sheetPath)
	doc.set("sprites", spritesObject(sprites))
	return marshal(doc)
}

// MarshalAttachment writes the project's sheet, sprites, bones and instances.
func MarshalAttachment(p *editor.Project) ([]byte, error) {
	doc := &object{}
	doc.set("sprite_sheet_path", p.SheetPath)
	doc.set("sprites", spritesObject(p.Sprites()))
	doc.set("bones", bonesObject(p.Skeleton))
	doc.set("sprite_instances", instancesObject(p.Instances()))
	return marshal(doc)
}

func MarshalAnimation(c *rig.Clip) ([]byte, error) {
	doc := &object{}
	doc.set("duration", c.Duration)
	doc.set("fps", c.FPS)
	doc.set("animation_tracks", tracksObject(c))
	return marshal(doc)
}

// writeFile creates the parent directory and replaces path with data.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("rigfile: write %s: %w", path, err)
	}
	return nil
}

func SaveBonesFile(path string, s *rig.Skeleton) error {
	data, err := MarshalBones(s)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func SaveSpritesFile(path, sheetPath string, sprites []rig.SpriteRect) error {
	data, err := MarshalSprites(sheetPath, sprites)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func SaveAttachmentFile(path string, p *editor.Project) error {
	data, err := MarshalAttachment(p)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func SaveAnimationFile(path string, c *rig.Clip) error {
	data, err := MarshalAnimation(c)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// MarshalPose describes one bone at a playhead time: its keyframe offset, its
// posed local transform and its world transform.
func MarshalPose(bone string, time float64, offset, local, world rig.Transform) ([]byte, error) {
	doc := &object{}
	doc.set("bone", bone)
	doc.set("time", time)
	for _, part := range []struct {
		name string
		t    rig.Transform
	}{
		{"offset", offset},
		{"local", local},
		{"world", world},
	} {
		scale := part.t.Scale
		doc.set(part.name, transformJSON{X: part.t.X, Y: part.t.Y, Rotation: part.t.Rotation, Scale: &scale})
	}
	return marshal(doc)
}
