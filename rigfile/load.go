package rigfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/rig"
)

const (
	DocBones      = "bone project"
	DocSprites    = "sprite project"
	DocAttachment = "attachment config"
	DocAnimation  = "animation clip"
)

// BoneProject is a loaded bone document.
type BoneProject struct {
	Skeleton    *rig.Skeleton
	Diagnostics []rig.Diagnostic
}

// SpriteProject is a loaded sprite sheet document.
type SpriteProject struct {
	SheetPath   string
	Sprites     []rig.SpriteRect
	Diagnostics []rig.Diagnostic
}

// AttachmentConfig binds sprites to bones.
type AttachmentConfig struct {
	SheetPath   string
	Skeleton    *rig.Skeleton
	Sprites     []rig.SpriteRect
	Instances   []rig.SpriteInstance
	Diagnostics []rig.Diagnostic
}

// Animation is a loaded clip.
type Animation struct {
	Clip *rig.Clip
}

// Project builds an editable project from the attachment config and an
// optional clip.
func (a *AttachmentConfig) Project(anim *Animation) *editor.Project {
	var clip *rig.Clip
	if anim != nil {
		clip = anim.Clip
	}
	p := editor.NewProjectFrom(a.Skeleton, a.Sprites, a.Instances, clip)
	p.SheetPath = a.SheetPath
	return p
}

func decodeDocument(doc string, data []byte) (documentJSON, error) {
	var d documentJSON
	if err := json.Unmarshal(data, &d); err != nil {
		return d, &LoadError{Document: doc, Err: err}
	}
	return d, nil
}

func LoadBones(data []byte) (*BoneProject, error) {
	d, err := decodeDocument(DocBones, data)
	if err != nil {
		return nil, err
	}
	if d.Bones == nil {
		return nil, &LoadError{Document: DocBones, Err: missing("document", "bones")}
	}
	s, err := decodeBones(d.Bones)
	if err != nil {
		return nil, &LoadError{Document: DocBones, Err: err}
	}
	out := &BoneProject{Skeleton: s, Diagnostics: s.Validate()}
	rig.LogDiagnostics("rigfile", out.Diagnostics)
	return out, nil
}

func LoadSprites(data []byte) (*SpriteProject, error) {
	d, err := decodeDocument(DocSprites, data)
	if err != nil {
		return nil, err
	}
	if d.Sprites == nil {
		return nil, &LoadError{Document: DocSprites, Err: missing("document", "sprites")}
	}
	sprites, err := decodeSprites(d.Sprites)
	if err != nil {
		return nil, &LoadError{Document: DocSprites, Err: err}
	}
	out := &SpriteProject{SheetPath: d.SpriteSheetPath, Sprites: sprites, Diagnostics: degenerate(sprites)}
	rig.LogDiagnostics("rigfile", out.Diagnostics)
	return out, nil
}

func LoadAttachment(data []byte) (*AttachmentConfig, error) {
	d, err := decodeDocument(DocAttachment, data)
	if err != nil {
		return nil, err
	}
	s := rig.NewSkeleton()
	if d.Bones != nil {
		if s, err = decodeBones(d.Bones); err != nil {
			return nil, &LoadError{Document: DocAttachment, Err: err}
		}
	}
	sprites, err := decodeSprites(d.Sprites)
	if err != nil {
		return nil, &LoadError{Document: DocAttachment, Err: err}
	}
	instances, err := decodeInstances(d.SpriteInstances)
	if err != nil {
		return nil, &LoadError{Document: DocAttachment, Err: err}
	}
	p := editor.NewProjectFrom(s, sprites, instances, nil)
	out := &AttachmentConfig{
		SheetPath:   d.SpriteSheetPath,
		Skeleton:    s,
		Sprites:     sprites,
		Instances:   instances,
		Diagnostics: append(degenerate(sprites), p.Diagnostics()...),
	}
	rig.LogDiagnostics("rigfile", out.Diagnostics)
	return out, nil
}

func LoadAnimation(data []byte) (*Animation, error) {
	d, err := decodeDocument(DocAnimation, data)
	if err != nil {
		return nil, err
	}
	clip := rig.NewClip("animation")
	if d.Duration != nil {
		clip.Duration = *d.Duration
	}
	if d.FPS != nil {
		clip.FPS = *d.FPS
	}
	if clip.Duration <= 0 || clip.FPS <= 0 {
		return nil, &LoadError{Document: DocAnimation, Err: fmt.Errorf("invalid timing %.3fs @ %dfps", clip.Duration, clip.FPS)}
	}
	raw := d.AnimationTracks
	if raw == nil {
		raw = d.BoneTracks
	}
	if err := decodeTracks(clip, raw); err != nil {
		return nil, &LoadError{Document: DocAnimation, Err: err}
	}
	return &Animation{Clip: clip}, nil
}

func readFile(doc, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Document: doc, Path: path, Err: err}
	}
	return data, nil
}

func withPath(err error, path string) error {
	var le *LoadError
	if errors.As(err, &le) {
		le.Path = path
	}
	return err
}

func LoadBonesFile(path string) (*BoneProject, error) {
	data, err := readFile(DocBones, path)
	if err != nil {
		return nil, err
	}
	out, err := LoadBones(data)
	return out, withPath(err, path)
}

func LoadSpritesFile(path string) (*SpriteProject, error) {
	data, err := readFile(DocSprites, path)
	if err != nil {
		return nil, err
	}
	out, err := LoadSprites(data)
	return out, withPath(err, path)
}

func LoadAttachmentFile(path string) (*AttachmentConfig, error) {
	data, err := readFile(DocAttachment, path)
	if err != nil {
		return nil, err
	}
	out, err := LoadAttachment(data)
	return out, withPath(err, path)
}

func LoadAnimationFile(path string) (*Animation, error) {
	data, err := readFile(DocAnimation, path)
	if err != nil {
		return nil, err
	}
	out, err := LoadAnimation(data)
	return out, withPath(err, path)
}

func decodeBones(raw json.RawMessage) (*rig.Skeleton, error) {
	keys, values, err := orderedEntries[boneJSON](raw)
	if err != nil {
		return nil, fmt.Errorf("bones: %w", err)
	}
	bones := make([]rig.Bone, 0, len(keys))
	for _, name := range keys {
		w := values[name]
		if w.X == nil {
			return nil, missing(name, "x")
		}
		if w.Y == nil {
			return nil, missing(name, "y")
		}
		if w.Length == nil {
			return nil, missing(name, "length")
		}
		b := rig.NewBone(name, *w.X, *w.Y, *w.Length, w.Angle)
		if w.Parent != nil {
			b.Parent = *w.Parent
		}
		b.LayerOrder = w.LayerOrder

		at := w.AttachmentPoint
		if at == "" {
			at = w.ParentAttachmentPoint
		}
		switch {
		case at == "":
		case rig.AttachmentPoint(at).Valid():
			b.Attachment = rig.AttachmentPoint(at)
		default:
			log.Printf("rigfile: bone %q: unknown attachment point %q, using end", name, at)
		}
		switch {
		case w.Layer == "":
		case rig.Layer(w.Layer).Valid():
			b.Layer = rig.Layer(w.Layer)
		default:
			log.Printf("rigfile: bone %q: unknown layer %q, using middle", name, w.Layer)
		}
		bones = append(bones, b)
	}
	s, err := rig.BuildSkeleton(bones)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeSprites(raw json.RawMessage) ([]rig.SpriteRect, error) {
	keys, values, err := orderedEntries[spriteJSON](raw)
	if err != nil {
		return nil, fmt.Errorf("sprites: %w", err)
	}
	out := make([]rig.SpriteRect, 0, len(keys))
	for _, name := range keys {
		w := values[name]
		if w.Width == nil {
			return nil, missing(name, "width")
		}
		if w.Height == nil {
			return nil, missing(name, "height")
		}
		r := rig.NewSpriteRect(name, w.X, w.Y, *w.Width, *w.Height)
		if w.OriginX != nil {
			r.OriginX = *w.OriginX
		}
		if w.OriginY != nil {
			r.OriginY = *w.OriginY
		}
		out = append(out, r)
	}
	return out, nil
}

func decodeInstances(raw json.RawMessage) ([]rig.SpriteInstance, error) {
	keys, values, err := orderedEntries[instanceJSON](raw)
	if err != nil {
		return nil, fmt.Errorf("sprite_instances: %w", err)
	}
	out := make([]rig.SpriteInstance, 0, len(keys))
	for _, id := range keys {
		w := values[id]
		if w.SpriteName == "" {
			return nil, missing(id, "sprite_name")
		}
		inst := rig.SpriteInstance{
			ID:         id,
			SpriteName: w.SpriteName,
			OffsetX:    w.OffsetX,
			OffsetY:    w.OffsetY,
			Scale:      1,
			Attachment: rig.AttachStart,
		}
		if w.BoneName != nil {
			inst.BoneName = *w.BoneName
		}
		switch {
		case w.Rotation != nil:
			inst.Rotation = *w.Rotation
		case w.OffsetRotation != nil:
			inst.Rotation = *w.OffsetRotation
		}
		if w.Scale != nil && *w.Scale > 0 {
			inst.Scale = *w.Scale
		}
		if at := rig.AttachmentPoint(w.BoneAttachmentPoint); at.Valid() {
			inst.Attachment = at
		}
		out = append(out, inst)
	}
	return out, nil
}

func decodeTracks(clip *rig.Clip, raw json.RawMessage) error {
	keys, values, err := orderedEntries[trackJSON](raw)
	if err != nil {
		return fmt.Errorf("animation_tracks: %w", err)
	}
	for _, bone := range keys {
		tr := rig.NewTrack(bone)
		for i, w := range values[bone].Keyframes {
			subject := fmt.Sprintf("%s.keyframes[%d]", bone, i)
			if w.Time == nil {
				return missing(subject, "time")
			}
			if w.Transform == nil {
				return missing(subject, "transform")
			}
			k := rig.Keyframe{
				Time: *w.Time,
				Transform: rig.Transform{
					X:        w.Transform.X,
					Y:        w.Transform.Y,
					Rotation: w.Transform.Rotation,
					Scale:    1,
				},
				Interpolation:  rig.Interpolation(w.Interpolation),
				SpriteInstance: w.SpriteInstanceID,
			}
			if w.Transform.Scale != nil {
				k.Transform.Scale = *w.Transform.Scale
			}
			if w.Interpolation != "" && !k.Interpolation.Valid() {
				log.Printf("rigfile: %s: unknown interpolation %q, using linear", subject, w.Interpolation)
			}
			if _, replaced, err := tr.Set(k); err != nil {
				return fmt.Errorf("%s: %w", subject, err)
			} else if replaced {
				log.Printf("rigfile: %s: duplicate key at %.3fs overwrites the earlier one", subject, k.Time)
			}
		}
		clip.SetTrack(tr)
	}
	return nil
}

func degenerate(sprites []rig.SpriteRect) []rig.Diagnostic {
	var diags []rig.Diagnostic
	for _, r := range sprites {
		if r.Degenerate() {
			diags = append(diags, rig.Diagnostic{
				Kind:    rig.DegenerateGeometry,
				Subject: r.Name,
				Detail:  fmt.Sprintf("size %dx%d", r.Width, r.Height),
			})
		}
	}
	return diags
}
