package editor

import (
	"fmt"
	"log"

	"github.com/milk9111/rig/rig"
)

// CreateBone adds a bone at the end of the declaration order.
type CreateBone struct {
	Bone rig.Bone
}

func (c *CreateBone) Name() string { return "create bone " + c.Bone.Name }

func (c *CreateBone) Do(p *Project) error {
	return p.Skeleton.Add(c.Bone)
}

func (c *CreateBone) Undo(p *Project) error {
	_, _, err := p.Skeleton.Detach(c.Bone.Name)
	return err
}

// DeleteBone removes a bone. Its children move up to its parent; sprite
// instances and tracks that name it stay in place, unattached.
type DeleteBone struct {
	Bone string

	removed rig.Bone
	pos     int
	moved   []string
}

func (c *DeleteBone) Name() string { return "delete bone " + c.Bone }

func (c *DeleteBone) Do(p *Project) error {
	removed, pos, moved, err := p.Skeleton.Remove(c.Bone)
	if err != nil {
		return err
	}
	c.removed, c.pos, c.moved = removed, pos, moved
	orphans := len(p.InstancesOn(c.Bone))
	if p.Clip.Track(c.Bone) != nil {
		orphans++
	}
	if orphans > 0 {
		log.Printf("history: bone %q deleted, %d dependents left unattached", c.Bone, orphans)
	}
	return nil
}

func (c *DeleteBone) Undo(p *Project) error {
	if err := p.Skeleton.Insert(c.pos, c.removed); err != nil {
		return err
	}
	for _, name := range c.moved {
		if err := p.Skeleton.SetParent(name, c.removed.Name); err != nil {
			return err
		}
	}
	return nil
}

// boneEdit replaces one bone and remembers the previous value.
type boneEdit struct {
	before rig.Bone
}

func (e *boneEdit) apply(p *Project, name string, fn func(b *rig.Bone) error) error {
	b, ok := p.Skeleton.Bone(name)
	if !ok {
		return fmt.Errorf("%w: %s", rig.ErrBoneNotFound, name)
	}
	next := b
	if err := fn(&next); err != nil {
		return err
	}
	if err := p.Skeleton.Replace(next); err != nil {
		return err
	}
	e.before = b
	return nil
}

func (e *boneEdit) revert(p *Project) error {
	return p.Skeleton.Replace(e.before)
}

// MoveBone sets a bone's local position.
type MoveBone struct {
	Bone string
	X, Y float64
	boneEdit
}

func (c *MoveBone) Name() string { return "move bone " + c.Bone }

func (c *MoveBone) Do(p *Project) error {
	return c.apply(p, c.Bone, func(b *rig.Bone) error {
		b.X, b.Y = c.X, c.Y
		return nil
	})
}

func (c *MoveBone) Undo(p *Project) error { return c.revert(p) }

// RotateBone sets a bone's local angle and length.
type RotateBone struct {
	Bone   string
	Angle  float64
	Length float64
	boneEdit
}

func (c *RotateBone) Name() string { return "rotate bone " + c.Bone }

func (c *RotateBone) Do(p *Project) error {
	if c.Length < 0 {
		return fmt.Errorf("editor: negative bone length %v", c.Length)
	}
	return c.apply(p, c.Bone, func(b *rig.Bone) error {
		b.Angle, b.Length = c.Angle, c.Length
		return nil
	})
}

func (c *RotateBone) Undo(p *Project) error { return c.revert(p) }

// ReparentBone links a bone under a new parent, or makes it a root when
// Parent is empty. Edits that would close a cycle are rejected.
type ReparentBone struct {
	Bone   string
	Parent string
	boneEdit
}

func (c *ReparentBone) Name() string { return "reparent bone " + c.Bone }

func (c *ReparentBone) Do(p *Project) error {
	if c.Parent != "" && !p.Skeleton.Has(c.Parent) {
		return fmt.Errorf("%w: %s", rig.ErrBoneNotFound, c.Parent)
	}
	return c.apply(p, c.Bone, func(b *rig.Bone) error {
		b.Parent = c.Parent
		return nil
	})
}

func (c *ReparentBone) Undo(p *Project) error { return c.revert(p) }

// SetBoneLayer moves a bone to a draw layer and position within it.
type SetBoneLayer struct {
	Bone  string
	Layer rig.Layer
	Order int
	boneEdit
}

func (c *SetBoneLayer) Name() string { return "set layer " + c.Bone }

func (c *SetBoneLayer) Do(p *Project) error {
	if !c.Layer.Valid() {
		return fmt.Errorf("editor: unknown layer %q", c.Layer)
	}
	return c.apply(p, c.Bone, func(b *rig.Bone) error {
		b.Layer, b.LayerOrder = c.Layer, c.Order
		return nil
	})
}

func (c *SetBoneLayer) Undo(p *Project) error { return c.revert(p) }

// SetBoneAttachment picks which end of its parent a bone hangs from.
type SetBoneAttachment struct {
	Bone       string
	Attachment rig.AttachmentPoint
	boneEdit
}

func (c *SetBoneAttachment) Name() string { return "set attachment " + c.Bone }

func (c *SetBoneAttachment) Do(p *Project) error {
	if !c.Attachment.Valid() {
		return fmt.Errorf("editor: unknown attachment point %q", c.Attachment)
	}
	return c.apply(p, c.Bone, func(b *rig.Bone) error {
		b.Attachment = c.Attachment
		return nil
	})
}

func (c *SetBoneAttachment) Undo(p *Project) error { return c.revert(p) }
