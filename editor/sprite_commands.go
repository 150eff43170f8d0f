package editor

import (
	"errors"
	"fmt"

	"github.com/milk9111/rig/rig"
)

var (
	ErrSpriteNotFound   = errors.New("editor: sprite not found")
	ErrInstanceNotFound = errors.New("editor: sprite instance not found")
)

type CreateSprite struct {
	Rect rig.SpriteRect
}

func (c *CreateSprite) Name() string { return "create sprite " + c.Rect.Name }

func (c *CreateSprite) Do(p *Project) error {
	if c.Rect.Name == "" {
		return rig.ErrEmptyName
	}
	if _, ok := p.Sprite(c.Rect.Name); ok {
		return fmt.Errorf("editor: duplicate sprite %q", c.Rect.Name)
	}
	p.insertSprite(-1, c.Rect)
	return nil
}

func (c *CreateSprite) Undo(p *Project) error {
	if _, _, ok := p.removeSprite(c.Rect.Name); !ok {
		return fmt.Errorf("%w: %s", ErrSpriteNotFound, c.Rect.Name)
	}
	return nil
}

// DeleteSprite removes a sprite rect. Instances that use it are kept and
// report a dangling reference until it comes back.
type DeleteSprite struct {
	Sprite string

	removed rig.SpriteRect
	pos     int
}

func (c *DeleteSprite) Name() string { return "delete sprite " + c.Sprite }

func (c *DeleteSprite) Do(p *Project) error {
	r, pos, ok := p.removeSprite(c.Sprite)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSpriteNotFound, c.Sprite)
	}
	c.removed, c.pos = r, pos
	return nil
}

func (c *DeleteSprite) Undo(p *Project) error {
	p.insertSprite(c.pos, c.removed)
	return nil
}

// spriteEdit replaces one sprite rect in place.
type spriteEdit struct {
	before rig.SpriteRect
}

func (e *spriteEdit) apply(p *Project, name string, fn func(r *rig.SpriteRect)) error {
	i := p.spriteIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSpriteNotFound, name)
	}
	e.before = p.sprites[i]
	fn(&p.sprites[i])
	return nil
}

func (e *spriteEdit) revert(p *Project) error {
	i := p.spriteIndex(e.before.Name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSpriteNotFound, e.before.Name)
	}
	p.sprites[i] = e.before
	return nil
}

// SetSpriteBounds changes the sheet region of a sprite. Zero or negative
// sizes are allowed and surface as degenerate geometry.
type SetSpriteBounds struct {
	Sprite        string
	X, Y          int
	Width, Height int
	spriteEdit
}

func (c *SetSpriteBounds) Name() string { return "resize sprite " + c.Sprite }

func (c *SetSpriteBounds) Do(p *Project) error {
	return c.apply(p, c.Sprite, func(r *rig.SpriteRect) {
		r.X, r.Y, r.Width, r.Height = c.X, c.Y, c.Width, c.Height
	})
}

func (c *SetSpriteBounds) Undo(p *Project) error { return c.revert(p) }

type SetSpriteOrigin struct {
	Sprite           string
	OriginX, OriginY float64
	spriteEdit
}

func (c *SetSpriteOrigin) Name() string { return "set origin " + c.Sprite }

func (c *SetSpriteOrigin) Do(p *Project) error {
	return c.apply(p, c.Sprite, func(r *rig.SpriteRect) {
		r.OriginX, r.OriginY = c.OriginX, c.OriginY
	})
}

func (c *SetSpriteOrigin) Undo(p *Project) error { return c.revert(p) }

// CreateInstance places a sprite in the scene. An empty ID is filled with
// the next free "<sprite>_<n>".
type CreateInstance struct {
	Instance rig.SpriteInstance
}

func (c *CreateInstance) Name() string { return "create instance " + c.Instance.SpriteName }

func (c *CreateInstance) Do(p *Project) error {
	if _, ok := p.Sprite(c.Instance.SpriteName); !ok {
		return fmt.Errorf("%w: %s", ErrSpriteNotFound, c.Instance.SpriteName)
	}
	if c.Instance.BoneName != "" && !p.Skeleton.Has(c.Instance.BoneName) {
		return fmt.Errorf("%w: %s", rig.ErrBoneNotFound, c.Instance.BoneName)
	}
	if c.Instance.ID == "" {
		c.Instance.ID = p.NextInstanceID(c.Instance.SpriteName)
	}
	if _, ok := p.Instance(c.Instance.ID); ok {
		return fmt.Errorf("editor: duplicate instance %q", c.Instance.ID)
	}
	if c.Instance.Scale <= 0 {
		c.Instance.Scale = 1
	}
	if !c.Instance.Attachment.Valid() {
		c.Instance.Attachment = rig.AttachStart
	}
	p.insertInstance(-1, c.Instance)
	return nil
}

func (c *CreateInstance) Undo(p *Project) error {
	if _, _, ok := p.removeInstance(c.Instance.ID); !ok {
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, c.Instance.ID)
	}
	return nil
}

type DeleteInstance struct {
	ID string

	removed rig.SpriteInstance
	pos     int
}

func (c *DeleteInstance) Name() string { return "delete instance " + c.ID }

func (c *DeleteInstance) Do(p *Project) error {
	inst, pos, ok := p.removeInstance(c.ID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, c.ID)
	}
	c.removed, c.pos = inst, pos
	return nil
}

func (c *DeleteInstance) Undo(p *Project) error {
	p.insertInstance(c.pos, c.removed)
	return nil
}

type instanceEdit struct {
	before rig.SpriteInstance
}

func (e *instanceEdit) apply(p *Project, id string, fn func(inst *rig.SpriteInstance) error) error {
	i := p.instanceIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	next := p.instances[i]
	if err := fn(&next); err != nil {
		return err
	}
	e.before = p.instances[i]
	p.instances[i] = next
	return nil
}

func (e *instanceEdit) revert(p *Project) error {
	i := p.instanceIndex(e.before.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, e.before.ID)
	}
	p.instances[i] = e.before
	return nil
}

// SetInstanceOffset moves, turns or scales an instance relative to its bone.
type SetInstanceOffset struct {
	ID       string
	OffsetX  float64
	OffsetY  float64
	Rotation float64
	Scale    float64
	instanceEdit
}

func (c *SetInstanceOffset) Name() string { return "offset instance " + c.ID }

func (c *SetInstanceOffset) Do(p *Project) error {
	return c.apply(p, c.ID, func(inst *rig.SpriteInstance) error {
		if c.Scale <= 0 {
			return fmt.Errorf("editor: instance scale must be positive, got %v", c.Scale)
		}
		inst.OffsetX, inst.OffsetY = c.OffsetX, c.OffsetY
		inst.Rotation, inst.Scale = c.Rotation, c.Scale
		return nil
	})
}

func (c *SetInstanceOffset) Undo(p *Project) error { return c.revert(p) }

// BindInstance attaches an instance to a bone end, or detaches it when Bone
// is empty.
type BindInstance struct {
	ID         string
	Bone       string
	Attachment rig.AttachmentPoint
	instanceEdit
}

func (c *BindInstance) Name() string {
	if c.Bone == "" {
		return "unbind instance " + c.ID
	}
	return "bind instance " + c.ID
}

func (c *BindInstance) Do(p *Project) error {
	if c.Bone != "" && !p.Skeleton.Has(c.Bone) {
		return fmt.Errorf("%w: %s", rig.ErrBoneNotFound, c.Bone)
	}
	return c.apply(p, c.ID, func(inst *rig.SpriteInstance) error {
		inst.BoneName = c.Bone
		if c.Attachment.Valid() {
			inst.Attachment = c.Attachment
		}
		return nil
	})
}

func (c *BindInstance) Undo(p *Project) error { return c.revert(p) }
