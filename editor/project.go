package editor

import (
	"fmt"

	"github.com/milk9111/rig/rig"
)

// Project is the single store every command mutates: the bone graph, the
// sprite sheet rects, the sprite instances bound to bones and one clip.
type Project struct {
	Skeleton  *rig.Skeleton
	Clip      *rig.Clip
	SheetPath string

	sprites   []rig.SpriteRect
	instances []rig.SpriteInstance
}

func NewProject() *Project {
	return &Project{
		Skeleton: rig.NewSkeleton(),
		Clip:     rig.NewClip("animation"),
	}
}

// NewProjectFrom assembles a project from already validated parts.
func NewProjectFrom(s *rig.Skeleton, sprites []rig.SpriteRect, instances []rig.SpriteInstance, clip *rig.Clip) *Project {
	p := NewProject()
	if s != nil {
		p.Skeleton = s
	}
	if clip != nil {
		p.Clip = clip
	}
	p.sprites = append(p.sprites, sprites...)
	p.instances = append(p.instances, instances...)
	return p
}

// Clone deep-copies the project.
func (p *Project) Clone() *Project {
	c := NewProjectFrom(p.Skeleton.Clone(), p.sprites, p.instances, p.Clip.Clone())
	c.SheetPath = p.SheetPath
	return c
}

func (p *Project) Sprites() []rig.SpriteRect {
	return append([]rig.SpriteRect(nil), p.sprites...)
}

// SpriteMap indexes the sprite rects by name.
func (p *Project) SpriteMap() map[string]rig.SpriteRect {
	out := make(map[string]rig.SpriteRect, len(p.sprites))
	for _, s := range p.sprites {
		out[s.Name] = s
	}
	return out
}

func (p *Project) Sprite(name string) (rig.SpriteRect, bool) {
	if i := p.spriteIndex(name); i >= 0 {
		return p.sprites[i], true
	}
	return rig.SpriteRect{}, false
}

func (p *Project) spriteIndex(name string) int {
	for i, s := range p.sprites {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (p *Project) insertSprite(pos int, r rig.SpriteRect) {
	if pos < 0 || pos > len(p.sprites) {
		pos = len(p.sprites)
	}
	p.sprites = append(p.sprites, rig.SpriteRect{})
	copy(p.sprites[pos+1:], p.sprites[pos:])
	p.sprites[pos] = r
}

func (p *Project) removeSprite(name string) (rig.SpriteRect, int, bool) {
	i := p.spriteIndex(name)
	if i < 0 {
		return rig.SpriteRect{}, -1, false
	}
	r := p.sprites[i]
	p.sprites = append(p.sprites[:i], p.sprites[i+1:]...)
	return r, i, true
}

func (p *Project) Instances() []rig.SpriteInstance {
	return append([]rig.SpriteInstance(nil), p.instances...)
}

func (p *Project) Instance(id string) (rig.SpriteInstance, bool) {
	if i := p.instanceIndex(id); i >= 0 {
		return p.instances[i], true
	}
	return rig.SpriteInstance{}, false
}

func (p *Project) instanceIndex(id string) int {
	for i, inst := range p.instances {
		if inst.ID == id {
			return i
		}
	}
	return -1
}

func (p *Project) insertInstance(pos int, inst rig.SpriteInstance) {
	if pos < 0 || pos > len(p.instances) {
		pos = len(p.instances)
	}
	p.instances = append(p.instances, rig.SpriteInstance{})
	copy(p.instances[pos+1:], p.instances[pos:])
	p.instances[pos] = inst
}

func (p *Project) removeInstance(id string) (rig.SpriteInstance, int, bool) {
	i := p.instanceIndex(id)
	if i < 0 {
		return rig.SpriteInstance{}, -1, false
	}
	inst := p.instances[i]
	p.instances = append(p.instances[:i], p.instances[i+1:]...)
	return inst, i, true
}

// NextInstanceID returns the first free "<sprite>_<n>" id.
func (p *Project) NextInstanceID(sprite string) string {
	for n := 1; ; n++ {
		id := fmt.Sprintf("%s_%d", sprite, n)
		if p.instanceIndex(id) < 0 {
			return id
		}
	}
}

// InstancesOn lists the ids of instances bound to bone.
func (p *Project) InstancesOn(bone string) []string {
	var out []string
	for _, inst := range p.instances {
		if inst.BoneName == bone {
			out = append(out, inst.ID)
		}
	}
	return out
}

// Player returns a playback driver over a snapshot of the current rest pose.
func (p *Project) Player() *rig.Player {
	return rig.NewPlayer(p.Skeleton, p.Clip)
}

// Placements resolves every sprite instance on the given pose.
func (p *Project) Placements(rest, pose map[string]rig.Transform) ([]rig.Placement, []rig.Diagnostic) {
	return rig.PlaceAll(p.Skeleton, p.SpriteMap(), p.instances, rest, pose)
}

// Diagnostics reports every non-fatal problem in the project's rest state.
func (p *Project) Diagnostics() []rig.Diagnostic {
	rest, diags := p.Skeleton.Resolve()
	_, more := p.Placements(rest, rest)
	diags = append(diags, more...)
	for _, bone := range p.Clip.Bones() {
		if !p.Skeleton.Has(bone) {
			diags = append(diags, rig.Diagnostic{
				Kind:    rig.DanglingReference,
				Subject: bone,
				Detail:  "animation track targets a missing bone",
			})
		}
	}
	return diags
}
