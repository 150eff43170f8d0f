package rig

import (
	"fmt"
	"math"
	"sort"
)

// SpriteRect is a named region of a sprite sheet. OriginX and OriginY are
// the pivot as fractions of the rect size.
type SpriteRect struct {
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	OriginX float64
	OriginY float64
}

func NewSpriteRect(name string, x, y, w, h int) SpriteRect {
	return SpriteRect{Name: name, X: x, Y: y, Width: w, Height: h, OriginX: 0.5, OriginY: 0.5}
}

func (r SpriteRect) Degenerate() bool {
	return r.Width <= 0 || r.Height <= 0
}

// SpriteInstance places a sprite on a bone. The offset is expressed in the
// bone's frame and follows its rotation.
type SpriteInstance struct {
	ID         string
	SpriteName string
	BoneName   string
	OffsetX    float64
	OffsetY    float64
	Rotation   float64
	Scale      float64
	Attachment AttachmentPoint
}

// Placement is a sprite instance resolved to world space.
type Placement struct {
	Instance SpriteInstance
	Rect     SpriteRect
	X        float64
	Y        float64
	Rotation float64
	Scale    float64
	Layer    Layer
	Order    int
}

// Corners returns the four world corners of the placed rect, clockwise from
// top-left.
func (p Placement) Corners() [4][2]float64 {
	w := float64(p.Rect.Width) * p.Scale
	h := float64(p.Rect.Height) * p.Scale
	left, top := -p.Rect.OriginX*w, -p.Rect.OriginY*h
	local := [4][2]float64{{left, top}, {left + w, top}, {left + w, top + h}, {left, top + h}}
	t := Transform{Rotation: p.Rotation}
	var out [4][2]float64
	for i, c := range local {
		x, y := t.Rotate(c[0], c[1])
		out[i] = [2]float64{p.X + x, p.Y + y}
	}
	return out
}

// Contains reports whether the world point lies inside the placed rect,
// grown by pad on every side.
func (p Placement) Contains(x, y, pad float64) bool {
	if p.Scale == 0 {
		return false
	}
	t := Transform{Rotation: -p.Rotation}
	lx, ly := t.Rotate(x-p.X, y-p.Y)
	w := float64(p.Rect.Width) * math.Abs(p.Scale)
	h := float64(p.Rect.Height) * math.Abs(p.Scale)
	left, top := -p.Rect.OriginX*w, -p.Rect.OriginY*h
	return lx >= left-pad && lx <= left+w+pad && ly >= top-pad && ly <= top+h+pad
}

// Place resolves one instance against a posed skeleton. rest and pose are
// world transforms; the sprite turns by however far its bone has turned
// away from rest. ok is false when the instance cannot be drawn.
func Place(s *Skeleton, sprites map[string]SpriteRect, inst SpriteInstance, rest, pose map[string]Transform) (Placement, bool, []Diagnostic) {
	rect, ok := sprites[inst.SpriteName]
	if !ok {
		return Placement{}, false, []Diagnostic{{
			Kind:    DanglingReference,
			Subject: inst.ID,
			Detail:  fmt.Sprintf("sprite %q not found", inst.SpriteName),
		}}
	}
	if rect.Degenerate() {
		return Placement{}, false, []Diagnostic{{
			Kind:    DegenerateGeometry,
			Subject: inst.ID,
			Detail:  fmt.Sprintf("sprite %q is %dx%d", rect.Name, rect.Width, rect.Height),
		}}
	}
	if inst.BoneName == "" {
		return Placement{}, false, nil
	}
	b, ok := s.Bone(inst.BoneName)
	world, posed := pose[inst.BoneName]
	if !ok || !posed {
		return Placement{}, false, []Diagnostic{{
			Kind:    DanglingReference,
			Subject: inst.ID,
			Detail:  fmt.Sprintf("bone %q not found, instance left unattached", inst.BoneName),
		}}
	}

	ax, ay := AnchorOn(b, world, inst.Attachment)
	ox, oy := world.Rotate(inst.OffsetX, inst.OffsetY)
	delta := 0.0
	if r, ok := rest[inst.BoneName]; ok {
		delta = world.Rotation - r.Rotation
	}
	scale := inst.Scale
	if scale <= 0 {
		scale = 1
	}
	boneScale := world.Scale
	if boneScale == 0 {
		boneScale = 1
	}
	return Placement{
		Instance: inst,
		Rect:     rect,
		X:        ax + ox,
		Y:        ay + oy,
		Rotation: inst.Rotation + delta,
		Scale:    boneScale * scale,
		Layer:    b.Layer,
		Order:    b.LayerOrder,
	}, true, nil
}

// PlaceAll resolves every instance and returns the drawable ones back to
// front: bone layer, then layer order, then instance order.
func PlaceAll(s *Skeleton, sprites map[string]SpriteRect, instances []SpriteInstance, rest, pose map[string]Transform) ([]Placement, []Diagnostic) {
	var (
		out   []Placement
		diags []Diagnostic
	)
	for _, inst := range instances {
		p, ok, d := Place(s, sprites, inst, rest, pose)
		diags = append(diags, d...)
		if ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Layer.Rank() != out[j].Layer.Rank() {
			return out[i].Layer.Rank() < out[j].Layer.Rank()
		}
		return out[i].Order < out[j].Order
	})
	return out, diags
}
