package editor

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rig/rig"
)

// bodyTolerance shrinks the hit radius along a bone's shaft so the end
// points stay easy to grab.
const bodyTolerance = 0.7

type boneShape struct {
	candidate Candidate
	scale     float64
}

// BoneHitTester tests clicks against bones laid out on a resolved pose. Each
// bone contributes a start point, an end point and its shaft to a static
// chipmunk space.
type BoneHitTester struct {
	space *cp.Space
}

func NewBoneHitTester(s *rig.Skeleton, world map[string]rig.Transform) *BoneHitTester {
	space := cp.NewSpace()
	for i, b := range s.Bones() {
		w, ok := world[b.Name]
		if !ok {
			continue
		}
		start := cp.Vector{X: w.X, Y: w.Y}
		ex, ey := w.Along(b.Length)
		end := cp.Vector{X: ex, Y: ey}

		base := Candidate{
			Kind:        ElementBone,
			Name:        b.Name,
			Layer:       b.Layer,
			LayerOrder:  b.LayerOrder,
			Declaration: i,
		}
		add := func(shape *cp.Shape, part Part, scale float64) {
			c := base
			c.Part = part
			shape.UserData = boneShape{candidate: c, scale: scale}
			space.AddShape(shape)
		}
		add(cp.NewCircle(space.StaticBody, 0, end), PartEnd, 1)
		add(cp.NewCircle(space.StaticBody, 0, start), PartStart, 1)
		if b.Length > 0 {
			add(cp.NewSegment(space.StaticBody, start, end, 0), PartBody, bodyTolerance)
		}
	}
	return &BoneHitTester{space: space}
}

func (h *BoneHitTester) HitTest(x, y, tolerance float64) []Candidate {
	var out []Candidate
	pt := cp.Vector{X: x, Y: y}
	h.space.BBQuery(cp.NewBBForCircle(pt, tolerance), cp.SHAPE_FILTER_ALL,
		func(shape *cp.Shape, _ interface{}) {
			bs, ok := shape.UserData.(boneShape)
			if !ok || shape.PointQuery(pt).Distance > tolerance*bs.scale {
				return
			}
			out = append(out, bs.candidate)
		}, nil)
	return out
}

// InstanceHitTester tests clicks against placed sprite rects.
type InstanceHitTester struct {
	placements []rig.Placement
	order      map[string]int
}

func NewInstanceHitTester(placements []rig.Placement, instances []rig.SpriteInstance) *InstanceHitTester {
	order := make(map[string]int, len(instances))
	for i, inst := range instances {
		order[inst.ID] = i
	}
	return &InstanceHitTester{placements: placements, order: order}
}

func (h *InstanceHitTester) HitTest(x, y, _ float64) []Candidate {
	var out []Candidate
	for _, p := range h.placements {
		if !p.Contains(x, y, 0) {
			continue
		}
		out = append(out, Candidate{
			Kind:        ElementInstance,
			Name:        p.Instance.ID,
			Part:        PartSprite,
			Layer:       p.Layer,
			LayerOrder:  p.Order,
			Declaration: h.order[p.Instance.ID],
		})
	}
	return out
}

// MultiHitTester merges the results of several testers.
type MultiHitTester []HitTester

func (m MultiHitTester) HitTest(x, y, tolerance float64) []Candidate {
	var out []Candidate
	for _, h := range m {
		out = append(out, h.HitTest(x, y, tolerance)...)
	}
	return out
}
