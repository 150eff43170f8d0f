package editor

import (
	"math"
	"sort"

	"github.com/milk9111/rig/rig"
)

type ElementKind int

const (
	ElementBone ElementKind = iota + 1
	ElementInstance
)

func (k ElementKind) String() string {
	switch k {
	case ElementBone:
		return "bone"
	case ElementInstance:
		return "instance"
	}
	return "none"
}

// Part is the piece of an element that was hit. Lower values win when one
// element is hit on several parts.
type Part int

const (
	PartEnd Part = iota
	PartStart
	PartBody
	PartSprite
)

// Candidate is one element under a click.
type Candidate struct {
	Kind ElementKind
	Name string
	Part Part

	Layer       rig.Layer
	LayerOrder  int
	Declaration int
}

func (c Candidate) key() string {
	return c.Kind.String() + ":" + c.Name
}

// HitTester finds the elements within tolerance of a world point.
type HitTester interface {
	HitTest(x, y, tolerance float64) []Candidate
}

// Selector resolves repeated clicks on overlapping elements by cycling
// through them. A click near the previous one with the same elements under
// it advances to the next candidate; anything else starts over at the top.
type Selector struct {
	Zoom         float64
	MinTolerance float64
	ClickEpsilon float64

	lastX, lastY float64
	hasLast      bool
	candidates   []Candidate
	index        int
}

func NewSelector() *Selector {
	return &Selector{Zoom: 1, MinTolerance: 5, ClickEpsilon: 3}
}

// EffectiveTolerance converts a screen tolerance to world units at the
// current zoom, never below MinTolerance.
func (s *Selector) EffectiveTolerance(tolerance float64) float64 {
	zoom := s.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return math.Max(s.MinTolerance, tolerance/zoom)
}

// Click runs a hit test at (x, y) and returns the selected candidate.
func (s *Selector) Click(h HitTester, x, y, tolerance float64) (Candidate, bool) {
	found := Rank(h.HitTest(x, y, s.EffectiveTolerance(tolerance)))

	same := s.hasLast && math.Hypot(x-s.lastX, y-s.lastY) <= s.ClickEpsilon && sameCandidates(found, s.candidates)
	s.lastX, s.lastY, s.hasLast = x, y, true
	s.candidates = found
	if len(found) == 0 {
		s.index = 0
		return Candidate{}, false
	}
	if same {
		s.index = (s.index + 1) % len(found)
	} else {
		s.index = 0
	}
	return found[s.index], true
}

// Selected returns the current candidate, if any.
func (s *Selector) Selected() (Candidate, bool) {
	if len(s.candidates) == 0 {
		return Candidate{}, false
	}
	return s.candidates[s.index], true
}

func (s *Selector) Candidates() []Candidate {
	return append([]Candidate(nil), s.candidates...)
}

// Index is the position of the current selection among the candidates.
func (s *Selector) Index() int {
	return s.index
}

func (s *Selector) Reset() {
	s.hasLast = false
	s.candidates = nil
	s.index = 0
}

// Rank keeps the best part of each element and orders the result: front
// layers first, then higher layer order, then declaration order.
func Rank(found []Candidate) []Candidate {
	best := make(map[string]int, len(found))
	out := make([]Candidate, 0, len(found))
	for _, c := range found {
		if i, ok := best[c.key()]; ok {
			if c.Part < out[i].Part {
				out[i] = c
			}
			continue
		}
		best[c.key()] = len(out)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Layer.Rank() != b.Layer.Rank() {
			return a.Layer.Rank() > b.Layer.Rank()
		}
		if a.LayerOrder != b.LayerOrder {
			return a.LayerOrder > b.LayerOrder
		}
		if a.Declaration != b.Declaration {
			return a.Declaration < b.Declaration
		}
		return a.Part < b.Part
	})
	return out
}

func sameCandidates(a, b []Candidate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].key() != b[i].key() {
			return false
		}
	}
	return true
}
