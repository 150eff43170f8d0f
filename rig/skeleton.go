package rig

import (
	"fmt"
	"sort"
)

// Skeleton is an arena of bones kept in declaration order. Parent links are
// names; child lists and the evaluation order are derived and rebuilt on
// every structural change.
type Skeleton struct {
	bones    []Bone
	index    map[string]int
	children [][]int
	order    []int
}

func NewSkeleton() *Skeleton {
	s := &Skeleton{}
	s.rebuild()
	return s
}

// BuildSkeleton builds a skeleton from bones in declaration order. Duplicate
// names and parent cycles are rejected; parents that name a missing bone are
// kept and resolve as roots.
func BuildSkeleton(bones []Bone) (*Skeleton, error) {
	s := &Skeleton{bones: make([]Bone, 0, len(bones))}
	seen := make(map[string]struct{}, len(bones))
	for _, b := range bones {
		if b.Name == "" {
			return nil, ErrEmptyName
		}
		if _, ok := seen[b.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBone, b.Name)
		}
		seen[b.Name] = struct{}{}
		s.bones = append(s.bones, b.normalized())
	}
	s.rebuild()
	if len(s.order) != len(s.bones) {
		return nil, s.cycleFromUnvisited()
	}
	return s, nil
}

func (s *Skeleton) rebuild() {
	s.index = make(map[string]int, len(s.bones))
	for i, b := range s.bones {
		s.index[b.Name] = i
	}
	s.children = make([][]int, len(s.bones))
	roots := make([]int, 0, len(s.bones))
	for i, b := range s.bones {
		p, ok := s.index[b.Parent]
		if b.Parent == "" || !ok {
			roots = append(roots, i)
			continue
		}
		s.children[p] = append(s.children[p], i)
	}

	// breadth-first from the roots: every parent precedes its children
	s.order = s.order[:0]
	queue := append([]int(nil), roots...)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		s.order = append(s.order, i)
		queue = append(queue, s.children[i]...)
	}
}

func (s *Skeleton) cycleFromUnvisited() error {
	visited := make([]bool, len(s.bones))
	for _, i := range s.order {
		visited[i] = true
	}
	for i, b := range s.bones {
		if visited[i] {
			continue
		}
		path := []string{b.Name}
		seen := map[string]bool{b.Name: true}
		cur := b.Parent
		for cur != "" && !seen[cur] {
			path = append(path, cur)
			seen[cur] = true
			j, ok := s.index[cur]
			if !ok {
				break
			}
			cur = s.bones[j].Parent
		}
		path = append(path, cur)
		return &CycleError{Bone: b.Name, Parent: b.Parent, Path: path}
	}
	return ErrCycle
}

// cycleCheck reports the chain that would close if child were parented to parent.
func (s *Skeleton) cycleCheck(child, parent string) error {
	if parent == "" {
		return nil
	}
	path := []string{child, parent}
	seen := map[string]bool{}
	cur := parent
	for cur != "" {
		if cur == child {
			return &CycleError{Bone: child, Parent: parent, Path: path}
		}
		if seen[cur] {
			return nil
		}
		seen[cur] = true
		i, ok := s.index[cur]
		if !ok {
			return nil
		}
		cur = s.bones[i].Parent
		if cur != "" {
			path = append(path, cur)
		}
	}
	return nil
}

func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bones)
}

func (s *Skeleton) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Bone returns a copy of the named bone.
func (s *Skeleton) Bone(name string) (Bone, bool) {
	if s == nil {
		return Bone{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Bone{}, false
	}
	return s.bones[i], true
}

// IndexOf returns the declaration position of name, or -1.
func (s *Skeleton) IndexOf(name string) int {
	if s == nil {
		return -1
	}
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Bones returns a copy of all bones in declaration order.
func (s *Skeleton) Bones() []Bone {
	if s == nil {
		return nil
	}
	return append([]Bone(nil), s.bones...)
}

func (s *Skeleton) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.bones))
	for i, b := range s.bones {
		out[i] = b.Name
	}
	return out
}

// Order returns bone names in evaluation order.
func (s *Skeleton) Order() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	for i, idx := range s.order {
		out[i] = s.bones[idx].Name
	}
	return out
}

func (s *Skeleton) Children(name string) []string {
	if s == nil {
		return nil
	}
	i, ok := s.index[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(s.children[i]))
	for _, c := range s.children[i] {
		out = append(out, s.bones[c].Name)
	}
	return out
}

// Descendants lists every bone below name, nearest first.
func (s *Skeleton) Descendants(name string) []string {
	if s == nil {
		return nil
	}
	i, ok := s.index[name]
	if !ok {
		return nil
	}
	var out []string
	queue := append([]int(nil), s.children[i]...)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, s.bones[c].Name)
		queue = append(queue, s.children[c]...)
	}
	return out
}

// RenderOrder returns bone names back to front: layer, then layer order,
// then declaration order.
func (s *Skeleton) RenderOrder() []string {
	if s == nil {
		return nil
	}
	idx := make([]int, len(s.bones))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ba, bb := s.bones[idx[a]], s.bones[idx[b]]
		if ba.Layer.Rank() != bb.Layer.Rank() {
			return ba.Layer.Rank() < bb.Layer.Rank()
		}
		return ba.LayerOrder < bb.LayerOrder
	})
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = s.bones[j].Name
	}
	return out
}

// Add appends a bone. The parent may be empty or name a missing bone.
func (s *Skeleton) Add(b Bone) error {
	return s.Insert(len(s.bones), b)
}

// Insert places a bone at declaration position pos.
func (s *Skeleton) Insert(pos int, b Bone) error {
	if b.Name == "" {
		return ErrEmptyName
	}
	if _, ok := s.index[b.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBone, b.Name)
	}
	if b.Parent == b.Name {
		return &CycleError{Bone: b.Name, Parent: b.Parent, Path: []string{b.Name, b.Name}}
	}
	// bones that already dangle on this name become its children
	if err := s.cycleCheck(b.Name, b.Parent); err != nil {
		return err
	}
	if pos < 0 || pos > len(s.bones) {
		pos = len(s.bones)
	}
	s.bones = append(s.bones, Bone{})
	copy(s.bones[pos+1:], s.bones[pos:])
	s.bones[pos] = b.normalized()
	s.rebuild()
	return nil
}

// Remove deletes a bone. Its children are re-parented to the removed bone's
// parent. It returns the removed bone, its declaration position and the
// children that moved.
func (s *Skeleton) Remove(name string) (Bone, int, []string, error) {
	i, ok := s.index[name]
	if !ok {
		return Bone{}, -1, nil, fmt.Errorf("%w: %s", ErrBoneNotFound, name)
	}
	removed := s.bones[i]
	var moved []string
	for j := range s.bones {
		if s.bones[j].Parent == name {
			s.bones[j].Parent = removed.Parent
			moved = append(moved, s.bones[j].Name)
		}
	}
	s.bones = append(s.bones[:i], s.bones[i+1:]...)
	s.rebuild()
	return removed, i, moved, nil
}

// Detach deletes a bone and leaves any children naming it as dangling.
func (s *Skeleton) Detach(name string) (Bone, int, error) {
	i, ok := s.index[name]
	if !ok {
		return Bone{}, -1, fmt.Errorf("%w: %s", ErrBoneNotFound, name)
	}
	removed := s.bones[i]
	s.bones = append(s.bones[:i], s.bones[i+1:]...)
	s.rebuild()
	return removed, i, nil
}

// SetParent re-links name under parent. An empty parent makes it a root.
func (s *Skeleton) SetParent(name, parent string) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBoneNotFound, name)
	}
	if parent != "" {
		if _, ok := s.index[parent]; !ok {
			return fmt.Errorf("%w: %s", ErrBoneNotFound, parent)
		}
	}
	if err := s.cycleCheck(name, parent); err != nil {
		return err
	}
	s.bones[i].Parent = parent
	s.rebuild()
	return nil
}

// Replace overwrites the bone with b.Name. A parent change goes through the
// same checks as SetParent.
func (s *Skeleton) Replace(b Bone) error {
	i, ok := s.index[b.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBoneNotFound, b.Name)
	}
	if b.Parent != s.bones[i].Parent {
		if err := s.cycleCheck(b.Name, b.Parent); err != nil {
			return err
		}
	}
	s.bones[i] = b.normalized()
	s.rebuild()
	return nil
}

func (s *Skeleton) Clone() *Skeleton {
	if s == nil {
		return nil
	}
	c := &Skeleton{bones: append([]Bone(nil), s.bones...)}
	c.rebuild()
	return c
}

// Validate reports bones whose parent names a missing bone.
func (s *Skeleton) Validate() []Diagnostic {
	if s == nil {
		return nil
	}
	var diags []Diagnostic
	for _, b := range s.bones {
		if b.Parent == "" {
			continue
		}
		if _, ok := s.index[b.Parent]; !ok {
			diags = append(diags, Diagnostic{
				Kind:    DanglingReference,
				Subject: b.Name,
				Detail:  fmt.Sprintf("parent %q not found, resolved as root", b.Parent),
			})
		}
	}
	return diags
}

// Resolve computes world transforms for the rest pose.
func (s *Skeleton) Resolve() (map[string]Transform, []Diagnostic) {
	return s.ResolvePose(nil)
}

// ResolvePose computes world transforms with local overriding the rest
// transform of any bone it names.
func (s *Skeleton) ResolvePose(local map[string]Transform) (map[string]Transform, []Diagnostic) {
	if s == nil {
		return map[string]Transform{}, nil
	}
	world := make(map[string]Transform, len(s.bones))
	resolved := make([]Transform, len(s.bones))
	for _, i := range s.order {
		b := s.bones[i]
		l, ok := local[b.Name]
		if !ok {
			l = b.Local()
		}
		p, hasParent := s.index[b.Parent]
		if b.Parent == "" || !hasParent {
			resolved[i] = l
			world[b.Name] = l
			continue
		}
		pw := resolved[p]
		ax, ay := AnchorOn(s.bones[p], pw, b.Attachment)
		w := Transform{
			X:        ax + l.X,
			Y:        ay + l.Y,
			Rotation: pw.Rotation + l.Rotation,
			Scale:    pw.Scale * l.Scale,
		}
		resolved[i] = w
		world[b.Name] = w
	}
	return world, s.Validate()
}
