// Package script generates keyframes from tengo scripts.
//
// A script sees the globals bone, duration, fps, rest and params, and must
// leave an array named keyframes behind. Each element is a map with a time
// and any of x, y, rotation, scale, interpolation and sprite; missing
// channels keep their identity value. The result is applied as one
// undoable batch.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/presets"
	"github.com/milk9111/rig/rig"
)

var ErrNoKeyframes = errors.New("script: no keyframes produced")

// Request names a script and the bone it animates.
type Request struct {
	Name   string
	Source []byte
	Bone   string
	Params map[string]any
}

// Load fills Source from the preset scripts when it is empty.
func (r *Request) Load() error {
	if len(r.Source) > 0 {
		return nil
	}
	src, err := presets.LoadScript(r.Name)
	if err != nil {
		return fmt.Errorf("script: load %s: %w", r.Name, err)
	}
	r.Source = src
	return nil
}

// Keys runs the script against the project and returns the keyframes it
// produced in script order.
func Keys(ctx context.Context, p *editor.Project, req Request) ([]rig.Keyframe, error) {
	if err := req.Load(); err != nil {
		return nil, err
	}
	b, ok := p.Skeleton.Bone(req.Bone)
	if !ok {
		return nil, fmt.Errorf("script: %w: %s", rig.ErrBoneNotFound, req.Bone)
	}

	s := tengo.NewScript(req.Source)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	params := req.Params
	if params == nil {
		params = map[string]any{}
	}
	rest := b.Local()
	globals := map[string]any{
		"bone":     b.Name,
		"duration": p.Clip.Duration,
		"fps":      p.Clip.FPS,
		"rest": map[string]any{
			"x":        rest.X,
			"y":        rest.Y,
			"rotation": rest.Rotation,
			"length":   b.Length,
		},
		"params": params,
	}
	for name, v := range globals {
		if err := s.Add(name, v); err != nil {
			return nil, fmt.Errorf("script: %s: add %s: %w", req.Name, name, err)
		}
	}

	compiled, err := s.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", req.Name, err)
	}
	if !compiled.IsDefined("keyframes") {
		return nil, fmt.Errorf("%w: %s", ErrNoKeyframes, req.Name)
	}
	raw := compiled.Get("keyframes").Array()
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoKeyframes, req.Name)
	}

	keys := make([]rig.Keyframe, 0, len(raw))
	for i, item := range raw {
		k, err := keyframe(item)
		if err != nil {
			return nil, fmt.Errorf("script: %s: keyframes[%d]: %w", req.Name, i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Build runs the script and wraps its keyframes in one batch command.
func Build(ctx context.Context, p *editor.Project, req Request) (*editor.Composite, error) {
	keys, err := Keys(ctx, p, req)
	if err != nil {
		return nil, err
	}
	cmds := make([]editor.Command, 0, len(keys))
	for _, k := range keys {
		cmds = append(cmds, &editor.SetKeyframe{Bone: req.Bone, Keyframe: k})
	}
	label := req.Name
	if label == "" {
		label = "script"
	}
	return &editor.Composite{Label: fmt.Sprintf("%s on %s", label, req.Bone), Commands: cmds}, nil
}

// Apply runs the script and executes the result through h.
func Apply(ctx context.Context, h *editor.History, req Request) (int, error) {
	batch, err := Build(ctx, h.Project(), req)
	if err != nil {
		return 0, err
	}
	if err := h.Execute(batch); err != nil {
		return 0, err
	}
	return len(batch.Commands), nil
}

func keyframe(item any) (rig.Keyframe, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return rig.Keyframe{}, fmt.Errorf("expected map, got %T", item)
	}
	t, ok := number(m["time"])
	if !ok {
		return rig.Keyframe{}, errors.New("missing numeric time")
	}
	k := rig.Keyframe{Time: t, Transform: rig.Identity(), Interpolation: rig.Linear}
	for name, dst := range map[string]*float64{
		"x":        &k.Transform.X,
		"y":        &k.Transform.Y,
		"rotation": &k.Transform.Rotation,
		"scale":    &k.Transform.Scale,
	} {
		v, present := m[name]
		if !present {
			continue
		}
		f, ok := number(v)
		if !ok {
			return rig.Keyframe{}, fmt.Errorf("%s is %T, want number", name, v)
		}
		*dst = f
	}
	if mode, ok := m["interpolation"].(string); ok {
		k.Interpolation = rig.Interpolation(strings.ToLower(strings.TrimSpace(mode)))
		if !k.Interpolation.Valid() {
			return rig.Keyframe{}, fmt.Errorf("unknown interpolation %q", mode)
		}
	}
	if sprite, ok := m["sprite"].(string); ok {
		k.SpriteInstance = sprite
	}
	return k, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
