package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/milk9111/rig/ecs"
	"github.com/milk9111/rig/ecs/component"
	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/rig"
	"github.com/milk9111/rig/rigfile"
	"github.com/milk9111/rig/script"
	"golang.design/x/clipboard"
)

func (g *Game) handleInput() {
	in := g.input
	pl := g.player()

	if in.Wheel != 0 {
		g.camera.ZoomAt(in.MouseX, in.MouseY, in.Wheel)
	}
	if in.PanX != 0 || in.PanY != 0 {
		g.camera.Pan(in.PanX, in.PanY)
	}
	if in.Click {
		g.click()
	}
	if in.ToggleMode {
		if g.mode == ModeRig {
			g.mode = ModeAnimate
		} else {
			g.mode = ModeRig
		}
		g.setStatus("%s mode", g.mode)
	}

	if pl != nil {
		if in.TogglePlay {
			pl.Toggle()
		}
		if in.Stop {
			pl.Stop()
		}
		if in.StepFrames != 0 {
			pl.Pause()
			pl.Step(in.StepFrames)
		}
		if in.JumpKey != 0 {
			g.jumpKey(pl, in.JumpKey)
		}
		if in.ToggleLoop {
			pl.Loop = !pl.Loop
			g.setStatus("loop %v", pl.Loop)
		}
	}

	if in.Undo {
		g.undo()
	}
	if in.Redo {
		g.redo()
	}
	if in.Save {
		g.save()
	}
	if in.Copy {
		g.copyPose()
	}
	if in.NextScript {
		g.nextScript()
	}
	if in.RunScript {
		g.runScript()
	}

	sel, ok := g.selector.Selected()
	if !ok {
		return
	}
	switch sel.Kind {
	case editor.ElementBone:
		g.editBone(sel.Name)
	case editor.ElementInstance:
		g.editInstance(sel.Name)
	}
}

// nudge returns the move and turn requested this frame, scaled by the
// preset steps. Shift multiplies both by ten.
func (g *Game) nudge() (dx, dy, turn float64) {
	in := g.input
	step := 1.0
	if in.Shift {
		step = 10
	}
	n := g.spec.View.Nudge * step
	return in.NudgeX * n, in.NudgeY * n, in.Turn * g.spec.View.RotateStep * step
}

func (g *Game) execute(cmd editor.Command) bool {
	if err := g.history.Execute(cmd); err != nil {
		log.Printf("viewer: %s: %v", cmd.Name(), err)
		g.setStatus("%s: %v", cmd.Name(), err)
		return false
	}
	return true
}

func (g *Game) click() {
	pose := g.pose()
	if pose == nil {
		return
	}
	p := g.project()
	ox, oy := g.origin()
	x, y := g.camera.ToWorld(g.input.MouseX, g.input.MouseY)
	x, y = x-ox, y-oy

	tester := editor.MultiHitTester{
		editor.NewBoneHitTester(p.Skeleton, pose.World),
		editor.NewInstanceHitTester(pose.Placements, p.Instances()),
	}
	g.selector.Zoom = g.camera.Zoom()
	c, ok := g.selector.Click(tester, x, y, g.spec.Selection.Tolerance)
	if !ok {
		ecs.Remove(g.world, g.rig, component.SelectedComponent.Kind())
		return
	}
	if !ecs.Has(g.world, g.rig, component.SelectedComponent.Kind()) {
		if err := ecs.Add(g.world, g.rig, component.SelectedComponent.Kind(), &component.Selected{}); err != nil {
			log.Printf("viewer: mark selected: %v", err)
		}
	}
	if n := len(g.selector.Candidates()); n > 1 {
		g.setStatus("%s %s (%d of %d)", c.Kind, c.Name, g.selector.Index()+1, n)
	} else {
		g.setStatus("%s %s", c.Kind, c.Name)
	}
}

func (g *Game) clearSelection() {
	g.selector.Reset()
	ecs.Remove(g.world, g.rig, component.SelectedComponent.Kind())
}

func (g *Game) editBone(name string) {
	p := g.project()
	in := g.input
	dx, dy, turn := g.nudge()

	if g.mode == ModeRig {
		b, ok := p.Skeleton.Bone(name)
		if !ok {
			g.clearSelection()
			return
		}
		if dx != 0 || dy != 0 {
			g.execute(&editor.MoveBone{Bone: name, X: b.X + dx, Y: b.Y + dy})
		}
		if turn != 0 {
			g.execute(&editor.RotateBone{Bone: name, Angle: b.Angle + turn, Length: b.Length})
		}
		if in.Delete && g.execute(&editor.DeleteBone{Bone: name}) {
			g.clearSelection()
		}
		return
	}

	pl := g.player()
	if pl == nil {
		return
	}
	t := pl.CurrentTime()
	tr := p.Clip.Track(name)
	offset := tr.Evaluate(t)
	mode := rig.Linear
	i := tr.IndexAt(t)
	var key rig.Keyframe
	if i >= 0 {
		key, _ = tr.Keyframe(i)
		mode = key.Interpolation
	}

	if dx != 0 || dy != 0 || turn != 0 {
		offset.X += dx
		offset.Y += dy
		offset.Rotation += turn
		g.execute(editor.KeyPose(name, t, offset, mode))
		return
	}
	if in.KeyPose {
		g.execute(editor.KeyPose(name, t, offset, mode))
	}
	if i < 0 {
		return
	}
	if in.Interpolation {
		g.execute(&editor.SetInterpolation{Bone: name, Time: key.Time, Mode: mode.Next()})
	}
	if in.Delete {
		g.execute(&editor.DeleteKeyframe{Bone: name, Time: key.Time})
	}
}

func (g *Game) editInstance(id string) {
	if g.mode != ModeRig {
		return
	}
	inst, ok := g.project().Instance(id)
	if !ok {
		g.clearSelection()
		return
	}
	dx, dy, turn := g.nudge()
	if dx != 0 || dy != 0 || turn != 0 {
		g.execute(&editor.SetInstanceOffset{
			ID:       id,
			OffsetX:  inst.OffsetX + dx,
			OffsetY:  inst.OffsetY + dy,
			Rotation: inst.Rotation + turn,
			Scale:    inst.Scale,
		})
	}
	if g.input.Delete && g.execute(&editor.DeleteInstance{ID: id}) {
		g.clearSelection()
	}
}

// jumpKey seeks to the nearest key time before (dir < 0) or after the
// playhead.
func (g *Game) jumpKey(pl *rig.Player, dir int) {
	now := pl.CurrentTime()
	times := g.project().Clip.KeyTimes()
	target, found := 0.0, false
	for _, t := range times {
		if dir > 0 && t > now+rig.KeyframeEpsilon {
			target, found = t, true
			break
		}
		if dir < 0 && t < now-rig.KeyframeEpsilon {
			target, found = t, true
		}
	}
	if !found {
		return
	}
	pl.Pause()
	pl.Seek(target)
}

func (g *Game) undo() {
	name := ""
	if list := g.history.UndoList(); len(list) > 0 {
		name = list[len(list)-1]
	}
	if err := g.history.Undo(); err != nil {
		if errors.Is(err, editor.ErrNothingToUndo) {
			g.setStatus("nothing to undo")
			return
		}
		log.Printf("viewer: undo: %v", err)
		g.setStatus("undo failed: %v", err)
		return
	}
	g.setStatus("undo %s", name)
}

func (g *Game) redo() {
	name := ""
	if list := g.history.RedoList(); len(list) > 0 {
		name = list[len(list)-1]
	}
	if err := g.history.Redo(); err != nil {
		if errors.Is(err, editor.ErrNothingToRedo) {
			g.setStatus("nothing to redo")
			return
		}
		log.Printf("viewer: redo: %v", err)
		g.setStatus("redo failed: %v", err)
		return
	}
	g.setStatus("redo %s", name)
}

func (g *Game) save() {
	if err := g.paths.Save(g.project()); err != nil {
		log.Printf("viewer: save: %v", err)
		g.setStatus("save failed: %v", err)
		return
	}
	g.muteUntil = g.frames + muteFrames
	g.dirty = false
	for _, f := range g.paths.Files() {
		g.store.Touch(f)
	}
	g.setStatus("saved %v", g.paths.Files())
}

// copyPose puts the selected bone's pose at the playhead on the clipboard.
func (g *Game) copyPose() {
	sel, ok := g.selector.Selected()
	if !ok || sel.Kind != editor.ElementBone {
		g.setStatus("select a bone to copy its pose")
		return
	}
	pl, pose := g.player(), g.pose()
	if pl == nil || pose == nil {
		return
	}
	p := g.project()
	b, ok := p.Skeleton.Bone(sel.Name)
	if !ok {
		return
	}
	t := pl.CurrentTime()
	offset := p.Clip.Track(sel.Name).Evaluate(t)
	local := b.Local()
	if posed, _ := pl.LocalPose(); posed != nil {
		if l, ok := posed[sel.Name]; ok {
			local = l
		}
	}

	data, err := rigfile.MarshalPose(sel.Name, t, offset, local, pose.World[sel.Name])
	if err != nil {
		log.Printf("viewer: copy pose: %v", err)
		return
	}
	if !g.clipboard {
		log.Printf("viewer: pose of %s:\n%s", sel.Name, data)
		g.setStatus("clipboard unavailable, pose written to the log")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.setStatus("copied pose of %s", sel.Name)
}

func (g *Game) nextScript() {
	if len(g.scripts) == 0 {
		g.setStatus("no scripts")
		return
	}
	next := g.scripts[0]
	for i, name := range g.scripts {
		if name == g.script {
			next = g.scripts[(i+1)%len(g.scripts)]
			break
		}
	}
	g.script = next
	g.setStatus("script %s", g.script)
}

func (g *Game) runScript() {
	sel, ok := g.selector.Selected()
	if !ok || sel.Kind != editor.ElementBone {
		g.setStatus("select a bone to run %s", g.script)
		return
	}
	if g.script == "" {
		g.setStatus("no script selected")
		return
	}

	timeout := time.Duration(g.spec.Scripts.TimeoutMS) * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := script.Apply(ctx, g.history, script.Request{Name: g.script, Bone: sel.Name})
	if err != nil {
		log.Printf("viewer: %v", err)
		g.setStatus("%v", err)
		return
	}
	g.setStatus("%s keyed %d frames on %s", g.script, n, sel.Name)
}
