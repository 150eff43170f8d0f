package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/rig/common"
	"github.com/milk9111/rig/ecs"
	"github.com/milk9111/rig/ecs/component"
	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/rig"
	"golang.org/x/image/colornames"
)

const (
	hudLine      = 16
	timelineH    = 24
	timelinePad  = 40
	jointRadius  = 3
	boneWidth    = 2
	outlineWidth = 1
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.spec.View.Background.Color)

	if pose := g.pose(); pose != nil {
		sel, hasSel := g.selector.Selected()
		if !ecs.Has(g.world, g.rig, component.SelectedComponent.Kind()) {
			hasSel = false
		}
		g.drawSprites(screen, pose, sel, hasSel)
		g.drawBones(screen, pose, sel, hasSel)
	}
	g.drawTimeline(screen)
	g.drawHUD(screen)

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))
	}
	if g.showHelp {
		g.help.Draw(screen)
	}
}

func (g *Game) toScreen(x, y float64) (float32, float32) {
	ox, oy := g.origin()
	sx, sy := g.camera.ToScreen(x+ox, y+oy)
	return float32(sx), float32(sy)
}

func (g *Game) drawSprites(screen *ebiten.Image, pose *component.Pose, sel editor.Candidate, hasSel bool) {
	ox, oy := g.origin()
	zoom := g.camera.Zoom()
	for _, pl := range pose.Placements {
		selected := hasSel && sel.Kind == editor.ElementInstance && sel.Name == pl.Instance.ID
		r := pl.Rect
		img := subImage(g.sheet, r.X, r.Y, r.Width, r.Height)
		if img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(-r.OriginX*float64(r.Width), -r.OriginY*float64(r.Height))
			op.GeoM.Scale(pl.Scale, pl.Scale)
			op.GeoM.Rotate(common.DegToRad(pl.Rotation))
			op.GeoM.Translate(pl.X+ox, pl.Y+oy)
			op.GeoM.Scale(zoom, zoom)
			op.GeoM.Translate(g.camera.PanX, g.camera.PanY)
			op.Filter = ebiten.FilterNearest
			screen.DrawImage(img, op)
		}
		if img == nil || selected {
			clr := color.Color(colornames.Slategray)
			if selected {
				clr = g.spec.View.Selected.Color
			}
			g.drawOutline(screen, pl, clr)
		}
	}
}

func (g *Game) drawOutline(screen *ebiten.Image, pl rig.Placement, clr color.Color) {
	corners := pl.Corners()
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		ax, ay := g.toScreen(a[0], a[1])
		bx, by := g.toScreen(b[0], b[1])
		vector.StrokeLine(screen, ax, ay, bx, by, outlineWidth, clr, true)
	}
}

func (g *Game) drawBones(screen *ebiten.Image, pose *component.Pose, sel editor.Candidate, hasSel bool) {
	p := g.project()
	for _, name := range p.Skeleton.RenderOrder() {
		b, ok := p.Skeleton.Bone(name)
		if !ok {
			continue
		}
		w, ok := pose.World[name]
		if !ok {
			continue
		}
		clr := g.spec.View.Bone.Color
		if hasSel && sel.Kind == editor.ElementBone && sel.Name == name {
			clr = g.spec.View.Selected.Color
		}
		ex, ey := w.Along(b.Length)
		x0, y0 := g.toScreen(w.X, w.Y)
		x1, y1 := g.toScreen(ex, ey)
		vector.StrokeLine(screen, x0, y0, x1, y1, boneWidth, clr, true)
		vector.DrawFilledCircle(screen, x0, y0, jointRadius, clr, true)
		vector.StrokeCircle(screen, x1, y1, jointRadius, outlineWidth, clr, true)
	}
}

// drawTimeline draws the clip as a bar with a tick per key time, the selected
// bone's keys highlighted, and the playhead.
func (g *Game) drawTimeline(screen *ebiten.Image) {
	pl := g.player()
	if pl == nil {
		return
	}
	clip := g.project().Clip
	d := pl.Duration()
	if d <= 0 {
		return
	}
	x0 := float32(timelinePad)
	width := float32(baseWidth - 2*timelinePad)
	y := float32(baseHeight - timelineH - 8)
	at := func(t float64) float32 {
		return x0 + width*float32(t/d)
	}

	vector.FillRect(screen, x0, y, width, timelineH, color.NRGBA{A: 0x80}, false)
	for _, t := range clip.KeyTimes() {
		x := at(t)
		vector.StrokeLine(screen, x, y+4, x, y+timelineH-4, 1, colornames.Lightgray, false)
	}
	if sel, ok := g.selector.Selected(); ok && sel.Kind == editor.ElementBone {
		for _, k := range clip.Track(sel.Name).Keyframes() {
			x := at(k.Time)
			vector.DrawFilledCircle(screen, x, y+timelineH/2, 3, g.spec.View.Selected.Color, true)
		}
	}
	x := at(pl.CurrentTime())
	vector.StrokeLine(screen, x, y, x, y+timelineH, 2, colornames.Orangered, false)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	pl := g.player()
	p := g.project()
	var lines []string

	dirty := ""
	if g.dirty {
		dirty = " *"
	}
	lines = append(lines, fmt.Sprintf("mode: %s%s   (F1 help)", g.mode, dirty))
	if pl != nil {
		state := "paused"
		if pl.IsPlaying() {
			state = "playing"
		}
		frame := int(pl.CurrentTime()*float64(p.Clip.FPS) + 0.5)
		lines = append(lines, fmt.Sprintf("%s %.2fs / %.2fs   frame %d/%d   loop %v",
			state, pl.CurrentTime(), pl.Duration(), frame, p.Clip.FrameCount(), pl.Loop))
	}
	undo, redo := g.history.Len()
	lines = append(lines, fmt.Sprintf("bones %d   sprites %d   keys %d   undo %d/%d   redo %d",
		p.Skeleton.Len(), len(p.Instances()), p.Clip.KeyCount(), undo, g.history.Limit(), redo))
	if sel, ok := g.selector.Selected(); ok {
		lines = append(lines, fmt.Sprintf("selected: %s %s", sel.Kind, sel.Name))
	}
	if g.script != "" {
		lines = append(lines, "script: "+g.script)
	}
	if g.statusTTL > 0 && g.status != "" {
		lines = append(lines, g.status)
	}

	top := 8.0
	if g.debug {
		top += hudLine
	}
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(10, top)
	op.ColorScale.ScaleWithColor(colornames.White)
	op.LineSpacing = hudLine
	ebtext.Draw(screen, strings.Join(lines, "\n"), g.face, op)
}
