package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/rig/ecs"
	"github.com/milk9111/rig/ecs/component"
	"github.com/milk9111/rig/ecs/entity"
	"github.com/milk9111/rig/ecs/system"
	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/obj"
	"github.com/milk9111/rig/presets"
	"github.com/milk9111/rig/rig"
	"github.com/milk9111/rig/rigfile"
	"github.com/milk9111/rig/settings"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// muteFrames is how long file events are ignored after our own save.
	muteFrames = system.TPS / 2
	// statusFrames is how long a status line stays on screen.
	statusFrames = system.TPS * 3
)

// Mode selects what the edit keys change.
type Mode int

const (
	// ModeRig edits the rest pose and sprite instances.
	ModeRig Mode = iota
	// ModeAnimate keys bone offsets at the playhead.
	ModeAnimate
)

func (m Mode) String() string {
	if m == ModeAnimate {
		return "animate"
	}
	return "rig"
}

type Game struct {
	frames int
	debug  bool

	paths   rigfile.Paths
	spec    *presets.EditorSpec
	store   *settings.Store
	watcher *presets.Watcher

	world    *ecs.World
	rig      ecs.Entity
	history  *editor.History
	selector *editor.Selector

	input  *obj.Input
	camera *obj.Camera
	sheet  *ebiten.Image
	face   ebtext.Face

	help     *ebitenui.UI
	showHelp bool

	mode      Mode
	dirty     bool
	scripts   []string
	script    string
	status    string
	statusTTL int
	muteUntil int
	clipboard bool
	quit      bool
}

func NewGame(paths rigfile.Paths, scriptName string, debug bool) (*Game, error) {
	spec, err := presets.LoadEditorSpec()
	if err != nil {
		log.Printf("viewer: %v (using defaults)", err)
		spec = presets.DefaultEditorSpec()
	}

	p, err := paths.Load(spec.Playback.Duration, spec.Playback.FPS)
	if err != nil {
		return nil, err
	}
	rig.LogDiagnostics("viewer", p.Diagnostics())

	store := settings.Open()
	sess := store.Session()
	for _, f := range paths.Files() {
		store.Touch(f)
	}

	g := &Game{
		debug:    debug,
		paths:    paths,
		spec:     spec,
		store:    store,
		world:    ecs.NewWorld(),
		selector: editor.NewSelector(),
		input:    obj.NewInput(),
		face:     ebtext.NewGoXFace(basicfont.Face7x13),
		scripts:  presets.Scripts(),
	}
	g.world.AddSystem(system.NewAnimationSystem())

	name := "rig"
	if files := paths.Files(); len(files) > 0 {
		name = filepath.Base(files[0])
	}
	g.rig, err = entity.NewRig(g.world, name, p, 0, 0, sess.Loop)
	if err != nil {
		return nil, err
	}
	g.bindHistory(p)
	g.applySpec()

	zoom := sess.Zoom
	if zoom <= 0 {
		zoom = spec.View.Zoom
	}
	g.camera = obj.NewCamera(zoom, spec.View.MinZoom, spec.View.MaxZoom, spec.View.ZoomStep, spec.View.ZoomFrames)
	if sess.PanX == 0 && sess.PanY == 0 {
		g.camera.CenterOn(0, 0, baseWidth/2, baseHeight/2)
	} else {
		g.camera.PanX, g.camera.PanY = sess.PanX, sess.PanY
	}

	g.script = scriptName
	if g.script == "" {
		g.script = sess.LastScript
	}
	if g.script == "" && len(g.scripts) > 0 {
		g.script = g.scripts[0]
	}

	g.loadSheet()

	if err := clipboard.Init(); err != nil {
		log.Printf("viewer: clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}

	g.watch()
	g.help = NewHelpUI(g)
	return g, nil
}

// bindHistory starts a fresh undo history for p.
func (g *Game) bindHistory(p *editor.Project) {
	limit := editor.DefaultHistoryLimit
	if g.spec != nil {
		limit = g.spec.History.Limit
	}
	g.history = editor.NewHistory(p, limit)
	g.history.OnChange(func() {
		system.Rebind(g.world, g.rig)
		g.dirty = true
	})
}

func (g *Game) applySpec() {
	g.history.SetLimit(g.spec.History.Limit)
	g.selector.MinTolerance = g.spec.Selection.MinTolerance
	g.selector.ClickEpsilon = g.spec.Selection.ClickEpsilon
}

func (g *Game) loadSheet() {
	path := g.paths.SheetFile(g.project().SheetPath)
	if path == "" {
		g.sheet = nil
		return
	}
	img, err := loadSheet(path)
	if err != nil {
		log.Printf("viewer: %v (drawing sprite outlines)", err)
		g.sheet = nil
		return
	}
	g.sheet = img
}

func (g *Game) watch() {
	var dirs []string
	for _, dir := range append([]string{presets.Dir, filepath.Join(presets.Dir, "scripts")}, g.paths.Dirs()...) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return
	}
	w, err := presets.NewWatcher(dirs...)
	if err != nil {
		log.Printf("viewer: file watching disabled: %v", err)
		return
	}
	g.watcher = w
}

func (g *Game) project() *editor.Project {
	return g.history.Project()
}

func (g *Game) player() *rig.Player {
	pb, ok := ecs.Get(g.world, g.rig, component.PlaybackComponent.Kind())
	if !ok {
		return nil
	}
	return pb.Player
}

func (g *Game) pose() *component.Pose {
	pose, ok := ecs.Get(g.world, g.rig, component.PoseComponent.Kind())
	if !ok {
		return nil
	}
	return pose
}

func (g *Game) origin() (float64, float64) {
	tr, ok := ecs.Get(g.world, g.rig, component.TransformComponent.Kind())
	if !ok {
		return 0, 0
	}
	return tr.X, tr.Y
}

func (g *Game) setStatus(format string, args ...any) {
	g.status = fmt.Sprintf(format, args...)
	g.statusTTL = statusFrames
}

func (g *Game) Update() error {
	g.frames++
	if g.statusTTL > 0 {
		g.statusTTL--
	}
	g.reload()

	g.input.Update()
	if g.input.Help {
		g.showHelp = !g.showHelp
	}
	if g.showHelp {
		if g.input.Quit {
			g.showHelp = false
		}
		g.help.Update()
	} else {
		if g.input.Quit {
			g.quit = true
		}
		g.handleInput()
		g.camera.Update()
		g.world.Update()
		g.drainEvents()
	}

	if g.quit {
		g.shutdown()
		return ebiten.Termination
	}
	return nil
}

func (g *Game) drainEvents() {
	for _, ev := range g.world.Events().Drain() {
		switch ev.Type {
		case ecs.EventClipFinished:
			g.setStatus("clip finished")
		case ecs.EventDiagnostic:
			if d, ok := ev.Data.(rig.Diagnostic); ok {
				g.setStatus("warning: %s", d)
			}
		}
	}
}

// reload applies file changes reported by the watcher.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("viewer: watch error: %v", err)
	default:
	}

	reloadProject := false
	for _, path := range g.watcher.Drain() {
		switch {
		case !presets.Watched(path):
		case filepath.Base(path) == presets.EditorFile:
			spec, err := presets.LoadEditorSpec()
			if err != nil {
				log.Printf("viewer: reload %s: %v", path, err)
				continue
			}
			g.spec = spec
			g.applySpec()
			g.setStatus("reloaded %s", presets.EditorFile)
		case filepath.Ext(path) == ".tengo":
			g.scripts = presets.Scripts()
			g.setStatus("script %s changed", filepath.Base(path))
		case g.frames < g.muteUntil:
		case g.paths.Owns(path):
			reloadProject = true
		}
	}
	if reloadProject {
		g.reloadProject()
	}
}

func (g *Game) reloadProject() {
	p, err := g.paths.Load(g.spec.Playback.Duration, g.spec.Playback.FPS)
	if err != nil {
		log.Printf("viewer: reload: %v", err)
		g.setStatus("reload failed: %v", err)
		return
	}
	r, ok := ecs.Get(g.world, g.rig, component.RigComponent.Kind())
	if !ok {
		return
	}
	r.Project = p
	g.bindHistory(p)
	g.selector.Reset()
	system.Rebind(g.world, g.rig)
	g.loadSheet()
	g.dirty = false
	g.setStatus("reloaded %s", r.Name)
}

func (g *Game) shutdown() {
	if g.dirty {
		log.Printf("viewer: quitting with unsaved changes")
	}
	sess := g.store.Session()
	if pl := g.player(); pl != nil {
		sess.Loop = pl.Loop
	}
	sess.LastScript = g.script
	g.store.SetView(g.camera.Zoom(), g.camera.PanX, g.camera.PanY)
	if err := g.store.Save(); err != nil {
		log.Printf("viewer: %v", err)
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
