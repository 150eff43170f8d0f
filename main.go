package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rig/rigfile"
)

func main() {
	var paths rigfile.Paths
	flag.StringVar(&paths.Attach, "attach", "", "attachment config (sprites, bones and instances in one file)")
	flag.StringVar(&paths.Bones, "bones", "", "bone project, used when -attach is not given")
	flag.StringVar(&paths.Sprites, "sprites", "", "sprite project paired with -bones")
	flag.StringVar(&paths.Anim, "anim", "", "animation clip (created on save if missing)")
	flag.StringVar(&paths.Sheet, "sheet", "", "sprite sheet image, overrides the documents")
	scriptName := flag.String("script", "", "keyframe script run by G (default: last used)")
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("rig")

	game, err := NewGame(paths, *scriptName, *debug)
	if err != nil {
		log.Fatal(err)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
