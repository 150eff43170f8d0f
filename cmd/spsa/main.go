// Command spsa previews the rects of a sprite project one at a time with
// their pivots, to check a sheet's slicing before binding sprites to bones.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/rig/rig"
	"github.com/milk9111/rig/rigfile"
	"golang.org/x/image/colornames"
)

const (
	screenSize = 512
	margin     = 48
)

type previewGame struct {
	sprites []rig.SpriteRect
	frames  []*ebiten.Image
	current int
}

func (g *previewGame) Update() error {
	if len(g.sprites) == 0 {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.current = (g.current + 1) % len(g.sprites)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.current = (g.current + len(g.sprites) - 1) % len(g.sprites)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x00, 0x00, 0xff})
	if len(g.sprites) == 0 {
		ebitenutil.DebugPrint(screen, "no sprites")
		return
	}
	r := g.sprites[g.current]
	info := fmt.Sprintf("%d/%d %s  %dx%d at (%d,%d)  origin (%.2f,%.2f)",
		g.current+1, len(g.sprites), r.Name, r.Width, r.Height, r.X, r.Y, r.OriginX, r.OriginY)
	if r.Degenerate() {
		ebitenutil.DebugPrint(screen, info+"\nwarning: degenerate rect")
		return
	}
	ebitenutil.DebugPrint(screen, info)

	// fit the sprite into the window with whole-pixel scaling
	scale := float64((screenSize - 2*margin) / max(r.Width, r.Height))
	if scale < 1 {
		scale = float64(screenSize-2*margin) / float64(max(r.Width, r.Height))
	}
	w, h := float64(r.Width)*scale, float64(r.Height)*scale
	sx := (screenSize - w) / 2
	sy := (screenSize - h) / 2

	if img := g.frames[g.current]; img != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(sx, sy)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(img, op)
	}
	vector.StrokeRect(screen, float32(sx), float32(sy), float32(w), float32(h), 1, colornames.Slategray, false)

	px := float32(sx + r.OriginX*w)
	py := float32(sy + r.OriginY*h)
	vector.StrokeLine(screen, px-8, py, px+8, py, 1, colornames.Orangered, false)
	vector.StrokeLine(screen, px, py-8, px, py+8, 1, colornames.Orangered, false)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenSize, screenSize
}

func rectOf(r rig.SpriteRect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// loadFrames cuts every non-degenerate rect out of the sheet. Rects outside
// the sheet get a nil frame.
func loadFrames(path string, sprites []rig.SpriteRect) []*ebiten.Image {
	frames := make([]*ebiten.Image, len(sprites))
	if path == "" {
		return frames
	}
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		log.Printf("spsa: failed to load %s: %v", path, err)
		return frames
	}
	b := img.Bounds()
	for i, r := range sprites {
		if r.Degenerate() || r.X < b.Min.X || r.Y < b.Min.Y || r.X+r.Width > b.Max.X || r.Y+r.Height > b.Max.Y {
			continue
		}
		frames[i] = img.SubImage(rectOf(r)).(*ebiten.Image)
	}
	return frames
}

func main() {
	var paths rigfile.Paths
	flag.StringVar(&paths.Sprites, "sprites", "", "sprite project")
	flag.StringVar(&paths.Attach, "attach", "", "attachment config, used when -sprites is not given")
	flag.StringVar(&paths.Sheet, "sheet", "", "sprite sheet image, overrides the document")
	flag.Parse()

	var sprites []rig.SpriteRect
	var sheet string
	switch {
	case paths.Sprites != "":
		sp, err := rigfile.LoadSpritesFile(paths.Sprites)
		if err != nil {
			log.Fatal(err)
		}
		sprites, sheet = sp.Sprites, sp.SheetPath
	case paths.Attach != "":
		cfg, err := rigfile.LoadAttachmentFile(paths.Attach)
		if err != nil {
			log.Fatal(err)
		}
		sprites, sheet = cfg.Sprites, cfg.SheetPath
	default:
		flag.Usage()
		return
	}

	g := &previewGame{sprites: sprites, frames: loadFrames(paths.SheetFile(sheet), sprites)}
	ebiten.SetWindowSize(screenSize, screenSize)
	ebiten.SetWindowTitle("Sprite Preview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
