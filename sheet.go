package main

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// loadSheet decodes the sprite sheet image at path.
func loadSheet(path string) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("sheet: decode %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// subImage returns the part of sheet covered by the rect, or nil when the
// rect is empty or outside the sheet.
func subImage(sheet *ebiten.Image, x, y, w, h int) *ebiten.Image {
	if sheet == nil || w <= 0 || h <= 0 {
		return nil
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(sheet.Bounds())
	if r.Empty() {
		return nil
	}
	return sheet.SubImage(r).(*ebiten.Image)
}
