package rigfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/rig"
)

const (
	DefaultAttachmentFile = "rig.json"
	DefaultAnimationFile  = "animation.json"
)

// Paths names the documents of one editing session. An attachment config
// takes precedence over a separate bone and sprite project.
type Paths struct {
	Attach  string
	Bones   string
	Sprites string
	Anim    string
	// Sheet overrides the sprite sheet named in the documents.
	Sheet string
}

// Files returns every non-empty document path.
func (p Paths) Files() []string {
	var out []string
	for _, path := range []string{p.Attach, p.Bones, p.Sprites, p.Anim} {
		if path != "" {
			out = append(out, path)
		}
	}
	return out
}

// Owns reports whether path is one of the documents.
func (p Paths) Owns(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, f := range p.Files() {
		if fa, err := filepath.Abs(f); err == nil && fa == abs {
			return true
		}
	}
	return false
}

// Dirs returns the directories holding the documents, without duplicates.
func (p Paths) Dirs() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range p.Files() {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	return out
}

// SheetFile resolves a sprite sheet path against the document that named it.
func (p Paths) SheetFile(sheet string) string {
	if p.Sheet != "" {
		return p.Sheet
	}
	if sheet == "" || filepath.IsAbs(sheet) {
		return sheet
	}
	base := p.Attach
	if base == "" {
		base = p.Sprites
	}
	if base == "" {
		return sheet
	}
	return filepath.Join(filepath.Dir(base), sheet)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// Load reads the documents into one project. A missing animation file
// starts an empty clip with the given timing; a missing attachment file
// starts an empty project.
func (p Paths) Load(duration float64, fps int) (*editor.Project, error) {
	var anim *Animation
	if p.Anim != "" && exists(p.Anim) {
		a, err := LoadAnimationFile(p.Anim)
		if err != nil {
			return nil, err
		}
		anim = a
	}

	var proj *editor.Project
	switch {
	case p.Attach != "" && exists(p.Attach):
		cfg, err := LoadAttachmentFile(p.Attach)
		if err != nil {
			return nil, err
		}
		proj = cfg.Project(anim)
	case p.Bones != "":
		bones, err := LoadBonesFile(p.Bones)
		if err != nil {
			return nil, err
		}
		var sprites []rig.SpriteRect
		var sheet string
		if p.Sprites != "" {
			sp, err := LoadSpritesFile(p.Sprites)
			if err != nil {
				return nil, err
			}
			sprites, sheet = sp.Sprites, sp.SheetPath
		}
		var clip *rig.Clip
		if anim != nil {
			clip = anim.Clip
		}
		proj = editor.NewProjectFrom(bones.Skeleton, sprites, nil, clip)
		proj.SheetPath = sheet
	default:
		proj = editor.NewProject()
		if anim != nil {
			proj.Clip = anim.Clip
		}
	}

	if anim == nil {
		if err := proj.Clip.SetTiming(duration, fps); err != nil {
			log.Printf("rigfile: keeping default timing: %v", err)
		}
	}
	return proj, nil
}

// Save writes proj back to the documents it came from. A project with no
// source document is saved as an attachment config, and the chosen paths
// are recorded in p.
func (p *Paths) Save(proj *editor.Project) error {
	switch {
	case p.Attach != "":
		if err := SaveAttachmentFile(p.Attach, proj); err != nil {
			return err
		}
	case p.Bones != "":
		if err := SaveBonesFile(p.Bones, proj.Skeleton); err != nil {
			return err
		}
		if p.Sprites != "" {
			if err := SaveSpritesFile(p.Sprites, proj.SheetPath, proj.Sprites()); err != nil {
				return err
			}
		}
	default:
		p.Attach = DefaultAttachmentFile
		if err := SaveAttachmentFile(p.Attach, proj); err != nil {
			return err
		}
	}

	if p.Anim == "" {
		p.Anim = DefaultAnimationFile
	}
	if err := SaveAnimationFile(p.Anim, proj.Clip); err != nil {
		return fmt.Errorf("rigfile: save animation: %w", err)
	}
	return nil
}
