// Command rigcheck loads rig documents and reports load errors and
// diagnostics without opening the viewer.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/milk9111/rig/rig"
	"github.com/milk9111/rig/rigfile"
)

// report is the outcome of loading one document.
type report struct {
	Document    string
	Path        string
	Summary     string
	Diagnostics []rig.Diagnostic
	Err         error
}

func roots(s *rig.Skeleton) int {
	n := 0
	for _, b := range s.Bones() {
		if b.Parent == "" {
			n++
		}
	}
	return n
}

// check loads every document in paths on its own, then the assembled
// project when all of them loaded.
func check(paths rigfile.Paths) []report {
	var out []report
	failed := false
	add := func(r report) {
		if r.Err != nil {
			failed = true
		}
		out = append(out, r)
	}

	if paths.Bones != "" {
		r := report{Document: rigfile.DocBones, Path: paths.Bones}
		if bp, err := rigfile.LoadBonesFile(paths.Bones); err != nil {
			r.Err = err
		} else {
			r.Summary = fmt.Sprintf("%d bones, %d roots", bp.Skeleton.Len(), roots(bp.Skeleton))
			r.Diagnostics = bp.Diagnostics
		}
		add(r)
	}
	if paths.Sprites != "" {
		r := report{Document: rigfile.DocSprites, Path: paths.Sprites}
		if sp, err := rigfile.LoadSpritesFile(paths.Sprites); err != nil {
			r.Err = err
		} else {
			r.Summary = fmt.Sprintf("%d sprites on %q", len(sp.Sprites), sp.SheetPath)
			r.Diagnostics = sp.Diagnostics
		}
		add(r)
	}
	if paths.Attach != "" {
		r := report{Document: rigfile.DocAttachment, Path: paths.Attach}
		if cfg, err := rigfile.LoadAttachmentFile(paths.Attach); err != nil {
			r.Err = err
		} else {
			r.Summary = fmt.Sprintf("%d bones, %d sprites, %d instances", cfg.Skeleton.Len(), len(cfg.Sprites), len(cfg.Instances))
			r.Diagnostics = cfg.Diagnostics
		}
		add(r)
	}
	if paths.Anim != "" {
		r := report{Document: rigfile.DocAnimation, Path: paths.Anim}
		if a, err := rigfile.LoadAnimationFile(paths.Anim); err != nil {
			r.Err = err
		} else {
			c := a.Clip
			r.Summary = fmt.Sprintf("%.2fs @ %dfps, %d tracks, %d keys", c.Duration, c.FPS, len(c.Tracks()), c.KeyCount())
		}
		add(r)
	}

	if failed || (paths.Attach == "" && paths.Bones == "") {
		return out
	}
	r := report{Document: "project"}
	if p, err := paths.Load(rig.DefaultDuration, rig.DefaultFPS); err != nil {
		r.Err = err
	} else {
		r.Summary = fmt.Sprintf("%d bones, %d tracks", p.Skeleton.Len(), len(p.Clip.Tracks()))
		r.Diagnostics = p.Diagnostics()
	}
	add(r)
	return out
}

// printReports writes the reports and returns the number of errors and warnings.
func printReports(w io.Writer, reports []report) (errs, warnings int) {
	for _, r := range reports {
		name := r.Document
		if r.Path != "" {
			name = fmt.Sprintf("%s (%s)", r.Document, r.Path)
		}
		if r.Err != nil {
			errs++
			fmt.Fprintf(w, "FAIL %s: %v\n", name, r.Err)
			continue
		}
		fmt.Fprintf(w, "ok   %s: %s\n", name, r.Summary)
		for _, d := range r.Diagnostics {
			warnings++
			fmt.Fprintf(w, "     warning: %s\n", d)
		}
	}
	return errs, warnings
}

func main() {
	var paths rigfile.Paths
	flag.StringVar(&paths.Attach, "attach", "", "attachment config")
	flag.StringVar(&paths.Bones, "bones", "", "bone project")
	flag.StringVar(&paths.Sprites, "sprites", "", "sprite project")
	flag.StringVar(&paths.Anim, "anim", "", "animation clip")
	strict := flag.Bool("strict", false, "exit with status 2 when any warning is reported")
	verbose := flag.Bool("v", false, "keep loader log output")
	flag.Parse()

	if len(paths.Files()) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	errs, warnings := printReports(os.Stdout, check(paths))
	switch {
	case errs > 0:
		os.Exit(1)
	case *strict && warnings > 0:
		os.Exit(2)
	}
}
