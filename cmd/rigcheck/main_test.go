package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/rig/rigfile"
)

const attachDoc = `{
  "sprite_sheet_path": "sheet.png",
  "sprites": {
    "hand": {"name": "hand", "x": 0, "y": 0, "width": 8, "height": 8},
    "flat": {"name": "flat", "x": 0, "y": 8, "width": 0, "height": 4}
  },
  "bones": {
    "root": {"name": "root", "x": 0, "y": 0, "length": 10, "angle": 0, "parent": null, "children": []}
  },
  "sprite_instances": {
    "hand_1": {"id": "hand_1", "sprite_name": "hand", "bone_name": "root", "offset_x": 0, "offset_y": 0}
  }
}`

const animDoc = `{
  "duration": 1,
  "fps": 10,
  "animation_tracks": {
    "root": {"keyframes": [{"time": 0, "transform": {"x": 0, "y": 0, "rotation": 0, "scale": 1}}]},
    "ghost": {"keyframes": [{"time": 0, "transform": {"x": 0, "y": 0, "rotation": 5, "scale": 1}}]}
  }
}`

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	paths := rigfile.Paths{
		Attach: write(t, dir, "rig.json", attachDoc),
		Anim:   write(t, dir, "anim.json", animDoc),
	}

	reports := check(paths)
	if len(reports) != 3 {
		t.Fatalf("expected attachment, animation and project reports, got %d", len(reports))
	}

	var buf bytes.Buffer
	errs, warnings := printReports(&buf, reports)
	if errs != 0 {
		t.Fatalf("unexpected errors:\n%s", buf.String())
	}
	// the unused degenerate sprite, then the track on the missing bone
	if warnings != 2 {
		t.Fatalf("expected 2 warnings, got %d:\n%s", warnings, buf.String())
	}
	for _, want := range []string{"degenerate-geometry", "ghost", "1 instances"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestCheckStopsOnLoadError(t *testing.T) {
	dir := t.TempDir()
	paths := rigfile.Paths{
		Attach: write(t, dir, "rig.json", attachDoc),
		Anim:   write(t, dir, "anim.json", `{"duration": 0, "fps": 10}`),
	}

	reports := check(paths)
	if len(reports) != 2 {
		t.Fatalf("expected no project report after a failure, got %d reports", len(reports))
	}
	var buf bytes.Buffer
	if errs, _ := printReports(&buf, reports); errs != 1 {
		t.Fatalf("expected 1 error, got %d:\n%s", errs, buf.String())
	}
	if !strings.Contains(buf.String(), "FAIL animation clip") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
