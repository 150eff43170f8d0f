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
  "sprites": {},
  "bones": {
    "root": {"name": "root", "x": 0, "y": 0, "length": 10, "angle": 0, "parent": null, "children": []}
  },
  "sprite_instances": {}
}`

func setup(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	attach := filepath.Join(dir, "rig.json")
	if err := os.WriteFile(attach, []byte(attachDoc), 0644); err != nil {
		t.Fatal(err)
	}
	return attach, filepath.Join(dir, "anim.json")
}

func TestRunWritesClip(t *testing.T) {
	attach, anim := setup(t)

	var out bytes.Buffer
	err := run([]string{"-attach", attach, "-anim", anim, "-script", "bob", "-bone", "root", "-param", "height=10", "-duration", "2", "-fps", "10"}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "keyed 3 frames on root") {
		t.Fatalf("unexpected output: %q", out.String())
	}

	a, err := rigfile.LoadAnimationFile(anim)
	if err != nil {
		t.Fatal(err)
	}
	if a.Clip.Duration != 2 || a.Clip.FPS != 10 {
		t.Fatalf("expected 2s @ 10fps, got %vs @ %d", a.Clip.Duration, a.Clip.FPS)
	}
	if got := a.Clip.Track("root").Evaluate(1).Y; got != -10 {
		t.Fatalf("expected y -10 at mid clip, got %v", got)
	}
}

func TestRunDryRun(t *testing.T) {
	attach, anim := setup(t)

	var out bytes.Buffer
	if err := run([]string{"-attach", attach, "-anim", anim, "-script", "bob", "-bone", "root", "-n"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 3 {
		t.Fatalf("expected 3 keyframe lines, got %d:\n%s", lines, out.String())
	}
	if _, err := os.Stat(anim); !os.IsNotExist(err) {
		t.Fatalf("dry run should not write %s", anim)
	}
}

func TestRunErrors(t *testing.T) {
	attach, anim := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no_bone", args: []string{"-attach", attach, "-script", "bob"}},
		{name: "no_script", args: []string{"-attach", attach, "-bone", "root"}},
		{name: "unknown_bone", args: []string{"-attach", attach, "-anim", anim, "-script", "bob", "-bone", "tail"}},
		{name: "unknown_script", args: []string{"-attach", attach, "-anim", anim, "-script", "nope", "-bone", "root"}},
		{name: "bad_param", args: []string{"-param", "oops"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tc.args, &out); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParams(t *testing.T) {
	p := params{}
	for _, s := range []string{"amplitude=12.5", "loop=true", "label= wave ", "steps=4"} {
		if err := p.Set(s); err != nil {
			t.Fatalf("Set(%q): %v", s, err)
		}
	}
	if p["amplitude"] != 12.5 || p["loop"] != true || p["label"] != "wave" || p["steps"] != 4.0 {
		t.Fatalf("params = %v", p)
	}
}
