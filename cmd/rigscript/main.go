// Command rigscript runs a keyframe script against one bone of a rig and
// writes the resulting animation clip.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/rig/editor"
	"github.com/milk9111/rig/presets"
	"github.com/milk9111/rig/rigfile"
	"github.com/milk9111/rig/script"
)

// params collects repeated -param name=value flags. Values that parse as
// numbers or booleans are passed to the script as such.
type params map[string]any

func (p params) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}

func (p params) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("want name=value, got %q", s)
	}
	value = strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		p[name] = f
		return nil
	}
	if b, err := strconv.ParseBool(value); err == nil {
		p[name] = b
		return nil
	}
	p[name] = value
	return nil
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("rigscript", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var paths rigfile.Paths
	fs.StringVar(&paths.Attach, "attach", "", "attachment config")
	fs.StringVar(&paths.Bones, "bones", "", "bone project, used when -attach is not given")
	fs.StringVar(&paths.Anim, "anim", "", "animation clip to update (created if missing)")
	name := fs.String("script", "", "preset script name, see -list")
	file := fs.String("file", "", "script file, overrides -script")
	bone := fs.String("bone", "", "bone to animate")
	out := fs.String("out", "", "write the clip here instead of -anim")
	duration := fs.Float64("duration", 0, "clip duration for a new clip")
	fps := fs.Int("fps", 0, "clip fps for a new clip")
	timeout := fs.Duration("timeout", 2*time.Second, "script time limit")
	dryRun := fs.Bool("n", false, "print the keyframes instead of saving")
	list := fs.Bool("list", false, "list preset scripts")
	ps := params{}
	fs.Var(ps, "param", "script parameter name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *list {
		for _, s := range presets.Scripts() {
			fmt.Fprintln(stdout, s)
		}
		return nil
	}
	if *bone == "" {
		return errors.New("rigscript: -bone is required")
	}
	req := script.Request{Name: *name, Bone: *bone, Params: ps}
	if *file != "" {
		src, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("rigscript: %w", err)
		}
		req.Source = src
		if req.Name == "" {
			req.Name = *file
		}
	}
	if req.Name == "" {
		return errors.New("rigscript: -script or -file is required")
	}

	d, f := timing(*duration, *fps)
	p, err := paths.Load(d, f)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *dryRun {
		keys, err := script.Keys(ctx, p, req)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintf(stdout, "%.3fs x=%.2f y=%.2f rot=%.2f scale=%.2f %s\n",
				k.Time, k.Transform.X, k.Transform.Y, k.Transform.Rotation, k.Transform.Scale, k.Interpolation)
		}
		return nil
	}

	h := editor.NewHistory(p, editor.DefaultHistoryLimit)
	n, err := script.Apply(ctx, h, req)
	if err != nil {
		return err
	}

	target := *out
	if target == "" {
		target = paths.Anim
	}
	if target == "" {
		target = rigfile.DefaultAnimationFile
	}
	if err := rigfile.SaveAnimationFile(target, p.Clip); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: keyed %d frames on %s -> %s\n", req.Name, n, req.Bone, target)
	return nil
}

// timing fills unset timing from the editor presets.
func timing(duration float64, fps int) (float64, int) {
	spec, err := presets.LoadEditorSpec()
	if err != nil {
		log.Printf("rigscript: %v (using defaults)", err)
		spec = presets.DefaultEditorSpec()
	}
	if duration <= 0 {
		duration = spec.Playback.Duration
	}
	if fps <= 0 {
		fps = spec.Playback.FPS
	}
	return duration, fps
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}
