package presets

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const EditorFile = "editor.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("presets: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("presets: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EditorSpec holds the tunables of the editor and viewer.
type EditorSpec struct {
	History   HistorySpec   `yaml:"history"`
	Selection SelectionSpec `yaml:"selection"`
	Playback  PlaybackSpec  `yaml:"playback"`
	View      ViewSpec      `yaml:"view"`
	Scripts   ScriptSpec    `yaml:"scripts"`
}

type HistorySpec struct {
	Limit int `yaml:"limit"`
}

type SelectionSpec struct {
	// Tolerance is the click radius in screen pixels.
	Tolerance    float64 `yaml:"tolerance"`
	MinTolerance float64 `yaml:"min_tolerance"`
	ClickEpsilon float64 `yaml:"click_epsilon"`
}

type PlaybackSpec struct {
	Loop     bool    `yaml:"loop"`
	Duration float64 `yaml:"duration"`
	FPS      int     `yaml:"fps"`
}

type ViewSpec struct {
	Zoom       float64    `yaml:"zoom"`
	MinZoom    float64    `yaml:"min_zoom"`
	MaxZoom    float64    `yaml:"max_zoom"`
	ZoomStep   float64    `yaml:"zoom_step"`
	ZoomFrames int        `yaml:"zoom_frames"`
	Nudge      float64    `yaml:"nudge"`
	RotateStep float64    `yaml:"rotate_step"`
	Background *YAMLColor `yaml:"background"`
	Bone       *YAMLColor `yaml:"bone"`
	Selected   *YAMLColor `yaml:"selected"`
}

type ScriptSpec struct {
	TimeoutMS int `yaml:"timeout_ms"`
}

// LoadEditorSpec loads editor.yaml and fills any zero field with its default.
func LoadEditorSpec() (*EditorSpec, error) {
	spec, err := LoadSpec[EditorSpec](EditorFile)
	if err != nil {
		return nil, err
	}
	spec.applyDefaults()
	return &spec, nil
}

// DefaultEditorSpec is the spec used when no preset can be read.
func DefaultEditorSpec() *EditorSpec {
	spec := &EditorSpec{Playback: PlaybackSpec{Loop: true}}
	spec.applyDefaults()
	return spec
}

func (s *EditorSpec) applyDefaults() {
	if s.History.Limit <= 0 {
		s.History.Limit = 50
	}
	if s.Selection.Tolerance <= 0 {
		s.Selection.Tolerance = 10
	}
	if s.Selection.MinTolerance <= 0 {
		s.Selection.MinTolerance = 5
	}
	if s.Selection.ClickEpsilon <= 0 {
		s.Selection.ClickEpsilon = 3
	}
	if s.Playback.Duration <= 0 {
		s.Playback.Duration = 5
	}
	if s.Playback.FPS <= 0 {
		s.Playback.FPS = 30
	}
	if s.View.Zoom <= 0 {
		s.View.Zoom = 1
	}
	if s.View.MinZoom <= 0 {
		s.View.MinZoom = 0.25
	}
	if s.View.MaxZoom < s.View.MinZoom {
		s.View.MaxZoom = 8
	}
	if s.View.ZoomStep <= 1 {
		s.View.ZoomStep = 1.25
	}
	if s.View.Nudge <= 0 {
		s.View.Nudge = 1
	}
	if s.View.RotateStep <= 0 {
		s.View.RotateStep = 5
	}
	if s.View.Background == nil {
		s.View.Background = &YAMLColor{color.NRGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff}}
	}
	if s.View.Bone == nil {
		s.View.Bone = &YAMLColor{color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}}
	}
	if s.View.Selected == nil {
		s.View.Selected = &YAMLColor{color.NRGBA{R: 0xff, G: 0xcc, B: 0x00, A: 0xff}}
	}
	if s.Scripts.TimeoutMS <= 0 {
		s.Scripts.TimeoutMS = 2000
	}
}

// YAMLColor reads "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
