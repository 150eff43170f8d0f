package rig

import (
	"math"
	"testing"
)

func TestPlaceFollowsBone(t *testing.T) {
	s, err := BuildSkeleton([]Bone{NewBone("arm", 0, 0, 10, 90)})
	if err != nil {
		t.Fatal(err)
	}
	rest, _ := s.Resolve()
	sprites := map[string]SpriteRect{"hand": NewSpriteRect("hand", 0, 0, 4, 4)}

	tests := []struct {
		name         string
		inst         SpriteInstance
		wantX, wantY float64
	}{
		{"start_no_offset", SpriteInstance{ID: "h1", SpriteName: "hand", BoneName: "arm", Scale: 1, Attachment: AttachStart}, 0, 0},
		{"end_no_offset", SpriteInstance{ID: "h2", SpriteName: "hand", BoneName: "arm", Scale: 1, Attachment: AttachEnd}, 0, 10},
		{"start_offset_rotated", SpriteInstance{ID: "h3", SpriteName: "hand", BoneName: "arm", OffsetX: 2, Scale: 1, Attachment: AttachStart}, 0, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, ok, diags := Place(s, sprites, tc.inst, rest, rest)
			if !ok || len(diags) != 0 {
				t.Fatalf("expected placement, ok=%v diags=%v", ok, diags)
			}
			if math.Abs(p.X-tc.wantX) > 1e-9 || math.Abs(p.Y-tc.wantY) > 1e-9 {
				t.Fatalf("expected (%v,%v), got (%v,%v)", tc.wantX, tc.wantY, p.X, p.Y)
			}
		})
	}
}

func TestPlaceDiagnostics(t *testing.T) {
	s, err := BuildSkeleton([]Bone{NewBone("arm", 0, 0, 10, 0)})
	if err != nil {
		t.Fatal(err)
	}
	rest, _ := s.Resolve()
	sprites := map[string]SpriteRect{
		"ok":   NewSpriteRect("ok", 0, 0, 4, 4),
		"flat": NewSpriteRect("flat", 0, 0, 4, 0),
	}

	tests := []struct {
		name string
		inst SpriteInstance
		want DiagnosticKind
	}{
		{"degenerate", SpriteInstance{ID: "a", SpriteName: "flat", BoneName: "arm"}, DegenerateGeometry},
		{"missing_sprite", SpriteInstance{ID: "b", SpriteName: "nope", BoneName: "arm"}, DanglingReference},
		{"missing_bone", SpriteInstance{ID: "c", SpriteName: "ok", BoneName: "leg"}, DanglingReference},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok, diags := Place(s, sprites, tc.inst, rest, rest)
			if ok {
				t.Fatal("expected instance to be skipped")
			}
			if len(diags) != 1 || diags[0].Kind != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, diags)
			}
		})
	}
}

func TestPlacementContains(t *testing.T) {
	p := Placement{Rect: NewSpriteRect("r", 0, 0, 10, 4), X: 100, Y: 100, Rotation: 90, Scale: 1}
	if !p.Contains(100, 104, 0) {
		t.Fatal("expected point along rotated width to be inside")
	}
	if p.Contains(104, 100, 0) {
		t.Fatal("expected point outside rotated height")
	}
	if !p.Contains(104, 100, 2.5) {
		t.Fatal("expected padded hit")
	}
}
