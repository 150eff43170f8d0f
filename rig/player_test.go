package rig

import (
	"math"
	"testing"
)

func armRig(t *testing.T) (*Skeleton, *Clip) {
	t.Helper()
	s, err := BuildSkeleton([]Bone{
		NewBone("root", 0, 0, 10, 0),
		child("arm", "root", 0, 0, 5, 0, AttachEnd),
	})
	if err != nil {
		t.Fatal(err)
	}
	c := NewClip("wave")
	c.Duration = 2
	tr := c.EnsureTrack("arm")
	tr.Set(Keyframe{Time: 0, Transform: Identity(), Interpolation: Linear})
	tr.Set(Keyframe{Time: 1, Transform: Transform{Rotation: 90, Scale: 1}, Interpolation: Linear})
	return s, c
}

func TestPlayerSamplesAgainstRestPose(t *testing.T) {
	s, c := armRig(t)
	p := NewPlayer(s, c)
	p.Seek(0.5)

	for i := 0; i < 3; i++ {
		world, diags := p.Resolve()
		if len(diags) != 0 {
			t.Fatalf("unexpected diagnostics %v", diags)
		}
		if got := world["arm"].Rotation; math.Abs(got-45) > 1e-9 {
			t.Fatalf("pass %d: expected rotation 45, got %v", i, got)
		}
	}
	if b, _ := p.Rest().Bone("arm"); b.Angle != 0 {
		t.Fatalf("rest pose mutated: %+v", b)
	}
}

func TestPlayerTransport(t *testing.T) {
	s, c := armRig(t)
	p := NewPlayer(s, c)

	p.Update(0.5)
	if p.CurrentTime() != 0 {
		t.Fatalf("paused player advanced to %v", p.CurrentTime())
	}

	p.Play()
	if !p.IsPlaying() {
		t.Fatal("expected playing")
	}
	p.Update(0.5)
	if p.CurrentTime() != 0.5 {
		t.Fatalf("expected 0.5, got %v", p.CurrentTime())
	}
	p.Update(2)
	if math.Abs(p.CurrentTime()-0.5) > 1e-9 {
		t.Fatalf("expected wrap to 0.5, got %v", p.CurrentTime())
	}

	p.Pause()
	p.Update(1)
	if math.Abs(p.CurrentTime()-0.5) > 1e-9 {
		t.Fatalf("paused player moved to %v", p.CurrentTime())
	}

	p.Seek(10)
	if p.CurrentTime() != p.Duration() {
		t.Fatalf("seek should clamp to %v, got %v", p.Duration(), p.CurrentTime())
	}
	p.Seek(-3)
	if p.CurrentTime() != 0 {
		t.Fatalf("seek should clamp to 0, got %v", p.CurrentTime())
	}

	p.Play()
	p.Update(1)
	p.Stop()
	if p.IsPlaying() || p.CurrentTime() != 0 {
		t.Fatalf("stop should rewind and pause, got t=%v playing=%v", p.CurrentTime(), p.IsPlaying())
	}
}

func TestPlayerWithoutLoopStopsAtEnd(t *testing.T) {
	s, c := armRig(t)
	p := NewPlayer(s, c)
	p.Loop = false
	p.Play()
	p.Update(5)
	if p.IsPlaying() || p.CurrentTime() != p.Duration() {
		t.Fatalf("expected stop at end, got t=%v playing=%v", p.CurrentTime(), p.IsPlaying())
	}
}

func TestPlayerDanglingTrack(t *testing.T) {
	s, c := armRig(t)
	c.EnsureTrack("ghost").Set(Keyframe{Time: 0, Transform: Identity()})
	p := NewPlayer(s, c)
	_, diags := p.Resolve()
	if len(diags) != 1 || diags[0].Kind != DanglingReference || diags[0].Subject != "ghost" {
		t.Fatalf("expected dangling diagnostic for ghost, got %v", diags)
	}
}

func TestClipKeyTimes(t *testing.T) {
	_, c := armRig(t)
	c.EnsureTrack("root").Set(Keyframe{Time: 1.005, Transform: Identity()})
	c.EnsureTrack("root").Set(Keyframe{Time: 1.5, Transform: Identity()})
	got := c.KeyTimes()
	want := []float64{0, 1, 1.5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if c.FrameCount() != 60 {
		t.Fatalf("expected 60 frames, got %d", c.FrameCount())
	}
}
