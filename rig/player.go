package rig

import (
	"fmt"
	"math"
)

// Player drives a clip over a rest skeleton. Every sample is rebuilt from the
// immutable rest pose plus the keyframe offsets, so nothing accumulates
// between frames.
type Player struct {
	rest    *Skeleton
	clip    *Clip
	time    float64
	playing bool
	Loop    bool
}

// NewPlayer snapshots rest; later edits to the caller's skeleton need Rebind.
func NewPlayer(rest *Skeleton, clip *Clip) *Player {
	if clip == nil {
		clip = NewClip("")
	}
	return &Player{rest: rest.Clone(), clip: clip, Loop: true}
}

// Rebind replaces the rest pose snapshot and keeps the playhead.
func (p *Player) Rebind(rest *Skeleton) {
	p.rest = rest.Clone()
}

func (p *Player) SetClip(c *Clip) {
	if c == nil {
		c = NewClip("")
	}
	p.clip = c
	p.time = math.Min(p.time, p.Duration())
}

func (p *Player) Rest() *Skeleton { return p.rest }
func (p *Player) Clip() *Clip     { return p.clip }

func (p *Player) Play()  { p.playing = true }
func (p *Player) Pause() { p.playing = false }

// Stop pauses and rewinds to the start.
func (p *Player) Stop() {
	p.playing = false
	p.time = 0
}

func (p *Player) Toggle() {
	p.playing = !p.playing
}

// Seek moves the playhead, clamped to [0, Duration].
func (p *Player) Seek(t float64) {
	if math.IsNaN(t) {
		return
	}
	p.time = math.Max(0, math.Min(t, p.Duration()))
}

// Step moves the playhead by whole frames without playing.
func (p *Player) Step(frames int) {
	if p.clip == nil || p.clip.FPS <= 0 {
		return
	}
	p.Seek(p.time + float64(frames)/float64(p.clip.FPS))
}

func (p *Player) CurrentTime() float64 { return p.time }
func (p *Player) IsPlaying() bool      { return p.playing }

func (p *Player) Duration() float64 {
	if p.clip == nil || p.clip.Duration <= 0 {
		return 0
	}
	return p.clip.Duration
}

// Update advances the playhead by dt seconds while playing. At the end of the
// clip it wraps when looping and stops otherwise.
func (p *Player) Update(dt float64) {
	if !p.playing || dt <= 0 || math.IsNaN(dt) {
		return
	}
	d := p.Duration()
	if d == 0 {
		p.time = 0
		return
	}
	p.time += dt
	if p.time < d {
		return
	}
	if !p.Loop {
		p.time = d
		p.playing = false
		return
	}
	p.time = math.Mod(p.time, d)
}

// LocalPose returns the posed local transform of every bone at the playhead.
func (p *Player) LocalPose() (map[string]Transform, []Diagnostic) {
	var diags []Diagnostic
	local := make(map[string]Transform, p.rest.Len())
	for _, t := range p.clip.Tracks() {
		if t.Len() == 0 {
			continue
		}
		b, ok := p.rest.Bone(t.Bone)
		if !ok {
			diags = append(diags, Diagnostic{
				Kind:    DanglingReference,
				Subject: t.Bone,
				Detail:  fmt.Sprintf("track in clip %q targets a missing bone", p.clip.Name),
			})
			continue
		}
		local[b.Name] = b.Local().Offset(t.Evaluate(p.time))
	}
	return local, diags
}

// Resolve returns world transforms for the pose at the playhead.
func (p *Player) Resolve() (map[string]Transform, []Diagnostic) {
	local, diags := p.LocalPose()
	world, more := p.rest.ResolvePose(local)
	return world, append(diags, more...)
}

// Sprites returns per-bone sprite swaps active at the playhead.
func (p *Player) Sprites() map[string]string {
	out := map[string]string{}
	for _, t := range p.clip.Tracks() {
		if id := t.SpriteAt(p.time); id != "" {
			out[t.Bone] = id
		}
	}
	return out
}
