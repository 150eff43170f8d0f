package rig

import (
	"fmt"
	"math"
	"sort"
)

const (
	DefaultDuration = 5.0
	DefaultFPS      = 30
)

// Clip is a named set of per-bone tracks with a looping duration.
type Clip struct {
	Name     string
	Duration float64
	FPS      int

	tracks map[string]*Track
	order  []string
}

func NewClip(name string) *Clip {
	return &Clip{
		Name:     name,
		Duration: DefaultDuration,
		FPS:      DefaultFPS,
		tracks:   make(map[string]*Track),
	}
}

// Track returns the bone's track or nil.
func (c *Clip) Track(bone string) *Track {
	if c == nil {
		return nil
	}
	return c.tracks[bone]
}

// EnsureTrack returns the bone's track, creating an empty one if needed.
func (c *Clip) EnsureTrack(bone string) *Track {
	if t, ok := c.tracks[bone]; ok {
		return t
	}
	if c.tracks == nil {
		c.tracks = make(map[string]*Track)
	}
	t := NewTrack(bone)
	c.tracks[bone] = t
	c.order = append(c.order, bone)
	return t
}

// SetTrack installs t, replacing any existing track for t.Bone.
func (c *Clip) SetTrack(t *Track) {
	if t == nil {
		return
	}
	if c.tracks == nil {
		c.tracks = make(map[string]*Track)
	}
	if _, ok := c.tracks[t.Bone]; !ok {
		c.order = append(c.order, t.Bone)
	}
	c.tracks[t.Bone] = t
}

func (c *Clip) RemoveTrack(bone string) *Track {
	if c == nil {
		return nil
	}
	t, ok := c.tracks[bone]
	if !ok {
		return nil
	}
	delete(c.tracks, bone)
	for i, name := range c.order {
		if name == bone {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return t
}

// Bones lists tracked bones in the order their tracks were added.
func (c *Clip) Bones() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

func (c *Clip) Tracks() []*Track {
	if c == nil {
		return nil
	}
	out := make([]*Track, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.tracks[name])
	}
	return out
}

// KeyCount is the number of keyframes across all tracks.
func (c *Clip) KeyCount() int {
	n := 0
	for _, t := range c.Tracks() {
		n += t.Len()
	}
	return n
}

// KeyTimes returns the distinct key times of all tracks, ascending.
func (c *Clip) KeyTimes() []float64 {
	var times []float64
	for _, t := range c.Tracks() {
		for _, k := range t.keys {
			times = append(times, k.Time)
		}
	}
	sort.Float64s(times)
	out := times[:0]
	for _, v := range times {
		if len(out) > 0 && math.Abs(out[len(out)-1]-v) < KeyframeEpsilon {
			continue
		}
		out = append(out, v)
	}
	return out
}

// FrameCount is the number of whole frames in one loop.
func (c *Clip) FrameCount() int {
	if c == nil || c.FPS <= 0 || c.Duration <= 0 {
		return 0
	}
	return int(math.Ceil(c.Duration * float64(c.FPS)))
}

// SetTiming changes duration and frame rate.
func (c *Clip) SetTiming(duration float64, fps int) error {
	if math.IsNaN(duration) || duration <= 0 {
		return fmt.Errorf("rig: clip duration must be positive, got %v", duration)
	}
	if fps <= 0 {
		return fmt.Errorf("rig: clip fps must be positive, got %d", fps)
	}
	c.Duration = duration
	c.FPS = fps
	return nil
}

// Sample evaluates every non-empty track at time.
func (c *Clip) Sample(time float64) map[string]Transform {
	out := make(map[string]Transform, len(c.order))
	for _, t := range c.Tracks() {
		if t.Len() == 0 {
			continue
		}
		out[t.Bone] = t.Evaluate(time)
	}
	return out
}

func (c *Clip) Clone() *Clip {
	if c == nil {
		return nil
	}
	out := &Clip{
		Name:     c.Name,
		Duration: c.Duration,
		FPS:      c.FPS,
		tracks:   make(map[string]*Track, len(c.tracks)),
		order:    append([]string(nil), c.order...),
	}
	for name, t := range c.tracks {
		out.tracks[name] = t.Clone()
	}
	return out
}

// Clear removes every track and returns them in order.
func (c *Clip) Clear() []*Track {
	removed := c.Tracks()
	c.tracks = make(map[string]*Track)
	c.order = nil
	return removed
}
