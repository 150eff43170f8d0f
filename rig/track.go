package rig

import (
	"fmt"
	"math"
)

// KeyframeEpsilon is the tolerance, in seconds, for two key times to count
// as the same key.
const KeyframeEpsilon = 0.01

// Keyframe is one timed sample of a bone's offset from its rest pose.
type Keyframe struct {
	Time          float64
	Transform     Transform
	Interpolation Interpolation
	// SpriteInstance optionally swaps which instance is shown from this key on.
	SpriteInstance string
}

// Track holds one bone's keyframes in ascending time order.
type Track struct {
	Bone string
	keys []Keyframe
}

func NewTrack(bone string) *Track {
	return &Track{Bone: bone}
}

func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keyframes returns a copy of the keys in time order.
func (t *Track) Keyframes() []Keyframe {
	if t == nil {
		return nil
	}
	return append([]Keyframe(nil), t.keys...)
}

func (t *Track) Keyframe(i int) (Keyframe, bool) {
	if t == nil || i < 0 || i >= len(t.keys) {
		return Keyframe{}, false
	}
	return t.keys[i], true
}

// IndexAt returns the index of the key within KeyframeEpsilon of time, or -1.
func (t *Track) IndexAt(time float64) int {
	if t == nil {
		return -1
	}
	for i, k := range t.keys {
		if math.Abs(k.Time-time) < KeyframeEpsilon {
			return i
		}
	}
	return -1
}

func validTime(time float64) error {
	if math.IsNaN(time) || math.IsInf(time, 0) || time < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTime, time)
	}
	return nil
}

// Set inserts k in time order. A key already within KeyframeEpsilon of k.Time
// is overwritten and returned.
func (t *Track) Set(k Keyframe) (Keyframe, bool, error) {
	if err := validTime(k.Time); err != nil {
		return Keyframe{}, false, err
	}
	if !k.Interpolation.Valid() {
		k.Interpolation = Linear
	}
	if i := t.IndexAt(k.Time); i >= 0 {
		prev := t.keys[i]
		k.Time = prev.Time
		t.keys[i] = k
		return prev, true, nil
	}
	t.insert(k)
	return Keyframe{}, false, nil
}

func (t *Track) insert(k Keyframe) int {
	pos := len(t.keys)
	for i, existing := range t.keys {
		if existing.Time > k.Time {
			pos = i
			break
		}
	}
	t.keys = append(t.keys, Keyframe{})
	copy(t.keys[pos+1:], t.keys[pos:])
	t.keys[pos] = k
	return pos
}

func (t *Track) RemoveAt(i int) (Keyframe, bool) {
	if t == nil || i < 0 || i >= len(t.keys) {
		return Keyframe{}, false
	}
	k := t.keys[i]
	t.keys = append(t.keys[:i], t.keys[i+1:]...)
	return k, true
}

// Retime moves key i to a new time and returns its new index. Landing on
// another key is rejected.
func (t *Track) Retime(i int, time float64) (int, error) {
	if t == nil || i < 0 || i >= len(t.keys) {
		return -1, fmt.Errorf("rig: keyframe index %d out of range", i)
	}
	if err := validTime(time); err != nil {
		return -1, err
	}
	if j := t.IndexAt(time); j >= 0 && j != i {
		return -1, fmt.Errorf("%w: %.3f", ErrKeyCollision, time)
	}
	k, _ := t.RemoveAt(i)
	k.Time = time
	return t.insert(k), nil
}

// SetInterpolation changes the easing of key i and returns the old mode.
func (t *Track) SetInterpolation(i int, mode Interpolation) (Interpolation, error) {
	if t == nil || i < 0 || i >= len(t.keys) {
		return "", fmt.Errorf("rig: keyframe index %d out of range", i)
	}
	if !mode.Valid() {
		return "", fmt.Errorf("rig: unknown interpolation %q", mode)
	}
	prev := t.keys[i].Interpolation
	t.keys[i].Interpolation = mode
	return prev, nil
}

// Evaluate samples the track at time. It never extrapolates: times outside
// the keyed range clamp to the first or last key.
func (t *Track) Evaluate(time float64) Transform {
	if t == nil || len(t.keys) == 0 {
		return Identity()
	}
	first, last := t.keys[0], t.keys[len(t.keys)-1]
	if len(t.keys) == 1 || time <= first.Time {
		return first.Transform
	}
	if time >= last.Time {
		return last.Transform
	}
	for i := 0; i < len(t.keys)-1; i++ {
		a, b := t.keys[i], t.keys[i+1]
		if a.Time <= time && time <= b.Time {
			var f float64
			if span := b.Time - a.Time; span > 0 {
				f = (time - a.Time) / span
			}
			return a.Transform.Lerp(b.Transform, a.Interpolation.Ease(f))
		}
	}
	return last.Transform
}

// SpriteAt returns the sprite instance selected by the latest key at or
// before time, or "".
func (t *Track) SpriteAt(time float64) string {
	if t == nil {
		return ""
	}
	active := ""
	for _, k := range t.keys {
		if k.Time > time {
			break
		}
		if k.SpriteInstance != "" {
			active = k.SpriteInstance
		}
	}
	return active
}

func (t *Track) Clone() *Track {
	if t == nil {
		return nil
	}
	return &Track{Bone: t.Bone, keys: append([]Keyframe(nil), t.keys...)}
}
