package editor

import (
	"fmt"

	"github.com/milk9111/rig/rig"
)

func keyIndex(p *Project, bone string, time float64) (*rig.Track, int, error) {
	tr := p.Clip.Track(bone)
	i := tr.IndexAt(time)
	if i < 0 {
		return nil, -1, fmt.Errorf("editor: no keyframe for %s at %.3fs", bone, time)
	}
	return tr, i, nil
}

// SetKeyframe inserts or overwrites the key at Keyframe.Time on a bone's
// track. The bone must exist.
type SetKeyframe struct {
	Bone     string
	Keyframe rig.Keyframe

	prev         rig.Keyframe
	replaced     bool
	createdTrack bool
}

func (c *SetKeyframe) Name() string {
	return fmt.Sprintf("key %s @ %.2fs", c.Bone, c.Keyframe.Time)
}

func (c *SetKeyframe) Do(p *Project) error {
	if !p.Skeleton.Has(c.Bone) {
		return fmt.Errorf("%w: %s", rig.ErrBoneNotFound, c.Bone)
	}
	if c.Keyframe.Time > p.Clip.Duration {
		return fmt.Errorf("%w: %.3f past clip end %.3f", rig.ErrInvalidTime, c.Keyframe.Time, p.Clip.Duration)
	}
	created := p.Clip.Track(c.Bone) == nil
	tr := p.Clip.EnsureTrack(c.Bone)
	prev, replaced, err := tr.Set(c.Keyframe)
	if err != nil {
		if created {
			p.Clip.RemoveTrack(c.Bone)
		}
		return err
	}
	c.prev, c.replaced, c.createdTrack = prev, replaced, created
	return nil
}

func (c *SetKeyframe) Undo(p *Project) error {
	tr := p.Clip.Track(c.Bone)
	if c.replaced {
		_, _, err := tr.Set(c.prev)
		return err
	}
	i := tr.IndexAt(c.Keyframe.Time)
	if i < 0 {
		return fmt.Errorf("editor: keyframe for %s at %.3fs vanished", c.Bone, c.Keyframe.Time)
	}
	tr.RemoveAt(i)
	if c.createdTrack && tr.Len() == 0 {
		p.Clip.RemoveTrack(c.Bone)
	}
	return nil
}

type DeleteKeyframe struct {
	Bone string
	Time float64

	removed rig.Keyframe
}

func (c *DeleteKeyframe) Name() string {
	return fmt.Sprintf("delete key %s @ %.2fs", c.Bone, c.Time)
}

func (c *DeleteKeyframe) Do(p *Project) error {
	tr, i, err := keyIndex(p, c.Bone, c.Time)
	if err != nil {
		return err
	}
	c.removed, _ = tr.RemoveAt(i)
	return nil
}

func (c *DeleteKeyframe) Undo(p *Project) error {
	_, _, err := p.Clip.EnsureTrack(c.Bone).Set(c.removed)
	return err
}

// MoveKeyframe retimes one key. Dropping it onto another key is rejected.
type MoveKeyframe struct {
	Bone     string
	From, To float64

	from float64
}

func (c *MoveKeyframe) Name() string {
	return fmt.Sprintf("move key %s %.2fs -> %.2fs", c.Bone, c.From, c.To)
}

func (c *MoveKeyframe) Do(p *Project) error {
	if c.To > p.Clip.Duration {
		return fmt.Errorf("%w: %.3f past clip end %.3f", rig.ErrInvalidTime, c.To, p.Clip.Duration)
	}
	tr, i, err := keyIndex(p, c.Bone, c.From)
	if err != nil {
		return err
	}
	k, _ := tr.Keyframe(i)
	if _, err := tr.Retime(i, c.To); err != nil {
		return err
	}
	c.from = k.Time
	return nil
}

func (c *MoveKeyframe) Undo(p *Project) error {
	tr, i, err := keyIndex(p, c.Bone, c.To)
	if err != nil {
		return err
	}
	_, err = tr.Retime(i, c.from)
	return err
}

type SetInterpolation struct {
	Bone string
	Time float64
	Mode rig.Interpolation

	prev rig.Interpolation
}

func (c *SetInterpolation) Name() string {
	return fmt.Sprintf("%s %s @ %.2fs", c.Mode, c.Bone, c.Time)
}

func (c *SetInterpolation) Do(p *Project) error {
	tr, i, err := keyIndex(p, c.Bone, c.Time)
	if err != nil {
		return err
	}
	prev, err := tr.SetInterpolation(i, c.Mode)
	if err != nil {
		return err
	}
	c.prev = prev
	return nil
}

func (c *SetInterpolation) Undo(p *Project) error {
	tr, i, err := keyIndex(p, c.Bone, c.Time)
	if err != nil {
		return err
	}
	_, err = tr.SetInterpolation(i, c.prev)
	return err
}

// ClearAnimation drops every track of the clip.
type ClearAnimation struct {
	removed []*rig.Track
}

func (c *ClearAnimation) Name() string { return "clear animation" }

func (c *ClearAnimation) Do(p *Project) error {
	c.removed = p.Clip.Clear()
	return nil
}

func (c *ClearAnimation) Undo(p *Project) error {
	p.Clip.Clear()
	for _, tr := range c.removed {
		p.Clip.SetTrack(tr)
	}
	return nil
}

// SetClipTiming changes the clip length and frame rate. Keys past the new
// end are kept and clamp during playback.
type SetClipTiming struct {
	Duration float64
	FPS      int

	prevDuration float64
	prevFPS      int
}

func (c *SetClipTiming) Name() string {
	return fmt.Sprintf("clip timing %.2fs @ %dfps", c.Duration, c.FPS)
}

func (c *SetClipTiming) Do(p *Project) error {
	d, fps := p.Clip.Duration, p.Clip.FPS
	if err := p.Clip.SetTiming(c.Duration, c.FPS); err != nil {
		return err
	}
	c.prevDuration, c.prevFPS = d, fps
	return nil
}

func (c *SetClipTiming) Undo(p *Project) error {
	return p.Clip.SetTiming(c.prevDuration, c.prevFPS)
}

// KeyPose records the bone's current offset at time, the way dragging a
// bone in the timeline does.
func KeyPose(bone string, time float64, offset rig.Transform, mode rig.Interpolation) *SetKeyframe {
	return &SetKeyframe{
		Bone: bone,
		Keyframe: rig.Keyframe{
			Time:          time,
			Transform:     offset,
			Interpolation: mode,
		},
	}
}
