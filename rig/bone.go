package rig

// AttachmentPoint selects which end of a parent bone a child hangs from.
type AttachmentPoint string

const (
	AttachStart AttachmentPoint = "start"
	AttachEnd   AttachmentPoint = "end"
)

func (a AttachmentPoint) Valid() bool {
	return a == AttachStart || a == AttachEnd
}

// Layer is the coarse draw band of a bone and everything attached to it.
type Layer string

const (
	LayerBehind Layer = "behind"
	LayerMiddle Layer = "middle"
	LayerFront  Layer = "front"
)

func (l Layer) Valid() bool {
	return l == LayerBehind || l == LayerMiddle || l == LayerFront
}

// Rank orders layers back to front.
func (l Layer) Rank() int {
	switch l {
	case LayerBehind:
		return 0
	case LayerFront:
		return 2
	default:
		return 1
	}
}

// Bone is a rigid segment. X, Y and Angle are local to the parent's
// attachment point; Parent is a weak reference by name.
type Bone struct {
	Name       string
	X          float64
	Y          float64
	Length     float64
	Angle      float64
	Parent     string
	Attachment AttachmentPoint
	Layer      Layer
	LayerOrder int
}

// NewBone returns a root bone with the editor defaults.
func NewBone(name string, x, y, length, angle float64) Bone {
	return Bone{
		Name:       name,
		X:          x,
		Y:          y,
		Length:     length,
		Angle:      angle,
		Attachment: AttachEnd,
		Layer:      LayerMiddle,
	}
}

// Local is the bone's rest transform relative to its anchor.
func (b Bone) Local() Transform {
	return Transform{X: b.X, Y: b.Y, Rotation: b.Angle, Scale: 1}
}

func (b Bone) normalized() Bone {
	if !b.Attachment.Valid() {
		b.Attachment = AttachEnd
	}
	if !b.Layer.Valid() {
		b.Layer = LayerMiddle
	}
	return b
}

// AnchorOn returns where something attached at point a sits on a bone
// whose world transform is world.
func AnchorOn(b Bone, world Transform, a AttachmentPoint) (float64, float64) {
	if a == AttachStart {
		return world.X, world.Y
	}
	return world.Along(b.Length)
}
