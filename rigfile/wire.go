package rigfile

import "encoding/json"

type boneJSON struct {
	Name                  string   `json:"name,omitempty"`
	X                     *float64 `json:"x"`
	Y                     *float64 `json:"y"`
	Length                *float64 `json:"length"`
	Angle                 float64  `json:"angle"`
	Parent                *string  `json:"parent"`
	Children              []string `json:"children"`
	AttachmentPoint       string   `json:"attachment_point,omitempty"`
	ParentAttachmentPoint string   `json:"parent_attachment_point,omitempty"`
	Layer                 string   `json:"layer,omitempty"`
	LayerOrder            int      `json:"layer_order"`
}

type spriteJSON struct {
	Name    string   `json:"name,omitempty"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Width   *int     `json:"width"`
	Height  *int     `json:"height"`
	OriginX *float64 `json:"origin_x,omitempty"`
	OriginY *float64 `json:"origin_y,omitempty"`
}

type instanceJSON struct {
	ID                  string   `json:"id,omitempty"`
	SpriteName          string   `json:"sprite_name"`
	BoneName            *string  `json:"bone_name"`
	OffsetX             float64  `json:"offset_x"`
	OffsetY             float64  `json:"offset_y"`
	Rotation            *float64 `json:"rotation,omitempty"`
	OffsetRotation      *float64 `json:"offset_rotation,omitempty"`
	Scale               *float64 `json:"scale,omitempty"`
	BoneAttachmentPoint string   `json:"bone_attachment_point,omitempty"`
}

type transformJSON struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotation float64  `json:"rotation"`
	Scale    *float64 `json:"scale"`
}

type keyframeJSON struct {
	Time             *float64       `json:"time"`
	Transform        *transformJSON `json:"transform"`
	Interpolation    string         `json:"interpolation,omitempty"`
	SpriteInstanceID string         `json:"sprite_instance_id,omitempty"`
}

type trackJSON struct {
	Keyframes []keyframeJSON `json:"keyframes"`
}

// documentJSON is the union of every document's top level.
type documentJSON struct {
	SpriteSheetPath string          `json:"sprite_sheet_path,omitempty"`
	Sprites         json.RawMessage `json:"sprites,omitempty"`
	Bones           json.RawMessage `json:"bones,omitempty"`
	SpriteInstances json.RawMessage `json:"sprite_instances,omitempty"`

	Duration        *float64        `json:"duration,omitempty"`
	FPS             *int            `json:"fps,omitempty"`
	AnimationTracks json.RawMessage `json:"animation_tracks,omitempty"`
	BoneTracks      json.RawMessage `json:"bone_tracks,omitempty"`
}
