package obj

import (
	"math"

	"github.com/milk9111/rig/common"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera maps rig space to the screen. PanX and PanY are the screen position
// of the rig origin; zoom changes are eased over a few frames and keep the
// point under the cursor fixed.
type Camera struct {
	PanX float64
	PanY float64

	zoom    float64
	minZoom float64
	maxZoom float64
	step    float64
	frames  int

	tween *gween.Tween
	// anchor is the screen point held still during a zoom, and the rig
	// point under it.
	anchorSX, anchorSY float64
	anchorWX, anchorWY float64
}

// NewCamera creates a camera with the given zoom limits. step is the factor
// one wheel notch applies; frames is how long a zoom change eases.
func NewCamera(zoom, minZoom, maxZoom, step float64, frames int) *Camera {
	if minZoom <= 0 {
		minZoom = 0.1
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	if step <= 1 {
		step = 1.25
	}
	c := &Camera{minZoom: minZoom, maxZoom: maxZoom, step: step, frames: frames}
	c.zoom = common.Clamp(zoom, minZoom, maxZoom)
	return c
}

// Zoom returns the current camera zoom.
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// Zooming reports whether a zoom tween is still running.
func (c *Camera) Zooming() bool {
	return c.tween != nil
}

// SetZoom jumps to z without easing.
func (c *Camera) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	c.tween = nil
	c.zoom = common.Clamp(z, c.minZoom, c.maxZoom)
}

// CenterOn places rig point (x, y) at the screen point (sx, sy).
func (c *Camera) CenterOn(x, y, sx, sy float64) {
	c.PanX = sx - x*c.zoom
	c.PanY = sy - y*c.zoom
}

// Pan shifts the view by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	c.PanX += dx
	c.PanY += dy
}

// ZoomAt starts easing toward zoom * step^notches around screen point
// (sx, sy). A zoom already running continues from its current value.
func (c *Camera) ZoomAt(sx, sy, notches float64) {
	if notches == 0 {
		return
	}
	target := common.Clamp(c.zoom*math.Pow(c.step, notches), c.minZoom, c.maxZoom)
	if target == c.zoom {
		return
	}
	c.anchorSX, c.anchorSY = sx, sy
	c.anchorWX, c.anchorWY = c.ToWorld(sx, sy)
	if c.frames <= 0 {
		c.zoom = target
		c.hold()
		return
	}
	c.tween = gween.New(float32(c.zoom), float32(target), float32(c.frames), ease.OutQuad)
}

// Update advances a running zoom by one frame.
func (c *Camera) Update() {
	if c.tween == nil {
		return
	}
	val, finished := c.tween.Update(1)
	c.zoom = common.Clamp(float64(val), c.minZoom, c.maxZoom)
	c.hold()
	if finished {
		c.tween = nil
	}
}

// hold re-pans so the anchor rig point stays under the anchor screen point.
func (c *Camera) hold() {
	c.CenterOn(c.anchorWX, c.anchorWY, c.anchorSX, c.anchorSY)
}

// ToWorld converts a screen point to rig space.
func (c *Camera) ToWorld(sx, sy float64) (float64, float64) {
	return (sx - c.PanX) / c.zoom, (sy - c.PanY) / c.zoom
}

// ToScreen converts a rig point to screen space.
func (c *Camera) ToScreen(x, y float64) (float64, float64) {
	return x*c.zoom + c.PanX, y*c.zoom + c.PanY
}
